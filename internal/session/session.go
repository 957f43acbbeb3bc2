// Package session owns the dual-cookie session contract of the gateway.
// Handlers never touch cookies directly; they go through a Manager so the
// cookie attributes and the single-identity invariant live in one place.
package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Kind distinguishes the two independent session kinds.
type Kind int

const (
	// KindUser is the customer portal session.
	KindUser Kind = iota
	// KindAdmin is the back-office session.
	KindAdmin
)

// CookieName returns the cookie carrying this session kind.
func (k Kind) CookieName() string {
	if k == KindAdmin {
		return "admin_token"
	}
	return "token"
}

// Other returns the opposite session kind.
func (k Kind) Other() Kind {
	if k == KindAdmin {
		return KindUser
	}
	return KindAdmin
}

// Manager issues, reads and clears session cookies. Tokens are opaque
// upstream bearer strings; the manager never inspects or validates them.
type Manager struct {
	ttl    time.Duration
	secure bool
}

// NewManager constructs a Manager with the configured cookie lifetime.
func NewManager(ttl time.Duration, secure bool) *Manager {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Manager{ttl: ttl, secure: secure}
}

// Token reads the bearer token for a session kind from the request cookies.
func (m *Manager) Token(c *gin.Context, kind Kind) (string, bool) {
	value, errCookie := c.Cookie(kind.CookieName())
	if errCookie != nil {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}

// Issue sets the session cookie for one kind and clears the other, so at
// most one identity kind is ever active in a browser session.
func (m *Manager) Issue(c *gin.Context, kind Kind, token string) {
	m.setCookie(c, kind.CookieName(), token, int(m.ttl.Seconds()))
	m.setCookie(c, kind.Other().CookieName(), "", -1)
}

// Clear expires the session cookie for one kind.
func (m *Manager) Clear(c *gin.Context, kind Kind) {
	m.setCookie(c, kind.CookieName(), "", -1)
}

// ClearAll expires both session cookies.
func (m *Manager) ClearAll(c *gin.Context) {
	m.setCookie(c, KindUser.CookieName(), "", -1)
	m.setCookie(c, KindAdmin.CookieName(), "", -1)
}

// setCookie writes a cookie with the fixed attribute set: httponly,
// SameSite=Lax, path "/".
func (m *Manager) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", m.secure, true)
}

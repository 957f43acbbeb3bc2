package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/recoverpay/gateway/internal/audit"
	"github.com/recoverpay/gateway/internal/cache"
	"github.com/recoverpay/gateway/internal/session"
	"github.com/recoverpay/gateway/internal/upstream"
)

// AuthHandler serves admin login, profile and logout.
type AuthHandler struct {
	api       *upstream.Client
	sessions  *session.Manager
	recorder  *audit.Recorder
	permCache *cache.PermissionCache
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(api *upstream.Client, sessions *session.Manager, recorder *audit.Recorder, permCache *cache.PermissionCache) *AuthHandler {
	return &AuthHandler{api: api, sessions: sessions, recorder: recorder, permCache: permCache}
}

// loginRequest is the admin login body.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates an admin and issues the admin session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body.")
		return
	}
	email := strings.TrimSpace(body.Email)
	password := strings.TrimSpace(body.Password)
	if email == "" || password == "" {
		respondError(c, http.StatusBadRequest, "Missing required fields: email, password.")
		return
	}

	ctx := c.Request.Context()
	adminSession, errLogin := h.api.AdminLogin(ctx, email, password)
	if errLogin != nil {
		h.recorder.Record(ctx, requestID(c), audit.ActorAdmin, email, audit.ActionAdminLoginFailed, nil)
		// A failed login never touches the session cookies.
		if apiErr, ok := upstream.AsAPIError(errLogin); ok {
			respondError(c, apiErr.Status, apiErr.Message)
			return
		}
		respondError(c, http.StatusInternalServerError, "Something went wrong. Please try again later.")
		return
	}

	// Issuing the admin session clears any stale customer cookie.
	h.sessions.Issue(c, session.KindAdmin, adminSession.Token)
	h.recorder.Record(ctx, requestID(c), audit.ActorAdmin, email, audit.ActionAdminLogin, nil)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"user": gin.H{
			"email":       adminSession.Email,
			"name":        adminSession.Name,
			"permissions": adminSession.Permissions,
		},
	})
}

// Profile resolves the admin behind the session cookie.
func (h *AuthHandler) Profile(c *gin.Context) {
	token, okToken := h.sessions.Token(c, session.KindAdmin)
	if !okToken {
		respondError(c, http.StatusUnauthorized, "Unauthorized. No admin token found.")
		return
	}
	user, errProfile := h.api.AdminProfile(c.Request.Context(), token)
	if errProfile != nil {
		relayFailure(c, h.sessions, errProfile)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user.Raw,
		"message": "Admin info fetched successfully",
	})
}

// Logout clears both session cookies and drops the token's cached grant,
// so a logged-out token cannot ride out the cache TTL.
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	if token, okToken := h.sessions.Token(c, session.KindAdmin); okToken {
		h.permCache.Invalidate(ctx, token)
	}
	h.sessions.ClearAll(c)
	h.recorder.Record(ctx, requestID(c), audit.ActorAdmin, "", audit.ActionAdminLogout, nil)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

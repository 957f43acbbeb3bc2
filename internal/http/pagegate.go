package http

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/recoverpay/gateway/internal/session"
)

// PageGateMiddleware guards page navigations by cookie presence. Protected
// sections redirect anonymous visitors to their sign-in page with the
// original path in callbackUrl, and signed-in visitors are bounced off the
// sign-in pages to their landing page. Token validity is left to the API
// routes; the gate only checks that a cookie exists.
func PageGateMiddleware(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Next()
			return
		}
		requestPath := c.Request.URL.Path
		if requestPath == "/api" || strings.HasPrefix(requestPath, "/api/") {
			c.Next()
			return
		}

		_, hasUser := sessions.Token(c, session.KindUser)
		_, hasAdmin := sessions.Token(c, session.KindAdmin)

		switch {
		case strings.HasPrefix(requestPath, "/user") && !hasUser:
			redirectTo(c, "/signin", requestPath)
		case strings.HasPrefix(requestPath, "/admin") && !hasAdmin:
			redirectTo(c, "/login", requestPath)
		case requestPath == "/signin" && hasUser:
			c.Redirect(http.StatusFound, "/user/dashboard")
			c.Abort()
		case requestPath == "/login" && hasAdmin:
			c.Redirect(http.StatusFound, "/admin")
			c.Abort()
		default:
			c.Next()
		}
	}
}

// redirectTo sends the visitor to a sign-in page, carrying the requested
// path so it can be resumed after login.
func redirectTo(c *gin.Context, signinPath, callback string) {
	target := signinPath + "?callbackUrl=" + url.QueryEscape(callback)
	c.Redirect(http.StatusFound, target)
	c.Abort()
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/recoverpay/gateway/internal/session"
	"github.com/recoverpay/gateway/internal/upstream"
)

// respondError writes the uniform failure envelope.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// relayFailure maps an upstream call failure onto the local response,
// clearing the admin cookie on a 401.
func relayFailure(c *gin.Context, sessions *session.Manager, err error) {
	if apiErr, ok := upstream.AsAPIError(err); ok {
		if apiErr.Status == http.StatusUnauthorized {
			sessions.Clear(c, session.KindAdmin)
		}
		respondError(c, apiErr.Status, apiErr.Message)
		return
	}
	log.WithError(err).Error("admin: upstream call failed")
	respondError(c, http.StatusInternalServerError, "Internal server error")
}

// sessionToken reads the admin bearer token placed in context by the
// session middleware.
func sessionToken(c *gin.Context) string {
	value, exists := c.Get("sessionToken")
	if !exists {
		return ""
	}
	token, ok := value.(string)
	if !ok {
		return ""
	}
	return token
}

// adminEmail reads the admin identity resolved by the permission
// middleware, when available.
func adminEmail(c *gin.Context) string {
	return c.GetString("adminEmail")
}

// requestID reads the request correlation ID set by the router middleware.
func requestID(c *gin.Context) string {
	return c.GetString("requestID")
}

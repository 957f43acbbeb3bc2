// Package portal registers the customer-facing routes: OTP login, scratch
// cards, payment screenshots and the activity timeline.
package portal

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/recoverpay/gateway/internal/audit"
	"github.com/recoverpay/gateway/internal/cache"
	"github.com/recoverpay/gateway/internal/http/api/portal/handlers"
	"github.com/recoverpay/gateway/internal/session"
	"github.com/recoverpay/gateway/internal/upstream"
)

// RegisterPortalRoutes wires the customer portal API under /api.
func RegisterPortalRoutes(r *gin.Engine, api *upstream.Client, sessions *session.Manager, recorder *audit.Recorder, cooldown *cache.Cooldown) {
	if r == nil || api == nil || sessions == nil {
		return
	}

	root := r.Group("/api")

	authHandler := handlers.NewAuthHandler(api, sessions, recorder, cooldown)
	root.POST("/login", authHandler.Login)
	root.GET("/login", authHandler.Current)
	root.POST("/logout", authHandler.Logout)

	authed := root.Group("")
	authed.Use(userSessionMiddleware(sessions))

	couponHandler := handlers.NewCouponHandler(api, sessions, recorder)
	authed.GET("/scratch-cards", couponHandler.List)
	authed.POST("/scratch-cards/:id/scratch", couponHandler.Scratch)
	authed.POST("/scratch-cards/:id/redeem", couponHandler.Redeem)

	screenshotHandler := handlers.NewScreenshotHandler(api, sessions, recorder)
	authed.GET("/screenshots", screenshotHandler.List)
	authed.POST("/screenshots", screenshotHandler.Upload)
	authed.DELETE("/screenshots/:id", screenshotHandler.Delete)

	timelineHandler := handlers.NewTimelineHandler(api, sessions)
	authed.GET("/timeline", timelineHandler.List)
}

// userSessionMiddleware requires the customer session cookie. The token is
// never validated locally; a missing cookie answers 401 without any
// upstream call.
func userSessionMiddleware(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, okToken := sessions.Token(c, session.KindUser)
		if !okToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized. No token found."})
			return
		}
		c.Set("sessionToken", token)
		c.Next()
	}
}

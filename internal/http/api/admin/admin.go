// Package admin registers the back-office routes. Every route behind the
// session middleware is additionally permission-gated server-side against
// the admin's module/action grants.
package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/recoverpay/gateway/internal/audit"
	"github.com/recoverpay/gateway/internal/cache"
	"github.com/recoverpay/gateway/internal/http/api/admin/handlers"
	routeperm "github.com/recoverpay/gateway/internal/http/api/admin/permissions"
	"github.com/recoverpay/gateway/internal/models"
	"github.com/recoverpay/gateway/internal/permissions"
	"github.com/recoverpay/gateway/internal/session"
	"github.com/recoverpay/gateway/internal/upstream"
	"github.com/recoverpay/gateway/internal/util"
)

// RegisterAdminRoutes wires the back-office API under /api/admin.
func RegisterAdminRoutes(r *gin.Engine, api *upstream.Client, sessions *session.Manager, recorder *audit.Recorder, permCache *cache.PermissionCache) {
	if r == nil || api == nil || sessions == nil {
		return
	}

	root := r.Group("/api/admin")

	authHandler := handlers.NewAuthHandler(api, sessions, recorder, permCache)
	root.POST("/login", authHandler.Login)
	root.GET("/login", authHandler.Profile)
	root.POST("/logout", authHandler.Logout)

	authed := root.Group("")
	authed.Use(adminSessionMiddleware(sessions))
	authed.Use(adminPermissionMiddleware(api, sessions, permCache))

	customersHandler := handlers.NewCustomersHandler(api, sessions, recorder)
	authed.GET("/customers/list", customersHandler.List)
	authed.GET("/customers/export", customersHandler.Export)
	authed.GET("/customers/:phoneNumber", customersHandler.Get)
	authed.PUT("/customers/update-payment-type", customersHandler.UpdatePaymentType)
	authed.POST("/customers/uploadCustomers", customersHandler.Upload)

	usersHandler := handlers.NewUsersHandler(api, sessions, recorder)
	authed.GET("/users/list", usersHandler.List)
	authed.POST("/users/create", usersHandler.Create)
	authed.PUT("/users/update/:id", usersHandler.Update)

	dashboardHandler := handlers.NewDashboardHandler(api, sessions)
	authed.GET("/dashboard", dashboardHandler.Get)

	auditHandler := handlers.NewAuditHandler(recorder)
	authed.GET("/audit/list", auditHandler.List)
}

// adminSessionMiddleware requires the admin session cookie. A missing
// cookie answers 401 without any upstream call.
func adminSessionMiddleware(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, okToken := sessions.Token(c, session.KindAdmin)
		if !okToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized: Admin token missing."})
			return
		}
		c.Set("sessionToken", token)
		c.Next()
	}
}

// adminPermissionMiddleware enforces the per-route capability requirement.
// The admin's permission set comes from the short-TTL cache when possible,
// otherwise from the upstream profile. Unknown routes and unresolved
// permissions deny.
func adminPermissionMiddleware(api *upstream.Client, sessions *session.Manager, permCache *cache.PermissionCache) gin.HandlerFunc {
	definitionMap := routeperm.DefinitionMap()

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		path := c.FullPath()
		if path == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Permission denied."})
			return
		}
		requirement, okRequirement := definitionMap[routeperm.Key(c.Request.Method, path)]
		if !okRequirement {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Permission denied."})
			return
		}

		token := c.GetString("sessionToken")
		ctx := c.Request.Context()

		grant, okCached := permCache.Get(ctx, token)
		if !okCached {
			profile, errProfile := api.AdminProfile(ctx, token)
			if errProfile != nil {
				if apiErr, okErr := upstream.AsAPIError(errProfile); okErr {
					if apiErr.Status == http.StatusUnauthorized {
						sessions.Clear(c, session.KindAdmin)
					}
					c.AbortWithStatusJSON(apiErr.Status, gin.H{"success": false, "message": apiErr.Message})
					return
				}
				log.WithError(errProfile).Error("admin: resolve permissions")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
				return
			}
			grant = cache.Grant{Email: profile.Email, Permissions: profile.Permissions}
			permCache.Put(ctx, token, grant)
		}
		c.Set("adminEmail", grant.Email)

		if !hasRequirement(grant.Permissions, requirement) {
			log.WithFields(log.Fields{
				"route": path,
				"token": util.MaskToken(token),
			}).Warn("admin: permission denied")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Permission denied."})
			return
		}
		c.Next()
	}
}

// hasRequirement checks a grant list against a route requirement with AND
// semantics across the required actions.
func hasRequirement(granted []models.Permission, requirement routeperm.Requirement) bool {
	return permissions.Parse(granted).Can(requirement.Module, requirement.Actions...)
}

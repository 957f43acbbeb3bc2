// Package http assembles the gin engine: shared middleware, the customer
// portal and back-office API groups, and the optional static page serving
// with its navigation gate.
package http

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/recoverpay/gateway/internal/audit"
	"github.com/recoverpay/gateway/internal/cache"
	"github.com/recoverpay/gateway/internal/config"
	"github.com/recoverpay/gateway/internal/http/api/admin"
	"github.com/recoverpay/gateway/internal/http/api/portal"
	"github.com/recoverpay/gateway/internal/session"
	"github.com/recoverpay/gateway/internal/upstream"
)

// Deps carries the constructed components the router wires together.
type Deps struct {
	API       *upstream.Client
	Sessions  *session.Manager
	Recorder  *audit.Recorder
	Cooldown  *cache.Cooldown
	PermCache *cache.PermissionCache
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(cfg config.Config, deps Deps) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestIDMiddleware())
	engine.Use(AccessLogMiddleware())
	engine.Use(cors.New(corsConfig()))

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	portal.RegisterPortalRoutes(engine, deps.API, deps.Sessions, deps.Recorder, deps.Cooldown)
	admin.RegisterAdminRoutes(engine, deps.API, deps.Sessions, deps.Recorder, deps.PermCache)

	if cfg.Server.StaticDir != "" {
		registerStaticPages(engine, cfg.Server.StaticDir, deps.Sessions)
	}
	return engine
}

// corsConfig permits credentialed cross-origin calls from any origin. The
// session rides an httponly cookie, so reflecting the origin is what lets a
// separately hosted front end talk to the gateway.
func corsConfig() cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOriginFunc = func(string) bool { return true }
	corsCfg.AllowCredentials = true
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Accept", "X-Request-Id"}
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	return corsCfg
}

// registerStaticPages serves the exported front-end pages behind the page
// gate. Unknown extensionless paths fall back to the section's index page
// so client-routed URLs resolve.
func registerStaticPages(engine *gin.Engine, dir string, sessions *session.Manager) {
	gate := PageGateMiddleware(sessions)
	engine.NoRoute(gate, func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Status(http.StatusNotFound)
			return
		}
		requestPath := c.Request.URL.Path
		if requestPath == "/api" || strings.HasPrefix(requestPath, "/api/") {
			c.Status(http.StatusNotFound)
			return
		}
		cleaned := path.Clean("/" + requestPath)
		filePath := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(cleaned, "/")))
		if info, errStat := os.Stat(filePath); errStat == nil && !info.IsDir() {
			c.File(filePath)
			return
		}
		if htmlPath := filePath + ".html"; !strings.Contains(path.Base(cleaned), ".") {
			if info, errStat := os.Stat(htmlPath); errStat == nil && !info.IsDir() {
				c.File(htmlPath)
				return
			}
		}
		indexPath := filepath.Join(dir, "index.html")
		if info, errStat := os.Stat(indexPath); errStat == nil && !info.IsDir() {
			c.File(indexPath)
			return
		}
		c.Status(http.StatusNotFound)
	})
}

// Package app boots the gateway: configuration, logging, the audit store,
// the optional Redis helpers, the upstream client and the HTTP server.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/recoverpay/gateway/internal/audit"
	"github.com/recoverpay/gateway/internal/cache"
	"github.com/recoverpay/gateway/internal/config"
	"github.com/recoverpay/gateway/internal/db"
	gatewayhttp "github.com/recoverpay/gateway/internal/http"
	"github.com/recoverpay/gateway/internal/logging"
	"github.com/recoverpay/gateway/internal/session"
	"github.com/recoverpay/gateway/internal/upstream"
)

const otpResendCooldown = 60 * time.Second

// RunServer loads configuration from configPath and serves until ctx is
// cancelled, then drains in-flight requests before returning.
func RunServer(ctx context.Context, configPath string) error {
	cfg, errLoad := config.Load(configPath)
	if errLoad != nil {
		return errLoad
	}
	logging.Setup(cfg.Log)
	gin.SetMode(gin.ReleaseMode)

	conn, errOpen := db.Open(cfg.Database.DSN)
	if errOpen != nil {
		return errOpen
	}
	if errMigrate := audit.Migrate(conn); errMigrate != nil {
		return errMigrate
	}
	recorder := audit.NewRecorder(conn)

	rdb := cache.NewRedisClient(cfg.Redis)
	cooldown := cache.NewCooldown(rdb, otpResendCooldown)
	permCache := cache.NewPermissionCache(rdb, 5*time.Minute)

	api := upstream.NewClient(cfg.Upstream)
	sessions := session.NewManager(cfg.Session.TTL, cfg.Server.SecureCookies)

	engine := gatewayhttp.NewRouter(cfg, gatewayhttp.Deps{
		API:       api,
		Sessions:  sessions,
		Recorder:  recorder,
		Cooldown:  cooldown,
		PermCache: permCache,
	})

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("gateway listening on %s, upstream %s", cfg.Server.Addr, cfg.Upstream.BaseURL)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case errServe := <-serveErr:
		if errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			return errServe
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if errShutdown := server.Shutdown(shutdownCtx); errShutdown != nil {
		log.WithError(errShutdown).Warn("app: shutdown")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	return nil
}

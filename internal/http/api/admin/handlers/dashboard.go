package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/recoverpay/gateway/internal/session"
	"github.com/recoverpay/gateway/internal/upstream"
)

// DashboardHandler serves the admin dashboard aggregate.
type DashboardHandler struct {
	api      *upstream.Client
	sessions *session.Manager
}

// NewDashboardHandler constructs a DashboardHandler.
func NewDashboardHandler(api *upstream.Client, sessions *session.Manager) *DashboardHandler {
	return &DashboardHandler{api: api, sessions: sessions}
}

// Get fetches the dashboard data from upstream.
func (h *DashboardHandler) Get(c *gin.Context) {
	data, message, errGet := h.api.Dashboard(c.Request.Context(), sessionToken(c))
	if errGet != nil {
		relayFailure(c, h.sessions, errGet)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message, "data": data})
}

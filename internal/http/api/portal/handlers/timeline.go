package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/recoverpay/gateway/internal/session"
	"github.com/recoverpay/gateway/internal/upstream"
)

// TimelineHandler serves the customer activity feed.
type TimelineHandler struct {
	api      *upstream.Client
	sessions *session.Manager
}

// NewTimelineHandler constructs a TimelineHandler.
func NewTimelineHandler(api *upstream.Client, sessions *session.Manager) *TimelineHandler {
	return &TimelineHandler{api: api, sessions: sessions}
}

// List returns the append-only timeline for the signed-in customer.
func (h *TimelineHandler) List(c *gin.Context) {
	entries, errGet := h.api.GetTimeline(c.Request.Context(), sessionToken(c))
	if errGet != nil {
		relayFailure(c, h.sessions, session.KindUser, errGet)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": entries})
}

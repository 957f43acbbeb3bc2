package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/recoverpay/gateway/internal/audit"
)

// AuditHandler lists the gateway-local audit trail.
type AuditHandler struct {
	recorder *audit.Recorder
}

// NewAuditHandler constructs an AuditHandler.
func NewAuditHandler(recorder *audit.Recorder) *AuditHandler {
	return &AuditHandler{recorder: recorder}
}

// List returns a page of audit events, newest first.
func (h *AuditHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("perPage", "10"))

	events, total, errList := h.recorder.List(c.Request.Context(), page, perPage)
	if errList != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch audit events.")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"totalRecords": total,
		"data":         events,
	})
}

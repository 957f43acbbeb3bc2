package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/recoverpay/gateway/internal/audit"
	"github.com/recoverpay/gateway/internal/session"
	"github.com/recoverpay/gateway/internal/upstream"
)

// maxScreenshotBytes caps proof-of-payment uploads at 10MB.
const maxScreenshotBytes = 10 << 20

// ScreenshotHandler serves the proof-of-payment endpoints.
type ScreenshotHandler struct {
	api      *upstream.Client
	sessions *session.Manager
	recorder *audit.Recorder
}

// NewScreenshotHandler constructs a ScreenshotHandler.
func NewScreenshotHandler(api *upstream.Client, sessions *session.Manager, recorder *audit.Recorder) *ScreenshotHandler {
	return &ScreenshotHandler{api: api, sessions: sessions, recorder: recorder}
}

// List returns the customer's uploaded screenshots.
func (h *ScreenshotHandler) List(c *gin.Context) {
	screenshots, errGet := h.api.GetScreenshots(c.Request.Context(), sessionToken(c))
	if errGet != nil {
		relayFailure(c, h.sessions, session.KindUser, errGet)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "screenshots": screenshots})
}

// Upload forwards a screenshot, re-wrapped into a fresh multipart body.
func (h *ScreenshotHandler) Upload(c *gin.Context) {
	header, errForm := c.FormFile("screenshot")
	if errForm != nil {
		respondError(c, http.StatusBadRequest, "No screenshot file provided")
		return
	}
	if header.Size > maxScreenshotBytes {
		respondError(c, http.StatusRequestEntityTooLarge, "Screenshot must be 10MB or smaller")
		return
	}
	file, errOpen := header.Open()
	if errOpen != nil {
		respondError(c, http.StatusBadRequest, "No screenshot file provided")
		return
	}
	defer func() { _ = file.Close() }()

	ctx := c.Request.Context()
	screenshot, errUpload := h.api.UploadScreenshot(ctx, sessionToken(c), header.Filename, file)
	if errUpload != nil {
		relayFailure(c, h.sessions, session.KindUser, errUpload)
		return
	}
	h.recorder.Record(ctx, requestID(c), audit.ActorCustomer, "", audit.ActionScreenshotUpload, map[string]any{
		"filename": header.Filename,
		"bytes":    header.Size,
	})
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Screenshot uploaded successfully", "screenshot": screenshot})
}

// Delete removes a screenshot. The upstream refuses once the customer is
// marked paid.
func (h *ScreenshotHandler) Delete(c *gin.Context) {
	screenshotID := strings.TrimSpace(c.Param("id"))
	if screenshotID == "" {
		respondError(c, http.StatusBadRequest, "Screenshot ID is required")
		return
	}
	ctx := c.Request.Context()
	if errDelete := h.api.DeleteScreenshot(ctx, sessionToken(c), screenshotID); errDelete != nil {
		relayFailure(c, h.sessions, session.KindUser, errDelete)
		return
	}
	h.recorder.Record(ctx, requestID(c), audit.ActorCustomer, "", audit.ActionScreenshotDelete, map[string]any{"screenshot_id": screenshotID})
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Screenshot deleted successfully"})
}

package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/recoverpay/gateway/internal/audit"
	"github.com/recoverpay/gateway/internal/session"
	"github.com/recoverpay/gateway/internal/upstream"
)

// UsersHandler serves the admin account routes.
type UsersHandler struct {
	api      *upstream.Client
	sessions *session.Manager
	recorder *audit.Recorder
}

// NewUsersHandler constructs a UsersHandler.
func NewUsersHandler(api *upstream.Client, sessions *session.Manager, recorder *audit.Recorder) *UsersHandler {
	return &UsersHandler{api: api, sessions: sessions, recorder: recorder}
}

// List passes a page of admin accounts through verbatim.
func (h *UsersHandler) List(c *gin.Context) {
	raw, status, errList := h.api.ListUsers(c.Request.Context(), sessionToken(c), c.Query("page"), c.Query("perPage"), c.Query("email"))
	if errList != nil {
		relayFailure(c, h.sessions, errList)
		return
	}
	if status == http.StatusUnauthorized {
		h.sessions.Clear(c, session.KindAdmin)
		respondError(c, http.StatusUnauthorized, "Unauthorized: Invalid or expired token")
		return
	}
	c.Data(status, "application/json", raw)
}

// createUserRequest is the account creation body.
type createUserRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Permissions any    `json:"permissions"`
}

// Create forwards an admin account creation after checking the required
// fields.
func (h *UsersHandler) Create(c *gin.Context) {
	var body createUserRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if strings.TrimSpace(body.Name) == "" || strings.TrimSpace(body.Email) == "" || strings.TrimSpace(body.Password) == "" {
		respondError(c, http.StatusBadRequest, "Missing required fields: name, email, password.")
		return
	}
	ctx := c.Request.Context()
	raw, errCreate := h.api.CreateUser(ctx, sessionToken(c), body)
	if errCreate != nil {
		relayFailure(c, h.sessions, errCreate)
		return
	}
	h.recorder.Record(ctx, requestID(c), audit.ActorAdmin, adminEmail(c), audit.ActionUserCreate, map[string]any{"email": body.Email})
	c.Data(http.StatusOK, "application/json", raw)
}

// Update forwards an admin account update. A full update requires name and
// email; a status-only toggle skips that check.
func (h *UsersHandler) Update(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("id"))
	if userID == "" {
		respondError(c, http.StatusBadRequest, "Missing required fields: name, email, or user ID.")
		return
	}
	var body map[string]any
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body.")
		return
	}
	onlyStatus, _ := body["onlyStatus"].(bool)
	if !onlyStatus {
		name, _ := body["name"].(string)
		email, _ := body["email"].(string)
		if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
			respondError(c, http.StatusBadRequest, "Missing required fields: name, email, or user ID.")
			return
		}
	}
	delete(body, "onlyStatus")
	body["_id"] = userID

	ctx := c.Request.Context()
	raw, errUpdate := h.api.UpdateUser(ctx, sessionToken(c), body)
	if errUpdate != nil {
		relayFailure(c, h.sessions, errUpdate)
		return
	}
	h.recorder.Record(ctx, requestID(c), audit.ActorAdmin, adminEmail(c), audit.ActionUserUpdate, map[string]any{"user_id": userID})
	c.Data(http.StatusOK, "application/json", raw)
}

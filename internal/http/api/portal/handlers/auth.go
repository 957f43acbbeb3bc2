package handlers

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/recoverpay/gateway/internal/audit"
	"github.com/recoverpay/gateway/internal/cache"
	"github.com/recoverpay/gateway/internal/session"
	"github.com/recoverpay/gateway/internal/upstream"
)

var (
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
	otpPattern   = regexp.MustCompile(`^[0-9]{4}$`)
)

// AuthHandler implements the OTP login flow and the customer session
// endpoints.
type AuthHandler struct {
	api      *upstream.Client
	sessions *session.Manager
	recorder *audit.Recorder
	cooldown *cache.Cooldown
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(api *upstream.Client, sessions *session.Manager, recorder *audit.Recorder, cooldown *cache.Cooldown) *AuthHandler {
	return &AuthHandler{api: api, sessions: sessions, recorder: recorder, cooldown: cooldown}
}

// loginRequest is the login body. Without an OTP the call requests one;
// with an OTP it completes the sign-in.
type loginRequest struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

// Login drives the two-step OTP flow. Phone and OTP syntax are checked
// before any upstream call is made.
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body.")
		return
	}
	phone := strings.TrimSpace(body.Phone)
	if !phonePattern.MatchString(phone) {
		respondError(c, http.StatusBadRequest, "Please enter a valid 10-digit mobile number")
		return
	}

	if strings.TrimSpace(body.OTP) == "" {
		h.sendOTP(c, phone)
		return
	}
	h.validateOTP(c, phone, strings.TrimSpace(body.OTP))
}

// sendOTP requests an OTP delivery, subject to the resend cooldown.
func (h *AuthHandler) sendOTP(c *gin.Context, phone string) {
	ctx := c.Request.Context()
	if allowed, remaining := h.cooldown.Try(ctx, "otp:"+phone); !allowed {
		seconds := int(math.Ceil(remaining.Seconds()))
		respondError(c, http.StatusTooManyRequests, fmt.Sprintf("Please wait %d seconds before requesting another OTP", seconds))
		return
	}
	if errSend := h.api.SendOTP(ctx, phone); errSend != nil {
		relayFailure(c, h.sessions, session.KindUser, errSend)
		return
	}
	h.recorder.Record(ctx, requestID(c), audit.ActorCustomer, phone, audit.ActionOTPSent, nil)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP sent successfully"})
}

// validateOTP completes the sign-in: exchange the OTP for a token, fetch the
// customer record, issue the session cookie.
func (h *AuthHandler) validateOTP(c *gin.Context, phone, otp string) {
	if !otpPattern.MatchString(otp) {
		respondError(c, http.StatusBadRequest, "Please enter a valid 4-digit OTP")
		return
	}
	ctx := c.Request.Context()
	token, errValidate := h.api.ValidateOTP(ctx, phone, otp)
	if errValidate != nil {
		relayFailure(c, h.sessions, session.KindUser, errValidate)
		return
	}

	clientRaw, errClient := h.api.GetClient(ctx, token)
	if errClient != nil {
		log.WithError(errClient).Error("portal: fetch client after otp")
		respondError(c, http.StatusInternalServerError, "Failed to fetch user details")
		return
	}

	// Issuing the user session clears any stale admin cookie.
	h.sessions.Issue(c, session.KindUser, token)
	h.recorder.Record(ctx, requestID(c), audit.ActorCustomer, phone, audit.ActionCustomerLogin, nil)

	var customerName any = false
	var clientFields struct {
		Customer string `json:"customer"`
	}
	if errUnmarshal := json.Unmarshal(clientRaw, &clientFields); errUnmarshal == nil && clientFields.Customer != "" {
		customerName = clientFields.Customer
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Login successful",
		"user":     gin.H{"phone": phone, "customer": customerName},
		"userData": clientRaw,
		"token":    token,
	})
}

// Current resolves the customer behind the session cookie.
func (h *AuthHandler) Current(c *gin.Context) {
	token, okToken := h.sessions.Token(c, session.KindUser)
	if !okToken {
		respondError(c, http.StatusUnauthorized, "Unauthorized. No token found.")
		return
	}
	clientRaw, errClient := h.api.GetClient(c.Request.Context(), token)
	if errClient != nil {
		relayFailure(c, h.sessions, session.KindUser, errClient)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": clientRaw})
}

// Logout clears the customer session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.Clear(c, session.KindUser)
	h.recorder.Record(c.Request.Context(), requestID(c), audit.ActorCustomer, "", audit.ActionCustomerLogout, nil)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

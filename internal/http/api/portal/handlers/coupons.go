package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/recoverpay/gateway/internal/audit"
	"github.com/recoverpay/gateway/internal/models"
	"github.com/recoverpay/gateway/internal/session"
	"github.com/recoverpay/gateway/internal/upstream"
)

// CouponHandler serves the scratch-card endpoints.
type CouponHandler struct {
	api      *upstream.Client
	sessions *session.Manager
	recorder *audit.Recorder
}

// NewCouponHandler constructs a CouponHandler.
func NewCouponHandler(api *upstream.Client, sessions *session.Manager, recorder *audit.Recorder) *CouponHandler {
	return &CouponHandler{api: api, sessions: sessions, recorder: recorder}
}

// List returns the customer's scratch cards. Cards violating the
// redeemed-implies-scratched invariant are repaired to their scratched form
// rather than surfaced inconsistent.
func (h *CouponHandler) List(c *gin.Context) {
	cards, errGet := h.api.GetCoupons(c.Request.Context(), sessionToken(c))
	if errGet != nil {
		relayFailure(c, h.sessions, session.KindUser, errGet)
		return
	}
	for i := range cards {
		if !cards[i].Consistent() {
			cards[i].Scratched = 1
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": cards})
}

// Scratch applies the one-way reveal to a card. A card that is already
// scratched is rejected here rather than forwarded.
func (h *CouponHandler) Scratch(c *gin.Context) {
	couponID := strings.TrimSpace(c.Param("id"))
	if couponID == "" {
		respondError(c, http.StatusBadRequest, "Coupon ID is required")
		return
	}
	ctx := c.Request.Context()
	token := sessionToken(c)
	card, errFind := h.findCard(ctx, token, couponID)
	if errFind != nil {
		relayFailure(c, h.sessions, session.KindUser, errFind)
		return
	}
	if card != nil {
		if errState := card.Scratch(); errState != nil {
			respondError(c, http.StatusBadRequest, "Card has already been scratched")
			return
		}
	}
	data, errScratch := h.api.ScratchCoupon(ctx, token, couponID)
	if errScratch != nil {
		relayFailure(c, h.sessions, session.KindUser, errScratch)
		return
	}
	h.recorder.Record(ctx, requestID(c), audit.ActorCustomer, "", audit.ActionCouponScratch, map[string]any{"coupon_id": couponID})
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Card scratched successfully", "data": data})
}

// Redeem redeems a previously scratched card. Redeeming an unscratched or
// already redeemed card is rejected here rather than forwarded.
func (h *CouponHandler) Redeem(c *gin.Context) {
	couponID := strings.TrimSpace(c.Param("id"))
	if couponID == "" {
		respondError(c, http.StatusBadRequest, "Coupon ID is required")
		return
	}
	ctx := c.Request.Context()
	token := sessionToken(c)
	card, errFind := h.findCard(ctx, token, couponID)
	if errFind != nil {
		relayFailure(c, h.sessions, session.KindUser, errFind)
		return
	}
	if card != nil {
		if errState := card.Redeem(); errState != nil {
			message := "Card has already been redeemed"
			if card.CanScratch() {
				message = "Card must be scratched before it can be redeemed"
			}
			respondError(c, http.StatusBadRequest, message)
			return
		}
	}
	data, errRedeem := h.api.RedeemCoupon(ctx, token, couponID)
	if errRedeem != nil {
		relayFailure(c, h.sessions, session.KindUser, errRedeem)
		return
	}
	h.recorder.Record(ctx, requestID(c), audit.ActorCustomer, "", audit.ActionCouponRedeem, map[string]any{"coupon_id": couponID})
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Card redeemed successfully", "data": data})
}

// findCard resolves a card from the customer's own list. A card the
// upstream does not return is left to the upstream to reject; inconsistent
// cards are read in their repaired, scratched form.
func (h *CouponHandler) findCard(ctx context.Context, token, couponID string) (*models.ScratchCard, error) {
	cards, errGet := h.api.GetCoupons(ctx, token)
	if errGet != nil {
		return nil, errGet
	}
	for i := range cards {
		if cards[i].ID != couponID {
			continue
		}
		if !cards[i].Consistent() {
			cards[i].Scratched = 1
		}
		return &cards[i], nil
	}
	return nil, nil
}

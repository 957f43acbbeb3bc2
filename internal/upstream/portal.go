package upstream

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/recoverpay/gateway/internal/models"
)

// SendOTP asks the upstream to deliver a login OTP to the phone number.
func (c *Client) SendOTP(ctx context.Context, phone string) error {
	var resp Envelope
	status, errDo := c.doJSON(ctx, http.MethodPost, "/clientAuth/login", "", map[string]string{"phone": phone}, &resp)
	if errDo != nil {
		return errDo
	}
	if status < 200 || status >= 300 || !resp.Success {
		return &APIError{Status: http.StatusBadRequest, Message: fallback(resp.Message, "Failed to send OTP")}
	}
	return nil
}

// ValidateOTP exchanges a phone/OTP pair for a bearer token.
func (c *Client) ValidateOTP(ctx context.Context, phone, otp string) (string, error) {
	var resp struct {
		Envelope
		JWTToken string `json:"jwtToken"`
	}
	if _, errDo := c.doJSON(ctx, http.MethodPost, "/clientAuth/validate-otp", "", map[string]string{"phone": phone, "otp": otp}, &resp); errDo != nil {
		return "", errDo
	}
	if !resp.Success || resp.JWTToken == "" {
		return "", &APIError{Status: http.StatusUnauthorized, Message: fallback(resp.Message, "OTP validation failed")}
	}
	return resp.JWTToken, nil
}

// GetClient fetches the authenticated customer record. Any rejection,
// whether a 401 or a 200 with success:false, maps to a local 401 so the
// caller clears the session cookie.
func (c *Client) GetClient(ctx context.Context, token string) (json.RawMessage, error) {
	var resp struct {
		Envelope
		Client json.RawMessage `json:"client"`
	}
	status, errDo := c.doJSON(ctx, http.MethodGet, "/clients/get-client", token, nil, &resp)
	if errDo != nil {
		return nil, errDo
	}
	if status == http.StatusUnauthorized || !resp.Success {
		return nil, &APIError{Status: http.StatusUnauthorized, Message: fallback(resp.Message, "Unauthorized: Invalid or expired token")}
	}
	return resp.Client, nil
}

// GetCoupons fetches the customer's scratch cards.
func (c *Client) GetCoupons(ctx context.Context, token string) ([]models.ScratchCard, error) {
	var resp struct {
		Envelope
		Coupon []models.ScratchCard `json:"coupon"`
	}
	status, errDo := c.doJSON(ctx, http.MethodGet, "/clients/get-coupon", token, nil, &resp)
	if errDo != nil {
		return nil, errDo
	}
	if status == http.StatusUnauthorized || !resp.Success {
		return nil, &APIError{Status: http.StatusUnauthorized, Message: fallback(resp.Message, "Failed to fetch user Coupon")}
	}
	return resp.Coupon, nil
}

// ScratchCoupon applies the one-way reveal to a coupon.
func (c *Client) ScratchCoupon(ctx context.Context, token, couponID string) (json.RawMessage, error) {
	var resp struct {
		Envelope
		Data json.RawMessage `json:"data"`
	}
	if _, errDo := c.doJSON(ctx, http.MethodPost, "/coupons/coupon-scratch", token, map[string]string{"coupon_id": couponID}, &resp); errDo != nil {
		return nil, errDo
	}
	if !resp.Success {
		return nil, &APIError{Status: http.StatusBadRequest, Message: fallback(resp.Message, "Failed to scratch card")}
	}
	return resp.Data, nil
}

// RedeemCoupon redeems a previously scratched coupon.
func (c *Client) RedeemCoupon(ctx context.Context, token, couponID string) (json.RawMessage, error) {
	var resp struct {
		Envelope
		Data json.RawMessage `json:"data"`
	}
	if _, errDo := c.doJSON(ctx, http.MethodPost, "/clients/coupon-redeem", token, map[string]string{"_id": couponID}, &resp); errDo != nil {
		return nil, errDo
	}
	if !resp.Success {
		return nil, &APIError{Status: http.StatusBadRequest, Message: fallback(resp.Message, "Failed to redeem card")}
	}
	return resp.Data, nil
}

// GetScreenshots lists the customer's payment screenshots.
func (c *Client) GetScreenshots(ctx context.Context, token string) ([]models.Screenshot, error) {
	var resp struct {
		Envelope
		Screenshots []models.Screenshot `json:"screen_shot"`
	}
	status, errDo := c.doJSON(ctx, http.MethodGet, "/clients/get-screenshot", token, nil, &resp)
	if errDo != nil {
		return nil, errDo
	}
	if status == http.StatusUnauthorized {
		return nil, &APIError{Status: http.StatusUnauthorized, Message: fallback(resp.Message, "Unauthorized: Invalid or expired token")}
	}
	if !resp.Success {
		return nil, &APIError{Status: http.StatusBadRequest, Message: fallback(resp.Message, "Failed to fetch screenshots")}
	}
	return resp.Screenshots, nil
}

// UploadScreenshot re-wraps the image into a fresh multipart body and
// forwards it.
func (c *Client) UploadScreenshot(ctx context.Context, token, filename string, file io.Reader) (json.RawMessage, error) {
	var resp struct {
		Envelope
		Screenshot json.RawMessage `json:"screenshot"`
	}
	status, errDo := c.postMultipart(ctx, "/clients/upload-payment-screenshot", token, "screenshot", filename, file, &resp)
	if errDo != nil {
		return nil, errDo
	}
	if status == http.StatusUnauthorized {
		return nil, &APIError{Status: http.StatusUnauthorized, Message: fallback(resp.Message, "Unauthorized: Invalid or expired token")}
	}
	if !resp.Success {
		return nil, &APIError{Status: http.StatusBadRequest, Message: fallback(resp.Message, "Failed to upload screenshot")}
	}
	return resp.Screenshot, nil
}

// DeleteScreenshot removes a screenshot while the upstream still allows it.
func (c *Client) DeleteScreenshot(ctx context.Context, token, screenshotID string) error {
	var resp Envelope
	status, errDo := c.doJSON(ctx, http.MethodDelete, "/clients/delete-screenshot/"+screenshotID, token, nil, &resp)
	if errDo != nil {
		return errDo
	}
	if status == http.StatusUnauthorized {
		return &APIError{Status: http.StatusUnauthorized, Message: fallback(resp.Message, "Unauthorized: Invalid or expired token")}
	}
	if !resp.Success {
		return &APIError{Status: http.StatusBadRequest, Message: fallback(resp.Message, "Failed to delete screenshot")}
	}
	return nil
}

// GetTimeline fetches the customer's activity feed.
func (c *Client) GetTimeline(ctx context.Context, token string) ([]models.TimelineEntry, error) {
	var resp struct {
		Envelope
		Timeline []models.TimelineEntry `json:"timeline"`
	}
	status, errDo := c.doJSON(ctx, http.MethodGet, "/clients/get-timeline", token, nil, &resp)
	if errDo != nil {
		return nil, errDo
	}
	if status == http.StatusUnauthorized || !resp.Success {
		return nil, &APIError{Status: http.StatusUnauthorized, Message: fallback(resp.Message, "Failed to fetch Timeline")}
	}
	return resp.Timeline, nil
}

package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/recoverpay/gateway/internal/models"
)

// AdminSession is the result of a successful admin login.
type AdminSession struct {
	Token       string
	Name        string
	Email       string
	Permissions []models.Permission
}

// AdminLogin authenticates an admin with email and password.
func (c *Client) AdminLogin(ctx context.Context, email, password string) (*AdminSession, error) {
	var resp struct {
		Envelope
		JWTToken    string              `json:"jwtToken"`
		Name        string              `json:"name"`
		Email       string              `json:"email"`
		Permissions []models.Permission `json:"permissions"`
	}
	if _, errDo := c.doJSON(ctx, http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": password}, &resp); errDo != nil {
		return nil, errDo
	}
	if !resp.Success || resp.JWTToken == "" {
		return nil, &APIError{Status: http.StatusUnauthorized, Message: fallback(resp.Message, "Login failed")}
	}
	return &AdminSession{Token: resp.JWTToken, Name: resp.Name, Email: resp.Email, Permissions: resp.Permissions}, nil
}

// AdminProfile resolves the admin identity behind a bearer token. Rejections
// map to 401 regardless of the upstream status convention.
func (c *Client) AdminProfile(ctx context.Context, token string) (*models.AdminUser, error) {
	var resp struct {
		Envelope
		User json.RawMessage `json:"user"`
	}
	status, errDo := c.doJSON(ctx, http.MethodGet, "/profile/profile", token, nil, &resp)
	if errDo != nil {
		return nil, errDo
	}
	if status == http.StatusUnauthorized || !resp.Success {
		return nil, &APIError{Status: http.StatusUnauthorized, Message: fallback(resp.Message, "Unauthorized: Invalid or expired token")}
	}
	var user models.AdminUser
	if errUnmarshal := json.Unmarshal(resp.User, &user); errUnmarshal != nil {
		return nil, fmt.Errorf("upstream: decode admin profile: %w", errUnmarshal)
	}
	user.Raw = resp.User
	return &user, nil
}

// Dashboard fetches the admin dashboard aggregate.
func (c *Client) Dashboard(ctx context.Context, token string) (json.RawMessage, string, error) {
	var resp struct {
		Envelope
		Data json.RawMessage `json:"data"`
	}
	status, errDo := c.doJSON(ctx, http.MethodGet, "/dashboard", token, nil, &resp)
	if errDo != nil {
		return nil, "", errDo
	}
	if status == http.StatusUnauthorized || !resp.Success {
		return nil, "", &APIError{Status: http.StatusUnauthorized, Message: fallback(resp.Message, "Unauthorized: Invalid or expired token")}
	}
	return resp.Data, fallback(resp.Message, "Dashboard data fetched successfully"), nil
}

// CustomerQuery carries the paging and filter parameters of the customer
// listing. Empty filters are omitted from the upstream query.
type CustomerQuery struct {
	Page     string
	PerPage  string
	Filter   string
	Customer string
	Phone    string
	Email    string
	Lender   string
}

// values encodes the query with the upstream defaults applied.
func (q CustomerQuery) values() url.Values {
	values := url.Values{}
	values.Set("page", fallback(q.Page, "1"))
	values.Set("perPage", fallback(q.PerPage, "10"))
	values.Set("filter", fallback(q.Filter, "-1"))
	for key, value := range map[string]string{
		"customer": q.Customer,
		"phone":    q.Phone,
		"email":    q.Email,
		"lender":   q.Lender,
	} {
		if value != "" {
			values.Set(key, value)
		}
	}
	return values
}

// ListCustomersRaw fetches a customer page and returns the upstream payload
// verbatim together with its status, for passthrough routes.
func (c *Client) ListCustomersRaw(ctx context.Context, token string, query CustomerQuery) (json.RawMessage, int, error) {
	return c.doRaw(ctx, http.MethodGet, "/customers/list?"+query.values().Encode(), token)
}

// ListCustomers fetches and decodes a customer page, for the Excel export.
func (c *Client) ListCustomers(ctx context.Context, token string, query CustomerQuery) (*models.CustomerList, error) {
	raw, status, errDo := c.ListCustomersRaw(ctx, token, query)
	if errDo != nil {
		return nil, errDo
	}
	var list models.CustomerList
	if errUnmarshal := json.Unmarshal(raw, &list); errUnmarshal != nil {
		return nil, fmt.Errorf("upstream: decode customer list: %w", errUnmarshal)
	}
	if status == http.StatusUnauthorized {
		return nil, &APIError{Status: http.StatusUnauthorized, Message: fallback(list.Message, "Unauthorized: Invalid or expired token")}
	}
	if status < 200 || status >= 300 || !list.Success {
		return nil, &APIError{Status: http.StatusBadGateway, Message: fallback(list.Message, "Failed to fetch customers")}
	}
	return &list, nil
}

// GetCustomer fetches a single customer record by phone number.
func (c *Client) GetCustomer(ctx context.Context, token, phone string) (json.RawMessage, error) {
	raw, status, errDo := c.doRaw(ctx, http.MethodGet, "/customers/"+url.PathEscape(phone), token)
	if errDo != nil {
		return nil, errDo
	}
	if status < 200 || status >= 300 {
		var resp Envelope
		_ = json.Unmarshal(raw, &resp)
		return nil, &APIError{Status: status, Message: fallback(resp.Message, "Failed to fetch customer.")}
	}
	return raw, nil
}

// UpdatePaymentType forwards a payment-type change; the upstream also mints
// the matching reward coupon.
func (c *Client) UpdatePaymentType(ctx context.Context, token string, body any) (json.RawMessage, error) {
	var resp json.RawMessage
	status, errDo := c.doJSON(ctx, http.MethodPost, "/coupons/create-coupon-update-payment", token, body, &resp)
	if errDo != nil {
		return nil, errDo
	}
	if status < 200 || status >= 300 {
		var env Envelope
		_ = json.Unmarshal(resp, &env)
		return nil, &APIError{
			Status:  status,
			Message: fallback(env.Message, fmt.Sprintf("Failed to update payment type. External API responded with status %d", status)),
		}
	}
	return resp, nil
}

// UploadResult is the upstream answer to a customer bulk import.
type UploadResult struct {
	Envelope
	MissingHeaders []string        `json:"missingHeaders"`
	ResponseTime   string          `json:"responseTime"`
	Data           json.RawMessage `json:"data"`
}

// UploadCustomers forwards a re-wrapped Excel workbook to the bulk import.
func (c *Client) UploadCustomers(ctx context.Context, token, filename string, file io.Reader) (*UploadResult, error) {
	var resp UploadResult
	status, errDo := c.postMultipart(ctx, "/customers/uploadCustomers", token, "file", filename, file, &resp)
	if errDo != nil {
		return nil, errDo
	}
	if status < 200 || status >= 300 || !resp.Success {
		localStatus := status
		if status >= 200 && status < 300 {
			localStatus = http.StatusBadRequest
		}
		apiErr := &APIError{Status: localStatus, Message: fallback(resp.Message, "Failed to upload file to backend.")}
		resp.Success = false
		return &resp, apiErr
	}
	return &resp, nil
}

// ListUsers fetches a page of admin accounts, passed through verbatim.
func (c *Client) ListUsers(ctx context.Context, token, page, perPage, email string) (json.RawMessage, int, error) {
	values := url.Values{}
	values.Set("page", fallback(page, "1"))
	values.Set("perPage", fallback(perPage, "10"))
	values.Set("email", email)
	return c.doRaw(ctx, http.MethodGet, "/users/list?"+values.Encode(), token)
}

// CreateUser forwards an admin account creation.
func (c *Client) CreateUser(ctx context.Context, token string, body any) (json.RawMessage, error) {
	var resp json.RawMessage
	status, errDo := c.doJSON(ctx, http.MethodPost, "/users/create", token, body, &resp)
	if errDo != nil {
		return nil, errDo
	}
	if status < 200 || status >= 300 {
		var env Envelope
		_ = json.Unmarshal(resp, &env)
		return nil, &APIError{Status: status, Message: fallback(env.Message, "Failed to create user.")}
	}
	return resp, nil
}

// UpdateUser forwards an admin account update.
func (c *Client) UpdateUser(ctx context.Context, token string, body any) (json.RawMessage, error) {
	var resp json.RawMessage
	status, errDo := c.doJSON(ctx, http.MethodPut, "/users/update", token, body, &resp)
	if errDo != nil {
		return nil, errDo
	}
	if status < 200 || status >= 300 {
		var env Envelope
		_ = json.Unmarshal(resp, &env)
		return nil, &APIError{Status: status, Message: fallback(env.Message, "Failed to update user.")}
	}
	return resp, nil
}

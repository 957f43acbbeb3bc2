// Package upstream is the typed client for the loan-repayment REST API that
// owns all business data. Every call carries the request context and a
// bearer token; responses follow the {success, message, ...} envelope
// convention.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/recoverpay/gateway/internal/config"
)

// maxResponseBytes bounds how much of an upstream body the gateway reads.
const maxResponseBytes = 32 << 20

// Envelope is the common response wrapper of the upstream API.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// APIError is an upstream rejection translated to the local status the
// proxy route should answer with.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("upstream: %d %s", e.Status, e.Message)
}

// AsAPIError unwraps err into an *APIError if it is one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// Client talks to the upstream API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient constructs a Client from configuration.
func NewClient(cfg config.UpstreamConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// doJSON performs a JSON request and decodes the response body into out when
// out is non-nil. It returns the upstream HTTP status; transport and decode
// failures come back as plain errors.
func (c *Client) doJSON(ctx context.Context, method, path, token string, body any, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		raw, errMarshal := json.Marshal(body)
		if errMarshal != nil {
			return 0, fmt.Errorf("upstream: encode %s %s: %w", method, path, errMarshal)
		}
		reader = bytes.NewReader(raw)
	}
	raw, status, errDo := c.do(ctx, method, path, token, "application/json", reader)
	if errDo != nil {
		return status, errDo
	}
	if out != nil && len(raw) > 0 {
		if errUnmarshal := json.Unmarshal(raw, out); errUnmarshal != nil {
			return status, fmt.Errorf("upstream: decode %s %s: %w", method, path, errUnmarshal)
		}
	}
	return status, nil
}

// doRaw performs a JSON request and returns the raw response body, for
// routes that pass the upstream payload through unchanged.
func (c *Client) doRaw(ctx context.Context, method, path, token string) (json.RawMessage, int, error) {
	return c.do(ctx, method, path, token, "application/json", nil)
}

// do executes one HTTP exchange against the upstream base URL.
func (c *Client) do(ctx context.Context, method, path, token, contentType string, body io.Reader) (json.RawMessage, int, error) {
	req, errReq := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if errReq != nil {
		return nil, 0, fmt.Errorf("upstream: build %s %s: %w", method, path, errReq)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, errDo := c.http.Do(req)
	if errDo != nil {
		return nil, 0, fmt.Errorf("upstream: %s %s: %w", method, path, errDo)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, errRead := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if errRead != nil {
		return nil, resp.StatusCode, fmt.Errorf("upstream: read %s %s: %w", method, path, errRead)
	}
	return raw, resp.StatusCode, nil
}

// postMultipart re-wraps a file into a fresh multipart body and posts it.
// The incoming stream is never forwarded verbatim.
func (c *Client) postMultipart(ctx context.Context, path, token, field, filename string, file io.Reader, out any) (int, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, errPart := writer.CreateFormFile(field, filename)
	if errPart != nil {
		return 0, fmt.Errorf("upstream: multipart %s: %w", path, errPart)
	}
	if _, errCopy := io.Copy(part, file); errCopy != nil {
		return 0, fmt.Errorf("upstream: multipart %s: %w", path, errCopy)
	}
	if errClose := writer.Close(); errClose != nil {
		return 0, fmt.Errorf("upstream: multipart %s: %w", path, errClose)
	}
	raw, status, errDo := c.do(ctx, http.MethodPost, path, token, writer.FormDataContentType(), &buf)
	if errDo != nil {
		return status, errDo
	}
	if out != nil && len(raw) > 0 {
		if errUnmarshal := json.Unmarshal(raw, out); errUnmarshal != nil {
			return status, fmt.Errorf("upstream: decode %s: %w", path, errUnmarshal)
		}
	}
	return status, nil
}

// fallback returns message unless it is blank, then alt.
func fallback(message, alt string) string {
	if strings.TrimSpace(message) != "" {
		return message
	}
	return alt
}

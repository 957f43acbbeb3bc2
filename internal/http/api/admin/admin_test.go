package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/recoverpay/gateway/internal/audit"
	"github.com/recoverpay/gateway/internal/cache"
	"github.com/recoverpay/gateway/internal/config"
	"github.com/recoverpay/gateway/internal/db"
	"github.com/recoverpay/gateway/internal/session"
	"github.com/recoverpay/gateway/internal/upstream"
)

const profilePayload = `{"success":true,"user":{"_id":"u1","name":"Ops","email":"ops@example.com","isActive":true,"permissions":%s}}`

type testEnv struct {
	router        *gin.Engine
	upstreamCalls *atomic.Int64
}

func newTestEnv(t *testing.T, upstreamHandler http.HandlerFunc) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if upstreamHandler == nil {
			t.Errorf("unexpected upstream call: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusTeapot)
			return
		}
		upstreamHandler(w, r)
	}))
	t.Cleanup(server.Close)

	api := upstream.NewClient(config.UpstreamConfig{BaseURL: server.URL, Timeout: 5 * time.Second})
	sessions := session.NewManager(time.Hour, false)
	router := gin.New()
	RegisterAdminRoutes(router, api, sessions, nil, cache.NewPermissionCache(nil, 0))

	return &testEnv{router: router, upstreamCalls: &calls}
}

func (e *testEnv) do(method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	responseRecorder := httptest.NewRecorder()
	e.router.ServeHTTP(responseRecorder, req)
	return responseRecorder
}

// profileUpstream answers the profile lookup with the given permission
// grants and everything else with a generic success.
func profileUpstream(t *testing.T, permissionsJSON string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/profile/profile":
			_, _ = w.Write([]byte(strings.ReplaceAll(profilePayload, "%s", permissionsJSON)))
		case "/dashboard":
			_, _ = w.Write([]byte(`{"success":true,"data":{"total":5},"message":"ok"}`))
		case "/customers/list":
			_, _ = w.Write([]byte(`{"success":true,"totalRecords":0,"data":[]}`))
		default:
			t.Errorf("unexpected upstream path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func TestAdminRoutesRequireCookie(t *testing.T) {
	env := newTestEnv(t, nil)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/admin/customers/list"},
		{http.MethodGet, "/api/admin/customers/export"},
		{http.MethodGet, "/api/admin/customers/9876543210"},
		{http.MethodPut, "/api/admin/customers/update-payment-type"},
		{http.MethodPost, "/api/admin/customers/uploadCustomers"},
		{http.MethodGet, "/api/admin/users/list"},
		{http.MethodPost, "/api/admin/users/create"},
		{http.MethodPut, "/api/admin/users/update/u1"},
		{http.MethodGet, "/api/admin/dashboard"},
		{http.MethodGet, "/api/admin/audit/list"},
	}
	for _, p := range paths {
		responseRecorder := env.do(p.method, p.path, "")
		if responseRecorder.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", p.method, p.path, responseRecorder.Code)
		}
	}
	if env.upstreamCalls.Load() != 0 {
		t.Fatalf("anonymous admin requests reached the upstream %d times", env.upstreamCalls.Load())
	}
}

func TestPermissionMiddlewareAllowsGrantedRoute(t *testing.T) {
	env := newTestEnv(t, profileUpstream(t, `[{"module":"Customer","actions":["read"]}]`))

	responseRecorder := env.do(http.MethodGet, "/api/admin/dashboard", "", &http.Cookie{Name: "admin_token", Value: "bearer"})
	if responseRecorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", responseRecorder.Code, responseRecorder.Body.String())
	}
}

func TestPermissionMiddlewareDeniesMissingAction(t *testing.T) {
	env := newTestEnv(t, profileUpstream(t, `[{"module":"Customer","actions":["read"]}]`))

	responseRecorder := env.do(http.MethodPut, "/api/admin/customers/update-payment-type", `{"customer_id":"x","payment_type":1}`, &http.Cookie{Name: "admin_token", Value: "bearer"})
	if responseRecorder.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", responseRecorder.Code, responseRecorder.Body.String())
	}
}

func TestPermissionMiddlewareDeniesUnknownModuleGrant(t *testing.T) {
	env := newTestEnv(t, profileUpstream(t, `[{"module":"Reports","actions":["read"]}]`))

	responseRecorder := env.do(http.MethodGet, "/api/admin/dashboard", "", &http.Cookie{Name: "admin_token", Value: "bearer"})
	if responseRecorder.Code != http.StatusForbidden {
		t.Fatalf("unknown module grant must deny, got %d", responseRecorder.Code)
	}
}

func TestPermissionMiddlewareClearsCookieOnStaleToken(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"message":"Token expired"}`))
	})

	responseRecorder := env.do(http.MethodGet, "/api/admin/dashboard", "", &http.Cookie{Name: "admin_token", Value: "stale"})
	if responseRecorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", responseRecorder.Code)
	}
	cleared := false
	for _, cookie := range responseRecorder.Result().Cookies() {
		if cookie.Name == "admin_token" && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("stale admin cookie was not cleared")
	}
}

func TestAdminLoginIssuesAdminCookie(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("unexpected upstream path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"jwtToken":"admin-bearer","name":"Ops","email":"ops@example.com","permissions":[{"module":"User","actions":["read"]}]}`))
	})

	responseRecorder := env.do(http.MethodPost, "/api/admin/login", `{"email":"ops@example.com","password":"secret"}`)
	if responseRecorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", responseRecorder.Code, responseRecorder.Body.String())
	}

	var adminCookie, userCookie *http.Cookie
	for _, cookie := range responseRecorder.Result().Cookies() {
		switch cookie.Name {
		case "admin_token":
			adminCookie = cookie
		case "token":
			userCookie = cookie
		}
	}
	if adminCookie == nil || adminCookie.Value != "admin-bearer" {
		t.Fatalf("expected admin cookie with upstream token, got %+v", adminCookie)
	}
	if userCookie == nil || userCookie.MaxAge >= 0 {
		t.Fatalf("customer cookie should be expired on admin login, got %+v", userCookie)
	}
}

func TestAdminLoginFailureLeavesCookiesUntouched(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"message":"Invalid credentials"}`))
	})

	responseRecorder := env.do(http.MethodPost, "/api/admin/login", `{"email":"ops@example.com","password":"wrong"}`)
	if responseRecorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", responseRecorder.Code)
	}
	if len(responseRecorder.Result().Cookies()) != 0 {
		t.Fatalf("failed login must not touch cookies, got %v", responseRecorder.Result().Cookies())
	}

	var body map[string]any
	if errUnmarshal := json.Unmarshal(responseRecorder.Body.Bytes(), &body); errUnmarshal != nil {
		t.Fatalf("decode response: %v", errUnmarshal)
	}
	if body["message"] != "Invalid credentials" {
		t.Fatalf("unexpected message %v", body["message"])
	}
}

func TestProfileRejectionClearsAdminCookieOnly(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false}`))
	})

	responseRecorder := env.do(http.MethodGet, "/api/admin/login", "",
		&http.Cookie{Name: "admin_token", Value: "stale"},
		&http.Cookie{Name: "token", Value: "customer-bearer"})
	if responseRecorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", responseRecorder.Code)
	}
	for _, cookie := range responseRecorder.Result().Cookies() {
		if cookie.Name == "token" {
			t.Fatal("customer cookie must not be touched by an admin profile failure")
		}
		if cookie.Name == "admin_token" && cookie.MaxAge >= 0 {
			t.Fatal("admin cookie should be expired")
		}
	}
}

func TestCustomerListPassesThroughUpstreamPayload(t *testing.T) {
	env := newTestEnv(t, profileUpstream(t, `[{"module":"Customer","actions":["read"]}]`))

	responseRecorder := env.do(http.MethodGet, "/api/admin/customers/list?page=1&perPage=10", "", &http.Cookie{Name: "admin_token", Value: "bearer"})
	if responseRecorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", responseRecorder.Code, responseRecorder.Body.String())
	}
	if responseRecorder.Body.String() != `{"success":true,"totalRecords":0,"data":[]}` {
		t.Fatalf("payload should pass through verbatim, got %s", responseRecorder.Body.String())
	}
}

func TestUpdatePaymentTypeRejectsUnknownOrdinal(t *testing.T) {
	env := newTestEnv(t, profileUpstream(t, `[{"module":"Customer","actions":["update"]}]`))

	responseRecorder := env.do(http.MethodPut, "/api/admin/customers/update-payment-type",
		`{"customer_id":"u1","payment_type":7}`, &http.Cookie{Name: "admin_token", Value: "bearer"})
	if responseRecorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", responseRecorder.Code, responseRecorder.Body.String())
	}
	var body map[string]any
	if errUnmarshal := json.Unmarshal(responseRecorder.Body.Bytes(), &body); errUnmarshal != nil {
		t.Fatalf("decode response: %v", errUnmarshal)
	}
	if body["message"] != "Invalid payment type." {
		t.Fatalf("unexpected message %v", body["message"])
	}
	// Only the profile lookup may have gone upstream.
	if env.upstreamCalls.Load() != 1 {
		t.Fatalf("expected 1 upstream call, got %d", env.upstreamCalls.Load())
	}
}

func TestUpdatePaymentTypeForwardsValidOrdinal(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/profile/profile":
			_, _ = w.Write([]byte(strings.ReplaceAll(profilePayload, "%s", `[{"module":"Customer","actions":["update"]}]`)))
		case "/coupons/create-coupon-update-payment":
			_, _ = w.Write([]byte(`{"success":true,"message":"Payment type updated"}`))
		default:
			t.Errorf("unexpected upstream path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	responseRecorder := env.do(http.MethodPut, "/api/admin/customers/update-payment-type",
		`{"customer_id":"u1","payment_type":2}`, &http.Cookie{Name: "admin_token", Value: "bearer"})
	if responseRecorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", responseRecorder.Code, responseRecorder.Body.String())
	}
	if env.upstreamCalls.Load() != 2 {
		t.Fatalf("expected profile plus update upstream, got %d calls", env.upstreamCalls.Load())
	}
}

func TestAdminLogoutClearsBothCookies(t *testing.T) {
	env := newTestEnv(t, nil)

	responseRecorder := env.do(http.MethodPost, "/api/admin/logout", "",
		&http.Cookie{Name: "admin_token", Value: "bearer"},
		&http.Cookie{Name: "token", Value: "customer"})
	if responseRecorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", responseRecorder.Code)
	}
	cleared := map[string]bool{}
	for _, cookie := range responseRecorder.Result().Cookies() {
		if cookie.MaxAge < 0 {
			cleared[cookie.Name] = true
		}
	}
	if !cleared["admin_token"] || !cleared["token"] {
		t.Fatalf("logout left cookies behind, cleared %v", cleared)
	}
}

func TestPaymentTypeAuditRecordsAdminEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	conn, errOpen := db.Open(t.TempDir() + "/audit.db")
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := audit.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	recorder := audit.NewRecorder(conn)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/profile/profile":
			_, _ = w.Write([]byte(strings.ReplaceAll(profilePayload, "%s", `[{"module":"Customer","actions":["update"]}]`)))
		case "/coupons/create-coupon-update-payment":
			_, _ = w.Write([]byte(`{"success":true,"message":"Payment type updated"}`))
		default:
			t.Errorf("unexpected upstream path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	api := upstream.NewClient(config.UpstreamConfig{BaseURL: server.URL, Timeout: 5 * time.Second})
	sessions := session.NewManager(time.Hour, false)
	router := gin.New()
	RegisterAdminRoutes(router, api, sessions, recorder, cache.NewPermissionCache(nil, 0))

	req := httptest.NewRequest(http.MethodPut, "/api/admin/customers/update-payment-type",
		strings.NewReader(`{"customer_id":"u1","payment_type":1}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "admin_token", Value: "bearer"})
	responseRecorder := httptest.NewRecorder()
	router.ServeHTTP(responseRecorder, req)
	if responseRecorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", responseRecorder.Code, responseRecorder.Body.String())
	}

	events, total, errList := recorder.List(context.Background(), 1, 10)
	if errList != nil {
		t.Fatalf("list events: %v", errList)
	}
	if total != 1 || len(events) != 1 {
		t.Fatalf("expected 1 event, got total=%d len=%d", total, len(events))
	}
	if events[0].Action != audit.ActionPaymentTypeSet {
		t.Fatalf("unexpected action %q", events[0].Action)
	}
	if events[0].Actor != "ops@example.com" {
		t.Fatalf("expected admin email as actor, got %q", events[0].Actor)
	}
}

package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRequestIDMiddlewareGeneratesID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestIDMiddleware())

	var seen string
	router.GET("/t", func(c *gin.Context) {
		seen = c.GetString("requestID")
		c.Status(http.StatusNoContent)
	})

	responseRecorder := httptest.NewRecorder()
	router.ServeHTTP(responseRecorder, httptest.NewRequest(http.MethodGet, "/t", nil))

	if seen == "" {
		t.Fatal("request id missing from context")
	}
	if responseRecorder.Header().Get("X-Request-Id") != seen {
		t.Fatalf("response header %q does not match context id %q", responseRecorder.Header().Get("X-Request-Id"), seen)
	}
}

func TestRequestIDMiddlewareHonorsCallerID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/t", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/t", nil)
	req.Header.Set("X-Request-Id", "caller-supplied")
	responseRecorder := httptest.NewRecorder()
	router.ServeHTTP(responseRecorder, req)

	if responseRecorder.Header().Get("X-Request-Id") != "caller-supplied" {
		t.Fatalf("expected caller id to be echoed, got %q", responseRecorder.Header().Get("X-Request-Id"))
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func requestIDRouter(captured *string) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/ping", func(c *gin.Context) {
		*captured = requestIDFrom(c.Request.Context())
		c.Status(http.StatusOK)
	})
	return router
}

func TestRequestIDEchoesInboundID(t *testing.T) {
	var seen string
	router := requestIDRouter(&seen)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "client-supplied-id")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get(requestIDHeader); got != "client-supplied-id" {
		t.Fatalf("want echoed id, got %q", got)
	}
	if seen != "client-supplied-id" {
		t.Fatalf("handler saw %q on the context", seen)
	}
}

func TestRequestIDMintsWhenMissing(t *testing.T) {
	var seen string
	router := requestIDRouter(&seen)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Header().Get(requestIDHeader) == "" || seen == "" {
		t.Fatal("expected a minted request id")
	}
}

// Oversized inbound ids are replaced, not truncated.
func TestRequestIDReplacesOversizedID(t *testing.T) {
	var seen string
	router := requestIDRouter(&seen)

	huge := strings.Repeat("x", maxRequestIDLen+1)
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, huge)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	got := rec.Header().Get(requestIDHeader)
	if got == huge || got == "" {
		t.Fatalf("oversized id must be replaced, got %q", got)
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newCORSRouter(origins []string) *gin.Engine {
	router := gin.New()
	router.Use(CORS(origins))
	router.GET("/ping", okHandler)
	return router
}

func corsRequest(router *gin.Engine, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/ping", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// The wildcard form never carries credentials.
func TestCORSWildcardOrigin(t *testing.T) {
	router := newCORSRouter([]string{"*"})

	rec := corsRequest(router, http.MethodGet, "https://app.example.com")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("want wildcard allow-origin, got %q", got)
	}
	if rec.Header().Get("Access-Control-Allow-Credentials") != "" {
		t.Fatal("wildcard responses must not allow credentials")
	}
}

func TestCORSExplicitOriginEchoedWithCredentials(t *testing.T) {
	router := newCORSRouter([]string{"https://admin.example.com"})

	rec := corsRequest(router, http.MethodGet, "https://admin.example.com")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://admin.example.com" {
		t.Fatalf("want echoed origin, got %q", got)
	}
	if rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatal("explicit origins allow credentials")
	}
	if rec.Header().Get("Vary") != "Origin" {
		t.Fatal("explicit origins must vary on Origin")
	}
}

func TestCORSUnknownOriginGetsNoAllowHeader(t *testing.T) {
	router := newCORSRouter([]string{"https://admin.example.com"})

	rec := corsRequest(router, http.MethodGet, "https://evil.example.com")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unknown origin must not be allowed, got %q", got)
	}
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	router := newCORSRouter([]string{"*"})

	rec := corsRequest(router, http.MethodOptions, "https://app.example.com")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("want 204 for preflight, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != corsAllowMethods {
		t.Fatalf("unexpected allow-methods %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != corsAllowHeaders {
		t.Fatalf("unexpected allow-headers %q", got)
	}
}

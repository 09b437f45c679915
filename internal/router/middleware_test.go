package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestResolveAllowedOrigin(t *testing.T) {
	cases := []struct {
		name             string
		origin           string
		allowedOrigins   []string
		allowCredentials bool
		expected         string
	}{
		{
			name:           "wildcard without credentials",
			origin:         "https://pos.example.com",
			allowedOrigins: []string{"*"},
			expected:       "*",
		},
		{
			name:             "wildcard with credentials echoes origin",
			origin:           "https://pos.example.com",
			allowedOrigins:   []string{"*"},
			allowCredentials: true,
			expected:         "https://pos.example.com",
		},
		{
			name:           "exact match",
			origin:         "https://pos.example.com",
			allowedOrigins: []string{"https://admin.example.com", "https://pos.example.com"},
			expected:       "https://pos.example.com",
		},
		{
			name:           "case insensitive match",
			origin:         "https://POS.example.com",
			allowedOrigins: []string{"https://pos.example.com"},
			expected:       "https://POS.example.com",
		},
		{
			name:           "no match",
			origin:         "https://evil.example.com",
			allowedOrigins: []string{"https://pos.example.com"},
			expected:       "",
		},
		{
			name:           "empty origin without wildcard",
			origin:         "",
			allowedOrigins: []string{"https://pos.example.com"},
			expected:       "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := resolveAllowedOrigin(tc.origin, tc.allowedOrigins, tc.allowCredentials)
			if got != tc.expected {
				t.Fatalf("resolveAllowedOrigin() = %q, want %q", got, tc.expected)
			}
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, getRequestID(c))
	})

	t.Run("generates id when missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}
		headerID := w.Header().Get(requestIDHeader)
		if headerID == "" {
			t.Fatal("expected generated request id header")
		}
		if w.Body.String() != headerID {
			t.Fatalf("context request id %q != header %q", w.Body.String(), headerID)
		}
	})

	t.Run("keeps inbound id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(requestIDHeader, "req-42")
		r.ServeHTTP(w, req)

		if got := w.Header().Get(requestIDHeader); got != "req-42" {
			t.Fatalf("request id header = %q, want %q", got, "req-42")
		}
	})
}

func TestJWTAuthMiddlewareMissingSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(JWTAuthMiddleware("", nil))
	r.GET("/protected", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestJWTAuthMiddlewareMissingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(JWTAuthMiddleware("test-secret", nil))
	r.GET("/protected", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

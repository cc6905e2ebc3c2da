package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAdminAuthMiddleware(t *testing.T) {
	called := false
	handler := AdminAuthMiddleware("secret", func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	// Missing token denied.
	req := httptest.NewRequest(http.MethodPost, "/api/reload-resume", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusUnauthorized || called {
		t.Errorf("missing token: status = %d, called = %v", rec.Code, called)
	}

	// Wrong token denied.
	req = httptest.NewRequest(http.MethodPost, "/api/reload-resume", nil)
	req.Header.Set("X-Admin-Token", "wrong")
	rec = httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusUnauthorized || called {
		t.Errorf("wrong token: status = %d, called = %v", rec.Code, called)
	}

	// Correct token passes through.
	req = httptest.NewRequest(http.MethodPost, "/api/reload-resume", nil)
	req.Header.Set("X-Admin-Token", "secret")
	rec = httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusOK || !called {
		t.Errorf("valid token: status = %d, called = %v", rec.Code, called)
	}
}

func TestAdminAuthMiddlewareEmptyConfigured(t *testing.T) {
	handler := AdminAuthMiddleware("", func(w http.ResponseWriter, r *http.Request) {
		t.Error("empty configured token must deny everything")
	})

	req := httptest.NewRequest(http.MethodPost, "/api/reload-resume", nil)
	req.Header.Set("X-Admin-Token", "")
	rec := httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:54321"

	if got := ClientIP(req); got != "10.0.0.1" {
		t.Errorf("remote addr: got %q", got)
	}

	req.Header.Set("X-Real-IP", "203.0.113.7")
	if got := ClientIP(req); got != "203.0.113.7" {
		t.Errorf("x-real-ip: got %q", got)
	}

	// Forwarded chain wins, first hop is the client.
	req.Header.Set("X-Forwarded-For", "198.51.100.4, 10.0.0.1")
	if got := ClientIP(req); got != "198.51.100.4" {
		t.Errorf("x-forwarded-for: got %q", got)
	}
}

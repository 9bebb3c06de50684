package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireInternalJobToken(t *testing.T) {
	t.Parallel()

	t.Run("unconfigured token rejects everything", func(t *testing.T) {
		t.Parallel()
		handler := RequireInternalJobToken("", okHandler())
		req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/settle", nil)
		req.Header.Set("X-Internal-Job-Token", "anything")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", rec.Code)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()
		handler := RequireInternalJobToken("secret", okHandler())
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/settle", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("mismatched token", func(t *testing.T) {
		t.Parallel()
		handler := RequireInternalJobToken("secret", okHandler())
		req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/settle", nil)
		req.Header.Set("X-Internal-Job-Token", "not-secret")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("matching token passes through", func(t *testing.T) {
		t.Parallel()
		handler := RequireInternalJobToken("secret", okHandler())
		req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/settle", nil)
		req.Header.Set("X-Internal-Job-Token", "secret")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}

func TestCORS(t *testing.T) {
	t.Parallel()

	t.Run("wildcard", func(t *testing.T) {
		t.Parallel()
		handler := CORS([]string{"*"}, okHandler())
		req := httptest.NewRequest(http.MethodGet, "/v1/contests/weekly/pot", nil)
		req.Header.Set("Origin", "https://league.example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("Allow-Origin = %q, want *", got)
		}
	})

	t.Run("allow-listed origin is echoed", func(t *testing.T) {
		t.Parallel()
		handler := CORS([]string{"https://league.example.com"}, okHandler())
		req := httptest.NewRequest(http.MethodGet, "/v1/contests/weekly/pot", nil)
		req.Header.Set("Origin", "https://league.example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://league.example.com" {
			t.Errorf("Allow-Origin = %q, want the origin echoed", got)
		}
		if got := rec.Header().Get("Vary"); got != "Origin" {
			t.Errorf("Vary = %q, want Origin", got)
		}
	})

	t.Run("unknown origin gets no headers", func(t *testing.T) {
		t.Parallel()
		handler := CORS([]string{"https://league.example.com"}, okHandler())
		req := httptest.NewRequest(http.MethodGet, "/v1/contests/weekly/pot", nil)
		req.Header.Set("Origin", "https://evil.example.net")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Allow-Origin = %q, want empty", got)
		}
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		t.Parallel()
		handler := CORS([]string{"*"}, okHandler())
		req := httptest.NewRequest(http.MethodOptions, "/v1/entries", nil)
		req.Header.Set("Origin", "https://league.example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Errorf("preflight status = %d, want 204", rec.Code)
		}
	})

	t.Run("no origin header passes straight through", func(t *testing.T) {
		t.Parallel()
		handler := CORS([]string{"https://league.example.com"}, okHandler())
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Allow-Origin = %q, want empty", got)
		}
	})
}

func TestShouldTraceRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{"/healthz", false},
		{"/health", false},
		{"/livez", false},
		{"/readyz", false},
		{"/HEALTHZ", false},
		{"/v1/entries", true},
		{"/v1/contests/weekly/pot", true},
	}
	for _, tc := range tests {
		if got := shouldTraceRequest(tc.path); got != tc.want {
			t.Errorf("shouldTraceRequest(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

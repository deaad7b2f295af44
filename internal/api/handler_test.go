package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Health check handler tests
// ---------------------------------------------------------------------------

func TestHealthCheck_OK(t *testing.T) {
	// Build a minimal router with no DBPool (the nil path reports connected).
	deps := RouterDeps{
		AllowedOrigins: []string{"*"},
	}
	handler := NewRouter(deps)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status=ok, got %q", body["status"])
	}
	if body["database"] != "connected" {
		t.Errorf("expected database=connected, got %q", body["database"])
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %q", ct)
	}
}

// ---------------------------------------------------------------------------
// Well-known manifest tests
// ---------------------------------------------------------------------------

func TestWellKnownHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/.well-known/punchcard.json", nil)
	rec := httptest.NewRecorder()
	WellKnownHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %q", ct)
	}

	var manifest map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&manifest); err != nil {
		t.Fatalf("failed to decode manifest: %v", err)
	}

	// Verify required top-level fields.
	requiredFields := []string{"name", "description", "version", "api_base", "auth", "endpoints", "health"}
	for _, field := range requiredFields {
		if _, ok := manifest[field]; !ok {
			t.Errorf("manifest missing required field %q", field)
		}
	}

	if name, _ := manifest["name"].(string); name != "Punchcard" {
		t.Errorf("expected name=Punchcard, got %q", name)
	}
	if apiBase, _ := manifest["api_base"].(string); apiBase != "/api/v1" {
		t.Errorf("expected api_base=/api/v1, got %q", apiBase)
	}

	// Verify auth shape.
	authMap, ok := manifest["auth"].(map[string]interface{})
	if !ok {
		t.Fatal("auth field is not an object")
	}
	if authMap["type"] != "bearer" {
		t.Errorf("expected auth.type=bearer, got %v", authMap["type"])
	}

	// Verify endpoints shape.
	endpoints, ok := manifest["endpoints"].(map[string]interface{})
	if !ok {
		t.Fatal("endpoints field is not an object")
	}
	expectedEndpoints := []string{"work_sessions", "work_logs", "statistics", "teams", "tickets"}
	for _, ep := range expectedEndpoints {
		if _, ok := endpoints[ep]; !ok {
			t.Errorf("endpoints missing %q", ep)
		}
	}
}

func TestWellKnownHandler_ViaRouter(t *testing.T) {
	handler := NewRouter(RouterDeps{AllowedOrigins: []string{"*"}})

	req := httptest.NewRequest(http.MethodGet, "/.well-known/punchcard.json", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 via router, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// Authentication gating
// ---------------------------------------------------------------------------

func TestProtectedRoutesRequireSession(t *testing.T) {
	handler := NewRouter(RouterDeps{AllowedOrigins: []string{"*"}})

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/auth/me"},
		{http.MethodGet, "/api/v1/work-sessions"},
		{http.MethodGet, "/api/v1/work-sessions/active"},
		{http.MethodPost, "/api/v1/work-sessions/clock-in"},
		{http.MethodPost, "/api/v1/work-sessions/clock-out"},
		{http.MethodGet, "/api/v1/work-logs"},
		{http.MethodGet, "/api/v1/statistics"},
		{http.MethodGet, "/api/v1/teams"},
		{http.MethodPost, "/api/v1/teams"},
		{http.MethodPost, "/api/v1/teams/join"},
		{http.MethodGet, "/api/v1/teams/t1/tickets"},
		{http.MethodGet, "/api/v1/projects/p1"},
		{http.MethodPost, "/api/v1/tickets"},
		{http.MethodPost, "/api/v1/tickets/t1/start"},
		{http.MethodPost, "/api/v1/tickets/t1/pause"},
	}

	for _, tt := range protected {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rec.Code)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// CORS middleware tests
// ---------------------------------------------------------------------------

func TestCORSMiddleware(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name            string
		allowedOrigins  []string
		requestOrigin   string
		method          string
		wantStatus      int
		wantAllowOrigin string
	}{
		{
			name:            "wildcard origin",
			allowedOrigins:  []string{"*"},
			requestOrigin:   "https://app.example.com",
			method:          http.MethodGet,
			wantStatus:      http.StatusOK,
			wantAllowOrigin: "*",
		},
		{
			name:            "allowed origin echoed",
			allowedOrigins:  []string{"https://app.example.com"},
			requestOrigin:   "https://app.example.com",
			method:          http.MethodGet,
			wantStatus:      http.StatusOK,
			wantAllowOrigin: "https://app.example.com",
		},
		{
			name:            "disallowed origin gets no header",
			allowedOrigins:  []string{"https://app.example.com"},
			requestOrigin:   "https://evil.example.com",
			method:          http.MethodGet,
			wantStatus:      http.StatusOK,
			wantAllowOrigin: "",
		},
		{
			name:            "preflight short-circuits",
			allowedOrigins:  []string{"*"},
			requestOrigin:   "https://app.example.com",
			method:          http.MethodOptions,
			wantStatus:      http.StatusNoContent,
			wantAllowOrigin: "*",
		},
		{
			name:            "no origin header",
			allowedOrigins:  []string{"*"},
			requestOrigin:   "",
			method:          http.MethodGet,
			wantStatus:      http.StatusOK,
			wantAllowOrigin: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := corsMiddleware(tt.allowedOrigins)(inner)

			req := httptest.NewRequest(tt.method, "/api/v1/teams", nil)
			if tt.requestOrigin != "" {
				req.Header.Set("Origin", tt.requestOrigin)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllowOrigin {
				t.Errorf("expected Allow-Origin %q, got %q", tt.wantAllowOrigin, got)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Request ID middleware tests
// ---------------------------------------------------------------------------

func TestRequestIDMiddleware_Generated(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := requestIDMiddleware(inner)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen == "" {
		t.Fatal("expected a generated request ID in context")
	}
	if got := rec.Header().Get("X-Request-ID"); got != seen {
		t.Errorf("response header %q does not match context value %q", got, seen)
	}
}

func TestRequestIDMiddleware_Propagated(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := requestIDMiddleware(inner)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "client-supplied-id")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "client-supplied-id" {
		t.Errorf("expected propagated id, got %q", got)
	}
}

// ---------------------------------------------------------------------------
// JSON helper tests
// ---------------------------------------------------------------------------

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, http.StatusNotFound, "not_found", "ticket not found")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	var body errorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if body.Error.Code != "not_found" {
		t.Errorf("expected code not_found, got %q", body.Error.Code)
	}
	if body.Error.Message != "ticket not found" {
		t.Errorf("unexpected message %q", body.Error.Message)
	}
}

func TestReadJSON_SizeLimit(t *testing.T) {
	big := strings.Repeat("a", maxBodySize+1024)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"`+big+`"}`))

	var v struct {
		Name string `json:"name"`
	}
	if err := readJSON(req, &v); err == nil {
		t.Error("expected error decoding oversized body")
	}
}

// ---------------------------------------------------------------------------
// Date parameter tests
// ---------------------------------------------------------------------------

func TestParseDateRange(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/statistics?startDate=2026-01-01&endDate=2026-01-31", nil)
	start, end, err := parseDateRange(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Format(dateLayout) != "2026-01-01" {
		t.Errorf("unexpected start %v", start)
	}
	if end.Format(dateLayout) != "2026-01-31" {
		t.Errorf("unexpected end %v", end)
	}
}

func TestParseDateRange_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/statistics", nil)
	start, end, err := parseDateRange(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !start.IsZero() || !end.IsZero() {
		t.Errorf("expected zero times, got %v and %v", start, end)
	}
}

func TestParseDateRange_Invalid(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/statistics?startDate=31-01-2026", nil)
	if _, _, err := parseDateRange(req); err == nil {
		t.Error("expected error for malformed date")
	}
}

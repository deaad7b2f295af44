package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeSessions struct {
	users map[string]*User
	err   error
}

func (f *fakeSessions) LookupSession(_ context.Context, token string) (*User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[token], nil
}

func okHandler(t *testing.T, wantUser *User) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := UserFromContext(r.Context())
		if u == nil {
			t.Error("expected user in context")
		} else if wantUser != nil && u.ID != wantUser.ID {
			t.Errorf("expected user %q in context, got %q", wantUser.ID, u.ID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestSessionMiddleware_BearerToken(t *testing.T) {
	alice := &User{ID: "u1", Email: "alice@example.com", Name: "Alice"}
	sessions := &fakeSessions{users: map[string]*User{"tok-alice": alice}}

	handler := SessionMiddleware(sessions)(okHandler(t, alice))

	req := httptest.NewRequest(http.MethodGet, "/api/teams", nil)
	req.Header.Set("Authorization", "Bearer tok-alice")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestSessionMiddleware_Cookie(t *testing.T) {
	alice := &User{ID: "u1", Email: "alice@example.com", Name: "Alice"}
	sessions := &fakeSessions{users: map[string]*User{"tok-alice": alice}}

	handler := SessionMiddleware(sessions)(okHandler(t, alice))

	req := httptest.NewRequest(http.MethodGet, "/api/teams", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok-alice"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestSessionMiddleware_MissingToken(t *testing.T) {
	sessions := &fakeSessions{users: map[string]*User{}}
	handler := SessionMiddleware(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/teams", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestSessionMiddleware_UnknownToken(t *testing.T) {
	sessions := &fakeSessions{users: map[string]*User{}}
	handler := SessionMiddleware(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/teams", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestSessionMiddleware_LookupError(t *testing.T) {
	sessions := &fakeSessions{err: errors.New("db down")}
	handler := SessionMiddleware(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/teams", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{"bearer", "Bearer abc", "", "abc"},
		{"lowercase scheme", "bearer abc", "", "abc"},
		{"cookie only", "", "xyz", "xyz"},
		{"bearer wins over cookie", "Bearer abc", "xyz", "abc"},
		{"wrong scheme falls back to cookie", "Basic abc", "xyz", "xyz"},
		{"nothing", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tt.cookie})
			}
			if got := ExtractToken(req); got != tt.want {
				t.Errorf("ExtractToken() = %q, want %q", got, tt.want)
			}
		})
	}
}

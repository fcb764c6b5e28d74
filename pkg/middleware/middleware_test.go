package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cinephile/internal/data/entity"
	"cinephile/internal/data/repository"
	"cinephile/pkg/middleware"
	"cinephile/pkg/utils"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

const sessionCookie = "cinephile_session"

func whoAmI(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.CurrentUserFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	w.Header().Set("X-User", user.ID)
	w.Header().Set("X-Via", user.Via)
	w.WriteHeader(http.StatusOK)
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	log := zaptest.NewLogger(t)
	repo := repository.NewMemoryRepository(log)
	tokens := utils.NewTokenManager(utils.JWTConfig{Secret: "s3cret", Issuer: "cinephile", ExpiryHours: 1})

	now := time.Now()
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{ID: "sess-1", CreatedAt: now},
		UserID:     "user-session",
		Token:      "session-token-1234",
		ExpiresAt:  now.Add(time.Hour),
	}
	if err := repo.Session.Create(context.Background(), session); err != nil {
		t.Fatal(err)
	}

	jwt, _, err := tokens.Sign("user-jwt", "jwt-user")
	if err != nil {
		t.Fatal(err)
	}
	foreign, _, _ := utils.NewTokenManager(utils.JWTConfig{Secret: "other", Issuer: "cinephile"}).Sign("user-x", "x")

	handler := middleware.Authenticate(repo.Session, tokens, sessionCookie, log)(http.HandlerFunc(whoAmI))

	tests := []struct {
		name     string
		setup    func(r *http.Request)
		wantCode int
		wantUser string
		wantVia  string
	}{
		{
			name:     "no credentials",
			setup:    func(*http.Request) {},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "session cookie",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: sessionCookie, Value: session.Token})
			},
			wantCode: http.StatusOK,
			wantUser: "user-session",
			wantVia:  utils.AuthViaSession,
		},
		{
			name: "session cookie wins over bearer",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: sessionCookie, Value: session.Token})
				r.Header.Set("Authorization", "Bearer "+jwt)
			},
			wantCode: http.StatusOK,
			wantUser: "user-session",
			wantVia:  utils.AuthViaSession,
		},
		{
			name: "stale session falls back to bearer",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: sessionCookie, Value: "unknown-session"})
				r.Header.Set("Authorization", "Bearer "+jwt)
			},
			wantCode: http.StatusOK,
			wantUser: "user-jwt",
			wantVia:  utils.AuthViaToken,
		},
		{
			name: "token cookie",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: utils.TokenCookie, Value: jwt})
			},
			wantCode: http.StatusOK,
			wantUser: "user-jwt",
			wantVia:  utils.AuthViaToken,
		},
		{
			name: "wrong scheme",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Basic "+jwt)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "foreign signature",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+foreign)
			},
			wantCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if got := rec.Header().Get("X-User"); got != tt.wantUser {
				t.Errorf("user = %q, want %q", got, tt.wantUser)
			}
			if got := rec.Header().Get("X-Via"); got != tt.wantVia {
				t.Errorf("via = %q, want %q", got, tt.wantVia)
			}
		})
	}
}

func TestRevokedSessionIsRejected(t *testing.T) {
	t.Parallel()

	repo := repository.NewMemoryRepository(zap.NewNop())
	tokens := utils.NewTokenManager(utils.JWTConfig{Secret: "s3cret", Issuer: "cinephile"})

	now := time.Now()
	_ = repo.Session.Create(context.Background(), &entity.Session{
		BaseSimple: entity.BaseSimple{ID: "s", CreatedAt: now},
		UserID:     "u",
		Token:      "revoked-token-abcdef",
		ExpiresAt:  now.Add(time.Hour),
	})
	_ = repo.Session.Revoke(context.Background(), "revoked-token-abcdef")

	handler := middleware.Authenticate(repo.Session, tokens, sessionCookie, zap.NewNop())(http.HandlerFunc(whoAmI))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "revoked-token-abcdef"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRecover(t *testing.T) {
	t.Parallel()

	handler := middleware.Recover(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}

func TestCORS(t *testing.T) {
	t.Parallel()

	handler := middleware.CORS("http://localhost:5173")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/movies/top", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("Allow-Credentials = %q, want true", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/movies/top", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("foreign origin allowed: %q", got)
	}
}

package middleware

import (
	"net/http"
	"strings"

	"cinephile/internal/data/repository"
	"cinephile/pkg/utils"

	"go.uber.org/zap"
)

// Authenticate resolves the caller in order: active session cookie, then
// Authorization: Bearer JWT, then the token cookie JWT. Requests with no
// valid credential get 401.
func Authenticate(
	sessionRepo repository.SessionRepository,
	tokens *utils.TokenManager,
	sessionCookie string,
	logger *zap.Logger,
) func(http.Handler) http.Handler {
	log := logger.With(zap.String("middleware", "auth"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
				session, err := sessionRepo.FindValidSession(r.Context(), c.Value)
				if err != nil {
					log.Error("Failed to validate session",
						zap.String("session", utils.ShortToken(c.Value)),
						zap.Error(err))
					utils.ResponseInternalError(w, "Internal server error")
					return
				}
				if session != nil {
					ctx := utils.WithCurrentUser(r.Context(), utils.CurrentUser{
						ID:           session.UserID,
						Via:          utils.AuthViaSession,
						SessionToken: c.Value,
					})
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
				log.Debug("Stale session cookie", zap.String("session", utils.ShortToken(c.Value)))
			}

			token := bearerToken(r)
			if token == "" {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			claims, err := tokens.Parse(token)
			if err != nil {
				log.Warn("Rejected bearer token",
					zap.String("token", utils.ShortToken(token)),
					zap.Error(err))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx := utils.WithCurrentUser(r.Context(), utils.CurrentUser{
				ID:  claims.UserID,
				Via: utils.AuthViaToken,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}

	if c, err := r.Cookie(utils.TokenCookie); err == nil {
		return c.Value
	}
	return ""
}

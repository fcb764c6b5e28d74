package wire

import (
	"net/http"

	"cinephile/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	userHandler *adaptor.UserHandler,
	authenticate func(http.Handler) http.Handler,
) {
	r.Post("/api/auth/register", authHandler.Register)
	r.Post("/api/auth/login", authHandler.Login)

	r.With(authenticate).Get("/api/auth/me", userHandler.GetProfile)
	r.With(authenticate).Post("/api/auth/logout", authHandler.Logout)
}

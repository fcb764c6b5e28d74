package wire

import (
	"net/http"

	"cinephile/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireUser configures the caller's bookmark routes, all protected
func wireUser(r chi.Router, userHandler *adaptor.UserHandler, authenticate func(http.Handler) http.Handler) {
	r.With(authenticate).Route("/api/users/bookmarks", func(r chi.Router) {
		r.Get("/", userHandler.GetBookmarks)
		r.Post("/", userHandler.AddBookmark)
		r.Delete("/{movieId}", userHandler.RemoveBookmark)
	})
}

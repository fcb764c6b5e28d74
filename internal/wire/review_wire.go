package wire

import (
	"net/http"

	"cinephile/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireReview(r chi.Router, reviewHandler *adaptor.ReviewHandler, authenticate func(http.Handler) http.Handler) {
	r.Get("/api/reviews/movie/{movieId}", reviewHandler.GetMovieReviews)

	r.With(authenticate).Route("/api/reviews", func(r chi.Router) {
		r.Get("/", reviewHandler.GetMyReviews)
		r.Post("/", reviewHandler.CreateReview)
		r.Put("/{id}", reviewHandler.UpdateReview)
		r.Delete("/{id}", reviewHandler.DeleteReview)
	})
}

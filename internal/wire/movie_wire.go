package wire

import (
	"cinephile/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireMovie(r chi.Router, movieHandler *adaptor.MovieHandler) {
	r.Route("/api/movies", func(r chi.Router) {
		r.Get("/search", movieHandler.SearchMovies)
		r.Get("/top", movieHandler.GetFeatured)
		r.Get("/{id}", movieHandler.GetMovie)
	})
}

package wire

import (
	"net/http"

	"cinephile/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireComment(r chi.Router, commentHandler *adaptor.CommentHandler, authenticate func(http.Handler) http.Handler) {
	// {id} is a movie id on GET and POST, a comment id on PUT and DELETE;
	// sibling routes share one param name so chi keeps a single edge
	r.Get("/api/comments/{id}", commentHandler.GetMovieComments)
	r.Get("/api/discussions/{movieId}", commentHandler.GetDiscussion)

	r.With(authenticate).Post("/api/comments/{id}", commentHandler.CreateComment)
	r.With(authenticate).Put("/api/comments/{id}", commentHandler.UpdateComment)
	r.With(authenticate).Delete("/api/comments/{id}", commentHandler.DeleteComment)
}

package adaptor

import (
	"errors"
	"net/http"

	"cinephile/internal/usecase"
	"cinephile/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type MovieHandler struct {
	service usecase.MovieService
	log     *zap.Logger
}

func NewMovieHandler(service usecase.MovieService, log *zap.Logger) *MovieHandler {
	return &MovieHandler{
		service: service,
		log:     log.With(zap.String("handler", "movie")),
	}
}

// SearchMovies handles GET /api/movies/search?query=
// The body is the bare {"Search": [...]} object, never an error.
func (h *MovieHandler) SearchMovies(w http.ResponseWriter, r *http.Request) {
	result := h.service.SearchMovies(r.Context(), r.URL.Query().Get("query"))
	utils.WriteJSON(w, http.StatusOK, result)
}

// GetFeatured handles GET /api/movies/top
func (h *MovieHandler) GetFeatured(w http.ResponseWriter, r *http.Request) {
	featured, err := h.service.GetFeatured(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "get featured movies")
		return
	}

	utils.ResponseSuccess(w, "success", featured)
}

// GetMovie handles GET /api/movies/{id}
func (h *MovieHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	movie, err := h.service.GetMovie(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err, "get movie")
		return
	}

	utils.ResponseSuccess(w, "success", movie)
}

func (h *MovieHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, utils.ErrValidation):
		utils.ResponseBadRequest(w, "Validation failed", utils.ValidationFields(err))

	case errors.Is(err, utils.ErrUpstream):
		h.log.Error(operation+" failed - movie provider", zap.Error(err))
		utils.ResponseBadGateway(w, "Movie provider unavailable")

	default:
		h.log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

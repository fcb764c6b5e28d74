package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"cinephile/internal/dto/request"
	"cinephile/internal/usecase"
	"cinephile/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CommentHandler struct {
	service usecase.CommentService
	log     *zap.Logger
}

func NewCommentHandler(service usecase.CommentService, log *zap.Logger) *CommentHandler {
	return &CommentHandler{
		service: service,
		log:     log.With(zap.String("handler", "comment")),
	}
}

// GetMovieComments handles GET /api/comments/{id} where id is the movie
func (h *CommentHandler) GetMovieComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.service.GetMovieComments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err, "get comments")
		return
	}

	utils.ResponseSuccess(w, "success", comments)
}

// GetDiscussion handles GET /api/discussions/{movieId}
func (h *CommentHandler) GetDiscussion(w http.ResponseWriter, r *http.Request) {
	feed, err := h.service.GetDiscussion(r.Context(), chi.URLParam(r, "movieId"))
	if err != nil {
		h.handleServiceError(w, err, "get discussion")
		return
	}

	utils.ResponseSuccess(w, "success", feed)
}

// CreateComment handles POST /api/comments/{id} where id is the movie (protected)
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	comment, err := h.service.CreateComment(r.Context(), userID, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, err, "create comment")
		return
	}

	utils.ResponseCreated(w, "Comment created", comment)
}

// UpdateComment handles PUT /api/comments/{id} (protected)
func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	comment, err := h.service.UpdateComment(r.Context(), chi.URLParam(r, "id"), userID, &req)
	if err != nil {
		h.handleServiceError(w, err, "update comment")
		return
	}

	utils.ResponseSuccess(w, "Comment updated", comment)
}

// DeleteComment handles DELETE /api/comments/{id} (protected)
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.DeleteComment(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		h.handleServiceError(w, err, "delete comment")
		return
	}

	utils.ResponseSuccess(w, "Comment deleted", nil)
}

func (h *CommentHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, utils.ErrUnauthenticated):
		h.log.Warn(operation+" rejected - unknown user", zap.Error(err))
		utils.ResponseUnauthorized(w, "Authentication required")

	case errors.Is(err, utils.ErrValidation):
		h.log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, "Validation failed", utils.ValidationFields(err))

	case errors.Is(err, utils.ErrNotFoundOrForbidden):
		h.log.Warn(operation+" failed - not found or not owner", zap.Error(err))
		utils.ResponseNotFound(w, "Comment not found")

	default:
		h.log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

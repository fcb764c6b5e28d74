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

type ReviewHandler struct {
	service usecase.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(service usecase.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log.With(zap.String("handler", "review")),
	}
}

// CreateReview handles POST /api/reviews (protected)
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	review, err := h.service.CreateReview(r.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(w, err, "create review")
		return
	}

	utils.ResponseCreated(w, "Review created", review)
}

// GetMovieReviews handles GET /api/reviews/movie/{movieId} (public)
func (h *ReviewHandler) GetMovieReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.GetMovieReviews(r.Context(), chi.URLParam(r, "movieId"))
	if err != nil {
		h.handleServiceError(w, err, "get movie reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}

// GetMyReviews handles GET /api/reviews (protected)
func (h *ReviewHandler) GetMyReviews(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	reviews, err := h.service.GetUserReviews(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err, "get my reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}

// UpdateReview handles PUT /api/reviews/{id} (protected)
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	review, err := h.service.UpdateReview(r.Context(), chi.URLParam(r, "id"), userID, &req)
	if err != nil {
		h.handleServiceError(w, err, "update review")
		return
	}

	utils.ResponseSuccess(w, "Review updated", review)
}

// DeleteReview handles DELETE /api/reviews/{id} (protected)
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.DeleteReview(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		h.handleServiceError(w, err, "delete review")
		return
	}

	utils.ResponseSuccess(w, "Review deleted", nil)
}

func (h *ReviewHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, utils.ErrUnauthenticated):
		utils.ResponseUnauthorized(w, "Authentication required")

	case errors.Is(err, utils.ErrValidation):
		h.log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, "Validation failed", utils.ValidationFields(err))

	case errors.Is(err, utils.ErrDuplicate):
		h.log.Warn(operation+" failed - duplicate", zap.Error(err))
		utils.ResponseBadRequest(w, "You have already reviewed this movie", nil)

	case errors.Is(err, utils.ErrNotFoundOrForbidden):
		h.log.Warn(operation+" failed - not found or not owner", zap.Error(err))
		utils.ResponseNotFound(w, "Review not found")

	default:
		h.log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

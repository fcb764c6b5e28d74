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

type UserHandler struct {
	service usecase.UserService
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log.With(zap.String("handler", "user")),
	}
}

// GetProfile handles GET /api/auth/me
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, "Profile retrieved successfully", profile)
}

// GetBookmarks handles GET /api/users/bookmarks
func (h *UserHandler) GetBookmarks(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookmarks, err := h.service.GetBookmarks(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err, "get bookmarks")
		return
	}

	utils.ResponseSuccess(w, "success", bookmarks)
}

// AddBookmark handles POST /api/users/bookmarks
func (h *UserHandler) AddBookmark(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.BookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	bookmarks, err := h.service.AddBookmark(r.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(w, err, "add bookmark")
		return
	}

	utils.ResponseSuccess(w, "Bookmark added", bookmarks)
}

// RemoveBookmark handles DELETE /api/users/bookmarks/{movieId}
func (h *UserHandler) RemoveBookmark(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bookmarks, err := h.service.RemoveBookmark(r.Context(), userID, chi.URLParam(r, "movieId"))
	if err != nil {
		h.handleServiceError(w, err, "remove bookmark")
		return
	}

	utils.ResponseSuccess(w, "Bookmark removed", bookmarks)
}

func (h *UserHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, utils.ErrUnauthenticated):
		h.log.Warn(operation+" failed - unknown user", zap.Error(err))
		utils.ResponseUnauthorized(w, "Authentication required")

	case errors.Is(err, utils.ErrValidation):
		h.log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, "Validation failed", utils.ValidationFields(err))

	case errors.Is(err, utils.ErrDuplicate):
		h.log.Warn(operation+" failed - duplicate", zap.Error(err))
		utils.ResponseBadRequest(w, "Movie already bookmarked", nil)

	case errors.Is(err, utils.ErrNotFoundOrForbidden):
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, "User not found")

	default:
		h.log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

package usecase

import (
	"context"
	"fmt"
	"strings"

	"cinephile/internal/data/repository"
	"cinephile/internal/dto/request"
	"cinephile/internal/dto/response"
	"cinephile/pkg/utils"

	"go.uber.org/zap"
)

// UserService serves the caller's profile and bookmark set
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*response.UserResponse, error)
	GetBookmarks(ctx context.Context, userID string) (*response.BookmarksResponse, error)
	AddBookmark(ctx context.Context, userID string, req *request.BookmarkRequest) (*response.BookmarksResponse, error)
	RemoveBookmark(ctx context.Context, userID, movieID string) (*response.BookmarksResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		log:      log.With(zap.String("service", "user")),
	}
}

func (us *userService) GetProfile(ctx context.Context, userID string) (*response.UserResponse, error) {
	user, err := us.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s no longer exists: %w", userID, utils.ErrUnauthenticated)
	}

	profile := response.UserToResponse(user)
	return &profile, nil
}

func (us *userService) GetBookmarks(ctx context.Context, userID string) (*response.BookmarksResponse, error) {
	profile, err := us.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &response.BookmarksResponse{SavedMovies: profile.SavedMovies}, nil
}

func (us *userService) AddBookmark(ctx context.Context, userID string, req *request.BookmarkRequest) (*response.BookmarksResponse, error) {
	req.MovieID = strings.TrimSpace(req.MovieID)
	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	saved, err := us.userRepo.AddSavedMovie(ctx, userID, req.MovieID)
	if err != nil {
		return nil, err
	}

	us.log.Info("Bookmark added", zap.String("user_id", userID), zap.String("movie_id", req.MovieID))
	return &response.BookmarksResponse{SavedMovies: saved}, nil
}

// RemoveBookmark succeeds whether or not movieID was saved
func (us *userService) RemoveBookmark(ctx context.Context, userID, movieID string) (*response.BookmarksResponse, error) {
	movieID = strings.TrimSpace(movieID)
	if movieID == "" {
		return nil, &utils.ValidationError{Fields: map[string]string{"movieId": "movieId is required"}}
	}

	saved, err := us.userRepo.RemoveSavedMovie(ctx, userID, movieID)
	if err != nil {
		return nil, err
	}

	us.log.Info("Bookmark removed", zap.String("user_id", userID), zap.String("movie_id", movieID))
	return &response.BookmarksResponse{SavedMovies: saved}, nil
}

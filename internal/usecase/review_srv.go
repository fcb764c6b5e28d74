package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cinephile/internal/data/entity"
	"cinephile/internal/data/repository"
	"cinephile/internal/dto/request"
	"cinephile/internal/dto/response"
	"cinephile/pkg/utils"

	"go.uber.org/zap"
)

type ReviewService interface {
	CreateReview(ctx context.Context, userID string, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	UpdateReview(ctx context.Context, reviewID, userID string, req *request.UpdateReviewRequest) (*response.ReviewResponse, error)
	DeleteReview(ctx context.Context, reviewID, userID string) error
	GetMovieReviews(ctx context.Context, movieID string) ([]response.ReviewResponse, error)
	GetUserReviews(ctx context.Context, userID string) ([]response.ReviewResponse, error)
}

type reviewService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewReviewService(repo *repository.Repository, log *zap.Logger) ReviewService {
	return &reviewService{
		repo: repo,
		log:  log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) CreateReview(ctx context.Context, userID string, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	req.MovieID = strings.TrimSpace(req.MovieID)
	req.MovieTitle = strings.TrimSpace(req.MovieTitle)
	req.Review = strings.TrimSpace(req.Review)

	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	if _, err := authorOf(ctx, s.repo.User, userID); err != nil {
		return nil, err
	}

	// fast path only; the unique index on (user_id, movie_id) is authoritative
	existing, err := s.repo.Review.FindByUserAndMovie(ctx, userID, req.MovieID)
	if err != nil {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("user %s already reviewed movie %s: %w", userID, req.MovieID, utils.ErrDuplicate)
	}

	now := time.Now()
	review := &entity.Review{
		Base: entity.Base{
			ID:        utils.GenerateUUIDString(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:     userID,
		MovieID:    req.MovieID,
		MovieTitle: req.MovieTitle,
		Rating:     req.Rating,
		Text:       req.Review,
	}

	if err := s.repo.Review.Create(ctx, review); err != nil {
		return nil, err
	}

	s.log.Info("Review created",
		zap.String("review_id", review.ID),
		zap.String("user_id", userID),
		zap.String("movie_id", review.MovieID))

	return s.withAuthor(ctx, review)
}

func (s *reviewService) UpdateReview(ctx context.Context, reviewID, userID string, req *request.UpdateReviewRequest) (*response.ReviewResponse, error) {
	req.Review = strings.TrimSpace(req.Review)
	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	review, err := s.repo.Review.FindByID(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("find review: %w", err)
	}
	if err := ownedBy(review, userID, "review", reviewID); err != nil {
		return nil, err
	}

	review.Rating = req.Rating
	review.Text = req.Review
	review.UpdatedAt = time.Now()

	if err := s.repo.Review.UpdateOwned(ctx, review); err != nil {
		return nil, err
	}

	s.log.Info("Review updated", zap.String("review_id", reviewID))
	return s.withAuthor(ctx, review)
}

func (s *reviewService) DeleteReview(ctx context.Context, reviewID, userID string) error {
	return s.repo.Review.DeleteOwned(ctx, reviewID, userID)
}

func (s *reviewService) GetMovieReviews(ctx context.Context, movieID string) ([]response.ReviewResponse, error) {
	reviews, err := s.repo.Review.FindByMovieID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("list movie reviews: %w", err)
	}
	return s.withAuthors(ctx, reviews)
}

func (s *reviewService) GetUserReviews(ctx context.Context, userID string) ([]response.ReviewResponse, error) {
	if userID == "" {
		return nil, utils.ErrUnauthenticated
	}

	reviews, err := s.repo.Review.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user reviews: %w", err)
	}
	return s.withAuthors(ctx, reviews)
}

func (s *reviewService) withAuthor(ctx context.Context, review *entity.Review) (*response.ReviewResponse, error) {
	list, err := s.withAuthors(ctx, []*entity.Review{review})
	if err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (s *reviewService) withAuthors(ctx context.Context, reviews []*entity.Review) ([]response.ReviewResponse, error) {
	return reviewResponses(ctx, s.repo.User, reviews)
}

func reviewResponses(ctx context.Context, users repository.UserRepository, reviews []*entity.Review) ([]response.ReviewResponse, error) {
	owned := make([]entity.Owned, len(reviews))
	for i, r := range reviews {
		owned[i] = r
	}

	names, err := authorNames(ctx, users, owned...)
	if err != nil {
		return nil, err
	}

	out := make([]response.ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, response.ReviewToResponse(r, names[r.UserID]))
	}
	return out, nil
}

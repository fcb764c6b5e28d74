package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"cinephile/internal/data/entity"
	"cinephile/internal/data/repository"
	"cinephile/internal/dto/request"
	"cinephile/internal/dto/response"
	"cinephile/pkg/utils"

	"go.uber.org/zap"
)

type CommentService interface {
	CreateComment(ctx context.Context, userID, movieID string, req *request.CommentRequest) (*response.CommentResponse, error)
	UpdateComment(ctx context.Context, commentID, userID string, req *request.CommentRequest) (*response.CommentResponse, error)
	DeleteComment(ctx context.Context, commentID, userID string) error
	GetMovieComments(ctx context.Context, movieID string) ([]response.CommentResponse, error)
	GetDiscussion(ctx context.Context, movieID string) ([]response.DiscussionItem, error)
}

type commentService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCommentService(repo *repository.Repository, log *zap.Logger) CommentService {
	return &commentService{
		repo: repo,
		log:  log.With(zap.String("service", "comment")),
	}
}

func (s *commentService) CreateComment(ctx context.Context, userID, movieID string, req *request.CommentRequest) (*response.CommentResponse, error) {
	movieID = strings.TrimSpace(movieID)
	req.Content = strings.TrimSpace(req.Content)

	if movieID == "" {
		return nil, &utils.ValidationError{Fields: map[string]string{"movieId": "movieId is required"}}
	}
	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	if _, err := authorOf(ctx, s.repo.User, userID); err != nil {
		return nil, err
	}

	now := time.Now()
	comment := &entity.Comment{
		Base: entity.Base{
			ID:        utils.GenerateUUIDString(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:  userID,
		MovieID: movieID,
		Content: req.Content,
	}

	if err := s.repo.Comment.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.log.Info("Comment created",
		zap.String("comment_id", comment.ID),
		zap.String("movie_id", movieID))

	return s.withAuthor(ctx, comment)
}

func (s *commentService) UpdateComment(ctx context.Context, commentID, userID string, req *request.CommentRequest) (*response.CommentResponse, error) {
	req.Content = strings.TrimSpace(req.Content)
	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	comment, err := s.repo.Comment.FindByID(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("find comment: %w", err)
	}
	if err := ownedBy(comment, userID, "comment", commentID); err != nil {
		return nil, err
	}

	comment.Content = req.Content
	comment.UpdatedAt = time.Now()

	if err := s.repo.Comment.UpdateOwned(ctx, comment); err != nil {
		return nil, err
	}
	return s.withAuthor(ctx, comment)
}

func (s *commentService) DeleteComment(ctx context.Context, commentID, userID string) error {
	return s.repo.Comment.DeleteOwned(ctx, commentID, userID)
}

func (s *commentService) GetMovieComments(ctx context.Context, movieID string) ([]response.CommentResponse, error) {
	comments, err := s.repo.Comment.FindByMovieID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("list movie comments: %w", err)
	}
	return commentResponses(ctx, s.repo.User, comments)
}

// GetDiscussion merges the reviews and comments of a movie, newest first
func (s *commentService) GetDiscussion(ctx context.Context, movieID string) ([]response.DiscussionItem, error) {
	reviews, err := s.repo.Review.FindByMovieID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("list movie reviews: %w", err)
	}
	comments, err := s.repo.Comment.FindByMovieID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("list movie comments: %w", err)
	}

	reviewResp, err := reviewResponses(ctx, s.repo.User, reviews)
	if err != nil {
		return nil, err
	}
	commentResp, err := commentResponses(ctx, s.repo.User, comments)
	if err != nil {
		return nil, err
	}

	feed := make([]response.DiscussionItem, 0, len(reviewResp)+len(commentResp))
	for i := range reviewResp {
		feed = append(feed, response.DiscussionItem{
			Type:      response.DiscussionReview,
			CreatedAt: reviewResp[i].CreatedAt,
			Review:    &reviewResp[i],
		})
	}
	for i := range commentResp {
		feed = append(feed, response.DiscussionItem{
			Type:      response.DiscussionComment,
			CreatedAt: commentResp[i].CreatedAt,
			Comment:   &commentResp[i],
		})
	}

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].CreatedAt.After(feed[j].CreatedAt)
	})
	return feed, nil
}

func (s *commentService) withAuthor(ctx context.Context, comment *entity.Comment) (*response.CommentResponse, error) {
	list, err := commentResponses(ctx, s.repo.User, []*entity.Comment{comment})
	if err != nil {
		return nil, err
	}
	return &list[0], nil
}

func commentResponses(ctx context.Context, users repository.UserRepository, comments []*entity.Comment) ([]response.CommentResponse, error) {
	owned := make([]entity.Owned, len(comments))
	for i, c := range comments {
		owned[i] = c
	}

	names, err := authorNames(ctx, users, owned...)
	if err != nil {
		return nil, err
	}

	out := make([]response.CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, response.CommentToResponse(c, names[c.UserID]))
	}
	return out, nil
}

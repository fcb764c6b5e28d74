package usecase

import (
	"cinephile/internal/data/repository"
	"cinephile/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	User    UserService
	Movie   MovieService
	Review  ReviewService
	Comment CommentService
}

func NewService(
	repo *repository.Repository,
	provider MovieProvider,
	tokens *utils.TokenManager,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:    NewAuthService(repo, tokens, config, log),
		User:    NewUserService(repo.User, log),
		Movie:   NewMovieService(provider, config.OMDb.Featured, log),
		Review:  NewReviewService(repo, log),
		Comment: NewCommentService(repo, log),
	}
}

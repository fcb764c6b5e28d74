package adaptor

import (
	"strings"

	"cinephile/internal/usecase"
	"cinephile/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	User    *UserHandler
	Movie   *MovieHandler
	Review  *ReviewHandler
	Comment *CommentHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, config.Session, log),
		User:    NewUserHandler(service.User, log),
		Movie:   NewMovieHandler(service.Movie, log),
		Review:  NewReviewHandler(service.Review, log),
		Comment: NewCommentHandler(service.Comment, log),
	}
}

// rootMessage drops the trailing sentinel text from a wrapped error,
// "email already registered: already exists" becomes "email already registered".
func rootMessage(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i > 0 {
		return msg[:i]
	}
	return msg
}

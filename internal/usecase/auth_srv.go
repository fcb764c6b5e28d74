package usecase

import (
	"context"
	"errors"
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

// AuthResult is what a successful register or login hands back to the
// handler: the JSON body plus the server-side session for the cookie.
type AuthResult struct {
	Response response.AuthResponse
	Session  *entity.Session
}

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest, meta request.SessionMeta) (*AuthResult, error)
	Login(ctx context.Context, req *request.LoginRequest, meta request.SessionMeta) (*AuthResult, error)
	Logout(ctx context.Context, sessionToken string) error
}

type authService struct {
	repo   *repository.Repository
	tokens *utils.TokenManager
	config *utils.Config
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	tokens *utils.TokenManager,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		tokens: tokens,
		config: config,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest, meta request.SessionMeta) (*AuthResult, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := utils.Validate(req); err != nil {
		s.log.Warn("Register validation failed", zap.Any("errors", utils.ValidationFields(err)))
		return nil, err
	}

	existing, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("email already registered: %w", utils.ErrConflict)
	}

	existing, err = s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("username already taken: %w", utils.ErrConflict)
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        utils.GenerateUUIDString(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashed,
		SavedMovies:  []string{},
	}

	// the unique indexes catch a concurrent registration that passed the checks above
	if err := s.repo.User.Create(ctx, user); err != nil {
		return nil, err
	}

	// Registration succeeded; a missing session only means bearer-only auth
	session, err := s.createSession(ctx, user.ID, meta)
	if err != nil {
		s.log.Warn("Failed to create session after register",
			zap.Error(err), zap.String("user_id", user.ID))
	}

	result, err := s.authResult(user, session)
	if err != nil {
		return nil, err
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID),
		zap.String("username", user.Username))

	return result, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest, meta request.SessionMeta) (*AuthResult, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := utils.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	// same answer for unknown email and wrong password
	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Login rejected")
		return nil, fmt.Errorf("invalid email or password: %w", utils.ErrInvalidCredentials)
	}

	session, err := s.createSession(ctx, user.ID, meta)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	result, err := s.authResult(user, session)
	if err != nil {
		return nil, err
	}

	s.log.Info("User logged in",
		zap.String("user_id", user.ID),
		zap.String("session", utils.ShortToken(session.Token)))

	return result, nil
}

// Logout revokes the session behind the cookie. Bearer tokens stay valid
// until they expire.
func (s *authService) Logout(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}

	err := s.repo.Session.Revoke(ctx, sessionToken)
	if errors.Is(err, utils.ErrNotFoundOrForbidden) {
		s.log.Debug("Session already gone", zap.String("session", utils.ShortToken(sessionToken)))
		return nil
	}
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	s.log.Info("User logged out", zap.String("session", utils.ShortToken(sessionToken)))
	return nil
}

func (s *authService) createSession(ctx context.Context, userID string, meta request.SessionMeta) (*entity.Session, error) {
	now := time.Now()
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        utils.GenerateUUIDString(),
			CreatedAt: now,
		},
		UserID:    userID,
		Token:     utils.GenerateSessionToken(),
		ExpiresAt: now.Add(s.config.JWT.TokenTTL()),
	}
	if meta.UserAgent != "" {
		session.UserAgent = &meta.UserAgent
	}
	if meta.IPAddress != "" {
		session.IPAddress = &meta.IPAddress
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *authService) authResult(user *entity.User, session *entity.Session) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Sign(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		Response: response.AuthResponse{
			Token:     token,
			ExpiresAt: expiresAt,
			User:      response.UserToResponse(user),
		},
		Session: session,
	}, nil
}

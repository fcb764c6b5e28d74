package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"cinephile/internal/data/entity"
	"cinephile/pkg/utils"

	"go.uber.org/zap"
)

// memoryStore backs every memory repository with one lock so the
// uniqueness rules of the real indexes hold across collections.
type memoryStore struct {
	mu       sync.RWMutex
	users    map[string]*entity.User
	sessions map[string]*entity.Session // keyed by token
	reviews  map[string]*entity.Review
	comments map[string]*entity.Comment
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:    make(map[string]*entity.User),
		sessions: make(map[string]*entity.Session),
		reviews:  make(map[string]*entity.Review),
		comments: make(map[string]*entity.Comment),
	}
}

func copyUser(u *entity.User) *entity.User {
	c := *u
	c.SavedMovies = append([]string{}, u.SavedMovies...)
	return &c
}

func newerFirst(a, b entity.Base) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID > b.ID
	}
	return a.CreatedAt.After(b.CreatedAt)
}

type memoryUserRepository struct {
	store *memoryStore
	log   *zap.Logger
}

func (r *memoryUserRepository) Create(_ context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.users {
		if existing.Email == user.Email {
			return fmt.Errorf("email already registered: %w", utils.ErrConflict)
		}
		if existing.Username == user.Username {
			return fmt.Errorf("username already taken: %w", utils.ErrConflict)
		}
	}

	if user.SavedMovies == nil {
		user.SavedMovies = []string{}
	}
	r.store.users[user.ID] = copyUser(user)
	r.log.Debug("User stored", zap.String("user_id", user.ID))
	return nil
}

func (r *memoryUserRepository) FindByID(_ context.Context, id string) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if u, ok := r.store.users[id]; ok {
		return copyUser(u), nil
	}
	return nil, nil
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.findBy(func(u *entity.User) bool { return u.Email == email })
}

func (r *memoryUserRepository) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	return r.findBy(func(u *entity.User) bool { return u.Username == username })
}

func (r *memoryUserRepository) findBy(match func(*entity.User) bool) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if match(u) {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepository) FindUsernames(_ context.Context, ids []string) (map[string]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	names := make(map[string]string, len(ids))
	for _, id := range ids {
		if u, ok := r.store.users[id]; ok {
			names[id] = u.Username
		}
	}
	return names, nil
}

func (r *memoryUserRepository) AddSavedMovie(_ context.Context, userID, movieID string) ([]string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, utils.ErrNotFoundOrForbidden)
	}
	if u.HasSaved(movieID) {
		return nil, fmt.Errorf("movie %s already bookmarked: %w", movieID, utils.ErrDuplicate)
	}

	u.SavedMovies = append(u.SavedMovies, movieID)
	u.UpdatedAt = time.Now()
	return append([]string{}, u.SavedMovies...), nil
}

func (r *memoryUserRepository) RemoveSavedMovie(_ context.Context, userID, movieID string) ([]string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, utils.ErrNotFoundOrForbidden)
	}

	kept := make([]string, 0, len(u.SavedMovies))
	for _, id := range u.SavedMovies {
		if id != movieID {
			kept = append(kept, id)
		}
	}
	u.SavedMovies = kept
	u.UpdatedAt = time.Now()
	return append([]string{}, kept...), nil
}

type memorySessionRepository struct {
	store *memoryStore
}

func (r *memorySessionRepository) Create(_ context.Context, session *entity.Session) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c := *session
	r.store.sessions[session.Token] = &c
	return nil
}

func (r *memorySessionRepository) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	s, ok := r.store.sessions[token]
	if !ok || !s.Active(time.Now()) {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (r *memorySessionRepository) Revoke(_ context.Context, token string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	s, ok := r.store.sessions[token]
	if !ok || s.RevokedAt != nil {
		return fmt.Errorf("session not found or already revoked: %w", utils.ErrNotFoundOrForbidden)
	}
	now := time.Now()
	s.RevokedAt = &now
	return nil
}

func (r *memorySessionRepository) CleanExpiredSessions(_ context.Context) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cutoff := time.Now().Add(-7 * 24 * time.Hour)
	var removed int64
	for token, s := range r.store.sessions {
		if s.ExpiresAt.Before(cutoff) {
			delete(r.store.sessions, token)
			removed++
		}
	}
	return removed, nil
}

type memoryReviewRepository struct {
	store *memoryStore
}

func (r *memoryReviewRepository) Create(_ context.Context, review *entity.Review) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.reviews {
		if existing.UserID == review.UserID && existing.MovieID == review.MovieID {
			return fmt.Errorf("user %s already reviewed movie %s: %w", review.UserID, review.MovieID, utils.ErrDuplicate)
		}
	}

	c := *review
	r.store.reviews[review.ID] = &c
	return nil
}

func (r *memoryReviewRepository) FindByID(_ context.Context, id string) (*entity.Review, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if rv, ok := r.store.reviews[id]; ok {
		c := *rv
		return &c, nil
	}
	return nil, nil
}

func (r *memoryReviewRepository) FindByUserAndMovie(_ context.Context, userID, movieID string) (*entity.Review, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, rv := range r.store.reviews {
		if rv.UserID == userID && rv.MovieID == movieID {
			c := *rv
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memoryReviewRepository) FindByMovieID(_ context.Context, movieID string) ([]*entity.Review, error) {
	return r.list(func(rv *entity.Review) bool { return rv.MovieID == movieID }), nil
}

func (r *memoryReviewRepository) FindByUserID(_ context.Context, userID string) ([]*entity.Review, error) {
	return r.list(func(rv *entity.Review) bool { return rv.UserID == userID }), nil
}

func (r *memoryReviewRepository) list(match func(*entity.Review) bool) []*entity.Review {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	reviews := []*entity.Review{}
	for _, rv := range r.store.reviews {
		if match(rv) {
			c := *rv
			reviews = append(reviews, &c)
		}
	}
	sort.Slice(reviews, func(i, j int) bool { return newerFirst(reviews[i].Base, reviews[j].Base) })
	return reviews
}

func (r *memoryReviewRepository) UpdateOwned(_ context.Context, review *entity.Review) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rv, ok := r.store.reviews[review.ID]
	if !ok || rv.UserID != review.UserID {
		return fmt.Errorf("review %s: %w", review.ID, utils.ErrNotFoundOrForbidden)
	}
	rv.Rating = review.Rating
	rv.Text = review.Text
	rv.UpdatedAt = review.UpdatedAt
	return nil
}

func (r *memoryReviewRepository) DeleteOwned(_ context.Context, id, userID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rv, ok := r.store.reviews[id]
	if !ok || rv.UserID != userID {
		return fmt.Errorf("review %s: %w", id, utils.ErrNotFoundOrForbidden)
	}
	delete(r.store.reviews, id)
	return nil
}

type memoryCommentRepository struct {
	store *memoryStore
}

func (r *memoryCommentRepository) Create(_ context.Context, comment *entity.Comment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c := *comment
	r.store.comments[comment.ID] = &c
	return nil
}

func (r *memoryCommentRepository) FindByID(_ context.Context, id string) (*entity.Comment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if cm, ok := r.store.comments[id]; ok {
		c := *cm
		return &c, nil
	}
	return nil, nil
}

func (r *memoryCommentRepository) FindByMovieID(_ context.Context, movieID string) ([]*entity.Comment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	comments := []*entity.Comment{}
	for _, cm := range r.store.comments {
		if cm.MovieID == movieID {
			c := *cm
			comments = append(comments, &c)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return newerFirst(comments[i].Base, comments[j].Base) })
	return comments, nil
}

func (r *memoryCommentRepository) UpdateOwned(_ context.Context, comment *entity.Comment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cm, ok := r.store.comments[comment.ID]
	if !ok || cm.UserID != comment.UserID {
		return fmt.Errorf("comment %s: %w", comment.ID, utils.ErrNotFoundOrForbidden)
	}
	cm.Content = comment.Content
	cm.UpdatedAt = comment.UpdatedAt
	return nil
}

func (r *memoryCommentRepository) DeleteOwned(_ context.Context, id, userID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cm, ok := r.store.comments[id]
	if !ok || cm.UserID != userID {
		return fmt.Errorf("comment %s: %w", id, utils.ErrNotFoundOrForbidden)
	}
	delete(r.store.comments, id)
	return nil
}

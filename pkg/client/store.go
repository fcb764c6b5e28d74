package client

import (
	"context"
	"errors"
	"sync"
)

var ErrNotLoggedIn = errors.New("not logged in")

// Store mirrors the signed-in user's state. Mutations update the local copy
// from the server's answer instead of refetching; a failed call leaves the
// local copy untouched.
type Store struct {
	api *Client

	mu        sync.RWMutex
	user      *User
	reviews   []Review
	bookmarks []string
}

func NewStore(api *Client) *Store {
	return &Store{api: api}
}

func (s *Store) Register(ctx context.Context, req RegisterRequest) error {
	auth, err := s.api.Register(ctx, req)
	if err != nil {
		return err
	}
	return s.signIn(ctx, auth)
}

func (s *Store) Login(ctx context.Context, req LoginRequest) error {
	auth, err := s.api.Login(ctx, req)
	if err != nil {
		return err
	}
	return s.signIn(ctx, auth)
}

func (s *Store) signIn(ctx context.Context, auth *Auth) error {
	s.api.SetToken(auth.Token)

	reviews, err := s.api.MyReviews(ctx)
	if err != nil {
		s.api.SetToken("")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	user := auth.User
	s.user = &user
	s.reviews = reviews
	s.bookmarks = append([]string{}, user.SavedMovies...)
	return nil
}

// Logout always clears local state; the server error, if any, is returned.
func (s *Store) Logout(ctx context.Context) error {
	err := s.api.Logout(ctx)
	s.api.SetToken("")

	s.mu.Lock()
	s.user = nil
	s.reviews = nil
	s.bookmarks = nil
	s.mu.Unlock()
	return err
}

func (s *Store) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

func (s *Store) Reviews() []Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Review{}, s.reviews...)
}

func (s *Store) Bookmarks() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.bookmarks...)
}

func (s *Store) IsBookmarked(movieID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.bookmarks {
		if id == movieID {
			return true
		}
	}
	return false
}

func (s *Store) loggedIn() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ErrNotLoggedIn
	}
	return nil
}

// AddReview prepends the created review, matching the server's newest-first order
func (s *Store) AddReview(ctx context.Context, req CreateReviewRequest) (*Review, error) {
	if err := s.loggedIn(); err != nil {
		return nil, err
	}

	created, err := s.api.CreateReview(ctx, req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.reviews = append([]Review{*created}, s.reviews...)
	s.mu.Unlock()
	return created, nil
}

func (s *Store) EditReview(ctx context.Context, id string, req UpdateReviewRequest) (*Review, error) {
	if err := s.loggedIn(); err != nil {
		return nil, err
	}

	updated, err := s.api.UpdateReview(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	for i := range s.reviews {
		if s.reviews[i].ID == id {
			s.reviews[i] = *updated
			break
		}
	}
	s.mu.Unlock()
	return updated, nil
}

func (s *Store) RemoveReview(ctx context.Context, id string) error {
	if err := s.loggedIn(); err != nil {
		return err
	}

	if err := s.api.DeleteReview(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	kept := s.reviews[:0:0]
	for _, rv := range s.reviews {
		if rv.ID != id {
			kept = append(kept, rv)
		}
	}
	s.reviews = kept
	s.mu.Unlock()
	return nil
}

func (s *Store) AddBookmark(ctx context.Context, movieID string) error {
	if err := s.loggedIn(); err != nil {
		return err
	}

	saved, err := s.api.AddBookmark(ctx, movieID)
	if err != nil {
		return err
	}
	s.setBookmarks(saved)
	return nil
}

func (s *Store) RemoveBookmark(ctx context.Context, movieID string) error {
	if err := s.loggedIn(); err != nil {
		return err
	}

	saved, err := s.api.RemoveBookmark(ctx, movieID)
	if err != nil {
		return err
	}
	s.setBookmarks(saved)
	return nil
}

func (s *Store) setBookmarks(saved []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookmarks = append([]string{}, saved...)
	if s.user != nil {
		s.user.SavedMovies = append([]string{}, saved...)
	}
}

package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"cinephile/internal/data/entity"
	"cinephile/internal/data/repository"
	"cinephile/internal/dto/request"
	"cinephile/internal/usecase"
	"cinephile/pkg/utils"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeProvider struct {
	mu       sync.Mutex
	searches int32
	results  []entity.MovieSummary
	err      error
	details  map[string]*entity.MovieDetail
}

func (f *fakeProvider) Search(_ context.Context, _ string) ([]entity.MovieSummary, error) {
	atomic.AddInt32(&f.searches, 1)
	return f.results, f.err
}

func (f *fakeProvider) Detail(_ context.Context, id string) (*entity.MovieDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.details[id]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("no such title %s: %w", id, utils.ErrUpstream)
}

func testConfig() *utils.Config {
	return &utils.Config{
		JWT: utils.JWTConfig{Secret: "test-secret", Issuer: "cinephile", ExpiryHours: 24},
	}
}

func newServices(t *testing.T, provider usecase.MovieProvider, featured ...string) (*usecase.Service, *repository.Repository) {
	t.Helper()

	log := zap.NewNop()
	cfg := testConfig()
	cfg.OMDb.Featured = featured

	repo := repository.NewMemoryRepository(log)
	tokens := utils.NewTokenManager(cfg.JWT)
	return usecase.NewService(repo, provider, tokens, cfg, log), repo
}

func register(t *testing.T, svc *usecase.Service, username string) *usecase.AuthResult {
	t.Helper()

	res, err := svc.Auth.Register(context.Background(), &request.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret123",
	}, request.SessionMeta{UserAgent: "go-test"})
	if err != nil {
		t.Fatalf("Register(%s) unexpected error: %v", username, err)
	}
	return res
}

func TestRegister(t *testing.T) {
	t.Parallel()

	svc, repo := newServices(t, &fakeProvider{})
	ctx := context.Background()

	res := register(t, svc, "alice")
	if res.Response.Token == "" || res.Response.User.Username != "alice" {
		t.Fatalf("Register() response = %+v", res.Response)
	}
	if res.Session == nil {
		t.Fatal("Register() should open a session")
	}
	if s, _ := repo.Session.FindValidSession(ctx, res.Session.Token); s == nil {
		t.Error("session not persisted")
	}

	tests := []struct {
		name    string
		req     request.RegisterRequest
		wantErr error
	}{
		{
			name:    "email taken, case-insensitive",
			req:     request.RegisterRequest{Username: "alice2", Email: "ALICE@example.com", Password: "secret123"},
			wantErr: utils.ErrConflict,
		},
		{
			name:    "username taken",
			req:     request.RegisterRequest{Username: "alice", Email: "other@example.com", Password: "secret123"},
			wantErr: utils.ErrConflict,
		},
		{
			name:    "short password",
			req:     request.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "123"},
			wantErr: utils.ErrValidation,
		},
		{
			name:    "bad email",
			req:     request.RegisterRequest{Username: "bob", Email: "not-an-email", Password: "secret123"},
			wantErr: utils.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Auth.Register(ctx, &tt.req, request.SessionMeta{})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoginAndLogout(t *testing.T) {
	t.Parallel()

	svc, repo := newServices(t, &fakeProvider{})
	ctx := context.Background()
	register(t, svc, "carol")

	for _, req := range []request.LoginRequest{
		{Email: "carol@example.com", Password: "wrong-password"},
		{Email: "nobody@example.com", Password: "secret123"},
	} {
		if _, err := svc.Auth.Login(ctx, &req, request.SessionMeta{}); !errors.Is(err, utils.ErrInvalidCredentials) {
			t.Errorf("Login(%s) error = %v, want ErrInvalidCredentials", req.Email, err)
		}
	}

	res, err := svc.Auth.Login(ctx, &request.LoginRequest{Email: " Carol@Example.com ", Password: "secret123"}, request.SessionMeta{})
	if err != nil {
		t.Fatalf("Login() unexpected error: %v", err)
	}

	claims, err := utils.NewTokenManager(testConfig().JWT).Parse(res.Response.Token)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.UserID != res.Response.User.ID {
		t.Errorf("token subject = %s, want %s", claims.UserID, res.Response.User.ID)
	}

	if err := svc.Auth.Logout(ctx, res.Session.Token); err != nil {
		t.Fatalf("Logout() unexpected error: %v", err)
	}
	if s, _ := repo.Session.FindValidSession(ctx, res.Session.Token); s != nil {
		t.Error("session still valid after logout")
	}
	if err := svc.Auth.Logout(ctx, res.Session.Token); err != nil {
		t.Errorf("second Logout() error = %v, want nil", err)
	}
}

func TestLoginRejectionKeepsEmailOutOfLogs(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)
	cfg := testConfig()
	repo := repository.NewMemoryRepository(log)
	svc := usecase.NewService(repo, &fakeProvider{}, utils.NewTokenManager(cfg.JWT), cfg, log)
	ctx := context.Background()

	register(t, svc, "dana")
	for _, req := range []request.LoginRequest{
		{Email: "dana@example.com", Password: "wrong-password"},
		{Email: "stranger@example.com", Password: "secret123"},
	} {
		if _, err := svc.Auth.Login(ctx, &req, request.SessionMeta{}); !errors.Is(err, utils.ErrInvalidCredentials) {
			t.Fatalf("Login(%s) error = %v", req.Email, err)
		}
	}

	if logs.FilterMessage("Login rejected").Len() != 2 {
		t.Errorf("expected two rejection log lines, got %d", logs.FilterMessage("Login rejected").Len())
	}
	for _, entry := range logs.All() {
		for key, value := range entry.ContextMap() {
			if str, ok := value.(string); ok && (strings.Contains(str, "stranger@") || strings.Contains(str, "dana@")) {
				t.Errorf("log %q field %s carries an email: %s", entry.Message, key, str)
			}
		}
	}
}

func TestReviewLifecycle(t *testing.T) {
	t.Parallel()

	svc, _ := newServices(t, &fakeProvider{})
	ctx := context.Background()

	a := register(t, svc, "reviewer_a").Response.User
	b := register(t, svc, "reviewer_b").Response.User

	create := func(userID string) error {
		_, err := svc.Review.CreateReview(ctx, userID, &request.CreateReviewRequest{
			MovieID:    "tt1375666",
			MovieTitle: "Inception",
			Rating:     5,
			Review:     "Mind-bending and brilliant.",
		})
		return err
	}

	if err := create(a.ID); err != nil {
		t.Fatalf("first review: %v", err)
	}
	if err := create(a.ID); !errors.Is(err, utils.ErrDuplicate) {
		t.Fatalf("second review by same user error = %v, want ErrDuplicate", err)
	}
	if err := create(b.ID); err != nil {
		t.Fatalf("review by another user: %v", err)
	}

	reviews, err := svc.Review.GetMovieReviews(ctx, "tt1375666")
	if err != nil {
		t.Fatalf("GetMovieReviews() error: %v", err)
	}
	if len(reviews) != 2 {
		t.Fatalf("GetMovieReviews() returned %d reviews, want 2", len(reviews))
	}
	if !reviews[0].CreatedAt.After(reviews[1].CreatedAt) && !reviews[0].CreatedAt.Equal(reviews[1].CreatedAt) {
		t.Error("reviews not newest first")
	}

	var bReview string
	for _, r := range reviews {
		if r.Username == "" {
			t.Errorf("review %s missing username", r.ID)
		}
		if r.UserID == b.ID {
			bReview = r.ID
		}
	}

	update := &request.UpdateReviewRequest{Rating: 1, Review: "Changed my mind entirely."}
	if _, err := svc.Review.UpdateReview(ctx, bReview, a.ID, update); !errors.Is(err, utils.ErrNotFoundOrForbidden) {
		t.Errorf("update of someone else's review error = %v, want ErrNotFoundOrForbidden", err)
	}
	if err := svc.Review.DeleteReview(ctx, bReview, a.ID); !errors.Is(err, utils.ErrNotFoundOrForbidden) {
		t.Errorf("delete of someone else's review error = %v, want ErrNotFoundOrForbidden", err)
	}
	if _, err := svc.Review.UpdateReview(ctx, "missing", b.ID, update); !errors.Is(err, utils.ErrNotFoundOrForbidden) {
		t.Errorf("update of missing review error = %v, want ErrNotFoundOrForbidden", err)
	}

	updated, err := svc.Review.UpdateReview(ctx, bReview, b.ID, update)
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Rating != 1 || !updated.Edited {
		t.Errorf("updated review = %+v", updated)
	}

	if err := svc.Review.DeleteReview(ctx, bReview, b.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}

	mine, err := svc.Review.GetUserReviews(ctx, b.ID)
	if err != nil || len(mine) != 0 {
		t.Errorf("GetUserReviews() after delete = %v, %v", mine, err)
	}
	if _, err := svc.Review.GetUserReviews(ctx, ""); !errors.Is(err, utils.ErrUnauthenticated) {
		t.Errorf("GetUserReviews(\"\") error = %v, want ErrUnauthenticated", err)
	}
}

func TestReviewValidation(t *testing.T) {
	t.Parallel()

	svc, _ := newServices(t, &fakeProvider{})
	ctx := context.Background()
	userID := register(t, svc, "validator").Response.User.ID

	tests := []struct {
		name      string
		req       request.CreateReviewRequest
		wantField string // "" means the review is accepted
	}{
		{name: "rating too high", req: request.CreateReviewRequest{MovieID: "tt1", Rating: 6, Review: "Long enough text."}, wantField: "rating"},
		{name: "rating negative", req: request.CreateReviewRequest{MovieID: "tt1", Rating: -1, Review: "Long enough text."}, wantField: "rating"},
		{name: "rating missing", req: request.CreateReviewRequest{MovieID: "tt1", Review: "Long enough text."}, wantField: "rating"},
		{name: "text too short", req: request.CreateReviewRequest{MovieID: "tt1", Rating: 3, Review: "short"}, wantField: "review"},
		{name: "text nine chars", req: request.CreateReviewRequest{MovieID: "tt1", Rating: 3, Review: "012345678"}, wantField: "review"},
		{name: "text only spaces", req: request.CreateReviewRequest{MovieID: "tt1", Rating: 3, Review: "              "}, wantField: "review"},
		{name: "text 501 chars", req: request.CreateReviewRequest{MovieID: "tt1", Rating: 3, Review: strings.Repeat("a", 501)}, wantField: "review"},
		{name: "text 501 runes", req: request.CreateReviewRequest{MovieID: "tt1", Rating: 3, Review: strings.Repeat("é", 501)}, wantField: "review"},
		{name: "movie missing", req: request.CreateReviewRequest{Rating: 3, Review: "Long enough text."}, wantField: "movieId"},
		{name: "text exactly 10", req: request.CreateReviewRequest{MovieID: "tt10", Rating: 1, Review: "0123456789"}},
		{name: "text exactly 500", req: request.CreateReviewRequest{MovieID: "tt500", Rating: 5, Review: strings.Repeat("a", 500)}},
		{name: "text 500 multibyte runes", req: request.CreateReviewRequest{MovieID: "tt500r", Rating: 5, Review: strings.Repeat("é", 500)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Review.CreateReview(ctx, userID, &tt.req)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("CreateReview() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, utils.ErrValidation) {
				t.Fatalf("CreateReview() error = %v, want ErrValidation", err)
			}
			if _, ok := utils.ValidationFields(err)[tt.wantField]; !ok {
				t.Errorf("validation fields %v missing %q", utils.ValidationFields(err), tt.wantField)
			}
		})
	}
}

func TestUpdateReviewValidation(t *testing.T) {
	t.Parallel()

	svc, _ := newServices(t, &fakeProvider{})
	ctx := context.Background()
	userID := register(t, svc, "editor").Response.User.ID

	created, err := svc.Review.CreateReview(ctx, userID, &request.CreateReviewRequest{
		MovieID: "tt0133093", Rating: 4, Review: "Red pill, blue pill.",
	})
	if err != nil {
		t.Fatalf("CreateReview() unexpected error: %v", err)
	}

	tests := []struct {
		name      string
		req       request.UpdateReviewRequest
		wantField string
	}{
		{name: "rating zero", req: request.UpdateReviewRequest{Rating: 0, Review: "Long enough text."}, wantField: "rating"},
		{name: "rating negative", req: request.UpdateReviewRequest{Rating: -3, Review: "Long enough text."}, wantField: "rating"},
		{name: "rating too high", req: request.UpdateReviewRequest{Rating: 6, Review: "Long enough text."}, wantField: "rating"},
		{name: "text too short", req: request.UpdateReviewRequest{Rating: 3, Review: "012345678"}, wantField: "review"},
		{name: "text 501 chars", req: request.UpdateReviewRequest{Rating: 3, Review: strings.Repeat("a", 501)}, wantField: "review"},
		{name: "text 500 multibyte runes", req: request.UpdateReviewRequest{Rating: 2, Review: strings.Repeat("é", 500)}},
		{name: "text exactly 10", req: request.UpdateReviewRequest{Rating: 1, Review: "0123456789"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Review.UpdateReview(ctx, created.ID, userID, &tt.req)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("UpdateReview() unexpected error: %v", err)
				}
				if got.Rating != tt.req.Rating || got.Review != tt.req.Review {
					t.Errorf("UpdateReview() = %+v", got)
				}
				return
			}
			if !errors.Is(err, utils.ErrValidation) {
				t.Fatalf("UpdateReview() error = %v, want ErrValidation", err)
			}
			if _, ok := utils.ValidationFields(err)[tt.wantField]; !ok {
				t.Errorf("validation fields %v missing %q", utils.ValidationFields(err), tt.wantField)
			}
		})
	}
}

func TestWritesRequireExistingAuthor(t *testing.T) {
	t.Parallel()

	svc, repo := newServices(t, &fakeProvider{})
	ctx := context.Background()

	_, err := svc.Review.CreateReview(ctx, "ghost-user", &request.CreateReviewRequest{
		MovieID: "tt3", Rating: 3, Review: "0123456789ab",
	})
	if !errors.Is(err, utils.ErrUnauthenticated) {
		t.Errorf("CreateReview() for unknown user error = %v, want ErrUnauthenticated", err)
	}
	if reviews, _ := repo.Review.FindByMovieID(ctx, "tt3"); len(reviews) != 0 {
		t.Errorf("review by unknown user was stored: %+v", reviews)
	}

	_, err = svc.Comment.CreateComment(ctx, "ghost-user", "tt3", &request.CommentRequest{Content: "hello"})
	if !errors.Is(err, utils.ErrUnauthenticated) {
		t.Errorf("CreateComment() for unknown user error = %v, want ErrUnauthenticated", err)
	}
	if comments, _ := repo.Comment.FindByMovieID(ctx, "tt3"); len(comments) != 0 {
		t.Errorf("comment by unknown user was stored: %+v", comments)
	}

	author := register(t, svc, "known").Response.User
	review, err := svc.Review.CreateReview(ctx, author.ID, &request.CreateReviewRequest{
		MovieID: "tt3", Rating: 3, Review: "0123456789ab",
	})
	if err != nil || review.Username != "known" {
		t.Errorf("CreateReview() = %+v, %v; want username resolved", review, err)
	}
}

func TestCommentsAndDiscussion(t *testing.T) {
	t.Parallel()

	svc, _ := newServices(t, &fakeProvider{})
	ctx := context.Background()

	owner := register(t, svc, "commenter").Response.User
	other := register(t, svc, "lurker").Response.User

	if _, err := svc.Review.CreateReview(ctx, owner.ID, &request.CreateReviewRequest{
		MovieID: "tt0133093", Rating: 4, Review: "Still holds up today.",
	}); err != nil {
		t.Fatalf("CreateReview() error: %v", err)
	}

	c, err := svc.Comment.CreateComment(ctx, owner.ID, "tt0133093", &request.CommentRequest{Content: "Red pill."})
	if err != nil {
		t.Fatalf("CreateComment() error: %v", err)
	}
	if _, err := svc.Comment.CreateComment(ctx, owner.ID, "tt0133093", &request.CommentRequest{Content: "   "}); !errors.Is(err, utils.ErrValidation) {
		t.Errorf("blank comment error = %v, want ErrValidation", err)
	}

	if _, err := svc.Comment.UpdateComment(ctx, c.ID, other.ID, &request.CommentRequest{Content: "hijack"}); !errors.Is(err, utils.ErrNotFoundOrForbidden) {
		t.Errorf("foreign update error = %v, want ErrNotFoundOrForbidden", err)
	}
	if err := svc.Comment.DeleteComment(ctx, c.ID, other.ID); !errors.Is(err, utils.ErrNotFoundOrForbidden) {
		t.Errorf("foreign delete error = %v, want ErrNotFoundOrForbidden", err)
	}

	updated, err := svc.Comment.UpdateComment(ctx, c.ID, owner.ID, &request.CommentRequest{Content: "Blue pill."})
	if err != nil || updated.Content != "Blue pill." || !updated.Edited {
		t.Fatalf("owner UpdateComment() = %+v, %v", updated, err)
	}

	feed, err := svc.Comment.GetDiscussion(ctx, "tt0133093")
	if err != nil {
		t.Fatalf("GetDiscussion() error: %v", err)
	}
	if len(feed) != 2 {
		t.Fatalf("GetDiscussion() returned %d items, want 2", len(feed))
	}

	kinds := map[string]int{}
	for i, item := range feed {
		kinds[item.Type]++
		if i > 0 && item.CreatedAt.After(feed[i-1].CreatedAt) {
			t.Error("discussion not newest first")
		}
		if (item.Review == nil) == (item.Comment == nil) {
			t.Errorf("item %d must carry exactly one payload", i)
		}
	}
	if kinds["review"] != 1 || kinds["comment"] != 1 {
		t.Errorf("discussion kinds = %v", kinds)
	}

	if err := svc.Comment.DeleteComment(ctx, c.ID, owner.ID); err != nil {
		t.Fatalf("owner DeleteComment() error: %v", err)
	}
	comments, _ := svc.Comment.GetMovieComments(ctx, "tt0133093")
	if len(comments) != 0 {
		t.Errorf("comments after delete = %d, want 0", len(comments))
	}
}

func TestBookmarks(t *testing.T) {
	t.Parallel()

	svc, _ := newServices(t, &fakeProvider{})
	ctx := context.Background()
	userID := register(t, svc, "collector").Response.User.ID

	for _, id := range []string{"tt1", "tt2", "tt3"} {
		if _, err := svc.User.AddBookmark(ctx, userID, &request.BookmarkRequest{MovieID: id}); err != nil {
			t.Fatalf("AddBookmark(%s) error: %v", id, err)
		}
	}

	if _, err := svc.User.AddBookmark(ctx, userID, &request.BookmarkRequest{MovieID: "tt2"}); !errors.Is(err, utils.ErrDuplicate) {
		t.Errorf("duplicate AddBookmark() error = %v, want ErrDuplicate", err)
	}

	res, err := svc.User.RemoveBookmark(ctx, userID, "tt2")
	if err != nil {
		t.Fatalf("RemoveBookmark() error: %v", err)
	}
	if fmt.Sprint(res.SavedMovies) != "[tt1 tt3]" {
		t.Errorf("after remove = %v, want [tt1 tt3]", res.SavedMovies)
	}

	// absent ids are a no-op
	res, err = svc.User.RemoveBookmark(ctx, userID, "tt404")
	if err != nil || fmt.Sprint(res.SavedMovies) != "[tt1 tt3]" {
		t.Errorf("RemoveBookmark(absent) = %v, %v", res, err)
	}

	list, err := svc.User.GetBookmarks(ctx, userID)
	if err != nil || fmt.Sprint(list.SavedMovies) != "[tt1 tt3]" {
		t.Errorf("GetBookmarks() = %v, %v", list, err)
	}

	profile, err := svc.User.GetProfile(ctx, userID)
	if err != nil || profile.Username != "collector" {
		t.Errorf("GetProfile() = %+v, %v", profile, err)
	}
	if _, err := svc.User.GetProfile(ctx, "ghost"); !errors.Is(err, utils.ErrUnauthenticated) {
		t.Errorf("GetProfile(ghost) error = %v, want ErrUnauthenticated", err)
	}
}

func TestSearchMovies(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{results: []entity.MovieSummary{{ExternalID: "tt1375666", Title: "Inception"}}}
	svc, _ := newServices(t, provider)
	ctx := context.Background()

	if got := svc.Movie.SearchMovies(ctx, "   "); got.Search == nil || len(got.Search) != 0 {
		t.Errorf("blank query result = %+v, want empty non-nil list", got)
	}
	if n := atomic.LoadInt32(&provider.searches); n != 0 {
		t.Errorf("blank query reached the provider %d times", n)
	}

	if got := svc.Movie.SearchMovies(ctx, strings.Repeat("a", 201)); got.Search == nil || len(got.Search) != 0 {
		t.Errorf("over-long query result = %+v, want empty non-nil list", got)
	}
	if n := atomic.LoadInt32(&provider.searches); n != 0 {
		t.Errorf("over-long query reached the provider %d times", n)
	}

	if got := svc.Movie.SearchMovies(ctx, "inception"); len(got.Search) != 1 || got.Search[0].ExternalID != "tt1375666" {
		t.Errorf("SearchMovies() = %+v", got)
	}

	failing := &fakeProvider{err: utils.ErrUpstream}
	svc, _ = newServices(t, failing)
	if got := svc.Movie.SearchMovies(ctx, "inception"); got.Search == nil || len(got.Search) != 0 {
		t.Errorf("provider failure result = %+v, want empty list", got)
	}
}

func TestGetMovieAndFeatured(t *testing.T) {
	t.Parallel()

	matrix := &entity.MovieDetail{MovieSummary: entity.MovieSummary{ExternalID: "tt0133093", Title: "The Matrix"}}
	provider := &fakeProvider{details: map[string]*entity.MovieDetail{"tt0133093": matrix}}
	ctx := context.Background()

	svc, _ := newServices(t, provider, "tt0133093", "tt0000001", "tt0000002")

	got, err := svc.Movie.GetMovie(ctx, "tt0133093")
	if err != nil || got.Title != "The Matrix" {
		t.Fatalf("GetMovie() = %+v, %v", got, err)
	}
	if _, err := svc.Movie.GetMovie(ctx, "tt0000001"); !errors.Is(err, utils.ErrUpstream) {
		t.Errorf("GetMovie(unknown) error = %v, want ErrUpstream", err)
	}

	featured, err := svc.Movie.GetFeatured(ctx)
	if err != nil {
		t.Fatalf("GetFeatured() error: %v", err)
	}
	if len(featured.Movies) != 1 || featured.Movies[0].ExternalID != "tt0133093" {
		t.Errorf("featured movies = %+v", featured.Movies)
	}
	if fmt.Sprint(featured.Failed) != "[tt0000001 tt0000002]" {
		t.Errorf("featured failed = %v, want curated order", featured.Failed)
	}

	svc, _ = newServices(t, provider, "tt0000001", "tt0000002")
	if _, err := svc.Movie.GetFeatured(ctx); !errors.Is(err, utils.ErrUpstream) {
		t.Errorf("all-failed GetFeatured() error = %v, want ErrUpstream", err)
	}
}

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"cinephile/internal/data/entity"
	"cinephile/pkg/utils"
)

// testRepositoryContract checks the behavior every backend must share. Ids
// carry a per-run prefix so it can run against a database that outlives the test.
func testRepositoryContract(t *testing.T, repo *Repository) {
	t.Helper()
	ctx := context.Background()
	run := utils.GenerateUUIDString()[:8]
	id := func(name string) string { return run + "-" + name }
	base := time.Now().UTC().Truncate(time.Second)

	newUser := func(name string) *entity.User {
		return &entity.User{
			Base:         entity.Base{ID: id(name), CreatedAt: base, UpdatedAt: base},
			Username:     id(name),
			Email:        id(name) + "@example.com",
			PasswordHash: "x",
		}
	}

	alice, bob := newUser("alice"), newUser("bob")
	for _, u := range []*entity.User{alice, bob} {
		if err := repo.User.Create(ctx, u); err != nil {
			t.Fatalf("create user %s: %v", u.Username, err)
		}
	}

	t.Run("user uniqueness", func(t *testing.T) {
		dup := newUser("alice-2")
		dup.Email = alice.Email
		if err := repo.User.Create(ctx, dup); !errors.Is(err, utils.ErrConflict) {
			t.Errorf("duplicate email: got %v, want ErrConflict", err)
		}
		dup = newUser("alice-3")
		dup.Username = alice.Username
		if err := repo.User.Create(ctx, dup); !errors.Is(err, utils.ErrConflict) {
			t.Errorf("duplicate username: got %v, want ErrConflict", err)
		}

		names, err := repo.User.FindUsernames(ctx, []string{alice.ID, bob.ID, id("ghost")})
		if err != nil {
			t.Fatal(err)
		}
		if len(names) != 2 || names[alice.ID] != alice.Username {
			t.Errorf("FindUsernames = %v", names)
		}
		if u, err := repo.User.FindByID(ctx, id("ghost")); err != nil || u != nil {
			t.Errorf("FindByID(ghost) = %+v, %v; want nil, nil", u, err)
		}
	})

	t.Run("bookmarks", func(t *testing.T) {
		saved, err := repo.User.AddSavedMovie(ctx, alice.ID, "tt1")
		if err != nil || len(saved) != 1 {
			t.Fatalf("AddSavedMovie = %v, %v", saved, err)
		}
		saved, err = repo.User.AddSavedMovie(ctx, alice.ID, "tt2")
		if err != nil || len(saved) != 2 || saved[0] != "tt1" || saved[1] != "tt2" {
			t.Fatalf("AddSavedMovie order = %v, %v", saved, err)
		}
		if _, err := repo.User.AddSavedMovie(ctx, alice.ID, "tt1"); !errors.Is(err, utils.ErrDuplicate) {
			t.Errorf("second add: got %v, want ErrDuplicate", err)
		}
		if _, err := repo.User.AddSavedMovie(ctx, id("ghost"), "tt1"); !errors.Is(err, utils.ErrNotFoundOrForbidden) {
			t.Errorf("unknown user: got %v, want ErrNotFoundOrForbidden", err)
		}

		saved, err = repo.User.RemoveSavedMovie(ctx, alice.ID, "tt-absent")
		if err != nil || len(saved) != 2 {
			t.Errorf("remove absent = %v, %v; want list unchanged", saved, err)
		}
		saved, err = repo.User.RemoveSavedMovie(ctx, alice.ID, "tt1")
		if err != nil || len(saved) != 1 || saved[0] != "tt2" {
			t.Errorf("RemoveSavedMovie = %v, %v", saved, err)
		}

		u, err := repo.User.FindByID(ctx, alice.ID)
		if err != nil || u == nil || !u.HasSaved("tt2") || u.HasSaved("tt1") {
			t.Errorf("stored bookmarks = %+v, %v", u, err)
		}
	})

	t.Run("sessions", func(t *testing.T) {
		live := &entity.Session{
			BaseSimple: entity.BaseSimple{ID: id("s-live"), CreatedAt: base},
			UserID:     alice.ID,
			Token:      id("live-token"),
			ExpiresAt:  base.Add(time.Hour),
		}
		expired := &entity.Session{
			BaseSimple: entity.BaseSimple{ID: id("s-expired"), CreatedAt: base},
			UserID:     alice.ID,
			Token:      id("expired-token"),
			ExpiresAt:  base.Add(-time.Hour),
		}
		for _, s := range []*entity.Session{live, expired} {
			if err := repo.Session.Create(ctx, s); err != nil {
				t.Fatal(err)
			}
		}

		if s, err := repo.Session.FindValidSession(ctx, live.Token); err != nil || s == nil || s.UserID != alice.ID {
			t.Errorf("live session = %+v, %v", s, err)
		}
		if s, _ := repo.Session.FindValidSession(ctx, expired.Token); s != nil {
			t.Error("expired session should not be valid")
		}

		if _, err := repo.Session.CleanExpiredSessions(ctx); err != nil {
			t.Fatal(err)
		}
		if s, _ := repo.Session.FindValidSession(ctx, live.Token); s == nil {
			t.Error("cleanup removed a live session")
		}

		if err := repo.Session.Revoke(ctx, live.Token); err != nil {
			t.Fatal(err)
		}
		if s, _ := repo.Session.FindValidSession(ctx, live.Token); s != nil {
			t.Error("revoked session should not be valid")
		}
		if err := repo.Session.Revoke(ctx, live.Token); !errors.Is(err, utils.ErrNotFoundOrForbidden) {
			t.Errorf("double revoke: got %v", err)
		}
	})

	t.Run("reviews", func(t *testing.T) {
		movie := id("movie")
		review := func(name string, owner *entity.User, at time.Time) *entity.Review {
			return &entity.Review{
				Base:    entity.Base{ID: id(name), CreatedAt: at, UpdatedAt: at},
				UserID:  owner.ID,
				MovieID: movie,
				Rating:  4,
				Text:    "A perfectly fine film.",
			}
		}

		older, newer := review("r-alice", alice, base), review("r-bob", bob, base.Add(time.Minute))
		for _, rv := range []*entity.Review{older, newer} {
			if err := repo.Review.Create(ctx, rv); err != nil {
				t.Fatal(err)
			}
		}
		if err := repo.Review.Create(ctx, review("r-alice-2", alice, base)); !errors.Is(err, utils.ErrDuplicate) {
			t.Errorf("second review of same movie: got %v, want ErrDuplicate", err)
		}

		list, err := repo.Review.FindByMovieID(ctx, movie)
		if err != nil || len(list) != 2 || list[0].ID != newer.ID {
			t.Fatalf("FindByMovieID = %v, %v; want newest first", list, err)
		}
		if got, _ := repo.Review.FindByUserAndMovie(ctx, alice.ID, movie); got == nil || got.ID != older.ID {
			t.Errorf("FindByUserAndMovie = %+v", got)
		}
		if none, err := repo.Review.FindByMovieID(ctx, id("no-reviews")); err != nil || none == nil || len(none) != 0 {
			t.Errorf("FindByMovieID(empty) = %#v, %v; want empty slice", none, err)
		}

		stolen := review("r-alice", bob, base)
		if err := repo.Review.UpdateOwned(ctx, stolen); !errors.Is(err, utils.ErrNotFoundOrForbidden) {
			t.Errorf("foreign update: got %v", err)
		}
		if err := repo.Review.DeleteOwned(ctx, older.ID, bob.ID); !errors.Is(err, utils.ErrNotFoundOrForbidden) {
			t.Errorf("foreign delete: got %v", err)
		}

		older.Rating = 2
		older.Text = "Less impressive the second time."
		older.UpdatedAt = base.Add(time.Hour)
		if err := repo.Review.UpdateOwned(ctx, older); err != nil {
			t.Fatal(err)
		}
		got, err := repo.Review.FindByID(ctx, older.ID)
		if err != nil || got == nil || got.Rating != 2 || !got.Edited() || !got.CreatedAt.Equal(base) {
			t.Errorf("after update = %+v, %v", got, err)
		}

		if err := repo.Review.DeleteOwned(ctx, older.ID, alice.ID); err != nil {
			t.Fatal(err)
		}
		if got, _ := repo.Review.FindByID(ctx, older.ID); got != nil {
			t.Error("review still present after delete")
		}
	})

	t.Run("comments", func(t *testing.T) {
		movie := id("discussed")
		first := &entity.Comment{
			Base:    entity.Base{ID: id("c1"), CreatedAt: base, UpdatedAt: base},
			UserID:  alice.ID,
			MovieID: movie,
			Content: "first",
		}
		second := &entity.Comment{
			Base:    entity.Base{ID: id("c2"), CreatedAt: base.Add(time.Minute), UpdatedAt: base.Add(time.Minute)},
			UserID:  alice.ID,
			MovieID: movie,
			Content: "second",
		}
		for _, c := range []*entity.Comment{first, second} {
			if err := repo.Comment.Create(ctx, c); err != nil {
				t.Fatal(err)
			}
		}

		list, err := repo.Comment.FindByMovieID(ctx, movie)
		if err != nil || len(list) != 2 || list[0].ID != second.ID {
			t.Fatalf("FindByMovieID = %v, %v; want newest first", list, err)
		}

		first.UserID = bob.ID
		if err := repo.Comment.UpdateOwned(ctx, first); !errors.Is(err, utils.ErrNotFoundOrForbidden) {
			t.Errorf("foreign update: got %v", err)
		}
		first.UserID = alice.ID
		first.Content = "edited"
		first.UpdatedAt = base.Add(time.Hour)
		if err := repo.Comment.UpdateOwned(ctx, first); err != nil {
			t.Fatal(err)
		}
		if got, _ := repo.Comment.FindByID(ctx, first.ID); got == nil || got.Content != "edited" || !got.Edited() {
			t.Errorf("after update = %+v", got)
		}

		if err := repo.Comment.DeleteOwned(ctx, second.ID, bob.ID); !errors.Is(err, utils.ErrNotFoundOrForbidden) {
			t.Errorf("foreign delete: got %v", err)
		}
		if err := repo.Comment.DeleteOwned(ctx, second.ID, alice.ID); err != nil {
			t.Fatal(err)
		}
	})
}

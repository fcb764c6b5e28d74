package repository

import (
	"context"
	"errors"
	"fmt"

	"cinephile/internal/data/entity"
	"cinephile/pkg/database"
	"cinephile/pkg/utils"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ReviewRepository persists reviews. Create returns utils.ErrDuplicate when the
// (user_id, movie_id) unique index rejects the insert; UpdateOwned and DeleteOwned
// only touch rows owned by the given user and return utils.ErrNotFoundOrForbidden otherwise.
type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, id string) (*entity.Review, error)
	FindByMovieID(ctx context.Context, movieID string) ([]*entity.Review, error)
	FindByUserID(ctx context.Context, userID string) ([]*entity.Review, error)
	FindByUserAndMovie(ctx context.Context, userID, movieID string) (*entity.Review, error)
	UpdateOwned(ctx context.Context, review *entity.Review) error
	DeleteOwned(ctx context.Context, id, userID string) error
}

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

const reviewColumns = `id, user_id, movie_id, movie_title, rating, review, created_at, updated_at`

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (id, user_id, movie_id, movie_title, rating, review, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		review.ID,
		review.UserID,
		review.MovieID,
		review.MovieTitle,
		review.Rating,
		review.Text,
		review.CreatedAt,
		review.UpdatedAt,
	)

	if isDuplicateKey(err) {
		return fmt.Errorf("user %s already reviewed movie %s: %w", review.UserID, review.MovieID, utils.ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("user_id", review.UserID),
			zap.String("movie_id", review.MovieID),
		)
		return fmt.Errorf("create review for movie %s by user %s: %w", review.MovieID, review.UserID, err)
	}

	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id string) (*entity.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`
	return r.queryOne(ctx, query, id)
}

func (r *reviewRepository) FindByUserAndMovie(ctx context.Context, userID, movieID string) (*entity.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE user_id = $1 AND movie_id = $2 LIMIT 1`
	return r.queryOne(ctx, query, userID, movieID)
}

func (r *reviewRepository) FindByMovieID(ctx context.Context, movieID string) ([]*entity.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE movie_id = $1
		ORDER BY created_at DESC, id DESC
	`
	return r.queryMany(ctx, query, movieID)
}

func (r *reviewRepository) FindByUserID(ctx context.Context, userID string) ([]*entity.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	return r.queryMany(ctx, query, userID)
}

func (r *reviewRepository) UpdateOwned(ctx context.Context, review *entity.Review) error {
	query := `
		UPDATE reviews
		SET rating = $3, review = $4, updated_at = $5
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.db.Exec(ctx, query,
		review.ID,
		review.UserID,
		review.Rating,
		review.Text,
		review.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update review",
			zap.Error(err),
			zap.String("review_id", review.ID),
		)
		return fmt.Errorf("update review %s: %w", review.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s: %w", review.ID, utils.ErrNotFoundOrForbidden)
	}

	return nil
}

func (r *reviewRepository) DeleteOwned(ctx context.Context, id, userID string) error {
	query := `DELETE FROM reviews WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		r.log.Error("Failed to delete review",
			zap.Error(err),
			zap.String("review_id", id),
		)
		return fmt.Errorf("delete review %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s: %w", id, utils.ErrNotFoundOrForbidden)
	}

	r.log.Info("Review deleted", zap.String("review_id", id))
	return nil
}

func (r *reviewRepository) queryOne(ctx context.Context, query string, args ...any) (*entity.Review, error) {
	review, err := scanReview(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review", zap.Error(err), zap.Any("args", args))
		return nil, fmt.Errorf("find review: %w", err)
	}
	return review, nil
}

func (r *reviewRepository) queryMany(ctx context.Context, query string, args ...any) ([]*entity.Review, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list reviews", zap.Error(err), zap.Any("args", args))
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []*entity.Review{}
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, nil
}

func scanReview(row pgx.Row) (*entity.Review, error) {
	var review entity.Review
	err := row.Scan(
		&review.ID,
		&review.UserID,
		&review.MovieID,
		&review.MovieTitle,
		&review.Rating,
		&review.Text,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

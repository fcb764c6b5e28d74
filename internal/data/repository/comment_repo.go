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

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	FindByID(ctx context.Context, id string) (*entity.Comment, error)
	FindByMovieID(ctx context.Context, movieID string) ([]*entity.Comment, error)
	UpdateOwned(ctx context.Context, comment *entity.Comment) error
	DeleteOwned(ctx context.Context, id, userID string) error
}

type commentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCommentRepository(db database.PgxIface, log *zap.Logger) CommentRepository {
	return &commentRepository{
		db:  db,
		log: log.With(zap.String("repository", "comment")),
	}
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	query := `
		INSERT INTO comments (id, user_id, movie_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		comment.ID,
		comment.UserID,
		comment.MovieID,
		comment.Content,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create comment",
			zap.Error(err),
			zap.String("user_id", comment.UserID),
			zap.String("movie_id", comment.MovieID),
		)
		return fmt.Errorf("create comment for movie %s: %w", comment.MovieID, err)
	}

	return nil
}

func (r *commentRepository) FindByID(ctx context.Context, id string) (*entity.Comment, error) {
	query := `
		SELECT id, user_id, movie_id, content, created_at, updated_at
		FROM comments
		WHERE id = $1
	`

	var comment entity.Comment
	err := r.db.QueryRow(ctx, query, id).Scan(
		&comment.ID,
		&comment.UserID,
		&comment.MovieID,
		&comment.Content,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find comment", zap.Error(err), zap.String("comment_id", id))
		return nil, fmt.Errorf("find comment %s: %w", id, err)
	}

	return &comment, nil
}

func (r *commentRepository) FindByMovieID(ctx context.Context, movieID string) ([]*entity.Comment, error) {
	query := `
		SELECT id, user_id, movie_id, content, created_at, updated_at
		FROM comments
		WHERE movie_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Query(ctx, query, movieID)
	if err != nil {
		r.log.Error("Failed to list comments", zap.Error(err), zap.String("movie_id", movieID))
		return nil, fmt.Errorf("list comments for movie %s: %w", movieID, err)
	}
	defer rows.Close()

	comments := []*entity.Comment{}
	for rows.Next() {
		var comment entity.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.UserID,
			&comment.MovieID,
			&comment.Content,
			&comment.CreatedAt,
			&comment.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan comment row: %w", err)
		}
		comments = append(comments, &comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comment rows: %w", err)
	}

	return comments, nil
}

func (r *commentRepository) UpdateOwned(ctx context.Context, comment *entity.Comment) error {
	query := `
		UPDATE comments
		SET content = $3, updated_at = $4
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.db.Exec(ctx, query, comment.ID, comment.UserID, comment.Content, comment.UpdatedAt)
	if err != nil {
		r.log.Error("Failed to update comment", zap.Error(err), zap.String("comment_id", comment.ID))
		return fmt.Errorf("update comment %s: %w", comment.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("comment %s: %w", comment.ID, utils.ErrNotFoundOrForbidden)
	}

	return nil
}

func (r *commentRepository) DeleteOwned(ctx context.Context, id, userID string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		r.log.Error("Failed to delete comment", zap.Error(err), zap.String("comment_id", id))
		return fmt.Errorf("delete comment %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("comment %s: %w", id, utils.ErrNotFoundOrForbidden)
	}

	return nil
}

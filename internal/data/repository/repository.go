package repository

import (
	"errors"

	"cinephile/pkg/database"

	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Repository struct {
	User    UserRepository
	Session SessionRepository
	Review  ReviewRepository
	Comment CommentRepository
}

// NewRepository builds the Postgres-backed repositories
func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:    NewUserRepository(db, log),
		Session: NewSessionRepository(db, log),
		Review:  NewReviewRepository(db, log),
		Comment: NewCommentRepository(db, log),
	}
}

// NewMongoRepository builds the document-store repositories
func NewMongoRepository(db *mongo.Database, log *zap.Logger) *Repository {
	return &Repository{
		User:    NewMongoUserRepository(db, log),
		Session: NewMongoSessionRepository(db, log),
		Review:  NewMongoReviewRepository(db, log),
		Comment: NewMongoCommentRepository(db, log),
	}
}

// NewMemoryRepository builds process-local repositories for development and tests
func NewMemoryRepository(log *zap.Logger) *Repository {
	store := newMemoryStore()
	return &Repository{
		User:    &memoryUserRepository{store: store, log: log.With(zap.String("repository", "user"))},
		Session: &memorySessionRepository{store: store},
		Review:  &memoryReviewRepository{store: store},
		Comment: &memoryCommentRepository{store: store},
	}
}

const pgUniqueViolation = "23505"

// isDuplicateKey reports whether err is a unique constraint violation
// from either storage backend.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return mongo.IsDuplicateKeyError(err)
}

// duplicateField extracts which unique index was hit, "" when unknown.
func duplicateField(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) {
		for _, we := range writeErr.WriteErrors {
			if we.Code == 11000 {
				return we.Message
			}
		}
	}
	return ""
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cinephile/internal/data/entity"
	"cinephile/pkg/database"
	"cinephile/pkg/utils"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindUsernames(ctx context.Context, ids []string) (map[string]string, error)

	// Bookmarks
	AddSavedMovie(ctx context.Context, userID, movieID string) ([]string, error)
	RemoveSavedMovie(ctx context.Context, userID, movieID string) ([]string, error)
}

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

const userColumns = `id, username, email, password_hash, saved_movies, created_at, updated_at`

// Create inserts a new user record into the database
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, saved_movies, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if user.SavedMovies == nil {
		user.SavedMovies = []string{}
	}

	_, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.SavedMovies,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if isDuplicateKey(err) {
		return conflictError(err)
	}
	if err != nil {
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("username", user.Username),
		)
		return fmt.Errorf("create user %s: %w", user.ID, err)
	}

	return nil
}

func (ur *userRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return ur.findOne(ctx, "id", id)
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return ur.findOne(ctx, "email", strings.ToLower(strings.TrimSpace(email)))
}

func (ur *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return ur.findOne(ctx, "username", strings.TrimSpace(username))
}

// findOne looks a user up by one of the unique columns
func (ur *userRepository) findOne(ctx context.Context, column, value string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`

	var user entity.User
	err := ur.db.QueryRow(ctx, query, value).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.SavedMovies,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user",
			zap.Error(err),
			zap.String("by", column),
		)
		return nil, fmt.Errorf("find user by %s: %w", column, err)
	}

	return &user, nil
}

func (ur *userRepository) FindUsernames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	rows, err := ur.db.Query(ctx, `SELECT id, username FROM users WHERE id = ANY($1)`, ids)
	if err != nil {
		ur.log.Error("Failed to resolve usernames", zap.Error(err), zap.Int("count", len(ids)))
		return nil, fmt.Errorf("find usernames: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, username string
		if err := rows.Scan(&id, &username); err != nil {
			return nil, fmt.Errorf("scan username row: %w", err)
		}
		names[id] = username
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate username rows: %w", err)
	}

	return names, nil
}

// AddSavedMovie appends movieID unless it is already bookmarked.
// The membership guard and the append run in one statement.
func (ur *userRepository) AddSavedMovie(ctx context.Context, userID, movieID string) ([]string, error) {
	query := `
		UPDATE users
		SET saved_movies = array_append(saved_movies, $2), updated_at = $3
		WHERE id = $1 AND NOT ($2 = ANY(saved_movies))
		RETURNING saved_movies
	`

	var saved []string
	err := ur.db.QueryRow(ctx, query, userID, movieID, time.Now()).Scan(&saved)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ur.explainMissedUpdate(ctx, userID, movieID)
	}
	if err != nil {
		ur.log.Error("Failed to add bookmark",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("movie_id", movieID),
		)
		return nil, fmt.Errorf("add bookmark %s for user %s: %w", movieID, userID, err)
	}

	return saved, nil
}

func (ur *userRepository) RemoveSavedMovie(ctx context.Context, userID, movieID string) ([]string, error) {
	query := `
		UPDATE users
		SET saved_movies = array_remove(saved_movies, $2), updated_at = $3
		WHERE id = $1
		RETURNING saved_movies
	`

	var saved []string
	err := ur.db.QueryRow(ctx, query, userID, movieID, time.Now()).Scan(&saved)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", userID, utils.ErrNotFoundOrForbidden)
	}
	if err != nil {
		ur.log.Error("Failed to remove bookmark",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("movie_id", movieID),
		)
		return nil, fmt.Errorf("remove bookmark %s for user %s: %w", movieID, userID, err)
	}

	return saved, nil
}

func (ur *userRepository) explainMissedUpdate(ctx context.Context, userID, movieID string) error {
	user, err := ur.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user %s: %w", userID, utils.ErrNotFoundOrForbidden)
	}
	return fmt.Errorf("movie %s already bookmarked: %w", movieID, utils.ErrDuplicate)
}

// conflictError turns a unique violation on users into ErrConflict
func conflictError(err error) error {
	if strings.Contains(strings.ToLower(duplicateField(err)), "email") {
		return fmt.Errorf("email already registered: %w", utils.ErrConflict)
	}
	return fmt.Errorf("username already taken: %w", utils.ErrConflict)
}

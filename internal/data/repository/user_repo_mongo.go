package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cinephile/internal/data/entity"
	"cinephile/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type mongoUserRepository struct {
	collection *mongo.Collection
	log        *zap.Logger
}

func NewMongoUserRepository(db *mongo.Database, log *zap.Logger) UserRepository {
	return &mongoUserRepository{
		collection: db.Collection("users"),
		log:        log.With(zap.String("repository", "user")),
	}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *entity.User) error {
	if user.SavedMovies == nil {
		user.SavedMovies = []string{}
	}

	_, err := r.collection.InsertOne(ctx, user)
	if isDuplicateKey(err) {
		return conflictError(err)
	}
	if err != nil {
		r.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("username", user.Username),
		)
		return fmt.Errorf("create user %s: %w", user.ID, err)
	}

	return nil
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *mongoUserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"username": strings.TrimSpace(username)})
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	var user entity.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find user", zap.Error(err))
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (r *mongoUserRepository) FindUsernames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	opts := options.Find().SetProjection(bson.M{"username": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		r.log.Error("Failed to resolve usernames", zap.Error(err), zap.Int("count", len(ids)))
		return nil, fmt.Errorf("find usernames: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID       string `bson:"_id"`
		Username string `bson:"username"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode usernames: %w", err)
	}

	for _, row := range rows {
		names[row.ID] = row.Username
	}
	return names, nil
}

// AddSavedMovie pushes movieID only when it is absent, in a single atomic update.
func (r *mongoUserRepository) AddSavedMovie(ctx context.Context, userID, movieID string) ([]string, error) {
	filter := bson.M{"_id": userID, "saved_movies": bson.M{"$ne": movieID}}
	update := bson.M{
		"$push": bson.M{"saved_movies": movieID},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	saved, err := r.updateSaved(ctx, filter, update)
	if errors.Is(err, mongo.ErrNoDocuments) {
		user, findErr := r.FindByID(ctx, userID)
		if findErr != nil {
			return nil, findErr
		}
		if user == nil {
			return nil, fmt.Errorf("user %s: %w", userID, utils.ErrNotFoundOrForbidden)
		}
		return nil, fmt.Errorf("movie %s already bookmarked: %w", movieID, utils.ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to add bookmark",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("movie_id", movieID),
		)
		return nil, fmt.Errorf("add bookmark %s for user %s: %w", movieID, userID, err)
	}

	return saved, nil
}

func (r *mongoUserRepository) RemoveSavedMovie(ctx context.Context, userID, movieID string) ([]string, error) {
	update := bson.M{
		"$pull": bson.M{"saved_movies": movieID},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	saved, err := r.updateSaved(ctx, bson.M{"_id": userID}, update)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("user %s: %w", userID, utils.ErrNotFoundOrForbidden)
	}
	if err != nil {
		r.log.Error("Failed to remove bookmark",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("movie_id", movieID),
		)
		return nil, fmt.Errorf("remove bookmark %s for user %s: %w", movieID, userID, err)
	}

	return saved, nil
}

func (r *mongoUserRepository) updateSaved(ctx context.Context, filter, update bson.M) ([]string, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"saved_movies": 1})

	var doc struct {
		SavedMovies []string `bson:"saved_movies"`
	}
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return nil, err
	}

	if doc.SavedMovies == nil {
		doc.SavedMovies = []string{}
	}
	return doc.SavedMovies, nil
}

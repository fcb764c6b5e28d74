package repository

import (
	"context"
	"errors"
	"fmt"

	"cinephile/internal/data/entity"
	"cinephile/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// newestFirst is the sort order of every list endpoint
var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

type mongoReviewRepository struct {
	collection *mongo.Collection
	log        *zap.Logger
}

func NewMongoReviewRepository(db *mongo.Database, log *zap.Logger) ReviewRepository {
	return &mongoReviewRepository{
		collection: db.Collection("reviews"),
		log:        log.With(zap.String("repository", "review")),
	}
}

func (r *mongoReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	_, err := r.collection.InsertOne(ctx, review)
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

func (r *mongoReviewRepository) FindByID(ctx context.Context, id string) (*entity.Review, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoReviewRepository) FindByUserAndMovie(ctx context.Context, userID, movieID string) (*entity.Review, error) {
	return r.findOne(ctx, bson.M{"user_id": userID, "movie_id": movieID})
}

func (r *mongoReviewRepository) FindByMovieID(ctx context.Context, movieID string) ([]*entity.Review, error) {
	return r.find(ctx, bson.M{"movie_id": movieID})
}

func (r *mongoReviewRepository) FindByUserID(ctx context.Context, userID string) ([]*entity.Review, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *mongoReviewRepository) UpdateOwned(ctx context.Context, review *entity.Review) error {
	filter := bson.M{"_id": review.ID, "user_id": review.UserID}
	update := bson.M{
		"$set": bson.M{
			"rating":     review.Rating,
			"review":     review.Text,
			"updated_at": review.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		r.log.Error("Failed to update review", zap.Error(err), zap.String("review_id", review.ID))
		return fmt.Errorf("update review %s: %w", review.ID, err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("review %s: %w", review.ID, utils.ErrNotFoundOrForbidden)
	}
	return nil
}

func (r *mongoReviewRepository) DeleteOwned(ctx context.Context, id, userID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		r.log.Error("Failed to delete review", zap.Error(err), zap.String("review_id", id))
		return fmt.Errorf("delete review %s: %w", id, err)
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("review %s: %w", id, utils.ErrNotFoundOrForbidden)
	}

	r.log.Info("Review deleted", zap.String("review_id", id))
	return nil
}

func (r *mongoReviewRepository) findOne(ctx context.Context, filter bson.M) (*entity.Review, error) {
	var review entity.Review
	err := r.collection.FindOne(ctx, filter).Decode(&review)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review", zap.Error(err))
		return nil, fmt.Errorf("find review: %w", err)
	}
	return &review, nil
}

func (r *mongoReviewRepository) find(ctx context.Context, filter bson.M) ([]*entity.Review, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		r.log.Error("Failed to list reviews", zap.Error(err))
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer cursor.Close(ctx)

	reviews := []*entity.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}
	return reviews, nil
}

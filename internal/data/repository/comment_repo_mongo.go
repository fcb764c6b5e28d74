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

type mongoCommentRepository struct {
	collection *mongo.Collection
	log        *zap.Logger
}

func NewMongoCommentRepository(db *mongo.Database, log *zap.Logger) CommentRepository {
	return &mongoCommentRepository{
		collection: db.Collection("comments"),
		log:        log.With(zap.String("repository", "comment")),
	}
}

func (r *mongoCommentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	if _, err := r.collection.InsertOne(ctx, comment); err != nil {
		r.log.Error("Failed to create comment",
			zap.Error(err),
			zap.String("user_id", comment.UserID),
			zap.String("movie_id", comment.MovieID),
		)
		return fmt.Errorf("create comment for movie %s: %w", comment.MovieID, err)
	}
	return nil
}

func (r *mongoCommentRepository) FindByID(ctx context.Context, id string) (*entity.Comment, error) {
	var comment entity.Comment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&comment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find comment", zap.Error(err), zap.String("comment_id", id))
		return nil, fmt.Errorf("find comment %s: %w", id, err)
	}
	return &comment, nil
}

func (r *mongoCommentRepository) FindByMovieID(ctx context.Context, movieID string) ([]*entity.Comment, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"movie_id": movieID}, options.Find().SetSort(newestFirst))
	if err != nil {
		r.log.Error("Failed to list comments", zap.Error(err), zap.String("movie_id", movieID))
		return nil, fmt.Errorf("list comments for movie %s: %w", movieID, err)
	}
	defer cursor.Close(ctx)

	comments := []*entity.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}
	return comments, nil
}

func (r *mongoCommentRepository) UpdateOwned(ctx context.Context, comment *entity.Comment) error {
	filter := bson.M{"_id": comment.ID, "user_id": comment.UserID}
	update := bson.M{"$set": bson.M{"content": comment.Content, "updated_at": comment.UpdatedAt}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		r.log.Error("Failed to update comment", zap.Error(err), zap.String("comment_id", comment.ID))
		return fmt.Errorf("update comment %s: %w", comment.ID, err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("comment %s: %w", comment.ID, utils.ErrNotFoundOrForbidden)
	}
	return nil
}

func (r *mongoCommentRepository) DeleteOwned(ctx context.Context, id, userID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		r.log.Error("Failed to delete comment", zap.Error(err), zap.String("comment_id", id))
		return fmt.Errorf("delete comment %s: %w", id, err)
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("comment %s: %w", id, utils.ErrNotFoundOrForbidden)
	}
	return nil
}

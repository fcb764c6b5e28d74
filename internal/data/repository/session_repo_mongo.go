package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinephile/internal/data/entity"
	"cinephile/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type mongoSessionRepository struct {
	collection *mongo.Collection
	log        *zap.Logger
}

func NewMongoSessionRepository(db *mongo.Database, log *zap.Logger) SessionRepository {
	return &mongoSessionRepository{
		collection: db.Collection("sessions"),
		log:        log.With(zap.String("repository", "session")),
	}
}

func (r *mongoSessionRepository) Create(ctx context.Context, session *entity.Session) error {
	if _, err := r.collection.InsertOne(ctx, session); err != nil {
		r.log.Error("Failed to create session",
			zap.Error(err),
			zap.String("user_id", session.UserID),
		)
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *mongoSessionRepository) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	filter := bson.M{
		"token":      token,
		"revoked_at": bson.M{"$exists": false},
		"expires_at": bson.M{"$gt": time.Now()},
	}

	var session entity.Session
	err := r.collection.FindOne(ctx, filter).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find valid session",
			zap.Error(err),
			zap.String("token", utils.ShortToken(token)),
		)
		return nil, fmt.Errorf("find session: %w", err)
	}

	return &session, nil
}

func (r *mongoSessionRepository) Revoke(ctx context.Context, token string) error {
	filter := bson.M{"token": token, "revoked_at": bson.M{"$exists": false}}
	update := bson.M{"$set": bson.M{"revoked_at": time.Now()}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		r.log.Error("Failed to revoke session",
			zap.Error(err),
			zap.String("token", utils.ShortToken(token)),
		)
		return fmt.Errorf("revoke session: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("session not found or already revoked: %w", utils.ErrNotFoundOrForbidden)
	}

	return nil
}

// CleanExpiredSessions mirrors the Postgres retention; the TTL index on
// expires_at normally removes these documents first.
func (r *mongoSessionRepository) CleanExpiredSessions(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-7 * 24 * time.Hour)

	result, err := r.collection.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": cutoff}})
	if err != nil {
		r.log.Error("Failed to clean expired sessions", zap.Error(err))
		return 0, fmt.Errorf("clean sessions: %w", err)
	}

	return result.DeletedCount, nil
}

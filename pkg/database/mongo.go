package database

import (
	"context"
	"fmt"
	"time"

	"cinephile/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InitMongo connects to cfg.URI, pings the primary and returns the
// configured database.
func InitMongo(ctx context.Context, cfg utils.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// CloseMongo disconnects with a bounded wait
func CloseMongo(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return client.Disconnect(ctx)
}

// mongoIndexes are the uniqueness backstops and lookup paths per collection
var mongoIndexes = map[string][]mongo.IndexModel{
	"users": {
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("users_email_key")},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true).SetName("users_username_key")},
	},
	"sessions": {
		{Keys: bson.D{{Key: "token", Value: 1}}, Options: options.Index().SetUnique(true)},
		// expired sessions are dropped by the server a week after expiry
		{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(7 * 24 * 3600)},
	},
	"reviews": {
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "movie_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("reviews_user_movie_key"),
		},
		{Keys: bson.D{{Key: "movie_id", Value: 1}, {Key: "created_at", Value: -1}}},
	},
	"comments": {
		{Keys: bson.D{{Key: "movie_id", Value: 1}, {Key: "created_at", Value: -1}}},
	},
}

// EnsureMongoIndexes creates every index; existing identical indexes are left alone.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	for collection, models := range mongoIndexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", collection, err)
		}
	}
	return nil
}

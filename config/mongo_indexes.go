package config

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureMongoIndexes() error {
	if MongoClient == nil {
		return errors.New("MongoClient is nil; call InitMongo() first")
	}
	db := MongoDatabase()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// interview_history indexes
	history := db.Collection("interview_history")
	_, err := history.Indexes().CreateMany(ctx, []mongo.IndexModel{
		// One archived record per terminated session
		{
			Keys: bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().
				SetName("uniq_session_id").
				SetUnique(true),
		},
		// Query helper: a user's past interviews, newest first
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "ended_at", Value: -1}},
			Options: options.Index().SetName("by_user_ended"),
		},
		{
			Keys:    bson.D{{Key: "course_id", Value: 1}, {Key: "ended_at", Value: -1}},
			Options: options.Index().SetName("by_course_ended"),
		},
	})
	return err
}

package mongo

import (
	"context"
	"errors"

	"github.com/quizmentor/quizmentor/internal/models"
	"github.com/quizmentor/quizmentor/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// HistoryRepository is the durable sink for terminated interview sessions.
// Insert is called exactly once per session, before registry eviction.
type HistoryRepository interface {
	Insert(ctx context.Context, rec *models.InterviewRecord) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.InterviewRecord, error)
	ListByUser(ctx context.Context, userID string, limit int64) ([]models.InterviewRecord, error)
}

type historyRepo struct {
	col *mongo.Collection
}

func NewHistoryRepo(db *mongo.Database) HistoryRepository {
	return &historyRepo{col: db.Collection("interview_history")}
}

func (r *historyRepo) Insert(ctx context.Context, rec *models.InterviewRecord) error {
	_, err := r.col.InsertOne(ctx, rec)
	return err
}

func (r *historyRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.InterviewRecord, error) {
	var rec models.InterviewRecord
	err := r.col.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &rec, err
}

func (r *historyRepo) ListByUser(ctx context.Context, userID string, limit int64) ([]models.InterviewRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "ended_at", Value: -1}}).
		SetLimit(limit)

	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.InterviewRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

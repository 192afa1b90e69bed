package services

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/quizmentor/quizmentor/internal/models"
	"github.com/quizmentor/quizmentor/internal/providers/embedding"
	"github.com/quizmentor/quizmentor/internal/providers/llm"
	pgrepo "github.com/quizmentor/quizmentor/internal/repositories/postgres"
	"github.com/quizmentor/quizmentor/internal/utils"
)

// QuizGenStream is the Redis Stream the generation worker pool consumes.
const QuizGenStream = "quizgen:stream"

type SubmitQuizInput struct {
	UserID          string
	CourseID        string
	Score           float64
	QuestionCount   int
	DurationSeconds int64
	Breakdown       json.RawMessage
}

type QuizService interface {
	EnqueueGeneration(ctx context.Context, courseID, topicID string, count, difficulty int) error
	StoreGenerated(ctx context.Context, courseID, topicID string, qs []llm.GeneratedQuestion) ([]models.QuizQuestion, error)
	List(ctx context.Context, f pgrepo.QuizFilter) ([]models.QuizQuestion, error)
	Similar(ctx context.Context, questionID string, limit int) ([]models.QuizQuestion, error)
	Submit(ctx context.Context, in SubmitQuizInput) (*models.PerformanceRecord, error)
	Delete(ctx context.Context, questionID string) error
}

type quizService struct {
	quizzes     pgrepo.QuizRepository
	performance pgrepo.PerformanceRepository
	rdb         *redis.Client
	embedder    embedding.Provider
	log         *logrus.Logger
}

func NewQuizService(
	quizzes pgrepo.QuizRepository,
	performance pgrepo.PerformanceRepository,
	rdb *redis.Client,
	embedder embedding.Provider,
	log *logrus.Logger,
) QuizService {
	if log == nil {
		log = logrus.New()
	}
	return &quizService{
		quizzes:     quizzes,
		performance: performance,
		rdb:         rdb,
		embedder:    embedder,
		log:         log,
	}
}

// EnqueueGeneration pushes a generation job onto the stream; the worker pool
// picks it up, calls the model, and stores the questions.
func (s *quizService) EnqueueGeneration(ctx context.Context, courseID, topicID string, count, difficulty int) error {
	const op = "QuizService.EnqueueGeneration"

	if courseID == "" || topicID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "course_id and topic_id are required", nil)
	}
	if count <= 0 || count > 50 {
		return utils.E(utils.CodeInvalidArgument, op, "count must be in 1..50", nil)
	}
	if difficulty < 1 || difficulty > 4 {
		return utils.E(utils.CodeInvalidArgument, op, "difficulty must be in 1..4", nil)
	}

	err := s.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: QuizGenStream,
		Values: map[string]any{
			"course_id":  courseID,
			"topic_id":   topicID,
			"count":      strconv.Itoa(count),
			"difficulty": strconv.Itoa(difficulty),
			"ts_unix":    strconv.FormatInt(time.Now().UTC().Unix(), 10),
		},
	}).Err()
	if err != nil {
		return utils.E(utils.CodeUnavailable, op, "failed to enqueue generation job", err)
	}
	return nil
}

func (s *quizService) StoreGenerated(ctx context.Context, courseID, topicID string, qs []llm.GeneratedQuestion) ([]models.QuizQuestion, error) {
	const op = "QuizService.StoreGenerated"

	if len(qs) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()
	rows := make([]models.QuizQuestion, 0, len(qs))
	for _, q := range qs {
		choices, err := json.Marshal(q.Choices)
		if err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to encode choices", err)
		}
		rows = append(rows, models.QuizQuestion{
			ID:          uuid.NewString(),
			CourseID:    courseID,
			TopicID:     topicID,
			Text:        q.Text,
			Choices:     datatypes.JSON(choices),
			Answer:      q.Answer,
			Explanation: q.Explanation,
			Difficulty:  q.Difficulty,
			CreatedAt:   now,
		})
	}

	// Embeddings feed the similar-question index. Failure degrades the
	// index, not the questions themselves.
	if s.embedder != nil {
		texts := make([]string, 0, len(rows))
		for _, row := range rows {
			texts = append(texts, row.Text)
		}
		vecs, err := s.embedder.EmbedTexts(ctx, texts)
		if err != nil || len(vecs) != len(rows) {
			s.log.WithError(err).WithFields(logrus.Fields{
				"course_id": courseID,
				"topic_id":  topicID,
			}).Warn("failed to embed generated questions; storing without vectors")
		} else {
			for i := range rows {
				rows[i].Embedding = pgvector.NewVector(vecs[i])
			}
		}
	}

	if err := s.quizzes.InsertBatch(ctx, rows); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to store questions", err)
	}
	return rows, nil
}

func (s *quizService) List(ctx context.Context, f pgrepo.QuizFilter) ([]models.QuizQuestion, error) {
	const op = "QuizService.List"

	if f.CourseID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "course_id is required", nil)
	}
	rows, err := s.quizzes.List(ctx, f)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list questions", err)
	}
	return rows, nil
}

func (s *quizService) Similar(ctx context.Context, questionID string, limit int) ([]models.QuizQuestion, error) {
	const op = "QuizService.Similar"

	if questionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "question_id is required", nil)
	}

	q, err := s.quizzes.GetByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "question not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get question", err)
	}

	rows, err := s.quizzes.SimilarTo(ctx, q, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to search similar questions", err)
	}
	return rows, nil
}

func (s *quizService) Submit(ctx context.Context, in SubmitQuizInput) (*models.PerformanceRecord, error) {
	const op = "QuizService.Submit"

	if in.UserID == "" || in.CourseID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and course_id are required", nil)
	}
	if in.Score < 0 || in.Score > 100 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "score must be in 0..100", nil)
	}

	rec := &models.PerformanceRecord{
		ID:              uuid.NewString(),
		UserID:          in.UserID,
		CourseID:        in.CourseID,
		Kind:            "quiz",
		Score:           in.Score,
		QuestionCount:   in.QuestionCount,
		DurationSeconds: in.DurationSeconds,
		Breakdown:       datatypes.JSON(in.Breakdown),
		TakenAt:         time.Now().UTC(),
	}
	if err := s.performance.Insert(ctx, rec); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to record quiz result", err)
	}
	return rec, nil
}

func (s *quizService) Delete(ctx context.Context, questionID string) error {
	const op = "QuizService.Delete"

	if questionID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "question_id is required", nil)
	}
	if err := s.quizzes.Delete(ctx, questionID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "question not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to delete question", err)
	}
	return nil
}

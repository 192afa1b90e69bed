package postgres

import (
	"context"
	"errors"

	"github.com/pgvector/pgvector-go"
	"github.com/quizmentor/quizmentor/internal/models"
	"github.com/quizmentor/quizmentor/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuizFilter struct {
	CourseID   string
	TopicID    string
	Difficulty int // 0 = any
	Limit      int
}

type QuizRepository interface {
	InsertBatch(ctx context.Context, qs []models.QuizQuestion) error
	GetByID(ctx context.Context, id string) (*models.QuizQuestion, error)
	List(ctx context.Context, f QuizFilter) ([]models.QuizQuestion, error)
	SimilarTo(ctx context.Context, q *models.QuizQuestion, limit int) ([]models.QuizQuestion, error)
	Delete(ctx context.Context, id string) error
}

type quizRepo struct {
	db *gorm.DB
}

func NewQuizRepo(db *gorm.DB) QuizRepository {
	return &quizRepo{db: db}
}

func (r *quizRepo) InsertBatch(ctx context.Context, qs []models.QuizQuestion) error {
	if len(qs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&qs).Error
}

func (r *quizRepo) GetByID(ctx context.Context, id string) (*models.QuizQuestion, error) {
	var q models.QuizQuestion
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &q, err
}

func (r *quizRepo) List(ctx context.Context, f QuizFilter) ([]models.QuizQuestion, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	q := r.db.WithContext(ctx)
	if f.CourseID != "" {
		q = q.Where("course_id = ?", f.CourseID)
	}
	if f.TopicID != "" {
		q = q.Where("topic_id = ?", f.TopicID)
	}
	if f.Difficulty > 0 {
		q = q.Where("difficulty = ?", f.Difficulty)
	}

	var rows []models.QuizQuestion
	err := q.Order("created_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

// SimilarTo runs a nearest-neighbour scan over the embedding column. Rows
// without an embedding are skipped; the source question is excluded.
func (r *quizRepo) SimilarTo(ctx context.Context, q *models.QuizQuestion, limit int) ([]models.QuizQuestion, error) {
	if limit <= 0 {
		limit = 5
	}
	if len(q.Embedding.Slice()) == 0 {
		return nil, nil
	}

	var rows []models.QuizQuestion
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND id <> ? AND embedding IS NOT NULL", q.CourseID, q.ID).
		Clauses(clause.OrderBy{
			Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []any{pgvector.NewVector(q.Embedding.Slice())}},
		}).
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *quizRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.QuizQuestion{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

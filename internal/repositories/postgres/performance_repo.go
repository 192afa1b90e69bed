package postgres

import (
	"context"

	"github.com/quizmentor/quizmentor/internal/models"
	"gorm.io/gorm"
)

type PerformanceRepository interface {
	Insert(ctx context.Context, rec *models.PerformanceRecord) error
	ListByUser(ctx context.Context, userID string, limit int) ([]models.PerformanceRecord, error)
	ListByUserAndCourse(ctx context.Context, userID, courseID string, limit int) ([]models.PerformanceRecord, error)
}

type performanceRepo struct {
	db *gorm.DB
}

func NewPerformanceRepo(db *gorm.DB) PerformanceRepository {
	return &performanceRepo{db: db}
}

func (r *performanceRepo) Insert(ctx context.Context, rec *models.PerformanceRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *performanceRepo) ListByUser(ctx context.Context, userID string, limit int) ([]models.PerformanceRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []models.PerformanceRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("taken_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *performanceRepo) ListByUserAndCourse(ctx context.Context, userID, courseID string, limit int) ([]models.PerformanceRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []models.PerformanceRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("taken_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

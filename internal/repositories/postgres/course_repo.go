package postgres

import (
	"context"
	"errors"

	"github.com/quizmentor/quizmentor/internal/models"
	"github.com/quizmentor/quizmentor/internal/utils"
	"gorm.io/gorm"
)

type CourseRepository interface {
	Insert(ctx context.Context, c *models.Course) error
	GetByID(ctx context.Context, id string) (*models.Course, error)
	List(ctx context.Context, limit int) ([]models.Course, error)
	Update(ctx context.Context, c *models.Course) error
	Delete(ctx context.Context, id string) error

	ListTopics(ctx context.Context, courseID string) ([]models.Topic, error)
	GetTopics(ctx context.Context, courseID string, topicIDs []string) ([]models.Topic, error)
}

type courseRepo struct {
	db *gorm.DB
}

func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Insert(ctx context.Context, c *models.Course) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*models.Course, error) {
	var c models.Course
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &c, err
}

func (r *courseRepo) List(ctx context.Context, limit int) ([]models.Course, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []models.Course
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *courseRepo) Update(ctx context.Context, c *models.Course) error {
	res := r.db.WithContext(ctx).Model(&models.Course{}).
		Where("id = ?", c.ID).
		Updates(map[string]any{
			"name":        c.Name,
			"description": c.Description,
			"updated_at":  c.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *courseRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Course{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *courseRepo) ListTopics(ctx context.Context, courseID string) ([]models.Topic, error) {
	var rows []models.Topic
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("position ASC").
		Find(&rows).Error
	return rows, err
}

func (r *courseRepo) GetTopics(ctx context.Context, courseID string, topicIDs []string) ([]models.Topic, error) {
	var rows []models.Topic
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND id IN ?", courseID, topicIDs).
		Order("position ASC").
		Find(&rows).Error
	return rows, err
}

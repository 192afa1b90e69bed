package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/quizmentor/quizmentor/internal/cache"
	"github.com/quizmentor/quizmentor/internal/models"
	pgrepo "github.com/quizmentor/quizmentor/internal/repositories/postgres"
	"github.com/quizmentor/quizmentor/internal/utils"
)

const topicsCacheTTL = 5 * time.Minute

type CourseService interface {
	Create(ctx context.Context, name, description string) (*models.Course, error)
	Get(ctx context.Context, id string) (*models.Course, error)
	List(ctx context.Context, limit int) ([]models.Course, error)
	Update(ctx context.Context, id, name, description string) (*models.Course, error)
	Delete(ctx context.Context, id string) error
	ListTopics(ctx context.Context, courseID string) ([]models.Topic, error)
}

type courseService struct {
	courses pgrepo.CourseRepository
	cache   cache.Cache
}

func NewCourseService(courses pgrepo.CourseRepository, c cache.Cache) CourseService {
	return &courseService{courses: courses, cache: c}
}

func (s *courseService) Create(ctx context.Context, name, description string) (*models.Course, error) {
	const op = "CourseService.Create"

	if name == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "name is required", nil)
	}

	now := time.Now().UTC()
	c := &models.Course{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.courses.Insert(ctx, c); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create course", err)
	}
	return c, nil
}

func (s *courseService) Get(ctx context.Context, id string) (*models.Course, error) {
	const op = "CourseService.Get"

	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "id is required", nil)
	}
	c, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "course not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get course", err)
	}
	return c, nil
}

func (s *courseService) List(ctx context.Context, limit int) ([]models.Course, error) {
	const op = "CourseService.List"

	rows, err := s.courses.List(ctx, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list courses", err)
	}
	return rows, nil
}

func (s *courseService) Update(ctx context.Context, id, name, description string) (*models.Course, error) {
	const op = "CourseService.Update"

	if id == "" || name == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "id and name are required", nil)
	}

	c := &models.Course{
		ID:          id,
		Name:        name,
		Description: description,
		UpdatedAt:   time.Now().UTC(),
	}
	if err := s.courses.Update(ctx, c); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "course not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to update course", err)
	}
	return c, nil
}

func (s *courseService) Delete(ctx context.Context, id string) error {
	const op = "CourseService.Delete"

	if id == "" {
		return utils.E(utils.CodeInvalidArgument, op, "id is required", nil)
	}
	if err := s.courses.Delete(ctx, id); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "course not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to delete course", err)
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, topicsCacheKey(id))
	}
	return nil
}

// ListTopics is cache-aside: interviews resolve topic snapshots on every
// start, so the hot path reads Redis first.
func (s *courseService) ListTopics(ctx context.Context, courseID string) ([]models.Topic, error) {
	const op = "CourseService.ListTopics"

	if courseID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "course_id is required", nil)
	}

	key := topicsCacheKey(courseID)
	if s.cache != nil {
		var cached []models.Topic
		if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	rows, err := s.courses.ListTopics(ctx, courseID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list topics", err)
	}

	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, key, rows, topicsCacheTTL)
	}
	return rows, nil
}

func topicsCacheKey(courseID string) string {
	return "course:" + courseID + ":topics"
}

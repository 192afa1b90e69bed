package postgres

import (
	"context"
	"errors"

	"github.com/quizmentor/quizmentor/internal/models"
	"github.com/quizmentor/quizmentor/internal/utils"
	"gorm.io/gorm"
)

// PersonaRepository serves the read-only interviewer persona and target role
// reference data.
type PersonaRepository interface {
	GetPersona(ctx context.Context, id string) (*models.Persona, error)
	ListPersonas(ctx context.Context) ([]models.Persona, error)
	GetRole(ctx context.Context, id, courseID string) (*models.TargetRole, error)
	ListRoles(ctx context.Context, courseID string) ([]models.TargetRole, error)
}

type personaRepo struct {
	db *gorm.DB
}

func NewPersonaRepo(db *gorm.DB) PersonaRepository {
	return &personaRepo{db: db}
}

func (r *personaRepo) GetPersona(ctx context.Context, id string) (*models.Persona, error) {
	var p models.Persona
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &p, err
}

func (r *personaRepo) ListPersonas(ctx context.Context) ([]models.Persona, error) {
	var rows []models.Persona
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

// GetRole resolves a role either globally or scoped to one course.
func (r *personaRepo) GetRole(ctx context.Context, id, courseID string) (*models.TargetRole, error) {
	q := r.db.WithContext(ctx).Where("id = ?", id)
	if courseID != "" {
		q = q.Where("course_id IS NULL OR course_id = ?", courseID)
	}

	var role models.TargetRole
	err := q.Take(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &role, err
}

func (r *personaRepo) ListRoles(ctx context.Context, courseID string) ([]models.TargetRole, error) {
	q := r.db.WithContext(ctx)
	if courseID != "" {
		q = q.Where("course_id IS NULL OR course_id = ?", courseID)
	}

	var rows []models.TargetRole
	err := q.Order("name ASC").Find(&rows).Error
	return rows, err
}

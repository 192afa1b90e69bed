package services

import (
	"context"
	"errors"

	"github.com/quizmentor/quizmentor/internal/models"
	pgrepo "github.com/quizmentor/quizmentor/internal/repositories/postgres"
	"github.com/quizmentor/quizmentor/internal/utils"
)

type PersonaService interface {
	GetPersona(ctx context.Context, id string) (*models.Persona, error)
	ListPersonas(ctx context.Context) ([]models.Persona, error)
	ListRoles(ctx context.Context, courseID string) ([]models.TargetRole, error)
}

type personaService struct {
	personas pgrepo.PersonaRepository
}

func NewPersonaService(personas pgrepo.PersonaRepository) PersonaService {
	return &personaService{personas: personas}
}

func (s *personaService) GetPersona(ctx context.Context, id string) (*models.Persona, error) {
	const op = "PersonaService.GetPersona"

	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "id is required", nil)
	}
	p, err := s.personas.GetPersona(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "persona not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get persona", err)
	}
	return p, nil
}

func (s *personaService) ListPersonas(ctx context.Context) ([]models.Persona, error) {
	const op = "PersonaService.ListPersonas"

	rows, err := s.personas.ListPersonas(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list personas", err)
	}
	return rows, nil
}

func (s *personaService) ListRoles(ctx context.Context, courseID string) ([]models.TargetRole, error) {
	const op = "PersonaService.ListRoles"

	rows, err := s.personas.ListRoles(ctx, courseID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list target roles", err)
	}
	return rows, nil
}

package services

import (
	"context"

	"github.com/quizmentor/quizmentor/internal/models"
	pgrepo "github.com/quizmentor/quizmentor/internal/repositories/postgres"
	"github.com/quizmentor/quizmentor/internal/utils"
)

type PerformanceService interface {
	ListMine(ctx context.Context, userID, courseID string, limit int) ([]models.PerformanceRecord, error)
}

type performanceService struct {
	performance pgrepo.PerformanceRepository
}

func NewPerformanceService(performance pgrepo.PerformanceRepository) PerformanceService {
	return &performanceService{performance: performance}
}

func (s *performanceService) ListMine(ctx context.Context, userID, courseID string, limit int) ([]models.PerformanceRecord, error) {
	const op = "PerformanceService.ListMine"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	var (
		rows []models.PerformanceRecord
		err  error
	)
	if courseID != "" {
		rows, err = s.performance.ListByUserAndCourse(ctx, userID, courseID, limit)
	} else {
		rows, err = s.performance.ListByUser(ctx, userID, limit)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list performance records", err)
	}
	return rows, nil
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/quizmentor/quizmentor/internal/models"
	pgrepo "github.com/quizmentor/quizmentor/internal/repositories/postgres"
	"github.com/quizmentor/quizmentor/internal/storage"
	"github.com/quizmentor/quizmentor/internal/utils"
)

type DisputeService interface {
	Create(ctx context.Context, userID, questionID, reason string, context_ json.RawMessage) (*models.Dispute, error)
	Get(ctx context.Context, id string) (*models.Dispute, error)
	ListMine(ctx context.Context, userID string, limit int) ([]models.Dispute, error)
	ListOpen(ctx context.Context, limit int) ([]models.Dispute, error)
	Resolve(ctx context.Context, id string, status models.DisputeStatus, resolution string) (*models.Dispute, error)
	Attach(ctx context.Context, id, userID, fileName, contentType, objectName string, r io.Reader) (*models.Dispute, error)
}

type disputeService struct {
	disputes pgrepo.DisputeRepository
	uploader storage.Uploader
}

func NewDisputeService(disputes pgrepo.DisputeRepository, uploader storage.Uploader) DisputeService {
	return &disputeService{disputes: disputes, uploader: uploader}
}

func (s *disputeService) Create(ctx context.Context, userID, questionID, reason string, context_ json.RawMessage) (*models.Dispute, error) {
	const op = "DisputeService.Create"

	if userID == "" || questionID == "" || reason == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id, question_id, and reason are required", nil)
	}

	d := &models.Dispute{
		ID:         uuid.NewString(),
		UserID:     userID,
		QuestionID: questionID,
		Reason:     reason,
		Context:    datatypes.JSON(context_),
		Status:     models.DisputeOpen,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.disputes.Insert(ctx, d); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create dispute", err)
	}
	return d, nil
}

func (s *disputeService) Get(ctx context.Context, id string) (*models.Dispute, error) {
	const op = "DisputeService.Get"

	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "id is required", nil)
	}
	d, err := s.disputes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "dispute not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get dispute", err)
	}
	return d, nil
}

func (s *disputeService) ListMine(ctx context.Context, userID string, limit int) ([]models.Dispute, error) {
	const op = "DisputeService.ListMine"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	rows, err := s.disputes.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list disputes", err)
	}
	return rows, nil
}

func (s *disputeService) ListOpen(ctx context.Context, limit int) ([]models.Dispute, error) {
	const op = "DisputeService.ListOpen"

	rows, err := s.disputes.ListByStatus(ctx, models.DisputeOpen, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list open disputes", err)
	}
	return rows, nil
}

func (s *disputeService) Resolve(ctx context.Context, id string, status models.DisputeStatus, resolution string) (*models.Dispute, error) {
	const op = "DisputeService.Resolve"

	if status != models.DisputeResolved && status != models.DisputeRejected {
		return nil, utils.E(utils.CodeInvalidArgument, op, "status must be resolved or rejected", nil)
	}

	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Status != models.DisputeOpen {
		return nil, utils.E(utils.CodeConflict, op, "dispute already closed", nil)
	}

	now := time.Now().UTC()
	d.Status = status
	d.Resolution = resolution
	d.ResolvedAt = &now

	if err := s.disputes.Update(ctx, d); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to resolve dispute", err)
	}
	return d, nil
}

func (s *disputeService) Attach(ctx context.Context, id, userID, fileName, contentType, objectName string, r io.Reader) (*models.Dispute, error) {
	const op = "DisputeService.Attach"

	if s.uploader == nil {
		return nil, utils.E(utils.CodeInternal, op, "uploader is not configured", nil)
	}

	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.UserID != userID {
		return nil, utils.E(utils.CodeForbidden, op, "forbidden", nil)
	}
	if d.Status != models.DisputeOpen {
		return nil, utils.E(utils.CodeConflict, op, "dispute already closed", nil)
	}

	storedPath, err := s.uploader.Upload(ctx, objectName, contentType, r)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to upload attachment", err)
	}

	d.AttachmentPath = storedPath
	d.AttachmentName = fileName
	if err := s.disputes.Update(ctx, d); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist attachment metadata", err)
	}
	return d, nil
}

package postgres

import (
	"context"
	"errors"

	"github.com/quizmentor/quizmentor/internal/models"
	"github.com/quizmentor/quizmentor/internal/utils"
	"gorm.io/gorm"
)

type DisputeRepository interface {
	Insert(ctx context.Context, d *models.Dispute) error
	GetByID(ctx context.Context, id string) (*models.Dispute, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Dispute, error)
	ListByStatus(ctx context.Context, status models.DisputeStatus, limit int) ([]models.Dispute, error)
	Update(ctx context.Context, d *models.Dispute) error
}

type disputeRepo struct {
	db *gorm.DB
}

func NewDisputeRepo(db *gorm.DB) DisputeRepository {
	return &disputeRepo{db: db}
}

func (r *disputeRepo) Insert(ctx context.Context, d *models.Dispute) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *disputeRepo) GetByID(ctx context.Context, id string) (*models.Dispute, error) {
	var d models.Dispute
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &d, err
}

func (r *disputeRepo) ListByUser(ctx context.Context, userID string, limit int) ([]models.Dispute, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []models.Dispute
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *disputeRepo) ListByStatus(ctx context.Context, status models.DisputeStatus, limit int) ([]models.Dispute, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []models.Dispute
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *disputeRepo) Update(ctx context.Context, d *models.Dispute) error {
	res := r.db.WithContext(ctx).Model(&models.Dispute{}).
		Where("id = ?", d.ID).
		Updates(map[string]any{
			"status":          d.Status,
			"resolution":      d.Resolution,
			"attachment_path": d.AttachmentPath,
			"attachment_name": d.AttachmentName,
			"resolved_at":     d.ResolvedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

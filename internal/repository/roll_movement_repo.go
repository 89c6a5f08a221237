package repository

import (
	"context"

	"gammacrm/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RollMovementFilter defines filters for listing roll-ledger entries.
type RollMovementFilter struct {
	PPFID  *uuid.UUID
	RollID *uuid.UUID
	Type   string
	Page   int
	Limit  int
}

type RollMovementRepository interface {
	CreateTx(tx *gorm.DB, m *model.RollMovement) error
	List(ctx context.Context, filter RollMovementFilter) ([]model.RollMovement, int64, error)
}

type rollMovementRepo struct{ db *gorm.DB }

func NewRollMovementRepository(db *gorm.DB) RollMovementRepository {
	return &rollMovementRepo{db: db}
}

func (r *rollMovementRepo) CreateTx(tx *gorm.DB, m *model.RollMovement) error {
	return tx.Create(m).Error
}

func (r *rollMovementRepo) List(ctx context.Context, filter RollMovementFilter) ([]model.RollMovement, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.RollMovement{})
	if filter.PPFID != nil {
		q = q.Where("ppf_id = ?", *filter.PPFID)
	}
	if filter.RollID != nil {
		q = q.Where("roll_id = ?", *filter.RollID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := (page - 1) * limit

	var movements []model.RollMovement
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&movements).Error
	return movements, total, err
}

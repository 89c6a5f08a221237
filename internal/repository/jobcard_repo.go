package repository

import (
	"context"

	"gammacrm/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobCardFilter defines filters for listing job cards.
type JobCardFilter struct {
	Status string `form:"status"`
	Phone  string `form:"phone"`
	Page   int    `form:"page,default=1" validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// JobCardRepository defines the data access contract for job cards.
// Services depend on this interface, not on the concrete GORM
// implementation, enabling clean unit testing via stubs.
type JobCardRepository interface {
	CreateTx(tx *gorm.DB, jc *model.JobCard) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.JobCard, error)
	List(ctx context.Context, filter JobCardFilter) ([]model.JobCard, int64, error)
	// SaveTx persists scalar field changes on an existing job card.
	SaveTx(tx *gorm.DB, jc *model.JobCard) error
	// ReplaceItemsOfKindTx deletes the job card's items of one kind
	// (with their roll usages) and inserts the replacements.
	ReplaceItemsOfKindTx(tx *gorm.DB, jobCardID uuid.UUID, kind string, items []model.JobCardItem) error
	CreateRollUsageTx(tx *gorm.DB, u *model.RollUsage) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type jobCardRepo struct{ db *gorm.DB }

func NewJobCardRepository(db *gorm.DB) JobCardRepository { return &jobCardRepo{db: db} }

func (r *jobCardRepo) DB() *gorm.DB { return r.db }

func (r *jobCardRepo) CreateTx(tx *gorm.DB, jc *model.JobCard) error {
	return tx.Create(jc).Error
}

func (r *jobCardRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.JobCard, error) {
	var jc model.JobCard
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("kind, position") }).
		Preload("Items.Rolls").
		First(&jc, id).Error
	if err != nil {
		return nil, err
	}
	return &jc, nil
}

func (r *jobCardRepo) List(ctx context.Context, filter JobCardFilter) ([]model.JobCard, int64, error) {
	var cards []model.JobCard
	var total int64

	q := r.db.WithContext(ctx).Model(&model.JobCard{})
	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Phone != "" {
		q = q.Where("customer_phone = ?", filter.Phone)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("kind, position") }).
		Preload("Items.Rolls").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&cards).Error
	return cards, total, err
}

func (r *jobCardRepo) SaveTx(tx *gorm.DB, jc *model.JobCard) error {
	// Omit associations: item replacement is explicit via ReplaceItemsOfKindTx.
	return tx.Omit("Items").Save(jc).Error
}

func (r *jobCardRepo) ReplaceItemsOfKindTx(tx *gorm.DB, jobCardID uuid.UUID, kind string, items []model.JobCardItem) error {
	var oldIDs []uuid.UUID
	if err := tx.Model(&model.JobCardItem{}).
		Where("job_card_id = ? AND kind = ?", jobCardID, kind).
		Pluck("id", &oldIDs).Error; err != nil {
		return err
	}
	if len(oldIDs) > 0 {
		if err := tx.Where("job_card_item_id IN ?", oldIDs).Delete(&model.RollUsage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", oldIDs).Delete(&model.JobCardItem{}).Error; err != nil {
			return err
		}
	}
	for i := range items {
		items[i].JobCardID = jobCardID
		items[i].Kind = kind
		items[i].Position = i
		if err := tx.Create(&items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *jobCardRepo) CreateRollUsageTx(tx *gorm.DB, u *model.RollUsage) error {
	return tx.Create(u).Error
}

func (r *jobCardRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	var itemIDs []uuid.UUID
	if err := tx.Model(&model.JobCardItem{}).
		Where("job_card_id = ?", id).
		Pluck("id", &itemIDs).Error; err != nil {
		return err
	}
	if len(itemIDs) > 0 {
		if err := tx.Where("job_card_item_id IN ?", itemIDs).Delete(&model.RollUsage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", itemIDs).Delete(&model.JobCardItem{}).Error; err != nil {
			return err
		}
	}
	return tx.Delete(&model.JobCard{}, id).Error
}

func (r *jobCardRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).Model(&model.JobCard{}).
		Where("id = ?", id).Update("status", status).Error
}

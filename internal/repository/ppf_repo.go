package repository

import (
	"context"

	"gammacrm/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PPFRepository covers PPF masters, their price grid, and their rolls.
// Roll stock is adjusted only through AdjustRollStockTx so every change
// stays inside the job-card engine's transaction.
type PPFRepository interface {
	Create(ctx context.Context, p *model.PPFMaster) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PPFMaster, error)
	List(ctx context.Context, includeInactive bool) ([]model.PPFMaster, error)
	Update(ctx context.Context, p *model.PPFMaster) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// Rolls, ordered by position; deduction walks this order. The Tx
	// reads take a row lock so concurrent jobs cannot both pass the
	// availability check on the same stock.
	FindRollsTx(tx *gorm.DB, ppfID uuid.UUID) ([]model.PPFRoll, error)
	FindRollTx(tx *gorm.DB, rollID uuid.UUID) (*model.PPFRoll, error)
	AdjustRollStockTx(tx *gorm.DB, rollID uuid.UUID, delta decimal.Decimal) error
	AddRoll(ctx context.Context, roll *model.PPFRoll) error
	UpdateRoll(ctx context.Context, roll *model.PPFRoll) error
	DeleteRoll(ctx context.Context, rollID uuid.UUID) error

	DB() *gorm.DB
}

type ppfRepo struct{ db *gorm.DB }

func NewPPFRepository(db *gorm.DB) PPFRepository { return &ppfRepo{db: db} }

func (r *ppfRepo) DB() *gorm.DB { return r.db }

func (r *ppfRepo) Create(ctx context.Context, p *model.PPFMaster) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ppfRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PPFMaster, error) {
	var p model.PPFMaster
	err := r.db.WithContext(ctx).
		Preload("Prices").
		Preload("Rolls", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ppfRepo) List(ctx context.Context, includeInactive bool) ([]model.PPFMaster, error) {
	q := r.db.WithContext(ctx).
		Preload("Prices").
		Preload("Rolls", func(db *gorm.DB) *gorm.DB { return db.Order("position") })
	if !includeInactive {
		q = q.Where("active = true")
	}
	var masters []model.PPFMaster
	err := q.Order("name").Find(&masters).Error
	return masters, err
}

func (r *ppfRepo) Update(ctx context.Context, p *model.PPFMaster) error {
	return r.db.WithContext(ctx).Omit("Prices", "Rolls").Save(p).Error
}

func (r *ppfRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.PPFMaster{}).
		Where("id = ?", id).Update("active", false).Error
}

func (r *ppfRepo) FindRollsTx(tx *gorm.DB, ppfID uuid.UUID) ([]model.PPFRoll, error) {
	var rolls []model.PPFRoll
	// SELECT ... FOR UPDATE: the availability check and the stock
	// adjustments that follow must be serialized across concurrent jobs.
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("ppf_id = ?", ppfID).Order("position").Find(&rolls).Error
	return rolls, err
}

func (r *ppfRepo) FindRollTx(tx *gorm.DB, rollID uuid.UUID) (*model.PPFRoll, error) {
	var roll model.PPFRoll
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&roll, rollID).Error; err != nil {
		return nil, err
	}
	return &roll, nil
}

func (r *ppfRepo) AdjustRollStockTx(tx *gorm.DB, rollID uuid.UUID, delta decimal.Decimal) error {
	return tx.Model(&model.PPFRoll{}).Where("id = ?", rollID).
		Update("stock_sqft", gorm.Expr("stock_sqft + ?", delta)).Error
}

func (r *ppfRepo) AddRoll(ctx context.Context, roll *model.PPFRoll) error {
	return r.db.WithContext(ctx).Create(roll).Error
}

func (r *ppfRepo) UpdateRoll(ctx context.Context, roll *model.PPFRoll) error {
	return r.db.WithContext(ctx).Save(roll).Error
}

func (r *ppfRepo) DeleteRoll(ctx context.Context, rollID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.PPFRoll{}, rollID).Error
}

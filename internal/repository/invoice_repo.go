package repository

import (
	"context"
	"time"

	"gammacrm/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceFilter defines filters for listing invoices.
type InvoiceFilter struct {
	Business string `form:"business"`
	Phone    string `form:"phone"`
	Paid     string `form:"paid"` // true | false | all
	Page     int    `form:"page,default=1" validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type InvoiceRepository interface {
	CreateTx(tx *gorm.DB, inv *model.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	FindByJobCard(ctx context.Context, jobCardID uuid.UUID) ([]model.Invoice, error)
	FindByJobCardAndBusinessTx(tx *gorm.DB, jobCardID uuid.UUID, business model.Business) (*model.Invoice, error)
	// SaveTx persists scalar field changes; items are replaced explicitly.
	SaveTx(tx *gorm.DB, inv *model.Invoice) error
	ReplaceItemsTx(tx *gorm.DB, invoiceID uuid.UUID, items []model.InvoiceItem) error
	CreatePaymentTx(tx *gorm.DB, p *model.InvoicePayment) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	List(ctx context.Context, filter InvoiceFilter) ([]model.Invoice, int64, error)
	// ListDueForExportRetry returns invoices whose PDF export failed and
	// whose next retry is due.
	ListDueForExportRetry(ctx context.Context, now time.Time, maxAttempts, limit int) ([]model.Invoice, error)
	Update(ctx context.Context, inv *model.Invoice) error
	DB() *gorm.DB
}

type invoiceRepo struct{ db *gorm.DB }

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository { return &invoiceRepo{db: db} }

func (r *invoiceRepo) DB() *gorm.DB { return r.db }

func (r *invoiceRepo) CreateTx(tx *gorm.DB, inv *model.Invoice) error {
	return tx.Create(inv).Error
}

func (r *invoiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		First(&inv, id).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepo) FindByJobCard(ctx context.Context, jobCardID uuid.UUID) ([]model.Invoice, error) {
	var invs []model.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Payments").
		Where("job_card_id = ?", jobCardID).
		Order("business").
		Find(&invs).Error
	return invs, err
}

func (r *invoiceRepo) FindByJobCardAndBusinessTx(tx *gorm.DB, jobCardID uuid.UUID, business model.Business) (*model.Invoice, error) {
	var inv model.Invoice
	err := tx.Preload("Items").Preload("Payments").
		Where("job_card_id = ? AND business = ?", jobCardID, business).
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepo) SaveTx(tx *gorm.DB, inv *model.Invoice) error {
	return tx.Omit("Items", "Payments").Save(inv).Error
}

func (r *invoiceRepo) ReplaceItemsTx(tx *gorm.DB, invoiceID uuid.UUID, items []model.InvoiceItem) error {
	if err := tx.Where("invoice_id = ?", invoiceID).Delete(&model.InvoiceItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].InvoiceID = invoiceID
		if err := tx.Create(&items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *invoiceRepo) CreatePaymentTx(tx *gorm.DB, p *model.InvoicePayment) error {
	return tx.Create(p).Error
}

func (r *invoiceRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("invoice_id = ?", id).Delete(&model.InvoiceItem{}).Error; err != nil {
		return err
	}
	if err := tx.Where("invoice_id = ?", id).Delete(&model.InvoicePayment{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Invoice{}, id).Error
}

func (r *invoiceRepo) List(ctx context.Context, filter InvoiceFilter) ([]model.Invoice, int64, error) {
	var invs []model.Invoice
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Invoice{})
	if filter.Business != "" && filter.Business != "all" {
		q = q.Where("business = ?", filter.Business)
	}
	if filter.Phone != "" {
		q = q.Where("customer_phone = ?", filter.Phone)
	}
	switch filter.Paid {
	case "true":
		q = q.Where("is_paid = true")
	case "false":
		q = q.Where("is_paid = false")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items").Preload("Payments").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&invs).Error
	return invs, total, err
}

func (r *invoiceRepo) ListDueForExportRetry(ctx context.Context, now time.Time, maxAttempts, limit int) ([]model.Invoice, error) {
	var invs []model.Invoice
	err := r.db.WithContext(ctx).
		Where("pdf_path IS NULL AND export_attempts > 0 AND export_attempts < ? AND next_retry_at IS NOT NULL AND next_retry_at <= ?", maxAttempts, now).
		Limit(limit).
		Find(&invs).Error
	return invs, err
}

func (r *invoiceRepo) Update(ctx context.Context, inv *model.Invoice) error {
	return r.db.WithContext(ctx).Omit("Items", "Payments").Save(inv).Error
}

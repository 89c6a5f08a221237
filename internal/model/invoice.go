package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice item types (display categories, denormalized from the job card).
const (
	InvoiceItemService   = "Service"
	InvoiceItemPPF       = "PPF"
	InvoiceItemAccessory = "Accessory"
	InvoiceItemLabor     = "Labor"
)

// Invoice is a business-scoped billing document derived from a job card.
// At most one exists per (JobCardID, Business) pair; edits update it in
// place preserving InvoiceNo and accumulated payments.
type Invoice struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceNo string    `gorm:"uniqueIndex;not null"` // AG-<year>-<seq> | AGNX-<year>-<seq>
	JobCardID uuid.UUID `gorm:"type:uuid;index;not null"`
	Business  Business  `gorm:"type:varchar(20);index;not null"`

	CustomerName  string `gorm:"not null"`
	CustomerPhone string `gorm:"index;not null"`
	CustomerEmail *string

	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LaborCharge decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// Discount is the job card's flat amount, applied in full to every
	// business invoice independently (not pro-rated).
	Discount    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	GSTPercent  decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	GSTAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	IsPaid bool `gorm:"not null;default:false"`
	// Orphaned marks an invoice whose job card was deleted while payments
	// were already recorded against it; kept for billing history.
	Orphaned bool `gorm:"not null;default:false"`

	// Export bookkeeping for the async PDF/email worker.
	PDFPath         *string
	ExportAttempts  int `gorm:"not null;default:0"`
	LastExportError *string
	NextRetryAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Items    []InvoiceItem    `gorm:"foreignKey:InvoiceID"`
	Payments []InvoicePayment `gorm:"foreignKey:InvoiceID"`
}

func (Invoice) TableName() string { return "invoices" }

// InvoiceItem is a business-filtered copy of one job-card line, carrying
// the denormalized sub-detail needed for display without re-joining the
// job card.
type InvoiceItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceID uuid.UUID `gorm:"type:uuid;index;not null"`
	Type      string    `gorm:"type:varchar(12);not null"` // Service | PPF | Accessory | Labor

	Name       string          `gorm:"not null"`
	Price      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity   int             `gorm:"not null;default:1"`
	Technician *string
	Warranty   *string
	RollUsed   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Category   *string
}

func (InvoiceItem) TableName() string { return "invoice_items" }

// InvoicePayment is one append-only payment entry. Payments are never
// modified or deleted.
type InvoicePayment struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Method    string          `gorm:"type:varchar(20);not null"`
	PaidAt    time.Time       `gorm:"not null"`
	CreatedAt time.Time
}

func (InvoicePayment) TableName() string { return "invoice_payments" }

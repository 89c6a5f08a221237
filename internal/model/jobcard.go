package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Job card status values. Status changes only by explicit user action,
// never as a side effect of invoice sync.
const (
	JobStatusPending    = "Pending"
	JobStatusInProgress = "In Progress"
	JobStatusCompleted  = "Completed"
	JobStatusCancelled  = "Cancelled"
)

// Line item kinds on a job card.
const (
	ItemKindService   = "service"
	ItemKindPPF       = "ppf"
	ItemKindAccessory = "accessory"
)

// JobCard is the operational record of one customer service engagement.
// It aggregates all line items before they are split into per-business
// invoices. JobNo is assigned once at creation and never changes.
type JobCard struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	JobNo string    `gorm:"uniqueIndex;not null"` // JC-<year>-<seq>

	CustomerName  string `gorm:"not null"`
	CustomerPhone string `gorm:"index;not null"`
	CustomerEmail *string

	VehicleMake  string
	VehicleModel string
	VehicleYear  string
	PlateNo      string
	VehicleType  string

	Status string `gorm:"type:varchar(20);not null;default:'Pending'"`

	LaborCharge   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	LaborBusiness Business        `gorm:"type:varchar(20);not null;default:'Auto Gamma'"`
	// Discount is a flat amount applied once per invoice, not pro-rated.
	Discount   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	GSTPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	// EstimatedCost is denormalized: the whole-job total across both
	// entities, distinct from the sum of per-business invoice totals.
	EstimatedCost decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	Date      time.Time `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Items []JobCardItem `gorm:"foreignKey:JobCardID"`
}

func (JobCard) TableName() string { return "job_cards" }

// JobCardItem is one service, PPF application, or accessory line.
// Price is snapshotted at add-time and never re-derived from the catalog.
type JobCardItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	JobCardID uuid.UUID `gorm:"type:uuid;index;not null"`
	Kind      string    `gorm:"type:varchar(10);not null"` // service | ppf | accessory
	// Position preserves the submitted order within a kind.
	Position  int        `gorm:"not null"`
	CatalogID *uuid.UUID `gorm:"type:uuid"`

	Name       string          `gorm:"not null"`
	Price      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity   int             `gorm:"not null;default:1"`
	Technician *string
	Business   Business `gorm:"type:varchar(20);not null;default:'Auto Gamma'"`

	// PPF-only fields
	Warranty *string
	RollUsed decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"` // sqft

	// Accessory-only field
	Category *string

	// Rolls records exactly which rolls this line drew from, so reversal
	// credits the same rolls it debited, never "the first roll".
	Rolls []RollUsage `gorm:"foreignKey:JobCardItemID"`
}

func (JobCardItem) TableName() string { return "job_card_items" }

// RollUsage attributes a portion of a PPF line's consumption to one roll.
type RollUsage struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	JobCardItemID uuid.UUID       `gorm:"type:uuid;index;not null"`
	RollID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	RollName      string          `gorm:"not null"`
	Qty           decimal.Decimal `gorm:"type:decimal(12,2);not null"` // sqft
}

func (RollUsage) TableName() string { return "roll_usages" }

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PPFMaster is a paint-protection-film product with a vehicle-type ×
// warranty price grid and a finite set of named rolls.
type PPFMaster struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name   string    `gorm:"uniqueIndex;not null"`
	Brand  *string
	Active bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Prices []PPFPrice `gorm:"foreignKey:PPFID"`
	Rolls  []PPFRoll  `gorm:"foreignKey:PPFID"`
}

func (PPFMaster) TableName() string { return "ppf_masters" }

// PPFPrice is one cell of the price grid.
type PPFPrice struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PPFID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	VehicleType string          `gorm:"not null"`
	Warranty    string          `gorm:"not null"` // e.g. "5yr", "10yr"
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (PPFPrice) TableName() string { return "ppf_prices" }

// PPFRoll is a finite inventory unit tracked by remaining square footage.
// StockSqft is mutated only by the job-card engine (deduction/restore)
// and by master-data management (initial stock entry). Deduction walks
// rolls in Position order.
type PPFRoll struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PPFID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	Name      string          `gorm:"not null"`
	StockSqft decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Position  int             `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PPFRoll) TableName() string { return "ppf_rolls" }

// RollMovement is an immutable event in the roll inventory ledger.
// Movements are NEVER modified or deleted; reversals create inverse
// entries.
type RollMovement struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PPFID  uuid.UUID `gorm:"type:uuid;index;not null"`
	RollID uuid.UUID `gorm:"type:uuid;index;not null"`
	Type   string    `gorm:"type:varchar(20);not null"` // deduct | restore
	// Qty is signed: negative = consumption, positive = restoration.
	Qty         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	StockBefore decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	StockAfter  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Reason      string
	JobCardID   *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt   time.Time
}

func (RollMovement) TableName() string { return "roll_movements" }

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServiceMaster is a detailing service offered by the shop.
type ServiceMaster struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"uniqueIndex;not null"`
	Description *string
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Active      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ServiceMaster) TableName() string { return "service_masters" }

// AccessoryCategory classifies accessories.
type AccessoryCategory struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (AccessoryCategory) TableName() string { return "accessory_categories" }

// Accessory is a sellable add-on product.
type Accessory struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name       string     `gorm:"index;not null"`
	CategoryID *uuid.UUID `gorm:"type:uuid;index"`
	Price      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Active     bool            `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Category *AccessoryCategory `gorm:"foreignKey:CategoryID"`
}

func (Accessory) TableName() string { return "accessories" }

// VehicleType is a keyed record used by the PPF price grid.
type VehicleType struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (VehicleType) TableName() string { return "vehicle_types" }

// Technician is a shop worker assignable to job-card lines.
type Technician struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	Phone     *string
	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Technician) TableName() string { return "technicians" }

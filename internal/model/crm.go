package model

import (
	"time"

	"github.com/google/uuid"
)

// Inquiry is a pre-sale customer contact; independent of job cards.
type Inquiry struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerName  string    `gorm:"not null"`
	CustomerPhone string    `gorm:"index;not null"`
	CustomerEmail *string
	VehicleDetails string
	Source         string // walk-in | phone | instagram | referral
	Notes          string
	Status         string `gorm:"type:varchar(20);not null;default:'Open'"` // Open | Converted | Closed
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Inquiry) TableName() string { return "inquiries" }

// Appointment is a scheduled visit; plain CRUD, no coupling to the core.
type Appointment struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerName   string    `gorm:"not null"`
	CustomerPhone  string    `gorm:"index;not null"`
	VehicleDetails string
	ScheduledAt    time.Time `gorm:"index;not null"`
	Technician     *string
	Notes          string
	Status         string `gorm:"type:varchar(20);not null;default:'Scheduled'"` // Scheduled | Done | Cancelled
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Appointment) TableName() string { return "appointments" }

// Ticket is an ad-hoc customer note or reminder.
type Ticket struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerName  string    `gorm:"not null"`
	CustomerPhone string    `gorm:"index"`
	Subject       string    `gorm:"not null"`
	Notes         string
	DueDate       *time.Time
	Status        string `gorm:"type:varchar(20);not null;default:'Open'"` // Open | Done
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Ticket) TableName() string { return "tickets" }

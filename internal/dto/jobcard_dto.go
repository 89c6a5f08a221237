package dto

import (
	"github.com/shopspring/decimal"

	"gammacrm/internal/repository"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ServiceLineRequest is one detailing-service line on a job card.
// Price is snapshotted client-side from the catalog at add time.
type ServiceLineRequest struct {
	CatalogID  *string         `json:"catalog_id" validate:"omitempty,uuid"`
	Name       string          `json:"name"       validate:"required"`
	Price      decimal.Decimal `json:"price"      validate:"min=0"`
	Quantity   int             `json:"quantity"   validate:"omitempty,min=1"`
	Technician *string         `json:"technician"`
	Business   string          `json:"business"   validate:"omitempty,oneof='Auto Gamma' AGNX"`
}

// PPFLineRequest is one PPF application line. RollUsed is the square
// footage to draw from the product's roll inventory.
type PPFLineRequest struct {
	CatalogID  *string         `json:"catalog_id" validate:"omitempty,uuid"`
	Name       string          `json:"name"       validate:"required"`
	Price      decimal.Decimal `json:"price"      validate:"min=0"`
	Quantity   int             `json:"quantity"   validate:"omitempty,min=1"`
	Technician *string         `json:"technician"`
	Business   string          `json:"business"   validate:"omitempty,oneof='Auto Gamma' AGNX"`
	Warranty   string          `json:"warranty"`
	RollUsed   decimal.Decimal `json:"roll_used"  validate:"min=0"`
}

// AccessoryLineRequest is one accessory line.
type AccessoryLineRequest struct {
	CatalogID  *string         `json:"catalog_id" validate:"omitempty,uuid"`
	Name       string          `json:"name"       validate:"required"`
	Price      decimal.Decimal `json:"price"      validate:"min=0"`
	Quantity   int             `json:"quantity"   validate:"omitempty,min=1"`
	Technician *string         `json:"technician"`
	Business   string          `json:"business"   validate:"omitempty,oneof='Auto Gamma' AGNX"`
	Category   *string         `json:"category"`
}

// PaymentRequest is one payment entry.
type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Method string          `json:"method" validate:"required,oneof=cash card upi transfer"`
	// Date is RFC3339; empty = now.
	Date string `json:"date" validate:"omitempty"`
}

// CreateJobCardRequest is the add-job payload. JobNo, id and date are
// server-assigned.
type CreateJobCardRequest struct {
	CustomerName  string  `json:"customer_name"  validate:"required"`
	CustomerPhone string  `json:"customer_phone" validate:"required"`
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email"`

	VehicleMake  string `json:"vehicle_make"`
	VehicleModel string `json:"vehicle_model"`
	VehicleYear  string `json:"vehicle_year"`
	PlateNo      string `json:"plate_no"`
	VehicleType  string `json:"vehicle_type"`

	Services    []ServiceLineRequest   `json:"services"    validate:"dive"`
	PPFs        []PPFLineRequest       `json:"ppfs"        validate:"dive"`
	Accessories []AccessoryLineRequest `json:"accessories" validate:"dive"`

	LaborCharge   decimal.Decimal `json:"labor_charge"   validate:"min=0"`
	LaborBusiness string          `json:"labor_business" validate:"omitempty,oneof='Auto Gamma' AGNX"`
	Discount      decimal.Decimal `json:"discount"       validate:"min=0"`
	GSTPercent    decimal.Decimal `json:"gst"            validate:"min=0,max=100"`

	// Payments optionally seeds the payment state of the first generated
	// invoice; later payments go directly to invoices.
	Payments []PaymentRequest `json:"payments" validate:"omitempty,dive"`
}

// UpdateJobCardRequest is a partial payload: nil fields are unchanged.
// A non-nil slice replaces that kind's lines wholesale (a PPF
// replacement triggers the revert-then-reapply roll reconciliation).
type UpdateJobCardRequest struct {
	CustomerName  *string `json:"customer_name"`
	CustomerPhone *string `json:"customer_phone"`
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email"`

	VehicleMake  *string `json:"vehicle_make"`
	VehicleModel *string `json:"vehicle_model"`
	VehicleYear  *string `json:"vehicle_year"`
	PlateNo      *string `json:"plate_no"`
	VehicleType  *string `json:"vehicle_type"`

	Services    *[]ServiceLineRequest   `json:"services"    validate:"omitempty,dive"`
	PPFs        *[]PPFLineRequest       `json:"ppfs"        validate:"omitempty,dive"`
	Accessories *[]AccessoryLineRequest `json:"accessories" validate:"omitempty,dive"`

	LaborCharge   *decimal.Decimal `json:"labor_charge"`
	LaborBusiness *string          `json:"labor_business" validate:"omitempty,oneof='Auto Gamma' AGNX"`
	Discount      *decimal.Decimal `json:"discount"`
	GSTPercent    *decimal.Decimal `json:"gst"`
}

// UpdateJobStatusRequest mutates only the status; status never changes
// as a side effect of invoice sync.
type UpdateJobStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending 'In Progress' Completed Cancelled"`
}

// JobCardFilter re-exports the repository filter for query binding.
type JobCardFilter = repository.JobCardFilter

// ─── Response DTOs ───────────────────────────────────────────────────────────

// RollUsageResponse is one entry of a PPF line's per-roll breakdown.
type RollUsageResponse struct {
	RollID   string          `json:"roll_id"`
	RollName string          `json:"roll_name"`
	Qty      decimal.Decimal `json:"qty"`
}

// JobLineResponse is one line item of any kind.
type JobLineResponse struct {
	ID         string              `json:"id"`
	Kind       string              `json:"kind"`
	CatalogID  *string             `json:"catalog_id"`
	Name       string              `json:"name"`
	Price      decimal.Decimal     `json:"price"`
	Quantity   int                 `json:"quantity"`
	Technician *string             `json:"technician"`
	Business   string              `json:"business"`
	Warranty   *string             `json:"warranty,omitempty"`
	RollUsed   decimal.Decimal     `json:"roll_used,omitempty"`
	Category   *string             `json:"category,omitempty"`
	RollsUsed  []RollUsageResponse `json:"rolls_used,omitempty"`
}

type JobCardResponse struct {
	ID            string  `json:"id"`
	JobNo         string  `json:"job_no"`
	CustomerName  string  `json:"customer_name"`
	CustomerPhone string  `json:"customer_phone"`
	CustomerEmail *string `json:"customer_email"`

	VehicleMake  string `json:"vehicle_make"`
	VehicleModel string `json:"vehicle_model"`
	VehicleYear  string `json:"vehicle_year"`
	PlateNo      string `json:"plate_no"`
	VehicleType  string `json:"vehicle_type"`

	Status string `json:"status"`

	Services    []JobLineResponse `json:"services"`
	PPFs        []JobLineResponse `json:"ppfs"`
	Accessories []JobLineResponse `json:"accessories"`

	LaborCharge   decimal.Decimal `json:"labor_charge"`
	LaborBusiness string          `json:"labor_business"`
	Discount      decimal.Decimal `json:"discount"`
	GSTPercent    decimal.Decimal `json:"gst"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`

	Date      string `json:"date"`
	CreatedAt string `json:"created_at"`

	// Invoices generated for this job card (one per business with items).
	Invoices []InvoiceResponse `json:"invoices,omitempty"`
}

type JobCardListResponse struct {
	Data  []JobCardResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

package dto

import "github.com/shopspring/decimal"

// ─── Services ────────────────────────────────────────────────────────────────

type ServiceMasterRequest struct {
	Name        string          `json:"name"  validate:"required"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price" validate:"min=0"`
}

type ServiceMasterResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Active      bool            `json:"active"`
}

// ─── PPF masters ─────────────────────────────────────────────────────────────

type PPFPriceRequest struct {
	VehicleType string          `json:"vehicle_type" validate:"required"`
	Warranty    string          `json:"warranty"     validate:"required"`
	Price       decimal.Decimal `json:"price"        validate:"min=0"`
}

type PPFRollRequest struct {
	Name      string          `json:"name"       validate:"required"`
	StockSqft decimal.Decimal `json:"stock_sqft" validate:"min=0"`
}

type PPFMasterRequest struct {
	Name   string            `json:"name" validate:"required"`
	Brand  *string           `json:"brand"`
	Prices []PPFPriceRequest `json:"prices" validate:"dive"`
	Rolls  []PPFRollRequest  `json:"rolls"  validate:"dive"`
}

type PPFPriceResponse struct {
	VehicleType string          `json:"vehicle_type"`
	Warranty    string          `json:"warranty"`
	Price       decimal.Decimal `json:"price"`
}

type PPFRollResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	StockSqft decimal.Decimal `json:"stock_sqft"`
	Position  int             `json:"position"`
}

type PPFMasterResponse struct {
	ID     string             `json:"id"`
	Name   string             `json:"name"`
	Brand  *string            `json:"brand"`
	Active bool               `json:"active"`
	Prices []PPFPriceResponse `json:"prices"`
	Rolls  []PPFRollResponse  `json:"rolls"`
}

// ─── Accessories / categories / vehicle types / technicians ─────────────────

type AccessoryRequest struct {
	Name       string          `json:"name"        validate:"required"`
	CategoryID *string         `json:"category_id" validate:"omitempty,uuid"`
	Price      decimal.Decimal `json:"price"       validate:"min=0"`
}

type AccessoryResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category *string         `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Active   bool            `json:"active"`
}

type NamedRecordRequest struct {
	Name string `json:"name" validate:"required"`
}

type NamedRecordResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type TechnicianRequest struct {
	Name  string  `json:"name" validate:"required"`
	Phone *string `json:"phone"`
}

type TechnicianResponse struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Phone  *string `json:"phone"`
	Active bool    `json:"active"`
}

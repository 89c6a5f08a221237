package dto

import (
	"github.com/shopspring/decimal"

	"gammacrm/internal/repository"
)

// InvoiceFilter re-exports the repository filter for query binding.
type InvoiceFilter = repository.InvoiceFilter

// RecordPaymentsRequest appends one or more payment entries to an
// invoice. The whole batch is rejected when its sum exceeds the
// remaining balance.
type RecordPaymentsRequest struct {
	Payments []PaymentRequest `json:"payments" validate:"required,min=1,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type InvoiceItemResponse struct {
	Type       string          `json:"type"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	Technician *string         `json:"technician,omitempty"`
	Warranty   *string         `json:"warranty,omitempty"`
	RollUsed   decimal.Decimal `json:"roll_used,omitempty"`
	Category   *string         `json:"category,omitempty"`
}

type InvoicePaymentResponse struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
	Date   string          `json:"date"`
}

type InvoiceResponse struct {
	ID            string                   `json:"id"`
	InvoiceNo     string                   `json:"invoice_no"`
	JobCardID     string                   `json:"job_card_id"`
	Business      string                   `json:"business"`
	CustomerName  string                   `json:"customer_name"`
	CustomerPhone string                   `json:"customer_phone"`
	Items         []InvoiceItemResponse    `json:"items"`
	Subtotal      decimal.Decimal          `json:"subtotal"`
	LaborCharge   decimal.Decimal          `json:"labor_charge"`
	Discount      decimal.Decimal          `json:"discount"`
	GSTPercent    decimal.Decimal          `json:"gst"`
	GSTAmount     decimal.Decimal          `json:"gst_amount"`
	TotalAmount   decimal.Decimal          `json:"total_amount"`
	Payments      []InvoicePaymentResponse `json:"payments"`
	AmountPaid    decimal.Decimal          `json:"amount_paid"`
	Balance       decimal.Decimal          `json:"balance"`
	IsPaid        bool                     `json:"is_paid"`
	Orphaned      bool                     `json:"orphaned"`
	CreatedAt     string                   `json:"created_at"`
}

type InvoiceListResponse struct {
	Data  []InvoiceResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

package dto

// ─── Inquiries ───────────────────────────────────────────────────────────────

type InquiryRequest struct {
	CustomerName   string  `json:"customer_name"  validate:"required"`
	CustomerPhone  string  `json:"customer_phone" validate:"required"`
	CustomerEmail  *string `json:"customer_email" validate:"omitempty,email"`
	VehicleDetails string  `json:"vehicle_details"`
	Source         string  `json:"source" validate:"omitempty,oneof=walk-in phone instagram referral"`
	Notes          string  `json:"notes"`
	Status         string  `json:"status" validate:"omitempty,oneof=Open Converted Closed"`
}

type InquiryResponse struct {
	ID             string  `json:"id"`
	CustomerName   string  `json:"customer_name"`
	CustomerPhone  string  `json:"customer_phone"`
	CustomerEmail  *string `json:"customer_email"`
	VehicleDetails string  `json:"vehicle_details"`
	Source         string  `json:"source"`
	Notes          string  `json:"notes"`
	Status         string  `json:"status"`
	CreatedAt      string  `json:"created_at"`
}

// ─── Appointments ────────────────────────────────────────────────────────────

type AppointmentRequest struct {
	CustomerName   string  `json:"customer_name"  validate:"required"`
	CustomerPhone  string  `json:"customer_phone" validate:"required"`
	VehicleDetails string  `json:"vehicle_details"`
	ScheduledAt    string  `json:"scheduled_at" validate:"required"` // RFC3339
	Technician     *string `json:"technician"`
	Notes          string  `json:"notes"`
	Status         string  `json:"status" validate:"omitempty,oneof=Scheduled Done Cancelled"`
}

type AppointmentResponse struct {
	ID             string  `json:"id"`
	CustomerName   string  `json:"customer_name"`
	CustomerPhone  string  `json:"customer_phone"`
	VehicleDetails string  `json:"vehicle_details"`
	ScheduledAt    string  `json:"scheduled_at"`
	Technician     *string `json:"technician"`
	Notes          string  `json:"notes"`
	Status         string  `json:"status"`
}

// ─── Tickets ─────────────────────────────────────────────────────────────────

type TicketRequest struct {
	CustomerName  string  `json:"customer_name" validate:"required"`
	CustomerPhone string  `json:"customer_phone"`
	Subject       string  `json:"subject" validate:"required"`
	Notes         string  `json:"notes"`
	DueDate       *string `json:"due_date"` // RFC3339
	Status        string  `json:"status" validate:"omitempty,oneof=Open Done"`
}

type TicketResponse struct {
	ID            string  `json:"id"`
	CustomerName  string  `json:"customer_name"`
	CustomerPhone string  `json:"customer_phone"`
	Subject       string  `json:"subject"`
	Notes         string  `json:"notes"`
	DueDate       *string `json:"due_date"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"created_at"`
}

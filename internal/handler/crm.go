package handler

import (
	"errors"
	"net/http"
	"time"

	"gammacrm/internal/apierror"
	"gammacrm/internal/dto"
	"gammacrm/internal/model"
	"gammacrm/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CRMHandler covers inquiries, appointments and tickets. These are flat
// CRUD collections with no cross-entity invariants, so the handler talks
// to the repositories directly.
type CRMHandler struct {
	inquiries    repository.InquiryRepository
	appointments repository.AppointmentRepository
	tickets      repository.TicketRepository
}

func NewCRMHandler(
	inquiries repository.InquiryRepository,
	appointments repository.AppointmentRepository,
	tickets repository.TicketRepository,
) *CRMHandler {
	return &CRMHandler{inquiries: inquiries, appointments: appointments, tickets: tickets}
}

func respondRepoError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, apierror.New("Record not found"))
		return
	}
	c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
}

// ─── Inquiries ───────────────────────────────────────────────────────────────

func (h *CRMHandler) CreateInquiry(c *gin.Context) {
	var req dto.InquiryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	i := &model.Inquiry{
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		CustomerEmail:  req.CustomerEmail,
		VehicleDetails: req.VehicleDetails,
		Source:         req.Source,
		Notes:          req.Notes,
		Status:         "Open",
	}
	if req.Status != "" {
		i.Status = req.Status
	}
	if err := h.inquiries.Create(c.Request.Context(), i); err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inquiryToResponse(i))
}

func (h *CRMHandler) ListInquiries(c *gin.Context) {
	list, err := h.inquiries.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list inquiries"))
		return
	}
	out := make([]dto.InquiryResponse, 0, len(list))
	for i := range list {
		out = append(out, inquiryToResponse(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *CRMHandler) UpdateInquiry(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.InquiryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	i, err := h.inquiries.FindByID(c.Request.Context(), id)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	i.CustomerName = req.CustomerName
	i.CustomerPhone = req.CustomerPhone
	i.CustomerEmail = req.CustomerEmail
	i.VehicleDetails = req.VehicleDetails
	i.Source = req.Source
	i.Notes = req.Notes
	if req.Status != "" {
		i.Status = req.Status
	}
	if err := h.inquiries.Update(c.Request.Context(), i); err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, inquiryToResponse(i))
}

func (h *CRMHandler) DeleteInquiry(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if _, err := h.inquiries.FindByID(c.Request.Context(), id); err != nil {
		respondRepoError(c, err)
		return
	}
	if err := h.inquiries.Delete(c.Request.Context(), id); err != nil {
		respondRepoError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func inquiryToResponse(i *model.Inquiry) dto.InquiryResponse {
	return dto.InquiryResponse{
		ID:             i.ID.String(),
		CustomerName:   i.CustomerName,
		CustomerPhone:  i.CustomerPhone,
		CustomerEmail:  i.CustomerEmail,
		VehicleDetails: i.VehicleDetails,
		Source:         i.Source,
		Notes:          i.Notes,
		Status:         i.Status,
		CreatedAt:      i.CreatedAt.Format(time.RFC3339),
	}
}

// ─── Appointments ────────────────────────────────────────────────────────────

func (h *CRMHandler) CreateAppointment(c *gin.Context) {
	var req dto.AppointmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("scheduled_at must be RFC3339"))
		return
	}
	a := &model.Appointment{
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		VehicleDetails: req.VehicleDetails,
		ScheduledAt:    scheduledAt,
		Technician:     req.Technician,
		Notes:          req.Notes,
		Status:         "Scheduled",
	}
	if req.Status != "" {
		a.Status = req.Status
	}
	if err := h.appointments.Create(c.Request.Context(), a); err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appointmentToResponse(a))
}

func (h *CRMHandler) ListAppointments(c *gin.Context) {
	list, err := h.appointments.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list appointments"))
		return
	}
	out := make([]dto.AppointmentResponse, 0, len(list))
	for i := range list {
		out = append(out, appointmentToResponse(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *CRMHandler) UpdateAppointment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.AppointmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	a, err := h.appointments.FindByID(c.Request.Context(), id)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	scheduledAt, perr := time.Parse(time.RFC3339, req.ScheduledAt)
	if perr != nil {
		c.JSON(http.StatusBadRequest, apierror.New("scheduled_at must be RFC3339"))
		return
	}
	a.CustomerName = req.CustomerName
	a.CustomerPhone = req.CustomerPhone
	a.VehicleDetails = req.VehicleDetails
	a.ScheduledAt = scheduledAt
	a.Technician = req.Technician
	a.Notes = req.Notes
	if req.Status != "" {
		a.Status = req.Status
	}
	if err := h.appointments.Update(c.Request.Context(), a); err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, appointmentToResponse(a))
}

func (h *CRMHandler) DeleteAppointment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if _, err := h.appointments.FindByID(c.Request.Context(), id); err != nil {
		respondRepoError(c, err)
		return
	}
	if err := h.appointments.Delete(c.Request.Context(), id); err != nil {
		respondRepoError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func appointmentToResponse(a *model.Appointment) dto.AppointmentResponse {
	return dto.AppointmentResponse{
		ID:             a.ID.String(),
		CustomerName:   a.CustomerName,
		CustomerPhone:  a.CustomerPhone,
		VehicleDetails: a.VehicleDetails,
		ScheduledAt:    a.ScheduledAt.Format(time.RFC3339),
		Technician:     a.Technician,
		Notes:          a.Notes,
		Status:         a.Status,
	}
}

// ─── Tickets ─────────────────────────────────────────────────────────────────

func (h *CRMHandler) CreateTicket(c *gin.Context) {
	var req dto.TicketRequest
	if !bindAndValidate(c, &req) {
		return
	}
	t := &model.Ticket{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Subject:       req.Subject,
		Notes:         req.Notes,
		Status:        "Open",
	}
	if req.Status != "" {
		t.Status = req.Status
	}
	if req.DueDate != nil {
		due, err := time.Parse(time.RFC3339, *req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("due_date must be RFC3339"))
			return
		}
		t.DueDate = &due
	}
	if err := h.tickets.Create(c.Request.Context(), t); err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ticketToResponse(t))
}

func (h *CRMHandler) ListTickets(c *gin.Context) {
	list, err := h.tickets.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list tickets"))
		return
	}
	out := make([]dto.TicketResponse, 0, len(list))
	for i := range list {
		out = append(out, ticketToResponse(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *CRMHandler) UpdateTicket(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.TicketRequest
	if !bindAndValidate(c, &req) {
		return
	}
	t, err := h.tickets.FindByID(c.Request.Context(), id)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	t.CustomerName = req.CustomerName
	t.CustomerPhone = req.CustomerPhone
	t.Subject = req.Subject
	t.Notes = req.Notes
	if req.Status != "" {
		t.Status = req.Status
	}
	t.DueDate = nil
	if req.DueDate != nil {
		due, perr := time.Parse(time.RFC3339, *req.DueDate)
		if perr != nil {
			c.JSON(http.StatusBadRequest, apierror.New("due_date must be RFC3339"))
			return
		}
		t.DueDate = &due
	}
	if err := h.tickets.Update(c.Request.Context(), t); err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticketToResponse(t))
}

func (h *CRMHandler) DeleteTicket(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if _, err := h.tickets.FindByID(c.Request.Context(), id); err != nil {
		respondRepoError(c, err)
		return
	}
	if err := h.tickets.Delete(c.Request.Context(), id); err != nil {
		respondRepoError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func ticketToResponse(t *model.Ticket) dto.TicketResponse {
	var due *string
	if t.DueDate != nil {
		s := t.DueDate.Format(time.RFC3339)
		due = &s
	}
	return dto.TicketResponse{
		ID:            t.ID.String(),
		CustomerName:  t.CustomerName,
		CustomerPhone: t.CustomerPhone,
		Subject:       t.Subject,
		Notes:         t.Notes,
		DueDate:       due,
		Status:        t.Status,
		CreatedAt:     t.CreatedAt.Format(time.RFC3339),
	}
}

package repository

import (
	"context"

	"gammacrm/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Inquiries, appointments and tickets are flat CRUD collections with no
// cross-entity invariants; handlers talk to these repos directly.

type InquiryRepository interface {
	Create(ctx context.Context, i *model.Inquiry) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Inquiry, error)
	List(ctx context.Context, status string) ([]model.Inquiry, error)
	Update(ctx context.Context, i *model.Inquiry) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type inquiryRepo struct{ db *gorm.DB }

func NewInquiryRepository(db *gorm.DB) InquiryRepository { return &inquiryRepo{db: db} }

func (r *inquiryRepo) Create(ctx context.Context, i *model.Inquiry) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *inquiryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Inquiry, error) {
	var i model.Inquiry
	if err := r.db.WithContext(ctx).First(&i, id).Error; err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *inquiryRepo) List(ctx context.Context, status string) ([]model.Inquiry, error) {
	q := r.db.WithContext(ctx)
	if status != "" && status != "all" {
		q = q.Where("status = ?", status)
	}
	var out []model.Inquiry
	err := q.Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *inquiryRepo) Update(ctx context.Context, i *model.Inquiry) error {
	return r.db.WithContext(ctx).Save(i).Error
}

func (r *inquiryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Inquiry{}, id).Error
}

type AppointmentRepository interface {
	Create(ctx context.Context, a *model.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	List(ctx context.Context, status string) ([]model.Appointment, error)
	Update(ctx context.Context, a *model.Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type appointmentRepo struct{ db *gorm.DB }

func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &appointmentRepo{db: db}
}

func (r *appointmentRepo) Create(ctx context.Context, a *model.Appointment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *appointmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	var a model.Appointment
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *appointmentRepo) List(ctx context.Context, status string) ([]model.Appointment, error) {
	q := r.db.WithContext(ctx)
	if status != "" && status != "all" {
		q = q.Where("status = ?", status)
	}
	var out []model.Appointment
	err := q.Order("scheduled_at").Find(&out).Error
	return out, err
}

func (r *appointmentRepo) Update(ctx context.Context, a *model.Appointment) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *appointmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Appointment{}, id).Error
}

type TicketRepository interface {
	Create(ctx context.Context, t *model.Ticket) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Ticket, error)
	List(ctx context.Context, status string) ([]model.Ticket, error)
	Update(ctx context.Context, t *model.Ticket) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ticketRepo struct{ db *gorm.DB }

func NewTicketRepository(db *gorm.DB) TicketRepository { return &ticketRepo{db: db} }

func (r *ticketRepo) Create(ctx context.Context, t *model.Ticket) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *ticketRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	var t model.Ticket
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ticketRepo) List(ctx context.Context, status string) ([]model.Ticket, error) {
	q := r.db.WithContext(ctx)
	if status != "" && status != "all" {
		q = q.Where("status = ?", status)
	}
	var out []model.Ticket
	err := q.Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *ticketRepo) Update(ctx context.Context, t *model.Ticket) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *ticketRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Ticket{}, id).Error
}

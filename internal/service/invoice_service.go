package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gammacrm/internal/dto"
	"gammacrm/internal/model"
	"gammacrm/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// InvoiceService covers the invoice store's own surface: payment
// recording, lookup and deletion. Invoice creation and field sync belong
// to the job-card engine exclusively.
type InvoiceService struct {
	invoices repository.InvoiceRepository
	log      zerolog.Logger
}

func NewInvoiceService(invoices repository.InvoiceRepository, log zerolog.Logger) *InvoiceService {
	return &InvoiceService{invoices: invoices, log: log}
}

// RecordPayments appends a batch of payment entries. Every amount must
// be positive and the batch as a whole must fit within the remaining
// balance, otherwise nothing is recorded. IsPaid is recomputed and
// persisted together with the entries.
func (s *InvoiceService) RecordPayments(ctx context.Context, id uuid.UUID, req dto.RecordPaymentsRequest) (*dto.InvoiceResponse, error) {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := validatePaymentBatch(req.Payments, inv.TotalAmount.Sub(amountPaid(inv.Payments))); err != nil {
		return nil, err
	}

	err = runTx(ctx, s.invoices.DB(), func(tx *gorm.DB) error {
		for _, p := range req.Payments {
			paidAt := time.Now()
			if p.Date != "" {
				if t, perr := time.Parse(time.RFC3339, p.Date); perr == nil {
					paidAt = t
				}
			}
			entry := model.InvoicePayment{
				InvoiceID: inv.ID,
				Amount:    p.Amount,
				Method:    p.Method,
				PaidAt:    paidAt,
			}
			if err := s.invoices.CreatePaymentTx(tx, &entry); err != nil {
				return fmt.Errorf("recording payment: %w", err)
			}
			inv.Payments = append(inv.Payments, entry)
		}
		inv.IsPaid = amountPaid(inv.Payments).GreaterThanOrEqual(inv.TotalAmount)
		return s.invoices.SaveTx(tx, inv)
	})
	if err != nil {
		return nil, err
	}

	resp := invoiceToResponse(inv)
	return &resp, nil
}

// Get returns one invoice with items and payment history.
func (s *InvoiceService) Get(ctx context.Context, id uuid.UUID) (*dto.InvoiceResponse, error) {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	resp := invoiceToResponse(inv)
	return &resp, nil
}

// List returns invoices matching the filter, customer-phone lookup
// included.
func (s *InvoiceService) List(ctx context.Context, filter dto.InvoiceFilter) (*dto.InvoiceListResponse, error) {
	invs, total, err := s.invoices.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceResponse, 0, len(invs))
	for i := range invs {
		out = append(out, invoiceToResponse(&invs[i]))
	}
	return &dto.InvoiceListResponse{Data: out, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Delete removes an invoice with its items and payments.
func (s *InvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return runTx(ctx, s.invoices.DB(), func(tx *gorm.DB) error {
		return s.invoices.DeleteTx(tx, inv.ID)
	})
}

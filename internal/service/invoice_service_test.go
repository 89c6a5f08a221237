package service

import (
	"context"
	"testing"

	"gammacrm/internal/dto"
	"gammacrm/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedInvoice(repo *stubInvoiceRepo, total string) *model.Invoice {
	inv := &model.Invoice{
		ID:          uuid.New(),
		InvoiceNo:   "AG-2026-001",
		JobCardID:   uuid.New(),
		Business:    model.BusinessAutoGamma,
		TotalAmount: dec(total),
	}
	repo.invoices[inv.ID] = inv
	return inv
}

func TestRecordPayments_MarksPaidAtExactThreshold(t *testing.T) {
	repo := newStubInvoiceRepo()
	svc := NewInvoiceService(repo, zerolog.Nop())
	inv := seedInvoice(repo, "1180")

	resp, err := svc.RecordPayments(context.Background(), inv.ID, dto.RecordPaymentsRequest{
		Payments: []dto.PaymentRequest{{Amount: dec("1000"), Method: "cash"}},
	})
	require.NoError(t, err)
	assert.False(t, resp.IsPaid)
	assertDec(t, "180", resp.Balance)

	resp, err = svc.RecordPayments(context.Background(), inv.ID, dto.RecordPaymentsRequest{
		Payments: []dto.PaymentRequest{{Amount: dec("180"), Method: "upi"}},
	})
	require.NoError(t, err)
	assert.True(t, resp.IsPaid)
	assertDec(t, "0", resp.Balance)
	assert.Len(t, repo.payments, 2)
}

func TestRecordPayments_MultiEntryBatch(t *testing.T) {
	repo := newStubInvoiceRepo()
	svc := NewInvoiceService(repo, zerolog.Nop())
	inv := seedInvoice(repo, "1000")

	resp, err := svc.RecordPayments(context.Background(), inv.ID, dto.RecordPaymentsRequest{
		Payments: []dto.PaymentRequest{
			{Amount: dec("600"), Method: "cash"},
			{Amount: dec("400"), Method: "card"},
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.IsPaid)
	assertDec(t, "1000", resp.AmountPaid)
}

func TestRecordPayments_RejectsOverpayingBatch(t *testing.T) {
	repo := newStubInvoiceRepo()
	svc := NewInvoiceService(repo, zerolog.Nop())
	inv := seedInvoice(repo, "1000")

	// The batch exceeds the balance even though each entry alone fits.
	_, err := svc.RecordPayments(context.Background(), inv.ID, dto.RecordPaymentsRequest{
		Payments: []dto.PaymentRequest{
			{Amount: dec("700"), Method: "cash"},
			{Amount: dec("700"), Method: "card"},
		},
	})
	require.ErrorIs(t, err, ErrOverpayment)
	assert.Empty(t, repo.payments)
	assert.False(t, repo.invoices[inv.ID].IsPaid)
}

func TestRecordPayments_RejectsNonPositiveAmount(t *testing.T) {
	repo := newStubInvoiceRepo()
	svc := NewInvoiceService(repo, zerolog.Nop())
	inv := seedInvoice(repo, "1000")

	_, err := svc.RecordPayments(context.Background(), inv.ID, dto.RecordPaymentsRequest{
		Payments: []dto.PaymentRequest{{Amount: dec("0"), Method: "cash"}},
	})
	require.Error(t, err)
	assert.Empty(t, repo.payments)
}

func TestRecordPayments_NotFound(t *testing.T) {
	repo := newStubInvoiceRepo()
	svc := NewInvoiceService(repo, zerolog.Nop())

	_, err := svc.RecordPayments(context.Background(), uuid.New(), dto.RecordPaymentsRequest{
		Payments: []dto.PaymentRequest{{Amount: dec("100"), Method: "cash"}},
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteInvoice(t *testing.T) {
	repo := newStubInvoiceRepo()
	svc := NewInvoiceService(repo, zerolog.Nop())
	inv := seedInvoice(repo, "500")

	require.NoError(t, svc.Delete(context.Background(), inv.ID))
	assert.Empty(t, repo.invoices)

	err := svc.Delete(context.Background(), inv.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

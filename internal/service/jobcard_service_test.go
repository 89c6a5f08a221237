package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gammacrm/internal/dto"
	"gammacrm/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Fixture ──────────────────────────────────────────────────────────────────

type engineFixture struct {
	svc       *JobCardService
	cards     *stubJobCardRepo
	invoices  *stubInvoiceRepo
	ppf       *stubPPFRepo
	movements *stubMovementRepo
}

func newEngine() *engineFixture {
	cards := newStubJobCardRepo()
	invoices := newStubInvoiceRepo()
	ppf := newStubPPFRepo()
	movements := &stubMovementRepo{}
	svc := NewJobCardService(cards, invoices, ppf, movements, newStubCounterRepo(), nil, zerolog.Nop())
	return &engineFixture{svc: svc, cards: cards, invoices: invoices, ppf: ppf, movements: movements}
}

func (f *engineFixture) invoiceFor(t *testing.T, jobCardID uuid.UUID, business model.Business) *model.Invoice {
	t.Helper()
	inv, err := f.invoices.FindByJobCardAndBusinessTx(nil, jobCardID, business)
	require.NoError(t, err, "expected an invoice for %s", business)
	return inv
}

func baseRequest() dto.CreateJobCardRequest {
	return dto.CreateJobCardRequest{
		CustomerName:  "Ravi Sharma",
		CustomerPhone: "9876543210",
		VehicleMake:   "Toyota",
		VehicleModel:  "Fortuner",
		PlateNo:       "KA-01-AB-1234",
		VehicleType:   "SUV",
	}
}

// ── Invoice generation ───────────────────────────────────────────────────────

func TestCreateJobCard_SplitsInvoicesPerBusiness(t *testing.T) {
	f := newEngine()
	year := time.Now().Year()

	req := baseRequest()
	req.Services = []dto.ServiceLineRequest{
		{Name: "Ceramic Coating", Price: dec("1000"), Business: "Auto Gamma"},
	}
	req.PPFs = []dto.PPFLineRequest{
		{Name: "Gloss PPF Full Body", Price: dec("5000"), Business: "AGNX"},
	}
	req.LaborCharge = dec("200")
	req.LaborBusiness = "Auto Gamma"
	req.Discount = dec("100")
	req.GSTPercent = dec("18")

	resp, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("JC-%d-001", year), resp.JobNo)
	require.Len(t, resp.Invoices, 2)

	jcID := uuid.MustParse(resp.ID)
	ag := f.invoiceFor(t, jcID, model.BusinessAutoGamma)
	assert.Equal(t, fmt.Sprintf("AG-%d-001", year), ag.InvoiceNo)
	assertDec(t, "1000", ag.Subtotal)
	assertDec(t, "200", ag.LaborCharge)
	assertDec(t, "100", ag.Discount)
	// (1000 + 200 - 100) * 18% = 198
	assertDec(t, "198", ag.GSTAmount)
	assertDec(t, "1298", ag.TotalAmount)

	agnx := f.invoiceFor(t, jcID, model.BusinessAGNX)
	assert.Equal(t, fmt.Sprintf("AGNX-%d-001", year), agnx.InvoiceNo)
	assertDec(t, "5000", agnx.Subtotal)
	assertDec(t, "0", agnx.LaborCharge)
	// The flat discount comes off both invoices in full.
	assertDec(t, "100", agnx.Discount)
	assertDec(t, "882", agnx.GSTAmount)
	assertDec(t, "5782", agnx.TotalAmount)

	// Whole-job estimate: (1000 + 5000 + 200 - 100) * 1.18
	assertDec(t, "7198", resp.EstimatedCost)
}

func TestCreateJobCard_AssignsSequentialNumbers(t *testing.T) {
	f := newEngine()
	year := time.Now().Year()

	req := baseRequest()
	req.Services = []dto.ServiceLineRequest{{Name: "Wash", Price: dec("300"), Business: "Auto Gamma"}}

	first, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
	second, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("JC-%d-001", year), first.JobNo)
	assert.Equal(t, fmt.Sprintf("JC-%d-002", year), second.JobNo)
	assert.Equal(t, fmt.Sprintf("AG-%d-001", year), first.Invoices[0].InvoiceNo)
	assert.Equal(t, fmt.Sprintf("AG-%d-002", year), second.Invoices[0].InvoiceNo)
}

func TestCreateJobCard_LaborOnlyInvoice(t *testing.T) {
	f := newEngine()

	req := baseRequest()
	req.LaborCharge = dec("500")
	req.LaborBusiness = "AGNX"
	req.GSTPercent = dec("18")

	resp, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Invoices, 1)

	inv := f.invoiceFor(t, uuid.MustParse(resp.ID), model.BusinessAGNX)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, model.InvoiceItemLabor, inv.Items[0].Type)
	assertDec(t, "0", inv.Subtotal)
	assertDec(t, "500", inv.LaborCharge)
	assertDec(t, "590", inv.TotalAmount)
}

func TestCreateJobCard_MergesDuplicatePPFLines(t *testing.T) {
	f := newEngine()
	ppfID := f.ppf.addMaster("Matte PPF", dec("50"))
	catalogID := ppfID.String()

	req := baseRequest()
	req.PPFs = []dto.PPFLineRequest{
		{CatalogID: &catalogID, Name: "Matte PPF", Price: dec("4000"), Warranty: "10yr", RollUsed: dec("10")},
		{CatalogID: &catalogID, Name: "Matte PPF", Price: dec("4000"), Warranty: "10yr", RollUsed: dec("5")},
	}

	resp, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, resp.PPFs, 1)
	assertDec(t, "15", resp.PPFs[0].RollUsed)

	rolls, err := f.ppf.FindRollsTx(nil, ppfID)
	require.NoError(t, err)
	assertDec(t, "35", rolls[0].StockSqft)
}

// ── Seed payments ────────────────────────────────────────────────────────────

func TestCreateJobCard_RejectsOverpayingSeedPayments(t *testing.T) {
	f := newEngine()

	req := baseRequest()
	req.Services = []dto.ServiceLineRequest{{Name: "Wash", Price: dec("300"), Business: "Auto Gamma"}}
	req.Payments = []dto.PaymentRequest{{Amount: dec("5000"), Method: "cash"}}

	_, err := f.svc.Create(context.Background(), req)
	require.ErrorIs(t, err, ErrOverpayment)
	assert.Empty(t, f.invoices.payments)
}

func TestCreateJobCard_RejectsNonPositiveSeedPayment(t *testing.T) {
	f := newEngine()

	req := baseRequest()
	req.Services = []dto.ServiceLineRequest{{Name: "Wash", Price: dec("300"), Business: "Auto Gamma"}}
	req.Payments = []dto.PaymentRequest{
		{Amount: dec("100"), Method: "cash"},
		{Amount: dec("-50"), Method: "cash"},
	}

	_, err := f.svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be positive")
	assert.Empty(t, f.invoices.payments)
}

// ── Roll inventory ───────────────────────────────────────────────────────────

func TestCreateJobCard_DeductsRollsInPositionOrder(t *testing.T) {
	f := newEngine()
	ppfID := f.ppf.addMaster("Gloss PPF", dec("20"), dec("25"))
	catalogID := ppfID.String()

	req := baseRequest()
	req.PPFs = []dto.PPFLineRequest{
		{CatalogID: &catalogID, Name: "Gloss PPF", Price: dec("8000"), RollUsed: dec("30")},
	}

	resp, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)

	// 30 sqft: roll A drains from 20 to 0, roll B covers the remaining 10.
	rolls, err := f.ppf.FindRollsTx(nil, ppfID)
	require.NoError(t, err)
	assertDec(t, "0", rolls[0].StockSqft)
	assertDec(t, "15", rolls[1].StockSqft)

	require.Len(t, resp.PPFs, 1)
	require.Len(t, resp.PPFs[0].RollsUsed, 2)
	assertDec(t, "20", resp.PPFs[0].RollsUsed[0].Qty)
	assertDec(t, "10", resp.PPFs[0].RollsUsed[1].Qty)

	require.Len(t, f.movements.movements, 2)
	first := f.movements.movements[0]
	assert.Equal(t, "deduct", first.Type)
	assertDec(t, "-20", first.Qty)
	assertDec(t, "20", first.StockBefore)
	assertDec(t, "0", first.StockAfter)
	second := f.movements.movements[1]
	assertDec(t, "-10", second.Qty)
	assertDec(t, "25", second.StockBefore)
	assertDec(t, "15", second.StockAfter)
}

func TestCreateJobCard_InsufficientStockFailsWholeJob(t *testing.T) {
	f := newEngine()
	ppfID := f.ppf.addMaster("Gloss PPF", dec("20"), dec("25"))
	catalogID := ppfID.String()

	req := baseRequest()
	req.PPFs = []dto.PPFLineRequest{
		{CatalogID: &catalogID, Name: "Gloss PPF", Price: dec("8000"), RollUsed: dec("50")},
	}

	_, err := f.svc.Create(context.Background(), req)
	require.ErrorIs(t, err, ErrInsufficientStock)

	// The availability check runs before any deduction for the line.
	rolls, rerr := f.ppf.FindRollsTx(nil, ppfID)
	require.NoError(t, rerr)
	assertDec(t, "20", rolls[0].StockSqft)
	assertDec(t, "25", rolls[1].StockSqft)
	assert.Empty(t, f.movements.movements)
	assert.Empty(t, f.invoices.invoices)
}

func TestUpdateJobCard_ReappliesRollAllocation(t *testing.T) {
	f := newEngine()
	ppfID := f.ppf.addMaster("Gloss PPF", dec("20"), dec("25"))
	catalogID := ppfID.String()

	req := baseRequest()
	req.PPFs = []dto.PPFLineRequest{
		{CatalogID: &catalogID, Name: "Gloss PPF", Price: dec("8000"), RollUsed: dec("30")},
	}
	resp, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)

	// Shrink the line to 5 sqft: the old 30 is credited back to the exact
	// rolls it came from, then 5 is drawn fresh from roll A.
	newLines := []dto.PPFLineRequest{
		{CatalogID: &catalogID, Name: "Gloss PPF", Price: dec("8000"), RollUsed: dec("5")},
	}
	_, err = f.svc.Update(context.Background(), uuid.MustParse(resp.ID), dto.UpdateJobCardRequest{PPFs: &newLines})
	require.NoError(t, err)

	rolls, err := f.ppf.FindRollsTx(nil, ppfID)
	require.NoError(t, err)
	assertDec(t, "15", rolls[0].StockSqft)
	assertDec(t, "25", rolls[1].StockSqft)

	// 2 deductions at create, 2 restores on revert, 1 fresh deduction.
	require.Len(t, f.movements.movements, 5)
	assert.Equal(t, "restore", f.movements.movements[2].Type)
	assert.Equal(t, "restore", f.movements.movements[3].Type)
	assert.Equal(t, "deduct", f.movements.movements[4].Type)
}

// ── Invoice sync on update ───────────────────────────────────────────────────

func TestUpdateJobCard_PreservesInvoiceNoAndPayments(t *testing.T) {
	f := newEngine()

	req := baseRequest()
	req.Services = []dto.ServiceLineRequest{{Name: "Detailing", Price: dec("1000"), Business: "Auto Gamma"}}
	req.Payments = []dto.PaymentRequest{{Amount: dec("500"), Method: "cash"}}

	resp, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)

	jcID := uuid.MustParse(resp.ID)
	inv := f.invoiceFor(t, jcID, model.BusinessAutoGamma)
	originalNo := inv.InvoiceNo
	require.Len(t, inv.Payments, 1)
	assert.False(t, inv.IsPaid)

	// The discount drops the total to the amount already paid; the
	// invoice updates in place and flips to paid.
	discount := dec("500")
	_, err = f.svc.Update(context.Background(), jcID, dto.UpdateJobCardRequest{Discount: &discount})
	require.NoError(t, err)

	inv = f.invoiceFor(t, jcID, model.BusinessAutoGamma)
	assert.Equal(t, originalNo, inv.InvoiceNo)
	require.Len(t, inv.Payments, 1)
	assertDec(t, "500", inv.TotalAmount)
	assert.True(t, inv.IsPaid)
}

func TestUpdateJobCard_MovesLineToOtherBusiness(t *testing.T) {
	f := newEngine()
	year := time.Now().Year()

	req := baseRequest()
	req.Services = []dto.ServiceLineRequest{{Name: "Detailing", Price: dec("1000"), Business: "Auto Gamma"}}
	resp, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
	jcID := uuid.MustParse(resp.ID)

	moved := []dto.ServiceLineRequest{{Name: "Detailing", Price: dec("1000"), Business: "AGNX"}}
	_, err = f.svc.Update(context.Background(), jcID, dto.UpdateJobCardRequest{Services: &moved})
	require.NoError(t, err)

	// Auto Gamma's subset emptied, its invoice is gone for good; AGNX
	// gains a brand new invoice with its own number.
	_, err = f.invoices.FindByJobCardAndBusinessTx(nil, jcID, model.BusinessAutoGamma)
	assert.Error(t, err)

	agnx := f.invoiceFor(t, jcID, model.BusinessAGNX)
	assert.Equal(t, fmt.Sprintf("AGNX-%d-001", year), agnx.InvoiceNo)
	assertDec(t, "1000", agnx.TotalAmount)
}

func TestUpdateJobCard_ClearsCustomerEmail(t *testing.T) {
	f := newEngine()

	req := baseRequest()
	email := "ravi@example.com"
	req.CustomerEmail = &email
	req.Services = []dto.ServiceLineRequest{{Name: "Wash", Price: dec("300"), Business: "Auto Gamma"}}
	resp, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
	jcID := uuid.MustParse(resp.ID)

	// An explicit empty string clears the address; the synced invoice
	// loses it too, so no send is attempted on export.
	empty := ""
	_, err = f.svc.Update(context.Background(), jcID, dto.UpdateJobCardRequest{CustomerEmail: &empty})
	require.NoError(t, err)

	jc, err := f.cards.FindByID(context.Background(), jcID)
	require.NoError(t, err)
	assert.Nil(t, jc.CustomerEmail)

	inv := f.invoiceFor(t, jcID, model.BusinessAutoGamma)
	assert.Nil(t, inv.CustomerEmail)
}

// ── Delete ───────────────────────────────────────────────────────────────────

func TestDeleteJobCard_RestoresStockAndDeletesUnpaidInvoices(t *testing.T) {
	f := newEngine()
	ppfID := f.ppf.addMaster("Gloss PPF", dec("20"), dec("25"))
	catalogID := ppfID.String()

	req := baseRequest()
	req.Services = []dto.ServiceLineRequest{{Name: "Wash", Price: dec("300"), Business: "Auto Gamma"}}
	req.PPFs = []dto.PPFLineRequest{
		{CatalogID: &catalogID, Name: "Gloss PPF", Price: dec("8000"), RollUsed: dec("30"), Business: "AGNX"},
	}
	resp, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
	jcID := uuid.MustParse(resp.ID)
	require.Len(t, f.invoices.invoices, 2)

	require.NoError(t, f.svc.Delete(context.Background(), jcID))

	rolls, err := f.ppf.FindRollsTx(nil, ppfID)
	require.NoError(t, err)
	assertDec(t, "20", rolls[0].StockSqft)
	assertDec(t, "25", rolls[1].StockSqft)

	assert.Empty(t, f.invoices.invoices)
	assert.Empty(t, f.cards.cards)
}

func TestDeleteJobCard_KeepsPaidInvoicesAsOrphaned(t *testing.T) {
	f := newEngine()

	req := baseRequest()
	req.Services = []dto.ServiceLineRequest{{Name: "Detailing", Price: dec("1000"), Business: "Auto Gamma"}}
	req.Payments = []dto.PaymentRequest{{Amount: dec("400"), Method: "upi"}}
	resp, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
	jcID := uuid.MustParse(resp.ID)

	require.NoError(t, f.svc.Delete(context.Background(), jcID))

	assert.Empty(t, f.cards.cards)
	require.Len(t, f.invoices.invoices, 1)
	for _, inv := range f.invoices.invoices {
		assert.True(t, inv.Orphaned)
		require.Len(t, inv.Payments, 1)
	}
}

// ── Status ───────────────────────────────────────────────────────────────────

func TestUpdateStatus_DoesNotTouchInvoices(t *testing.T) {
	f := newEngine()

	req := baseRequest()
	req.Services = []dto.ServiceLineRequest{{Name: "Wash", Price: dec("300"), Business: "Auto Gamma"}}
	resp, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
	jcID := uuid.MustParse(resp.ID)
	inv := f.invoiceFor(t, jcID, model.BusinessAutoGamma)
	before := *inv

	require.NoError(t, f.svc.UpdateStatus(context.Background(), jcID, model.JobStatusCompleted))

	jc, err := f.cards.FindByID(context.Background(), jcID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusCompleted, jc.Status)
	after := f.invoiceFor(t, jcID, model.BusinessAutoGamma)
	assert.Equal(t, before.InvoiceNo, after.InvoiceNo)
	assertDec(t, before.TotalAmount.String(), after.TotalAmount)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	f := newEngine()
	err := f.svc.UpdateStatus(context.Background(), uuid.New(), model.JobStatusCompleted)
	assert.ErrorIs(t, err, ErrNotFound)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "want %s, got %s", want, got)
}

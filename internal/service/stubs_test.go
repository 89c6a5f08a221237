package service

// In-memory repository stubs. Services open no real transaction when
// DB() returns nil, so every Tx method here tolerates a nil *gorm.DB.

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gammacrm/internal/model"
	"gammacrm/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Job cards ────────────────────────────────────────────────────────────────

type stubJobCardRepo struct {
	cards  map[uuid.UUID]*model.JobCard
	usages []model.RollUsage
}

func newStubJobCardRepo() *stubJobCardRepo {
	return &stubJobCardRepo{cards: make(map[uuid.UUID]*model.JobCard)}
}

func (r *stubJobCardRepo) DB() *gorm.DB { return nil }

func (r *stubJobCardRepo) CreateTx(_ *gorm.DB, jc *model.JobCard) error {
	if jc.ID == uuid.Nil {
		jc.ID = uuid.New()
	}
	for i := range jc.Items {
		if jc.Items[i].ID == uuid.Nil {
			jc.Items[i].ID = uuid.New()
		}
		jc.Items[i].JobCardID = jc.ID
	}
	r.cards[jc.ID] = jc
	return nil
}

func (r *stubJobCardRepo) FindByID(_ context.Context, id uuid.UUID) (*model.JobCard, error) {
	jc, ok := r.cards[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return jc, nil
}

func (r *stubJobCardRepo) List(_ context.Context, _ repository.JobCardFilter) ([]model.JobCard, int64, error) {
	out := make([]model.JobCard, 0, len(r.cards))
	for _, jc := range r.cards {
		out = append(out, *jc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JobNo < out[j].JobNo })
	return out, int64(len(out)), nil
}

func (r *stubJobCardRepo) SaveTx(_ *gorm.DB, jc *model.JobCard) error {
	r.cards[jc.ID] = jc
	return nil
}

func (r *stubJobCardRepo) ReplaceItemsOfKindTx(_ *gorm.DB, jobCardID uuid.UUID, kind string, items []model.JobCardItem) error {
	jc, ok := r.cards[jobCardID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	kept := make([]model.JobCardItem, 0, len(jc.Items))
	for _, it := range jc.Items {
		if it.Kind != kind {
			kept = append(kept, it)
		}
	}
	for i := range items {
		items[i].ID = uuid.New()
		items[i].JobCardID = jobCardID
		items[i].Kind = kind
		items[i].Position = i
	}
	jc.Items = append(kept, items...)
	return nil
}

func (r *stubJobCardRepo) CreateRollUsageTx(_ *gorm.DB, u *model.RollUsage) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usages = append(r.usages, *u)
	return nil
}

func (r *stubJobCardRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.cards, id)
	return nil
}

func (r *stubJobCardRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	jc, ok := r.cards[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	jc.Status = status
	return nil
}

var _ repository.JobCardRepository = (*stubJobCardRepo)(nil)

// ── Invoices ─────────────────────────────────────────────────────────────────

type stubInvoiceRepo struct {
	invoices map[uuid.UUID]*model.Invoice
	// payments logs CreatePaymentTx calls for assertion; the service
	// maintains inv.Payments itself.
	payments []model.InvoicePayment
}

func newStubInvoiceRepo() *stubInvoiceRepo {
	return &stubInvoiceRepo{invoices: make(map[uuid.UUID]*model.Invoice)}
}

func (r *stubInvoiceRepo) DB() *gorm.DB { return nil }

func (r *stubInvoiceRepo) CreateTx(_ *gorm.DB, inv *model.Invoice) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	for i := range inv.Items {
		if inv.Items[i].ID == uuid.Nil {
			inv.Items[i].ID = uuid.New()
		}
		inv.Items[i].InvoiceID = inv.ID
	}
	r.invoices[inv.ID] = inv
	return nil
}

func (r *stubInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return inv, nil
}

func (r *stubInvoiceRepo) FindByJobCard(_ context.Context, jobCardID uuid.UUID) ([]model.Invoice, error) {
	var out []model.Invoice
	for _, business := range model.AllBusinesses() {
		for _, inv := range r.invoices {
			if inv.JobCardID == jobCardID && inv.Business == business {
				out = append(out, *inv)
			}
		}
	}
	return out, nil
}

func (r *stubInvoiceRepo) FindByJobCardAndBusinessTx(_ *gorm.DB, jobCardID uuid.UUID, business model.Business) (*model.Invoice, error) {
	for _, inv := range r.invoices {
		if inv.JobCardID == jobCardID && inv.Business == business {
			return inv, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubInvoiceRepo) SaveTx(_ *gorm.DB, inv *model.Invoice) error {
	r.invoices[inv.ID] = inv
	return nil
}

func (r *stubInvoiceRepo) ReplaceItemsTx(_ *gorm.DB, invoiceID uuid.UUID, items []model.InvoiceItem) error {
	inv, ok := r.invoices[invoiceID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range items {
		items[i].ID = uuid.New()
		items[i].InvoiceID = invoiceID
	}
	inv.Items = items
	return nil
}

func (r *stubInvoiceRepo) CreatePaymentTx(_ *gorm.DB, p *model.InvoicePayment) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.payments = append(r.payments, *p)
	return nil
}

func (r *stubInvoiceRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.invoices, id)
	return nil
}

func (r *stubInvoiceRepo) List(_ context.Context, _ repository.InvoiceFilter) ([]model.Invoice, int64, error) {
	out := make([]model.Invoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		out = append(out, *inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InvoiceNo < out[j].InvoiceNo })
	return out, int64(len(out)), nil
}

func (r *stubInvoiceRepo) ListDueForExportRetry(_ context.Context, now time.Time, maxAttempts, limit int) ([]model.Invoice, error) {
	var out []model.Invoice
	for _, inv := range r.invoices {
		if inv.PDFPath == nil && inv.ExportAttempts > 0 && inv.ExportAttempts < maxAttempts &&
			inv.NextRetryAt != nil && !inv.NextRetryAt.After(now) {
			out = append(out, *inv)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *stubInvoiceRepo) Update(_ context.Context, inv *model.Invoice) error {
	r.invoices[inv.ID] = inv
	return nil
}

var _ repository.InvoiceRepository = (*stubInvoiceRepo)(nil)

// ── PPF / rolls ──────────────────────────────────────────────────────────────

type stubPPFRepo struct {
	masters map[uuid.UUID]*model.PPFMaster
	rolls   map[uuid.UUID]*model.PPFRoll
}

func newStubPPFRepo() *stubPPFRepo {
	return &stubPPFRepo{
		masters: make(map[uuid.UUID]*model.PPFMaster),
		rolls:   make(map[uuid.UUID]*model.PPFRoll),
	}
}

// addMaster seeds a PPF master with rolls; stocks are given in position
// order.
func (r *stubPPFRepo) addMaster(name string, stocks ...decimal.Decimal) uuid.UUID {
	m := &model.PPFMaster{ID: uuid.New(), Name: name, Active: true}
	for i, stock := range stocks {
		roll := &model.PPFRoll{
			ID:        uuid.New(),
			PPFID:     m.ID,
			Name:      fmt.Sprintf("Roll %c", 'A'+i),
			StockSqft: stock,
			Position:  i,
		}
		m.Rolls = append(m.Rolls, *roll)
		r.rolls[roll.ID] = roll
	}
	r.masters[m.ID] = m
	return m.ID
}

func (r *stubPPFRepo) DB() *gorm.DB { return nil }

func (r *stubPPFRepo) Create(_ context.Context, p *model.PPFMaster) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.masters[p.ID] = p
	return nil
}

func (r *stubPPFRepo) FindByID(_ context.Context, id uuid.UUID) (*model.PPFMaster, error) {
	m, ok := r.masters[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *stubPPFRepo) List(_ context.Context, _ bool) ([]model.PPFMaster, error) {
	out := make([]model.PPFMaster, 0, len(r.masters))
	for _, m := range r.masters {
		out = append(out, *m)
	}
	return out, nil
}

func (r *stubPPFRepo) Update(_ context.Context, p *model.PPFMaster) error {
	r.masters[p.ID] = p
	return nil
}

func (r *stubPPFRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if m, ok := r.masters[id]; ok {
		m.Active = false
	}
	return nil
}

func (r *stubPPFRepo) FindRollsTx(_ *gorm.DB, ppfID uuid.UUID) ([]model.PPFRoll, error) {
	var out []model.PPFRoll
	for _, roll := range r.rolls {
		if roll.PPFID == ppfID {
			out = append(out, *roll)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *stubPPFRepo) FindRollTx(_ *gorm.DB, rollID uuid.UUID) (*model.PPFRoll, error) {
	roll, ok := r.rolls[rollID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *roll
	return &cp, nil
}

func (r *stubPPFRepo) AdjustRollStockTx(_ *gorm.DB, rollID uuid.UUID, delta decimal.Decimal) error {
	roll, ok := r.rolls[rollID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	roll.StockSqft = roll.StockSqft.Add(delta)
	return nil
}

func (r *stubPPFRepo) AddRoll(_ context.Context, roll *model.PPFRoll) error {
	if roll.ID == uuid.Nil {
		roll.ID = uuid.New()
	}
	r.rolls[roll.ID] = roll
	return nil
}

func (r *stubPPFRepo) UpdateRoll(_ context.Context, roll *model.PPFRoll) error {
	r.rolls[roll.ID] = roll
	return nil
}

func (r *stubPPFRepo) DeleteRoll(_ context.Context, rollID uuid.UUID) error {
	delete(r.rolls, rollID)
	return nil
}

var _ repository.PPFRepository = (*stubPPFRepo)(nil)

// ── Roll movements ───────────────────────────────────────────────────────────

type stubMovementRepo struct {
	movements []model.RollMovement
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.RollMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) List(_ context.Context, _ repository.RollMovementFilter) ([]model.RollMovement, int64, error) {
	return r.movements, int64(len(r.movements)), nil
}

var _ repository.RollMovementRepository = (*stubMovementRepo)(nil)

// ── Counters ─────────────────────────────────────────────────────────────────

type stubCounterRepo struct {
	seqs map[string]int
}

func newStubCounterRepo() *stubCounterRepo {
	return &stubCounterRepo{seqs: make(map[string]int)}
}

func (r *stubCounterRepo) NextTx(_ *gorm.DB, scope string, year int) (int, error) {
	key := fmt.Sprintf("%s-%d", scope, year)
	r.seqs[key]++
	return r.seqs[key], nil
}

var _ repository.CounterRepository = (*stubCounterRepo)(nil)

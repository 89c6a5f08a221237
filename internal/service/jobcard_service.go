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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExportDispatcher enqueues an invoice for async PDF generation and
// delivery. Dispatch happens after the owning transaction commits.
type ExportDispatcher interface {
	EnqueueInvoiceExport(ctx context.Context, invoiceID uuid.UUID) error
}

// JobCardService is the core engine: every job-card mutation runs as one
// transaction spanning the card itself, roll-inventory adjustments and
// per-business invoice upserts. A failure at any step rolls the whole
// operation back.
type JobCardService struct {
	cards     repository.JobCardRepository
	invoices  repository.InvoiceRepository
	ppf       repository.PPFRepository
	movements repository.RollMovementRepository
	counters  repository.CounterRepository
	exports   ExportDispatcher
	log       zerolog.Logger
}

func NewJobCardService(
	cards repository.JobCardRepository,
	invoices repository.InvoiceRepository,
	ppf repository.PPFRepository,
	movements repository.RollMovementRepository,
	counters repository.CounterRepository,
	exports ExportDispatcher,
	log zerolog.Logger,
) *JobCardService {
	return &JobCardService{
		cards:     cards,
		invoices:  invoices,
		ppf:       ppf,
		movements: movements,
		counters:  counters,
		exports:   exports,
		log:       log,
	}
}

// runTx executes fn inside a transaction. A nil db runs fn directly,
// which lets unit tests exercise services against stub repositories.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// Create persists a new job card, allocates roll stock for its PPF lines
// and generates one invoice per business with a non-empty item subset,
// all atomically.
func (s *JobCardService) Create(ctx context.Context, req dto.CreateJobCardRequest) (*dto.JobCardResponse, error) {
	now := time.Now()
	year := now.Year()

	items := append(serviceLinesToItems(req.Services),
		append(mergePPFLines(ppfLinesToItems(req.PPFs)), accessoryLinesToItems(req.Accessories)...)...)

	jc := &model.JobCard{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		VehicleMake:   req.VehicleMake,
		VehicleModel:  req.VehicleModel,
		VehicleYear:   req.VehicleYear,
		PlateNo:       req.PlateNo,
		VehicleType:   req.VehicleType,
		Status:        model.JobStatusPending,
		LaborCharge:   req.LaborCharge,
		LaborBusiness: businessOrDefault(req.LaborBusiness),
		Discount:      req.Discount,
		GSTPercent:    req.GSTPercent,
		Date:          now,
		Items:         items,
	}
	jc.EstimatedCost = estimatedCost(jc)

	var exportIDs []uuid.UUID

	err := runTx(ctx, s.cards.DB(), func(tx *gorm.DB) error {
		seq, err := s.counters.NextTx(tx, "JC", year)
		if err != nil {
			return fmt.Errorf("allocating job number: %w", err)
		}
		jc.JobNo = fmt.Sprintf("JC-%d-%03d", year, seq)

		if err := s.cards.CreateTx(tx, jc); err != nil {
			return fmt.Errorf("creating job card: %w", err)
		}

		for i := range jc.Items {
			if err := s.allocateRolls(tx, jc, &jc.Items[i]); err != nil {
				return err
			}
		}

		seeded := false
		for _, business := range model.AllBusinesses() {
			invItems := invoiceItemsFor(jc, business)
			if len(invItems) == 0 {
				continue
			}
			inv, err := s.createInvoice(tx, jc, business, invItems)
			if err != nil {
				return err
			}
			if !seeded && len(req.Payments) > 0 {
				seeded = true
				if err := s.appendPayments(tx, inv, req.Payments); err != nil {
					return err
				}
			}
			exportIDs = append(exportIDs, inv.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatchExports(ctx, exportIDs)
	return s.Get(ctx, jc.ID)
}

// Update applies a partial edit. A provided line slice replaces that
// kind wholesale; a provided ppfs slice additionally reverts the old
// roll allocation (crediting the exact rolls it debited) before the new
// lines draw stock. Invoices are re-derived in place, preserving invoice
// numbers and payment history.
func (s *JobCardService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateJobCardRequest) (*dto.JobCardResponse, error) {
	jc, err := s.cards.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var exportIDs []uuid.UUID

	err = runTx(ctx, s.cards.DB(), func(tx *gorm.DB) error {
		if req.PPFs != nil {
			if err := s.revertRolls(tx, jc); err != nil {
				return err
			}
			newPPFs := mergePPFLines(ppfLinesToItems(*req.PPFs))
			if err := s.cards.ReplaceItemsOfKindTx(tx, jc.ID, model.ItemKindPPF, newPPFs); err != nil {
				return fmt.Errorf("replacing ppf lines: %w", err)
			}
			for i := range newPPFs {
				if err := s.allocateRolls(tx, jc, &newPPFs[i]); err != nil {
					return err
				}
			}
			jc.Items = replaceKind(jc.Items, model.ItemKindPPF, newPPFs)
		}
		if req.Services != nil {
			newServices := serviceLinesToItems(*req.Services)
			if err := s.cards.ReplaceItemsOfKindTx(tx, jc.ID, model.ItemKindService, newServices); err != nil {
				return fmt.Errorf("replacing service lines: %w", err)
			}
			jc.Items = replaceKind(jc.Items, model.ItemKindService, newServices)
		}
		if req.Accessories != nil {
			newAccessories := accessoryLinesToItems(*req.Accessories)
			if err := s.cards.ReplaceItemsOfKindTx(tx, jc.ID, model.ItemKindAccessory, newAccessories); err != nil {
				return fmt.Errorf("replacing accessory lines: %w", err)
			}
			jc.Items = replaceKind(jc.Items, model.ItemKindAccessory, newAccessories)
		}

		applyScalarUpdates(jc, req)
		jc.EstimatedCost = estimatedCost(jc)
		if err := s.cards.SaveTx(tx, jc); err != nil {
			return fmt.Errorf("saving job card: %w", err)
		}

		created, err := s.syncInvoices(tx, jc)
		if err != nil {
			return err
		}
		exportIDs = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatchExports(ctx, exportIDs)
	return s.Get(ctx, jc.ID)
}

// Delete removes a job card, restoring every roll it drew from to the
// exact rolls it debited. Unpaid invoices are deleted with it; invoices
// that already carry payments are kept and flagged orphaned so billing
// history survives.
func (s *JobCardService) Delete(ctx context.Context, id uuid.UUID) error {
	jc, err := s.cards.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	return runTx(ctx, s.cards.DB(), func(tx *gorm.DB) error {
		if err := s.revertRolls(tx, jc); err != nil {
			return err
		}
		for _, business := range model.AllBusinesses() {
			inv, err := s.invoices.FindByJobCardAndBusinessTx(tx, jc.ID, business)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return err
			}
			if amountPaid(inv.Payments).IsPositive() {
				inv.Orphaned = true
				if err := s.invoices.SaveTx(tx, inv); err != nil {
					return fmt.Errorf("flagging orphaned invoice %s: %w", inv.InvoiceNo, err)
				}
				continue
			}
			if err := s.invoices.DeleteTx(tx, inv.ID); err != nil {
				return fmt.Errorf("deleting invoice %s: %w", inv.InvoiceNo, err)
			}
		}
		if err := s.cards.DeleteTx(tx, jc.ID); err != nil {
			return fmt.Errorf("deleting job card: %w", err)
		}
		return nil
	})
}

// Get returns a job card with its invoices.
func (s *JobCardService) Get(ctx context.Context, id uuid.UUID) (*dto.JobCardResponse, error) {
	jc, err := s.cards.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	invoices, err := s.invoices.FindByJobCard(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := jobCardToResponse(jc, invoices)
	return &resp, nil
}

// List returns job cards matching the filter, without their invoices.
func (s *JobCardService) List(ctx context.Context, filter dto.JobCardFilter) (*dto.JobCardListResponse, error) {
	cards, total, err := s.cards.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.JobCardResponse, 0, len(cards))
	for i := range cards {
		out = append(out, jobCardToResponse(&cards[i], nil))
	}
	return &dto.JobCardListResponse{Data: out, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// UpdateStatus changes the workflow status only. Invoice sync never
// touches status and status changes never touch invoices.
func (s *JobCardService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	if _, err := s.cards.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.cards.UpdateStatus(ctx, id, status)
}

// ─── internals ───────────────────────────────────────────────────────────────

// allocateRolls draws item.RollUsed square feet from the PPF master's
// rolls in position order, recording one RollUsage per roll touched and
// one ledger movement per deduction. Insufficient combined stock aborts
// before anything is written for this line; the enclosing transaction
// then rolls back earlier lines too.
func (s *JobCardService) allocateRolls(tx *gorm.DB, jc *model.JobCard, item *model.JobCardItem) error {
	if item.Kind != model.ItemKindPPF || !item.RollUsed.IsPositive() || item.CatalogID == nil {
		return nil
	}

	rolls, err := s.ppf.FindRollsTx(tx, *item.CatalogID)
	if err != nil {
		return fmt.Errorf("loading rolls for ppf %s: %w", item.CatalogID, err)
	}

	available := decimal.Zero
	for _, r := range rolls {
		available = available.Add(r.StockSqft)
	}
	if available.LessThan(item.RollUsed) {
		return fmt.Errorf("%w: %s needs %s sqft, %s available",
			ErrInsufficientStock, item.Name, item.RollUsed, available)
	}

	remaining := item.RollUsed
	for _, roll := range rolls {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(remaining, roll.StockSqft)
		if !take.IsPositive() {
			continue
		}
		if err := s.ppf.AdjustRollStockTx(tx, roll.ID, take.Neg()); err != nil {
			return fmt.Errorf("deducting %s sqft from roll %s: %w", take, roll.Name, err)
		}
		if err := s.movements.CreateTx(tx, &model.RollMovement{
			PPFID:       roll.PPFID,
			RollID:      roll.ID,
			Type:        "deduct",
			Qty:         take.Neg(),
			StockBefore: roll.StockSqft,
			StockAfter:  roll.StockSqft.Sub(take),
			Reason:      "job " + jc.JobNo,
			JobCardID:   &jc.ID,
		}); err != nil {
			return fmt.Errorf("recording roll movement: %w", err)
		}
		usage := model.RollUsage{
			JobCardItemID: item.ID,
			RollID:        roll.ID,
			RollName:      roll.Name,
			Qty:           take,
		}
		if err := s.cards.CreateRollUsageTx(tx, &usage); err != nil {
			return fmt.Errorf("recording roll usage: %w", err)
		}
		item.Rolls = append(item.Rolls, usage)
		remaining = remaining.Sub(take)
	}
	return nil
}

// revertRolls credits back, roll by roll, exactly what the card's PPF
// lines drew. Attribution comes from the stored RollUsage rows, never
// from "the first roll".
func (s *JobCardService) revertRolls(tx *gorm.DB, jc *model.JobCard) error {
	for _, item := range jc.Items {
		if item.Kind != model.ItemKindPPF {
			continue
		}
		for _, usage := range item.Rolls {
			roll, err := s.ppf.FindRollTx(tx, usage.RollID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					// Roll removed from the master since allocation;
					// its stock can no longer be restored.
					s.log.Warn().Str("roll", usage.RollName).Str("job", jc.JobNo).
						Msg("skipping restore for deleted roll")
					continue
				}
				return err
			}
			if err := s.ppf.AdjustRollStockTx(tx, roll.ID, usage.Qty); err != nil {
				return fmt.Errorf("restoring %s sqft to roll %s: %w", usage.Qty, roll.Name, err)
			}
			if err := s.movements.CreateTx(tx, &model.RollMovement{
				PPFID:       roll.PPFID,
				RollID:      roll.ID,
				Type:        "restore",
				Qty:         usage.Qty,
				StockBefore: roll.StockSqft,
				StockAfter:  roll.StockSqft.Add(usage.Qty),
				Reason:      "revert job " + jc.JobNo,
				JobCardID:   &jc.ID,
			}); err != nil {
				return fmt.Errorf("recording roll movement: %w", err)
			}
		}
	}
	return nil
}

func (s *JobCardService) createInvoice(tx *gorm.DB, jc *model.JobCard, business model.Business, items []model.InvoiceItem) (*model.Invoice, error) {
	year := jc.Date.Year()
	seq, err := s.counters.NextTx(tx, business.InvoicePrefix(), year)
	if err != nil {
		return nil, fmt.Errorf("allocating invoice number: %w", err)
	}

	subtotal, labor, gstAmount, total := invoiceTotals(items, jc.Discount, jc.GSTPercent)
	inv := &model.Invoice{
		InvoiceNo:     fmt.Sprintf("%s-%d-%03d", business.InvoicePrefix(), year, seq),
		JobCardID:     jc.ID,
		Business:      business,
		CustomerName:  jc.CustomerName,
		CustomerPhone: jc.CustomerPhone,
		CustomerEmail: jc.CustomerEmail,
		Subtotal:      subtotal,
		LaborCharge:   labor,
		Discount:      jc.Discount,
		GSTPercent:    jc.GSTPercent,
		GSTAmount:     gstAmount,
		TotalAmount:   total,
		Items:         items,
	}
	if err := s.invoices.CreateTx(tx, inv); err != nil {
		return nil, fmt.Errorf("creating invoice %s: %w", inv.InvoiceNo, err)
	}
	return inv, nil
}

// syncInvoices re-derives every business's invoice from the updated job
// card: update in place (keeping invoiceNo and payments), create when a
// business gains its first item, delete when its subset empties. Returns
// the IDs of newly created invoices for export dispatch.
func (s *JobCardService) syncInvoices(tx *gorm.DB, jc *model.JobCard) ([]uuid.UUID, error) {
	var created []uuid.UUID
	for _, business := range model.AllBusinesses() {
		items := invoiceItemsFor(jc, business)
		existing, err := s.invoices.FindByJobCardAndBusinessTx(tx, jc.ID, business)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		notFound := errors.Is(err, gorm.ErrRecordNotFound)

		switch {
		case len(items) == 0 && notFound:
			continue
		case len(items) == 0:
			if err := s.invoices.DeleteTx(tx, existing.ID); err != nil {
				return nil, fmt.Errorf("deleting emptied invoice %s: %w", existing.InvoiceNo, err)
			}
		case notFound:
			inv, err := s.createInvoice(tx, jc, business, items)
			if err != nil {
				return nil, err
			}
			created = append(created, inv.ID)
		default:
			subtotal, labor, gstAmount, total := invoiceTotals(items, jc.Discount, jc.GSTPercent)
			existing.CustomerName = jc.CustomerName
			existing.CustomerPhone = jc.CustomerPhone
			existing.CustomerEmail = jc.CustomerEmail
			existing.Subtotal = subtotal
			existing.LaborCharge = labor
			existing.Discount = jc.Discount
			existing.GSTPercent = jc.GSTPercent
			existing.GSTAmount = gstAmount
			existing.TotalAmount = total
			existing.IsPaid = amountPaid(existing.Payments).GreaterThanOrEqual(total)
			if err := s.invoices.SaveTx(tx, existing); err != nil {
				return nil, fmt.Errorf("updating invoice %s: %w", existing.InvoiceNo, err)
			}
			if err := s.invoices.ReplaceItemsTx(tx, existing.ID, items); err != nil {
				return nil, fmt.Errorf("replacing items of invoice %s: %w", existing.InvoiceNo, err)
			}
		}
	}
	return created, nil
}

// appendPayments seeds the first generated invoice's payment state from
// the create payload. The same batch rules as direct payment recording
// apply; a violation fails the enclosing transaction, so the whole
// create rolls back.
func (s *JobCardService) appendPayments(tx *gorm.DB, inv *model.Invoice, payments []dto.PaymentRequest) error {
	if err := validatePaymentBatch(payments, inv.TotalAmount.Sub(amountPaid(inv.Payments))); err != nil {
		return err
	}
	for _, p := range payments {
		paidAt := time.Now()
		if p.Date != "" {
			if t, err := time.Parse(time.RFC3339, p.Date); err == nil {
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
}

func (s *JobCardService) dispatchExports(ctx context.Context, ids []uuid.UUID) {
	if s.exports == nil {
		return
	}
	for _, id := range ids {
		if err := s.exports.EnqueueInvoiceExport(ctx, id); err != nil {
			s.log.Warn().Err(err).Str("invoice_id", id.String()).Msg("failed to enqueue invoice export")
		}
	}
}

// ─── request → model helpers ─────────────────────────────────────────────────

func businessOrDefault(b string) model.Business {
	if b == "" {
		return model.BusinessAutoGamma
	}
	return model.Business(b)
}

func quantityOrDefault(q int) int {
	if q < 1 {
		return 1
	}
	return q
}

func parseCatalogID(s *string) *uuid.UUID {
	if s == nil {
		return nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil
	}
	return &id
}

func serviceLinesToItems(lines []dto.ServiceLineRequest) []model.JobCardItem {
	items := make([]model.JobCardItem, 0, len(lines))
	for i, l := range lines {
		items = append(items, model.JobCardItem{
			Kind:       model.ItemKindService,
			Position:   i,
			CatalogID:  parseCatalogID(l.CatalogID),
			Name:       l.Name,
			Price:      l.Price,
			Quantity:   quantityOrDefault(l.Quantity),
			Technician: l.Technician,
			Business:   businessOrDefault(l.Business),
		})
	}
	return items
}

func ppfLinesToItems(lines []dto.PPFLineRequest) []model.JobCardItem {
	items := make([]model.JobCardItem, 0, len(lines))
	for i, l := range lines {
		item := model.JobCardItem{
			Kind:       model.ItemKindPPF,
			Position:   i,
			CatalogID:  parseCatalogID(l.CatalogID),
			Name:       l.Name,
			Price:      l.Price,
			Quantity:   quantityOrDefault(l.Quantity),
			Technician: l.Technician,
			Business:   businessOrDefault(l.Business),
			RollUsed:   l.RollUsed,
		}
		if l.Warranty != "" {
			w := l.Warranty
			item.Warranty = &w
		}
		items = append(items, item)
	}
	return items
}

func accessoryLinesToItems(lines []dto.AccessoryLineRequest) []model.JobCardItem {
	items := make([]model.JobCardItem, 0, len(lines))
	for i, l := range lines {
		items = append(items, model.JobCardItem{
			Kind:       model.ItemKindAccessory,
			Position:   i,
			CatalogID:  parseCatalogID(l.CatalogID),
			Name:       l.Name,
			Price:      l.Price,
			Quantity:   quantityOrDefault(l.Quantity),
			Technician: l.Technician,
			Business:   businessOrDefault(l.Business),
			Category:   l.Category,
		})
	}
	return items
}

func replaceKind(items []model.JobCardItem, kind string, replacement []model.JobCardItem) []model.JobCardItem {
	out := make([]model.JobCardItem, 0, len(items)+len(replacement))
	for _, it := range items {
		if it.Kind != kind {
			out = append(out, it)
		}
	}
	return append(out, replacement...)
}

func applyScalarUpdates(jc *model.JobCard, req dto.UpdateJobCardRequest) {
	if req.CustomerName != nil {
		jc.CustomerName = *req.CustomerName
	}
	if req.CustomerPhone != nil {
		jc.CustomerPhone = *req.CustomerPhone
	}
	if req.CustomerEmail != nil {
		// An explicit empty string clears the stored address; absent
		// means leave it untouched.
		if *req.CustomerEmail == "" {
			jc.CustomerEmail = nil
		} else {
			jc.CustomerEmail = req.CustomerEmail
		}
	}
	if req.VehicleMake != nil {
		jc.VehicleMake = *req.VehicleMake
	}
	if req.VehicleModel != nil {
		jc.VehicleModel = *req.VehicleModel
	}
	if req.VehicleYear != nil {
		jc.VehicleYear = *req.VehicleYear
	}
	if req.PlateNo != nil {
		jc.PlateNo = *req.PlateNo
	}
	if req.VehicleType != nil {
		jc.VehicleType = *req.VehicleType
	}
	if req.LaborCharge != nil {
		jc.LaborCharge = *req.LaborCharge
	}
	if req.LaborBusiness != nil {
		jc.LaborBusiness = businessOrDefault(*req.LaborBusiness)
	}
	if req.Discount != nil {
		jc.Discount = *req.Discount
	}
	if req.GSTPercent != nil {
		jc.GSTPercent = *req.GSTPercent
	}
}

package service

import (
	"fmt"

	"gammacrm/internal/dto"
	"gammacrm/internal/model"

	"github.com/shopspring/decimal"
)

// Pure billing arithmetic for the job-card engine. All monetary results
// are rounded to 2 decimal places at the point of derivation so stored
// amounts never accumulate drift.

var one = decimal.NewFromInt(1)
var hundred = decimal.NewFromInt(100)

// mergePPFLines collapses duplicate PPF lines that reference the same
// product and warranty into a single line, summing the square footage.
// Lines without a catalog reference merge on name instead. Merging is
// idempotent: re-merging an already merged set is a no-op.
func mergePPFLines(items []model.JobCardItem) []model.JobCardItem {
	merged := make([]model.JobCardItem, 0, len(items))
	index := make(map[string]int, len(items))

	for _, it := range items {
		key := it.Name
		if it.CatalogID != nil {
			key = it.CatalogID.String()
		}
		if it.Warranty != nil {
			key += "|" + *it.Warranty
		}

		if i, ok := index[key]; ok {
			merged[i].RollUsed = merged[i].RollUsed.Add(it.RollUsed)
			merged[i].Rolls = append(merged[i].Rolls, it.Rolls...)
			continue
		}
		index[key] = len(merged)
		merged = append(merged, it)
	}

	for i := range merged {
		merged[i].Position = i
	}
	return merged
}

// invoiceItemsFor derives the line items of one business's invoice from
// a job card: every item tagged with that business, plus a labor line
// when the labor charge is assigned to it and non-zero.
func invoiceItemsFor(jc *model.JobCard, business model.Business) []model.InvoiceItem {
	var out []model.InvoiceItem
	for _, it := range jc.Items {
		if it.Business != business {
			continue
		}
		out = append(out, model.InvoiceItem{
			Type:       invoiceItemType(it.Kind),
			Name:       it.Name,
			Price:      it.Price,
			Quantity:   it.Quantity,
			Technician: it.Technician,
			Warranty:   it.Warranty,
			RollUsed:   it.RollUsed,
			Category:   it.Category,
		})
	}
	// The labor line counts toward the subset: a job whose only charge
	// under a business is labor still yields an invoice for it.
	if jc.LaborBusiness == business && jc.LaborCharge.IsPositive() {
		out = append(out, model.InvoiceItem{
			Type:     model.InvoiceItemLabor,
			Name:     "Labor Charge",
			Price:    jc.LaborCharge,
			Quantity: 1,
		})
	}
	return out
}

func invoiceItemType(kind string) string {
	switch kind {
	case model.ItemKindService:
		return model.InvoiceItemService
	case model.ItemKindPPF:
		return model.InvoiceItemPPF
	case model.ItemKindAccessory:
		return model.InvoiceItemAccessory
	default:
		return model.InvoiceItemService
	}
}

// invoiceTotals computes the money columns of one invoice from its items.
// Subtotal covers the goods/service lines only; the labor line is carried
// separately and the flat discount comes off before GST.
func invoiceTotals(items []model.InvoiceItem, discount, gstPercent decimal.Decimal) (subtotal, labor, gstAmount, total decimal.Decimal) {
	subtotal = decimal.Zero
	labor = decimal.Zero
	for _, it := range items {
		line := it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		if it.Type == model.InvoiceItemLabor {
			labor = labor.Add(line)
			continue
		}
		subtotal = subtotal.Add(line)
	}
	subtotal = subtotal.Round(2)

	base := subtotal.Add(labor).Sub(discount)
	gstAmount = base.Mul(gstPercent).Div(hundred).Round(2)
	total = base.Add(gstAmount).Round(2)
	return subtotal, labor, gstAmount, total
}

// estimatedCost is the whole-job figure shown on the card itself: all
// lines across both entities plus labor, minus the discount once, with
// GST applied on top. It intentionally differs from the sum of invoice
// totals when the discount lands on more than one invoice.
func estimatedCost(jc *model.JobCard) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range jc.Items {
		sum = sum.Add(it.Price)
	}
	base := sum.Add(jc.LaborCharge).Sub(jc.Discount)
	return base.Mul(one.Add(jc.GSTPercent.Div(hundred))).Round(2)
}

// validatePaymentBatch enforces the payment rules shared by direct
// payment recording and the create-time seed path: every amount must be
// positive and the batch as a whole must fit within the remaining
// balance, otherwise nothing may be recorded.
func validatePaymentBatch(payments []dto.PaymentRequest, remaining decimal.Decimal) error {
	batch := decimal.Zero
	for _, p := range payments {
		if !p.Amount.IsPositive() {
			return fmt.Errorf("payment amount must be positive, got %s", p.Amount)
		}
		batch = batch.Add(p.Amount)
	}
	if batch.GreaterThan(remaining) {
		return fmt.Errorf("%w: batch %s, remaining %s", ErrOverpayment, batch, remaining)
	}
	return nil
}

// amountPaid sums an invoice's payment entries.
func amountPaid(payments []model.InvoicePayment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}

package service

import (
	"testing"

	"gammacrm/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceTotals(t *testing.T) {
	items := []model.InvoiceItem{
		{Type: model.InvoiceItemService, Name: "Polish", Price: dec("250"), Quantity: 2},
		{Type: model.InvoiceItemPPF, Name: "Gloss PPF", Price: dec("1000"), Quantity: 1},
		{Type: model.InvoiceItemLabor, Name: "Labor Charge", Price: dec("300"), Quantity: 1},
	}

	subtotal, labor, gstAmount, total := invoiceTotals(items, dec("150"), dec("18"))

	assertDec(t, "1500", subtotal)
	assertDec(t, "300", labor)
	// (1500 + 300 - 150) * 18% = 297
	assertDec(t, "297", gstAmount)
	assertDec(t, "1947", total)
}

func TestInvoiceTotals_ZeroGST(t *testing.T) {
	items := []model.InvoiceItem{
		{Type: model.InvoiceItemService, Name: "Wash", Price: dec("500"), Quantity: 1},
	}
	subtotal, _, gstAmount, total := invoiceTotals(items, dec("0"), dec("0"))
	assertDec(t, "500", subtotal)
	assertDec(t, "0", gstAmount)
	assertDec(t, "500", total)
}

func TestInvoiceTotals_RoundsGSTToPaise(t *testing.T) {
	items := []model.InvoiceItem{
		{Type: model.InvoiceItemService, Name: "Wax", Price: dec("333.33"), Quantity: 1},
	}
	_, _, gstAmount, total := invoiceTotals(items, dec("0"), dec("18"))
	// 333.33 * 0.18 = 59.9994 -> 60.00
	assertDec(t, "60", gstAmount)
	assertDec(t, "393.33", total)
}

func TestEstimatedCost_IgnoresQuantity(t *testing.T) {
	// The whole-job estimate sums unit prices, not extended line totals.
	jc := &model.JobCard{
		Items: []model.JobCardItem{
			{Kind: model.ItemKindService, Name: "Polish", Price: dec("100"), Quantity: 3},
		},
		LaborCharge: dec("50"),
		Discount:    dec("30"),
		GSTPercent:  dec("10"),
	}
	// (100 + 50 - 30) * 1.10 = 132
	assertDec(t, "132", estimatedCost(jc))
}

func TestInvoiceItemsFor_FiltersByBusinessAndAppendsLabor(t *testing.T) {
	jc := &model.JobCard{
		Items: []model.JobCardItem{
			{Kind: model.ItemKindService, Name: "Polish", Price: dec("500"), Quantity: 1, Business: model.BusinessAutoGamma},
			{Kind: model.ItemKindPPF, Name: "Gloss PPF", Price: dec("4000"), Quantity: 1, Business: model.BusinessAGNX},
		},
		LaborCharge:   dec("200"),
		LaborBusiness: model.BusinessAGNX,
	}

	ag := invoiceItemsFor(jc, model.BusinessAutoGamma)
	require.Len(t, ag, 1)
	assert.Equal(t, "Polish", ag[0].Name)

	agnx := invoiceItemsFor(jc, model.BusinessAGNX)
	require.Len(t, agnx, 2)
	assert.Equal(t, model.InvoiceItemLabor, agnx[1].Type)
	assertDec(t, "200", agnx[1].Price)
}

func TestInvoiceItemsFor_LaborAloneSustainsInvoice(t *testing.T) {
	jc := &model.JobCard{
		LaborCharge:   dec("750"),
		LaborBusiness: model.BusinessAutoGamma,
	}
	items := invoiceItemsFor(jc, model.BusinessAutoGamma)
	require.Len(t, items, 1)
	assert.Equal(t, model.InvoiceItemLabor, items[0].Type)

	assert.Empty(t, invoiceItemsFor(jc, model.BusinessAGNX))
}

func TestInvoiceItemsFor_ZeroLaborExcluded(t *testing.T) {
	jc := &model.JobCard{
		LaborCharge:   dec("0"),
		LaborBusiness: model.BusinessAutoGamma,
	}
	assert.Empty(t, invoiceItemsFor(jc, model.BusinessAutoGamma))
}

func TestMergePPFLines_SumsSquareFootage(t *testing.T) {
	catalogID := uuid.New()
	w := "10yr"
	items := []model.JobCardItem{
		{Kind: model.ItemKindPPF, CatalogID: &catalogID, Name: "Matte PPF", Warranty: &w, RollUsed: dec("10")},
		{Kind: model.ItemKindPPF, CatalogID: &catalogID, Name: "Matte PPF", Warranty: &w, RollUsed: dec("5")},
	}

	merged := mergePPFLines(items)
	require.Len(t, merged, 1)
	assertDec(t, "15", merged[0].RollUsed)
	assert.Equal(t, 0, merged[0].Position)
}

func TestMergePPFLines_DistinctWarrantiesStaySeparate(t *testing.T) {
	catalogID := uuid.New()
	w5, w10 := "5yr", "10yr"
	items := []model.JobCardItem{
		{Kind: model.ItemKindPPF, CatalogID: &catalogID, Name: "Matte PPF", Warranty: &w5, RollUsed: dec("10")},
		{Kind: model.ItemKindPPF, CatalogID: &catalogID, Name: "Matte PPF", Warranty: &w10, RollUsed: dec("5")},
	}

	merged := mergePPFLines(items)
	require.Len(t, merged, 2)
	assert.Equal(t, 0, merged[0].Position)
	assert.Equal(t, 1, merged[1].Position)
}

func TestMergePPFLines_Idempotent(t *testing.T) {
	catalogID := uuid.New()
	items := []model.JobCardItem{
		{Kind: model.ItemKindPPF, CatalogID: &catalogID, Name: "Matte PPF", RollUsed: dec("10")},
		{Kind: model.ItemKindPPF, CatalogID: &catalogID, Name: "Matte PPF", RollUsed: dec("5")},
		{Kind: model.ItemKindPPF, Name: "Loose Film", RollUsed: dec("3")},
	}

	once := mergePPFLines(items)
	twice := mergePPFLines(once)
	require.Equal(t, len(once), len(twice))
	for i := range once {
		assertDec(t, once[i].RollUsed.String(), twice[i].RollUsed)
	}
}

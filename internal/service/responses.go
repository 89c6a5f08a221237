package service

import (
	"time"

	"gammacrm/internal/dto"
	"gammacrm/internal/model"
)

// DTO mappers shared by the job-card and invoice services.

func lineToResponse(it model.JobCardItem) dto.JobLineResponse {
	var catalogID *string
	if it.CatalogID != nil {
		s := it.CatalogID.String()
		catalogID = &s
	}
	rolls := make([]dto.RollUsageResponse, 0, len(it.Rolls))
	for _, u := range it.Rolls {
		rolls = append(rolls, dto.RollUsageResponse{
			RollID:   u.RollID.String(),
			RollName: u.RollName,
			Qty:      u.Qty,
		})
	}
	return dto.JobLineResponse{
		ID:         it.ID.String(),
		Kind:       it.Kind,
		CatalogID:  catalogID,
		Name:       it.Name,
		Price:      it.Price,
		Quantity:   it.Quantity,
		Technician: it.Technician,
		Business:   string(it.Business),
		Warranty:   it.Warranty,
		RollUsed:   it.RollUsed,
		Category:   it.Category,
		RollsUsed:  rolls,
	}
}

func jobCardToResponse(jc *model.JobCard, invoices []model.Invoice) dto.JobCardResponse {
	resp := dto.JobCardResponse{
		ID:            jc.ID.String(),
		JobNo:         jc.JobNo,
		CustomerName:  jc.CustomerName,
		CustomerPhone: jc.CustomerPhone,
		CustomerEmail: jc.CustomerEmail,
		VehicleMake:   jc.VehicleMake,
		VehicleModel:  jc.VehicleModel,
		VehicleYear:   jc.VehicleYear,
		PlateNo:       jc.PlateNo,
		VehicleType:   jc.VehicleType,
		Status:        jc.Status,
		Services:      []dto.JobLineResponse{},
		PPFs:          []dto.JobLineResponse{},
		Accessories:   []dto.JobLineResponse{},
		LaborCharge:   jc.LaborCharge,
		LaborBusiness: string(jc.LaborBusiness),
		Discount:      jc.Discount,
		GSTPercent:    jc.GSTPercent,
		EstimatedCost: jc.EstimatedCost,
		Date:          jc.Date.Format(time.RFC3339),
		CreatedAt:     jc.CreatedAt.Format(time.RFC3339),
	}
	for _, it := range jc.Items {
		line := lineToResponse(it)
		switch it.Kind {
		case model.ItemKindService:
			resp.Services = append(resp.Services, line)
		case model.ItemKindPPF:
			resp.PPFs = append(resp.PPFs, line)
		case model.ItemKindAccessory:
			resp.Accessories = append(resp.Accessories, line)
		}
	}
	for _, inv := range invoices {
		resp.Invoices = append(resp.Invoices, invoiceToResponse(&inv))
	}
	return resp
}

func invoiceToResponse(inv *model.Invoice) dto.InvoiceResponse {
	items := make([]dto.InvoiceItemResponse, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, dto.InvoiceItemResponse{
			Type:       it.Type,
			Name:       it.Name,
			Price:      it.Price,
			Quantity:   it.Quantity,
			Technician: it.Technician,
			Warranty:   it.Warranty,
			RollUsed:   it.RollUsed,
			Category:   it.Category,
		})
	}
	payments := make([]dto.InvoicePaymentResponse, 0, len(inv.Payments))
	for _, p := range inv.Payments {
		payments = append(payments, dto.InvoicePaymentResponse{
			Amount: p.Amount,
			Method: p.Method,
			Date:   p.PaidAt.Format(time.RFC3339),
		})
	}
	paid := amountPaid(inv.Payments)
	return dto.InvoiceResponse{
		ID:            inv.ID.String(),
		InvoiceNo:     inv.InvoiceNo,
		JobCardID:     inv.JobCardID.String(),
		Business:      string(inv.Business),
		CustomerName:  inv.CustomerName,
		CustomerPhone: inv.CustomerPhone,
		Items:         items,
		Subtotal:      inv.Subtotal,
		LaborCharge:   inv.LaborCharge,
		Discount:      inv.Discount,
		GSTPercent:    inv.GSTPercent,
		GSTAmount:     inv.GSTAmount,
		TotalAmount:   inv.TotalAmount,
		Payments:      payments,
		AmountPaid:    paid,
		Balance:       inv.TotalAmount.Sub(paid),
		IsPaid:        inv.IsPaid,
		Orphaned:      inv.Orphaned,
		CreatedAt:     inv.CreatedAt.Format(time.RFC3339),
	}
}

package handler

import (
	"net/http"

	"gammacrm/internal/apierror"
	"gammacrm/internal/dto"
	"gammacrm/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InvoicesHandler struct{ svc *service.InvoiceService }

func NewInvoicesHandler(svc *service.InvoiceService) *InvoicesHandler {
	return &InvoicesHandler{svc: svc}
}

// RecordPayments godoc
// @Summary      Record payments on an invoice
// @Description  Appends a batch of payment entries; rejected wholesale if it exceeds the remaining balance.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Invoice UUID"
// @Param        body body dto.RecordPaymentsRequest true "Payment entries"
// @Success      200  {object} dto.InvoiceResponse
// @Failure      404  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/invoices/{id}/payments [post]
func (h *InvoicesHandler) RecordPayments(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	var req dto.RecordPaymentsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecordPayments(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Get one invoice
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Invoice UUID"
// @Success      200 {object} dto.InvoiceResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/invoices/{id} [get]
func (h *InvoicesHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        business query string false "Auto Gamma | AGNX | all"
// @Param        phone    query string false "Customer phone"
// @Param        paid     query string false "true | false | all"
// @Param        page     query int    false "Page (default 1)"
// @Param        limit    query int    false "Per page (default 50)"
// @Success      200 {object} dto.InvoiceListResponse
// @Router       /v1/invoices [get]
func (h *InvoicesHandler) List(c *gin.Context) {
	var filter dto.InvoiceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list invoices"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Delete an invoice
// @Tags         invoices
// @Security     BearerAuth
// @Param        id path string true "Invoice UUID"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/invoices/{id} [delete]
func (h *InvoicesHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

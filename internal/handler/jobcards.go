package handler

import (
	"net/http"

	"gammacrm/internal/apierror"
	"gammacrm/internal/dto"
	"gammacrm/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type JobCardsHandler struct{ svc *service.JobCardService }

func NewJobCardsHandler(svc *service.JobCardService) *JobCardsHandler {
	return &JobCardsHandler{svc: svc}
}

// Create godoc
// @Summary      Create a job card
// @Description  Persists the job card, allocates PPF roll stock and generates per-business invoices atomically.
// @Tags         jobcards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateJobCardRequest true "Job card payload"
// @Success      201  {object} dto.JobCardResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/jobcards [post]
func (h *JobCardsHandler) Create(c *gin.Context) {
	var req dto.CreateJobCardRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Update godoc
// @Summary      Update a job card
// @Description  Partial update; provided line arrays replace that kind wholesale and resync invoices in place.
// @Tags         jobcards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Job card UUID"
// @Param        body body dto.UpdateJobCardRequest true "Fields to change"
// @Success      200  {object} dto.JobCardResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/jobcards/{id} [patch]
func (h *JobCardsHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	var req dto.UpdateJobCardRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateStatus godoc
// @Summary      Change job status
// @Tags         jobcards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Job card UUID"
// @Param        body body dto.UpdateJobStatusRequest true "New status"
// @Success      204
// @Failure      404  {object} apierror.APIError
// @Router       /v1/jobcards/{id}/status [patch]
func (h *JobCardsHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	var req dto.UpdateJobStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete godoc
// @Summary      Delete a job card
// @Description  Restores roll stock to the exact rolls it was drawn from; unpaid invoices go with the card.
// @Tags         jobcards
// @Security     BearerAuth
// @Param        id path string true "Job card UUID"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/jobcards/{id} [delete]
func (h *JobCardsHandler) Delete(c *gin.Context) {
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

// Get godoc
// @Summary      Get one job card with its invoices
// @Tags         jobcards
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Job card UUID"
// @Success      200 {object} dto.JobCardResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/jobcards/{id} [get]
func (h *JobCardsHandler) Get(c *gin.Context) {
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
// @Summary      List job cards
// @Tags         jobcards
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "Pending | In Progress | Completed | Cancelled | all"
// @Param        phone  query string false "Customer phone"
// @Param        page   query int    false "Page (default 1)"
// @Param        limit  query int    false "Per page (default 50)"
// @Success      200 {object} dto.JobCardListResponse
// @Router       /v1/jobcards [get]
func (h *JobCardsHandler) List(c *gin.Context) {
	var filter dto.JobCardFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list job cards"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

package handler

import (
	"net/http"
	"strconv"

	"gammacrm/internal/apierror"
	"gammacrm/internal/dto"
	"gammacrm/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CatalogHandler exposes the master-data CRUD surface: detailing
// services, PPF products and rolls, accessories, vehicle types and
// technicians.
type CatalogHandler struct{ svc *service.CatalogService }

func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return uuid.Nil, false
	}
	return id, true
}

func includeInactive(c *gin.Context) bool {
	return c.Query("include_inactive") == "true"
}

// ─── Detailing services ──────────────────────────────────────────────────────

func (h *CatalogHandler) CreateService(c *gin.Context) {
	var req dto.ServiceMasterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateService(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CatalogHandler) ListServices(c *gin.Context) {
	resp, err := h.svc.ListServices(c.Request.Context(), includeInactive(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list services"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) UpdateService(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.ServiceMasterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateService(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) DeleteService(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteService(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ─── PPF products ────────────────────────────────────────────────────────────

func (h *CatalogHandler) CreatePPF(c *gin.Context) {
	var req dto.PPFMasterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreatePPF(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CatalogHandler) GetPPF(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetPPF(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) ListPPF(c *gin.Context) {
	resp, err := h.svc.ListPPF(c.Request.Context(), includeInactive(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list PPF products"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) UpdatePPF(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.PPFMasterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdatePPF(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) DeletePPF(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeletePPF(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) AddRoll(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.PPFRollRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddRoll(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CatalogHandler) UpdateRoll(c *gin.Context) {
	rollID, err := uuid.Parse(c.Param("rollId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid roll id"))
		return
	}
	var req dto.PPFRollRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateRoll(c.Request.Context(), rollID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) DeleteRoll(c *gin.Context) {
	rollID, err := uuid.Parse(c.Param("rollId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid roll id"))
		return
	}
	if err := h.svc.DeleteRoll(c.Request.Context(), rollID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RollLedger returns the immutable movement history of one PPF product.
func (h *CatalogHandler) RollLedger(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	movements, total, err := h.svc.RollLedger(c.Request.Context(), id, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to load roll ledger"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": movements, "total": total, "page": page, "limit": limit})
}

// ─── Accessories ─────────────────────────────────────────────────────────────

func (h *CatalogHandler) CreateAccessory(c *gin.Context) {
	var req dto.AccessoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateAccessory(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CatalogHandler) ListAccessories(c *gin.Context) {
	resp, err := h.svc.ListAccessories(c.Request.Context(), includeInactive(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list accessories"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) UpdateAccessory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.AccessoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateAccessory(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) DeleteAccessory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteAccessory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ─── Accessory categories ────────────────────────────────────────────────────

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req dto.NamedRecordRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateCategory(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	resp, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list categories"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ─── Vehicle types ───────────────────────────────────────────────────────────

func (h *CatalogHandler) CreateVehicleType(c *gin.Context) {
	var req dto.NamedRecordRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateVehicleType(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CatalogHandler) ListVehicleTypes(c *gin.Context) {
	resp, err := h.svc.ListVehicleTypes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list vehicle types"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) DeleteVehicleType(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteVehicleType(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ─── Technicians ─────────────────────────────────────────────────────────────

func (h *CatalogHandler) CreateTechnician(c *gin.Context) {
	var req dto.TechnicianRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateTechnician(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CatalogHandler) ListTechnicians(c *gin.Context) {
	resp, err := h.svc.ListTechnicians(c.Request.Context(), includeInactive(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list technicians"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) UpdateTechnician(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.TechnicianRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateTechnician(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) DeleteTechnician(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteTechnician(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

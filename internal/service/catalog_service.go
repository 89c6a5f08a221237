package service

import (
	"context"
	"errors"
	"fmt"

	"gammacrm/internal/dto"
	"gammacrm/internal/model"
	"gammacrm/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogService manages the master-data stores the job-card engine
// reads from: detailing services, PPF products with their price grids
// and rolls, accessories, vehicle types and technicians.
type CatalogService struct {
	services    repository.ServiceMasterRepository
	ppf         repository.PPFRepository
	movements   repository.RollMovementRepository
	accessories repository.AccessoryRepository
	categories  repository.AccessoryCategoryRepository
	vehicles    repository.VehicleTypeRepository
	technicians repository.TechnicianRepository
}

func NewCatalogService(
	services repository.ServiceMasterRepository,
	ppf repository.PPFRepository,
	movements repository.RollMovementRepository,
	accessories repository.AccessoryRepository,
	categories repository.AccessoryCategoryRepository,
	vehicles repository.VehicleTypeRepository,
	technicians repository.TechnicianRepository,
) *CatalogService {
	return &CatalogService{
		services:    services,
		ppf:         ppf,
		movements:   movements,
		accessories: accessories,
		categories:  categories,
		vehicles:    vehicles,
		technicians: technicians,
	}
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// ─── Detailing services ──────────────────────────────────────────────────────

func (s *CatalogService) CreateService(ctx context.Context, req dto.ServiceMasterRequest) (*dto.ServiceMasterResponse, error) {
	m := &model.ServiceMaster{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price.Round(2),
		Active:      true,
	}
	if err := s.services.Create(ctx, m); err != nil {
		return nil, err
	}
	return serviceMasterToResponse(m), nil
}

func (s *CatalogService) ListServices(ctx context.Context, includeInactive bool) ([]dto.ServiceMasterResponse, error) {
	masters, err := s.services.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ServiceMasterResponse, 0, len(masters))
	for i := range masters {
		out = append(out, *serviceMasterToResponse(&masters[i]))
	}
	return out, nil
}

func (s *CatalogService) UpdateService(ctx context.Context, id uuid.UUID, req dto.ServiceMasterRequest) (*dto.ServiceMasterResponse, error) {
	m, err := s.services.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	m.Name = req.Name
	m.Description = req.Description
	m.Price = req.Price.Round(2)
	if err := s.services.Update(ctx, m); err != nil {
		return nil, err
	}
	return serviceMasterToResponse(m), nil
}

func (s *CatalogService) DeleteService(ctx context.Context, id uuid.UUID) error {
	if _, err := s.services.FindByID(ctx, id); err != nil {
		return notFoundOr(err)
	}
	return s.services.SoftDelete(ctx, id)
}

func serviceMasterToResponse(m *model.ServiceMaster) *dto.ServiceMasterResponse {
	return &dto.ServiceMasterResponse{
		ID:          m.ID.String(),
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Active:      m.Active,
	}
}

// ─── PPF products ────────────────────────────────────────────────────────────

func (s *CatalogService) CreatePPF(ctx context.Context, req dto.PPFMasterRequest) (*dto.PPFMasterResponse, error) {
	m := &model.PPFMaster{
		Name:   req.Name,
		Brand:  req.Brand,
		Active: true,
	}
	for _, p := range req.Prices {
		m.Prices = append(m.Prices, model.PPFPrice{
			VehicleType: p.VehicleType,
			Warranty:    p.Warranty,
			Price:       p.Price.Round(2),
		})
	}
	for i, r := range req.Rolls {
		m.Rolls = append(m.Rolls, model.PPFRoll{
			Name:      r.Name,
			StockSqft: r.StockSqft.Round(2),
			Position:  i,
		})
	}
	if err := s.ppf.Create(ctx, m); err != nil {
		return nil, err
	}
	return ppfMasterToResponse(m), nil
}

func (s *CatalogService) GetPPF(ctx context.Context, id uuid.UUID) (*dto.PPFMasterResponse, error) {
	m, err := s.ppf.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return ppfMasterToResponse(m), nil
}

func (s *CatalogService) ListPPF(ctx context.Context, includeInactive bool) ([]dto.PPFMasterResponse, error) {
	masters, err := s.ppf.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PPFMasterResponse, 0, len(masters))
	for i := range masters {
		out = append(out, *ppfMasterToResponse(&masters[i]))
	}
	return out, nil
}

func (s *CatalogService) UpdatePPF(ctx context.Context, id uuid.UUID, req dto.PPFMasterRequest) (*dto.PPFMasterResponse, error) {
	m, err := s.ppf.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	m.Name = req.Name
	m.Brand = req.Brand
	if err := s.ppf.Update(ctx, m); err != nil {
		return nil, err
	}
	return s.GetPPF(ctx, id)
}

func (s *CatalogService) DeletePPF(ctx context.Context, id uuid.UUID) error {
	if _, err := s.ppf.FindByID(ctx, id); err != nil {
		return notFoundOr(err)
	}
	return s.ppf.SoftDelete(ctx, id)
}

// AddRoll appends a roll at the end of the product's deduction order.
func (s *CatalogService) AddRoll(ctx context.Context, ppfID uuid.UUID, req dto.PPFRollRequest) (*dto.PPFRollResponse, error) {
	m, err := s.ppf.FindByID(ctx, ppfID)
	if err != nil {
		return nil, notFoundOr(err)
	}
	roll := &model.PPFRoll{
		PPFID:     m.ID,
		Name:      req.Name,
		StockSqft: req.StockSqft.Round(2),
		Position:  len(m.Rolls),
	}
	if err := s.ppf.AddRoll(ctx, roll); err != nil {
		return nil, err
	}
	resp := ppfRollToResponse(roll)
	return &resp, nil
}

// UpdateRoll sets a roll's name and stock. Manual stock entry lands here;
// job-driven consumption never does.
func (s *CatalogService) UpdateRoll(ctx context.Context, rollID uuid.UUID, req dto.PPFRollRequest) (*dto.PPFRollResponse, error) {
	roll, err := s.ppf.FindRollTx(s.ppf.DB(), rollID)
	if err != nil {
		return nil, notFoundOr(err)
	}
	roll.Name = req.Name
	roll.StockSqft = req.StockSqft.Round(2)
	if err := s.ppf.UpdateRoll(ctx, roll); err != nil {
		return nil, err
	}
	resp := ppfRollToResponse(roll)
	return &resp, nil
}

func (s *CatalogService) DeleteRoll(ctx context.Context, rollID uuid.UUID) error {
	if _, err := s.ppf.FindRollTx(s.ppf.DB(), rollID); err != nil {
		return notFoundOr(err)
	}
	return s.ppf.DeleteRoll(ctx, rollID)
}

// RollLedger lists the immutable movement history for one product.
func (s *CatalogService) RollLedger(ctx context.Context, ppfID uuid.UUID, page, limit int) ([]model.RollMovement, int64, error) {
	return s.movements.List(ctx, repository.RollMovementFilter{
		PPFID: &ppfID,
		Page:  page,
		Limit: limit,
	})
}

func ppfRollToResponse(r *model.PPFRoll) dto.PPFRollResponse {
	return dto.PPFRollResponse{
		ID:        r.ID.String(),
		Name:      r.Name,
		StockSqft: r.StockSqft,
		Position:  r.Position,
	}
}

func ppfMasterToResponse(m *model.PPFMaster) *dto.PPFMasterResponse {
	resp := &dto.PPFMasterResponse{
		ID:     m.ID.String(),
		Name:   m.Name,
		Brand:  m.Brand,
		Active: m.Active,
		Prices: []dto.PPFPriceResponse{},
		Rolls:  []dto.PPFRollResponse{},
	}
	for _, p := range m.Prices {
		resp.Prices = append(resp.Prices, dto.PPFPriceResponse{
			VehicleType: p.VehicleType,
			Warranty:    p.Warranty,
			Price:       p.Price,
		})
	}
	for i := range m.Rolls {
		resp.Rolls = append(resp.Rolls, ppfRollToResponse(&m.Rolls[i]))
	}
	return resp
}

// ─── Accessories ─────────────────────────────────────────────────────────────

func (s *CatalogService) CreateAccessory(ctx context.Context, req dto.AccessoryRequest) (*dto.AccessoryResponse, error) {
	a := &model.Accessory{
		Name:   req.Name,
		Price:  req.Price.Round(2),
		Active: true,
	}
	if req.CategoryID != nil {
		id, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("invalid category id: %w", err)
		}
		a.CategoryID = &id
	}
	if err := s.accessories.Create(ctx, a); err != nil {
		return nil, err
	}
	created, err := s.accessories.FindByID(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	return accessoryToResponse(created), nil
}

func (s *CatalogService) ListAccessories(ctx context.Context, includeInactive bool) ([]dto.AccessoryResponse, error) {
	list, err := s.accessories.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AccessoryResponse, 0, len(list))
	for i := range list {
		out = append(out, *accessoryToResponse(&list[i]))
	}
	return out, nil
}

func (s *CatalogService) UpdateAccessory(ctx context.Context, id uuid.UUID, req dto.AccessoryRequest) (*dto.AccessoryResponse, error) {
	a, err := s.accessories.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	a.Name = req.Name
	a.Price = req.Price.Round(2)
	a.CategoryID = nil
	if req.CategoryID != nil {
		cid, perr := uuid.Parse(*req.CategoryID)
		if perr != nil {
			return nil, fmt.Errorf("invalid category id: %w", perr)
		}
		a.CategoryID = &cid
	}
	if err := s.accessories.Update(ctx, a); err != nil {
		return nil, err
	}
	updated, err := s.accessories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return accessoryToResponse(updated), nil
}

func (s *CatalogService) DeleteAccessory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.accessories.FindByID(ctx, id); err != nil {
		return notFoundOr(err)
	}
	return s.accessories.SoftDelete(ctx, id)
}

func accessoryToResponse(a *model.Accessory) *dto.AccessoryResponse {
	resp := &dto.AccessoryResponse{
		ID:     a.ID.String(),
		Name:   a.Name,
		Price:  a.Price,
		Active: a.Active,
	}
	if a.Category != nil {
		resp.Category = &a.Category.Name
	}
	return resp
}

// ─── Accessory categories ────────────────────────────────────────────────────

func (s *CatalogService) CreateCategory(ctx context.Context, req dto.NamedRecordRequest) (*dto.NamedRecordResponse, error) {
	c := &model.AccessoryCategory{Name: req.Name}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return &dto.NamedRecordResponse{ID: c.ID.String(), Name: c.Name}, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]dto.NamedRecordResponse, error) {
	list, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NamedRecordResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.NamedRecordResponse{ID: c.ID.String(), Name: c.Name})
	}
	return out, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.categories.Delete(ctx, id)
}

// ─── Vehicle types ───────────────────────────────────────────────────────────

func (s *CatalogService) CreateVehicleType(ctx context.Context, req dto.NamedRecordRequest) (*dto.NamedRecordResponse, error) {
	v := &model.VehicleType{Name: req.Name}
	if err := s.vehicles.Create(ctx, v); err != nil {
		return nil, err
	}
	return &dto.NamedRecordResponse{ID: v.ID.String(), Name: v.Name}, nil
}

func (s *CatalogService) ListVehicleTypes(ctx context.Context) ([]dto.NamedRecordResponse, error) {
	list, err := s.vehicles.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NamedRecordResponse, 0, len(list))
	for _, v := range list {
		out = append(out, dto.NamedRecordResponse{ID: v.ID.String(), Name: v.Name})
	}
	return out, nil
}

func (s *CatalogService) DeleteVehicleType(ctx context.Context, id uuid.UUID) error {
	return s.vehicles.Delete(ctx, id)
}

// ─── Technicians ─────────────────────────────────────────────────────────────

func (s *CatalogService) CreateTechnician(ctx context.Context, req dto.TechnicianRequest) (*dto.TechnicianResponse, error) {
	t := &model.Technician{Name: req.Name, Phone: req.Phone, Active: true}
	if err := s.technicians.Create(ctx, t); err != nil {
		return nil, err
	}
	return technicianToResponse(t), nil
}

func (s *CatalogService) ListTechnicians(ctx context.Context, includeInactive bool) ([]dto.TechnicianResponse, error) {
	list, err := s.technicians.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TechnicianResponse, 0, len(list))
	for i := range list {
		out = append(out, *technicianToResponse(&list[i]))
	}
	return out, nil
}

func (s *CatalogService) UpdateTechnician(ctx context.Context, id uuid.UUID, req dto.TechnicianRequest) (*dto.TechnicianResponse, error) {
	t, err := s.technicians.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	t.Name = req.Name
	t.Phone = req.Phone
	if err := s.technicians.Update(ctx, t); err != nil {
		return nil, err
	}
	return technicianToResponse(t), nil
}

func (s *CatalogService) DeleteTechnician(ctx context.Context, id uuid.UUID) error {
	if _, err := s.technicians.FindByID(ctx, id); err != nil {
		return notFoundOr(err)
	}
	return s.technicians.SoftDelete(ctx, id)
}

func technicianToResponse(t *model.Technician) *dto.TechnicianResponse {
	return &dto.TechnicianResponse{
		ID:     t.ID.String(),
		Name:   t.Name,
		Phone:  t.Phone,
		Active: t.Active,
	}
}

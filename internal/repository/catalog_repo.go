package repository

import (
	"context"

	"gammacrm/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Flat keyed-record stores for master data. The core consumes these only
// for price/name lookups; the UI manages them through plain CRUD.

type ServiceMasterRepository interface {
	Create(ctx context.Context, s *model.ServiceMaster) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ServiceMaster, error)
	List(ctx context.Context, includeInactive bool) ([]model.ServiceMaster, error)
	Update(ctx context.Context, s *model.ServiceMaster) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type serviceMasterRepo struct{ db *gorm.DB }

func NewServiceMasterRepository(db *gorm.DB) ServiceMasterRepository {
	return &serviceMasterRepo{db: db}
}

func (r *serviceMasterRepo) Create(ctx context.Context, s *model.ServiceMaster) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *serviceMasterRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ServiceMaster, error) {
	var s model.ServiceMaster
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *serviceMasterRepo) List(ctx context.Context, includeInactive bool) ([]model.ServiceMaster, error) {
	q := r.db.WithContext(ctx)
	if !includeInactive {
		q = q.Where("active = true")
	}
	var out []model.ServiceMaster
	err := q.Order("name").Find(&out).Error
	return out, err
}

func (r *serviceMasterRepo) Update(ctx context.Context, s *model.ServiceMaster) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *serviceMasterRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.ServiceMaster{}).
		Where("id = ?", id).Update("active", false).Error
}

type AccessoryRepository interface {
	Create(ctx context.Context, a *model.Accessory) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Accessory, error)
	List(ctx context.Context, includeInactive bool) ([]model.Accessory, error)
	Update(ctx context.Context, a *model.Accessory) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type accessoryRepo struct{ db *gorm.DB }

func NewAccessoryRepository(db *gorm.DB) AccessoryRepository { return &accessoryRepo{db: db} }

func (r *accessoryRepo) Create(ctx context.Context, a *model.Accessory) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *accessoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Accessory, error) {
	var a model.Accessory
	if err := r.db.WithContext(ctx).Preload("Category").First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *accessoryRepo) List(ctx context.Context, includeInactive bool) ([]model.Accessory, error) {
	q := r.db.WithContext(ctx).Preload("Category")
	if !includeInactive {
		q = q.Where("active = true")
	}
	var out []model.Accessory
	err := q.Order("name").Find(&out).Error
	return out, err
}

func (r *accessoryRepo) Update(ctx context.Context, a *model.Accessory) error {
	return r.db.WithContext(ctx).Omit("Category").Save(a).Error
}

func (r *accessoryRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Accessory{}).
		Where("id = ?", id).Update("active", false).Error
}

type AccessoryCategoryRepository interface {
	Create(ctx context.Context, c *model.AccessoryCategory) error
	List(ctx context.Context) ([]model.AccessoryCategory, error)
	Update(ctx context.Context, c *model.AccessoryCategory) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type accessoryCategoryRepo struct{ db *gorm.DB }

func NewAccessoryCategoryRepository(db *gorm.DB) AccessoryCategoryRepository {
	return &accessoryCategoryRepo{db: db}
}

func (r *accessoryCategoryRepo) Create(ctx context.Context, c *model.AccessoryCategory) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *accessoryCategoryRepo) List(ctx context.Context) ([]model.AccessoryCategory, error) {
	var out []model.AccessoryCategory
	err := r.db.WithContext(ctx).Order("name").Find(&out).Error
	return out, err
}

func (r *accessoryCategoryRepo) Update(ctx context.Context, c *model.AccessoryCategory) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *accessoryCategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.AccessoryCategory{}, id).Error
}

type VehicleTypeRepository interface {
	Create(ctx context.Context, v *model.VehicleType) error
	List(ctx context.Context) ([]model.VehicleType, error)
	Update(ctx context.Context, v *model.VehicleType) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type vehicleTypeRepo struct{ db *gorm.DB }

func NewVehicleTypeRepository(db *gorm.DB) VehicleTypeRepository {
	return &vehicleTypeRepo{db: db}
}

func (r *vehicleTypeRepo) Create(ctx context.Context, v *model.VehicleType) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *vehicleTypeRepo) List(ctx context.Context) ([]model.VehicleType, error) {
	var out []model.VehicleType
	err := r.db.WithContext(ctx).Order("name").Find(&out).Error
	return out, err
}

func (r *vehicleTypeRepo) Update(ctx context.Context, v *model.VehicleType) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *vehicleTypeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.VehicleType{}, id).Error
}

type TechnicianRepository interface {
	Create(ctx context.Context, t *model.Technician) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Technician, error)
	List(ctx context.Context, includeInactive bool) ([]model.Technician, error)
	Update(ctx context.Context, t *model.Technician) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type technicianRepo struct{ db *gorm.DB }

func NewTechnicianRepository(db *gorm.DB) TechnicianRepository {
	return &technicianRepo{db: db}
}

func (r *technicianRepo) Create(ctx context.Context, t *model.Technician) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *technicianRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Technician, error) {
	var t model.Technician
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *technicianRepo) List(ctx context.Context, includeInactive bool) ([]model.Technician, error) {
	q := r.db.WithContext(ctx)
	if !includeInactive {
		q = q.Where("active = true")
	}
	var out []model.Technician
	err := q.Order("name").Find(&out).Error
	return out, err
}

func (r *technicianRepo) Update(ctx context.Context, t *model.Technician) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *technicianRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Technician{}).
		Where("id = ?", id).Update("active", false).Error
}

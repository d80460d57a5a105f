// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/doron007/subscription-dashboard-sub001/internal/application/adapter"
	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
	domainerror "github.com/doron007/subscription-dashboard-sub001/internal/domain/error"
	"github.com/doron007/subscription-dashboard-sub001/internal/integration/persistence/model"
)

// vendorRepository implements the adapter.VendorRepository interface.
type vendorRepository struct {
	db *gorm.DB
}

// NewVendorRepository creates a new vendor repository instance.
func NewVendorRepository(db *gorm.DB) adapter.VendorRepository {
	return &vendorRepository{
		db: db,
	}
}

// Create creates a new vendor in the database.
func (r *vendorRepository) Create(ctx context.Context, vendor *entity.Vendor) error {
	vendorModel := model.VendorFromEntity(vendor)
	result := r.db.WithContext(ctx).Create(vendorModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// Update updates an existing vendor in the database.
func (r *vendorRepository) Update(ctx context.Context, vendor *entity.Vendor) error {
	vendorModel := model.VendorFromEntity(vendor)
	result := r.db.WithContext(ctx).Save(vendorModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves a vendor by its ID.
func (r *vendorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Vendor, error) {
	var vendorModel model.VendorModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&vendorModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrVendorNotFound
		}
		return nil, result.Error
	}
	return vendorModel.ToEntity(), nil
}

// FindByName retrieves a vendor by name, matched case-insensitively.
func (r *vendorRepository) FindByName(ctx context.Context, name string) (*entity.Vendor, error) {
	var vendorModel model.VendorModel
	result := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(name)).
		First(&vendorModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrVendorNotFound
		}
		return nil, result.Error
	}
	return vendorModel.ToEntity(), nil
}

// FindByNames batch-retrieves vendors whose names match case-insensitively.
func (r *vendorRepository) FindByNames(ctx context.Context, names []string) ([]*entity.Vendor, error) {
	if len(names) == 0 {
		return nil, nil
	}

	lowered := make([]string, len(names))
	for i, name := range names {
		lowered[i] = strings.ToLower(name)
	}

	var vendorModels []model.VendorModel
	result := r.db.WithContext(ctx).
		Where("LOWER(name) IN ?", lowered).
		Find(&vendorModels)
	if result.Error != nil {
		return nil, result.Error
	}

	vendors := make([]*entity.Vendor, len(vendorModels))
	for i, vm := range vendorModels {
		vendors[i] = vm.ToEntity()
	}
	return vendors, nil
}

// Delete removes a vendor from the database.
func (r *vendorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.VendorModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

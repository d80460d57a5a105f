package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/doron007/subscription-dashboard-sub001/internal/application/adapter"
	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
	domainerror "github.com/doron007/subscription-dashboard-sub001/internal/domain/error"
	"github.com/doron007/subscription-dashboard-sub001/internal/integration/persistence/model"
)

// invoiceRepository implements the adapter.InvoiceRepository interface.
type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository instance.
func NewInvoiceRepository(db *gorm.DB) adapter.InvoiceRepository {
	return &invoiceRepository{
		db: db,
	}
}

// Create creates a new invoice in the database.
func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	invoiceModel := model.InvoiceFromEntity(invoice)
	result := r.db.WithContext(ctx).Create(invoiceModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// Update updates an existing invoice in the database.
func (r *invoiceRepository) Update(ctx context.Context, invoice *entity.Invoice) error {
	invoiceModel := model.InvoiceFromEntity(invoice)
	result := r.db.WithContext(ctx).Save(invoiceModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves an invoice by its ID.
func (r *invoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoiceModel model.InvoiceModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&invoiceModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrInvoiceNotFound
		}
		return nil, result.Error
	}
	return invoiceModel.ToEntity(), nil
}

// FindByIDs batch-retrieves invoices by their IDs.
func (r *invoiceRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Invoice, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var invoiceModels []model.InvoiceModel
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&invoiceModels)
	if result.Error != nil {
		return nil, result.Error
	}

	invoices := make([]*entity.Invoice, len(invoiceModels))
	for i, im := range invoiceModels {
		invoices[i] = im.ToEntity()
	}
	return invoices, nil
}

// FindByVendorAndNumber retrieves an invoice by its idempotency key.
func (r *invoiceRepository) FindByVendorAndNumber(ctx context.Context, vendorID uuid.UUID, invoiceNumber string) (*entity.Invoice, error) {
	var invoiceModel model.InvoiceModel
	result := r.db.WithContext(ctx).
		Where("vendor_id = ? AND invoice_number = ?", vendorID, invoiceNumber).
		First(&invoiceModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrInvoiceNotFound
		}
		return nil, result.Error
	}
	return invoiceModel.ToEntity(), nil
}

// FindByVendorName retrieves all invoices for a vendor matched by name.
func (r *invoiceRepository) FindByVendorName(ctx context.Context, vendorName string) ([]*entity.Invoice, error) {
	var invoiceModels []model.InvoiceModel
	result := r.db.WithContext(ctx).
		Joins("JOIN vendors ON vendors.id = invoices.vendor_id").
		Where("LOWER(vendors.name) = ?", strings.ToLower(vendorName)).
		Order("invoice_date DESC").
		Find(&invoiceModels)
	if result.Error != nil {
		return nil, result.Error
	}

	invoices := make([]*entity.Invoice, len(invoiceModels))
	for i, im := range invoiceModels {
		invoices[i] = im.ToEntity()
	}
	return invoices, nil
}

// InvoiceDatesByVendor returns the vendor's invoice dates, unsorted.
func (r *invoiceRepository) InvoiceDatesByVendor(ctx context.Context, vendorID uuid.UUID) ([]time.Time, error) {
	var dates []time.Time
	result := r.db.WithContext(ctx).
		Model(&model.InvoiceModel{}).
		Where("vendor_id = ?", vendorID).
		Pluck("invoice_date", &dates)
	if result.Error != nil {
		return nil, result.Error
	}
	return dates, nil
}

// CountByVendor counts invoices belonging to a vendor.
func (r *invoiceRepository) CountByVendor(ctx context.Context, vendorID uuid.UUID) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.InvoiceModel{}).
		Where("vendor_id = ?", vendorID).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// ReassignVendor moves all invoices from one vendor to another.
func (r *invoiceRepository) ReassignVendor(ctx context.Context, fromVendorID, toVendorID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.InvoiceModel{}).
		Where("vendor_id = ?", fromVendorID).
		Updates(map[string]interface{}{
			"vendor_id":  toVendorID,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Delete removes an invoice from the database.
func (r *invoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.InvoiceModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

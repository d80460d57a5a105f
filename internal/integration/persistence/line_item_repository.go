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

const lineItemInsertBatchSize = 200

// lineItemRepository implements the adapter.LineItemRepository interface.
type lineItemRepository struct {
	db *gorm.DB
}

// NewLineItemRepository creates a new line item repository instance.
func NewLineItemRepository(db *gorm.DB) adapter.LineItemRepository {
	return &lineItemRepository{
		db: db,
	}
}

// FindByID retrieves a line item by its ID.
func (r *lineItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.InvoiceLineItem, error) {
	var itemModel model.LineItemModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&itemModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrLineItemNotFound
		}
		return nil, result.Error
	}
	return itemModel.ToEntity(), nil
}

// FindByInvoice retrieves all line items belonging to an invoice.
func (r *lineItemRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*entity.InvoiceLineItem, error) {
	var itemModels []model.LineItemModel
	result := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("total_amount DESC").
		Find(&itemModels)
	if result.Error != nil {
		return nil, result.Error
	}

	items := make([]*entity.InvoiceLineItem, len(itemModels))
	for i, im := range itemModels {
		items[i] = im.ToEntity()
	}
	return items, nil
}

// FindByDescriptionPattern retrieves line items whose description contains
// the given substring, case-insensitively.
func (r *lineItemRepository) FindByDescriptionPattern(ctx context.Context, pattern string) ([]*entity.InvoiceLineItem, error) {
	searchPattern := "%" + strings.ToLower(pattern) + "%"
	var itemModels []model.LineItemModel
	result := r.db.WithContext(ctx).
		Where("LOWER(description) LIKE ?", searchPattern).
		Find(&itemModels)
	if result.Error != nil {
		return nil, result.Error
	}

	items := make([]*entity.InvoiceLineItem, len(itemModels))
	for i, im := range itemModels {
		items[i] = im.ToEntity()
	}
	return items, nil
}

// BulkCreate inserts all line items in one batched write.
func (r *lineItemRepository) BulkCreate(ctx context.Context, items []*entity.InvoiceLineItem) error {
	if len(items) == 0 {
		return nil
	}

	itemModels := make([]model.LineItemModel, len(items))
	for i, item := range items {
		itemModels[i] = *model.LineItemFromEntity(item)
	}
	result := r.db.WithContext(ctx).CreateInBatches(&itemModels, lineItemInsertBatchSize)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// DeleteByInvoice removes every line item of an invoice.
func (r *lineItemRepository) DeleteByInvoice(ctx context.Context, invoiceID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Delete(&model.LineItemModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// SetOverride sets or clears the billing month override on one line item.
func (r *lineItemRepository) SetOverride(ctx context.Context, id uuid.UUID, month *time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.LineItemModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"billing_month_override": month,
			"updated_at":             time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrLineItemNotFound
	}
	return nil
}

// SetOverrideByInvoice sets or clears the override on every line of an invoice.
func (r *lineItemRepository) SetOverrideByInvoice(ctx context.Context, invoiceID uuid.UUID, month *time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.LineItemModel{}).
		Where("invoice_id = ?", invoiceID).
		Updates(map[string]interface{}{
			"billing_month_override": month,
			"updated_at":             time.Now().UTC(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// SetOverrideByIDs sets or clears the override on the given line items.
func (r *lineItemRepository) SetOverrideByIDs(ctx context.Context, ids []uuid.UUID, month *time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Model(&model.LineItemModel{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"billing_month_override": month,
			"updated_at":             time.Now().UTC(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CountByService counts line items referencing a service.
func (r *lineItemRepository) CountByService(ctx context.Context, serviceID uuid.UUID) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.LineItemModel{}).
		Where("service_id = ?", serviceID).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// CountByVendor counts line items under any of the vendor's invoices.
func (r *lineItemRepository) CountByVendor(ctx context.Context, vendorID uuid.UUID) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.LineItemModel{}).
		Where("invoice_id IN (?)",
			r.db.Model(&model.InvoiceModel{}).Select("id").Where("vendor_id = ?", vendorID)).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// ReassignService moves all line items from one service to another.
func (r *lineItemRepository) ReassignService(ctx context.Context, fromServiceID, toServiceID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.LineItemModel{}).
		Where("service_id = ?", fromServiceID).
		Updates(map[string]interface{}{
			"service_id": toServiceID,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

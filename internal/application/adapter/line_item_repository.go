package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
)

// LineItemRepository defines the interface for invoice line item persistence operations.
type LineItemRepository interface {
	// FindByID retrieves a line item by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.InvoiceLineItem, error)

	// FindByInvoice retrieves all line items belonging to an invoice.
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*entity.InvoiceLineItem, error)

	// FindByDescriptionPattern retrieves line items whose description matches
	// the given substring pattern, case-insensitively.
	FindByDescriptionPattern(ctx context.Context, pattern string) ([]*entity.InvoiceLineItem, error)

	// BulkCreate inserts all line items in one batched write.
	BulkCreate(ctx context.Context, items []*entity.InvoiceLineItem) error

	// DeleteByInvoice removes every line item of an invoice and returns the
	// number of rows deleted. Used by the csv_wins full-replace strategy.
	DeleteByInvoice(ctx context.Context, invoiceID uuid.UUID) (int64, error)

	// SetOverride sets or clears the billing month override on one line item.
	SetOverride(ctx context.Context, id uuid.UUID, month *time.Time) error

	// SetOverrideByInvoice sets or clears the billing month override on every
	// line item of an invoice and returns the number of rows updated.
	SetOverrideByInvoice(ctx context.Context, invoiceID uuid.UUID, month *time.Time) (int64, error)

	// SetOverrideByIDs sets or clears the billing month override on the given
	// line items and returns the number of rows updated.
	SetOverrideByIDs(ctx context.Context, ids []uuid.UUID, month *time.Time) (int64, error)

	// CountByService counts line items referencing a service.
	CountByService(ctx context.Context, serviceID uuid.UUID) (int64, error)

	// CountByVendor counts line items under any of the vendor's invoices.
	CountByVendor(ctx context.Context, vendorID uuid.UUID) (int64, error)

	// ReassignService moves all line items from one service to another and
	// returns the number of rows moved.
	ReassignService(ctx context.Context, fromServiceID, toServiceID uuid.UUID) (int64, error)
}

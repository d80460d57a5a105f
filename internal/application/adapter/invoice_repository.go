package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
)

// InvoiceRepository defines the interface for invoice persistence operations.
type InvoiceRepository interface {
	// Create creates a new invoice in the database.
	Create(ctx context.Context, invoice *entity.Invoice) error

	// Update updates an existing invoice in the database.
	Update(ctx context.Context, invoice *entity.Invoice) error

	// FindByID retrieves an invoice by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)

	// FindByIDs batch-retrieves invoices by their IDs.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Invoice, error)

	// FindByVendorAndNumber retrieves an invoice by its idempotency key.
	// Invoice numbers are unique within a vendor's scope.
	FindByVendorAndNumber(ctx context.Context, vendorID uuid.UUID, invoiceNumber string) (*entity.Invoice, error)

	// FindByVendorName retrieves all invoices for a vendor matched by name,
	// case-insensitively. Used by the CSV reconciler, which only knows names.
	FindByVendorName(ctx context.Context, vendorName string) ([]*entity.Invoice, error)

	// InvoiceDatesByVendor returns the vendor's invoice dates, unsorted.
	InvoiceDatesByVendor(ctx context.Context, vendorID uuid.UUID) ([]time.Time, error)

	// CountByVendor counts invoices belonging to a vendor.
	CountByVendor(ctx context.Context, vendorID uuid.UUID) (int64, error)

	// ReassignVendor moves all invoices from one vendor to another and
	// returns the number of rows moved.
	ReassignVendor(ctx context.Context, fromVendorID, toVendorID uuid.UUID) (int64, error)

	// Delete removes an invoice from the database.
	Delete(ctx context.Context, id uuid.UUID) error
}

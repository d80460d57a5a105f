// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
)

// VendorRepository defines the interface for vendor persistence operations.
type VendorRepository interface {
	// Create creates a new vendor in the database.
	Create(ctx context.Context, vendor *entity.Vendor) error

	// Update updates an existing vendor in the database.
	Update(ctx context.Context, vendor *entity.Vendor) error

	// FindByID retrieves a vendor by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Vendor, error)

	// FindByName retrieves a vendor by name, matched case-insensitively.
	FindByName(ctx context.Context, name string) (*entity.Vendor, error)

	// FindByNames batch-retrieves vendors whose names match any of the given
	// names case-insensitively. Missing names are simply absent from the result.
	FindByNames(ctx context.Context, names []string) ([]*entity.Vendor, error)

	// Delete removes a vendor from the database.
	Delete(ctx context.Context, id uuid.UUID) error
}

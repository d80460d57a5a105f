package adapter

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
)

// ServiceKey is the natural key of a service row.
type ServiceKey struct {
	SubscriptionID uuid.UUID
	Name           string
}

// ServiceUpsert is one entry of a batched service write. Total carries the
// aggregated monetary total that becomes the service's CurrentUnitPrice.
type ServiceUpsert struct {
	SubscriptionID uuid.UUID
	Name           string
	Total          decimal.Decimal
	Currency       string
}

// ServiceRepository defines the interface for service persistence operations.
type ServiceRepository interface {
	// FindByID retrieves a service by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Service, error)

	// FindBySubscriptionAndName retrieves a service by its natural key.
	FindBySubscriptionAndName(ctx context.Context, subscriptionID uuid.UUID, name string) (*entity.Service, error)

	// BatchUpsert writes all service aggregates in one batched operation,
	// keyed by (subscriptionID, name), and returns the key-to-ID map for the
	// whole batch. Existing rows have their aggregated total replaced.
	BatchUpsert(ctx context.Context, upserts []ServiceUpsert) (map[ServiceKey]uuid.UUID, error)

	// Update updates an existing service in the database.
	Update(ctx context.Context, service *entity.Service) error

	// Delete removes a service from the database.
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByVendor counts services under any of the vendor's subscriptions.
	CountByVendor(ctx context.Context, vendorID uuid.UUID) (int64, error)
}

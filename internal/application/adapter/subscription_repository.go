package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
)

// SubscriptionRepository defines the interface for subscription persistence operations.
type SubscriptionRepository interface {
	// Create creates a new subscription in the database.
	Create(ctx context.Context, subscription *entity.Subscription) error

	// FindByID retrieves a subscription by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Subscription, error)

	// FindMostRecentByVendor retrieves the most recently created subscription
	// for a vendor. Returns ErrSubscriptionNotFound when the vendor has none.
	FindMostRecentByVendor(ctx context.Context, vendorID uuid.UUID) (*entity.Subscription, error)

	// FindMostRecentByVendors batch-retrieves the most recent subscription per
	// vendor. Vendors without a subscription are absent from the map.
	FindMostRecentByVendors(ctx context.Context, vendorIDs []uuid.UUID) (map[uuid.UUID]*entity.Subscription, error)

	// CountByVendor counts subscriptions belonging to a vendor.
	CountByVendor(ctx context.Context, vendorID uuid.UUID) (int64, error)

	// ReassignVendor moves all subscriptions from one vendor to another and
	// returns the number of rows moved.
	ReassignVendor(ctx context.Context, fromVendorID, toVendorID uuid.UUID) (int64, error)

	// UpdateBillingCycle persists an inferred billing cycle on a subscription.
	UpdateBillingCycle(ctx context.Context, id uuid.UUID, cycle entity.BillingCycle) error
}

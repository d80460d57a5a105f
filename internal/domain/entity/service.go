package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service represents a canonical billable line-item category scoped to one
// subscription. Uniqueness is (SubscriptionID, Name).
//
// By convention a service row stores CurrentQuantity = 1 and CurrentUnitPrice =
// the sum of its constituent line totals, i.e. an aggregated monetary total
// rather than a literal unit price. Downstream consumers depend on this shape.
type Service struct {
	ID               uuid.UUID
	SubscriptionID   uuid.UUID
	Name             string
	CurrentQuantity  int
	CurrentUnitPrice decimal.Decimal
	Currency         string
	Category         string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewService creates a new Service entity with the aggregated-total convention.
func NewService(subscriptionID uuid.UUID, name string, total decimal.Decimal, currency string) *Service {
	now := time.Now().UTC()

	return &Service{
		ID:               uuid.New(),
		SubscriptionID:   subscriptionID,
		Name:             name,
		CurrentQuantity:  1,
		CurrentUnitPrice: total,
		Currency:         currency,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SubscriptionStatus represents the lifecycle state of a subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusPaused    SubscriptionStatus = "paused"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// Subscription represents a commercial agreement with a vendor under which
// services are billed. The most recent subscription per vendor is the default
// attachment point for newly discovered services.
type Subscription struct {
	ID            uuid.UUID
	VendorID      uuid.UUID
	Name          string
	Status        SubscriptionStatus
	BillingCycle  BillingCycle
	PaymentMethod string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewMasterAgreement creates the default agreement for a vendor that has none.
func NewMasterAgreement(vendor *Vendor) *Subscription {
	now := time.Now().UTC()

	return &Subscription{
		ID:           uuid.New(),
		VendorID:     vendor.ID,
		Name:         fmt.Sprintf("%s Master Agreement", vendor.Name),
		Status:       SubscriptionStatusActive,
		BillingCycle: BillingCycleMonthly,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

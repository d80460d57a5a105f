package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
)

// SubscriptionModel represents the subscriptions table in the database.
type SubscriptionModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	VendorID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Name          string    `gorm:"type:varchar(255);not null"`
	Status        string    `gorm:"type:varchar(20);not null;index"`
	BillingCycle  string    `gorm:"type:varchar(20)"`
	PaymentMethod string    `gorm:"type:varchar(100)"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`

	Vendor *VendorModel `gorm:"foreignKey:VendorID;references:ID"`
}

// TableName returns the table name for the SubscriptionModel.
func (SubscriptionModel) TableName() string {
	return "subscriptions"
}

// ToEntity converts a SubscriptionModel to a domain Subscription entity.
func (m *SubscriptionModel) ToEntity() *entity.Subscription {
	return &entity.Subscription{
		ID:            m.ID,
		VendorID:      m.VendorID,
		Name:          m.Name,
		Status:        entity.SubscriptionStatus(m.Status),
		BillingCycle:  entity.BillingCycle(m.BillingCycle),
		PaymentMethod: m.PaymentMethod,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// SubscriptionFromEntity creates a SubscriptionModel from a domain Subscription entity.
func SubscriptionFromEntity(subscription *entity.Subscription) *SubscriptionModel {
	return &SubscriptionModel{
		ID:            subscription.ID,
		VendorID:      subscription.VendorID,
		Name:          subscription.Name,
		Status:        string(subscription.Status),
		BillingCycle:  string(subscription.BillingCycle),
		PaymentMethod: subscription.PaymentMethod,
		CreatedAt:     subscription.CreatedAt,
		UpdatedAt:     subscription.UpdatedAt,
	}
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
)

// ServiceModel represents the services table in the database. Uniqueness is
// (subscription_id, name).
type ServiceModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SubscriptionID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_services_subscription_name"`
	Name             string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_services_subscription_name"`
	CurrentQuantity  int             `gorm:"not null;default:1"`
	CurrentUnitPrice decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Currency         string          `gorm:"type:varchar(3);not null"`
	Category         string          `gorm:"type:varchar(100)"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`

	Subscription *SubscriptionModel `gorm:"foreignKey:SubscriptionID;references:ID"`
}

// TableName returns the table name for the ServiceModel.
func (ServiceModel) TableName() string {
	return "services"
}

// ToEntity converts a ServiceModel to a domain Service entity.
func (m *ServiceModel) ToEntity() *entity.Service {
	return &entity.Service{
		ID:               m.ID,
		SubscriptionID:   m.SubscriptionID,
		Name:             m.Name,
		CurrentQuantity:  m.CurrentQuantity,
		CurrentUnitPrice: m.CurrentUnitPrice,
		Currency:         m.Currency,
		Category:         m.Category,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// ServiceFromEntity creates a ServiceModel from a domain Service entity.
func ServiceFromEntity(service *entity.Service) *ServiceModel {
	return &ServiceModel{
		ID:               service.ID,
		SubscriptionID:   service.SubscriptionID,
		Name:             service.Name,
		CurrentQuantity:  service.CurrentQuantity,
		CurrentUnitPrice: service.CurrentUnitPrice,
		Currency:         service.Currency,
		Category:         service.Category,
		CreatedAt:        service.CreatedAt,
		UpdatedAt:        service.UpdatedAt,
	}
}

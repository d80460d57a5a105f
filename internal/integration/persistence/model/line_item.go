package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
)

// LineItemModel represents the invoice_line_items table in the database.
type LineItemModel struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InvoiceID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	ServiceID            *uuid.UUID      `gorm:"type:uuid;index"`
	Description          string          `gorm:"type:varchar(512);not null"`
	Quantity             decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	UnitPrice            decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	TotalAmount          decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	PeriodStart          *time.Time      `gorm:"type:date"`
	PeriodEnd            *time.Time      `gorm:"type:date"`
	BillingMonthOverride *time.Time      `gorm:"type:date;index"`
	CreatedAt            time.Time       `gorm:"not null"`
	UpdatedAt            time.Time       `gorm:"not null"`

	Invoice *InvoiceModel `gorm:"foreignKey:InvoiceID;references:ID"`
	Service *ServiceModel `gorm:"foreignKey:ServiceID;references:ID"`
}

// TableName returns the table name for the LineItemModel.
func (LineItemModel) TableName() string {
	return "invoice_line_items"
}

// ToEntity converts a LineItemModel to a domain InvoiceLineItem entity.
func (m *LineItemModel) ToEntity() *entity.InvoiceLineItem {
	return &entity.InvoiceLineItem{
		ID:                   m.ID,
		InvoiceID:            m.InvoiceID,
		ServiceID:            m.ServiceID,
		Description:          m.Description,
		Quantity:             m.Quantity,
		UnitPrice:            m.UnitPrice,
		TotalAmount:          m.TotalAmount,
		PeriodStart:          m.PeriodStart,
		PeriodEnd:            m.PeriodEnd,
		BillingMonthOverride: m.BillingMonthOverride,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

// LineItemFromEntity creates a LineItemModel from a domain InvoiceLineItem entity.
func LineItemFromEntity(item *entity.InvoiceLineItem) *LineItemModel {
	return &LineItemModel{
		ID:                   item.ID,
		InvoiceID:            item.InvoiceID,
		ServiceID:            item.ServiceID,
		Description:          item.Description,
		Quantity:             item.Quantity,
		UnitPrice:            item.UnitPrice,
		TotalAmount:          item.TotalAmount,
		PeriodStart:          item.PeriodStart,
		PeriodEnd:            item.PeriodEnd,
		BillingMonthOverride: item.BillingMonthOverride,
		CreatedAt:            item.CreatedAt,
		UpdatedAt:            item.UpdatedAt,
	}
}

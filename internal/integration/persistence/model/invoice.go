package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
)

// InvoiceModel represents the invoices table in the database. Invoice numbers
// are unique within a vendor's scope.
type InvoiceModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	VendorID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_invoices_vendor_number"`
	SubscriptionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceNumber  string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_invoices_vendor_number"`
	InvoiceDate    time.Time       `gorm:"type:date;not null;index"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Currency       string          `gorm:"type:varchar(3);not null"`
	Status         string          `gorm:"type:varchar(10);not null;index"`
	Synthesized    bool            `gorm:"default:false"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null"`

	Vendor       *VendorModel       `gorm:"foreignKey:VendorID;references:ID"`
	Subscription *SubscriptionModel `gorm:"foreignKey:SubscriptionID;references:ID"`
}

// TableName returns the table name for the InvoiceModel.
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToEntity converts an InvoiceModel to a domain Invoice entity.
func (m *InvoiceModel) ToEntity() *entity.Invoice {
	return &entity.Invoice{
		ID:             m.ID,
		VendorID:       m.VendorID,
		SubscriptionID: m.SubscriptionID,
		InvoiceNumber:  m.InvoiceNumber,
		InvoiceDate:    m.InvoiceDate,
		TotalAmount:    m.TotalAmount,
		Currency:       m.Currency,
		Status:         entity.InvoiceStatus(m.Status),
		Synthesized:    m.Synthesized,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// InvoiceFromEntity creates an InvoiceModel from a domain Invoice entity.
func InvoiceFromEntity(invoice *entity.Invoice) *InvoiceModel {
	return &InvoiceModel{
		ID:             invoice.ID,
		VendorID:       invoice.VendorID,
		SubscriptionID: invoice.SubscriptionID,
		InvoiceNumber:  invoice.InvoiceNumber,
		InvoiceDate:    invoice.InvoiceDate,
		TotalAmount:    invoice.TotalAmount,
		Currency:       invoice.Currency,
		Status:         string(invoice.Status),
		Synthesized:    invoice.Synthesized,
		CreatedAt:      invoice.CreatedAt,
		UpdatedAt:      invoice.UpdatedAt,
	}
}

// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
)

// VendorModel represents the vendors table in the database.
type VendorModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Website      string    `gorm:"type:varchar(255)"`
	ContactEmail string    `gorm:"type:varchar(255)"`
	LogoURL      string    `gorm:"type:varchar(512)"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for the VendorModel.
func (VendorModel) TableName() string {
	return "vendors"
}

// ToEntity converts a VendorModel to a domain Vendor entity.
func (m *VendorModel) ToEntity() *entity.Vendor {
	return &entity.Vendor{
		ID:           m.ID,
		Name:         m.Name,
		Website:      m.Website,
		ContactEmail: m.ContactEmail,
		LogoURL:      m.LogoURL,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// VendorFromEntity creates a VendorModel from a domain Vendor entity.
func VendorFromEntity(vendor *entity.Vendor) *VendorModel {
	return &VendorModel{
		ID:           vendor.ID,
		Name:         vendor.Name,
		Website:      vendor.Website,
		ContactEmail: vendor.ContactEmail,
		LogoURL:      vendor.LogoURL,
		CreatedAt:    vendor.CreatedAt,
		UpdatedAt:    vendor.UpdatedAt,
	}
}

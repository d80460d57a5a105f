// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Vendor represents a company that bills the organization.
// Name is the natural dedup key: lookups are case-insensitive and a vendor is
// created lazily the first time an invoice references an unknown name.
type Vendor struct {
	ID           uuid.UUID
	Name         string
	Website      string
	ContactEmail string
	LogoURL      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewVendor creates a new Vendor entity.
func NewVendor(name string) *Vendor {
	now := time.Now().UTC()

	return &Vendor{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

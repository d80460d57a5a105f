// Package error defines domain-specific errors for the subscription dashboard.
package error

import "errors"

// Not-found errors for ledger entities.
var (
	// ErrVendorNotFound is returned when a vendor is not found in the system.
	ErrVendorNotFound = errors.New("vendor not found")

	// ErrSubscriptionNotFound is returned when a subscription is not found.
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrServiceNotFound is returned when a service is not found.
	ErrServiceNotFound = errors.New("service not found")

	// ErrInvoiceNotFound is returned when an invoice is not found.
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrLineItemNotFound is returned when an invoice line item is not found.
	ErrLineItemNotFound = errors.New("invoice line item not found")

	// ErrImportRunNotFound is returned when an import run is not found.
	ErrImportRunNotFound = errors.New("import run not found")
)

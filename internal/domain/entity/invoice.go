package entity

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the payment state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusVoid    InvoiceStatus = "void"
)

// Invoice represents one billing document. InvoiceNumber is the idempotency
// key: re-processing the same invoice updates this record instead of
// duplicating it, and the number is unique within the vendor's scope.
type Invoice struct {
	ID             uuid.UUID
	VendorID       uuid.UUID
	SubscriptionID uuid.UUID
	InvoiceNumber  string
	InvoiceDate    time.Time
	TotalAmount    decimal.Decimal
	Currency       string
	Status         InvoiceStatus
	// Synthesized marks invoices whose number was derived from date+total
	// because the source document carried none. Synthesized numbers can
	// collide across vendors with identical totals on the same day, so they
	// are flagged distinctly for auditing.
	Synthesized bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// InvoiceLineItem represents a single charge on an invoice. Line items are
// owned exclusively by their invoice: a re-import under the csv_wins strategy
// deletes and re-creates them wholesale, never patches them field by field.
type InvoiceLineItem struct {
	ID                   uuid.UUID
	InvoiceID            uuid.UUID
	ServiceID            *uuid.UUID
	Description          string
	Quantity             decimal.Decimal
	UnitPrice            decimal.Decimal
	TotalAmount          decimal.Decimal
	PeriodStart          *time.Time
	PeriodEnd            *time.Time
	BillingMonthOverride *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// InvoiceIdentityKind distinguishes how an invoice number was obtained.
type InvoiceIdentityKind string

const (
	// InvoiceIdentityExplicit means the number was present on the document.
	InvoiceIdentityExplicit InvoiceIdentityKind = "explicit"
	// InvoiceIdentitySynthesized means the number was derived from the
	// invoice date and total because the document carried none.
	InvoiceIdentitySynthesized InvoiceIdentityKind = "synthesized"
)

// InvoiceIdentity is the tagged invoice-number variant. Consumers must treat
// synthesized identities as auditable: two different documents can synthesize
// the same number.
type InvoiceIdentity struct {
	Kind   InvoiceIdentityKind
	Number string
}

var nonDigitPattern = regexp.MustCompile(`\D`)

// ExplicitIdentity wraps a number taken verbatim from the document.
func ExplicitIdentity(number string) InvoiceIdentity {
	return InvoiceIdentity{Kind: InvoiceIdentityExplicit, Number: number}
}

// SynthesizeIdentity derives a deterministic invoice number from the raw
// invoice date and total so that re-extracting the same source document yields
// the same key even when OCR produces textual variation elsewhere. The key is
// INV-<digits of date>-<rounded total>; it deliberately excludes the vendor
// name, whose extraction is the least stable field between runs.
func SynthesizeIdentity(rawDate string, total decimal.Decimal) InvoiceIdentity {
	digits := nonDigitPattern.ReplaceAllString(rawDate, "")
	return InvoiceIdentity{
		Kind:   InvoiceIdentitySynthesized,
		Number: "INV-" + digits + "-" + total.Round(0).String(),
	}
}

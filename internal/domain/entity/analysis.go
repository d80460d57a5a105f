package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transient types produced and consumed by the invoice analysis flow.
// None of these are persisted.

// RawLineItem is a single line as extracted by the vision service.
type RawLineItem struct {
	Description string
	Quantity    *decimal.Decimal
	UnitPrice   *decimal.Decimal
	Total       decimal.Decimal
}

// RawInvoice is the black-box output of the extraction collaborator.
type RawInvoice struct {
	VendorName      string
	InvoiceNumber   string
	InvoiceDate     string
	TotalAmount     decimal.Decimal
	Currency        string
	ConfidenceScore float64
	LineItems       []RawLineItem
}

// AnalyzedLineItem is a canonicalized line ready for persistence.
type AnalyzedLineItem struct {
	ServiceName string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TotalAmount decimal.Decimal
	PeriodStart *time.Time
	PeriodEnd   *time.Time
}

// AnalyzedVendor carries the vendor fields discovered during analysis.
type AnalyzedVendor struct {
	Name string
}

// AnalyzedInvoiceHeader carries the invoice-level fields with the resolved
// identity variant.
type AnalyzedInvoiceHeader struct {
	Identity    InvoiceIdentity
	InvoiceDate string
	TotalAmount decimal.Decimal
	Currency    string
}

// AnalysisSummary aggregates per-invoice analysis statistics. ConfidenceScore
// passes through the extraction confidence unchanged.
type AnalysisSummary struct {
	ServiceCount    int
	LineItemCount   int
	ConfidenceScore float64
}

// AnalyzedInvoice is the canonical structured invoice produced by the
// aggregation engine.
type AnalyzedInvoice struct {
	Vendor    AnalyzedVendor
	Invoice   AnalyzedInvoiceHeader
	LineItems []AnalyzedLineItem
	Summary   AnalysisSummary
}

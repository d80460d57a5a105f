package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MergeStrategy is the policy for resolving conflicts when re-importing data
// that already exists.
type MergeStrategy string

const (
	// MergeStrategyCSVWins replaces the persisted invoice header and all of
	// its line items with the CSV content.
	MergeStrategyCSVWins MergeStrategy = "csv_wins"
	// MergeStrategyKeepExisting leaves the persisted invoice untouched.
	MergeStrategyKeepExisting MergeStrategy = "keep_existing"
	// MergeStrategySkip skips the invoice entirely.
	MergeStrategySkip MergeStrategy = "skip"
)

// DiffType classifies an invoice or line against persisted state. It is a
// closed set: consumers switch exhaustively over these values rather than
// comparing free-form strings.
type DiffType string

const (
	DiffTypeNew       DiffType = "new"
	DiffTypeChanged   DiffType = "changed"
	DiffTypeUnchanged DiffType = "unchanged"
	DiffTypeRemoved   DiffType = "removed"
	DiffTypeVoided    DiffType = "voided"
)

// ParsedLineItem is one CSV row normalized into the import intermediate form.
// The natural key is (InvoiceNumber, Description, ServiceMonth).
type ParsedLineItem struct {
	InvoiceNumber string
	Description   string
	ServiceMonth  string // YYYY-MM
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	TotalPrice    decimal.Decimal
	PeriodStart   *time.Time
	PeriodEnd     *time.Time
	Paid          bool
	Voided        bool
}

// ParsedInvoice groups parsed lines by (vendor, invoice number), summing line
// totals into TotalAmount.
type ParsedInvoice struct {
	VendorName    string
	InvoiceNumber string
	InvoiceDate   time.Time
	TotalAmount   decimal.Decimal
	Paid          bool
	Voided        bool
	LineItems     []ParsedLineItem
}

// DecisionKey identifies this invoice in an import decision map.
func (p *ParsedInvoice) DecisionKey() string {
	return p.VendorName + "|" + p.InvoiceNumber
}

// LineItemDiff classifies one parsed line against its persisted counterpart.
// Parsed is nil for removed lines; Existing is nil for new lines.
type LineItemDiff struct {
	Type        DiffType
	Description string
	Parsed      *ParsedLineItem
	Existing    *InvoiceLineItem
}

// DiffStats counts line diffs per type for UI/decision purposes.
type DiffStats struct {
	New       int
	Changed   int
	Unchanged int
	Removed   int
	Voided    int
}

// InvoiceDiff is one node of the reconciliation tree: the invoice-level
// classification plus per-line diffs and aggregate stats.
type InvoiceDiff struct {
	Type          DiffType
	VendorName    string
	InvoiceNumber string
	Parsed        *ParsedInvoice
	Existing      *Invoice
	Lines         []LineItemDiff
	Stats         DiffStats
}

// ImportDecision is a caller's choice for a single invoice in the diff tree.
// A zero value means "follow the global strategy".
type ImportDecision struct {
	// Skip excludes the invoice from the batch entirely.
	Skip bool
	// ImportVoided imports a voided invoice as pending instead of skipping it.
	ImportVoided bool
	// Strategy overrides the global merge strategy for this invoice.
	Strategy MergeStrategy
	// SkipLines excludes individual lines, keyed by "description|serviceMonth".
	SkipLines map[string]bool
}

// ImportCounts aggregates per-entity outcomes of one batch execution.
type ImportCounts struct {
	VendorsCreated       int
	SubscriptionsCreated int
	InvoicesCreated      int
	InvoicesUpdated      int
	InvoicesSkipped      int
	ServicesUpserted     int
	LineItemsCreated     int
}

// ImportExecutionResult is the outcome of one executeBatch call. Success
// means every invoice in the batch succeeded; a completed call with
// per-invoice errors still carries the counts of what did succeed.
type ImportExecutionResult struct {
	Success      bool
	BatchIndex   int
	TotalBatches int
	Counts       ImportCounts
	Errors       []string
}

// ImportRun is the persisted audit record of one batch execution.
type ImportRun struct {
	ID           uuid.UUID
	BatchIndex   int
	TotalBatches int
	Strategy     MergeStrategy
	Counts       ImportCounts
	Errors       []string
	Success      bool
	CreatedAt    time.Time
}

// LineKey builds the per-line decision key for a parsed line.
func (p *ParsedLineItem) LineKey() string {
	return p.Description + "|" + p.ServiceMonth
}

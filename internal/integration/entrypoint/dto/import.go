package dto

import (
	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
)

// ImportRowDTO is one row of the uploaded bulk CSV. The csv tags match the
// export header; all values stay strings so row-level validation happens in
// the use case with row numbers attached.
type ImportRowDTO struct {
	Vendor       string `csv:"vendor" json:"vendor"`
	Invoice      string `csv:"invoice" json:"invoice"`
	InvoiceDate  string `csv:"invoice_date" json:"invoice_date"`
	ServiceMonth string `csv:"service_month" json:"service_month"`
	LineItem     string `csv:"line_item" json:"line_item"`
	Quantity     string `csv:"quantity" json:"quantity"`
	UnitPrice    string `csv:"unit_price" json:"unit_price"`
	TotalPrice   string `csv:"total_price" json:"total_price"`
	Paid         string `csv:"paid" json:"paid"`
}

// ParsedLineDTO represents one CSV line inside a diff node.
type ParsedLineDTO struct {
	Description  string `json:"description"`
	ServiceMonth string `json:"service_month"`
	Quantity     string `json:"quantity"`
	UnitPrice    string `json:"unit_price"`
	TotalPrice   string `json:"total_price"`
	Paid         bool   `json:"paid"`
	Voided       bool   `json:"voided"`
}

// ExistingLineDTO represents the persisted counterpart of a diffed line.
type ExistingLineDTO struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	TotalAmount string `json:"total_amount"`
}

// LineItemDiffDTO classifies one line against persisted state.
type LineItemDiffDTO struct {
	Type        string           `json:"type"`
	Description string           `json:"description"`
	Parsed      *ParsedLineDTO   `json:"parsed,omitempty"`
	Existing    *ExistingLineDTO `json:"existing,omitempty"`
}

// DiffStatsDTO counts diffs per type.
type DiffStatsDTO struct {
	New       int `json:"new"`
	Changed   int `json:"changed"`
	Unchanged int `json:"unchanged"`
	Removed   int `json:"removed"`
	Voided    int `json:"voided"`
}

// InvoiceDiffDTO is one node of the reconciliation tree.
type InvoiceDiffDTO struct {
	Type          string            `json:"type"`
	VendorName    string            `json:"vendor_name"`
	InvoiceNumber string            `json:"invoice_number"`
	DecisionKey   string            `json:"decision_key"`
	InvoiceDate   string            `json:"invoice_date,omitempty"`
	TotalAmount   string            `json:"total_amount,omitempty"`
	Lines         []LineItemDiffDTO `json:"lines"`
	Stats         DiffStatsDTO      `json:"stats"`
}

// ReconcileResponseDTO represents the response for POST /import/reconcile.
type ReconcileResponseDTO struct {
	Invoices []InvoiceDiffDTO `json:"invoices"`
	Totals   DiffStatsDTO     `json:"totals"`
}

// ImportDecisionDTO is a caller's per-invoice choice for an execute call.
type ImportDecisionDTO struct {
	Skip         bool     `json:"skip"`
	ImportVoided bool     `json:"import_voided"`
	Strategy     string   `json:"strategy,omitempty"`
	SkipLines    []string `json:"skip_lines,omitempty"`
}

// ExecuteImportOptionsDTO carries the execute parameters alongside the CSV
// file in the multipart request.
type ExecuteImportOptionsDTO struct {
	BatchIndex int                          `json:"batch_index"`
	BatchSize  int                          `json:"batch_size"`
	Strategy   string                       `json:"strategy"`
	Decisions  map[string]ImportDecisionDTO `json:"decisions,omitempty"`
}

// ImportCountsDTO aggregates per-entity outcomes of one batch execution.
type ImportCountsDTO struct {
	VendorsCreated       int `json:"vendors_created"`
	SubscriptionsCreated int `json:"subscriptions_created"`
	InvoicesCreated      int `json:"invoices_created"`
	InvoicesUpdated      int `json:"invoices_updated"`
	InvoicesSkipped      int `json:"invoices_skipped"`
	ServicesUpserted     int `json:"services_upserted"`
	LineItemsCreated     int `json:"line_items_created"`
}

// ExecuteImportResponseDTO represents the response for POST /import/execute.
type ExecuteImportResponseDTO struct {
	Success      bool            `json:"success"`
	BatchIndex   int             `json:"batch_index"`
	TotalBatches int             `json:"total_batches"`
	Counts       ImportCountsDTO `json:"counts"`
	Errors       []string        `json:"errors,omitempty"`
}

// ImportRunDTO represents one persisted import audit record.
type ImportRunDTO struct {
	ID           string          `json:"id"`
	BatchIndex   int             `json:"batch_index"`
	TotalBatches int             `json:"total_batches"`
	Strategy     string          `json:"strategy"`
	Counts       ImportCountsDTO `json:"counts"`
	Errors       []string        `json:"errors,omitempty"`
	Success      bool            `json:"success"`
	CreatedAt    string          `json:"created_at"`
}

// ListImportRunsResponseDTO represents the response for GET /import/runs.
type ListImportRunsResponseDTO struct {
	Runs []ImportRunDTO `json:"runs"`
}

// ToDiffStatsDTO converts domain diff stats to the DTO.
func ToDiffStatsDTO(stats entity.DiffStats) DiffStatsDTO {
	return DiffStatsDTO{
		New:       stats.New,
		Changed:   stats.Changed,
		Unchanged: stats.Unchanged,
		Removed:   stats.Removed,
		Voided:    stats.Voided,
	}
}

// ToInvoiceDiffDTO converts one domain diff node to the DTO.
func ToInvoiceDiffDTO(diff entity.InvoiceDiff) InvoiceDiffDTO {
	lines := make([]LineItemDiffDTO, len(diff.Lines))
	for i, line := range diff.Lines {
		lines[i] = LineItemDiffDTO{
			Type:        string(line.Type),
			Description: line.Description,
		}
		if line.Parsed != nil {
			lines[i].Parsed = &ParsedLineDTO{
				Description:  line.Parsed.Description,
				ServiceMonth: line.Parsed.ServiceMonth,
				Quantity:     line.Parsed.Quantity.String(),
				UnitPrice:    line.Parsed.UnitPrice.String(),
				TotalPrice:   line.Parsed.TotalPrice.String(),
				Paid:         line.Parsed.Paid,
				Voided:       line.Parsed.Voided,
			}
		}
		if line.Existing != nil {
			lines[i].Existing = &ExistingLineDTO{
				ID:          line.Existing.ID.String(),
				Description: line.Existing.Description,
				Quantity:    line.Existing.Quantity.String(),
				UnitPrice:   line.Existing.UnitPrice.String(),
				TotalAmount: line.Existing.TotalAmount.String(),
			}
		}
	}

	result := InvoiceDiffDTO{
		Type:          string(diff.Type),
		VendorName:    diff.VendorName,
		InvoiceNumber: diff.InvoiceNumber,
		Lines:         lines,
		Stats:         ToDiffStatsDTO(diff.Stats),
	}
	if diff.Parsed != nil {
		result.DecisionKey = diff.Parsed.DecisionKey()
		result.InvoiceDate = diff.Parsed.InvoiceDate.Format("2006-01-02")
		result.TotalAmount = diff.Parsed.TotalAmount.String()
	}
	return result
}

// ToImportCountsDTO converts domain import counts to the DTO.
func ToImportCountsDTO(counts entity.ImportCounts) ImportCountsDTO {
	return ImportCountsDTO{
		VendorsCreated:       counts.VendorsCreated,
		SubscriptionsCreated: counts.SubscriptionsCreated,
		InvoicesCreated:      counts.InvoicesCreated,
		InvoicesUpdated:      counts.InvoicesUpdated,
		InvoicesSkipped:      counts.InvoicesSkipped,
		ServicesUpserted:     counts.ServicesUpserted,
		LineItemsCreated:     counts.LineItemsCreated,
	}
}

// ToImportRunDTO converts one audit record to the DTO.
func ToImportRunDTO(run *entity.ImportRun) ImportRunDTO {
	return ImportRunDTO{
		ID:           run.ID.String(),
		BatchIndex:   run.BatchIndex,
		TotalBatches: run.TotalBatches,
		Strategy:     string(run.Strategy),
		Counts:       ToImportCountsDTO(run.Counts),
		Errors:       run.Errors,
		Success:      run.Success,
		CreatedAt:    run.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

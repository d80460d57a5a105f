package dto

import (
	"time"

	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
)

// AnalyzedLineItemDTO represents a canonicalized invoice line.
type AnalyzedLineItemDTO struct {
	ServiceName string  `json:"service_name"`
	Description string  `json:"description"`
	Quantity    string  `json:"quantity"`
	UnitPrice   string  `json:"unit_price"`
	TotalAmount string  `json:"total_amount"`
	PeriodStart *string `json:"period_start,omitempty"`
	PeriodEnd   *string `json:"period_end,omitempty"`
}

// AnalyzedInvoiceDTO represents the structured invoice produced by analysis.
type AnalyzedInvoiceDTO struct {
	VendorName          string                `json:"vendor_name"`
	InvoiceNumber       string                `json:"invoice_number"`
	InvoiceNumberOrigin string                `json:"invoice_number_origin"`
	InvoiceDate         string                `json:"invoice_date"`
	TotalAmount         string                `json:"total_amount"`
	Currency            string                `json:"currency"`
	LineItems           []AnalyzedLineItemDTO `json:"line_items"`
	ServiceCount        int                   `json:"service_count"`
	LineItemCount       int                   `json:"line_item_count"`
	ConfidenceScore     float64               `json:"confidence_score"`
}

// PipelineStepDTO reports the duration of one pipeline stage.
type PipelineStepDTO struct {
	Name       string `json:"name"`
	DurationMS int64  `json:"duration_ms"`
}

// AnalyzeInvoiceResponseDTO represents the response for POST /analysis/invoices.
type AnalyzeInvoiceResponseDTO struct {
	Success       bool                `json:"success"`
	Data          *AnalyzedInvoiceDTO `json:"data,omitempty"`
	Error         string              `json:"error,omitempty"`
	DiagnosticLog []string            `json:"diagnostic_log"`
	Steps         []PipelineStepDTO   `json:"steps"`
}

// ToAnalyzedInvoiceDTO converts a domain AnalyzedInvoice to its DTO.
func ToAnalyzedInvoiceDTO(analyzed *entity.AnalyzedInvoice) *AnalyzedInvoiceDTO {
	lines := make([]AnalyzedLineItemDTO, len(analyzed.LineItems))
	for i, line := range analyzed.LineItems {
		lines[i] = AnalyzedLineItemDTO{
			ServiceName: line.ServiceName,
			Description: line.Description,
			Quantity:    line.Quantity.String(),
			UnitPrice:   line.UnitPrice.String(),
			TotalAmount: line.TotalAmount.String(),
			PeriodStart: formatDatePtr(line.PeriodStart),
			PeriodEnd:   formatDatePtr(line.PeriodEnd),
		}
	}

	return &AnalyzedInvoiceDTO{
		VendorName:          analyzed.Vendor.Name,
		InvoiceNumber:       analyzed.Invoice.Identity.Number,
		InvoiceNumberOrigin: string(analyzed.Invoice.Identity.Kind),
		InvoiceDate:         analyzed.Invoice.InvoiceDate,
		TotalAmount:         analyzed.Invoice.TotalAmount.String(),
		Currency:            analyzed.Invoice.Currency,
		LineItems:           lines,
		ServiceCount:        analyzed.Summary.ServiceCount,
		LineItemCount:       analyzed.Summary.LineItemCount,
		ConfidenceScore:     analyzed.Summary.ConfidenceScore,
	}
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format("2006-01-02")
	return &formatted
}

package dto

import "github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"

// VendorCycleResponseDTO represents the response for GET /vendors/:id/billing-cycle.
type VendorCycleResponseDTO struct {
	VendorID                   string  `json:"vendor_id"`
	Cycle                      string  `json:"cycle"`
	Confidence                 float64 `json:"confidence"`
	AverageDaysBetweenInvoices float64 `json:"average_days_between_invoices"`
	InvoiceCount               int     `json:"invoice_count"`
	FromCache                  bool    `json:"from_cache"`
}

// ToVendorCycleResponseDTO converts a cycle inference to its response DTO.
func ToVendorCycleResponseDTO(vendorID string, inference entity.CycleInference, fromCache bool) VendorCycleResponseDTO {
	return VendorCycleResponseDTO{
		VendorID:                   vendorID,
		Cycle:                      string(inference.Cycle),
		Confidence:                 inference.Confidence,
		AverageDaysBetweenInvoices: inference.AverageDaysBetweenInvoices,
		InvoiceCount:               inference.InvoiceCount,
		FromCache:                  fromCache,
	}
}

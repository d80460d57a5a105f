package dto

// MovePeriodRequestDTO represents the request for POST /periods/move.
// TargetMonth is YYYY-MM; empty clears the override.
type MovePeriodRequestDTO struct {
	Granularity string `json:"granularity" binding:"required"`
	InvoiceID   string `json:"invoice_id,omitempty"`
	LineItemID  string `json:"line_item_id,omitempty"`
	Pattern     string `json:"pattern,omitempty"`
	SourceMonth string `json:"source_month,omitempty"`
	TargetMonth string `json:"target_month"`
}

// MovePeriodResponseDTO represents the response for POST /periods/move.
type MovePeriodResponseDTO struct {
	LinesMoved int `json:"lines_moved"`
}

package dto

import "github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"

// PreviewMergeRequestDTO represents the request for POST /merge/preview.
type PreviewMergeRequestDTO struct {
	Entity   string `json:"entity" binding:"required"`
	SourceID string `json:"source_id" binding:"required"`
}

// MergeImpactDTO counts the dependent rows a merge would reassign.
type MergeImpactDTO struct {
	Subscriptions int `json:"subscriptions"`
	Services      int `json:"services"`
	Invoices      int `json:"invoices"`
	LineItems     int `json:"line_items"`
}

// PreviewMergeResponseDTO represents the response for POST /merge/preview.
type PreviewMergeResponseDTO struct {
	Entity   string         `json:"entity"`
	SourceID string         `json:"source_id"`
	Impact   MergeImpactDTO `json:"impact"`
}

// ExecuteMergeRequestDTO represents the request for POST /merge/execute.
type ExecuteMergeRequestDTO struct {
	Entity   string `json:"entity" binding:"required"`
	SourceID string `json:"source_id" binding:"required"`
	TargetID string `json:"target_id" binding:"required"`
	NewName  string `json:"new_name"`
}

// ExecuteMergeResponseDTO represents the response for POST /merge/execute.
type ExecuteMergeResponseDTO struct {
	SourceID string         `json:"source_id"`
	TargetID string         `json:"target_id"`
	Moved    MergeImpactDTO `json:"moved"`
	Renamed  bool           `json:"renamed"`
}

// ToMergeImpactDTO converts a domain merge impact to the DTO.
func ToMergeImpactDTO(impact entity.MergeImpact) MergeImpactDTO {
	return MergeImpactDTO{
		Subscriptions: impact.Subscriptions,
		Services:      impact.Services,
		Invoices:      impact.Invoices,
		LineItems:     impact.LineItems,
	}
}

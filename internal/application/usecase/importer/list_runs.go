package importer

import (
	"context"

	"github.com/doron007/subscription-dashboard-sub001/internal/application/adapter"
	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
)

const defaultRunListLimit = 20

// ListRunsInput represents the input for listing import audit records.
type ListRunsInput struct {
	Limit int
}

// ListRunsOutput represents the most recent import runs, newest first.
type ListRunsOutput struct {
	Runs []*entity.ImportRun
}

// ListRunsUseCase reads back the audit trail of past batch executions.
type ListRunsUseCase struct {
	importRunRepo adapter.ImportRunRepository
}

// NewListRunsUseCase creates a new ListRunsUseCase instance.
func NewListRunsUseCase(importRunRepo adapter.ImportRunRepository) *ListRunsUseCase {
	return &ListRunsUseCase{importRunRepo: importRunRepo}
}

// Execute retrieves the most recent import runs.
func (uc *ListRunsUseCase) Execute(ctx context.Context, input ListRunsInput) (*ListRunsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultRunListLimit
	}

	runs, err := uc.importRunRepo.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &ListRunsOutput{Runs: runs}, nil
}

package adapter

import (
	"context"

	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
)

// ImportRunRepository defines the interface for import audit persistence.
type ImportRunRepository interface {
	// Create persists the audit record of one batch execution.
	Create(ctx context.Context, run *entity.ImportRun) error

	// FindRecent retrieves the most recent import runs, newest first.
	FindRecent(ctx context.Context, limit int) ([]*entity.ImportRun, error)
}

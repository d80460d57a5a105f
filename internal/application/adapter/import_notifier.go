package adapter

import (
	"context"

	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
)

// ImportNotifier sends a notification when a bulk import finishes.
type ImportNotifier interface {
	// NotifyImportCompleted reports the outcome of the final batch of an import.
	NotifyImportCompleted(ctx context.Context, result *entity.ImportExecutionResult) error

	// IsConfigured reports whether notifications are enabled.
	IsConfigured() bool
}

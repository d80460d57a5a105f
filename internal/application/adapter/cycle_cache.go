package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
)

// CycleCache caches per-vendor billing cycle inferences for reporting.
// Implementations must treat a miss as (nil, false, nil), not an error.
type CycleCache interface {
	Get(ctx context.Context, vendorID uuid.UUID) (*entity.CycleInference, bool, error)
	Set(ctx context.Context, vendorID uuid.UUID, inference *entity.CycleInference) error
}

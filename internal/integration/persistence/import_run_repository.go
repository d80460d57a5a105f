package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/doron007/subscription-dashboard-sub001/internal/application/adapter"
	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
	"github.com/doron007/subscription-dashboard-sub001/internal/integration/persistence/model"
)

// importRunRepository implements the adapter.ImportRunRepository interface.
type importRunRepository struct {
	db *gorm.DB
}

// NewImportRunRepository creates a new import run repository instance.
func NewImportRunRepository(db *gorm.DB) adapter.ImportRunRepository {
	return &importRunRepository{
		db: db,
	}
}

// Create persists the audit record of one batch execution.
func (r *importRunRepository) Create(ctx context.Context, run *entity.ImportRun) error {
	runModel := model.ImportRunFromEntity(run)
	result := r.db.WithContext(ctx).Create(runModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindRecent retrieves the most recent import runs, newest first.
func (r *importRunRepository) FindRecent(ctx context.Context, limit int) ([]*entity.ImportRun, error) {
	var runModels []model.ImportRunModel
	result := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&runModels)
	if result.Error != nil {
		return nil, result.Error
	}

	runs := make([]*entity.ImportRun, len(runModels))
	for i, rm := range runModels {
		runs[i] = rm.ToEntity()
	}
	return runs, nil
}

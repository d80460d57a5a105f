package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
)

// ImportRunModel represents the import_runs audit table in the database.
// Errors is a Postgres text array holding the per-invoice failure strings.
type ImportRunModel struct {
	ID                   uuid.UUID      `gorm:"type:uuid;primaryKey"`
	BatchIndex           int            `gorm:"not null"`
	TotalBatches         int            `gorm:"not null"`
	Strategy             string         `gorm:"type:varchar(20);not null"`
	VendorsCreated       int            `gorm:"not null"`
	SubscriptionsCreated int            `gorm:"not null"`
	InvoicesCreated      int            `gorm:"not null"`
	InvoicesUpdated      int            `gorm:"not null"`
	InvoicesSkipped      int            `gorm:"not null"`
	ServicesUpserted     int            `gorm:"not null"`
	LineItemsCreated     int            `gorm:"not null"`
	Errors               pq.StringArray `gorm:"type:text[]"`
	Success              bool           `gorm:"not null;index"`
	CreatedAt            time.Time      `gorm:"not null;index"`
}

// TableName returns the table name for the ImportRunModel.
func (ImportRunModel) TableName() string {
	return "import_runs"
}

// ToEntity converts an ImportRunModel to a domain ImportRun entity.
func (m *ImportRunModel) ToEntity() *entity.ImportRun {
	return &entity.ImportRun{
		ID:           m.ID,
		BatchIndex:   m.BatchIndex,
		TotalBatches: m.TotalBatches,
		Strategy:     entity.MergeStrategy(m.Strategy),
		Counts: entity.ImportCounts{
			VendorsCreated:       m.VendorsCreated,
			SubscriptionsCreated: m.SubscriptionsCreated,
			InvoicesCreated:      m.InvoicesCreated,
			InvoicesUpdated:      m.InvoicesUpdated,
			InvoicesSkipped:      m.InvoicesSkipped,
			ServicesUpserted:     m.ServicesUpserted,
			LineItemsCreated:     m.LineItemsCreated,
		},
		Errors:    m.Errors,
		Success:   m.Success,
		CreatedAt: m.CreatedAt,
	}
}

// ImportRunFromEntity creates an ImportRunModel from a domain ImportRun entity.
func ImportRunFromEntity(run *entity.ImportRun) *ImportRunModel {
	return &ImportRunModel{
		ID:                   run.ID,
		BatchIndex:           run.BatchIndex,
		TotalBatches:         run.TotalBatches,
		Strategy:             string(run.Strategy),
		VendorsCreated:       run.Counts.VendorsCreated,
		SubscriptionsCreated: run.Counts.SubscriptionsCreated,
		InvoicesCreated:      run.Counts.InvoicesCreated,
		InvoicesUpdated:      run.Counts.InvoicesUpdated,
		InvoicesSkipped:      run.Counts.InvoicesSkipped,
		ServicesUpserted:     run.Counts.ServicesUpserted,
		LineItemsCreated:     run.Counts.LineItemsCreated,
		Errors:               run.Errors,
		Success:              run.Success,
		CreatedAt:            run.CreatedAt,
	}
}

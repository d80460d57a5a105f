package entity

import "github.com/google/uuid"

// MergeEntity names the entity kinds that support merging.
type MergeEntity string

const (
	MergeEntityVendor  MergeEntity = "vendor"
	MergeEntityService MergeEntity = "service"
)

// MergeImpact counts the dependent rows a merge would reassign. For a service
// merge only LineItems is populated.
type MergeImpact struct {
	Subscriptions int
	Services      int
	Invoices      int
	LineItems     int
}

// MergeResult reports a completed merge: the rows actually moved must match
// the impact previewed beforehand.
type MergeResult struct {
	SourceID uuid.UUID
	TargetID uuid.UUID
	Moved    MergeImpact
	Renamed  bool
}

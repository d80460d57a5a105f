package merge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/doron007/subscription-dashboard-sub001/internal/application/adapter"
	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
	domainerror "github.com/doron007/subscription-dashboard-sub001/internal/domain/error"
)

// ExecuteMergeInput represents the input for a merge. NewName optionally
// renames the surviving target record.
type ExecuteMergeInput struct {
	Entity   entity.MergeEntity
	SourceID uuid.UUID
	TargetID uuid.UUID
	NewName  string
}

// ExecuteMergeOutput represents the outcome of a completed merge.
type ExecuteMergeOutput struct {
	Result entity.MergeResult
}

// ExecuteMergeUseCase reassigns every dependent of the source record to the
// target, optionally renames the target, and deletes the source. The repos
// run the reassignments transactionally.
type ExecuteMergeUseCase struct {
	vendorRepo       adapter.VendorRepository
	subscriptionRepo adapter.SubscriptionRepository
	serviceRepo      adapter.ServiceRepository
	invoiceRepo      adapter.InvoiceRepository
	lineItemRepo     adapter.LineItemRepository
}

// NewExecuteMergeUseCase creates a new ExecuteMergeUseCase instance.
func NewExecuteMergeUseCase(
	vendorRepo adapter.VendorRepository,
	subscriptionRepo adapter.SubscriptionRepository,
	serviceRepo adapter.ServiceRepository,
	invoiceRepo adapter.InvoiceRepository,
	lineItemRepo adapter.LineItemRepository,
) *ExecuteMergeUseCase {
	return &ExecuteMergeUseCase{
		vendorRepo:       vendorRepo,
		subscriptionRepo: subscriptionRepo,
		serviceRepo:      serviceRepo,
		invoiceRepo:      invoiceRepo,
		lineItemRepo:     lineItemRepo,
	}
}

// Execute performs the merge. Source and target must differ and both must
// exist; the moved counts in the result equal what a preview immediately
// before the merge would have reported.
func (uc *ExecuteMergeUseCase) Execute(ctx context.Context, input ExecuteMergeInput) (*ExecuteMergeOutput, error) {
	if input.SourceID == input.TargetID {
		return nil, domainerror.NewMergeError(
			domainerror.ErrCodeSelfMerge,
			fmt.Sprintf("source and target are both %s", input.SourceID),
			domainerror.ErrSelfMerge,
		)
	}

	switch input.Entity {
	case entity.MergeEntityVendor:
		return uc.mergeVendor(ctx, input)
	case entity.MergeEntityService:
		return uc.mergeService(ctx, input)
	default:
		return nil, domainerror.NewMergeError(
			domainerror.ErrCodeUnsupportedEntity,
			fmt.Sprintf("entity %q does not support merging", input.Entity),
			domainerror.ErrUnsupportedMergeEntity,
		)
	}
}

func (uc *ExecuteMergeUseCase) mergeVendor(ctx context.Context, input ExecuteMergeInput) (*ExecuteMergeOutput, error) {
	source, err := uc.vendorRepo.FindByID(ctx, input.SourceID)
	if err != nil {
		return nil, mergeEndpointError(err, domainerror.ErrVendorNotFound, true, input.SourceID)
	}
	target, err := uc.vendorRepo.FindByID(ctx, input.TargetID)
	if err != nil {
		return nil, mergeEndpointError(err, domainerror.ErrVendorNotFound, false, input.TargetID)
	}

	// Services and line items hang off subscriptions and invoices, so they
	// follow their parents; count them before the parents move.
	services, err := uc.serviceRepo.CountByVendor(ctx, source.ID)
	if err != nil {
		return nil, err
	}
	lineItems, err := uc.lineItemRepo.CountByVendor(ctx, source.ID)
	if err != nil {
		return nil, err
	}

	subscriptions, err := uc.subscriptionRepo.ReassignVendor(ctx, source.ID, target.ID)
	if err != nil {
		return nil, domainerror.NewMergeError(
			domainerror.ErrCodeMergeInternal, "reassigning subscriptions failed", err)
	}
	invoices, err := uc.invoiceRepo.ReassignVendor(ctx, source.ID, target.ID)
	if err != nil {
		return nil, domainerror.NewMergeError(
			domainerror.ErrCodeMergeInternal, "reassigning invoices failed", err)
	}

	renamed := false
	if input.NewName != "" && input.NewName != target.Name {
		target.Name = input.NewName
		target.UpdatedAt = time.Now().UTC()
		if err := uc.vendorRepo.Update(ctx, target); err != nil {
			return nil, domainerror.NewMergeError(
				domainerror.ErrCodeMergeInternal, "renaming target vendor failed", err)
		}
		renamed = true
	}

	if err := uc.vendorRepo.Delete(ctx, source.ID); err != nil {
		return nil, domainerror.NewMergeError(
			domainerror.ErrCodeMergeInternal, "deleting source vendor failed", err)
	}

	slog.Info("Vendor merged",
		"source", source.Name,
		"target", target.Name,
		"subscriptions", subscriptions,
		"invoices", invoices,
	)

	return &ExecuteMergeOutput{Result: entity.MergeResult{
		SourceID: source.ID,
		TargetID: target.ID,
		Moved: entity.MergeImpact{
			Subscriptions: int(subscriptions),
			Services:      int(services),
			Invoices:      int(invoices),
			LineItems:     int(lineItems),
		},
		Renamed: renamed,
	}}, nil
}

func (uc *ExecuteMergeUseCase) mergeService(ctx context.Context, input ExecuteMergeInput) (*ExecuteMergeOutput, error) {
	source, err := uc.serviceRepo.FindByID(ctx, input.SourceID)
	if err != nil {
		return nil, mergeEndpointError(err, domainerror.ErrServiceNotFound, true, input.SourceID)
	}
	target, err := uc.serviceRepo.FindByID(ctx, input.TargetID)
	if err != nil {
		return nil, mergeEndpointError(err, domainerror.ErrServiceNotFound, false, input.TargetID)
	}

	lineItems, err := uc.lineItemRepo.ReassignService(ctx, source.ID, target.ID)
	if err != nil {
		return nil, domainerror.NewMergeError(
			domainerror.ErrCodeMergeInternal, "reassigning line items failed", err)
	}

	renamed := false
	if input.NewName != "" && input.NewName != target.Name {
		target.Name = input.NewName
		target.UpdatedAt = time.Now().UTC()
		if err := uc.serviceRepo.Update(ctx, target); err != nil {
			return nil, domainerror.NewMergeError(
				domainerror.ErrCodeMergeInternal, "renaming target service failed", err)
		}
		renamed = true
	}

	if err := uc.serviceRepo.Delete(ctx, source.ID); err != nil {
		return nil, domainerror.NewMergeError(
			domainerror.ErrCodeMergeInternal, "deleting source service failed", err)
	}

	return &ExecuteMergeOutput{Result: entity.MergeResult{
		SourceID: source.ID,
		TargetID: target.ID,
		Moved:    entity.MergeImpact{LineItems: int(lineItems)},
		Renamed:  renamed,
	}}, nil
}

// mergeEndpointError maps a repository not-found error onto the side of the
// merge it occurred on.
func mergeEndpointError(err, notFound error, isSource bool, id uuid.UUID) error {
	if !errors.Is(err, notFound) {
		return err
	}
	if isSource {
		return domainerror.NewMergeError(
			domainerror.ErrCodeMergeSourceMissing,
			fmt.Sprintf("merge source %s not found", id),
			domainerror.ErrMergeSourceNotFound,
		)
	}
	return domainerror.NewMergeError(
		domainerror.ErrCodeMergeTargetMissing,
		fmt.Sprintf("merge target %s not found", id),
		domainerror.ErrMergeTargetNotFound,
	)
}

// Package merge contains the duplicate-record consolidation use cases.
package merge

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/doron007/subscription-dashboard-sub001/internal/application/adapter"
	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
	domainerror "github.com/doron007/subscription-dashboard-sub001/internal/domain/error"
)

// PreviewMergeInput represents the input for a merge impact preview.
type PreviewMergeInput struct {
	Entity   entity.MergeEntity
	SourceID uuid.UUID
}

// PreviewMergeOutput represents the dependent rows a merge would reassign.
type PreviewMergeOutput struct {
	Impact entity.MergeImpact
}

// PreviewMergeUseCase counts the rows hanging off a merge source without
// mutating anything, so a caller can confirm the blast radius first.
type PreviewMergeUseCase struct {
	vendorRepo       adapter.VendorRepository
	subscriptionRepo adapter.SubscriptionRepository
	serviceRepo      adapter.ServiceRepository
	invoiceRepo      adapter.InvoiceRepository
	lineItemRepo     adapter.LineItemRepository
}

// NewPreviewMergeUseCase creates a new PreviewMergeUseCase instance.
func NewPreviewMergeUseCase(
	vendorRepo adapter.VendorRepository,
	subscriptionRepo adapter.SubscriptionRepository,
	serviceRepo adapter.ServiceRepository,
	invoiceRepo adapter.InvoiceRepository,
	lineItemRepo adapter.LineItemRepository,
) *PreviewMergeUseCase {
	return &PreviewMergeUseCase{
		vendorRepo:       vendorRepo,
		subscriptionRepo: subscriptionRepo,
		serviceRepo:      serviceRepo,
		invoiceRepo:      invoiceRepo,
		lineItemRepo:     lineItemRepo,
	}
}

// Execute counts dependents for the given source record.
func (uc *PreviewMergeUseCase) Execute(ctx context.Context, input PreviewMergeInput) (*PreviewMergeOutput, error) {
	switch input.Entity {
	case entity.MergeEntityVendor:
		return uc.previewVendor(ctx, input.SourceID)
	case entity.MergeEntityService:
		return uc.previewService(ctx, input.SourceID)
	default:
		return nil, domainerror.NewMergeError(
			domainerror.ErrCodeUnsupportedEntity,
			fmt.Sprintf("entity %q does not support merging", input.Entity),
			domainerror.ErrUnsupportedMergeEntity,
		)
	}
}

func (uc *PreviewMergeUseCase) previewVendor(ctx context.Context, sourceID uuid.UUID) (*PreviewMergeOutput, error) {
	if _, err := uc.vendorRepo.FindByID(ctx, sourceID); err != nil {
		if errors.Is(err, domainerror.ErrVendorNotFound) {
			return nil, domainerror.NewMergeError(
				domainerror.ErrCodeMergeSourceMissing,
				fmt.Sprintf("vendor %s not found", sourceID),
				domainerror.ErrMergeSourceNotFound,
			)
		}
		return nil, err
	}

	impact, err := uc.vendorImpact(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	return &PreviewMergeOutput{Impact: *impact}, nil
}

func (uc *PreviewMergeUseCase) previewService(ctx context.Context, sourceID uuid.UUID) (*PreviewMergeOutput, error) {
	if _, err := uc.serviceRepo.FindByID(ctx, sourceID); err != nil {
		if errors.Is(err, domainerror.ErrServiceNotFound) {
			return nil, domainerror.NewMergeError(
				domainerror.ErrCodeMergeSourceMissing,
				fmt.Sprintf("service %s not found", sourceID),
				domainerror.ErrMergeSourceNotFound,
			)
		}
		return nil, err
	}

	lineItems, err := uc.lineItemRepo.CountByService(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	return &PreviewMergeOutput{Impact: entity.MergeImpact{LineItems: int(lineItems)}}, nil
}

// vendorImpact counts every dependent row of the vendor. The execute use case
// reports subscription and invoice counts from the reassign row counts
// instead, so a preview followed by an unchanged merge yields the same
// numbers.
func (uc *PreviewMergeUseCase) vendorImpact(ctx context.Context, vendorID uuid.UUID) (*entity.MergeImpact, error) {
	subscriptions, err := uc.subscriptionRepo.CountByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	services, err := uc.serviceRepo.CountByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	invoices, err := uc.invoiceRepo.CountByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	lineItems, err := uc.lineItemRepo.CountByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	return &entity.MergeImpact{
		Subscriptions: int(subscriptions),
		Services:      int(services),
		Invoices:      int(invoices),
		LineItems:     int(lineItems),
	}, nil
}

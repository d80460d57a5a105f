package billing

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/doron007/subscription-dashboard-sub001/internal/application/adapter"
	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
	domainerror "github.com/doron007/subscription-dashboard-sub001/internal/domain/error"
)

// persistCycleConfidence is the confidence above which an inferred cycle is
// written back to the vendor's default subscription.
const persistCycleConfidence = 0.8

// GetVendorCycleInput represents the input for the vendor cycle report.
type GetVendorCycleInput struct {
	VendorID uuid.UUID
	// Refresh bypasses the cache and re-derives the inference.
	Refresh bool
}

// GetVendorCycleOutput represents the output of the vendor cycle report.
type GetVendorCycleOutput struct {
	VendorID  uuid.UUID
	Inference entity.CycleInference
	FromCache bool
}

// GetVendorCycleUseCase infers a vendor's billing cadence from its invoice
// history, caching results for reporting.
type GetVendorCycleUseCase struct {
	vendorRepo       adapter.VendorRepository
	subscriptionRepo adapter.SubscriptionRepository
	invoiceRepo      adapter.InvoiceRepository
	cache            adapter.CycleCache
}

// NewGetVendorCycleUseCase creates a new GetVendorCycleUseCase instance.
func NewGetVendorCycleUseCase(
	vendorRepo adapter.VendorRepository,
	subscriptionRepo adapter.SubscriptionRepository,
	invoiceRepo adapter.InvoiceRepository,
	cache adapter.CycleCache,
) *GetVendorCycleUseCase {
	return &GetVendorCycleUseCase{
		vendorRepo:       vendorRepo,
		subscriptionRepo: subscriptionRepo,
		invoiceRepo:      invoiceRepo,
		cache:            cache,
	}
}

// Execute resolves the vendor's billing cycle inference, from cache when possible.
func (uc *GetVendorCycleUseCase) Execute(ctx context.Context, input GetVendorCycleInput) (*GetVendorCycleOutput, error) {
	if _, err := uc.vendorRepo.FindByID(ctx, input.VendorID); err != nil {
		return nil, err
	}

	if !input.Refresh && uc.cache != nil {
		cached, ok, err := uc.cache.Get(ctx, input.VendorID)
		if err != nil {
			slog.Warn("Cycle cache read failed", "vendorID", input.VendorID, "error", err)
		} else if ok {
			return &GetVendorCycleOutput{
				VendorID:  input.VendorID,
				Inference: *cached,
				FromCache: true,
			}, nil
		}
	}

	dates, err := uc.invoiceRepo.InvoiceDatesByVendor(ctx, input.VendorID)
	if err != nil {
		return nil, err
	}

	inference := InferBillingCycle(dates)

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, input.VendorID, &inference); err != nil {
			slog.Warn("Cycle cache write failed", "vendorID", input.VendorID, "error", err)
		}
	}

	// A confident inference updates the vendor's default agreement so the
	// ledger reflects the observed cadence.
	if inference.Confidence >= persistCycleConfidence {
		uc.persistCycle(ctx, input.VendorID, inference.Cycle)
	}

	return &GetVendorCycleOutput{
		VendorID:  input.VendorID,
		Inference: inference,
	}, nil
}

func (uc *GetVendorCycleUseCase) persistCycle(ctx context.Context, vendorID uuid.UUID, cycle entity.BillingCycle) {
	subscription, err := uc.subscriptionRepo.FindMostRecentByVendor(ctx, vendorID)
	if err != nil {
		// A vendor with no agreement yet is fine; anything else is worth a warning.
		if !errors.Is(err, domainerror.ErrSubscriptionNotFound) {
			slog.Warn("Could not load subscription for cycle update", "vendorID", vendorID, "error", err)
		}
		return
	}
	if subscription.BillingCycle == cycle {
		return
	}
	if err := uc.subscriptionRepo.UpdateBillingCycle(ctx, subscription.ID, cycle); err != nil {
		slog.Warn("Could not persist inferred billing cycle", "subscriptionID", subscription.ID, "error", err)
	}
}

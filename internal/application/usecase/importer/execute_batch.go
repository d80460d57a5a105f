package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/doron007/subscription-dashboard-sub001/internal/application/adapter"
	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
	domainerror "github.com/doron007/subscription-dashboard-sub001/internal/domain/error"
	"github.com/doron007/subscription-dashboard-sub001/internal/domain/normalization"
)

const defaultCurrency = "USD"

// ExecuteBatchInput represents the input for one batch execution. Rows always
// carries the full CSV; BatchIndex selects the window of invoices to write so
// that large imports can be driven batch by batch from the client.
type ExecuteBatchInput struct {
	Rows           []ImportRow
	BatchIndex     int
	BatchSize      int
	GlobalStrategy entity.MergeStrategy
	// Decisions overrides the global strategy per invoice, keyed by
	// ParsedInvoice.DecisionKey().
	Decisions map[string]entity.ImportDecision
}

// ExecuteBatchUseCase writes one batch of parsed invoices to the database.
// A failed invoice is isolated: its error is recorded and the rest of the
// batch proceeds. Re-running a batch with identical input is idempotent
// because (vendor, invoice number) is the write key.
type ExecuteBatchUseCase struct {
	vendorRepo       adapter.VendorRepository
	subscriptionRepo adapter.SubscriptionRepository
	serviceRepo      adapter.ServiceRepository
	invoiceRepo      adapter.InvoiceRepository
	lineItemRepo     adapter.LineItemRepository
	importRunRepo    adapter.ImportRunRepository
	notifier         adapter.ImportNotifier
	defaultBatchSize int
}

// NewExecuteBatchUseCase creates a new ExecuteBatchUseCase instance.
func NewExecuteBatchUseCase(
	vendorRepo adapter.VendorRepository,
	subscriptionRepo adapter.SubscriptionRepository,
	serviceRepo adapter.ServiceRepository,
	invoiceRepo adapter.InvoiceRepository,
	lineItemRepo adapter.LineItemRepository,
	importRunRepo adapter.ImportRunRepository,
	notifier adapter.ImportNotifier,
	defaultBatchSize int,
) *ExecuteBatchUseCase {
	return &ExecuteBatchUseCase{
		vendorRepo:       vendorRepo,
		subscriptionRepo: subscriptionRepo,
		serviceRepo:      serviceRepo,
		invoiceRepo:      invoiceRepo,
		lineItemRepo:     lineItemRepo,
		importRunRepo:    importRunRepo,
		notifier:         notifier,
		defaultBatchSize: defaultBatchSize,
	}
}

// pendingLine is a line item awaiting its service ID from the batched upsert.
type pendingLine struct {
	item       *entity.InvoiceLineItem
	serviceKey adapter.ServiceKey
}

// Execute runs the batch in phases: vendor resolution, subscription
// resolution, per-invoice writes, one batched service upsert, one bulk line
// insert. Phase three isolates per-invoice failures; the two batched phases
// are terminal because a partial write there would leave lines orphaned.
func (uc *ExecuteBatchUseCase) Execute(ctx context.Context, input ExecuteBatchInput) (*entity.ImportExecutionResult, error) {
	strategy := input.GlobalStrategy
	if strategy == "" {
		strategy = entity.MergeStrategyCSVWins
	}
	switch strategy {
	case entity.MergeStrategyCSVWins, entity.MergeStrategyKeepExisting, entity.MergeStrategySkip:
	default:
		return nil, domainerror.NewImportError(
			domainerror.ErrCodeInvalidStrategy,
			fmt.Sprintf("unknown merge strategy %q", strategy),
			domainerror.ErrInvalidMergeStrategy,
		)
	}

	parsed, err := ParseRows(input.Rows)
	if err != nil {
		return nil, err
	}

	batchSize := input.BatchSize
	if batchSize <= 0 {
		batchSize = uc.defaultBatchSize
	}
	totalBatches := (len(parsed) + batchSize - 1) / batchSize
	start := input.BatchIndex * batchSize
	if input.BatchIndex < 0 || start >= len(parsed) {
		return nil, domainerror.NewImportError(
			domainerror.ErrCodeInvalidBatchWindow,
			fmt.Sprintf("batch %d of %d is out of range", input.BatchIndex, totalBatches),
			domainerror.ErrInvalidBatchWindow,
		)
	}
	end := start + batchSize
	if end > len(parsed) {
		end = len(parsed)
	}
	batch := parsed[start:end]

	result := &entity.ImportExecutionResult{
		BatchIndex:   input.BatchIndex,
		TotalBatches: totalBatches,
	}

	vendors, err := uc.resolveVendors(ctx, batch, &result.Counts)
	if err != nil {
		return nil, err
	}
	subscriptions, err := uc.resolveSubscriptions(ctx, vendors, &result.Counts)
	if err != nil {
		return nil, err
	}

	serviceTotals := make(map[adapter.ServiceKey]decimal.Decimal)
	var pending []pendingLine

	for i := range batch {
		invoice := &batch[i]
		decision := input.Decisions[invoice.DecisionKey()]

		lines, err := uc.processInvoice(ctx, invoice, decision, strategy, vendors, subscriptions, &result.Counts)
		if err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s %s: %v", invoice.VendorName, invoice.InvoiceNumber, err))
			slog.Error("Invoice import failed",
				"vendor", invoice.VendorName,
				"invoice", invoice.InvoiceNumber,
				"error", err,
			)
			continue
		}
		for _, line := range lines {
			serviceTotals[line.serviceKey] = serviceTotals[line.serviceKey].Add(line.item.TotalAmount)
			pending = append(pending, line)
		}
	}

	upserts := make([]adapter.ServiceUpsert, 0, len(serviceTotals))
	for key, total := range serviceTotals {
		upserts = append(upserts, adapter.ServiceUpsert{
			SubscriptionID: key.SubscriptionID,
			Name:           key.Name,
			Total:          total,
			Currency:       defaultCurrency,
		})
	}
	serviceIDs, err := uc.serviceRepo.BatchUpsert(ctx, upserts)
	if err != nil {
		return nil, domainerror.NewImportError(
			domainerror.ErrCodeImportInternal,
			"batched service upsert failed",
			err,
		)
	}
	result.Counts.ServicesUpserted = len(upserts)

	items := make([]*entity.InvoiceLineItem, 0, len(pending))
	for _, line := range pending {
		if id, ok := serviceIDs[line.serviceKey]; ok {
			serviceID := id
			line.item.ServiceID = &serviceID
		}
		items = append(items, line.item)
	}
	if err := uc.lineItemRepo.BulkCreate(ctx, items); err != nil {
		return nil, domainerror.NewImportError(
			domainerror.ErrCodeImportInternal,
			"bulk line item insert failed",
			err,
		)
	}
	result.Counts.LineItemsCreated = len(items)
	result.Success = len(result.Errors) == 0

	uc.recordRun(ctx, result, strategy)
	if input.BatchIndex == totalBatches-1 {
		uc.notify(ctx, result)
	}

	return result, nil
}

// resolveVendors looks up every distinct vendor name in the batch and lazily
// creates the missing ones.
func (uc *ExecuteBatchUseCase) resolveVendors(
	ctx context.Context,
	batch []entity.ParsedInvoice,
	counts *entity.ImportCounts,
) (map[string]*entity.Vendor, error) {
	var names []string
	seen := make(map[string]bool)
	for i := range batch {
		key := strings.ToLower(batch[i].VendorName)
		if !seen[key] {
			seen[key] = true
			names = append(names, batch[i].VendorName)
		}
	}

	existing, err := uc.vendorRepo.FindByNames(ctx, names)
	if err != nil {
		return nil, domainerror.NewImportError(
			domainerror.ErrCodeImportInternal, "vendor lookup failed", err)
	}

	vendors := make(map[string]*entity.Vendor, len(names))
	for _, vendor := range existing {
		vendors[strings.ToLower(vendor.Name)] = vendor
	}
	for _, name := range names {
		key := strings.ToLower(name)
		if _, ok := vendors[key]; ok {
			continue
		}
		vendor := entity.NewVendor(name)
		if err := uc.vendorRepo.Create(ctx, vendor); err != nil {
			return nil, domainerror.NewImportError(
				domainerror.ErrCodeImportInternal,
				fmt.Sprintf("creating vendor %q failed", name),
				err,
			)
		}
		vendors[key] = vendor
		counts.VendorsCreated++
	}

	return vendors, nil
}

// resolveSubscriptions attaches every vendor to its most recent subscription,
// creating a master agreement for vendors that have none.
func (uc *ExecuteBatchUseCase) resolveSubscriptions(
	ctx context.Context,
	vendors map[string]*entity.Vendor,
	counts *entity.ImportCounts,
) (map[uuid.UUID]*entity.Subscription, error) {
	ids := make([]uuid.UUID, 0, len(vendors))
	for _, vendor := range vendors {
		ids = append(ids, vendor.ID)
	}

	subscriptions, err := uc.subscriptionRepo.FindMostRecentByVendors(ctx, ids)
	if err != nil {
		return nil, domainerror.NewImportError(
			domainerror.ErrCodeImportInternal, "subscription lookup failed", err)
	}
	if subscriptions == nil {
		subscriptions = make(map[uuid.UUID]*entity.Subscription)
	}

	for _, vendor := range vendors {
		if _, ok := subscriptions[vendor.ID]; ok {
			continue
		}
		subscription := entity.NewMasterAgreement(vendor)
		if err := uc.subscriptionRepo.Create(ctx, subscription); err != nil {
			return nil, domainerror.NewImportError(
				domainerror.ErrCodeImportInternal,
				fmt.Sprintf("creating master agreement for %q failed", vendor.Name),
				err,
			)
		}
		subscriptions[vendor.ID] = subscription
		counts.SubscriptionsCreated++
	}

	return subscriptions, nil
}

// processInvoice writes one invoice header and returns its pending lines.
// Returns nil lines with nil error when the invoice was skipped.
func (uc *ExecuteBatchUseCase) processInvoice(
	ctx context.Context,
	parsed *entity.ParsedInvoice,
	decision entity.ImportDecision,
	globalStrategy entity.MergeStrategy,
	vendors map[string]*entity.Vendor,
	subscriptions map[uuid.UUID]*entity.Subscription,
	counts *entity.ImportCounts,
) ([]pendingLine, error) {
	if decision.Skip {
		counts.InvoicesSkipped++
		return nil, nil
	}
	if parsed.Voided && !decision.ImportVoided {
		counts.InvoicesSkipped++
		return nil, nil
	}

	vendor := vendors[strings.ToLower(parsed.VendorName)]
	if vendor == nil {
		return nil, domainerror.ErrVendorNotFound
	}
	subscription := subscriptions[vendor.ID]
	if subscription == nil {
		return nil, domainerror.ErrSubscriptionNotFound
	}

	strategy := globalStrategy
	if decision.Strategy != "" {
		strategy = decision.Strategy
	}

	existing, err := uc.invoiceRepo.FindByVendorAndNumber(ctx, vendor.ID, parsed.InvoiceNumber)
	if err != nil && !errors.Is(err, domainerror.ErrInvoiceNotFound) {
		return nil, err
	}

	status := entity.InvoiceStatusPending
	if parsed.Paid {
		status = entity.InvoiceStatusPaid
	}

	var invoiceID uuid.UUID
	now := time.Now().UTC()

	switch {
	case existing == nil:
		invoice := &entity.Invoice{
			ID:             uuid.New(),
			VendorID:       vendor.ID,
			SubscriptionID: subscription.ID,
			InvoiceNumber:  parsed.InvoiceNumber,
			InvoiceDate:    parsed.InvoiceDate,
			TotalAmount:    parsed.TotalAmount,
			Currency:       defaultCurrency,
			Status:         status,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := uc.invoiceRepo.Create(ctx, invoice); err != nil {
			return nil, err
		}
		invoiceID = invoice.ID
		counts.InvoicesCreated++

	case strategy == entity.MergeStrategyCSVWins:
		existing.InvoiceDate = parsed.InvoiceDate
		existing.TotalAmount = parsed.TotalAmount
		existing.Status = status
		existing.UpdatedAt = now
		if err := uc.invoiceRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		// Full replace: lines are owned by the invoice, never patched.
		if _, err := uc.lineItemRepo.DeleteByInvoice(ctx, existing.ID); err != nil {
			return nil, err
		}
		invoiceID = existing.ID
		counts.InvoicesUpdated++

	default:
		// keep_existing and skip both leave the persisted invoice untouched.
		counts.InvoicesSkipped++
		return nil, nil
	}

	var lines []pendingLine
	for i := range parsed.LineItems {
		line := &parsed.LineItems[i]
		if decision.SkipLines[line.LineKey()] {
			continue
		}
		lines = append(lines, pendingLine{
			item: &entity.InvoiceLineItem{
				ID:          uuid.New(),
				InvoiceID:   invoiceID,
				Description: line.Description,
				Quantity:    line.Quantity,
				UnitPrice:   line.UnitPrice,
				TotalAmount: line.TotalPrice,
				PeriodStart: line.PeriodStart,
				PeriodEnd:   line.PeriodEnd,
				CreatedAt:   now,
				UpdatedAt:   now,
			},
			serviceKey: adapter.ServiceKey{
				SubscriptionID: subscription.ID,
				Name:           normalization.ServiceNameOrFallback(line.Description),
			},
		})
	}

	return lines, nil
}

// recordRun persists the audit record. Audit failures are logged, not fatal:
// the import itself already succeeded or failed on its own terms.
func (uc *ExecuteBatchUseCase) recordRun(ctx context.Context, result *entity.ImportExecutionResult, strategy entity.MergeStrategy) {
	run := &entity.ImportRun{
		ID:           uuid.New(),
		BatchIndex:   result.BatchIndex,
		TotalBatches: result.TotalBatches,
		Strategy:     strategy,
		Counts:       result.Counts,
		Errors:       result.Errors,
		Success:      result.Success,
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.importRunRepo.Create(ctx, run); err != nil {
		slog.Error("Failed to persist import run", "error", err)
	}
}

func (uc *ExecuteBatchUseCase) notify(ctx context.Context, result *entity.ImportExecutionResult) {
	if uc.notifier == nil || !uc.notifier.IsConfigured() {
		return
	}
	if err := uc.notifier.NotifyImportCompleted(ctx, result); err != nil {
		slog.Error("Failed to send import notification", "error", err)
	}
}

package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
	domainerror "github.com/doron007/subscription-dashboard-sub001/internal/domain/error"
)

func sampleRows() []ImportRow {
	return []ImportRow{
		row("Acme", "A-1", "2025-08-15", "2025-08", "Compute - 8/1/2025-8/31/2025", "100.00", "yes"),
		row("Acme", "A-1", "2025-08-15", "2025-08", "Storage", "50.00", "yes"),
		row("Beta", "B-1", "2025-08-20", "2025-08", "Licenses", "300.00", ""),
	}
}

func TestExecuteBatch(t *testing.T) {
	t.Run("first import creates the whole graph", func(t *testing.T) {
		store := newMemStore()
		uc := newExecuteUseCase(store, &fakeNotifier{})

		result, err := uc.Execute(context.Background(), ExecuteBatchInput{
			Rows:           sampleRows(),
			GlobalStrategy: entity.MergeStrategyCSVWins,
		})
		if err != nil {
			t.Fatalf("Execute returned error: %v", err)
		}
		if !result.Success {
			t.Fatalf("success = false, errors = %v", result.Errors)
		}
		counts := result.Counts
		if counts.VendorsCreated != 2 {
			t.Errorf("vendors created = %d, want 2", counts.VendorsCreated)
		}
		if counts.SubscriptionsCreated != 2 {
			t.Errorf("subscriptions created = %d, want 2", counts.SubscriptionsCreated)
		}
		if counts.InvoicesCreated != 2 || counts.InvoicesUpdated != 0 {
			t.Errorf("invoices created/updated = %d/%d, want 2/0", counts.InvoicesCreated, counts.InvoicesUpdated)
		}
		if counts.LineItemsCreated != 3 {
			t.Errorf("line items created = %d, want 3", counts.LineItemsCreated)
		}
		if counts.ServicesUpserted != 3 {
			t.Errorf("services upserted = %d, want 3", counts.ServicesUpserted)
		}
		if store.invoiceCount() != 2 {
			t.Errorf("stored invoices = %d, want 2", store.invoiceCount())
		}
	})

	t.Run("re-importing identical rows is idempotent", func(t *testing.T) {
		store := newMemStore()
		uc := newExecuteUseCase(store, &fakeNotifier{})
		input := ExecuteBatchInput{
			Rows:           sampleRows(),
			GlobalStrategy: entity.MergeStrategyCSVWins,
		}

		if _, err := uc.Execute(context.Background(), input); err != nil {
			t.Fatalf("first Execute returned error: %v", err)
		}
		result, err := uc.Execute(context.Background(), input)
		if err != nil {
			t.Fatalf("second Execute returned error: %v", err)
		}

		if result.Counts.InvoicesCreated != 0 || result.Counts.InvoicesUpdated != 2 {
			t.Errorf("second run created/updated = %d/%d, want 0/2",
				result.Counts.InvoicesCreated, result.Counts.InvoicesUpdated)
		}
		if result.Counts.VendorsCreated != 0 || result.Counts.SubscriptionsCreated != 0 {
			t.Errorf("second run vendors/subscriptions created = %d/%d, want 0/0",
				result.Counts.VendorsCreated, result.Counts.SubscriptionsCreated)
		}
		if store.invoiceCount() != 2 {
			t.Errorf("stored invoices after re-import = %d, want 2", store.invoiceCount())
		}
		if store.lineItemCount() != 3 {
			t.Errorf("stored line items after re-import = %d, want 3 (full replace, no duplicates)",
				store.lineItemCount())
		}
	})

	t.Run("keep_existing leaves persisted invoices untouched", func(t *testing.T) {
		store := newMemStore()
		uc := newExecuteUseCase(store, &fakeNotifier{})

		if _, err := uc.Execute(context.Background(), ExecuteBatchInput{
			Rows:           sampleRows(),
			GlobalStrategy: entity.MergeStrategyCSVWins,
		}); err != nil {
			t.Fatalf("seed Execute returned error: %v", err)
		}

		changed := sampleRows()
		changed[0].TotalPrice = "999.00"
		result, err := uc.Execute(context.Background(), ExecuteBatchInput{
			Rows:           changed,
			GlobalStrategy: entity.MergeStrategyKeepExisting,
		})
		if err != nil {
			t.Fatalf("Execute returned error: %v", err)
		}
		if result.Counts.InvoicesUpdated != 0 || result.Counts.InvoicesSkipped != 2 {
			t.Errorf("updated/skipped = %d/%d, want 0/2",
				result.Counts.InvoicesUpdated, result.Counts.InvoicesSkipped)
		}
		for _, invoice := range store.invoices {
			if invoice.InvoiceNumber == "A-1" && !invoice.TotalAmount.Equal(dec("150.00")) {
				t.Errorf("A-1 total = %s, want untouched 150.00", invoice.TotalAmount)
			}
		}
	})

	t.Run("per-invoice decision skips one invoice", func(t *testing.T) {
		store := newMemStore()
		uc := newExecuteUseCase(store, &fakeNotifier{})

		result, err := uc.Execute(context.Background(), ExecuteBatchInput{
			Rows:           sampleRows(),
			GlobalStrategy: entity.MergeStrategyCSVWins,
			Decisions: map[string]entity.ImportDecision{
				"Beta|B-1": {Skip: true},
			},
		})
		if err != nil {
			t.Fatalf("Execute returned error: %v", err)
		}
		if result.Counts.InvoicesCreated != 1 || result.Counts.InvoicesSkipped != 1 {
			t.Errorf("created/skipped = %d/%d, want 1/1",
				result.Counts.InvoicesCreated, result.Counts.InvoicesSkipped)
		}
	})

	t.Run("voided invoices are skipped unless explicitly imported", func(t *testing.T) {
		rows := []ImportRow{
			row("Acme", "A-9", "2025-08-15", "2025-08", "Compute", "100.00", "void"),
		}

		store := newMemStore()
		uc := newExecuteUseCase(store, &fakeNotifier{})
		result, err := uc.Execute(context.Background(), ExecuteBatchInput{Rows: rows})
		if err != nil {
			t.Fatalf("Execute returned error: %v", err)
		}
		if result.Counts.InvoicesSkipped != 1 || store.invoiceCount() != 0 {
			t.Errorf("voided invoice was imported without a decision")
		}

		store = newMemStore()
		uc = newExecuteUseCase(store, &fakeNotifier{})
		result, err = uc.Execute(context.Background(), ExecuteBatchInput{
			Rows: rows,
			Decisions: map[string]entity.ImportDecision{
				"Acme|A-9": {ImportVoided: true},
			},
		})
		if err != nil {
			t.Fatalf("Execute returned error: %v", err)
		}
		if result.Counts.InvoicesCreated != 1 {
			t.Fatalf("created = %d, want 1", result.Counts.InvoicesCreated)
		}
		for _, invoice := range store.invoices {
			if invoice.Status != entity.InvoiceStatusPending {
				t.Errorf("imported voided invoice status = %s, want pending", invoice.Status)
			}
		}
	})

	t.Run("per-line decision excludes a line", func(t *testing.T) {
		store := newMemStore()
		uc := newExecuteUseCase(store, &fakeNotifier{})

		result, err := uc.Execute(context.Background(), ExecuteBatchInput{
			Rows: sampleRows(),
			Decisions: map[string]entity.ImportDecision{
				"Acme|A-1": {SkipLines: map[string]bool{"Storage|2025-08": true}},
			},
		})
		if err != nil {
			t.Fatalf("Execute returned error: %v", err)
		}
		if result.Counts.LineItemsCreated != 2 {
			t.Errorf("line items created = %d, want 2 (Storage skipped)", result.Counts.LineItemsCreated)
		}
	})

	t.Run("failed invoice is isolated from the rest of the batch", func(t *testing.T) {
		store := newMemStore()
		store.failInvoiceCreateFor = "Acme"
		uc := newExecuteUseCase(store, &fakeNotifier{})

		result, err := uc.Execute(context.Background(), ExecuteBatchInput{Rows: sampleRows()})
		if err != nil {
			t.Fatalf("Execute returned error: %v", err)
		}
		if result.Success {
			t.Error("success = true, want false with a failed invoice")
		}
		if len(result.Errors) != 1 {
			t.Fatalf("errors = %v, want exactly one", result.Errors)
		}
		if result.Counts.InvoicesCreated != 1 {
			t.Errorf("created = %d, want 1 (Beta proceeds)", result.Counts.InvoicesCreated)
		}
	})

	t.Run("batching windows the invoice list", func(t *testing.T) {
		store := newMemStore()
		notifier := &fakeNotifier{configured: true}
		uc := newExecuteUseCase(store, notifier)

		first, err := uc.Execute(context.Background(), ExecuteBatchInput{
			Rows:      sampleRows(),
			BatchSize: 1,
		})
		if err != nil {
			t.Fatalf("batch 0 returned error: %v", err)
		}
		if first.TotalBatches != 2 || first.Counts.InvoicesCreated != 1 {
			t.Errorf("batch 0 = %d batches / %d created, want 2 / 1",
				first.TotalBatches, first.Counts.InvoicesCreated)
		}
		if len(notifier.notified) != 0 {
			t.Error("notification sent before the final batch")
		}

		second, err := uc.Execute(context.Background(), ExecuteBatchInput{
			Rows:       sampleRows(),
			BatchIndex: 1,
			BatchSize:  1,
		})
		if err != nil {
			t.Fatalf("batch 1 returned error: %v", err)
		}
		if second.Counts.InvoicesCreated != 1 {
			t.Errorf("batch 1 created = %d, want 1", second.Counts.InvoicesCreated)
		}
		if len(notifier.notified) != 1 {
			t.Errorf("notifications = %d, want 1 after the final batch", len(notifier.notified))
		}
		if store.invoiceCount() != 2 {
			t.Errorf("stored invoices = %d, want 2", store.invoiceCount())
		}
	})

	t.Run("out of range batch index is rejected", func(t *testing.T) {
		uc := newExecuteUseCase(newMemStore(), &fakeNotifier{})
		_, err := uc.Execute(context.Background(), ExecuteBatchInput{
			Rows:       sampleRows(),
			BatchIndex: 7,
		})
		assertImportCode(t, err, domainerror.ErrCodeInvalidBatchWindow)
	})

	t.Run("unknown strategy is rejected", func(t *testing.T) {
		uc := newExecuteUseCase(newMemStore(), &fakeNotifier{})
		_, err := uc.Execute(context.Background(), ExecuteBatchInput{
			Rows:           sampleRows(),
			GlobalStrategy: "overwrite_everything",
		})
		assertImportCode(t, err, domainerror.ErrCodeInvalidStrategy)
	})

	t.Run("every run records an audit row", func(t *testing.T) {
		store := newMemStore()
		uc := newExecuteUseCase(store, &fakeNotifier{})

		if _, err := uc.Execute(context.Background(), ExecuteBatchInput{Rows: sampleRows()}); err != nil {
			t.Fatalf("Execute returned error: %v", err)
		}
		if len(store.importRuns) != 1 {
			t.Fatalf("import runs = %d, want 1", len(store.importRuns))
		}
		run := store.importRuns[0]
		if !run.Success || run.Counts.InvoicesCreated != 2 {
			t.Errorf("audit run = %+v, want successful with 2 invoices created", run)
		}
	})
}

func TestExecuteBatch_ServiceAggregation(t *testing.T) {
	// Two lines canonicalize to the same service name; the upsert must carry
	// their combined total.
	store := newMemStore()
	uc := newExecuteUseCase(store, &fakeNotifier{})

	_, err := uc.Execute(context.Background(), ExecuteBatchInput{Rows: []ImportRow{
		row("Acme", "A-1", "2025-08-15", "2025-08", "Compute - 8/1/2025-8/31/2025", "100.00", ""),
		row("Acme", "A-1", "2025-08-15", "2025-09", "Compute - 9/1/2025-9/30/2025", "150.00", ""),
	}})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	if len(store.services) != 1 {
		t.Fatalf("services = %d, want 1 canonical service", len(store.services))
	}
	for key, service := range store.services {
		if key.Name != "Compute" {
			t.Errorf("service name = %q, want Compute", key.Name)
		}
		if !service.CurrentUnitPrice.Equal(dec("250.00")) {
			t.Errorf("aggregated total = %s, want 250.00", service.CurrentUnitPrice)
		}
		if service.CurrentQuantity != 1 {
			t.Errorf("quantity = %d, want 1", service.CurrentQuantity)
		}
	}

	for _, item := range store.lineItems {
		if item.ServiceID == nil {
			t.Errorf("line %q has no service attached", item.Description)
		}
	}
}

func TestExecuteBatch_ServiceNameFallback(t *testing.T) {
	// A description that canonicalizes to nothing must still land on a named
	// service, using the same fallback the analysis pipeline applies.
	store := newMemStore()
	uc := newExecuteUseCase(store, &fakeNotifier{})

	_, err := uc.Execute(context.Background(), ExecuteBatchInput{Rows: []ImportRow{
		row("Acme", "A-1", "2025-08-15", "2025-08", "2025-08-01 - 2025-08-31", "100.00", ""),
	}})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	if len(store.services) != 1 {
		t.Fatalf("services = %d, want 1", len(store.services))
	}
	for key := range store.services {
		if key.Name == "" {
			t.Error("service upserted under an empty name")
		}
		if key.Name != "2025-08-01 - 2025-08-31" {
			t.Errorf("service name = %q, want the raw description fallback", key.Name)
		}
	}
}

func assertImportCode(t *testing.T, err error, code domainerror.ImportErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	var impErr *domainerror.ImportError
	if !errors.As(err, &impErr) {
		t.Fatalf("error type = %T, want *ImportError", err)
	}
	if impErr.Code != code {
		t.Errorf("code = %s, want %s", impErr.Code, code)
	}
}

package importer

import (
	"context"
	"strings"
	"time"

	"github.com/doron007/subscription-dashboard-sub001/internal/application/adapter"
	"github.com/doron007/subscription-dashboard-sub001/internal/application/usecase/billing"
	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
)

// ReconcileInput represents the input for a reconciliation preview.
type ReconcileInput struct {
	Rows []ImportRow
}

// ReconcileOutput represents the diff tree produced by a preview. Totals
// aggregates the invoice-level classifications across the whole batch.
type ReconcileOutput struct {
	Invoices []entity.InvoiceDiff
	Totals   entity.DiffStats
}

// ReconcileUseCase diffs parsed CSV rows against persisted invoices without
// writing anything. The result drives the caller's per-invoice decisions for
// a subsequent execute call.
type ReconcileUseCase struct {
	invoiceRepo  adapter.InvoiceRepository
	lineItemRepo adapter.LineItemRepository
}

// NewReconcileUseCase creates a new ReconcileUseCase instance.
func NewReconcileUseCase(
	invoiceRepo adapter.InvoiceRepository,
	lineItemRepo adapter.LineItemRepository,
) *ReconcileUseCase {
	return &ReconcileUseCase{
		invoiceRepo:  invoiceRepo,
		lineItemRepo: lineItemRepo,
	}
}

// Execute parses the rows and classifies every invoice and line against the
// database. Voided CSV invoices classify as voided even when a persisted
// counterpart exists; everything else is new, changed or unchanged, with
// persisted lines absent from the CSV reported as removed.
func (uc *ReconcileUseCase) Execute(ctx context.Context, input ReconcileInput) (*ReconcileOutput, error) {
	parsed, err := ParseRows(input.Rows)
	if err != nil {
		return nil, err
	}

	// One lookup per distinct vendor name, shared across its invoices.
	existingByVendor := make(map[string]map[string]*entity.Invoice)

	output := &ReconcileOutput{}
	for i := range parsed {
		invoice := &parsed[i]

		vendorKey := strings.ToLower(invoice.VendorName)
		byNumber, ok := existingByVendor[vendorKey]
		if !ok {
			existing, err := uc.invoiceRepo.FindByVendorName(ctx, invoice.VendorName)
			if err != nil {
				return nil, err
			}
			byNumber = make(map[string]*entity.Invoice, len(existing))
			for _, e := range existing {
				byNumber[e.InvoiceNumber] = e
			}
			existingByVendor[vendorKey] = byNumber
		}

		diff, err := uc.diffInvoice(ctx, invoice, byNumber[invoice.InvoiceNumber])
		if err != nil {
			return nil, err
		}
		output.Invoices = append(output.Invoices, *diff)

		switch diff.Type {
		case entity.DiffTypeNew:
			output.Totals.New++
		case entity.DiffTypeChanged:
			output.Totals.Changed++
		case entity.DiffTypeUnchanged:
			output.Totals.Unchanged++
		case entity.DiffTypeVoided:
			output.Totals.Voided++
		case entity.DiffTypeRemoved:
			output.Totals.Removed++
		}
	}

	return output, nil
}

func (uc *ReconcileUseCase) diffInvoice(
	ctx context.Context,
	parsed *entity.ParsedInvoice,
	existing *entity.Invoice,
) (*entity.InvoiceDiff, error) {
	diff := &entity.InvoiceDiff{
		VendorName:    parsed.VendorName,
		InvoiceNumber: parsed.InvoiceNumber,
		Parsed:        parsed,
		Existing:      existing,
	}

	if parsed.Voided {
		diff.Type = entity.DiffTypeVoided
		for i := range parsed.LineItems {
			line := &parsed.LineItems[i]
			diff.Lines = append(diff.Lines, entity.LineItemDiff{
				Type:        entity.DiffTypeVoided,
				Description: line.Description,
				Parsed:      line,
			})
			diff.Stats.Voided++
		}
		return diff, nil
	}

	if existing == nil {
		diff.Type = entity.DiffTypeNew
		for i := range parsed.LineItems {
			line := &parsed.LineItems[i]
			diff.Lines = append(diff.Lines, entity.LineItemDiff{
				Type:        entity.DiffTypeNew,
				Description: line.Description,
				Parsed:      line,
			})
			diff.Stats.New++
		}
		return diff, nil
	}

	existingLines, err := uc.lineItemRepo.FindByInvoice(ctx, existing.ID)
	if err != nil {
		return nil, err
	}

	// Existing lines keyed the same way parsed lines are, with the service
	// month resolved from the persisted override/period/description chain.
	existingByKey := make(map[string]*entity.InvoiceLineItem, len(existingLines))
	for _, line := range existingLines {
		existingByKey[existingLineKey(line, existing)] = line
	}

	matched := make(map[string]bool, len(parsed.LineItems))
	for i := range parsed.LineItems {
		line := &parsed.LineItems[i]
		key := line.LineKey()
		matched[key] = true

		counterpart, ok := existingByKey[key]
		if !ok {
			diff.Lines = append(diff.Lines, entity.LineItemDiff{
				Type:        entity.DiffTypeNew,
				Description: line.Description,
				Parsed:      line,
			})
			diff.Stats.New++
			continue
		}

		if lineEqual(line, counterpart) {
			diff.Lines = append(diff.Lines, entity.LineItemDiff{
				Type:        entity.DiffTypeUnchanged,
				Description: line.Description,
				Parsed:      line,
				Existing:    counterpart,
			})
			diff.Stats.Unchanged++
		} else {
			diff.Lines = append(diff.Lines, entity.LineItemDiff{
				Type:        entity.DiffTypeChanged,
				Description: line.Description,
				Parsed:      line,
				Existing:    counterpart,
			})
			diff.Stats.Changed++
		}
	}

	for _, line := range existingLines {
		key := existingLineKey(line, existing)
		if matched[key] {
			continue
		}
		diff.Lines = append(diff.Lines, entity.LineItemDiff{
			Type:        entity.DiffTypeRemoved,
			Description: line.Description,
			Existing:    line,
		})
		diff.Stats.Removed++
	}

	headerChanged := !parsed.TotalAmount.Equal(existing.TotalAmount) ||
		!parsed.InvoiceDate.Equal(existing.InvoiceDate)
	if headerChanged || diff.Stats.New > 0 || diff.Stats.Changed > 0 || diff.Stats.Removed > 0 {
		diff.Type = entity.DiffTypeChanged
	} else {
		diff.Type = entity.DiffTypeUnchanged
	}

	return diff, nil
}

// existingLineKey mirrors ParsedLineItem.LineKey for persisted lines, using
// the resolved billing month as the service month.
func existingLineKey(line *entity.InvoiceLineItem, invoice *entity.Invoice) string {
	invoiceDate := invoice.InvoiceDate
	month := billing.ResolveBillingMonth(
		line.BillingMonthOverride,
		line.PeriodStart,
		line.Description,
		&invoiceDate,
	)
	return line.Description + "|" + month.Format("2006-01")
}

func lineEqual(parsed *entity.ParsedLineItem, existing *entity.InvoiceLineItem) bool {
	if !parsed.Quantity.Equal(existing.Quantity) {
		return false
	}
	if !parsed.UnitPrice.Equal(existing.UnitPrice) {
		return false
	}
	if !parsed.TotalPrice.Equal(existing.TotalAmount) {
		return false
	}
	return timePtrEqual(parsed.PeriodStart, existing.PeriodStart) &&
		timePtrEqual(parsed.PeriodEnd, existing.PeriodEnd)
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

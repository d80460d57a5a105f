// Package period contains the billing month override use cases.
package period

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/doron007/subscription-dashboard-sub001/internal/application/adapter"
	"github.com/doron007/subscription-dashboard-sub001/internal/application/usecase/billing"
	domainerror "github.com/doron007/subscription-dashboard-sub001/internal/domain/error"
)

// Granularity selects what a move operation applies to.
type Granularity string

const (
	// GranularityInvoice moves every line of one invoice.
	GranularityInvoice Granularity = "invoice"
	// GranularityServicePattern moves lines matching a description pattern
	// whose resolved billing month equals the source month.
	GranularityServicePattern Granularity = "service_pattern"
	// GranularityLine moves a single line item.
	GranularityLine Granularity = "line"
)

// MovePeriodInput represents the input for a move. TargetMonth is YYYY-MM;
// empty clears the override so the computed billing month applies again.
type MovePeriodInput struct {
	Granularity Granularity
	InvoiceID   uuid.UUID
	LineItemID  uuid.UUID
	Pattern     string
	SourceMonth string
	TargetMonth string
}

// MovePeriodOutput reports how many line items had their override touched.
type MovePeriodOutput struct {
	LinesMoved int
}

// MovePeriodUseCase sets or clears billingMonthOverride at three
// granularities. The override always wins over any computed billing month.
type MovePeriodUseCase struct {
	invoiceRepo  adapter.InvoiceRepository
	lineItemRepo adapter.LineItemRepository
}

// NewMovePeriodUseCase creates a new MovePeriodUseCase instance.
func NewMovePeriodUseCase(
	invoiceRepo adapter.InvoiceRepository,
	lineItemRepo adapter.LineItemRepository,
) *MovePeriodUseCase {
	return &MovePeriodUseCase{
		invoiceRepo:  invoiceRepo,
		lineItemRepo: lineItemRepo,
	}
}

// Execute performs the move.
func (uc *MovePeriodUseCase) Execute(ctx context.Context, input MovePeriodInput) (*MovePeriodOutput, error) {
	target, err := parseTargetMonth(input.TargetMonth)
	if err != nil {
		return nil, err
	}

	switch input.Granularity {
	case GranularityInvoice:
		return uc.moveInvoice(ctx, input.InvoiceID, target)
	case GranularityServicePattern:
		return uc.movePattern(ctx, input.Pattern, input.SourceMonth, target)
	case GranularityLine:
		return uc.moveLine(ctx, input.LineItemID, target)
	default:
		return nil, domainerror.NewImportError(
			domainerror.ErrCodeInvalidTargetMonth,
			fmt.Sprintf("unknown granularity %q", input.Granularity),
			domainerror.ErrInvalidTargetMonth,
		)
	}
}

func (uc *MovePeriodUseCase) moveInvoice(ctx context.Context, invoiceID uuid.UUID, target *time.Time) (*MovePeriodOutput, error) {
	if _, err := uc.invoiceRepo.FindByID(ctx, invoiceID); err != nil {
		return nil, err
	}
	moved, err := uc.lineItemRepo.SetOverrideByInvoice(ctx, invoiceID, target)
	if err != nil {
		return nil, err
	}
	slog.Info("Invoice billing month moved", "invoice_id", invoiceID, "lines", moved)
	return &MovePeriodOutput{LinesMoved: int(moved)}, nil
}

// movePattern moves lines whose description matches the pattern and whose
// currently resolved billing month equals the source month. The resolution
// uses the same override/period/description/invoice-date chain the reporting
// side uses, so what the caller sees in a given month is what moves.
func (uc *MovePeriodUseCase) movePattern(ctx context.Context, pattern, sourceMonth string, target *time.Time) (*MovePeriodOutput, error) {
	if pattern == "" {
		return nil, domainerror.NewImportError(
			domainerror.ErrCodeInvalidTargetMonth,
			"a description pattern is required",
			domainerror.ErrInvalidTargetMonth,
		)
	}
	source, err := time.Parse("2006-01", sourceMonth)
	if err != nil {
		return nil, domainerror.NewImportError(
			domainerror.ErrCodeInvalidTargetMonth,
			fmt.Sprintf("invalid source month %q", sourceMonth),
			domainerror.ErrInvalidTargetMonth,
		)
	}

	lines, err := uc.lineItemRepo.FindByDescriptionPattern(ctx, pattern)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return &MovePeriodOutput{}, nil
	}

	invoiceIDs := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]bool)
	for _, line := range lines {
		if !seen[line.InvoiceID] {
			seen[line.InvoiceID] = true
			invoiceIDs = append(invoiceIDs, line.InvoiceID)
		}
	}
	invoices, err := uc.invoiceRepo.FindByIDs(ctx, invoiceIDs)
	if err != nil {
		return nil, err
	}
	datesByInvoice := make(map[uuid.UUID]time.Time, len(invoices))
	for _, invoice := range invoices {
		datesByInvoice[invoice.ID] = invoice.InvoiceDate
	}

	var ids []uuid.UUID
	for _, line := range lines {
		var invoiceDate *time.Time
		if date, ok := datesByInvoice[line.InvoiceID]; ok {
			invoiceDate = &date
		}
		month := billing.ResolveBillingMonth(line.BillingMonthOverride, line.PeriodStart, line.Description, invoiceDate)
		if month.Year() == source.Year() && month.Month() == source.Month() {
			ids = append(ids, line.ID)
		}
	}
	if len(ids) == 0 {
		return &MovePeriodOutput{}, nil
	}

	moved, err := uc.lineItemRepo.SetOverrideByIDs(ctx, ids, target)
	if err != nil {
		return nil, err
	}
	slog.Info("Pattern billing month moved",
		"pattern", pattern,
		"source_month", sourceMonth,
		"lines", moved,
	)
	return &MovePeriodOutput{LinesMoved: int(moved)}, nil
}

func (uc *MovePeriodUseCase) moveLine(ctx context.Context, lineItemID uuid.UUID, target *time.Time) (*MovePeriodOutput, error) {
	if err := uc.lineItemRepo.SetOverride(ctx, lineItemID, target); err != nil {
		return nil, err
	}
	return &MovePeriodOutput{LinesMoved: 1}, nil
}

// parseTargetMonth validates YYYY-MM and returns the first day of the month,
// or nil when the caller is clearing the override.
func parseTargetMonth(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01", value)
	if err != nil {
		return nil, domainerror.NewImportError(
			domainerror.ErrCodeInvalidTargetMonth,
			fmt.Sprintf("invalid target month %q", value),
			domainerror.ErrInvalidTargetMonth,
		)
	}
	t = t.UTC()
	return &t, nil
}

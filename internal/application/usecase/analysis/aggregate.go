// Package analysis contains invoice analysis use cases: turning raw
// vision-extracted invoices into canonical structured invoices.
package analysis

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
	"github.com/doron007/subscription-dashboard-sub001/internal/domain/normalization"
)

// AggregateRawInvoice converts a raw extracted invoice into the canonical
// analyzed form: service names canonicalized, periods extracted, quantities
// and unit prices defaulted, and a stable invoice identity resolved. Lines are
// sorted descending by total so the largest charges lead in human-readable
// output; the ordering has no effect on persistence. Pure transform.
func AggregateRawInvoice(raw *entity.RawInvoice) *entity.AnalyzedInvoice {
	lines := make([]entity.AnalyzedLineItem, 0, len(raw.LineItems))
	serviceNames := make(map[string]struct{})

	for _, rawLine := range raw.LineItems {
		name := normalization.ServiceNameOrFallback(rawLine.Description)
		serviceNames[name] = struct{}{}

		quantity := decimal.NewFromInt(1)
		if rawLine.Quantity != nil && !rawLine.Quantity.IsZero() {
			quantity = *rawLine.Quantity
		}

		// A missing unit price falls back to the line total.
		unitPrice := rawLine.Total
		if rawLine.UnitPrice != nil {
			unitPrice = *rawLine.UnitPrice
		}

		line := entity.AnalyzedLineItem{
			ServiceName: name,
			Description: strings.TrimSpace(rawLine.Description),
			Quantity:    quantity,
			UnitPrice:   unitPrice,
			TotalAmount: rawLine.Total,
		}

		if period := normalization.ExtractPeriod(rawLine.Description); period != nil {
			start, end := period.Start, period.End
			line.PeriodStart = &start
			line.PeriodEnd = &end
		}

		lines = append(lines, line)
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].TotalAmount.GreaterThan(lines[j].TotalAmount)
	})

	identity := entity.SynthesizeIdentity(raw.InvoiceDate, raw.TotalAmount)
	if raw.InvoiceNumber != "" {
		identity = entity.ExplicitIdentity(raw.InvoiceNumber)
	}

	return &entity.AnalyzedInvoice{
		Vendor: entity.AnalyzedVendor{Name: strings.TrimSpace(raw.VendorName)},
		Invoice: entity.AnalyzedInvoiceHeader{
			Identity:    identity,
			InvoiceDate: raw.InvoiceDate,
			TotalAmount: raw.TotalAmount,
			Currency:    raw.Currency,
		},
		LineItems: lines,
		Summary: entity.AnalysisSummary{
			ServiceCount:    len(serviceNames),
			LineItemCount:   len(lines),
			ConfidenceScore: raw.ConfidenceScore,
		},
	}
}

// ServiceAggregates sums line totals per canonical service name, preserving
// the aggregated-total convention used for service rows.
func ServiceAggregates(invoice *entity.AnalyzedInvoice) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal, invoice.Summary.ServiceCount)
	for _, line := range invoice.LineItems {
		totals[line.ServiceName] = totals[line.ServiceName].Add(line.TotalAmount)
	}
	return totals
}

// Package billing contains billing month and billing cycle use cases.
package billing

import (
	"time"

	"github.com/doron007/subscription-dashboard-sub001/internal/domain/normalization"
)

// ResolveBillingMonth resolves the authoritative billing month for a charge,
// returned as the first day of the month in UTC. The priority hierarchy is
// fixed: a manual override permanently wins over any automatic derivation,
// then a persisted period start, then a period parsed from the description,
// then the invoice's own date. The current processing month is the last
// resort. Pure; safe to call during re-derivation.
func ResolveBillingMonth(override, periodStart *time.Time, description string, invoiceDate *time.Time) time.Time {
	if override != nil {
		return normalization.MonthStart(*override)
	}
	if periodStart != nil {
		return normalization.MonthStart(*periodStart)
	}
	if period := normalization.ExtractPeriod(description); period != nil {
		return normalization.MonthStart(period.Start)
	}
	if invoiceDate != nil && !invoiceDate.IsZero() {
		return normalization.MonthStart(*invoiceDate)
	}
	return normalization.MonthStart(time.Now().UTC())
}

package billing

import (
	"math"
	"sort"
	"time"

	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
)

// minInvoicesForInference is the minimum invoice history needed before the
// inferencer reports anything better than the zero-confidence default.
const minInvoicesForInference = 3

// InferBillingCycle infers a vendor's billing cadence from its historical
// invoice dates. Classification looks at the mean interval between
// consecutive invoices, with the coefficient of variation (stddev/mean)
// grading how regular the cadence is.
func InferBillingCycle(dates []time.Time) entity.CycleInference {
	if len(dates) < minInvoicesForInference {
		return entity.CycleInference{
			Cycle:        entity.BillingCycleMonthly,
			Confidence:   0,
			InvoiceCount: len(dates),
		}
	}

	sorted := make([]time.Time, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	intervals := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		intervals = append(intervals, sorted[i].Sub(sorted[i-1]).Hours()/24)
	}

	mean := 0.0
	for _, interval := range intervals {
		mean += interval
	}
	mean /= float64(len(intervals))

	variance := 0.0
	for _, interval := range intervals {
		variance += (interval - mean) * (interval - mean)
	}
	variance /= float64(len(intervals)) // population variance
	stddev := math.Sqrt(variance)

	cv := 0.0
	if mean > 0 {
		cv = stddev / mean
	}

	cycle, confidence := classifyInterval(mean, cv)

	return entity.CycleInference{
		Cycle:                      cycle,
		Confidence:                 confidence,
		AverageDaysBetweenInvoices: mean,
		InvoiceCount:               len(dates),
	}
}

// classifyInterval maps a mean interval and its coefficient of variation onto
// a billing cycle. Band boundaries are inclusive.
func classifyInterval(mean, cv float64) (entity.BillingCycle, float64) {
	switch {
	case mean <= 14:
		if cv < 0.3 {
			return entity.BillingCycleAsNeeded, 0.8
		}
		return entity.BillingCycleAsNeeded, 0.6

	case mean >= 20 && mean <= 45:
		return entity.BillingCycleMonthly, regularityConfidence(cv, 0.2, 0.4)

	case mean >= 75 && mean <= 105:
		return entity.BillingCycleQuarterly, regularityConfidence(cv, 0.2, 0.4)

	case mean >= 330 && mean <= 400:
		return entity.BillingCycleAnnual, regularityConfidence(cv, 0.15, 0.3)

	case cv > 0.5:
		// Highly irregular intervals outside every band.
		return entity.BillingCycleAsNeeded, 0.7

	default:
		// Nearest-band fallback for regular but off-band intervals.
		switch {
		case mean < 60:
			return entity.BillingCycleMonthly, 0.4
		case mean < 180:
			return entity.BillingCycleQuarterly, 0.4
		default:
			return entity.BillingCycleAnnual, 0.4
		}
	}
}

func regularityConfidence(cv, tight, loose float64) float64 {
	switch {
	case cv < tight:
		return 0.9
	case cv < loose:
		return 0.7
	default:
		return 0.5
	}
}

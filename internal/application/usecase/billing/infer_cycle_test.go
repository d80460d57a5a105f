package billing

import (
	"testing"
	"time"

	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
)

// spacedDates generates count dates starting at start, spaced by the given gaps
// (cycled when fewer gaps than intervals are provided).
func spacedDates(start time.Time, count int, gaps ...int) []time.Time {
	dates := []time.Time{start}
	for i := 1; i < count; i++ {
		gap := gaps[(i-1)%len(gaps)]
		dates = append(dates, dates[i-1].AddDate(0, 0, gap))
	}
	return dates
}

func TestInferBillingCycle(t *testing.T) {
	start := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)

	t.Run("too few invoices returns zero confidence monthly default", func(t *testing.T) {
		result := InferBillingCycle(spacedDates(start, 2, 30))
		if result.Cycle != entity.BillingCycleMonthly {
			t.Errorf("cycle = %s, want monthly", result.Cycle)
		}
		if result.Confidence != 0 {
			t.Errorf("confidence = %v, want 0", result.Confidence)
		}
		if result.InvoiceCount != 2 {
			t.Errorf("invoice count = %d, want 2", result.InvoiceCount)
		}
	})

	t.Run("exact thirty day spacing infers monthly with high confidence", func(t *testing.T) {
		result := InferBillingCycle(spacedDates(start, 6, 30))
		if result.Cycle != entity.BillingCycleMonthly {
			t.Errorf("cycle = %s, want monthly", result.Cycle)
		}
		if result.Confidence < 0.8 {
			t.Errorf("confidence = %v, want >= 0.8", result.Confidence)
		}
		if result.AverageDaysBetweenInvoices != 30 {
			t.Errorf("average days = %v, want 30", result.AverageDaysBetweenInvoices)
		}
	})

	t.Run("annual spacing infers annual", func(t *testing.T) {
		result := InferBillingCycle(spacedDates(start, 4, 365, 366, 365))
		if result.Cycle != entity.BillingCycleAnnual {
			t.Errorf("cycle = %s, want annual", result.Cycle)
		}
		if result.Confidence < 0.7 {
			t.Errorf("confidence = %v, want >= 0.7", result.Confidence)
		}
	})

	t.Run("quarterly spacing infers quarterly", func(t *testing.T) {
		result := InferBillingCycle(spacedDates(start, 5, 90, 92, 91, 89))
		if result.Cycle != entity.BillingCycleQuarterly {
			t.Errorf("cycle = %s, want quarterly", result.Cycle)
		}
		if result.Confidence < 0.7 {
			t.Errorf("confidence = %v, want >= 0.7", result.Confidence)
		}
	})

	t.Run("very short spacing infers as needed", func(t *testing.T) {
		result := InferBillingCycle(spacedDates(start, 6, 7))
		if result.Cycle != entity.BillingCycleAsNeeded {
			t.Errorf("cycle = %s, want as_needed", result.Cycle)
		}
		if result.Confidence != 0.8 {
			t.Errorf("confidence = %v, want 0.8", result.Confidence)
		}
	})

	t.Run("irregular off band spacing infers as needed", func(t *testing.T) {
		// Mean ~57 days with wild swings: outside every band, cv > 0.5.
		result := InferBillingCycle(spacedDates(start, 7, 5, 160, 10, 120, 2, 45))
		if result.Cycle != entity.BillingCycleAsNeeded {
			t.Errorf("cycle = %s, want as_needed", result.Cycle)
		}
		if result.Confidence != 0.7 {
			t.Errorf("confidence = %v, want 0.7", result.Confidence)
		}
	})

	t.Run("regular off band spacing falls back to nearest band", func(t *testing.T) {
		// 55-day cadence: between monthly and quarterly bands, regular.
		result := InferBillingCycle(spacedDates(start, 6, 55))
		if result.Cycle != entity.BillingCycleMonthly {
			t.Errorf("cycle = %s, want monthly", result.Cycle)
		}
		if result.Confidence != 0.4 {
			t.Errorf("confidence = %v, want 0.4", result.Confidence)
		}
	})

	t.Run("unsorted input is sorted before inference", func(t *testing.T) {
		dates := spacedDates(start, 6, 30)
		dates[0], dates[5] = dates[5], dates[0]
		result := InferBillingCycle(dates)
		if result.Cycle != entity.BillingCycleMonthly {
			t.Errorf("cycle = %s, want monthly", result.Cycle)
		}
		if result.Confidence < 0.8 {
			t.Errorf("confidence = %v, want >= 0.8", result.Confidence)
		}
	})
}

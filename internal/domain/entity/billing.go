package entity

// BillingCycle represents the cadence at which a vendor issues invoices.
type BillingCycle string

const (
	BillingCycleMonthly   BillingCycle = "monthly"
	BillingCycleQuarterly BillingCycle = "quarterly"
	BillingCycleAnnual    BillingCycle = "annual"
	BillingCycleAsNeeded  BillingCycle = "as_needed"
)

// CycleInference is the result of inferring a vendor's billing cadence from
// its historical invoice dates.
type CycleInference struct {
	Cycle                      BillingCycle
	Confidence                 float64
	AverageDaysBetweenInvoices float64
	InvoiceCount               int
}

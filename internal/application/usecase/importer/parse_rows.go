// Package importer contains bulk CSV reconciliation and import use cases.
package importer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
	domainerror "github.com/doron007/subscription-dashboard-sub001/internal/domain/error"
)

// ImportRow is one row of the bulk CSV export, already split into columns by
// the entrypoint. Values are kept as strings; parsing and validation happen
// here so malformed rows surface as ValidationErrors with a row number.
type ImportRow struct {
	Vendor       string
	Invoice      string
	InvoiceDate  string
	ServiceMonth string
	LineItem     string
	Quantity     string
	UnitPrice    string
	TotalPrice   string
	Paid         string
}

var invoiceDateLayouts = []string{"2006-01-02", "1/2/2006", "01/02/2006"}

// ParseRows normalizes CSV rows into ParsedInvoices. Lines are keyed by
// (vendor, invoiceNumber, description, serviceMonth); duplicate keys collapse
// by summing quantity and total. Lines are then grouped by (vendor,
// invoiceNumber) with line totals summed into the invoice total.
func ParseRows(rows []ImportRow) ([]entity.ParsedInvoice, error) {
	if len(rows) == 0 {
		return nil, domainerror.NewImportError(
			domainerror.ErrCodeEmptyImportRows,
			"at least one CSV row is required",
			domainerror.ErrEmptyImportRows,
		)
	}

	type invoiceKey struct {
		vendor  string
		invoice string
	}
	// Vendor is part of the line key too: distinct vendors may reuse the
	// same invoice number, and their lines must never collapse into each
	// other.
	type lineKey struct {
		vendor       string
		invoice      string
		description  string
		serviceMonth string
	}

	invoices := make(map[invoiceKey]*entity.ParsedInvoice)
	lines := make(map[lineKey]*entity.ParsedLineItem)
	var order []invoiceKey

	for i, row := range rows {
		rowNum := i + 1

		vendor := strings.TrimSpace(row.Vendor)
		number := strings.TrimSpace(row.Invoice)
		description := strings.TrimSpace(row.LineItem)
		if vendor == "" || number == "" || description == "" {
			return nil, domainerror.NewImportError(
				domainerror.ErrCodeMissingColumns,
				fmt.Sprintf("row %d: Vendor, Invoice and Line Item are required", rowNum),
				domainerror.ErrMissingRequiredColumns,
			)
		}

		serviceMonth, err := parseServiceMonth(row.ServiceMonth)
		if err != nil {
			return nil, domainerror.NewImportError(
				domainerror.ErrCodeInvalidServiceMonth,
				fmt.Sprintf("row %d: %v", rowNum, err),
				domainerror.ErrInvalidServiceMonth,
			)
		}

		invoiceDate, err := parseInvoiceDate(row.InvoiceDate)
		if err != nil {
			return nil, domainerror.NewImportError(
				domainerror.ErrCodeInvalidInvoiceDate,
				fmt.Sprintf("row %d: %v", rowNum, err),
				domainerror.ErrInvalidInvoiceDate,
			)
		}

		total, err := parseAmount(row.TotalPrice, decimal.Zero)
		if err != nil {
			return nil, domainerror.NewImportError(
				domainerror.ErrCodeMissingColumns,
				fmt.Sprintf("row %d: invalid Total Price %q", rowNum, row.TotalPrice),
				domainerror.ErrMissingRequiredColumns,
			)
		}
		quantity, err := parseAmount(row.Quantity, decimal.NewFromInt(1))
		if err != nil {
			return nil, domainerror.NewImportError(
				domainerror.ErrCodeMissingColumns,
				fmt.Sprintf("row %d: invalid Quantity %q", rowNum, row.Quantity),
				domainerror.ErrMissingRequiredColumns,
			)
		}
		unitPrice, err := parseAmount(row.UnitPrice, total)
		if err != nil {
			return nil, domainerror.NewImportError(
				domainerror.ErrCodeMissingColumns,
				fmt.Sprintf("row %d: invalid Unit Price %q", rowNum, row.UnitPrice),
				domainerror.ErrMissingRequiredColumns,
			)
		}

		paid, voided := parsePaidFlag(row.Paid)

		ik := invoiceKey{vendor: strings.ToLower(vendor), invoice: number}
		lk := lineKey{vendor: ik.vendor, invoice: number, description: description, serviceMonth: serviceMonth}

		if existing, ok := lines[lk]; ok {
			// Duplicate natural key: collapse by summing.
			existing.Quantity = existing.Quantity.Add(quantity)
			existing.TotalPrice = existing.TotalPrice.Add(total)
			invoices[ik].TotalAmount = invoices[ik].TotalAmount.Add(total)
			continue
		}

		parsedInvoice, ok := invoices[ik]
		if !ok {
			parsedInvoice = &entity.ParsedInvoice{
				VendorName:    vendor,
				InvoiceNumber: number,
				InvoiceDate:   invoiceDate,
				Paid:          true,
				Voided:        true,
			}
			invoices[ik] = parsedInvoice
			order = append(order, ik)
		}

		periodStart, periodEnd := serviceMonthPeriod(serviceMonth)
		line := &entity.ParsedLineItem{
			InvoiceNumber: number,
			Description:   description,
			ServiceMonth:  serviceMonth,
			Quantity:      quantity,
			UnitPrice:     unitPrice,
			TotalPrice:    total,
			PeriodStart:   periodStart,
			PeriodEnd:     periodEnd,
			Paid:          paid,
			Voided:        voided,
		}
		lines[lk] = line

		parsedInvoice.LineItems = append(parsedInvoice.LineItems, *line)
		parsedInvoice.TotalAmount = parsedInvoice.TotalAmount.Add(total)
		// An invoice is paid/voided only when all of its rows agree.
		parsedInvoice.Paid = parsedInvoice.Paid && paid
		parsedInvoice.Voided = parsedInvoice.Voided && voided
	}

	// Collapsed duplicates mutated the map copies; rebuild the slices from them.
	result := make([]entity.ParsedInvoice, 0, len(order))
	for _, ik := range order {
		parsedInvoice := invoices[ik]
		rebuilt := make([]entity.ParsedLineItem, 0, len(parsedInvoice.LineItems))
		seen := make(map[lineKey]bool)
		for _, line := range parsedInvoice.LineItems {
			lk := lineKey{vendor: ik.vendor, invoice: line.InvoiceNumber, description: line.Description, serviceMonth: line.ServiceMonth}
			if seen[lk] {
				continue
			}
			seen[lk] = true
			rebuilt = append(rebuilt, *lines[lk])
		}
		parsedInvoice.LineItems = rebuilt
		result = append(result, *parsedInvoice)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].VendorName != result[j].VendorName {
			return result[i].VendorName < result[j].VendorName
		}
		return result[i].InvoiceNumber < result[j].InvoiceNumber
	})

	return result, nil
}

func parseServiceMonth(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("Service Month is required")
	}
	if t, err := time.Parse("2006-01", value); err == nil {
		return t.Format("2006-01"), nil
	}
	// Some exports carry a full date; truncate it to the month.
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t.Format("2006-01"), nil
	}
	return "", fmt.Errorf("invalid Service Month %q", value)
}

func parseInvoiceDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("Invoice Date is required")
	}
	for _, layout := range invoiceDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid Invoice Date %q", value)
}

func parseAmount(value string, fallback decimal.Decimal) (decimal.Decimal, error) {
	value = strings.TrimSpace(strings.ReplaceAll(value, ",", ""))
	value = strings.TrimPrefix(value, "$")
	if value == "" {
		return fallback, nil
	}
	return decimal.NewFromString(value)
}

// parsePaidFlag interprets the Paid column. "void"/"voided" marks the row as
// voided; common truthy spellings mark it paid; anything else is unpaid.
func parsePaidFlag(value string) (paid, voided bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "void", "voided":
		return false, true
	case "yes", "y", "true", "paid", "1":
		return true, false
	default:
		return false, false
	}
}

// serviceMonthPeriod expands a YYYY-MM service month into its first and last day.
func serviceMonthPeriod(serviceMonth string) (*time.Time, *time.Time) {
	start, err := time.Parse("2006-01", serviceMonth)
	if err != nil {
		return nil, nil
	}
	start = start.UTC()
	end := start.AddDate(0, 1, -1)
	return &start, &end
}

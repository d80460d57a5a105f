// Package email provides email notification via the Resend API.
package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/doron007/subscription-dashboard-sub001/internal/application/adapter"
	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
)

// ResendNotifier sends import completion notifications through Resend.
type ResendNotifier struct {
	client      *resend.Client
	fromName    string
	fromEmail   string
	notifyEmail string
}

// NewResendNotifier creates a new Resend notifier instance.
func NewResendNotifier(apiKey, fromName, fromEmail, notifyEmail string) *ResendNotifier {
	var client *resend.Client
	if apiKey != "" {
		client = resend.NewClient(apiKey)
	}
	return &ResendNotifier{
		client:      client,
		fromName:    fromName,
		fromEmail:   fromEmail,
		notifyEmail: notifyEmail,
	}
}

// IsConfigured reports whether notifications are enabled.
func (n *ResendNotifier) IsConfigured() bool {
	return n.client != nil && n.notifyEmail != ""
}

// NotifyImportCompleted reports the outcome of the final batch of an import.
func (n *ResendNotifier) NotifyImportCompleted(ctx context.Context, result *entity.ImportExecutionResult) error {
	if !n.IsConfigured() {
		return nil
	}

	subject := "Billing import completed"
	if !result.Success {
		subject = "Billing import completed with errors"
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", n.fromName, n.fromEmail),
		To:      []string{n.notifyEmail},
		Subject: subject,
		Html:    buildImportSummaryHTML(result),
	}

	if _, err := n.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send import notification: %w", err)
	}
	return nil
}

func buildImportSummaryHTML(result *entity.ImportExecutionResult) string {
	var b strings.Builder
	b.WriteString("<h2>Import summary</h2>")
	b.WriteString(fmt.Sprintf("<p>Processed %d of %d batches.</p>", result.BatchIndex+1, result.TotalBatches))
	b.WriteString("<ul>")
	b.WriteString(fmt.Sprintf("<li>Vendors created: %d</li>", result.Counts.VendorsCreated))
	b.WriteString(fmt.Sprintf("<li>Subscriptions created: %d</li>", result.Counts.SubscriptionsCreated))
	b.WriteString(fmt.Sprintf("<li>Invoices created: %d</li>", result.Counts.InvoicesCreated))
	b.WriteString(fmt.Sprintf("<li>Invoices updated: %d</li>", result.Counts.InvoicesUpdated))
	b.WriteString(fmt.Sprintf("<li>Invoices skipped: %d</li>", result.Counts.InvoicesSkipped))
	b.WriteString(fmt.Sprintf("<li>Services upserted: %d</li>", result.Counts.ServicesUpserted))
	b.WriteString(fmt.Sprintf("<li>Line items created: %d</li>", result.Counts.LineItemsCreated))
	b.WriteString("</ul>")

	if len(result.Errors) > 0 {
		b.WriteString("<h3>Errors</h3><ul>")
		for _, e := range result.Errors {
			b.WriteString("<li>" + e + "</li>")
		}
		b.WriteString("</ul>")
	}
	return b.String()
}

// Interface compliance check
var _ adapter.ImportNotifier = (*ResendNotifier)(nil)

package adapter

import (
	"context"

	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
)

// InvoiceImage is one page of a scanned invoice document.
type InvoiceImage struct {
	Data     []byte
	MIMEType string
}

// ExtractionService is the black-box vision extraction collaborator.
type ExtractionService interface {
	// Extract runs vision extraction over the invoice images and returns the
	// raw structured result. The images are pages of a single document.
	Extract(ctx context.Context, images []InvoiceImage) (*entity.RawInvoice, error)

	// IsAvailable reports whether the service is configured.
	IsAvailable() bool
}

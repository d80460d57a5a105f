// Package adapters provides implementations for external service integrations.
package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/shopspring/decimal"
	"google.golang.org/api/option"

	"github.com/doron007/subscription-dashboard-sub001/internal/application/adapter"
	"github.com/doron007/subscription-dashboard-sub001/internal/domain/entity"
	domainerror "github.com/doron007/subscription-dashboard-sub001/internal/domain/error"
)

// GeminiExtractor implements the adapter.ExtractionService using Google
// Gemini vision models.
type GeminiExtractor struct {
	apiKey    string
	modelName string
}

// NewGeminiExtractor creates a new Gemini extractor instance.
func NewGeminiExtractor(apiKey, modelName string) *GeminiExtractor {
	return &GeminiExtractor{
		apiKey:    apiKey,
		modelName: modelName,
	}
}

// IsAvailable checks if the Gemini service is properly configured.
func (s *GeminiExtractor) IsAvailable() bool {
	return s.apiKey != ""
}

// Extract runs vision extraction over the invoice images and returns the raw
// structured result.
func (s *GeminiExtractor) Extract(ctx context.Context, images []adapter.InvoiceImage) (*entity.RawInvoice, error) {
	if !s.IsAvailable() {
		return nil, domainerror.NewExtractionError(
			domainerror.ErrCodeExtractorUnavailable,
			"gemini extractor is not configured",
			domainerror.ErrExtractorUnavailable,
		)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(s.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(s.modelName)
	model.SetTemperature(0.1)
	model.ResponseMIMEType = "application/json"

	parts := make([]genai.Part, 0, len(images)+1)
	parts = append(parts, genai.Text(extractionPrompt))
	for _, image := range images {
		format := strings.TrimPrefix(image.MIMEType, "image/")
		parts = append(parts, genai.ImageData(format, image.Data))
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	raw, err := s.parseResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return raw, nil
}

const extractionPrompt = `You are an invoice data extraction system. Extract structured billing data from the attached invoice page images. The pages all belong to one document.

Rules:
- vendor_name: the company issuing the invoice, as printed.
- invoice_number: the invoice/document number, verbatim, or null if none is printed.
- invoice_date: the issue date in YYYY-MM-DD, or null if unreadable.
- total_amount: the grand total as a decimal string.
- currency: ISO 4217 code, or null if not determinable.
- confidence_score: your overall extraction confidence between 0.0 and 1.0.
- line_items: every billed line, each with description (verbatim, including any service period text), quantity (decimal string or null), unit_price (decimal string or null), total (decimal string).
- Do not invent lines. Do not sum or merge lines.

Respond with exactly one JSON object:
{
  "vendor_name": "string",
  "invoice_number": "string or null",
  "invoice_date": "YYYY-MM-DD or null",
  "total_amount": "decimal string",
  "currency": "string or null",
  "confidence_score": 0.0,
  "line_items": [
    { "description": "string", "quantity": "decimal string or null", "unit_price": "decimal string or null", "total": "decimal string" }
  ]
}

RESPONSE FORMAT: return only the JSON object, no additional text.`

// geminiInvoice represents the raw response from Gemini.
type geminiInvoice struct {
	VendorName      string           `json:"vendor_name"`
	InvoiceNumber   *string          `json:"invoice_number"`
	InvoiceDate     *string          `json:"invoice_date"`
	TotalAmount     string           `json:"total_amount"`
	Currency        *string          `json:"currency"`
	ConfidenceScore float64          `json:"confidence_score"`
	LineItems       []geminiLineItem `json:"line_items"`
}

type geminiLineItem struct {
	Description string  `json:"description"`
	Quantity    *string `json:"quantity"`
	UnitPrice   *string `json:"unit_price"`
	Total       string  `json:"total"`
}

// parseResponse parses the Gemini response into a RawInvoice.
func (s *GeminiExtractor) parseResponse(resp *genai.GenerateContentResponse) (*entity.RawInvoice, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from gemini")
	}

	var textContent string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			textContent = string(text)
			break
		}
	}
	if textContent == "" {
		return nil, fmt.Errorf("no text content in response")
	}

	// Clean the response (remove markdown code blocks if present)
	textContent = strings.TrimPrefix(textContent, "```json")
	textContent = strings.TrimPrefix(textContent, "```")
	textContent = strings.TrimSuffix(textContent, "```")
	textContent = strings.TrimSpace(textContent)

	var parsed geminiInvoice
	if err := json.Unmarshal([]byte(textContent), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w, content: %s", err, textContent)
	}

	total, err := decimal.NewFromString(parsed.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid total_amount %q", parsed.TotalAmount)
	}

	raw := &entity.RawInvoice{
		VendorName:      parsed.VendorName,
		TotalAmount:     total,
		ConfidenceScore: parsed.ConfidenceScore,
	}
	if parsed.InvoiceNumber != nil {
		raw.InvoiceNumber = *parsed.InvoiceNumber
	}
	if parsed.InvoiceDate != nil {
		raw.InvoiceDate = *parsed.InvoiceDate
	}
	if parsed.Currency != nil {
		raw.Currency = *parsed.Currency
	}

	for _, line := range parsed.LineItems {
		lineTotal, err := decimal.NewFromString(line.Total)
		if err != nil {
			continue // Skip lines with unparseable totals
		}
		rawLine := entity.RawLineItem{
			Description: line.Description,
			Total:       lineTotal,
		}
		if line.Quantity != nil {
			if quantity, err := decimal.NewFromString(*line.Quantity); err == nil {
				rawLine.Quantity = &quantity
			}
		}
		if line.UnitPrice != nil {
			if unitPrice, err := decimal.NewFromString(*line.UnitPrice); err == nil {
				rawLine.UnitPrice = &unitPrice
			}
		}
		raw.LineItems = append(raw.LineItems, rawLine)
	}

	return raw, nil
}

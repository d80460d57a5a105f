package error

import "errors"

// Extraction pipeline errors.
var (
	// ErrNoImages is returned when an analysis request carries no images.
	ErrNoImages = errors.New("at least one invoice image is required")

	// ErrExtractionFailed is returned when the vision extraction collaborator fails.
	ErrExtractionFailed = errors.New("invoice extraction failed")

	// ErrEmptyExtraction is returned when extraction succeeds but yields no line items.
	ErrEmptyExtraction = errors.New("extraction produced no line items")

	// ErrExtractorUnavailable is returned when no extraction backend is configured.
	ErrExtractorUnavailable = errors.New("extraction service is not configured")
)

// ExtractionErrorCode defines error codes for extraction errors.
// Format: EXT-XXYYYY where XX is category and YYYY is specific error.
type ExtractionErrorCode string

const (
	ErrCodeNoImages             ExtractionErrorCode = "EXT-010001"
	ErrCodeExtractionFailed     ExtractionErrorCode = "EXT-020001"
	ErrCodeEmptyExtraction      ExtractionErrorCode = "EXT-020002"
	ErrCodeExtractorUnavailable ExtractionErrorCode = "EXT-030001"
)

// ExtractionError represents an extraction error with code and message.
type ExtractionError struct {
	Code    ExtractionErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError creates a new ExtractionError with the given code and message.
func NewExtractionError(code ExtractionErrorCode, message string, err error) *ExtractionError {
	return &ExtractionError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

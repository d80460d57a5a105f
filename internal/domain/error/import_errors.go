package error

import "errors"

// CSV import errors.
var (
	// ErrEmptyImportRows is returned when an import request carries no rows.
	ErrEmptyImportRows = errors.New("at least one CSV row is required")

	// ErrMissingRequiredColumns is returned when a CSV row lacks a required column.
	ErrMissingRequiredColumns = errors.New("missing required CSV columns")

	// ErrInvalidInvoiceDate is returned when a CSV invoice date cannot be parsed.
	ErrInvalidInvoiceDate = errors.New("invalid invoice date")

	// ErrInvalidServiceMonth is returned when a CSV service month is not YYYY-MM.
	ErrInvalidServiceMonth = errors.New("service month must be in YYYY-MM format")

	// ErrInvalidTargetMonth is returned when a move-period target month is not YYYY-MM.
	ErrInvalidTargetMonth = errors.New("target month must be in YYYY-MM format")

	// ErrInvalidBatchWindow is returned when batchIndex/batchSize do not address the row list.
	ErrInvalidBatchWindow = errors.New("invalid batch index or batch size")

	// ErrInvalidMergeStrategy is returned for an unknown merge strategy value.
	ErrInvalidMergeStrategy = errors.New("invalid merge strategy")
)

// ImportErrorCode defines error codes for import errors.
// Format: IMP-XXYYYY where XX is category and YYYY is specific error.
type ImportErrorCode string

const (
	ErrCodeEmptyImportRows     ImportErrorCode = "IMP-010001"
	ErrCodeMissingColumns      ImportErrorCode = "IMP-010002"
	ErrCodeInvalidInvoiceDate  ImportErrorCode = "IMP-010003"
	ErrCodeInvalidServiceMonth ImportErrorCode = "IMP-010004"
	ErrCodeInvalidTargetMonth  ImportErrorCode = "IMP-010005"
	ErrCodeInvalidBatchWindow  ImportErrorCode = "IMP-010006"
	ErrCodeInvalidStrategy     ImportErrorCode = "IMP-010007"
	ErrCodeImportInternal      ImportErrorCode = "IMP-020001"
)

// ImportError represents an import error with code and message.
type ImportError struct {
	Code    ImportErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ImportError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ImportError) Unwrap() error {
	return e.Err
}

// NewImportError creates a new ImportError with the given code and message.
func NewImportError(code ImportErrorCode, message string, err error) *ImportError {
	return &ImportError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

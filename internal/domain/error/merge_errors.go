package error

import "errors"

// Merge errors.
var (
	// ErrSelfMerge is returned when source and target are the same record.
	ErrSelfMerge = errors.New("cannot merge a record into itself")

	// ErrMergeSourceNotFound is returned when the merge source does not exist.
	ErrMergeSourceNotFound = errors.New("merge source not found")

	// ErrMergeTargetNotFound is returned when the merge target does not exist.
	ErrMergeTargetNotFound = errors.New("merge target not found")

	// ErrUnsupportedMergeEntity is returned for entity kinds that do not support merging.
	ErrUnsupportedMergeEntity = errors.New("entity does not support merging")
)

// MergeErrorCode defines error codes for merge errors.
// Format: MRG-XXYYYY where XX is category and YYYY is specific error.
type MergeErrorCode string

const (
	ErrCodeSelfMerge          MergeErrorCode = "MRG-010001"
	ErrCodeMergeSourceMissing MergeErrorCode = "MRG-010002"
	ErrCodeMergeTargetMissing MergeErrorCode = "MRG-010003"
	ErrCodeUnsupportedEntity  MergeErrorCode = "MRG-010004"
	ErrCodeMergeInternal      MergeErrorCode = "MRG-020001"
)

// MergeError represents a merge error with code and message.
type MergeError struct {
	Code    MergeErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *MergeError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *MergeError) Unwrap() error {
	return e.Err
}

// NewMergeError creates a new MergeError with the given code and message.
func NewMergeError(code MergeErrorCode, message string, err error) *MergeError {
	return &MergeError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

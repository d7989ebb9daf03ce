package error

import "errors"

// Edit-justification workflow errors.
var (
	// ErrEditReasonRequired is returned when a mutation targets a non-active
	// trip without a justification reason.
	ErrEditReasonRequired = errors.New("editReason required")

	// ErrNoChangesDetected is returned when a proposed edit produces no
	// observable change. Such edits must never reach persistence so the edit
	// history stays meaningful as an audit trail.
	ErrNoChangesDetected = errors.New("no changes detected")

	// ErrMissingActor is returned when a mutation has no acting user identity.
	ErrMissingActor = errors.New("acting user identity required")
)

// EditErrorCode defines error codes for edit workflow errors.
// Format: EDT-XXYYYY where XX is category and YYYY is specific error.
type EditErrorCode string

const (
	ErrCodeEditReasonRequired EditErrorCode = "EDT-010001"
	ErrCodeNoChangesDetected  EditErrorCode = "EDT-010002"
	ErrCodeMissingActor       EditErrorCode = "EDT-010003"
)

// EditError represents an edit workflow error with code and message.
type EditError struct {
	Code    EditErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *EditError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *EditError) Unwrap() error {
	return e.Err
}

// NewEditError creates a new EditError with the given code and message.
func NewEditError(code EditErrorCode, message string, err error) *EditError {
	return &EditError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

package error

import "errors"

// Cost domain errors.
var (
	// ErrCostEntryNotFound is returned when a cost entry is not found on the trip.
	ErrCostEntryNotFound = errors.New("cost entry not found")

	// ErrAdditionalCostNotFound is returned when an additional cost is not found on the trip.
	ErrAdditionalCostNotFound = errors.New("additional cost not found")

	// ErrInvalidCostAmount is returned when a cost amount is zero or negative.
	ErrInvalidCostAmount = errors.New("cost amount must be greater than zero")

	// ErrMissingCostCurrency is returned when a cost entry has no currency.
	ErrMissingCostCurrency = errors.New("cost currency is required")

	// ErrMissingCostCategory is returned when a cost entry has no category.
	ErrMissingCostCategory = errors.New("cost category is required")

	// ErrMissingFlagReason is returned when a cost entry is flagged without a reason.
	ErrMissingFlagReason = errors.New("flag reason is required for flagged entries")

	// ErrFlagAlreadyResolved is returned when resolving a flag that is not open.
	ErrFlagAlreadyResolved = errors.New("cost entry flag is not open")

	// ErrSystemCostsAlreadyGenerated is returned when the overhead allocator
	// runs against a trip that already carries system-generated entries.
	ErrSystemCostsAlreadyGenerated = errors.New("system-generated costs already exist for this trip")
)

// CostErrorCode defines error codes for cost errors.
// Format: CST-XXYYYY where XX is category and YYYY is specific error.
type CostErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidCostAmount      CostErrorCode = "CST-010001"
	ErrCodeMissingCostCurrency    CostErrorCode = "CST-010002"
	ErrCodeMissingCostCategory    CostErrorCode = "CST-010003"
	ErrCodeMissingFlagReason      CostErrorCode = "CST-010004"
	ErrCodeCostEntryNotFound      CostErrorCode = "CST-010005"
	ErrCodeAdditionalCostNotFound CostErrorCode = "CST-010006"

	// Lifecycle errors (02XXXX)
	ErrCodeFlagAlreadyResolved     CostErrorCode = "CST-020001"
	ErrCodeSystemCostsAlreadyExist CostErrorCode = "CST-020002"
)

// CostError represents a cost error with code and message.
type CostError struct {
	Code    CostErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *CostError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *CostError) Unwrap() error {
	return e.Err
}

// NewCostError creates a new CostError with the given code and message.
func NewCostError(code CostErrorCode, message string, err error) *CostError {
	return &CostError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

package error

// PersistenceError wraps a failure from the backing document store. It is
// surfaced to the caller unmodified (no silent retry) and kept distinguishable
// from validation errors so the UI can offer retry only where it helps.
type PersistenceError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *PersistenceError) Error() string {
	return "persistence failure during " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying store error.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewPersistenceError wraps a store failure for the given operation.
func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

package store

import "fmt"

// ValidationError reports an append payload that violates a structural
// invariant (non-positive quantity, fungibility mismatch, same-base transfer,
// insufficient balance, unresolvable reference). The record is never
// partially applied.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

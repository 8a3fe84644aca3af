package report

import "fmt"

// MissingInputError is returned by Finalize when a mandatory input group has
// not been supplied. The caller can set the named group and retry.
type MissingInputError struct {
	Group string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("report: mandatory input group %q not set", e.Group)
}

// NotFinalizedError is returned by accessors invoked before Finalize.
type NotFinalizedError struct {
	Accessor string
}

func (e *NotFinalizedError) Error() string {
	return fmt.Sprintf("report: %s accessed before Finalize", e.Accessor)
}

// AlreadyFinalizedError is returned when Finalize is called on a builder
// that has already produced its report.
type AlreadyFinalizedError struct{}

func (e *AlreadyFinalizedError) Error() string {
	return "report: builder already finalized"
}

// CollaboratorError wraps a failure surfaced by an external dependency
// during Finalize. The original error is preserved and never retried.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("report: %s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

package workflow

import "errors"

// ErrStaleResult is returned for a list fetch that a newer fetch has
// superseded. Callers drop the result.
var ErrStaleResult = errors.New("stale pending list result")

// ValidationError is a field constraint the caller can fix and retry.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

type WorkflowErrorKind int

const (
	NotFound WorkflowErrorKind = iota + 1
	AlreadyTerminal
	Unauthorized
)

func (k WorkflowErrorKind) String() string {
	switch k {
	case NotFound:
		return "NotFound"
	case AlreadyTerminal:
		return "AlreadyTerminal"
	case Unauthorized:
		return "Unauthorized"
	}
	return "Unknown"
}

type WorkflowError struct {
	Kind    WorkflowErrorKind
	Message string
	Err     error
}

func (e *WorkflowError) Error() string {
	return e.Kind.String() + ": " + e.Message
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a *WorkflowError of kind k.
func IsKind(err error, k WorkflowErrorKind) bool {
	var wfErr *WorkflowError
	return errors.As(err, &wfErr) && wfErr.Kind == k
}

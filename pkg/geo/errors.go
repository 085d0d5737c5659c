package geo

import "fmt"

// PreconditionError reports geometry built from input that can never be
// valid, such as a polygon with fewer than three points. It signals a bug in
// the caller, not a recoverable runtime condition.
type PreconditionError struct {
	Op     string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("geo: %s: %s", e.Op, e.Reason)
}

package timeline

import (
	"errors"
	"fmt"
)

var (
	ErrMilestoneNotFound = errors.New("milestone not found")
	ErrTimelineNotFound  = errors.New("timeline not found")
)

// ValidationError reports a domain rule violated against the stored state,
// as opposed to a structurally malformed payload, which the handler layer
// rejects before the service runs.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation conflict on %s: %s", e.Field, e.Reason)
}

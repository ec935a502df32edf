package scheduler

import (
	"errors"
	"fmt"

	"gits-go/internal/jobs"
)

// ErrJobNotFound is the distinct not-found outcome for status queries and
// cancellations. Mapped to 404 at the adapter edge.
var ErrJobNotFound = errors.New("no scheduled jobs found for this user")

// InputError is a client-input failure: reported immediately, no collaborator
// touched after detection. Mapped to 400 at the adapter edge.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string { return e.Reason }

func inputErrorf(format string, args ...any) error {
	return &InputError{Reason: fmt.Sprintf(format, args...)}
}

// NotCancellableError rejects cancellation of a job that is no longer
// pending — the sole guard against canceling work already in flight or
// finished. Mapped to 400 at the adapter edge.
type NotCancellableError struct {
	JobID  string
	Status jobs.Status
}

func (e *NotCancellableError) Error() string {
	return fmt.Sprintf("job %s is %s and cannot be cancelled", e.JobID, e.Status)
}

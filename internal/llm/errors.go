package llm

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// ErrBackendUnreachable marks connection-level failures: the generation or
// embedding backend could not be reached at all. Callers distinguish this
// from a backend that answered with an error status.
var ErrBackendUnreachable = errors.New("backend unreachable")

// StatusError reports a non-2xx response from the backend.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.Code, e.Body)
}

// connError classifies a transport-level failure. Deadline expiry keeps its
// context error in the chain so callers can report a timeout distinctly.
func connError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(err, "backend request timed out")
	}
	return errors.Wrapf(ErrBackendUnreachable, "%v", err)
}

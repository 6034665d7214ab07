package requests

import (
	"errors"
	"fmt"

	"lolharvest/pkg/messages"
)

// ErrNotFound is returned when the upstream reports the resource
// does not exist. Not retryable.
var ErrNotFound = errors.New("resource not found upstream")

// UpstreamError is any unrecoverable non-success response, including a
// throttle that survived its single backoff retry.
// Fatal for the in-flight operation.
type UpstreamError struct {
	StatusCode int
	URL        string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf(messages.BadStatusCodeMsg, e.StatusCode, e.URL)
}

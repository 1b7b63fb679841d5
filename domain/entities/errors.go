package entities

import (
	"errors"
	"fmt"
)

// Error taxonomy for the assistant core. Validation errors are surfaced
// synchronously before any network attempt; Busy/Offline are pre-dispatch
// rejections; ServerError and ErrMalformedResponse are terminal outcomes of
// a dispatched request. None of these is fatal to the process.
var (
	ErrEmptyInput            = errors.New("input is empty")
	ErrUnsupportedMediaType  = errors.New("unsupported media type")
	ErrCapabilityUnavailable = errors.New("speech capability is unavailable")
	ErrInvalidState          = errors.New("operation is not valid in the current state")
	ErrBusy                  = errors.New("another request is already in flight")
	ErrOffline               = errors.New("backend is not reachable")
	ErrMalformedResponse     = errors.New("response payload has no answer")
)

// TransportReasonTimeout marks a request that expired before the backend
// answered. Timeout expiry is classified identically to any other transport
// failure.
const TransportReasonTimeout = "timeout"

// ServerError reports a failed round trip to the analysis backend, either a
// non-success HTTP status or a transport level failure.
type ServerError struct {
	StatusCode      int
	TransportReason string
}

func (e *ServerError) Error() string {
	if e.TransportReason != "" {
		return fmt.Sprintf("analysis request failed: %s", e.TransportReason)
	}
	return fmt.Sprintf("analysis backend returned status %d", e.StatusCode)
}

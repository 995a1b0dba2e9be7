package fronius

import (
	"errors"
	"fmt"
)

// Sentinel errors for Solar API operations.
//
// These errors can be checked using errors.Is() for specific handling:
//
//	if errors.Is(err, fronius.ErrStatus) {
//	    // Device answered but rejected the request
//	}
var (
	// ErrInvalidHost indicates the configured host is not an IPv4 address.
	ErrInvalidHost = errors.New("fronius: invalid host address")

	// ErrInvalidDeviceID indicates a device id outside the Solar API range.
	ErrInvalidDeviceID = errors.New("fronius: invalid device id")

	// ErrRequestFailed indicates the HTTP request could not be completed.
	ErrRequestFailed = errors.New("fronius: request failed")

	// ErrDecodeFailed indicates the response body could not be decoded.
	ErrDecodeFailed = errors.New("fronius: decoding response failed")

	// ErrStatus indicates the device answered with a non-zero envelope status.
	// The concrete error is a *StatusError carrying the code and reason.
	ErrStatus = errors.New("fronius: api error status")
)

// StatusError reports a non-zero status code in a Solar API response head.
//
// The Solar API signals request-level problems (unknown device id, endpoint
// not supported by this hardware, device busy) through Head.Status rather
// than HTTP status codes, so a StatusError always rides on a 200 response.
type StatusError struct {
	Code        int
	Reason      string
	UserMessage string
}

func (e *StatusError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("fronius: api error status %d: %s", e.Code, e.Reason)
	}
	return fmt.Sprintf("fronius: api error status %d", e.Code)
}

// Is reports whether target is ErrStatus, so callers can match any
// status-class failure without inspecting the code.
func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}

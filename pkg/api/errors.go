package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrNetwork marks failures where no response was received.
var ErrNetwork = errors.New("network error")

// Error codes the backend puts in the error envelope.
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeNotFound         = "NOT_FOUND"
	CodeDuplicateRequest = "DUPLICATE_REQUEST"
	CodeNoSeats          = "NO_SEATS_AVAILABLE"

	DetailRequestedAt = "requested_at"
	DetailRequestID   = "request_id"
)

// Error is a non-2xx response decoded from the error envelope.
type Error struct {
	StatusCode int
	Code       string
	Message    string
	Details    map[string]string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// RequestedAt parses the requested_at detail of a duplicate request error.
func (e *Error) RequestedAt() (time.Time, bool) {
	raw, ok := e.Details[DetailRequestedAt]
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// AsError unwraps err into an *Error.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func IsDuplicateRequest(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Code == CodeDuplicateRequest
}

func IsNotFound(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

func IsUnauthorized(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.StatusCode == http.StatusUnauthorized
}

func IsValidation(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.Code == CodeValidation
}

func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork)
}

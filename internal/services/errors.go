package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"ridepool/internal/utils"
	"ridepool/internal/validators"
	"ridepool/pkg/api"
)

var (
	ErrInFlight         = errors.New("another request is already in progress")
	ErrAlreadyRequested = errors.New("you have already requested to join this ride")
	ErrNoSeats          = errors.New("no seats available")
	ErrNotFound         = errors.New("not found")
	ErrInvalidState     = errors.New("invalid state for this action")
)

// ErrorKind groups errors by how they are shown to the user.
type ErrorKind string

const (
	KindNetwork    ErrorKind = "network"
	KindValidation ErrorKind = "validation"
	KindDomain     ErrorKind = "domain"
	KindUnknown    ErrorKind = "unknown"
)

// UserError is an error ready to be shown inline on the screen that
// triggered it.
type UserError struct {
	Kind    ErrorKind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *UserError) Error() string { return e.Message }
func (e *UserError) Unwrap() error { return e.Err }

// Classify maps err onto the network / validation / domain taxonomy.
func Classify(err error) *UserError {
	if err == nil {
		return nil
	}

	var ue *UserError
	if errors.As(err, &ue) {
		return ue
	}

	var verrs validators.ValidationErrors
	if errors.As(err, &verrs) {
		return &UserError{Kind: KindValidation, Message: verrs.Error(), Fields: verrs.ToMap(), Err: err}
	}

	switch {
	case errors.Is(err, ErrNoSeats):
		return &UserError{Kind: KindValidation, Message: "This ride has no seats left", Fields: map[string]string{"seats_available": ErrNoSeats.Error()}, Err: err}
	case errors.Is(err, ErrInFlight), errors.Is(err, ErrAlreadyRequested), errors.Is(err, ErrInvalidState), errors.Is(err, ErrNotFound):
		return &UserError{Kind: KindDomain, Message: capitalize(err.Error()), Err: err}
	case api.IsNetwork(err), errors.Is(err, context.DeadlineExceeded):
		return &UserError{Kind: KindNetwork, Message: "Could not reach the server. Check your connection and try again.", Err: err}
	}

	if apiErr, ok := api.AsError(err); ok {
		switch {
		case apiErr.Code == api.CodeDuplicateRequest:
			msg := "You have already requested to join this ride"
			if at, ok := apiErr.RequestedAt(); ok {
				msg = fmt.Sprintf("You already requested to join this ride on %s", utils.FormatTime(at, utils.DefaultTimeZone))
			}
			return &UserError{Kind: KindDomain, Message: msg, Fields: apiErr.Details, Err: err}
		case apiErr.Code == api.CodeValidation:
			return &UserError{Kind: KindValidation, Message: apiErr.Message, Fields: apiErr.Details, Err: err}
		case apiErr.StatusCode >= http.StatusInternalServerError:
			return &UserError{Kind: KindNetwork, Message: "Something went wrong on the server. Please try again.", Err: err}
		default:
			return &UserError{Kind: KindDomain, Message: capitalize(apiErr.Message), Fields: apiErr.Details, Err: err}
		}
	}

	return &UserError{Kind: KindUnknown, Message: "Something went wrong. Please try again.", Err: err}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}

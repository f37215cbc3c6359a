// Package backend holds the dev server's business rules. Handlers translate
// its errors into the API error envelope.
package backend

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("not allowed to act on this resource")
	ErrNoSeats            = errors.New("no seats available")
	ErrAlreadyDecided     = errors.New("ride request has already been answered")
	ErrRideClosed         = errors.New("ride is not open for requests")
	ErrOwnRide            = errors.New("drivers cannot request their own ride")
	ErrUnsupportedImage   = errors.New("photo must be a jpeg or png image")
)

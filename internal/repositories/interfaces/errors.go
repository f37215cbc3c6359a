package interfaces

import (
	"errors"
	"fmt"

	"ridepool/internal/models"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// DuplicateRequestError is returned when a rider already has a pending or
// accepted request on the ride. Existing is that request.
type DuplicateRequestError struct {
	Existing *models.RideRequest
}

func (e *DuplicateRequestError) Error() string {
	return fmt.Sprintf("ride request %s already exists for ride %s", e.Existing.ID.Hex(), e.Existing.RideID.Hex())
}

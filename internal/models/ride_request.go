package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideRequestStatus string

const (
	RideRequestStatusPending  RideRequestStatus = "pending"
	RideRequestStatusAccepted RideRequestStatus = "accepted"
	RideRequestStatusRejected RideRequestStatus = "rejected"
)

// RideRequest is one rider's ask to join one driver's ride.
type RideRequest struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RideID      primitive.ObjectID `json:"ride_id" bson:"ride_id"`
	RiderID     primitive.ObjectID `json:"rider_id" bson:"rider_id"`
	Status      RideRequestStatus  `json:"status" bson:"status"`
	JoiningStop string             `json:"joining_stop" bson:"joining_stop"`
	EndingStop  string             `json:"ending_stop" bson:"ending_stop"`
	Message     string             `json:"message,omitempty" bson:"message,omitempty"`
	RequestedAt time.Time          `json:"requested_at" bson:"requested_at"`
	RespondedAt *time.Time         `json:"responded_at,omitempty" bson:"responded_at,omitempty"`
	// Active mirrors IsActive in storage so a partial unique index can
	// allow one active request per rider and ride.
	Active bool `json:"-" bson:"active"`
}

// Blocks reports whether a request in this status prevents a new one for
// the same rider and ride.
func (s RideRequestStatus) Blocks() bool {
	return s == RideRequestStatusPending || s == RideRequestStatusAccepted
}

// IsActive reports whether the request still blocks a new one for the same
// rider and ride.
func (r *RideRequest) IsActive() bool {
	return r.Status.Blocks()
}

type CreateRideRequest struct {
	JoiningStop string `json:"joining_stop" validate:"required"`
	EndingStop  string `json:"ending_stop" validate:"required"`
	Message     string `json:"message,omitempty" validate:"omitempty,max=280"`
}

type UpdateRideRequestStatus struct {
	Status RideRequestStatus `json:"status" validate:"required,oneof=accepted rejected"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideStatus string

const (
	RideStatusScheduled  RideStatus = "scheduled"
	RideStatusInProgress RideStatus = "in_progress"
	RideStatusCompleted  RideStatus = "completed"
	RideStatusCancelled  RideStatus = "cancelled"
)

// Ride is a trip offered by a driver. Fare and seat accounting belong to the
// backend; clients only echo the values they receive or send.
type Ride struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	DriverID       primitive.ObjectID `json:"driver_id" bson:"driver_id"`
	CarID          primitive.ObjectID `json:"car_id" bson:"car_id"`
	StartLocation  string             `json:"start_location" bson:"start_location"`
	EndLocation    string             `json:"end_location" bson:"end_location"`
	Stops          []Stop             `json:"stops" bson:"stops"`
	StartTime      time.Time          `json:"start_time" bson:"start_time"`
	SeatsAvailable int                `json:"seats_available" bson:"seats_available"`
	Fare           float64            `json:"fare" bson:"fare"`
	Currency       string             `json:"currency" bson:"currency"`
	Status         RideStatus         `json:"status" bson:"status"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

// Stop is a named point along a ride where riders can join or leave.
type Stop struct {
	Name     string   `json:"name" bson:"name"`
	Location Location `json:"location" bson:"location"`
}

// StopIndex returns the position of the named stop, or -1.
func (r *Ride) StopIndex(name string) int {
	for i, s := range r.Stops {
		if s.Name == name {
			return i
		}
	}
	return -1
}

// RideUpdate carries the mutable fields of a ride. Nil fields are left alone.
type RideUpdate struct {
	SeatsAvailable *int        `json:"seats_available,omitempty" validate:"omitempty,gte=0,lte=8"`
	Fare           *float64    `json:"fare,omitempty" validate:"omitempty,gte=0"`
	StartTime      *time.Time  `json:"start_time,omitempty"`
	Status         *RideStatus `json:"status,omitempty" validate:"omitempty,oneof=scheduled in_progress completed cancelled"`
}

// OfferRide is the driver's input for a new ride.
type OfferRide struct {
	CarID          primitive.ObjectID `json:"car_id" validate:"object_id"`
	StartLocation  string             `json:"start_location" validate:"required,max=255"`
	EndLocation    string             `json:"end_location" validate:"required,max=255"`
	Stops          []Stop             `json:"stops,omitempty" validate:"omitempty,max=10"`
	StartTime      time.Time          `json:"start_time" validate:"required,future_date"`
	SeatsAvailable int                `json:"seats_available" validate:"gte=1,lte=8"`
	Fare           float64            `json:"fare" validate:"gte=0,lte=10000"`
	Currency       string             `json:"currency,omitempty" validate:"omitempty,len=3"`
}

// RideSearchParams filters the ride listing on the server side.
type RideSearchParams struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

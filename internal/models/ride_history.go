package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ParticipantRole string
type RideHistoryStatus string

const (
	RoleDriver ParticipantRole = "driver"
	RoleRider  ParticipantRole = "rider"

	RideHistoryStatusActive    RideHistoryStatus = "active"
	RideHistoryStatusCompleted RideHistoryStatus = "completed"
	RideHistoryStatusCancelled RideHistoryStatus = "cancelled"
)

// RideHistory records one user's participation in a ride, including the
// ratings exchanged once it is over.
type RideHistory struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RideID         primitive.ObjectID `json:"ride_id" bson:"ride_id"`
	UserID         primitive.ObjectID `json:"user_id" bson:"user_id"`
	Role           ParticipantRole    `json:"role" bson:"role"`
	Status         RideHistoryStatus  `json:"status" bson:"status"`
	RatingGiven    *float64           `json:"rating_given,omitempty" bson:"rating_given,omitempty"`
	RatingReceived *float64           `json:"rating_received,omitempty" bson:"rating_received,omitempty"`
	Comment        string             `json:"comment,omitempty" bson:"comment,omitempty"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

type CreateRideHistory struct {
	RideID primitive.ObjectID `json:"ride_id" validate:"object_id"`
	UserID primitive.ObjectID `json:"user_id" validate:"object_id"`
	Role   ParticipantRole    `json:"role" validate:"required,oneof=driver rider"`
}

type UpdateRideHistory struct {
	Status      *RideHistoryStatus `json:"status,omitempty" validate:"omitempty,oneof=active completed cancelled"`
	RatingGiven *float64           `json:"rating_given,omitempty" validate:"omitempty,gte=1,lte=5"`
	Comment     *string            `json:"comment,omitempty" validate:"omitempty,max=500"`
}

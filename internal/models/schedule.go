package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Schedule is a recurring commute a user wants to offer or join.
type Schedule struct {
	ID            primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	UserID        primitive.ObjectID  `json:"user_id" bson:"user_id"`
	RideID        *primitive.ObjectID `json:"ride_id,omitempty" bson:"ride_id,omitempty"`
	DayOfWeek     time.Weekday        `json:"day_of_week" bson:"day_of_week"`
	DepartureTime string              `json:"departure_time" bson:"departure_time"` // HH:MM
	From          string              `json:"from" bson:"from"`
	To            string              `json:"to" bson:"to"`
	CreatedAt     time.Time           `json:"created_at" bson:"created_at"`
}

type CreateSchedule struct {
	RideID        *primitive.ObjectID `json:"ride_id,omitempty"`
	DayOfWeek     time.Weekday        `json:"day_of_week" validate:"gte=0,lte=6"`
	DepartureTime string              `json:"departure_time" validate:"required,clock_time"`
	From          string              `json:"from" validate:"required,max=255"`
	To            string              `json:"to" validate:"required,max=255,nefield=From"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Location struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

// SavedLocation is a labelled place a user picks often (home, office...).
type SavedLocation struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id"`
	Label     string             `json:"label" bson:"label"`
	Address   string             `json:"address" bson:"address"`
	Latitude  float64            `json:"latitude" bson:"latitude"`
	Longitude float64            `json:"longitude" bson:"longitude"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

type SaveLocationRequest struct {
	Label     string  `json:"label" validate:"required,max=50"`
	Address   string  `json:"address" validate:"required,max=255"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Car struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OwnerID   primitive.ObjectID `json:"owner_id" bson:"owner_id"`
	Make      string             `json:"make" bson:"make"`
	Model     string             `json:"model" bson:"model"`
	Color     string             `json:"color" bson:"color"`
	Plate     string             `json:"plate" bson:"plate"`
	Seats     int                `json:"seats" bson:"seats"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

type CarInput struct {
	Make  string `json:"make" validate:"required,max=50"`
	Model string `json:"model" validate:"required,max=50"`
	Color string `json:"color" validate:"required,max=30"`
	Plate string `json:"plate" validate:"required,license_plate"`
	Seats int    `json:"seats" validate:"gte=1,lte=8"`
}

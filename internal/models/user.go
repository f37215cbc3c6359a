package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserMode string

const (
	ModeRider  UserMode = "rider"
	ModeDriver UserMode = "driver"
)

type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email"`
	Phone        string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Bio          string             `json:"bio,omitempty" bson:"bio,omitempty"`
	PhotoURL     string             `json:"photo_url,omitempty" bson:"photo_url,omitempty"`
	Mode         UserMode           `json:"mode" bson:"mode"`
	Rating       float64            `json:"rating" bson:"rating"`
	PushToken    string             `json:"-" bson:"push_token,omitempty"`
	PasswordHash string             `json:"-" bson:"password_hash"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

type UpdateProfile struct {
	Name  *string   `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone *string   `json:"phone,omitempty" validate:"omitempty,e164"`
	Bio   *string   `json:"bio,omitempty" validate:"omitempty,max=500"`
	Mode  *UserMode `json:"mode,omitempty" validate:"omitempty,oneof=rider driver"`
	// PushToken registers the device for ride request notifications.
	PushToken *string `json:"push_token,omitempty" validate:"omitempty,max=4096"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Name     string   `json:"name" validate:"required,min=2,max=100"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=8,max=128"`
	Phone    string   `json:"phone,omitempty" validate:"omitempty,e164"`
	Mode     UserMode `json:"mode,omitempty" validate:"omitempty,oneof=rider driver"`
}

type AuthResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
	User      *User  `json:"user"`
}

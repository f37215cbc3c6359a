package services

import "go.mongodb.org/mongo-driver/bson/primitive"

type Screen string

const (
	ScreenSearch       Screen = "search"
	ScreenRideDetails  Screen = "ride_details"
	ScreenJoinRequests Screen = "join_requests"
	ScreenMessages     Screen = "messages"
)

// Navigation tells the caller which screen to show next.
type Navigation struct {
	Screen  Screen
	RideID  primitive.ObjectID
	Refresh bool
}

// Package memory keeps every repository in process memory. The dev server
// uses it when no MongoDB URI is configured, and tests use it throughout.
package memory

import "ridepool/internal/repositories/interfaces"

func NewRepositories() *interfaces.Repositories {
	return &interfaces.Repositories{
		Users:        NewUserRepository(),
		Rides:        NewRideRepository(),
		RideRequests: NewRideRequestRepository(),
		RideHistory:  NewRideHistoryRepository(),
		Cars:         NewCarRepository(),
		Schedules:    NewScheduleRepository(),
		Chats:        NewChatRepository(),
		Locations:    NewLocationRepository(),
	}
}

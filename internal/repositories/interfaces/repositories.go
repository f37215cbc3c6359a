package interfaces

// Repositories bundles every store the API handlers depend on.
type Repositories struct {
	Users        UserRepository
	Rides        RideRepository
	RideRequests RideRequestRepository
	RideHistory  RideHistoryRepository
	Cars         CarRepository
	Schedules    ScheduleRepository
	Chats        ChatRepository
	Locations    LocationRepository
}

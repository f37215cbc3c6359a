package models

// Event names pushed over the real-time channel.
const (
	EventNewRideRequest     = "new_ride_request"
	EventRideRequestUpdated = "ride_request_updated"
	EventNewMessage         = "new_message"
	EventRideStatusChanged  = "ride_status_changed"
	EventDriverLocation     = "driver_location"
)

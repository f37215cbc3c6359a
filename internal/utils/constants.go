package utils

import "time"

const (
	AppName = "ridepool"

	DefaultTimeZone = "UTC"

	// Ride constraints shared by the client validators and the devserver.
	MinSeats          = 1
	MaxSeats          = 8
	MaxMessageLength  = 1000
	MaxRequestMessage = 280

	JWTAccessTokenTTL = 24 * time.Hour

	// Average city speed used when no configured value is available.
	DefaultAverageSpeedKMH = 30.0
	EarthRadiusKM          = 6371.0
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error codes carried in the error envelope. Clients branch on these, never
// on the message text.
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeBadRequest       = "BAD_REQUEST"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeDuplicateRequest = "DUPLICATE_REQUEST"
	CodeNoSeats          = "NO_SEATS_AVAILABLE"
	CodeInvalidState     = "INVALID_STATE"
	CodeInternal         = "INTERNAL_ERROR"
)

// Error detail keys.
const (
	DetailRequestedAt = "requested_at"
	DetailRequestID   = "request_id"
)

// Error Messages
const (
	ErrInvalidCredentials = "invalid credentials"
	ErrUserExists         = "user already exists"
	ErrInternalServer     = "internal server error"
	ErrUnauthorized       = "unauthorized"
	ErrForbidden          = "forbidden"
	ErrValidationFailed   = "validation failed"
	ErrRideNotFound       = "ride not found"
	ErrDuplicateRequest   = "you have already requested to join this ride"
	ErrNoSeatsAvailable   = "no seats available"
)

// Cache Keys
const (
	CacheGeocodePrefix = "geocode:"
	CacheReversePrefix = "reverse:"
	CacheSearchPrefix  = "places:"
	CacheRidePrefix    = "ride:"

	CacheRideTTL = 15 * time.Minute
)

package interfaces

import (
	"context"

	"ridepool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, ride *models.Ride) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ride, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// Listing
	Search(ctx context.Context, params *models.RideSearchParams) ([]*models.Ride, error)
	GetByDriver(ctx context.Context, driverID primitive.ObjectID) ([]*models.Ride, error)
}

type RideRequestRepository interface {
	// Create stores a pending request. It fails with *DuplicateRequestError
	// when the rider already holds an active request on the same ride.
	Create(ctx context.Context, req *models.RideRequest) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.RideRequest, error)
	GetLatest(ctx context.Context, rideID, riderID primitive.ObjectID) (*models.RideRequest, error)
	GetByRide(ctx context.Context, rideID primitive.ObjectID) ([]*models.RideRequest, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.RideRequestStatus) (*models.RideRequest, error)
}

type RideHistoryRepository interface {
	Create(ctx context.Context, entry *models.RideHistory) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.RideHistory, error)
	GetByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.RideHistory, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
}

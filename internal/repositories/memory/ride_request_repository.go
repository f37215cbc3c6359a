package memory

import (
	"context"
	"time"

	"ridepool/internal/models"
	"ridepool/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type rideRequestRepository struct {
	requests *collection[models.RideRequest]
}

func NewRideRequestRepository() interfaces.RideRequestRepository {
	return &rideRequestRepository{requests: newCollection[models.RideRequest]()}
}

func (r *rideRequestRepository) Create(ctx context.Context, req *models.RideRequest) error {
	req.ID = primitive.NewObjectID()
	req.Status = models.RideRequestStatusPending
	req.Active = true
	if req.RequestedAt.IsZero() {
		req.RequestedAt = time.Now().UTC()
	}

	existing := r.requests.insertUnless(req.ID, req, func(other *models.RideRequest) bool {
		return other.RideID == req.RideID && other.RiderID == req.RiderID && other.IsActive()
	})
	if existing != nil {
		return &interfaces.DuplicateRequestError{Existing: existing}
	}
	return nil
}

func (r *rideRequestRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.RideRequest, error) {
	return r.requests.get(id)
}

func (r *rideRequestRepository) GetLatest(ctx context.Context, rideID, riderID primitive.ObjectID) (*models.RideRequest, error) {
	found := r.requests.find(func(req *models.RideRequest) bool {
		return req.RideID == rideID && req.RiderID == riderID
	})
	var latest *models.RideRequest
	for _, req := range found {
		if latest == nil || !req.RequestedAt.Before(latest.RequestedAt) {
			latest = req
		}
	}
	if latest == nil {
		return nil, interfaces.ErrNotFound
	}
	return latest, nil
}

func (r *rideRequestRepository) GetByRide(ctx context.Context, rideID primitive.ObjectID) ([]*models.RideRequest, error) {
	return r.requests.find(func(req *models.RideRequest) bool { return req.RideID == rideID }), nil
}

func (r *rideRequestRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.RideRequestStatus) (*models.RideRequest, error) {
	return r.requests.modify(id, func(req *models.RideRequest) error {
		now := time.Now().UTC()
		req.Status = status
		req.Active = status.Blocks()
		req.RespondedAt = &now
		return nil
	})
}

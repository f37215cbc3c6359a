package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ridepool/internal/models"
	"ridepool/internal/repositories/interfaces"
	"ridepool/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type rideRequestRepository struct {
	collection *mongo.Collection
}

func NewRideRequestRepository(db *mongo.Database) interfaces.RideRequestRepository {
	return &rideRequestRepository{collection: db.Collection(database.CollectionRideRequests)}
}

// Create inserts a pending request unless the rider already has an active
// one on the ride. The partial unique index on (ride_id, rider_id, active)
// catches submissions that race past the lookup.
func (r *rideRequestRepository) Create(ctx context.Context, req *models.RideRequest) error {
	if existing, err := r.findActive(ctx, req.RideID, req.RiderID); err == nil {
		return &interfaces.DuplicateRequestError{Existing: existing}
	} else if !errors.Is(err, interfaces.ErrNotFound) {
		return err
	}

	req.ID = primitive.NewObjectID()
	req.Status = models.RideRequestStatusPending
	req.Active = true
	if req.RequestedAt.IsZero() {
		req.RequestedAt = time.Now().UTC()
	}
	if _, err := r.collection.InsertOne(ctx, req); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			existing, findErr := r.findActive(ctx, req.RideID, req.RiderID)
			if findErr != nil {
				return fmt.Errorf("failed to load existing ride request: %w", findErr)
			}
			return &interfaces.DuplicateRequestError{Existing: existing}
		}
		return fmt.Errorf("failed to create ride request: %w", err)
	}
	return nil
}

func (r *rideRequestRepository) findActive(ctx context.Context, rideID, riderID primitive.ObjectID) (*models.RideRequest, error) {
	active := bson.M{
		"ride_id":  rideID,
		"rider_id": riderID,
		"status":   bson.M{"$in": []models.RideRequestStatus{models.RideRequestStatusPending, models.RideRequestStatusAccepted}},
	}
	return findOne[models.RideRequest](ctx, r.collection, active, "ride request")
}

func (r *rideRequestRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.RideRequest, error) {
	return findOne[models.RideRequest](ctx, r.collection, bson.M{"_id": id}, "ride request")
}

func (r *rideRequestRepository) GetLatest(ctx context.Context, rideID, riderID primitive.ObjectID) (*models.RideRequest, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "requested_at", Value: -1}})
	return findOne[models.RideRequest](ctx, r.collection, bson.M{"ride_id": rideID, "rider_id": riderID}, "ride request", opts)
}

func (r *rideRequestRepository) GetByRide(ctx context.Context, rideID primitive.ObjectID) ([]*models.RideRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "requested_at", Value: 1}})
	return findAll[models.RideRequest](ctx, r.collection, bson.M{"ride_id": rideID}, "ride requests", opts)
}

func (r *rideRequestRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.RideRequestStatus) (*models.RideRequest, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"status": status, "active": status.Blocks(), "responded_at": time.Now().UTC()}}

	var req models.RideRequest
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("ride request: %w", interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update ride request: %w", err)
	}
	return &req, nil
}

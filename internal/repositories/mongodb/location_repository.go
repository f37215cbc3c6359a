package mongodb

import (
	"context"
	"fmt"
	"time"

	"ridepool/internal/models"
	"ridepool/internal/repositories/interfaces"
	"ridepool/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type locationRepository struct {
	collection *mongo.Collection
}

func NewLocationRepository(db *mongo.Database) interfaces.LocationRepository {
	return &locationRepository{collection: db.Collection(database.CollectionLocations)}
}

func (r *locationRepository) Create(ctx context.Context, loc *models.SavedLocation) error {
	loc.ID = primitive.NewObjectID()
	loc.CreatedAt = time.Now()
	if _, err := r.collection.InsertOne(ctx, loc); err != nil {
		return fmt.Errorf("failed to save location: %w", err)
	}
	return nil
}

func (r *locationRepository) GetByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.SavedLocation, error) {
	return findAll[models.SavedLocation](ctx, r.collection, bson.M{"user_id": userID}, "saved locations")
}

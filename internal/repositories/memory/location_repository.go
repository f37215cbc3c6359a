package memory

import (
	"context"
	"time"

	"ridepool/internal/models"
	"ridepool/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type locationRepository struct {
	locations *collection[models.SavedLocation]
}

func NewLocationRepository() interfaces.LocationRepository {
	return &locationRepository{locations: newCollection[models.SavedLocation]()}
}

func (r *locationRepository) Create(ctx context.Context, loc *models.SavedLocation) error {
	loc.ID = primitive.NewObjectID()
	loc.CreatedAt = time.Now()
	r.locations.insert(loc.ID, loc)
	return nil
}

func (r *locationRepository) GetByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.SavedLocation, error) {
	return r.locations.find(func(l *models.SavedLocation) bool { return l.UserID == userID }), nil
}

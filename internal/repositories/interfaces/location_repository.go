package interfaces

import (
	"context"

	"ridepool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LocationRepository interface {
	Create(ctx context.Context, loc *models.SavedLocation) error
	GetByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.SavedLocation, error)
}

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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type rideHistoryRepository struct {
	collection *mongo.Collection
}

func NewRideHistoryRepository(db *mongo.Database) interfaces.RideHistoryRepository {
	return &rideHistoryRepository{collection: db.Collection(database.CollectionRideHistory)}
}

func (r *rideHistoryRepository) Create(ctx context.Context, entry *models.RideHistory) error {
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = entry.CreatedAt
	if entry.Status == "" {
		entry.Status = models.RideHistoryStatusActive
	}
	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to create ride history: %w", err)
	}
	return nil
}

func (r *rideHistoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.RideHistory, error) {
	return findOne[models.RideHistory](ctx, r.collection, bson.M{"_id": id}, "ride history")
}

func (r *rideHistoryRepository) GetByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.RideHistory, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return findAll[models.RideHistory](ctx, r.collection, bson.M{"user_id": userID}, "ride history", opts)
}

func (r *rideHistoryRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	return updateByID(ctx, r.collection, bson.M{"_id": id}, bson.M{"$set": updates}, "ride history")
}

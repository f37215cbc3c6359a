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

type carRepository struct {
	collection *mongo.Collection
}

func NewCarRepository(db *mongo.Database) interfaces.CarRepository {
	return &carRepository{collection: db.Collection(database.CollectionCars)}
}

func (r *carRepository) Create(ctx context.Context, car *models.Car) error {
	car.ID = primitive.NewObjectID()
	car.CreatedAt = time.Now()
	car.UpdatedAt = car.CreatedAt
	if _, err := r.collection.InsertOne(ctx, car); err != nil {
		return fmt.Errorf("failed to create car: %w", err)
	}
	return nil
}

func (r *carRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Car, error) {
	return findOne[models.Car](ctx, r.collection, bson.M{"_id": id}, "car")
}

func (r *carRepository) GetByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Car, error) {
	return findAll[models.Car](ctx, r.collection, bson.M{"owner_id": ownerID}, "cars")
}

func (r *carRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	return updateByID(ctx, r.collection, bson.M{"_id": id}, bson.M{"$set": updates}, "car")
}

func (r *carRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete car: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("car: %w", interfaces.ErrNotFound)
	}
	return nil
}

type scheduleRepository struct {
	collection *mongo.Collection
}

func NewScheduleRepository(db *mongo.Database) interfaces.ScheduleRepository {
	return &scheduleRepository{collection: db.Collection(database.CollectionSchedules)}
}

func (r *scheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	schedule.ID = primitive.NewObjectID()
	schedule.CreatedAt = time.Now()
	if _, err := r.collection.InsertOne(ctx, schedule); err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}
	return nil
}

func (r *scheduleRepository) GetByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Schedule, error) {
	return findAll[models.Schedule](ctx, r.collection, bson.M{"user_id": userID}, "schedules")
}

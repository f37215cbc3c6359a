package memory

import (
	"context"
	"time"

	"ridepool/internal/models"
	"ridepool/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type carRepository struct {
	cars *collection[models.Car]
}

func NewCarRepository() interfaces.CarRepository {
	return &carRepository{cars: newCollection[models.Car]()}
}

func (r *carRepository) Create(ctx context.Context, car *models.Car) error {
	car.ID = primitive.NewObjectID()
	car.CreatedAt = time.Now()
	car.UpdatedAt = car.CreatedAt
	r.cars.insert(car.ID, car)
	return nil
}

func (r *carRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Car, error) {
	return r.cars.get(id)
}

func (r *carRepository) GetByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Car, error) {
	return r.cars.find(func(c *models.Car) bool { return c.OwnerID == ownerID }), nil
}

func (r *carRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	_, err := r.cars.modify(id, func(c *models.Car) error {
		if err := applyUpdates(c, updates); err != nil {
			return err
		}
		c.UpdatedAt = time.Now()
		return nil
	})
	return err
}

func (r *carRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.cars.remove(id)
}

type scheduleRepository struct {
	schedules *collection[models.Schedule]
}

func NewScheduleRepository() interfaces.ScheduleRepository {
	return &scheduleRepository{schedules: newCollection[models.Schedule]()}
}

func (r *scheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	schedule.ID = primitive.NewObjectID()
	schedule.CreatedAt = time.Now()
	r.schedules.insert(schedule.ID, schedule)
	return nil
}

func (r *scheduleRepository) GetByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Schedule, error) {
	return r.schedules.find(func(s *models.Schedule) bool { return s.UserID == userID }), nil
}

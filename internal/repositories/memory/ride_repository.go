package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"ridepool/internal/models"
	"ridepool/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type rideRepository struct {
	rides *collection[models.Ride]
}

func NewRideRepository() interfaces.RideRepository {
	return &rideRepository{rides: newCollection[models.Ride]()}
}

func (r *rideRepository) Create(ctx context.Context, ride *models.Ride) error {
	ride.ID = primitive.NewObjectID()
	ride.CreatedAt = time.Now()
	ride.UpdatedAt = ride.CreatedAt
	if ride.Status == "" {
		ride.Status = models.RideStatusScheduled
	}
	r.rides.insert(ride.ID, ride)
	return nil
}

func (r *rideRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ride, error) {
	return r.rides.get(id)
}

func (r *rideRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	_, err := r.rides.modify(id, func(ride *models.Ride) error {
		if err := applyUpdates(ride, updates); err != nil {
			return err
		}
		ride.UpdatedAt = time.Now()
		return nil
	})
	return err
}

// Search lists scheduled rides, soonest first. From matches the start
// location or any stop, To the end location or any stop.
func (r *rideRepository) Search(ctx context.Context, params *models.RideSearchParams) ([]*models.Ride, error) {
	from, to := "", ""
	if params != nil {
		from = strings.ToLower(strings.TrimSpace(params.From))
		to = strings.ToLower(strings.TrimSpace(params.To))
	}
	rides := r.rides.find(func(ride *models.Ride) bool {
		return ride.Status == models.RideStatusScheduled &&
			passesThrough(ride, ride.StartLocation, from) &&
			passesThrough(ride, ride.EndLocation, to)
	})
	sort.SliceStable(rides, func(i, j int) bool { return rides[i].StartTime.Before(rides[j].StartTime) })
	return rides, nil
}

func (r *rideRepository) GetByDriver(ctx context.Context, driverID primitive.ObjectID) ([]*models.Ride, error) {
	rides := r.rides.find(func(ride *models.Ride) bool { return ride.DriverID == driverID })
	sort.SliceStable(rides, func(i, j int) bool { return rides[i].StartTime.Before(rides[j].StartTime) })
	return rides, nil
}

func passesThrough(ride *models.Ride, endpoint, query string) bool {
	if query == "" || strings.Contains(strings.ToLower(endpoint), query) {
		return true
	}
	for _, s := range ride.Stops {
		if strings.Contains(strings.ToLower(s.Name), query) {
			return true
		}
	}
	return false
}

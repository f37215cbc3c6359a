package mongodb

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"ridepool/internal/models"
	"ridepool/internal/repositories/interfaces"
	"ridepool/internal/utils"
	"ridepool/pkg/cache"
	"ridepool/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type rideRepository struct {
	collection *mongo.Collection
	cache      cache.Cache
}

func NewRideRepository(db *mongo.Database, c cache.Cache) interfaces.RideRepository {
	return &rideRepository{
		collection: db.Collection(database.CollectionRides),
		cache:      c,
	}
}

func (r *rideRepository) Create(ctx context.Context, ride *models.Ride) error {
	ride.ID = primitive.NewObjectID()
	ride.CreatedAt = time.Now()
	ride.UpdatedAt = ride.CreatedAt
	if ride.Status == "" {
		ride.Status = models.RideStatusScheduled
	}

	if _, err := r.collection.InsertOne(ctx, ride); err != nil {
		return fmt.Errorf("failed to create ride: %w", err)
	}
	return nil
}

func (r *rideRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ride, error) {
	if ride := r.getRideFromCache(ctx, id); ride != nil {
		return ride, nil
	}

	ride, err := findOne[models.Ride](ctx, r.collection, bson.M{"_id": id}, "ride")
	if err != nil {
		return nil, err
	}

	if ride.Status == models.RideStatusScheduled || ride.Status == models.RideStatusInProgress {
		r.cacheRide(ctx, ride)
	}
	return ride, nil
}

func (r *rideRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	if err := updateByID(ctx, r.collection, bson.M{"_id": id}, bson.M{"$set": updates}, "ride"); err != nil {
		return err
	}
	r.invalidateRideCache(ctx, id)
	return nil
}

// Search lists scheduled rides, soonest first. From matches the start
// location or any stop, To the end location or any stop.
func (r *rideRepository) Search(ctx context.Context, params *models.RideSearchParams) ([]*models.Ride, error) {
	filter := bson.M{"status": models.RideStatusScheduled}
	var and []bson.M
	if params != nil {
		if q := strings.TrimSpace(params.From); q != "" {
			and = append(and, endpointFilter("start_location", q))
		}
		if q := strings.TrimSpace(params.To); q != "" {
			and = append(and, endpointFilter("end_location", q))
		}
	}
	if len(and) > 0 {
		filter["$and"] = and
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})
	return findAll[models.Ride](ctx, r.collection, filter, "rides", opts)
}

func (r *rideRepository) GetByDriver(ctx context.Context, driverID primitive.ObjectID) ([]*models.Ride, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})
	return findAll[models.Ride](ctx, r.collection, bson.M{"driver_id": driverID}, "rides", opts)
}

func endpointFilter(field, query string) bson.M {
	re := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	return bson.M{"$or": []bson.M{
		{field: re},
		{"stops.name": re},
	}}
}

func (r *rideRepository) cacheRide(ctx context.Context, ride *models.Ride) {
	if r.cache != nil {
		r.cache.Set(ctx, utils.CacheRidePrefix+ride.ID.Hex(), ride, utils.CacheRideTTL)
	}
}

func (r *rideRepository) getRideFromCache(ctx context.Context, id primitive.ObjectID) *models.Ride {
	if r.cache == nil {
		return nil
	}
	var ride models.Ride
	if err := r.cache.Get(ctx, utils.CacheRidePrefix+id.Hex(), &ride); err != nil {
		return nil
	}
	return &ride
}

func (r *rideRepository) invalidateRideCache(ctx context.Context, id primitive.ObjectID) {
	if r.cache != nil {
		r.cache.Delete(ctx, utils.CacheRidePrefix+id.Hex())
	}
}

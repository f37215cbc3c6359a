package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names shared by the mongo repositories.
const (
	CollectionUsers         = "users"
	CollectionRides         = "rides"
	CollectionRideRequests  = "ride_requests"
	CollectionRideHistory   = "ride_history"
	CollectionCars          = "cars"
	CollectionSchedules     = "schedules"
	CollectionConversations = "conversations"
	CollectionMessages      = "messages"
	CollectionLocations     = "saved_locations"
)

const IndexActiveRideRequest = "ride_rider_active_unique"

var indexes = map[string][]mongo.IndexModel{
	CollectionUsers: {
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	CollectionRides: {
		{Keys: bson.D{{Key: "driver_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "start_time", Value: 1}}},
	},
	CollectionRideRequests: {
		{Keys: bson.D{{Key: "ride_id", Value: 1}, {Key: "rider_id", Value: 1}, {Key: "requested_at", Value: -1}}},
		// One active request per rider and ride.
		{
			Keys: bson.D{{Key: "ride_id", Value: 1}, {Key: "rider_id", Value: 1}},
			Options: options.Index().
				SetName(IndexActiveRideRequest).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"active": true}),
		},
	},
	CollectionRideHistory: {
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	},
	CollectionCars: {
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
	},
	CollectionSchedules: {
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	},
	CollectionConversations: {
		{Keys: bson.D{{Key: "participants", Value: 1}, {Key: "updated_at", Value: -1}}},
	},
	CollectionMessages: {
		{Keys: bson.D{{Key: "conversation_id", Value: 1}, {Key: "created_at", Value: 1}}},
	},
	CollectionLocations: {
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	},
}

// EnsureIndexes creates the indexes every repository query relies on.
// CreateMany is a no-op for indexes that already exist.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", name, err)
		}
	}
	return nil
}

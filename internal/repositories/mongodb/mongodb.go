// Package mongodb implements the repositories on top of MongoDB.
package mongodb

import (
	"context"
	"errors"
	"fmt"

	"ridepool/internal/repositories/interfaces"
	"ridepool/pkg/cache"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewRepositories wires every repository to db. c may be nil.
func NewRepositories(db *mongo.Database, c cache.Cache) *interfaces.Repositories {
	return &interfaces.Repositories{
		Users:        NewUserRepository(db),
		Rides:        NewRideRepository(db, c),
		RideRequests: NewRideRequestRepository(db),
		RideHistory:  NewRideHistoryRepository(db),
		Cars:         NewCarRepository(db),
		Schedules:    NewScheduleRepository(db),
		Chats:        NewChatRepository(db),
		Locations:    NewLocationRepository(db),
	}
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, what string, opts ...*options.FindOneOptions) (*T, error) {
	var doc T
	err := coll.FindOne(ctx, filter, opts...).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", what, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get %s: %w", what, err)
	}
	return &doc, nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, what string, opts ...*options.FindOptions) ([]*T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", what, err)
	}
	defer cursor.Close(ctx)

	out := make([]*T, 0)
	for cursor.Next(ctx) {
		var doc T
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", what, err)
		}
		out = append(out, &doc)
	}
	return out, cursor.Err()
}

// updateByID applies a $set and reports ErrNotFound when nothing matched.
func updateByID(ctx context.Context, coll *mongo.Collection, filter, updates interface{}, what string) error {
	res, err := coll.UpdateOne(ctx, filter, updates)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", what, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", what, interfaces.ErrNotFound)
	}
	return nil
}

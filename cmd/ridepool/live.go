package main

import (
	"context"
	"fmt"
	"time"

	"ridepool/internal/models"
	"ridepool/internal/services"
	"ridepool/pkg/cache"
	"ridepool/pkg/realtime"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var watchedEvents = []string{
	models.EventNewRideRequest,
	models.EventRideRequestUpdated,
	models.EventNewMessage,
	models.EventRideStatusChanged,
	models.EventDriverLocation,
}

func (a *app) bus(ctx context.Context) (realtime.Bus, error) {
	var redisClient *redis.Client
	if a.cfg.Realtime.Transport == realtime.TransportRedis {
		redisClient = cache.NewRedisClient(a.cfg.Redis)
	}
	bus, err := realtime.New(ctx, a.cfg.Realtime, a.session.Token(), redisClient, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to realtime channel: %w", err)
	}
	return bus, nil
}

// joinRide subscribes the connection to a ride's room when the transport
// has rooms.
func joinRide(ctx context.Context, bus realtime.Bus, rideID primitive.ObjectID) error {
	ws, ok := bus.(*realtime.WebSocketBus)
	if !ok {
		return nil
	}
	return ws.JoinRoom(ctx, realtime.RideRoom(rideID))
}

func runWatch(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("watch")
	rideFlag := fs.String("ride", "", "also follow this ride's room")
	if _, err := parseFlags(fs, args); err != nil {
		return err
	}

	bus, err := a.bus(ctx)
	if err != nil {
		return err
	}
	defer bus.Close()

	if *rideFlag != "" {
		rideID, err := parseID("ride id", *rideFlag)
		if err != nil {
			return err
		}
		if err := joinRide(ctx, bus, rideID); err != nil {
			return err
		}
	}

	for _, name := range watchedEvents {
		sub := bus.Subscribe(name, func(e realtime.Event) {
			fmt.Fprintf(a.out, "%s  %-22s %v\n", a.formatTime(time.Unix(e.Timestamp, 0)), e.Type, e.Data)
		})
		defer bus.Unsubscribe(sub)
	}

	fmt.Fprintf(a.out, "Listening on %s transport, Ctrl+C to stop.\n", a.cfg.Realtime.Transport)
	if ws, ok := bus.(*realtime.WebSocketBus); ok {
		select {
		case <-ctx.Done():
		case <-ws.Done():
			return fmt.Errorf("realtime connection closed")
		}
		return nil
	}
	<-ctx.Done()
	return nil
}

// runSimulate drives a fake car along a ride so riders watching the ride
// see it move.
func runSimulate(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("simulate")
	rideFlag := fs.String("ride", "", "ride id")
	from := fs.String("from", "", "start address")
	to := fs.String("to", "", "destination address")
	steps := fs.Int("steps", 20, "number of position updates")
	every := fs.Duration("every", 2*time.Second, "time between updates")
	if _, err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := required(map[string]string{"ride": *rideFlag, "from": *from, "to": *to}); err != nil {
		return err
	}
	rideID, err := parseID("ride id", *rideFlag)
	if err != nil {
		return err
	}

	locations, err := a.locationService()
	if err != nil {
		return err
	}
	start, err := locations.Resolve(ctx, *from)
	if err != nil {
		return err
	}
	end, err := locations.Resolve(ctx, *to)
	if err != nil {
		return err
	}

	bus, err := a.bus(ctx)
	if err != nil {
		return err
	}
	defer bus.Close()

	// The hub only relays driver_location to rooms the sender is in.
	if err := joinRide(ctx, bus, rideID); err != nil {
		return err
	}

	sub := bus.Subscribe(models.EventDriverLocation, func(e realtime.Event) {
		fmt.Fprintf(a.out, "driver at %v,%v (%v)\n", e.Data["latitude"], e.Data["longitude"], e.Data["progress"])
	})
	defer bus.Unsubscribe(sub)

	sim := services.NewDriverSimulator(bus, rideID, a.session.UserID(),
		toModelLocation(start.Coordinates), toModelLocation(end.Coordinates), *steps, *every, a.logger)
	fmt.Fprintf(a.out, "Driving %s -> %s\n", start.Address, end.Address)
	if err := sim.Run(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Arrived.")
	return nil
}

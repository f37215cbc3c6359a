package services

import (
	"context"
	"math"
	"time"

	"ridepool/internal/models"
	"ridepool/internal/utils"
	"ridepool/pkg/logger"
	"ridepool/pkg/realtime"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DriverSimulator moves a fake driver from one point to another on a timer
// and publishes driver_location events. It is cosmetic.
type DriverSimulator struct {
	bus      realtime.Bus
	rideID   primitive.ObjectID
	driverID primitive.ObjectID
	from     models.Location
	to       models.Location
	steps    int
	interval time.Duration
	logger   *logger.Logger
}

// DefaultSimulatorInterval replaces a non-positive tick interval.
const DefaultSimulatorInterval = time.Second

func NewDriverSimulator(bus realtime.Bus, rideID, driverID primitive.ObjectID, from, to models.Location, steps int, interval time.Duration, log *logger.Logger) *DriverSimulator {
	if steps < 1 {
		steps = 1
	}
	if interval <= 0 {
		interval = DefaultSimulatorInterval
	}
	if log == nil {
		log = logger.Nop()
	}
	return &DriverSimulator{
		bus:      bus,
		rideID:   rideID,
		driverID: driverID,
		from:     from,
		to:       to,
		steps:    steps,
		interval: interval,
		logger:   log.WithRideID(rideID),
	}
}

// Run publishes the start position, then one position per tick until the
// destination is reached or ctx ends.
func (d *DriverSimulator) Run(ctx context.Context) error {
	if err := d.publish(ctx, 0); err != nil {
		return err
	}

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for step := 1; step <= d.steps; step++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := d.publish(ctx, step); err != nil {
			return err
		}
	}

	d.logger.Debug("Simulated driver arrived")
	return nil
}

func (d *DriverSimulator) publish(ctx context.Context, step int) error {
	progress := float64(step) / float64(d.steps)
	lat, lng := utils.Interpolate(d.from.Latitude, d.from.Longitude, d.to.Latitude, d.to.Longitude, progress)

	event := realtime.NewEvent(models.EventDriverLocation, map[string]interface{}{
		"ride_id":   d.rideID.Hex(),
		"driver_id": d.driverID.Hex(),
		"latitude":  lat,
		"longitude": lng,
		"progress":  math.Round(progress*100) / 100,
	})
	event.RoomID = realtime.RideRoom(d.rideID)
	event.UserID = d.driverID

	return d.bus.Publish(ctx, event)
}

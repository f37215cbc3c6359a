package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ridepool/internal/models"
	"ridepool/pkg/logger"
	"ridepool/pkg/realtime"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type JoinRequestsAPI interface {
	GetRide(ctx context.Context, rideID primitive.ObjectID) (*models.Ride, error)
	ListRideRequests(ctx context.Context, rideID primitive.ObjectID) ([]models.RideRequest, error)
	UpdateRideRequest(ctx context.Context, requestID primitive.ObjectID, status models.RideRequestStatus) (*models.RideRequest, error)
	UpdateRide(ctx context.Context, rideID primitive.ObjectID, update *models.RideUpdate) (*models.Ride, error)
	CreateRideHistory(ctx context.Context, req *models.CreateRideHistory) (*models.RideHistory, error)
}

// JoinRequests is the driver's list of requests on one ride.
type JoinRequests struct {
	api    JoinRequestsAPI
	rideID primitive.ObjectID
	logger *logger.Logger

	mu       sync.Mutex
	inFlight bool
	ride     *models.Ride
	requests []models.RideRequest
	// accepting holds accepts whose later steps have not all succeeded.
	accepting map[primitive.ObjectID]*acceptProgress
}

type acceptProgress struct {
	seatTaken bool
}

func NewJoinRequests(client JoinRequestsAPI, rideID primitive.ObjectID, log *logger.Logger) *JoinRequests {
	if log == nil {
		log = logger.Nop()
	}
	return &JoinRequests{
		api:       client,
		rideID:    rideID,
		logger:    log.WithRideID(rideID),
		accepting: make(map[primitive.ObjectID]*acceptProgress),
	}
}

func (j *JoinRequests) Load(ctx context.Context) error {
	ride, err := j.api.GetRide(ctx, j.rideID)
	if err != nil {
		return fmt.Errorf("failed to load ride: %w", err)
	}
	requests, err := j.api.ListRideRequests(ctx, j.rideID)
	if err != nil {
		return fmt.Errorf("failed to load ride requests: %w", err)
	}

	j.mu.Lock()
	j.ride = ride
	j.requests = requests
	j.mu.Unlock()
	return nil
}

// Accept runs the three backend calls that make up an acceptance: the
// status change, the seat decrement and the rider's history record. After a
// partial failure calling Accept again resumes at the step that failed.
func (j *JoinRequests) Accept(ctx context.Context, requestID primitive.ObjectID) (*Navigation, error) {
	req, seats, err := j.begin(requestID, true)
	if err != nil {
		return nil, err
	}
	defer j.end()

	j.mu.Lock()
	progress, resuming := j.accepting[requestID]
	j.mu.Unlock()

	if !resuming {
		if seats <= 0 {
			return nil, ErrNoSeats
		}
		updated, err := j.api.UpdateRideRequest(ctx, requestID, models.RideRequestStatusAccepted)
		if err != nil {
			return nil, fmt.Errorf("failed to accept request: %w", err)
		}
		progress = &acceptProgress{}
		j.mu.Lock()
		j.accepting[requestID] = progress
		j.mu.Unlock()
		j.replace(*updated)
	}

	if !progress.seatTaken {
		if seats <= 0 {
			return nil, ErrNoSeats
		}
		remaining := seats - 1
		if _, err := j.api.UpdateRide(ctx, j.rideID, &models.RideUpdate{SeatsAvailable: &remaining}); err != nil {
			j.logger.WithError(err).Error("Request accepted but seat count update failed")
			return nil, fmt.Errorf("failed to update seats: %w", err)
		}
		j.mu.Lock()
		progress.seatTaken = true
		j.ride.SeatsAvailable = remaining
		j.mu.Unlock()
	}

	history := &models.CreateRideHistory{RideID: j.rideID, UserID: req.RiderID, Role: models.RoleRider}
	if _, err := j.api.CreateRideHistory(ctx, history); err != nil {
		j.logger.WithError(err).Error("Request accepted but ride history was not recorded")
		return nil, fmt.Errorf("failed to record ride history: %w", err)
	}

	j.mu.Lock()
	delete(j.accepting, requestID)
	remaining := j.ride.SeatsAvailable
	j.mu.Unlock()

	j.logger.LogRideEvent(j.rideID, "ride_request_accepted", map[string]interface{}{
		"request_id":      requestID.Hex(),
		"rider_id":        req.RiderID.Hex(),
		"seats_available": remaining,
	})

	return &Navigation{Screen: ScreenJoinRequests, RideID: j.rideID, Refresh: true}, nil
}

// AcceptIncomplete reports whether an accept of requestID is waiting for
// a retry.
func (j *JoinRequests) AcceptIncomplete(requestID primitive.ObjectID) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	_, ok := j.accepting[requestID]
	return ok
}

// Reject only changes the request status.
func (j *JoinRequests) Reject(ctx context.Context, requestID primitive.ObjectID) (*Navigation, error) {
	if _, _, err := j.begin(requestID, false); err != nil {
		return nil, err
	}
	defer j.end()

	updated, err := j.api.UpdateRideRequest(ctx, requestID, models.RideRequestStatusRejected)
	if err != nil {
		return nil, fmt.Errorf("failed to reject request: %w", err)
	}
	j.replace(*updated)

	j.logger.LogRideEvent(j.rideID, "ride_request_rejected", map[string]interface{}{
		"request_id": requestID.Hex(),
	})

	return &Navigation{Screen: ScreenJoinRequests, RideID: j.rideID, Refresh: true}, nil
}

// begin takes the in-flight guard and finds the pending request. With
// resume set, an accepted request whose accept did not finish also counts.
func (j *JoinRequests) begin(requestID primitive.ObjectID, resume bool) (models.RideRequest, int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.inFlight {
		return models.RideRequest{}, 0, ErrInFlight
	}
	if j.ride == nil {
		return models.RideRequest{}, 0, fmt.Errorf("ride %s: %w", j.rideID.Hex(), ErrNotFound)
	}

	for _, r := range j.requests {
		if r.ID != requestID {
			continue
		}
		_, unfinished := j.accepting[requestID]
		if r.Status != models.RideRequestStatusPending && !(resume && unfinished) {
			return models.RideRequest{}, 0, fmt.Errorf("request is %s: %w", r.Status, ErrInvalidState)
		}
		j.inFlight = true
		return r, j.ride.SeatsAvailable, nil
	}
	return models.RideRequest{}, 0, fmt.Errorf("request %s: %w", requestID.Hex(), ErrNotFound)
}

func (j *JoinRequests) end() {
	j.mu.Lock()
	j.inFlight = false
	j.mu.Unlock()
}

func (j *JoinRequests) replace(updated models.RideRequest) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for i := range j.requests {
		if j.requests[i].ID == updated.ID {
			j.requests[i] = updated
			return
		}
	}
}

// Watch reloads the list when a new request for this ride is pushed.
func (j *JoinRequests) Watch(bus realtime.Bus) realtime.Subscription {
	return bus.Subscribe(models.EventNewRideRequest, func(e realtime.Event) {
		var req models.RideRequest
		if err := e.Decode(&req); err != nil || req.RideID != j.rideID {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := j.Load(ctx); err != nil {
			j.logger.WithError(err).Warn("Reload after new ride request failed")
		}
	})
}

func (j *JoinRequests) Ride() *models.Ride {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.ride == nil {
		return nil
	}
	ride := *j.ride
	return &ride
}

func (j *JoinRequests) Requests() []models.RideRequest {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]models.RideRequest(nil), j.requests...)
}

func (j *JoinRequests) Pending() []models.RideRequest {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []models.RideRequest
	for _, r := range j.requests {
		if r.Status == models.RideRequestStatusPending {
			out = append(out, r)
		}
	}
	return out
}

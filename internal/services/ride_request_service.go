package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ridepool/internal/models"
	"ridepool/internal/utils"
	"ridepool/internal/validators"
	"ridepool/pkg/api"
	"ridepool/pkg/logger"
	"ridepool/pkg/realtime"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RequestState string

const (
	StateIdle             RequestState = "idle"
	StatePending          RequestState = "pending"
	StateAccepted         RequestState = "accepted"
	StateRejected         RequestState = "rejected"
	StateAlreadyRequested RequestState = "already_requested"
)

type RideRequestAPI interface {
	GetRide(ctx context.Context, rideID primitive.ObjectID) (*models.Ride, error)
	MyRideRequest(ctx context.Context, rideID primitive.ObjectID) (*models.RideRequest, error)
	SubmitRideRequest(ctx context.Context, rideID primitive.ObjectID, req *models.CreateRideRequest) (*models.RideRequest, error)
}

// RideRequestView is a snapshot for rendering the ride details screen.
type RideRequestView struct {
	State        RequestState
	HasRequested bool
	RequestedAt  string
	Ride         *models.Ride
	Request      *models.RideRequest
	Error        *UserError
}

// RideRequestFlow is the rider's side of one ride request. The backend owns
// the one-active-request rule; the flow only branches on what it reports.
type RideRequestFlow struct {
	api      RideRequestAPI
	rideID   primitive.ObjectID
	timezone string
	logger   *logger.Logger

	mu           sync.Mutex
	inFlight     bool
	state        RequestState
	hasRequested bool
	ride         *models.Ride
	request      *models.RideRequest
	requestedAt  time.Time
	lastErr      error
}

func NewRideRequestFlow(client RideRequestAPI, rideID primitive.ObjectID, timezone string, log *logger.Logger) *RideRequestFlow {
	if log == nil {
		log = logger.Nop()
	}
	return &RideRequestFlow{
		api:      client,
		rideID:   rideID,
		timezone: timezone,
		logger:   log.WithRideID(rideID),
		state:    StateIdle,
	}
}

// Load fetches the ride and runs the pre-flight existence check.
func (f *RideRequestFlow) Load(ctx context.Context) error {
	ride, err := f.api.GetRide(ctx, f.rideID)
	if err != nil {
		f.fail(err)
		return fmt.Errorf("failed to load ride: %w", err)
	}

	f.mu.Lock()
	f.ride = ride
	f.mu.Unlock()

	return f.CheckExisting(ctx)
}

// CheckExisting looks up the caller's request on the ride. A pending one
// moves the flow to already_requested; a decided one is adopted as is, and
// a rejected one leaves the rider free to ask again.
func (f *RideRequestFlow) CheckExisting(ctx context.Context) error {
	existing, err := f.api.MyRideRequest(ctx, f.rideID)
	if err != nil {
		f.fail(err)
		return fmt.Errorf("failed to check existing request: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastErr = nil

	if existing == nil {
		return nil
	}

	f.adoptLocked(existing)
	return nil
}

// Submit sends a join request. Stops are validated before any network call.
// Calling Submit again after an error is the retry.
func (f *RideRequestFlow) Submit(ctx context.Context, joiningStop, endingStop, message string) error {
	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		return ErrInFlight
	}
	if f.hasRequested {
		f.mu.Unlock()
		return ErrAlreadyRequested
	}

	req := &models.CreateRideRequest{JoiningStop: joiningStop, EndingStop: endingStop, Message: message}
	if errs := validators.ValidateJoinRequest(req, f.ride); len(errs) > 0 {
		f.lastErr = errs
		f.mu.Unlock()
		return errs
	}

	f.inFlight = true
	f.mu.Unlock()

	created, err := f.api.SubmitRideRequest(ctx, f.rideID, req)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight = false

	if err != nil {
		if api.IsDuplicateRequest(err) {
			f.markDuplicateLocked(err)
			return nil
		}
		f.lastErr = err
		f.logger.WithError(err).Warn("Ride request submission failed")
		return err
	}

	f.request = created
	f.requestedAt = created.RequestedAt
	f.state = StatePending
	f.hasRequested = true
	f.lastErr = nil
	f.logger.LogRideEvent(f.rideID, "ride_request_submitted", map[string]interface{}{
		"request_id":   created.ID.Hex(),
		"joining_stop": created.JoiningStop,
		"ending_stop":  created.EndingStop,
	})
	return nil
}

func (f *RideRequestFlow) markDuplicateLocked(err error) {
	apiErr, _ := api.AsError(err)

	f.state = StateAlreadyRequested
	f.hasRequested = true
	f.lastErr = nil
	if at, ok := apiErr.RequestedAt(); ok {
		f.requestedAt = at
	} else if f.requestedAt.IsZero() {
		f.requestedAt = time.Now()
	}
	if id, err := primitive.ObjectIDFromHex(apiErr.Details[api.DetailRequestID]); err == nil && f.request == nil {
		f.request = &models.RideRequest{ID: id, RideID: f.rideID, Status: models.RideRequestStatusPending, RequestedAt: f.requestedAt}
	}
	f.logger.Info("Backend reported an existing request for this ride")
}

// Refresh re-reads the caller's request to learn the driver's decision.
func (f *RideRequestFlow) Refresh(ctx context.Context) error {
	current, err := f.api.MyRideRequest(ctx, f.rideID)
	if err != nil {
		f.fail(err)
		return fmt.Errorf("failed to refresh request: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastErr = nil
	if current != nil {
		f.adoptLocked(current)
	}
	return nil
}

func (f *RideRequestFlow) adoptLocked(req *models.RideRequest) {
	f.request = req
	if !req.RequestedAt.IsZero() {
		f.requestedAt = req.RequestedAt
	}
	switch req.Status {
	case models.RideRequestStatusAccepted:
		f.state = StateAccepted
		f.hasRequested = true
	case models.RideRequestStatusRejected:
		// Rejected requests are not active and do not block a new one.
		f.state = StateRejected
		f.hasRequested = false
	case models.RideRequestStatusPending:
		if f.state == StateIdle {
			f.state = StateAlreadyRequested
		}
		f.hasRequested = true
	}
}

// Watch adopts ride_request_updated pushes for this ride.
func (f *RideRequestFlow) Watch(bus realtime.Bus) realtime.Subscription {
	return bus.Subscribe(models.EventRideRequestUpdated, func(e realtime.Event) {
		var req models.RideRequest
		if err := e.Decode(&req); err != nil || req.RideID != f.rideID {
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.request != nil && f.request.ID != req.ID {
			return
		}
		f.adoptLocked(&req)
	})
}

func (f *RideRequestFlow) fail(err error) {
	f.mu.Lock()
	f.lastErr = err
	f.mu.Unlock()
}

func (f *RideRequestFlow) State() RequestState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *RideRequestFlow) HasRequested() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasRequested
}

func (f *RideRequestFlow) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

func (f *RideRequestFlow) RequestedAt() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requestedAt
}

// RequestedAtDisplay renders the requested-at time for the screen, or ""
// when nothing was requested.
func (f *RideRequestFlow) RequestedAtDisplay() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.requestedAt.IsZero() {
		return ""
	}
	return utils.FormatTime(f.requestedAt, f.timezone)
}

func (f *RideRequestFlow) View() RideRequestView {
	display := f.RequestedAtDisplay()

	f.mu.Lock()
	defer f.mu.Unlock()
	return RideRequestView{
		State:        f.state,
		HasRequested: f.hasRequested,
		RequestedAt:  display,
		Ride:         f.ride,
		Request:      f.request,
		Error:        Classify(f.lastErr),
	}
}

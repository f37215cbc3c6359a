package backend

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ridepool/internal/config"
	"ridepool/internal/models"
	"ridepool/internal/repositories/interfaces"
	"ridepool/internal/repositories/memory"
	"ridepool/internal/validators"
	"ridepool/pkg/logger"
	"ridepool/pkg/push"
	"ridepool/pkg/sms"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type sentEvent struct {
	target primitive.ObjectID
	kind   string
	data   map[string]interface{}
}

type recordingNotifier struct {
	mu          sync.Mutex
	userEvents  []sentEvent
	rideUpdates []sentEvent
}

func (n *recordingNotifier) SendRideUpdate(rideID primitive.ObjectID, updateType string, data map[string]interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rideUpdates = append(n.rideUpdates, sentEvent{rideID, updateType, data})
}

func (n *recordingNotifier) SendUserNotification(userID primitive.ObjectID, notificationType string, data map[string]interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.userEvents = append(n.userEvents, sentEvent{userID, notificationType, data})
}

type recordingPush struct {
	sent []*push.NotificationRequest
}

func (p *recordingPush) SendNotification(_ context.Context, req *push.NotificationRequest) (*push.NotificationResponse, error) {
	p.sent = append(p.sent, req)
	return &push.NotificationResponse{Success: true}, nil
}

type recordingSMS struct {
	sent []*sms.SMSRequest
}

func (s *recordingSMS) SendSMS(_ context.Context, req *sms.SMSRequest) (*sms.SMSResponse, error) {
	s.sent = append(s.sent, req)
	return &sms.SMSResponse{Status: "sent"}, nil
}

type fixture struct {
	repos    *interfaces.Repositories
	events   *recordingNotifier
	push     *recordingPush
	sms      *recordingSMS
	rides    RideService
	requests RideRequestService
	history  HistoryService

	driver *models.User
	rider  *models.User
	car    *models.Car
	ride   *models.Ride
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	log := logger.Nop()

	f := &fixture{
		repos:  memory.NewRepositories(),
		events: &recordingNotifier{},
		push:   &recordingPush{},
		sms:    &recordingSMS{},
	}
	devices := NewDeviceNotifier(f.push, f.sms, log)
	devices.sync = true
	f.rides = NewRideService(f.repos, f.events, "USD", log)
	f.requests = NewRideRequestService(f.repos, f.events, devices, log)
	f.history = NewHistoryService(f.repos)

	f.driver = &models.User{Name: "Dana", Email: "dana@example.com", Mode: models.ModeDriver, PushToken: "device-dana"}
	f.rider = &models.User{Name: "Rui", Email: "rui@example.com", Mode: models.ModeRider, Phone: "+15551234567"}
	for _, u := range []*models.User{f.driver, f.rider} {
		if err := f.repos.Users.Create(ctx, u); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}

	f.car = &models.Car{OwnerID: f.driver.ID, Make: "Toyota", Model: "Prius", Color: "Blue", Plate: "ABC 123", Seats: 4}
	if err := f.repos.Cars.Create(ctx, f.car); err != nil {
		t.Fatalf("create car: %v", err)
	}

	ride, err := f.rides.Offer(ctx, f.driver.ID, &models.OfferRide{
		CarID:         f.car.ID,
		StartLocation: " Midtown ",
		EndLocation:   "Airport",
		Stops: []models.Stop{
			{Name: "Midtown", Location: models.Location{Latitude: 40.754, Longitude: -73.984}},
			{Name: "Queens", Location: models.Location{Latitude: 40.728, Longitude: -73.794}},
			{Name: "Airport", Location: models.Location{Latitude: 40.641, Longitude: -73.778}},
		},
		StartTime:      time.Now().Add(2 * time.Hour),
		SeatsAvailable: 1,
		Fare:           12.5,
	})
	if err != nil {
		t.Fatalf("offer ride: %v", err)
	}
	f.ride = ride
	return f
}

func (f *fixture) submit(t *testing.T, riderID primitive.ObjectID) *models.RideRequest {
	t.Helper()
	req, err := f.requests.Submit(context.Background(), riderID, f.ride.ID, &models.CreateRideRequest{
		JoiningStop: "Midtown",
		EndingStop:  "Airport",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return req
}

func TestOfferRide(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if f.ride.StartLocation != "Midtown" || f.ride.Currency != "USD" || f.ride.Status != models.RideStatusScheduled {
		t.Fatalf("unexpected ride %+v", f.ride)
	}

	offer := &models.OfferRide{
		CarID:          f.car.ID,
		StartLocation:  "A",
		EndLocation:    "B",
		StartTime:      time.Now().Add(time.Hour),
		SeatsAvailable: 6,
	}
	_, err := f.rides.Offer(ctx, f.driver.ID, offer)
	var verrs validators.ValidationErrors
	if !errors.As(err, &verrs) || !verrs.Has("seats_available") {
		t.Fatalf("expected seats_available error, got %v", err)
	}

	offer.SeatsAvailable = 2
	if _, err := f.rides.Offer(ctx, f.rider.ID, offer); !errors.Is(err, ErrForbidden) {
		t.Fatalf("offering someone else's car: got %v", err)
	}

	offer.CarID = primitive.NewObjectID()
	_, err = f.rides.Offer(ctx, f.driver.ID, offer)
	if !errors.As(err, &verrs) || !verrs.Has("car_id") {
		t.Fatalf("expected car_id error, got %v", err)
	}
}

func TestSubmitNotifiesDriver(t *testing.T) {
	f := newFixture(t)
	req := f.submit(t, f.rider.ID)

	if req.Status != models.RideRequestStatusPending {
		t.Fatalf("status = %s", req.Status)
	}
	if len(f.events.userEvents) != 1 {
		t.Fatalf("expected one realtime event, got %d", len(f.events.userEvents))
	}
	ev := f.events.userEvents[0]
	if ev.target != f.driver.ID || ev.kind != models.EventNewRideRequest || ev.data["id"] != req.ID.Hex() {
		t.Fatalf("unexpected event %+v", ev)
	}
	if len(f.push.sent) != 1 || f.push.sent[0].Token != "device-dana" {
		t.Fatalf("driver should be pushed, got %+v", f.push.sent)
	}
}

func TestSubmitRejectsDuplicate(t *testing.T) {
	f := newFixture(t)
	first := f.submit(t, f.rider.ID)

	_, err := f.requests.Submit(context.Background(), f.rider.ID, f.ride.ID, &models.CreateRideRequest{
		JoiningStop: "Queens",
		EndingStop:  "Airport",
	})
	var dup *interfaces.DuplicateRequestError
	if !errors.As(err, &dup) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if dup.Existing.ID != first.ID {
		t.Fatalf("duplicate should reference %s, got %s", first.ID.Hex(), dup.Existing.ID.Hex())
	}
}

func TestSubmitGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	valid := &models.CreateRideRequest{JoiningStop: "Midtown", EndingStop: "Queens"}

	if _, err := f.requests.Submit(ctx, f.driver.ID, f.ride.ID, valid); !errors.Is(err, ErrOwnRide) {
		t.Fatalf("own ride: got %v", err)
	}

	_, err := f.requests.Submit(ctx, f.rider.ID, f.ride.ID, &models.CreateRideRequest{JoiningStop: "Airport", EndingStop: "Midtown"})
	var verrs validators.ValidationErrors
	if !errors.As(err, &verrs) || !verrs.Has("ending_stop") {
		t.Fatalf("backwards stops: got %v", err)
	}

	if err := f.repos.Rides.Update(ctx, f.ride.ID, map[string]interface{}{"seats_available": 0}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.requests.Submit(ctx, f.rider.ID, f.ride.ID, valid); !errors.Is(err, ErrNoSeats) {
		t.Fatalf("full ride: got %v", err)
	}

	if err := f.repos.Rides.Update(ctx, f.ride.ID, map[string]interface{}{"status": models.RideStatusCancelled}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.requests.Submit(ctx, f.rider.ID, f.ride.ID, valid); !errors.Is(err, ErrRideClosed) {
		t.Fatalf("cancelled ride: got %v", err)
	}

	if _, err := f.requests.Submit(ctx, f.rider.ID, primitive.NewObjectID(), valid); !errors.Is(err, interfaces.ErrNotFound) {
		t.Fatalf("missing ride: got %v", err)
	}
}

func TestDecideAccept(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.submit(t, f.rider.ID)
	f.events.userEvents = nil

	decision := &models.UpdateRideRequestStatus{Status: models.RideRequestStatusAccepted}
	if _, err := f.requests.Decide(ctx, f.rider.ID, req.ID, decision); !errors.Is(err, ErrForbidden) {
		t.Fatalf("rider deciding: got %v", err)
	}

	updated, err := f.requests.Decide(ctx, f.driver.ID, req.ID, decision)
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if updated.Status != models.RideRequestStatusAccepted || updated.RespondedAt == nil {
		t.Fatalf("unexpected request %+v", updated)
	}

	if len(f.events.userEvents) != 1 || f.events.userEvents[0].target != f.rider.ID ||
		f.events.userEvents[0].kind != models.EventRideRequestUpdated {
		t.Fatalf("rider should get ride_request_updated, got %+v", f.events.userEvents)
	}
	// The rider has no push token, only a phone number.
	if len(f.sms.sent) != 1 || f.sms.sent[0].To != f.rider.Phone {
		t.Fatalf("rider should be texted, got %+v", f.sms.sent)
	}

	if _, err := f.requests.Decide(ctx, f.driver.ID, req.ID, &models.UpdateRideRequestStatus{Status: models.RideRequestStatusRejected}); !errors.Is(err, ErrAlreadyDecided) {
		t.Fatalf("second decision: got %v", err)
	}

	// Seats are the driver's client's job.
	ride, err := f.rides.Get(ctx, f.ride.ID)
	if err != nil {
		t.Fatal(err)
	}
	if ride.SeatsAvailable != 1 {
		t.Fatalf("seats = %d, want 1", ride.SeatsAvailable)
	}
}

func TestDecideRejectsInvalidStatus(t *testing.T) {
	f := newFixture(t)
	req := f.submit(t, f.rider.ID)

	_, err := f.requests.Decide(context.Background(), f.driver.ID, req.ID, &models.UpdateRideRequestStatus{Status: models.RideRequestStatusPending})
	var verrs validators.ValidationErrors
	if !errors.As(err, &verrs) || !verrs.Has("status") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestDecideAcceptWithoutSeats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.submit(t, f.rider.ID)

	zero := 0
	if _, err := f.rides.Update(ctx, f.driver.ID, f.ride.ID, &models.RideUpdate{SeatsAvailable: &zero}); err != nil {
		t.Fatalf("update seats: %v", err)
	}
	_, err := f.requests.Decide(ctx, f.driver.ID, req.ID, &models.UpdateRideRequestStatus{Status: models.RideRequestStatusAccepted})
	if !errors.Is(err, ErrNoSeats) {
		t.Fatalf("got %v", err)
	}

	// Rejecting still works on a full ride.
	if _, err := f.requests.Decide(ctx, f.driver.ID, req.ID, &models.UpdateRideRequestStatus{Status: models.RideRequestStatusRejected}); err != nil {
		t.Fatalf("reject: %v", err)
	}
}

func TestListForRideIsDriverOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.submit(t, f.rider.ID)

	if _, err := f.requests.ListForRide(ctx, f.rider.ID, f.ride.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("rider listing: got %v", err)
	}
	list, err := f.requests.ListForRide(ctx, f.driver.ID, f.ride.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("driver listing: %v %d", err, len(list))
	}

	latest, err := f.requests.Latest(ctx, f.rider.ID, f.ride.ID)
	if err != nil || latest.ID != list[0].ID {
		t.Fatalf("latest: %v %+v", err, latest)
	}
	if _, err := f.requests.Latest(ctx, f.driver.ID, f.ride.ID); !errors.Is(err, interfaces.ErrNotFound) {
		t.Fatalf("latest without request: got %v", err)
	}
}

func TestRideStatusChangeBroadcasts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	status := models.RideStatusInProgress
	if _, err := f.rides.Update(ctx, f.rider.ID, f.ride.ID, &models.RideUpdate{Status: &status}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("rider updating: got %v", err)
	}
	updated, err := f.rides.Update(ctx, f.driver.ID, f.ride.ID, &models.RideUpdate{Status: &status})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != status {
		t.Fatalf("status = %s", updated.Status)
	}
	if len(f.events.rideUpdates) != 1 || f.events.rideUpdates[0].kind != models.EventRideStatusChanged {
		t.Fatalf("expected ride_status_changed, got %+v", f.events.rideUpdates)
	}

	// Same status again is not a change.
	if _, err := f.rides.Update(ctx, f.driver.ID, f.ride.ID, &models.RideUpdate{Status: &status}); err != nil {
		t.Fatal(err)
	}
	if len(f.events.rideUpdates) != 1 {
		t.Fatalf("unchanged status broadcast again")
	}
}

func TestHistoryPermissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	stranger := primitive.NewObjectID()

	// The driver records the rider after an accept.
	entry, err := f.history.Create(ctx, f.driver.ID, &models.CreateRideHistory{RideID: f.ride.ID, UserID: f.rider.ID, Role: models.RoleRider})
	if err != nil {
		t.Fatalf("driver recording rider: %v", err)
	}
	if entry.Status != models.RideHistoryStatusActive {
		t.Fatalf("status = %s", entry.Status)
	}

	if _, err := f.history.Create(ctx, stranger, &models.CreateRideHistory{RideID: f.ride.ID, UserID: f.rider.ID, Role: models.RoleRider}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger recording rider: got %v", err)
	}

	rating := 4.5
	completed := models.RideHistoryStatusCompleted
	if _, err := f.history.Update(ctx, f.driver.ID, entry.ID, &models.UpdateRideHistory{RatingGiven: &rating}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("rating someone else's entry: got %v", err)
	}
	rated, err := f.history.Update(ctx, f.rider.ID, entry.ID, &models.UpdateRideHistory{Status: &completed, RatingGiven: &rating})
	if err != nil {
		t.Fatalf("rate: %v", err)
	}
	if rated.Status != completed || rated.RatingGiven == nil || *rated.RatingGiven != rating {
		t.Fatalf("unexpected entry %+v", rated)
	}

	list, err := f.history.List(ctx, f.rider.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v %d", err, len(list))
	}
}

func TestChatParticipants(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	chat := NewChatService(f.repos, f.events)

	_, err := chat.CreateConversation(ctx, f.rider.ID, &models.CreateConversationRequest{Participants: []primitive.ObjectID{f.rider.ID}})
	var verrs validators.ValidationErrors
	if !errors.As(err, &verrs) || !verrs.Has("participants") {
		t.Fatalf("conversation with self: got %v", err)
	}

	conv, err := chat.CreateConversation(ctx, f.rider.ID, &models.CreateConversationRequest{
		RideID:       &f.ride.ID,
		Participants: []primitive.ObjectID{f.driver.ID, f.driver.ID},
	})
	if err != nil {
		t.Fatalf("create conversation: %v", err)
	}
	if len(conv.Participants) != 2 {
		t.Fatalf("participants = %v", conv.Participants)
	}

	if _, err := chat.Send(ctx, primitive.NewObjectID(), conv.ID, &models.SendMessageRequest{Content: "hi"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("outsider sending: got %v", err)
	}
	msg, err := chat.Send(ctx, f.rider.ID, conv.ID, &models.SendMessageRequest{Content: "Running 5 minutes late"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(f.events.userEvents) != 1 || f.events.userEvents[0].target != f.driver.ID || f.events.userEvents[0].data["id"] != msg.ID.Hex() {
		t.Fatalf("driver should be notified, got %+v", f.events.userEvents)
	}

	msgs, err := chat.Messages(ctx, f.driver.ID, conv.ID)
	if err != nil || len(msgs) != 1 {
		t.Fatalf("messages: %v %d", err, len(msgs))
	}
}

func TestAuthRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories()
	auth := NewAuthService(repos.Users, &config.SecurityConfig{
		JWTSecret:         "test-secret",
		JWTAccessTokenTTL: time.Hour,
		PasswordMinLength: 10,
	}, logger.Nop())

	_, err := auth.Register(ctx, &models.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "short-pw"})
	var verrs validators.ValidationErrors
	if !errors.As(err, &verrs) || !verrs.Has("password") {
		t.Fatalf("short password: got %v", err)
	}

	resp, err := auth.Register(ctx, &models.RegisterRequest{Name: " Ana ", Email: "ana@example.com", Password: "long-enough-pw"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.Token == "" || resp.ExpiresIn != 3600 || resp.User.Mode != models.ModeRider || resp.User.Name != "Ana" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.User.PasswordHash == "long-enough-pw" {
		t.Fatal("password stored in clear")
	}

	if _, err := auth.Register(ctx, &models.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "long-enough-pw"}); !errors.Is(err, interfaces.ErrDuplicateEmail) {
		t.Fatalf("duplicate email: got %v", err)
	}

	if _, err := auth.Login(ctx, &models.LoginRequest{Email: "ana@example.com", Password: "wrong-password"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v", err)
	}
	if _, err := auth.Login(ctx, &models.LoginRequest{Email: "nobody@example.com", Password: "whatever"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: got %v", err)
	}
	if _, err := auth.Login(ctx, &models.LoginRequest{Email: "ana@example.com", Password: "long-enough-pw"}); err != nil {
		t.Fatalf("login: %v", err)
	}
}

func TestDeviceNotifierChannels(t *testing.T) {
	p, s := &recordingPush{}, &recordingSMS{}
	d := NewDeviceNotifier(p, s, logger.Nop())
	d.sync = true
	alert := &DeviceAlert{Title: "Ride request accepted", Body: "Midtown to Airport"}

	if got := d.Notify(&models.User{PushToken: "tok", Phone: "+15550000000"}, alert); got != "push" {
		t.Fatalf("with token: %q", got)
	}
	if got := d.Notify(&models.User{Phone: "+15550000000"}, alert); got != "sms" {
		t.Fatalf("phone only: %q", got)
	}
	if got := d.Notify(&models.User{}, alert); got != "" {
		t.Fatalf("unreachable: %q", got)
	}
	if len(p.sent) != 1 || len(s.sent) != 1 {
		t.Fatalf("push=%d sms=%d", len(p.sent), len(s.sent))
	}
	if s.sent[0].Message != "Ride request accepted: Midtown to Airport" {
		t.Fatalf("sms body = %q", s.sent[0].Message)
	}

	var none *DeviceNotifier
	if none.Notify(&models.User{PushToken: "tok"}, alert) != "" {
		t.Fatal("nil notifier should do nothing")
	}
}

package services

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"ridepool/internal/models"
	"ridepool/pkg/api"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeAPI is an in-memory stand-in for *api.Client that records calls.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	ride       *models.Ride
	mine       *models.RideRequest
	requests   []models.RideRequest
	rides      []models.Ride
	messages   []models.Message
	user       *models.User
	submitErr  error
	sendErr    error
	updateErr  error
	historyErr error
	sendGate   chan struct{}
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) GetRide(ctx context.Context, rideID primitive.ObjectID) (*models.Ride, error) {
	f.record("GetRide")
	if f.ride == nil {
		return nil, &api.Error{StatusCode: http.StatusNotFound, Code: api.CodeNotFound, Message: "ride not found"}
	}
	ride := *f.ride
	return &ride, nil
}

func (f *fakeAPI) MyRideRequest(ctx context.Context, rideID primitive.ObjectID) (*models.RideRequest, error) {
	f.record("MyRideRequest")
	return f.mine, nil
}

func (f *fakeAPI) SubmitRideRequest(ctx context.Context, rideID primitive.ObjectID, req *models.CreateRideRequest) (*models.RideRequest, error) {
	f.record("SubmitRideRequest")
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &models.RideRequest{
		ID:          primitive.NewObjectID(),
		RideID:      rideID,
		Status:      models.RideRequestStatusPending,
		JoiningStop: req.JoiningStop,
		EndingStop:  req.EndingStop,
		RequestedAt: time.Date(2026, 5, 1, 8, 15, 0, 0, time.UTC),
	}, nil
}

func (f *fakeAPI) ListRideRequests(ctx context.Context, rideID primitive.ObjectID) ([]models.RideRequest, error) {
	f.record("ListRideRequests")
	return append([]models.RideRequest(nil), f.requests...), nil
}

func (f *fakeAPI) UpdateRideRequest(ctx context.Context, requestID primitive.ObjectID, status models.RideRequestStatus) (*models.RideRequest, error) {
	f.record("UpdateRideRequest:" + string(status))
	for _, r := range f.requests {
		if r.ID == requestID {
			r.Status = status
			now := time.Now()
			r.RespondedAt = &now
			return &r, nil
		}
	}
	return nil, &api.Error{StatusCode: http.StatusNotFound, Code: api.CodeNotFound}
}

func (f *fakeAPI) UpdateRide(ctx context.Context, rideID primitive.ObjectID, update *models.RideUpdate) (*models.Ride, error) {
	f.record("UpdateRide")
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if update.SeatsAvailable != nil {
		f.ride.SeatsAvailable = *update.SeatsAvailable
	}
	ride := *f.ride
	return &ride, nil
}

func (f *fakeAPI) CreateRideHistory(ctx context.Context, req *models.CreateRideHistory) (*models.RideHistory, error) {
	f.record("CreateRideHistory")
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return &models.RideHistory{ID: primitive.NewObjectID(), RideID: req.RideID, UserID: req.UserID, Role: req.Role, Status: models.RideHistoryStatusActive}, nil
}

func (f *fakeAPI) SearchRides(ctx context.Context, params models.RideSearchParams) ([]models.Ride, error) {
	f.record("SearchRides")
	return append([]models.Ride(nil), f.rides...), nil
}

func (f *fakeAPI) ListConversations(ctx context.Context) ([]models.Conversation, error) {
	f.record("ListConversations")
	return nil, nil
}

func (f *fakeAPI) ListMessages(ctx context.Context, conversationID primitive.ObjectID) ([]models.Message, error) {
	f.record("ListMessages")
	return append([]models.Message(nil), f.messages...), nil
}

func (f *fakeAPI) SendMessage(ctx context.Context, conversationID primitive.ObjectID, content string) (*models.Message, error) {
	f.record("SendMessage")
	if f.sendGate != nil {
		<-f.sendGate
	}
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return &models.Message{ID: primitive.NewObjectID(), ConversationID: conversationID, Content: content, CreatedAt: time.Now()}, nil
}

func (f *fakeAPI) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	f.record("Login")
	return &models.AuthResponse{Token: "tok", User: f.user}, nil
}

func (f *fakeAPI) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	f.record("Register")
	return &models.AuthResponse{Token: "tok", User: f.user}, nil
}

func (f *fakeAPI) GetProfile(ctx context.Context) (*models.User, error) {
	f.record("GetProfile")
	return f.user, nil
}

func (f *fakeAPI) UpdateProfile(ctx context.Context, req *models.UpdateProfile) (*models.User, error) {
	f.record("UpdateProfile")
	if req.Mode != nil {
		f.user.Mode = *req.Mode
	}
	if req.Name != nil {
		f.user.Name = *req.Name
	}
	u := *f.user
	return &u, nil
}

func (f *fakeAPI) UploadProfilePhoto(ctx context.Context, filename string, content io.Reader) (*models.User, error) {
	f.record("UploadProfilePhoto:" + filename)
	u := *f.user
	u.PhotoURL = "/uploads/" + filename
	return &u, nil
}

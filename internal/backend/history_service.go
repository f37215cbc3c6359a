package backend

import (
	"context"

	"ridepool/internal/models"
	"ridepool/internal/repositories/interfaces"
	"ridepool/internal/validators"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type HistoryService interface {
	Create(ctx context.Context, callerID primitive.ObjectID, request *models.CreateRideHistory) (*models.RideHistory, error)
	List(ctx context.Context, userID primitive.ObjectID) ([]*models.RideHistory, error)
	Update(ctx context.Context, userID, entryID primitive.ObjectID, request *models.UpdateRideHistory) (*models.RideHistory, error)
}

type historyService struct {
	historyRepo interfaces.RideHistoryRepository
	rideRepo    interfaces.RideRepository
}

func NewHistoryService(repos *interfaces.Repositories) HistoryService {
	return &historyService{
		historyRepo: repos.RideHistory,
		rideRepo:    repos.Rides,
	}
}

// Create records a participation. Riders may only record themselves; the
// ride's driver may record any participant, which is how an accept adds the
// rider.
func (s *historyService) Create(ctx context.Context, callerID primitive.ObjectID, request *models.CreateRideHistory) (*models.RideHistory, error) {
	if errs := validators.ValidateRideHistoryCreate(request); len(errs) > 0 {
		return nil, errs
	}
	ride, err := s.rideRepo.GetByID(ctx, request.RideID)
	if err != nil {
		return nil, err
	}
	if request.UserID != callerID && ride.DriverID != callerID {
		return nil, ErrForbidden
	}

	entry := &models.RideHistory{
		RideID: request.RideID,
		UserID: request.UserID,
		Role:   request.Role,
		Status: models.RideHistoryStatusActive,
	}
	if err := s.historyRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *historyService) List(ctx context.Context, userID primitive.ObjectID) ([]*models.RideHistory, error) {
	return s.historyRepo.GetByUser(ctx, userID)
}

func (s *historyService) Update(ctx context.Context, userID, entryID primitive.ObjectID, request *models.UpdateRideHistory) (*models.RideHistory, error) {
	if errs := validators.ValidateRideHistoryUpdate(request); len(errs) > 0 {
		return nil, errs
	}
	entry, err := s.historyRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, ErrForbidden
	}

	updates := map[string]interface{}{}
	if request.Status != nil {
		updates["status"] = *request.Status
	}
	if request.RatingGiven != nil {
		updates["rating_given"] = *request.RatingGiven
	}
	if request.Comment != nil {
		updates["comment"] = *request.Comment
	}
	if len(updates) == 0 {
		return entry, nil
	}
	if err := s.historyRepo.Update(ctx, entryID, updates); err != nil {
		return nil, err
	}
	return s.historyRepo.GetByID(ctx, entryID)
}

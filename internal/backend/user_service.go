package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"ridepool/internal/models"
	"ridepool/internal/repositories/interfaces"
	"ridepool/internal/utils"
	"ridepool/internal/validators"
	"ridepool/pkg/logger"
	"ridepool/pkg/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserService interface {
	Me(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, request *models.UpdateProfile) (*models.User, error)
	UploadPhoto(ctx context.Context, userID primitive.ObjectID, filename string, r io.Reader) (*models.User, error)

	Cars(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Car, error)
	AddCar(ctx context.Context, ownerID primitive.ObjectID, request *models.CarInput) (*models.Car, error)
	UpdateCar(ctx context.Context, ownerID, carID primitive.ObjectID, request *models.CarInput) (*models.Car, error)
	DeleteCar(ctx context.Context, ownerID, carID primitive.ObjectID) error

	Schedules(ctx context.Context, userID primitive.ObjectID) ([]*models.Schedule, error)
	AddSchedule(ctx context.Context, userID primitive.ObjectID, request *models.CreateSchedule) (*models.Schedule, error)

	Locations(ctx context.Context, userID primitive.ObjectID) ([]*models.SavedLocation, error)
	SaveLocation(ctx context.Context, userID primitive.ObjectID, request *models.SaveLocationRequest) (*models.SavedLocation, error)
}

type userService struct {
	repos        *interfaces.Repositories
	storage      storage.StorageProvider
	photoMaxSize uint
	logger       *logger.Logger
}

func NewUserService(repos *interfaces.Repositories, store storage.StorageProvider, photoMaxSize uint, log *logger.Logger) UserService {
	return &userService{
		repos:        repos,
		storage:      store,
		photoMaxSize: photoMaxSize,
		logger:       log,
	}
}

func (s *userService) Me(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return s.repos.Users.GetByID(ctx, userID)
}

func (s *userService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, request *models.UpdateProfile) (*models.User, error) {
	if errs := validators.ValidateUpdateProfile(request); len(errs) > 0 {
		return nil, errs
	}

	updates := map[string]interface{}{}
	if request.Name != nil {
		updates["name"] = strings.TrimSpace(*request.Name)
	}
	if request.Phone != nil {
		updates["phone"] = *request.Phone
	}
	if request.Bio != nil {
		updates["bio"] = *request.Bio
	}
	if request.Mode != nil {
		updates["mode"] = *request.Mode
	}
	if request.PushToken != nil {
		updates["push_token"] = *request.PushToken
	}
	if len(updates) > 0 {
		if err := s.repos.Users.Update(ctx, userID, updates); err != nil {
			return nil, err
		}
	}
	return s.repos.Users.GetByID(ctx, userID)
}

// UploadPhoto scales the image down to a thumbnail before storing it.
func (s *userService) UploadPhoto(ctx context.Context, userID primitive.ObjectID, filename string, r io.Reader) (*models.User, error) {
	if !utils.IsValidImageFormat(filename) {
		return nil, ErrUnsupportedImage
	}
	data, dims, err := utils.Thumbnail(r, filename, s.photoMaxSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	key := fmt.Sprintf("photos/%s/%d.jpg", userID.Hex(), time.Now().UnixNano())
	resp, err := s.storage.Upload(ctx, &storage.UploadRequest{
		Key:          key,
		Reader:       bytes.NewReader(data),
		ContentType:  "image/jpeg",
		Size:         int64(len(data)),
		CacheControl: "public, max-age=86400",
		Metadata: map[string]string{
			"user_id": userID.Hex(),
			"width":   fmt.Sprint(dims.Width),
			"height":  fmt.Sprint(dims.Height),
		},
	})
	if err != nil {
		return nil, err
	}

	if err := s.repos.Users.Update(ctx, userID, map[string]interface{}{"photo_url": resp.URL}); err != nil {
		s.storage.Delete(ctx, resp.Key)
		return nil, err
	}
	s.logger.WithUserID(userID).WithField("key", resp.Key).Info("Profile photo updated")
	return s.repos.Users.GetByID(ctx, userID)
}

func (s *userService) Cars(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Car, error) {
	return s.repos.Cars.GetByOwner(ctx, ownerID)
}

func (s *userService) AddCar(ctx context.Context, ownerID primitive.ObjectID, request *models.CarInput) (*models.Car, error) {
	if errs := validators.ValidateCar(request); len(errs) > 0 {
		return nil, errs
	}
	car := &models.Car{
		OwnerID: ownerID,
		Make:    request.Make,
		Model:   request.Model,
		Color:   request.Color,
		Plate:   request.Plate,
		Seats:   request.Seats,
	}
	if err := s.repos.Cars.Create(ctx, car); err != nil {
		return nil, err
	}
	return car, nil
}

func (s *userService) UpdateCar(ctx context.Context, ownerID, carID primitive.ObjectID, request *models.CarInput) (*models.Car, error) {
	if errs := validators.ValidateCar(request); len(errs) > 0 {
		return nil, errs
	}
	if err := s.ownCar(ctx, ownerID, carID); err != nil {
		return nil, err
	}
	err := s.repos.Cars.Update(ctx, carID, map[string]interface{}{
		"make":  request.Make,
		"model": request.Model,
		"color": request.Color,
		"plate": request.Plate,
		"seats": request.Seats,
	})
	if err != nil {
		return nil, err
	}
	return s.repos.Cars.GetByID(ctx, carID)
}

func (s *userService) DeleteCar(ctx context.Context, ownerID, carID primitive.ObjectID) error {
	if err := s.ownCar(ctx, ownerID, carID); err != nil {
		return err
	}
	return s.repos.Cars.Delete(ctx, carID)
}

func (s *userService) ownCar(ctx context.Context, ownerID, carID primitive.ObjectID) error {
	car, err := s.repos.Cars.GetByID(ctx, carID)
	if err != nil {
		return err
	}
	if car.OwnerID != ownerID {
		return ErrForbidden
	}
	return nil
}

func (s *userService) Schedules(ctx context.Context, userID primitive.ObjectID) ([]*models.Schedule, error) {
	return s.repos.Schedules.GetByUser(ctx, userID)
}

func (s *userService) AddSchedule(ctx context.Context, userID primitive.ObjectID, request *models.CreateSchedule) (*models.Schedule, error) {
	if errs := validators.ValidateSchedule(request); len(errs) > 0 {
		return nil, errs
	}
	schedule := &models.Schedule{
		UserID:        userID,
		RideID:        request.RideID,
		DayOfWeek:     request.DayOfWeek,
		DepartureTime: request.DepartureTime,
		From:          request.From,
		To:            request.To,
	}
	if err := s.repos.Schedules.Create(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

func (s *userService) Locations(ctx context.Context, userID primitive.ObjectID) ([]*models.SavedLocation, error) {
	return s.repos.Locations.GetByUser(ctx, userID)
}

func (s *userService) SaveLocation(ctx context.Context, userID primitive.ObjectID, request *models.SaveLocationRequest) (*models.SavedLocation, error) {
	if errs := validators.ValidateSaveLocation(request); len(errs) > 0 {
		return nil, errs
	}
	loc := &models.SavedLocation{
		UserID:    userID,
		Label:     strings.TrimSpace(request.Label),
		Address:   strings.TrimSpace(request.Address),
		Latitude:  request.Latitude,
		Longitude: request.Longitude,
	}
	if err := s.repos.Locations.Create(ctx, loc); err != nil {
		return nil, err
	}
	return loc, nil
}

package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"ridepool/internal/models"
	"ridepool/internal/utils"
	"ridepool/internal/validators"
	"ridepool/pkg/logger"
	"ridepool/pkg/session"
)

// MaxPhotoBytes caps profile photo uploads.
const MaxPhotoBytes = 10 << 20

type ProfileAPI interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error)
	GetProfile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, req *models.UpdateProfile) (*models.User, error)
	UploadProfilePhoto(ctx context.Context, filename string, content io.Reader) (*models.User, error)
}

// ProfileService covers sign-in, the profile screen and settings.
type ProfileService struct {
	api     ProfileAPI
	session *session.Session
	logger  *logger.Logger
}

func NewProfileService(client ProfileAPI, sess *session.Session, log *logger.Logger) *ProfileService {
	if log == nil {
		log = logger.Nop()
	}
	return &ProfileService{api: client, session: sess, logger: log}
}

func (s *ProfileService) Login(ctx context.Context, email, password string) (*models.User, error) {
	req := &models.LoginRequest{Email: email, Password: password}
	if errs := validators.ValidateLogin(req); len(errs) > 0 {
		return nil, errs
	}

	resp, err := s.api.Login(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return s.signIn(resp)
}

func (s *ProfileService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if errs := validators.ValidateRegister(req); len(errs) > 0 {
		return nil, errs
	}

	resp, err := s.api.Register(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}
	return s.signIn(resp)
}

func (s *ProfileService) signIn(resp *models.AuthResponse) (*models.User, error) {
	if err := s.session.SignIn(resp.Token, resp.User); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	if resp.User != nil {
		s.logger.WithUserID(resp.User.ID).Info("Signed in")
	}
	return resp.User, nil
}

func (s *ProfileService) Profile(ctx context.Context) (*models.User, error) {
	user, err := s.api.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return user, nil
}

func (s *ProfileService) Update(ctx context.Context, req *models.UpdateProfile) (*models.User, error) {
	if errs := validators.ValidateUpdateProfile(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.api.UpdateProfile(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if req.Mode != nil {
		if err := s.session.SetMode(user.Mode); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// SwitchMode flips between rider and driver on the backend and in the
// local session.
func (s *ProfileService) SwitchMode(ctx context.Context, mode models.UserMode) (*models.User, error) {
	return s.Update(ctx, &models.UpdateProfile{Mode: &mode})
}

// UploadPhoto sends the image at path as the new profile photo.
func (s *ProfileService) UploadPhoto(ctx context.Context, path string) (*models.User, error) {
	if !utils.IsValidImageFormat(path) {
		return nil, validators.ValidationErrors{{Field: "photo", Message: "Photo must be a JPEG or PNG image"}}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open photo: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat photo: %w", err)
	}
	if info.Size() > MaxPhotoBytes {
		return nil, validators.ValidationErrors{{Field: "photo", Message: "Photo must be 10MB or smaller"}}
	}

	user, err := s.api.UploadProfilePhoto(ctx, filepath.Base(path), file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload photo: %w", err)
	}
	return user, nil
}

// Logout forgets the token. There is no server-side session to end.
func (s *ProfileService) Logout() error {
	return s.session.Clear()
}

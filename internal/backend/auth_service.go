package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ridepool/internal/config"
	"ridepool/internal/models"
	"ridepool/internal/repositories/interfaces"
	"ridepool/internal/utils"
	"ridepool/internal/validators"
	"ridepool/pkg/logger"
)

type AuthService interface {
	Register(ctx context.Context, request *models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, request *models.LoginRequest) (*models.AuthResponse, error)
}

type authService struct {
	userRepo interfaces.UserRepository
	security *config.SecurityConfig
	logger   *logger.Logger
}

func NewAuthService(userRepo interfaces.UserRepository, security *config.SecurityConfig, log *logger.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		security: security,
		logger:   log,
	}
}

func (s *authService) Register(ctx context.Context, request *models.RegisterRequest) (*models.AuthResponse, error) {
	if errs := validators.ValidateRegister(request); len(errs) > 0 {
		return nil, errs
	}
	if len(request.Password) < s.security.PasswordMinLength {
		return nil, validators.ValidationErrors{{
			Field:   "password",
			Tag:     "min",
			Message: fmt.Sprintf("password must be at least %d characters", s.security.PasswordMinLength),
		}}
	}

	hash, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	mode := request.Mode
	if mode == "" {
		mode = models.ModeRider
	}
	user := &models.User{
		Name:         strings.TrimSpace(request.Name),
		Email:        request.Email,
		Phone:        request.Phone,
		Mode:         mode,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.WithUserID(user.ID).Info("User registered")
	return s.issue(user)
}

func (s *authService) Login(ctx context.Context, request *models.LoginRequest) (*models.AuthResponse, error) {
	if errs := validators.ValidateLogin(request); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.userRepo.GetByEmail(ctx, request.Email)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			s.logger.WithField("email", request.Email).Warn("Login attempt with invalid credentials")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPassword(user.PasswordHash, request.Password) {
		s.logger.WithUserID(user.ID).Warn("Login attempt with invalid credentials")
		return nil, ErrInvalidCredentials
	}

	s.logger.WithUserID(user.ID).Info("User logged in")
	return s.issue(user)
}

func (s *authService) issue(user *models.User) (*models.AuthResponse, error) {
	token, err := utils.GenerateAccessToken(user.ID, string(user.Mode), user.Email, s.security.JWTSecret, s.security.JWTAccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	return &models.AuthResponse{
		Token:     token,
		ExpiresIn: int64(s.security.JWTAccessTokenTTL.Seconds()),
		User:      user,
	}, nil
}

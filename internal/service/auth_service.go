package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/aklilumengesha/Battery-Swap/internal/models"
	"github.com/aklilumengesha/Battery-Swap/internal/password"
	"github.com/aklilumengesha/Battery-Swap/internal/repository"
)

// Auth failure modes surfaced to handlers.
var (
	ErrEmailInUse         = errors.New("auth: email already registered")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrVehicleRequired    = errors.New("auth: vehicle is required for consumers")
)

// UserRepository defines the storage contract used by the auth service.
type UserRepository interface {
	Create(ctx context.Context, user *models.User, vehicleID int64) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetConsumerProfile(ctx context.Context, userID int64) (*models.ConsumerProfile, error)
}

// AuthService contains registration and sign-in logic.
type AuthService struct {
	repo      UserRepository
	hasher    password.Hasher
	tokenizer *TokenService
	logger    *zap.Logger
}

// NewAuthService builds AuthService.
func NewAuthService(repo UserRepository, hasher password.Hasher, tokenizer *TokenService, logger *zap.Logger) *AuthService {
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		tokenizer: tokenizer,
		logger:    logger,
	}
}

// SignupInput carries registration fields.
type SignupInput struct {
	Name      string
	Email     string
	Password  string
	UserType  string
	VehicleID int64
}

// Signup registers a new user. Consumers must name a vehicle so battery
// compatibility can be resolved at station lookup.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, errors.New("auth: email required")
	}
	if input.Password == "" {
		return nil, errors.New("auth: password required")
	}
	userType := input.UserType
	if userType == "" {
		userType = models.UserTypeConsumer
	}
	if userType == models.UserTypeConsumer && input.VehicleID == 0 {
		return nil, ErrVehicleRequired
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		UserType:     userType,
	}

	if err := s.repo.Create(ctx, user, input.VehicleID); err != nil {
		return nil, err
	}

	s.logger.Info("user signed up", zap.Int64("user_id", user.ID), zap.String("email", user.Email))
	return user, nil
}

// SignIn authenticates a user and produces an access/refresh pair. For
// consumers the registered vehicle is returned alongside the user.
func (s *AuthService) SignIn(ctx context.Context, email, pass string) (TokenPair, *models.User, *models.ConsumerProfile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || pass == "" {
		return TokenPair{}, nil, nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return TokenPair{}, nil, nil, ErrInvalidCredentials
		}
		return TokenPair{}, nil, nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, pass); err != nil {
		return TokenPair{}, nil, nil, ErrInvalidCredentials
	}

	pair, err := s.tokenizer.GeneratePair(user.ID, user.UserType)
	if err != nil {
		return TokenPair{}, nil, nil, err
	}

	var profile *models.ConsumerProfile
	if user.UserType == models.UserTypeConsumer {
		profile, err = s.repo.GetConsumerProfile(ctx, user.ID)
		if err != nil && !errors.Is(err, repository.ErrConsumerNotFound) {
			return TokenPair{}, nil, nil, err
		}
	}

	return pair, user, profile, nil
}

package service

import (
	"context"
	"database/sql"
	stdErrors "errors"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type userService struct {
	repo      repository.UserRepository
	rateLimit repository.RateLimitRepository
	jwtKey    []byte
	tokenTTL  time.Duration
	sanitizer *bluemonday.Policy
}

func NewUserService(repo repository.UserRepository, rateLimit repository.RateLimitRepository, jwtKey []byte, tokenTTL time.Duration) UserService {
	return &userService{
		repo:      repo,
		rateLimit: rateLimit,
		jwtKey:    jwtKey,
		tokenTTL:  tokenTTL,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Register creates a CUSTOMER account. Admins are provisioned out of band.
func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil && !stdErrors.Is(err, sql.ErrNoRows) {
		return nil, errors.DatabaseError("Failed to check email").WithError(err)
	}

	if existing != nil {
		return nil, errors.DuplicateEntryError("Email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.InternalError("Failed to secure password").WithError(err)
	}

	user := &models.User{
		Name:     strings.TrimSpace(s.sanitizer.Sanitize(req.Name)),
		Email:    email,
		Password: string(hashedPassword),
		Role:     models.RoleCustomer,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, errors.DuplicateEntryError("Email already registered")
		}

		return nil, errors.DatabaseError("Failed to create user").WithError(err)
	}

	return user, nil
}

func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	allowed, remaining, retryAfter, err := s.rateLimit.CheckLoginRateLimit(ctx, email)
	if err != nil {
		return nil, errors.ThirdPartyError("Rate limit check failed").WithError(err)
	}

	if !allowed {
		return &models.LoginResponse{
			Success:    false,
			Message:    "Too many login attempts. Please try again later.",
			RetryAfter: retryAfter,
		}, nil
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil && !stdErrors.Is(err, sql.ErrNoRows) {
		return nil, errors.DatabaseError("Failed to load user").WithError(err)
	}

	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return &models.LoginResponse{
			Success:        false,
			Message:        "Invalid email or password",
			RemainingTries: remaining,
		}, nil
	}

	now := time.Now()
	claims := &models.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtKey)
	if err != nil {
		return nil, errors.InternalError("Failed to generate authentication token").WithError(err)
	}

	return &models.LoginResponse{
		Success:   true,
		Token:     tokenString,
		ExpiresIn: int(s.tokenTTL.Seconds()),
	}, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.NotFoundError("User not found")
		}

		return nil, errors.DatabaseError("Failed to load user").WithError(err)
	}

	return user, nil
}

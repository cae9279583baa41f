package services

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/hotelcapital/raise-engine/internal/auth"
	"github.com/hotelcapital/raise-engine/internal/errors"
	"github.com/hotelcapital/raise-engine/internal/models"
	"github.com/hotelcapital/raise-engine/internal/repository"
	"github.com/hotelcapital/raise-engine/pkg/config"
)

// authServiceImpl implements AuthService
type authServiceImpl struct {
	repos      *repository.Repositories
	jwtService *auth.JWTService
	hash       func(string) (string, error)
}

// newAuthService creates a new auth service implementation
func newAuthService(repos *repository.Repositories, cfg *config.Config) AuthService {
	return &authServiceImpl{
		repos:      repos,
		jwtService: auth.NewJWTService(cfg.JWTSecret),
		hash:       auth.HashPassword,
	}
}

// Login authenticates a user and returns a token
func (s *authServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.repos.User.GetByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.Unauthorized("Invalid credentials", nil)
		}
		return nil, errors.DatabaseError("Failed to load user", err)
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		return nil, errors.Unauthorized("Invalid credentials", nil)
	}

	token, expiresAt, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, errors.InternalError("Failed to generate token", err)
	}

	user.PasswordHash = ""
	return &models.LoginResponse{
		Token:     token,
		User:      *user,
		ExpiresAt: expiresAt,
	}, nil
}

// Register creates a new user account. New accounts default to the viewer role.
func (s *authServiceImpl) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	hashed, err := s.hash(req.Password)
	if err != nil {
		return nil, errors.InternalError("Failed to hash password", err)
	}

	role := req.Role
	if role == "" {
		role = string(models.RoleViewer)
	}

	user := &models.User{
		Email:        strings.ToLower(req.Email),
		PasswordHash: hashed,
		Role:         role,
	}

	if err := s.repos.User.Create(ctx, user); err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			return nil, errors.Conflict("User with this email already exists", err)
		}
		return nil, errors.DatabaseError("Failed to create user", err)
	}

	user.PasswordHash = ""
	return user, nil
}

package service

import (
	"context"

	"github.com/pkg/errors"

	"github.com/devtrail/bootcamp-api/internal/models"
	"github.com/devtrail/bootcamp-api/internal/utils"
)

// ErrInvalidCredentials hides whether the email or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserStore is the slice of the store the service needs.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type UserService struct {
	store UserStore
}

func NewUserService(s UserStore) *UserService {
	return &UserService{store: s}
}

// CreateUser hashes the password, applies defaults and persists the account.
// Duplicate-email failures from the store pass through for the caller to
// translate.
func (s *UserService) CreateUser(ctx context.Context, name, email, password string, role models.Role) (*models.User, error) {
	if role == "" {
		role = models.RoleUser
	}
	if !models.ValidRole(role) {
		return nil, errors.Errorf("invalid role %q", role)
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, errors.Wrap(err, "hashing password")
	}
	u := &models.User{
		Name:         name,
		Email:        email,
		Role:         role,
		PasswordHash: hash,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate returns the account matching email+password, or
// ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	ok, err := utils.ComparePasswordAndHash(password, u.PasswordHash)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

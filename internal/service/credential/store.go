// Package credential persists user accounts and owns password hashing.
package credential

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/logdeltra/delivery-api/internal/domain"
	"github.com/logdeltra/delivery-api/internal/ports"
)

type registration struct {
	EmailID  string      `json:"emailId" validate:"required,email"`
	Password string      `json:"password" validate:"required"`
	Role     domain.Role `json:"role" validate:"required,oneof=admin agent customer store"`
}

type Store struct {
	repo ports.UserRepository
	cost int
	log  *zap.Logger
}

// NewStore builds a credential store hashing with the given bcrypt cost.
// A cost outside bcrypt's range falls back to bcrypt.DefaultCost.
func NewStore(repo ports.UserRepository, cost int, log *zap.Logger) *Store {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Store{repo: repo, cost: cost, log: log}
}

// Create validates the registration, hashes the password and persists a new
// user with an empty location list.
func (s *Store) Create(ctx context.Context, emailID, password string, role domain.Role) (*domain.User, error) {
	reg := registration{
		EmailID:  domain.NormalizeEmail(emailID),
		Password: password,
		Role:     role,
	}
	if err := domain.Validate(reg); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		EmailID:      reg.EmailID,
		PasswordHash: string(hash),
		Role:         reg.Role,
		Locations:    []domain.Location{},
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user created", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

func (s *Store) FindByEmail(ctx context.Context, emailID string) (*domain.User, error) {
	email := domain.NormalizeEmail(emailID)
	if email == "" {
		return nil, nil
	}
	return s.repo.FindByEmail(ctx, email)
}

func (s *Store) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, nil
	}
	return s.repo.FindByID(ctx, id)
}

// VerifyPassword compares password against the stored hash. The comparison
// is constant-time inside bcrypt.
func (s *Store) VerifyPassword(user *domain.User, password string) bool {
	if user == nil || user.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

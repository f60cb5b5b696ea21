package ports

import (
	"context"

	"github.com/logdeltra/delivery-api/internal/domain"
)

// UserRepository persists users and their embedded location list.
// Lookups return (nil, nil) when nothing matches.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// ReplaceLocations overwrites the location list of a user if its
	// LocationsVersion still equals expectedVersion, and returns the stored
	// user. It fails with domain.ErrUserNotFound when the user is gone and
	// with ErrVersionMismatch when another write got there first.
	ReplaceLocations(ctx context.Context, userID string, expectedVersion int64, locations []domain.Location) (*domain.User, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByOrderID(ctx context.Context, orderID string) (*domain.Order, error)
}

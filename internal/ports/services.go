package ports

import (
	"context"

	"github.com/logdeltra/delivery-api/internal/domain"
)

type AuthService interface {
	Register(ctx context.Context, emailID, password string, role domain.Role) (*domain.User, error)
	Login(ctx context.Context, emailID, password string) (string, error)
	Authenticate(ctx context.Context, bearerToken string) (*domain.User, error)
}

// CredentialStore owns password hashing and user lookups.
type CredentialStore interface {
	Create(ctx context.Context, emailID, password string, role domain.Role) (*domain.User, error)
	FindByEmail(ctx context.Context, emailID string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	VerifyPassword(user *domain.User, password string) bool
}

type LocationService interface {
	AddLocation(ctx context.Context, userID string, loc domain.Location) (*domain.User, error)
	RemoveLocation(ctx context.Context, userID, name string) (*domain.User, error)
	UpdateLocation(ctx context.Context, userID, name string, patch domain.LocationPatch) (*domain.User, error)
	ListLocations(ctx context.Context, userID string) ([]domain.Location, error)
}

// CreateOrderRequest is what Order Intake needs to place an order.
type CreateOrderRequest struct {
	CustomerEmail  string
	Items          []domain.OrderItem
	DropAddressNo  int
	StoreAddressNo *int
}

type OrderService interface {
	CreateOrder(ctx context.Context, principal *domain.User, req CreateOrderRequest) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	UpdateOrder(ctx context.Context, orderID string, updates map[string]interface{}) (*domain.Order, error)
}

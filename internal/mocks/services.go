package mocks

import (
	"context"

	"github.com/logdeltra/delivery-api/internal/domain"
	"github.com/logdeltra/delivery-api/internal/ports"
)

// MockAuthService is a mock implementation of AuthService interface
type MockAuthService struct {
	RegisterFunc     func(ctx context.Context, emailID, password string, role domain.Role) (*domain.User, error)
	LoginFunc        func(ctx context.Context, emailID, password string) (string, error)
	AuthenticateFunc func(ctx context.Context, bearerToken string) (*domain.User, error)
}

var _ ports.AuthService = (*MockAuthService)(nil)

func (m *MockAuthService) Register(ctx context.Context, emailID, password string, role domain.Role) (*domain.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, emailID, password, role)
	}
	return &domain.User{EmailID: emailID, Role: role}, nil
}

func (m *MockAuthService) Login(ctx context.Context, emailID, password string) (string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, emailID, password)
	}
	return "", nil
}

func (m *MockAuthService) Authenticate(ctx context.Context, bearerToken string) (*domain.User, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, bearerToken)
	}
	return nil, domain.ErrInvalidToken
}

// MockOrderService is a mock implementation of OrderService interface
type MockOrderService struct {
	CreateOrderFunc func(ctx context.Context, principal *domain.User, req ports.CreateOrderRequest) (*domain.Order, error)
	GetOrderFunc    func(ctx context.Context, orderID string) (*domain.Order, error)
	UpdateOrderFunc func(ctx context.Context, orderID string, updates map[string]interface{}) (*domain.Order, error)
}

var _ ports.OrderService = (*MockOrderService)(nil)

func (m *MockOrderService) CreateOrder(ctx context.Context, principal *domain.User, req ports.CreateOrderRequest) (*domain.Order, error) {
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, principal, req)
	}
	return &domain.Order{OrderID: "order-1", Status: domain.OrderStatusQueued}, nil
}

func (m *MockOrderService) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	if m.GetOrderFunc != nil {
		return m.GetOrderFunc(ctx, orderID)
	}
	return nil, domain.ErrOrderNotFound
}

func (m *MockOrderService) UpdateOrder(ctx context.Context, orderID string, updates map[string]interface{}) (*domain.Order, error) {
	if m.UpdateOrderFunc != nil {
		return m.UpdateOrderFunc(ctx, orderID, updates)
	}
	return nil, domain.ErrOrderUpdateUnsupported
}

// MockLocationService is a mock implementation of LocationService interface
type MockLocationService struct {
	AddLocationFunc    func(ctx context.Context, userID string, loc domain.Location) (*domain.User, error)
	RemoveLocationFunc func(ctx context.Context, userID, name string) (*domain.User, error)
	UpdateLocationFunc func(ctx context.Context, userID, name string, patch domain.LocationPatch) (*domain.User, error)
	ListLocationsFunc  func(ctx context.Context, userID string) ([]domain.Location, error)
}

var _ ports.LocationService = (*MockLocationService)(nil)

func (m *MockLocationService) AddLocation(ctx context.Context, userID string, loc domain.Location) (*domain.User, error) {
	if m.AddLocationFunc != nil {
		return m.AddLocationFunc(ctx, userID, loc)
	}
	return &domain.User{ID: userID, Locations: []domain.Location{loc}}, nil
}

func (m *MockLocationService) RemoveLocation(ctx context.Context, userID, name string) (*domain.User, error) {
	if m.RemoveLocationFunc != nil {
		return m.RemoveLocationFunc(ctx, userID, name)
	}
	return &domain.User{ID: userID}, nil
}

func (m *MockLocationService) UpdateLocation(ctx context.Context, userID, name string, patch domain.LocationPatch) (*domain.User, error) {
	if m.UpdateLocationFunc != nil {
		return m.UpdateLocationFunc(ctx, userID, name, patch)
	}
	return &domain.User{ID: userID}, nil
}

func (m *MockLocationService) ListLocations(ctx context.Context, userID string) ([]domain.Location, error) {
	if m.ListLocationsFunc != nil {
		return m.ListLocationsFunc(ctx, userID)
	}
	return []domain.Location{}, nil
}

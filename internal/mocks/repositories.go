package mocks

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/logdeltra/delivery-api/internal/domain"
	"github.com/logdeltra/delivery-api/internal/ports"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	CreateFunc           func(ctx context.Context, user *domain.User) error
	FindByIDFunc         func(ctx context.Context, id string) (*domain.User, error)
	FindByEmailFunc      func(ctx context.Context, email string) (*domain.User, error)
	ReplaceLocationsFunc func(ctx context.Context, userID string, expectedVersion int64, locations []domain.Location) (*domain.User, error)
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockUserRepository) ReplaceLocations(ctx context.Context, userID string, expectedVersion int64, locations []domain.Location) (*domain.User, error) {
	if m.ReplaceLocationsFunc != nil {
		return m.ReplaceLocationsFunc(ctx, userID, expectedVersion, locations)
	}
	return nil, nil
}

// UserStore is an in-memory UserRepository with the same version check as
// the real stores. It is safe for concurrent use.
type UserStore struct {
	mu     sync.Mutex
	users  map[string]domain.User
	nextID int

	// Writes counts successful ReplaceLocations calls.
	Writes int
	// BeforeReplace, when set, runs before every ReplaceLocations with the
	// store unlocked, so tests can interleave a competing write.
	BeforeReplace func(userID string)
}

var _ ports.UserRepository = (*UserStore)(nil)

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]domain.User)}
}

func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.EmailID == user.EmailID {
			return domain.ErrDuplicateEmail
		}
	}

	s.nextID++
	now := time.Now().UTC()
	user.ID = "user-" + strconv.Itoa(s.nextID)
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Locations == nil {
		user.Locations = []domain.Location{}
	}
	s.users[user.ID] = copyUser(*user)
	return nil
}

func (s *UserStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	out := copyUser(u)
	return &out, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.EmailID == email {
			out := copyUser(u)
			return &out, nil
		}
	}
	return nil, nil
}

func (s *UserStore) ReplaceLocations(ctx context.Context, userID string, expectedVersion int64, locations []domain.Location) (*domain.User, error) {
	if s.BeforeReplace != nil {
		s.BeforeReplace(userID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if u.LocationsVersion != expectedVersion {
		return nil, ports.ErrVersionMismatch
	}

	locs := make([]domain.Location, len(locations))
	for i, l := range locations {
		if l.ID == "" {
			l.ID = fmt.Sprintf("%s-loc-%d-%d", userID, u.LocationsVersion+1, i)
		}
		locs[i] = l
	}
	u.Locations = locs
	u.LocationsVersion++
	u.UpdatedAt = time.Now().UTC()
	s.users[userID] = u
	s.Writes++

	out := copyUser(u)
	return &out, nil
}

// Delete removes a user, as if the account had been dropped out of band.
func (s *UserStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

func copyUser(u domain.User) domain.User {
	u.Locations = u.CloneLocations()
	return u
}

// MockOrderRepository keeps orders in memory unless a func field overrides
// the call.
type MockOrderRepository struct {
	CreateFunc        func(ctx context.Context, order *domain.Order) error
	FindByOrderIDFunc func(ctx context.Context, orderID string) (*domain.Order, error)

	mu     sync.Mutex
	orders map[string]domain.Order
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{orders: make(map[string]domain.Order)}
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, order)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.orders == nil {
		m.orders = make(map[string]domain.Order)
	}
	order.ID = "order-" + strconv.Itoa(len(m.orders)+1)
	order.CreatedAt = time.Now().UTC()
	order.UpdatedAt = order.CreatedAt
	m.orders[order.OrderID] = *order
	return nil
}

func (m *MockOrderRepository) FindByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	if m.FindByOrderIDFunc != nil {
		return m.FindByOrderIDFunc(ctx, orderID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

// Count returns the number of stored orders.
func (m *MockOrderRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

package order

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/logdeltra/delivery-api/internal/adapter/queue"
	"github.com/logdeltra/delivery-api/internal/domain"
	"github.com/logdeltra/delivery-api/internal/mocks"
	"github.com/logdeltra/delivery-api/internal/ports"
	"github.com/logdeltra/delivery-api/internal/service/credential"
)

type fixture struct {
	service *Service
	orders  *mocks.MockOrderRepository
	mq      *mocks.MockMessageQueue
	users   map[domain.Role]*domain.User
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	log := zap.NewNop()
	creds := credential.NewStore(mocks.NewUserStore(), bcrypt.MinCost, log)

	users := make(map[domain.Role]*domain.User)
	for _, role := range []domain.Role{domain.RoleCustomer, domain.RoleAdmin, domain.RoleStore, domain.RoleAgent} {
		u, err := creds.Create(ctx, string(role)+"@b.com", "pw", role)
		if err != nil {
			t.Fatalf("seed %s: %v", role, err)
		}
		users[role] = u
	}

	orders := mocks.NewMockOrderRepository()
	mq := mocks.NewMockMessageQueue()
	return fixture{
		service: NewService(orders, creds, mq, log).(*Service),
		orders:  orders,
		mq:      mq,
		users:   users,
	}
}

func validRequest(email string) ports.CreateOrderRequest {
	return ports.CreateOrderRequest{
		CustomerEmail: email,
		Items:         []domain.OrderItem{{Name: "rice", Quantity: 2, Price: 3.5}},
		DropAddressNo: 1,
	}
}

func TestCreateOrder_ForSelf(t *testing.T) {
	// Arrange
	f := newFixture(t)
	customer := f.users[domain.RoleCustomer]
	storeAddr := 4
	req := validRequest("Customer@b.com")
	req.StoreAddressNo = &storeAddr

	// Act
	order, err := f.service.CreateOrder(context.Background(), customer, req)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if order.OrderID == "" {
		t.Error("expected an order id")
	}
	if order.CustomerID != customer.ID {
		t.Errorf("expected customer %s, got %s", customer.ID, order.CustomerID)
	}
	if order.Status != domain.OrderStatusQueued {
		t.Errorf("expected queued, got %s", order.Status)
	}
	if order.StoreAddressNo == nil || *order.StoreAddressNo != 4 {
		t.Errorf("expected store address 4, got %v", order.StoreAddressNo)
	}

	stored, err := f.service.GetOrder(context.Background(), order.OrderID)
	if err != nil || stored.CustomerID != customer.ID {
		t.Fatalf("expected stored order, got %v, %v", stored, err)
	}

	msgs := f.mq.GetPublishedMessages(queue.SubjectOrderCreated)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 order.created event, got %d", len(msgs))
	}
	var payload queue.OrderCreated
	if _, err := queue.DecodeEvent(msgs[0], &payload); err != nil || payload.OrderID != order.OrderID {
		t.Errorf("unexpected event %+v, %v", payload, err)
	}
}

func TestCreateOrder_CustomerNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.CreateOrder(context.Background(), f.users[domain.RoleAdmin], validRequest("unknown@x.com"))

	if !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
	if f.orders.Count() != 0 {
		t.Error("expected nothing persisted")
	}
}

func TestCreateOrder_OnBehalfOfAnother(t *testing.T) {
	tests := []struct {
		role    domain.Role
		allowed bool
	}{
		{domain.RoleAdmin, true},
		{domain.RoleStore, true},
		{domain.RoleAgent, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			f := newFixture(t)

			_, err := f.service.CreateOrder(context.Background(), f.users[tt.role], validRequest("customer@b.com"))

			if tt.allowed && err != nil {
				t.Fatalf("expected %s to order for a customer, got %v", tt.role, err)
			}
			if !tt.allowed && !errors.Is(err, domain.ErrForbidden) {
				t.Fatalf("expected ErrForbidden, got %v", err)
			}
		})
	}
}

func TestCreateOrder_InvalidItems(t *testing.T) {
	f := newFixture(t)
	customer := f.users[domain.RoleCustomer]

	tests := map[string][]domain.OrderItem{
		"no items":      nil,
		"zero quantity": {{Name: "rice", Quantity: 0, Price: 1}},
		"negative":      {{Name: "rice", Quantity: 1, Price: -1}},
		"unnamed":       {{Quantity: 1, Price: 1}},
	}

	for name, items := range tests {
		t.Run(name, func(t *testing.T) {
			req := validRequest(customer.EmailID)
			req.Items = items

			_, err := f.service.CreateOrder(context.Background(), customer, req)

			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateOrder_RepositoryError(t *testing.T) {
	f := newFixture(t)
	f.orders.CreateFunc = func(ctx context.Context, order *domain.Order) error {
		return domain.StoreError("insert order", errors.New("disk full"))
	}
	customer := f.users[domain.RoleCustomer]

	_, err := f.service.CreateOrder(context.Background(), customer, validRequest(customer.EmailID))

	if !errors.Is(err, domain.ErrStore) {
		t.Fatalf("expected ErrStore, got %v", err)
	}
	if len(f.mq.GetPublishedMessages(queue.SubjectOrderCreated)) != 0 {
		t.Error("expected no event for a failed order")
	}
}

func TestUpdateOrder(t *testing.T) {
	f := newFixture(t)
	customer := f.users[domain.RoleCustomer]
	order, err := f.service.CreateOrder(context.Background(), customer, validRequest(customer.EmailID))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	_, err = f.service.UpdateOrder(context.Background(), "missing", map[string]interface{}{"status": "fulfilled"})
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}

	_, err = f.service.UpdateOrder(context.Background(), order.OrderID, map[string]interface{}{"status": "fulfilled"})
	if !errors.Is(err, domain.ErrNotImplemented) {
		t.Errorf("expected ErrNotImplemented, got %v", err)
	}

	if _, err := f.service.GetOrder(context.Background(), ""); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error for empty id, got %v", err)
	}
}

func TestCreateOrder_WithoutPrincipal(t *testing.T) {
	// Arrange
	f := newFixture(t)

	// Act
	order, err := f.service.CreateOrder(context.Background(), nil, validRequest("customer@b.com"))

	// Assert
	if !errors.Is(err, domain.ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
	if order != nil {
		t.Errorf("expected no order, got %+v", order)
	}
	if f.orders.Count() != 0 {
		t.Errorf("expected nothing stored, got %d orders", f.orders.Count())
	}
}

package order

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/logdeltra/delivery-api/internal/adapter/queue"
	"github.com/logdeltra/delivery-api/internal/domain"
	"github.com/logdeltra/delivery-api/internal/observability/telemetry"
	"github.com/logdeltra/delivery-api/internal/ports"
)

var tracer = otel.Tracer("github.com/logdeltra/delivery-api/internal/service/order")

type Service struct {
	orders      ports.OrderRepository
	credentials ports.CredentialStore
	mq          queue.MessageQueue
	log         *zap.Logger
}

func NewService(orders ports.OrderRepository, credentials ports.CredentialStore, mq queue.MessageQueue, log *zap.Logger) ports.OrderService {
	return &Service{
		orders:      orders,
		credentials: credentials,
		mq:          mq,
		log:         log,
	}
}

// CreateOrder resolves the customer by email and stores a queued order for
// them. Only admins and stores may place orders for someone else.
func (s *Service) CreateOrder(ctx context.Context, principal *domain.User, req ports.CreateOrderRequest) (*domain.Order, error) {
	ctx, span := tracer.Start(ctx, "order.Create")
	defer span.End()

	if principal == nil {
		return nil, domain.ErrMissingToken
	}

	customer, err := s.credentials.FindByEmail(ctx, req.CustomerEmail)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrCustomerNotFound
	}
	if !canOrderFor(principal, customer) {
		s.log.Warn("order for another account rejected",
			zap.String("principal_id", principal.ID),
			zap.String("customer_id", customer.ID),
		)
		return nil, domain.ErrActOnOtherAccount
	}

	order := &domain.Order{
		OrderID:        uuid.NewString(),
		CustomerID:     customer.ID,
		Items:          req.Items,
		DropAddressNo:  req.DropAddressNo,
		StoreAddressNo: req.StoreAddressNo,
		Status:         domain.OrderStatusQueued,
	}
	if err := domain.Validate(order); err != nil {
		return nil, err
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("order.id", order.OrderID))
	telemetry.OrdersCreatedTotal.Inc()

	if err := queue.PublishEvent(s.mq, queue.SubjectOrderCreated, queue.OrderCreated{
		OrderID:       order.OrderID,
		CustomerID:    order.CustomerID,
		ItemCount:     len(order.Items),
		DropAddressNo: order.DropAddressNo,
	}); err != nil {
		s.log.Warn("failed to publish order.created", zap.String("order_id", order.OrderID), zap.Error(err))
	}

	s.log.Info("order placed",
		zap.String("order_id", order.OrderID),
		zap.String("customer_id", order.CustomerID),
		zap.Int("items", len(order.Items)),
	)
	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	if orderID == "" {
		return nil, domain.NewValidationError("orderId", "is required")
	}
	order, err := s.orders.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

// UpdateOrder only checks that the order exists. Which fields may change has
// not been decided, so every update is refused with ErrOrderUpdateUnsupported.
func (s *Service) UpdateOrder(ctx context.Context, orderID string, updates map[string]interface{}) (*domain.Order, error) {
	if _, err := s.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}
	s.log.Info("order update refused", zap.String("order_id", orderID), zap.Int("fields", len(updates)))
	return nil, domain.ErrOrderUpdateUnsupported
}

func canOrderFor(principal, customer *domain.User) bool {
	return principal.CanActFor(customer) || principal.Role == domain.RoleStore
}

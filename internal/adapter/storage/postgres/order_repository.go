package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/logdeltra/delivery-api/internal/domain"
	"github.com/logdeltra/delivery-api/internal/observability/telemetry"
	"github.com/logdeltra/delivery-api/internal/ports"
)

type OrderRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewOrderRepository(db *gorm.DB, log *zap.Logger) ports.OrderRepository {
	return &OrderRepository{
		db:  db,
		log: log,
	}
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	defer telemetry.ObserveStore(driverName, "orders.insert", time.Now())

	rec := orderRecord{
		ID:             uuid.NewString(),
		OrderID:        order.OrderID,
		CustomerID:     order.CustomerID,
		Items:          order.Items,
		DropAddressNo:  order.DropAddressNo,
		AgentID:        optionalString(order.AgentID),
		StoreID:        optionalString(order.StoreID),
		StoreAddressNo: order.StoreAddressNo,
		Status:         string(order.Status),
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return domain.StoreError("insert order", err)
	}

	*order = *rec.toDomain()
	return nil
}

func (r *OrderRepository) FindByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	defer telemetry.ObserveStore(driverName, "orders.find_by_order_id", time.Now())

	var rec orderRecord
	err := r.db.WithContext(ctx).First(&rec, "order_id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, domain.StoreError("find order", err)
	}
	return rec.toDomain(), nil
}

package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/logdeltra/delivery-api/internal/domain"
	"github.com/logdeltra/delivery-api/internal/observability/telemetry"
	"github.com/logdeltra/delivery-api/internal/ports"
)

type OrderRepository struct {
	coll *mongo.Collection
	log  *zap.Logger
}

func NewOrderRepository(db *mongo.Database, log *zap.Logger) ports.OrderRepository {
	return &OrderRepository{
		coll: db.Collection(ordersCollection),
		log:  log,
	}
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	defer telemetry.ObserveStore(driverName, "orders.insert", time.Now())

	customerID, err := primitive.ObjectIDFromHex(order.CustomerID)
	if err != nil {
		return domain.NewValidationError("customerId", "is not a valid identifier")
	}
	agentID, err := optionalObjectID(order.AgentID)
	if err != nil {
		return domain.NewValidationError("agentId", "is not a valid identifier")
	}
	storeID, err := optionalObjectID(order.StoreID)
	if err != nil {
		return domain.NewValidationError("storeId", "is not a valid identifier")
	}

	now := time.Now().UTC()
	doc := orderDocument{
		ID:             primitive.NewObjectID(),
		OrderID:        order.OrderID,
		CustomerID:     customerID,
		Items:          make([]orderItemDocument, 0, len(order.Items)),
		DropAddressNo:  order.DropAddressNo,
		AgentID:        agentID,
		StoreID:        storeID,
		StoreAddressNo: order.StoreAddressNo,
		Status:         string(order.Status),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, it := range order.Items {
		doc.Items = append(doc.Items, orderItemDocument{Name: it.Name, Quantity: it.Quantity, Price: it.Price})
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return domain.StoreError("insert order", err)
	}

	*order = *doc.toDomain()
	return nil
}

func (r *OrderRepository) FindByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	defer telemetry.ObserveStore(driverName, "orders.find_by_order_id", time.Now())

	var doc orderDocument
	err := r.coll.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, domain.StoreError("find order", err)
	}
	return doc.toDomain(), nil
}

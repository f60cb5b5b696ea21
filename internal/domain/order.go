package domain

import "time"

type OrderStatus string

const (
	OrderStatusQueued     OrderStatus = "queued"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusFulfilled  OrderStatus = "fulfilled"
)

type Order struct {
	ID             string      `json:"id"`
	OrderID        string      `json:"orderId" validate:"required"`
	CustomerID     string      `json:"customerId" validate:"required"`
	Items          []OrderItem `json:"items" validate:"required,min=1,dive"`
	DropAddressNo  int         `json:"dropAddressNo"`
	AgentID        string      `json:"agentId,omitempty"`
	StoreID        string      `json:"storeId,omitempty"`
	StoreAddressNo *int        `json:"storeAddressNo,omitempty"`
	Status         OrderStatus `json:"status" validate:"required,oneof=queued processing fulfilled"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// OrderItem is a single line of an order. Prices and quantities are stored as
// submitted; there is no catalog to check them against.
type OrderItem struct {
	Name     string  `json:"name" validate:"required"`
	Quantity int     `json:"quantity" validate:"gte=1"`
	Price    float64 `json:"price" validate:"gte=0"`
}

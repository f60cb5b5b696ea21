package postgres

import (
	"time"

	"github.com/logdeltra/delivery-api/internal/domain"
)

// userRecord keeps the location list inline as JSONB so a user stays a
// single row, mirroring the document layout of the Mongo store.
type userRecord struct {
	ID               string            `gorm:"primaryKey;type:uuid"`
	EmailID          string            `gorm:"column:email_id;uniqueIndex;not null"`
	Password         string            `gorm:"not null"`
	Role             string            `gorm:"not null"`
	Locations        []domain.Location `gorm:"type:jsonb;serializer:json;not null"`
	LocationsVersion int64             `gorm:"not null;default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (userRecord) TableName() string { return "users" }

type orderRecord struct {
	ID             string             `gorm:"primaryKey;type:uuid"`
	OrderID        string             `gorm:"column:order_id;uniqueIndex;not null"`
	CustomerID     string             `gorm:"type:uuid;index;not null"`
	Items          []domain.OrderItem `gorm:"type:jsonb;serializer:json;not null"`
	DropAddressNo  int                `gorm:"not null"`
	AgentID        *string            `gorm:"type:uuid"`
	StoreID        *string            `gorm:"type:uuid"`
	StoreAddressNo *int
	Status         string `gorm:"not null;default:queued"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (orderRecord) TableName() string { return "orders" }

func (r *userRecord) toDomain() *domain.User {
	locs := r.Locations
	if locs == nil {
		locs = []domain.Location{}
	}
	return &domain.User{
		ID:               r.ID,
		EmailID:          r.EmailID,
		PasswordHash:     r.Password,
		Role:             domain.Role(r.Role),
		Locations:        locs,
		LocationsVersion: r.LocationsVersion,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func (r *orderRecord) toDomain() *domain.Order {
	o := &domain.Order{
		ID:             r.ID,
		OrderID:        r.OrderID,
		CustomerID:     r.CustomerID,
		Items:          r.Items,
		DropAddressNo:  r.DropAddressNo,
		StoreAddressNo: r.StoreAddressNo,
		Status:         domain.OrderStatus(r.Status),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if r.AgentID != nil {
		o.AgentID = *r.AgentID
	}
	if r.StoreID != nil {
		o.StoreID = *r.StoreID
	}
	return o
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

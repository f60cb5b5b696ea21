package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/logdeltra/delivery-api/internal/domain"
)

type userDocument struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	EmailID          string             `bson:"emailId"`
	Password         string             `bson:"password"`
	Role             string             `bson:"role"`
	Locations        []locationDocument `bson:"locations"`
	LocationsVersion int64              `bson:"locationsVersion"`
	CreatedAt        time.Time          `bson:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt"`
}

type locationDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	Coordinates []float64          `bson:"coordinates"`
	AddressNo   *int               `bson:"addressNo,omitempty"`
	ZonalNo     *int               `bson:"zonalNo,omitempty"`
}

type orderDocument struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty"`
	OrderID        string              `bson:"orderId"`
	CustomerID     primitive.ObjectID  `bson:"customerId"`
	Items          []orderItemDocument `bson:"items"`
	DropAddressNo  int                 `bson:"dropAddressNo"`
	AgentID        *primitive.ObjectID `bson:"agentId,omitempty"`
	StoreID        *primitive.ObjectID `bson:"storeId,omitempty"`
	StoreAddressNo *int                `bson:"storeAddressNo,omitempty"`
	Status         string              `bson:"status"`
	CreatedAt      time.Time           `bson:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt"`
}

type orderItemDocument struct {
	Name     string  `bson:"name"`
	Quantity int     `bson:"quantity"`
	Price    float64 `bson:"price"`
}

func (d *userDocument) toDomain() *domain.User {
	u := &domain.User{
		ID:               d.ID.Hex(),
		EmailID:          d.EmailID,
		PasswordHash:     d.Password,
		Role:             domain.Role(d.Role),
		Locations:        make([]domain.Location, 0, len(d.Locations)),
		LocationsVersion: d.LocationsVersion,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
	for _, l := range d.Locations {
		u.Locations = append(u.Locations, domain.Location{
			ID:          l.ID.Hex(),
			Name:        l.Name,
			Coordinates: l.Coordinates,
			AddressNo:   l.AddressNo,
			ZonalNo:     l.ZonalNo,
		})
	}
	return u
}

// locationDocuments converts locs, minting ids for new entries.
func locationDocuments(locs []domain.Location) []locationDocument {
	out := make([]locationDocument, 0, len(locs))
	for _, l := range locs {
		id, err := primitive.ObjectIDFromHex(l.ID)
		if err != nil {
			id = primitive.NewObjectID()
		}
		out = append(out, locationDocument{
			ID:          id,
			Name:        l.Name,
			Coordinates: l.Coordinates,
			AddressNo:   l.AddressNo,
			ZonalNo:     l.ZonalNo,
		})
	}
	return out
}

func (d *orderDocument) toDomain() *domain.Order {
	o := &domain.Order{
		ID:             d.ID.Hex(),
		OrderID:        d.OrderID,
		CustomerID:     d.CustomerID.Hex(),
		Items:          make([]domain.OrderItem, 0, len(d.Items)),
		DropAddressNo:  d.DropAddressNo,
		StoreAddressNo: d.StoreAddressNo,
		Status:         domain.OrderStatus(d.Status),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
	if d.AgentID != nil {
		o.AgentID = d.AgentID.Hex()
	}
	if d.StoreID != nil {
		o.StoreID = d.StoreID.Hex()
	}
	for _, it := range d.Items {
		o.Items = append(o.Items, domain.OrderItem{Name: it.Name, Quantity: it.Quantity, Price: it.Price})
	}
	return o
}

func optionalObjectID(hex string) (*primitive.ObjectID, error) {
	if hex == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

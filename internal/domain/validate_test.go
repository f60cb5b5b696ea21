package domain

import (
	"errors"
	"testing"
)

func TestValidate_LocationCoordinates(t *testing.T) {
	err := Validate(Location{Name: "home", Coordinates: []float64{1, 2, 3}})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Fields) != 1 {
		t.Fatalf("expected one failed field, got %v", verr.Fields)
	}
	got := verr.Fields[0]
	if got.Field != "coordinates" || got.Reason != "must be an array of exactly 2 numbers [longitude, latitude]" {
		t.Errorf("unexpected field error %+v", got)
	}
}

func TestValidate_NestedPaths(t *testing.T) {
	order := Order{
		OrderID:    "o-1",
		CustomerID: "c-1",
		Items:      []OrderItem{{Name: "a", Quantity: 1}, {Name: "", Quantity: 0}},
		Status:     OrderStatusQueued,
	}

	err := Validate(order)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	fields := map[string]string{}
	for _, f := range verr.Fields {
		fields[f.Field] = f.Reason
	}
	if _, ok := fields["items[1].name"]; !ok {
		t.Errorf("expected items[1].name to fail, got %v", fields)
	}
	if _, ok := fields["items[1].quantity"]; !ok {
		t.Errorf("expected items[1].quantity to fail, got %v", fields)
	}
}

func TestValidate_Valid(t *testing.T) {
	user := User{
		EmailID:   "a@b.com",
		Role:      RoleCustomer,
		Locations: []Location{{Name: "home", Coordinates: []float64{0, 0}}},
	}
	if err := Validate(user); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestLocationPatch(t *testing.T) {
	addr := 3
	loc := Location{Name: "home", Coordinates: []float64{1, 2}}

	if !(LocationPatch{}).Empty() {
		t.Error("expected zero patch to be empty")
	}

	patch := LocationPatch{Coordinates: []float64{5, 6}, AddressNo: &addr}
	got := patch.Apply(loc)

	if got.Coordinates[0] != 5 || *got.AddressNo != 3 || got.ZonalNo != nil {
		t.Errorf("unexpected patched location %+v", got)
	}
	if loc.Coordinates[0] != 1 {
		t.Error("Apply modified its input")
	}
	addr = 4
	if *got.AddressNo != 3 {
		t.Error("patched location shares the patch's pointer")
	}
}

func TestCanActFor(t *testing.T) {
	self := &User{ID: "1", Role: RoleCustomer}
	other := &User{ID: "2", Role: RoleCustomer}
	admin := &User{ID: "3", Role: RoleAdmin}

	if !self.CanActFor(self) {
		t.Error("expected a user to act for itself")
	}
	if self.CanActFor(other) {
		t.Error("expected a customer not to act for another account")
	}
	if !admin.CanActFor(other) {
		t.Error("expected admin to act for any account")
	}
}

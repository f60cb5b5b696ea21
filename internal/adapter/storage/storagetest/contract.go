// Package storagetest holds behaviour checks shared by every
// ports.UserRepository and ports.OrderRepository implementation.
package storagetest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/logdeltra/delivery-api/internal/domain"
	"github.com/logdeltra/delivery-api/internal/ports"
)

func intPtr(v int) *int { return &v }

// RunUserRepository exercises repo against a clean store.
func RunUserRepository(t *testing.T, repo ports.UserRepository) {
	ctx := context.Background()

	user := &domain.User{EmailID: "contract@b.com", PasswordHash: "$2a$04$hash", Role: domain.RoleCustomer}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.ID == "" {
		t.Fatal("Create did not assign an id")
	}

	t.Run("duplicate email", func(t *testing.T) {
		err := repo.Create(ctx, &domain.User{EmailID: "contract@b.com", PasswordHash: "x", Role: domain.RoleAgent})
		if !errors.Is(err, domain.ErrDuplicateEmail) {
			t.Fatalf("expected ErrDuplicateEmail, got %v", err)
		}
	})

	t.Run("lookups", func(t *testing.T) {
		byEmail, err := repo.FindByEmail(ctx, "contract@b.com")
		if err != nil || byEmail == nil || byEmail.ID != user.ID {
			t.Fatalf("FindByEmail: %v, %v", byEmail, err)
		}
		if byEmail.PasswordHash != "$2a$04$hash" {
			t.Errorf("expected hash to round-trip, got %q", byEmail.PasswordHash)
		}
		if byEmail.Locations == nil {
			t.Error("expected non-nil empty location list")
		}

		byID, err := repo.FindByID(ctx, user.ID)
		if err != nil || byID == nil || byID.EmailID != "contract@b.com" {
			t.Fatalf("FindByID: %v, %v", byID, err)
		}

		for _, missing := range []string{"not-an-id", uuid.NewString(), "000000000000000000000000"} {
			u, err := repo.FindByID(ctx, missing)
			if err != nil || u != nil {
				t.Errorf("FindByID(%q): expected nil, nil, got %v, %v", missing, u, err)
			}
		}
		if u, err := repo.FindByEmail(ctx, "nobody@b.com"); err != nil || u != nil {
			t.Errorf("FindByEmail: expected nil, nil, got %v, %v", u, err)
		}
	})

	t.Run("replace locations", func(t *testing.T) {
		current, _ := repo.FindByID(ctx, user.ID)
		locs := []domain.Location{
			{Name: "home", Coordinates: []float64{77.59, 12.97}, AddressNo: intPtr(4)},
			{Name: "work", Coordinates: []float64{77.6, 12.9}},
		}

		updated, err := repo.ReplaceLocations(ctx, user.ID, current.LocationsVersion, locs)
		if err != nil {
			t.Fatalf("ReplaceLocations: %v", err)
		}
		if updated.LocationsVersion != current.LocationsVersion+1 {
			t.Errorf("expected version %d, got %d", current.LocationsVersion+1, updated.LocationsVersion)
		}
		if len(updated.Locations) != 2 || updated.Locations[0].Name != "home" || updated.Locations[1].Name != "work" {
			t.Fatalf("expected [home work], got %+v", updated.Locations)
		}
		if updated.Locations[0].ID == "" || *updated.Locations[0].AddressNo != 4 {
			t.Errorf("unexpected stored location %+v", updated.Locations[0])
		}
		if updated.PasswordHash != "$2a$04$hash" {
			t.Error("location write changed the password hash")
		}

		_, err = repo.ReplaceLocations(ctx, user.ID, current.LocationsVersion, nil)
		if !errors.Is(err, ports.ErrVersionMismatch) {
			t.Fatalf("expected ErrVersionMismatch for a stale version, got %v", err)
		}

		reread, _ := repo.FindByID(ctx, user.ID)
		if len(reread.Locations) != 2 {
			t.Errorf("stale write must not apply, got %+v", reread.Locations)
		}
	})

	t.Run("replace locations of unknown user", func(t *testing.T) {
		_, err := repo.ReplaceLocations(ctx, uuid.NewString(), 0, nil)
		if !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}

// RunOrderRepository exercises repo. customerID must name an existing user.
func RunOrderRepository(t *testing.T, repo ports.OrderRepository, customerID string) {
	ctx := context.Background()

	order := &domain.Order{
		OrderID:        uuid.NewString(),
		CustomerID:     customerID,
		Items:          []domain.OrderItem{{Name: "rice", Quantity: 2, Price: 3.5}},
		DropAddressNo:  7,
		StoreAddressNo: intPtr(2),
		Status:         domain.OrderStatusQueued,
	}
	if err := repo.Create(ctx, order); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if order.ID == "" {
		t.Error("Create did not assign an id")
	}

	got, err := repo.FindByOrderID(ctx, order.OrderID)
	if err != nil || got == nil {
		t.Fatalf("FindByOrderID: %v, %v", got, err)
	}
	if got.CustomerID != customerID || got.DropAddressNo != 7 || len(got.Items) != 1 || got.Items[0].Price != 3.5 {
		t.Errorf("unexpected stored order %+v", got)
	}
	if got.StoreAddressNo == nil || *got.StoreAddressNo != 2 {
		t.Errorf("expected store address 2, got %v", got.StoreAddressNo)
	}
	if got.Status != domain.OrderStatusQueued {
		t.Errorf("expected queued, got %s", got.Status)
	}

	missing, err := repo.FindByOrderID(ctx, "missing")
	if err != nil || missing != nil {
		t.Errorf("expected nil, nil for unknown order, got %v, %v", missing, err)
	}
}

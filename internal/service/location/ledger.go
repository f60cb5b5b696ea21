// Package location manages the named locations embedded in a user record.
//
// Every mutation is a read-modify-write: the user is loaded, the list is
// changed in memory and validated, and the whole list is written back with
// ReplaceLocations guarded by the version that was read. If another writer
// bumped the version in between, the mutation is re-applied to a fresh read,
// so concurrent adds of different names all land and concurrent adds of the
// same name end with exactly one winner.
package location

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/logdeltra/delivery-api/internal/domain"
	"github.com/logdeltra/delivery-api/internal/observability/telemetry"
	"github.com/logdeltra/delivery-api/internal/ports"
)

const maxWriteAttempts = 3

var tracer = otel.Tracer("github.com/logdeltra/delivery-api/internal/service/location")

// errNoChange tells mutate that the list is unchanged and nothing must be
// written.
var errNoChange = errors.New("no change")

type Ledger struct {
	repo ports.UserRepository
	log  *zap.Logger
}

func NewLedger(repo ports.UserRepository, log *zap.Logger) ports.LocationService {
	return &Ledger{repo: repo, log: log}
}

// AddLocation appends loc to the user's list. The name must not already be
// present in that list.
func (l *Ledger) AddLocation(ctx context.Context, userID string, loc domain.Location) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "location.Add")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID), attribute.String("location.name", loc.Name))

	loc.ID = ""
	loc.Coordinates = append([]float64(nil), loc.Coordinates...)
	if err := domain.Validate(loc); err != nil {
		return nil, l.record("add", err)
	}

	user, err := l.mutate(ctx, userID, func(u *domain.User) ([]domain.Location, error) {
		if u.IndexOfLocation(loc.Name) >= 0 {
			return nil, domain.ErrDuplicateLocation
		}
		return append(u.CloneLocations(), loc), nil
	})
	return user, l.record("add", err)
}

// RemoveLocation drops the location called name. A name that is not in the
// list leaves the user untouched and is not an error.
func (l *Ledger) RemoveLocation(ctx context.Context, userID, name string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "location.Remove")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID), attribute.String("location.name", name))

	user, err := l.mutate(ctx, userID, func(u *domain.User) ([]domain.Location, error) {
		i := u.IndexOfLocation(name)
		if i < 0 {
			return nil, errNoChange
		}
		locs := u.CloneLocations()
		return append(locs[:i], locs[i+1:]...), nil
	})
	return user, l.record("remove", err)
}

// UpdateLocation replaces the supplied fields of the location called name.
func (l *Ledger) UpdateLocation(ctx context.Context, userID, name string, patch domain.LocationPatch) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "location.Update")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID), attribute.String("location.name", name))

	if err := domain.Validate(patch); err != nil {
		return nil, l.record("update", err)
	}

	user, err := l.mutate(ctx, userID, func(u *domain.User) ([]domain.Location, error) {
		i := u.IndexOfLocation(name)
		if i < 0 {
			return nil, domain.ErrLocationNotFound
		}
		if patch.Empty() {
			return nil, errNoChange
		}
		locs := u.CloneLocations()
		locs[i] = patch.Apply(locs[i])
		if err := domain.Validate(locs[i]); err != nil {
			return nil, err
		}
		return locs, nil
	})
	return user, l.record("update", err)
}

func (l *Ledger) ListLocations(ctx context.Context, userID string) ([]domain.Location, error) {
	user, err := l.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if user.Locations == nil {
		return []domain.Location{}, nil
	}
	return user.Locations, nil
}

// mutate loads the user, applies change and writes the result back guarded
// by the version that was read.
func (l *Ledger) mutate(ctx context.Context, userID string, change func(u *domain.User) ([]domain.Location, error)) (*domain.User, error) {
	for attempt := 1; ; attempt++ {
		user, err := l.repo.FindByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, domain.ErrUserNotFound
		}

		locs, err := change(user)
		if errors.Is(err, errNoChange) {
			return user, nil
		}
		if err != nil {
			return nil, err
		}

		updated, err := l.repo.ReplaceLocations(ctx, userID, user.LocationsVersion, locs)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, ports.ErrVersionMismatch) {
			return nil, err
		}

		telemetry.LocationVersionConflictsTotal.Inc()
		if attempt >= maxWriteAttempts {
			l.log.Warn("giving up on contended location list",
				zap.String("user_id", userID),
				zap.Int("attempts", attempt),
			)
			return nil, domain.ErrConcurrentUpdate
		}
		l.log.Debug("location list changed underneath, re-reading",
			zap.String("user_id", userID),
			zap.Int("attempt", attempt),
		)
	}
}

func (l *Ledger) record(op string, err error) error {
	outcome := "success"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrValidation):
		outcome = "invalid"
	case errors.Is(err, domain.ErrConflict):
		outcome = "conflict"
	case errors.Is(err, domain.ErrNotFound):
		outcome = "not_found"
	default:
		outcome = "error"
	}
	telemetry.LocationMutationsTotal.WithLabelValues(op, outcome).Inc()
	return err
}

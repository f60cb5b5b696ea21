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

type UserRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewUserRepository(db *gorm.DB, log *zap.Logger) ports.UserRepository {
	return &UserRepository{
		db:  db,
		log: log,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	defer telemetry.ObserveStore(driverName, "users.insert", time.Now())

	rec := userRecord{
		ID:        uuid.NewString(),
		EmailID:   user.EmailID,
		Password:  user.PasswordHash,
		Role:      string(user.Role),
		Locations: withLocationIDs(user.Locations),
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateEmail.Wrap(err)
		}
		return domain.StoreError("insert user", err)
	}

	*user = *rec.toDomain()
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	return r.first(ctx, "users.find_by_id", "id = ?", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "users.find_by_email", "email_id = ?", email)
}

func (r *UserRepository) first(ctx context.Context, op, query string, arg interface{}) (*domain.User, error) {
	defer telemetry.ObserveStore(driverName, op, time.Now())

	var rec userRecord
	err := r.db.WithContext(ctx).First(&rec, query, arg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, domain.StoreError("find user", err)
	}
	return rec.toDomain(), nil
}

// ReplaceLocations is a conditional UPDATE on locations_version.
func (r *UserRepository) ReplaceLocations(ctx context.Context, userID string, expectedVersion int64, locations []domain.Location) (*domain.User, error) {
	defer telemetry.ObserveStore(driverName, "users.replace_locations", time.Now())

	var out *domain.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&userRecord{}).
			Where("id = ? AND locations_version = ?", userID, expectedVersion).
			Updates(map[string]interface{}{
				"locations":         withLocationIDs(locations),
				"locations_version": gorm.Expr("locations_version + 1"),
			})
		if res.Error != nil {
			return domain.StoreError("replace locations", res.Error)
		}

		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&userRecord{}).Where("id = ?", userID).Count(&count).Error; err != nil {
				return domain.StoreError("count user", err)
			}
			if count == 0 {
				return domain.ErrUserNotFound
			}
			return ports.ErrVersionMismatch
		}

		var rec userRecord
		if err := tx.First(&rec, "id = ?", userID).Error; err != nil {
			return domain.StoreError("reload user", err)
		}
		out = rec.toDomain()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// withLocationIDs copies locs and assigns ids to entries that lack one.
func withLocationIDs(locs []domain.Location) []domain.Location {
	out := make([]domain.Location, len(locs))
	for i, l := range locs {
		if l.ID == "" {
			l.ID = uuid.NewString()
		}
		out[i] = l
	}
	return out
}

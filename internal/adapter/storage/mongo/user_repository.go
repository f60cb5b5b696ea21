package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/logdeltra/delivery-api/internal/domain"
	"github.com/logdeltra/delivery-api/internal/observability/telemetry"
	"github.com/logdeltra/delivery-api/internal/ports"
)

type UserRepository struct {
	coll *mongo.Collection
	log  *zap.Logger
}

func NewUserRepository(db *mongo.Database, log *zap.Logger) ports.UserRepository {
	return &UserRepository{
		coll: db.Collection(usersCollection),
		log:  log,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	defer telemetry.ObserveStore(driverName, "users.insert", time.Now())

	now := time.Now().UTC()
	doc := userDocument{
		ID:        primitive.NewObjectID(),
		EmailID:   user.EmailID,
		Password:  user.PasswordHash,
		Role:      string(user.Role),
		Locations: locationDocuments(user.Locations),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateEmail.Wrap(err)
		}
		return domain.StoreError("insert user", err)
	}

	*user = *doc.toDomain()
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// Not an id this store could have issued.
		return nil, nil
	}
	return r.findOne(ctx, "users.find_by_id", bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "users.find_by_email", bson.M{"emailId": email})
}

func (r *UserRepository) findOne(ctx context.Context, op string, filter bson.M) (*domain.User, error) {
	defer telemetry.ObserveStore(driverName, op, time.Now())

	var doc userDocument
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, domain.StoreError("find user", err)
	}
	return doc.toDomain(), nil
}

// ReplaceLocations is a single-document compare-and-set on locationsVersion.
func (r *UserRepository) ReplaceLocations(ctx context.Context, userID string, expectedVersion int64, locations []domain.Location) (*domain.User, error) {
	defer telemetry.ObserveStore(driverName, "users.replace_locations", time.Now())

	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	filter := bson.M{"_id": oid, "locationsVersion": expectedVersion}
	if expectedVersion == 0 {
		// Documents written before versioning have no counter yet.
		filter = bson.M{"_id": oid, "$or": bson.A{
			bson.M{"locationsVersion": 0},
			bson.M{"locationsVersion": bson.M{"$exists": false}},
		}}
	}
	update := bson.M{
		"$set": bson.M{
			"locations": locationDocuments(locations),
			"updatedAt": time.Now().UTC(),
		},
		"$inc": bson.M{"locationsVersion": 1},
	}

	var doc userDocument
	err = r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == nil {
		return doc.toDomain(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.StoreError("replace locations", err)
	}

	// Nothing matched: either the user is gone or the version moved on.
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return nil, domain.StoreError("count user", err)
	}
	if n == 0 {
		return nil, domain.ErrUserNotFound
	}
	return nil, ports.ErrVersionMismatch
}

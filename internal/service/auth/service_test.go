package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/logdeltra/delivery-api/internal/adapter/queue"
	"github.com/logdeltra/delivery-api/internal/domain"
	"github.com/logdeltra/delivery-api/internal/mocks"
	"github.com/logdeltra/delivery-api/internal/service/credential"
)

const testSecret = "test-secret-key"

type fixture struct {
	service *Service
	users   *mocks.UserStore
	mq      *mocks.MockMessageQueue
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	log := zap.NewNop()
	users := mocks.NewUserStore()
	mq := mocks.NewMockMessageQueue()
	creds := credential.NewStore(users, bcrypt.MinCost, log)
	svc := NewService(creds, NewJWTService(testSecret, 24*time.Hour, log), mq, log).(*Service)
	return fixture{service: svc, users: users, mq: mq}
}

func TestRegisterThenLogin(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t)

	// Act
	user, err := f.service.Register(ctx, "a@b.com", "pw12345", domain.RoleCustomer)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	token, err := f.service.Login(ctx, "a@b.com", "pw12345")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token == "" {
		t.Fatal("expected token, got empty string")
	}

	got, err := f.service.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("expected token to authenticate, got %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID, got.ID)
	}
}

func TestRegister_DoesNotStorePlaintext(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	user, err := f.service.Register(ctx, "a@b.com", "pw12345", domain.RoleCustomer)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	stored, _ := f.users.FindByID(ctx, user.ID)
	if stored.PasswordHash == "" || stored.PasswordHash == "pw12345" {
		t.Fatalf("expected a bcrypt hash, got %q", stored.PasswordHash)
	}
}

func TestRegister_PublishesEvent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	user, err := f.service.Register(ctx, "a@b.com", "pw12345", domain.RoleStore)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	msgs := f.mq.GetPublishedMessages(queue.SubjectUserRegistered)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 user.registered event, got %d", len(msgs))
	}
	var payload queue.UserRegistered
	if _, err := queue.DecodeEvent(msgs[0], &payload); err != nil {
		t.Fatalf("expected decodable event, got %v", err)
	}
	if payload.UserID != user.ID || payload.Role != "store" {
		t.Errorf("unexpected payload %+v", payload)
	}
}

func TestRegister_PublishFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.mq.PublishFunc = func(topic string, data []byte) error {
		return errors.New("broker down")
	}

	if _, err := f.service.Register(ctx, "a@b.com", "pw12345", domain.RoleCustomer); err != nil {
		t.Fatalf("expected registration to succeed, got %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if _, err := f.service.Register(ctx, "a@b.com", "pw12345", domain.RoleCustomer); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	_, err := f.service.Register(ctx, "A@B.com", "other", domain.RoleAgent)

	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if len(f.mq.GetPublishedMessages(queue.SubjectUserRegistered)) != 1 {
		t.Error("expected no event for the rejected registration")
	}
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		role     domain.Role
		field    string
	}{
		{"bad email", "not-an-email", "pw", domain.RoleCustomer, "emailId"},
		{"missing password", "a@b.com", "", domain.RoleCustomer, "password"},
		{"unknown role", "a@b.com", "pw", domain.Role("driver"), "role"},
		{"missing role", "a@b.com", "pw", "", "role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.service.Register(context.Background(), tt.email, tt.password, tt.role)

			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Fields[0].Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, verr.Fields[0].Field)
			}
		})
	}
}

func TestLogin_IncorrectPassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	if _, err := f.service.Register(ctx, "a@b.com", "pw12345", domain.RoleCustomer); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	token, err := f.service.Login(ctx, "a@b.com", "pw123456")

	if !errors.Is(err, domain.ErrIncorrectPassword) {
		t.Fatalf("expected ErrIncorrectPassword, got %v", err)
	}
	if token != "" {
		t.Error("expected no token on failure")
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Login(context.Background(), "nobody@b.com", "pw")

	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestLogin_RepositoryError(t *testing.T) {
	log := zap.NewNop()
	repo := &mocks.MockUserRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			return nil, domain.StoreError("find user", errors.New("connection refused"))
		},
	}
	svc := NewService(credential.NewStore(repo, bcrypt.MinCost, log), NewJWTService(testSecret, time.Hour, log), mocks.NewMockMessageQueue(), log)

	_, err := svc.Login(context.Background(), "a@b.com", "pw")

	if !errors.Is(err, domain.ErrStore) {
		t.Fatalf("expected ErrStore, got %v", err)
	}
}

func TestAuthenticate_MissingToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Authenticate(context.Background(), "  ")

	if !errors.Is(err, domain.ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestAuthenticate_GarbageToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Authenticate(context.Background(), "not.a.jwt")

	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthenticate_DeletedUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user, _ := f.service.Register(ctx, "a@b.com", "pw12345", domain.RoleCustomer)
	token, err := f.service.Login(ctx, "a@b.com", "pw12345")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	f.users.Delete(user.ID)
	_, err = f.service.Authenticate(ctx, token)

	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserContext(t *testing.T) {
	user := &domain.User{ID: "user-1"}

	ctx := WithUser(context.Background(), user)

	got, ok := UserFromContext(ctx)
	if !ok || got != user {
		t.Fatalf("expected user from context, got %v, %v", got, ok)
	}
	if _, ok := UserFromContext(context.Background()); ok {
		t.Error("expected no user in a bare context")
	}
}

package auth

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/logdeltra/delivery-api/internal/adapter/queue"
	"github.com/logdeltra/delivery-api/internal/domain"
	"github.com/logdeltra/delivery-api/internal/observability/telemetry"
	"github.com/logdeltra/delivery-api/internal/ports"
)

var tracer = otel.Tracer("github.com/logdeltra/delivery-api/internal/service/auth")

type Service struct {
	credentials ports.CredentialStore
	tokens      *JWTService
	mq          queue.MessageQueue
	log         *zap.Logger
}

func NewService(credentials ports.CredentialStore, tokens *JWTService, mq queue.MessageQueue, log *zap.Logger) ports.AuthService {
	return &Service{
		credentials: credentials,
		tokens:      tokens,
		mq:          mq,
		log:         log,
	}
}

// Register creates the account. It does not log the user in.
func (s *Service) Register(ctx context.Context, emailID, password string, role domain.Role) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "auth.Register")
	defer span.End()

	user, err := s.credentials.Create(ctx, emailID, password, role)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("user.id", user.ID))

	if err := queue.PublishEvent(s.mq, queue.SubjectUserRegistered, queue.UserRegistered{
		UserID:  user.ID,
		EmailID: user.EmailID,
		Role:    string(user.Role),
	}); err != nil {
		s.log.Warn("failed to publish user.registered", zap.String("user_id", user.ID), zap.Error(err))
	}

	return user, nil
}

// Login verifies the credentials and returns a signed bearer token.
func (s *Service) Login(ctx context.Context, emailID, password string) (string, error) {
	ctx, span := tracer.Start(ctx, "auth.Login")
	defer span.End()

	user, err := s.credentials.FindByEmail(ctx, emailID)
	if err != nil {
		telemetry.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		return "", err
	}
	if user == nil {
		telemetry.AuthAttemptsTotal.WithLabelValues("login", "unknown_user").Inc()
		return "", domain.ErrUserNotFound
	}

	if !s.credentials.VerifyPassword(user, password) {
		telemetry.AuthAttemptsTotal.WithLabelValues("login", "bad_password").Inc()
		s.log.Info("login rejected", zap.String("user_id", user.ID))
		return "", domain.ErrIncorrectPassword
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return "", err
	}

	telemetry.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	return token, nil
}

// Authenticate verifies a bearer token and resolves the user it was issued
// to. A token for a deleted user is rejected.
func (s *Service) Authenticate(ctx context.Context, bearerToken string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "auth.Authenticate")
	defer span.End()

	bearerToken = strings.TrimSpace(bearerToken)
	if bearerToken == "" {
		telemetry.AuthAttemptsTotal.WithLabelValues("token", "missing").Inc()
		return nil, domain.ErrMissingToken
	}

	claims, err := s.tokens.ValidateToken(bearerToken)
	if err != nil {
		telemetry.AuthAttemptsTotal.WithLabelValues("token", "invalid").Inc()
		return nil, err
	}

	user, err := s.credentials.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		telemetry.AuthAttemptsTotal.WithLabelValues("token", "unknown_user").Inc()
		return nil, domain.ErrUserNotFound
	}

	telemetry.AuthAttemptsTotal.WithLabelValues("token", "success").Inc()
	return user, nil
}

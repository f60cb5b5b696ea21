package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/logdeltra/delivery-api/internal/domain"
)

// Claims carries the issuing user's id. Registered claims hold the timing.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// JWTService signs and verifies stateless HS256 bearer tokens.
type JWTService struct {
	secret   []byte
	duration time.Duration
	now      func() time.Time
	log      *zap.Logger
}

// NewJWTService creates a new JWTService instance.
func NewJWTService(secret string, duration time.Duration, log *zap.Logger) *JWTService {
	log.Info("JWT service initialized", zap.Duration("token_duration", duration))

	return &JWTService{
		secret:   []byte(secret),
		duration: duration,
		now:      time.Now,
		log:      log,
	}
}

// GenerateToken creates a signed token for userID expiring after the
// configured duration.
func (s *JWTService) GenerateToken(userID string) (string, error) {
	now := s.now()

	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.duration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		s.log.Error("failed to sign token", zap.String("user_id", userID), zap.Error(err))
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// ValidateToken checks the signature and expiry of tokenString. Expired
// tokens yield domain.ErrExpiredToken, everything else domain.ErrInvalidToken.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		s.log.Debug("token validation failed", zap.Error(err))
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrExpiredToken.Wrap(err)
		}
		return nil, domain.ErrInvalidToken.Wrap(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}

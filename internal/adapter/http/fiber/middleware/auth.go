package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/logdeltra/delivery-api/internal/domain"
	"github.com/logdeltra/delivery-api/internal/ports"
	"github.com/logdeltra/delivery-api/internal/service/auth"
)

const userLocalKey = "user"

// AuthRequired resolves the bearer token to a user and attaches it to the
// request locals and to the request context.
func AuthRequired(service ports.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))

		user, err := service.Authenticate(c.UserContext(), token)
		if err != nil {
			return err
		}

		c.Locals(userLocalKey, user)
		c.SetUserContext(auth.WithUser(c.UserContext(), user))

		return c.Next()
	}
}

// CurrentUser returns the user set by AuthRequired.
func CurrentUser(c *fiber.Ctx) (*domain.User, error) {
	user, ok := c.Locals(userLocalKey).(*domain.User)
	if !ok || user == nil {
		return nil, domain.ErrMissingToken
	}
	return user, nil
}

// bearerToken returns the token of an "Authorization: Bearer <token>" header
// or "" when the header is absent or uses another scheme.
func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	fibercors "github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/logdeltra/delivery-api/pkg/config"
)

const (
	defaultAllowedMethods = "GET,POST,PATCH,DELETE,OPTIONS"
	defaultAllowedHeaders = "Origin,Content-Type,Accept,Authorization,X-Request-ID"
	defaultMaxAge         = 86400
)

// NewCORS creates a CORS middleware from application config
func NewCORS(cfg config.CORSConfig) fiber.Handler {
	origins := joinOr(cfg.AllowedOrigins, "*")

	// Browsers reject credentials with a wildcard origin.
	credentials := cfg.Credentials && origins != "*"

	maxAge := defaultMaxAge
	if cfg.MaxAge > 0 {
		maxAge = cfg.MaxAge
	}

	return fibercors.New(fibercors.Config{
		AllowOrigins:     origins,
		AllowMethods:     joinOr(cfg.AllowedMethods, defaultAllowedMethods),
		AllowHeaders:     joinOr(cfg.AllowedHeaders, defaultAllowedHeaders),
		ExposeHeaders:    joinOr(cfg.ExposeHeaders, "X-Request-ID"),
		AllowCredentials: credentials,
		MaxAge:           maxAge,
	})
}

func joinOr(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ",")
}

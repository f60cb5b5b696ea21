// Package router assembles the Fiber application: global middleware, the
// auth, user and order routes, health probes and the metrics endpoint.
package router

import (
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/logdeltra/delivery-api/internal/adapter/http/fiber/handlers"
	"github.com/logdeltra/delivery-api/internal/adapter/http/fiber/middleware"
	"github.com/logdeltra/delivery-api/internal/ports"
	"github.com/logdeltra/delivery-api/internal/service/health"
	"github.com/logdeltra/delivery-api/pkg/config"
)

// Services are the application services the routes call into.
type Services struct {
	Auth        ports.AuthService
	Credentials ports.CredentialStore
	Locations   ports.LocationService
	Orders      ports.OrderService
	Health      *health.Service
	// LimiterStorage backs the rate limiter; nil keeps counters in memory.
	LimiterStorage fiber.Storage
}

func New(cfg *config.Config, svc Services, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		ServerHeader:          cfg.App.Name,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		BodyLimit:             cfg.HTTP.BodyLimit,
		ErrorHandler:          middleware.ErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	if cfg.Logging.AccessLog {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
		}))
	}
	app.Use(middleware.NewCORS(cfg.CORS))
	app.Use(middleware.Metrics())
	if cfg.RateLimiting.Enabled {
		app.Use(middleware.RateLimit(cfg.RateLimiting, svc.LimiterStorage))
	}
	if cfg.CircuitBreaker.Enabled {
		app.Use(middleware.CircuitBreaker(cfg.App.Name, cfg.CircuitBreaker, log))
	}

	if svc.Health != nil {
		health.NewFiberHandler(svc.Health).RegisterRoutes(app)
	}

	metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	app.Get("/metrics", func(c *fiber.Ctx) error {
		metricsHandler(c.Context())
		return nil
	})

	authHandler := handlers.NewAuthHandler(svc.Auth, log)
	authGroup := app.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	requireAuth := middleware.AuthRequired(svc.Auth)

	userHandler := handlers.NewUserHandler(svc.Locations, svc.Credentials, log)
	user := app.Group("/user", requireAuth)
	user.Get("/profile", userHandler.Profile)
	user.Post("/profile/update", userHandler.AddLocation)
	user.Get("/locations", userHandler.ListLocations)
	user.Patch("/locations/:name", userHandler.UpdateLocation)
	user.Delete("/locations/:name", userHandler.RemoveLocation)

	orderHandler := handlers.NewOrderHandler(svc.Orders, log)
	order := app.Group("/order", requireAuth)
	order.Post("/create", orderHandler.Create)
	order.Post("/update", orderHandler.Update)

	return app
}

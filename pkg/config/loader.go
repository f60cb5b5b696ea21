package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultJWTSecret is the development fallback for the token signing key.
// Validate rejects it in production.
const DefaultJWTSecret = "mysecretkey"

// Load reads config.yaml (if present) and the environment into a Config.
func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	v.AddConfigPath("/app/configs")

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Plain names used by existing deployments of this service.
	v.BindEnv("http.port", "APP_HTTP_PORT", "PORT", "HTTP_PORT")
	v.BindEnv("database.url", "APP_DATABASE_URL", "MONGODB_URI", "DATABASE_URL")
	v.BindEnv("database.driver", "APP_DATABASE_DRIVER", "DATABASE_DRIVER")
	v.BindEnv("redis.url", "APP_REDIS_URL", "REDIS_URL")
	v.BindEnv("queue.url", "APP_QUEUE_URL", "NATS_URL", "AMQP_URL")
	v.BindEnv("jwt.secret", "APP_JWT_SECRET", "SECRET_KEY", "JWT_SECRET")
	v.BindEnv("app.environment", "APP_ENVIRONMENT", "NODE_ENV")
	v.BindEnv("logging.level", "APP_LOGGING_LEVEL", "LOG_LEVEL")
	v.BindEnv("vault.token", "APP_VAULT_TOKEN", "VAULT_TOKEN")
	v.BindEnv("vault.address", "APP_VAULT_ADDRESS", "VAULT_ADDR")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "delivery-api")
	v.SetDefault("app.version", "v1.0.0")
	v.SetDefault("app.environment", "development")

	v.SetDefault("http.port", 3000)
	v.SetDefault("http.read_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 10*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)
	v.SetDefault("http.body_limit", 1<<20)

	v.SetDefault("database.driver", "mongo")
	v.SetDefault("database.url", "mongodb://localhost:27017")
	v.SetDefault("database.name", "logdeltra")
	v.SetDefault("database.connect_timeout", 10*time.Second)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("queue.driver", "none")
	v.SetDefault("queue.reconnect_wait", 2*time.Second)

	v.SetDefault("jwt.secret", DefaultJWTSecret)
	v.SetDefault("jwt.token_duration", 24*time.Hour)
	v.SetDefault("jwt.bcrypt_cost", 10)

	v.SetDefault("vault.jwt_path", "secret/data/delivery-api/jwt")
	v.SetDefault("vault.database_path", "secret/data/delivery-api/database")

	v.SetDefault("opentelemetry.jaeger_endpoint", "http://jaeger:14268/api/traces")
	v.SetDefault("opentelemetry.sample_ratio", 1.0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.access_log", true)

	v.SetDefault("rate_limiting.enabled", true)
	v.SetDefault("rate_limiting.max_requests", 100)
	v.SetDefault("rate_limiting.window", time.Minute)

	v.SetDefault("circuit_breaker.enabled", true)
	v.SetDefault("circuit_breaker.max_requests", 3)
	v.SetDefault("circuit_breaker.interval", time.Minute)
	v.SetDefault("circuit_breaker.timeout", 30*time.Second)
	v.SetDefault("circuit_breaker.failure_threshold", 0.6)

	v.SetDefault("cors.allowed_origins", []string{"*"})
}

// IsProduction reports whether the service runs with environment "production".
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Environment, "production")
}

// Validate rejects configurations the service must not start with.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret must not be empty")
	}
	if c.IsProduction() && c.JWT.Secret == DefaultJWTSecret {
		return errors.New("jwt.secret must be overridden in production")
	}
	if c.JWT.TokenDuration <= 0 {
		return errors.New("jwt.token_duration must be positive")
	}
	switch c.Database.Driver {
	case "mongo", "postgres":
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if c.Database.URL == "" {
		return errors.New("database.url must not be empty")
	}
	return nil
}

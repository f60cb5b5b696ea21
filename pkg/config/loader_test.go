package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.HTTP.Port != 3000 {
		t.Errorf("expected port 3000, got %d", cfg.HTTP.Port)
	}
	if cfg.JWT.Secret != DefaultJWTSecret {
		t.Errorf("expected default secret, got %q", cfg.JWT.Secret)
	}
	if cfg.JWT.TokenDuration != 24*time.Hour {
		t.Errorf("expected 24h token duration, got %v", cfg.JWT.TokenDuration)
	}
	if cfg.Database.Driver != "mongo" {
		t.Errorf("expected mongo driver, got %q", cfg.Database.Driver)
	}
	if cfg.App.Environment != "development" {
		t.Errorf("expected development environment, got %q", cfg.App.Environment)
	}
}

func TestLoad_LegacyEnvNames(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "8081")
	t.Setenv("SECRET_KEY", "from-env")
	t.Setenv("MONGODB_URI", "mongodb://db:27017")
	t.Setenv("NODE_ENV", "production")

	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.HTTP.Port != 8081 {
		t.Errorf("expected port 8081, got %d", cfg.HTTP.Port)
	}
	if cfg.JWT.Secret != "from-env" {
		t.Errorf("expected secret from env, got %q", cfg.JWT.Secret)
	}
	if cfg.Database.URL != "mongodb://db:27017" {
		t.Errorf("expected database url from env, got %q", cfg.Database.URL)
	}
	if !cfg.IsProduction() {
		t.Error("expected production environment")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			App:      AppConfig{Environment: "development"},
			Database: DatabaseConfig{Driver: "mongo", URL: "mongodb://localhost"},
			JWT:      JWTConfig{Secret: DefaultJWTSecret, TokenDuration: 24 * time.Hour},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "development default secret", mutate: func(c *Config) {}},
		{name: "production default secret", mutate: func(c *Config) { c.App.Environment = "production" }, wantErr: true},
		{name: "production custom secret", mutate: func(c *Config) {
			c.App.Environment = "production"
			c.JWT.Secret = "s3cr3t"
		}},
		{name: "empty secret", mutate: func(c *Config) { c.JWT.Secret = "" }, wantErr: true},
		{name: "zero duration", mutate: func(c *Config) { c.JWT.TokenDuration = 0 }, wantErr: true},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "sqlite" }, wantErr: true},
		{name: "postgres driver", mutate: func(c *Config) { c.Database.Driver = "postgres" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

package vault

import (
	"fmt"

	"github.com/hashicorp/vault/api"

	"github.com/logdeltra/delivery-api/pkg/config"
)

// SecretManager reads the JWT secret and database URL from KV v2 paths.
type SecretManager struct {
	client *api.Client
	cfg    config.VaultConfig
}

func NewSecretManager(cfg config.VaultConfig) (*SecretManager, error) {
	vc := api.DefaultConfig()
	vc.Address = cfg.Address

	client, err := api.NewClient(vc)
	if err != nil {
		return nil, err
	}

	client.SetToken(cfg.Token)

	return &SecretManager{client: client, cfg: cfg}, nil
}

func (sm *SecretManager) GetJWTSecret() (string, error) {
	return sm.read(sm.cfg.JWTPath, "secret")
}

func (sm *SecretManager) GetDatabaseURL() (string, error) {
	return sm.read(sm.cfg.DatabasePath, "connection_string")
}

func (sm *SecretManager) read(path, key string) (string, error) {
	secret, err := sm.client.Logical().Read(path)
	if err != nil {
		return "", fmt.Errorf("vault read %s: %w", path, err)
	}
	if secret == nil {
		return "", fmt.Errorf("vault read %s: no secret at path", path)
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("vault read %s: not a kv v2 secret", path)
	}
	val, ok := data[key].(string)
	if !ok || val == "" {
		return "", fmt.Errorf("vault read %s: missing %q", path, key)
	}
	return val, nil
}

// Apply overrides cfg.JWT.Secret and cfg.Database.URL with the values stored
// in Vault. A path that has no value leaves the setting untouched.
func (sm *SecretManager) Apply(cfg *config.Config) []error {
	var errs []error
	if secret, err := sm.GetJWTSecret(); err == nil {
		cfg.JWT.Secret = secret
	} else {
		errs = append(errs, err)
	}
	if url, err := sm.GetDatabaseURL(); err == nil {
		cfg.Database.URL = url
	} else {
		errs = append(errs, err)
	}
	return errs
}

package auth

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/todo-api/internal/config"
)

var ErrMissingSecret = errors.New("token secret is not configured")

// SecretSource supplies the server-held keys used by TokenCodec. Keys are
// requested once at construction time.
type SecretSource interface {
	SigningKey() ([]byte, error)
	EncryptionKey() ([]byte, error)
}

// StaticSecrets serves secrets that were already resolved by the config layer.
type StaticSecrets struct {
	Signing    string
	Encryption string
}

func SecretsFromConfig(cfg *config.Config) StaticSecrets {
	return StaticSecrets{
		Signing:    cfg.Auth.SigningSecret,
		Encryption: cfg.Auth.EncryptionSecret,
	}
}

func (s StaticSecrets) SigningKey() ([]byte, error) {
	if s.Signing == "" {
		return nil, ErrMissingSecret
	}
	return []byte(s.Signing), nil
}

func (s StaticSecrets) EncryptionKey() ([]byte, error) {
	if s.Encryption == "" {
		return nil, ErrMissingSecret
	}
	return []byte(s.Encryption), nil
}

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StrategyStateful  = "stateful"
	StrategyStateless = "stateless"

	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	// Server
	Port        string `env:"PORT" envDefault:"3000"`
	AppEnv      string `env:"APP_ENV" envDefault:"development"`
	LogLevel    int    `env:"LOG_LEVEL" envDefault:"0"`
	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"*"`
	SentryDSN   string `env:"SENTRY_DSN"`

	// Rate limiter storage; in-process memory when empty
	RedisURL string `env:"REDIS_URL"`

	// Requests per minute per IP, overall and on /users
	RateLimit     int `env:"RATE_LIMIT" envDefault:"60"`
	AuthRateLimit int `env:"AUTH_RATE_LIMIT" envDefault:"10"`

	// How long persisted ERROR logs are kept
	LogRetention time.Duration `env:"LOG_RETENTION" envDefault:"720h"`

	Database Database `envPrefix:"DB_"`
	Auth     Auth     `envPrefix:"AUTH_"`
}

type Database struct {
	Driver   string        `env:"DRIVER" envDefault:"postgres"`
	Host     string        `env:"HOST" envDefault:"localhost"`
	Port     string        `env:"PORT" envDefault:"5432"`
	User     string        `env:"USER" envDefault:"postgres"`
	Password string        `env:"PASSWORD"`
	Name     string        `env:"NAME" envDefault:"todo_api"`
	SSLMode  string        `env:"SSLMODE" envDefault:"disable"`
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"5s"`
}

// Auth holds the token and password settings. The secrets have no defaults.
type Auth struct {
	Strategy         string        `env:"STRATEGY" envDefault:"stateful"`
	SigningSecret    string        `env:"SIGNING_SECRET"`
	EncryptionSecret string        `env:"ENCRYPTION_SECRET"`
	TokenTTL         time.Duration `env:"TOKEN_TTL" envDefault:"168h"`
	BcryptCost       int           `env:"BCRYPT_COST" envDefault:"10"`
}

// Load reads configuration from the environment, after overlaying an optional
// .env file from the working directory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Auth.SigningSecret == "" {
		return errors.New("AUTH_SIGNING_SECRET environment variable is required")
	}
	if c.Auth.EncryptionSecret == "" {
		return errors.New("AUTH_ENCRYPTION_SECRET environment variable is required")
	}
	if c.Auth.SigningSecret == c.Auth.EncryptionSecret {
		return errors.New("AUTH_SIGNING_SECRET and AUTH_ENCRYPTION_SECRET must differ")
	}
	switch c.Auth.Strategy {
	case StrategyStateful, StrategyStateless:
	default:
		return fmt.Errorf("unknown AUTH_STRATEGY %q", c.Auth.Strategy)
	}
	if c.Auth.TokenTTL < 0 {
		return errors.New("AUTH_TOKEN_TTL must not be negative")
	}
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Password == "" {
			return errors.New("DB_PASSWORD environment variable is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.Database.Driver)
	}
	if c.RateLimit <= 0 || c.AuthRateLimit <= 0 {
		return errors.New("RATE_LIMIT and AUTH_RATE_LIMIT must be positive")
	}
	if c.Database.Timeout <= 0 {
		return errors.New("DB_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) Stateful() bool {
	return c.Auth.Strategy == StrategyStateful
}

func (c *Config) DSN() string {
	return "host=" + c.Database.Host +
		" user=" + c.Database.User +
		" password=" + c.Database.Password +
		" dbname=" + c.Database.Name +
		" port=" + c.Database.Port +
		" sslmode=" + c.Database.SSLMode +
		" TimeZone=UTC"
}

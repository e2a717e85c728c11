package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	API       APIConfig
	Session   SessionConfig
	Media     MediaConfig
	Devserver DevserverConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GOUSTTY_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"GOUSTTY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GOUSTTY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// APIConfig points the typed client at the remote catalog/order service.
type APIConfig struct {
	BaseURL     string        `envconfig:"GOUSTTY_API_BASE_URL" default:"http://localhost:8000/api"`
	Timeout     time.Duration `envconfig:"GOUSTTY_API_TIMEOUT" default:"15s"`
	MaxRetries  int           `envconfig:"GOUSTTY_API_MAX_RETRIES" default:"3"`
	RetryBase   time.Duration `envconfig:"GOUSTTY_API_RETRY_BASE" default:"250ms"`
	RetryBudget time.Duration `envconfig:"GOUSTTY_API_RETRY_BUDGET" default:"5s"`
}

// SessionConfig controls where the auth token is persisted between runs.
type SessionConfig struct {
	TokenPath string `envconfig:"GOUSTTY_SESSION_TOKEN_PATH"`
}

// ResolveTokenPath returns the configured token path or a default under home.
func (s SessionConfig) ResolveTokenPath(home string) string {
	if s.TokenPath != "" {
		return s.TokenPath
	}
	return filepath.Join(home, ".goustty", "token")
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"GOUSTTY_MAX_UPLOAD_MB" default:"10"`
}

// DevserverConfig configures the local reference API server.
type DevserverConfig struct {
	Port        string `envconfig:"GOUSTTY_DEVSERVER_PORT" default:"8000"`
	DSN         string `envconfig:"GOUSTTY_DEVSERVER_DSN" default:"file:goustty.db?cache=shared"`
	AutoMigrate bool   `envconfig:"GOUSTTY_DEVSERVER_AUTO_MIGRATE" default:"true"`
	Seed        bool   `envconfig:"GOUSTTY_DEVSERVER_SEED" default:"true"`
	JWT         JWTConfig
	Password    PasswordConfig
	Redis       RedisConfig
	RateLimit   RateLimitConfig
}

type JWTConfig struct {
	Secret            string `envconfig:"GOUSTTY_JWT_SECRET" default:"dev-only-secret"`
	Issuer            string `envconfig:"GOUSTTY_JWT_ISSUER" default:"goustty-devserver"`
	ExpirationMinutes int    `envconfig:"GOUSTTY_JWT_EXPIRATION_MINUTES" default:"10080"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"GOUSTTY_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"GOUSTTY_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"GOUSTTY_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"GOUSTTY_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"GOUSTTY_ARGON_KEY_LEN" default:"32"`
}

// RedisConfig is optional; rate limiting and order idempotency are skipped
// when no address or URL is configured.
type RedisConfig struct {
	URL          string        `envconfig:"GOUSTTY_REDIS_URL"`
	Address      string        `envconfig:"GOUSTTY_REDIS_ADDR"`
	Password     string        `envconfig:"GOUSTTY_REDIS_PASSWORD"`
	DB           int           `envconfig:"GOUSTTY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GOUSTTY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GOUSTTY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GOUSTTY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GOUSTTY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GOUSTTY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint is configured at all.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type RateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"GOUSTTY_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"GOUSTTY_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"GOUSTTY_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"GOUSTTY_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"GOUSTTY_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"GOUSTTY_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

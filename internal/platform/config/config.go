// Package config loads service configuration from the environment so main
// stays lean. Every knob has a development-friendly default; production
// overrides via env vars.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the full service configuration.
type Config struct {
	Env    string `env:"GREENLANE_ENV" env-default:"dev"`
	Server Server
	DB     DB
	Redis  Redis
	Kafka  Kafka
	Auth   Auth
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `env:"GREENLANE_ADDR" env-default:":8080"`
	ReadTimeout     time.Duration `env:"GREENLANE_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `env:"GREENLANE_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `env:"GREENLANE_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `env:"GREENLANE_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DB configures the PostgreSQL connection. Empty URL means the service runs
// on in-memory stores (development / tests).
type DB struct {
	URL             string        `env:"GREENLANE_DATABASE_URL" env-default:""`
	MaxOpenConns    int           `env:"GREENLANE_DB_MAX_OPEN_CONNS" env-default:"10"`
	ConnMaxLifetime time.Duration `env:"GREENLANE_DB_CONN_MAX_LIFETIME" env-default:"30m"`
	MigrationsPath  string        `env:"GREENLANE_MIGRATIONS_PATH" env-default:"migrations"`
}

// Redis configures the compliance-rule cache. Empty URL disables Redis and
// falls back to the in-process cache.
type Redis struct {
	URL          string        `env:"GREENLANE_REDIS_URL" env-default:""`
	PoolSize     int           `env:"GREENLANE_REDIS_POOL_SIZE" env-default:"10"`
	MinIdleConns int           `env:"GREENLANE_REDIS_MIN_IDLE_CONNS" env-default:"2"`
	DialTimeout  time.Duration `env:"GREENLANE_REDIS_DIAL_TIMEOUT" env-default:"5s"`
	ReadTimeout  time.Duration `env:"GREENLANE_REDIS_READ_TIMEOUT" env-default:"3s"`
	WriteTimeout time.Duration `env:"GREENLANE_REDIS_WRITE_TIMEOUT" env-default:"3s"`
	RuleCacheTTL time.Duration `env:"GREENLANE_RULE_CACHE_TTL" env-default:"5m"`
}

// Kafka configures the audit event sink. Empty brokers list disables it.
type Kafka struct {
	Brokers    []string `env:"GREENLANE_KAFKA_BROKERS" env-default:"" env-separator:","`
	AuditTopic string   `env:"GREENLANE_AUDIT_TOPIC" env-default:"greenlane.compliance.audit"`
}

// Auth configures JWT verification for admin endpoints. Token issuance lives
// in the identity service; we only verify.
type Auth struct {
	JWTSigningKey string `env:"GREENLANE_JWT_SIGNING_KEY" env-default:""`
}

// Load builds a Config from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config from env: %w", err)
	}
	return &cfg, nil
}

// IsDev reports whether we run with development defaults (seeded in-memory
// stores, text logs).
func (c *Config) IsDev() bool {
	return c.Env == "dev" || c.Env == "local"
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"rwagate/internal/ledger"
	"rwagate/pkg/domain"
	pstrings "rwagate/pkg/platform/strings"
)

// Ledger backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
)

// Config is the full service configuration.
type Config struct {
	Server  Server
	Ledger  LedgerConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	Logging LoggingConfig
	Tracing TracingConfig
	Cosign  CosignConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `env:"RWAGATE_ADDR" envDefault:":8080"`
	MetricsAddr     string        `env:"RWAGATE_METRICS_ADDR" envDefault:":9090"`
	ShutdownTimeout time.Duration `env:"RWAGATE_SHUTDOWN_TIMEOUT" envDefault:"15s"`
	RequestTimeout  time.Duration `env:"RWAGATE_REQUEST_TIMEOUT" envDefault:"30s"`
	FaucetEnabled   bool          `env:"RWAGATE_FAUCET_ENABLED" envDefault:"false"`
	AdminToken      string        `env:"RWAGATE_ADMIN_TOKEN"`
}

// LedgerConfig selects and configures the runtime store.
type LedgerConfig struct {
	ProgramID           string  `env:"RWAGATE_PROGRAM_ID" envDefault:"u2LHcL4X3qhrJfmzkhinuPqEcctJPyosegum6Tdi5Nk"`
	Backend             string  `env:"RWAGATE_LEDGER_BACKEND" envDefault:"memory"`
	DatabaseURL         string  `env:"RWAGATE_DATABASE_URL"`
	SQLitePath          string  `env:"RWAGATE_SQLITE_PATH" envDefault:"rwagate.db"`
	LamportsPerByteYear uint64  `env:"RWAGATE_RENT_LAMPORTS_PER_BYTE_YEAR" envDefault:"3480"`
	ExemptionYears      float64 `env:"RWAGATE_RENT_EXEMPTION_YEARS" envDefault:"2"`
}

// RedisConfig configures the Redis client used by the redis backend.
type RedisConfig struct {
	URL          string        `env:"RWAGATE_REDIS_URL"`
	PoolSize     int           `env:"RWAGATE_REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"RWAGATE_REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"RWAGATE_REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"RWAGATE_REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"RWAGATE_REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// KafkaConfig configures change notifications. No brokers means notifications
// are logged instead of published.
type KafkaConfig struct {
	Brokers []string `env:"RWAGATE_KAFKA_BROKERS" envSeparator:","`
	Topic   string   `env:"RWAGATE_KAFKA_TOPIC" envDefault:"rwagate.asset-events"`
}

type LoggingConfig struct {
	Format string `env:"RWAGATE_LOG_FORMAT" envDefault:"json"`
	Level  string `env:"RWAGATE_LOG_LEVEL" envDefault:"info"`
}

// TracingConfig configures OTLP/HTTP trace export. No endpoint disables export.
type TracingConfig struct {
	Endpoint    string `env:"RWAGATE_OTEL_ENDPOINT"`
	ServiceName string `env:"RWAGATE_OTEL_SERVICE_NAME" envDefault:"rwagate"`
}

// CosignConfig bounds co-signature tokens.
type CosignConfig struct {
	MaxAge time.Duration `env:"RWAGATE_COSIGN_MAX_AGE" envDefault:"5m"`
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from environment variables.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	c.Ledger.Backend = strings.ToLower(strings.TrimSpace(c.Ledger.Backend))
	switch c.Ledger.Backend {
	case BackendMemory, BackendSQLite:
	case BackendPostgres:
		if c.Ledger.DatabaseURL == "" {
			return fmt.Errorf("RWAGATE_DATABASE_URL is required for the postgres backend")
		}
	case BackendRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("RWAGATE_REDIS_URL is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown ledger backend %q", c.Ledger.Backend)
	}
	c.Kafka.Brokers = pstrings.DedupeAndTrim(c.Kafka.Brokers)
	if _, err := c.ProgramID(); err != nil {
		return fmt.Errorf("RWAGATE_PROGRAM_ID: %w", err)
	}
	if c.Ledger.ExemptionYears <= 0 {
		return fmt.Errorf("RWAGATE_RENT_EXEMPTION_YEARS must be positive")
	}
	if c.Cosign.MaxAge <= 0 {
		return fmt.Errorf("RWAGATE_COSIGN_MAX_AGE must be positive")
	}
	return nil
}

// ProgramID parses the configured program address.
func (c *Config) ProgramID() (domain.Address, error) {
	return domain.ParseAddress(c.Ledger.ProgramID)
}

// Rent returns the configured minimum-balance parameters.
func (c *Config) Rent() ledger.Rent {
	return ledger.Rent{
		LamportsPerByteYear: c.Ledger.LamportsPerByteYear,
		ExemptionYears:      c.Ledger.ExemptionYears,
	}
}

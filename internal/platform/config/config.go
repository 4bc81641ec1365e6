package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"adonix/pkg/platform/strings"
)

// Storage engines selectable with ADONIX_STORAGE_ENGINE.
const (
	EngineMemory   = "memory"
	EnginePostgres = "postgres"
	EngineRedis    = "redis"
	EngineDynamoDB = "dynamodb"
)

// Server captures process level configuration.
type Server struct {
	Addr        string        `env:"ADONIX_ADDR" envDefault:":3000"`
	MetricsAddr string        `env:"METRICS_ADDR" envDefault:":9090"`
	LogLevel    string        `env:"ADONIX_LOG_LEVEL" envDefault:"info"`
	Engine      string        `env:"ADONIX_STORAGE_ENGINE" envDefault:"memory"`
	AdminToken  string        `env:"ADMIN_TOKEN"`
	Timeout     time.Duration `env:"ADONIX_REQUEST_TIMEOUT" envDefault:"30s"`
	TrustProxy  bool          `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	CORS      CORSConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	DynamoDB  DynamoDBConfig
	RateLimit RateLimitConfig
}

// CORSConfig holds the origin patterns allowed to call public routes.
// Each pattern is a regular expression matched against the Origin header.
type CORSConfig struct {
	ProdURL   string `env:"PROD_URL" envDefault:"^https://(www\\.)?hackillinois\\.org$"`
	DeployURL string `env:"DEPLOY_URL" envDefault:"^https://[a-z0-9-]+--hackillinois\\.netlify\\.app$"`
}

// Patterns returns the configured patterns in rule order, without blanks or duplicates.
func (c CORSConfig) Patterns() []string {
	return strings.Compact([]string{c.ProdURL, c.DeployURL})
}

type PostgresConfig struct {
	URL          string        `env:"DATABASE_URL"`
	MaxOpenConns int           `env:"DATABASE_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns int           `env:"DATABASE_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLife  time.Duration `env:"DATABASE_CONN_MAX_LIFETIME" envDefault:"30m"`
}

type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

type DynamoDBConfig struct {
	Region      string        `env:"DYNAMODB_REGION" envDefault:"us-east-2"`
	Endpoint    string        `env:"DYNAMODB_ENDPOINT"`
	TablePrefix string        `env:"DYNAMODB_TABLE_PREFIX"`
	TableWait   time.Duration `env:"DYNAMODB_TABLE_WAIT" envDefault:"2m"`
}

// RateLimitConfig bounds how often one client IP may call the public
// subscribe route. Off unless enabled; turn it on together with
// TRUST_PROXY_HEADERS when running behind a proxy.
type RateLimitConfig struct {
	Enabled           bool          `env:"RATE_LIMIT_ENABLED" envDefault:"false"`
	SubscribeRequests int           `env:"RATE_LIMIT_SUBSCRIBE_REQUESTS" envDefault:"10"`
	Window            time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

// FromEnv builds a Server config from the environment, after loading a
// .env file from the working directory when one exists.
func FromEnv() (Server, error) {
	_ = godotenv.Load()

	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate rejects engine selections that are missing their connection settings.
func (s Server) Validate() error {
	switch s.Engine {
	case EngineMemory:
	case EnginePostgres:
		if s.Postgres.URL == "" {
			return errors.New("DATABASE_URL is required for the postgres engine")
		}
	case EngineRedis:
		if s.Redis.URL == "" {
			return errors.New("REDIS_URL is required for the redis engine")
		}
	case EngineDynamoDB:
		if s.DynamoDB.Region == "" {
			return errors.New("DYNAMODB_REGION is required for the dynamodb engine")
		}
	default:
		return fmt.Errorf("unknown storage engine %q", s.Engine)
	}
	if s.RateLimit.Enabled && (s.RateLimit.SubscribeRequests < 1 || s.RateLimit.Window <= 0) {
		return errors.New("RATE_LIMIT_SUBSCRIBE_REQUESTS and RATE_LIMIT_WINDOW must be positive when rate limiting is enabled")
	}
	if len(s.CORS.Patterns()) == 0 {
		return errors.New("at least one of PROD_URL or DEPLOY_URL is required")
	}
	return nil
}

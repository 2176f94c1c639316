package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
	StoreMemory   = "memory"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Store    StoreConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	JWT      JWTConfig
	GitHub   GitHubConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	LogLevel    string
	LogFormat   string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration

	Migrate bool
}

// StoreConfig selects where profile and post aggregates live. Identities
// stay in Postgres unless the memory store is selected.
type StoreConfig struct {
	Aggregates string
}

type MongoConfig struct {
	URL      string
	Database string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

type JWTConfig struct {
	Secret    string
	ExpiresIn time.Duration
}

type GitHubConfig struct {
	APIURL  string
	Token   string
	Timeout time.Duration
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	var invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, def string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		return v
	}
	seconds := func(key string, def time.Duration) time.Duration {
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			return def
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			invalid = append(invalid, key)
			return def
		}
		return time.Duration(v) * time.Second
	}
	int32Of := func(key string) int32 {
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			return 0
		}
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || v < 0 {
			invalid = append(invalid, key)
			return 0
		}
		return int32(v)
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
		LogLevel:    opt("LOG_LEVEL", "info"),
		LogFormat:   opt("LOG_FORMAT", "console"),
	}

	cfg.Store = StoreConfig{
		Aggregates: strings.ToLower(opt("AGGREGATE_STORE", StorePostgres)),
	}
	switch cfg.Store.Aggregates {
	case StorePostgres, StoreMongo, StoreMemory:
	default:
		invalid = append(invalid, "AGGREGATE_STORE")
	}

	if cfg.Store.Aggregates == StorePostgres || cfg.Store.Aggregates == StoreMongo {
		cfg.Database = DatabaseConfig{
			DBHost:     req("DB_HOST"),
			DBPort:     req("DB_PORT"),
			DBName:     req("DB_NAME"),
			DBUser:     req("DB_USER"),
			DBPassword: opt("DB_PASSWORD", ""),
			DBSSLMode:  opt("DB_SSL_MODE", "disable"),
		}
	}
	cfg.Database.ConnectTimeout = seconds("DB_CONNECT_TIMEOUT", 5*time.Second)
	cfg.Database.PoolMaxConns = int32Of("DB_POOL_MAX_CONNS")
	cfg.Database.PoolMinConns = int32Of("DB_POOL_MIN_CONNS")
	cfg.Database.PoolMaxConnLifetime = seconds("DB_POOL_MAX_CONN_LIFETIME", 0)
	cfg.Database.PoolMaxConnIdleTime = seconds("DB_POOL_MAX_CONN_IDLE_TIME", 0)
	cfg.Database.PoolHealthCheckPeriod = seconds("DB_POOL_HEALTH_CHECK_PERIOD", 0)
	cfg.Database.Migrate = opt("DB_MIGRATE", "true") == "true"

	if cfg.Store.Aggregates == StoreMongo {
		cfg.Mongo = MongoConfig{
			URL:      req("MONGO_URL"),
			Database: opt("MONGO_DATABASE", "devconnector"),
		}
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST", ""),
		Port:     opt("REDIS_PORT", "6379"),
		Password: opt("REDIS_PASSWORD", ""),
		TTL:      seconds("REDIS_TTL", 600*time.Second),
	}

	cfg.JWT = JWTConfig{
		Secret:    req("JWT_SECRET"),
		ExpiresIn: seconds("JWT_EXPIRES_IN", 3600*time.Second),
	}
	if cfg.JWT.ExpiresIn <= 0 {
		invalid = append(invalid, "JWT_EXPIRES_IN")
	}

	cfg.GitHub = GitHubConfig{
		APIURL:  opt("GITHUB_API_URL", "https://api.github.com"),
		Token:   opt("GITHUB_TOKEN", ""),
		Timeout: seconds("GITHUB_TIMEOUT", 5*time.Second),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	return cfg, nil
}

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env         string            `json:"env"`
	Http        HttpConfig        `json:"http"`
	Postgres    PostgresConfig    `json:"postgres"`
	Redis       RedisConfig       `json:"redis"`
	Spots       SpotsConfig       `json:"spots"`
	Aggregation AggregationConfig `json:"aggregation"`
	RateLimit   RateLimitConfig   `json:"rate_limit"`
}

type HttpConfig struct {
	Port            string        `json:"port"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	IdentityHeader  string        `json:"identity_header"`
}

type PostgresConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	User     string `json:"user"`
	Password string `json:"password,omitempty"`
	SSLMode  string `json:"ssl_mode"`

	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MigrateOnStartup bool
}

type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password,omitempty"`
	DB       int    `json:"db"`
}

type SpotsConfig struct {
	DefaultRadiusKM float64 `json:"default_radius_km"`
}

type AggregationConfig struct {
	CacheTTL     time.Duration `json:"cache_ttl"`
	WarmInterval time.Duration `json:"warm_interval"` // 0 disables the warmer
	WarmWorkers  int           `json:"warm_workers"`
}

type RateLimitConfig struct {
	RPS   int           `json:"rps"`
	Burst int           `json:"burst"`
	TTL   time.Duration `json:"ttl"`
}

func Load() (*Config, error) {
	stdLogger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		stdLogger.Warn(".env load warning", slog.Any("error", err))
	}

	cfg := &Config{
		Env: getEnv("ENV", "local"),
		Http: HttpConfig{
			Port:            getEnv("HTTP_PORT", ":8080"),
			ReadTimeout:     getEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
			IdentityHeader:  getEnv("HTTP_IDENTITY_HEADER", "X-User-ID"),
		},
		Postgres: PostgresConfig{
			Host:             getEnv("POSTGRES_HOST", "pg-local"),
			Port:             getEnvInt("POSTGRES_PORT", 5432),
			Database:         getEnv("POSTGRES_DB", "spotmap"),
			User:             getEnv("POSTGRES_USER", "postgres"),
			Password:         getEnv("POSTGRES_PASSWORD", "postgres"),
			SSLMode:          getEnv("POSTGRES_SSL_MODE", "disable"),
			MaxConns:         int32(getEnvInt("POSTGRES_MAX_CONNS", 20)),
			MinConns:         int32(getEnvInt("POSTGRES_MIN_CONNS", 1)),
			MaxConnLifetime:  getEnvDuration("POSTGRES_MAX_CONN_LIFETIME", time.Hour),
			MigrateOnStartup: getEnvBool("MIGRATE_ON_START", true),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "redis-local:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Spots: SpotsConfig{
			DefaultRadiusKM: getEnvFloat("SPOTS_DEFAULT_RADIUS_KM", 5),
		},
		Aggregation: AggregationConfig{
			CacheTTL:     getEnvDuration("AGGREGATION_CACHE_TTL", 30*time.Second),
			WarmInterval: getEnvDuration("AGGREGATION_WARM_INTERVAL", time.Minute),
			WarmWorkers:  getEnvInt("AGGREGATION_WARM_WORKERS", 2),
		},
		RateLimit: RateLimitConfig{
			RPS:   getEnvInt("RATE_LIMIT_RPS", 10),
			Burst: getEnvInt("RATE_LIMIT_BURST", 20),
			TTL:   getEnvDuration("RATE_LIMIT_TTL", 5*time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stdLogger.Info("Config loaded successfully",
		slog.String("env", cfg.Env),
		slog.String("http_port", cfg.Http.Port),
		slog.String("postgres_db", cfg.Postgres.Database),
		slog.String("redis_addr", cfg.Redis.Addr),
		slog.Float64("default_radius_km", cfg.Spots.DefaultRadiusKM))

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Http.Port == "" || c.Http.Port[0] != ':' {
		return errors.New("HTTP_PORT must start with ':' like ':8080'")
	}
	if c.Postgres.Host == "" {
		return errors.New("POSTGRES_HOST required")
	}
	if c.Spots.DefaultRadiusKM <= 0 {
		return fmt.Errorf("SPOTS_DEFAULT_RADIUS_KM must be positive, got %v", c.Spots.DefaultRadiusKM)
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// PostgresDSN renders the key/value connection string understood by pgx.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Postgres.Host,
		c.Postgres.Port,
		c.Postgres.User,
		c.Postgres.Password,
		c.Postgres.Database,
		c.Postgres.SSLMode,
	)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

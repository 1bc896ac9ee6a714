package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type ServiceConfig struct {
	Port        string
	CORSOrigin  string
	PostgresCfg PostgresConfig
	RedisCfg    RedisConfig
	AuthCfg     AuthConfig
	GrazingCfg  GrazingConfig
	LogCfg      LogConfig
}

type PostgresConfig struct {
	DBname   string
	Username string
	Password string
	Host     string
	Port     string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type AuthConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// GrazingConfig holds the livestock and rotational grazing parameters.
// MaxUGMPerHa is nil when no stocking-rate threshold is configured.
type GrazingConfig struct {
	UGMKgEquivalence decimal.Decimal
	MaxOccupancyDays decimal.Decimal
	MaxUGMPerHa      *decimal.Decimal
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads an optional env file and then builds the config from the
// environment. A missing file is not an error.
func Load(envFile string) (*ServiceConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}
	cfg, err := New()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func New() (*ServiceConfig, error) {
	grazing, err := newGrazingConfig()
	if err != nil {
		return nil, err
	}
	accessTTL, err := getDurationOrDefault("JWT_ACCESS_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	refreshTTL, err := getDurationOrDefault("JWT_REFRESH_TTL", 30*24*time.Hour)
	if err != nil {
		return nil, err
	}
	redisDB, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	return &ServiceConfig{
		Port:       getEnvOrDefault("PORT", "8080"),
		CORSOrigin: getEnvOrDefault("CORS_ORIGIN", "http://localhost:3001"),
		PostgresCfg: PostgresConfig{
			DBname:   getEnvOrDefault("POSTGRES_DB", "gestion_rural"),
			Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
			SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
		},
		RedisCfg: RedisConfig{
			Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		AuthCfg: AuthConfig{
			AccessSecret:  getEnvOrDefault("JWT_ACCESS_SECRET", ""),
			RefreshSecret: getEnvOrDefault("JWT_REFRESH_SECRET", ""),
			AccessTTL:     accessTTL,
			RefreshTTL:    refreshTTL,
		},
		GrazingCfg: grazing,
		LogCfg: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}, nil
}

func newGrazingConfig() (GrazingConfig, error) {
	equivalence, err := decimal.NewFromString(getEnvOrDefault("UGM_KG_EQUIVALENCE", "450"))
	if err != nil {
		return GrazingConfig{}, fmt.Errorf("invalid UGM_KG_EQUIVALENCE: %w", err)
	}
	maxDays, err := decimal.NewFromString(getEnvOrDefault("PRV_MAX_OCCUPANCY_DAYS", "3"))
	if err != nil {
		return GrazingConfig{}, fmt.Errorf("invalid PRV_MAX_OCCUPANCY_DAYS: %w", err)
	}
	cfg := GrazingConfig{UGMKgEquivalence: equivalence, MaxOccupancyDays: maxDays}

	if raw := os.Getenv("PRV_MAX_UGM_PER_HA"); raw != "" {
		maxUGM, err := decimal.NewFromString(raw)
		if err != nil {
			return GrazingConfig{}, fmt.Errorf("invalid PRV_MAX_UGM_PER_HA: %w", err)
		}
		cfg.MaxUGMPerHa = &maxUGM
	}
	return cfg, nil
}

func (c *ServiceConfig) Validate() error {
	var errs []error
	if c.AuthCfg.AccessSecret == "" {
		errs = append(errs, errors.New("JWT_ACCESS_SECRET is required"))
	}
	if c.AuthCfg.RefreshSecret == "" {
		errs = append(errs, errors.New("JWT_REFRESH_SECRET is required"))
	}
	if !c.GrazingCfg.UGMKgEquivalence.IsPositive() {
		errs = append(errs, errors.New("UGM_KG_EQUIVALENCE must be positive"))
	}
	if c.GrazingCfg.MaxOccupancyDays.IsNegative() {
		errs = append(errs, errors.New("PRV_MAX_OCCUPANCY_DAYS must not be negative"))
	}
	if c.GrazingCfg.MaxUGMPerHa != nil && c.GrazingCfg.MaxUGMPerHa.IsNegative() {
		errs = append(errs, errors.New("PRV_MAX_UGM_PER_HA must not be negative"))
	}
	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationOrDefault accepts Go durations ("15m", "720h") and a day
// suffix ("30d").
func getDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	if n := len(raw); n > 1 && raw[n-1] == 'd' {
		days, err := strconv.Atoi(raw[:n-1])
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", key, err)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

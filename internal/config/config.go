package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"hotelbooking/internal/domain"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr          = ":8080"
	defaultDatabaseURL       = "hotel.db"
	defaultJWTSecret         = "change-me-jwt-secret"
	defaultJWTTTL            = "24h"
	defaultLogLevel          = "info"
	defaultRequestTimeout    = "10s"
	defaultStorageTimeout    = "5s"
	defaultReconcilerEnabled = "true"
	defaultReconcileInterval = "2m"
	defaultFutureCheckIn     = "false"
	defaultMinStay           = "0s"
	defaultOverlapMode       = string(domain.OverlapClosed)
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	DatabaseURL string
	JWTSecret   string
	JWTTTL      time.Duration
	LogLevel    string

	RequestTimeout time.Duration
	StorageTimeout time.Duration

	ReconcilerEnabled bool
	ReconcileInterval time.Duration

	Policy Policy

	CORSAllowedOrigins []string
}

// Policy holds the admission rules that differ between deployments.
type Policy struct {
	// RequireFutureCheckIn rejects check-in instants before now.
	RequireFutureCheckIn bool
	// MinStay rejects stays shorter than this. Zero disables the rule.
	MinStay     time.Duration
	OverlapMode domain.OverlapMode
}

// DefaultPolicy admits past check-ins and any stay length, with closed-interval overlap.
func DefaultPolicy() Policy {
	return Policy{OverlapMode: domain.OverlapClosed}
}

// Load reads .env (outside prod) and the process environment.
func Load() (*Config, error) {
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	appEnv = strings.ToLower(appEnv)

	if !isProdLike(appEnv) {
		// missing .env is normal
		_ = godotenv.Load()
	}

	return parse(appEnv)
}

func parse(appEnv string) (*Config, error) {
	cfg := &Config{AppEnv: appEnv}

	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.LogLevel = strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel))

	var err error
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = parseDurationEnv("REQUEST_TIMEOUT", defaultRequestTimeout); err != nil {
		return nil, err
	}
	if cfg.StorageTimeout, err = parseDurationEnv("STORAGE_TIMEOUT", defaultStorageTimeout); err != nil {
		return nil, err
	}
	if cfg.ReconcileInterval, err = parseDurationEnv("RECONCILE_INTERVAL", defaultReconcileInterval); err != nil {
		return nil, err
	}
	if cfg.Policy.MinStay, err = parseDurationEnv("MIN_STAY", defaultMinStay); err != nil {
		return nil, err
	}

	cfg.ReconcilerEnabled = parseBoolEnv("RECONCILER_ENABLED", defaultReconcilerEnabled)
	cfg.Policy.RequireFutureCheckIn = parseBoolEnv("REQUIRE_FUTURE_CHECK_IN", defaultFutureCheckIn)
	cfg.Policy.OverlapMode = domain.OverlapMode(strings.ToLower(strings.TrimSpace(getEnv("OVERLAP_MODE", defaultOverlapMode))))

	if extra := os.Getenv("CORS_ALLOWED_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be > 0")
	}
	if cfg.StorageTimeout <= 0 {
		return fmt.Errorf("STORAGE_TIMEOUT must be > 0")
	}
	if cfg.ReconcileInterval <= 0 {
		return fmt.Errorf("RECONCILE_INTERVAL must be > 0")
	}
	if cfg.Policy.MinStay < 0 {
		return fmt.Errorf("MIN_STAY must be >= 0")
	}
	if !cfg.Policy.OverlapMode.IsValid() {
		return fmt.Errorf("OVERLAP_MODE must be one of: closed, half_open")
	}

	if isProdLike(cfg.AppEnv) && isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

// IsProd reports whether the config describes a production deployment.
func (c *Config) IsProd() bool {
	return isProdLike(c.AppEnv)
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

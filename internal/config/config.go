package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	OverbookingModeRandom = "random"
	OverbookingModeFixed  = "fixed"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string
	CORSMaxAge         time.Duration

	// Simulated decision backend
	DecisionLatency       time.Duration
	ReminderCallThreshold float64
	OverbookingMode       string
	RandomSeed            int64

	// Live reminder feed
	FeedStartDelay time.Duration
	FeedInterval   time.Duration
	FeedSize       int

	// Pending-state tracking (memory when RedisAddr is empty)
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	PendingTTL    time.Duration

	RateLimitRPS   float64
	RateLimitBurst int

	// MaxConnections caps open connections, feed websockets included. 0 means no cap.
	MaxConnections int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", nil),
		CORSMaxAge:         getEnvAsDuration("CORS_MAX_AGE", 10*time.Minute),

		DecisionLatency:       getEnvAsDuration("DECISION_LATENCY", 800*time.Millisecond),
		ReminderCallThreshold: getEnvAsFloat("REMINDER_CALL_THRESHOLD", 0.45),
		OverbookingMode:       strings.ToLower(strings.TrimSpace(getEnv("OVERBOOKING_MODE", OverbookingModeRandom))),
		RandomSeed:            getEnvAsInt64("RANDOM_SEED", 0),

		FeedStartDelay: getEnvAsDuration("FEED_START_DELAY", time.Second),
		FeedInterval:   getEnvAsDuration("FEED_INTERVAL", 1200*time.Millisecond),
		FeedSize:       getEnvAsInt("FEED_SIZE", 5),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
		PendingTTL:    getEnvAsDuration("PENDING_TTL", 30*time.Second),

		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 20),
		MaxConnections: getEnvAsInt("MAX_CONNECTIONS", 256),
	}
}

// Validate reports settings the services cannot run with.
func (c *Config) Validate() error {
	var errs []error
	switch c.OverbookingMode {
	case OverbookingModeRandom, OverbookingModeFixed:
	default:
		errs = append(errs, fmt.Errorf("OVERBOOKING_MODE must be %q or %q, got %q",
			OverbookingModeRandom, OverbookingModeFixed, c.OverbookingMode))
	}
	if math.IsNaN(c.ReminderCallThreshold) || c.ReminderCallThreshold < 0 || c.ReminderCallThreshold > 1 {
		errs = append(errs, fmt.Errorf("REMINDER_CALL_THRESHOLD must be within [0,1], got %v", c.ReminderCallThreshold))
	}
	if c.FeedSize <= 0 {
		errs = append(errs, fmt.Errorf("FEED_SIZE must be positive, got %d", c.FeedSize))
	}
	if c.MaxConnections < 0 {
		errs = append(errs, fmt.Errorf("MAX_CONNECTIONS must not be negative, got %d", c.MaxConnections))
	}
	if c.DecisionLatency < 0 || c.FeedInterval < 0 || c.FeedStartDelay < 0 {
		errs = append(errs, errors.New("latency and feed delays must not be negative"))
	}
	return errors.Join(errs...)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping blanks.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

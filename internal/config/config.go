package config

import (
	"fmt"
	"log"
	"os"
	"time"
)

// App holds the runtime configuration loaded from environment variables.
type App struct {
	Env           string
	HTTPPort      string
	AdminUsername string
	AdminPassword string
	JWTIssuer     string
	JWTSigningKey string
	SessionTTL    time.Duration
	EventsBackend string
	EventsKey     string
	EventsBuffer  int
	RedisAddr     string
	DebugLogging  bool
}

// Load returns application config populated from environment variables with sensible defaults.
func Load() App {
	return App{
		Env:           getEnv("APP_ENV", "dev"),
		HTTPPort:      getEnv("HTTP_PORT", "8081"),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
		JWTIssuer:     getEnv("JWT_ISSUER", "roster"),
		JWTSigningKey: getEnv("JWT_SIGNING_KEY", "dev-signing-secret-change"),
		SessionTTL:    durationEnv("SESSION_TTL", 8*time.Hour),
		EventsBackend: getEnv("EVENTS_BACKEND", "memory"),
		EventsKey:     getEnv("EVENTS_KEY", "roster:changes"),
		EventsBuffer:  intEnv("EVENTS_BUFFER", 64),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		DebugLogging:  boolEnv("DEBUG", false),
	}
}

// Production reports whether the app runs in a production environment.
func (a App) Production() bool {
	return a.Env == "production" || a.Env == "prod"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using fallback %s", key, err, fallback)
			return fallback
		}
		return d
	}
	return fallback
}

func boolEnv(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if val == "1" || val == "true" || val == "TRUE" {
			return true
		}
		if val == "0" || val == "false" || val == "FALSE" {
			return false
		}
		log.Printf("invalid bool for %s, using fallback %v", key, fallback)
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var parsed int
		if _, err := fmt.Sscanf(val, "%d", &parsed); err == nil {
			return parsed
		}
		log.Printf("invalid int for %s, using fallback %d", key, fallback)
	}
	return fallback
}

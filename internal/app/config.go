package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AuthSecret string // Required: HS256 signing secret for session tokens (min 32 bytes)
	Issuer     string // Optional: issuer claim for session tokens (default: stocklane)

	GoogleClientID string // Optional: enables Google sign-in when set
	GitHubEnabled  bool   // Optional: enables GitHub sign-in (default: true)

	AdminEmail    string // Optional: seeds a verified admin user at startup when both are set
	AdminPassword string

	DatabaseFile string // Optional: path to SQLite database file (default: ./stocklane.db)
	PepperFile   string // Optional: path to password hashing pepper file (default: ./pepper)

	SMTPHost     string // Optional: SMTP relay; emails are logged when unset
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	Locales       []string // Supported page locales (default: en,es)
	DefaultLocale string   // Default page locale (default: en)

	SecureCookies bool // Mark the session cookie Secure (default: true outside dev)
	TrustProxy    bool // Honor X-Forwarded-For / X-Real-IP headers (default: false)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired-token cleanup interval (default: 1h)
}

func LoadConfig() Config {
	env := getEnvOrDefault("ENV", "dev")

	cfg := Config{
		AuthSecret:           os.Getenv("AUTH_SECRET"),
		Issuer:               getEnvOrDefault("AUTH_ISSUER", "stocklane"),
		GoogleClientID:       os.Getenv("GOOGLE_CLIENT_ID"),
		GitHubEnabled:        getEnvBoolOrDefault("GITHUB_ENABLED", true),
		AdminEmail:           os.Getenv("ADMIN_EMAIL"),
		AdminPassword:        os.Getenv("ADMIN_PASSWORD"),
		DatabaseFile:         getEnvOrDefault("DATABASE_FILE", "stocklane.db"),
		PepperFile:           getEnvOrDefault("PEPPER_FILE", "pepper"),
		SMTPHost:             os.Getenv("SMTP_HOST"),
		SMTPPort:             getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername:         os.Getenv("SMTP_USERNAME"),
		SMTPPassword:         os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:             getEnvOrDefault("SMTP_FROM", "no-reply@stocklane.app"),
		Locales:              splitCSV(getEnvOrDefault("LOCALES", "en,es")),
		DefaultLocale:        getEnvOrDefault("DEFAULT_LOCALE", "en"),
		SecureCookies:        getEnvBoolOrDefault("SECURE_COOKIES", env != "dev"),
		TrustProxy:           getEnvBoolOrDefault("TRUST_PROXY", false),
		Env:                  env,
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

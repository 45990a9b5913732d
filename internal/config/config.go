package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	DatabaseURL        string
	CORSAllowedOrigins []string
	AdminJWTSecret     string

	// Intake rate limiting
	RateLimitBackend  string
	ContactRateWindow time.Duration
	ContactRateMax    int
	QuoteRateWindow   time.Duration
	QuoteRateMax      int
	ReferencePrefix   string

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
	MediaBucket         string
	MediaPublicBaseURL  string

	// Staff notification email
	EmailProvider    string
	SendGridAPIKey   string
	EmailFromAddress string
	EmailFromName    string
	StaffNotifyEmail string

	InstagramAccessToken string
	InstagramAllowMock   bool
	InstagramCacheTTL    time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	env := getEnv("ENV", "development")
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                env,
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		AdminJWTSecret:     getEnv("ADMIN_JWT_SECRET", ""),

		RateLimitBackend:  strings.ToLower(strings.TrimSpace(getEnv("RATE_LIMIT_BACKEND", "memory"))),
		ContactRateWindow: getEnvAsDuration("CONTACT_RATE_WINDOW", 15*time.Minute),
		ContactRateMax:    getEnvAsInt("CONTACT_RATE_MAX", 3),
		QuoteRateWindow:   getEnvAsDuration("QUOTE_RATE_WINDOW", 30*time.Minute),
		QuoteRateMax:      getEnvAsInt("QUOTE_RATE_MAX", 2),
		ReferencePrefix:   getEnv("REFERENCE_PREFIX", "EKS"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		AWSRegion:           getEnv("AWS_REGION", "eu-central-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
		MediaBucket:         getEnv("MEDIA_BUCKET", ""),
		MediaPublicBaseURL:  getEnv("MEDIA_PUBLIC_BASE_URL", ""),

		EmailProvider:    strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "none"))),
		SendGridAPIKey:   getEnv("SENDGRID_API_KEY", ""),
		EmailFromAddress: getEnv("EMAIL_FROM_ADDRESS", ""),
		EmailFromName:    getEnv("EMAIL_FROM_NAME", "EKS Stand Design"),
		StaffNotifyEmail: getEnv("STAFF_NOTIFY_EMAIL", ""),

		InstagramAccessToken: getEnv("INSTAGRAM_ACCESS_TOKEN", ""),
		InstagramAllowMock:   getEnvAsBool("INSTAGRAM_ALLOW_MOCK", env != "production"),
		InstagramCacheTTL:    getEnvAsDuration("INSTAGRAM_CACHE_TTL", time.Hour),
	}
}

// IsProduction reports whether ENV names the production environment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
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
	if value, err := time.ParseDuration(valueStr); err == nil && value > 0 {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping blank entries.
func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

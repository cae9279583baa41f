package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration
type Config struct {
	DatabaseURL string
	JWTSecret   string
	Port        string
	Environment string
	LogLevel    string
	// Security configuration
	AllowedOrigins  string
	TrustedProxies  string
	EnableRateLimit bool
	MaxRequestSize  int64
	// Compliance and outreach
	FirmName             string
	UnsubscribeBaseURL   string
	MaxActiveEnrollments int
	// Scoring
	DefaultDealMinimum float64
	DefaultDealTarget  float64
	RescoreConcurrency int
	RescoreBatchSize   int
	RescoreAutostart   bool
}

// New creates a new configuration instance from environment variables
func New() *Config {
	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		// Security configuration
		AllowedOrigins:  getEnv("ALLOWED_ORIGINS", ""),
		TrustedProxies:  getEnv("TRUSTED_PROXIES", ""),
		EnableRateLimit: getEnv("ENABLE_RATE_LIMIT", "true") == "true",
		MaxRequestSize:  getEnvAsInt64("MAX_REQUEST_SIZE", 10*1024*1024), // 10MB default
		// Compliance and outreach
		FirmName:             getEnv("FIRM_NAME", "[FIRM]"),
		UnsubscribeBaseURL:   strings.TrimRight(getEnv("UNSUBSCRIBE_BASE_URL", "http://localhost:8080/api/v1/investors"), "/"),
		MaxActiveEnrollments: getEnvAsInt("MAX_ACTIVE_ENROLLMENTS", 2),
		// Scoring
		DefaultDealMinimum: float64(getEnvAsInt64("DEFAULT_DEAL_MINIMUM", 100000)),
		DefaultDealTarget:  float64(getEnvAsInt64("DEFAULT_DEAL_TARGET", 500000)),
		RescoreConcurrency: getEnvAsInt("RESCORE_CONCURRENCY", 10),
		RescoreBatchSize:   getEnvAsInt("RESCORE_BATCH_SIZE", 50),
		RescoreAutostart:   getEnv("RESCORE_AUTOSTART", "false") == "true",
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetAllowedOrigins returns a slice of allowed CORS origins
func (c *Config) GetAllowedOrigins() []string {
	if c.AllowedOrigins == "" {
		if c.IsDevelopment() {
			return []string{"http://localhost:3000", "http://localhost:5173"}
		}
		return []string{}
	}
	return strings.Split(c.AllowedOrigins, ",")
}

// GetTrustedProxies returns a slice of trusted proxy IPs
func (c *Config) GetTrustedProxies() []string {
	if c.TrustedProxies == "" {
		return []string{} // No trusted proxies by default
	}
	return strings.Split(c.TrustedProxies, ",")
}

// UnsubscribeLink builds the opt-out link for one investor
func (c *Config) UnsubscribeLink(investorID string) string {
	return c.UnsubscribeBaseURL + "/" + investorID + "/opt-out"
}

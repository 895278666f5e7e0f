package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Auth
	AuthEnabled       bool
	JWTSecret         string
	JWTExpirationDur  time.Duration
	OwnerPasswordHash string

	// Operations
	MetricsAPIKey  string
	PushgatewayURL string

	// Presentation
	Theme Theme

	// Reports
	ReportFillGaps bool
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port:         getEnv("PORT", "8080"),
		Env:          getEnv("ENV", "development"),
		ReadTimeout:  getDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout: getDuration("WRITE_TIMEOUT", 30*time.Second),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "spendbook"),
		DBPassword: getEnv("DB_PASSWORD", "spendbook"),
		DBName:     getEnv("DB_NAME", "spendbook"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "spendbook.db"),

		AuthEnabled:       getBool("AUTH_ENABLED", false),
		JWTSecret:         getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
		JWTExpirationDur:  getDuration("JWT_EXPIRES_IN", 24*time.Hour),
		OwnerPasswordHash: getEnv("OWNER_PASSWORD_HASH", ""),

		MetricsAPIKey:  getEnv("METRICS_API_KEY", ""),
		PushgatewayURL: getEnv("PUSHGATEWAY_URL", ""),

		Theme: ParseTheme(getEnv("UI_THEME", string(ThemeLight))),

		ReportFillGaps: getBool("REPORT_FILL_GAPS", false),
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// Set replaces the process configuration. Tests use it to inject secrets.
func Set(cfg *Config) {
	appConfig = cfg
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %v\n", key, raw, defaultValue)
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort string

	// Grading backend
	APIBaseURL string
	APITimeout time.Duration

	// Sessions
	SecretKey       string
	SessionStore    string
	SessionDuration time.Duration

	// SQL session store
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string

	// Redis session store
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	StaticFilesPath string
	TemplatesPath   string

	LoginRateLimit   int
	TrustProxy       bool
	StatsConcurrency int

	// Assignment notifications
	AWSRegion    string
	SESFromEmail string
	SESFromName  string
	NotifyEmails []string
	AppBaseURL   string

	Debug bool
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	return &Config{
		ServerPort:       getEnv("PORT", "8080"),
		APIBaseURL:       strings.TrimRight(getEnv("API_BASE_URL", "http://127.0.0.1:8000"), "/"),
		APITimeout:       time.Duration(getEnvAsInt("API_TIMEOUT_SECONDS", 30)) * time.Second,
		SecretKey:        getEnv("SECRET_KEY", "change-me-in-production"),
		SessionStore:     strings.ToLower(getEnv("SESSION_STORE", "sql")),
		SessionDuration:  time.Duration(getEnvAsInt("SESSION_HOURS", 6)) * time.Hour,
		DatabaseType:     getEnv("DB_TYPE", "sqlite"),
		DatabasePath:     getEnv("DB_PATH", "./codeassess.db"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		MigrationsPath:   getEnv("MIGRATIONS_PATH", "./migrations"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvAsInt("REDIS_DB", 0),
		StaticFilesPath:  getEnv("STATIC_PATH", "./static"),
		TemplatesPath:    getEnv("TEMPLATES_PATH", "./internal/templates"),
		LoginRateLimit:   getEnvAsInt("LOGIN_RATE_LIMIT", 20),
		TrustProxy:       getEnvAsBool("TRUST_PROXY", false),
		StatsConcurrency: getEnvAsInt("STATS_CONCURRENCY", 4),
		AWSRegion:        getEnv("AWS_REGION", "ap-south-1"),
		SESFromEmail:     getEnv("SES_FROM_EMAIL", ""),
		SESFromName:      getEnv("SES_FROM_NAME", "Coding Assessments"),
		NotifyEmails:     splitList(getEnv("NOTIFY_EMAILS", "")),
		AppBaseURL:       strings.TrimRight(getEnv("APP_BASE_URL", "http://localhost:8080"), "/"),
		Debug:            getEnvAsBool("DEBUG", false),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

// splitList turns a comma separated value into trimmed, non-empty items
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

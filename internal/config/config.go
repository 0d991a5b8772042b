package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort   int
	DatabasePath string
	Environment  string // "development" or "production"

	// FrontendURL is the origin allowed to make credentialed requests.
	FrontendURL string

	// JWTSecret signs session tokens. Read once here; rotating it
	// invalidates every outstanding session.
	JWTSecret string

	// Brevo transactional email settings for password reset delivery.
	BrevoAPIKey        string
	EmailSenderName    string
	EmailSenderAddress string

	// S3 settings for product image storage. Empty bucket disables uploads.
	S3Region string
	S3Bucket string

	// Janitor settings.
	JanitorCron       string
	LowStockThreshold int
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	thresholdStr := getEnv("LOW_STOCK_THRESHOLD", "5")
	threshold, err := strconv.Atoi(thresholdStr)
	if err != nil {
		return nil, err
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	return &Config{
		ServerPort:         port,
		DatabasePath:       getEnv("DATABASE_PATH", "./inventory.db"),
		Environment:        getEnv("APP_ENV", "development"),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:3000"),
		JWTSecret:          secret,
		BrevoAPIKey:        os.Getenv("BREVO_API_KEY"),
		EmailSenderName:    getEnv("EMAIL_SENDER_NAME", "Inventory App"),
		EmailSenderAddress: getEnv("EMAIL_SENDER_ADDRESS", "no-reply@inventory.local"),
		S3Region:           getEnv("S3_REGION", "us-east-1"),
		S3Bucket:           os.Getenv("S3_BUCKET"),
		JanitorCron:        getEnv("JANITOR_CRON", "@every 10m"),
		LowStockThreshold:  threshold,
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

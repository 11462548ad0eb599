package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL        string
	CRMClientID        string
	CRMPrivateKey      string // PEM
	CRMDefaultAudience string
	SyncInterval       int // minutes
	QueueTimeout       int // minutes
	RequestTimeout     int // seconds
	ShutdownTimeout    int // seconds
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error in production)
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	clientID := os.Getenv("CRM_CLIENT_ID")
	privateKey := os.Getenv("CRM_PRIVATE_KEY")
	if clientID == "" || privateKey == "" {
		return nil, fmt.Errorf("CRM_CLIENT_ID and CRM_PRIVATE_KEY are required")
	}

	return &Config{
		DatabaseURL:        dbURL,
		CRMClientID:        clientID,
		CRMPrivateKey:      privateKey,
		CRMDefaultAudience: os.Getenv("CRM_DEFAULT_AUDIENCE"),
		SyncInterval:       intFromEnv("SYNC_INTERVAL_MINUTES", 360),
		QueueTimeout:       intFromEnv("QUEUE_TIMEOUT_MINUTES", 20),
		RequestTimeout:     intFromEnv("REQUEST_TIMEOUT_SECONDS", 120),
		ShutdownTimeout:    intFromEnv("SHUTDOWN_TIMEOUT", 30),
	}, nil
}

// intFromEnv reads an integer env var, falling back to def when unset
// or unparseable
func intFromEnv(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Printf("Warning: invalid %s=%q, using default %d\n", key, raw, def)
		return def
	}
	return v
}

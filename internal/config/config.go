package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/erazemk/pantrypal/internal/productlookup"
)

// Config holds server configuration. Command-line flags override it.
type Config struct {
	DBPath    string
	Addr      string
	LogFile   string
	AdminUser string

	ProductAPIURL     string
	ProductAPITimeout time.Duration

	RestockInterval time.Duration
	ExpiryInterval  time.Duration
	ExpiryWindow    time.Duration
}

// Load reads configuration from the environment and an optional .env file
// in the working directory.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		DBPath:            getenv("PANTRYPAL_DB", "pantrypal.db"),
		Addr:              getenv("PANTRYPAL_ADDR", ":8080"),
		LogFile:           getenv("PANTRYPAL_LOG", ""),
		AdminUser:         getenv("PANTRYPAL_ADMIN_USER", "admin"),
		ProductAPIURL:     strings.TrimSpace(getenv("PANTRYPAL_PRODUCT_API_URL", productlookup.DefaultBaseURL)),
		ProductAPITimeout: getenvDuration("PANTRYPAL_PRODUCT_API_TIMEOUT", productlookup.DefaultTimeout),
		RestockInterval:   getenvDuration("PANTRYPAL_RESTOCK_INTERVAL", time.Hour),
		ExpiryInterval:    getenvDuration("PANTRYPAL_EXPIRY_INTERVAL", time.Hour),
		ExpiryWindow:      getenvDuration("PANTRYPAL_EXPIRY_WINDOW", 48*time.Hour),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		slog.Warn("ignoring invalid duration", "key", key, "value", value)
		return def
	}
	return d
}

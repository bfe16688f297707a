package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Rate provider configuration
	RateTTL          time.Duration
	RateFetchTimeout time.Duration
	RateURLOfficial  string
	RateURLParallel  string
	RateURLCash      string
	RateURLAltUSD    string

	// Auth
	ServiceTokenSecret string
	AdminTokenHash     string // bcrypt hash of the static admin token

	// Rate limiting, ulule/limiter format (e.g. "100-M")
	RequestRateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("RATE_TTL", "1h")
	viper.SetDefault("RATE_FETCH_TIMEOUT", "5s")
	viper.SetDefault("RATE_URL_OFFICIAL", "")
	viper.SetDefault("RATE_URL_PARALLEL", "")
	viper.SetDefault("RATE_URL_CASH", "")
	viper.SetDefault("RATE_URL_ALT_USD", "")
	viper.SetDefault("SERVICE_TOKEN_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("ADMIN_TOKEN_HASH", "")
	viper.SetDefault("REQUEST_RATE_LIMIT", "100-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	rateTTLStr := viper.GetString("RATE_TTL")
	rateTTL, err := time.ParseDuration(rateTTLStr)
	if err != nil {
		rateTTL = time.Hour
		log.Printf("Warning: Invalid value for RATE_TTL ('%s'). Defaulting to %s.\n", rateTTLStr, rateTTL)
	}
	cfg.RateTTL = rateTTL

	fetchTimeoutStr := viper.GetString("RATE_FETCH_TIMEOUT")
	fetchTimeout, err := time.ParseDuration(fetchTimeoutStr)
	if err != nil {
		fetchTimeout = 5 * time.Second
		log.Printf("Warning: Invalid value for RATE_FETCH_TIMEOUT ('%s'). Defaulting to %s.\n", fetchTimeoutStr, fetchTimeout)
	}
	cfg.RateFetchTimeout = fetchTimeout

	cfg.RateURLOfficial = viper.GetString("RATE_URL_OFFICIAL")
	cfg.RateURLParallel = viper.GetString("RATE_URL_PARALLEL")
	cfg.RateURLCash = viper.GetString("RATE_URL_CASH")
	cfg.RateURLAltUSD = viper.GetString("RATE_URL_ALT_USD")
	if cfg.RateURLOfficial == "" {
		log.Println("Warning: RATE_URL_OFFICIAL not set. Official rate fetches will fail until a manual rate is set.")
	}

	cfg.ServiceTokenSecret = viper.GetString("SERVICE_TOKEN_SECRET")
	if cfg.ServiceTokenSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: SERVICE_TOKEN_SECRET not set. Using default insecure key.")
	}
	cfg.AdminTokenHash = viper.GetString("ADMIN_TOKEN_HASH")

	cfg.RequestRateLimit = viper.GetString("REQUEST_RATE_LIMIT")

	return cfg, nil
}

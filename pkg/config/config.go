package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backend names accepted in STORAGE_BACKEND.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendPgsql  = "pgsql"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool

	// StorageBackend selects where entities live: memory, sqlite or pgsql.
	StorageBackend string
	DatabaseURL    string
	SQLitePath     string

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	RateLimit string

	// Initial trading policy values. Admins can change them at runtime;
	// these seed the policy store on first boot.
	MaxMeetingEdits           int
	MaxIncompleteTransactions int
	MaxTransactionsPerWeek    int
	LendBorrowDifference      int
}

// LoadConfig loads configuration from environment variables and a .env file
// if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("STORAGE_BACKEND", BackendMemory)
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("SQLITE_PATH", "trading.db")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "item-trading-app")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("MAX_MEETING_EDITS", 3)
	viper.SetDefault("MAX_INCOMPLETE_TRANSACTIONS", 3)
	viper.SetDefault("MAX_TRANSACTIONS_PER_WEEK", 7)
	viper.SetDefault("LEND_BORROW_DIFFERENCE", 0)

	viper.AutomaticEnv()

	cfg := &Config{
		Port:           viper.GetString("PORT"),
		IsProduction:   viper.GetBool("IS_PRODUCTION"),
		StorageBackend: viper.GetString("STORAGE_BACKEND"),
		DatabaseURL:    viper.GetString("PGSQL_URL"),
		SQLitePath:     viper.GetString("SQLITE_PATH"),
		JWTSecret:      viper.GetString("JWT_SECRET"),
		JWTIssuer:      viper.GetString("JWT_ISSUER"),
		RateLimit:      viper.GetString("RATE_LIMIT"),

		MaxMeetingEdits:           viper.GetInt("MAX_MEETING_EDITS"),
		MaxIncompleteTransactions: viper.GetInt("MAX_INCOMPLETE_TRANSACTIONS"),
		MaxTransactionsPerWeek:    viper.GetInt("MAX_TRANSACTIONS_PER_WEEK"),
		LendBorrowDifference:      viper.GetInt("LEND_BORROW_DIFFERENCE"),
	}

	if cfg.StorageBackend == BackendPgsql && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration)
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	return cfg, nil
}

package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/SscSPs/partsledger/internal/core/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL        string
	DBDriver           string
	Port               string
	IsProduction       bool
	LogLevel           string
	AuthEnabled        bool
	JWTSecret          string
	RateLimit          string
	CORSAllowedOrigins []string
	AllowNegativeStock bool
	QuiesceMaxDuration time.Duration
	SystemLedgers      domain.SystemLedgerNames
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("DB_DRIVER", DriverPostgres)
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("AUTH_ENABLED", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("RATE_LIMIT", "100-S")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,app://.")
	viper.SetDefault("ALLOW_NEGATIVE_STOCK", false)
	viper.SetDefault("QUIESCE_MAX_DURATION", "5m")
	viper.SetDefault("LEDGER_CASH", "Cash")
	viper.SetDefault("LEDGER_SALES", "Sales")
	viper.SetDefault("LEDGER_PURCHASES", "Purchases")
	viper.SetDefault("LEDGER_OUTPUT_TAX", "Output Tax")
	viper.SetDefault("LEDGER_INPUT_TAX", "Input Tax")

	// Environment variables override .env values, which override the defaults above.
	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:        viper.GetString("PGSQL_URL"),
		DBDriver:           strings.ToLower(viper.GetString("DB_DRIVER")),
		Port:               viper.GetString("PORT"),
		IsProduction:       viper.GetBool("IS_PRODUCTION"),
		LogLevel:           viper.GetString("LOG_LEVEL"),
		AuthEnabled:        viper.GetBool("AUTH_ENABLED"),
		JWTSecret:          viper.GetString("JWT_SECRET"),
		RateLimit:          viper.GetString("RATE_LIMIT"),
		AllowNegativeStock: viper.GetBool("ALLOW_NEGATIVE_STOCK"),
		SystemLedgers: domain.SystemLedgerNames{
			Cash:      viper.GetString("LEDGER_CASH"),
			Sales:     viper.GetString("LEDGER_SALES"),
			Purchases: viper.GetString("LEDGER_PURCHASES"),
			OutputTax: viper.GetString("LEDGER_OUTPUT_TAX"),
			InputTax:  viper.GetString("LEDGER_INPUT_TAX"),
		},
	}

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	switch cfg.DBDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL must be set when DB_DRIVER is %s", DriverPostgres)
		}
	case DriverMemory:
		log.Println("Warning: DB_DRIVER=memory keeps all data in process memory. Nothing is persisted.")
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	quiesceStr := viper.GetString("QUIESCE_MAX_DURATION")
	quiesceMax, err := time.ParseDuration(quiesceStr)
	if err != nil || quiesceMax <= 0 {
		quiesceMax = 5 * time.Minute
		log.Printf("Warning: Invalid value for QUIESCE_MAX_DURATION ('%s'). Defaulting to %s.\n", quiesceStr, quiesceMax)
	}
	cfg.QuiesceMaxDuration = quiesceMax

	if cfg.AuthEnabled && cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set when AUTH_ENABLED is true")
	}

	names := cfg.SystemLedgers
	for _, n := range []string{names.Cash, names.Sales, names.Purchases, names.OutputTax, names.InputTax} {
		if strings.TrimSpace(n) == "" {
			return nil, fmt.Errorf("system ledger names must not be empty")
		}
	}

	return cfg, nil
}

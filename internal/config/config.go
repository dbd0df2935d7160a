package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv                 string
	Port                   string
	CompanyName            string
	SnapshotPath           string
	InactivityWindowDays   int
	MaintenanceSessionDays int
}

// Load reads configuration from the environment, after loading an
// optional .env file. Every key has a default; malformed values are
// collected and reported together.
func Load() (*Config, error) {
	// a missing .env file is fine; the environment may be set directly
	_ = godotenv.Load()

	var errs []error

	cfg := &Config{
		AppEnv:                 envOr("APP_ENV", "development"),
		Port:                   envOr("PORT", "4000"),
		CompanyName:            envOr("COMPANY_NAME", "airline"),
		SnapshotPath:           envOr("SNAPSHOT_PATH", "data/company.json"),
		InactivityWindowDays:   intEnv("INACTIVITY_WINDOW_DAYS", 365, &errs),
		MaintenanceSessionDays: intEnv("MAINTENANCE_SESSION_DAYS", 2, &errs),
	}

	if cfg.InactivityWindowDays < 1 {
		errs = append(errs, errors.New("INACTIVITY_WINDOW_DAYS must be positive"))
	}
	if cfg.MaintenanceSessionDays < 1 {
		errs = append(errs, errors.New("MAINTENANCE_SESSION_DAYS must be positive"))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func intEnv(key string, fallback int, errs *[]error) int {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, errors.New("conversion failed env: "+key))
		return fallback
	}
	return n
}

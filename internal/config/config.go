package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port     string
	DBConn   string
	LogLevel string

	// Engine heuristics. The stress thresholds label resilience from
	// months-to-exhaustion and both boundaries are tunable.
	RecurringWindowMonths   int
	RecurringMinOccurrences int
	TrailingMonths          int
	StressModerateMonths    float64
	StressHighMonths        float64
}

// NewConfig loads configuration from the environment, reading a .env
// file first when one is present.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                    getEnv("PORT", "8080"),
		DBConn:                  getEnv("DB_CONN", "host=localhost port=5432 user=finance password=finance dbname=finanzas sslmode=disable"),
		LogLevel:                getEnv("LOG_LEVEL", "INFO"),
		RecurringWindowMonths:   getEnvInt("RECURRING_WINDOW_MONTHS", 12),
		RecurringMinOccurrences: getEnvInt("RECURRING_MIN_OCCURRENCES", 3),
		TrailingMonths:          getEnvInt("TRAILING_MONTHS", 6),
		StressModerateMonths:    getEnvFloat("STRESS_MODERATE_MONTHS", 6),
		StressHighMonths:        getEnvFloat("STRESS_HIGH_MONTHS", 12),
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.RecurringMinOccurrences < 2 {
		return nil, fmt.Errorf("RECURRING_MIN_OCCURRENCES must be at least 2")
	}
	if cfg.StressHighMonths <= cfg.StressModerateMonths {
		return nil, fmt.Errorf("STRESS_HIGH_MONTHS must exceed STRESS_MODERATE_MONTHS")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

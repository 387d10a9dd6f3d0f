package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ScenarioDefaults hold the per-asset marginal parameters used by the
// scheduled repricing job. The job replicates them across each configured
// asset dimension.
type ScenarioDefaults struct {
	Spot          float64
	Strike        float64
	RiskFreeRate  float64
	DividendYield float64
	Volatility    float64
	Maturity      float64
	NumDates      int
	TrainingPaths int
	TestPaths     int
	Degree        int
	TrainingSeed  *uint64
	TestSeed      *uint64

	// ReducedPrecision stores simulated paths as float32, halving memory
	// for large dimension sweeps.
	ReducedPrecision bool
}

// Config holds application configuration
type Config struct {
	Port         int
	LogLevel     string
	DevMode      bool
	DatabasePath string

	// RepriceSchedule is a cron expression; empty disables the job.
	RepriceSchedule   string
	RepriceDimensions []int

	Scenario ScenarioDefaults
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnvAsInt("PORT", 8001),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DevMode:           getEnvAsBool("DEV_MODE", false),
		DatabasePath:      getEnv("DATABASE_PATH", "./data/pricing.db"),
		RepriceSchedule:   getEnv("REPRICE_SCHEDULE", ""),
		RepriceDimensions: getEnvAsInts("REPRICE_DIMENSIONS", []int{1, 2}),
		Scenario: ScenarioDefaults{
			Spot:             getEnvAsFloat("SCENARIO_SPOT", 100.0),
			Strike:           getEnvAsFloat("SCENARIO_STRIKE", 100.0),
			RiskFreeRate:     getEnvAsFloat("SCENARIO_RATE", 0.05),
			DividendYield:    getEnvAsFloat("SCENARIO_DIVIDEND", 0.10),
			Volatility:       getEnvAsFloat("SCENARIO_VOLATILITY", 0.20),
			Maturity:         getEnvAsFloat("SCENARIO_MATURITY", 3.0),
			NumDates:         getEnvAsInt("SCENARIO_NUM_DATES", 9),
			TrainingPaths:    getEnvAsInt("SCENARIO_TRAINING_PATHS", 25000),
			TestPaths:        getEnvAsInt("SCENARIO_TEST_PATHS", 100000),
			Degree:           getEnvAsInt("SCENARIO_DEGREE", 5),
			TrainingSeed:     getEnvAsUint64Ptr("SCENARIO_TRAINING_SEED"),
			TestSeed:         getEnvAsUint64Ptr("SCENARIO_TEST_SEED"),
			ReducedPrecision: getEnvAsBool("SCENARIO_REDUCED_PRECISION", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be a valid port number, got %d", c.Port)
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	for _, d := range c.RepriceDimensions {
		if d <= 0 {
			return fmt.Errorf("REPRICE_DIMENSIONS entries must be positive, got %d", d)
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvAsUint64Ptr(key string) *uint64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return &n
		}
	}
	return nil
}

func getEnvAsInts(key string, fallback []int) []int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	var out []int
	for _, part := range strings.Split(v, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return fallback
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// BucketConfiguration holds the S3 bucket used for log shipping.
// Optional: when LogBucket is empty, logs stay local.
type BucketConfiguration struct {
	Region       string
	Endpoint     string
	AccessKey    string
	AccessSecret string
	LogBucket    string
}

// WarehouseConfiguration selects the destination of the aggregated dataset.
// When URL is set a Postgres connection is used, otherwise a local sqlite file.
type WarehouseConfiguration struct {
	URL        string
	SqlitePath string
}

// Config holds everything the collector needs to run.
type Config struct {
	ApiKey       string
	DataRoot     string
	AccountsFile string
	AutoRefresh  bool

	Bucket    BucketConfiguration
	Warehouse WarehouseConfiguration
}

// Load reads the environment (sourcing a .env file if present) and
// validates the required values.
func Load() (*Config, error) {
	// Missing .env is fine, the variables can come from the environment itself.
	godotenv.Load()

	cfg := &Config{
		ApiKey:       os.Getenv("API_KEY"),
		DataRoot:     getEnvDefault("DATA_ROOT", "data"),
		AccountsFile: getEnvDefault("ACCOUNTS_FILE", "accounts.json"),
		AutoRefresh:  os.Getenv("AUTO_REFRESH") == "1",
		Bucket: BucketConfiguration{
			Region:       os.Getenv("BUCKET_REGION"),
			Endpoint:     os.Getenv("BUCKET_ENDPOINT"),
			AccessKey:    os.Getenv("BUCKET_ACCESS_KEY"),
			AccessSecret: os.Getenv("BUCKET_ACCESS_SECRET"),
			LogBucket:    os.Getenv("LOG_BUCKET"),
		},
		Warehouse: WarehouseConfiguration{
			URL: os.Getenv("DATABASE_URL"),
		},
	}

	cfg.Warehouse.SqlitePath = getEnvDefault(
		"SQLITE_PATH",
		filepath.Join(cfg.DataRoot, "rfd", "lol_history.db"),
	)

	if cfg.ApiKey == "" {
		return nil, fmt.Errorf("the API_KEY environment variable must be set")
	}

	return cfg, nil
}

// Get a environment variable with a fallback value.
func getEnvDefault(key string, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

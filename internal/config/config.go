// Package config defines the explicit configuration for the pipeline. All
// settings come from environment variables with development-friendly
// defaults; a .env file is honored when present. The resulting Config is
// passed into each stage entry point so stages never read ambient state.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config aggregates every external endpoint the pipeline talks to.
type Config struct {
	DB         PostgresConfig
	S3         S3Config
	ClickHouse ClickHouseConfig
	Metrics    MetricsConfig
}

// PostgresConfig identifies the relational store hosting the raw_data,
// staging, and warehouse schemas.
type PostgresConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// DSN assembles the pgx connection string.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

// S3Config identifies the object storage sink for warehouse exports.
// Endpoint is optional; when set, path-style addressing is used so that
// MinIO-style services work.
type S3Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
}

// ClickHouseConfig identifies the analytical warehouse sink. Database is
// created on first load if absent.
type ClickHouseConfig struct {
	Addr     string
	Database string
	Username string
	Password string
}

// MetricsConfig selects the metrics backend. Backend "pushgateway" pushes to
// PushgatewayURL under the given job name; anything else disables metrics.
type MetricsConfig struct {
	Backend        string
	PushgatewayURL string
	Job            string
}

// Load reads the configuration from the environment, loading .env first if
// one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	pgPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}

	return &Config{
		DB: PostgresConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     pgPort,
			Database: getEnv("DB_NAME", "olist_db"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
		},
		S3: S3Config{
			Bucket:          getEnv("S3_BUCKET", "olist-warehouse"),
			Region:          getEnv("S3_REGION", "us-east-1"),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
		},
		ClickHouse: ClickHouseConfig{
			Addr:     getEnv("CLICKHOUSE_ADDR", "localhost:9000"),
			Database: getEnv("CLICKHOUSE_DATABASE", "olist_analytics"),
			Username: getEnv("CLICKHOUSE_USERNAME", "default"),
			Password: getEnv("CLICKHOUSE_PASSWORD", ""),
		},
		Metrics: MetricsConfig{
			Backend:        getEnv("METRICS_BACKEND", "none"),
			PushgatewayURL: getEnv("PUSHGATEWAY_URL", "http://localhost:9091"),
			Job:            getEnv("METRICS_JOB", "olist_pipeline"),
		},
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not an integer: %w", key, v, err)
	}
	return n, nil
}

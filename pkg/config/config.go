package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음 (all env reads happen here)
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Screening run
	Scan ScanConfig

	// Performance ledger
	Ledger LedgerConfig

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Scheduler
	Schedule ScheduleConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
}

// ScanConfig holds input/output locations and the worker pool size
type ScanConfig struct {
	DataDir       string // one <code>.csv per symbol
	NamesFile     string // code,name listing
	OutputDir     string // reports root (YYYYMM partitions below)
	Workers       int
	ColumnMapFile string // optional YAML column aliases
	StrategyFile  string // optional YAML strategy thresholds
}

// LedgerConfig selects the ledger store
type LedgerConfig struct {
	Backend      string // csv | postgres
	Dir          string
	MinResonance int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// ScheduleConfig holds cron settings for the daily scan
type ScheduleConfig struct {
	Enabled   bool
	DailyScan string
}

// Ledger backends
const (
	LedgerBackendCSV      = "csv"
	LedgerBackendPostgres = "postgres"
)

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		Scan: ScanConfig{
			DataDir:       getEnv("DATA_DIR", "data/daily"),
			NamesFile:     getEnv("NAMES_FILE", "data/stock_names.csv"),
			OutputDir:     getEnv("OUTPUT_DIR", "results"),
			Workers:       getEnvAsInt("SCAN_WORKERS", 8),
			ColumnMapFile: getEnv("COLUMN_MAP_FILE", ""),
			StrategyFile:  getEnv("STRATEGY_FILE", ""),
		},

		Ledger: LedgerConfig{
			Backend:      strings.ToLower(getEnv("LEDGER_BACKEND", LedgerBackendCSV)),
			Dir:          getEnv("LEDGER_DIR", "results/ledger"),
			MinResonance: getEnvAsInt("LEDGER_MIN_RESONANCE", 2),
		},

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Schedule: ScheduleConfig{
			Enabled:   getEnvAsBool("SCHEDULER_ENABLED", true),
			DailyScan: getEnv("SCHEDULE_DAILY_SCAN", "0 30 15 * * 1-5"), // 收盘后 15:30
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Scan.Workers < 1 {
		return fmt.Errorf("SCAN_WORKERS must be >= 1, got %d", c.Scan.Workers)
	}

	if c.Ledger.MinResonance < 1 {
		return fmt.Errorf("LEDGER_MIN_RESONANCE must be >= 1, got %d", c.Ledger.MinResonance)
	}

	switch c.Ledger.Backend {
	case LedgerBackendCSV:
	case LedgerBackendPostgres:
		// Database URL is only needed when the ledger lives in postgres
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when LEDGER_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("LEDGER_BACKEND must be one of: csv, postgres")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

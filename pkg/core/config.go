package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config contains the complete configuration for a pipeline Client and the
// HTTP server built on top of it.
//
// Example:
//
//	cfg := &core.Config{
//	    Storage: core.StorageConfig{
//	        Provider: "sqlite",
//	        SQLite:   core.SQLiteConfig{Path: "./memshare.db"},
//	    },
//	    Generator: core.GeneratorConfig{Provider: "rules"},
//	}
type Config struct {
	// Server contains HTTP server settings.
	Server ServerConfig `yaml:"server" json:"server"`

	// Storage contains storage backend settings.
	Storage StorageConfig `yaml:"storage" json:"storage"`

	// Generator contains answer generator settings.
	Generator GeneratorConfig `yaml:"generator" json:"generator"`

	// Suppression contains duplicate suppression settings.
	Suppression SuppressionConfig `yaml:"suppression" json:"suppression"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `yaml:"addr" json:"addr"`

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// StorageConfig contains storage backend settings.
//
// Supported providers: memory, sqlite, postgres, mysql.
type StorageConfig struct {
	// Provider is the storage backend name.
	Provider string `yaml:"provider" json:"provider"`

	// SQLite contains SQLite settings (used when Provider is "sqlite").
	SQLite SQLiteConfig `yaml:"sqlite" json:"sqlite"`

	// Postgres contains PostgreSQL settings (used when Provider is "postgres").
	Postgres PostgresConfig `yaml:"postgres" json:"postgres"`

	// MySQL contains MySQL settings (used when Provider is "mysql").
	MySQL MySQLConfig `yaml:"mysql" json:"mysql"`
}

// SQLiteConfig contains SQLite settings.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string `yaml:"path" json:"path"`
}

// PostgresConfig contains PostgreSQL settings.
type PostgresConfig struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	User     string `yaml:"user" json:"user"`
	Password string `yaml:"password" json:"password"`
	DBName   string `yaml:"db_name" json:"db_name"`
	SSLMode  string `yaml:"ssl_mode" json:"ssl_mode"`
}

// MySQLConfig contains MySQL settings.
type MySQLConfig struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	User     string `yaml:"user" json:"user"`
	Password string `yaml:"password" json:"password"`
	DBName   string `yaml:"db_name" json:"db_name"`
}

// GeneratorConfig contains answer generator settings.
//
// Supported providers: rules (deterministic, default), openai.
type GeneratorConfig struct {
	// Provider is the generator name.
	Provider string `yaml:"provider" json:"provider"`

	// APIKey is the API key for LLM-backed providers.
	APIKey string `yaml:"api_key" json:"api_key"`

	// Model is the model name for LLM-backed providers.
	Model string `yaml:"model" json:"model"`

	// BaseURL overrides the provider's API base URL (optional).
	BaseURL string `yaml:"base_url" json:"base_url"`
}

// SuppressionConfig contains duplicate suppression settings.
type SuppressionConfig struct {
	// WindowSeconds is the suppression window in seconds (default 60).
	WindowSeconds int `yaml:"window_seconds" json:"window_seconds"`
}

// DefaultConfig returns a Config populated with safe defaults: an in-memory
// suppression window of 60 seconds, the rules generator, and a local SQLite
// database.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:     ":8080",
			LogLevel: "info",
		},
		Storage: StorageConfig{
			Provider: "sqlite",
			SQLite:   SQLiteConfig{Path: "./memshare.db"},
		},
		Generator: GeneratorConfig{
			Provider: "rules",
		},
		Suppression: SuppressionConfig{
			WindowSeconds: 60,
		},
	}
}

// LoadConfigFromEnv loads configuration from environment variables.
//
// The function:
//  1. Searches for .env or .env.example files (up to 5 directory levels up)
//  2. Loads environment variables from the found file
//  3. Parses environment variables into a Config struct on top of defaults
//
// Supported environment variables:
//   - HTTP_ADDR, LOG_LEVEL
//   - DATABASE_PROVIDER (memory, sqlite, postgres, mysql)
//   - SQLITE_PATH
//   - POSTGRES_HOST, POSTGRES_PORT, POSTGRES_USER, POSTGRES_PASSWORD,
//     POSTGRES_DATABASE, POSTGRES_SSLMODE
//   - MYSQL_HOST, MYSQL_PORT, MYSQL_USER, MYSQL_PASSWORD, MYSQL_DATABASE
//   - GENERATOR_PROVIDER (rules, openai), GENERATOR_API_KEY,
//     GENERATOR_MODEL, GENERATOR_BASE_URL
//   - SUPPRESSION_WINDOW_SECONDS
func LoadConfigFromEnv() (*Config, error) {
	if envPath, found := FindEnvFile(); found {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	cfg := DefaultConfig()

	cfg.Server.Addr = getEnvOrDefault("HTTP_ADDR", cfg.Server.Addr)
	cfg.Server.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.Server.LogLevel)

	cfg.Storage.Provider = getEnvOrDefault("DATABASE_PROVIDER", cfg.Storage.Provider)
	switch cfg.Storage.Provider {
	case "sqlite":
		cfg.Storage.SQLite.Path = getEnvOrDefault("SQLITE_PATH", cfg.Storage.SQLite.Path)
	case "postgres":
		port, _ := strconv.Atoi(getEnvOrDefault("POSTGRES_PORT", "5432"))
		cfg.Storage.Postgres = PostgresConfig{
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:     port,
			User:     getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DBName:   getEnvOrDefault("POSTGRES_DATABASE", "memshare"),
			SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
		}
	case "mysql":
		port, _ := strconv.Atoi(getEnvOrDefault("MYSQL_PORT", "3306"))
		cfg.Storage.MySQL = MySQLConfig{
			Host:     getEnvOrDefault("MYSQL_HOST", "127.0.0.1"),
			Port:     port,
			User:     getEnvOrDefault("MYSQL_USER", "root"),
			Password: os.Getenv("MYSQL_PASSWORD"),
			DBName:   getEnvOrDefault("MYSQL_DATABASE", "memshare"),
		}
	}

	cfg.Generator.Provider = getEnvOrDefault("GENERATOR_PROVIDER", cfg.Generator.Provider)
	cfg.Generator.APIKey = os.Getenv("GENERATOR_API_KEY")
	cfg.Generator.Model = os.Getenv("GENERATOR_MODEL")
	cfg.Generator.BaseURL = os.Getenv("GENERATOR_BASE_URL")

	if v := os.Getenv("SUPPRESSION_WINDOW_SECONDS"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return nil, NewPipelineError("LoadConfigFromEnv", fmt.Errorf("%w: SUPPRESSION_WINDOW_SECONDS: %v", ErrInvalidConfig, err))
		}
		cfg.Suppression.WindowSeconds = seconds
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadConfigFromFile loads configuration from a YAML file on top of defaults.
func LoadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewPipelineError("LoadConfigFromFile", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, NewPipelineError("LoadConfigFromFile", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Storage.Provider {
	case "memory", "sqlite", "postgres", "mysql":
	default:
		return NewPipelineError("Validate", fmt.Errorf("%w: unknown storage provider %q", ErrInvalidConfig, c.Storage.Provider))
	}

	switch c.Generator.Provider {
	case "rules":
	case "openai":
		if c.Generator.APIKey == "" {
			return NewPipelineError("Validate", fmt.Errorf("%w: openai generator requires an api key", ErrInvalidConfig))
		}
	default:
		return NewPipelineError("Validate", fmt.Errorf("%w: unknown generator provider %q", ErrInvalidConfig, c.Generator.Provider))
	}

	if c.Suppression.WindowSeconds <= 0 {
		return NewPipelineError("Validate", fmt.Errorf("%w: suppression window must be > 0", ErrInvalidConfig))
	}

	return nil
}

// getEnvOrDefault gets an environment variable or returns the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FindEnvFile searches for .env or .env.example files.
//
// The search:
//  1. Checks the current directory
//  2. Searches up to 5 directory levels up
//  3. Returns the first .env or .env.example file found
func FindEnvFile() (string, bool) {
	if _, err := os.Stat(".env"); err == nil {
		return ".env", true
	}
	if _, err := os.Stat(".env.example"); err == nil {
		return ".env.example", true
	}

	dir, _ := os.Getwd()
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		envExamplePath := filepath.Join(dir, ".env.example")

		if _, err := os.Stat(envPath); err == nil {
			return envPath, true
		}
		if _, err := os.Stat(envExamplePath); err == nil {
			return envExamplePath, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", false
}

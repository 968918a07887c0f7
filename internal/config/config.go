// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.stackguide/config.yaml, then ./config.yaml)
//  3. Default values
//
// Upload policy (maximum size, allowed extensions) is fixed at compile time
// and not runtime-negotiable; only the upload directory is configurable.
//
// Error Handling:
//   - Uses sentinel errors for Go-idiomatic error checking with errors.Is()
//   - Wrap with context using fmt.Errorf("%w: details", ErrXxx)
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrInvalidUploadDir indicates the upload directory setting is invalid.
	ErrInvalidUploadDir = errors.New("invalid upload directory")

	// ErrInvalidRateBurst indicates the rate limiter burst is out of range.
	ErrInvalidRateBurst = errors.New("invalid rate burst")

	// ErrInvalidPostgresHost indicates the PostgreSQL host is invalid.
	ErrInvalidPostgresHost = errors.New("invalid PostgreSQL host")

	// ErrInvalidPostgresPort indicates the PostgreSQL port is out of range.
	ErrInvalidPostgresPort = errors.New("invalid PostgreSQL port")

	// ErrInvalidPostgresDBName indicates the PostgreSQL database name is invalid.
	ErrInvalidPostgresDBName = errors.New("invalid PostgreSQL database name")

	// ErrInvalidPostgresPassword indicates the PostgreSQL password is invalid.
	ErrInvalidPostgresPassword = errors.New("invalid PostgreSQL password")

	// ErrInvalidPostgresSSLMode indicates the PostgreSQL SSL mode is invalid.
	ErrInvalidPostgresSSLMode = errors.New("invalid PostgreSQL SSL mode")
)

const (
	// MaxUploadSize is the maximum accepted upload size in bytes (10 MiB).
	MaxUploadSize int64 = 10 * 1024 * 1024

	// DefaultUploadDir is the upload directory used when no override is set.
	DefaultUploadDir = "./uploads"

	// DefaultRateBurst is the per-IP rate limiter burst size.
	DefaultRateBurst = 60
)

// AllowedExtensions lists the filename suffixes accepted for upload,
// lowercase with leading dot. Matching is case-insensitive.
var AllowedExtensions = []string{".md", ".txt", ".pdf", ".json", ".csv", ".xml", ".yaml", ".yml"}

// Config stores application configuration.
// SECURITY: Sensitive fields are masked in MarshalJSON().
type Config struct {
	// Upload directory for accepted documents
	UploadDir string `mapstructure:"upload_dir" json:"upload_dir"`

	// Storage configuration (see storage.go for DSN/URL helpers).
	// PostgresEnabled gates the feedback store; the upload service itself
	// never requires a database.
	PostgresEnabled  bool   `mapstructure:"postgres_enabled" json:"postgres_enabled"`
	PostgresHost     string `mapstructure:"postgres_host" json:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port" json:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user" json:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password" json:"postgres_password"` // SENSITIVE: masked in MarshalJSON
	PostgresDBName   string `mapstructure:"postgres_db_name" json:"postgres_db_name"`
	PostgresSSLMode  string `mapstructure:"postgres_ssl_mode" json:"postgres_ssl_mode"`

	// HTTP server behavior
	RateBurst  int  `mapstructure:"rate_burst" json:"rate_burst"`
	TrustProxy bool `mapstructure:"trust_proxy" json:"trust_proxy"` // Trust X-Real-IP/X-Forwarded-For (set true behind reverse proxy)
}

// Load loads configuration.
// Priority: Environment variables > Configuration file > Default values
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".stackguide")

	// Ensure directory exists (0750 for better security)
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".") // Also support current directory

	setDefaults()
	bindEnvVariables()

	// Read configuration file (if exists)
	if err := viper.ReadInConfig(); err != nil {
		// Configuration file not found is not an error, use default values
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."},
			"config_name", "config.yaml")
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// Parse DATABASE_URL if set (highest priority for PostgreSQL config)
	if err := cfg.parseDatabaseURL(); err != nil {
		return nil, fmt.Errorf("parsing DATABASE_URL: %w", err)
	}

	// Validate immediately (fail-fast)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults() {
	viper.SetDefault("upload_dir", DefaultUploadDir)

	// PostgreSQL defaults (local development instance)
	viper.SetDefault("postgres_enabled", false)
	viper.SetDefault("postgres_host", "localhost")
	viper.SetDefault("postgres_port", 5432)
	viper.SetDefault("postgres_user", "stackguide")
	viper.SetDefault("postgres_password", "stackguide_dev")
	viper.SetDefault("postgres_db_name", "stackguide")
	viper.SetDefault("postgres_ssl_mode", "disable")

	viper.SetDefault("rate_burst", DefaultRateBurst)

	// Proxy trust (default: false — safe for direct exposure)
	viper.SetDefault("trust_proxy", false)
}

// bindEnvVariables binds environment variables explicitly.
// The DB_* names match the ones the deployment scripts already export;
// DATABASE_URL is handled separately in parseDatabaseURL.
func bindEnvVariables() {
	// Helper to panic on unexpected bind errors (hardcoded strings can't fail)
	// If this panics, it's a BUG in our code, not a runtime error
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("upload_dir", "STACKGUIDE_UPLOAD_DIR")

	mustBind("postgres_enabled", "STACKGUIDE_POSTGRES_ENABLED")
	mustBind("postgres_host", "DB_HOST")
	mustBind("postgres_port", "DB_PORT")
	mustBind("postgres_user", "DB_USER")
	mustBind("postgres_password", "DB_PASSWORD")
	mustBind("postgres_db_name", "DB_NAME")
	mustBind("postgres_ssl_mode", "DB_SSL_MODE")

	mustBind("rate_burst", "STACKGUIDE_RATE_BURST")
	mustBind("trust_proxy", "STACKGUIDE_TRUST_PROXY")
}

// maskedValue is the placeholder for masked sensitive data.
// Full-width blocks avoid substring matching against real password characters.
const maskedValue = "████████"

// MarshalJSON masks sensitive fields when the config is serialized
// (logs, debug dumps). The mapstructure tags are unaffected.
func (c *Config) MarshalJSON() ([]byte, error) {
	type alias Config // avoid recursion
	masked := alias(*c)
	if masked.PostgresPassword != "" {
		masked.PostgresPassword = maskedValue
	}
	return json.Marshal(masked)
}

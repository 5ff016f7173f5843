package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g.
// BIBLE_MEMO_STORAGE_TYPE or BIBLE_MEMO_API_BASE_URL.
const EnvPrefix = "BIBLE_MEMO"

// FileName is the config file looked up in the home directory.
const FileName = ".bible-memo.yaml"

// Config holds all application configuration.
type Config struct {
	Storage    StorageConfig
	Database   DatabaseConfig
	API        APIConfig
	Credential CredentialConfig
	Log        LogConfig
	Server     ServerConfig
	Review     ReviewConfig

	// File is the config file that was read, or "" when defaults and
	// environment were used.
	File string
}

// StorageConfig selects where the verse collection and token live.
type StorageConfig struct {
	Type     string // "local", "s3", "sqlite", "mysql" or "memory"
	BaseDir  string // local: directory holding one file per key
	S3Bucket string
	S3Region string
	S3Prefix string
}

// DatabaseConfig holds database connection configuration for the sqlite
// and mysql storage types.
type DatabaseConfig struct {
	Driver       string
	Path         string
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
}

// APIConfig configures the remote Bible text client.
type APIConfig struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64
	Burst     int
}

// CredentialConfig controls how the API token is stored.
type CredentialConfig struct {
	// Secret seals the token at rest. Empty stores it as plain text.
	Secret string
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// ReviewConfig holds flashcard settings.
type ReviewConfig struct {
	// Seed makes shuffles reproducible. Zero picks a random seed.
	Seed uint64
}

// DefaultPath returns ~/.bible-memo.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, FileName), nil
}

// DefaultDataDir returns ~/.bible-memo, or ./.bible-memo without a home.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bible-memo"
	}
	return filepath.Join(home, ".bible-memo")
}

// Load reads configuration from configPath (or ~/.bible-memo.yaml and
// ./config.yaml when empty) and applies environment overrides. A missing
// file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, ".yaml"))
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	config.File = v.ConfigFileUsed()

	config.Storage.Type = strings.ToLower(v.GetString("storage.type"))
	config.Storage.BaseDir = v.GetString("storage.base_dir")
	config.Storage.S3Bucket = v.GetString("storage.s3_bucket")
	config.Storage.S3Region = v.GetString("storage.s3_region")
	config.Storage.S3Prefix = v.GetString("storage.s3_prefix")

	config.Database.Driver = strings.ToLower(v.GetString("database.driver"))
	config.Database.Path = v.GetString("database.path")
	config.Database.Host = v.GetString("database.host")
	config.Database.Port = v.GetInt("database.port")
	config.Database.User = v.GetString("database.user")
	config.Database.Password = v.GetString("database.password")
	config.Database.Database = v.GetString("database.database")
	config.Database.MaxOpenConns = v.GetInt("database.max_open_conns")
	config.Database.MaxIdleConns = v.GetInt("database.max_idle_conns")

	config.API.BaseURL = v.GetString("api.base_url")
	config.API.Timeout = v.GetDuration("api.timeout")
	config.API.RateLimit = v.GetFloat64("api.rate_limit")
	config.API.Burst = v.GetInt("api.burst")

	config.Credential.Secret = v.GetString("credential.secret")

	config.Log.Level = v.GetString("log.level")
	config.Log.Format = v.GetString("log.format")

	config.Server.Host = v.GetString("server.host")
	config.Server.Port = v.GetInt("server.port")
	config.Server.ReadTimeout = v.GetDuration("server.read_timeout")
	config.Server.WriteTimeout = v.GetDuration("server.write_timeout")
	config.Server.ShutdownTimeout = v.GetDuration("server.shutdown_timeout")

	config.Review.Seed = v.GetUint64("review.seed")

	// The sqlite and mysql storage types imply the database driver.
	if config.Storage.Type == "sqlite" || config.Storage.Type == "mysql" {
		config.Database.Driver = config.Storage.Type
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	dataDir := DefaultDataDir()

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.base_dir", dataDir)
	v.SetDefault("storage.s3_bucket", "")
	v.SetDefault("storage.s3_region", "us-east-1")
	v.SetDefault("storage.s3_prefix", "bible-memo")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", filepath.Join(dataDir, "bible-memo.db"))
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "bible_memo")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)

	v.SetDefault("api.base_url", "https://www.abibliadigital.com.br/api")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("api.rate_limit", 5)
	v.SetDefault("api.burst", 5)

	v.SetDefault("credential.secret", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")

	v.SetDefault("review.seed", 0)
}

// Validate rejects settings that cannot work at start-up.
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case "local":
		if c.Storage.BaseDir == "" {
			return fmt.Errorf("storage.base_dir is required for local storage")
		}
	case "s3":
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("storage.s3_bucket is required for s3 storage")
		}
	case "sqlite", "mysql", "memory":
	default:
		return fmt.Errorf("unsupported storage.type: %q", c.Storage.Type)
	}

	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	return nil
}

// Template is written by "memo config init".
const Template = `# bible-memo configuration
storage:
  type: local            # local, s3, sqlite, mysql or memory
  # base_dir: ~/.bible-memo
  s3_bucket: ""
  s3_region: us-east-1
  s3_prefix: bible-memo

database:
  # path: ~/.bible-memo/bible-memo.db
  host: localhost
  port: 3306
  user: root
  password: ""
  database: bible_memo

api:
  base_url: https://www.abibliadigital.com.br/api
  timeout: 30s
  rate_limit: 5
  burst: 5

credential:
  secret: ""             # set to encrypt the API token at rest

log:
  level: info
  format: json

server:
  host: 0.0.0.0
  port: 8080

review:
  seed: 0
`

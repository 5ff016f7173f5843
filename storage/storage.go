package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrKeyNotFound is returned when no value is stored under a key.
	ErrKeyNotFound = errors.New("key not found")

	// ErrInvalidKey is returned for empty keys or keys outside the flat namespace.
	ErrInvalidKey = errors.New("invalid key")
)

// Store is a flat namespace of string keys mapping to opaque values.
// Every Put replaces the whole value.
type Store interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether a value is stored under key.
	Exists(ctx context.Context, key string) (bool, error)
}

// Backend types accepted by New.
const (
	TypeLocal  = "local"
	TypeS3     = "s3"
	TypeSQLite = "sqlite"
	TypeMySQL  = "mysql"
	TypeMemory = "memory"
)

// Config selects and configures a Store backend.
type Config struct {
	Type     string
	BaseDir  string
	S3Bucket string
	S3Region string
	S3Prefix string

	// DB is required for the sqlite and mysql backends.
	DB *gorm.DB
}

// IsSQL reports whether the configured backend keeps values in a database.
func (c Config) IsSQL() bool {
	t := strings.ToLower(c.Type)
	return t == TypeSQLite || t == TypeMySQL
}

// New creates the Store described by cfg.
func New(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(cfg.Type) {
	case TypeLocal:
		if cfg.BaseDir == "" {
			return nil, fmt.Errorf("base_dir is required for local storage")
		}
		return NewLocalStore(cfg.BaseDir)

	case TypeS3:
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("bucket is required for S3 storage")
		}
		if cfg.S3Region == "" {
			return nil, fmt.Errorf("region is required for S3 storage")
		}
		s, err := NewS3Store(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3Prefix)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		return s, nil

	case TypeSQLite, TypeMySQL:
		if cfg.DB == nil {
			return nil, fmt.Errorf("a database connection is required for %s storage", cfg.Type)
		}
		return NewSQLStore(cfg.DB), nil

	case TypeMemory:
		return NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// validateKey keeps keys flat: no separators, no traversal, no hidden files.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}
	if len(key) > 191 {
		return fmt.Errorf("%w: key longer than 191 characters", ErrInvalidKey)
	}
	if !keyPattern.MatchString(key) || strings.Contains(key, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// Package config loads the service configuration from a YAML file and lets
// environment variables of the same names override it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gartstein/hiring/internal/hiring/db"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// PathEnv names the variable that points at the config file.
const PathEnv = "HIRING_CONFIG"

// DefaultPath is used when PathEnv is unset.
var DefaultPath = filepath.Join("internal", "hiring", "config", "config.yaml")

type Config struct {
	GRPCPort        int           `yaml:"GRPC_PORT"`
	HTTPPort        int           `yaml:"HTTP_PORT"`
	DBDriver        string        `yaml:"DB_DRIVER"`
	DBHost          string        `yaml:"DB_HOST"`
	DBPort          int           `yaml:"DB_PORT"`
	DBUser          string        `yaml:"DB_USER"`
	DBPassword      string        `yaml:"DB_PASSWORD"`
	DBName          string        `yaml:"DB_NAME"`
	DBSSLMode       string        `yaml:"DB_SSLMODE"`
	SQLitePath      string        `yaml:"SQLITE_PATH"`
	KafkaBrokers    []string      `yaml:"KAFKA_BROKERS"`
	Topic           string        `yaml:"TOPIC"`
	AuditGroupID    string        `yaml:"AUDIT_GROUP_ID"`
	JWTSecret       string        `yaml:"JWT_SECRET"`
	AccessTokenTTL  time.Duration `yaml:"ACCESS_TOKEN_TTL"`
	RefreshTokenTTL time.Duration `yaml:"REFRESH_TOKEN_TTL"`
	LogLevel        string        `yaml:"LOG_LEVEL"`
}

// Default returns the settings used for keys missing from the file.
func Default() *Config {
	return &Config{
		GRPCPort:        50051,
		HTTPPort:        8080,
		DBDriver:        db.DriverPostgres,
		DBHost:          "localhost",
		DBPort:          5432,
		DBSSLMode:       "disable",
		SQLitePath:      "hiring.db",
		Topic:           "hiring-events",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		LogLevel:        "info",
	}
}

// Load reads the file at path, or at $HIRING_CONFIG, or at DefaultPath,
// applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(PathEnv)
	}
	if path == "" {
		path = DefaultPath
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(file, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides every key whose variable is set.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(dst *string) func(string) error {
		return func(v string) error { *dst = v; return nil }
	}
	num := func(dst *int) func(string) error {
		return func(v string) error {
			n, err := strconv.Atoi(v)
			*dst = n
			return err
		}
	}
	dur := func(dst *time.Duration) func(string) error {
		return func(v string) error {
			d, err := time.ParseDuration(v)
			*dst = d
			return err
		}
	}
	overrides := map[string]func(string) error{
		"GRPC_PORT":         num(&c.GRPCPort),
		"HTTP_PORT":         num(&c.HTTPPort),
		"DB_DRIVER":         str(&c.DBDriver),
		"DB_HOST":           str(&c.DBHost),
		"DB_PORT":           num(&c.DBPort),
		"DB_USER":           str(&c.DBUser),
		"DB_PASSWORD":       str(&c.DBPassword),
		"DB_NAME":           str(&c.DBName),
		"DB_SSLMODE":        str(&c.DBSSLMode),
		"SQLITE_PATH":       str(&c.SQLitePath),
		"TOPIC":             str(&c.Topic),
		"AUDIT_GROUP_ID":    str(&c.AuditGroupID),
		"JWT_SECRET":        str(&c.JWTSecret),
		"ACCESS_TOKEN_TTL":  dur(&c.AccessTokenTTL),
		"REFRESH_TOKEN_TTL": dur(&c.RefreshTokenTTL),
		"LOG_LEVEL":         str(&c.LogLevel),
		"KAFKA_BROKERS": func(v string) error {
			c.KafkaBrokers = splitList(v)
			return nil
		},
	}
	for key, set := range overrides {
		value, ok := lookup(key)
		if !ok {
			continue
		}
		if err := set(value); err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
	}
	return nil
}

func splitList(v string) []string {
	var items []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must be set"))
	}
	switch c.DBDriver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver))
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		errs = append(errs, errors.New("token TTLs must be positive"))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid LOG_LEVEL: %w", err))
	}
	return errors.Join(errs...)
}

// Database returns the repository settings.
func (c *Config) Database() *db.Config {
	return &db.Config{
		Driver:     c.DBDriver,
		Host:       c.DBHost,
		Port:       c.DBPort,
		User:       c.DBUser,
		Password:   c.DBPassword,
		DBName:     c.DBName,
		SSLMode:    c.DBSSLMode,
		SQLitePath: c.SQLitePath,
	}
}

// Logger builds a production zap logger at the configured level.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// Package config loads runtime configuration from an optional YAML file with
// environment variable overrides. Environment always wins, so deployments can
// ship a base file and tweak single knobs per instance.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables:
//
//	PROCURA_CONFIG_PATH: path to a YAML config file (optional)
//	PROCURA_STORAGE_DRIVER: memory|sqlite|postgres (default memory)
//	PROCURA_SQLITE_PATH: path to sqlite file (default ./procuracore.db)
//	PROCURA_POSTGRES_DSN: postgres DSN when driver=postgres
//	PROCURA_BLOB_DRIVER: memory|fs|s3 (default memory)
//	PROCURA_BLOB_FS_ROOT: directory root when blob driver=fs
//	PROCURA_BLOB_S3_BUCKET / _REGION / _ENDPOINT / _PATH_STYLE: s3 settings
//	PROCURA_LOG_LEVEL: debug|info|warn|error (default info)

// Storage selects the snapshotting state backend.
type Storage struct {
	Driver      string `yaml:"driver"`
	SQLitePath  string `yaml:"sqlite_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

// Blob selects the snapshot archive backend.
type Blob struct {
	Driver      string `yaml:"driver"`
	FSRoot      string `yaml:"fs_root"`
	S3Bucket    string `yaml:"s3_bucket"`
	S3Region    string `yaml:"s3_region"`
	S3Endpoint  string `yaml:"s3_endpoint"`
	S3PathStyle bool   `yaml:"s3_path_style"`
}

// Logging holds log output settings.
type Logging struct {
	Level string `yaml:"level"`
}

// Config is the full runtime configuration.
type Config struct {
	Storage Storage `yaml:"storage"`
	Blob    Blob    `yaml:"blob"`
	Logging Logging `yaml:"logging"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		Storage: Storage{Driver: "memory", SQLitePath: "./procuracore.db"},
		Blob:    Blob{Driver: "memory"},
		Logging: Logging{Level: "info"},
	}
}

// Load builds the effective configuration: defaults, then the YAML file at
// path (or PROCURA_CONFIG_PATH when path is empty), then environment
// overrides. A missing file is only an error when its path was explicit.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = os.Getenv("PROCURA_CONFIG_PATH")
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		case os.IsNotExist(err) && !explicit:
			// env-pointed file may be absent; fall through to env overrides
		default:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Storage.Driver, "PROCURA_STORAGE_DRIVER")
	setString(&cfg.Storage.SQLitePath, "PROCURA_SQLITE_PATH")
	setString(&cfg.Storage.PostgresDSN, "PROCURA_POSTGRES_DSN")
	setString(&cfg.Blob.Driver, "PROCURA_BLOB_DRIVER")
	setString(&cfg.Blob.FSRoot, "PROCURA_BLOB_FS_ROOT")
	setString(&cfg.Blob.S3Bucket, "PROCURA_BLOB_S3_BUCKET")
	setString(&cfg.Blob.S3Region, "PROCURA_BLOB_S3_REGION")
	setString(&cfg.Blob.S3Endpoint, "PROCURA_BLOB_S3_ENDPOINT")
	if v := os.Getenv("PROCURA_BLOB_S3_PATH_STYLE"); v != "" {
		cfg.Blob.S3PathStyle = strings.EqualFold(v, "true")
	}
	setString(&cfg.Logging.Level, "PROCURA_LOG_LEVEL")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c Config) validate() error {
	switch c.Storage.Driver {
	case "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown storage driver %s", c.Storage.Driver)
	}
	if c.Storage.Driver == "postgres" && c.Storage.PostgresDSN == "" {
		return fmt.Errorf("postgres storage driver requires a DSN")
	}
	switch c.Blob.Driver {
	case "memory", "fs", "s3":
	default:
		return fmt.Errorf("unknown blob driver %s", c.Blob.Driver)
	}
	if c.Blob.Driver == "s3" && c.Blob.S3Bucket == "" {
		return fmt.Errorf("s3 blob driver requires a bucket")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %s", c.Logging.Level)
	}
	return nil
}

/*
Package config
File: config.go
Description:
    Runtime configuration for the regolith server, read from REGOLITH_*
    environment variables. Data files (catalog, settings defaults) are YAML
    and are loaded by their own packages; this package only carries paths.
*/

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every tunable the server reads at startup.
type Config struct {
	Addr            string        `env:"REGOLITH_ADDR" envDefault:":8081"`
	DBPath          string        `env:"REGOLITH_DB_PATH" envDefault:"regolith.db"`
	CatalogPath     string        `env:"REGOLITH_CATALOG_PATH"`  // Empty = embedded catalog
	DefaultsPath    string        `env:"REGOLITH_DEFAULTS_PATH"` // Empty = embedded system defaults
	LogLevel        string        `env:"REGOLITH_LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"REGOLITH_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns the configuration with defaults applied.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout <= 0 {
		return Config{}, fmt.Errorf("REGOLITH_SHUTDOWN_TIMEOUT must be positive, got %s", cfg.ShutdownTimeout)
	}
	return cfg, nil
}

// DataKind names an external data file the server can reload.
type DataKind string

const (
	DataCatalog  DataKind = "catalog"  // Equipment catalog YAML
	DataDefaults DataKind = "defaults" // System settings defaults YAML
)

// DataFile is one configured data file.
type DataFile struct {
	Kind DataKind
	Path string
}

// WatchedFiles lists the external data files the server should hot reload.
// Embedded data (empty path) is never watched.
func (c Config) WatchedFiles() []DataFile {
	var files []DataFile
	for _, f := range []DataFile{
		{Kind: DataCatalog, Path: c.CatalogPath},
		{Kind: DataDefaults, Path: c.DefaultsPath},
	} {
		if f.Path != "" {
			files = append(files, f)
		}
	}
	return files
}

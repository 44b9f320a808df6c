package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type StorageConfig struct {
	// Path to the SQLite database file holding the template catalog and
	// session ledger.
	Path string `yaml:"path"`
	// MigrationsDir holds the versioned schema migrations applied at boot.
	MigrationsDir string `yaml:"migrations_dir"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. Env vars use the prefix REPBOOK_:
//
//	REPBOOK_SERVER_HOST, REPBOOK_SERVER_PORT,
//	REPBOOK_STORAGE_PATH, REPBOOK_STORAGE_MIGRATIONS_DIR
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if cfg.Storage.MigrationsDir == "" {
		cfg.Storage.MigrationsDir = "migrations"
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("REPBOOK_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("REPBOOK_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("REPBOOK_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("REPBOOK_STORAGE_MIGRATIONS_DIR"); v != "" {
		cfg.Storage.MigrationsDir = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required")
	}
	return nil
}

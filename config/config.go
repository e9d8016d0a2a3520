// Package config loads and validates the calorie tracker YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied by Default() and by Validate() for unset fields.
const (
	DefaultPort            = 8080
	DefaultDBPath          = "calories.db"
	DefaultStorageKey      = "items"
	DefaultShutdownTimeout = 30 * time.Second
)

// Config holds the server configuration.
type Config struct {
	// Port is the HTTP listen port.
	Port int `yaml:"port"`

	// DBPath is the SQLite database file. ":memory:" keeps everything in RAM.
	DBPath string `yaml:"db_path"`

	// StorageKey is the key the item list is stored under. Defaults to "items".
	StorageKey string `yaml:"storage_key"`

	// AllowedOrigins lists CORS origins for a separately hosted frontend.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// ShutdownTimeout bounds graceful shutdown. Defaults to 30s.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	// Validate only fills defaults here and cannot fail.
	_ = cfg.Validate()
	return cfg
}

// Load reads and validates the configuration file at the given path.
func Load(path string) (*Config, error) {
	cfg, err := Decode(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Decode reads the configuration file at the given path without filling
// defaults or validating, so callers can apply overrides before Validate.
// An empty file decodes to a zero Config.
func Decode(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config file %q: %w", path, err)
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true) // reject unknown keys to catch typos early
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config file %q: %w", path, err)
	}
	return &cfg, nil
}

// Validate fills defaults and checks that all fields are well-formed.
// Default origins are derived from Port, so set Port first.
func (c *Config) Validate() error {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range (1-65535)", c.Port)
	}

	if c.DBPath == "" {
		c.DBPath = DefaultDBPath
	}
	if c.StorageKey == "" {
		c.StorageKey = DefaultStorageKey
	}

	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"http://localhost:5173", fmt.Sprintf("http://localhost:%d", c.Port)}
	}
	for i, o := range c.AllowedOrigins {
		if o == "" {
			return fmt.Errorf("allowed_origins[%d] is empty", i)
		}
	}

	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdown_timeout %v must be positive", c.ShutdownTimeout)
	}

	return nil
}

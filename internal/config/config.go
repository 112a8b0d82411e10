// Package config loads the waypoint CLI configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "waypoint.yaml"

// Store kinds.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config is the CLI configuration. Flags override file values.
type Config struct {
	LogLevel          string `yaml:"log_level"`
	DebugAddr         string `yaml:"debug_addr"`
	AdminAddr         string `yaml:"admin_addr"`
	Store             Store  `yaml:"store"`
	SuspendAtStart    bool   `yaml:"suspend_at_start"`
	TargetBreakpoints bool   `yaml:"target_breakpoints"`
}

// Store selects where session statuses are published.
type Store struct {
	Kind  string `yaml:"kind"`
	Path  string `yaml:"path"`
	Redis Redis  `yaml:"redis"`
}

// Redis configures the redis status store.
type Redis struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
	Prefix   string        `yaml:"prefix"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		LogLevel:       "info",
		SuspendAtStart: true,
		Store: Store{
			Kind: StoreFile,
			Redis: Redis{
				Addr: "localhost:6379",
			},
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the store selection.
func (c Config) Validate() error {
	switch c.Store.Kind {
	case StoreMemory, StoreFile:
	case StoreRedis:
		if c.Store.Redis.Addr == "" {
			return errors.New("store.redis.addr is required for the redis store")
		}
	default:
		return fmt.Errorf("unknown store kind %q (want memory, file or redis)", c.Store.Kind)
	}
	if c.Store.Redis.TTL < 0 {
		return errors.New("store.redis.ttl must not be negative")
	}
	return nil
}

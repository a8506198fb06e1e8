package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every runtime setting. Sensitive values can be overridden
// through environment variables after the file is loaded.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Engine struct {
		Workers   int `yaml:"workers"`
		QueueSize int `yaml:"queue_size"`
	} `yaml:"engine"`

	Postgres struct {
		DSN string `yaml:"dsn"` // empty keeps the in-memory journal
	} `yaml:"postgres"`

	Redis struct {
		Addr     string        `yaml:"addr"` // empty disables the snapshot cache
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		TTL      time.Duration `yaml:"ttl"`
	} `yaml:"redis"`

	Simulator struct {
		Enabled   bool          `yaml:"enabled"`
		Symbols   []string      `yaml:"symbols"`
		Interval  time.Duration `yaml:"interval"`
		Producers int           `yaml:"producers"`
	} `yaml:"simulator"`

	Report struct {
		Interval time.Duration `yaml:"interval"` // zero disables the console table
		Symbols  []string      `yaml:"symbols"`
	} `yaml:"report"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

func Default() *Config {
	var cfg Config
	cfg.Server.Addr = ":8080"
	cfg.Engine.Workers = 4
	cfg.Engine.QueueSize = 500
	cfg.Redis.TTL = 5 * time.Minute
	cfg.Simulator.Interval = 2 * time.Second
	cfg.Simulator.Producers = 2
	cfg.Simulator.Symbols = []string{"IGG"}
	cfg.Logging.Level = "info"
	return &cfg
}

// Load reads and validates the YAML config at path, applying env
// overrides for credentials.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr is required")
	}
	if c.Engine.Workers <= 0 {
		return fmt.Errorf("engine workers must be positive")
	}
	if c.Engine.QueueSize <= 0 {
		return fmt.Errorf("engine queue size must be positive")
	}
	if c.Simulator.Enabled && len(c.Simulator.Symbols) == 0 {
		return fmt.Errorf("simulator requires at least one symbol")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %s", c.Logging.Level)
	}
	return nil
}

func overrideWithEnv(cfg *Config) {
	if dsn := os.Getenv("ORDERHANDLER_PG_DSN"); dsn != "" {
		cfg.Postgres.DSN = dsn
	}
	if addr := os.Getenv("ORDERHANDLER_REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if pass := os.Getenv("ORDERHANDLER_REDIS_PASSWORD"); pass != "" {
		cfg.Redis.Password = pass
	}
}

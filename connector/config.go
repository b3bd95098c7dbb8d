// Package connector owns connection configuration and the explicit
// open/close lifecycle of the pgx pool behind a Database capability.
package connector

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals YAML strings like "30s"
// or "5m", or raw nanosecond integers.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := node.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}
	*d = Duration(n)
	return nil
}

// Std returns the standard library duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config describes one PostgreSQL connection.
type Config struct {
	Host           string            `yaml:"host" validate:"required"`
	Port           int               `yaml:"port" validate:"gte=0,lte=65535"`
	Database       string            `yaml:"database" validate:"required"`
	Username       string            `yaml:"username"`
	Password       string            `yaml:"password"`
	SSLMode        string            `yaml:"ssl_mode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	Params         map[string]string `yaml:"params"`
	Pool           PoolConfig        `yaml:"pool"`
	ConnectTimeout Duration          `yaml:"connect_timeout"`
	Retry          *RetryConfig      `yaml:"retry,omitempty"`
}

// PoolConfig defines pool sizing and how long an idle connection is
// kept warm before being returned to the server.
type PoolConfig struct {
	MaxOpen     int      `yaml:"max_open" validate:"gte=0"`
	MaxIdle     int      `yaml:"max_idle" validate:"gte=0"`
	MaxLifetime Duration `yaml:"max_lifetime"`
	MaxIdleTime Duration `yaml:"max_idle_time"`
}

// RetryConfig defines connect-time retry behavior.
type RetryConfig struct {
	MaxRetries int      `yaml:"max_retries" validate:"gte=1"`
	BaseDelay  Duration `yaml:"base_delay"`
	MaxDelay   Duration `yaml:"max_delay"`
}

var validate = validator.New()

// Validate checks the configuration's structural constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid connection config: %w", err)
	}
	return nil
}

// applyDefaults fills zero values the way the pool expects them.
func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = 5432
	}
	if c.Pool.MaxOpen <= 0 {
		c.Pool.MaxOpen = 10
	}
	if c.Pool.MaxIdle <= 0 {
		c.Pool.MaxIdle = 2
	}
	if c.Pool.MaxLifetime == 0 {
		c.Pool.MaxLifetime = Duration(time.Hour)
	}
	if c.Pool.MaxIdleTime == 0 {
		c.Pool.MaxIdleTime = Duration(30 * time.Minute)
	}
}

// LoadConfig reads and validates a YAML connection config.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

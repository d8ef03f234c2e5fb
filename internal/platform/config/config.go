// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config reads the process configuration from environment variables.

Values are bound with caarlos0/env and then checked by [Config.validate], so a
misconfigured lockout or hashing policy stops the process at startup instead
of degrading security at runtime.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
*/
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/crypto/bcrypt"
)

// Environment names recognised by [Config.Environment].
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// # Configuration Schema

// Config is the full runtime configuration of the API process.
type Config struct {
	// HTTP
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// PostgreSQL
	DatabaseURL      string        `env:"DATABASE_URL,required"`
	DatabaseMaxConns int32         `env:"DATABASE_MAX_CONNS"         envDefault:"25"`
	DatabaseMinConns int32         `env:"DATABASE_MIN_CONNS"         envDefault:"5"`
	StatementTimeout time.Duration `env:"DATABASE_STATEMENT_TIMEOUT" envDefault:"15s"`
	MigrationPath    string        `env:"MIGRATION_PATH"             envDefault:"./data/migrations"`

	// Redis holds single-use verification and reset tokens.
	RedisURL      string `env:"REDIS_URL,required"`
	RedisPoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`

	// Credential and session policy
	BcryptCost       int           `env:"BCRYPT_COST"       envDefault:"12"`
	LockoutThreshold int           `env:"LOCKOUT_THRESHOLD" envDefault:"5"`
	LockoutDuration  time.Duration `env:"LOCKOUT_DURATION"  envDefault:"30m"`
	SessionTTL       time.Duration `env:"SESSION_TTL"       envDefault:"720h"`

	// Kafka mirror of the activity log. Disabled when no broker is listed.
	KafkaBrokers       []string `env:"KAFKA_BROKERS"        envSeparator:","`
	KafkaActivityTopic string   `env:"KAFKA_ACTIVITY_TOPIC" envDefault:"users.activity"`

	// Comma separated CORS origins accepted outside development.
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Loading

// Load binds the environment into a validated [Config].
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	minCost := bcrypt.MinCost
	if c.IsProduction() {
		minCost = bcrypt.DefaultCost
	}

	var problems []error
	if c.BcryptCost < minCost || c.BcryptCost > bcrypt.MaxCost {
		problems = append(problems, fmt.Errorf("BCRYPT_COST must be between %d and %d in %s", minCost, bcrypt.MaxCost, c.Environment))
	}
	if c.LockoutThreshold < 1 {
		problems = append(problems, errors.New("LOCKOUT_THRESHOLD must be positive"))
	}
	if c.LockoutDuration <= 0 {
		problems = append(problems, errors.New("LOCKOUT_DURATION must be positive"))
	}
	if c.SessionTTL <= 0 {
		problems = append(problems, errors.New("SESSION_TTL must be positive"))
	}
	if c.DatabaseMinConns < 0 || c.DatabaseMaxConns < 1 || c.DatabaseMinConns > c.DatabaseMaxConns {
		problems = append(problems, errors.New("DATABASE_MIN_CONNS and DATABASE_MAX_CONNS must satisfy 0 <= min <= max, max >= 1"))
	}

	if len(problems) > 0 {
		return fmt.Errorf("config: %w", errors.Join(problems...))
	}
	return nil
}

// # Accessors

// IsDevelopment reports whether CORS and logging run in their permissive mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// IsProduction reports whether the stricter production policy applies.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// AllowedOrigins splits EXTRA_ORIGINS, dropping blank entries.
func (c *Config) AllowedOrigins() []string {
	origins := make([]string, 0)
	for origin := range strings.SplitSeq(c.ExtraOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// KafkaEnabled reports whether activity entries are mirrored to Kafka.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Create new config instance
func NewConfig() *Config {
	return &Config{}
}

// Load configuration file in json format, then apply defaults and
// environment overrides for secrets. Missing required settings are the
// only fatal startup condition, so validation happens here.
func (c *Config) Read(file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", file, err)
	}

	c.applyDefaults()
	c.loadEnv()

	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Worker.BatchSize == 0 {
		c.Worker.BatchSize = 10
	}
	if c.Worker.TickIntervalMs == 0 {
		c.Worker.TickIntervalMs = 3000
	}
	if c.Worker.MaxAttempts == 0 {
		c.Worker.MaxAttempts = 5
	}
	if c.Worker.MaxEdge == 0 {
		c.Worker.MaxEdge = 640
	}
	if c.Worker.HealthCheckInterval == 0 {
		c.Worker.HealthCheckInterval = 60
	}
	if c.Redis.CacheTTL == 0 {
		c.Redis.CacheTTL = 3600
	}
}

// Secrets come from the environment when present; a .env file is
// honored the same way the rest of the deployment loads one.
func (c *Config) loadEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("DATABASE_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("S3_ACCESS_KEY"); v != "" {
		c.S3.AccessKeyID = v
	}
	if v := os.Getenv("S3_SECRET_KEY"); v != "" {
		c.S3.SecretKey = v
	}
	if v := os.Getenv("SENTRY_DSN"); v != "" {
		c.Sentry.SentryDSN = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
}

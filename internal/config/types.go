package config

import "fmt"

type Config struct {
	Database Database     `json:"database"`
	S3       S3Config     `json:"s3"`
	Worker   WorkerConfig `json:"worker"`
	Redis    RedisConfig  `json:"redis"`
	Sentry   SentryConfig `json:"sentry"`
}

type Database struct {
	DSN string `json:"dsn" validate:"required"`
}

type S3Config struct {
	Region      string `json:"region" validate:"required"`
	BucketName  string `json:"bucket_name" validate:"required"`
	AccessKeyID string `json:"access_key_id"`
	SecretKey   string `json:"secret_key"`
	Endpoint    string `json:"endpoint"` // optional, for R2/minio style deployments
	RequireSSE  bool   `json:"require_sse"`
}

type WorkerConfig struct {
	BatchSize           int `json:"batch_size" validate:"gt=0"`            // jobs claimed per tick
	TickIntervalMs      int `json:"tick_interval_ms" validate:"gt=0"`      // sleep between ticks
	MaxAttempts         int `json:"max_attempts" validate:"gt=0"`          // failed attempts before a job is parked
	MaxEdge             int `json:"max_edge" validate:"gt=0"`              // longest thumbnail edge in pixels
	HealthCheckInterval int `json:"health_check_interval" validate:"gt=0"` // seconds between job source pings
}

type RedisConfig struct {
	Password     string      `json:"password"`
	DatabaseID   int         `json:"database_id"`
	DialTimeout  int         `json:"dial_timeout"`  // seconds
	ReadTimeout  int         `json:"read_timeout"`  // seconds
	WriteTimeout int         `json:"write_timeout"` // seconds
	CacheTTL     int         `json:"cache_ttl"`     // seconds
	Nodes        []RedisNode `json:"nodes"`
}

type RedisNode struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

func (n RedisNode) Addr() string { return fmt.Sprintf("%s:%d", n.Host, n.Port) }

type SentryConfig struct {
	SentryDSN   string `json:"sentry_dsn"`
	Environment string `json:"environment"`
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(file, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return file
}

func TestReadAppliesWorkerDefaults(t *testing.T) {
	file := writeConfig(t, `{
		"database": {"dsn": "postgres://localhost/thumbd"},
		"s3": {"region": "eu-central-1", "bucket_name": "uploads"}
	}`)

	cfg := NewConfig()
	if err := cfg.Read(file); err != nil {
		t.Fatalf("Read: %v", err)
	}

	if cfg.Worker.BatchSize != 10 {
		t.Errorf("batch size %d, want 10", cfg.Worker.BatchSize)
	}
	if cfg.Worker.TickIntervalMs != 3000 {
		t.Errorf("tick interval %d, want 3000", cfg.Worker.TickIntervalMs)
	}
	if cfg.Worker.MaxAttempts != 5 {
		t.Errorf("max attempts %d, want 5", cfg.Worker.MaxAttempts)
	}
	if cfg.Worker.MaxEdge != 640 {
		t.Errorf("max edge %d, want 640", cfg.Worker.MaxEdge)
	}
}

func TestReadKeepsExplicitValues(t *testing.T) {
	file := writeConfig(t, `{
		"database": {"dsn": "postgres://localhost/thumbd"},
		"s3": {"region": "eu-central-1", "bucket_name": "uploads"},
		"worker": {"batch_size": 3, "tick_interval_ms": 500, "max_attempts": 2, "max_edge": 320}
	}`)

	cfg := NewConfig()
	if err := cfg.Read(file); err != nil {
		t.Fatalf("Read: %v", err)
	}

	if cfg.Worker.BatchSize != 3 || cfg.Worker.TickIntervalMs != 500 ||
		cfg.Worker.MaxAttempts != 2 || cfg.Worker.MaxEdge != 320 {
		t.Errorf("explicit worker settings overridden: %+v", cfg.Worker)
	}
}

func TestReadRejectsMissingDSN(t *testing.T) {
	file := writeConfig(t, `{
		"s3": {"region": "eu-central-1", "bucket_name": "uploads"}
	}`)

	if err := NewConfig().Read(file); err == nil {
		t.Fatal("expected validation error for missing dsn")
	}
}

func TestReadRejectsMissingFile(t *testing.T) {
	if err := NewConfig().Read(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestEnvOverridesSecrets(t *testing.T) {
	file := writeConfig(t, `{
		"database": {"dsn": "postgres://localhost/thumbd"},
		"s3": {"region": "eu-central-1", "bucket_name": "uploads", "access_key_id": "from-file"}
	}`)

	t.Setenv("S3_ACCESS_KEY", "from-env")

	cfg := NewConfig()
	if err := cfg.Read(file); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if cfg.S3.AccessKeyID != "from-env" {
		t.Errorf("access key %q, want env override", cfg.S3.AccessKeyID)
	}
}

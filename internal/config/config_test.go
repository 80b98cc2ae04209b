package config

import (
	"os"
	"path/filepath"
	"testing"
)

var envKeys = []string{
	"SKUGRAPH_CONFIG",
	"SKUGRAPH_SKU_DIR",
	"SKUGRAPH_SNAPSHOT",
	"SKUGRAPH_RELOAD",
	"SKUGRAPH_DEBUG",
	"SKUGRAPH_BUCKET",
	"SKUGRAPH_BUCKET_PREFIX",
	"MINIO_ENDPOINT",
	"MINIO_ACCESS_KEY",
	"MINIO_SECRET_KEY",
	"MINIO_USE_SSL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "skugraph.yml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	if cfg.SKUDir != "SKUs" {
		t.Errorf("expected SKUs, got %s", cfg.SKUDir)
	}
	if cfg.SnapshotPath != "" {
		t.Errorf("expected snapshot off, got %s", cfg.SnapshotPath)
	}
	if cfg.ReloadSchedule != "" {
		t.Errorf("expected reload off, got %s", cfg.ReloadSchedule)
	}
	if cfg.Debug {
		t.Error("expected debug off")
	}
	if cfg.Bucket.Enabled {
		t.Error("expected bucket disabled without credentials")
	}
	if cfg.Bucket.Endpoint != "minio:9000" {
		t.Errorf("expected minio:9000, got %s", cfg.Bucket.Endpoint)
	}
	if cfg.Bucket.Name != "skugraph" {
		t.Errorf("expected skugraph bucket, got %s", cfg.Bucket.Name)
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("SKUGRAPH_CONFIG", writeConfig(t, `
sku_dir: /data/skus
snapshot: /data/facts.db
reload: "@every 10m"
debug: true
bucket:
  endpoint: storage:9000
  name: facts
  prefix: medical/
  use_ssl: true
`))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	if cfg.SKUDir != "/data/skus" {
		t.Errorf("expected /data/skus, got %s", cfg.SKUDir)
	}
	if cfg.SnapshotPath != "/data/facts.db" {
		t.Errorf("expected /data/facts.db, got %s", cfg.SnapshotPath)
	}
	if cfg.ReloadSchedule != "@every 10m" {
		t.Errorf("expected @every 10m, got %s", cfg.ReloadSchedule)
	}
	if !cfg.Debug {
		t.Error("expected debug on")
	}
	if cfg.Bucket.Endpoint != "storage:9000" || cfg.Bucket.Name != "facts" || cfg.Bucket.Prefix != "medical/" {
		t.Errorf("bucket config mismatch: %+v", cfg.Bucket)
	}
	if !cfg.Bucket.UseSSL {
		t.Error("expected ssl on")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("SKUGRAPH_CONFIG", writeConfig(t, "sku_dir: /from/file\ndebug: true\n"))
	t.Setenv("SKUGRAPH_SKU_DIR", "/from/env")
	t.Setenv("SKUGRAPH_DEBUG", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	if cfg.SKUDir != "/from/env" {
		t.Errorf("expected env to win, got %s", cfg.SKUDir)
	}
	if cfg.Debug {
		t.Error("expected env to turn debug off")
	}
}

func TestBucketEnabledWithCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("MINIO_ACCESS_KEY", "access")
	t.Setenv("MINIO_SECRET_KEY", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	if !cfg.Bucket.Enabled {
		t.Error("expected bucket enabled")
	}
}

func TestExplicitConfigMissing(t *testing.T) {
	clearEnv(t)
	t.Setenv("SKUGRAPH_CONFIG", filepath.Join(t.TempDir(), "missing.yml"))

	if _, err := Load(); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestInvalidConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("SKUGRAPH_CONFIG", writeConfig(t, "sku_dir: [unclosed\n"))

	if _, err := Load(); err == nil {
		t.Error("expected parse error")
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Output.Format != "string" || cfg.Output.Padded {
		t.Fatalf("default output = %+v", cfg.Output)
	}
	if cfg.Ledger.Backend != "pebble" {
		t.Fatalf("default backend = %q", cfg.Ledger.Backend)
	}
	if cfg.MaxBatch != 1000 {
		t.Fatalf("default max batch = %d", cfg.MaxBatch)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(file, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return file
}

func TestLoadJSON(t *testing.T) {
	file := writeFile(t, "soid.json", `{"defaultTag":"usr","output":{"format":"base62","padded":true},"ledger":{"backend":"sqlite"}}`)
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DefaultTag != "usr" || cfg.Output.Format != "base62" || !cfg.Output.Padded {
		t.Fatalf("unexpected %+v", cfg)
	}
	if cfg.Ledger.Backend != "sqlite" {
		t.Fatalf("expected sqlite")
	}
	if cfg.Server.HTTPAddr != ":8080" {
		t.Fatalf("defaults should survive a partial file, got %q", cfg.Server.HTTPAddr)
	}
}

func TestLoadYAML(t *testing.T) {
	file := writeFile(t, "soid.yaml", `
defaultTag: ord
output:
  format: base36
ledger:
  backend: pebble
  dataDir: /tmp/soid
  fsync: always
server:
  httpAddr: 127.0.0.1:9090
log:
  level: debug
  format: json
maxBatch: 50
`)
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DefaultTag != "ord" || cfg.Output.Format != "base36" {
		t.Fatalf("unexpected %+v", cfg)
	}
	if cfg.Ledger.DataDir != "/tmp/soid" || cfg.Ledger.Fsync != "always" {
		t.Fatalf("ledger = %+v", cfg.Ledger)
	}
	if cfg.Server.HTTPAddr != "127.0.0.1:9090" || cfg.Server.GRPCAddr != ":50051" {
		t.Fatalf("server = %+v", cfg.Server)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" || cfg.MaxBatch != 50 {
		t.Fatalf("log/batch = %+v %d", cfg.Log, cfg.MaxBatch)
	}
}

func TestLoadMalformed(t *testing.T) {
	if _, err := Load(writeFile(t, "bad.json", `{"maxBatch":`)); err == nil {
		t.Fatalf("expected json error")
	}
	if _, err := Load(writeFile(t, "bad.yml", "maxBatch: [1")); err == nil {
		t.Fatalf("expected yaml error")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected missing file error")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("SOID_DEFAULT_TAG", "inv")
	t.Setenv("SOID_OUTPUT_PADDED", "true")
	t.Setenv("SOID_LEDGER_BACKEND", "sqlite")
	t.Setenv("SOID_SERVER_GRPC_ADDR", ":6000")
	t.Setenv("SOID_LOG_LEVEL", "warn")
	t.Setenv("SOID_LOG_REDACT", "note,tag")
	t.Setenv("SOID_MAX_BATCH", "7")

	cfg := Default()
	if err := FromEnv(&cfg); err != nil {
		t.Fatalf("env: %v", err)
	}
	if cfg.DefaultTag != "inv" || !cfg.Output.Padded || cfg.Ledger.Backend != "sqlite" {
		t.Fatalf("unexpected %+v", cfg)
	}
	if cfg.Server.GRPCAddr != ":6000" || cfg.Server.HTTPAddr != ":8080" {
		t.Fatalf("server = %+v", cfg.Server)
	}
	if cfg.Log.Level != "warn" || len(cfg.Log.Redact) != 2 || cfg.MaxBatch != 7 {
		t.Fatalf("log/batch = %+v %d", cfg.Log, cfg.MaxBatch)
	}
	if cfg.Output.Format != "string" {
		t.Fatalf("unset variables must keep defaults, got %q", cfg.Output.Format)
	}
}

func TestFromEnvBadValue(t *testing.T) {
	t.Setenv("SOID_MAX_BATCH", "lots")
	cfg := Default()
	if err := FromEnv(&cfg); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"format":  func(c *Config) { c.Output.Format = "base64" },
		"backend": func(c *Config) { c.Ledger.Backend = "redis" },
		"batch":   func(c *Config) { c.MaxBatch = 0 },
		"tag":     func(c *Config) { c.DefaultTag = "a\x00b" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

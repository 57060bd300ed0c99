package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	logpkg "github.com/rzbill/soid/pkg/log"
)

// Output formats accepted by Output.Format.
var Formats = []string{"string", "hex", "base62", "base36", "bytes"}

// Backends accepted by Ledger.Backend.
var Backends = []string{"pebble", "sqlite"}

// Config is the top-level configuration loaded from file/env.
type Config struct {
	// DefaultTag is applied when a caller does not pass a tag.
	DefaultTag string        `json:"defaultTag" yaml:"defaultTag" env:"DEFAULT_TAG"`
	Output     OutputConfig  `json:"output" yaml:"output" envPrefix:"OUTPUT_"`
	Ledger     LedgerConfig  `json:"ledger" yaml:"ledger" envPrefix:"LEDGER_"`
	Server     ServerConfig  `json:"server" yaml:"server" envPrefix:"SERVER_"`
	Log        logpkg.Config `json:"log" yaml:"log" envPrefix:"LOG_"`
	// MaxBatch caps how many ids a single request may issue.
	MaxBatch int `json:"maxBatch" yaml:"maxBatch" env:"MAX_BATCH"`
}

// OutputConfig selects how generated ids are rendered.
type OutputConfig struct {
	Format string `json:"format" yaml:"format" env:"FORMAT"`
	// Padded renders base62/base36 at fixed width so they sort like the bytes.
	Padded bool `json:"padded" yaml:"padded" env:"PADDED"`
}

// LedgerConfig selects and tunes the ledger backend.
type LedgerConfig struct {
	Backend string `json:"backend" yaml:"backend" env:"BACKEND"`
	// DataDir is resolved with DefaultDataDir when empty.
	DataDir string `json:"dataDir" yaml:"dataDir" env:"DATA_DIR"`
	Fsync   string `json:"fsync" yaml:"fsync" env:"FSYNC"`
}

// ServerConfig carries listen addresses.
type ServerConfig struct {
	HTTPAddr string `json:"httpAddr" yaml:"httpAddr" env:"HTTP_ADDR"`
	GRPCAddr string `json:"grpcAddr" yaml:"grpcAddr" env:"GRPC_ADDR"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		Output:   OutputConfig{Format: "string"},
		Ledger:   LedgerConfig{Backend: "pebble", Fsync: "interval"},
		Server:   ServerConfig{HTTPAddr: ":8080", GRPCAddr: ":50051"},
		Log:      logpkg.Config{Level: "info", Format: "text"},
		MaxBatch: 1000,
	}
}

// Load reads configuration from a JSON or YAML file (by extension) on top of
// Default. If path is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.IndexByte(c.DefaultTag, 0) >= 0 {
		return fmt.Errorf("config: defaultTag cannot contain a NUL byte")
	}
	if !oneOf(c.Output.Format, Formats) {
		return fmt.Errorf("config: output.format %q; use %s", c.Output.Format, strings.Join(Formats, "|"))
	}
	if !oneOf(c.Ledger.Backend, Backends) {
		return fmt.Errorf("config: ledger.backend %q; use %s", c.Ledger.Backend, strings.Join(Backends, "|"))
	}
	if c.MaxBatch <= 0 {
		return fmt.Errorf("config: maxBatch must be positive, got %d", c.MaxBatch)
	}
	return nil
}

func oneOf(v string, set []string) bool {
	for _, s := range set {
		if v == s {
			return true
		}
	}
	return false
}

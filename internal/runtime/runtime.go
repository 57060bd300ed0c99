package runtime

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cfgpkg "github.com/rzbill/soid/internal/config"
	"github.com/rzbill/soid/internal/ledger"
	pebblestore "github.com/rzbill/soid/internal/storage/pebble"
	"github.com/rzbill/soid/pkg/id"
	logpkg "github.com/rzbill/soid/pkg/log"
)

// Options for building the Runtime.
type Options struct {
	Config cfgpkg.Config
	Logger logpkg.Logger
	// Generator overrides the clock and entropy source; the zero value uses
	// time.Now and crypto/rand.
	Generator id.Generator
	// Metrics observes Pebble ledger I/O. Optional.
	Metrics pebblestore.MetricsHook
}

// Runtime wires config, logging, id generation and the ledger for a
// single-node instance.
type Runtime struct {
	config cfgpkg.Config
	logger logpkg.Logger
	gen    id.Generator
	ledger ledger.Ledger
}

// compacter is implemented by ledgers that can reclaim space on demand.
type compacter interface {
	Compact(ctx context.Context) error
}

// Open validates the config and opens the configured ledger backend.
func Open(opts Options) (*Runtime, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewLogger(logpkg.WithOutput(logpkg.NullOutput{}))
	}
	dataDir := cfg.Ledger.DataDir
	if dataDir == "" {
		dataDir = cfgpkg.DefaultDataDir()
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("runtime: data dir: %w", err)
	}

	var l ledger.Ledger
	switch cfg.Ledger.Backend {
	case "sqlite":
		sl, err := ledger.OpenSQLite(filepath.Join(dataDir, "ledger.db"), logger)
		if err != nil {
			return nil, err
		}
		l = sl
	default:
		mode, err := pebblestore.ParseFsyncMode(cfg.Ledger.Fsync)
		if err != nil {
			return nil, err
		}
		pl, err := ledger.OpenPebble(pebblestore.Options{
			DataDir: filepath.Join(dataDir, "ledger"),
			Fsync:   mode,
			Metrics: opts.Metrics,
		}, logger)
		if err != nil {
			return nil, err
		}
		l = pl
	}
	logger.Debug("runtime opened", logpkg.Str("backend", cfg.Ledger.Backend), logpkg.Str("data_dir", dataDir))
	return &Runtime{config: cfg, logger: logger, gen: opts.Generator, ledger: l}, nil
}

// Close closes underlying resources.
func (r *Runtime) Close() error {
	if r.ledger == nil {
		return nil
	}
	return r.ledger.Close()
}

// CheckHealth verifies the ledger answers a minimal read.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.ledger == nil {
		return errors.New("ledger not open")
	}
	_, err := r.ledger.Scan(ctx, ledger.Query{Limit: 1})
	return err
}

// Compact reclaims ledger space when the backend supports it.
func (r *Runtime) Compact(ctx context.Context) error {
	c, ok := r.ledger.(compacter)
	if !ok {
		return nil
	}
	return c.Compact(ctx)
}

// Verify runs the ledger's full consistency check.
func (r *Runtime) Verify(ctx context.Context) error {
	return r.ledger.Check(ctx)
}

// Generate returns count fresh ids for tag without recording them. An empty
// tag falls back to the configured default tag.
func (r *Runtime) Generate(tag string, count int) ([]id.ID, error) {
	if err := r.checkCount(count); err != nil {
		return nil, err
	}
	if tag == "" {
		tag = r.config.DefaultTag
	}
	out := make([]id.ID, 0, count)
	for i := 0; i < count; i++ {
		v, err := r.gen.Generate(tag)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Issue generates count ids for tag and records them in the ledger with note.
func (r *Runtime) Issue(ctx context.Context, tag, note string, count int) ([]ledger.Entry, error) {
	ids, err := r.Generate(tag, count)
	if err != nil {
		return nil, err
	}
	now := r.now()
	entries := make([]ledger.Entry, len(ids))
	for i, v := range ids {
		entries[i] = ledger.Entry{ID: v, Tag: v.Tag(), Note: note, CreatedAt: now}
	}
	if err := r.ledger.PutBatch(ctx, entries); err != nil {
		r.logger.Error("issue failed", logpkg.Err(err), logpkg.Int("count", count))
		return nil, err
	}
	r.logger.Info("issued", logpkg.Int("count", count), logpkg.Str("tag", entries[0].Tag))
	return entries, nil
}

// now reads the generator's clock so entries agree with the time in their ids.
func (r *Runtime) now() time.Time {
	if r.gen.Now != nil {
		return r.gen.Now().UTC()
	}
	return time.Now().UTC()
}

func (r *Runtime) checkCount(count int) error {
	if count < 1 || count > r.config.MaxBatch {
		return fmt.Errorf("%w: count must be between 1 and %d, got %d", id.ErrInvalidArgument, r.config.MaxBatch, count)
	}
	return nil
}

// Ledger exposes the ledger for read paths.
func (r *Runtime) Ledger() ledger.Ledger { return r.ledger }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }

// Logger returns the runtime logger.
func (r *Runtime) Logger() logpkg.Logger { return r.logger }

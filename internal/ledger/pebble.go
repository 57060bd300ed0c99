package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	pebblestore "github.com/rzbill/soid/internal/storage/pebble"
	"github.com/rzbill/soid/pkg/id"
	logpkg "github.com/rzbill/soid/pkg/log"
)

// keyPrefix namespaces ledger keys: "ids/" || 16 id bytes.
var keyPrefix = []byte("ids/")

func entryKey(key id.ID) []byte {
	out := make([]byte, 0, len(keyPrefix)+id.Size)
	out = append(out, keyPrefix...)
	return append(out, key[:]...)
}

// PebbleLedger stores entries in Pebble keyed by id bytes.
type PebbleLedger struct {
	db     *pebblestore.DB
	logger logpkg.Logger
	// mu serialises the exists-check and write in Put.
	mu     sync.Mutex
	closed atomic.Bool
	now    func() time.Time
	meta   Meta
}

// errClosed guards against Pebble's panic on use after Close.
var errClosed = errors.New("ledger: closed")

func (l *PebbleLedger) ready(ctx context.Context) error {
	if l.closed.Load() {
		return errClosed
	}
	return ctx.Err()
}

// NewPebble wraps an open store and writes or checks its meta record. The
// ledger owns db and closes it.
func NewPebble(db *pebblestore.DB, logger logpkg.Logger) (*PebbleLedger, error) {
	if logger == nil {
		logger = logpkg.NewLogger(logpkg.WithOutput(logpkg.NullOutput{}))
	}
	l := &PebbleLedger{db: db, logger: logger.WithComponent("ledger.pebble"), now: time.Now}
	m, err := ensureMeta(db, l.now())
	if err != nil {
		return nil, err
	}
	l.meta = m
	return l, nil
}

// Meta returns the store's meta record.
func (l *PebbleLedger) Meta() Meta { return l.meta }

// OpenPebble opens a Pebble store under opts.DataDir and wraps it.
func OpenPebble(opts pebblestore.Options, logger logpkg.Logger) (*PebbleLedger, error) {
	db, err := pebblestore.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("ledger: open pebble: %w", err)
	}
	l, err := NewPebble(db, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return l, nil
}

func (l *PebbleLedger) Put(ctx context.Context, e Entry) error {
	if err := l.ready(ctx); err != nil {
		return err
	}
	if e.ID.IsZero() {
		return fmt.Errorf("%w: nil id", id.ErrInvalidArgument)
	}
	key := entryKey(e.ID)

	l.mu.Lock()
	defer l.mu.Unlock()
	exists, err := l.db.Has(key)
	if err != nil {
		return fmt.Errorf("ledger: put %s: %w", e.ID, err)
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrExists, e.ID)
	}
	b := l.db.NewBatch()
	defer b.Close()
	if err := b.Set(key, encodeRecord(e), nil); err != nil {
		return err
	}
	if err := l.db.CommitBatch(ctx, b); err != nil {
		return fmt.Errorf("ledger: put %s: %w", e.ID, err)
	}
	l.logger.Debug("recorded", logpkg.Str("id", e.ID.String()), logpkg.Str("tag", e.Tag))
	return nil
}

// PutBatch records every entry atomically; nothing is written if any id
// already exists.
func (l *PebbleLedger) PutBatch(ctx context.Context, entries []Entry) error {
	if err := l.ready(ctx); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	b := l.db.NewIndexedBatch()
	defer b.Close()
	for _, e := range entries {
		if e.ID.IsZero() {
			return fmt.Errorf("%w: nil id", id.ErrInvalidArgument)
		}
		key := entryKey(e.ID)
		if _, closer, err := b.Get(key); err == nil {
			closer.Close()
			return fmt.Errorf("%w: %s", ErrExists, e.ID)
		} else if !errors.Is(err, pebblestore.ErrNotFound) {
			return err
		}
		if err := b.Set(key, encodeRecord(e), nil); err != nil {
			return err
		}
	}
	return l.db.CommitBatch(ctx, b)
}

func (l *PebbleLedger) Get(ctx context.Context, key id.ID) (Entry, error) {
	if err := l.ready(ctx); err != nil {
		return Entry{}, err
	}
	raw, err := l.db.Get(entryKey(key))
	if errors.Is(err, pebblestore.ErrNotFound) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return Entry{}, err
	}
	e, err := decodeRecord(raw)
	if err != nil {
		return Entry{}, fmt.Errorf("%s: %w", key, err)
	}
	e.ID = key
	return e, nil
}

func (l *PebbleLedger) Scan(ctx context.Context, q Query) ([]Entry, error) {
	if err := l.ready(ctx); err != nil {
		return nil, err
	}
	m, err := newMatcher(q)
	if err != nil {
		return nil, err
	}
	lo, hi := Bounds(q)
	upper := append(entryKey(hi), 0x00)
	now := l.now()

	var out []Entry
	var decodeErr error
	err = l.db.Range(ctx, entryKey(lo), upper, q.Reverse, func(k, v []byte) bool {
		var key id.ID
		copy(key[:], k[len(keyPrefix):])
		e, err := decodeRecord(v)
		if err != nil {
			decodeErr = fmt.Errorf("%s: %w", key, err)
			return false
		}
		e.ID = key
		if !m.match(e, now) {
			return true
		}
		out = append(out, e)
		return q.Limit <= 0 || len(out) < q.Limit
	})
	if err != nil {
		return nil, err
	}
	return out, decodeErr
}

func (l *PebbleLedger) Count(ctx context.Context) (int64, error) {
	if err := l.ready(ctx); err != nil {
		return 0, err
	}
	var n int64
	err := l.db.Range(ctx, keyPrefix, pebblestore.PrefixUpperBound(keyPrefix), false, func(_, _ []byte) bool {
		n++
		return true
	})
	return n, err
}

// Check walks every record and verifies its checksum.
func (l *PebbleLedger) Check(ctx context.Context) error {
	if err := l.ready(ctx); err != nil {
		return err
	}
	var bad error
	n := 0
	err := l.db.Range(ctx, keyPrefix, pebblestore.PrefixUpperBound(keyPrefix), false, func(k, v []byte) bool {
		n++
		if len(k) != len(keyPrefix)+id.Size {
			bad = fmt.Errorf("%w: key %x has wrong length", ErrCorrupt, k)
			return false
		}
		if _, err := decodeRecord(v); err != nil {
			bad = fmt.Errorf("key %x: %w", k[len(keyPrefix):], err)
			return false
		}
		return true
	})
	if err != nil {
		return err
	}
	if bad != nil {
		l.logger.Error("ledger check failed", logpkg.Err(bad))
		return bad
	}
	l.logger.Debug("ledger check passed", logpkg.Int("entries", n))
	return nil
}

// Compact asks Pebble to compact the id keyspace.
func (l *PebbleLedger) Compact(ctx context.Context) error {
	if err := l.ready(ctx); err != nil {
		return err
	}
	start := time.Now()
	if err := l.db.CompactRange(keyPrefix, pebblestore.PrefixUpperBound(keyPrefix)); err != nil {
		return fmt.Errorf("ledger: compact: %w", err)
	}
	l.logger.Debug("ledger compacted", logpkg.Duration("elapsed", time.Since(start)))
	return nil
}

func (l *PebbleLedger) Close() error {
	if !l.closed.CompareAndSwap(false, true) {
		return nil
	}
	return l.db.Close()
}

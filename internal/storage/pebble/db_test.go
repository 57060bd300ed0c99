package pebblestore

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cockroachdb/pebble"
)

type testMetrics struct {
	wrote        int
	read         int
	batchCommits int
	batchOps     int
}

func (m *testMetrics) ObserveWrite(d time.Duration, bytes int) { m.wrote += bytes }
func (m *testMetrics) ObserveRead(d time.Duration, bytes int)  { m.read += bytes }
func (m *testMetrics) ObserveBatchCommit(d time.Duration, numOps int, bytes int) {
	m.batchCommits++
	m.batchOps += numOps
}

func newTestDB(t *testing.T) (*DB, *testMetrics) {
	t.Helper()
	metrics := &testMetrics{}
	db, err := Open(Options{
		DataDir:       t.TempDir(),
		Fsync:         FsyncModeInterval,
		FsyncInterval: 2 * time.Millisecond,
		Metrics:       metrics,
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, metrics
}

func TestCRUD(t *testing.T) {
	db, metrics := newTestDB(t)

	key := []byte("ids/k1")
	if err := db.Set(key, []byte("v1")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if metrics.wrote != len(key)+2 {
		t.Fatalf("write metrics = %d", metrics.wrote)
	}
	got, err := db.Get(key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "v1" {
		t.Fatalf("got %q", got)
	}
	if metrics.read == 0 {
		t.Fatalf("expected read metrics to record bytes")
	}
	if ok, err := db.Has(key); err != nil || !ok {
		t.Fatalf("has = %v, %v", ok, err)
	}

	if err := db.Delete(key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := db.Get(key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if ok, err := db.Has(key); err != nil || ok {
		t.Fatalf("has after delete = %v, %v", ok, err)
	}
}

func TestBatchCommitMetrics(t *testing.T) {
	db, metrics := newTestDB(t)

	b := db.NewBatch()
	_ = b.Set([]byte("a"), []byte("1"), nil)
	_ = b.Set([]byte("b"), []byte("2"), nil)
	if err := db.CommitBatch(context.Background(), b); err != nil {
		t.Fatalf("commit: %v", err)
	}
	b.Close()

	if metrics.batchCommits != 1 || metrics.batchOps != 2 {
		t.Fatalf("commits=%d ops=%d", metrics.batchCommits, metrics.batchOps)
	}
}

func TestCommitHonoursCancelledContext(t *testing.T) {
	db, _ := newTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b := db.NewBatch()
	defer b.Close()
	_ = b.Set([]byte("a"), []byte("1"), nil)
	if err := db.CommitBatch(ctx, b); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSnapshotConsistency(t *testing.T) {
	db, _ := newTestDB(t)

	key := []byte("k2")
	if err := db.Set(key, []byte("old")); err != nil {
		t.Fatalf("set: %v", err)
	}
	snap := db.NewSnapshot()
	defer snap.Close()

	if err := db.Set(key, []byte("new")); err != nil {
		t.Fatalf("set: %v", err)
	}

	valOld, closer, err := snap.Get(key)
	if err != nil {
		t.Fatalf("snap get: %v", err)
	}
	if string(valOld) != "old" {
		t.Fatalf("snapshot saw %q want %q", valOld, "old")
	}
	closer.Close()

	valNew, err := db.Get(key)
	if err != nil {
		t.Fatalf("db get: %v", err)
	}
	if string(valNew) != "new" {
		t.Fatalf("db saw %q want %q", valNew, "new")
	}
}

func TestRangeOrderAndBounds(t *testing.T) {
	db, _ := newTestDB(t)
	for _, k := range []string{"ids/c", "ids/a", "ids/b", "other/x", "idt"} {
		if err := db.Set([]byte(k), []byte(k)); err != nil {
			t.Fatalf("set: %v", err)
		}
	}
	prefix := []byte("ids/")
	collect := func(reverse bool, limit int) []string {
		var keys []string
		err := db.Range(context.Background(), prefix, PrefixUpperBound(prefix), reverse, func(k, v []byte) bool {
			if !bytes.Equal(k, v) {
				t.Fatalf("value mismatch for %q", k)
			}
			keys = append(keys, string(k))
			return len(keys) < limit
		})
		if err != nil {
			t.Fatalf("range: %v", err)
		}
		return keys
	}
	if got := collect(false, 10); len(got) != 3 || got[0] != "ids/a" || got[2] != "ids/c" {
		t.Fatalf("forward = %v", got)
	}
	if got := collect(true, 2); len(got) != 2 || got[0] != "ids/c" || got[1] != "ids/b" {
		t.Fatalf("reverse = %v", got)
	}
}

func TestPrefixUpperBound(t *testing.T) {
	if got := PrefixUpperBound([]byte("ids/")); string(got) != "ids0" {
		t.Fatalf("got %q", got)
	}
	if got := PrefixUpperBound([]byte{0x01, 0xff}); !bytes.Equal(got, []byte{0x02}) {
		t.Fatalf("got %x", got)
	}
	if got := PrefixUpperBound([]byte{0xff, 0xff}); got != nil {
		t.Fatalf("got %x", got)
	}
}

func TestParseFsyncMode(t *testing.T) {
	for in, want := range map[string]FsyncMode{"": FsyncModeUnspecified, "Always": FsyncModeAlways, "interval": FsyncModeInterval, "never": FsyncModeNever} {
		got, err := ParseFsyncMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseFsyncMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseFsyncMode("sometimes"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestCompactRangeKeepsData(t *testing.T) {
	db, _ := newTestDB(t)
	prefix := []byte("ids/")
	for _, k := range []string{"ids/a", "ids/b", "ids/c"} {
		if err := db.Set([]byte(k), []byte(k)); err != nil {
			t.Fatalf("set: %v", err)
		}
	}
	if err := db.Delete([]byte("ids/b")); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := db.CompactRange(prefix, PrefixUpperBound(prefix)); err != nil {
		t.Fatalf("compact: %v", err)
	}
	it, err := db.NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: PrefixUpperBound(prefix)})
	if err != nil {
		t.Fatalf("iter: %v", err)
	}
	defer it.Close()
	var keys []string
	for ok := it.First(); ok; ok = it.Next() {
		keys = append(keys, string(it.Key()))
	}
	if len(keys) != 2 || keys[0] != "ids/a" || keys[1] != "ids/c" {
		t.Fatalf("keys after compaction = %v", keys)
	}
}

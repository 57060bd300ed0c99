package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/rzbill/soid/pkg/id"
)

var (
	// ErrExists is returned by Put when the id is already recorded.
	ErrExists = errors.New("ledger: id already recorded")
	// ErrNotFound is returned by Get for an unknown id.
	ErrNotFound = errors.New("ledger: id not found")
	// ErrCorrupt is returned when a stored record fails its checksum.
	ErrCorrupt = errors.New("ledger: corrupt record")
)

// Entry is one issued identifier and what it was issued for.
type Entry struct {
	ID        id.ID     `json:"id"`
	Tag       string    `json:"tag"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Query selects entries by the timestamp embedded in their id. Zero From/To
// leave that side open; both bounds are inclusive.
type Query struct {
	From    time.Time
	To      time.Time
	Tag     string
	Filter  string
	Limit   int
	Reverse bool
}

// Ledger records issued ids. Ids are the primary key, so key order is
// issue order and time ranges need no secondary index.
type Ledger interface {
	Put(ctx context.Context, e Entry) error
	// PutBatch records every entry or none of them.
	PutBatch(ctx context.Context, entries []Entry) error
	Get(ctx context.Context, key id.ID) (Entry, error)
	Scan(ctx context.Context, q Query) ([]Entry, error)
	Count(ctx context.Context) (int64, error)
	// Check verifies the backing store is readable and consistent.
	Check(ctx context.Context) error
	Close() error
}

// Bounds returns the smallest and largest ids whose timestamp lies in
// [q.From, q.To]: the timestamp followed by all 0x00 or all 0xff.
func Bounds(q Query) (lo, hi id.ID) {
	for i := range hi {
		hi[i] = 0xff
	}
	if !q.From.IsZero() {
		lo = boundID(q.From, 0x00)
	}
	if !q.To.IsZero() {
		hi = boundID(q.To, 0xff)
	}
	return lo, hi
}

func boundID(t time.Time, fill byte) id.ID {
	us := t.UnixMicro()
	if us < 0 {
		us = 0
	}
	if us > id.MaxMicroTime {
		us = id.MaxMicroTime
	}
	var out id.ID
	for i := 6; i >= 0; i-- {
		out[i] = byte(us)
		us >>= 8
	}
	for i := 7; i < id.Size; i++ {
		out[i] = fill
	}
	return out
}

// matcher applies the non-range parts of a Query to decoded entries.
type matcher struct {
	tag    string
	filter celFilter
}

func newMatcher(q Query) (matcher, error) {
	f, err := newCELFilter(q.Filter)
	if err != nil {
		return matcher{}, err
	}
	return matcher{tag: q.Tag, filter: f}, nil
}

func (m matcher) match(e Entry, now time.Time) bool {
	if m.tag != "" && e.Tag != m.tag {
		return false
	}
	return m.filter.Eval(e, now)
}

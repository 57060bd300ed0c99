package id

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"io"
	"time"
)

// Generator builds IDs from a clock and a secure random source. The zero
// value uses the wall clock and crypto/rand. A Generator holds no mutable
// state and is safe for concurrent use.
type Generator struct {
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
	// Rand supplies tag padding and entropy. Defaults to crypto/rand.Reader.
	Rand io.Reader
}

var defaultGenerator Generator

// Generate returns a new ID carrying tag. An empty tag yields an untagged ID.
func Generate(tag string) (ID, error) { return defaultGenerator.Generate(tag) }

// GenerateBytes is Generate for a byte tag; nil yields an untagged ID.
func GenerateBytes(tag []byte) (ID, error) { return defaultGenerator.GenerateBytes(tag) }

// MustGenerate is Generate that panics on error.
func MustGenerate(tag string) ID {
	out, err := Generate(tag)
	if err != nil {
		panic(err)
	}
	return out
}

// EncodeTag packs tag into the 6-byte tag field using crypto/rand padding.
func EncodeTag(tag []byte) ([TagSize]byte, error) { return defaultGenerator.EncodeTag(tag) }

// Generate returns a new ID stamped with g's clock.
func (g Generator) Generate(tag string) (ID, error) {
	return g.GenerateAt(g.now(), tag)
}

// GenerateBytes returns a new ID stamped with g's clock.
func (g Generator) GenerateBytes(tag []byte) (ID, error) {
	return g.build(g.now(), tag)
}

// GenerateAt returns a new ID stamped with t instead of the current time.
func (g Generator) GenerateAt(t time.Time, tag string) (ID, error) {
	return g.build(t, []byte(tag))
}

func (g Generator) build(t time.Time, tag []byte) (ID, error) {
	field, err := g.EncodeTag(tag)
	if err != nil {
		return Nil, err
	}
	ts, err := MicroTimeBin(t)
	if err != nil {
		return Nil, err
	}
	var out ID
	copy(out[:timeSize], ts[:])
	copy(out[tagOffset:entropyOffset], field[:])
	if err := g.fill(out[entropyOffset:]); err != nil {
		return Nil, err
	}
	return out, nil
}

// EncodeTag packs tag into the 6-byte tag field. Tags longer than six bytes
// are truncated. Tags of four bytes or fewer are followed by the separator
// and random padding; five byte tags get a single trailing separator. A tag
// containing the separator is rejected before any randomness is drawn.
func (g Generator) EncodeTag(tag []byte) ([TagSize]byte, error) {
	var field [TagSize]byte
	if bytes.IndexByte(tag, Separator) >= 0 {
		return field, fmt.Errorf("%w: tag cannot contain the 0x00 separator", ErrInvalidArgument)
	}
	if len(tag) > TagSize {
		tag = tag[:TagSize]
	}
	n := copy(field[:], tag)
	if n <= TagSize-2 {
		field[n] = Separator
		if err := g.fill(field[n+1:]); err != nil {
			return field, err
		}
	}
	// remaining bytes of a five byte tag are already Separator (zero)
	return field, nil
}

// MicroTimeBin encodes t as a 7-byte big-endian microsecond epoch.
func MicroTimeBin(t time.Time) ([timeSize]byte, error) {
	var out [timeSize]byte
	us := t.UnixMicro()
	if us < 0 || us > MaxMicroTime {
		return out, fmt.Errorf("%w: %s is outside the 56-bit microsecond range", ErrClock, t.UTC().Format(time.RFC3339Nano))
	}
	v := uint64(us)
	for k := timeSize - 1; k >= 0; k-- {
		out[k] = byte(v)
		v >>= 8
	}
	return out, nil
}

func (g Generator) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

func (g Generator) fill(b []byte) error {
	r := g.Rand
	if r == nil {
		r = rand.Reader
	}
	if _, err := io.ReadFull(r, b); err != nil {
		return fmt.Errorf("%w: %v", ErrEntropy, err)
	}
	return nil
}

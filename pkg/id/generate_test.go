package id

import (
	"bytes"
	"errors"
	"testing"
	"testing/iotest"
	"time"
)

func TestTagFidelity(t *testing.T) {
	for _, tag := range []string{"", "a", "ab", "abc", "abcd", "abcde", "a27b28"} {
		for i := 0; i < 20; i++ {
			u, err := Generate(tag)
			if err != nil {
				t.Fatalf("generate %q: %v", tag, err)
			}
			if got := u.Tag(); got != tag {
				t.Fatalf("Tag() = %q, want %q", got, tag)
			}
		}
	}
	u, err := GenerateBytes(nil)
	if err != nil {
		t.Fatalf("generate nil tag: %v", err)
	}
	if u.Tag() != "" || u[7] != Separator {
		t.Fatalf("nil tag must start the tag field with the separator: %s", u)
	}
}

func TestTagTruncatedToSixBytes(t *testing.T) {
	u, err := fixedGenerator(1, 1, 2, 3).Generate("abcdefgh")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if u.Tag() != "abcdef" {
		t.Fatalf("Tag() = %q", u.Tag())
	}
}

func TestTagFieldLayout(t *testing.T) {
	tests := []struct {
		tag    string
		random []byte
		field  []byte
	}{
		{"", []byte{1, 2, 3, 4, 5}, []byte{0, 1, 2, 3, 4, 5}},
		{"ab", []byte{7, 8, 9}, []byte{'a', 'b', 0, 7, 8, 9}},
		{"abcd", []byte{7}, []byte{'a', 'b', 'c', 'd', 0, 7}},
		{"abcde", nil, []byte{'a', 'b', 'c', 'd', 'e', 0}},
		{"a27b28", nil, []byte("a27b28")},
	}
	for _, tt := range tests {
		r := bytes.NewReader(tt.random)
		field, err := Generator{Rand: r}.EncodeTag([]byte(tt.tag))
		if err != nil {
			t.Fatalf("encode %q: %v", tt.tag, err)
		}
		if !bytes.Equal(field[:], tt.field) {
			t.Fatalf("encode %q = %x, want %x", tt.tag, field, tt.field)
		}
		if r.Len() != 0 {
			t.Fatalf("encode %q left %d random bytes unread", tt.tag, r.Len())
		}
	}
}

func TestSixByteTagHasNoRandomPadding(t *testing.T) {
	// exactly three bytes available: any padding read would exhaust them
	u, err := fixedGenerator(1, 0xaa, 0xbb, 0xcc).Generate("a27b28")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(u[7:13]) != "a27b28" || !bytes.Equal(u[13:], []byte{0xaa, 0xbb, 0xcc}) {
		t.Fatalf("unexpected layout %x", u[:])
	}
}

func TestTagWithSeparatorRejected(t *testing.T) {
	r := bytes.NewReader([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	g := Generator{Rand: r}
	for _, tag := range []string{"\x00", "a\x00b", "abcdefg\x00"} {
		if _, err := g.Generate(tag); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("tag %q: expected ErrInvalidArgument, got %v", tag, err)
		}
	}
	if _, err := EncodeTag([]byte{'x', 0}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("EncodeTag: expected ErrInvalidArgument, got %v", err)
	}
	if r.Len() != 8 {
		t.Fatalf("validation must happen before drawing randomness")
	}
}

func TestMicroTimeBin(t *testing.T) {
	b, err := MicroTimeBin(time.UnixMicro(0x0102030405))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(b[:], []byte{0, 0, 1, 2, 3, 4, 5}) {
		t.Fatalf("got %x", b)
	}
	b, err = MicroTimeBin(time.UnixMicro(MaxMicroTime))
	if err != nil {
		t.Fatalf("encode max: %v", err)
	}
	if !bytes.Equal(b[:], bytes.Repeat([]byte{0xff}, 7)) {
		t.Fatalf("got %x", b)
	}
}

func TestClockOutOfRange(t *testing.T) {
	for _, at := range []time.Time{time.Unix(-1, 0), time.UnixMicro(MaxMicroTime + 1), {}} {
		if _, err := (Generator{}).GenerateAt(at, "x"); !errors.Is(err, ErrClock) {
			t.Fatalf("at %v: expected ErrClock, got %v", at, err)
		}
	}
}

func TestEntropyFailurePropagates(t *testing.T) {
	g := Generator{Rand: iotest.ErrReader(errors.New("no entropy"))}
	if _, err := g.Generate(""); !errors.Is(err, ErrEntropy) {
		t.Fatalf("expected ErrEntropy, got %v", err)
	}
	if _, err := g.Generate("a27b28"); !errors.Is(err, ErrEntropy) {
		t.Fatalf("expected ErrEntropy for entropy suffix, got %v", err)
	}
}

func TestGeneratorUsesClock(t *testing.T) {
	at := time.Date(2030, 1, 2, 3, 4, 5, 678901000, time.UTC)
	g := Generator{Now: func() time.Time { return at }}
	u, err := g.Generate("clk")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if u.MicroTime() != at.UnixMicro() {
		t.Fatalf("micro time = %d, want %d", u.MicroTime(), at.UnixMicro())
	}
	if !u.Time().Equal(at.Truncate(time.Second)) {
		t.Fatalf("time = %v", u.Time())
	}
}

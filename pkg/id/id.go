package id

import (
	"bytes"
	"encoding/hex"
	"errors"
	"time"
)

const (
	// Size is the length of an ID in bytes.
	Size = 16
	// TagSize is the width of the tag field.
	TagSize = 6
	// EntropySize is the number of trailing random bytes.
	EntropySize = 3
	// Separator terminates the meaningful part of the tag field.
	Separator byte = 0x00
	// MaxMicroTime is the largest timestamp the 56-bit field can hold.
	MaxMicroTime = 1<<56 - 1

	// HexLen and StringLen are the fixed widths of the Hex and String forms.
	HexLen    = 32
	StringLen = 36

	timeSize      = 7
	tagOffset     = timeSize
	entropyOffset = tagOffset + TagSize
)

var (
	// ErrInvalidArgument is wrapped by every input validation failure.
	ErrInvalidArgument = errors.New("id: invalid argument")
	// ErrClock reports a wall clock outside the 56-bit microsecond range.
	ErrClock = errors.New("id: clock unavailable")
	// ErrEntropy reports a failing secure random source.
	ErrEntropy = errors.New("id: secure random source unavailable")
)

// ID is a 128-bit, time-ordered identifier encoded as 16 bytes:
// [7 bytes µs timestamp][6 bytes tag field][3 bytes entropy].
type ID [Size]byte

// Nil is the zero ID.
var Nil ID

// Bytes returns the raw 16-byte representation.
func (i ID) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, i[:])
	return b
}

// Hex returns the 32 character lowercase hex form.
func (i ID) Hex() string { return hex.EncodeToString(i[:]) }

// String returns the dashed form, hex groups 14-4-4-4-6.
func (i ID) String() string {
	var out [StringLen]byte
	hex.Encode(out[0:14], i[0:7])
	out[14] = '-'
	hex.Encode(out[15:19], i[7:9])
	out[19] = '-'
	hex.Encode(out[20:24], i[9:11])
	out[24] = '-'
	hex.Encode(out[25:29], i[11:13])
	out[29] = '-'
	hex.Encode(out[30:36], i[13:16])
	return string(out[:])
}

// Compare returns -1, 0, 1 based on lexical comparison.
func (i ID) Compare(other ID) int { return bytes.Compare(i[:], other[:]) }

// IsZero reports whether i is the Nil ID.
func (i ID) IsZero() bool { return i == Nil }

// MicroTime returns the embedded timestamp in microseconds since the UNIX epoch.
func (i ID) MicroTime() int64 {
	var v uint64
	for _, b := range i[:timeSize] {
		v = v<<8 | uint64(b)
	}
	return int64(v)
}

// Time returns the embedded timestamp truncated to the second, in UTC.
func (i ID) Time() time.Time {
	return time.Unix(i.MicroTime()/1_000_000, 0).UTC()
}

// Timestamp returns the embedded timestamp at full microsecond precision.
func (i ID) Timestamp() time.Time {
	return time.UnixMicro(i.MicroTime()).UTC()
}

// Tag returns the tag field up to the first separator. Untagged IDs return "".
func (i ID) Tag() string {
	field := i[tagOffset:entropyOffset]
	if n := bytes.IndexByte(field, Separator); n >= 0 {
		field = field[:n]
	}
	return string(field)
}

// randomTail returns the bytes following the tag's meaningful bytes. A
// tagged ID keeps its separator in the tail; an untagged one skips it.
func (i ID) randomTail() []byte {
	n := len(i.Tag())
	if n == 0 {
		return i[tagOffset+1:]
	}
	return i[tagOffset+n:]
}

// Decoded is the composite view returned by Decode.
type Decoded struct {
	MicroTime int64     `json:"microTime"`
	DateTime  time.Time `json:"dateTime"`
	Tag       string    `json:"tag"`
	// Rand is informational; its length depends on the tag length.
	Rand string `json:"rand"`
}

// Decode derives every field view at once.
func (i ID) Decode() Decoded {
	micro := i.MicroTime()
	return Decoded{
		MicroTime: micro,
		DateTime:  time.Unix(micro/1_000_000, 0).UTC(),
		Tag:       i.Tag(),
		Rand:      hex.EncodeToString(i.randomTail()),
	}
}

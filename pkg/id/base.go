package id

import (
	"encoding/binary"
	"fmt"
	"math/bits"
	"time"
)

const (
	// Alphabet62 orders digits, then upper case, then lower case letters.
	Alphabet62 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	// Alphabet36 orders digits, then lower case letters.
	Alphabet36 = "0123456789abcdefghijklmnopqrstuvwxyz"

	// Base62MaxLen and Base36MaxLen are the widths needed for 2^128-1.
	Base62MaxLen = 22
	Base36MaxLen = 25
)

var (
	// Base62Crossover is the first instant whose IDs render as 22 base-62
	// characters regardless of their tag and entropy bytes.
	Base62Crossover = time.UnixMicro(9248382678968682).UTC()
	// Base36Crossover is the first instant whose IDs render as 25 base-36
	// characters regardless of their tag and entropy bytes.
	Base36Crossover = time.UnixMicro(4754450504593403).UTC()
)

// Base62 returns the variable length base-62 form.
func (i ID) Base62() string { return encodeBase(i, Alphabet62, 0) }

// Base36 returns the variable length base-36 form.
func (i ID) Base36() string { return encodeBase(i, Alphabet36, 0) }

// Base62Padded returns the base-62 form left-padded with '0' to Base62MaxLen.
// Unlike Base62 it sorts like the raw bytes.
func (i ID) Base62Padded() string { return encodeBase(i, Alphabet62, Base62MaxLen) }

// Base36Padded returns the base-36 form left-padded with '0' to Base36MaxLen.
func (i ID) Base36Padded() string { return encodeBase(i, Alphabet36, Base36MaxLen) }

// uint128 is an unsigned 128-bit integer as two 64-bit words.
type uint128 struct{ hi, lo uint64 }

func (u uint128) isZero() bool { return u.hi == 0 && u.lo == 0 }

// divmod returns u/d and u%d.
func (u uint128) divmod(d uint64) (uint128, uint64) {
	qhi, r := bits.Div64(0, u.hi, d)
	qlo, r := bits.Div64(r, u.lo, d)
	return uint128{hi: qhi, lo: qlo}, r
}

// mulAdd returns u*m+a; ok is false when the result exceeds 128 bits.
func (u uint128) mulAdd(m, a uint64) (uint128, bool) {
	over, hi := bits.Mul64(u.hi, m)
	carry, lo := bits.Mul64(u.lo, m)
	hi, c1 := bits.Add64(hi, carry, 0)
	lo, c2 := bits.Add64(lo, a, 0)
	hi, c3 := bits.Add64(hi, 0, c2)
	if over != 0 || c1 != 0 || c3 != 0 {
		return uint128{}, false
	}
	return uint128{hi: hi, lo: lo}, true
}

func encodeBase(i ID, alphabet string, width int) string {
	u := uint128{hi: binary.BigEndian.Uint64(i[:8]), lo: binary.BigEndian.Uint64(i[8:])}
	base := uint64(len(alphabet))
	var buf [Base36MaxLen]byte
	pos := len(buf)
	for !u.isZero() {
		var r uint64
		u, r = u.divmod(base)
		pos--
		buf[pos] = alphabet[r]
	}
	if pos == len(buf) {
		pos--
		buf[pos] = '0'
	}
	for len(buf)-pos < width {
		pos--
		buf[pos] = '0'
	}
	return string(buf[pos:])
}

func decodeBase(s string, base uint64, digit func(byte) int) (ID, error) {
	if s == "" {
		return Nil, fmt.Errorf("%w: empty base-%d string", ErrInvalidArgument, base)
	}
	var u uint128
	for k := 0; k < len(s); k++ {
		d := digit(s[k])
		if d < 0 {
			return Nil, fmt.Errorf("%w: invalid base-%d character %q at position %d", ErrInvalidArgument, base, s[k], k)
		}
		var ok bool
		if u, ok = u.mulAdd(base, uint64(d)); !ok {
			return Nil, fmt.Errorf("%w: base-%d value exceeds 128 bits", ErrInvalidArgument, base)
		}
	}
	var out ID
	binary.BigEndian.PutUint64(out[:8], u.hi)
	binary.BigEndian.PutUint64(out[8:], u.lo)
	return out, nil
}

func digit62(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 36
	}
	return -1
}

// digit36 accepts both letter cases.
func digit36(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	}
	return -1
}

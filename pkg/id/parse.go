package id

import (
	"encoding/hex"
	"fmt"
)

// FromBytes wraps a 16-byte slice.
func FromBytes(b []byte) (ID, error) {
	if len(b) != Size {
		return Nil, fmt.Errorf("%w: binary form must be %d bytes, got %d", ErrInvalidArgument, Size, len(b))
	}
	var out ID
	copy(out[:], b)
	return out, nil
}

// FromHex parses the 32 character hex form, in either case.
func FromHex(s string) (ID, error) {
	if len(s) != HexLen {
		return Nil, fmt.Errorf("%w: hex form must be %d characters, got %d", ErrInvalidArgument, HexLen, len(s))
	}
	var out ID
	if _, err := hex.Decode(out[:], []byte(s)); err != nil {
		return Nil, fmt.Errorf("%w: hex form: %v", ErrInvalidArgument, err)
	}
	return out, nil
}

// dashes holds the dash positions of the String form.
var dashes = [...]int{14, 19, 24, 29}

// FromString parses the dashed 14-4-4-4-6 form, in either case.
func FromString(s string) (ID, error) {
	if len(s) != StringLen {
		return Nil, fmt.Errorf("%w: string form must be %d characters, got %d", ErrInvalidArgument, StringLen, len(s))
	}
	buf := make([]byte, 0, HexLen)
	prev := 0
	for _, d := range dashes {
		if s[d] != '-' {
			return Nil, fmt.Errorf("%w: string form expects '-' at position %d", ErrInvalidArgument, d)
		}
		buf = append(buf, s[prev:d]...)
		prev = d + 1
	}
	buf = append(buf, s[prev:]...)
	var out ID
	if _, err := hex.Decode(out[:], buf); err != nil {
		return Nil, fmt.Errorf("%w: string form: %v", ErrInvalidArgument, err)
	}
	return out, nil
}

// FromBase62 parses a base-62 string (alphabet 0-9, A-Z, a-z). Leading
// zeros are accepted so padded and unpadded forms both parse.
func FromBase62(s string) (ID, error) { return decodeBase(s, 62, digit62) }

// FromBase36 parses a base-36 string (alphabet 0-9, a-z; upper case accepted).
func FromBase36(s string) (ID, error) { return decodeBase(s, 36, digit36) }

// Parse detects the textual form of s: 36 characters with dashes is the
// String form, 32 characters is Hex, anything else is read as Base62.
// Base36 cannot be told apart from Base62 and must use FromBase36.
func Parse(s string) (ID, error) {
	switch {
	case len(s) == StringLen && s[dashes[0]] == '-':
		return FromString(s)
	case len(s) == HexLen:
		return FromHex(s)
	default:
		return FromBase62(s)
	}
}

// MustParse is Parse that panics on error.
func MustParse(s string) ID {
	out, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return out
}

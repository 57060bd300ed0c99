// Package id provides a 128-bit, time-ordered identifier and its codecs.
//
// # Format
//
// The ID is 16 bytes:
//
//	[7 bytes µs timestamp, big-endian][6 bytes tag field][3 bytes entropy]
//
// The timestamp is an unsigned 56-bit count of microseconds since the UNIX
// epoch, enough to reach 4253-05-31T22:20:37Z. The tag field carries an
// optional 1-6 byte caller tag right-padded with the 0x00 separator; tags of
// four bytes or fewer are followed by the separator and random bytes, and an
// untagged ID starts the field with the separator followed by five random
// bytes. The last three bytes are random.
//
// # Ordering
//
// Byte-wise comparison sorts by timestamp, then tag, then entropy, so raw
// bytes, Hex and the dashed String form all preserve generation order across
// microseconds. IDs sharing a microsecond order by their random bytes only.
//
// Base62 and Base36 render the whole value as a big integer and are variable
// length: they gain a character at Base62Crossover and Base36Crossover. Use
// Base62Padded or Base36Padded when the text itself must sort.
//
// # Textual forms
//
//	Hex      0640b5eecfe24075737200abcd010203
//	String   0640b5eecfe240-7573-7200-abcd-010203
//	Base62   BnWf6hxdM2Ds3TNCCmyrz            (0-9, A-Z, a-z)
//	Base36   dbr3de6n7zx2g1lnwtk6ewhv         (0-9, a-z)
//
// The dashed form deliberately uses 14-4-4-4-6 groups so it is never taken
// for an RFC 4122 UUID while keeping the same 36 character storage size.
//
// Usage
//
//	newID, err := id.Generate("usr")
//	s := newID.String()          // dashed string
//	k := newID.Bytes()           // 16-byte storage key
//	back, err := id.FromString(s)
//	tag := back.Tag()            // "usr"
package id

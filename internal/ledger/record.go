package ledger

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"time"
)

// Record encoding: varint headerLen | header | payload | crc32c(header|payload).
// The header is the 8-byte big-endian creation time in µs followed by the
// tag; the payload is the note.

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

func encodeRecord(e Entry) []byte {
	header := make([]byte, 8, 8+len(e.Tag))
	binary.BigEndian.PutUint64(header, uint64(e.CreatedAt.UnixMicro()))
	header = append(header, e.Tag...)
	payload := []byte(e.Note)

	out := make([]byte, 0, binary.MaxVarintLen64+len(header)+len(payload)+4)
	out = binary.AppendUvarint(out, uint64(len(header)))
	out = append(out, header...)
	out = append(out, payload...)

	crc := crc32.Update(0, castagnoli, header)
	crc = crc32.Update(crc, castagnoli, payload)
	return binary.BigEndian.AppendUint32(out, crc)
}

// decodeRecord fills everything but the ID.
func decodeRecord(b []byte) (Entry, error) {
	if len(b) < 1+4 {
		return Entry{}, fmt.Errorf("%w: short record (%d bytes)", ErrCorrupt, len(b))
	}
	hlen, n := binary.Uvarint(b)
	if n <= 0 || hlen < 8 {
		return Entry{}, fmt.Errorf("%w: bad header length", ErrCorrupt)
	}
	if uint64(n)+hlen+4 > uint64(len(b)) {
		return Entry{}, fmt.Errorf("%w: truncated record", ErrCorrupt)
	}
	header := b[n : n+int(hlen)]
	payload := b[n+int(hlen) : len(b)-4]
	expect := binary.BigEndian.Uint32(b[len(b)-4:])
	crc := crc32.Update(0, castagnoli, header)
	crc = crc32.Update(crc, castagnoli, payload)
	if crc != expect {
		return Entry{}, fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}
	return Entry{
		Tag:       string(header[8:]),
		Note:      string(payload),
		CreatedAt: time.UnixMicro(int64(binary.BigEndian.Uint64(header[:8]))).UTC(),
	}, nil
}

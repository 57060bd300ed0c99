package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pebblestore "github.com/rzbill/soid/internal/storage/pebble"
)

// FormatVersion is the on-disk layout written under "ids/".
const FormatVersion = 1

// Meta describes a Pebble ledger. It is written once, on first open.
type Meta struct {
	Version     int    `json:"version"`
	CreatedAtUs int64  `json:"createdAtUs"`
	KeyPrefix   string `json:"keyPrefix"`
}

// metaKey sorts before keyPrefix so it never shows up in id scans.
var metaKey = []byte("ameta/ledger")

// ensureMeta creates the meta record if absent and rejects stores written
// with another format version.
func ensureMeta(db *pebblestore.DB, now time.Time) (Meta, error) {
	b, err := db.Get(metaKey)
	switch {
	case err == nil:
		var m Meta
		if err := json.Unmarshal(b, &m); err != nil {
			return Meta{}, fmt.Errorf("%w: meta: %v", ErrCorrupt, err)
		}
		if m.Version != FormatVersion {
			return Meta{}, fmt.Errorf("ledger: format version %d not supported (want %d)", m.Version, FormatVersion)
		}
		return m, nil
	case !errors.Is(err, pebblestore.ErrNotFound):
		return Meta{}, err
	}

	m := Meta{Version: FormatVersion, CreatedAtUs: now.UnixMicro(), KeyPrefix: string(keyPrefix)}
	raw, err := json.Marshal(m)
	if err != nil {
		return Meta{}, err
	}
	if err := db.Set(metaKey, raw); err != nil {
		return Meta{}, err
	}
	return m, nil
}

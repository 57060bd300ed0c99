package client

import (
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/rzbill/soid/pkg/id"
)

// parseID accepts the dashed, hex and base62 forms, or base36 when asked.
func parseID(s string, base36 bool) (id.ID, error) {
	if base36 {
		return id.FromBase36(s)
	}
	return id.Parse(s)
}

// parseTime accepts integer Unix microseconds or RFC3339.
func parseTime(s string) (time.Time, error) {
	if us, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMicro(us).UTC(), nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

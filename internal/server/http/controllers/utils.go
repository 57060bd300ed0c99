package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rzbill/soid/pkg/id"
)

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeJSON writes a JSON response with the given status and data.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// pathID parses the {id} path value. Base36 input needs ?base=36 since it
// overlaps base62. Writes a 400 and returns false on failure.
func pathID(w http.ResponseWriter, r *http.Request) (id.ID, bool) {
	raw := r.PathValue("id")
	var (
		v   id.ID
		err error
	)
	if r.URL.Query().Get("base") == "36" {
		v, err = id.FromBase36(raw)
	} else {
		v, err = id.Parse(raw)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return id.Nil, false
	}
	return v, true
}

// parseLimit returns 0 for empty or invalid values.
func parseLimit(limitStr string) int {
	if limitStr == "" {
		return 0
	}
	if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
		return limit
	}
	return 0
}

// parseTimestamp accepts integer Unix microseconds or RFC3339. Empty input
// is the zero time.
func parseTimestamp(ts string) (time.Time, error) {
	if ts == "" {
		return time.Time{}, nil
	}
	if us, err := strconv.ParseInt(ts, 10, 64); err == nil {
		return time.UnixMicro(us).UTC(), nil
	}
	return time.Parse(time.RFC3339Nano, ts)
}

// parseBool returns true for "true" or "1".
func parseBool(s string) bool {
	return s == "true" || s == "1"
}

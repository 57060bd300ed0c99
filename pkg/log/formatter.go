package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// TextFormatter renders "ts LEVEL message key=value ..." lines with keys sorted.
type TextFormatter struct {
	// DisableTimestamp omits the leading timestamp, mostly for tests.
	DisableTimestamp bool
}

func (f *TextFormatter) Format(e *Entry) ([]byte, error) {
	var b bytes.Buffer
	if !f.DisableTimestamp {
		b.WriteString(e.Timestamp.UTC().Format(timeLayout))
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%-5s %s", e.Level, e.Message)
	for _, k := range sortedKeys(e.Fields) {
		fmt.Fprintf(&b, " %s=%v", k, quoteIfNeeded(e.Fields[k]))
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

// JSONFormatter renders one JSON object per line.
type JSONFormatter struct{}

func (f *JSONFormatter) Format(e *Entry) ([]byte, error) {
	obj := make(map[string]any, len(e.Fields)+3)
	for k, v := range e.Fields {
		obj[k] = v
	}
	obj["ts"] = e.Timestamp.UTC().Format(time.RFC3339Nano)
	obj["level"] = e.Level.String()
	obj["msg"] = e.Message
	b, err := json.Marshal(obj)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func sortedKeys(m Fields) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func quoteIfNeeded(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if s == "" || bytes.ContainsAny([]byte(s), " \t\n\"=") {
		return fmt.Sprintf("%q", s)
	}
	return s
}

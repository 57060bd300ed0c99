// Package tagname derives default identifier tags from type names.
package tagname

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/rzbill/soid/pkg/id"
)

// Derive returns the default tag for an entity type name. Package
// qualifiers ("pkg.Type", "a/b.Type", "*Type") are stripped. Names of at
// most six bytes are returned unchanged; longer names are split into words
// at upper-case letters and underscores and the lower-cased initials of the
// first six words are joined: MyModelName gives "mmn".
func Derive(name string) string {
	name = strings.TrimLeft(name, "*[]")
	if i := strings.LastIndexAny(name, "./"); i >= 0 {
		name = name[i+1:]
	}
	if len(name) <= id.TagSize {
		return name
	}

	var b strings.Builder
	words := 0
	atStart := true
	for i, r := range name {
		if words == id.TagSize {
			break
		}
		switch {
		case r == '_' || r == ' ' || r == '-':
			atStart = true
			continue
		case i > 0 && unicode.IsUpper(r):
			atStart = true
		}
		if atStart {
			b.WriteRune(unicode.ToLower(r))
			words++
			atStart = false
		}
	}
	return truncate(b.String())
}

// truncate keeps at most id.TagSize bytes without splitting a rune.
func truncate(s string) string {
	if len(s) <= id.TagSize {
		return s
	}
	s = s[:id.TagSize]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}

// Cache memoises Derive for one call site. The zero value is ready to use
// and safe for concurrent use.
type Cache struct {
	m sync.Map
}

// Tag returns Derive(name), computing it once per name.
func (c *Cache) Tag(name string) string {
	if v, ok := c.m.Load(name); ok {
		return v.(string)
	}
	v, _ := c.m.LoadOrStore(name, Derive(name))
	return v.(string)
}

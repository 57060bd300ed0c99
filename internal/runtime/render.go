package runtime

import (
	"fmt"
	"strings"

	"github.com/rzbill/soid/pkg/id"
)

// Forms lists every textual form Render understands.
var Forms = []string{"string", "hex", "base62", "base36", "base62p", "base36p", "bytes"}

// Render returns i in the named form. padded turns base62/base36 into their
// fixed-width variants; "bytes" yields the raw 16 bytes.
func Render(i id.ID, form string, padded bool) (string, error) {
	switch strings.ToLower(form) {
	case "", "string":
		return i.String(), nil
	case "hex":
		return i.Hex(), nil
	case "base62":
		if padded {
			return i.Base62Padded(), nil
		}
		return i.Base62(), nil
	case "base36":
		if padded {
			return i.Base36Padded(), nil
		}
		return i.Base36(), nil
	case "base62p":
		return i.Base62Padded(), nil
	case "base36p":
		return i.Base36Padded(), nil
	case "bytes":
		return string(i[:]), nil
	default:
		return "", fmt.Errorf("%w: unknown form %q; use %s", id.ErrInvalidArgument, form, strings.Join(Forms, "|"))
	}
}

// View is every textual form of an id plus its decoded parts.
type View struct {
	String       string     `json:"string"`
	Hex          string     `json:"hex"`
	Base62       string     `json:"base62"`
	Base36       string     `json:"base36"`
	Base62Padded string     `json:"base62Padded"`
	Base36Padded string     `json:"base36Padded"`
	Decoded      id.Decoded `json:"decoded"`
}

// Describe builds the View of i.
func Describe(i id.ID) View {
	return View{
		String:       i.String(),
		Hex:          i.Hex(),
		Base62:       i.Base62(),
		Base36:       i.Base36(),
		Base62Padded: i.Base62Padded(),
		Base36Padded: i.Base36Padded(),
		Decoded:      i.Decode(),
	}
}

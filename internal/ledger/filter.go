package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/cel-go/cel"
)

// celFilter wraps a compiled CEL program evaluated against ledger entries.
// When disabled, Eval always returns true.
type celFilter struct {
	prog    cel.Program
	enabled bool
}

// ValidateFilter compiles expr and reports any parse or type error.
func ValidateFilter(expr string) error {
	_, err := newCELFilter(expr)
	return err
}

func newCELFilter(expr string) (celFilter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return celFilter{enabled: false}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("tag", cel.StringType),
		cel.Variable("micro_time", cel.IntType),
		cel.Variable("unix", cel.IntType),
		cel.Variable("rand", cel.StringType),
		cel.Variable("hex", cel.StringType),
		cel.Variable("note", cel.StringType),
		// Current time in µs for windowed filters.
		cel.Variable("now_us", cel.IntType),
	)
	if err != nil {
		return celFilter{}, err
	}
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return celFilter{}, fmt.Errorf("ledger: filter: %w", iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return celFilter{}, fmt.Errorf("ledger: filter must evaluate to bool, got %s", ast.OutputType())
	}
	prog, err := env.Program(ast)
	if err != nil {
		return celFilter{}, err
	}
	return celFilter{prog: prog, enabled: true}, nil
}

// Eval evaluates the compiled expression against e. Evaluation errors count
// as a non-match.
func (f celFilter) Eval(e Entry, now time.Time) bool {
	if !f.enabled {
		return true
	}
	d := e.ID.Decode()
	out, _, err := f.prog.Eval(map[string]any{
		"tag":        d.Tag,
		"micro_time": d.MicroTime,
		"unix":       d.DateTime.Unix(),
		"rand":       d.Rand,
		"hex":        e.ID.Hex(),
		"note":       e.Note,
		"now_us":     now.UnixMicro(),
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}

package diagnostics

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mbcrawfo/vibefun-sub013/internal/ast"
)

// Diagnostic is one concrete, located instance of a Definition (§6.3's
// `create(code, location, params)` result).
type Diagnostic struct {
	Code     Code
	Severity Severity
	Phase    Phase
	Message  string
	Hint     string // empty if the definition has no hint
	Pos      ast.Pos
	Params   map[string]string // retained for JSON "data" field
}

// Report wraps a Diagnostic as a Go error so it survives errors.As
// unwrapping across package boundaries (same convention the teacher's
// ReportError uses).
type Report struct {
	Diag Diagnostic
}

func (r *Report) Error() string {
	return fmt.Sprintf("%s: %s", r.Diag.Code, r.Diag.Message)
}

// AsReport extracts the Diagnostic from an error chain, if any.
func AsReport(err error) (*Diagnostic, bool) {
	var r *Report
	if errors.As(err, &r) {
		return &r.Diag, true
	}
	return nil, false
}

// substitute replaces `{key}` placeholders in tmpl with params[key].
func substitute(tmpl string, params map[string]string) string {
	out := tmpl
	for k, v := range params {
		out = strings.ReplaceAll(out, "{"+k+"}", v)
	}
	return out
}

// Create builds a Diagnostic from a registered code, a location, and
// template parameters. Panics on an unknown code: that is a programmer
// error in the compiler itself, not something a .vf source file can
// trigger.
func Create(code Code, pos ast.Pos, params map[string]string) Diagnostic {
	def, ok := Lookup(code)
	if !ok {
		panic(fmt.Sprintf("diagnostics: unknown code %q", code))
	}
	hint := ""
	if def.HintTemplate != "" {
		hint = substitute(def.HintTemplate, params)
	}
	return Diagnostic{
		Code:     code,
		Severity: def.Severity,
		Phase:    def.Phase,
		Message:  substitute(def.MessageTemplate, params),
		Hint:     hint,
		Pos:      pos,
		Params:   params,
	}
}

// Throw builds a Diagnostic via Create and wraps it as an error.
func Throw(code Code, pos ast.Pos, params map[string]string) error {
	return &Report{Diag: Create(code, pos, params)}
}

// Collector accumulates diagnostics across a compilation session in
// discovery order (§5: "appended in the order they are discovered").
// It is not safe for concurrent use — the whole pipeline is single-
// threaded per session by design (§5).
type Collector struct {
	diags []Diagnostic
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add appends a Diagnostic.
func (c *Collector) Add(d Diagnostic) {
	c.diags = append(c.diags, d)
}

// AddCode is a convenience wrapper around Create+Add.
func (c *Collector) AddCode(code Code, pos ast.Pos, params map[string]string) {
	c.Add(Create(code, pos, params))
}

// All returns every collected diagnostic in discovery order.
func (c *Collector) All() []Diagnostic {
	return c.diags
}

// HasErrors reports whether any collected diagnostic has error severity.
func (c *Collector) HasErrors() bool {
	for _, d := range c.diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns only the error-severity diagnostics, preserving order.
func (c *Collector) Errors() []Diagnostic {
	var out []Diagnostic
	for _, d := range c.diags {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}
	return out
}

// Warnings returns only the warning-severity diagnostics, preserving order.
func (c *Collector) Warnings() []Diagnostic {
	var out []Diagnostic
	for _, d := range c.diags {
		if d.Severity == SeverityWarning {
			out = append(out, d)
		}
	}
	return out
}

// SortByLocation returns a copy of All() sorted by file then line then
// column, for "grouped by file when possible" presentation (§7). The
// original discovery order is preserved for diagnostics at the same
// file/line/column location.
func (c *Collector) SortByLocation() []Diagnostic {
	out := make([]Diagnostic, len(c.diags))
	copy(out, c.diags)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Pos, out[j].Pos
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	return out
}

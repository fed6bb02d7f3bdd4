package diagnostics

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"golang.org/x/text/width"

	"github.com/mbcrawfo/vibefun-sub013/internal/ast"
)

// SourceLine returns the text of one line of a source file, without its
// line terminator, and whether that line exists. Callers (the loader's
// module cache, normally) supply this so the renderer never touches the
// filesystem itself.
type SourceLine func(file string, line int) (string, bool)

// Renderer produces the human-readable diagnostic format from §6.5.
// Colour is used unless ForceNoColor is set; NewRenderer sets it when the
// target writer is not a TTY, and callers that want plain output (e.g.
// writing to a log file) can set it directly.
type Renderer struct {
	Source       SourceLine
	ForceNoColor bool
}

// NewRenderer builds a Renderer that asks go-isatty whether w looks like a
// terminal, matching §6.5's "colour sequences are omitted in non-TTY
// contexts."
func NewRenderer(w io.Writer, source SourceLine) *Renderer {
	force := true
	if f, ok := w.(*os.File); ok {
		force = !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
	}
	return &Renderer{Source: source, ForceNoColor: force}
}

// displayWidth returns the number of terminal columns s occupies, using
// East Asian width data so carets line up under wide characters the same
// way a real terminal renders them.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

func (r *Renderer) colorize(c *color.Color, s string) string {
	if r.ForceNoColor {
		return s
	}
	return c.Sprint(s)
}

// Render writes one diagnostic in the §6.5 format:
//
//	error[VF4001]: <message>
//	  --> path/to/file.vf:line:column
//	   |
//	 L | <source line>
//	   | ^^^^ pointer
//	   |
//	 = hint: <hint>
func (r *Renderer) Render(w io.Writer, d Diagnostic) {
	sevWord := "error"
	sevColor := color.New(color.FgRed, color.Bold)
	if d.Severity == SeverityWarning {
		sevWord = "warning"
		sevColor = color.New(color.FgYellow, color.Bold)
	}
	header := fmt.Sprintf("%s[%s]", sevWord, d.Code)
	fmt.Fprintf(w, "%s: %s\n", r.colorize(sevColor, header), d.Message)
	fmt.Fprintf(w, "  --> %s\n", d.Pos.String())

	if line, ok := r.lookupSource(d.Pos); ok {
		gutter := fmt.Sprintf("%d", d.Pos.Line)
		pad := strings.Repeat(" ", len(gutter))
		fmt.Fprintf(w, "%s |\n", pad)
		fmt.Fprintf(w, "%s | %s\n", gutter, line)
		caretCol := displayWidth(truncateRunes(line, d.Pos.Column-1))
		caret := r.colorize(sevColor, strings.Repeat("^", 1))
		fmt.Fprintf(w, "%s | %s%s\n", pad, strings.Repeat(" ", caretCol), caret)
		fmt.Fprintf(w, "%s |\n", pad)
	}

	if d.Hint != "" {
		fmt.Fprintf(w, " = hint: %s\n", d.Hint)
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if n > len(r) {
		n = len(r)
	}
	if n < 0 {
		n = 0
	}
	return string(r[:n])
}

func (r *Renderer) lookupSource(pos ast.Pos) (string, bool) {
	if r.Source == nil || pos.File == "" {
		return "", false
	}
	return r.Source(pos.File, pos.Line)
}

// RenderAll writes every diagnostic in collector order, separated by a
// blank line, matching "printed in the order discovered, grouped by file
// when possible" (§7) — callers that want file grouping should pass
// c.SortByLocation() diagnostics instead of c.All().
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) {
	for i, d := range diags {
		if i > 0 {
			fmt.Fprintln(w)
		}
		r.Render(w, d)
	}
}

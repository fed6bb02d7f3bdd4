// Package pipeline wires the Module Loader, Resolver, Desugarer, and Type
// Checker into the single front-end compilation the rest of spec.md
// describes in isolation (§2, §5). One Compile call runs: Load the entry
// point's transitive import closure, resolve a compilation order over the
// module graph, desugar and type-check every module in that order against
// one shared type environment, and accumulate every diagnostic produced
// along the way into a single collector.
package pipeline

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/mbcrawfo/vibefun-sub013/internal/cache"
	"github.com/mbcrawfo/vibefun-sub013/internal/config"
	"github.com/mbcrawfo/vibefun-sub013/internal/desugar"
	"github.com/mbcrawfo/vibefun-sub013/internal/diagnostics"
	"github.com/mbcrawfo/vibefun-sub013/internal/exhaustive"
	"github.com/mbcrawfo/vibefun-sub013/internal/loader"
	"github.com/mbcrawfo/vibefun-sub013/internal/resolver"
	"github.com/mbcrawfo/vibefun-sub013/internal/session"
	"github.com/mbcrawfo/vibefun-sub013/internal/types"
)

// OutputFormat selects between the human-readable and JSON diagnostic
// renderings (§6.5/§6.6). FormatAuto defers the choice to Resolve.
type OutputFormat int

const (
	FormatAuto OutputFormat = iota
	FormatHuman
	FormatJSON
)

// Resolve turns FormatAuto into a concrete format by checking whether w is
// a terminal, defaulting to human output on a TTY and JSON otherwise
// (§12). An explicit FormatHuman/FormatJSON passes through unchanged.
func (f OutputFormat) Resolve(w io.Writer) OutputFormat {
	if f != FormatAuto {
		return f
	}
	if file, ok := w.(*os.File); ok {
		if isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd()) {
			return FormatHuman
		}
	}
	return FormatJSON
}

// Options configures one Compile call.
type Options struct {
	// Parser supplies the surface syntax; required (§4.1's loader depends
	// on it as an injected collaborator — lexing/parsing is out of this
	// core's scope).
	Parser loader.Parser

	// Config is the project's parsed vibefun.json, or nil if none was
	// found (§6.2).
	Config *config.Config

	// Format records a diagnostic rendering choice; see OutputFormat.
	// Neither Compile nor Render reads it: Render takes its format as an
	// argument.
	Format OutputFormat

	// Cache, if set, wraps Parser so a module whose content hash already
	// has a stored parse is served from SQLite instead of re-parsed
	// (§11.1). Nil means every Load re-parses every file.
	Cache *cache.Cache
}

// Result is everything one Compile call produced.
type Result struct {
	Diagnostics *diagnostics.Collector
	Session     *session.Session
	Success     bool
}

// Compile runs Load -> Resolve -> Desugar -> Check over entryPoint's
// transitive module closure. A missing/unreadable entry point is the only
// failure that stops the pipeline before type-checking begins; every other
// error becomes a diagnostic in the returned Result and checking continues
// as far as it can, the same "collect, don't fail fast" posture the loader
// itself uses (§4.1).
func Compile(entryPoint string, opts Options) *Result {
	sess := session.New()
	diags := diagnostics.NewCollector()

	parser := opts.Parser
	if opts.Cache != nil {
		parser = cache.WrapParser(parser, opts.Cache)
	}
	ld := loader.New(parser, opts.Config)
	stageStart := time.Now()
	modules, loadDiags, err := ld.Load(entryPoint)
	mergeInto(diags, loadDiags)
	sess.Stage("load", stageStart)
	if err != nil {
		return &Result{Diagnostics: diags, Session: sess, Success: false}
	}

	stageStart = time.Now()
	resolved := resolver.Resolve(modules, diags)
	sess.Stage("resolve", stageStart)

	checker := types.NewChecker()
	checker.Exhaustive = exhaustive.Check
	desugarer := desugar.New()

	stageStart = time.Now()
	for _, path := range resolved.CompilationOrder {
		mod, ok := modules[path]
		if !ok {
			continue
		}
		prog, desugarDiags := desugarer.Desugar(mod.AST)
		mergeInto(diags, desugarDiags)
		checker.Check(prog)
	}
	mergeInto(diags, checker.Diagnostics())
	sess.Stage("typecheck", stageStart)

	return &Result{Diagnostics: diags, Session: sess, Success: !diags.HasErrors()}
}

// mergeInto copies every diagnostic from src into dst. Each compiler stage
// owns its own collector (so a stage can be unit-tested without the
// others); Compile is what stitches them into the one collector a caller
// sees.
func mergeInto(dst, src *diagnostics.Collector) {
	if src == nil {
		return
	}
	for _, d := range src.All() {
		dst.Add(d)
	}
}

// Render writes r's diagnostics to w using format (resolved against w via
// OutputFormat.Resolve). source supplies source lines for the human
// renderer's code frames; it is ignored in JSON mode.
func Render(w io.Writer, r *Result, format OutputFormat, source diagnostics.SourceLine) error {
	switch format.Resolve(w) {
	case FormatJSON:
		encoded := diagnostics.Encode(r.Diagnostics, "", r.Session.Timing())
		body, err := encoded.MarshalIndentedJSON()
		if err != nil {
			return err
		}
		_, err = w.Write(append(body, '\n'))
		return err
	default:
		renderer := diagnostics.NewRenderer(w, source)
		renderer.RenderAll(w, r.Diagnostics.SortByLocation())
		return nil
	}
}

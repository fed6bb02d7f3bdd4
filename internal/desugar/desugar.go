// Package desugar implements the Desugarer (§4.3): it lowers a Surface
// Module into a Core Program, exhaustively, preserving every original
// source location so diagnostics from later stages still point at
// user-written syntax (§3.1).
package desugar

import (
	"fmt"

	"github.com/mbcrawfo/vibefun-sub013/internal/ast"
	"github.com/mbcrawfo/vibefun-sub013/internal/core"
	"github.com/mbcrawfo/vibefun-sub013/internal/diagnostics"
)

// Desugarer holds the per-session fresh-name counters and diagnostic
// collector. Grounded on the teacher's Elaborator (internal/elaborate),
// whose nextID/freshVarNum fields and makeNode helper this mirrors;
// reworked because this Core is not ANF, so there is no separate
// normalize pass — desugarExpr does both jobs the teacher splits across
// desugar+normalize in one traversal.
type Desugarer struct {
	nextID  uint64
	counter map[string]int
	diags   *diagnostics.Collector
}

// New creates a Desugarer with a fresh diagnostic collector.
func New() *Desugarer {
	return &Desugarer{
		nextID:  1,
		counter: make(map[string]int),
		diags:   diagnostics.NewCollector(),
	}
}

// Desugar lowers an entire Surface Module into a Core Program. Type and
// external declarations pass through unchanged (§4.3 only concerns
// expressions, patterns, and blocks); `let` declarations become
// TopBindings, desugaring their values.
func (d *Desugarer) Desugar(mod *ast.Module) (*core.Program, *diagnostics.Collector) {
	prog := &core.Program{ModulePath: mod.Path}

	var recGroup []core.RecBinding
	var recPositions []ast.Pos

	flushRecGroup := func() {
		if len(recGroup) == 0 {
			return
		}
		for i, b := range recGroup {
			prog.Bindings = append(prog.Bindings, core.TopBinding{
				Name:     b.Name,
				Rec:      true,
				RecGroup: recGroup,
				Value:    b.Value,
				Pos:      recPositions[i],
			})
		}
		recGroup = nil
		recPositions = nil
	}

	for _, decl := range mod.Decls {
		switch de := decl.(type) {
		case *ast.LetDecl:
			value := d.desugarExpr(de.Value)
			if de.Rec {
				recGroup = append(recGroup, core.RecBinding{Name: de.Name, Value: value})
				recPositions = append(recPositions, de.Pos)
				continue
			}
			flushRecGroup()
			prog.Bindings = append(prog.Bindings, core.TopBinding{
				Name:     de.Name,
				Rec:      false,
				RecGroup: []core.RecBinding{{Name: de.Name, Value: value}},
				Value:    value,
				Pos:      de.Pos,
			})
		case *ast.TypeDecl:
			flushRecGroup()
			prog.Types = append(prog.Types, de)
		case *ast.ExternalDecl:
			flushRecGroup()
			prog.Externals = append(prog.Externals, de)
		case *ast.ImportDecl, *ast.ExportDecl:
			// Module wiring, resolved entirely by the loader/resolver;
			// nothing for the desugarer to lower.
		case *ast.ExprDecl:
			flushRecGroup()
			prog.Exprs = append(prog.Exprs, core.TopExpr{Value: d.desugarExpr(de.Expr), Pos: de.Pos})
		default:
			flushRecGroup()
			d.diags.AddCode(diagnostics.DesugarUnknownNode, decl.Position(), map[string]string{
				"kind": fmt.Sprintf("%T", decl),
			})
		}
	}
	flushRecGroup()

	return prog, d.diags
}

// makeNode allocates a fresh Core node identity at a surface position.
func (d *Desugarer) makeNode(pos ast.Pos) core.Node {
	id := d.nextID
	d.nextID++
	return core.Node{NodeID: id, OrigPos: pos}
}

// fresh generates a name under one of the reserved prefixes (§4.3):
// `$loop_`, `$piped_`, `$composed_`, `$tmp_`. User identifiers can never
// begin with `$`, so collisions are impossible by construction.
func (d *Desugarer) fresh(prefix string) string {
	n := d.counter[prefix]
	d.counter[prefix] = n + 1
	return fmt.Sprintf("%s%d", prefix, n)
}

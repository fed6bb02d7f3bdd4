package desugar

import (
	"github.com/mbcrawfo/vibefun-sub013/internal/ast"
	"github.com/mbcrawfo/vibefun-sub013/internal/core"
	"github.com/mbcrawfo/vibefun-sub013/internal/diagnostics"
)

// desugarPattern lowers one Surface pattern to Core (§3.3). Callers are
// responsible for running expandOrPatterns first and for stripping a
// top-level AnnotatedPattern via desugarParam — by the time a pattern
// reaches here it contains no OrPattern and no AnnotatedPattern.
func (d *Desugarer) desugarPattern(p ast.Pattern) core.Pattern {
	switch pt := p.(type) {
	case *ast.WildcardPattern:
		return &core.WildcardPattern{}

	case *ast.VarPattern:
		return &core.VarPattern{Name: pt.Name}

	case *ast.Literal:
		return &core.LitPattern{Kind: pt.Kind, Value: pt.Value}

	case *ast.VariantPattern:
		args := make([]core.Pattern, len(pt.Args))
		for i, a := range pt.Args {
			args[i] = d.desugarPattern(d.stripAnnotation(a))
		}
		return &core.ConstructorPattern{Constructor: pt.Constructor, Args: args}

	case *ast.TuplePattern:
		elems := make([]core.Pattern, len(pt.Elements))
		for i, e := range pt.Elements {
			elems[i] = d.desugarPattern(d.stripAnnotation(e))
		}
		return &core.TuplePattern{Elements: elems}

	case *ast.RecordPattern:
		fields := make([]core.RecordFieldPattern, len(pt.Fields))
		for i, f := range pt.Fields {
			fields[i] = core.RecordFieldPattern{Name: f.Name, Pattern: d.desugarPattern(d.stripAnnotation(f.Pattern))}
		}
		return &core.RecordPattern{Fields: fields}

	case *ast.ListPattern:
		return d.desugarListPattern(pt)

	case *ast.AnnotatedPattern:
		// Reached only for nested annotated patterns (inside a tuple,
		// variant argument, etc.) where there's no dedicated boundary to
		// reattach the annotation to; the annotation is discarded per
		// §3.3's general rule and the inner pattern desugars normally.
		return d.desugarPattern(pt.Inner)

	case *ast.OrPattern:
		// An or-pattern reaching desugarPattern directly means the caller
		// skipped expandOrPatterns; that is a desugarer bug, not user
		// error, but recorded rather than panicking so discovery of
		// other problems continues.
		d.diags.AddCode(diagnostics.DesugarUnknownNode, pt.Pos, map[string]string{"kind": "unexpanded or-pattern"})
		return &core.WildcardPattern{}

	default:
		d.diags.AddCode(diagnostics.DesugarUnknownNode, p.Position(), map[string]string{"kind": "pattern"})
		return &core.WildcardPattern{}
	}
}

// stripAnnotation discards a nested AnnotatedPattern's type, returning
// its inner pattern. Used for annotated patterns that appear anywhere
// other than a lambda parameter or match-case boundary (§3.3: "the
// annotation is preserved at the enclosing let / parameter / scrutinee
// boundary" — nested annotations have no such boundary to attach to).
func (d *Desugarer) stripAnnotation(p ast.Pattern) ast.Pattern {
	if ann, ok := p.(*ast.AnnotatedPattern); ok {
		return ann.Inner
	}
	return p
}

// desugarListPattern reduces a list pattern to nested Cons/Nil
// constructor patterns, with a trailing rest-binder becoming a variable
// pattern for the remaining list (§3.3).
func (d *Desugarer) desugarListPattern(lp *ast.ListPattern) core.Pattern {
	var tail core.Pattern
	if lp.Rest != nil {
		tail = &core.VarPattern{Name: lp.Rest.Name}
	} else {
		tail = &core.ConstructorPattern{Constructor: core.ListNilCtor}
	}
	for i := len(lp.Elements) - 1; i >= 0; i-- {
		elem := d.desugarPattern(d.stripAnnotation(lp.Elements[i]))
		tail = &core.ConstructorPattern{Constructor: core.ListConsCtor, Args: []core.Pattern{elem, tail}}
	}
	return tail
}

// expandOrPatterns returns the set of concrete surface-pattern
// alternatives an or-pattern (possibly nested at any depth) expands
// into, via cross-product over each nested OrPattern (§4.3:
// "or-pattern expansion runs before list-pattern desugaring"). Every
// or-pattern alternative that binds a variable is rejected with
// DesugarOrPatternBinding (§3.2: "or-patterns do not bind variables").
func (d *Desugarer) expandOrPatterns(p ast.Pattern) []ast.Pattern {
	switch pt := p.(type) {
	case *ast.OrPattern:
		var out []ast.Pattern
		for _, alt := range pt.Alternatives {
			if bound := ast.BoundVars(alt); len(bound) > 0 {
				d.diags.AddCode(diagnostics.DesugarOrPatternBinding, alt.Position(), map[string]string{
					"name": bound[0],
				})
				continue
			}
			out = append(out, d.expandOrPatterns(alt)...)
		}
		return out

	case *ast.VariantPattern:
		combos := d.crossProduct(pt.Args)
		out := make([]ast.Pattern, len(combos))
		for i, args := range combos {
			out[i] = &ast.VariantPattern{Constructor: pt.Constructor, Args: args, Pos: pt.Pos}
		}
		return out

	case *ast.TuplePattern:
		combos := d.crossProduct(pt.Elements)
		out := make([]ast.Pattern, len(combos))
		for i, elems := range combos {
			out[i] = &ast.TuplePattern{Elements: elems, Pos: pt.Pos}
		}
		return out

	case *ast.RecordPattern:
		elems := make([]ast.Pattern, len(pt.Fields))
		for i, f := range pt.Fields {
			elems[i] = f.Pattern
		}
		combos := d.crossProduct(elems)
		out := make([]ast.Pattern, len(combos))
		for i, assigned := range combos {
			fields := make([]*ast.FieldPattern, len(pt.Fields))
			for j, f := range pt.Fields {
				fields[j] = &ast.FieldPattern{Name: f.Name, Pattern: assigned[j], Pos: f.Pos}
			}
			out[i] = &ast.RecordPattern{Fields: fields, Pos: pt.Pos}
		}
		return out

	case *ast.ListPattern:
		combos := d.crossProduct(pt.Elements)
		out := make([]ast.Pattern, len(combos))
		for i, elems := range combos {
			out[i] = &ast.ListPattern{Elements: elems, Rest: pt.Rest, Pos: pt.Pos}
		}
		return out

	case *ast.AnnotatedPattern:
		inner := d.expandOrPatterns(pt.Inner)
		out := make([]ast.Pattern, len(inner))
		for i, alt := range inner {
			out[i] = &ast.AnnotatedPattern{Inner: alt, Type: pt.Type, Pos: pt.Pos}
		}
		return out

	default:
		return []ast.Pattern{p}
	}
}

// crossProduct expands every element's own or-pattern alternatives and
// returns the Cartesian product as rows, preserving element order.
func (d *Desugarer) crossProduct(elements []ast.Pattern) [][]ast.Pattern {
	if len(elements) == 0 {
		return [][]ast.Pattern{{}}
	}
	rest := d.crossProduct(elements[1:])
	first := d.expandOrPatterns(elements[0])
	out := make([][]ast.Pattern, 0, len(first)*len(rest))
	for _, f := range first {
		for _, r := range rest {
			row := make([]ast.Pattern, 0, len(r)+1)
			row = append(row, f)
			row = append(row, r...)
			out = append(out, row)
		}
	}
	return out
}

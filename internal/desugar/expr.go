package desugar

import (
	"fmt"

	"github.com/mbcrawfo/vibefun-sub013/internal/ast"
	"github.com/mbcrawfo/vibefun-sub013/internal/core"
	"github.com/mbcrawfo/vibefun-sub013/internal/diagnostics"
)

// desugarExpr lowers one Surface expression to Core (§3.3, §4.3's
// normative transformation list). Every generated node reuses the
// position of the surface construct that produced it (§3.1).
func (d *Desugarer) desugarExpr(e ast.Expr) core.Expr {
	switch ex := e.(type) {
	case *ast.Literal:
		return &core.Lit{Node: d.makeNode(ex.Pos), Kind: ex.Kind, Value: ex.Value}

	case *ast.Identifier:
		return &core.Var{Node: d.makeNode(ex.Pos), Name: ex.Name}

	case *ast.Lambda:
		return d.desugarLambda(ex)

	case *ast.Application:
		return d.desugarApplication(ex)

	case *ast.BinaryOp:
		return d.desugarBinaryOp(ex)

	case *ast.UnaryOp:
		return &core.UnOp{Node: d.makeNode(ex.Pos), Op: ex.Op, Operand: d.desugarExpr(ex.Expr)}

	case *ast.If:
		return d.desugarIf(ex)

	case *ast.Match:
		return d.desugarMatch(ex)

	case *ast.Block:
		return d.desugarBlock(ex)

	case *ast.While:
		return d.desugarWhile(ex)

	case *ast.List:
		return d.desugarList(ex)

	case *ast.Tuple:
		elems := make([]core.Expr, len(ex.Elements))
		for i, el := range ex.Elements {
			elems[i] = d.desugarExpr(el)
		}
		return &core.Tuple{Node: d.makeNode(ex.Pos), Elements: elems}

	case *ast.Record:
		return d.desugarRecord(ex)

	case *ast.RecordAccess:
		return &core.RecordAccess{
			Node:   d.makeNode(ex.Pos),
			Record: d.desugarExpr(ex.Record),
			Field:  ex.Field,
		}

	case *ast.RecordUpdate:
		fields := make([]core.RecordField, len(ex.Items))
		for i, it := range ex.Items {
			if it.Spread {
				fields[i] = core.RecordField{Spread: true, Value: d.desugarExpr(it.Value)}
			} else {
				fields[i] = core.RecordField{Name: it.Name, Value: d.desugarExpr(it.Value)}
			}
		}
		return &core.RecordUpdate{Node: d.makeNode(ex.Pos), Base: d.desugarExpr(ex.Base), Fields: fields}

	case *ast.TypeAnnotation:
		return d.desugarTypeAnnotation(ex)

	case *ast.Unsafe:
		// Code generation (out of scope, Non-goal) owns any runtime
		// semantics of `unsafe`; the desugarer elides the wrapper so the
		// type checker sees the inner expression directly.
		return d.desugarExpr(ex.Expr)

	default:
		d.diags.AddCode(diagnostics.DesugarUnknownNode, e.Position(), map[string]string{
			"kind": fmt.Sprintf("%T", e),
		})
		return &core.Lit{Node: d.makeNode(e.Position()), Kind: ast.UnitLit, Value: nil}
	}
}

// desugarLambda curries an n-ary lambda into right-nested single-param
// Core lambdas (§3.3: `(x, y) => e` → `(x) => (y) => e`).
func (d *Desugarer) desugarLambda(l *ast.Lambda) core.Expr {
	body := d.desugarExpr(l.Body)
	for i := len(l.Params) - 1; i >= 0; i-- {
		param, annot := d.desugarParam(l.Params[i].Pattern)
		body = &core.Lambda{
			Node:            d.makeNode(l.Pos),
			Param:           param,
			ParamAnnotation: annot,
			Body:            body,
		}
	}
	return body
}

// desugarParam strips an AnnotatedPattern, if present, returning the
// inner pattern plus the raw annotation type for the Lambda boundary
// (§3.3, §4.3).
func (d *Desugarer) desugarParam(p ast.Pattern) (core.Pattern, interface{}) {
	if ann, ok := p.(*ast.AnnotatedPattern); ok {
		return d.desugarPattern(ann.Inner), ann.Type
	}
	return d.desugarPattern(p), nil
}

// desugarApplication nests an n-ary call into unary Core applications
// (§3.3: `f(a, b, c)` → `((f a) b) c`). A zero-arg call becomes a single
// application against the unit literal.
func (d *Desugarer) desugarApplication(a *ast.Application) core.Expr {
	fn := d.desugarExpr(a.Func)
	if len(a.Args) == 0 {
		return &core.App{
			Node: d.makeNode(a.Pos),
			Func: fn,
			Arg:  &core.Lit{Node: d.makeNode(a.Pos), Kind: ast.UnitLit, Value: nil},
		}
	}
	result := fn
	for _, arg := range a.Args {
		result = &core.App{Node: d.makeNode(a.Pos), Func: result, Arg: d.desugarExpr(arg)}
	}
	return result
}

// desugarBinaryOp handles the pipe/composition/cons desugarings and
// passes the rest of the closed operator set straight through (§3.3).
func (d *Desugarer) desugarBinaryOp(b *ast.BinaryOp) core.Expr {
	switch b.Op {
	case ast.OpPipe:
		// x |> f  ==>  f(x)
		return &core.App{Node: d.makeNode(b.Pos), Func: d.desugarExpr(b.Right), Arg: d.desugarExpr(b.Left)}

	case ast.OpComposeFwd:
		// f >> g  ==>  (v) => g(f(v))
		return d.desugarCompose(b, b.Left, b.Right)

	case ast.OpComposeBack:
		// f << g  ==>  (v) => f(g(v)), mirrors ComposeFwd
		return d.desugarCompose(b, b.Right, b.Left)

	case ast.OpCons:
		// a :: t  ==>  Cons(a, t), ordinary constructor application
		return &core.App{
			Node: d.makeNode(b.Pos),
			Func: &core.App{
				Node: d.makeNode(b.Pos),
				Func: &core.Var{Node: d.makeNode(b.Pos), Name: core.ListConsCtor},
				Arg:  d.desugarExpr(b.Left),
			},
			Arg: d.desugarExpr(b.Right),
		}

	default:
		// Concat, RefAssign, and plain arithmetic/comparison/logical ops
		// pass through unchanged (§3.3).
		return &core.BinOp{Node: d.makeNode(b.Pos), Op: b.Op, Left: d.desugarExpr(b.Left), Right: d.desugarExpr(b.Right)}
	}
}

// desugarCompose builds `(v) => outer(inner(v))` for both composition
// directions, with a single fresh variable per call site (§4.3's
// fresh-variable discipline, `$composed_` prefix).
func (d *Desugarer) desugarCompose(b *ast.BinaryOp, inner, outer ast.Expr) core.Expr {
	v := d.fresh("$composed_")
	innerExpr := d.desugarExpr(inner)
	outerExpr := d.desugarExpr(outer)
	body := &core.App{
		Node: d.makeNode(b.Pos),
		Func: outerExpr,
		Arg: &core.App{
			Node: d.makeNode(b.Pos),
			Func: innerExpr,
			Arg:  &core.Var{Node: d.makeNode(b.Pos), Name: v},
		},
	}
	return &core.Lambda{
		Node:  d.makeNode(b.Pos),
		Param: &core.VarPattern{Name: v},
		Body:  body,
	}
}

// desugarIf lowers `if c then t else e` to a boolean Match (§3.3). The
// parser has already inserted the unit literal for a missing else.
func (d *Desugarer) desugarIf(i *ast.If) core.Expr {
	cond := d.desugarExpr(i.Cond)
	return &core.Match{
		Node:      d.makeNode(i.Pos),
		Scrutinee: cond,
		Arms: []core.MatchArm{
			{Pattern: &core.LitPattern{Kind: ast.BoolLit, Value: true}, Body: d.desugarExpr(i.Then)},
			{Pattern: &core.LitPattern{Kind: ast.BoolLit, Value: false}, Body: d.desugarExpr(i.Else)},
		},
	}
}

// desugarMatch expands any or-patterns in each case into duplicated
// arms (sharing the case's body and guard) before lowering every
// resulting pattern (§3.3, §4.3).
func (d *Desugarer) desugarMatch(m *ast.Match) core.Expr {
	scrutinee := d.desugarExpr(m.Scrutinee)
	var arms []core.MatchArm
	for _, c := range m.Cases {
		arms = append(arms, d.desugarCase(c)...)
	}
	return &core.Match{Node: d.makeNode(m.Pos), Scrutinee: scrutinee, Arms: arms}
}

func (d *Desugarer) desugarCase(c *ast.Case) []core.MatchArm {
	var guard core.Expr
	if c.Guard != nil {
		guard = d.desugarExpr(c.Guard)
	}
	body := d.desugarExpr(c.Body)

	alts := d.expandOrPatterns(c.Pattern)
	arms := make([]core.MatchArm, 0, len(alts))
	for _, alt := range alts {
		pat, annot := d.desugarParam(alt)
		arms = append(arms, core.MatchArm{
			Pattern:           pat,
			PatternAnnotation: annot,
			Guard:             guard,
			Body:              body,
		})
	}
	return arms
}

// desugarBlock lowers a sequence of let-declarations ending in a trailing
// expression into a right-nested Core `let` chain (§3.3). An empty block
// (no trailing expression) is a compile error (§4.3).
func (d *Desugarer) desugarBlock(b *ast.Block) core.Expr {
	if b.Result == nil {
		d.diags.AddCode(diagnostics.DesugarEmptyBlock, b.Pos, nil)
		return &core.Lit{Node: d.makeNode(b.Pos), Kind: ast.UnitLit, Value: nil}
	}

	body := d.desugarExpr(b.Result)

	for i := len(b.Decls) - 1; i >= 0; i-- {
		let, ok := b.Decls[i].(*ast.LetDecl)
		if !ok {
			d.diags.AddCode(diagnostics.DesugarUnknownNode, b.Decls[i].Position(), map[string]string{
				"kind": fmt.Sprintf("%T", b.Decls[i]),
			})
			continue
		}
		value := d.desugarExpr(let.Value)
		if let.Rec {
			body = &core.LetRec{
				Node:     d.makeNode(let.Pos),
				Bindings: []core.RecBinding{{Name: let.Name, Value: value}},
				Body:     body,
			}
			continue
		}
		body = &core.Let{
			Node:       d.makeNode(let.Pos),
			Name:       let.Name,
			Annotation: let.Annotation,
			Value:      value,
			Body:       body,
		}
	}
	return body
}

// desugarWhile lowers a while-loop into a letrec-bound nullary closure
// that tests the condition and tail-calls itself (§3.3):
//
//	while c { b }  ==>  let rec loop = () => match c { true => { b; loop() }; false => () } in loop()
func (d *Desugarer) desugarWhile(w *ast.While) core.Expr {
	name := d.fresh("$loop_")
	unit := func() core.Expr { return &core.Lit{Node: d.makeNode(w.Pos), Kind: ast.UnitLit, Value: nil} }
	call := func() core.Expr {
		return &core.App{Node: d.makeNode(w.Pos), Func: &core.Var{Node: d.makeNode(w.Pos), Name: name}, Arg: unit()}
	}

	trueBranch := &core.Let{
		Node:  d.makeNode(w.Pos),
		Name:  "_",
		Value: d.desugarExpr(w.Body),
		Body:  call(),
	}

	loopBody := &core.Match{
		Node:      d.makeNode(w.Pos),
		Scrutinee: d.desugarExpr(w.Cond),
		Arms: []core.MatchArm{
			{Pattern: &core.LitPattern{Kind: ast.BoolLit, Value: true}, Body: trueBranch},
			{Pattern: &core.LitPattern{Kind: ast.BoolLit, Value: false}, Body: unit()},
		},
	}

	return &core.LetRec{
		Node: d.makeNode(w.Pos),
		Bindings: []core.RecBinding{
			{Name: name, Value: &core.Lambda{Node: d.makeNode(w.Pos), Param: &core.WildcardPattern{}, Body: loopBody}},
		},
		Body: call(),
	}
}

// desugarList lowers a list literal (with optional spreads) to nested
// Cons/concat applications, right to left, so that
// `[a, ...xs, b]` becomes `Cons(a, concat(xs, Cons(b, Nil)))` (§3.3).
func (d *Desugarer) desugarList(l *ast.List) core.Expr {
	acc := core.Expr(&core.Var{Node: d.makeNode(l.Pos), Name: core.ListNilCtor})
	for i := len(l.Elements) - 1; i >= 0; i-- {
		el := l.Elements[i]
		elExpr := d.desugarExpr(el.Expr)
		ctor := core.ListConsCtor
		if el.Spread {
			ctor = "concat"
		}
		acc = &core.App{
			Node: d.makeNode(l.Pos),
			Func: &core.App{
				Node: d.makeNode(l.Pos),
				Func: &core.Var{Node: d.makeNode(l.Pos), Name: ctor},
				Arg:  elExpr,
			},
			Arg: acc,
		}
	}
	return acc
}

// desugarRecord lowers a record literal, preserving source order of
// named fields and spreads (§4.3: the desugarer's job is to produce a
// single CoreRecord node; the last-writer-wins merge is resolved by the
// type checker once concrete field sets are known, see DESIGN.md).
func (d *Desugarer) desugarRecord(r *ast.Record) core.Expr {
	fields := make([]core.RecordField, len(r.Items))
	for i, it := range r.Items {
		if it.Spread {
			fields[i] = core.RecordField{Spread: true, Value: d.desugarExpr(it.Value)}
		} else {
			fields[i] = core.RecordField{Name: it.Name, Value: d.desugarExpr(it.Value)}
		}
	}
	return &core.Record{Node: d.makeNode(r.Pos), Fields: fields}
}

// desugarTypeAnnotation lowers `(e: T)` into a `let`-bound temporary
// carrying the raw annotation, reusing Core Let's Annotation field as
// the unification-constraint boundary (§3.3, §4.3) instead of adding a
// dedicated Core node for it.
func (d *Desugarer) desugarTypeAnnotation(t *ast.TypeAnnotation) core.Expr {
	name := d.fresh("$tmp_")
	value := d.desugarExpr(t.Expr)
	return &core.Let{
		Node:       d.makeNode(t.Pos),
		Name:       name,
		Annotation: t.Type,
		Value:      value,
		Body:       &core.Var{Node: d.makeNode(t.Pos), Name: name},
	}
}

// Package core defines the Core AST: the minimal subset the desugarer
// produces and the type checker consumes (§3.3). Unlike the teacher
// (sunholo/ailang), whose Core is an A-Normal Form IR with atomicity
// constraints on every subexpression, this Core AST stays a plain desugared
// tree — spec.md's Core subset removes surface sugar (pipes, composition,
// multi-arg lambdas/applications, list literals, while, blocks, if,
// or-patterns, annotated patterns, record field shorthand) but does not
// require ANF normalization. That simplification is intentional: nothing in
// spec.md's type checker or exhaustiveness algorithm needs ANF's
// atomic-subexpression invariant.
package core

import (
	"fmt"
	"strings"

	"github.com/mbcrawfo/vibefun-sub013/internal/ast"
)

// Node carries identity and a single position: there is no separate Span
// since Core nodes have no independent position of their own — every Core node
// reuses the Pos of the surface construct that produced it (§3.1), which is
// the OrigSpan a diagnostic should report.
type Node struct {
	NodeID  uint64
	OrigPos ast.Pos
}

// Expr is the interface implemented by every Core expression node.
type Expr interface {
	ID() uint64
	Pos() ast.Pos
	String() string
	coreExpr()
}

func (n Node) ID() uint64   { return n.NodeID }
func (n Node) Pos() ast.Pos { return n.OrigPos }

// LitKind mirrors ast.LiteralKind for Core literals.
type LitKind = ast.LiteralKind

// Var is a variable reference.
type Var struct {
	Node
	Name string
}

func (v *Var) coreExpr()      {}
func (v *Var) String() string { return v.Name }

// Lit is a literal value.
type Lit struct {
	Node
	Kind  LitKind
	Value interface{}
}

func (l *Lit) coreExpr() {}
func (l *Lit) String() string {
	if l.Kind == ast.UnitLit {
		return "()"
	}
	return fmt.Sprintf("%v", l.Value)
}

// Lambda is a single-parameter function value. The parameter is a pattern —
// the type checker, not the desugarer, performs the destructuring (§4.3).
// ParamAnnotation carries the raw ast.Type from an annotated surface
// parameter pattern `(p: T)`, stripped from Param itself by the desugarer
// and reattached here as the unification constraint boundary (§3.3, §4.3);
// nil when the parameter was unannotated.
type Lambda struct {
	Node
	Param           Pattern
	ParamAnnotation interface{}
	Body            Expr
}

func (l *Lambda) coreExpr() {}
func (l *Lambda) String() string {
	return fmt.Sprintf("(%s) => %s", l.Param, l.Body)
}

// App is a unary function application.
type App struct {
	Node
	Func Expr
	Arg  Expr
}

func (a *App) coreExpr() {}
func (a *App) String() string {
	return fmt.Sprintf("(%s %s)", a.Func, a.Arg)
}

// Let is a non-recursive let binding.
type Let struct {
	Node
	Name       string
	Annotation interface{} // optional raw ast.Type, set by the desugarer; nil when unannotated
	Value      Expr
	Body       Expr
}

func (l *Let) coreExpr() {}
func (l *Let) String() string {
	return fmt.Sprintf("let %s = %s in %s", l.Name, l.Value, l.Body)
}

// RecBinding is one binding of a LetRec.
type RecBinding struct {
	Name  string
	Value Expr
}

// LetRec is a group of mutually recursive bindings.
type LetRec struct {
	Node
	Bindings []RecBinding
	Body     Expr
}

func (l *LetRec) coreExpr() {}
func (l *LetRec) String() string {
	names := make([]string, len(l.Bindings))
	for i, b := range l.Bindings {
		names[i] = b.Name
	}
	return fmt.Sprintf("let rec %s in %s", strings.Join(names, ", "), l.Body)
}

// MatchArm is one arm of a Match. PatternAnnotation mirrors
// Lambda.ParamAnnotation: the raw ast.Type from an annotated surface case
// pattern, preserved at this scrutinee-matching boundary (§3.3, §4.3);
// nil when the pattern was unannotated.
type MatchArm struct {
	Pattern           Pattern
	PatternAnnotation interface{}
	Guard             Expr // optional
	Body              Expr
}

// Match is a pattern-match expression. If-expressions lower to Match over
// Bool (§3.3); while-loops lower to a LetRec-bound nullary closure, not to
// Match.
type Match struct {
	Node
	Scrutinee  Expr
	Arms       []MatchArm
	Exhaustive bool // set by the exhaustiveness checker (§4.5)
}

func (m *Match) coreExpr() {}
func (m *Match) String() string {
	parts := make([]string, len(m.Arms))
	for i, a := range m.Arms {
		parts[i] = fmt.Sprintf("%s => %s", a.Pattern, a.Body)
	}
	return fmt.Sprintf("match %s { %s }", m.Scrutinee, strings.Join(parts, "; "))
}

// BinOp is a binary operator application. Concat and RefAssign pass
// straight through from the surface (§3.3); the rest are ordinary
// arithmetic/comparison/logical operators.
type BinOp struct {
	Node
	Op    ast.BinOp
	Left  Expr
	Right Expr
}

func (b *BinOp) coreExpr() {}
func (b *BinOp) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}

// UnOp is a unary operator application. Deref passes straight through from
// the surface (§3.3).
type UnOp struct {
	Node
	Op      ast.UnOp
	Operand Expr
}

func (u *UnOp) coreExpr() {}
func (u *UnOp) String() string {
	return fmt.Sprintf("%s%s", u.Op, u.Operand)
}

// RecordField is one entry of a Core Record in source order. Spread is
// set when Value is a full-record splice rather than a single named
// field (Name is empty in that case); the desugarer preserves source
// order rather than statically flattening spreads of unknown shape, so
// the type checker (which alone knows concrete field sets after
// inference) resolves the last-writer-wins rule (§4.3) by walking Fields
// left to right.
type RecordField struct {
	Name   string
	Value  Expr
	Spread bool
}

// Record is record construction.
type Record struct {
	Node
	Fields []RecordField
}

func (r *Record) coreExpr() {}
func (r *Record) String() string {
	parts := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		if f.Spread {
			parts[i] = "..." + f.Value.String()
		} else {
			parts[i] = fmt.Sprintf("%s: %s", f.Name, f.Value)
		}
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}

// Tuple is a fixed-arity positional product value. Not part of spec.md's
// Surface→Core elimination table, which only lists Core's *pattern* set;
// Core needs an expression counterpart since the surface grammar's
// supplemental ast.Tuple (see DESIGN.md) must lower to something a
// TuplePattern can be matched against.
type Tuple struct {
	Node
	Elements []Expr
}

func (t *Tuple) coreExpr() {}
func (t *Tuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}

// RecordAccess is field projection.
type RecordAccess struct {
	Node
	Record Expr
	Field  string
}

func (r *RecordAccess) coreExpr() {}
func (r *RecordAccess) String() string {
	return fmt.Sprintf("%s.%s", r.Record, r.Field)
}

// RecordUpdate is functional record update `{ base | field: value, ... }`.
// Not part of spec.md's Surface→Core elimination table (it isn't sugar —
// there's no closed-form rewrite to existing Core nodes without row
// knowledge the desugarer doesn't have), so it passes through as its own
// Core node; the type checker treats it like Record construction plus a
// RecordAccess-shaped constraint against Base.
type RecordUpdate struct {
	Node
	Base   Expr
	Fields []RecordField
}

func (r *RecordUpdate) coreExpr() {}
func (r *RecordUpdate) String() string {
	parts := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		if f.Spread {
			parts[i] = "..." + f.Value.String()
		} else {
			parts[i] = fmt.Sprintf("%s: %s", f.Name, f.Value)
		}
	}
	return fmt.Sprintf("{%s | %s}", r.Base, strings.Join(parts, ", "))
}

// Program is a fully desugared module: an ordered list of top-level
// bindings plus the surviving non-binding declarations (type/external),
// kept separately because they don't produce a runtime Expr.
type Program struct {
	ModulePath string
	Bindings   []TopBinding
	Types      []*ast.TypeDecl
	Externals  []*ast.ExternalDecl
	// Exprs holds bare top-level expression statements (§3.2's ExprDecl,
	// used for e.g. test declarations) — evaluated for effect/typing but
	// not bound to a name.
	Exprs []TopExpr
}

// TopExpr is one bare top-level expression statement.
type TopExpr struct {
	Value Expr
	Pos   ast.Pos
}

// TopBinding is one top-level `let` (or `let rec` group) of a Program.
type TopBinding struct {
	Name string
	Rec  bool
	// RecGroup holds the full set of sibling recursive bindings when Rec is
	// true; exactly one entry (Name itself) when Rec is false.
	RecGroup []RecBinding
	Value    Expr
	Pos      ast.Pos
}

func Pretty(p *Program) string {
	var b strings.Builder
	fmt.Fprintf(&b, "module %s {\n", p.ModulePath)
	for _, decl := range p.Bindings {
		fmt.Fprintf(&b, "  let %s = %s\n", decl.Name, decl.Value)
	}
	b.WriteString("}")
	return b.String()
}

package ast

import (
	"fmt"
	"strings"
)

// Node is the base interface implemented by every Surface AST node.
type Node interface {
	String() string
	Position() Pos
}

// Expr is any expression node.
type Expr interface {
	Node
	exprNode()
}

// Pattern is any pattern node (see ast_patterns.go).
type Pattern interface {
	Node
	patternNode()
}

// Type is any type-expression node (see ast_types.go).
type Type interface {
	Node
	typeNode()
}

// Decl is any top-level or block-local declaration (see ast_decls.go).
type Decl interface {
	Node
	declNode()
}

// LiteralKind enumerates the literal expression kinds.
type LiteralKind int

const (
	IntLit LiteralKind = iota
	FloatLit
	StringLit
	BoolLit
	UnitLit
)

func (k LiteralKind) String() string {
	switch k {
	case IntLit:
		return "Int"
	case FloatLit:
		return "Float"
	case StringLit:
		return "String"
	case BoolLit:
		return "Bool"
	case UnitLit:
		return "Unit"
	default:
		return "?"
	}
}

// Literal is a literal expression: Int, Float, String, Bool, or Unit.
type Literal struct {
	Kind  LiteralKind
	Value interface{}
	Pos   Pos
}

func (l *Literal) exprNode()      {}
func (l *Literal) patternNode()   {} // literals also appear as patterns
func (l *Literal) Position() Pos  { return l.Pos }
func (l *Literal) String() string {
	if l.Kind == UnitLit {
		return "()"
	}
	return fmt.Sprintf("%v", l.Value)
}

// Identifier is a variable reference. A capitalized Identifier used as the
// function in an Application is, by convention, a variant-constructor
// application — there is no separate "variant construction" node; the
// desugarer and type checker recognize the shape directly (§3.2).
type Identifier struct {
	Name string
	Pos  Pos
}

func (i *Identifier) exprNode()     {}
func (i *Identifier) patternNode()  {}
func (i *Identifier) Position() Pos { return i.Pos }
func (i *Identifier) String() string { return i.Name }

// IsConstructorName reports whether name follows variant-constructor
// capitalization (Pascal case, i.e. starts with an uppercase letter).
func IsConstructorName(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}

// BinOp enumerates the closed set of binary operators the Surface grammar
// admits (§3.2). Most are ordinary arithmetic/comparison/logical operators;
// Pipe, ComposeFwd, ComposeBack, Concat, Cons and RefAssign get dedicated
// desugaring or pass-through treatment (§3.3).
type BinOp string

const (
	OpAdd        BinOp = "+"
	OpSub        BinOp = "-"
	OpMul        BinOp = "*"
	OpDiv        BinOp = "/"
	OpMod        BinOp = "%"
	OpEq         BinOp = "=="
	OpNeq        BinOp = "!="
	OpLt         BinOp = "<"
	OpLte        BinOp = "<="
	OpGt         BinOp = ">"
	OpGte        BinOp = ">="
	OpAnd        BinOp = "&&"
	OpOr         BinOp = "||"
	OpPipe       BinOp = "|>"
	OpComposeFwd BinOp = ">>"
	OpComposeBack BinOp = "<<"
	OpConcat     BinOp = "&"
	OpCons       BinOp = "::"
	OpRefAssign  BinOp = ":="
)

// BinaryOp is a binary operator expression.
type BinaryOp struct {
	Left  Expr
	Op    BinOp
	Right Expr
	Pos   Pos
}

func (b *BinaryOp) exprNode()      {}
func (b *BinaryOp) Position() Pos  { return b.Pos }
func (b *BinaryOp) String() string { return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right) }

// UnOp enumerates the closed set of unary operators.
type UnOp string

const (
	OpDeref UnOp = "!"
	OpNeg   UnOp = "-"
	OpNot   UnOp = "not"
)

// UnaryOp is a unary operator expression.
type UnaryOp struct {
	Op   UnOp
	Expr Expr
	Pos  Pos
}

func (u *UnaryOp) exprNode()      {}
func (u *UnaryOp) Position() Pos  { return u.Pos }
func (u *UnaryOp) String() string { return fmt.Sprintf("(%s%s)", u.Op, u.Expr) }

// Param is one parameter of a Lambda. Parameters are patterns: the type
// checker performs the destructuring, not the desugarer (§4.3).
type Param struct {
	Pattern Pattern
	Pos     Pos
}

// Lambda is an n-ary lambda; the desugarer curries it into nested
// single-parameter Core lambdas (§3.3).
type Lambda struct {
	Params []*Param
	Body   Expr
	Pos    Pos
}

func (l *Lambda) exprNode()     {}
func (l *Lambda) Position() Pos { return l.Pos }
func (l *Lambda) String() string {
	parts := make([]string, len(l.Params))
	for i, p := range l.Params {
		parts[i] = p.Pattern.String()
	}
	return fmt.Sprintf("(%s) => %s", strings.Join(parts, ", "), l.Body)
}

// Application is an n-ary function application; the desugarer nests it into
// unary Core applications (§3.3).
type Application struct {
	Func Expr
	Args []Expr
	Pos  Pos
}

func (a *Application) exprNode()     {}
func (a *Application) Position() Pos { return a.Pos }
func (a *Application) String() string {
	parts := make([]string, len(a.Args))
	for i, arg := range a.Args {
		parts[i] = arg.String()
	}
	return fmt.Sprintf("%s(%s)", a.Func, strings.Join(parts, ", "))
}

// If is a conditional expression. The parser has already inserted a Unit
// literal for a missing else-branch (§4.3), so If is always fully formed
// here; the desugarer lowers it to a boolean Match (§3.3).
type If struct {
	Cond Expr
	Then Expr
	Else Expr
	Pos  Pos
}

func (i *If) exprNode()     {}
func (i *If) Position() Pos { return i.Pos }
func (i *If) String() string {
	return fmt.Sprintf("(if %s then %s else %s)", i.Cond, i.Then, i.Else)
}

// Case is one arm of a Match.
type Case struct {
	Pattern Pattern
	Guard   Expr // optional
	Body    Expr
	Pos     Pos
}

// Match is a pattern-match expression.
type Match struct {
	Scrutinee Expr
	Cases     []*Case
	Pos       Pos
}

func (m *Match) exprNode()     {}
func (m *Match) Position() Pos { return m.Pos }
func (m *Match) String() string {
	parts := make([]string, len(m.Cases))
	for i, c := range m.Cases {
		parts[i] = fmt.Sprintf("%s => %s", c.Pattern, c.Body)
	}
	return fmt.Sprintf("match %s { %s }", m.Scrutinee, strings.Join(parts, "; "))
}

// Block is a sequence of let-declarations followed by a trailing
// expression. An empty block is a compile error at desugar time (§4.3).
type Block struct {
	Decls  []Decl
	Result Expr
	Pos    Pos
}

func (b *Block) exprNode()     {}
func (b *Block) Position() Pos { return b.Pos }
func (b *Block) String() string {
	parts := make([]string, 0, len(b.Decls)+1)
	for _, d := range b.Decls {
		parts = append(parts, d.String())
	}
	if b.Result != nil {
		parts = append(parts, b.Result.String())
	}
	return fmt.Sprintf("{ %s }", strings.Join(parts, "; "))
}

// ListElem is one element of a list literal; Spread marks `...expr`.
type ListElem struct {
	Expr   Expr
	Spread bool
}

// List is a list literal; elements may include spreads (§3.2).
type List struct {
	Elements []ListElem
	Pos      Pos
}

func (l *List) exprNode()     {}
func (l *List) Position() Pos { return l.Pos }
func (l *List) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		if e.Spread {
			parts[i] = "..." + e.Expr.String()
		} else {
			parts[i] = e.Expr.String()
		}
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
}

// Tuple is a fixed-arity positional product value. Surface grammar in §3.2
// lists tuple *patterns* but not an explicit tuple literal syntax; this node
// supplements that gap (see DESIGN.md) so a tuple pattern has a literal
// counterpart to destructure.
type Tuple struct {
	Elements []Expr
	Pos      Pos
}

func (t *Tuple) exprNode()     {}
func (t *Tuple) Position() Pos { return t.Pos }
func (t *Tuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}

// RecordItem is one entry of a record literal or update: either a named
// field or a `...expr` spread. Later entries win on field-name shadowing
// (§3.3's last-writer-wins rule).
type RecordItem struct {
	Name   string // empty when Spread is set
	Value  Expr
	Spread bool
}

// Record is a record literal.
type Record struct {
	Items []RecordItem
	Pos   Pos
}

func (r *Record) exprNode()     {}
func (r *Record) Position() Pos { return r.Pos }
func (r *Record) String() string {
	parts := make([]string, len(r.Items))
	for i, it := range r.Items {
		if it.Spread {
			parts[i] = "..." + it.Value.String()
		} else {
			parts[i] = fmt.Sprintf("%s: %s", it.Name, it.Value)
		}
	}
	return fmt.Sprintf("{ %s }", strings.Join(parts, ", "))
}

// RecordAccess is field projection `r.field`.
type RecordAccess struct {
	Record Expr
	Field  string
	Pos    Pos
}

func (r *RecordAccess) exprNode()     {}
func (r *RecordAccess) Position() Pos { return r.Pos }
func (r *RecordAccess) String() string { return fmt.Sprintf("%s.%s", r.Record, r.Field) }

// RecordUpdate is functional record update `{ base | field: value, ... }`.
type RecordUpdate struct {
	Base  Expr
	Items []RecordItem
	Pos   Pos
}

func (r *RecordUpdate) exprNode()     {}
func (r *RecordUpdate) Position() Pos { return r.Pos }
func (r *RecordUpdate) String() string {
	parts := make([]string, len(r.Items))
	for i, it := range r.Items {
		parts[i] = fmt.Sprintf("%s: %s", it.Name, it.Value)
	}
	return fmt.Sprintf("{ %s | %s }", r.Base, strings.Join(parts, ", "))
}

// TypeAnnotation is an explicit type annotation on an expression, `(e: T)`.
type TypeAnnotation struct {
	Expr Expr
	Type Type
	Pos  Pos
}

func (t *TypeAnnotation) exprNode()     {}
func (t *TypeAnnotation) Position() Pos { return t.Pos }
func (t *TypeAnnotation) String() string { return fmt.Sprintf("(%s: %s)", t.Expr, t.Type) }

// While is a while-loop expression; it always has Unit type (§3.3).
type While struct {
	Cond Expr
	Body Expr
	Pos  Pos
}

func (w *While) exprNode()     {}
func (w *While) Position() Pos { return w.Pos }
func (w *While) String() string { return fmt.Sprintf("while %s { %s }", w.Cond, w.Body) }

// Unsafe wraps an expression in an `unsafe { ... }` block. Code generation
// (out of scope here) handles any runtime semantics; the desugarer elides
// the wrapper and lowers only the inner expression.
type Unsafe struct {
	Expr Expr
	Pos  Pos
}

func (u *Unsafe) exprNode()     {}
func (u *Unsafe) Position() Pos { return u.Pos }
func (u *Unsafe) String() string { return fmt.Sprintf("unsafe { %s }", u.Expr) }

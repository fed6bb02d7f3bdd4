package ast

import (
	"fmt"
	"strings"
)

// TypeVarExpr is a lowercase type-variable reference in a surface type
// expression, e.g. the `a` in `List<a>`.
type TypeVarExpr struct {
	Name string
	Pos  Pos
}

func (t *TypeVarExpr) typeNode()    {}
func (t *TypeVarExpr) Position() Pos { return t.Pos }
func (t *TypeVarExpr) String() string { return t.Name }

// TypeConstExpr is a Pascal-case nominal type reference, e.g. `Int` or
// `Option`.
type TypeConstExpr struct {
	Name string
	Pos  Pos
}

func (t *TypeConstExpr) typeNode()    {}
func (t *TypeConstExpr) Position() Pos { return t.Pos }
func (t *TypeConstExpr) String() string { return t.Name }

// TypeAppExpr is type application, e.g. `List<T>`.
type TypeAppExpr struct {
	Ctor Type
	Args []Type
	Pos  Pos
}

func (t *TypeAppExpr) typeNode()    {}
func (t *TypeAppExpr) Position() Pos { return t.Pos }
func (t *TypeAppExpr) String() string {
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", t.Ctor, strings.Join(parts, ", "))
}

// FuncTypeExpr is a function type `A -> B -> C`, right-associative.
type FuncTypeExpr struct {
	Param Type
	Ret   Type
	Pos   Pos
}

func (t *FuncTypeExpr) typeNode()    {}
func (t *FuncTypeExpr) Position() Pos { return t.Pos }
func (t *FuncTypeExpr) String() string { return fmt.Sprintf("(%s -> %s)", t.Param, t.Ret) }

// RecordTypeFieldExpr is one field of a RecordTypeExpr.
type RecordTypeFieldExpr struct {
	Name string
	Type Type
	Pos  Pos
}

// RecordTypeExpr is a record type expression `{ field: T, ... }`.
type RecordTypeExpr struct {
	Fields []*RecordTypeFieldExpr
	Pos    Pos
}

func (t *RecordTypeExpr) typeNode()    {}
func (t *RecordTypeExpr) Position() Pos { return t.Pos }
func (t *RecordTypeExpr) String() string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Name, f.Type)
	}
	return fmt.Sprintf("{ %s }", strings.Join(parts, ", "))
}

// UnionTypeExpr is an ad hoc sum of type expressions `A | B`, distinct from
// a declared variant type (which nominal-identifies by declaration name,
// §3.4 invariant d).
type UnionTypeExpr struct {
	Alts []Type
	Pos  Pos
}

func (t *UnionTypeExpr) typeNode()    {}
func (t *UnionTypeExpr) Position() Pos { return t.Pos }
func (t *UnionTypeExpr) String() string {
	parts := make([]string, len(t.Alts))
	for i, a := range t.Alts {
		parts[i] = a.String()
	}
	return strings.Join(parts, " | ")
}

// UnitTypeExpr is the unit type `()`.
type UnitTypeExpr struct {
	Pos Pos
}

func (t *UnitTypeExpr) typeNode()    {}
func (t *UnitTypeExpr) Position() Pos { return t.Pos }
func (t *UnitTypeExpr) String() string { return "()" }

package ast

import (
	"fmt"
	"strings"
)

// LetDecl is a `let` binding, optionally `rec` and/or `mut`, with an
// optional type annotation.
type LetDecl struct {
	Name       string
	Rec        bool
	Mut        bool
	Annotation Type // optional
	Value      Expr
	Pos        Pos
}

func (l *LetDecl) declNode()     {}
func (l *LetDecl) Position() Pos { return l.Pos }
func (l *LetDecl) String() string {
	rec := ""
	if l.Rec {
		rec = "rec "
	}
	mut := ""
	if l.Mut {
		mut = "mut "
	}
	return fmt.Sprintf("let %s%s%s = %s", rec, mut, l.Name, l.Value)
}

// TypeDef is the right-hand side of a TypeDecl: alias, record, or variant.
type TypeDef interface {
	typeDefNode()
}

// AliasDef is `type Name = T` for a plain type expression (not a sum type).
type AliasDef struct {
	Target Type
}

func (a *AliasDef) typeDefNode() {}

// RecordDef is `type Name = { field: T, ... }`.
type RecordDef struct {
	Fields []*RecordTypeFieldExpr
}

func (r *RecordDef) typeDefNode() {}

// ConstructorDef is one constructor of a VariantDef.
type ConstructorDef struct {
	Name   string
	Fields []Type
	Pos    Pos
}

// VariantDef is `type Name = Ctor1(T...) | Ctor2(T...) | ...`.
type VariantDef struct {
	Constructors []*ConstructorDef
}

func (v *VariantDef) typeDefNode() {}

// TypeDecl declares a type alias, record, or variant.
type TypeDecl struct {
	Name       string
	TypeParams []string
	Def        TypeDef
	Pos        Pos
}

func (t *TypeDecl) declNode()     {}
func (t *TypeDecl) Position() Pos { return t.Pos }
func (t *TypeDecl) String() string {
	return fmt.Sprintf("type %s", t.Name)
}

// ExternalSig is one signature of an (overloaded) external declaration.
type ExternalSig struct {
	Params []Type
	Ret    Type
	Pos    Pos
}

// ExternalDecl declares a binding implemented in JavaScript. A single
// `external` declaration has one Signature; a block-grouped family of
// overloads shares Name/JSName/From across multiple Signatures (§3.2,
// resolved by arity at call sites per §4.4.2/§8.2 S7).
type ExternalDecl struct {
	Name       string
	JSName     string
	From       string // optional source module
	Signatures []*ExternalSig
	Pos        Pos
}

func (e *ExternalDecl) declNode()     {}
func (e *ExternalDecl) Position() Pos { return e.Pos }
func (e *ExternalDecl) String() string {
	return fmt.Sprintf("external %s (%d overloads)", e.Name, len(e.Signatures))
}

// ImportDecl imports symbols from another module. TypeOnly marks
// `import type ...`, which the resolver treats as a Type-kind edge (§4.2).
// An empty Symbols list with Wildcard set is a wildcard/whole-module
// import (including re-export wildcard forms).
type ImportDecl struct {
	Path     string
	Alias    string
	Symbols  []string
	Wildcard bool
	TypeOnly bool
	Pos      Pos
}

func (i *ImportDecl) declNode()     {}
func (i *ImportDecl) Position() Pos { return i.Pos }
func (i *ImportDecl) String() string {
	if len(i.Symbols) > 0 {
		return fmt.Sprintf("import { %s } from %q", strings.Join(i.Symbols, ", "), i.Path)
	}
	return fmt.Sprintf("import %q", i.Path)
}

// ExportDecl exports local names, or re-exports (optionally wildcard) from
// another module. Re-exports are conservatively Value-kind edges for the
// resolver even when every re-exported name happens to be type-only,
// because the resolver cannot see inside the closure (§4.2).
type ExportDecl struct {
	Names        []string // named export list; empty when Wildcard re-export
	ReexportFrom string   // optional: "export ... from path"
	Wildcard     bool     // `export * from path`
	Pos          Pos
}

func (e *ExportDecl) declNode()     {}
func (e *ExportDecl) Position() Pos { return e.Pos }
func (e *ExportDecl) String() string {
	if e.Wildcard {
		return fmt.Sprintf("export * from %q", e.ReexportFrom)
	}
	return fmt.Sprintf("export { %s }", strings.Join(e.Names, ", "))
}

// ExprDecl lifts a bare expression statement (rare at module top level, used
// for e.g. test declarations) into the Decl interface.
type ExprDecl struct {
	Expr Expr
	Pos  Pos
}

func (e *ExprDecl) declNode()      {}
func (e *ExprDecl) Position() Pos  { return e.Pos }
func (e *ExprDecl) String() string { return e.Expr.String() }

// Module is a parsed source file: an ordered list of top-level
// declarations rooted at a file path (§3.2).
type Module struct {
	Path  string
	Decls []Decl
	Pos   Pos
}

func (m *Module) Position() Pos { return m.Pos }
func (m *Module) String() string {
	parts := make([]string, len(m.Decls))
	for i, d := range m.Decls {
		parts[i] = d.String()
	}
	return fmt.Sprintf("module %s {\n%s\n}", m.Path, strings.Join(parts, "\n"))
}

// Imports returns every ImportDecl at the top level of the module, in
// source order.
func (m *Module) Imports() []*ImportDecl {
	var out []*ImportDecl
	for _, d := range m.Decls {
		if imp, ok := d.(*ImportDecl); ok {
			out = append(out, imp)
		}
	}
	return out
}

// Exports returns every ExportDecl at the top level of the module, in
// source order.
func (m *Module) Exports() []*ExportDecl {
	var out []*ExportDecl
	for _, d := range m.Decls {
		if exp, ok := d.(*ExportDecl); ok {
			out = append(out, exp)
		}
	}
	return out
}

// Package types implements the Hindley-Milner type checker (§4.4): internal
// type representations, a level-based union-find unifier, and Algorithm W
// over a Core Program. Grounded on the teacher's (sunholo/ailang)
// internal/types package for the tagged-Type-interface shape and its
// TypeCheckError-by-kind error taxonomy, but diverging on the representation
// itself — the teacher's TVar is a plain named variable resolved through
// substitution maps with full row-polymorphic records and a type-class
// dictionary system; spec.md §3.4/§4.4.3 calls for numeric Var{id, level}
// cells resolved by mutating union-find links in place, nominal closed
// records with no width subtyping, and no type classes at all, so those
// parts are built fresh from the spec prose rather than adapted from the
// teacher.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the interface implemented by every internal type representation
// (§3.4). Unlike ast.Type (surface type expressions) these are the
// checker's own runtime values, since the same surface syntax `List<a>` and
// the checker's inferred type for an empty list literal must unify as the
// same Type value.
type Type interface {
	typeNode()
	String() string
}

// Var is a type variable cell. Every Var is allocated at a level equal to
// the lexical let-nesting depth at its creation (§3.4 invariant a); Link is
// nil until the variable is unified with something, at which point it is
// frozen permanently — a Var is unified exactly once (§3.6).
type Var struct {
	ID    uint64
	Level int
	Link  Type // nil until bound
}

func (v *Var) typeNode() {}
func (v *Var) String() string {
	if v.Link != nil {
		return v.Link.String()
	}
	return fmt.Sprintf("t%d", v.ID)
}

// Const is a nullary nominal type constant, e.g. Int, Float, String, Bool,
// Unit, or a user-declared nullary alias target.
type Const struct {
	Name string
}

func (c *Const) typeNode()     {}
func (c *Const) String() string { return c.Name }

// Fun is a single-parameter function type; multi-parameter surface
// functions are already curried into nested Funs by the desugarer (§4.3).
type Fun struct {
	Param Type
	Ret   Type
}

func (f *Fun) typeNode() {}
func (f *Fun) String() string {
	return fmt.Sprintf("(%s -> %s)", paren(f.Param), f.Ret)
}

func paren(t Type) string {
	if _, ok := Deref(t).(*Fun); ok {
		return "(" + t.String() + ")"
	}
	return t.String()
}

// App is application of a parameterized type constructor to argument
// types, e.g. `List<Int>` is App{Ctor: Const{"List"}, Args: [Const{"Int"}]}.
type App struct {
	Ctor Type
	Args []Type
}

func (a *App) typeNode() {}
func (a *App) String() string {
	parts := make([]string, len(a.Args))
	for i, arg := range a.Args {
		parts[i] = arg.String()
	}
	return fmt.Sprintf("%s<%s>", a.Ctor, strings.Join(parts, ", "))
}

// TupleType is a fixed-arity positional product type.
type TupleType struct {
	Elements []Type
}

func (t *TupleType) typeNode() {}
func (t *TupleType) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}

// RecordType is a closed, nominal-by-fields record type (§3.4 invariant c:
// field maps compare by name, order irrelevant). Width subtyping/row
// polymorphism is a deliberate non-goal (§4.4.3) — unification requires the
// exact same field set.
type RecordType struct {
	Fields map[string]Type
}

func (r *RecordType) typeNode() {}
func (r *RecordType) String() string {
	names := make([]string, 0, len(r.Fields))
	for n := range r.Fields {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("%s: %s", n, r.Fields[n])
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}

// VariantType is a nominal sum type; identity is TypeName (the declaration
// name), not the constructor set (§3.4 invariant d) — two variant types
// with identical constructors but different names never unify.
type VariantType struct {
	TypeName     string
	TypeArgs     []Type
	Constructors map[string][]Type // constructor name -> field types, for reference/printing
}

func (v *VariantType) typeNode() {}
func (v *VariantType) String() string {
	if len(v.TypeArgs) == 0 {
		return v.TypeName
	}
	parts := make([]string, len(v.TypeArgs))
	for i, a := range v.TypeArgs {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", v.TypeName, strings.Join(parts, ", "))
}

// Scheme is a type scheme `forall alpha*. tau` (§4.4.1); Vars holds the
// quantified Var ids (not the Vars themselves, since distinct instantiations
// must allocate distinct fresh cells every time).
type Scheme struct {
	Vars []uint64
	Type Type
}

func (s *Scheme) String() string {
	if len(s.Vars) == 0 {
		return s.Type.String()
	}
	names := make([]string, len(s.Vars))
	for i, id := range s.Vars {
		names[i] = fmt.Sprintf("t%d", id)
	}
	return fmt.Sprintf("forall %s. %s", strings.Join(names, " "), s.Type)
}

// Deref follows a Var's Link chain to its representative type, per
// unify's "dereference both sides" first step (§4.4.3). Returns its
// argument unchanged for any non-Var, or for an unbound Var.
func Deref(t Type) Type {
	for {
		v, ok := t.(*Var)
		if !ok || v.Link == nil {
			return t
		}
		t = v.Link
	}
}

// Predefined base constants (§4.4.2's "base constant type").
var (
	TInt    = &Const{Name: "Int"}
	TFloat  = &Const{Name: "Float"}
	TString = &Const{Name: "String"}
	TBool   = &Const{Name: "Bool"}
	TUnit   = &Const{Name: "Unit"}
)

// ListTypeName is the nominal name of the built-in List variant that list
// literals and list patterns lower to (§3.3); its two constructors are
// core.ListNilCtor ("Nil") and core.ListConsCtor ("Cons").
const ListTypeName = "List"

// NewListType builds the instantiated List<elem> type.
func NewListType(elem Type) *VariantType {
	return &VariantType{
		TypeName: ListTypeName,
		TypeArgs: []Type{elem},
		Constructors: map[string][]Type{
			"Nil":  nil,
			"Cons": {elem, nil}, // second field filled in by instantiation call sites
		},
	}
}

package core

import (
	"fmt"
	"strings"
)

// Pattern is the interface implemented by every Core pattern node. The Core
// pattern set is deliberately smaller than the surface one (§3.3): list
// patterns desugar to nested Cons/Nil ConstructorPatterns, or-patterns
// desugar to duplicated match arms, and annotated patterns desugar away
// entirely (a top-level annotation moves to Lambda.ParamAnnotation or
// MatchArm.PatternAnnotation; a nested one is discarded).
type Pattern interface {
	String() string
	corePattern()
}

// WildcardPattern matches anything and binds nothing.
type WildcardPattern struct{}

func (w *WildcardPattern) corePattern()      {}
func (w *WildcardPattern) String() string { return "_" }

// VarPattern matches anything and binds it to Name.
type VarPattern struct {
	Name string
}

func (v *VarPattern) corePattern()      {}
func (v *VarPattern) String() string { return v.Name }

// LitPattern matches a literal value exactly.
type LitPattern struct {
	Kind  LitKind
	Value interface{}
}

func (l *LitPattern) corePattern() {}
func (l *LitPattern) String() string {
	return fmt.Sprintf("%v", l.Value)
}

// ConstructorPattern matches a nominal variant constructor, or the builtin
// list constructors Cons/Nil (lists are not a distinct Core pattern kind —
// they're sugar over these two constructors, §3.3).
type ConstructorPattern struct {
	Constructor string
	Args        []Pattern
}

func (c *ConstructorPattern) corePattern() {}
func (c *ConstructorPattern) String() string {
	if len(c.Args) == 0 {
		return c.Constructor
	}
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Constructor, strings.Join(parts, ", "))
}

// TuplePattern destructures a tuple positionally.
type TuplePattern struct {
	Elements []Pattern
}

func (t *TuplePattern) corePattern() {}
func (t *TuplePattern) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}

// RecordFieldPattern is one field of a RecordPattern.
type RecordFieldPattern struct {
	Name    string
	Pattern Pattern
}

// RecordPattern destructures a record by field name. Fields omitted from
// the pattern are ignored (closed-record matching still only requires the
// named subset, §3.4 invariant d covers the type side of this).
type RecordPattern struct {
	Fields []RecordFieldPattern
}

func (r *RecordPattern) corePattern() {}
func (r *RecordPattern) String() string {
	parts := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Name, f.Pattern)
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}

// Nil/Cons are the canonical constructor names list sugar lowers to. Kept
// as exported constants so the desugarer, the checker's builtin List type,
// and the exhaustiveness checker all refer to the same literal strings.
const (
	ListNilCtor  = "Nil"
	ListConsCtor = "Cons"
)

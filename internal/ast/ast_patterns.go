package ast

import (
	"fmt"
	"strings"
)

// WildcardPattern matches any value and binds nothing.
type WildcardPattern struct {
	Pos Pos
}

func (w *WildcardPattern) patternNode()  {}
func (w *WildcardPattern) Position() Pos { return w.Pos }
func (w *WildcardPattern) String() string { return "_" }

// VarPattern binds the matched value to a name.
type VarPattern struct {
	Name string
	Pos  Pos
}

func (v *VarPattern) patternNode()  {}
func (v *VarPattern) Position() Pos { return v.Pos }
func (v *VarPattern) String() string { return v.Name }

// VariantPattern matches a variant constructor application.
type VariantPattern struct {
	Constructor string
	Args        []Pattern
	Pos         Pos
}

func (c *VariantPattern) patternNode()  {}
func (c *VariantPattern) Position() Pos { return c.Pos }
func (c *VariantPattern) String() string {
	if len(c.Args) == 0 {
		return c.Constructor
	}
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Constructor, strings.Join(parts, ", "))
}

// TuplePattern destructures a Tuple value.
type TuplePattern struct {
	Elements []Pattern
	Pos      Pos
}

func (t *TuplePattern) patternNode()  {}
func (t *TuplePattern) Position() Pos { return t.Pos }
func (t *TuplePattern) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}

// FieldPattern is one named field of a RecordPattern.
type FieldPattern struct {
	Name    string
	Pattern Pattern
	Pos     Pos
}

// RecordPattern destructures named record fields. Records patterns never
// admit a rest/spread entry (§3.2 — "no spread" for record patterns,
// distinguishing them from record literals).
type RecordPattern struct {
	Fields []*FieldPattern
	Pos    Pos
}

func (r *RecordPattern) patternNode()  {}
func (r *RecordPattern) Position() Pos { return r.Pos }
func (r *RecordPattern) String() string {
	parts := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Name, f.Pattern)
	}
	return fmt.Sprintf("{ %s }", strings.Join(parts, ", "))
}

// ListPattern matches a list literal shape, with at most one trailing rest
// variable capturing the remainder (§3.2). Desugars to nested
// Cons/Nil VariantPatterns (§3.3).
type ListPattern struct {
	Elements []Pattern
	Rest     *VarPattern // nil if no `...rest`
	Pos      Pos
}

func (l *ListPattern) patternNode()  {}
func (l *ListPattern) Position() Pos { return l.Pos }
func (l *ListPattern) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.String()
	}
	if l.Rest != nil {
		parts = append(parts, "..."+l.Rest.Name)
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
}

// OrPattern matches if any alternative matches. Alternatives may not bind
// variables (§3.2) — enforced by the desugarer (DSG: or-pattern binds
// variable), not by this type.
type OrPattern struct {
	Alternatives []Pattern
	Pos          Pos
}

func (o *OrPattern) patternNode()  {}
func (o *OrPattern) Position() Pos { return o.Pos }
func (o *OrPattern) String() string {
	parts := make([]string, len(o.Alternatives))
	for i, a := range o.Alternatives {
		parts[i] = a.String()
	}
	return strings.Join(parts, " | ")
}

// AnnotatedPattern is `(p: T)`. The desugarer strips the annotation from
// the pattern tree itself and attaches it at the enclosing let/parameter/
// scrutinee boundary instead, where the checker consumes it as a
// unification constraint (§3.3, §4.3).
type AnnotatedPattern struct {
	Inner Pattern
	Type  Type
	Pos   Pos
}

func (a *AnnotatedPattern) patternNode()  {}
func (a *AnnotatedPattern) Position() Pos { return a.Pos }
func (a *AnnotatedPattern) String() string {
	return fmt.Sprintf("(%s: %s)", a.Inner, a.Type)
}

// BoundVars returns the set of variable names a pattern binds, recursively.
// Used by the desugarer to reject or-pattern alternatives that bind
// variables.
func BoundVars(p Pattern) []string {
	switch pt := p.(type) {
	case *VarPattern:
		return []string{pt.Name}
	case *WildcardPattern, *Literal:
		return nil
	case *VariantPattern:
		var out []string
		for _, a := range pt.Args {
			out = append(out, BoundVars(a)...)
		}
		return out
	case *TuplePattern:
		var out []string
		for _, e := range pt.Elements {
			out = append(out, BoundVars(e)...)
		}
		return out
	case *RecordPattern:
		var out []string
		for _, f := range pt.Fields {
			out = append(out, BoundVars(f.Pattern)...)
		}
		return out
	case *ListPattern:
		var out []string
		for _, e := range pt.Elements {
			out = append(out, BoundVars(e)...)
		}
		if pt.Rest != nil {
			out = append(out, pt.Rest.Name)
		}
		return out
	case *OrPattern:
		var out []string
		for _, alt := range pt.Alternatives {
			out = append(out, BoundVars(alt)...)
		}
		return out
	case *AnnotatedPattern:
		return BoundVars(pt.Inner)
	default:
		return nil
	}
}

package types

import (
	"github.com/mbcrawfo/vibefun-sub013/internal/ast"
	"github.com/mbcrawfo/vibefun-sub013/internal/diagnostics"
)

// unify implements §4.4.3's union-find unification over the variable graph.
// It mutates Var.Link in place — a Var is unified exactly once (§3.6) — and
// reports failures through diags (composite types unify every component,
// so one call can report one diagnostic per mismatched component),
// returning whether unification succeeded (callers that need a placeholder type on failure
// substitute a fresh Var so inference can continue, §4.4.5).
func (c *Checker) unify(t1, t2 Type, pos ast.Pos) bool {
	t1, t2 = Deref(t1), Deref(t2)

	v1, ok1 := t1.(*Var)
	v2, ok2 := t2.(*Var)

	// Same variable: noop.
	if ok1 && ok2 && v1.ID == v2.ID {
		return true
	}

	if ok1 {
		return c.bindVar(v1, t2, pos)
	}
	if ok2 {
		return c.bindVar(v2, t1, pos)
	}

	switch a := t1.(type) {
	case *Const:
		b, ok := t2.(*Const)
		if !ok || a.Name != b.Name {
			c.mismatch(t1, t2, pos)
			return false
		}
		return true

	case *Fun:
		b, ok := t2.(*Fun)
		if !ok {
			c.mismatch(t1, t2, pos)
			return false
		}
		okParam := c.unify(a.Param, b.Param, pos)
		okRet := c.unify(a.Ret, b.Ret, pos)
		return okParam && okRet

	case *App:
		b, ok := t2.(*App)
		if !ok || len(a.Args) != len(b.Args) {
			c.mismatch(t1, t2, pos)
			return false
		}
		ok = c.unify(a.Ctor, b.Ctor, pos)
		for i := range a.Args {
			ok = c.unify(a.Args[i], b.Args[i], pos) && ok
		}
		return ok

	case *TupleType:
		b, ok := t2.(*TupleType)
		if !ok || len(a.Elements) != len(b.Elements) {
			c.mismatch(t1, t2, pos)
			return false
		}
		allOK := true
		for i := range a.Elements {
			allOK = c.unify(a.Elements[i], b.Elements[i], pos) && allOK
		}
		return allOK

	case *RecordType:
		b, ok := t2.(*RecordType)
		if !ok || len(a.Fields) != len(b.Fields) {
			c.mismatch(t1, t2, pos)
			return false
		}
		allOK := true
		for name, ft := range a.Fields {
			bft, ok := b.Fields[name]
			if !ok {
				c.mismatch(t1, t2, pos)
				return false
			}
			allOK = c.unify(ft, bft, pos) && allOK
		}
		return allOK

	case *VariantType:
		b, ok := t2.(*VariantType)
		if !ok || a.TypeName != b.TypeName {
			c.mismatch(t1, t2, pos)
			return false
		}
		if len(a.TypeArgs) != len(b.TypeArgs) {
			c.mismatch(t1, t2, pos)
			return false
		}
		allOK := true
		for i := range a.TypeArgs {
			allOK = c.unify(a.TypeArgs[i], b.TypeArgs[i], pos) && allOK
		}
		return allOK

	default:
		c.mismatch(t1, t2, pos)
		return false
	}
}

// bindVar links v to t after an occurs check and level adjustment
// (§4.4.3 step 3).
func (c *Checker) bindVar(v *Var, t Type, pos ast.Pos) bool {
	if occurs(v, t) {
		c.diags.AddCode(diagnostics.OccursCheck, pos, map[string]string{
			"var": v.String(), "type": t.String(),
		})
		return false
	}
	lowerLevels(t, v.Level)
	v.Link = t
	return true
}

// occurs reports whether v appears anywhere inside t (infinite-type guard).
func occurs(v *Var, t Type) bool {
	t = Deref(t)
	switch tt := t.(type) {
	case *Var:
		return tt.ID == v.ID
	case *Fun:
		return occurs(v, tt.Param) || occurs(v, tt.Ret)
	case *App:
		if occurs(v, tt.Ctor) {
			return true
		}
		for _, a := range tt.Args {
			if occurs(v, a) {
				return true
			}
		}
		return false
	case *TupleType:
		for _, e := range tt.Elements {
			if occurs(v, e) {
				return true
			}
		}
		return false
	case *RecordType:
		for _, ft := range tt.Fields {
			if occurs(v, ft) {
				return true
			}
		}
		return false
	case *VariantType:
		for _, a := range tt.TypeArgs {
			if occurs(v, a) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// lowerLevels lowers the level of every free Var inside t down to at most
// level (§4.4.3 step 3, §3.4 invariant b: "a variable's level strictly
// upper-bounds the levels of free variables in its substitution").
func lowerLevels(t Type, level int) {
	t = Deref(t)
	switch tt := t.(type) {
	case *Var:
		if tt.Level > level {
			tt.Level = level
		}
	case *Fun:
		lowerLevels(tt.Param, level)
		lowerLevels(tt.Ret, level)
	case *App:
		lowerLevels(tt.Ctor, level)
		for _, a := range tt.Args {
			lowerLevels(a, level)
		}
	case *TupleType:
		for _, e := range tt.Elements {
			lowerLevels(e, level)
		}
	case *RecordType:
		for _, ft := range tt.Fields {
			lowerLevels(ft, level)
		}
	case *VariantType:
		for _, a := range tt.TypeArgs {
			lowerLevels(a, level)
		}
	}
}

func (c *Checker) mismatch(t1, t2 Type, pos ast.Pos) {
	c.diags.AddCode(diagnostics.TypeMismatch, pos, map[string]string{
		"expected": t1.String(), "found": t2.String(),
	})
}

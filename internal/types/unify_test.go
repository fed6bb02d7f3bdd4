package types

import (
	"testing"

	"github.com/mbcrawfo/vibefun-sub013/internal/ast"
)

func pos() ast.Pos { return ast.Pos{File: "t.vf", Line: 1, Column: 1} }

func TestUnifyConstSameNameSucceeds(t *testing.T) {
	c := NewChecker()
	if ok := c.unify(TInt, TInt, pos()); !ok {
		t.Fatalf("expected Int ~ Int to unify")
	}
	if c.diags.HasErrors() {
		t.Fatalf("expected no diagnostics, got %v", c.diags.All())
	}
}

func TestUnifyConstMismatchReportsTypeMismatch(t *testing.T) {
	c := NewChecker()
	if ok := c.unify(TInt, TString, pos()); ok {
		t.Fatalf("expected Int ~ String to fail")
	}
	errs := c.diags.Errors()
	if len(errs) != 1 || errs[0].Code != "VF4001" {
		t.Fatalf("expected one VF4001 TypeMismatch, got %v", errs)
	}
}

func TestUnifyVarLinksToConcreteType(t *testing.T) {
	c := NewChecker()
	v := c.freshVar()
	if ok := c.unify(v, TBool, pos()); !ok {
		t.Fatalf("expected var ~ Bool to unify")
	}
	if Deref(v) != TBool {
		t.Fatalf("expected var to dereference to Bool, got %s", Deref(v))
	}
}

func TestUnifySameVariableIsNoop(t *testing.T) {
	c := NewChecker()
	v := c.freshVar()
	if ok := c.unify(v, v, pos()); !ok {
		t.Fatalf("expected a variable to unify with itself")
	}
	if v.Link != nil {
		t.Fatalf("expected self-unification to leave Link nil, got %s", v.Link)
	}
}

func TestUnifyOccursCheckRejectsInfiniteType(t *testing.T) {
	c := NewChecker()
	v := c.freshVar()
	fn := &Fun{Param: TInt, Ret: v}
	if ok := c.unify(v, fn, pos()); ok {
		t.Fatalf("expected v ~ (Int -> v) to fail the occurs check")
	}
	errs := c.diags.Errors()
	if len(errs) != 1 || errs[0].Code != "VF4002" {
		t.Fatalf("expected one VF4002 OccursCheck, got %v", errs)
	}
}

func TestUnifyAdjustsLevelDownward(t *testing.T) {
	c := NewChecker()
	shallow := c.freshVar() // level 0
	c.enterLevel()
	deep := c.freshVar() // level 1
	if ok := c.unify(shallow, deep, pos()); !ok {
		t.Fatalf("expected unification to succeed")
	}
	if deep.Level != 0 {
		t.Fatalf("expected deep's level lowered to 0, got %d", deep.Level)
	}
}

func TestUnifyFunParamAndReturn(t *testing.T) {
	c := NewChecker()
	a := c.freshVar()
	b := c.freshVar()
	f1 := &Fun{Param: a, Ret: TInt}
	f2 := &Fun{Param: TBool, Ret: b}
	if ok := c.unify(f1, f2, pos()); !ok {
		t.Fatalf("expected function types to unify")
	}
	if Deref(a) != TBool {
		t.Fatalf("expected a ~ Bool, got %s", Deref(a))
	}
	if Deref(b) != TInt {
		t.Fatalf("expected b ~ Int, got %s", Deref(b))
	}
}

func TestUnifyRecordRequiresSameFieldSet(t *testing.T) {
	c := NewChecker()
	r1 := &RecordType{Fields: map[string]Type{"x": TInt}}
	r2 := &RecordType{Fields: map[string]Type{"x": TInt, "y": TBool}}
	if ok := c.unify(r1, r2, pos()); ok {
		t.Fatalf("expected records with different field sets to fail (no width subtyping)")
	}
}

func TestUnifyVariantRequiresSameName(t *testing.T) {
	c := NewChecker()
	v1 := &VariantType{TypeName: "Option", Constructors: map[string][]Type{"None": nil}}
	v2 := &VariantType{TypeName: "Maybe", Constructors: map[string][]Type{"None": nil}}
	if ok := c.unify(v1, v2, pos()); ok {
		t.Fatalf("expected distinct variant names to fail even with identical constructors")
	}
}

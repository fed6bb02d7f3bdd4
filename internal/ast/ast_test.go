package ast

import "testing"

func TestLiteralString(t *testing.T) {
	lit := &Literal{Kind: IntLit, Value: 42, Pos: Pos{File: "a.vf", Line: 1, Column: 1}}
	if lit.String() != "42" {
		t.Fatalf("expected 42, got %s", lit.String())
	}
	if lit.Position().Line != 1 {
		t.Fatalf("position not preserved")
	}
}

func TestUnitLiteralString(t *testing.T) {
	lit := &Literal{Kind: UnitLit}
	if lit.String() != "()" {
		t.Fatalf("expected (), got %s", lit.String())
	}
}

func TestIsConstructorName(t *testing.T) {
	cases := map[string]bool{"Some": true, "None": true, "x": false, "": false, "fetch": false}
	for name, want := range cases {
		if got := IsConstructorName(name); got != want {
			t.Errorf("IsConstructorName(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestBoundVarsOrPatternRejectsNothingItself(t *testing.T) {
	// BoundVars itself doesn't reject - the desugarer does. It just reports.
	p := &OrPattern{Alternatives: []Pattern{
		&VariantPattern{Constructor: "Some", Args: []Pattern{&VarPattern{Name: "x"}}},
		&VariantPattern{Constructor: "Ok", Args: []Pattern{&VarPattern{Name: "x"}}},
	}}
	vars := BoundVars(p)
	if len(vars) != 2 {
		t.Fatalf("expected 2 bound vars (desugarer rejects, BoundVars just reports), got %v", vars)
	}
}

func TestListPatternString(t *testing.T) {
	p := &ListPattern{
		Elements: []Pattern{&VarPattern{Name: "a"}},
		Rest:     &VarPattern{Name: "rest"},
	}
	if p.String() != "[a, ...rest]" {
		t.Fatalf("got %s", p.String())
	}
}

func TestModuleImportsExports(t *testing.T) {
	mod := &Module{
		Path: "foo/bar",
		Decls: []Decl{
			&ImportDecl{Path: "std/list", Symbols: []string{"map"}},
			&LetDecl{Name: "x", Value: &Literal{Kind: IntLit, Value: 1}},
			&ExportDecl{Names: []string{"x"}},
		},
	}
	if len(mod.Imports()) != 1 {
		t.Fatalf("expected 1 import")
	}
	if len(mod.Exports()) != 1 {
		t.Fatalf("expected 1 export")
	}
}

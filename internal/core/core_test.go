package core

import (
	"testing"

	"github.com/mbcrawfo/vibefun-sub013/internal/ast"
)

func TestLitString(t *testing.T) {
	l := &Lit{Kind: ast.IntLit, Value: 7}
	if l.String() != "7" {
		t.Fatalf("got %s", l.String())
	}
	u := &Lit{Kind: ast.UnitLit}
	if u.String() != "()" {
		t.Fatalf("got %s", u.String())
	}
}

func TestLambdaAppString(t *testing.T) {
	body := &Var{Name: "x"}
	lam := &Lambda{Param: &VarPattern{Name: "x"}, Body: body}
	app := &App{Func: lam, Arg: &Lit{Kind: ast.IntLit, Value: 1}}
	if app.String() != "((x) => x 1)" {
		t.Fatalf("got %s", app.String())
	}
}

func TestLetRecBindingNames(t *testing.T) {
	lr := &LetRec{
		Bindings: []RecBinding{
			{Name: "even", Value: &Var{Name: "odd"}},
			{Name: "odd", Value: &Var{Name: "even"}},
		},
		Body: &Var{Name: "even"},
	}
	want := "let rec even, odd in even"
	if lr.String() != want {
		t.Fatalf("got %q want %q", lr.String(), want)
	}
}

func TestMatchExhaustiveDefaultsFalse(t *testing.T) {
	m := &Match{
		Scrutinee: &Var{Name: "x"},
		Arms: []MatchArm{
			{Pattern: &ConstructorPattern{Constructor: ListNilCtor}, Body: &Lit{Kind: ast.IntLit, Value: 0}},
		},
	}
	if m.Exhaustive {
		t.Fatalf("Exhaustive should default to false until the checker sets it")
	}
}

func TestConstructorPatternNilaryVsArity(t *testing.T) {
	nil0 := &ConstructorPattern{Constructor: ListNilCtor}
	if nil0.String() != "Nil" {
		t.Fatalf("got %s", nil0.String())
	}
	cons := &ConstructorPattern{
		Constructor: ListConsCtor,
		Args:        []Pattern{&VarPattern{Name: "h"}, &VarPattern{Name: "t"}},
	}
	if cons.String() != "Cons(h, t)" {
		t.Fatalf("got %s", cons.String())
	}
}

func TestRecordUpdateString(t *testing.T) {
	ru := &RecordUpdate{
		Base: &Var{Name: "p"},
		Fields: []RecordField{
			{Name: "x", Value: &Lit{Kind: ast.IntLit, Value: 5}},
		},
	}
	if ru.String() != "{p | x: 5}" {
		t.Fatalf("got %s", ru.String())
	}
}

func TestProgramPretty(t *testing.T) {
	p := &Program{
		ModulePath: "main",
		Bindings: []TopBinding{
			{Name: "answer", Value: &Lit{Kind: ast.IntLit, Value: 42}},
		},
	}
	out := Pretty(p)
	if out == "" {
		t.Fatal("expected non-empty pretty output")
	}
}

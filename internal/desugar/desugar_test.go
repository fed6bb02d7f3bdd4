package desugar

import (
	"testing"

	"github.com/mbcrawfo/vibefun-sub013/internal/ast"
	"github.com/mbcrawfo/vibefun-sub013/internal/core"
	"github.com/mbcrawfo/vibefun-sub013/internal/diagnostics"
)

func pos() ast.Pos { return ast.Pos{File: "t.vf", Line: 1, Column: 1} }

func ident(name string) *ast.Identifier { return &ast.Identifier{Name: name, Pos: pos()} }

func TestDesugarLambdaCurries(t *testing.T) {
	d := New()
	lam := &ast.Lambda{
		Params: []*ast.Param{
			{Pattern: &ast.VarPattern{Name: "x", Pos: pos()}},
			{Pattern: &ast.VarPattern{Name: "y", Pos: pos()}},
		},
		Body: ident("x"),
		Pos:  pos(),
	}
	got := d.desugarExpr(lam)

	outer, ok := got.(*core.Lambda)
	if !ok {
		t.Fatalf("expected outer core.Lambda, got %T", got)
	}
	if vp, ok := outer.Param.(*core.VarPattern); !ok || vp.Name != "x" {
		t.Fatalf("expected outer param x, got %#v", outer.Param)
	}
	inner, ok := outer.Body.(*core.Lambda)
	if !ok {
		t.Fatalf("expected nested core.Lambda, got %T", outer.Body)
	}
	if vp, ok := inner.Param.(*core.VarPattern); !ok || vp.Name != "y" {
		t.Fatalf("expected inner param y, got %#v", inner.Param)
	}
}

func TestDesugarApplicationNests(t *testing.T) {
	d := New()
	app := &ast.Application{
		Func: ident("f"),
		Args: []ast.Expr{ident("a"), ident("b"), ident("c")},
		Pos:  pos(),
	}
	got := d.desugarExpr(app).(*core.App)
	if v := got.Arg.(*core.Var); v.Name != "c" {
		t.Fatalf("expected outermost arg c, got %s", v.Name)
	}
	mid := got.Func.(*core.App)
	if v := mid.Arg.(*core.Var); v.Name != "b" {
		t.Fatalf("expected middle arg b, got %s", v.Name)
	}
	inner := mid.Func.(*core.App)
	if v := inner.Func.(*core.Var); v.Name != "f" {
		t.Fatalf("expected innermost func f, got %s", v.Name)
	}
	if v := inner.Arg.(*core.Var); v.Name != "a" {
		t.Fatalf("expected innermost arg a, got %s", v.Name)
	}
}

func TestDesugarZeroArgCallUsesUnit(t *testing.T) {
	d := New()
	app := &ast.Application{Func: ident("f"), Args: nil, Pos: pos()}
	got := d.desugarExpr(app).(*core.App)
	lit, ok := got.Arg.(*core.Lit)
	if !ok || lit.Kind != ast.UnitLit {
		t.Fatalf("expected unit literal argument, got %#v", got.Arg)
	}
}

func TestDesugarPipeBecomesApplication(t *testing.T) {
	d := New()
	bin := &ast.BinaryOp{Left: ident("x"), Op: ast.OpPipe, Right: ident("f"), Pos: pos()}
	got := d.desugarExpr(bin).(*core.App)
	if f := got.Func.(*core.Var); f.Name != "f" {
		t.Fatalf("expected func f, got %s", f.Name)
	}
	if a := got.Arg.(*core.Var); a.Name != "x" {
		t.Fatalf("expected arg x, got %s", a.Name)
	}
}

func TestDesugarComposeForwardBuildsLambda(t *testing.T) {
	d := New()
	bin := &ast.BinaryOp{Left: ident("f"), Op: ast.OpComposeFwd, Right: ident("g"), Pos: pos()}
	got := d.desugarExpr(bin).(*core.Lambda)
	param := got.Param.(*core.VarPattern)
	body := got.Body.(*core.App)
	outer := body.Func.(*core.Var)
	if outer.Name != "g" {
		t.Fatalf("expected outer call g, got %s", outer.Name)
	}
	inner := body.Arg.(*core.App)
	if inner.Func.(*core.Var).Name != "f" {
		t.Fatalf("expected inner call f, got %s", inner.Func.(*core.Var).Name)
	}
	if inner.Arg.(*core.Var).Name != param.Name {
		t.Fatalf("expected inner arg to reference the fresh param %s", param.Name)
	}
}

func TestDesugarIfLowersToBoolMatch(t *testing.T) {
	d := New()
	ifExpr := &ast.If{Cond: ident("c"), Then: ident("t"), Else: ident("e"), Pos: pos()}
	got := d.desugarExpr(ifExpr).(*core.Match)
	if len(got.Arms) != 2 {
		t.Fatalf("expected 2 arms, got %d", len(got.Arms))
	}
	truePat := got.Arms[0].Pattern.(*core.LitPattern)
	if truePat.Value != true {
		t.Fatalf("expected first arm to match true, got %#v", truePat.Value)
	}
	falsePat := got.Arms[1].Pattern.(*core.LitPattern)
	if falsePat.Value != false {
		t.Fatalf("expected second arm to match false, got %#v", falsePat.Value)
	}
}

func TestDesugarListLiteralWithSpread(t *testing.T) {
	d := New()
	list := &ast.List{
		Elements: []ast.ListElem{
			{Expr: ident("a")},
			{Expr: ident("xs"), Spread: true},
			{Expr: ident("b")},
		},
		Pos: pos(),
	}
	got := d.desugarExpr(list).(*core.App)
	// Cons(a, concat(xs, Cons(b, Nil)))
	consA := got.Func.(*core.App).Func.(*core.Var)
	if consA.Name != core.ListConsCtor {
		t.Fatalf("expected outermost Cons, got %s", consA.Name)
	}
	concatCall := got.Arg.(*core.App)
	concatFn := concatCall.Func.(*core.App).Func.(*core.Var)
	if concatFn.Name != "concat" {
		t.Fatalf("expected concat call, got %s", concatFn.Name)
	}
	consB := concatCall.Arg.(*core.App)
	if consB.Func.(*core.App).Func.(*core.Var).Name != core.ListConsCtor {
		t.Fatalf("expected trailing Cons(b, Nil)")
	}
}

func TestDesugarListPatternToConsNil(t *testing.T) {
	d := New()
	lp := &ast.ListPattern{
		Elements: []ast.Pattern{&ast.VarPattern{Name: "h", Pos: pos()}},
		Rest:     &ast.VarPattern{Name: "t", Pos: pos()},
		Pos:      pos(),
	}
	got := d.desugarPattern(lp).(*core.ConstructorPattern)
	if got.Constructor != core.ListConsCtor {
		t.Fatalf("expected Cons pattern, got %s", got.Constructor)
	}
	if len(got.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(got.Args))
	}
	if tail, ok := got.Args[1].(*core.VarPattern); !ok || tail.Name != "t" {
		t.Fatalf("expected rest binder t, got %#v", got.Args[1])
	}
}

func TestDesugarListPatternNoRestEndsInNil(t *testing.T) {
	d := New()
	lp := &ast.ListPattern{Elements: nil, Rest: nil, Pos: pos()}
	got := d.desugarPattern(lp).(*core.ConstructorPattern)
	if got.Constructor != core.ListNilCtor {
		t.Fatalf("expected Nil pattern for empty list pattern, got %s", got.Constructor)
	}
}

func TestDesugarOrPatternDuplicatesArms(t *testing.T) {
	d := New()
	match := &ast.Match{
		Scrutinee: ident("x"),
		Cases: []*ast.Case{
			{
				Pattern: &ast.OrPattern{
					Alternatives: []ast.Pattern{
						&ast.VariantPattern{Constructor: "A", Pos: pos()},
						&ast.VariantPattern{Constructor: "B", Pos: pos()},
					},
					Pos: pos(),
				},
				Body: ident("shared"),
				Pos:  pos(),
			},
		},
		Pos: pos(),
	}
	got := d.desugarExpr(match).(*core.Match)
	if len(got.Arms) != 2 {
		t.Fatalf("expected 2 expanded arms, got %d", len(got.Arms))
	}
	if got.Arms[0].Body != got.Arms[1].Body {
		t.Fatal("expected both arms to share the same desugared body")
	}
	names := []string{
		got.Arms[0].Pattern.(*core.ConstructorPattern).Constructor,
		got.Arms[1].Pattern.(*core.ConstructorPattern).Constructor,
	}
	if names[0] != "A" || names[1] != "B" {
		t.Fatalf("expected arms for A and B, got %v", names)
	}
}

func TestDesugarOrPatternBindingIsRejected(t *testing.T) {
	d := New()
	match := &ast.Match{
		Scrutinee: ident("x"),
		Cases: []*ast.Case{
			{
				Pattern: &ast.OrPattern{
					Alternatives: []ast.Pattern{
						&ast.VarPattern{Name: "bad", Pos: pos()},
						&ast.WildcardPattern{Pos: pos()},
					},
					Pos: pos(),
				},
				Body: ident("body"),
				Pos:  pos(),
			},
		},
		Pos: pos(),
	}
	d.desugarExpr(match)
	if !d.diags.HasErrors() {
		t.Fatal("expected DesugarOrPatternBinding error")
	}
	found := false
	for _, diag := range d.diags.Errors() {
		if diag.Code == diagnostics.DesugarOrPatternBinding {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected DesugarOrPatternBinding, got %v", d.diags.Errors())
	}
}

func TestDesugarEmptyBlockIsError(t *testing.T) {
	d := New()
	block := &ast.Block{Decls: nil, Result: nil, Pos: pos()}
	d.desugarExpr(block)
	if !d.diags.HasErrors() {
		t.Fatal("expected DesugarEmptyBlock error")
	}
}

func TestDesugarBlockNestsLets(t *testing.T) {
	d := New()
	block := &ast.Block{
		Decls: []ast.Decl{
			&ast.LetDecl{Name: "a", Value: ident("1"), Pos: pos()},
			&ast.LetDecl{Name: "b", Value: ident("2"), Pos: pos()},
		},
		Result: ident("b"),
		Pos:    pos(),
	}
	got := d.desugarExpr(block).(*core.Let)
	if got.Name != "a" {
		t.Fatalf("expected outer let to bind a, got %s", got.Name)
	}
	inner, ok := got.Body.(*core.Let)
	if !ok || inner.Name != "b" {
		t.Fatalf("expected inner let to bind b, got %#v", got.Body)
	}
}

func TestDesugarWhileBuildsLetRecLoop(t *testing.T) {
	d := New()
	while := &ast.While{Cond: ident("c"), Body: ident("b"), Pos: pos()}
	got := d.desugarExpr(while).(*core.LetRec)
	if len(got.Bindings) != 1 {
		t.Fatalf("expected a single loop binding, got %d", len(got.Bindings))
	}
	lambda, ok := got.Bindings[0].Value.(*core.Lambda)
	if !ok {
		t.Fatalf("expected loop binding to be a lambda, got %T", got.Bindings[0].Value)
	}
	if _, ok := lambda.Param.(*core.WildcardPattern); !ok {
		t.Fatalf("expected nullary (wildcard-param) loop closure, got %#v", lambda.Param)
	}
	call, ok := got.Body.(*core.App)
	if !ok || call.Func.(*core.Var).Name != got.Bindings[0].Name {
		t.Fatalf("expected while-desugar body to call the loop")
	}
}

func TestDesugarRecordPreservesSpreadOrder(t *testing.T) {
	d := New()
	rec := &ast.Record{
		Items: []ast.RecordItem{
			{Name: "x", Value: ident("1")},
			{Value: ident("other"), Spread: true},
			{Name: "y", Value: ident("2")},
		},
		Pos: pos(),
	}
	got := d.desugarExpr(rec).(*core.Record)
	if len(got.Fields) != 3 {
		t.Fatalf("expected 3 fields preserved in order, got %d", len(got.Fields))
	}
	if got.Fields[0].Name != "x" || got.Fields[0].Spread {
		t.Fatalf("expected first field x, got %#v", got.Fields[0])
	}
	if !got.Fields[1].Spread {
		t.Fatal("expected second field to be the spread")
	}
	if got.Fields[2].Name != "y" {
		t.Fatalf("expected third field y, got %#v", got.Fields[2])
	}
}

func TestDesugarTypeAnnotationBecomesLetBoundary(t *testing.T) {
	d := New()
	ann := &ast.TypeAnnotation{
		Expr: ident("x"),
		Type: &ast.TypeConstExpr{Name: "Int", Pos: pos()},
		Pos:  pos(),
	}
	got := d.desugarExpr(ann).(*core.Let)
	if got.Annotation == nil {
		t.Fatal("expected the raw annotation to be preserved on the Let node")
	}
	if v := got.Body.(*core.Var); v.Name != got.Name {
		t.Fatalf("expected body to reference the bound temp %s, got %s", got.Name, v.Name)
	}
}

func TestDesugarUnsafeElidesWrapper(t *testing.T) {
	d := New()
	got := d.desugarExpr(&ast.Unsafe{Expr: ident("x"), Pos: pos()})
	if v, ok := got.(*core.Var); !ok || v.Name != "x" {
		t.Fatalf("expected unsafe wrapper elided to inner expr, got %#v", got)
	}
}

func TestDesugarModuleTopLevelBindings(t *testing.T) {
	d := New()
	mod := &ast.Module{
		Path: "m.vf",
		Decls: []ast.Decl{
			&ast.LetDecl{Name: "a", Value: ident("1"), Pos: pos()},
			&ast.LetDecl{Name: "f", Rec: true, Value: ident("f"), Pos: pos()},
			&ast.LetDecl{Name: "g", Rec: true, Value: ident("g"), Pos: pos()},
		},
		Pos: pos(),
	}
	prog, diags := d.Desugar(mod)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
	if len(prog.Bindings) != 3 {
		t.Fatalf("expected 3 top bindings, got %d", len(prog.Bindings))
	}
	if !prog.Bindings[1].Rec || len(prog.Bindings[1].RecGroup) != 2 {
		t.Fatalf("expected f/g to form one rec group of 2, got %#v", prog.Bindings[1])
	}
}

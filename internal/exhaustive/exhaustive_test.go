package exhaustive

import (
	"testing"

	"github.com/mbcrawfo/vibefun-sub013/internal/ast"
	"github.com/mbcrawfo/vibefun-sub013/internal/core"
	"github.com/mbcrawfo/vibefun-sub013/internal/types"
)

func boolLit(v bool) *core.LitPattern { return &core.LitPattern{Kind: ast.BoolLit, Value: v} }

func TestCheckBoolBothArmsIsExhaustive(t *testing.T) {
	arms := []core.MatchArm{
		{Pattern: boolLit(true), Body: &core.Lit{Kind: ast.IntLit, Value: 1}},
		{Pattern: boolLit(false), Body: &core.Lit{Kind: ast.IntLit, Value: 0}},
	}
	exhaustive, witness, redundant := Check(arms, types.TBool, types.NewTypeEnv())
	if !exhaustive {
		t.Fatalf("expected Bool{true,false} to be exhaustive, witness=%q", witness)
	}
	if len(redundant) != 0 {
		t.Fatalf("expected no redundant arms, got %v", redundant)
	}
}

func TestCheckBoolMissingFalseReportsWitness(t *testing.T) {
	arms := []core.MatchArm{
		{Pattern: boolLit(true), Body: &core.Lit{Kind: ast.IntLit, Value: 1}},
	}
	exhaustive, witness, _ := Check(arms, types.TBool, types.NewTypeEnv())
	if exhaustive {
		t.Fatalf("expected Bool{true} alone to be non-exhaustive")
	}
	if witness != "false" {
		t.Fatalf("expected witness \"false\", got %q", witness)
	}
}

func TestCheckWildcardArmIsAlwaysExhaustive(t *testing.T) {
	arms := []core.MatchArm{
		{Pattern: &core.WildcardPattern{}, Body: &core.Lit{Kind: ast.IntLit, Value: 0}},
	}
	exhaustive, _, _ := Check(arms, types.TInt, types.NewTypeEnv())
	if !exhaustive {
		t.Fatalf("expected a wildcard arm to cover an infinite-domain type")
	}
}

func TestCheckIntWithOnlyLiteralsIsNonExhaustive(t *testing.T) {
	arms := []core.MatchArm{
		{Pattern: &core.LitPattern{Kind: ast.IntLit, Value: 0}, Body: &core.Lit{Kind: ast.IntLit, Value: 0}},
		{Pattern: &core.LitPattern{Kind: ast.IntLit, Value: 1}, Body: &core.Lit{Kind: ast.IntLit, Value: 1}},
	}
	exhaustive, witness, _ := Check(arms, types.TInt, types.NewTypeEnv())
	if exhaustive {
		t.Fatalf("expected a finite literal set over Int to be non-exhaustive")
	}
	if witness != "_" {
		t.Fatalf("expected wildcard witness for infinite domain, got %q", witness)
	}
}

func variantEnv() (*types.TypeEnv, *types.VariantType) {
	te := types.NewTypeEnv()
	vt := &types.VariantType{
		TypeName: "Option",
		Constructors: map[string][]types.Type{
			"None": nil,
			"Some": {types.TInt},
		},
	}
	te.Bind("Option", &types.TypeDecl{
		Kind:      types.TypeDeclVariant,
		Variant:   vt,
		CtorOrder: []string{"None", "Some"},
	})
	return te, vt
}

func TestCheckVariantBothConstructorsIsExhaustive(t *testing.T) {
	te, vt := variantEnv()
	arms := []core.MatchArm{
		{Pattern: &core.ConstructorPattern{Constructor: "None"}, Body: &core.Lit{Kind: ast.IntLit, Value: 0}},
		{Pattern: &core.ConstructorPattern{Constructor: "Some", Args: []core.Pattern{&core.VarPattern{Name: "x"}}}, Body: &core.Lit{Kind: ast.IntLit, Value: 1}},
	}
	exhaustive, witness, _ := Check(arms, vt, te)
	if !exhaustive {
		t.Fatalf("expected None/Some to be exhaustive, witness=%q", witness)
	}
}

func TestCheckVariantMissingSomeReportsConstructorWitness(t *testing.T) {
	te, vt := variantEnv()
	arms := []core.MatchArm{
		{Pattern: &core.ConstructorPattern{Constructor: "None"}, Body: &core.Lit{Kind: ast.IntLit, Value: 0}},
	}
	exhaustive, witness, _ := Check(arms, vt, te)
	if exhaustive {
		t.Fatalf("expected missing Some(_) to be non-exhaustive")
	}
	if witness != "Some(_)" {
		t.Fatalf("expected witness \"Some(_)\", got %q", witness)
	}
}

func TestCheckListMissingNilReportsWitness(t *testing.T) {
	te := types.NewTypeEnv()
	elem := types.TInt
	listVt := types.NewListType(elem)
	te.Bind(types.ListTypeName, &types.TypeDecl{
		Kind:      types.TypeDeclVariant,
		Params:    []string{"a"},
		Variant:   listVt,
		CtorOrder: []string{"Nil", "Cons"},
	})
	arms := []core.MatchArm{
		{
			Pattern: &core.ConstructorPattern{Constructor: "Cons", Args: []core.Pattern{&core.VarPattern{Name: "h"}, &core.VarPattern{Name: "t"}}},
			Body:    &core.Lit{Kind: ast.IntLit, Value: 1},
		},
	}
	exhaustive, witness, _ := Check(arms, listVt, te)
	if exhaustive {
		t.Fatalf("expected Cons-only match over List to be non-exhaustive")
	}
	if witness != "Nil" {
		t.Fatalf("expected witness \"Nil\", got %q", witness)
	}
}

func TestCheckListBothConstructorsIsExhaustive(t *testing.T) {
	te := types.NewTypeEnv()
	listVt := types.NewListType(types.TInt)
	te.Bind(types.ListTypeName, &types.TypeDecl{
		Kind:      types.TypeDeclVariant,
		Params:    []string{"a"},
		Variant:   listVt,
		CtorOrder: []string{"Nil", "Cons"},
	})
	arms := []core.MatchArm{
		{Pattern: &core.ConstructorPattern{Constructor: "Nil"}, Body: &core.Lit{Kind: ast.IntLit, Value: 0}},
		{
			Pattern: &core.ConstructorPattern{Constructor: "Cons", Args: []core.Pattern{&core.WildcardPattern{}, &core.WildcardPattern{}}},
			Body:    &core.Lit{Kind: ast.IntLit, Value: 1},
		},
	}
	exhaustive, witness, _ := Check(arms, listVt, te)
	if !exhaustive {
		t.Fatalf("expected Nil/Cons(_, _) to be exhaustive, witness=%q", witness)
	}
}

func TestCheckGuardedArmDoesNotCountTowardExhaustiveness(t *testing.T) {
	guard := &core.Lit{Kind: ast.BoolLit, Value: true}
	arms := []core.MatchArm{
		{Pattern: boolLit(true), Guard: guard, Body: &core.Lit{Kind: ast.IntLit, Value: 1}},
		{Pattern: boolLit(false), Body: &core.Lit{Kind: ast.IntLit, Value: 0}},
	}
	exhaustive, witness, _ := Check(arms, types.TBool, types.NewTypeEnv())
	if exhaustive {
		t.Fatalf("expected a guarded true-arm not to satisfy the true case")
	}
	if witness != "true" {
		t.Fatalf("expected witness \"true\" since the guarded arm can't be relied on, got %q", witness)
	}
}

func TestCheckRedundantWildcardAfterCatchAll(t *testing.T) {
	arms := []core.MatchArm{
		{Pattern: &core.WildcardPattern{}, Body: &core.Lit{Kind: ast.IntLit, Value: 0}},
		{Pattern: boolLit(true), Body: &core.Lit{Kind: ast.IntLit, Value: 1}},
	}
	_, _, redundant := Check(arms, types.TBool, types.NewTypeEnv())
	if len(redundant) != 1 || redundant[0] != 1 {
		t.Fatalf("expected arm 1 to be flagged redundant, got %v", redundant)
	}
}

func TestCheckRedundantAfterFullBoolEnumeration(t *testing.T) {
	arms := []core.MatchArm{
		{Pattern: boolLit(true), Body: &core.Lit{Kind: ast.IntLit, Value: 1}},
		{Pattern: boolLit(false), Body: &core.Lit{Kind: ast.IntLit, Value: 0}},
		{Pattern: &core.VarPattern{Name: "x"}, Body: &core.Lit{Kind: ast.IntLit, Value: 2}},
	}
	_, _, redundant := Check(arms, types.TBool, types.NewTypeEnv())
	if len(redundant) != 1 || redundant[0] != 2 {
		t.Fatalf("expected arm 2 to be flagged redundant after true/false enumeration, got %v", redundant)
	}
}

func TestCheckNoRedundancyWhenEachArmAddsCoverage(t *testing.T) {
	te, vt := variantEnv()
	arms := []core.MatchArm{
		{Pattern: &core.ConstructorPattern{Constructor: "None"}, Body: &core.Lit{Kind: ast.IntLit, Value: 0}},
		{Pattern: &core.ConstructorPattern{Constructor: "Some", Args: []core.Pattern{&core.VarPattern{Name: "x"}}}, Body: &core.Lit{Kind: ast.IntLit, Value: 1}},
	}
	_, _, redundant := Check(arms, vt, te)
	if len(redundant) != 0 {
		t.Fatalf("expected no redundant arms, got %v", redundant)
	}
}

func TestCheckTuplePatternExhaustiveWithWildcardElements(t *testing.T) {
	tt := &types.TupleType{Elements: []types.Type{types.TInt, types.TBool}}
	arms := []core.MatchArm{
		{
			Pattern: &core.TuplePattern{Elements: []core.Pattern{&core.WildcardPattern{}, &core.WildcardPattern{}}},
			Body:    &core.Lit{Kind: ast.IntLit, Value: 0},
		},
	}
	exhaustive, witness, _ := Check(arms, tt, types.NewTypeEnv())
	if !exhaustive {
		t.Fatalf("expected a fully-wildcard tuple pattern to be exhaustive, witness=%q", witness)
	}
}

func TestCheckTuplePatternMissingSecondElementCoverage(t *testing.T) {
	tt := &types.TupleType{Elements: []types.Type{types.TBool, types.TBool}}
	arms := []core.MatchArm{
		{
			Pattern: &core.TuplePattern{Elements: []core.Pattern{boolLit(true), boolLit(true)}},
			Body:    &core.Lit{Kind: ast.IntLit, Value: 0},
		},
	}
	exhaustive, _, _ := Check(arms, tt, types.NewTypeEnv())
	if exhaustive {
		t.Fatalf("expected (true, true) alone over (Bool, Bool) to be non-exhaustive")
	}
}

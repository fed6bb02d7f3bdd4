package resolver

import (
	"testing"

	"github.com/mbcrawfo/vibefun-sub013/internal/ast"
	"github.com/mbcrawfo/vibefun-sub013/internal/diagnostics"
	"github.com/mbcrawfo/vibefun-sub013/internal/loader"
)

func mod(path string, decls ...ast.Decl) *loader.Module {
	return &loader.Module{
		RealPath:      path,
		AST:           &ast.Module{Path: path, Decls: decls},
		ImportTargets: map[string]string{},
	}
}

func imp(path string, typeOnly bool) *ast.ImportDecl {
	return &ast.ImportDecl{Path: path, TypeOnly: typeOnly, Pos: ast.Pos{File: "x"}}
}

func TestGraphSCCsLinearNoCycle(t *testing.T) {
	g := NewGraph()
	g.AddEdge("/a", "/b", KindValue, ast.Pos{})
	g.AddEdge("/b", "/c", KindValue, ast.Pos{})
	sccs := g.SCCs()
	if len(sccs) != 3 {
		t.Fatalf("expected 3 singleton SCCs, got %d: %v", len(sccs), sccs)
	}
}

func TestGraphSCCsValueCycle(t *testing.T) {
	g := NewGraph()
	g.AddEdge("/a", "/b", KindValue, ast.Pos{})
	g.AddEdge("/b", "/a", KindValue, ast.Pos{})
	sccs := g.SCCs()
	found := false
	for _, scc := range sccs {
		if len(scc) == 2 {
			found = true
			if g.sccIsTypeOnly(scc) {
				t.Fatal("expected value cycle, got type-only")
			}
		}
	}
	if !found {
		t.Fatalf("expected a 2-node SCC, got %v", sccs)
	}
}

func TestGraphSCCsTypeOnlyCycleSilent(t *testing.T) {
	g := NewGraph()
	g.AddEdge("/a", "/b", KindType, ast.Pos{})
	g.AddEdge("/b", "/a", KindType, ast.Pos{})
	sccs := g.SCCs()
	for _, scc := range sccs {
		if len(scc) == 2 && !g.sccIsTypeOnly(scc) {
			t.Fatal("expected type-only cycle")
		}
	}
}

func TestGraphMixedEdgeCollapsesToValue(t *testing.T) {
	g := NewGraph()
	g.AddEdge("/a", "/b", KindType, ast.Pos{})
	g.AddEdge("/a", "/b", KindValue, ast.Pos{})
	edges := g.EdgesFrom("/a")
	if len(edges) != 1 || edges[0].Kind != KindValue {
		t.Fatalf("expected single collapsed Value edge, got %v", edges)
	}
}

func TestResolveValueCycleEmitsWarning(t *testing.T) {
	a := mod("/a.vf", imp("/b.vf", false))
	a.ImportTargets["/b.vf"] = "/b.vf"
	b := mod("/b.vf", imp("/a.vf", false))
	b.ImportTargets["/a.vf"] = "/a.vf"

	modules := loader.Modules{"/a.vf": a, "/b.vf": b}
	diags := diagnostics.NewCollector()
	res := Resolve(modules, diags)

	foundWarning := false
	for _, d := range diags.Warnings() {
		if d.Code == diagnostics.CircularDependency {
			foundWarning = true
		}
	}
	if !foundWarning {
		t.Fatalf("expected a CircularDependency warning, got %v", diags.All())
	}
	if len(res.CompilationOrder) != 2 {
		t.Fatalf("expected both modules in compilation order, got %v", res.CompilationOrder)
	}
}

func TestResolveTypeOnlyCycleIsSilent(t *testing.T) {
	a := mod("/a.vf", imp("/b.vf", true))
	a.ImportTargets["/b.vf"] = "/b.vf"
	b := mod("/b.vf", imp("/a.vf", true))
	b.ImportTargets["/a.vf"] = "/a.vf"

	modules := loader.Modules{"/a.vf": a, "/b.vf": b}
	diags := diagnostics.NewCollector()
	Resolve(modules, diags)

	if diags.HasErrors() || len(diags.Warnings()) != 0 {
		t.Fatalf("expected no diagnostics for a type-only cycle, got %v", diags.All())
	}
}

func TestResolveCompilationOrderRespectsDependency(t *testing.T) {
	a := mod("/a.vf", imp("/b.vf", false))
	a.ImportTargets["/b.vf"] = "/b.vf"
	b := mod("/b.vf")

	modules := loader.Modules{"/a.vf": a, "/b.vf": b}
	diags := diagnostics.NewCollector()
	res := Resolve(modules, diags)

	bIdx, aIdx := -1, -1
	for i, p := range res.CompilationOrder {
		if p == "/a.vf" {
			aIdx = i
		}
		if p == "/b.vf" {
			bIdx = i
		}
	}
	if bIdx == -1 || aIdx == -1 || bIdx > aIdx {
		t.Fatalf("expected /b.vf before /a.vf, got %v", res.CompilationOrder)
	}
}

func TestCheckImportValidityDuplicateFromDifferentModules(t *testing.T) {
	m := mod("/a.vf",
		&ast.ImportDecl{Path: "/b.vf", Symbols: []string{"foo"}, Pos: ast.Pos{File: "a", Line: 1}},
		&ast.ImportDecl{Path: "/c.vf", Symbols: []string{"foo"}, Pos: ast.Pos{File: "a", Line: 2}},
	)
	diags := diagnostics.NewCollector()
	checkImportValidity(m, loader.Modules{"/a.vf": m}, diags)
	if !diags.HasErrors() {
		t.Fatal("expected DuplicateImport error")
	}
}

func TestCheckImportValiditySameModuleDeduped(t *testing.T) {
	m := mod("/a.vf",
		&ast.ImportDecl{Path: "/b.vf", Symbols: []string{"foo"}, Pos: ast.Pos{File: "a", Line: 1}},
		&ast.ImportDecl{Path: "/b.vf", Symbols: []string{"foo"}, Pos: ast.Pos{File: "a", Line: 2}},
	)
	diags := diagnostics.NewCollector()
	checkImportValidity(m, loader.Modules{"/a.vf": m}, diags)
	if diags.HasErrors() {
		t.Fatalf("expected no error for same-module duplicate import, got %v", diags.All())
	}
}

func TestCheckImportValidityShadowedByLet(t *testing.T) {
	m := mod("/a.vf",
		&ast.ImportDecl{Path: "/b.vf", Symbols: []string{"foo"}, Pos: ast.Pos{File: "a", Line: 1}},
		&ast.LetDecl{Name: "foo", Pos: ast.Pos{File: "a", Line: 2}},
	)
	diags := diagnostics.NewCollector()
	checkImportValidity(m, loader.Modules{"/a.vf": m}, diags)
	found := false
	for _, d := range diags.Errors() {
		if d.Code == diagnostics.ImportShadowed {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ImportShadowed error, got %v", diags.All())
	}
}

func TestCheckImportValidityMissingExportIsReported(t *testing.T) {
	b := mod("/b.vf", &ast.ExportDecl{Names: []string{"bar"}, Pos: ast.Pos{File: "b"}})
	a := mod("/a.vf",
		&ast.ImportDecl{Path: "/b.vf", Symbols: []string{"foo"}, Pos: ast.Pos{File: "a", Line: 1}},
	)
	a.ImportTargets["/b.vf"] = "/b.vf"

	diags := diagnostics.NewCollector()
	checkImportValidity(a, loader.Modules{"/a.vf": a, "/b.vf": b}, diags)
	found := false
	for _, d := range diags.Errors() {
		if d.Code == diagnostics.ImportNotExported {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ImportNotExported error, got %v", diags.All())
	}
}

func TestCheckImportValidityExportedSymbolIsAccepted(t *testing.T) {
	b := mod("/b.vf", &ast.ExportDecl{Names: []string{"foo"}, Pos: ast.Pos{File: "b"}})
	a := mod("/a.vf",
		&ast.ImportDecl{Path: "/b.vf", Symbols: []string{"foo"}, Pos: ast.Pos{File: "a", Line: 1}},
	)
	a.ImportTargets["/b.vf"] = "/b.vf"

	diags := diagnostics.NewCollector()
	checkImportValidity(a, loader.Modules{"/a.vf": a, "/b.vf": b}, diags)
	if diags.HasErrors() {
		t.Fatalf("expected no error for a symbol the target actually exports, got %v", diags.All())
	}
}

func TestCheckImportValidityWildcardReexportSatisfiesImport(t *testing.T) {
	c := mod("/c.vf", &ast.ExportDecl{Names: []string{"baz"}, Pos: ast.Pos{File: "c"}})
	b := mod("/b.vf", &ast.ExportDecl{Wildcard: true, ReexportFrom: "/c.vf", Pos: ast.Pos{File: "b"}})
	b.ImportTargets["/c.vf"] = "/c.vf"
	a := mod("/a.vf",
		&ast.ImportDecl{Path: "/b.vf", Symbols: []string{"baz"}, Pos: ast.Pos{File: "a", Line: 1}},
	)
	a.ImportTargets["/b.vf"] = "/b.vf"

	diags := diagnostics.NewCollector()
	checkImportValidity(a, loader.Modules{"/a.vf": a, "/b.vf": b, "/c.vf": c}, diags)
	if diags.HasErrors() {
		t.Fatalf("expected a wildcard re-export to satisfy the import, got %v", diags.All())
	}
}

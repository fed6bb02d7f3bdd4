package resolver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mbcrawfo/vibefun-sub013/internal/ast"
	"github.com/mbcrawfo/vibefun-sub013/internal/diagnostics"
	"github.com/mbcrawfo/vibefun-sub013/internal/loader"
)

// Result is the resolver's public output (§4.2).
type Result struct {
	CompilationOrder []string
	Graph            *Graph
}

// Resolve builds the dependency graph over modules, runs Tarjan's SCC
// algorithm, classifies and reports cycles, performs the import-validity
// checks, and computes a deterministic compilation order. Diagnostics are
// appended to diags in discovery order (§5).
func Resolve(modules loader.Modules, diags *diagnostics.Collector) Result {
	g := NewGraph()

	for _, path := range modules.SortedPaths() {
		g.AddNode(path)
	}

	for _, path := range modules.SortedPaths() {
		mod := modules[path]
		checkImportValidity(mod, modules, diags)
		for _, imp := range mod.AST.Imports() {
			target, ok := mod.ImportTargets[imp.Path]
			if !ok {
				continue // loader already reported the unresolved import
			}
			kind := KindValue
			if imp.TypeOnly {
				kind = KindType
			}
			g.AddEdge(path, target, kind, imp.Pos)
		}
		for _, exp := range mod.AST.Exports() {
			if exp.ReexportFrom == "" {
				continue
			}
			target, ok := mod.ImportTargets[exp.ReexportFrom]
			if ok {
				g.AddEdge(path, target, KindValue, exp.Pos)
			}
		}
	}

	sccs := g.SCCs()
	reportCycles(g, sccs, diags)

	return Result{
		CompilationOrder: compilationOrder(g, sccs),
		Graph:            g,
	}
}

func reportCycles(g *Graph, sccs [][]string, diags *diagnostics.Collector) {
	for _, scc := range sccs {
		if !g.isCycle(scc) {
			continue
		}
		sorted := append([]string(nil), scc...)
		sort.Strings(sorted)

		if len(scc) == 1 {
			diags.AddCode(diagnostics.SelfImport, ast.Pos{File: scc[0]}, map[string]string{
				"path": scc[0],
			})
			continue
		}

		if g.sccIsTypeOnly(scc) {
			continue // silent per §4.2
		}

		cyclePath := strings.Join(append(sorted, sorted[0]), " -> ")
		diags.AddCode(diagnostics.CircularDependency, ast.Pos{File: sorted[0]}, map[string]string{
			"cycle": cyclePath,
		})
	}
}

// compilationOrder performs a topological sort over the SCC-contracted
// DAG. Ready SCCs are chosen in an order that keeps the final module
// sequence lexicographic among members with no remaining cross-SCC
// dependency, and modules within one SCC are ordered lexicographically
// by absolute path (§4.2: "reproducible builds").
func compilationOrder(g *Graph, sccs [][]string) []string {
	sccOf := make(map[string]int, len(g.nodes))
	for i, scc := range sccs {
		for _, n := range scc {
			sccOf[n] = i
		}
	}

	// Build the SCC-level dependency graph: component i depends on
	// component j if some node in i has an edge to a node in j, i != j.
	n := len(sccs)
	dependsOn := make([]map[int]bool, n)
	for i := range dependsOn {
		dependsOn[i] = make(map[int]bool)
	}
	for i, scc := range sccs {
		for _, from := range scc {
			for _, e := range g.EdgesFrom(from) {
				j := sccOf[e.To]
				if j != i {
					dependsOn[i][j] = true
				}
			}
		}
	}

	// Kahn's algorithm over components, each step picking the ready
	// component whose own lexicographically-first member sorts earliest,
	// for full determinism.
	inDegree := make([]int, n)
	dependents := make([]map[int]bool, n)
	for i := range dependents {
		dependents[i] = make(map[int]bool)
	}
	for i := 0; i < n; i++ {
		for j := range dependsOn[i] {
			inDegree[i]++
			dependents[j][i] = true
		}
	}

	sccKey := make([]string, n)
	for i, scc := range sccs {
		sorted := append([]string(nil), scc...)
		sort.Strings(sorted)
		sccKey[i] = sorted[0]
	}

	var ready []int
	for i := 0; i < n; i++ {
		if inDegree[i] == 0 {
			ready = append(ready, i)
		}
	}

	var order []string
	done := make([]bool, n)
	for len(ready) > 0 {
		sort.Slice(ready, func(a, b int) bool { return sccKey[ready[a]] < sccKey[ready[b]] })
		i := ready[0]
		ready = ready[1:]
		if done[i] {
			continue
		}
		done[i] = true

		sorted := append([]string(nil), sccs[i]...)
		sort.Strings(sorted)
		order = append(order, sorted...)

		for dep := range dependents[i] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}

	return order
}

// checkImportValidity enforces §4.2's import-validity error checks:
// a name imported twice from different modules is an error, an imported
// name shadowed by a later local `let` in the same unit is an error, and
// a named import of a symbol the target module never exports is an
// error (VF5001).
func checkImportValidity(mod *loader.Module, modules loader.Modules, diags *diagnostics.Collector) {
	type source struct {
		path string
		pos  ast.Pos
	}
	importedFrom := make(map[string]source)

	for _, imp := range mod.AST.Imports() {
		for _, name := range imp.Symbols {
			prior, seen := importedFrom[name]
			if !seen {
				importedFrom[name] = source{path: imp.Path, pos: imp.Pos}
				continue
			}
			if prior.path == imp.Path {
				continue // same module, silently deduplicated
			}
			diags.AddCode(diagnostics.DuplicateImport, imp.Pos, map[string]string{
				"name": name,
			})
		}

		if imp.Wildcard || len(imp.Symbols) == 0 {
			continue
		}
		target, ok := mod.ImportTargets[imp.Path]
		if !ok {
			continue // loader already reported the unresolved import
		}
		exported := exportedNames(modules, target, map[string]bool{})
		for _, name := range imp.Symbols {
			if !exported[name] {
				diags.AddCode(diagnostics.ImportNotExported, imp.Pos, map[string]string{
					"path": imp.Path, "name": name,
				})
			}
		}
	}

	for _, decl := range mod.AST.Decls {
		let, ok := decl.(*ast.LetDecl)
		if !ok {
			continue
		}
		if _, imported := importedFrom[let.Name]; imported {
			diags.AddCode(diagnostics.ImportShadowed, let.Pos, map[string]string{
				"name": let.Name,
			})
		}
	}
}

// exportedNames computes the set of names a module at path exports,
// following wildcard re-export chains into their target modules.
// visiting guards against a re-export cycle recursing forever; a module
// already on the path back to itself contributes no names from that
// branch (the cycle itself is reported separately by the SCC pass).
func exportedNames(modules loader.Modules, path string, visiting map[string]bool) map[string]bool {
	names := make(map[string]bool)
	mod, ok := modules[path]
	if !ok || visiting[path] {
		return names
	}
	visiting[path] = true
	defer delete(visiting, path)

	for _, exp := range mod.AST.Exports() {
		if exp.ReexportFrom == "" {
			for _, n := range exp.Names {
				names[n] = true
			}
			continue
		}
		target, ok := mod.ImportTargets[exp.ReexportFrom]
		if !ok {
			continue
		}
		if exp.Wildcard {
			for n := range exportedNames(modules, target, visiting) {
				names[n] = true
			}
			continue
		}
		for _, n := range exp.Names {
			names[n] = true
		}
	}
	return names
}

// CyclePath renders an SCC as the "A -> B -> ... -> A" string used in
// diagnostics, exported for callers (e.g. tests, the debug REPL) that
// want to reproduce the same formatting without re-running Resolve.
func CyclePath(members []string) string {
	sorted := append([]string(nil), members...)
	sort.Strings(sorted)
	return fmt.Sprintf("%s -> %s", strings.Join(sorted, " -> "), sorted[0])
}

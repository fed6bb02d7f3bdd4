package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mbcrawfo/vibefun-sub013/internal/ast"
	"github.com/mbcrawfo/vibefun-sub013/internal/config"
)

// fakeParser is a trivial Parser that extracts `import "path"` lines from
// the raw source, enough to exercise discovery without a real lexer
// (the real parser is an out-of-scope collaborator per §6.3).
type fakeParser struct{}

func (fakeParser) Parse(path string, src []byte) (*ast.Module, []error) {
	mod := &ast.Module{Path: path}
	lines := splitLines(string(src))
	for _, line := range lines {
		if target, ok := parseImportLine(line); ok {
			mod.Decls = append(mod.Decls, &ast.ImportDecl{Path: target, Pos: ast.Pos{File: path, Line: 1}})
		}
	}
	return mod, nil
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

func parseImportLine(line string) (string, bool) {
	const prefix = `import "`
	i := indexOf(line, prefix)
	if i < 0 {
		return "", false
	}
	rest := line[i+len(prefix):]
	j := indexOf(rest, `"`)
	if j < 0 {
		return "", false
	}
	return rest[:j], true
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadDiscoversRelativeImports(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "util.vf", `let id = (x) => x`)
	entry := writeFile(t, dir, "main.vf", "import \"./util\"\nlet main = id(1)")

	l := New(fakeParser{}, nil)
	mods, diags, err := l.Load(entry)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.All())
	}
	if len(mods) != 2 {
		t.Fatalf("expected 2 modules, got %d: %v", len(mods), mods.SortedPaths())
	}
}

func TestLoadMissingEntryPointIsFatal(t *testing.T) {
	l := New(fakeParser{}, nil)
	_, _, err := l.Load(filepath.Join(t.TempDir(), "missing.vf"))
	if err == nil {
		t.Fatal("expected fatal error for missing entry point")
	}
	if _, ok := err.(*EntryPointError); !ok {
		t.Fatalf("expected *EntryPointError, got %T", err)
	}
}

func TestLoadCollectsModuleNotFoundAndContinues(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.vf", "import \"./missing\"\nlet main = 1")

	l := New(fakeParser{}, nil)
	mods, diags, err := l.Load(entry)
	if err != nil {
		t.Fatalf("discovery of a missing import must not be fatal: %v", err)
	}
	if !diags.HasErrors() {
		t.Fatal("expected a ModuleNotFound diagnostic")
	}
	if len(mods) != 1 {
		t.Fatalf("expected the entry point to still load, got %d modules", len(mods))
	}
}

func TestLoadSelfImportIsError(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.vf", "import \"./main\"\nlet x = 1")

	l := New(fakeParser{}, nil)
	_, diags, err := l.Load(entry)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	found := false
	for _, d := range diags.All() {
		if d.Code == "VF5004" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a self-import diagnostic, got %v", diags.All())
	}
}

func TestCaseSensitivityMismatchIsWarningOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Util.vf", `let id = (x) => x`)
	entry := writeFile(t, dir, "main.vf", "import \"./util\"\nlet main = 1")

	l := New(fakeParser{}, nil)
	mods, diags, err := l.Load(entry)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if diags.HasErrors() {
		t.Fatalf("case mismatch must be a warning, not an error: %v", diags.Errors())
	}
	foundWarning := false
	for _, d := range diags.Warnings() {
		if d.Code == "VF5901" {
			foundWarning = true
		}
	}
	if !foundWarning {
		t.Fatal("expected a CaseSensitivityMismatch warning")
	}
	if len(mods) != 2 {
		t.Fatalf("expected both modules to still load, got %d", len(mods))
	}
}

func TestEditDistanceNearMatches(t *testing.T) {
	if editDistance("util", "util") != 0 {
		t.Fatal("identical strings should have distance 0")
	}
	if editDistance("util", "utils") != 1 {
		t.Fatalf("expected distance 1, got %d", editDistance("util", "utils"))
	}
	if got := editDistance("util", "xyzabc"); got < 3 {
		t.Fatalf("expected a larger distance, got %d", got)
	}
}

func TestResolvePathAliasUsedByLoader(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/util.vf", `let id = (x) => x`)
	entry := writeFile(t, dir, "main.vf", `import "@/util"` + "\nlet main = 1")

	cfg := &config.Config{
		CompilerOptions: config.CompilerOptions{Paths: map[string][]string{"@/*": {"./src/*"}}},
		Root:            dir,
	}
	l := New(fakeParser{}, cfg)
	mods, diags, err := l.Load(entry)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.All())
	}
	if len(mods) != 2 {
		t.Fatalf("expected alias import to resolve, got %d modules: %v", len(mods), mods.SortedPaths())
	}
}

package loader

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mbcrawfo/vibefun-sub013/internal/ast"
	"github.com/mbcrawfo/vibefun-sub013/internal/diagnostics"
)

// resolveImport implements §4.1's five-step precedence order. It returns
// the canonical real path of the resolved file.
func (l *Loader) resolveImport(importPath, fromDir string) (string, error) {
	switch {
	case strings.HasPrefix(importPath, "./") || strings.HasPrefix(importPath, "../"):
		return l.resolveFileForm(filepath.Join(fromDir, importPath), importPath)

	default:
		if l.cfg != nil {
			if templates, matched := l.cfg.ResolvePathAlias(importPath); matched {
				var lastErr error
				for _, tmpl := range templates {
					target := tmpl
					if !filepath.IsAbs(target) {
						target = filepath.Join(l.cfg.Root, target)
					}
					resolved, err := l.resolveFileForm(target, importPath)
					if err == nil {
						return resolved, nil
					}
					lastErr = err
				}
				return "", lastErr
			}
		}
		return l.resolvePackageImport(importPath, fromDir)
	}
}

// resolveFileForm applies step 4: `.vf` as-is, else `<path>.vf`, else
// `<path>/index.vf`; a trailing slash forces directory form. Step 5 (case-
// sensitivity comparison) runs only when a candidate does not exist under
// its exact casing: a case-insensitive match on disk is then used, with a
// warning. When the exact-casing lookup succeeds, as it does for any casing
// on a case-insensitive filesystem, the name is not compared against the
// directory contents and no warning is emitted.
func (l *Loader) resolveFileForm(base, importPath string) (string, error) {
	var candidates []string
	switch {
	case strings.HasSuffix(base, "/"):
		candidates = []string{filepath.Join(base, "index.vf")}
	case strings.HasSuffix(base, ".vf"):
		candidates = []string{base}
	default:
		candidates = []string{base + ".vf", filepath.Join(base, "index.vf")}
	}

	var tried []string
	for _, c := range candidates {
		tried = append(tried, c)
		match := c
		if info, err := os.Lstat(c); err != nil || info.IsDir() {
			// Exact casing didn't resolve; look for a case-insensitive match
			// on disk before giving up, per step 5.
			ci, ok := l.findCaseInsensitive(c)
			if !ok {
				continue
			}
			l.checkCaseSensitivity(ci, importPath)
			match = ci
		}
		real, rerr := filepath.EvalSymlinks(match)
		if rerr != nil {
			continue
		}
		abs, aerr := filepath.Abs(real)
		if aerr != nil {
			continue
		}
		return abs, nil
	}

	return "", &NotFoundError{
		ImportPath:  importPath,
		Tried:       tried,
		NearMatches: l.nearMatches(candidates),
	}
}

// resolvePackageImport implements step 3: bare (optionally scoped)
// package imports resolved by walking ancestor directories looking for
// node_modules/<pkg>.vf or node_modules/<pkg>/index.vf.
func (l *Loader) resolvePackageImport(importPath, fromDir string) (string, error) {
	dir := fromDir
	var tried []string
	for {
		nm := filepath.Join(dir, "node_modules", importPath)
		resolved, err := l.resolveFileForm(nm, importPath)
		if err == nil {
			return resolved, nil
		}
		if nf, ok := err.(*NotFoundError); ok {
			tried = append(tried, nf.Tried...)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", &NotFoundError{ImportPath: importPath, Tried: tried}
}

// findCaseInsensitive looks for a directory entry matching base's name
// ignoring case, returning its real path on disk. Used when the exact
// casing doesn't exist but step 5 allows a case-insensitive fallback.
func (l *Loader) findCaseInsensitive(base string) (string, bool) {
	dir := filepath.Dir(base)
	want := filepath.Base(base)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if strings.EqualFold(e.Name(), want) {
			return filepath.Join(dir, e.Name()), true
		}
	}
	return "", false
}

// checkCaseSensitivity implements step 5: the resolved file's on-disk
// casing differs from what the import string asked for, so emit a
// warning but do not fail.
func (l *Loader) checkCaseSensitivity(resolvedPath, importPath string) {
	l.diags.AddCode(diagnostics.CaseSensitivityMismatch, ast.Pos{File: resolvedPath}, map[string]string{
		"imported": importPath,
		"actual":   filepath.Base(resolvedPath),
	})
}

// nearMatches scans each candidate's parent directory for files whose
// name is within edit-distance 2 of the expected basename, for the
// "near-matches exist on disk" suggestion (§4.1).
func (l *Loader) nearMatches(candidates []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, c := range candidates {
		dir := filepath.Dir(c)
		want := filepath.Base(c)
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if editDistance(e.Name(), want) <= 2 && e.Name() != want && !seen[e.Name()] {
				seen[e.Name()] = true
				out = append(out, filepath.Join(dir, e.Name()))
			}
		}
	}
	return out
}

// editDistance is the standard Levenshtein distance, used only for
// near-match suggestions — not performance sensitive (module-not-found
// paths are cold).
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	m, n := len(ra), len(rb)
	prev := make([]int, n+1)
	cur := make([]int, n+1)
	for j := 0; j <= n; j++ {
		prev[j] = j
	}
	for i := 1; i <= m; i++ {
		cur[0] = i
		for j := 1; j <= n; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := cur[j-1] + 1
			sub := prev[j-1] + cost
			best := del
			if ins < best {
				best = ins
			}
			if sub < best {
				best = sub
			}
			cur[j] = best
		}
		prev, cur = cur, prev
	}
	return prev[n]
}

// Package config loads the optional vibefun.json project configuration
// (§6.2). It is deliberately small: a single recognized field,
// `compilerOptions.paths`, used by the loader to resolve alias imports
// before falling back to node_modules search.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const fileName = "vibefun.json"

// CompilerOptions holds the recognized nested fields of vibefun.json.
type CompilerOptions struct {
	// Paths maps an alias pattern (e.g. "@/*") to an ordered list of
	// target templates tried in order (§6.2).
	Paths map[string][]string `json:"paths"`
}

// Config is the parsed, validated contents of vibefun.json.
type Config struct {
	CompilerOptions CompilerOptions `json:"compilerOptions"`

	// Root is the directory vibefun.json was found in; path mapping
	// templates are resolved relative to it.
	Root string `json:"-"`
}

// Find walks upward from startDir looking for vibefun.json. The first
// match encountered becomes the project root (§6.2). Returns (nil, nil)
// if none is found anywhere up to the filesystem root — absence is
// silent, not an error.
func Find(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	for {
		candidate := filepath.Join(dir, fileName)
		if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
			return Load(candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Load parses vibefun.json at path. Invalid JSON is fatal (§6.2).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &InvalidConfigError{Path: path, Cause: err}
	}
	cfg.Root = filepath.Dir(path)
	return &cfg, nil
}

// InvalidConfigError reports syntactically invalid JSON in vibefun.json.
// Kept as a distinct type (rather than a bare fmt.Errorf) so the loader
// can translate it into a diagnostics.InvalidProjectConfig report without
// string-matching.
type InvalidConfigError struct {
	Path  string
	Cause error
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid project configuration %s: %v", e.Path, e.Cause)
}

func (e *InvalidConfigError) Unwrap() error { return e.Cause }

// ResolvePathAlias checks importPath against every registered alias
// pattern, first-matching-pattern / first-successful-target wins (§6.2).
// Patterns are tried in sorted order rather than map iteration order, so
// two patterns that could both match the same import path resolve the
// same way on every run (§5's determinism guarantee).
// The returned templates are the expanded, but not yet filesystem-tested,
// target paths for the matching pattern; the loader tries each in order.
func (c *Config) ResolvePathAlias(importPath string) (templates []string, matched bool) {
	if c == nil {
		return nil, false
	}
	patterns := make([]string, 0, len(c.CompilerOptions.Paths))
	for pattern := range c.CompilerOptions.Paths {
		patterns = append(patterns, pattern)
	}
	sort.Strings(patterns)

	for _, pattern := range patterns {
		suffix, ok := matchWildcard(pattern, importPath)
		if !ok {
			continue
		}
		targets := c.CompilerOptions.Paths[pattern]
		out := make([]string, 0, len(targets))
		for _, t := range targets {
			out = append(out, expandWildcard(t, suffix))
		}
		return out, true
	}
	return nil, false
}

// matchWildcard matches patterns of the form "prefix*suffix" (vibefun.json
// only ever uses the single-star "@/*" shape per §6.2, so this supports
// exactly one '*').
func matchWildcard(pattern, s string) (string, bool) {
	i := indexByte(pattern, '*')
	if i < 0 {
		if pattern == s {
			return "", true
		}
		return "", false
	}
	prefix, suffix := pattern[:i], pattern[i+1:]
	if len(s) < len(prefix)+len(suffix) {
		return "", false
	}
	if s[:len(prefix)] != prefix || s[len(s)-len(suffix):] != suffix {
		return "", false
	}
	return s[len(prefix) : len(s)-len(suffix)], true
}

func expandWildcard(template, match string) string {
	i := indexByte(template, '*')
	if i < 0 {
		return template
	}
	return template[:i] + match + template[i+1:]
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

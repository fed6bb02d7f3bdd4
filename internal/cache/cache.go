// Package cache implements a content-addressed parse cache (§11.1): a
// pure-Go SQLite database that lets the Module Loader skip re-parsing a
// file whose content hash it has already seen. It is advisory — a corrupt
// or missing cache file degrades to a cold parse, never to wrong output —
// and scoped to a single project's .vibefun directory.
package cache

import (
	"bytes"
	"database/sql"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mbcrawfo/vibefun-sub013/internal/ast"
)

const schema = `
CREATE TABLE IF NOT EXISTS parses (
	id           TEXT PRIMARY KEY,
	real_path    TEXT NOT NULL,
	content_hash BLOB NOT NULL,
	module       BLOB NOT NULL,
	UNIQUE(real_path)
);
`

// Cache wraps a SQLite-backed parse cache keyed by (real path, content
// hash). The zero value is not usable; construct with Open.
type Cache struct {
	db *sql.DB
}

// Open creates or opens the cache database at <projectRoot>/.vibefun/cache.db,
// creating the directory and schema if needed.
func Open(projectRoot string) (*Cache, error) {
	dir := filepath.Join(projectRoot, ".vibefun")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: creating %s: %w", dir, err)
	}
	db, err := sql.Open("sqlite", filepath.Join(dir, "cache.db"))
	if err != nil {
		return nil, fmt.Errorf("cache: opening database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: creating schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached module for realPath if its content hash still
// matches what was stored, or (nil, false) on any cache miss or error —
// a miss is never fatal, it just means the caller re-parses.
func (c *Cache) Get(realPath string, contentHash [32]byte) (*ast.Module, bool) {
	var blob []byte
	err := c.db.QueryRow(
		`SELECT module FROM parses WHERE real_path = ? AND content_hash = ?`,
		realPath, contentHash[:],
	).Scan(&blob)
	if err != nil {
		return nil, false
	}
	var mod ast.Module
	if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(&mod); err != nil {
		return nil, false
	}
	return &mod, true
}

// Put stores mod under (realPath, contentHash), replacing any prior entry
// for that real path. A write failure is swallowed: the cache is strictly
// an optimization, never a correctness dependency.
func (c *Cache) Put(realPath string, contentHash [32]byte, mod *ast.Module) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(mod); err != nil {
		return
	}
	_, _ = c.db.Exec(
		`INSERT OR REPLACE INTO parses (id, real_path, content_hash, module) VALUES (?, ?, ?, ?)`,
		uuid.New().String(), realPath, contentHash[:], buf.Bytes(),
	)
}

package cache

import (
	"crypto/sha256"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbcrawfo/vibefun-sub013/internal/ast"
)

func sampleModule() *ast.Module {
	return &ast.Module{
		Path: "math.vf",
		Decls: []ast.Decl{
			&ast.LetDecl{
				Name:  "one",
				Value: &ast.Literal{Kind: ast.IntLit, Value: 1, Pos: ast.Pos{File: "math.vf", Line: 1, Column: 11}},
				Pos:   ast.Pos{File: "math.vf", Line: 1, Column: 1},
			},
		},
		Pos: ast.Pos{File: "math.vf", Line: 1, Column: 1},
	}
}

func TestPutThenGetRoundTripsModule(t *testing.T) {
	c, err := Open(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	mod := sampleModule()
	hash := sha256.Sum256([]byte("let one = 1"))
	c.Put("/proj/math.vf", hash, mod)

	got, ok := c.Get("/proj/math.vf", hash)
	require.True(t, ok, "expected cache hit after Put")
	assert.Empty(t, cmp.Diff(mod, got))
}

func TestGetMissesOnDifferentContentHash(t *testing.T) {
	c, err := Open(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	c.Put("/proj/math.vf", sha256.Sum256([]byte("let one = 1")), sampleModule())

	_, ok := c.Get("/proj/math.vf", sha256.Sum256([]byte("let one = 2")))
	assert.False(t, ok, "expected a miss when content hash changed")
}

func TestGetMissesOnUnknownPath(t *testing.T) {
	c, err := Open(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	_, ok := c.Get("/proj/never-cached.vf", sha256.Sum256(nil))
	assert.False(t, ok, "expected a miss for a path never stored")
}

func TestPutReplacesPriorEntryForSamePath(t *testing.T) {
	c, err := Open(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	first := sha256.Sum256([]byte("v1"))
	second := sha256.Sum256([]byte("v2"))
	c.Put("/proj/math.vf", first, sampleModule())

	updated := sampleModule()
	updated.Decls[0].(*ast.LetDecl).Name = "two"
	c.Put("/proj/math.vf", second, updated)

	_, ok := c.Get("/proj/math.vf", first)
	assert.False(t, ok, "expected the stale hash to no longer be the live entry's key")

	got, ok := c.Get("/proj/math.vf", second)
	require.True(t, ok, "expected the replacement entry to be present")
	assert.Equal(t, "two", got.Decls[0].(*ast.LetDecl).Name)
}

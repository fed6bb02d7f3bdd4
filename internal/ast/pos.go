// Package ast defines the Surface AST: the sugar-rich tree produced by the
// parser and consumed by the desugarer.
package ast

import "fmt"

// Pos is an immutable source location. Every node in the Surface AST, and
// every node the desugarer produces in the Core AST, carries one — Core
// nodes always reuse the Pos of the surface construct that produced them so
// diagnostics point at user-written syntax, never synthesized code.
type Pos struct {
	File   string
	Line   int
	Column int
	Offset int
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// IsZero reports whether a Pos was never set.
func (p Pos) IsZero() bool {
	return p == Pos{}
}

package cache

import (
	"encoding/gob"

	"github.com/mbcrawfo/vibefun-sub013/internal/ast"
)

// init registers every concrete ast node type gob needs to round-trip a
// *ast.Module through its Expr/Pattern/Type/Decl interfaces. ast.Module
// itself is a concrete struct and needs no registration; its fields do.
func init() {
	// Literal.Value and RecordItem-style shorthand carry raw Go scalars
	// through an interface{} field; gob needs each concrete type named.
	gob.Register(int(0))
	gob.Register(float64(0))
	gob.Register("")
	gob.Register(false)

	gob.Register(&ast.Literal{})
	gob.Register(&ast.Identifier{})
	gob.Register(&ast.BinaryOp{})
	gob.Register(&ast.UnaryOp{})
	gob.Register(&ast.Lambda{})
	gob.Register(&ast.Application{})
	gob.Register(&ast.If{})
	gob.Register(&ast.Match{})
	gob.Register(&ast.Block{})
	gob.Register(&ast.List{})
	gob.Register(&ast.Tuple{})
	gob.Register(&ast.Record{})
	gob.Register(&ast.RecordAccess{})
	gob.Register(&ast.RecordUpdate{})
	gob.Register(&ast.TypeAnnotation{})
	gob.Register(&ast.While{})
	gob.Register(&ast.Unsafe{})

	gob.Register(&ast.WildcardPattern{})
	gob.Register(&ast.VarPattern{})
	gob.Register(&ast.VariantPattern{})
	gob.Register(&ast.TuplePattern{})
	gob.Register(&ast.RecordPattern{})
	gob.Register(&ast.ListPattern{})
	gob.Register(&ast.OrPattern{})
	gob.Register(&ast.AnnotatedPattern{})

	gob.Register(&ast.TypeVarExpr{})
	gob.Register(&ast.TypeConstExpr{})
	gob.Register(&ast.TypeAppExpr{})
	gob.Register(&ast.FuncTypeExpr{})
	gob.Register(&ast.RecordTypeExpr{})
	gob.Register(&ast.UnionTypeExpr{})
	gob.Register(&ast.UnitTypeExpr{})

	gob.Register(&ast.LetDecl{})
	gob.Register(&ast.TypeDecl{})
	gob.Register(&ast.ExternalDecl{})
	gob.Register(&ast.ImportDecl{})
	gob.Register(&ast.ExportDecl{})
	gob.Register(&ast.ExprDecl{})

	gob.Register(&ast.AliasDef{})
	gob.Register(&ast.RecordDef{})
	gob.Register(&ast.VariantDef{})
}

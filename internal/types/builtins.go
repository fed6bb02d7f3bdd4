package types

// RefTypeName is the nominal name of the single-field mutable cell type
// that `ref(v)`, `!r`, and `r := v` operate over (§3.3's table: "!ref and
// ref := v pass through as CoreUnaryOp.Deref / CoreBinOp.RefAssign").
// Vibefun has no user-visible Ref declaration — it is wired in here exactly
// like the teacher wires its builtin Option/Result constructors into
// NewTypeEnvWithBuiltins, just with an App-shaped representation instead of
// a declared variant, since Ref has no constructors to pattern-match.
const RefTypeName = "Ref"

// NewRefType builds the instantiated Ref<elem> type.
func NewRefType(elem Type) *App {
	return &App{Ctor: &Const{Name: RefTypeName}, Args: []Type{elem}}
}

// installBuiltins wires the built-in List variant (with its Nil/Cons
// constructors, the target of every list literal and list pattern after
// desugaring, §3.3) and the polymorphic `ref` constructor function into a
// fresh Checker.
func installBuiltins(c *Checker) {
	elemParam := "a"
	nilType := func() *VariantType { return NewListType(&Const{Name: elemParam}) }

	listCtors := map[string][]Type{
		"Nil":  nil,
		"Cons": {&Const{Name: elemParam}, nilType()},
	}
	c.typeEnv.Bind(ListTypeName, &TypeDecl{
		Kind:      TypeDeclVariant,
		Params:    []string{elemParam},
		Variant:   &VariantType{TypeName: ListTypeName, TypeArgs: []Type{&Const{Name: elemParam}}, Constructors: listCtors},
		CtorOrder: []string{"Nil", "Cons"},
	})

	nilScheme := c.schemeOverParamNames(nilType(), []string{elemParam})
	c.env.Bind("Nil", nilScheme)

	consFn := &Fun{Param: &Const{Name: elemParam}, Ret: &Fun{Param: nilType(), Ret: nilType()}}
	consScheme := c.schemeOverParamNames(consFn, []string{elemParam})
	c.env.Bind("Cons", consScheme)

	refFn := &Fun{Param: &Const{Name: elemParam}, Ret: &App{Ctor: &Const{Name: RefTypeName}, Args: []Type{&Const{Name: elemParam}}}}
	refScheme := c.schemeOverParamNames(refFn, []string{elemParam})
	c.env.Bind("ref", refScheme)
}

package types

import (
	"github.com/mbcrawfo/vibefun-sub013/internal/ast"
	"github.com/mbcrawfo/vibefun-sub013/internal/core"
	"github.com/mbcrawfo/vibefun-sub013/internal/diagnostics"
)

// ExhaustivenessFunc decides whether arms cover every value of subject and,
// if not, supplies a human-readable witness. Checker depends on this as a
// function value rather than importing internal/exhaustive directly, so the
// two packages don't form an import cycle (the exhaustiveness checker in
// turn needs the type-name environment to enumerate constructors).
type ExhaustivenessFunc func(arms []core.MatchArm, subject Type, typeEnv *TypeEnv) (exhaustive bool, witness string, redundantArms []int)

// Checker runs Algorithm W (§4.4.2) over a Core Program. One Checker
// processes one compilation session: its union-find substitution is
// session-global and mutated monotonically (§5).
type Checker struct {
	env       *Env
	typeEnv   *TypeEnv
	level     int
	nextVarID uint64
	diags     *diagnostics.Collector

	// Exhaustive, if set, is invoked once per Match (§4.4.2's "after all
	// cases, invoke exhaustiveness checking"). Left nil in unit tests that
	// only exercise unification/generalization.
	Exhaustive ExhaustivenessFunc
}

// NewChecker returns a Checker with builtin bindings installed (§4.4.1).
func NewChecker() *Checker {
	c := &Checker{
		env:     NewEnv(),
		typeEnv: NewTypeEnv(),
		level:   0,
		diags:   diagnostics.NewCollector(),
	}
	installBuiltins(c)
	return c
}

// Diagnostics returns the collector accumulated across Check.
func (c *Checker) Diagnostics() *diagnostics.Collector { return c.diags }

// LookupScheme returns the generalized scheme bound to name, if any — the
// same lookup Check itself uses for Variable inference, exposed so tools
// outside this package (the debug REPL) can report what a top-level
// binding's type turned out to be after Check runs.
func (c *Checker) LookupScheme(name string) (*Scheme, bool) {
	b, ok := c.env.Lookup(name)
	if !ok || b.Scheme == nil {
		return nil, false
	}
	return b.Scheme, true
}

// InferExpr infers and returns the type of a single Core expression
// without generalizing or binding it — used by the debug REPL to report
// the type of a bare expression that isn't a top-level `let`.
func (c *Checker) InferExpr(e core.Expr) Type {
	return Deref(c.inferExpr(e))
}

// freshVar allocates a new type variable at the current level.
func (c *Checker) freshVar() *Var {
	c.nextVarID++
	return &Var{ID: c.nextVarID, Level: c.level}
}

// enterLevel/exitLevel bracket a `let`'s right-hand side (§4.4.2).
func (c *Checker) enterLevel() { c.level++ }
func (c *Checker) exitLevel()  { c.level-- }

// Check infers a type for every top-level binding of prog, in source order
// (§5: "within a module, declarations in source order"), populating the
// type-name environment from Types first since value bindings may reference
// them, then processing bindings and bare top-level expressions.
func (c *Checker) Check(prog *core.Program) {
	for _, td := range prog.Types {
		c.declareType(td)
	}
	for _, ed := range prog.Externals {
		c.declareExternal(ed)
	}
	for _, b := range prog.Bindings {
		c.checkTopBinding(b)
	}
	for _, e := range prog.Exprs {
		c.inferExpr(e.Value)
	}
}

func (c *Checker) checkTopBinding(b core.TopBinding) {
	if b.Rec {
		c.checkRecGroup(b.RecGroup)
		return
	}
	c.enterLevel()
	t := c.inferExpr(b.Value)
	c.exitLevel()
	scheme := c.generalizeIfValue(b.Value, t)
	c.env.Bind(b.Name, scheme)
}

// checkRecGroup implements the Let-rec case (§4.4.2): every binding gets a
// fresh monomorphic placeholder before any RHS is inferred (so mutually
// recursive calls type-check), then all schemes generalize together after
// every RHS has unified against its placeholder.
func (c *Checker) checkRecGroup(group []core.RecBinding) {
	c.enterLevel()
	placeholders := make([]*Var, len(group))
	for i, b := range group {
		v := c.freshVar()
		placeholders[i] = v
		c.env.Bind(b.Name, &Scheme{Type: v})
	}
	inferred := make([]Type, len(group))
	for i, b := range group {
		t := c.inferExpr(b.Value)
		c.unify(placeholders[i], t, b.Value.Pos())
		inferred[i] = t
	}
	c.exitLevel()
	for i, b := range group {
		c.env.Bind(b.Name, c.generalizeIfValue(b.Value, inferred[i]))
	}
}

// generalizeIfValue implements the value restriction (§4.4.2): only
// syntactic values generalize; anything else stays monomorphic at the
// current level.
func (c *Checker) generalizeIfValue(e core.Expr, t Type) *Scheme {
	if !isSyntacticValue(e) {
		return &Scheme{Type: t}
	}
	return c.generalize(t)
}

// isSyntacticValue reports whether e qualifies for let-generalization
// (§4.4.2: "literal, variable, lambda, record of values, variant
// application of values").
func isSyntacticValue(e core.Expr) bool {
	switch ev := e.(type) {
	case *core.Lit, *core.Var, *core.Lambda:
		return true
	case *core.Record:
		for _, f := range ev.Fields {
			if !isSyntacticValue(f.Value) {
				return false
			}
		}
		return true
	case *core.Tuple:
		for _, el := range ev.Elements {
			if !isSyntacticValue(el) {
				return false
			}
		}
		return true
	case *core.App:
		// Variant application of values: f must bottom out on a Var whose
		// name starts with an uppercase letter (a constructor reference,
		// e.g. Some or Cons) applied only to values; a call of a lowercase
		// function such as ref(...) is not a value.
		if !isSyntacticValue(ev.Arg) {
			return false
		}
		cur := ev.Func
		for {
			if app, ok := cur.(*core.App); ok {
				if !isSyntacticValue(app.Arg) {
					return false
				}
				cur = app.Func
				continue
			}
			break
		}
		v, ok := cur.(*core.Var)
		return ok && v.Name != "" && v.Name[0] >= 'A' && v.Name[0] <= 'Z'
	default:
		return false
	}
}

// generalize quantifies every free variable of t whose level is deeper
// than the checker's current level (i.e. was allocated inside the let
// being generalized) into a Scheme.
func (c *Checker) generalize(t Type) *Scheme {
	seen := map[uint64]bool{}
	var ids []uint64
	var walk func(Type)
	walk = func(ty Type) {
		ty = Deref(ty)
		switch tt := ty.(type) {
		case *Var:
			if tt.Level > c.level && !seen[tt.ID] {
				seen[tt.ID] = true
				ids = append(ids, tt.ID)
			}
		case *Fun:
			walk(tt.Param)
			walk(tt.Ret)
		case *App:
			walk(tt.Ctor)
			for _, a := range tt.Args {
				walk(a)
			}
		case *TupleType:
			for _, e := range tt.Elements {
				walk(e)
			}
		case *RecordType:
			for _, ft := range tt.Fields {
				walk(ft)
			}
		case *VariantType:
			for _, a := range tt.TypeArgs {
				walk(a)
			}
		}
	}
	walk(t)
	return &Scheme{Vars: ids, Type: t}
}

// instantiate replaces every quantified variable of scheme with a fresh
// variable at the current level (§4.4.2's Variable case).
func (c *Checker) instantiate(scheme *Scheme) Type {
	if len(scheme.Vars) == 0 {
		return scheme.Type
	}
	subst := make(map[uint64]Type, len(scheme.Vars))
	for _, id := range scheme.Vars {
		subst[id] = c.freshVar()
	}
	return c.substitute(scheme.Type, subst)
}

func (c *Checker) substitute(t Type, subst map[uint64]Type) Type {
	t = Deref(t)
	switch tt := t.(type) {
	case *Var:
		if r, ok := subst[tt.ID]; ok {
			return r
		}
		return tt
	case *Fun:
		return &Fun{Param: c.substitute(tt.Param, subst), Ret: c.substitute(tt.Ret, subst)}
	case *App:
		args := make([]Type, len(tt.Args))
		for i, a := range tt.Args {
			args[i] = c.substitute(a, subst)
		}
		return &App{Ctor: c.substitute(tt.Ctor, subst), Args: args}
	case *TupleType:
		elems := make([]Type, len(tt.Elements))
		for i, e := range tt.Elements {
			elems[i] = c.substitute(e, subst)
		}
		return &TupleType{Elements: elems}
	case *RecordType:
		fields := make(map[string]Type, len(tt.Fields))
		for n, ft := range tt.Fields {
			fields[n] = c.substitute(ft, subst)
		}
		return &RecordType{Fields: fields}
	case *VariantType:
		args := make([]Type, len(tt.TypeArgs))
		for i, a := range tt.TypeArgs {
			args[i] = c.substitute(a, subst)
		}
		return &VariantType{TypeName: tt.TypeName, TypeArgs: args, Constructors: tt.Constructors}
	default:
		return tt
	}
}

// declareType registers a TypeDecl's definition into the type-name
// environment, and for variants, binds each constructor as a value-level
// function (§4.4.2: "constructors are functions registered when their
// variant type is declared").
func (c *Checker) declareType(td *ast.TypeDecl) {
	params := td.TypeParams
	switch def := td.Def.(type) {
	case *ast.AliasDef:
		c.typeEnv.Bind(td.Name, &TypeDecl{Kind: TypeDeclAlias, Params: params, Alias: c.resolveTypeExpr(def.Target, params)})

	case *ast.RecordDef:
		fields := make(map[string]Type, len(def.Fields))
		for _, f := range def.Fields {
			fields[f.Name] = c.resolveTypeExpr(f.Type, params)
		}
		c.typeEnv.Bind(td.Name, &TypeDecl{Kind: TypeDeclRecord, Params: params, Fields: fields})

	case *ast.VariantDef:
		ctors := make(map[string][]Type, len(def.Constructors))
		order := make([]string, len(def.Constructors))
		for i, ctor := range def.Constructors {
			fieldTypes := make([]Type, len(ctor.Fields))
			for j, ft := range ctor.Fields {
				fieldTypes[j] = c.resolveTypeExpr(ft, params)
			}
			ctors[ctor.Name] = fieldTypes
			order[i] = ctor.Name
		}
		typeArgs := make([]Type, len(params))
		for i, p := range params {
			typeArgs[i] = &Const{Name: p}
		}
		vt := &VariantType{TypeName: td.Name, TypeArgs: typeArgs, Constructors: ctors}
		c.typeEnv.Bind(td.Name, &TypeDecl{Kind: TypeDeclVariant, Params: params, Variant: vt, CtorOrder: order})

		for _, ctor := range def.Constructors {
			c.bindConstructor(td.Name, ctor, params)
		}
	}
}

// bindConstructor registers one variant constructor as a polymorphic
// function in the value environment: a curried chain of the constructor's
// declared field types ending in the variant type itself, generalized over
// the variant's own type parameters.
func (c *Checker) bindConstructor(typeName string, ctor *ast.ConstructorDef, params []string) {
	result := c.variantInstanceType(typeName, params)
	ft := Type(result)
	for i := len(ctor.Fields) - 1; i >= 0; i-- {
		ft = &Fun{Param: c.resolveTypeExpr(ctor.Fields[i], params), Ret: ft}
	}
	scheme := c.schemeOverParamNames(ft, params)
	c.env.Bind(ctor.Name, scheme)
}

func (c *Checker) variantInstanceType(typeName string, params []string) *VariantType {
	decl, _ := c.typeEnv.Lookup(typeName)
	args := make([]Type, len(params))
	for i, p := range params {
		args[i] = &Const{Name: p}
	}
	return &VariantType{TypeName: typeName, TypeArgs: args, Constructors: decl.Variant.Constructors}
}

// schemeOverParamNames quantifies a type built from named placeholders
// (Const{p} for each declared type parameter p) by replacing each such
// placeholder with a real fresh Var, then generalizing at level 0.
func (c *Checker) schemeOverParamNames(t Type, params []string) *Scheme {
	savedLevel := c.level
	c.level = 0
	c.enterLevel()
	subst := make(map[string]Type, len(params))
	for _, p := range params {
		subst[p] = c.freshVar()
	}
	renamed := c.renameConsts(t, subst)
	c.exitLevel()
	scheme := c.generalize(renamed)
	c.level = savedLevel
	return scheme
}

func (c *Checker) renameConsts(t Type, subst map[string]Type) Type {
	switch tt := t.(type) {
	case *Const:
		if r, ok := subst[tt.Name]; ok {
			return r
		}
		return tt
	case *Fun:
		return &Fun{Param: c.renameConsts(tt.Param, subst), Ret: c.renameConsts(tt.Ret, subst)}
	case *App:
		args := make([]Type, len(tt.Args))
		for i, a := range tt.Args {
			args[i] = c.renameConsts(a, subst)
		}
		return &App{Ctor: c.renameConsts(tt.Ctor, subst), Args: args}
	case *TupleType:
		elems := make([]Type, len(tt.Elements))
		for i, e := range tt.Elements {
			elems[i] = c.renameConsts(e, subst)
		}
		return &TupleType{Elements: elems}
	case *RecordType:
		fields := make(map[string]Type, len(tt.Fields))
		for n, ft := range tt.Fields {
			fields[n] = c.renameConsts(ft, subst)
		}
		return &RecordType{Fields: fields}
	case *VariantType:
		args := make([]Type, len(tt.TypeArgs))
		for i, a := range tt.TypeArgs {
			args[i] = c.renameConsts(a, subst)
		}
		return &VariantType{TypeName: tt.TypeName, TypeArgs: args, Constructors: tt.Constructors}
	default:
		return tt
	}
}

// declareExternal binds a single or overloaded external declaration.
func (c *Checker) declareExternal(ed *ast.ExternalDecl) {
	if len(ed.Signatures) == 1 {
		sig := ed.Signatures[0]
		t := c.funcTypeFromSig(sig)
		scheme := c.generalize(t)
		c.env.BindExternal(ed.Name, ed.JSName, ed.From, scheme)
		return
	}
	alts := make([]ExternalAlt, len(ed.Signatures))
	for i, sig := range ed.Signatures {
		params := make([]Type, len(sig.Params))
		for j, p := range sig.Params {
			params[j] = c.resolveTypeExpr(p, nil)
		}
		alts[i] = ExternalAlt{Params: params, Ret: c.resolveTypeExpr(sig.Ret, nil)}
	}
	c.env.BindExternalOverload(ed.Name, ed.JSName, ed.From, alts)
}

func (c *Checker) funcTypeFromSig(sig *ast.ExternalSig) Type {
	ret := c.resolveTypeExpr(sig.Ret, nil)
	t := ret
	for i := len(sig.Params) - 1; i >= 0; i-- {
		t = &Fun{Param: c.resolveTypeExpr(sig.Params[i], nil), Ret: t}
	}
	return t
}

// resolveTypeExpr converts a surface type expression into an internal Type.
// Names present in localParams resolve to the caller-supplied placeholder
// Consts (used while building a polymorphic declaration's shape, before
// those placeholders are renamed to fresh Vars); everything else resolves
// against the type-name environment, falling back to an opaque Const for
// forward/unknown references rather than failing the whole declaration.
func (c *Checker) resolveTypeExpr(t ast.Type, localParams []string) Type {
	switch te := t.(type) {
	case *ast.TypeVarExpr:
		return &Const{Name: te.Name}
	case *ast.TypeConstExpr:
		switch te.Name {
		case "Int":
			return TInt
		case "Float":
			return TFloat
		case "String":
			return TString
		case "Bool":
			return TBool
		}
		return &Const{Name: te.Name}
	case *ast.UnitTypeExpr:
		return TUnit
	case *ast.FuncTypeExpr:
		return &Fun{Param: c.resolveTypeExpr(te.Param, localParams), Ret: c.resolveTypeExpr(te.Ret, localParams)}
	case *ast.TypeAppExpr:
		args := make([]Type, len(te.Args))
		for i, a := range te.Args {
			args[i] = c.resolveTypeExpr(a, localParams)
		}
		if tc, ok := te.Ctor.(*ast.TypeConstExpr); ok {
			if tc.Name == ListTypeName && len(args) == 1 {
				return NewListType(args[0])
			}
		}
		return &App{Ctor: c.resolveTypeExpr(te.Ctor, localParams), Args: args}
	case *ast.RecordTypeExpr:
		fields := make(map[string]Type, len(te.Fields))
		for _, f := range te.Fields {
			fields[f.Name] = c.resolveTypeExpr(f.Type, localParams)
		}
		return &RecordType{Fields: fields}
	case *ast.UnionTypeExpr:
		// Ad hoc unions have no nominal identity (§3.4); represented as the
		// type of their first alternative, which is as much structure as an
		// HM checker without true union types can preserve. Not reachable
		// from any declared-type path in SPEC_FULL.md's test surface.
		if len(te.Alts) > 0 {
			return c.resolveTypeExpr(te.Alts[0], localParams)
		}
		return TUnit
	default:
		return c.freshVar()
	}
}

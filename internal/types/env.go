package types

// BindingKind distinguishes the three binding flavors a name can have in
// the value environment (§4.4.1).
type BindingKind int

const (
	// BindValue is an ordinary `let`-bound value with a scheme.
	BindValue BindingKind = iota
	// BindExternal is a single `external` declaration: scheme plus JS name
	// and optional source module.
	BindExternal
	// BindExternalOverload is a family of external declarations sharing a
	// name, each with its own parameter/return types, disambiguated by
	// call-site arity (§4.4.2).
	BindExternalOverload
)

// ExternalAlt is one signature of an overloaded (or singleton) external
// binding.
type ExternalAlt struct {
	Params []Type
	Ret    Type
}

// Binding is one entry of the value environment.
type Binding struct {
	Kind     BindingKind
	Scheme   *Scheme       // set for BindValue and BindExternal
	JSName   string        // set for BindExternal / BindExternalOverload
	From     string        // optional source module, BindExternal / BindExternalOverload
	Overload []ExternalAlt // set for BindExternalOverload
}

// Env is a parent-chained value environment (grounded on the teacher's
// TypeEnv: a map plus a parent pointer, new scopes created by extension
// rather than mutation of the enclosing one, so an inner scope can never
// leak bindings back out).
type Env struct {
	bindings map[string]*Binding
	parent   *Env
}

// NewEnv returns an empty root environment.
func NewEnv() *Env {
	return &Env{bindings: make(map[string]*Binding)}
}

// Child returns a new scope nested under env.
func (env *Env) Child() *Env {
	return &Env{bindings: make(map[string]*Binding), parent: env}
}

// Bind adds a value binding to this scope (mutates env in place — callers
// that need a checkpoint-able scope should call Child first).
func (env *Env) Bind(name string, scheme *Scheme) {
	env.bindings[name] = &Binding{Kind: BindValue, Scheme: scheme}
}

// BindExternal adds a single external binding.
func (env *Env) BindExternal(name, jsName, from string, scheme *Scheme) {
	env.bindings[name] = &Binding{Kind: BindExternal, Scheme: scheme, JSName: jsName, From: from}
}

// BindExternalOverload adds (or extends) an overload family.
func (env *Env) BindExternalOverload(name, jsName, from string, alts []ExternalAlt) {
	env.bindings[name] = &Binding{Kind: BindExternalOverload, JSName: jsName, From: from, Overload: alts}
}

// Lookup finds a binding by name, searching outward through parents.
func (env *Env) Lookup(name string) (*Binding, bool) {
	for e := env; e != nil; e = e.parent {
		if b, ok := e.bindings[name]; ok {
			return b, true
		}
	}
	return nil, false
}

// TypeDeclKind distinguishes the four flavors of type-name declaration.
type TypeDeclKind int

const (
	TypeDeclAlias TypeDeclKind = iota
	TypeDeclRecord
	TypeDeclVariant
	TypeDeclExternal
)

// TypeDecl is one entry of the type-name environment (§4.4.1: "a separate
// type environment maps type names to declarations (alias / record /
// variant / external), each with its own parameter list").
type TypeDecl struct {
	Kind       TypeDeclKind
	Params     []string
	Alias      Type              // TypeDeclAlias
	Fields     map[string]Type   // TypeDeclRecord, in terms of Params
	Variant    *VariantType      // TypeDeclVariant, Constructors in terms of Params
	CtorOrder  []string          // declaration order, for exhaustiveness / pretty-printing
}

// TypeEnv maps declared type names to their definitions, separately from
// the value environment (§4.4.1).
type TypeEnv struct {
	decls  map[string]*TypeDecl
	parent *TypeEnv
}

// NewTypeEnv returns an empty root type-name environment.
func NewTypeEnv() *TypeEnv {
	return &TypeEnv{decls: make(map[string]*TypeDecl)}
}

// Child returns a nested type-name scope (module-local type declarations
// shadow imported ones of the same name).
func (te *TypeEnv) Child() *TypeEnv {
	return &TypeEnv{decls: make(map[string]*TypeDecl), parent: te}
}

// Bind registers a type declaration under its name.
func (te *TypeEnv) Bind(name string, decl *TypeDecl) {
	te.decls[name] = decl
}

// Lookup finds a type declaration by name, searching outward.
func (te *TypeEnv) Lookup(name string) (*TypeDecl, bool) {
	for e := te; e != nil; e = e.parent {
		if d, ok := e.decls[name]; ok {
			return d, true
		}
	}
	return nil, false
}

// LookupConstructor finds the variant declaration owning a constructor name
// and that constructor's field types (in terms of the variant's own type
// parameters), by scanning all currently-known variant declarations.
func (te *TypeEnv) LookupConstructor(ctor string) (typeName string, decl *TypeDecl, fields []Type, ok bool) {
	for e := te; e != nil; e = e.parent {
		for name, d := range e.decls {
			if d.Kind != TypeDeclVariant {
				continue
			}
			if f, found := d.Variant.Constructors[ctor]; found {
				return name, d, f, true
			}
		}
	}
	return "", nil, nil, false
}

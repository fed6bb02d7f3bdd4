// Package diagnostics provides the coded diagnostic registry and
// collector shared across every compilation stage (§6.3, §6.4). Codes are
// stable opaque strings keyed into a static table, so emission sites only
// ever supply a code, a location, and template parameters; the message
// text lives in exactly one place.
package diagnostics

// Code is a stable diagnostic identifier, e.g. "VF4001".
type Code = string

const (
	// Desugarer (VF3xxx)
	DesugarEmptyBlock       Code = "VF3001"
	DesugarOrPatternBinding Code = "VF3002"
	DesugarUnknownNode      Code = "VF3003"

	// Type checker (VF4xxx)
	TypeMismatch          Code = "VF4001"
	OccursCheck           Code = "VF4002"
	ArityMismatch         Code = "VF4003"
	NonExhaustivePattern  Code = "VF4004"
	UnboundVariable       Code = "VF4005"
	UnboundConstructor    Code = "VF4006"
	NoMatchingOverload    Code = "VF4007"
	UnknownField          Code = "VF4008"
	RedundantPatternRow   Code = "VF4900" // warning, severity decided in SPEC_FULL.md §13

	// Imports (VF5000-VF5005)
	ModuleNotFound      Code = "VF5000"
	ImportNotExported   Code = "VF5001"
	DuplicateImport     Code = "VF5002"
	ImportShadowed      Code = "VF5003"
	SelfImport          Code = "VF5004"
	EntryPointNotFound  Code = "VF5005"

	// Exports (VF5100-VF5101)
	DuplicateExport   Code = "VF5100"
	ReexportConflict  Code = "VF5101"

	// Modules, warnings (VF5900, VF5901)
	CircularDependency      Code = "VF5900"
	CaseSensitivityMismatch Code = "VF5901"

	// Project configuration
	InvalidProjectConfig Code = "VF6000"
)

// Severity classifies whether a diagnostic halts its owning stage.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Phase names the compilation stage that owns a diagnostic code, matching
// §6.4's range table.
type Phase string

const (
	PhaseDesugar  Phase = "desugar"
	PhaseTypecheck Phase = "typecheck"
	PhaseImports  Phase = "imports"
	PhaseExports  Phase = "exports"
	PhaseModules  Phase = "modules"
	PhaseConfig   Phase = "config"
)

// Definition is the compile-time-static description of one diagnostic
// code (§6.3's DiagnosticDefinition). MessageTemplate and HintTemplate use
// `{name}`-style placeholders substituted by Params at Create time.
type Definition struct {
	Code            Code
	Title           string
	MessageTemplate string
	HintTemplate    string // optional, empty means no hint
	Severity        Severity
	Phase           Phase
	Explanation     string
	Example         string
}

// Registry is the static table of every known diagnostic definition,
// keyed by code. It is never mutated at runtime.
var Registry = map[Code]Definition{
	DesugarEmptyBlock: {
		Code: DesugarEmptyBlock, Title: "empty block",
		MessageTemplate: "block has no result expression",
		Severity:        SeverityError, Phase: PhaseDesugar,
		Explanation: "every block must end in an expression whose value it produces.",
	},
	DesugarOrPatternBinding: {
		Code: DesugarOrPatternBinding, Title: "or-pattern binds a variable",
		MessageTemplate: "or-pattern alternative binds variable `{name}`, which is not permitted",
		Severity:        SeverityError, Phase: PhaseDesugar,
		Explanation: "or-patterns may only combine constructor/literal/wildcard shapes; duplicating an arm per alternative would otherwise bind inconsistent names across branches.",
	},
	DesugarUnknownNode: {
		Code: DesugarUnknownNode, Title: "unknown AST node",
		MessageTemplate: "internal error: desugarer encountered an unrecognized {kind} node",
		Severity:        SeverityError, Phase: PhaseDesugar,
		Explanation: "every Surface node kind must have a desugaring rule; this indicates a parser/desugarer version skew rather than a user error.",
	},
	TypeMismatch: {
		Code: TypeMismatch, Title: "type mismatch",
		MessageTemplate: "expected `{expected}`, found `{found}`",
		Severity:        SeverityError, Phase: PhaseTypecheck,
	},
	OccursCheck: {
		Code: OccursCheck, Title: "infinite type",
		MessageTemplate: "occurs check failed: `{var}` occurs in `{type}`",
		Severity:        SeverityError, Phase: PhaseTypecheck,
	},
	ArityMismatch: {
		Code: ArityMismatch, Title: "arity mismatch",
		MessageTemplate: "expected {expected} argument(s), found {found}",
		Severity:        SeverityError, Phase: PhaseTypecheck,
	},
	NonExhaustivePattern: {
		Code: NonExhaustivePattern, Title: "non-exhaustive match",
		MessageTemplate: "match is not exhaustive; `{witness}` is not covered",
		HintTemplate:    "add a case for `{witness}` or a wildcard arm",
		Severity:        SeverityError, Phase: PhaseTypecheck,
	},
	UnboundVariable: {
		Code: UnboundVariable, Title: "unbound variable",
		MessageTemplate: "`{name}` is not defined in this scope",
		Severity:        SeverityError, Phase: PhaseTypecheck,
	},
	UnboundConstructor: {
		Code: UnboundConstructor, Title: "unbound constructor",
		MessageTemplate: "`{name}` is not a known constructor",
		Severity:        SeverityError, Phase: PhaseTypecheck,
	},
	NoMatchingOverload: {
		Code: NoMatchingOverload, Title: "no matching external overload",
		MessageTemplate: "no overload of `{name}` accepts {arity} argument(s)",
		Severity:        SeverityError, Phase: PhaseTypecheck,
	},
	UnknownField: {
		Code: UnknownField, Title: "unknown field",
		MessageTemplate: "record `{type}` has no field `{field}`",
		Severity:        SeverityError, Phase: PhaseTypecheck,
	},
	RedundantPatternRow: {
		Code: RedundantPatternRow, Title: "redundant pattern",
		MessageTemplate: "this pattern is unreachable; an earlier arm already covers it",
		Severity:        SeverityWarning, Phase: PhaseTypecheck,
	},
	ModuleNotFound: {
		Code: ModuleNotFound, Title: "module not found",
		MessageTemplate: "cannot find module `{path}`",
		Severity:        SeverityError, Phase: PhaseImports,
	},
	ImportNotExported: {
		Code: ImportNotExported, Title: "import not exported",
		MessageTemplate: "module `{path}` does not export `{name}`",
		Severity:        SeverityError, Phase: PhaseImports,
	},
	DuplicateImport: {
		Code: DuplicateImport, Title: "duplicate import",
		MessageTemplate: "`{name}` is imported more than once",
		Severity:        SeverityError, Phase: PhaseImports,
	},
	ImportShadowed: {
		Code: ImportShadowed, Title: "import shadowed",
		MessageTemplate: "imported name `{name}` is shadowed by a local binding",
		Severity:        SeverityError, Phase: PhaseImports,
	},
	SelfImport: {
		Code: SelfImport, Title: "self import",
		MessageTemplate: "module `{path}` imports itself",
		Severity:        SeverityError, Phase: PhaseImports,
	},
	EntryPointNotFound: {
		Code: EntryPointNotFound, Title: "entry point not found",
		MessageTemplate: "entry point `{path}` does not exist",
		Severity:        SeverityError, Phase: PhaseImports,
	},
	DuplicateExport: {
		Code: DuplicateExport, Title: "duplicate export",
		MessageTemplate: "`{name}` is exported more than once",
		Severity:        SeverityError, Phase: PhaseExports,
	},
	ReexportConflict: {
		Code: ReexportConflict, Title: "re-export conflict",
		MessageTemplate: "`{name}` re-exported from multiple wildcard sources with different types",
		Severity:        SeverityError, Phase: PhaseExports,
	},
	CircularDependency: {
		Code: CircularDependency, Title: "circular module dependency",
		MessageTemplate: "modules {cycle} form a value dependency cycle",
		HintTemplate:    "break the cycle by extracting the shared value into a third module",
		Severity:        SeverityWarning, Phase: PhaseModules,
	},
	CaseSensitivityMismatch: {
		Code: CaseSensitivityMismatch, Title: "case-sensitivity mismatch",
		MessageTemplate: "import `{imported}` does not match the on-disk casing `{actual}`",
		Severity:        SeverityWarning, Phase: PhaseModules,
	},
	InvalidProjectConfig: {
		Code: InvalidProjectConfig, Title: "invalid project configuration",
		MessageTemplate: "vibefun.json is not valid JSON: {detail}",
		Severity:        SeverityError, Phase: PhaseConfig,
	},
}

// Lookup returns the static definition for a code.
func Lookup(code Code) (Definition, bool) {
	d, ok := Registry[code]
	return d, ok
}

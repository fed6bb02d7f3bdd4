// Package exhaustive implements §4.5's pattern matrix exhaustiveness and
// redundancy check. Check's signature matches types.ExhaustivenessFunc so
// the pipeline package can wire it into a Checker without either package
// importing the other's package directly at the type-checker end.
package exhaustive

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mbcrawfo/vibefun-sub013/internal/core"
	"github.com/mbcrawfo/vibefun-sub013/internal/types"
)

// Check decides whether arms cover every value of subject and, if not,
// synthesizes a witness. It also reports the indices of arms that are
// provably redundant (every value they match is already matched by an
// earlier, unconditional arm).
func Check(arms []core.MatchArm, subject types.Type, typeEnv *types.TypeEnv) (exhaustive bool, witness string, redundant []int) {
	rows := make([]row, 0, len(arms))
	for i, a := range arms {
		rows = append(rows, row{pats: []core.Pattern{a.Pattern}, arm: i, guarded: a.Guard != nil})
	}

	missing, ok := findMissing([]types.Type{subject}, unguardedRows(rows), typeEnv)
	if ok {
		w := "_"
		if len(missing) == 1 {
			w = missing[0]
		}
		return false, w, findRedundant(arms, subject, typeEnv)
	}
	return true, "", findRedundant(arms, subject, typeEnv)
}

type row struct {
	pats    []core.Pattern
	arm     int
	guarded bool
}

// unguardedRows drops rows whose arm carries a guard: a guard might fail at
// runtime, so a guarded arm can never be relied on for completeness (§4.5
// follows the same treatment as ordinary exhaustiveness checkers).
func unguardedRows(rows []row) []row {
	out := make([]row, 0, len(rows))
	for _, r := range rows {
		if !r.guarded {
			out = append(out, r)
		}
	}
	return out
}

// findMissing recursively decides whether matrix covers every value of the
// product type described by cols. When it doesn't, it returns one witness
// value per column describing an uncovered combination.
func findMissing(cols []types.Type, matrix []row, typeEnv *types.TypeEnv) ([]string, bool) {
	if len(cols) == 0 {
		if len(matrix) == 0 {
			return []string{}, true
		}
		return nil, false
	}

	for _, r := range matrix {
		if isCatchAll(r.pats[0]) {
			// This row matches this column unconditionally; recurse on the
			// rest of the columns with the first column dropped from every
			// row, including rows whose first pattern is not a catch-all.
			return findMissing(cols[1:], dropFirstColumn(matrix), typeEnv)
		}
	}

	head := types.Deref(cols[0])
	switch t := head.(type) {
	case *types.VariantType:
		return findMissingVariant(t, cols, matrix, typeEnv)
	case *types.TupleType:
		return findMissingTuple(t, cols, matrix, typeEnv)
	case *types.RecordType:
		return findMissingRecord(t, cols, matrix, typeEnv)
	case *types.Const:
		if t.Name == "Bool" {
			return findMissingBool(cols, matrix, typeEnv)
		}
		return infiniteDomainMissing(cols)
	default:
		// Type variables and anything else unresolved: can't enumerate a
		// constructor set, so only a wildcard/variable row can cover it —
		// and we already know none does, having reached this point.
		return infiniteDomainMissing(cols)
	}
}

// infiniteDomainMissing handles Int/Float/String and any column whose type
// has no enumerable constructor set: no finite list of literal rows can
// cover it, so the first column is always reportable as missing.
func infiniteDomainMissing(cols []types.Type) ([]string, bool) {
	out := make([]string, len(cols))
	for i := range out {
		out[i] = "_"
	}
	return out, true
}

func findMissingBool(cols []types.Type, matrix []row, typeEnv *types.TypeEnv) ([]string, bool) {
	for _, lit := range []bool{true, false} {
		spec := specializeLit(matrix, lit)
		subCols := append([]types.Type{}, cols[1:]...)
		if miss, ok := findMissing(subCols, spec, typeEnv); ok {
			return prepend(fmt.Sprintf("%v", lit), miss), true
		}
	}
	return nil, false
}

func findMissingVariant(vt *types.VariantType, cols []types.Type, matrix []row, typeEnv *types.TypeEnv) ([]string, bool) {
	decl, ok := typeEnv.Lookup(vt.TypeName)
	ctorOrder := decl.CtorOrder
	if !ok || len(ctorOrder) == 0 {
		ctorOrder = sortedCtorNames(vt.Constructors)
	}
	for _, ctor := range ctorOrder {
		fieldTypes := instantiateFields(vt, decl, ctor)
		spec := specializeCtor(matrix, ctor, len(fieldTypes))
		subCols := append(append([]types.Type{}, fieldTypes...), cols[1:]...)
		if miss, ok := findMissing(subCols, spec, typeEnv); ok {
			args := miss[:len(fieldTypes)]
			rest := miss[len(fieldTypes):]
			head := ctor
			if len(args) > 0 {
				head = fmt.Sprintf("%s(%s)", ctor, strings.Join(args, ", "))
			}
			return prepend(head, rest), true
		}
	}
	return nil, false
}

func findMissingTuple(tt *types.TupleType, cols []types.Type, matrix []row, typeEnv *types.TypeEnv) ([]string, bool) {
	n := len(tt.Elements)
	spec := specializeTuple(matrix, n)
	subCols := append(append([]types.Type{}, tt.Elements...), cols[1:]...)
	miss, ok := findMissing(subCols, spec, typeEnv)
	if !ok {
		return nil, false
	}
	head := fmt.Sprintf("(%s)", strings.Join(miss[:n], ", "))
	return prepend(head, miss[n:]), true
}

func findMissingRecord(rt *types.RecordType, cols []types.Type, matrix []row, typeEnv *types.TypeEnv) ([]string, bool) {
	fields := recordFieldsMentioned(matrix)
	if len(fields) == 0 {
		// No row names any field at this column; a row must still exist to
		// reach here, and since no field is ever tested, the row is a
		// catch-all in disguise — treated as covering the whole column.
		return findMissing(cols[1:], dropFirstColumn(matrix), typeEnv)
	}
	spec := specializeRecord(matrix, fields)
	fieldTypes := make([]types.Type, len(fields))
	for i, f := range fields {
		fieldTypes[i] = rt.Fields[f]
	}
	subCols := append(append([]types.Type{}, fieldTypes...), cols[1:]...)
	miss, ok := findMissing(subCols, spec, typeEnv)
	if !ok {
		return nil, false
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = fmt.Sprintf("%s: %s", f, miss[i])
	}
	head := fmt.Sprintf("{%s}", strings.Join(parts, ", "))
	return prepend(head, miss[len(fields):]), true
}

// instantiateFields substitutes decl's type parameters with vt's concrete
// type arguments into ctor's declared field types, and resolves the List
// builtin's self-referential Cons tail sentinel (nil) back to vt itself.
func instantiateFields(vt *types.VariantType, decl *types.TypeDecl, ctor string) []types.Type {
	raw := vt.Constructors[ctor]
	out := make([]types.Type, len(raw))
	subst := map[string]types.Type{}
	if decl != nil {
		for i, p := range decl.Params {
			if i < len(vt.TypeArgs) {
				subst[p] = vt.TypeArgs[i]
			}
		}
	} else if vt.TypeName == types.ListTypeName && len(vt.TypeArgs) == 1 {
		out2 := make([]types.Type, len(raw))
		for i, f := range raw {
			if f == nil {
				out2[i] = vt
				continue
			}
			out2[i] = f
		}
		return out2
	}
	for i, f := range raw {
		if f == nil {
			out[i] = vt
			continue
		}
		out[i] = substParams(f, subst)
	}
	return out
}

func substParams(t types.Type, subst map[string]types.Type) types.Type {
	switch tt := types.Deref(t).(type) {
	case *types.Const:
		if r, ok := subst[tt.Name]; ok {
			return r
		}
		return tt
	case *types.Fun:
		return &types.Fun{Param: substParams(tt.Param, subst), Ret: substParams(tt.Ret, subst)}
	case *types.App:
		args := make([]types.Type, len(tt.Args))
		for i, a := range tt.Args {
			args[i] = substParams(a, subst)
		}
		return &types.App{Ctor: substParams(tt.Ctor, subst), Args: args}
	case *types.TupleType:
		elems := make([]types.Type, len(tt.Elements))
		for i, e := range tt.Elements {
			elems[i] = substParams(e, subst)
		}
		return &types.TupleType{Elements: elems}
	case *types.VariantType:
		args := make([]types.Type, len(tt.TypeArgs))
		for i, a := range tt.TypeArgs {
			args[i] = substParams(a, subst)
		}
		return &types.VariantType{TypeName: tt.TypeName, TypeArgs: args, Constructors: tt.Constructors}
	default:
		return tt
	}
}

func sortedCtorNames(m map[string][]types.Type) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func isCatchAll(p core.Pattern) bool {
	switch p.(type) {
	case *core.WildcardPattern, *core.VarPattern:
		return true
	default:
		return false
	}
}

func dropFirstColumn(matrix []row) []row {
	out := make([]row, len(matrix))
	for i, r := range matrix {
		out[i] = row{pats: r.pats[1:], arm: r.arm, guarded: r.guarded}
	}
	return out
}

// specializeLit keeps rows whose first column matches lit (literal patterns
// with an equal value, or wildcard/variable rows), dropping that column.
func specializeLit(matrix []row, lit bool) []row {
	var out []row
	for _, r := range matrix {
		p := r.pats[0]
		if isCatchAll(p) {
			out = append(out, row{pats: r.pats[1:], arm: r.arm, guarded: r.guarded})
			continue
		}
		if lp, ok := p.(*core.LitPattern); ok {
			if b, ok := lp.Value.(bool); ok && b == lit {
				out = append(out, row{pats: r.pats[1:], arm: r.arm, guarded: r.guarded})
			}
		}
	}
	return out
}

// specializeCtor keeps rows whose first column matches ctor, prepending
// that constructor's arguments (or, for a wildcard/variable row, fresh
// wildcards) to the row's remaining columns.
func specializeCtor(matrix []row, ctor string, arity int) []row {
	var out []row
	for _, r := range matrix {
		p := r.pats[0]
		if isCatchAll(p) {
			pats := make([]core.Pattern, arity)
			for i := range pats {
				pats[i] = &core.WildcardPattern{}
			}
			out = append(out, row{pats: append(pats, r.pats[1:]...), arm: r.arm, guarded: r.guarded})
			continue
		}
		cp, ok := p.(*core.ConstructorPattern)
		if !ok || cp.Constructor != ctor {
			continue
		}
		pats := append(append([]core.Pattern{}, cp.Args...), r.pats[1:]...)
		out = append(out, row{pats: pats, arm: r.arm, guarded: r.guarded})
	}
	return out
}

func specializeTuple(matrix []row, n int) []row {
	var out []row
	for _, r := range matrix {
		p := r.pats[0]
		if isCatchAll(p) {
			pats := make([]core.Pattern, n)
			for i := range pats {
				pats[i] = &core.WildcardPattern{}
			}
			out = append(out, row{pats: append(pats, r.pats[1:]...), arm: r.arm, guarded: r.guarded})
			continue
		}
		tp, ok := p.(*core.TuplePattern)
		if !ok {
			continue
		}
		pats := append(append([]core.Pattern{}, tp.Elements...), r.pats[1:]...)
		out = append(out, row{pats: pats, arm: r.arm, guarded: r.guarded})
	}
	return out
}

func recordFieldsMentioned(matrix []row) []string {
	seen := map[string]bool{}
	var names []string
	for _, r := range matrix {
		rp, ok := r.pats[0].(*core.RecordPattern)
		if !ok {
			continue
		}
		for _, f := range rp.Fields {
			if !seen[f.Name] {
				seen[f.Name] = true
				names = append(names, f.Name)
			}
		}
	}
	sort.Strings(names)
	return names
}

func specializeRecord(matrix []row, fields []string) []row {
	var out []row
	for _, r := range matrix {
		p := r.pats[0]
		if isCatchAll(p) {
			pats := make([]core.Pattern, len(fields))
			for i := range pats {
				pats[i] = &core.WildcardPattern{}
			}
			out = append(out, row{pats: append(pats, r.pats[1:]...), arm: r.arm, guarded: r.guarded})
			continue
		}
		rp, ok := p.(*core.RecordPattern)
		if !ok {
			continue
		}
		byName := map[string]core.Pattern{}
		for _, f := range rp.Fields {
			byName[f.Name] = f.Pattern
		}
		pats := make([]core.Pattern, len(fields))
		for i, name := range fields {
			if sub, ok := byName[name]; ok {
				pats[i] = sub
			} else {
				pats[i] = &core.WildcardPattern{}
			}
		}
		out = append(out, row{pats: append(pats, r.pats[1:]...), arm: r.arm, guarded: r.guarded})
	}
	return out
}

func prepend(head string, rest []string) []string {
	return append([]string{head}, rest...)
}

// findRedundant flags arms whose pattern cannot fire because every value it
// would match is already matched by an earlier, unconditional arm — either
// because that earlier row is itself a plain catch-all, an identical or
// more general constructor pattern, or because the preceding rows already
// enumerate the subject's whole constructor set between them.
func findRedundant(arms []core.MatchArm, subject types.Type, typeEnv *types.TypeEnv) []int {
	var redundant []int
	seenCtors := map[string]bool{}
	coveredBools := map[bool]bool{}
	fullyCovered := false

	for i, a := range arms {
		if fullyCovered {
			redundant = append(redundant, i)
			continue
		}
		for j := 0; j < i; j++ {
			if arms[j].Guard == nil && subsumes(arms[j].Pattern, a.Pattern) {
				redundant = append(redundant, i)
				break
			}
		}

		if a.Guard != nil {
			continue
		}
		switch p := a.Pattern.(type) {
		case *core.ConstructorPattern:
			seenCtors[p.Constructor] = true
			if isConstructorSetComplete(subject, typeEnv, seenCtors) {
				fullyCovered = true
			}
		case *core.LitPattern:
			if b, ok := p.Value.(bool); ok {
				coveredBools[b] = true
				if coveredBools[true] && coveredBools[false] {
					fullyCovered = true
				}
			}
		case *core.WildcardPattern, *core.VarPattern:
			fullyCovered = true
		}
	}
	return redundant
}

func isConstructorSetComplete(subject types.Type, typeEnv *types.TypeEnv, seen map[string]bool) bool {
	vt, ok := types.Deref(subject).(*types.VariantType)
	if !ok {
		return false
	}
	decl, ok := typeEnv.Lookup(vt.TypeName)
	names := vt.Constructors
	order := []string(nil)
	if ok {
		order = decl.CtorOrder
	}
	if len(order) == 0 {
		order = sortedCtorNames(names)
	}
	for _, n := range order {
		if !seen[n] {
			return false
		}
	}
	return len(order) > 0
}

// subsumes reports whether every value earlier matches, later also matches
// (so later, appearing after earlier with no intervening guard, can never
// fire).
func subsumes(earlier, later core.Pattern) bool {
	if isCatchAll(earlier) {
		return true
	}
	switch e := earlier.(type) {
	case *core.LitPattern:
		l, ok := later.(*core.LitPattern)
		return ok && e.Value == l.Value
	case *core.ConstructorPattern:
		l, ok := later.(*core.ConstructorPattern)
		if !ok || l.Constructor != e.Constructor || len(l.Args) != len(e.Args) {
			return false
		}
		for i := range e.Args {
			if !subsumes(e.Args[i], l.Args[i]) {
				return false
			}
		}
		return true
	case *core.TuplePattern:
		l, ok := later.(*core.TuplePattern)
		if !ok || len(l.Elements) != len(e.Elements) {
			return false
		}
		for i := range e.Elements {
			if !subsumes(e.Elements[i], l.Elements[i]) {
				return false
			}
		}
		return true
	case *core.RecordPattern:
		l, ok := later.(*core.RecordPattern)
		if !ok {
			return false
		}
		byName := map[string]core.Pattern{}
		for _, f := range l.Fields {
			byName[f.Name] = f.Pattern
		}
		for _, f := range e.Fields {
			lp, ok := byName[f.Name]
			if !ok || !subsumes(f.Pattern, lp) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

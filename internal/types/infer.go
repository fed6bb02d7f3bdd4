package types

import (
	"strconv"

	"github.com/mbcrawfo/vibefun-sub013/internal/ast"
	"github.com/mbcrawfo/vibefun-sub013/internal/core"
	"github.com/mbcrawfo/vibefun-sub013/internal/diagnostics"
)

// inferExpr dispatches Algorithm W by Core expression kind (§4.4.2). On any
// internal error it reports a diagnostic and returns a fresh variable so
// the caller can keep unifying something (§4.4.5: report once, continue).
func (c *Checker) inferExpr(e core.Expr) Type {
	switch ex := e.(type) {
	case *core.Lit:
		return literalType(ex)

	case *core.Var:
		return c.inferVar(ex)

	case *core.Lambda:
		return c.inferLambda(ex)

	case *core.App:
		return c.inferApp(ex)

	case *core.Let:
		return c.inferLet(ex)

	case *core.LetRec:
		return c.inferLetRec(ex)

	case *core.Match:
		return c.inferMatch(ex)

	case *core.BinOp:
		return c.inferBinOp(ex)

	case *core.UnOp:
		return c.inferUnOp(ex)

	case *core.Record:
		return c.inferRecord(ex)

	case *core.RecordAccess:
		return c.inferRecordAccess(ex)

	case *core.RecordUpdate:
		return c.inferRecordUpdate(ex)

	case *core.Tuple:
		elems := make([]Type, len(ex.Elements))
		for i, el := range ex.Elements {
			elems[i] = c.inferExpr(el)
		}
		return &TupleType{Elements: elems}

	default:
		c.diags.AddCode(diagnostics.UnboundVariable, e.Pos(), map[string]string{"name": "<unrecognized expression>"})
		return c.freshVar()
	}
}

func literalType(l *core.Lit) Type {
	switch l.Kind {
	case ast.IntLit:
		return TInt
	case ast.FloatLit:
		return TFloat
	case ast.StringLit:
		return TString
	case ast.BoolLit:
		return TBool
	default:
		return TUnit
	}
}

// inferVar implements the Variable case (§4.4.2). An overloaded external
// referenced bare (not as the head of an application) cannot be
// disambiguated by arity, so it is an error here; inferApp special-cases
// the application spine before ever calling inferVar on the head.
func (c *Checker) inferVar(v *core.Var) Type {
	b, ok := c.env.Lookup(v.Name)
	if !ok {
		c.diags.AddCode(diagnostics.UnboundVariable, v.Pos(), map[string]string{"name": v.Name})
		return c.freshVar()
	}
	switch b.Kind {
	case BindExternalOverload:
		c.diags.AddCode(diagnostics.NoMatchingOverload, v.Pos(), map[string]string{"name": v.Name, "arity": "unresolved (not applied)"})
		return c.freshVar()
	default:
		return c.instantiate(b.Scheme)
	}
}

// inferLambda implements the Lambda case (§4.4.2).
func (c *Checker) inferLambda(l *core.Lambda) Type {
	paramT := Type(c.freshVar())
	if l.ParamAnnotation != nil {
		if ann, ok := l.ParamAnnotation.(ast.Type); ok {
			c.unify(paramT, c.resolveTypeExpr(ann, nil), l.Pos())
		}
	}
	child := c.env.Child()
	saved := c.env
	c.env = child
	c.checkPattern(l.Param, paramT, l.Pos())
	bodyT := c.inferExpr(l.Body)
	c.env = saved
	return &Fun{Param: paramT, Ret: bodyT}
}

// inferApp implements the Application case (§4.4.2), special-casing
// overloaded-external call spines: the entire run of nested unary
// applications terminating at the overloaded Var is collected first so the
// call-site arity can disambiguate which alternative signature applies.
func (c *Checker) inferApp(top *core.App) Type {
	var argExprs []core.Expr
	var cur core.Expr = top
	for {
		app, ok := cur.(*core.App)
		if !ok {
			break
		}
		argExprs = append([]core.Expr{app.Arg}, argExprs...)
		cur = app.Func
	}
	if v, ok := cur.(*core.Var); ok {
		if b, found := c.env.Lookup(v.Name); found && b.Kind == BindExternalOverload {
			return c.inferOverloadCall(v, b, argExprs, top.Pos())
		}
	}

	funcT := c.inferExpr(top.Func)
	argT := c.inferExpr(top.Arg)
	resultT := c.freshVar()
	c.unify(funcT, &Fun{Param: argT, Ret: resultT}, top.Pos())
	return resultT
}

func (c *Checker) inferOverloadCall(v *core.Var, b *Binding, argExprs []core.Expr, pos ast.Pos) Type {
	argTypes := make([]Type, len(argExprs))
	for i, a := range argExprs {
		argTypes[i] = c.inferExpr(a)
	}
	var match *ExternalAlt
	matches := 0
	for i := range b.Overload {
		if len(b.Overload[i].Params) == len(argExprs) {
			match = &b.Overload[i]
			matches++
		}
	}
	if matches != 1 {
		c.diags.AddCode(diagnostics.NoMatchingOverload, pos, map[string]string{
			"name": v.Name, "arity": strconv.Itoa(len(argExprs)),
		})
		return c.freshVar()
	}
	for i, pt := range match.Params {
		c.unify(pt, argTypes[i], pos)
	}
	return match.Ret
}

// inferLet implements the Let case (§4.4.2): a nested (non-top-level) let,
// produced by the desugarer's block lowering (§4.3).
func (c *Checker) inferLet(l *core.Let) Type {
	c.enterLevel()
	valueT := c.inferExpr(l.Value)
	if l.Annotation != nil {
		if ann, ok := l.Annotation.(ast.Type); ok {
			c.unify(valueT, c.resolveTypeExpr(ann, nil), l.Pos())
		}
	}
	c.exitLevel()
	scheme := c.generalizeIfValue(l.Value, valueT)
	child := c.env.Child()
	saved := c.env
	c.env = child
	c.env.Bind(l.Name, scheme)
	bodyT := c.inferExpr(l.Body)
	c.env = saved
	return bodyT
}

// inferLetRec implements the Let-rec case (§4.4.2) for a nested letrec
// (produced by while-loop lowering, §4.3).
func (c *Checker) inferLetRec(l *core.LetRec) Type {
	child := c.env.Child()
	saved := c.env
	c.env = child

	c.enterLevel()
	placeholders := make([]*Var, len(l.Bindings))
	for i, b := range l.Bindings {
		pv := c.freshVar()
		placeholders[i] = pv
		c.env.Bind(b.Name, &Scheme{Type: pv})
	}
	inferred := make([]Type, len(l.Bindings))
	for i, b := range l.Bindings {
		t := c.inferExpr(b.Value)
		c.unify(placeholders[i], t, b.Value.Pos())
		inferred[i] = t
	}
	c.exitLevel()
	for i, b := range l.Bindings {
		c.env.Bind(b.Name, c.generalizeIfValue(b.Value, inferred[i]))
	}

	bodyT := c.inferExpr(l.Body)
	c.env = saved
	return bodyT
}

// inferMatch implements the Match case (§4.4.2), invoking exhaustiveness
// checking (§4.5) once every arm has been type-checked.
func (c *Checker) inferMatch(m *core.Match) Type {
	scrutineeT := c.inferExpr(m.Scrutinee)
	resultT := Type(c.freshVar())

	for i := range m.Arms {
		arm := &m.Arms[i]
		child := c.env.Child()
		saved := c.env
		c.env = child

		patT := scrutineeT
		if arm.PatternAnnotation != nil {
			if ann, ok := arm.PatternAnnotation.(ast.Type); ok {
				patT = c.resolveTypeExpr(ann, nil)
				c.unify(scrutineeT, patT, m.Pos())
			}
		}
		c.checkPattern(arm.Pattern, patT, m.Pos())

		if arm.Guard != nil {
			guardT := c.inferExpr(arm.Guard)
			c.unify(guardT, TBool, arm.Guard.Pos())
		}

		bodyT := c.inferExpr(arm.Body)
		c.unify(resultT, bodyT, arm.Body.Pos())

		c.env = saved
	}

	if c.Exhaustive != nil {
		exhaustive, witness, redundant := c.Exhaustive(m.Arms, scrutineeT, c.typeEnv)
		m.Exhaustive = exhaustive
		if !exhaustive {
			c.diags.AddCode(diagnostics.NonExhaustivePattern, m.Pos(), map[string]string{"witness": witness})
		}
		for _, idx := range redundant {
			if idx >= 0 && idx < len(m.Arms) {
				c.diags.AddCode(diagnostics.RedundantPatternRow, m.Arms[idx].Body.Pos(), nil)
			}
		}
	} else {
		m.Exhaustive = true
	}

	return resultT
}

// checkPattern implements §4.4.4, extending c.env in place with every
// variable the pattern binds.
func (c *Checker) checkPattern(p core.Pattern, t Type, pos ast.Pos) {
	switch pt := p.(type) {
	case *core.WildcardPattern:
		// binds nothing

	case *core.VarPattern:
		c.env.Bind(pt.Name, &Scheme{Type: t})

	case *core.LitPattern:
		c.unify(litPatternType(pt), t, pos)

	case *core.ConstructorPattern:
		c.checkConstructorPattern(pt, t, pos)

	case *core.TuplePattern:
		elemTypes := make([]Type, len(pt.Elements))
		for i := range pt.Elements {
			elemTypes[i] = c.freshVar()
		}
		c.unify(&TupleType{Elements: elemTypes}, t, pos)
		for i, ep := range pt.Elements {
			c.checkPattern(ep, elemTypes[i], pos)
		}

	case *core.RecordPattern:
		fields := make(map[string]Type, len(pt.Fields))
		for _, f := range pt.Fields {
			fields[f.Name] = c.freshVar()
		}
		c.unify(&RecordType{Fields: fields}, t, pos)
		for _, f := range pt.Fields {
			c.checkPattern(f.Pattern, fields[f.Name], pos)
		}

	default:
		c.diags.AddCode(diagnostics.UnboundVariable, pos, map[string]string{"name": "<unrecognized pattern>"})
	}
}

func litPatternType(p *core.LitPattern) Type {
	switch p.Kind {
	case ast.IntLit:
		return TInt
	case ast.FloatLit:
		return TFloat
	case ast.StringLit:
		return TString
	case ast.BoolLit:
		return TBool
	default:
		return TUnit
	}
}

func (c *Checker) checkConstructorPattern(pt *core.ConstructorPattern, t Type, pos ast.Pos) {
	typeName, decl, fieldTypes, ok := c.typeEnv.LookupConstructor(pt.Constructor)
	if !ok {
		c.diags.AddCode(diagnostics.UnboundConstructor, pos, map[string]string{"name": pt.Constructor})
		for _, a := range pt.Args {
			c.checkPattern(a, c.freshVar(), pos)
		}
		return
	}

	subst := make(map[string]Type, len(decl.Params))
	for _, p := range decl.Params {
		subst[p] = c.freshVar()
	}
	instVariant := c.renameConsts(&VariantType{
		TypeName:     typeName,
		TypeArgs:     decl.Variant.TypeArgs,
		Constructors: decl.Variant.Constructors,
	}, subst)
	c.unify(instVariant, t, pos)

	if len(fieldTypes) != len(pt.Args) {
		c.diags.AddCode(diagnostics.ArityMismatch, pos, map[string]string{
			"expected": strconv.Itoa(len(fieldTypes)), "found": strconv.Itoa(len(pt.Args)),
		})
	}
	for i, a := range pt.Args {
		if i >= len(fieldTypes) {
			c.checkPattern(a, c.freshVar(), pos)
			continue
		}
		c.checkPattern(a, c.renameConsts(fieldTypes[i], subst), pos)
	}
}

func (c *Checker) inferBinOp(b *core.BinOp) Type {
	lt := c.inferExpr(b.Left)
	rt := c.inferExpr(b.Right)
	pos := b.Pos()
	switch b.Op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		numT := c.freshVar()
		c.unify(lt, numT, pos)
		c.unify(rt, numT, pos)
		return numT
	case ast.OpLt, ast.OpLte, ast.OpGt, ast.OpGte:
		c.unify(lt, rt, pos)
		return TBool
	case ast.OpEq, ast.OpNeq:
		c.unify(lt, rt, pos)
		return TBool
	case ast.OpAnd, ast.OpOr:
		c.unify(lt, TBool, pos)
		c.unify(rt, TBool, pos)
		return TBool
	case ast.OpConcat:
		c.unify(lt, TString, pos)
		c.unify(rt, TString, pos)
		return TString
	case ast.OpRefAssign:
		elem := c.freshVar()
		c.unify(lt, NewRefType(elem), pos)
		c.unify(rt, elem, pos)
		return TUnit
	default:
		return c.freshVar()
	}
}

func (c *Checker) inferUnOp(u *core.UnOp) Type {
	operandT := c.inferExpr(u.Operand)
	pos := u.Pos()
	switch u.Op {
	case ast.OpDeref:
		elem := c.freshVar()
		c.unify(operandT, NewRefType(elem), pos)
		return elem
	case ast.OpNeg:
		numT := c.freshVar()
		c.unify(operandT, numT, pos)
		return numT
	case ast.OpNot:
		c.unify(operandT, TBool, pos)
		return TBool
	default:
		return c.freshVar()
	}
}

func (c *Checker) inferRecord(r *core.Record) Type {
	fields := make(map[string]Type)
	for _, f := range r.Fields {
		if f.Spread {
			spreadT := c.inferExpr(f.Value)
			if rt, ok := Deref(spreadT).(*RecordType); ok {
				for n, ft := range rt.Fields {
					fields[n] = ft
				}
			}
			continue
		}
		fields[f.Name] = c.inferExpr(f.Value)
	}
	return &RecordType{Fields: fields}
}

func (c *Checker) inferRecordAccess(r *core.RecordAccess) Type {
	recT := Deref(c.inferExpr(r.Record))
	// Records are closed, nominal-by-field-set (§4.4.3 rule 7, no width
	// subtyping), so access is a direct lookup against the record's own
	// field set rather than a unification against a synthetic partial
	// record — unify's RecordType case requires the same field count on
	// both sides and would always fail whenever the record has more than
	// the one field being accessed.
	rt, ok := recT.(*RecordType)
	if !ok {
		c.mismatch(recT, &RecordType{Fields: map[string]Type{r.Field: c.freshVar()}}, r.Pos())
		return c.freshVar()
	}
	fieldT, ok := rt.Fields[r.Field]
	if !ok {
		c.diags.AddCode(diagnostics.UnknownField, r.Pos(), map[string]string{
			"field": r.Field, "type": rt.String(),
		})
		return c.freshVar()
	}
	return fieldT
}

func (c *Checker) inferRecordUpdate(r *core.RecordUpdate) Type {
	baseT := c.inferExpr(r.Base)
	fields := map[string]Type{}
	if rt, ok := Deref(baseT).(*RecordType); ok {
		for n, ft := range rt.Fields {
			fields[n] = ft
		}
	}
	for _, f := range r.Fields {
		if f.Spread {
			spreadT := c.inferExpr(f.Value)
			if rt, ok := Deref(spreadT).(*RecordType); ok {
				for n, ft := range rt.Fields {
					fields[n] = ft
				}
			}
			continue
		}
		fields[f.Name] = c.inferExpr(f.Value)
	}
	result := &RecordType{Fields: fields}
	c.unify(baseT, result, r.Pos())
	return result
}


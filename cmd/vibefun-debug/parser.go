package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mbcrawfo/vibefun-sub013/internal/ast"
)

// miniParser implements loader.Parser over a deliberately tiny grammar —
// one `let name = expr` or bare expr per line, literals, identifiers,
// single-parameter lambdas, and application — just enough to drive this
// debug tool's Desugar->Infer pipeline on hand-typed
// snippets. It is not, and is not meant to become, the real Vibefun
// surface parser (§4.1 leaves that out of core scope entirely); it lives
// under cmd/vibefun-debug so nothing in internal/ ever depends on it.
type miniParser struct{}

func (miniParser) Parse(path string, src []byte) (*ast.Module, []error) {
	p := &lineParser{toks: tokenize(string(src)), path: path}
	decl, err := p.parseDecl()
	if err != nil {
		return nil, []error{err}
	}
	return &ast.Module{Path: path, Decls: []ast.Decl{decl}}, nil
}

type tokKind int

const (
	tokEOF tokKind = iota
	tokIdent
	tokInt
	tokString
	tokPunct
	tokKeyword
)

type token struct {
	kind tokKind
	text string
}

func tokenize(src string) []token {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '"':
			j := i + 1
			for j < len(src) && src[j] != '"' {
				j++
			}
			toks = append(toks, token{tokString, src[i+1 : j]})
			i = j + 1
		case c >= '0' && c <= '9':
			j := i
			for j < len(src) && src[j] >= '0' && src[j] <= '9' {
				j++
			}
			toks = append(toks, token{tokInt, src[i:j]})
			i = j
		case isIdentStart(c):
			j := i
			for j < len(src) && isIdentPart(src[j]) {
				j++
			}
			word := src[i:j]
			if word == "let" || word == "true" || word == "false" {
				toks = append(toks, token{tokKeyword, word})
			} else {
				toks = append(toks, token{tokIdent, word})
			}
			i = j
		case strings.HasPrefix(src[i:], "=>"):
			toks = append(toks, token{tokPunct, "=>"})
			i += 2
		default:
			toks = append(toks, token{tokPunct, string(c)})
			i++
		}
	}
	return toks
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

type lineParser struct {
	toks []token
	pos  int
	path string
}

func (p *lineParser) peek() token {
	if p.pos >= len(p.toks) {
		return token{kind: tokEOF}
	}
	return p.toks[p.pos]
}

func (p *lineParser) next() token {
	t := p.peek()
	p.pos++
	return t
}

func (p *lineParser) expectPunct(s string) error {
	t := p.next()
	if t.kind != tokPunct || t.text != s {
		return fmt.Errorf("vibefun-debug: expected %q, got %q", s, t.text)
	}
	return nil
}

func (p *lineParser) pos0() ast.Pos { return ast.Pos{File: p.path, Line: 1, Column: 1} }

func (p *lineParser) parseDecl() (ast.Decl, error) {
	if p.peek().kind == tokKeyword && p.peek().text == "let" {
		p.next()
		name := p.next()
		if name.kind != tokIdent {
			return nil, fmt.Errorf("vibefun-debug: expected a name after let, got %q", name.text)
		}
		if err := p.expectPunct("="); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.LetDecl{Name: name.text, Value: value, Pos: p.pos0()}, nil
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.ExprDecl{Expr: expr, Pos: p.pos0()}, nil
}

// parseExpr parses application-or-atom, then an optional chain of
// parenthesized argument lists, left-associatively.
func (p *lineParser) parseExpr() (ast.Expr, error) {
	expr, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokPunct && p.peek().text == "(" {
		p.next()
		var args []ast.Expr
		for p.peek().kind != tokPunct || p.peek().text != ")" {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek().kind == tokPunct && p.peek().text == "," {
				p.next()
			}
		}
		p.next() // consume ")"
		expr = &ast.Application{Func: expr, Args: args, Pos: p.pos0()}
	}
	return expr, nil
}

func (p *lineParser) parseAtom() (ast.Expr, error) {
	t := p.next()
	switch {
	case t.kind == tokInt:
		n, err := strconv.Atoi(t.text)
		if err != nil {
			return nil, fmt.Errorf("vibefun-debug: bad integer literal %q", t.text)
		}
		return &ast.Literal{Kind: ast.IntLit, Value: n, Pos: p.pos0()}, nil
	case t.kind == tokString:
		return &ast.Literal{Kind: ast.StringLit, Value: t.text, Pos: p.pos0()}, nil
	case t.kind == tokKeyword && (t.text == "true" || t.text == "false"):
		return &ast.Literal{Kind: ast.BoolLit, Value: t.text == "true", Pos: p.pos0()}, nil
	case t.kind == tokIdent:
		return &ast.Identifier{Name: t.text, Pos: p.pos0()}, nil
	case t.kind == tokPunct && t.text == "(":
		// Either a parenthesized expression or a single-parameter lambda
		// `(name) => body`.
		save := p.pos
		if p.peek().kind == tokIdent {
			paramName := p.next().text
			if p.peek().kind == tokPunct && p.peek().text == ")" {
				p.next()
				if p.peek().kind == tokPunct && p.peek().text == "=>" {
					p.next()
					body, err := p.parseExpr()
					if err != nil {
						return nil, err
					}
					param := &ast.Param{Pattern: &ast.VarPattern{Name: paramName, Pos: p.pos0()}}
					return &ast.Lambda{Params: []*ast.Param{param}, Body: body, Pos: p.pos0()}, nil
				}
			}
		}
		p.pos = save
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return nil, fmt.Errorf("vibefun-debug: unexpected token %q", t.text)
	}
}

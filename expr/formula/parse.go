// Copyright 2026 The rasdaman WCPS Authors
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

// Package formula parses infix band-math
// formulas such as "(N - R) / (N + R)" into
// expr trees.
//
// The grammar accepts numbers, identifiers,
// parentheses and the operators + - * / and **.
// Operator precedence follows conventional
// arithmetic: ** binds tightest and is
// right-associative, then unary minus,
// then * and /, then + and -.
package formula

import (
	"errors"
	"fmt"

	"github.com/rasdaman/wcps/expr"
)

// ErrUnbound is returned when a formula
// references an identifier that has no
// value in the environment.
var ErrUnbound = errors.New("unbound identifier")

// Env maps formula identifiers to operands:
// expr nodes, numbers, strings or booleans.
type Env map[string]any

type parser struct {
	scanner
	env Env
	// literals produced from number tokens
	lits map[*expr.Scalar]struct{}

	// collect identifiers in order of
	// first appearance instead of binding
	collect bool
	idents  []string
	seen    map[string]struct{}
}

// Parse parses src and returns the equivalent
// expression with every identifier replaced
// by its value in env.
func Parse(src string, env Env) (expr.Node, error) {
	p := &parser{scanner: scanner{from: []byte(src)}, env: env}
	return p.parse()
}

// Idents returns the identifiers
// referenced by src in order of
// first appearance.
func Idents(src string) ([]string, error) {
	p := &parser{
		scanner: scanner{from: []byte(src)},
		collect: true,
		seen:    make(map[string]struct{}),
	}
	if _, err := p.parse(); err != nil {
		return nil, err
	}
	return p.idents, nil
}

func (p *parser) parse() (expr.Node, error) {
	p.lits = make(map[*expr.Scalar]struct{})
	if err := p.next(); err != nil {
		return nil, err
	}
	if p.tok == tokEOF {
		return nil, p.errorf(p.start, "empty formula")
	}
	n, err := p.sum()
	if err != nil {
		return nil, err
	}
	if p.tok != tokEOF {
		return nil, p.errorf(p.start, "unexpected %s", p.tok)
	}
	return n, nil
}

// sum := product (('+' | '-') product)*
func (p *parser) sum() (expr.Node, error) {
	left, err := p.product()
	if err != nil {
		return nil, err
	}
	for p.tok == tokPlus || p.tok == tokMinus {
		op := expr.AddOp
		if p.tok == tokMinus {
			op = expr.SubOp
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.product()
		if err != nil {
			return nil, err
		}
		left = expr.NewArith(op, left, right)
	}
	return left, nil
}

// product := unary (('*' | '/') unary)*
func (p *parser) product() (expr.Node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.tok == tokStar || p.tok == tokSlash {
		op := expr.MulOp
		if p.tok == tokSlash {
			op = expr.DivOp
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = expr.NewArith(op, left, right)
	}
	return left, nil
}

// unary := ('-' | '+') unary | power
func (p *parser) unary() (expr.Node, error) {
	switch p.tok {
	case tokPlus:
		if err := p.next(); err != nil {
			return nil, err
		}
		return p.unary()
	case tokMinus:
		if err := p.next(); err != nil {
			return nil, err
		}
		n, err := p.unary()
		if err != nil {
			return nil, err
		}
		if lit, ok := p.negate(n); ok {
			return lit, nil
		}
		return expr.Neg(n), nil
	}
	return p.power()
}

// negate folds the sign into a numeric
// literal that came from the formula text
func (p *parser) negate(n expr.Node) (expr.Node, bool) {
	s, ok := n.(*expr.Scalar)
	if !ok {
		return nil, false
	}
	if _, lit := p.lits[s]; !lit || !s.IsRoot() {
		return nil, false
	}
	switch v := s.Value.(type) {
	case int64:
		s.Value = -v
	case float64:
		s.Value = -v
	default:
		return nil, false
	}
	return s, true
}

// power := primary ['**' unary]
func (p *parser) power() (expr.Node, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if p.tok != tokPow {
		return base, nil
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	exp, err := p.unary()
	if err != nil {
		return nil, err
	}
	return expr.Pow(base, exp), nil
}

// primary := number | identifier | '(' sum ')'
func (p *parser) primary() (expr.Node, error) {
	switch p.tok {
	case tokNumber:
		n, err := expr.Operand(p.num)
		if err != nil {
			return nil, err
		}
		p.lits[n.(*expr.Scalar)] = struct{}{}
		return n, p.next()
	case tokIdent:
		n, err := p.lookup(p.text)
		if err != nil {
			return nil, err
		}
		return n, p.next()
	case tokLParen:
		open := p.start
		if err := p.next(); err != nil {
			return nil, err
		}
		n, err := p.sum()
		if err != nil {
			return nil, err
		}
		if p.tok != tokRParen {
			return nil, p.errorf(open, "unclosed '('")
		}
		return n, p.next()
	case tokEOF:
		return nil, p.errorf(p.start, "unexpected end of formula")
	}
	return nil, p.errorf(p.start, "unexpected %s", p.tok)
}

func (p *parser) lookup(name string) (expr.Node, error) {
	if p.collect {
		if _, ok := p.seen[name]; !ok {
			p.seen[name] = struct{}{}
			p.idents = append(p.idents, name)
		}
		// any placeholder will do when
		// only collecting identifiers
		return expr.Operand(name)
	}
	v, ok := p.env[name]
	if !ok {
		return nil, fmt.Errorf("%w %q at position %d", ErrUnbound, name, p.start)
	}
	n, err := expr.Operand(v)
	if err != nil {
		return nil, fmt.Errorf("value of %q: %w", name, err)
	}
	if n == nil {
		return nil, fmt.Errorf("%w %q: value is nil", ErrUnbound, name)
	}
	return n, nil
}

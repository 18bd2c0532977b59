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

package expr

import (
	"strings"
)

// ArithOp is an arithmetic operator
type ArithOp int

const (
	AddOp ArithOp = iota
	SubOp
	MulOp
	DivOp
)

func (a ArithOp) String() string {
	switch a {
	case AddOp:
		return "+"
	case SubOp:
		return "-"
	case MulOp:
		return "*"
	case DivOp:
		return "/"
	default:
		return "<unknown ArithOp>"
	}
}

// Arithmetic is a binary arithmetic expression
type Arithmetic struct {
	base
	Op          ArithOp
	Left, Right Node
}

// NewArith generates a binary arithmetic expression.
func NewArith(op ArithOp, left, right any) *Arithmetic {
	a := &Arithmetic{Op: op}
	a.init(a)
	a.Left = a.need(left, "left-hand-side of "+op.String())
	a.Right = a.need(right, "right-hand-side of "+op.String())
	return a
}

// Add yields 'left + right'
func Add(left, right any) *Arithmetic { return NewArith(AddOp, left, right) }

// Sub yields 'left - right'
func Sub(left, right any) *Arithmetic { return NewArith(SubOp, left, right) }

// Mul yields 'left * right'
func Mul(left, right any) *Arithmetic { return NewArith(MulOp, left, right) }

// Div yields 'left / right'
func Div(left, right any) *Arithmetic { return NewArith(DivOp, left, right) }

func (a *Arithmetic) text(dst *strings.Builder) {
	infix(dst, a.Left, a.Op.String(), a.Right)
}

func infix(dst *strings.Builder, left Node, op string, right Node) {
	dst.WriteByte('(')
	write(dst, left)
	dst.WriteByte(' ')
	dst.WriteString(op)
	dst.WriteByte(' ')
	write(dst, right)
	dst.WriteByte(')')
}

// CmpOp is a comparison operation type
type CmpOp int

const (
	Equals CmpOp = iota
	NotEquals
	Less
	LessEquals
	Greater
	GreaterEquals
)

func (c CmpOp) String() string {
	switch c {
	case Equals:
		return "="
	case NotEquals:
		return "!="
	case Less:
		return "<"
	case LessEquals:
		return "<="
	case Greater:
		return ">"
	case GreaterEquals:
		return ">="
	default:
		return "<unknown CmpOp>"
	}
}

// Comparison is an element-wise comparison
// yielding a boolean coverage or scalar
type Comparison struct {
	base
	Op          CmpOp
	Left, Right Node
}

// Compare generates a comparison expression.
func Compare(op CmpOp, left, right any) *Comparison {
	c := &Comparison{Op: op}
	c.init(c)
	c.Left = c.need(left, "left-hand-side of "+op.String())
	c.Right = c.need(right, "right-hand-side of "+op.String())
	return c
}

// Gt yields 'left > right'
func Gt(left, right any) *Comparison { return Compare(Greater, left, right) }

// Lt yields 'left < right'
func Lt(left, right any) *Comparison { return Compare(Less, left, right) }

// Ge yields 'left >= right'
func Ge(left, right any) *Comparison { return Compare(GreaterEquals, left, right) }

// Le yields 'left <= right'
func Le(left, right any) *Comparison { return Compare(LessEquals, left, right) }

// Eq yields 'left = right'
func Eq(left, right any) *Comparison { return Compare(Equals, left, right) }

// Ne yields 'left != right'
func Ne(left, right any) *Comparison { return Compare(NotEquals, left, right) }

func (c *Comparison) text(dst *strings.Builder) {
	infix(dst, c.Left, c.Op.String(), c.Right)
}

// LogicalOp is a logical (or composition) operator
type LogicalOp int

const (
	OpAnd LogicalOp = iota
	OpOr
	OpXor
	// OpOverlay places the right-hand coverage
	// underneath the non-null values of the left
	OpOverlay
)

func (l LogicalOp) String() string {
	switch l {
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpXor:
		return "xor"
	case OpOverlay:
		return "overlay"
	default:
		return "<unknown LogicalOp>"
	}
}

// Logical is a binary logical expression
type Logical struct {
	base
	Op          LogicalOp
	Left, Right Node
}

// NewLogical generates a binary logical expression.
func NewLogical(op LogicalOp, left, right any) *Logical {
	l := &Logical{Op: op}
	l.init(l)
	l.Left = l.need(left, "left-hand-side of "+op.String())
	l.Right = l.need(right, "right-hand-side of "+op.String())
	return l
}

// And yields 'left and right'
func And(left, right any) *Logical { return NewLogical(OpAnd, left, right) }

// Or yields 'left or right'
func Or(left, right any) *Logical { return NewLogical(OpOr, left, right) }

// Xor yields 'left xor right'
func Xor(left, right any) *Logical { return NewLogical(OpXor, left, right) }

// Overlay yields 'left overlay right'
func Overlay(left, right any) *Logical { return NewLogical(OpOverlay, left, right) }

func (l *Logical) text(dst *strings.Builder) {
	infix(dst, l.Left, l.Op.String(), l.Right)
}

// UnaryOp is a prefix operator
type UnaryOp int

const (
	NegOp UnaryOp = iota
	NotOp
)

func (u UnaryOp) String() string {
	switch u {
	case NegOp:
		return "-"
	case NotOp:
		return "not"
	default:
		return "<unknown UnaryOp>"
	}
}

// Unary is a prefix expression
type Unary struct {
	base
	Op    UnaryOp
	Child Node
}

// NewUnary generates a prefix expression.
func NewUnary(op UnaryOp, child any) *Unary {
	u := &Unary{Op: op}
	u.init(u)
	u.Child = u.need(child, "operand of "+op.String())
	return u
}

// Neg yields '- child'
func Neg(child any) *Unary { return NewUnary(NegOp, child) }

// Not yields 'not child'
func Not(child any) *Unary { return NewUnary(NotOp, child) }

func (u *Unary) text(dst *strings.Builder) {
	dst.WriteByte('(')
	dst.WriteString(u.Op.String())
	dst.WriteByte(' ')
	write(dst, u.Child)
	dst.WriteByte(')')
}

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
	"reflect"
	"strings"

	"github.com/shopspring/decimal"
)

// Node is the interface satisfied by every
// WCPS expression tree node.
//
// The set of Node implementations is closed;
// nodes are created with the constructors
// in this package.
type Node interface {
	// Operands returns the child nodes
	// in the order they were attached.
	Operands() []Node
	// Parent returns the node that most
	// recently adopted this node as an operand,
	// or nil if the node is a root.
	Parent() Node
	// IsRoot returns true if the node has no parent.
	IsRoot() bool
	// Err returns the first builder error
	// recorded on this node, if any.
	Err() error

	core() *base
	text(dst *strings.Builder)
}

// Visitor is an interface that must
// be satisfied by the argument to Visit.
//
// A Visitor's Visit method is invoked for each node encountered by Walk. If
// the result visitor w is not nil, Walk visits each of the children of node
// with the visitor w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(Node) Visitor
}

// Walk traverses an AST in depth-first order: It starts by calling
// v.Visit(node); node must not be nil. If the visitor w returned by
// v.Visit(node) is not nil, Walk is invoked recursively with visitor w for
// each of the operands of node, followed by a call of w.Visit(nil).
func Walk(v Visitor, n Node) {
	w := v.Visit(n)
	if w != nil {
		for _, op := range n.Operands() {
			Walk(w, op)
		}
		w.Visit(nil)
	}
}

// WalkFunc is a Visitor that calls itself
// on every node and stops descending when
// the function returns false.
type WalkFunc func(Node) bool

func (w WalkFunc) Visit(n Node) Visitor {
	if n == nil || !w(n) {
		return nil
	}
	return w
}

// base is embedded in every node and
// holds the state common to all of them.
type base struct {
	self     Node
	operands []Node
	parent   Node
	err      error
}

func (b *base) init(self Node) { b.self = self }

func (b *base) core() *base { return b }

// Operands implements Node.Operands
func (b *base) Operands() []Node { return b.operands }

// Parent implements Node.Parent
func (b *base) Parent() Node { return b.parent }

// IsRoot implements Node.IsRoot
func (b *base) IsRoot() bool { return b.parent == nil }

// Err implements Node.Err
func (b *base) Err() error { return b.err }

// String returns the expression text of
// the node without the query prologue.
func (b *base) String() string { return ToString(b.self) }

// fail records err if no error
// has been recorded yet
func (b *base) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// attach normalizes v and adopts it as
// an operand; nil values are ignored
func (b *base) attach(v any) Node {
	n, err := normalize(v)
	if err != nil {
		b.fail(err)
		return nil
	}
	if n == nil {
		return nil
	}
	if !b.adoptable(n) {
		return nil
	}
	b.adopt(n)
	return n
}

// need is attach for operands
// that are mandatory
func (b *base) need(v any, what string) Node {
	n := b.attach(v)
	if n == nil {
		b.fail(errorf(ErrInvalidOperand, "missing %s", what))
	}
	return n
}

// adoptable returns false (and records
// an error) if making n an operand would
// introduce a cycle
func (b *base) adoptable(n Node) bool {
	if b.self != nil && reaches(n, b.self) {
		b.fail(errorf(ErrInvalidOperand, "an expression cannot be its own operand"))
		return false
	}
	return true
}

func (b *base) adopt(n Node) {
	n.core().parent = b.self
	b.operands = append(b.operands, n)
}

// reaches returns true if to is reachable
// from the subtree rooted at from
func reaches(from, to Node) bool {
	seen := make(map[Node]struct{})
	var search func(n Node) bool
	search = func(n Node) bool {
		if n == to {
			return true
		}
		if _, ok := seen[n]; ok {
			return false
		}
		seen[n] = struct{}{}
		for _, op := range n.Operands() {
			if search(op) {
				return true
			}
		}
		return false
	}
	return search(from)
}

// isNil returns true for nil interfaces
// and for typed nil pointers
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func normalize(v any) (Node, error) {
	if isNil(v) {
		return nil, nil
	}
	switch x := v.(type) {
	case Node:
		return x, nil
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, string, bool, decimal.Decimal:
		return newScalar(x), nil
	}
	return nil, errorf(ErrInvalidOperand,
		"unsupported operand type %T; expected a node, number, string or boolean", v)
}

// Operand converts v into a Node the same way
// builder operands are converted: nodes are
// returned as-is, and numbers, strings and
// booleans become a *Scalar.
//
// Operand returns (nil, nil) for a nil v.
func Operand(v any) (Node, error) {
	return normalize(v)
}

// ToString returns the text of n without
// the query prologue; use Render to produce
// a complete query.
func ToString(n Node) string {
	if isNil(n) {
		return "<nil>"
	}
	var dst strings.Builder
	n.text(&dst)
	return dst.String()
}

func write(dst *strings.Builder, n Node) {
	if isNil(n) {
		dst.WriteString("<nil>")
		return
	}
	n.text(dst)
}

func writeList(dst *strings.Builder, lst []Node, sep string) {
	for i := range lst {
		if i > 0 {
			dst.WriteString(sep)
		}
		write(dst, lst[i])
	}
}

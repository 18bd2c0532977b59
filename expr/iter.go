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

type iterDomain int

const (
	domainUnset iterDomain = iota
	domainInterval
	domainGrid
	domainGeo
)

// AxisIter is an iterator variable ranging
// over one axis, as used in the over clause
// of Condense and Coverage.
type AxisIter struct {
	base
	// Var is the variable name including the '$' sigil
	Var  string
	Axis string

	domain    iterDomain
	low, high Node
	source    Node
}

// Iter declares the iterator variable name
// over the axis named axis. A '$' is prepended
// to name if it does not have one.
//
// One of Interval, OfGridAxis or OfGeoAxis
// must be called to bind the iteration domain.
func Iter(name, axis string) *AxisIter {
	it := &AxisIter{Axis: axis}
	it.init(it)
	name = strings.TrimPrefix(name, "$")
	if name == "" {
		it.fail(errorf(ErrInvalidOperand, "iterator name must not be empty"))
	}
	if axis == "" {
		it.fail(errorf(ErrInvalidOperand, "iterator %s has no axis name", name))
	}
	it.Var = "$" + name
	return it
}

func (it *AxisIter) free() bool {
	if it.domain != domainUnset {
		it.fail(errorf(ErrConflictingIterationDomain, "iteration domain of %s is already set", it.Var))
		return false
	}
	return true
}

// Interval iterates from low to high inclusive.
func (it *AxisIter) Interval(low, high any) *AxisIter {
	if !it.free() {
		return it
	}
	if isNil(low) || isNil(high) {
		it.fail(errorf(ErrInvalidOperand, "interval of %s needs both bounds", it.Var))
		return it
	}
	l, err := normalize(low)
	if err != nil {
		it.fail(err)
		return it
	}
	h, err := normalize(high)
	if err != nil {
		it.fail(err)
		return it
	}
	if !it.adoptable(l) || !it.adoptable(h) {
		return it
	}
	it.adopt(l)
	it.adopt(h)
	it.low, it.high = l, h
	it.domain = domainInterval
	return it
}

// OfGridAxis iterates over the grid
// domain of the same axis of n.
func (it *AxisIter) OfGridAxis(n Node) *AxisIter {
	return it.bind(n, domainGrid)
}

// OfGeoAxis iterates over the geographic
// domain of the same axis of n.
func (it *AxisIter) OfGeoAxis(n Node) *AxisIter {
	return it.bind(n, domainGeo)
}

func (it *AxisIter) bind(n Node, d iterDomain) *AxisIter {
	if !it.free() {
		return it
	}
	if src := it.need(n, "domain source of "+it.Var); src != nil {
		it.source = src
		it.domain = d
	}
	return it
}

// Ref returns a reference to the variable
// for use inside a body expression.
func (it *AxisIter) Ref() *IterRef {
	r := &IterRef{Iter: it}
	r.init(r)
	return r
}

func (it *AxisIter) check() error {
	if it.domain == domainUnset {
		return errorf(ErrMissingIterationDomain,
			"iterator %s has no domain; use Interval, OfGridAxis or OfGeoAxis", it.Var)
	}
	return nil
}

func (it *AxisIter) text(dst *strings.Builder) {
	dst.WriteString(it.Var)
	dst.WriteByte(' ')
	dst.WriteString(it.Axis)
	dst.WriteByte('(')
	switch it.domain {
	case domainInterval:
		write(dst, it.low)
		dst.WriteString(" : ")
		write(dst, it.high)
	case domainGrid:
		dst.WriteString("imageCrsDomain(")
		write(dst, it.source)
		dst.WriteString(", ")
		dst.WriteString(it.Axis)
		dst.WriteByte(')')
	case domainGeo:
		dst.WriteString("domain(")
		write(dst, it.source)
		dst.WriteString(", ")
		dst.WriteString(it.Axis)
		dst.WriteByte(')')
	}
	dst.WriteByte(')')
}

// IterRef cites an iterator variable
// inside a body expression.
type IterRef struct {
	base
	Iter *AxisIter
}

func (r *IterRef) text(dst *strings.Builder) {
	dst.WriteString(r.Iter.Var)
}

// iterators accumulates the over clause
// shared by Condensation and Constructor
type iterators struct {
	list []*AxisIter
}

func (s *iterators) add(owner *base, iters []*AxisIter) {
	names := make(map[string]struct{}, len(s.list)+len(iters))
	for _, it := range s.list {
		names[it.Var] = struct{}{}
	}
	for i, it := range iters {
		if it == nil {
			owner.fail(errorf(ErrInvalidOperand, "iterator %d is nil", i))
			return
		}
		if _, dup := names[it.Var]; dup {
			owner.fail(errorf(ErrDuplicateIteratorName, "iterator %s is declared more than once", it.Var))
			return
		}
		names[it.Var] = struct{}{}
		if !owner.adoptable(it) {
			return
		}
	}
	for _, it := range iters {
		owner.adopt(it)
	}
	s.list = append(s.list, iters...)
}

func (s *iterators) text(dst *strings.Builder) {
	dst.WriteString(" over ")
	for i, it := range s.list {
		if i > 0 {
			dst.WriteString(", ")
		}
		it.text(dst)
	}
}

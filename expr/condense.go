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

// CondenseOp is the reduction
// operator of a Condensation
type CondenseOp string

const (
	CondensePlus     CondenseOp = "+"
	CondenseMultiply CondenseOp = "*"
	CondenseMin      CondenseOp = "min"
	CondenseMax      CondenseOp = "max"
	CondenseAnd      CondenseOp = "and"
	CondenseOr       CondenseOp = "or"
	CondenseOverlay  CondenseOp = "overlay"
)

// Valid returns true if op is one
// of the condense operators.
func (op CondenseOp) Valid() bool {
	switch op {
	case CondensePlus, CondenseMultiply, CondenseMin, CondenseMax,
		CondenseAnd, CondenseOr, CondenseOverlay:
		return true
	}
	return false
}

// Condensation is a general aggregation:
// the using expression is evaluated for every
// combination of the iterator variables and
// the results are reduced with Op.
type Condensation struct {
	base
	Op CondenseOp

	iters       iterators
	where, body Node
}

// Condense returns an aggregation with
// operator op. Over and Using must be
// called before it is rendered.
func Condense(op CondenseOp) *Condensation {
	c := &Condensation{Op: op}
	c.init(c)
	if !op.Valid() {
		c.fail(errorf(ErrInvalidCondenseOp, "%q is not a condense operator", string(op)))
	}
	return c
}

// Over adds iterator variables.
func (c *Condensation) Over(iters ...*AxisIter) *Condensation {
	c.iters.add(&c.base, iters)
	return c
}

// Where sets the filter expression.
func (c *Condensation) Where(cond any) *Condensation {
	if c.where != nil {
		c.fail(errorf(ErrConflictingConfiguration, "condense where clause is already set"))
		return c
	}
	c.where = c.need(cond, "condense where clause")
	return c
}

// Using sets the expression to aggregate.
func (c *Condensation) Using(body any) *Condensation {
	if c.body != nil {
		c.fail(errorf(ErrConflictingConfiguration, "condense using clause is already set"))
		return c
	}
	c.body = c.need(body, "condense using clause")
	return c
}

// Iterators returns the variables
// of the over clause.
func (c *Condensation) Iterators() []*AxisIter { return c.iters.list }

func (c *Condensation) check() error {
	if len(c.iters.list) == 0 {
		return errorf(ErrMissingOverClause, "condense has no iterator variables")
	}
	if c.body == nil {
		return errorf(ErrMissingUsingClause, "condense has no using clause")
	}
	return nil
}

func (c *Condensation) text(dst *strings.Builder) {
	dst.WriteString("(condense ")
	dst.WriteString(string(c.Op))
	c.iters.text(dst)
	if c.where != nil {
		dst.WriteString(" where ")
		write(dst, c.where)
	}
	dst.WriteString(" using ")
	write(dst, c.body)
	dst.WriteByte(')')
}

// Constructor builds a new coverage by
// evaluating an expression for every
// combination of its iterator variables.
type Constructor struct {
	base
	Name string

	iters  iterators
	values Node
	list   []Node
}

// Coverage returns a constructor for a
// coverage called name. Over and one of
// Values or ValueList must be called
// before it is rendered.
func Coverage(name string) *Constructor {
	c := &Constructor{Name: name}
	c.init(c)
	if name == "" {
		c.fail(errorf(ErrInvalidOperand, "coverage name must not be empty"))
	}
	return c
}

// Over adds iterator variables.
func (c *Constructor) Over(iters ...*AxisIter) *Constructor {
	c.iters.add(&c.base, iters)
	return c
}

// Values sets the expression computing
// each cell of the new coverage.
func (c *Constructor) Values(body any) *Constructor {
	switch {
	case c.list != nil:
		c.fail(errorf(ErrConflictingValuesSpecification, "coverage %s already has a value list", c.Name))
	case c.values != nil:
		c.fail(errorf(ErrConflictingConfiguration, "coverage %s values clause is already set", c.Name))
	default:
		c.values = c.need(body, "coverage values clause")
	}
	return c
}

// ValueList sets the cells of the new
// coverage to an explicit list of values.
func (c *Constructor) ValueList(values ...any) *Constructor {
	switch {
	case c.values != nil:
		c.fail(errorf(ErrConflictingValuesSpecification, "coverage %s already has a values clause", c.Name))
		return c
	case c.list != nil:
		c.fail(errorf(ErrConflictingConfiguration, "coverage %s value list is already set", c.Name))
		return c
	case len(values) == 0:
		c.fail(errorf(ErrInvalidOperand, "coverage %s value list must not be empty", c.Name))
		return c
	}
	lst := make([]Node, 0, len(values))
	for i := range values {
		n, err := normalize(values[i])
		if err != nil {
			c.fail(err)
			return c
		}
		if n == nil {
			c.fail(errorf(ErrInvalidOperand, "coverage %s value list entry %d is nil", c.Name, i))
			return c
		}
		if !c.adoptable(n) {
			return c
		}
		lst = append(lst, n)
	}
	for _, n := range lst {
		c.adopt(n)
	}
	c.list = lst
	return c
}

// Iterators returns the variables
// of the over clause.
func (c *Constructor) Iterators() []*AxisIter { return c.iters.list }

func (c *Constructor) check() error {
	if len(c.iters.list) == 0 {
		return errorf(ErrMissingOverClause, "coverage %s has no iterator variables", c.Name)
	}
	if c.values == nil && c.list == nil {
		return errorf(ErrMissingValuesClause, "coverage %s has neither a values clause nor a value list", c.Name)
	}
	return nil
}

func (c *Constructor) text(dst *strings.Builder) {
	dst.WriteString("(coverage ")
	dst.WriteString(c.Name)
	c.iters.text(dst)
	if c.list != nil {
		dst.WriteString(" value list < ")
		writeList(dst, c.list, "; ")
		dst.WriteString(" >")
	} else {
		dst.WriteString(" values ")
		write(dst, c.values)
	}
	dst.WriteByte(')')
}

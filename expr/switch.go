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

// Conditional is a multi-branch switch
// expression. Branches are added with
// strictly alternating Case and Then calls
// and closed with Default.
type Conditional struct {
	base
	cases, thens []Node
	def          Node
}

// Switch returns an empty switch expression.
func Switch() *Conditional {
	c := &Conditional{}
	c.init(c)
	return c
}

// Case opens a branch with condition cond.
func (c *Conditional) Case(cond any) *Conditional {
	switch {
	case c.def != nil:
		c.fail(errorf(ErrMismatchedBranches, "case after default"))
	case len(c.cases) != len(c.thens):
		c.fail(errorf(ErrMismatchedBranches, "case %d has no result; call Then before the next Case", len(c.cases)))
	default:
		if n := c.need(cond, "switch case condition"); n != nil {
			c.cases = append(c.cases, n)
		}
	}
	return c
}

// Then sets the result of the open branch.
func (c *Conditional) Then(result any) *Conditional {
	switch {
	case c.def != nil:
		c.fail(errorf(ErrMismatchedBranches, "then after default"))
	case len(c.cases) != len(c.thens)+1:
		c.fail(errorf(ErrMismatchedBranches, "then without a preceding case"))
	default:
		if n := c.need(result, "switch case result"); n != nil {
			c.thens = append(c.thens, n)
		}
	}
	return c
}

// Default sets the result used when
// no case condition holds.
func (c *Conditional) Default(result any) *Conditional {
	switch {
	case c.def != nil:
		c.fail(errorf(ErrDuplicateDefault, "switch default is already set"))
	case len(c.cases) != len(c.thens):
		c.fail(errorf(ErrMismatchedBranches, "case %d has no result; call Then before Default", len(c.cases)))
	case len(c.thens) == 0:
		c.fail(errorf(ErrMissingBranches, "default needs at least one case"))
	default:
		c.def = c.need(result, "switch default")
	}
	return c
}

func (c *Conditional) check() error {
	if len(c.thens) == 0 {
		return errorf(ErrMissingBranches, "switch has no case branches")
	}
	if c.def == nil {
		return errorf(ErrMissingDefault, "switch has no default")
	}
	return nil
}

func (c *Conditional) text(dst *strings.Builder) {
	dst.WriteString("(switch")
	for i := range c.cases {
		dst.WriteString(" case ")
		write(dst, c.cases[i])
		if i < len(c.thens) {
			dst.WriteString(" return ")
			write(dst, c.thens[i])
		}
	}
	dst.WriteString(" default return ")
	write(dst, c.def)
	dst.WriteByte(')')
}

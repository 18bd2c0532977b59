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
	"errors"
	"fmt"
)

// Sentinel errors classifying builder and
// rendering failures. Every error recorded
// on a node is a *BuildError that unwraps
// to exactly one of these.
var (
	ErrInvalidOperand                 = errors.New("invalid operand")
	ErrNoDatasetReferenced            = errors.New("no datacube referenced")
	ErrInvalidAxisShape               = errors.New("invalid axis shape")
	ErrConflictingConfiguration       = errors.New("conflicting configuration")
	ErrMissingConfiguration           = errors.New("missing configuration")
	ErrInvalidScaleFactor             = errors.New("invalid scale factor")
	ErrInvalidAxisConstraint          = errors.New("invalid axis constraint")
	ErrEmptyCRS                       = errors.New("empty CRS")
	ErrInvalidInterpolation           = errors.New("invalid interpolation method")
	ErrConflictingIterationDomain     = errors.New("conflicting iteration domain")
	ErrMissingIterationDomain         = errors.New("missing iteration domain")
	ErrDuplicateIteratorName          = errors.New("duplicate iterator name")
	ErrMissingOverClause              = errors.New("missing over clause")
	ErrMissingUsingClause             = errors.New("missing using clause")
	ErrMissingValuesClause            = errors.New("missing values clause")
	ErrConflictingValuesSpecification = errors.New("conflicting values specification")
	ErrMismatchedBranches             = errors.New("mismatched switch branches")
	ErrMissingBranches                = errors.New("missing switch branches")
	ErrMissingDefault                 = errors.New("missing switch default")
	ErrDuplicateDefault               = errors.New("duplicate switch default")
	ErrInvalidCondenseOp              = errors.New("invalid condense operator")
	ErrInvalidCastType                = errors.New("invalid cast type")
	ErrInvalidGeometry                = errors.New("invalid geometry")
)

// BuildError is the error type recorded on a node
// when it is constructed or configured incorrectly,
// and returned from Check when a tree is incomplete.
//
// Use errors.Is with one of the Err* sentinels
// to classify a BuildError.
type BuildError struct {
	Kind error
	Msg  string
}

func (b *BuildError) Error() string {
	return b.Kind.Error() + ": " + b.Msg
}

func (b *BuildError) Unwrap() error { return b.Kind }

func errorf(kind error, f string, args ...any) *BuildError {
	return &BuildError{Kind: kind, Msg: fmt.Sprintf(f, args...)}
}

// checker is implemented by nodes that
// can only be rendered once they have
// been configured completely.
type checker interface {
	check() error
}

type checkwalk struct {
	errors []error
	seen   map[Node]struct{}
}

func (c *checkwalk) Visit(n Node) Visitor {
	if n == nil {
		return nil
	}
	if _, ok := c.seen[n]; ok {
		return nil
	}
	c.seen[n] = struct{}{}
	if err := n.Err(); err != nil {
		c.errors = append(c.errors, err)
	} else if ce, ok := n.(checker); ok {
		if err := ce.check(); err != nil {
			c.errors = append(c.errors, err)
		}
	}
	return c
}

func combine(err []error) error {
	if len(err) == 1 {
		return err[0]
	}
	return fmt.Errorf("%w and %d other errors", err[0], len(err)-1)
}

// Check walks the tree rooted at n and returns
// the first recorded builder error, or the first
// node that is missing a required clause.
// Additional failures are counted in the message.
func Check(n Node) error {
	if isNil(n) {
		return errorf(ErrInvalidOperand, "cannot check a nil node")
	}
	c := &checkwalk{seen: make(map[Node]struct{})}
	Walk(c, n)
	if c.errors == nil {
		return nil
	}
	return combine(c.errors)
}

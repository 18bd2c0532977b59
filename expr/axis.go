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

const (
	// AxisMin is the open lower bound of an axis interval
	AxisMin = "*"
	// AxisMax is the open upper bound of an axis interval
	AxisMax = "*"
)

// Axis is a bound on one named dimension:
// a slicing point when High is nil, or
// a trimming interval otherwise.
type Axis struct {
	base
	Name      string
	Low, High Node
	CRS       string
}

// NewAxis returns an axis bound. Pass a nil
// high to slice the axis at low.
func NewAxis(name string, low, high any) *Axis {
	a := &Axis{Name: name}
	a.init(a)
	if name == "" {
		a.fail(errorf(ErrInvalidAxisShape, "axis name must not be empty"))
	}
	a.Low = a.need(low, "lower bound of axis "+name)
	a.High = a.attach(high)
	return a
}

// WithCRS tags the axis bounds with
// a coordinate reference system.
func (a *Axis) WithCRS(crs string) *Axis {
	a.CRS = crs
	return a
}

func (a *Axis) text(dst *strings.Builder) {
	dst.WriteString(a.Name)
	if a.CRS != "" {
		dst.WriteByte(':')
		quote(dst, a.CRS)
	}
	dst.WriteByte('(')
	writeBound(dst, a.Low)
	if a.High != nil {
		dst.WriteByte(':')
		writeBound(dst, a.High)
	}
	dst.WriteByte(')')
}

// writeBound writes an axis bound; the
// open bound "*" is the only unquoted string.
func writeBound(dst *strings.Builder, n Node) {
	if s, ok := n.(*Scalar); ok && s.Value == any(AxisMin) {
		dst.WriteString(AxisMin)
		return
	}
	write(dst, n)
}

// Slice is the slice-like shorthand
// for an axis without a CRS.
type Slice struct {
	Axis      string
	Low, High any
}

func (s Slice) axis() *Axis { return NewAxis(s.Axis, s.Low, s.High) }

// NormalizeAxes converts any of the accepted
// axis shapes into a list of axes:
//
//   - a single *Axis
//   - a single Slice
//   - a []*Axis, or a []any holding only *Axis values
//   - a positional tuple []any{name, low[, high[, crs]]}
//   - a [][]any, or a []any holding only positional tuples
//   - a []Slice, or a []any holding only Slice values
//
// Empty or mixed collections are rejected.
func NormalizeAxes(v any) ([]*Axis, error) {
	switch x := v.(type) {
	case *Axis:
		if x == nil {
			break
		}
		return []*Axis{x}, nil
	case Slice:
		return []*Axis{x.axis()}, nil
	case []*Axis:
		if len(x) == 0 {
			return nil, errorf(ErrInvalidAxisShape, "empty list of axes")
		}
		for i := range x {
			if x[i] == nil {
				return nil, errorf(ErrInvalidAxisShape, "axis %d is nil", i)
			}
		}
		return append([]*Axis(nil), x...), nil
	case []Slice:
		if len(x) == 0 {
			return nil, errorf(ErrInvalidAxisShape, "empty list of axes")
		}
		out := make([]*Axis, len(x))
		for i := range x {
			out[i] = x[i].axis()
		}
		return out, nil
	case [][]any:
		if len(x) == 0 {
			return nil, errorf(ErrInvalidAxisShape, "empty list of axes")
		}
		return tuples(x)
	case []any:
		return normalizeList(x)
	}
	return nil, errorf(ErrInvalidAxisShape, "cannot use %T as an axis specification", v)
}

func normalizeList(lst []any) ([]*Axis, error) {
	if len(lst) == 0 {
		return nil, errorf(ErrInvalidAxisShape, "empty list of axes")
	}
	switch lst[0].(type) {
	case string:
		a, err := tuple(lst)
		if err != nil {
			return nil, err
		}
		return []*Axis{a}, nil
	case *Axis:
		out := make([]*Axis, len(lst))
		for i := range lst {
			a, ok := lst[i].(*Axis)
			if !ok || a == nil {
				return nil, mixed(lst[i])
			}
			out[i] = a
		}
		return out, nil
	case Slice:
		out := make([]*Axis, len(lst))
		for i := range lst {
			s, ok := lst[i].(Slice)
			if !ok {
				return nil, mixed(lst[i])
			}
			out[i] = s.axis()
		}
		return out, nil
	case []any:
		tup := make([][]any, len(lst))
		for i := range lst {
			t, ok := lst[i].([]any)
			if !ok {
				return nil, mixed(lst[i])
			}
			tup[i] = t
		}
		return tuples(tup)
	}
	return nil, errorf(ErrInvalidAxisShape, "cannot use %T as an axis specification", lst[0])
}

func mixed(v any) error {
	return errorf(ErrInvalidAxisShape, "axis list mixes shapes: unexpected %T", v)
}

func tuples(lst [][]any) ([]*Axis, error) {
	out := make([]*Axis, len(lst))
	for i := range lst {
		a, err := tuple(lst[i])
		if err != nil {
			return nil, err
		}
		out[i] = a
	}
	return out, nil
}

// tuple converts {name, low[, high[, crs]]}
func tuple(t []any) (*Axis, error) {
	if len(t) < 2 || len(t) > 4 {
		return nil, errorf(ErrInvalidAxisShape, "positional axis needs 2 to 4 elements, got %d", len(t))
	}
	name, ok := t[0].(string)
	if !ok || name == "" {
		return nil, errorf(ErrInvalidAxisShape, "axis name must be a non-empty string, got %#v", t[0])
	}
	var high any
	if len(t) > 2 {
		high = t[2]
	}
	a := NewAxis(name, t[1], high)
	if len(t) == 4 && t[3] != nil {
		crs, ok := t[3].(string)
		if !ok {
			return nil, errorf(ErrInvalidAxisShape, "CRS of axis %s must be a string, got %T", name, t[3])
		}
		a.WithCRS(crs)
	}
	return a, nil
}

// attachAxes normalizes v and adopts every
// axis as an operand of b
func (b *base) attachAxes(v any) ([]*Axis, bool) {
	axes, err := NormalizeAxes(v)
	if err != nil {
		b.fail(err)
		return nil, false
	}
	for _, a := range axes {
		if !b.adoptable(a) {
			return nil, false
		}
	}
	for _, a := range axes {
		b.adopt(a)
	}
	return axes, true
}

func writeAxes(dst *strings.Builder, axes []*Axis) {
	for i := range axes {
		if i > 0 {
			dst.WriteString(", ")
		}
		axes[i].text(dst)
	}
}

// Subsetting trims or slices a coverage
type Subsetting struct {
	base
	Target Node
	Axes   []*Axis
}

// Subset yields 'target[axis1, axis2, ...]'.
// See NormalizeAxes for the accepted axis shapes.
func Subset(target any, axes any) *Subsetting {
	s := &Subsetting{}
	s.init(s)
	s.Target = s.need(target, "subset target")
	s.Axes, _ = s.attachAxes(axes)
	return s
}

func (s *Subsetting) text(dst *strings.Builder) {
	write(dst, s.Target)
	dst.WriteByte('[')
	writeAxes(dst, s.Axes)
	dst.WriteByte(']')
}

// Extension enlarges the domain of a coverage
type Extension struct {
	base
	Target Node
	Axes   []*Axis
}

// Extend yields 'extend(target, { axis1, ... })'.
func Extend(target any, axes any) *Extension {
	e := &Extension{}
	e.init(e)
	e.Target = e.need(target, "extend target")
	e.Axes, _ = e.attachAxes(axes)
	return e
}

func (e *Extension) text(dst *strings.Builder) {
	dst.WriteString("extend(")
	write(dst, e.Target)
	dst.WriteString(", { ")
	writeAxes(dst, e.Axes)
	dst.WriteString(" })")
}

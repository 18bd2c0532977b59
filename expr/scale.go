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

type scaleMode int

const (
	scaleUnset scaleMode = iota
	scaleGrid
	scaleDomainOf
	scaleFactor
	scaleAxisFactors
)

// Scaling resamples a coverage.
//
// Exactly one of ToExplicitGridDomain,
// ToGridDomainOf, ByFactor or ByFactorPerAxis
// must be called before the node is rendered.
type Scaling struct {
	base
	Target Node

	mode   scaleMode
	axes   []*Axis
	other  Node
	factor Node
}

// Scale returns a scaling of target
// with no mode configured.
func Scale(target any) *Scaling {
	s := &Scaling{}
	s.init(s)
	s.Target = s.need(target, "scale target")
	return s
}

func (s *Scaling) free() bool {
	if s.mode != scaleUnset {
		s.fail(errorf(ErrConflictingConfiguration, "scale target is already configured"))
		return false
	}
	return true
}

// ToExplicitGridDomain scales to the given
// per-axis grid bounds.
func (s *Scaling) ToExplicitGridDomain(axes any) *Scaling {
	if !s.free() {
		return s
	}
	if lst, ok := s.attachAxes(axes); ok {
		s.axes = lst
		s.mode = scaleGrid
	}
	return s
}

// ToGridDomainOf scales to the grid
// domain of another expression.
func (s *Scaling) ToGridDomainOf(other Node) *Scaling {
	if !s.free() {
		return s
	}
	if n := s.need(other, "scale domain source"); n != nil {
		s.other = n
		s.mode = scaleDomainOf
	}
	return s
}

// ByFactor scales every axis by factor,
// which must be a positive number.
func (s *Scaling) ByFactor(factor any) *Scaling {
	if !s.free() {
		return s
	}
	if sgn, ok := sign(factor); !ok || sgn <= 0 {
		s.fail(errorf(ErrInvalidScaleFactor, "scale factor must be a positive number, got %v", factor))
		return s
	}
	s.factor = s.attach(factor)
	s.mode = scaleFactor
	return s
}

// ByFactorPerAxis scales each listed axis
// by its own factor, given as the axis low
// bound. The axes must not have a high
// bound or a CRS.
func (s *Scaling) ByFactorPerAxis(axes any) *Scaling {
	if !s.free() {
		return s
	}
	lst, err := NormalizeAxes(axes)
	if err != nil {
		s.fail(err)
		return s
	}
	for _, a := range lst {
		if a.High != nil || a.CRS != "" {
			s.fail(errorf(ErrInvalidAxisConstraint, "scale factor of axis %s must be a single value without a CRS", a.Name))
			return s
		}
		lit, ok := a.Low.(*Scalar)
		if !ok {
			s.fail(errorf(ErrInvalidScaleFactor, "scale factor of axis %s must be a number", a.Name))
			return s
		}
		if sgn, ok := sign(lit.Value); !ok || sgn <= 0 {
			s.fail(errorf(ErrInvalidScaleFactor, "scale factor of axis %s must be positive, got %v", a.Name, lit.Value))
			return s
		}
	}
	if lst, ok := s.attachAxes(lst); ok {
		s.axes = lst
		s.mode = scaleAxisFactors
	}
	return s
}

func (s *Scaling) check() error {
	if s.mode == scaleUnset {
		return errorf(ErrMissingConfiguration,
			"scale has no target; use one of ToExplicitGridDomain, ToGridDomainOf, ByFactor or ByFactorPerAxis")
	}
	return nil
}

func (s *Scaling) text(dst *strings.Builder) {
	dst.WriteString("scale(")
	write(dst, s.Target)
	switch s.mode {
	case scaleGrid, scaleAxisFactors:
		dst.WriteString(", { ")
		writeAxes(dst, s.axes)
		dst.WriteString(" }")
	case scaleDomainOf:
		dst.WriteString(", { imageCrsDomain(")
		write(dst, s.other)
		dst.WriteString(") }")
	case scaleFactor:
		dst.WriteString(", ")
		write(dst, s.factor)
	}
	dst.WriteByte(')')
}

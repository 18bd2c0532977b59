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

// ResampleAlg is an interpolation
// method used by Reproject
type ResampleAlg string

const (
	Near        ResampleAlg = "near"
	Bilinear    ResampleAlg = "bilinear"
	Cubic       ResampleAlg = "cubic"
	CubicSpline ResampleAlg = "cubicspline"
	Lanczos     ResampleAlg = "lanczos"
	Average     ResampleAlg = "average"
	Mode        ResampleAlg = "mode"
	MaxResample ResampleAlg = "max"
	MinResample ResampleAlg = "min"
	Median      ResampleAlg = "med"
	Q1          ResampleAlg = "q1"
	Q3          ResampleAlg = "q3"
)

// Valid returns true if r is one
// of the supported interpolation methods.
func (r ResampleAlg) Valid() bool {
	switch r {
	case Near, Bilinear, Cubic, CubicSpline, Lanczos, Average,
		Mode, MaxResample, MinResample, Median, Q1, Q3:
		return true
	}
	return false
}

// Reprojection transforms a coverage
// into another coordinate reference system.
type Reprojection struct {
	base
	Target        Node
	CRS           string
	Interpolation ResampleAlg

	resolutions []*Axis
	crop        []*Axis
	domain      Node
}

// Reproject yields 'crsTransform(target, "crs")'.
// The interpolation may be empty.
func Reproject(target any, crs string, interpolation ResampleAlg) *Reprojection {
	r := &Reprojection{CRS: strings.TrimSpace(crs)}
	r.init(r)
	r.Target = r.need(target, "reprojection target")
	if r.CRS == "" {
		r.fail(errorf(ErrEmptyCRS, "target CRS must not be empty"))
	}
	interpolation = ResampleAlg(strings.TrimSpace(string(interpolation)))
	if interpolation != "" && !interpolation.Valid() {
		r.fail(errorf(ErrInvalidInterpolation, "%q is not a supported interpolation method", string(interpolation)))
	} else {
		r.Interpolation = interpolation
	}
	return r
}

// ToAxisResolutions sets the target resolution
// of each listed axis, given as the axis low
// bound. The axes must not have a high bound
// or a CRS.
func (r *Reprojection) ToAxisResolutions(axes any) *Reprojection {
	if r.resolutions != nil {
		r.fail(errorf(ErrConflictingConfiguration, "axis resolutions are already set"))
		return r
	}
	lst, err := NormalizeAxes(axes)
	if err != nil {
		r.fail(err)
		return r
	}
	for _, a := range lst {
		if a.High != nil || a.CRS != "" {
			r.fail(errorf(ErrInvalidAxisConstraint, "resolution of axis %s must be a single value without a CRS", a.Name))
			return r
		}
	}
	if lst, ok := r.attachAxes(lst); ok {
		r.resolutions = lst
	}
	return r
}

// SubsetByAxes crops the result to the listed
// axis intervals. Every axis needs both bounds
// and no CRS.
func (r *Reprojection) SubsetByAxes(axes any) *Reprojection {
	if r.crop != nil || r.domain != nil {
		r.fail(errorf(ErrConflictingConfiguration, "reprojection subset is already set"))
		return r
	}
	lst, err := NormalizeAxes(axes)
	if err != nil {
		r.fail(err)
		return r
	}
	for _, a := range lst {
		if a.High == nil || a.CRS != "" {
			r.fail(errorf(ErrInvalidAxisConstraint, "subset of axis %s needs a low and high bound without a CRS", a.Name))
			return r
		}
	}
	if lst, ok := r.attachAxes(lst); ok {
		r.crop = lst
	}
	return r
}

// SubsetByDomainOf crops the result to the
// domain of another expression.
func (r *Reprojection) SubsetByDomainOf(other Node) *Reprojection {
	if r.crop != nil || r.domain != nil {
		r.fail(errorf(ErrConflictingConfiguration, "reprojection subset is already set"))
		return r
	}
	r.domain = r.need(other, "reprojection domain source")
	return r
}

func (r *Reprojection) text(dst *strings.Builder) {
	dst.WriteString("crsTransform(")
	write(dst, r.Target)
	dst.WriteString(", ")
	quote(dst, r.CRS)
	if r.Interpolation != "" {
		dst.WriteString(", { ")
		dst.WriteString(string(r.Interpolation))
		dst.WriteString(" }")
	}
	if len(r.resolutions) > 0 {
		dst.WriteString(", { ")
		for i, a := range r.resolutions {
			if i > 0 {
				dst.WriteString(", ")
			}
			dst.WriteString(a.Name)
			dst.WriteByte(':')
			write(dst, a.Low)
		}
		dst.WriteString(" }")
	}
	if len(r.crop) > 0 {
		dst.WriteString(", { ")
		writeAxes(dst, r.crop)
		dst.WriteString(" }")
	} else if r.domain != nil {
		dst.WriteString(", { domain(")
		write(dst, r.domain)
		dst.WriteString(") }")
	}
	dst.WriteByte(')')
}

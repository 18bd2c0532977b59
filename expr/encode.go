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
	"regexp"
	"strings"
)

// Encoding serializes a coverage into a
// data format such as PNG, GeoTIFF or JSON.
type Encoding struct {
	base
	Inner   Node
	Format  string
	Options string
}

// Encode yields 'encode(inner, "format")'.
//
// An empty format may be supplied later with To.
func Encode(inner any, format string) *Encoding {
	e := &Encoding{Format: format}
	e.init(e)
	e.Inner = e.need(inner, "operand of encode")
	return e
}

// To sets the output format.
func (e *Encoding) To(format string) *Encoding {
	e.Format = format
	return e
}

// Params sets the format-specific
// encoding parameters.
func (e *Encoding) Params(params string) *Encoding {
	e.Options = params
	return e
}

func (e *Encoding) check() error {
	if e.Format == "" {
		return errorf(ErrMissingConfiguration, "encode has no output format")
	}
	return nil
}

func (e *Encoding) text(dst *strings.Builder) {
	dst.WriteString("encode(")
	write(dst, e.Inner)
	dst.WriteString(", ")
	quote(dst, e.Format)
	if e.Options != "" {
		dst.WriteString(", ")
		quote(dst, e.Options)
	}
	dst.WriteByte(')')
}

var geometryRegex = regexp.MustCompile(`(?i)\b(LineString|Polygon|MultiLineString|MultiPolygon|Curtain|Corridor)\b`)

// Clipping cuts a coverage to a WKT geometry.
type Clipping struct {
	base
	Inner Node
	WKT   string
}

// Clip yields 'clip(inner, wkt)'.
func Clip(inner any, wkt string) *Clipping {
	c := &Clipping{WKT: wkt}
	c.init(c)
	c.Inner = c.need(inner, "operand of clip")
	if !geometryRegex.MatchString(wkt) {
		c.fail(errorf(ErrInvalidGeometry, "%q is not a supported WKT geometry", wkt))
	}
	return c
}

func (c *Clipping) text(dst *strings.Builder) {
	dst.WriteString("clip(")
	write(dst, c.Inner)
	dst.WriteString(", ")
	dst.WriteString(c.WKT)
	dst.WriteByte(')')
}

// UserFunc is a call to a user-defined
// function registered with the server.
type UserFunc struct {
	base
	Name string
	Args []Node
}

// Udf yields 'name(args...)'.
func Udf(name string, args ...any) *UserFunc {
	u := &UserFunc{Name: name}
	u.init(u)
	if name == "" {
		u.fail(errorf(ErrInvalidOperand, "user-defined function name must not be empty"))
	}
	for i := range args {
		u.Args = append(u.Args, u.need(args[i], "argument of "+name))
	}
	return u
}

func (u *UserFunc) text(dst *strings.Builder) {
	dst.WriteString(u.Name)
	dst.WriteByte('(')
	writeList(dst, u.Args, ", ")
	dst.WriteByte(')')
}

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
	"strconv"
	"strings"
)

// Band selects one band (range field)
// of a multi-band coverage.
type Band struct {
	base
	Inner Node
	// Name is the band name or its
	// zero-based index in decimal.
	Name string
}

// Field yields 'inner.name'.
// The name must be a string
// or a non-negative integer.
func Field(inner any, name any) *Band {
	b := &Band{}
	b.init(b)
	b.Inner = b.need(inner, "coverage of field access")
	switch x := name.(type) {
	case string:
		if x == "" {
			b.fail(errorf(ErrInvalidOperand, "field name must not be empty"))
		}
		b.Name = x
	case int:
		if x < 0 {
			b.fail(errorf(ErrInvalidOperand, "field index %d is negative", x))
		}
		b.Name = strconv.Itoa(x)
	default:
		b.fail(errorf(ErrInvalidOperand, "field must be a name or an index, not %T", name))
	}
	return b
}

func (b *Band) text(dst *strings.Builder) {
	write(dst, b.Inner)
	dst.WriteByte('.')
	dst.WriteString(b.Name)
}

// BandValue is one named component
// of a multi-band constructor
type BandValue struct {
	Name  string
	Value any
}

// MultiBand composes several expressions
// into one multi-band value.
type MultiBand struct {
	base
	Names  []string
	Values []Node
}

// Bands yields '{name1: v1; name2: v2}'.
func Bands(fields ...BandValue) *MultiBand {
	m := &MultiBand{}
	m.init(m)
	if len(fields) == 0 {
		m.fail(errorf(ErrInvalidOperand, "a multi-band value needs at least one band"))
		return m
	}
	seen := make(map[string]struct{}, len(fields))
	for i := range fields {
		name := fields[i].Name
		if name == "" {
			m.fail(errorf(ErrInvalidOperand, "band %d has an empty name", i))
			continue
		}
		if _, dup := seen[name]; dup {
			m.fail(errorf(ErrInvalidOperand, "band %q specified more than once", name))
			continue
		}
		seen[name] = struct{}{}
		m.Names = append(m.Names, name)
		m.Values = append(m.Values, m.need(fields[i].Value, "value of band "+strconv.Quote(name)))
	}
	return m
}

// RGB yields '{red: r; green: g; blue: b}'
func RGB(r, g, b any) *MultiBand {
	return Bands(BandValue{"red", r}, BandValue{"green", g}, BandValue{"blue", b})
}

// RGBA yields '{red: r; green: g; blue: b; alpha: a}'
func RGBA(r, g, b, a any) *MultiBand {
	return Bands(BandValue{"red", r}, BandValue{"green", g}, BandValue{"blue", b}, BandValue{"alpha", a})
}

func (m *MultiBand) text(dst *strings.Builder) {
	dst.WriteByte('{')
	for i := range m.Names {
		if i > 0 {
			dst.WriteString("; ")
		}
		dst.WriteString(m.Names[i])
		dst.WriteString(": ")
		write(dst, m.Values[i])
	}
	dst.WriteByte('}')
}

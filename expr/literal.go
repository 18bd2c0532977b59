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
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Scalar is a literal number, string or boolean.
//
// Scalars are created implicitly whenever a
// plain Go value is passed where a Node
// operand is expected.
type Scalar struct {
	base
	Value any
}

func newScalar(v any) *Scalar {
	s := &Scalar{Value: v}
	s.init(s)
	return s
}

func (s *Scalar) text(dst *strings.Builder) {
	writeLiteral(dst, s.Value)
}

func writeLiteral(dst *strings.Builder, v any) {
	switch x := v.(type) {
	case string:
		quote(dst, x)
	case bool:
		if x {
			dst.WriteString("true")
		} else {
			dst.WriteString("false")
		}
	case float64:
		dst.WriteString(formatFloat(x, 64))
	case float32:
		dst.WriteString(formatFloat(float64(x), 32))
	case decimal.Decimal:
		dst.WriteString(x.String())
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		fmt.Fprintf(dst, "%d", x)
	default:
		fmt.Fprintf(dst, "%v", x)
	}
}

// formatFloat produces the shortest
// representation of f that round-trips,
// always including a decimal point or
// exponent so the value reads as a float
func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	if abs := math.Abs(f); abs == 0 || (abs >= 1e-4 && abs < 1e16) {
		s := strconv.FormatFloat(f, 'f', -1, bits)
		if !strings.ContainsRune(s, '.') {
			s += ".0"
		}
		return s
	}
	return strconv.FormatFloat(f, 'g', -1, bits)
}

// quote writes s in double quotes,
// escaping every double quote that
// is not already escaped
func quote(dst *strings.Builder, s string) {
	dst.WriteByte('"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' && (i == 0 || s[i-1] != '\\') {
			dst.WriteByte('\\')
		}
		dst.WriteByte(s[i])
	}
	dst.WriteByte('"')
}

// sign returns the sign of a numeric
// literal, and false if v is not numeric
func sign(v any) (int, bool) {
	var f float64
	switch x := v.(type) {
	case int:
		f = float64(x)
	case int8:
		f = float64(x)
	case int16:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint8:
		f = float64(x)
	case uint16:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case float32:
		f = float64(x)
	case float64:
		f = x
	case decimal.Decimal:
		return x.Sign(), true
	default:
		return 0, false
	}
	switch {
	case math.IsNaN(f):
		return 0, false
	case f > 0:
		return 1, true
	case f < 0:
		return -1, true
	}
	return 0, true
}

// Datacube is a reference to a stored coverage.
//
// Rendering a Datacube produces its iteration
// variable "$name", and the query prologue binds
// that variable to the coverage of the same name.
type Datacube struct {
	base
	Name string
}

// Cube returns a reference to the coverage name.
func Cube(name string) *Datacube {
	d := &Datacube{Name: name}
	d.init(d)
	if strings.TrimSpace(name) == "" {
		d.fail(errorf(ErrInvalidOperand, "datacube name must not be empty"))
	}
	return d
}

func (d *Datacube) text(dst *strings.Builder) {
	dst.WriteByte('$')
	dst.WriteString(d.Name)
}

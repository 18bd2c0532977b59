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

// CastType is a WCPS cell type
type CastType string

const (
	CastBoolean       CastType = "boolean"
	CastChar          CastType = "char"
	CastUnsignedChar  CastType = "unsigned char"
	CastShort         CastType = "short"
	CastUnsignedShort CastType = "unsigned short"
	CastInt           CastType = "int"
	CastUnsignedInt   CastType = "unsigned int"
	CastLong          CastType = "long"
	CastUnsignedLong  CastType = "unsigned long"
	CastFloat         CastType = "float"
	CastDouble        CastType = "double"
	CastCInt16        CastType = "cint16"
	CastCInt32        CastType = "cint32"
	CastComplex       CastType = "complex"
	CastComplex2      CastType = "complex2"
)

// Valid returns true if c is
// one of the known cell types.
func (c CastType) Valid() bool {
	switch c {
	case CastBoolean, CastChar, CastUnsignedChar,
		CastShort, CastUnsignedShort, CastInt,
		CastUnsignedInt, CastLong, CastUnsignedLong,
		CastFloat, CastDouble, CastCInt16, CastCInt32,
		CastComplex, CastComplex2:
		return true
	}
	return false
}

// Cast converts the cell type of a coverage
type Cast struct {
	base
	Inner Node
	Type  CastType
}

// CastTo yields '((type) inner)'.
//
// An empty type may be supplied later with To.
func CastTo(inner any, to CastType) *Cast {
	c := &Cast{}
	c.init(c)
	c.Inner = c.need(inner, "operand of cast")
	if to != "" {
		c.To(to)
	}
	return c
}

// To sets the target cell type.
func (c *Cast) To(to CastType) *Cast {
	if !to.Valid() {
		c.fail(errorf(ErrInvalidCastType, "%q is not a cell type", string(to)))
		return c
	}
	c.Type = to
	return c
}

func (c *Cast) check() error {
	if c.Type == "" {
		return errorf(ErrMissingConfiguration, "cast has no target type")
	}
	return nil
}

func (c *Cast) text(dst *strings.Builder) {
	dst.WriteString("((")
	dst.WriteString(string(c.Type))
	dst.WriteString(") ")
	write(dst, c.Inner)
	dst.WriteByte(')')
}

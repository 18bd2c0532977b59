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

// The methods below are promoted to every
// node type so that expressions can be
// written left to right:
//
//	Cube("A").Sub(Cube("B")).Abs().Gt(5)
//
// Each one delegates to the package-level
// constructor of the same name with the
// receiver as the first operand.

func (b *base) Add(x any) *Arithmetic { return Add(b.self, x) }
func (b *base) Sub(x any) *Arithmetic { return Sub(b.self, x) }
func (b *base) Mul(x any) *Arithmetic { return Mul(b.self, x) }
func (b *base) Div(x any) *Arithmetic { return Div(b.self, x) }
func (b *base) Neg() *Unary           { return Neg(b.self) }

func (b *base) Gt(x any) *Comparison { return Gt(b.self, x) }
func (b *base) Lt(x any) *Comparison { return Lt(b.self, x) }
func (b *base) Ge(x any) *Comparison { return Ge(b.self, x) }
func (b *base) Le(x any) *Comparison { return Le(b.self, x) }
func (b *base) Eq(x any) *Comparison { return Eq(b.self, x) }
func (b *base) Ne(x any) *Comparison { return Ne(b.self, x) }

func (b *base) And(x any) *Logical     { return And(b.self, x) }
func (b *base) Or(x any) *Logical      { return Or(b.self, x) }
func (b *base) Xor(x any) *Logical     { return Xor(b.self, x) }
func (b *base) Overlay(x any) *Logical { return Overlay(b.self, x) }
func (b *base) Not() *Unary            { return Not(b.self) }

func (b *base) Mod(x any) *Builtin     { return Mod(b.self, x) }
func (b *base) Pow(x any) *Builtin     { return Pow(b.self, x) }
func (b *base) Bit(pos any) *Builtin   { return Bit(b.self, pos) }
func (b *base) Abs() *Builtin          { return Abs(b.self) }
func (b *base) Round() *Builtin        { return Round(b.self) }
func (b *base) Floor() *Builtin        { return Floor(b.self) }
func (b *base) Ceil() *Builtin         { return Ceil(b.self) }
func (b *base) Exp() *Builtin          { return Exp(b.self) }
func (b *base) Log() *Builtin          { return Log(b.self) }
func (b *base) Ln() *Builtin           { return Ln(b.self) }
func (b *base) Sqrt() *Builtin         { return Sqrt(b.self) }
func (b *base) Sin() *Builtin          { return Sin(b.self) }
func (b *base) Cos() *Builtin          { return Cos(b.self) }
func (b *base) Tan() *Builtin          { return Tan(b.self) }
func (b *base) Sinh() *Builtin         { return Sinh(b.self) }
func (b *base) Cosh() *Builtin         { return Cosh(b.self) }
func (b *base) Tanh() *Builtin         { return Tanh(b.self) }
func (b *base) ArcSin() *Builtin       { return ArcSin(b.self) }
func (b *base) ArcCos() *Builtin       { return ArcCos(b.self) }
func (b *base) ArcTan() *Builtin       { return ArcTan(b.self) }
func (b *base) ArcTan2(x any) *Builtin { return ArcTan2(b.self, x) }

func (b *base) Sum() *Builtin   { return Sum(b.self) }
func (b *base) Count() *Builtin { return Count(b.self) }
func (b *base) Avg() *Builtin   { return Avg(b.self) }
func (b *base) Min() *Builtin   { return Min(b.self) }
func (b *base) Max() *Builtin   { return Max(b.self) }
func (b *base) All() *Builtin   { return All(b.self) }
func (b *base) Some() *Builtin  { return Some(b.self) }

// Field yields 'self.name'; see Field.
func (b *base) Field(name any) *Band { return Field(b.self, name) }

// Subset yields 'self[axes...]'; see Subset.
func (b *base) Subset(axes any) *Subsetting { return Subset(b.self, axes) }

// Extend yields 'extend(self, { axes... })'.
func (b *base) Extend(axes any) *Extension { return Extend(b.self, axes) }

// Scale returns an unconfigured scaling of self.
func (b *base) Scale() *Scaling { return Scale(b.self) }

// Reproject yields 'crsTransform(self, "crs", ...)'.
func (b *base) Reproject(crs string, interpolation ResampleAlg) *Reprojection {
	return Reproject(b.self, crs, interpolation)
}

func (b *base) CastTo(to CastType) *Cast       { return CastTo(b.self, to) }
func (b *base) Encode(format string) *Encoding { return Encode(b.self, format) }
func (b *base) Clip(wkt string) *Clipping      { return Clip(b.self, wkt) }

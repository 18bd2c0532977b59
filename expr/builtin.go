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

// BuiltinOp is one of the WCPS built-in functions
type BuiltinOp int

const (
	FnMod BuiltinOp = iota
	FnPow
	FnBit
	FnAbs
	FnRound
	FnFloor
	FnCeil
	FnExp
	FnLog
	FnLn
	FnSqrt
	FnSin
	FnCos
	FnTan
	FnSinh
	FnCosh
	FnTanh
	FnArcSin
	FnArcCos
	FnArcTan
	FnArcTan2

	// aggregations reduce a coverage to a scalar
	FnSum
	FnCount
	FnAvg
	FnMin
	FnMax
	FnAll
	FnSome

	maxBuiltin
)

type builtinInfo struct {
	name string
	args int
}

var builtinInfos = [maxBuiltin]builtinInfo{
	FnMod:     {"mod", 2},
	FnPow:     {"pow", 2},
	FnBit:     {"bit", 2},
	FnAbs:     {"abs", 1},
	FnRound:   {"round", 1},
	FnFloor:   {"floor", 1},
	FnCeil:    {"ceil", 1},
	FnExp:     {"exp", 1},
	FnLog:     {"log", 1},
	FnLn:      {"ln", 1},
	FnSqrt:    {"sqrt", 1},
	FnSin:     {"sin", 1},
	FnCos:     {"cos", 1},
	FnTan:     {"tan", 1},
	FnSinh:    {"sinh", 1},
	FnCosh:    {"cosh", 1},
	FnTanh:    {"tanh", 1},
	FnArcSin:  {"arcsin", 1},
	FnArcCos:  {"arccos", 1},
	FnArcTan:  {"arctan", 1},
	FnArcTan2: {"arctan2", 2},
	FnSum:     {"sum", 1},
	FnCount:   {"count", 1},
	FnAvg:     {"avg", 1},
	FnMin:     {"min", 1},
	FnMax:     {"max", 1},
	FnAll:     {"all", 1},
	FnSome:    {"some", 1},
}

func (b BuiltinOp) String() string {
	if b < 0 || b >= maxBuiltin {
		return "<unknown BuiltinOp>"
	}
	return builtinInfos[b].name
}

// Arity returns the number of
// arguments the function accepts.
func (b BuiltinOp) Arity() int {
	if b < 0 || b >= maxBuiltin {
		return -1
	}
	return builtinInfos[b].args
}

// IsAggregate returns true for the
// functions that condense a coverage
// into a single value.
func (b BuiltinOp) IsAggregate() bool {
	return b >= FnSum && b < maxBuiltin
}

// Builtin is a call to a built-in function
type Builtin struct {
	base
	Func BuiltinOp
	Args []Node
}

// Call yields 'op(args...)'
func Call(op BuiltinOp, args ...any) *Builtin {
	b := &Builtin{Func: op}
	b.init(b)
	if op < 0 || op >= maxBuiltin {
		b.fail(errorf(ErrInvalidOperand, "unknown built-in function %d", int(op)))
		return b
	}
	if len(args) != op.Arity() {
		b.fail(errorf(ErrInvalidOperand, "%s expects %d argument(s) but got %d", op, op.Arity(), len(args)))
		return b
	}
	for i := range args {
		b.Args = append(b.Args, b.need(args[i], "argument of "+op.String()))
	}
	return b
}

func (b *Builtin) text(dst *strings.Builder) {
	dst.WriteString(b.Func.String())
	dst.WriteByte('(')
	writeList(dst, b.Args, ", ")
	dst.WriteByte(')')
}

// Mod yields 'mod(a, b)'
func Mod(a, b any) *Builtin { return Call(FnMod, a, b) }

// Pow yields 'pow(a, b)'
func Pow(a, b any) *Builtin { return Call(FnPow, a, b) }

// Bit yields 'bit(a, pos)'
func Bit(a, pos any) *Builtin { return Call(FnBit, a, pos) }

func Abs(a any) *Builtin        { return Call(FnAbs, a) }
func Round(a any) *Builtin      { return Call(FnRound, a) }
func Floor(a any) *Builtin      { return Call(FnFloor, a) }
func Ceil(a any) *Builtin       { return Call(FnCeil, a) }
func Exp(a any) *Builtin        { return Call(FnExp, a) }
func Log(a any) *Builtin        { return Call(FnLog, a) }
func Ln(a any) *Builtin         { return Call(FnLn, a) }
func Sqrt(a any) *Builtin       { return Call(FnSqrt, a) }
func Sin(a any) *Builtin        { return Call(FnSin, a) }
func Cos(a any) *Builtin        { return Call(FnCos, a) }
func Tan(a any) *Builtin        { return Call(FnTan, a) }
func Sinh(a any) *Builtin       { return Call(FnSinh, a) }
func Cosh(a any) *Builtin       { return Call(FnCosh, a) }
func Tanh(a any) *Builtin       { return Call(FnTanh, a) }
func ArcSin(a any) *Builtin     { return Call(FnArcSin, a) }
func ArcCos(a any) *Builtin     { return Call(FnArcCos, a) }
func ArcTan(a any) *Builtin     { return Call(FnArcTan, a) }
func ArcTan2(a, b any) *Builtin { return Call(FnArcTan2, a, b) }

// Sum yields 'sum(a)'
func Sum(a any) *Builtin   { return Call(FnSum, a) }
func Count(a any) *Builtin { return Call(FnCount, a) }
func Avg(a any) *Builtin   { return Call(FnAvg, a) }
func Min(a any) *Builtin   { return Call(FnMin, a) }
func Max(a any) *Builtin   { return Call(FnMax, a) }
func All(a any) *Builtin   { return Call(FnAll, a) }
func Some(a any) *Builtin  { return Call(FnSome, a) }

// BuiltinByName returns the built-in
// function with the given WCPS name.
func BuiltinByName(name string) (BuiltinOp, bool) {
	for i := range builtinInfos {
		if strings.EqualFold(builtinInfos[i].name, name) {
			return BuiltinOp(i), true
		}
	}
	return 0, false
}

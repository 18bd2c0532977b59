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
	"testing"
)

// expectErr checks that n recorded (or
// Check reports) an error of the given kind
func expectErr(t *testing.T, n Node, kind error) {
	t.Helper()
	err := n.Err()
	if err == nil {
		err = Check(n)
	}
	if !errors.Is(err, kind) {
		t.Errorf("%s: got error %v, want %v", ToString(n), err, kind)
	}
}

func TestNormalizeAxes(t *testing.T) {
	want := "X(1:2), Y(3:4)"
	shapes := []any{
		[]*Axis{NewAxis("X", 1, 2), NewAxis("Y", 3, 4)},
		[]any{NewAxis("X", 1, 2), NewAxis("Y", 3, 4)},
		[][]any{{"X", 1, 2}, {"Y", 3, 4}},
		[]any{[]any{"X", 1, 2}, []any{"Y", 3, 4}},
		[]Slice{{"X", 1, 2}, {"Y", 3, 4}},
		[]any{Slice{"X", 1, 2}, Slice{"Y", 3, 4}},
	}
	for i := range shapes {
		axes, err := NormalizeAxes(shapes[i])
		if err != nil {
			t.Fatalf("shape %d: %v", i, err)
		}
		var dst []Node
		for _, a := range axes {
			dst = append(dst, a)
		}
		got := joinText(dst)
		if got != want {
			t.Errorf("shape %d: got %q, want %q", i, got, want)
		}
	}

	single := []any{
		NewAxis("X", 1, 2),
		Slice{"X", 1, 2},
		[]any{"X", 1, 2},
		[]any{"X", 1, 2, nil},
	}
	for i := range single {
		axes, err := NormalizeAxes(single[i])
		if err != nil {
			t.Fatalf("single %d: %v", i, err)
		}
		if len(axes) != 1 || ToString(axes[0]) != "X(1:2)" {
			t.Errorf("single %d: got %v", i, axes)
		}
	}

	bad := []any{
		nil,
		42,
		"X",
		[]any{},
		[]*Axis{},
		[]any{NewAxis("X", 1, 2), Slice{"Y", 3, 4}},
		[]any{[]any{"X", 1}, NewAxis("Y", 1, nil)},
		[]any{"X"},
		[]any{"X", 1, 2, "EPSG:4326", 5},
		[]any{"", 1},
		[]any{"X", 1, 2, 4326},
		[][]any{{1, 2}},
	}
	for i := range bad {
		_, err := NormalizeAxes(bad[i])
		if !errors.Is(err, ErrInvalidAxisShape) {
			t.Errorf("bad %d (%#v): got %v", i, bad[i], err)
		}
	}

	// an invalid shape is recorded on the builder
	expectErr(t, Subset(Cube("A"), 3), ErrInvalidAxisShape)
	expectErr(t, Subset(Cube("A"), Slice{"", 1, 2}), ErrInvalidAxisShape)
	expectErr(t, Extend(Cube("A"), []any{}), ErrInvalidAxisShape)
}

func joinText(lst []Node) string {
	var s string
	for i := range lst {
		if i > 0 {
			s += ", "
		}
		s += ToString(lst[i])
	}
	return s
}

func TestScaleErrors(t *testing.T) {
	a := Cube("A")
	expectErr(t, Scale(a), ErrMissingConfiguration)
	expectErr(t, Scale(a).ByFactor(0), ErrInvalidScaleFactor)
	expectErr(t, Scale(a).ByFactor(-1.5), ErrInvalidScaleFactor)
	expectErr(t, Scale(a).ByFactor("2"), ErrInvalidScaleFactor)
	expectErr(t, Scale(a).ByFactorPerAxis([]any{"X", 1, 2}), ErrInvalidAxisConstraint)
	expectErr(t, Scale(a).ByFactorPerAxis([]any{"X", 1, nil, "EPSG:4326"}), ErrInvalidAxisConstraint)
	expectErr(t, Scale(a).ByFactorPerAxis([]any{"X", 0}), ErrInvalidScaleFactor)
	expectErr(t, Scale(a).ByFactorPerAxis([]any{"X", Cube("B")}), ErrInvalidScaleFactor)

	// any second mode conflicts with the first
	modes := []func(*Scaling) *Scaling{
		func(s *Scaling) *Scaling { return s.ToExplicitGridDomain([]any{"X", 0, 10}) },
		func(s *Scaling) *Scaling { return s.ToGridDomainOf(Cube("B")) },
		func(s *Scaling) *Scaling { return s.ByFactor(2) },
		func(s *Scaling) *Scaling { return s.ByFactorPerAxis([]any{"X", 2}) },
	}
	for i := range modes {
		for j := range modes {
			s := modes[j](modes[i](Scale(Cube("A"))))
			if !errors.Is(s.Err(), ErrConflictingConfiguration) {
				t.Errorf("modes %d then %d: got %v", i, j, s.Err())
			}
		}
	}

	// a failed call leaves the first mode in place
	s := Scale(Cube("A")).ByFactor(2).ByFactor(3)
	if got := ToString(s); got != "scale($A, 2)" {
		t.Errorf("got %q", got)
	}
}

func TestReprojectErrors(t *testing.T) {
	a := Cube("A")
	expectErr(t, Reproject(a, "", ""), ErrEmptyCRS)
	expectErr(t, Reproject(a, "  ", Near), ErrEmptyCRS)
	expectErr(t, Reproject(a, "EPSG:4326", "fastest"), ErrInvalidInterpolation)
	expectErr(t, Reproject(a, "EPSG:4326", "").ToAxisResolutions([]any{"X", 1, 2}), ErrInvalidAxisConstraint)
	expectErr(t, Reproject(a, "EPSG:4326", "").SubsetByAxes([]any{"X", 1}), ErrInvalidAxisConstraint)
	expectErr(t, Reproject(a, "EPSG:4326", "").SubsetByAxes([]any{"X", 1, 2, "EPSG:3857"}), ErrInvalidAxisConstraint)
	expectErr(t,
		Reproject(a, "EPSG:4326", "").SubsetByDomainOf(Cube("B")).SubsetByAxes([]any{"X", 1, 2}),
		ErrConflictingConfiguration)
	expectErr(t,
		Reproject(a, "EPSG:4326", "").SubsetByAxes([]any{"X", 1, 2}).SubsetByDomainOf(Cube("B")),
		ErrConflictingConfiguration)
	expectErr(t,
		Reproject(a, "EPSG:4326", "").ToAxisResolutions([]any{"X", 1}).ToAxisResolutions([]any{"Y", 1}),
		ErrConflictingConfiguration)

	// resolutions compose with either subset form
	r := Reproject(Cube("A"), " EPSG:4326 ", " bilinear ").
		ToAxisResolutions([]any{"X", 0.5}).
		SubsetByDomainOf(Cube("B"))
	if err := Check(r); err != nil {
		t.Fatal(err)
	}
	want := `crsTransform($A, "EPSG:4326", { bilinear }, { X:0.5 }, { domain($B) })`
	if got := ToString(r); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestIterErrors(t *testing.T) {
	a := Cube("A")
	expectErr(t, Iter("", "X").Interval(0, 1), ErrInvalidOperand)
	expectErr(t, Iter("x", "").Interval(0, 1), ErrInvalidOperand)
	expectErr(t, Iter("x", "X"), ErrMissingIterationDomain)
	expectErr(t, Iter("x", "X").Interval(0, nil), ErrInvalidOperand)
	expectErr(t, Iter("x", "X").Interval(0, 1).OfGridAxis(a), ErrConflictingIterationDomain)
	expectErr(t, Iter("x", "X").OfGeoAxis(a).OfGridAxis(a), ErrConflictingIterationDomain)
	expectErr(t, Iter("x", "X").OfGridAxis(a).Interval(0, 1), ErrConflictingIterationDomain)

	// an unbound iterator fails the enclosing tree
	c := Condense(CondensePlus).Over(Iter("x", "X")).Using(a)
	expectErr(t, c, ErrMissingIterationDomain)
}

func TestCondenseErrors(t *testing.T) {
	a := Cube("A")
	it := func(name string) *AxisIter { return Iter(name, "X").Interval(0, 9) }

	expectErr(t, Condense("-"), ErrInvalidCondenseOp)
	expectErr(t, Condense(CondensePlus).Using(a), ErrMissingOverClause)
	expectErr(t, Condense(CondensePlus).Over(it("i")), ErrMissingUsingClause)
	expectErr(t, Condense(CondensePlus).Over(it("i")).Over(it("$i")).Using(a), ErrDuplicateIteratorName)
	expectErr(t, Condense(CondensePlus).Over(it("i"), it("i")).Using(a), ErrDuplicateIteratorName)
	expectErr(t, Condense(CondensePlus).Over(it("i")).Using(a).Using(a), ErrConflictingConfiguration)
	expectErr(t, Condense(CondensePlus).Over(it("i")).Where(true).Where(false).Using(a), ErrConflictingConfiguration)
	expectErr(t, Condense(CondensePlus).Over(nil).Using(a), ErrInvalidOperand)

	ok := Condense(CondenseAnd).Over(it("i")).Over(it("j")).Using(a)
	if err := Check(ok); err != nil {
		t.Fatal(err)
	}
	if len(ok.Iterators()) != 2 {
		t.Fatalf("got %d iterators", len(ok.Iterators()))
	}
}

func TestCoverageErrors(t *testing.T) {
	a := Cube("A")
	it := func(name string) *AxisIter { return Iter(name, "X").Interval(0, 9) }

	expectErr(t, Coverage(""), ErrInvalidOperand)
	expectErr(t, Coverage("c").Values(a), ErrMissingOverClause)
	expectErr(t, Coverage("c").Over(it("i")), ErrMissingValuesClause)
	expectErr(t, Coverage("c").Over(it("i")).Values(a).ValueList(1, 2), ErrConflictingValuesSpecification)
	expectErr(t, Coverage("c").Over(it("i")).ValueList(1, 2).Values(a), ErrConflictingValuesSpecification)
	expectErr(t, Coverage("c").Over(it("i")).Values(a).Values(a), ErrConflictingConfiguration)
	expectErr(t, Coverage("c").Over(it("i")).ValueList(), ErrInvalidOperand)
	expectErr(t, Coverage("c").Over(it("i")).ValueList(1, nil), ErrInvalidOperand)
	expectErr(t, Coverage("c").Over(it("i"), it("j"), it("i")).Values(a), ErrDuplicateIteratorName)
}

func TestSwitchErrors(t *testing.T) {
	a, b := Cube("A"), Cube("B")
	expectErr(t, Switch(), ErrMissingBranches)
	expectErr(t, Switch().Then(a), ErrMismatchedBranches)
	expectErr(t, Switch().Case(a).Case(b), ErrMismatchedBranches)
	expectErr(t, Switch().Case(a).Then(b).Then(a), ErrMismatchedBranches)
	expectErr(t, Switch().Default(a), ErrMissingBranches)
	expectErr(t, Switch().Case(a).Default(b), ErrMismatchedBranches)
	expectErr(t, Switch().Case(a).Then(b), ErrMissingDefault)
	expectErr(t, Switch().Case(a).Then(b).Default(a).Default(b), ErrDuplicateDefault)
	expectErr(t, Switch().Case(a).Then(b).Default(a).Case(b), ErrMismatchedBranches)
	expectErr(t, Switch().Case(a).Then(b).Default(nil), ErrInvalidOperand)

	// the first failure sticks and the builder state is unchanged
	s := Switch().Case(Gt(a, 1)).Case(b).Then(1).Default(0)
	if !errors.Is(s.Err(), ErrMismatchedBranches) {
		t.Fatalf("got %v", s.Err())
	}
	if got := ToString(s); got != "(switch case ($A > 1) return 1 default return 0)" {
		t.Errorf("got %q", got)
	}
}

func TestMiscErrors(t *testing.T) {
	a := Cube("A")
	expectErr(t, Cube(""), ErrInvalidOperand)
	expectErr(t, Add(a, nil), ErrInvalidOperand)
	expectErr(t, Call(FnPow, a), ErrInvalidOperand)
	expectErr(t, Call(BuiltinOp(1000), a), ErrInvalidOperand)
	expectErr(t, CastTo(a, "int64"), ErrInvalidCastType)
	expectErr(t, CastTo(a, ""), ErrMissingConfiguration)
	expectErr(t, Encode(a, ""), ErrMissingConfiguration)
	expectErr(t, Clip(a, "POINT(1 2)"), ErrInvalidGeometry)
	expectErr(t, Udf("", a), ErrInvalidOperand)
	expectErr(t, Field(a, -1), ErrInvalidOperand)
	expectErr(t, Field(a, 1.5), ErrInvalidOperand)
	expectErr(t, Bands(), ErrInvalidOperand)
	expectErr(t, Bands(BandValue{"red", a}, BandValue{"red", 1}), ErrInvalidOperand)

	if err := Check(CastTo(a, "").To(CastFloat)); err != nil {
		t.Fatal(err)
	}
	if err := Check(Encode(a, "").To("netCDF")); err != nil {
		t.Fatal(err)
	}
	for _, wkt := range []string{
		"LineString(1 1, 2 2)",
		"multipolygon(((0 0, 1 1, 1 0, 0 0)))",
		"CURTAIN(PROJECTION(Lat, Lon), LINESTRING(1 1, 2 2))",
	} {
		if err := Clip(a, wkt).Err(); err != nil {
			t.Errorf("%s: %v", wkt, err)
		}
	}
}

func TestBuiltinOp(t *testing.T) {
	for op := BuiltinOp(0); op < maxBuiltin; op++ {
		got, ok := BuiltinByName(op.String())
		if !ok || got != op {
			t.Errorf("%s: round-trip failed", op)
		}
		if op.Arity() < 1 {
			t.Errorf("%s: bad arity", op)
		}
	}
	if !FnSum.IsAggregate() || FnAbs.IsAggregate() {
		t.Error("aggregate classification")
	}
	if _, ok := BuiltinByName("nope"); ok {
		t.Error("unexpected builtin")
	}
}

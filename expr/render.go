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

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Datacubes returns the distinct datacubes
// referenced by the tree rooted at n,
// sorted by name.
//
// The tree is searched breadth-first and
// the first datacube seen with a given name
// is the one returned.
func Datacubes(n Node) []*Datacube {
	if isNil(n) {
		return nil
	}
	byName := make(map[string]*Datacube)
	seen := map[Node]struct{}{n: {}}
	queue := []Node{n}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if d, ok := cur.(*Datacube); ok {
			if _, dup := byName[d.Name]; !dup {
				byName[d.Name] = d
			}
		}
		for _, op := range cur.Operands() {
			if _, ok := seen[op]; ok {
				continue
			}
			seen[op] = struct{}{}
			queue = append(queue, op)
		}
	}
	names := maps.Keys(byName)
	slices.Sort(names)
	out := make([]*Datacube, len(names))
	for i := range names {
		out[i] = byName[names[i]]
	}
	return out
}

// Render checks the tree rooted at n and
// returns its WCPS text.
//
// If n is a root, the text is a complete query:
//
//	for $A in (A), $B in (B)
//	return
//	  <expression>
//
// where A and B are the datacubes referenced
// by the tree in name order. Otherwise only
// the expression text is returned.
func Render(n Node) (string, error) {
	if err := Check(n); err != nil {
		return "", err
	}
	var dst strings.Builder
	if n.IsRoot() {
		cubes := Datacubes(n)
		if len(cubes) == 0 {
			return "", errorf(ErrNoDatasetReferenced, "the query does not reference any datacube")
		}
		dst.WriteString("for ")
		for i, c := range cubes {
			if i > 0 {
				dst.WriteString(", ")
			}
			dst.WriteByte('$')
			dst.WriteString(c.Name)
			dst.WriteString(" in (")
			dst.WriteString(c.Name)
			dst.WriteByte(')')
		}
		dst.WriteString("\nreturn\n  ")
	}
	n.text(&dst)
	return dst.String(), nil
}

// MustRender is like Render but panics on error.
func MustRender(n Node) string {
	s, err := Render(n)
	if err != nil {
		panic(err)
	}
	return s
}

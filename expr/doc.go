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

// Package expr implements the AST representation
// of WCPS (Web Coverage Processing Service) queries.
//
// Each of the AST node types satisfies the Node
// interface. Nodes are assembled with the package
// constructors (Cube, Add, Subset, Condense, ...)
// or with the chaining methods every node carries,
// so that
//
//	Cube("NIR").Sub(Cube("RED")).Div(Cube("NIR").Add(Cube("RED")))
//
// renders as a complete query once passed to Render.
//
// Builder misuse does not panic. The first error a
// node encounters is recorded on it and reported by
// Check and Render, which walk the whole tree.
package expr

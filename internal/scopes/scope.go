// Copyright 2025-2026 Oliver Eikemeier. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package scopes resolves symbol occurrences to the executable bodies that
// have to be analyzed: function, method and accessor bodies, including the
// constructors a constructor delegates to.
package scopes

import (
	"go/ast"
	"go/token"
	"go/types"
)

// Scope is one analyzable executable body: a function or method declaration,
// or a function literal.
type Scope struct {
	// Fn is the declared function object. It is nil for function literals.
	Fn *types.Func

	// Decl is the declaring node, an *[ast.FuncDecl] or *[ast.FuncLit].
	Decl ast.Node

	// Body is the scope's statement list.
	Body *ast.BlockStmt
}

// Valid reports whether the scope refers to an executable body.
func (s Scope) Valid() bool {
	return s.Body != nil
}

// Pos returns the position of the scope's declaration.
func (s Scope) Pos() token.Pos {
	if s.Decl == nil {
		return token.NoPos
	}

	return s.Decl.Pos()
}

// Name returns the declared name of the scope for diagnostics, or "func
// literal" for anonymous functions.
func (s Scope) Name() string {
	if s.Fn == nil {
		return "func literal"
	}

	return s.Fn.Name()
}

// ParamOf reports whether v is a formal parameter or the receiver of the
// scope. Values flowing in through parameters are injected, never owned.
func (s Scope) ParamOf(v *types.Var) bool {
	if v == nil || s.Fn == nil {
		return s.litParamOf(v)
	}

	sig := s.Fn.Signature()
	if recv := sig.Recv(); recv != nil && recv == v {
		return true
	}

	params := sig.Params()
	for i := range params.Len() {
		if params.At(i) == v {
			return true
		}
	}

	return false
}

// litParamOf matches parameters of function literals, which have no
// [types.Func] object, by their declaring identifiers.
func (s Scope) litParamOf(v *types.Var) bool {
	lit, ok := s.Decl.(*ast.FuncLit)
	if !ok || v == nil {
		return false
	}

	if lit.Type.Params == nil {
		return false
	}

	for _, field := range lit.Type.Params.List {
		for _, name := range field.Names {
			if v.Pos() == name.Pos() {
				return true
			}
		}
	}

	return false
}

// Visited is the set of scopes entered during a recursive search. It bounds
// traversal through mutual or chained calls: revisiting a scope yields
// "not found" instead of recursing.
type Visited map[ast.Node]struct{}

// Enter records the scope and reports whether it was entered for the first
// time.
func (v Visited) Enter(s Scope) bool {
	if _, ok := v[s.Decl]; ok {
		return false
	}

	v[s.Decl] = struct{}{}

	return true
}

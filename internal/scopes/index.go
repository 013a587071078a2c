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

package scopes

import (
	"go/ast"
	"go/token"
	"go/types"
	"slices"
)

// Index maps the functions of one immutable snapshot to their executable
// scopes. It is built once per pass and queried read-only, so concurrent
// lookups need no locking.
type Index struct {
	info  *types.Info
	funcs map[*types.Func]Scope
	decls map[ast.Node]Scope
	order []Scope
}

// NewIndex collects every function declaration and function literal of the
// given files into an [Index]. Scopes are kept in source order.
func NewIndex(info *types.Info, files []*ast.File) *Index {
	x := &Index{
		info:  info,
		funcs: make(map[*types.Func]Scope),
		decls: make(map[ast.Node]Scope),
	}

	for _, file := range files {
		ast.Inspect(file, func(n ast.Node) bool {
			switch n := n.(type) {
			case *ast.FuncDecl:
				if n.Body == nil {
					return false
				}

				s := Scope{Decl: n, Body: n.Body}
				if fn, ok := info.Defs[n.Name].(*types.Func); ok {
					s.Fn = fn
					x.funcs[fn] = s
				}

				x.add(s)

			case *ast.FuncLit:
				x.add(Scope{Decl: n, Body: n.Body})
			}

			return true
		})
	}

	slices.SortFunc(x.order, func(a, b Scope) int { return int(a.Pos() - b.Pos()) })

	return x
}

func (x *Index) add(s Scope) {
	x.decls[s.Decl] = s
	x.order = append(x.order, s)
}

// Scopes returns all indexed scopes in source order.
func (x *Index) Scopes() []Scope {
	return x.order
}

// ForFunc resolves a function object to its scope. Functions without a body
// in this snapshot (external or interface methods) report not found.
func (x *Index) ForFunc(fn *types.Func) (Scope, bool) {
	s, ok := x.funcs[fn]

	return s, ok
}

// ForDecl resolves a declaring node to its scope.
func (x *Index) ForDecl(decl ast.Node) (Scope, bool) {
	s, ok := x.decls[decl]

	return s, ok
}

// Enclosing returns the innermost executable scope whose body contains pos.
// It reports not found when no enclosing executable scope exists.
func (x *Index) Enclosing(pos token.Pos) (Scope, bool) {
	var (
		best  Scope
		found bool
	)

	for _, s := range x.order {
		if s.Body.Pos() <= pos && pos < s.Body.End() {
			// Scopes are position ordered, so a later match is tighter.
			best, found = s, true
		}
	}

	return best, found
}

// Receiver returns the receiver variable of a method scope, if any.
func (x *Index) Receiver(s Scope) (*types.Var, bool) {
	if s.Fn == nil {
		return nil, false
	}

	recv := s.Fn.Signature().Recv()
	if recv == nil {
		return nil, false
	}

	return recv, true
}

// MethodNamed returns the scope of the method with the given name declared
// on the named type.
func (x *Index) MethodNamed(typ *types.Named, name string) (Scope, bool) {
	for i := range typ.NumMethods() {
		if m := typ.Method(i); m.Name() == name {
			return x.ForFunc(m)
		}
	}

	return Scope{}, false
}

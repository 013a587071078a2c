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

// Package assign locates assignments to a target symbol within an executable
// scope, optionally following call edges into invoked members.
package assign

import (
	"go/ast"
	"go/token"
	"go/types"

	"github.com/Mafii/disposeguard/internal/scopes"
)

// TargetKind discriminates the closed set of assignment-target shapes.
// The set is fixed; callers dispatch by exhaustive switch.
type TargetKind uint8

const (
	// VarTarget is a write to a plain symbol: x = e.
	VarTarget TargetKind = iota

	// FieldTarget is a write to a field of a symbol: x.f = e.
	FieldTarget

	// ElemTarget is a write to an element of a composite value: x[i] = e.
	ElemTarget
)

// Assignment records one write to a symbol.
type Assignment struct {
	// Sym is the symbol written: a variable for [VarTarget] and
	// [ElemTarget], the field object for [FieldTarget].
	Sym *types.Var

	// Kind is the shape of the written location.
	Kind TargetKind

	// Lhs is the written expression as it appears in source.
	Lhs ast.Expr

	// Rhs is the source expression, after substituting actual arguments
	// for formal parameters during a recursive search.
	Rhs ast.Expr

	// Raw is the source expression as written. It equals Rhs when no
	// substitution happened.
	Raw ast.Expr

	// Result is the result index for assignments from a multi-value call,
	// -1 otherwise.
	Result int

	// Stmt is the enclosing statement.
	Stmt ast.Stmt

	// Scope is the scope the write lexically occurs in. During a recursive
	// search this may be a callee of the scope the search started in.
	Scope scopes.Scope
}

// Pos returns the source position of the written expression.
func (a Assignment) Pos() token.Pos { return a.Lhs.Pos() }

// End returns the end of the enclosing statement.
func (a Assignment) End() token.Pos { return a.Stmt.End() }

// ResolveTarget classifies an assignable expression into the closed target
// variant set.
func ResolveTarget(info *types.Info, e ast.Expr) (sym *types.Var, kind TargetKind, ok bool) {
	switch e := ast.Unparen(e).(type) {
	case *ast.Ident:
		if e.Name == "_" {
			return nil, VarTarget, false
		}

		v, ok := object(info, e)

		return v, VarTarget, ok

	case *ast.SelectorExpr:
		v, ok := object(info, e.Sel)
		if !ok || !v.IsField() {
			return nil, FieldTarget, false
		}

		return v, FieldTarget, true

	case *ast.IndexExpr:
		sym, _, ok := ResolveTarget(info, e.X)

		return sym, ElemTarget, ok

	default:
		return nil, VarTarget, false
	}
}

// object resolves an identifier to the variable it denotes.
func object(info *types.Info, id *ast.Ident) (*types.Var, bool) {
	obj := info.Uses[id]
	if obj == nil {
		obj = info.Defs[id]
	}

	v, ok := obj.(*types.Var)

	return v, ok
}

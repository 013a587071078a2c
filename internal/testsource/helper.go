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

// Package testsource provides utilities for parsing and analyzing Go source code in tests.
//
// It is designed to simplify testing of the disposeguard analyzer by handling common
// boilerplate code for parsing and type-checking Go source files.
package testsource

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"testing"
)

const testpkg = "test"

// Parse parses a complete Go source file into an AST. The source must
// declare `package test`. Call [Check] on the result when type information
// is needed.
func Parse(tb testing.TB, src string) (*token.FileSet, *ast.File) {
	tb.Helper()

	const filename = "test.go"

	fset := token.NewFileSet()

	f, err := parser.ParseFile(fset, filename, src, parser.SkipObjectResolution)
	if err != nil {
		tb.Fatalf("Failed to parse source: %v", err)
	}

	return fset, f
}

// Check performs type checking on the provided AST file.
// It creates and returns a fully type-checked *types.Package and *types.Info.
// Use this helper when testing analyzer components that require type information
// (e.g. for method lookup, type identity, or ownership classification).
func Check(tb testing.TB, fset *token.FileSet, f *ast.File) (*types.Package, *types.Info) {
	tb.Helper()

	info := &types.Info{
		Types:  make(map[ast.Expr]types.TypeAndValue),
		Defs:   make(map[*ast.Ident]types.Object),
		Uses:   make(map[*ast.Ident]types.Object),
		Scopes: make(map[ast.Node]*types.Scope),
	}

	conf := types.Config{Importer: importer.Default()}

	pkg, err := conf.Check(testpkg, fset, []*ast.File{f}, info)
	if err != nil {
		tb.Fatalf("failed to type Check source: %v", err)
	}

	return pkg, info
}

// LookupVar finds the variable object defined with the given name inside
// the node, usually a function body.
func LookupVar(tb testing.TB, info *types.Info, within ast.Node, name string) *types.Var {
	tb.Helper()

	for id, obj := range info.Defs {
		v, ok := obj.(*types.Var)
		if !ok || id.Name != name {
			continue
		}

		if id.Pos() >= within.Pos() && id.Pos() <= within.End() {
			return v
		}
	}

	tb.Fatalf("Can't find variable %q", name)

	return nil
}

// LookupField finds the field object of a named struct type declared at
// package scope.
func LookupField(tb testing.TB, pkg *types.Package, typeName, fieldName string) (*types.Named, *types.Var) {
	tb.Helper()

	tn, ok := pkg.Scope().Lookup(typeName).(*types.TypeName)
	if !ok {
		tb.Fatalf("Can't find type %q", typeName)
	}

	named, ok := tn.Type().(*types.Named)
	if !ok {
		tb.Fatalf("Type %q is not a named type", typeName)
	}

	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		tb.Fatalf("Type %q is not a struct", typeName)
	}

	for f := range st.Fields() {
		if f.Name() == fieldName {
			return named, f
		}
	}

	tb.Fatalf("Can't find field %q in %q", fieldName, typeName)

	return nil, nil
}

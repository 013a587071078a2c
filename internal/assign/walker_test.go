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

package assign_test

import (
	"context"
	"go/ast"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/Mafii/disposeguard/internal/assign"
	"github.com/Mafii/disposeguard/internal/scopes"
	"github.com/Mafii/disposeguard/internal/testsource"
)

const src = `package test

type File struct{}

func (f *File) Close() error { return nil }

type Res struct{ f *File }

func NewRes(f *File) *Res {
	r := &Res{}
	r.f = f
	return r
}

func NewDefault() *Res {
	return NewRes(&File{})
}

func (r *Res) SetFile(f *File) {
	r.f = f
}

func open() *File {
	var f *File
	f = &File{}
	f = nil
	return f
}
`

func TestFirst(t *testing.T) {
	t.Parallel()

	w, _, index := newWalker(t, src)

	sc := funcScope(t, index, "open")
	sym := testsource.LookupVar(t, w.Info, sc.Body, "f")

	a, ok, err := w.First(t.Context(), sym, sc, TopLevel)
	require.NoError(t, err)
	require.True(t, ok, "expected an assignment to f")

	assert.Equal(t, VarTarget, a.Kind)
	assert.IsType(t, &ast.UnaryExpr{}, a.Rhs, "first assignment carrying a value is f = &File{}")

	all, err := w.All(t.Context(), sym, sc, TopLevel)
	require.NoError(t, err)
	assert.Len(t, all, 2, "the var declaration carries no value and is not a site")
}

func TestFirstCancelled(t *testing.T) {
	t.Parallel()

	w, _, index := newWalker(t, src)

	sc := funcScope(t, index, "open")
	sym := testsource.LookupVar(t, w.Info, sc.Body, "f")

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	a, ok, err := w.First(ctx, sym, sc, TopLevel)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok, "a cancelled search reports no result")
	assert.Zero(t, a)
}

func TestSites(t *testing.T) {
	t.Parallel()

	w, pkg, _ := newWalker(t, src)

	owner, fld := testsource.LookupField(t, pkg, "Res", "f")

	// Top-level search sees the writes as written: the constructor's and
	// the setter's parameter stores.
	top, err := w.Sites(t.Context(), owner, fld, TopLevel)
	require.NoError(t, err)
	assert.Len(t, top, 2)

	// The recursive search resolves the chained constructor, adding the
	// same write with the caller's fresh literal substituted in.
	rec, err := w.Sites(t.Context(), owner, fld, Recursive)
	require.NoError(t, err)
	require.Len(t, rec, 3)

	substituted := 0

	for _, a := range rec {
		if _, ok := a.Rhs.(*ast.UnaryExpr); ok {
			substituted++
		}
	}

	assert.Equal(t, 1, substituted, "one site carries the substituted &File{} argument")
}

func TestSubstitute(t *testing.T) {
	t.Parallel()

	w, pkg, index := newWalker(t, src)

	_, fld := testsource.LookupField(t, pkg, "Res", "f")
	ctor := funcScope(t, index, "NewRes")

	// Inside the constructor itself the parameter stays unresolved.
	direct, err := w.All(t.Context(), fld, ctor, TopLevel)
	require.NoError(t, err)
	require.Len(t, direct, 1)
	assert.Same(t, direct[0].Raw, direct[0].Rhs)
}

func newWalker(t *testing.T, source string) (*Walker, *types.Package, *scopes.Index) {
	t.Helper()

	fset, f := testsource.Parse(t, source)
	pkg, info := testsource.Check(t, fset, f)

	index := scopes.NewIndex(info, []*ast.File{f})

	return &Walker{Info: info, Index: index}, pkg, index
}

func funcScope(t *testing.T, index *scopes.Index, name string) scopes.Scope {
	t.Helper()

	for _, sc := range index.Scopes() {
		if sc.Fn != nil && sc.Fn.Name() == name {
			return sc
		}
	}

	t.Fatalf("Can't find function %q", name)

	return scopes.Scope{}
}

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

package ownership_test

import (
	"context"
	"go/ast"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mafii/disposeguard/internal/assign"
	. "github.com/Mafii/disposeguard/internal/ownership"
	"github.com/Mafii/disposeguard/internal/scopes"
	"github.com/Mafii/disposeguard/internal/testsource"
)

const src = `package test

type File struct{}

func (f *File) Close() error { return nil }

func NewFile() *File { return &File{} }

func NewChained() *File { return NewFile() }

func literal() {
	f := &File{}
	_ = f
}

func factory() {
	f := NewFile()
	_ = f
}

func chained() {
	f := NewChained()
	_ = f
}

func forwarded(f *File) {
	g := f
	_ = g
}

var openHook func() *File

func external() {
	f := openHook()
	_ = f
}

type Injected struct{ f *File }

func NewInjected(f *File) *Injected {
	return &Injected{f: f}
}

type Mixed struct{ f *File }

func NewMixed(f *File) *Mixed {
	m := &Mixed{}
	m.f = f
	return m
}

func NewMixedDefault() *Mixed {
	return NewMixed(NewFile())
}
`

func TestClassifyLocals(t *testing.T) {
	t.Parallel()

	c, _, index := newClassifier(t, src)

	testCases := [...]struct {
		fn   string
		want Label
	}{
		{fn: "literal", want: Created},
		{fn: "factory", want: Created},
		{fn: "chained", want: Created},
		{fn: "forwarded", want: Injected},
		{fn: "external", want: Unknown},
	}

	for _, tc := range testCases {
		t.Run(tc.fn, func(t *testing.T) {
			t.Parallel()

			sc := funcScope(t, index, tc.fn)

			var sym *types.Var
			if tc.fn == "forwarded" {
				sym = testsource.LookupVar(t, c.Info, sc.Body, "g")
			} else {
				sym = testsource.LookupVar(t, c.Info, sc.Body, "f")
			}

			a, ok, err := c.Walker.First(t.Context(), sym, sc, assign.TopLevel)
			require.NoError(t, err)
			require.True(t, ok)

			got, err := c.ClassifyAssignment(t.Context(), a)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestClassifyField(t *testing.T) {
	t.Parallel()

	c, pkg, _ := newClassifier(t, src)

	t.Run("injected", func(t *testing.T) {
		t.Parallel()

		owner, fld := testsource.LookupField(t, pkg, "Injected", "f")

		got, err := c.Field(t.Context(), owner, fld)
		require.NoError(t, err)
		assert.Equal(t, Injected, got)
	})

	t.Run("mixed", func(t *testing.T) {
		t.Parallel()

		owner, fld := testsource.LookupField(t, pkg, "Mixed", "f")

		// Populated with an injected parameter on one flow and a fresh
		// value through the chained constructor on another.
		got, err := c.Field(t.Context(), owner, fld)
		require.NoError(t, err)
		assert.Equal(t, Unknown, got)
	})
}

func TestClassifyCancelled(t *testing.T) {
	t.Parallel()

	c, _, index := newClassifier(t, src)

	sc := funcScope(t, index, "literal")
	sym := testsource.LookupVar(t, c.Info, sc.Body, "f")

	a, ok, err := c.Walker.First(t.Context(), sym, sc, assign.TopLevel)
	require.NoError(t, err)
	require.True(t, ok)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	got, err := c.ClassifyAssignment(ctx, a)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Unknown, got, "a cancelled classification stays unknown")
}

func TestCombine(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Unknown, Combine(nil))
	assert.Equal(t, Created, Combine([]Label{Created, Created}))
	assert.Equal(t, Injected, Combine([]Label{Injected}))
	assert.Equal(t, Unknown, Combine([]Label{Created, Injected}))
}

func newClassifier(t *testing.T, source string) (*Classifier, *types.Package, *scopes.Index) {
	t.Helper()

	fset, f := testsource.Parse(t, source)
	pkg, info := testsource.Check(t, fset, f)

	index := scopes.NewIndex(info, []*ast.File{f})
	w := &assign.Walker{Info: info, Index: index}

	return &Classifier{Info: info, Index: index, Walker: w}, pkg, index
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

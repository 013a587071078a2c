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

package dispose_test

import (
	"context"
	"go/ast"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/Mafii/disposeguard/internal/dispose"
	"github.com/Mafii/disposeguard/internal/scopes"
	"github.com/Mafii/disposeguard/internal/testsource"
)

const src = `package test

type File struct{}

func (f *File) Close() error { return nil }

func plain(f *File) {
	f.Close()
}

func deferred(f *File) {
	defer f.Close()
	work()
}

func bothBranches(f *File, ok bool) {
	if ok {
		f.Close()
	} else {
		f.Close()
	}
}

func oneBranch(f *File, ok bool) {
	if ok {
		f.Close()
	}
}

func earlyExit(f *File, ok bool) error {
	if ok {
		return nil
	}
	f.Close()
	return nil
}

func handled(f *File, ok bool) error {
	if ok {
		f.Close()
		return nil
	}
	f.Close()
	return nil
}

func viaAlias(f *File) {
	g := f
	g.Close()
}

func viaHelper(f *File) {
	closeIt(f)
}

func closeIt(f *File) {
	f.Close()
}

func transferred(f *File) *File {
	return f
}

func inLoop(fs []*File, f *File) {
	for range fs {
		f.Close()
	}
}

func work() {}

type Pool struct {
	files []*File
	main  *File
}

func (p *Pool) Close() error {
	for _, f := range p.files {
		f.Close()
	}
	return p.main.Close()
}

type Pair struct {
	in  *File
	out *File
}

type Book struct {
	pairs []Pair
}

func (b *Book) Close() error {
	for _, p := range b.pairs {
		p.in.Close()
		p.out.Close()
	}
	return nil
}

type Sloppy struct {
	pairs []Pair
}

func (s *Sloppy) Close() error {
	for _, p := range s.pairs {
		p.in.Close()
	}
	return nil
}
`

func TestReleasedOnAllPaths(t *testing.T) {
	t.Parallel()

	w, _, index := newWalker(t, src)

	testCases := [...]struct {
		fn   string
		want bool
	}{
		{fn: "plain", want: true},
		{fn: "deferred", want: true},
		{fn: "bothBranches", want: true},
		{fn: "oneBranch", want: false},
		{fn: "earlyExit", want: false},
		{fn: "handled", want: true},
		{fn: "viaAlias", want: true},
		{fn: "viaHelper", want: true},
		{fn: "transferred", want: true},
		{fn: "inLoop", want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.fn, func(t *testing.T) {
			t.Parallel()

			sc := funcScope(t, index, tc.fn)
			sym := paramNamed(t, sc, "f")

			got, err := w.ReleasedOnAllPaths(t.Context(), sym, token.NoPos, sc)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReleasedFrom(t *testing.T) {
	t.Parallel()

	w, _, index := newWalker(t, src)

	sc := funcScope(t, index, "plain")
	sym := paramNamed(t, sc, "f")

	// Starting the analysis after the release leaves the tail unreleased.
	got, err := w.ReleasedOnAllPaths(t.Context(), sym, sc.Body.List[0].End(), sc)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestReleasedOnAllPathsCancelled(t *testing.T) {
	t.Parallel()

	w, _, index := newWalker(t, src)

	sc := funcScope(t, index, "plain")
	sym := paramNamed(t, sc, "f")

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	got, err := w.ReleasedOnAllPaths(ctx, sym, token.NoPos, sc)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, got, "a cancelled walk must not report a release")
}

func TestReleasedBefore(t *testing.T) {
	t.Parallel()

	const reassignSrc = `package test

type File struct{}

func (f *File) Close() error { return nil }

func sequential(f *File) {
	f = &File{}
	f.Close()
	f = &File{}
	f.Close()
}

func leaking(f *File) {
	f = &File{}
	f = &File{}
	f.Close()
}

func deferredOnly(f *File) {
	f = &File{}
	defer f.Close()
	f = &File{}
}

func oneArm(f *File, ok bool) {
	f = &File{}
	if ok {
		f.Close()
	}
	f = &File{}
	f.Close()
}

func bothArms(f *File, ok bool) {
	f = &File{}
	if ok {
		f.Close()
	} else {
		f.Close()
	}
	f = &File{}
	f.Close()
}

func diverted(f *File, ok bool) {
	f = &File{}
	if ok {
		return
	}
	f.Close()
	f = &File{}
	f.Close()
}
`

	w, _, index := newWalker(t, reassignSrc)

	testCases := [...]struct {
		fn   string
		want bool
	}{
		{fn: "sequential", want: true},
		{fn: "leaking", want: false},
		{fn: "deferredOnly", want: false},
		// A release in one arm with the other arm falling through to the
		// reassignment proves nothing.
		{fn: "oneArm", want: false},
		{fn: "bothArms", want: true},
		// A path leaving the scope never reaches the reassignment.
		{fn: "diverted", want: true},
	}

	for _, tc := range testCases {
		t.Run(tc.fn, func(t *testing.T) {
			t.Parallel()

			sc := funcScope(t, index, tc.fn)
			sym := paramNamed(t, sc, "f")

			first, second := assignWindow(t, sc)

			got, err := w.ReleasedBefore(t.Context(), sym, first, second, sc)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestElementsReleased(t *testing.T) {
	t.Parallel()

	w, pkg, index := newWalker(t, src)

	pool, files := testsource.LookupField(t, pkg, "Pool", "files")
	_, main := testsource.LookupField(t, pkg, "Pool", "main")

	closer, ok := index.MethodNamed(pool, "Close")
	require.True(t, ok, "Pool needs a Close method")

	elems, err := w.ElementsReleased(t.Context(), files, closer)
	require.NoError(t, err)
	assert.True(t, elems, "the range loop releases every element")

	single, err := w.ReleasedOnAllPaths(t.Context(), main, token.NoPos, closer)
	require.NoError(t, err)
	assert.True(t, single)
}

func TestElementsReleasedComposite(t *testing.T) {
	t.Parallel()

	w, pkg, index := newWalker(t, src)

	book, pairs := testsource.LookupField(t, pkg, "Book", "pairs")
	closer, ok := index.MethodNamed(book, "Close")
	require.True(t, ok, "Book needs a Close method")

	elems, err := w.ElementsReleased(t.Context(), pairs, closer)
	require.NoError(t, err)
	assert.True(t, elems, "the loop releases both fields of every pair")

	sloppy, pairs := testsource.LookupField(t, pkg, "Sloppy", "pairs")
	closer, ok = index.MethodNamed(sloppy, "Close")
	require.True(t, ok, "Sloppy needs a Close method")

	elems, err = w.ElementsReleased(t.Context(), pairs, closer)
	require.NoError(t, err)
	assert.False(t, elems, "the out field of each pair stays unreleased")
}

// assignWindow returns the end of the first assignment statement and the
// start of the last one.
func assignWindow(t *testing.T, sc scopes.Scope) (first, second token.Pos) {
	t.Helper()

	var stmts []*ast.AssignStmt

	ast.Inspect(sc.Body, func(n ast.Node) bool {
		if a, ok := n.(*ast.AssignStmt); ok {
			stmts = append(stmts, a)
		}

		return true
	})

	if len(stmts) < 2 {
		t.Fatal("Need two assignments")
	}

	return stmts[0].End(), stmts[len(stmts)-1].Pos()
}

func paramNamed(t *testing.T, sc scopes.Scope, name string) *types.Var {
	t.Helper()

	sig := sc.Fn.Signature()
	for i := range sig.Params().Len() {
		if p := sig.Params().At(i); p.Name() == name {
			return p
		}
	}

	t.Fatalf("Can't find parameter %q", name)

	return nil
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

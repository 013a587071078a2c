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

package assign

import (
	"context"
	"go/ast"
	"go/token"
	"go/types"
	"slices"

	"golang.org/x/tools/go/types/typeutil"

	"github.com/Mafii/disposeguard/internal/scopes"
)

// Walker finds assignments to a target symbol. It is a pure query over one
// immutable snapshot: results are deterministic and independent invocations
// may run concurrently.
type Walker struct {
	Info  *types.Info
	Index *scopes.Index
}

// First returns the first assignment to sym inside scope, in source order,
// satisfying the mode's reachability rule. A false result with a nil error
// means no assignment exists under the given mode; a non-nil error reports
// a cancelled, incomplete search, never a negative one.
func (w *Walker) First(ctx context.Context, sym *types.Var, scope scopes.Scope, mode Mode) (Assignment, bool, error) {
	out, err := w.run(ctx, sym, scope, mode, true)
	if err != nil || len(out) == 0 {
		return Assignment{}, false, err
	}

	return out[0], true, nil
}

// All returns every assignment to sym reachable from scope under mode, in
// source order within each visited scope.
func (w *Walker) All(ctx context.Context, sym *types.Var, scope scopes.Scope, mode Mode) ([]Assignment, error) {
	return w.run(ctx, sym, scope, mode, false)
}

// Collect returns every assignment to any variable or field lexically inside
// scope, in source order. It is used to enumerate the symbols a scope writes.
func (w *Walker) Collect(ctx context.Context, scope scopes.Scope) ([]Assignment, error) {
	return w.run(ctx, nil, scope, TopLevel, false)
}

// Sites returns every assignment to a field of the owner type across the
// whole snapshot. Under [Recursive] the constructors of owner are walked
// first with parameter substitution, so a site reached through a chained
// constructor or an invoked member carries the caller's actual argument as
// its source expression.
func (w *Walker) Sites(ctx context.Context, owner *types.Named, field *types.Var, mode Mode) ([]Assignment, error) {
	var out []Assignment

	// A site reached twice counts once, but substituted variants of one
	// write are distinct sites: each carries a different source expression.
	type siteKey struct{ lhs, rhs token.Pos }

	seen := make(map[siteKey]struct{})
	add := func(as []Assignment) {
		for _, a := range as {
			key := siteKey{lhs: a.Pos(), rhs: a.Rhs.Pos()}
			if _, ok := seen[key]; ok {
				continue
			}

			seen[key] = struct{}{}
			out = append(out, a)
		}
	}

	if mode == Recursive {
		for _, sc := range w.Index.Scopes() {
			if !isConstructor(sc, owner) {
				continue
			}

			as, err := w.All(ctx, field, sc, Recursive)
			if err != nil {
				return nil, err
			}

			add(as)
		}
	}

	for _, sc := range w.Index.Scopes() {
		as, err := w.All(ctx, field, sc, TopLevel)
		if err != nil {
			return nil, err
		}

		add(as)
	}

	slices.SortStableFunc(out, func(a, b Assignment) int { return int(a.Pos() - b.Pos()) })

	return out, nil
}

// isConstructor reports whether sc is a constructor of owner: a function
// without a receiver returning owner or a pointer to it.
func isConstructor(sc scopes.Scope, owner *types.Named) bool {
	if sc.Fn == nil {
		return false
	}

	sig := sc.Fn.Signature()
	if sig.Recv() != nil {
		return false
	}

	results := sig.Results()
	for i := range results.Len() {
		t := results.At(i).Type()
		if p, ok := types.Unalias(t).(*types.Pointer); ok {
			t = p.Elem()
		}

		if named, ok := types.Unalias(t).(*types.Named); ok && named.Origin() == owner.Origin() {
			return true
		}
	}

	return false
}

func (w *Walker) run(ctx context.Context, sym *types.Var, scope scopes.Scope, mode Mode, firstOnly bool) ([]Assignment, error) {
	s := &search{
		w:         w,
		mode:      mode,
		sym:       sym,
		firstOnly: firstOnly,
		visited:   make(scopes.Visited),
	}

	s.scope(ctx, scope, nil)

	return s.out, s.err
}

// search holds locally-owned traversal state for one query.
type search struct {
	w         *Walker
	mode      Mode
	sym       *types.Var // nil matches every symbol
	firstOnly bool

	visited scopes.Visited
	cur     ast.Stmt // innermost statement of the preorder walk
	out     []Assignment
	err     error
	done    bool
}

// scope walks one executable body. bind maps the scope's formal parameters
// to the actual arguments of the call that led here.
func (s *search) scope(ctx context.Context, sc scopes.Scope, bind map[*types.Var]ast.Expr) {
	if !sc.Valid() || !s.visited.Enter(sc) {
		return // a revisit through a cyclic call chain yields not found
	}

	ast.Inspect(sc.Body, func(n ast.Node) bool {
		if s.done || s.err != nil {
			return false
		}

		if st, ok := n.(ast.Stmt); ok {
			if err := ctx.Err(); err != nil {
				s.err = err

				return false
			}

			s.cur = st
		}

		switch n := n.(type) {
		case *ast.FuncLit:
			// A nested function literal is its own scope.
			return false

		case *ast.AssignStmt:
			s.assignStmt(n, sc, bind)

		case *ast.DeclStmt:
			s.declStmt(n, sc, bind)

		case *ast.CompositeLit:
			s.composite(n, sc, bind)

		case *ast.CallExpr:
			if s.mode == Recursive {
				s.call(ctx, n, bind)
			}
		}

		return !s.done
	})
}

func (s *search) assignStmt(n *ast.AssignStmt, sc scopes.Scope, bind map[*types.Var]ast.Expr) {
	multi := len(n.Lhs) > 1 && len(n.Rhs) == 1

	for i, lhs := range n.Lhs {
		sym, kind, ok := ResolveTarget(s.w.Info, lhs)
		if !ok || (s.sym != nil && sym != s.sym) {
			continue
		}

		rhs, result := ast.Expr(nil), -1
		switch {
		case multi:
			rhs, result = n.Rhs[0], i

		case i < len(n.Rhs):
			rhs = n.Rhs[i]
		}

		if rhs == nil {
			continue
		}

		s.emit(Assignment{
			Sym:    sym,
			Kind:   kind,
			Lhs:    lhs,
			Rhs:    Substitute(s.w.Info, rhs, bind),
			Raw:    rhs,
			Result: result,
			Stmt:   n,
			Scope:  sc,
		})

		if s.done {
			return
		}
	}
}

func (s *search) declStmt(n *ast.DeclStmt, sc scopes.Scope, bind map[*types.Var]ast.Expr) {
	gen, ok := n.Decl.(*ast.GenDecl)
	if !ok || gen.Tok != token.VAR {
		return
	}

	for _, spec := range gen.Specs {
		vs, ok := spec.(*ast.ValueSpec)
		if !ok {
			continue
		}

		multi := len(vs.Names) > 1 && len(vs.Values) == 1

		for i, name := range vs.Names {
			sym, kind, ok := ResolveTarget(s.w.Info, name)
			if !ok || (s.sym != nil && sym != s.sym) {
				continue
			}

			rhs, result := ast.Expr(nil), -1
			switch {
			case multi:
				rhs, result = vs.Values[0], i

			case i < len(vs.Values):
				rhs = vs.Values[i]
			}

			if rhs == nil {
				continue
			}

			s.emit(Assignment{
				Sym:    sym,
				Kind:   kind,
				Lhs:    name,
				Rhs:    Substitute(s.w.Info, rhs, bind),
				Raw:    rhs,
				Result: result,
				Stmt:   n,
				Scope:  sc,
			})

			if s.done {
				return
			}
		}
	}
}

// composite collects the field initializations of a struct literal. A
// keyed entry writes the named field, a positional entry the field at its
// index.
func (s *search) composite(n *ast.CompositeLit, sc scopes.Scope, bind map[*types.Var]ast.Expr) {
	tv, ok := s.w.Info.Types[n]
	if !ok {
		return
	}

	st, ok := structOf(tv.Type)
	if !ok {
		return
	}

	for i, elt := range n.Elts {
		var sym *types.Var

		lhs, rhs := ast.Expr(elt), ast.Expr(elt)

		if kv, ok := elt.(*ast.KeyValueExpr); ok {
			key, ok := kv.Key.(*ast.Ident)
			if !ok {
				continue
			}

			if sym, _, ok = ResolveTarget(s.w.Info, key); !ok {
				continue
			}

			lhs, rhs = kv.Key, kv.Value
		} else {
			if i >= st.NumFields() {
				break
			}

			sym = st.Field(i)
		}

		if s.sym != nil && sym != s.sym {
			continue
		}

		s.emit(Assignment{
			Sym:    sym,
			Kind:   FieldTarget,
			Lhs:    lhs,
			Rhs:    Substitute(s.w.Info, rhs, bind),
			Raw:    rhs,
			Result: -1,
			Stmt:   s.cur,
			Scope:  sc,
		})

		if s.done {
			return
		}
	}
}

func structOf(t types.Type) (*types.Struct, bool) {
	if p, ok := t.Underlying().(*types.Pointer); ok {
		t = p.Elem()
	}

	st, ok := t.Underlying().(*types.Struct)

	return st, ok
}

// call descends into an invoked member, substituting actual arguments for
// formal parameters. Property accessors resolve through here: a setter call
// leads to the backing-field write inside the setter's body, a getter call
// to the writes its body performs.
func (s *search) call(ctx context.Context, n *ast.CallExpr, bind map[*types.Var]ast.Expr) {
	fn, ok := typeutil.Callee(s.w.Info, n).(*types.Func)
	if !ok {
		return
	}

	callee, ok := s.w.Index.ForFunc(fn)
	if !ok {
		return
	}

	s.scope(ctx, callee, Bindings(s.w.Info, fn, n, bind))
}

func (s *search) emit(a Assignment) {
	s.out = append(s.out, a)

	if s.firstOnly {
		s.done = true
	}
}

// Bindings maps the formal parameters of fn to the actual arguments of the
// given call, resolving arguments that are themselves bound parameters
// through the outer binding.
func Bindings(info *types.Info, fn *types.Func, call *ast.CallExpr, outer map[*types.Var]ast.Expr) map[*types.Var]ast.Expr {
	params := fn.Signature().Params()
	bind := make(map[*types.Var]ast.Expr, params.Len())

	for i := range params.Len() {
		if i >= len(call.Args) {
			break
		}

		bind[params.At(i)] = Substitute(info, call.Args[i], outer)
	}

	return bind
}

// Substitute resolves an expression that denotes a bound formal parameter to
// the actual argument it was called with.
func Substitute(info *types.Info, e ast.Expr, bind map[*types.Var]ast.Expr) ast.Expr {
	if len(bind) == 0 {
		return e
	}

	id, ok := ast.Unparen(e).(*ast.Ident)
	if !ok {
		return e
	}

	v, ok := info.Uses[id].(*types.Var)
	if !ok {
		return e
	}

	if actual, ok := bind[v]; ok {
		return actual
	}

	return e
}

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

// Package dispose answers whether a tracked resource is released on the
// control-flow paths of a function body.
package dispose

import (
	"context"
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/types/typeutil"

	"github.com/Mafii/disposeguard/internal/assign"
	"github.com/Mafii/disposeguard/internal/ownership"
	"github.com/Mafii/disposeguard/internal/scopes"
)

// Walker answers release queries over one immutable snapshot.
type Walker struct {
	Info  *types.Info
	Index *scopes.Index
}

// verdict is the release state of one control-flow path.
type verdict int

const (
	pending  verdict = iota // not yet released, path continues
	released                // released, or release deferred
	broken                  // path terminated without a release
	escaped                 // ownership left the scope (returned or stored)
)

// ReleasedOnAllPaths reports whether every path through the scope body
// releases the symbol before terminating, starting the analysis at from.
// Pass [token.NoPos] to analyze the whole body. A value whose ownership
// escapes the scope counts as handled.
func (w *Walker) ReleasedOnAllPaths(ctx context.Context, sym *types.Var, from token.Pos, scope scopes.Scope) (bool, error) {
	pw := w.newWalk(sym, scope)
	pw.from = from

	v := pw.block(ctx, scope.Body.List)

	return satisfied(v), pw.err
}

// ReleasedBefore reports whether every path through the statement window
// between from and until releases the symbol. Paths leaving the scope
// inside the window never reach until and carry no obligation. Deferred
// releases do not count, they run after the window closes.
func (w *Walker) ReleasedBefore(ctx context.Context, sym *types.Var, from, until token.Pos, scope scopes.Scope) (bool, error) {
	pw := w.newWalk(sym, scope)
	pw.collectAliases(until)
	pw.from, pw.until = from, until

	v := pw.block(ctx, scope.Body.List)

	return satisfied(v), pw.err
}

// ElementsReleased reports whether the scope body releases the elements of
// the given slice or map field, through a range statement over the field
// whose body releases the iteration value. Elements that are composites of
// releasable values are released field by field through the iteration value.
func (w *Walker) ElementsReleased(ctx context.Context, fld *types.Var, scope scopes.Scope) (bool, error) {
	pw := w.newWalk(fld, scope)

	var found bool

	ast.Inspect(scope.Body, func(n ast.Node) bool {
		if found || pw.err != nil {
			return false
		}

		if err := ctx.Err(); err != nil {
			pw.err = err

			return false
		}

		rng, ok := n.(*ast.RangeStmt)
		if !ok {
			return true
		}

		sym, _, ok := assign.ResolveTarget(w.Info, rng.X)
		if !ok || !pw.tracks(sym) || rng.Value == nil {
			return true
		}

		elem, _, ok := assign.ResolveTarget(w.Info, rng.Value)
		if !ok {
			return true
		}

		found = w.elementWalk(ctx, elem, rng.Body, scope, pw)

		return false
	})

	return found, pw.err
}

// elementWalk checks one range body: a releasable iteration value must be
// released itself, a composite one per releasable field.
func (w *Walker) elementWalk(ctx context.Context, elem *types.Var, body *ast.BlockStmt, scope scopes.Scope, pw *pathWalk) bool {
	flds := ownership.ReleasableFields(elem.Type())
	if len(flds) == 0 {
		flds = []*types.Var{elem}
	}

	for _, f := range flds {
		ew := w.newWalk(f, scope)

		v := ew.block(ctx, body.List)
		if ew.err != nil {
			pw.err = ew.err

			return false
		}

		if v != released {
			return false
		}
	}

	return true
}

// ReleaseCall reports the symbol whose release method a call invokes.
func ReleaseCall(info *types.Info, call *ast.CallExpr) (*types.Var, bool) {
	sel, ok := ast.Unparen(call.Fun).(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != ownership.ReleaseMethod {
		return nil, false
	}

	recv := ast.Unparen(sel.X)
	if u, ok := recv.(*ast.UnaryExpr); ok && u.Op == token.AND {
		recv = ast.Unparen(u.X)
	}

	tv, ok := info.Types[recv]
	if !ok || !ownership.IsDisposable(tv.Type) {
		return nil, false
	}

	sym, _, ok := assign.ResolveTarget(info, recv)
	if !ok {
		return nil, false
	}

	return sym, true
}

func (w *Walker) newWalk(sym *types.Var, scope scopes.Scope) *pathWalk {
	return &pathWalk{
		w:       w,
		scope:   scope,
		tracked: map[*types.Var]struct{}{sym: {}},
		visited: make(scopes.Visited),
	}
}

// pathWalk carries the state of one release query: the tracked symbol with
// its aliases, a guard against cyclic helper descent, and an optional
// statement window. Statements ending before from are skipped; a valid
// until bounds the walk at the statement holding that position.
type pathWalk struct {
	w       *Walker
	scope   scopes.Scope
	tracked map[*types.Var]struct{}
	visited scopes.Visited
	from    token.Pos
	until   token.Pos
	err     error
}

// bounded reports whether the walk stops at an upper position. Bounded
// walks answer "released on every path reaching until": a path leaving
// the scope earlier is satisfied, and deferred releases run too late.
func (pw *pathWalk) bounded() bool {
	return pw.until.IsValid()
}

// within reports whether the walk's upper bound falls inside the node.
func (pw *pathWalk) within(n ast.Node) bool {
	return n != nil && n.Pos() <= pw.until && pw.until < n.End()
}

func (pw *pathWalk) tracks(v *types.Var) bool {
	_, ok := pw.tracked[v]

	return ok
}

// collectAliases records plain copies of the tracked value assigned before
// the given position, so releasing a copy counts.
func (pw *pathWalk) collectAliases(until token.Pos) {
	ast.Inspect(pw.scope.Body, func(n ast.Node) bool {
		if _, ok := n.(*ast.FuncLit); ok {
			return false
		}

		a, ok := n.(*ast.AssignStmt)
		if !ok || a.Pos() >= until {
			return true
		}

		for i, lhs := range a.Lhs {
			if i >= len(a.Rhs) {
				break
			}

			src, _, ok := assign.ResolveTarget(pw.w.Info, a.Rhs[i])
			if !ok || !pw.tracks(src) {
				continue
			}

			if dst, _, ok := assign.ResolveTarget(pw.w.Info, lhs); ok {
				pw.tracked[dst] = struct{}{}
			}
		}

		return true
	})
}

// block walks a statement list, combining per-statement verdicts into the
// verdict of the paths through it. Falling off the end leaves pending.
func (pw *pathWalk) block(ctx context.Context, stmts []ast.Stmt) verdict {
	for _, s := range stmts {
		if pw.err != nil {
			return pending
		}

		if err := ctx.Err(); err != nil {
			pw.err = err

			return pending
		}

		if s.End() <= pw.from {
			continue
		}

		if pw.bounded() && s.Pos() >= pw.until {
			return pending
		}

		switch v := pw.stmt(ctx, s); v {
		case released, broken, escaped:
			return v

		case pending:
		}
	}

	return pending
}

func (pw *pathWalk) stmt(ctx context.Context, s ast.Stmt) verdict {
	switch s := s.(type) {
	case *ast.AssignStmt:
		pw.alias(s)

		return pw.exprVerdict(ctx, s)

	case *ast.ExprStmt:
		return pw.exprVerdict(ctx, s)

	case *ast.DeferStmt:
		if !pw.bounded() && pw.deferredReleases(ctx, s.Call) {
			return released
		}

		return pending

	case *ast.ReturnStmt:
		for _, r := range s.Results {
			if sym, _, ok := assign.ResolveTarget(pw.w.Info, r); ok && pw.tracks(sym) {
				return escaped
			}
		}

		// A release inside the return expression, like return f.Close().
		if v := pw.exprVerdict(ctx, s); v != pending {
			return v
		}

		if pw.bounded() {
			return escaped // the path leaves before the window closes
		}

		return broken

	case *ast.IfStmt:
		return pw.ifStmt(ctx, s)

	case *ast.SwitchStmt:
		return pw.caseClauses(ctx, s.Body.List)

	case *ast.TypeSwitchStmt:
		return pw.caseClauses(ctx, s.Body.List)

	case *ast.ForStmt:
		return pw.loop(ctx, s.Body)

	case *ast.RangeStmt:
		return pw.loop(ctx, s.Body)

	case *ast.BlockStmt:
		return pw.block(ctx, s.List)

	case *ast.LabeledStmt:
		return pw.stmt(ctx, s.Stmt)

	case *ast.BranchStmt:
		return pending // resolved at the loop or switch boundary

	default:
		return pending
	}
}

// ifStmt combines the branch verdicts. Both arms releasing releases the
// whole statement; a terminated arm without release breaks the walk; one
// satisfied arm with a fall-through arm leaves the statement pending.
// When a bounded walk ends inside one arm, only that arm's paths matter.
func (pw *pathWalk) ifStmt(ctx context.Context, s *ast.IfStmt) verdict {
	if pw.bounded() {
		switch {
		case pw.within(s.Body):
			return pw.block(ctx, s.Body.List)

		case s.Else != nil && pw.within(s.Else):
			return pw.stmt(ctx, s.Else)
		}
	}

	then := pw.block(ctx, s.Body.List)

	alt := pending
	if s.Else != nil {
		alt = pw.stmt(ctx, s.Else)
	}

	switch {
	case then == broken || alt == broken:
		return broken

	case satisfied(then) && satisfied(alt):
		return released

	default:
		return pending
	}
}

// caseClauses requires every clause of a switch to satisfy the release. A
// switch without a default clause has a fall-through path and stays pending
// at best.
func (pw *pathWalk) caseClauses(ctx context.Context, clauses []ast.Stmt) verdict {
	all := true
	hasDefault := false

	for _, c := range clauses {
		cc, ok := c.(*ast.CaseClause)
		if !ok {
			continue
		}

		if pw.bounded() && pw.within(cc) {
			return pw.block(ctx, cc.Body)
		}

		if cc.List == nil {
			hasDefault = true
		}

		switch v := pw.block(ctx, cc.Body); {
		case v == broken:
			return broken

		case !satisfied(v):
			all = false
		}
	}

	if all && hasDefault {
		return released
	}

	return pending
}

// loop walks a loop body. The body may run zero times, so a release inside
// does not satisfy the enclosing path; a terminated path inside does break it.
// A bounded walk ending inside the body follows the body's paths directly.
func (pw *pathWalk) loop(ctx context.Context, body *ast.BlockStmt) verdict {
	if pw.bounded() && pw.within(body) {
		return pw.block(ctx, body.List)
	}

	if v := pw.block(ctx, body.List); v == broken || v == escaped {
		return v
	}

	return pending
}

func satisfied(v verdict) bool { return v == released || v == escaped }

// alias records a plain copy of the tracked value.
func (pw *pathWalk) alias(s *ast.AssignStmt) {
	for i, lhs := range s.Lhs {
		if i >= len(s.Rhs) {
			break
		}

		src, _, ok := assign.ResolveTarget(pw.w.Info, s.Rhs[i])
		if !ok || !pw.tracks(src) {
			continue
		}

		if dst, _, ok := assign.ResolveTarget(pw.w.Info, lhs); ok {
			pw.tracked[dst] = struct{}{}
		}
	}
}

// exprVerdict inspects the calls of one statement. A release of a tracked
// symbol or an escape through a store decides the path.
func (pw *pathWalk) exprVerdict(ctx context.Context, s ast.Stmt) verdict {
	v := pending

	ast.Inspect(s, func(n ast.Node) bool {
		if v != pending || pw.err != nil {
			return false
		}

		if _, ok := n.(*ast.FuncLit); ok {
			return false
		}

		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}

		if pw.releases(ctx, call) {
			v = released

			return false
		}

		if pw.escapes(call) {
			v = escaped

			return false
		}

		return true
	})

	return v
}

// releases reports whether a call releases a tracked symbol, directly or
// through a helper whose body releases the corresponding parameter.
func (pw *pathWalk) releases(ctx context.Context, call *ast.CallExpr) bool {
	if sym, ok := ReleaseCall(pw.w.Info, call); ok && pw.tracks(sym) {
		return true
	}

	return pw.helperReleases(ctx, call)
}

// helperReleases descends into a called function of this snapshot when a
// tracked value is among the arguments, and asks whether the callee
// releases the formal parameter on all of its paths.
func (pw *pathWalk) helperReleases(ctx context.Context, call *ast.CallExpr) bool {
	fn, ok := typeutil.Callee(pw.w.Info, call).(*types.Func)
	if !ok {
		return false
	}

	callee, ok := pw.w.Index.ForFunc(fn)
	if !ok {
		return false
	}

	sig := fn.Signature()
	params := sig.Params()

	for i, arg := range call.Args {
		if i >= params.Len() {
			break
		}

		sym, _, ok := assign.ResolveTarget(pw.w.Info, arg)
		if !ok || !pw.tracks(sym) {
			continue
		}

		if !pw.visited.Enter(callee) {
			continue
		}

		cw := &pathWalk{
			w:       pw.w,
			scope:   callee,
			tracked: map[*types.Var]struct{}{params.At(i): {}},
			visited: pw.visited,
		}

		v := cw.block(ctx, callee.Body.List)
		if cw.err != nil {
			pw.err = cw.err

			return false
		}

		if satisfied(v) {
			return true
		}
	}

	return false
}

// escapes reports whether a call moves a tracked value out of the scope's
// responsibility, by handing it to a function outside this snapshot.
func (pw *pathWalk) escapes(call *ast.CallExpr) bool {
	if _, ok := ReleaseCall(pw.w.Info, call); ok {
		return false
	}

	fn, ok := typeutil.Callee(pw.w.Info, call).(*types.Func)
	if ok {
		if _, local := pw.w.Index.ForFunc(fn); local {
			return false
		}
	}

	for _, arg := range call.Args {
		if sym, _, liftable := assign.ResolveTarget(pw.w.Info, arg); liftable && pw.tracks(sym) {
			return true
		}
	}

	return false
}

// deferredReleases reports whether a deferred call releases a tracked
// symbol, either directly or inside a deferred closure.
func (pw *pathWalk) deferredReleases(ctx context.Context, call *ast.CallExpr) bool {
	if pw.releases(ctx, call) {
		return true
	}

	lit, ok := ast.Unparen(call.Fun).(*ast.FuncLit)
	if !ok {
		return false
	}

	var found bool

	ast.Inspect(lit.Body, func(n ast.Node) bool {
		if found {
			return false
		}

		if inner, ok := n.(*ast.CallExpr); ok {
			if sym, ok := ReleaseCall(pw.w.Info, inner); ok && pw.tracks(sym) {
				found = true

				return false
			}
		}

		return true
	})

	return found
}

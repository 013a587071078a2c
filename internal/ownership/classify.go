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

package ownership

import (
	"context"
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/types/typeutil"

	"github.com/Mafii/disposeguard/internal/assign"
	"github.com/Mafii/disposeguard/internal/scopes"
)

// Classifier labels an expression's resource ownership as created, injected
// or unknown, recursively through factory calls and composite values. It is
// a pure query over one immutable snapshot.
type Classifier struct {
	Info   *types.Info
	Index  *scopes.Index
	Walker *assign.Walker
}

// Classify labels the resource ownership of an expression evaluated in the
// given scope. Unresolvable expressions classify as [Unknown]; a non-nil
// error reports a cancelled, incomplete classification.
func (c *Classifier) Classify(ctx context.Context, scope scopes.Scope, e ast.Expr) (Label, error) {
	cl := c.newClassification()
	l := cl.expr(ctx, scope, e, nil)

	return l, cl.err
}

// ClassifyAssignment labels the value an assignment stores, taking the
// result index of multi-value call assignments into account.
func (c *Classifier) ClassifyAssignment(ctx context.Context, a assign.Assignment) (Label, error) {
	cl := c.newClassification()

	var l Label
	if call, ok := ast.Unparen(a.Rhs).(*ast.CallExpr); ok && a.Result >= 0 {
		l = cl.call(ctx, a.Scope, call, a.Result, nil)
	} else {
		l = cl.expr(ctx, a.Scope, a.Rhs, nil)
	}

	return l, cl.err
}

func (c *Classifier) newClassification() *classification {
	return &classification{
		c:       c,
		visited: make(scopes.Visited),
		active:  make(map[*types.Var]struct{}),
	}
}

// classification holds locally-owned traversal state for one query.
type classification struct {
	c       *Classifier
	visited scopes.Visited        // factory bodies entered
	active  map[*types.Var]struct{} // symbols currently being classified
	err     error
}

// expr applies the classification rules by structural pattern. bind maps
// formal parameters to actual arguments when classifying inside a callee.
func (cl *classification) expr(ctx context.Context, scope scopes.Scope, e ast.Expr, bind map[*types.Var]ast.Expr) Label {
	if cl.err != nil {
		return Unknown
	}

	if err := ctx.Err(); err != nil {
		cl.err = err

		return Unknown
	}

	switch e := ast.Unparen(e).(type) {
	case *ast.UnaryExpr:
		if e.Op == token.AND {
			return cl.expr(ctx, scope, e.X, bind)
		}

		return Unknown

	case *ast.StarExpr:
		return cl.expr(ctx, scope, e.X, bind)

	case *ast.TypeAssertExpr:
		return cl.expr(ctx, scope, e.X, bind)

	case *ast.CompositeLit:
		return cl.composite(ctx, scope, e, bind)

	case *ast.CallExpr:
		return cl.call(ctx, scope, e, -1, bind)

	case *ast.Ident:
		return cl.ident(ctx, scope, e, bind)

	case *ast.SelectorExpr:
		return cl.fieldRead(ctx, e)

	default:
		return Unknown
	}
}

// composite classifies a composite literal. A literal of a releasable type
// is a direct construction. Other literals classify element-wise: the
// aggregate is created only if every resource-relevant element is created.
func (cl *classification) composite(ctx context.Context, scope scopes.Scope, e *ast.CompositeLit, bind map[*types.Var]ast.Expr) Label {
	if tv, ok := cl.c.Info.Types[e]; ok && IsDisposable(tv.Type) {
		return Created
	}

	var labels []Label

	for _, elt := range e.Elts {
		if kv, ok := elt.(*ast.KeyValueExpr); ok {
			elt = kv.Value
		}

		if !cl.relevant(elt) {
			continue
		}

		labels = append(labels, cl.expr(ctx, scope, elt, bind))
	}

	return Combine(labels)
}

// relevant reports whether an element carries a resource: its type requires
// release or it is itself a composite that may contain one.
func (cl *classification) relevant(e ast.Expr) bool {
	if _, ok := ast.Unparen(e).(*ast.CompositeLit); ok {
		return true
	}

	tv, ok := cl.c.Info.Types[e]

	return ok && IsDisposable(tv.Type)
}

// call classifies the value produced by a call. resultIndex selects the
// result of a multi-value call, -1 means the first.
func (cl *classification) call(ctx context.Context, scope scopes.Scope, e *ast.CallExpr, resultIndex int, bind map[*types.Var]ast.Expr) Label {
	// Type conversions preserve the operand's provenance.
	if tv, ok := cl.c.Info.Types[e.Fun]; ok && tv.IsType() && len(e.Args) == 1 {
		return cl.expr(ctx, scope, e.Args[0], bind)
	}

	switch fn := typeutil.Callee(cl.c.Info, e).(type) {
	case *types.Builtin:
		return cl.builtin(ctx, scope, e, fn, bind)

	case *types.Func:
		return cl.factory(ctx, scope, e, fn, resultIndex, bind)

	default:
		return Unknown
	}
}

func (cl *classification) builtin(ctx context.Context, scope scopes.Scope, e *ast.CallExpr, fn *types.Builtin, bind map[*types.Var]ast.Expr) Label {
	switch fn.Name() {
	case "new":
		if tv, ok := cl.c.Info.Types[e]; ok && IsDisposable(tv.Type) {
			return Created
		}

		return Unknown

	case "append":
		// Element-wise, like a composite literal.
		var labels []Label

		for _, arg := range e.Args[1:] {
			if !cl.relevant(arg) {
				continue
			}

			labels = append(labels, cl.expr(ctx, scope, arg, bind))
		}

		return Combine(labels)

	default:
		return Unknown
	}
}

// factory classifies a call through the called function's own return sites.
// A factory is created when every return site classifies as created;
// divergent return sites yield [Unknown]. Externals without a body in this
// snapshot stay [Unknown].
func (cl *classification) factory(ctx context.Context, scope scopes.Scope, e *ast.CallExpr, fn *types.Func, resultIndex int, bind map[*types.Var]ast.Expr) Label {
	callee, ok := cl.c.Index.ForFunc(fn)
	if !ok {
		return Unknown
	}

	if !cl.visited.Enter(callee) {
		return Unknown // cyclic factory chain
	}

	calleeBind := assign.Bindings(cl.c.Info, fn, e, bind)
	idx := max(resultIndex, 0)

	var labels []Label

	for _, ret := range returnSites(callee.Body) {
		switch {
		case len(ret.Results) == 0:
			// Named results, not tracked further.
			labels = append(labels, Unknown)

		case idx < len(ret.Results):
			labels = append(labels, cl.returned(ctx, scope, callee, ret.Results[idx], calleeBind))

		case len(ret.Results) == 1:
			// A forwarded multi-value call: return inner().
			if inner, ok := ast.Unparen(ret.Results[0]).(*ast.CallExpr); ok {
				labels = append(labels, cl.call(ctx, callee, inner, idx, calleeBind))
			} else {
				labels = append(labels, Unknown)
			}

		default:
			labels = append(labels, Unknown)
		}
	}

	return Combine(labels)
}

// returned classifies one return expression of a callee. A returned formal
// parameter resolves to the caller's actual argument, so ownership flows
// through the factory unchanged.
func (cl *classification) returned(ctx context.Context, caller scopes.Scope, callee scopes.Scope, e ast.Expr, bind map[*types.Var]ast.Expr) Label {
	if actual := assign.Substitute(cl.c.Info, e, bind); actual != e {
		return cl.expr(ctx, caller, actual, nil)
	}

	return cl.expr(ctx, callee, e, bind)
}

func (cl *classification) ident(ctx context.Context, scope scopes.Scope, e *ast.Ident, bind map[*types.Var]ast.Expr) Label {
	v, ok := object(cl.c.Info, e)
	if !ok {
		return Unknown
	}

	if actual, bound := bind[v]; bound {
		return cl.expr(ctx, scope, actual, nil)
	}

	if scope.ParamOf(v) {
		return Injected
	}

	if _, busy := cl.active[v]; busy {
		return Unknown
	}

	cl.active[v] = struct{}{}
	defer delete(cl.active, v)

	// An alias: classify the value the symbol was assigned.
	a, found, err := cl.c.Walker.First(ctx, v, scope, assign.TopLevel)
	if err != nil {
		cl.err = err

		return Unknown
	}

	if !found {
		return Unknown
	}

	return cl.expr(ctx, a.Scope, a.Rhs, nil)
}

// fieldRead classifies a read of a field through its population sites. A
// field populated exclusively from parameters is injected; populated
// exclusively with fresh values it is created; divergent sites are unknown.
func (cl *classification) fieldRead(ctx context.Context, e *ast.SelectorExpr) Label {
	fld, ok := object(cl.c.Info, e.Sel)
	if !ok || !fld.IsField() {
		return Unknown
	}

	tv, ok := cl.c.Info.Types[e.X]
	if !ok {
		return Unknown
	}

	owner, ok := Named(tv.Type)
	if !ok {
		return Unknown
	}

	return cl.field(ctx, owner, fld)
}

// field classifies a field object through every assignment site reachable
// for it, including chained-constructor flows.
func (cl *classification) field(ctx context.Context, owner *types.Named, fld *types.Var) Label {
	if _, busy := cl.active[fld]; busy {
		return Unknown
	}

	cl.active[fld] = struct{}{}
	defer delete(cl.active, fld)

	sites, err := cl.c.Walker.Sites(ctx, owner, fld, assign.Recursive)
	if err != nil {
		cl.err = err

		return Unknown
	}

	labels := make([]Label, 0, len(sites))
	for _, site := range sites {
		labels = append(labels, cl.expr(ctx, site.Scope, site.Rhs, nil))
	}

	return Combine(labels)
}

// Field classifies a struct field of the owner type through all of its
// assignment sites. It backs the member rules of the engine.
func (c *Classifier) Field(ctx context.Context, owner *types.Named, fld *types.Var) (Label, error) {
	cl := c.newClassification()
	l := cl.field(ctx, owner, fld)

	return l, cl.err
}

// returnSites collects the return statements of a body in source order,
// excluding nested function literals.
func returnSites(body *ast.BlockStmt) []*ast.ReturnStmt {
	var sites []*ast.ReturnStmt

	ast.Inspect(body, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.FuncLit:
			return false

		case *ast.ReturnStmt:
			sites = append(sites, n)
		}

		return true
	})

	return sites
}

func object(info *types.Info, id *ast.Ident) (*types.Var, bool) {
	obj := info.Uses[id]
	if obj == nil {
		obj = info.Defs[id]
	}

	v, ok := obj.(*types.Var)

	return v, ok
}

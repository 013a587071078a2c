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

package rules

import (
	"context"
	"go/ast"
	"go/token"
	"go/types"
	"maps"

	"github.com/Mafii/disposeguard/internal/assign"
	"github.com/Mafii/disposeguard/internal/dispose"
	"github.com/Mafii/disposeguard/internal/scopes"
)

// useAfterClose flags reads of a value after its release. The walk carries
// the set of released symbols along one path, forks it at branches and
// keeps only releases common to all paths that fall through.
func (e *Engine) useAfterClose(ctx context.Context, sc scopes.Scope) ([]Finding, error) {
	uw := &useWalk{e: e, ctx: ctx}
	uw.block(sc.Body.List, closedSet{})

	return uw.findings, uw.err
}

// closedSet maps a released symbol to the position of its release.
type closedSet map[*types.Var]token.Pos

// useWalk is the traversal state of one use-after-close query.
type useWalk struct {
	e        *Engine
	ctx      context.Context
	findings []Finding
	err      error
}

// block walks a statement list with the given entry state and reports the
// exit state. terminated is true when every path through the list returns.
func (uw *useWalk) block(stmts []ast.Stmt, closed closedSet) (closedSet, bool) {
	for _, s := range stmts {
		if uw.err != nil {
			return closed, false
		}

		if err := uw.ctx.Err(); err != nil {
			uw.err = err

			return closed, false
		}

		var terminated bool
		if closed, terminated = uw.stmt(s, closed); terminated {
			return closed, true
		}
	}

	return closed, false
}

func (uw *useWalk) stmt(s ast.Stmt, closed closedSet) (closedSet, bool) {
	switch s := s.(type) {
	case *ast.ExprStmt:
		uw.uses(s.X, closed)
		uw.mark(s.X, closed)

		return closed, false

	case *ast.AssignStmt:
		return uw.assignStmt(s, closed), false

	case *ast.DeclStmt:
		if gd, ok := s.Decl.(*ast.GenDecl); ok {
			for _, spec := range gd.Specs {
				if vs, ok := spec.(*ast.ValueSpec); ok {
					for _, v := range vs.Values {
						uw.uses(v, closed)
					}
				}
			}
		}

		return closed, false

	case *ast.ReturnStmt:
		for _, r := range s.Results {
			uw.uses(r, closed)
		}

		return closed, true

	case *ast.DeferStmt, *ast.GoStmt:
		// Runs outside this path's order.
		return closed, false

	case *ast.IfStmt:
		return uw.ifStmt(s, closed)

	case *ast.SwitchStmt:
		if s.Tag != nil {
			uw.uses(s.Tag, closed)
		}

		return uw.switchStmt(s.Body.List, closed)

	case *ast.TypeSwitchStmt:
		return uw.switchStmt(s.Body.List, closed)

	case *ast.ForStmt:
		if s.Cond != nil {
			uw.uses(s.Cond, closed)
		}

		uw.block(s.Body.List, maps.Clone(closed))

		return closed, false

	case *ast.RangeStmt:
		uw.uses(s.X, closed)
		uw.block(s.Body.List, maps.Clone(closed))

		return closed, false

	case *ast.BlockStmt:
		return uw.block(s.List, closed)

	case *ast.LabeledStmt:
		return uw.stmt(s.Stmt, closed)

	case *ast.BranchStmt:
		return closed, true

	default:
		return closed, false
	}
}

// assignStmt checks the right-hand sides, then resets the state of
// overwritten targets: a reassigned symbol holds a fresh value.
func (uw *useWalk) assignStmt(s *ast.AssignStmt, closed closedSet) closedSet {
	for _, rhs := range s.Rhs {
		uw.uses(rhs, closed)
		uw.mark(rhs, closed)
	}

	for _, lhs := range s.Lhs {
		if sym, _, ok := assign.ResolveTarget(uw.e.Pass.TypesInfo, lhs); ok {
			delete(closed, sym)
		}
	}

	return closed
}

// ifStmt forks the state into both arms and merges the releases common to
// the arms that fall through.
func (uw *useWalk) ifStmt(s *ast.IfStmt, closed closedSet) (closedSet, bool) {
	if s.Init != nil {
		closed, _ = uw.stmt(s.Init, closed)
	}

	uw.uses(s.Cond, closed)

	thenClosed, thenTerm := uw.block(s.Body.List, maps.Clone(closed))

	elseClosed, elseTerm := maps.Clone(closed), false
	if s.Else != nil {
		elseClosed, elseTerm = uw.stmt(s.Else, elseClosed)
	}

	switch {
	case thenTerm && elseTerm:
		return closed, true

	case thenTerm:
		return elseClosed, false

	case elseTerm:
		return thenClosed, false

	default:
		return intersect(thenClosed, elseClosed), false
	}
}

// switchStmt forks the state into each clause. Only releases common to all
// falling-through clauses survive, and only a switch with a default clause
// can terminate.
func (uw *useWalk) switchStmt(clauses []ast.Stmt, closed closedSet) (closedSet, bool) {
	merged := closedSet(nil)
	allTerm := true
	hasDefault := false

	for _, c := range clauses {
		cc, ok := c.(*ast.CaseClause)
		if !ok {
			continue
		}

		if cc.List == nil {
			hasDefault = true
		}

		for _, x := range cc.List {
			uw.uses(x, closed)
		}

		out, term := uw.block(cc.Body, maps.Clone(closed))
		if term {
			continue
		}

		allTerm = false

		if merged == nil {
			merged = out
		} else {
			merged = intersect(merged, out)
		}
	}

	if allTerm && hasDefault {
		return closed, true
	}

	if !hasDefault {
		// The fall-through path skips every clause.
		merged = intersect(merged, closed)
	}

	if merged == nil {
		merged = closed
	}

	return merged, false
}

// uses reports reads of released symbols inside an expression. Release
// receivers, nil comparisons and nested function literals do not count as
// uses.
func (uw *useWalk) uses(e ast.Expr, closed closedSet) {
	if len(closed) == 0 {
		return
	}

	info := uw.e.Pass.TypesInfo

	ast.Inspect(e, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.FuncLit:
			return false

		case *ast.BinaryExpr:
			if isNilCheck(n) {
				return false
			}

		case *ast.CallExpr:
			if _, ok := dispose.ReleaseCall(info, n); ok {
				// The receiver of a release is not a use, arguments are.
				for _, arg := range n.Args {
					uw.uses(arg, closed)
				}

				return false
			}

		case *ast.Ident:
			sym, ok := object(info, n)
			if !ok {
				return true
			}

			if at, isClosed := closed[sym]; isClosed {
				uw.findings = append(uw.findings, Finding{
					Rule: UseAfterClose,
					Sym:  sym,
					Name: sym.Name(),
					Pos:  n.Pos(),
					End:  n.End(),
					Evidence: []Evidence{
						evidence("released here", at, at),
					},
				})
			}
		}

		return true
	})
}

// mark records the releases an expression performs.
func (uw *useWalk) mark(e ast.Expr, closed closedSet) {
	info := uw.e.Pass.TypesInfo

	ast.Inspect(e, func(n ast.Node) bool {
		if _, ok := n.(*ast.FuncLit); ok {
			return false
		}

		if call, ok := n.(*ast.CallExpr); ok {
			if sym, ok := dispose.ReleaseCall(info, call); ok {
				closed[sym] = call.Pos()
			}
		}

		return true
	})
}

// intersect keeps the releases present in both states.
func intersect(a, b closedSet) closedSet {
	out := make(closedSet, min(len(a), len(b)))

	for sym, pos := range a {
		if _, ok := b[sym]; ok {
			out[sym] = pos
		}
	}

	return out
}

func isNilCheck(e *ast.BinaryExpr) bool {
	if e.Op != token.EQL && e.Op != token.NEQ {
		return false
	}

	return isNil(e.X) || isNil(e.Y)
}

func isNil(e ast.Expr) bool {
	id, ok := ast.Unparen(e).(*ast.Ident)

	return ok && id.Name == "nil"
}

func object(info *types.Info, id *ast.Ident) (*types.Var, bool) {
	obj := info.Uses[id]
	if obj == nil {
		obj = info.Defs[id]
	}

	v, ok := obj.(*types.Var)

	return v, ok
}

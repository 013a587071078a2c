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
	"go/types"
	"runtime/trace"

	"golang.org/x/tools/go/analysis"

	"github.com/Mafii/disposeguard/internal/assign"
	"github.com/Mafii/disposeguard/internal/config"
	"github.com/Mafii/disposeguard/internal/dispose"
	"github.com/Mafii/disposeguard/internal/ownership"
	"github.com/Mafii/disposeguard/internal/scopes"
)

// Engine evaluates the enabled ownership rules. It is immutable after
// construction, queries may run concurrently for different scopes.
type Engine struct {
	Pass     *analysis.Pass
	Index    *scopes.Index
	Assign   *assign.Walker
	Dispose  *dispose.Walker
	Classify *ownership.Classifier
	Checks   config.BitMask[config.CheckFlags]
	Mode     assign.Mode
}

// NewEngine builds an engine over the pass's type information and scope
// index.
func NewEngine(p *analysis.Pass, index *scopes.Index, checks config.BitMask[config.CheckFlags], mode assign.Mode) *Engine {
	aw := &assign.Walker{Info: p.TypesInfo, Index: index}

	return &Engine{
		Pass:    p,
		Index:   index,
		Assign:  aw,
		Dispose: &dispose.Walker{Info: p.TypesInfo, Index: index},
		Classify: &ownership.Classifier{
			Info:   p.TypesInfo,
			Index:  index,
			Walker: aw,
		},
		Checks: checks,
		Mode:   mode,
	}
}

// scopeRules are the rules evaluated per function scope. The table is
// process-wide and read-only.
var scopeRules = [...]struct {
	check config.CheckFlags
	name  string
	run   func(*Engine, context.Context, scopes.Scope) ([]Finding, error)
}{
	{check: config.ReassignCheck, name: "Reassign", run: (*Engine).reassign},
	{check: config.UseAfterCloseCheck, name: "UseAfterClose", run: (*Engine).useAfterClose},
}

// memberRules are the rules evaluated per named struct type.
var memberRules = [...]struct {
	check config.CheckFlags
	name  string
	run   func(*Engine, context.Context, *types.Named) ([]Finding, error)
}{
	{check: config.MixedOwnershipCheck, name: "MixedOwnership", run: (*Engine).mixedOwnership},
	{check: config.MemberCloseCheck, name: "MemberClose", run: (*Engine).memberClose},
}

// Scope evaluates the enabled per-scope rules for one function body.
func (e *Engine) Scope(ctx context.Context, sc scopes.Scope) ([]Finding, error) {
	var findings []Finding

	for _, r := range scopeRules {
		if !e.Checks.Enabled(r.check) {
			continue
		}

		f, err := e.runScopeRule(ctx, r.name, r.run, sc)
		if err != nil {
			return nil, err
		}

		findings = append(findings, f...)
	}

	return findings, nil
}

func (e *Engine) runScopeRule(
	ctx context.Context, name string,
	run func(*Engine, context.Context, scopes.Scope) ([]Finding, error),
	sc scopes.Scope,
) ([]Finding, error) {
	defer trace.StartRegion(ctx, name).End()

	return run(e, ctx, sc)
}

// Members evaluates the enabled member rules for every named struct type
// declared at package scope, in declaration name order.
func (e *Engine) Members(ctx context.Context) ([]Finding, error) {
	defer trace.StartRegion(ctx, "Members").End()

	var findings []Finding

	pkgScope := e.Pass.Pkg.Scope()
	for _, name := range pkgScope.Names() {
		tn, ok := pkgScope.Lookup(name).(*types.TypeName)
		if ok {
			f, err := e.namedType(ctx, tn)
			if err != nil {
				return nil, err
			}

			findings = append(findings, f...)
		}
	}

	return findings, nil
}

func (e *Engine) namedType(ctx context.Context, tn *types.TypeName) ([]Finding, error) {
	named, ok := tn.Type().(*types.Named)
	if !ok {
		return nil, nil // an alias
	}

	if _, ok := named.Underlying().(*types.Struct); !ok {
		return nil, nil
	}

	var findings []Finding

	for _, r := range memberRules {
		if !e.Checks.Enabled(r.check) {
			continue
		}

		f, err := r.run(e, ctx, named)
		if err != nil {
			return nil, err
		}

		findings = append(findings, f...)
	}

	return findings, nil
}

// fields iterates the releasable members of a struct type: fields whose
// type requires release, and container fields holding releasable elements.
func fields(named *types.Named) []member {
	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return nil
	}

	var members []member

	for f := range st.Fields() {
		switch {
		case ownership.IsDisposable(f.Type()):
			members = append(members, member{fld: f})

		case elementDisposable(f.Type()):
			members = append(members, member{fld: f, container: true})
		}
	}

	return members
}

// member is one releasable field of an owner type. Container members hold
// releasable elements rather than being releasable themselves.
type member struct {
	fld       *types.Var
	container bool
}

// containerElem returns the element type of a slice, array or map.
func containerElem(t types.Type) (types.Type, bool) {
	switch t := t.Underlying().(type) {
	case *types.Slice:
		return t.Elem(), true

	case *types.Array:
		return t.Elem(), true

	case *types.Map:
		return t.Elem(), true

	default:
		return nil, false
	}
}

// elementDisposable accepts containers of releasable elements and of
// composite elements carrying releasable fields, like a list of pairs of
// resources.
func elementDisposable(t types.Type) bool {
	el, ok := containerElem(t)
	if !ok {
		return false
	}

	return ownership.IsDisposable(el) || len(ownership.ReleasableFields(el)) > 0
}

// containerElement reports whether the type occurs as the element of a
// container field of another package type. Such elements are owned and
// released through the container, checked at the container's member.
func (e *Engine) containerElement(named *types.Named) bool {
	pkgScope := e.Pass.Pkg.Scope()
	for _, name := range pkgScope.Names() {
		tn, ok := pkgScope.Lookup(name).(*types.TypeName)
		if !ok {
			continue
		}

		owner, ok := tn.Type().(*types.Named)
		if !ok || owner == named {
			continue
		}

		st, ok := owner.Underlying().(*types.Struct)
		if !ok {
			continue
		}

		for f := range st.Fields() {
			el, ok := containerElem(f.Type())
			if !ok {
				continue
			}

			if n, ok := ownership.Named(el); ok && n == named {
				return true
			}
		}
	}

	return false
}

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

	"github.com/Mafii/disposeguard/internal/assign"
	"github.com/Mafii/disposeguard/internal/ownership"
	"github.com/Mafii/disposeguard/internal/scopes"
)

// reassign flags assignments that overwrite a created, still unreleased
// value. The previous value must be released between the two assignments,
// a deferred release does not help since it runs after the overwrite.
func (e *Engine) reassign(ctx context.Context, sc scopes.Scope) ([]Finding, error) {
	all, err := e.Assign.Collect(ctx, sc)
	if err != nil {
		return nil, err
	}

	bySym := make(map[*types.Var][]assign.Assignment)

	var order []*types.Var

	for _, a := range all {
		if a.Sym == nil || !ownership.IsDisposable(a.Sym.Type()) {
			continue
		}

		if _, seen := bySym[a.Sym]; !seen {
			order = append(order, a.Sym)
		}

		bySym[a.Sym] = append(bySym[a.Sym], a)
	}

	var findings []Finding

	for _, sym := range order {
		f, err := e.reassignChain(ctx, sc, sym, bySym[sym])
		if err != nil {
			return nil, err
		}

		findings = append(findings, f...)
	}

	return findings, nil
}

// reassignChain checks consecutive assignments to one symbol.
func (e *Engine) reassignChain(ctx context.Context, sc scopes.Scope, sym *types.Var, chain []assign.Assignment) ([]Finding, error) {
	var findings []Finding

	for i := 1; i < len(chain); i++ {
		prev, next := chain[i-1], chain[i]

		label, err := e.Classify.ClassifyAssignment(ctx, prev)
		if err != nil {
			return nil, err
		}

		if label != ownership.Created {
			continue
		}

		ok, err := e.Dispose.ReleasedBefore(ctx, sym, prev.End(), next.Pos(), sc)
		if err != nil {
			return nil, err
		}

		if ok {
			continue
		}

		findings = append(findings, Finding{
			Rule: Reassign,
			Sym:  sym,
			Name: sym.Name(),
			Pos:  next.Pos(),
			End:  next.End(),
			Evidence: []Evidence{
				evidence("previous value assigned here", prev.Pos(), prev.End()),
			},
		})
	}

	return findings, nil
}

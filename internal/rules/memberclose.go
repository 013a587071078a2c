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
	"go/token"
	"go/types"

	"github.com/Mafii/disposeguard/internal/ownership"
	"github.com/Mafii/disposeguard/internal/scopes"
)

// memberClose requires members the type creates to be released by the
// type's release method. Injected members belong to the caller and are
// exempt.
func (e *Engine) memberClose(ctx context.Context, named *types.Named) ([]Finding, error) {
	members := fields(named)
	if len(members) == 0 {
		return nil, nil
	}

	closer, hasCloser := e.Index.MethodNamed(named, ownership.ReleaseMethod)

	// Types without a release method whose values live inside another
	// type's container are released element-wise by the container's owner;
	// the container member carries the obligation.
	if !hasCloser && e.containerElement(named) {
		return nil, nil
	}

	var findings []Finding

	for _, m := range members {
		label, err := e.Classify.Field(ctx, named, m.fld)
		if err != nil {
			return nil, err
		}

		if label != ownership.Created {
			continue
		}

		f, err := e.memberReleased(ctx, named, m, closer, hasCloser)
		if err != nil {
			return nil, err
		}

		if f != nil {
			findings = append(findings, *f)
		}
	}

	return findings, nil
}

func (e *Engine) memberReleased(ctx context.Context, named *types.Named, m member, closer scopes.Scope, hasCloser bool) (*Finding, error) {
	if !hasCloser {
		f := e.memberFinding(named, m.fld, nil)

		return f, nil
	}

	var (
		ok  bool
		err error
	)

	if m.container {
		ok, err = e.Dispose.ElementsReleased(ctx, m.fld, closer)
	} else {
		ok, err = e.Dispose.ReleasedOnAllPaths(ctx, m.fld, token.NoPos, closer)
	}

	if err != nil || ok {
		return nil, err
	}

	ev := []Evidence{evidence("release method defined here", closer.Pos(), closer.Pos())}
	f := e.memberFinding(named, m.fld, ev)

	return f, nil
}

func (e *Engine) memberFinding(named *types.Named, fld *types.Var, ev []Evidence) *Finding {
	return &Finding{
		Rule:     MemberClose,
		Sym:      fld,
		Name:     ownerName(named, fld),
		Pos:      fld.Pos(),
		End:      fld.Pos() + token.Pos(len(fld.Name())),
		Evidence: ev,
	}
}

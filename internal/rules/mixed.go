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
	"fmt"
	"go/token"
	"go/types"

	"github.com/Mafii/disposeguard/internal/ownership"
)

// mixedOwnership flags members populated with both created and injected
// values. Such a member has no single release responsibility: the owner
// must either always create the value or always receive it.
func (e *Engine) mixedOwnership(ctx context.Context, named *types.Named) ([]Finding, error) {
	var findings []Finding

	for _, m := range fields(named) {
		if m.container {
			continue
		}

		f, err := e.mixedMember(ctx, named, m.fld)
		if err != nil {
			return nil, err
		}

		if f != nil {
			findings = append(findings, *f)
		}
	}

	return findings, nil
}

func (e *Engine) mixedMember(ctx context.Context, named *types.Named, fld *types.Var) (*Finding, error) {
	sites, err := e.Assign.Sites(ctx, named, fld, e.Mode)
	if err != nil {
		return nil, err
	}

	var created, injected []Evidence

	for _, site := range sites {
		label, err := e.Classify.ClassifyAssignment(ctx, site)
		if err != nil {
			return nil, err
		}

		switch label {
		case ownership.Created:
			created = append(created, evidence("assigned a created value here", site.Pos(), site.End()))

		case ownership.Injected:
			injected = append(injected, evidence("assigned an injected value here", site.Pos(), site.End()))

		case ownership.Unknown:
		}
	}

	if len(created) == 0 || len(injected) == 0 {
		return nil, nil
	}

	f := &Finding{
		Rule:     MixedOwnership,
		Sym:      fld,
		Name:     ownerName(named, fld),
		Pos:      fld.Pos(),
		End:      fld.Pos() + token.Pos(len(fld.Name())),
		Evidence: append(created, injected...),
	}

	return f, nil
}

// ownerName formats the qualified member name used in diagnostics.
func ownerName(named *types.Named, fld *types.Var) string {
	return fmt.Sprintf("%s.%s", named.Obj().Name(), fld.Name())
}

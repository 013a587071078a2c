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

// Package report turns rule findings into analysis diagnostics.
package report

import (
	"cmp"
	"context"
	"fmt"
	"runtime/trace"
	"slices"

	"golang.org/x/tools/go/analysis"

	"github.com/Mafii/disposeguard/internal/rules"
)

// Process emits one diagnostic per finding, in source order. Evidence
// locations become related information.
//
// This is the final phase of the analyzer pipeline. Findings arrive from
// concurrently evaluated scopes, so they are sorted before reporting to
// keep the output deterministic.
func Process(ctx context.Context, p *analysis.Pass, findings []rules.Finding) {
	if len(findings) == 0 {
		return
	}

	defer trace.StartRegion(ctx, "Report").End()

	slices.SortFunc(findings, func(a, b rules.Finding) int {
		if c := cmp.Compare(a.Pos, b.Pos); c != 0 {
			return c
		}

		return cmp.Compare(a.Rule, b.Rule)
	})

	for _, f := range findings {
		p.Report(diagnostic(f))
	}
}

func diagnostic(f rules.Finding) analysis.Diagnostic {
	d := analysis.Diagnostic{
		Pos:     f.Pos,
		End:     f.End,
		Message: message(f),
	}

	for _, ev := range f.Evidence {
		d.Related = append(d.Related, analysis.RelatedInformation{
			Pos:     ev.Pos,
			End:     ev.End,
			Message: ev.Msg,
		})
	}

	return d
}

// message constructs the diagnostic message for a finding.
func message(f rules.Finding) string {
	switch f.Rule {
	case rules.Reassign:
		return fmt.Sprintf("Value of '%s' is reassigned before the previous value is released (dg:%s)", f.Name, f.Rule)

	case rules.UseAfterClose:
		return fmt.Sprintf("Value of '%s' is used after it was released (dg:%s)", f.Name, f.Rule)

	case rules.MixedOwnership:
		return fmt.Sprintf("Member '%s' is assigned both created and injected values (dg:%s)", f.Name, f.Rule)

	case rules.MemberClose:
		return fmt.Sprintf("Created member '%s' is not released by the Close method (dg:%s)", f.Name, f.Rule)

	default:
		return fmt.Sprintf("Ownership violation for '%s' (dg:%s)", f.Name, f.Rule)
	}
}

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

package analyzer

import (
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"

	"github.com/Mafii/disposeguard/internal/config"
)

// runOptions represent the configuration of one disposeguard analyzer.
type runOptions struct {
	// checks represents the ownership checks to be enabled.
	checks config.BitMask[config.CheckFlags]

	// behavior holds search and file handling options.
	behavior config.BitMask[config.Config]
}

// makeRunOptions returns a [runOptions] struct with overriding [Options] applied.
func makeRunOptions(opts Options) *runOptions {
	r := defaultRunOptions()
	opts.apply(r)

	return r
}

// defaultRunOptions initializes and returns a new runOptions instance with
// default values: all checks enabled, transitive search on, generated
// files skipped.
func defaultRunOptions() *runOptions {
	return &runOptions{
		checks: config.NewBitMask(
			config.ReassignCheck | config.UseAfterCloseCheck | config.MixedOwnershipCheck | config.MemberCloseCheck,
		),
		behavior: config.NewBitMask(config.TransitiveSearch),
	}
}

// analyzer returns a disposeguard *[analysis.Analyzer] instance.
func (r *runOptions) analyzer() *analysis.Analyzer {
	a := &analysis.Analyzer{
		Name:     name,
		Doc:      doc,
		URL:      url,
		Run:      r.run,
		Requires: []*analysis.Analyzer{inspect.Analyzer},
	}

	return a
}

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
	"context"
	"errors"
	"fmt"
	"go/ast"
	"runtime/trace"
	"slices"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"

	"github.com/Mafii/disposeguard/internal/assign"
	"github.com/Mafii/disposeguard/internal/astutil"
	"github.com/Mafii/disposeguard/internal/config"
	"github.com/Mafii/disposeguard/internal/report"
	"github.com/Mafii/disposeguard/internal/rules"
	"github.com/Mafii/disposeguard/internal/scopes"
)

// ErrResultMissing is returned when a required analyzer result is missing.
// This typically indicates a configuration error where the analyzer's
// Requires field is not properly set.
var ErrResultMissing = errors.New("analyzer result missing")

// run executes the disposeguard analyzer's pipeline.
func (r *runOptions) run(p *analysis.Pass) (any, error) {
	// Retrieves the [inspector.Inspector] from the pass results.
	in, ok := p.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	if !ok {
		return nil, fmt.Errorf("disposeguard: %s %w", inspect.Analyzer.Name, ErrResultMissing)
	}

	ctx := context.Background()

	ctx, task := trace.NewTask(ctx, "DisposeGuard")
	defer task.End()

	trace.Log(ctx, "package", p.Pkg.Path())

	// Stage 1: index every function body of the package. Skipped files
	// still feed the index, transitive searches may pass through them.
	index := scopes.NewIndex(p.TypesInfo, p.Files)

	mode := assign.TopLevel
	if r.behavior.Enabled(config.TransitiveSearch) {
		mode = assign.Recursive
	}

	eng := rules.NewEngine(p, index, r.checks, mode)

	// Stage 2: evaluate the ownership rules, one goroutine per checked
	// function body plus one for the package's member rules.
	targets := r.targets(p, in, index)
	results := make([][]rules.Finding, len(targets)+1)

	g, gctx := errgroup.WithContext(ctx)

	for i, sc := range targets {
		g.Go(func() error {
			f, err := eng.Scope(gctx, sc)
			results[i] = f

			return err
		})
	}

	g.Go(func() error {
		f, err := eng.Members(gctx)
		results[len(targets)] = f

		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Stage 3: emit the diagnostics in source order.
	report.Process(ctx, p, slices.Concat(results...))

	return nil, nil
}

// targets collects the function scopes to check, honoring generated file
// handling and nolint comments. Function literals check with their
// enclosing declaration.
func (r *runOptions) targets(p *analysis.Pass, in *inspector.Inspector, index *scopes.Index) []scopes.Scope {
	var targets []scopes.Scope

	for f := range in.Root().Children() {
		file, ok := f.Node().(*ast.File)
		if !ok {
			continue
		}

		currentFile := astutil.NewCurrentFile(p.Fset, file)
		if !currentFile.Valid() {
			astutil.InternalError(p, file, "File %s without valid info", file.Name.Name)

			continue
		}

		// Skip generated files
		if currentFile.Generated() && !r.behavior.Enabled(config.IncludeGenerated) {
			continue
		}

		// Skip files with nolint comment
		if file.Doc != nil && astutil.CommentHasNoLint(file.Doc.List[len(file.Doc.List)-1]) {
			continue
		}

		for c := range f.Preorder((*ast.FuncDecl)(nil)) {
			fun := c.Node().(*ast.FuncDecl)

			if fun.Body == nil {
				continue
			}

			// Skip functions with nolint comment
			if fun.Doc != nil && astutil.CommentHasNoLint(fun.Doc.List[len(fun.Doc.List)-1]) {
				continue
			}

			if sc, ok := index.ForDecl(fun); ok {
				targets = append(targets, sc)
			}

			for lc := range c.Preorder((*ast.FuncLit)(nil)) {
				if sc, ok := index.ForDecl(lc.Node()); ok {
					targets = append(targets, sc)
				}
			}
		}
	}

	return targets
}

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
	"log/slog"

	"github.com/Mafii/disposeguard/internal/config"
)

// Option configures specific behavior of a [New] disposeguard analyzer.
type Option interface {
	apply(r *runOptions)
	LogAttr() slog.Attr
}

// Options is a list of [Option] values that itself satisfies the [Option] interface.
type Options []Option

// LogValue implements [slog.LogValuer].
func (o Options) LogValue() slog.Value {
	as := make([]slog.Attr, 0, len(o))
	as = appendOptions(as, o)

	return slog.GroupValue(as...)
}

func appendOptions(as []slog.Attr, o Options) []slog.Attr {
	for _, opt := range o {
		switch opt := opt.(type) {
		case nil:
			as = append(as, slog.String("nil", "<nil>"))

		case Options:
			as = appendOptions(as, opt)

		default:
			as = append(as, opt.LogAttr())
		}
	}

	return as
}

func (o Options) apply(r *runOptions) {
	for _, opt := range o {
		if opt == nil {
			continue
		}

		opt.apply(r)
	}
}

// LogAttr is for logging with [slog.Logger.LogAttrs].
func (o Options) LogAttr() slog.Attr {
	return slog.Any("options", o)
}

// WithReassign is an [Option] to configure whether reassignment checks are enabled.
func WithReassign(reassign bool) Option {
	return reassignOption{reassign: reassign}
}

type reassignOption struct{ reassign bool }

func (o reassignOption) apply(r *runOptions) {
	r.checks.Set(config.ReassignCheck, o.reassign)
}

func (o reassignOption) LogAttr() slog.Attr {
	return slog.Bool("reassign", o.reassign)
}

// WithUseAfterClose is an [Option] to configure whether use-after-release checks are enabled.
func WithUseAfterClose(useAfterClose bool) Option {
	return useAfterCloseOption{useAfterClose: useAfterClose}
}

type useAfterCloseOption struct{ useAfterClose bool }

func (o useAfterCloseOption) apply(r *runOptions) {
	r.checks.Set(config.UseAfterCloseCheck, o.useAfterClose)
}

func (o useAfterCloseOption) LogAttr() slog.Attr {
	return slog.Bool("use-after-close", o.useAfterClose)
}

// WithMixed is an [Option] to configure whether mixed ownership checks are enabled.
func WithMixed(mixed bool) Option {
	return mixedOption{mixed: mixed}
}

type mixedOption struct{ mixed bool }

func (o mixedOption) apply(r *runOptions) {
	r.checks.Set(config.MixedOwnershipCheck, o.mixed)
}

func (o mixedOption) LogAttr() slog.Attr {
	return slog.Bool("mixed", o.mixed)
}

// WithMemberClose is an [Option] to configure whether created members are
// checked for release.
func WithMemberClose(memberClose bool) Option {
	return memberCloseOption{memberClose: memberClose}
}

type memberCloseOption struct{ memberClose bool }

func (o memberCloseOption) apply(r *runOptions) {
	r.checks.Set(config.MemberCloseCheck, o.memberClose)
}

func (o memberCloseOption) LogAttr() slog.Attr {
	return slog.Bool("member-close", o.memberClose)
}

// WithTransitive is an [Option] to configure whether assignment searches
// follow calls into constructors and helpers.
func WithTransitive(transitive bool) Option {
	return transitiveOption{transitive: transitive}
}

type transitiveOption struct{ transitive bool }

func (o transitiveOption) apply(r *runOptions) {
	r.behavior.Set(config.TransitiveSearch, o.transitive)
}

func (o transitiveOption) LogAttr() slog.Attr {
	return slog.Bool("transitive", o.transitive)
}

// WithGenerated is an [Option] to configure diagnostics in generated files.
func WithGenerated(generated bool) Option { return generatedOption{generated: generated} }

type generatedOption struct{ generated bool }

func (o generatedOption) apply(r *runOptions) {
	r.behavior.Set(config.IncludeGenerated, o.generated)
}

func (o generatedOption) LogAttr() slog.Attr {
	return slog.Bool("generated", o.generated)
}

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

package gclplugin

import disposeguard "github.com/Mafii/disposeguard/analyzer"

// Settings represents the configuration options for an instance of the [Plugin].
type Settings struct {
	// Reassign enables the dispose-before-reassign check.
	Reassign *bool `json:"reassign,omitzero"`
	// UseAfterClose enables the use-after-release check.
	UseAfterClose *bool `json:"use-after-close,omitzero"`
	// Mixed enables the mixed ownership check.
	Mixed *bool `json:"mixed,omitzero"`
	// MemberClose enables the created-members-released check.
	MemberClose *bool `json:"member-close,omitzero"`
	// Transitive follows calls into constructors and helpers.
	Transitive *bool `json:"transitive,omitzero"`
}

// Options converts [Settings] into a list of [disposeguard.Option] for the disposeguard analyzer.
// It processes settings and applies them only when explicitly set (non-nil).
func (s Settings) Options() []disposeguard.Option {
	var opts []disposeguard.Option

	opts = appendOption(opts, s.Reassign, disposeguard.WithReassign)
	opts = appendOption(opts, s.UseAfterClose, disposeguard.WithUseAfterClose)
	opts = appendOption(opts, s.Mixed, disposeguard.WithMixed)
	opts = appendOption(opts, s.MemberClose, disposeguard.WithMemberClose)
	opts = appendOption(opts, s.Transitive, disposeguard.WithTransitive)

	return opts
}

// appendOption appends a non-nil setting to a [disposeguard.Option] list.
func appendOption[T any](opts []disposeguard.Option, value *T, constructor func(T) disposeguard.Option) []disposeguard.Option {
	if value == nil {
		return opts
	}

	return append(opts, constructor(*value))
}

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

// Package rules evaluates the ownership rules over the scopes and named
// types of one package snapshot.
package rules

//go:generate go tool stringer -type=Rule -linecomment

// Rule identifies one ownership rule.
type Rule int

const (
	// Reassign requires the previous created value of a target to be
	// released before the target is assigned again.
	Reassign Rule = iota // reassign

	// UseAfterClose forbids using a value after its release.
	UseAfterClose // useafterclose

	// MixedOwnership forbids populating one member with both created and
	// injected values.
	MixedOwnership // mixed

	// MemberClose requires created releasable members to be released by
	// the owning type's release method.
	MemberClose // memberclose
)

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

// Package ownership classifies where a resource-valued expression gets its
// value from: created in the current context, injected from outside, or
// unknown.
package ownership

// Label classifies the provenance of a resource-valued expression.
type Label uint8

//go:generate go tool stringer -type Label -linecomment
const (
	// Unknown means the provenance could not be determined. Unknown never
	// produces a finding by itself.
	Unknown Label = iota // unknown

	// Created means ownership originates in the current context, making it
	// responsible for eventual release.
	Created // created

	// Injected means the value was supplied from outside the current
	// context, which is therefore not the releasing party.
	Injected // injected
)

// Combine folds labels of alternative sources of the same value. Divergent
// alternatives yield [Unknown]; the divergence itself is evidence for the
// mixed-ownership rule.
func Combine(labels []Label) Label {
	if len(labels) == 0 {
		return Unknown
	}

	l := labels[0]
	for _, x := range labels[1:] {
		if x != l {
			return Unknown
		}
	}

	return l
}

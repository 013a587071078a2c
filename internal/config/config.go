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

package config

// CheckFlags represents the individual ownership checks.
type CheckFlags uint8

const (
	// ReassignCheck enables the dispose-before-reassign check.
	ReassignCheck CheckFlags = 1 << iota

	// UseAfterCloseCheck enables the use-after-release check.
	UseAfterCloseCheck

	// MixedOwnershipCheck enables the mixed created/injected member check.
	MixedOwnershipCheck

	// MemberCloseCheck enables the created-members-released check on
	// release methods.
	MemberCloseCheck
)

// Config represents behavioral options for the checks.
type Config uint8

const (
	// IncludeGenerated specifies whether to include analysis of generated files.
	IncludeGenerated Config = 1 << iota

	// TransitiveSearch follows call edges into invoked constructors and
	// methods when collecting member assignments.
	TransitiveSearch
)

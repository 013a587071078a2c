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

package assign

// Mode selects how far an assignment search reaches.
type Mode uint8

//go:generate go tool stringer -type Mode -linecomment
const (
	// TopLevel restricts the search to statements lexically inside the
	// given scope.
	TopLevel Mode = iota // top-level

	// Recursive additionally follows call edges into invoked constructors
	// and methods, substituting actual arguments for formal parameters.
	// Recursive results are a superset of [TopLevel] results for the same
	// symbol and scope.
	Recursive // recursive
)

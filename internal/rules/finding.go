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
	"go/token"
	"go/types"
)

// Finding is one rule violation located in source.
type Finding struct {
	Rule     Rule
	Sym      *types.Var // the resource the rule fired for
	Name     string     // display name, qualified for members
	Pos, End token.Pos
	Evidence []Evidence
}

// Evidence points at a source location supporting a finding, like the
// assignment that created the leaked value or the call that released it.
type Evidence struct {
	Msg      string
	Pos, End token.Pos
}

func evidence(msg string, pos, end token.Pos) Evidence {
	return Evidence{Msg: msg, Pos: pos, End: end}
}

// Copyright 2025 Oliver Eikemeier. All Rights Reserved.
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
	"flag"

	"github.com/Mafii/disposeguard/internal/config"
)

// registerFlags binds the [runOptions] values to command line flag values.
func registerFlags(flags *flag.FlagSet, r *runOptions) {
	flags.Var(checkFlag(r, config.ReassignCheck), "reassign",
		"check that created values are released before reassignment")
	flags.Var(checkFlag(r, config.UseAfterCloseCheck), "use-after-close",
		"check that released values are not used")
	flags.Var(checkFlag(r, config.MixedOwnershipCheck), "mixed",
		"check that members do not hold both created and injected values")
	flags.Var(checkFlag(r, config.MemberCloseCheck), "member-close",
		"check that created members are released by the Close method")

	flags.Var(behaviorFlag(r, config.TransitiveSearch), "transitive",
		"follow calls into constructors and helpers")
	flags.Var(behaviorFlag(r, config.IncludeGenerated), "generated",
		"check generated files")
}

func checkFlag(r *runOptions, value config.CheckFlags) flag.Value {
	return boolValue[config.CheckFlags, *config.BitMask[config.CheckFlags]]{flags: &r.checks, value: value}
}

func behaviorFlag(r *runOptions, value config.Config) flag.Value {
	return boolValue[config.Config, *config.BitMask[config.Config]]{flags: &r.behavior, value: value}
}

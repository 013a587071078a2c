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

// Package analyzer implements the disposeguard static analysis pass.
//
// # Overview
//
// DisposeGuard tracks values whose type carries a Close method and checks
// that their owner releases them exactly once.
//
// # Example
//
// Flagged:
//
//	func load() error {
//	    f, err := os.Open("a.txt")
//	    if err != nil {
//	        return err
//	    }
//	    f, err = os.Open("b.txt")  // previous file is never closed
//	    // ...
//	}
//
// Accepted:
//
//	func load() error {
//	    f, err := os.Open("a.txt")
//	    if err != nil {
//	        return err
//	    }
//	    if err := f.Close(); err != nil {
//	        return err
//	    }
//	    f, err = os.Open("b.txt")
//	    // ...
//	}
//
// # Checks
//
// The analyzer evaluates four rules:
//
//   - reassign: a created value must be released before its variable or
//     member is assigned again
//   - use-after-close: a released value must not be used
//   - mixed: a member must not hold created values on some paths and
//     injected values on others
//   - member-close: members a type creates must be released by the type's
//     Close method
//
// A value counts as created when it originates from a composite literal,
// a new expression or a constructor in the analyzed package, and as
// injected when it arrives through a parameter. Constructors and helpers
// are followed transitively unless disabled.
package analyzer

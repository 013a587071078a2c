// Copyright 2026 Oliver Eikemeier. All Rights Reserved.
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

package a

func overwritten() {
	c := dial()
	c = dial() // want `Value of 'c' is reassigned before the previous value is released \(dg:reassign\)`
	c.Close()
}

func releasedBetween() {
	c := dial()
	c.Close()
	c = dial()
	c.Close()
}

func branchRelease(ok bool) {
	c := dial()
	if ok {
		c.Close()
	}
	c = dial() // want `Value of 'c' is reassigned before the previous value is released \(dg:reassign\)`
	c.Close()
}

func bothBranchesRelease(ok bool) {
	c := dial()
	if ok {
		c.Close()
	} else {
		c.Close()
	}
	c = dial()
	c.Close()
}

func branchReturns(ok bool) {
	c := dial()
	if ok {
		return
	}
	c.Close()
	c = dial()
	c.Close()
}

type holder struct {
	c *conn
}

func (h *holder) reset() {
	h.c = dial()
	h.c = dial() // want `Value of 'c' is reassigned before the previous value is released \(dg:reassign\)`
	h.c.Close()
}

func (h *holder) Close() error {
	return h.c.Close()
}

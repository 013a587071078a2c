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

func usedAfterRelease() {
	c := dial()
	c.Close()
	c.ping() // want `Value of 'c' is used after it was released \(dg:useafterclose\)`
}

func freshValue() {
	c := dial()
	c.Close()
	c = dial()
	c.ping()
	c.Close()
}

func releasedOnOnePath(ok bool) {
	c := dial()
	if ok {
		c.Close()
		return
	}
	c.ping()
	c.Close()
}

func releasedOnBothPaths(ok bool) {
	c := dial()
	if ok {
		c.Close()
	} else {
		c.Close()
	}
	c.ping() // want `Value of 'c' is used after it was released \(dg:useafterclose\)`
}

func nilGuard() {
	c := dial()
	c.Close()

	if c != nil { // a nil comparison is not a use
		c = nil
	}
}

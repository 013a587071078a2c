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

package toplevel

type conn struct{}

func (c *conn) Close() error { return nil }

func dial() *conn { return &conn{} }

// chained only mixes ownership through the constructor chain. Without the
// transitive search the chained flow stays invisible.
type chained struct {
	c *conn
}

func newChained(c *conn) *chained {
	return &chained{c: c}
}

func newChainedDefault() *chained {
	return newChained(dial())
}

// direct mixes ownership in plainly visible writes.
type direct struct {
	c *conn // want `Member 'direct.c' is assigned both created and injected values \(dg:mixed\)`
}

func newInjected(c *conn) *direct {
	return &direct{c: c}
}

func newCreated() *direct {
	return &direct{c: dial()}
}

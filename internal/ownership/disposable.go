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

package ownership

import (
	"go/token"
	"go/types"
)

// ReleaseMethod is the name of the release operation of a disposable type.
const ReleaseMethod = "Close"

// closer is the release contract, interface { Close() error }, built
// synthetically so the engine needs no package loading at init time.
var closer = types.NewInterfaceType([]*types.Func{
	types.NewFunc(token.NoPos, nil, ReleaseMethod, types.NewSignatureType(
		nil, nil, nil,
		types.NewTuple(),
		types.NewTuple(types.NewVar(token.NoPos, nil, "", types.Universe.Lookup("error").Type())),
		false,
	)),
}, nil).Complete()

// IsDisposable reports whether values of type t require an explicit release.
func IsDisposable(t types.Type) bool {
	if t == nil {
		return false
	}

	t = types.Unalias(t)
	if types.Implements(t, closer) {
		return true
	}

	// Close is frequently declared on the pointer receiver.
	if _, ok := t.Underlying().(*types.Pointer); !ok && !types.IsInterface(t) {
		return types.Implements(types.NewPointer(t), closer)
	}

	return false
}

// ReleasableFields returns the fields requiring release of a composite
// type, looking through one level of pointer indirection. Types that are
// releasable themselves report none, their own release method covers them.
func ReleasableFields(t types.Type) []*types.Var {
	if t == nil || IsDisposable(t) {
		return nil
	}

	t = types.Unalias(t)
	if p, ok := t.Underlying().(*types.Pointer); ok {
		t = p.Elem()
	}

	st, ok := t.Underlying().(*types.Struct)
	if !ok {
		return nil
	}

	var flds []*types.Var

	for f := range st.Fields() {
		if IsDisposable(f.Type()) {
			flds = append(flds, f)
		}
	}

	return flds
}

// Named returns the named type a value type refers to, looking through
// pointers and aliases.
func Named(t types.Type) (*types.Named, bool) {
	if t == nil {
		return nil, false
	}

	t = types.Unalias(t)
	if p, ok := t.(*types.Pointer); ok {
		t = types.Unalias(p.Elem())
	}

	named, ok := t.(*types.Named)

	return named, ok
}

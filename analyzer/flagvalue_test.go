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

package analyzer_test

import (
	"flag"
	"testing"

	. "github.com/Mafii/disposeguard/analyzer"
)

func TestFlagValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		flag string
		want bool
	}{
		{
			name: "Disable",
			args: []string{"-reassign=false"},
			flag: "reassign",
			want: false,
		},
		{
			name: "Enable",
			args: []string{"-generated"},
			flag: "generated",
			want: true,
		},
		{
			name: "Default",
			flag: "member-close",
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a := New()

			if err := a.Flags.Parse(tt.args); err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			f := a.Flags.Lookup(tt.flag)
			if f == nil {
				t.Fatalf("Flag %q not registered", tt.flag)
			}

			g, ok := f.Value.(flag.Getter)
			if !ok {
				t.Fatalf("Flag %q is not a getter", tt.flag)
			}

			if got, _ := g.Get().(bool); got != tt.want {
				t.Errorf("Flag %q = %v, want %v", tt.flag, got, tt.want)
			}
		})
	}
}

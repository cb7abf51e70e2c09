// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vtype

import "strings"

// Attributes is a bit set over a property's configurable/writable/
// enumerable/extensible/deleted/accessor flags.
type Attributes uint8

const (
	Configurable Attributes = 1 << iota
	Writable
	Enumerable
	Extensible
	Deleted
	Accessor
)

// Default is the attribute set for an ordinary user-defined property:
// configurable, writable, enumerable, and (for objects) extensible.
const Default = Configurable | Writable | Enumerable | Extensible

// ConstEnum is the attribute set def_const installs when the constant is
// requested to be enumerable.
const ConstEnum = Enumerable | Extensible

// ConstNotEnum is the attribute set def_const installs for a non-enumerable
// constant.
const ConstNotEnum = Extensible

// Has reports whether every bit in want is set in a.
func (a Attributes) Has(want Attributes) bool { return a&want == want }

var attrNames = []struct {
	bit  Attributes
	name string
}{
	{Configurable, "configurable"},
	{Writable, "writable"},
	{Enumerable, "enumerable"},
	{Extensible, "extensible"},
	{Deleted, "deleted"},
	{Accessor, "accessor"},
}

func (a Attributes) String() string {
	var names []string
	for _, e := range attrNames {
		if a.Has(e.bit) {
			names = append(names, e.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

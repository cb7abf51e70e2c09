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

// Package propaccess implements the property access protocol: get, set,
// def-const, and set-attributes, operating over a shape registry and a
// heap of object instances.
package propaccess

import (
	"github.com/shapewright/shapevm/object"
	"github.com/shapewright/shapevm/vtype"
)

// Heap resolves the handles stored in OBJECT/CLOSURE/ARRAY-tagged words to
// the instance they address. The root shapevm package's Context implements
// it; it is expressed as an interface here so this package
// does not need to import it (which would cycle, since shapevm wires
// these functions up as methods on its Context).
type Heap interface {
	// Resolve returns the instance addressed by an OBJECT/CLOSURE/ARRAY
	// value's word.
	Resolve(w vtype.Word) *object.Instance

	// HandleOf registers inst with the heap and returns the word that
	// addresses it. Each call registers inst again under a new handle.
	HandleOf(inst *object.Instance) vtype.Word
}

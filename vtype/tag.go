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

// Package vtype holds the value tag, the property attribute bitset, and the
// value-type lattice the shape tree and property protocol are built on.
package vtype

import "fmt"

// Tag is a 4-bit enumeration discriminating the primitive kind of a value
// pair.
type Tag uint8

const (
	// INT32 is a 32-bit (sign-extended into the word) integer.
	INT32 Tag = iota
	// FUNPTR is a reference to a VM function.
	FUNPTR
	// STRING is a reference to an interned or heap string.
	STRING
	// REFPTR is a raw managed-heap reference with no further structure known
	// to this package (e.g. a boxed primitive).
	REFPTR
	// OBJECT is a shaped, ordinary object instance.
	OBJECT
	// CLOSURE is a shaped instance that additionally reserves a function
	// pointer slot.
	CLOSURE
	// ARRAY is a shaped instance that additionally reserves element-table
	// and length slots.
	ARRAY
	// VOID marks the absence of a value: the property protocol's
	// "undefined" result, and the sentinel stored in a root object's
	// __proto__ slot to mean "no prototype". Not one of the tags the
	// surrounding VM otherwise assigns to storage locations.
	VOID
)

func (t Tag) String() string {
	switch t {
	case INT32:
		return "INT32"
	case FUNPTR:
		return "FUNPTR"
	case STRING:
		return "STRING"
	case REFPTR:
		return "REFPTR"
	case OBJECT:
		return "OBJECT"
	case CLOSURE:
		return "CLOSURE"
	case ARRAY:
		return "ARRAY"
	case VOID:
		return "VOID"
	default:
		return fmt.Sprintf("Tag(%d)", uint8(t))
	}
}

// IsObject reports whether values with this tag are represented as a shaped
// instance: [OBJECT], [CLOSURE], or [ARRAY].
func IsObject(t Tag) bool {
	switch t {
	case OBJECT, CLOSURE, ARRAY:
		return true
	default:
		return false
	}
}

// Word is the 64-bit payload of a value pair. Its interpretation depends on
// Tag: a handle for reference-shaped tags (see the object package for what a
// handle addresses), a sign-extended integer for INT32, or a raw bit
// pattern otherwise.
type Word uint64

// Pair is an immutable tagged value: a 64-bit word plus a 4-bit tag. Pairs
// are copied freely by value.
type Pair struct {
	Word Word
	Tag  Tag
}

func (p Pair) String() string {
	return fmt.Sprintf("%s(%#x)", p.Tag, uint64(p.Word))
}

// Int32 constructs an INT32-tagged pair.
func Int32(v int32) Pair {
	return Pair{Word: Word(uint32(v)), Tag: INT32}
}

// Int32 extracts the int32 payload of a pair. The caller is responsible for
// having checked Tag == INT32.
func (p Pair) Int32() int32 { return int32(uint32(p.Word)) }

// Undefined is the sentinel value returned by a failed property read and
// stored in a root object's __proto__ slot.
var Undefined = Pair{Tag: VOID}

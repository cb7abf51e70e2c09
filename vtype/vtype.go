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

import "github.com/shapewright/shapevm/internal/debug"

// ShapeIdx is a dense index into the VM's shape registry. It stands in for
// a "ShapeRef" payload in a Type: rather than a raw *shape.Shape pointer,
// which would force this package to import the shape package (which in
// turn needs to record a Type on every shape node), Type refers to shapes
// by their registry index. The shape package is the authority translating
// an Idx back to a node.
type ShapeIdx uint32

// NoShape is the zero value of ShapeIdx reserved for "none"; the root
// shape is never placed at index 0 for exactly this reason (see the shape
// package).
const NoShape ShapeIdx = 0

// FuncIdx is a dense index into the VM's function reference set, standing
// in for a "FuncRef" payload the same way ShapeIdx stands in for a shape
// pointer.
type FuncIdx uint32

// Type is a lattice element describing what is known, at compile time,
// about a value: its tag, its shape (if it is an object), the identity of
// the function it holds (if it is a closure with a known callee), or its
// exact word (if it is a constant).
//
// At most one of ShapeKnown, FPtrKnown, and ValKnown is ever true, because
// those three fields alias the same conceptual payload; Go does not give
// us a real union, so Type just carries all three and the known-bits
// enforce the invariant.
type Type struct {
	TagKnown bool
	Tag      Tag

	ShapeKnown bool
	Shape      ShapeIdx

	FPtrKnown bool
	FPtr      FuncIdx

	ValKnown bool
	Word     Word

	// SubMax records that the value is known to be strictly less than the
	// maximum representable value for Tag, letting the compiler elide
	// overflow checks on arithmetic that only ever grows the value.
	SubMax bool
}

// Any is the all-unknown lattice element, conventionally written ⊤.
var Any = Type{}

// FromPair constructs the most precise Type describing p: it sets
// TagKnown, plus exactly one of ShapeKnown, FPtrKnown, or ValKnown
// depending on tag.
//
// shapeOf is consulted only when tag is one of the object tags, to recover
// the value's shape index; fptrOf is consulted only when tag is FUNPTR.
func FromPair(p Pair, shapeOf func(Word) ShapeIdx, fptrOf func(Word) FuncIdx) Type {
	t := Type{TagKnown: true, Tag: p.Tag}
	switch {
	case IsObject(p.Tag):
		t.ShapeKnown = true
		t.Shape = shapeOf(p.Word)
	case p.Tag == FUNPTR:
		t.FPtrKnown = true
		t.FPtr = fptrOf(p.Word)
	case p.Tag == INT32:
		t.ValKnown = true
		t.Word = p.Word
	}
	assertExclusive(t)
	return t
}

// Join computes the pointwise meet of a and b: a field is known in the
// result iff it is known in both operands and the payloads are equal.
// SubMax is the logical AND of the two operands' SubMax bits.
//
// Join is commutative and idempotent, and Join(a, b) is always a
// supertype (in the is-subtype sense) of both a and b — see IsSubtype.
func Join(a, b Type) Type {
	var r Type

	r.TagKnown = a.TagKnown && b.TagKnown && a.Tag == b.Tag
	if r.TagKnown {
		r.Tag = a.Tag
	}

	r.ShapeKnown = a.ShapeKnown && b.ShapeKnown && a.Shape == b.Shape
	if r.ShapeKnown {
		r.Shape = a.Shape
	}

	r.FPtrKnown = a.FPtrKnown && b.FPtrKnown && a.FPtr == b.FPtr
	if r.FPtrKnown {
		r.FPtr = a.FPtr
	}

	r.ValKnown = a.ValKnown && b.ValKnown && a.Word == b.Word
	if r.ValKnown {
		r.Word = a.Word
	}

	r.SubMax = a.SubMax && b.SubMax
	return r
}

// IsSubtype reports whether a refines b, i.e. a carries at least as much
// known information as b and agrees with it everywhere. Defined as
// Join(a, b) == b.
func IsSubtype(a, b Type) bool {
	return Join(a, b) == b
}

// Config toggles the two narrowing options PropType reads. These are
// carried on the VM context (see the root shapevm package), not as
// package globals.
type Config struct {
	// NoTagSpec, if set, additionally strips TagKnown from PropType's
	// result.
	NoTagSpec bool

	// NoFPtrSpec, if set, strips FPtrKnown from PropType's result. If
	// unset, a closure with a known shape has its callee identity lifted
	// from the closure's __fptr__ shape entry into FPtr, preserving
	// callsite specialization across shape transitions.
	NoFPtrSpec bool
}

// FPtrLookup looks up the value type recorded for the __fptr__ property on
// a shape, given its index. The shape package supplies the concrete
// implementation; PropType takes it as a parameter so vtype need not
// import shape.
type FPtrLookup func(ShapeIdx) (Type, bool)

// PropType computes the projection of t stored in a shape node: it strips
// ShapeKnown, ValKnown, and SubMax unconditionally, and further narrows
// according to cfg.
func PropType(t Type, cfg Config, fptrOf FPtrLookup) Type {
	r := Type{
		TagKnown: t.TagKnown,
		Tag:      t.Tag,
	}

	if cfg.NoTagSpec {
		r.TagKnown = false
	}

	if cfg.NoFPtrSpec {
		return r
	}

	switch {
	case t.FPtrKnown:
		r.FPtrKnown = true
		r.FPtr = t.FPtr
	case t.ShapeKnown && t.TagKnown && t.Tag == CLOSURE && fptrOf != nil:
		if fptrType, ok := fptrOf(t.Shape); ok && fptrType.FPtrKnown {
			r.FPtrKnown = true
			r.FPtr = fptrType.FPtr
		}
	}

	return r
}

// assertExclusive checks the at-most-one-known invariant documented on
// Type. It is only ever consulted in debug builds.
func assertExclusive(t Type) {
	known := 0
	if t.ShapeKnown {
		known++
	}
	if t.FPtrKnown {
		known++
	}
	if t.ValKnown {
		known++
	}
	debug.Assert(known <= 1, "vtype: more than one of shape/fptr/val known simultaneously: %+v", t)
}

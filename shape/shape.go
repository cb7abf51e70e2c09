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

// Package shape implements the hidden-class shape tree: the interned
// forest of property definitions that every object instance's header
// points into.
//
// Shapes are allocated and owned exclusively by a [Registry], append-only
// for the VM's lifetime. A Shape is never mutated structurally outside of
// (a) adding entries to its transitions and lookup cache, and (b)
// populating its enum table once; both are safe under the
// single-threaded-cooperative model this package assumes (see the
// goroutine-owner check on the root shapevm package's Context).
package shape

import (
	"fmt"
	"strings"

	"github.com/shapewright/shapevm/internal/debug"
	"github.com/shapewright/shapevm/internal/swiss"
	"github.com/shapewright/shapevm/vtype"
)

// RootSlotIdx is the conceptual slot index carried by the root shape. No
// real property is ever assigned this index.
const RootSlotIdx = ^uint32(0)

// Shape is one edge in the hidden-class tree: a single property
// definition (name, slot, type, attributes) together with a parent
// pointer. The root shape (no parent, no property) represents the empty
// object layout.
type Shape struct {
	Parent   *Shape
	PropName string // "" only for the root.
	SlotIdx  uint32
	Type     vtype.Type
	Attrs    vtype.Attributes
	ShapeIdx vtype.ShapeIdx

	// transitions caches outgoing edges, keyed first by property name and
	// then by the recorded value type; candidates sharing a (name, type)
	// pair are deduplicated by their Attrs within DefProp. The inner index
	// is a swiss.Table keyed by a fingerprint of the value type, since
	// swiss.Table's key type must be an integer; each bucket carries the
	// full vtype.Type alongside its shapes so fingerprint collisions are
	// resolved by an equality check, not just the hash.
	transitions map[string]*swiss.Table[uint64, []typeBucket]

	// lookupCache memoizes name -> defining shape for objects of this
	// shape. A present key with a nil value records a cached "absent"
	// result.
	lookupCache map[string]*Shape

	enumTable []EnumEntry
	enumBuilt bool
}

// IsRoot reports whether s is the root of its tree.
func (s *Shape) IsRoot() bool { return s.Parent == nil }

// typeBucket is one collision bucket in a transitions entry's swiss
// table: every child shape previously defined for exactly typ, regardless
// of attrs (DefProp's step 1 scans shapes by Attrs within a bucket).
type typeBucket struct {
	typ    vtype.Type
	shapes []*Shape
}

// typeFingerprint packs the fields of a vtype.Type into a single uint64
// suitable as a swiss.Table key. Two types with the same fingerprint are
// not necessarily equal (the table's buckets are resolved by an actual
// == comparison), but equal types always share a fingerprint.
func typeFingerprint(t vtype.Type) uint64 {
	const prime = 1099511628211
	h := uint64(14695981039346656037)
	mix := func(x uint64) {
		h ^= x
		h *= prime
	}
	mix(boolBit(t.TagKnown))
	mix(uint64(t.Tag))
	mix(boolBit(t.ShapeKnown))
	mix(uint64(t.Shape))
	mix(boolBit(t.FPtrKnown))
	mix(uint64(t.FPtr))
	mix(boolBit(t.ValKnown))
	mix(uint64(t.Word))
	mix(boolBit(t.SubMax))
	return h
}

func boolBit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// EnumEntry is one slot of a shape's enumeration table: the property
// occupying that slot index, if enumerable, non-deleted, and defined.
type EnumEntry struct {
	Name  string
	Attrs vtype.Attributes
}

// Defined reports whether this enumeration slot holds a property; the
// zero EnumEntry represents a null (skipped) slot.
func (e EnumEntry) Defined() bool { return e.Name != "" }

func (s *Shape) Format(f fmt.State, verb rune) {
	debug.Fprintf(
		"Shape%v",
		debug.Dict(nil,
			"idx", s.ShapeIdx,
			"prop", stringOrNil(s.PropName),
			"slot", slotOrNil(s.SlotIdx),
			"attrs", s.Attrs,
		),
	).Format(f, verb)
}

func stringOrNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func slotOrNil(i uint32) any {
	if i == RootSlotIdx {
		return nil
	}
	return i
}

// GetDefShape returns the shape in s's ancestry (inclusive of s) that
// defines name and is not deleted, or nil if no such shape exists.
//
// Results, including absence, are memoized in s.lookupCache.
func (s *Shape) GetDefShape(name string) *Shape {
	if cached, ok := s.lookupCache[name]; ok {
		return cached
	}

	var found *Shape
	for p := s; p != nil; p = p.Parent {
		if p.PropName == name && !p.Attrs.Has(vtype.Deleted) {
			found = p
			break
		}
	}

	if s.lookupCache == nil {
		s.lookupCache = make(map[string]*Shape)
	}
	// Names reaching the shape tree may alias relocatable memory; the
	// cache key must be stable, so it is copied here regardless of
	// whether DefProp already copied the matching PropName.
	s.lookupCache[strings.Clone(name)] = found
	return found
}

// GenEnumTable returns a flat table of (name, attrs) pairs, one entry per
// slot index from 0 to s.SlotIdx, populated only for enumerable,
// non-deleted, non-root shapes in s's ancestry.
//
// The table is lazily built and memoized; because any property change
// forks a new shape with its own table, it is never invalidated in place.
func (s *Shape) GenEnumTable() []EnumEntry {
	if s.enumBuilt {
		return s.enumTable
	}

	var tbl []EnumEntry
	if !s.IsRoot() {
		tbl = make([]EnumEntry, s.SlotIdx+1)
		for p := s; p != nil && !p.IsRoot(); p = p.Parent {
			if p.Attrs.Has(vtype.Enumerable) && !p.Attrs.Has(vtype.Deleted) {
				debug.Assert(int(p.SlotIdx) < len(tbl), "shape: enum slot %d out of range [0,%d)", p.SlotIdx, len(tbl))
				if !tbl[p.SlotIdx].Defined() {
					tbl[p.SlotIdx] = EnumEntry{Name: p.PropName, Attrs: p.Attrs}
				}
			}
		}
	}

	s.enumTable = tbl
	s.enumBuilt = true
	return tbl
}

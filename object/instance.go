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

// Package object implements the per-instance slot store: the header,
// inline slot vector, and overflow extension table shared by ordinary
// objects, closures, and arrays.
package object

import (
	"github.com/shapewright/shapevm/internal/debug"
	"github.com/shapewright/shapevm/vtype"
)

// MinCap is the minimum inline slot capacity any instance is allocated
// with.
const MinCap = 8

// Slot 0 is __proto__ on every layout kind; closures additionally reserve
// slot 1 for their function pointer, and arrays reserve slot 1 for their
// element table and slot 2 for their length.
const (
	ProtoSlotIdx  = 0
	FPtrSlotIdx   = 1
	ArrTblSlotIdx = 1
	ArrLenSlotIdx = 2
)

// Slot is one (word, tag) pair stored in an instance's inline vector or
// extension table.
type Slot struct {
	Word vtype.Word
	Tag  vtype.Tag
}

// Instance is an object, closure, or array's memory: a header carrying
// its shape index, an inline slot vector of capacity Cap, and a nullable
// extension table holding any slots whose index reaches or exceeds Cap.
//
// Instances are never arena-allocated: each one is expected to become
// unreachable and be collected individually, which internal/arena's
// bulk-only lifetime does not support. That arena holds shape nodes,
// which live as long as their registry.
type Instance struct {
	ShapeIdx vtype.ShapeIdx
	Cap      uint32
	Kind     vtype.Tag // OBJECT, CLOSURE, or ARRAY.

	slots []Slot
	next  *Instance
}

// New allocates a fresh instance of the given layout kind with the
// requested inline capacity (raised to MinCap if smaller), a null shape
// (the caller is expected to set ShapeIdx immediately), and a null
// extension.
func New(kind vtype.Tag, cap uint32) *Instance {
	debug.Assert(vtype.IsObject(kind), "object: New called with non-object tag %v", kind)
	if cap < MinCap {
		cap = MinCap
	}
	return &Instance{
		Kind:  kind,
		Cap:   cap,
		slots: make([]Slot, cap),
	}
}

// Next returns the instance's extension table, or nil if it has none.
func (o *Instance) Next() *Instance { return o.next }

// Get reads the slot at global index i, which must be less than
// o.Cap+o.Next().Cap (an invariant the property protocol maintains via
// EnsureSlot before every write).
func (o *Instance) Get(i uint32) Slot {
	if i < o.Cap {
		return o.slots[i]
	}
	debug.Assert(o.next != nil, "object: read of slot %d with no extension (cap=%d)", i, o.Cap)
	j := i - o.Cap
	debug.Assert(j < o.next.Cap, "object: read of slot %d beyond extension capacity %d", i, o.next.Cap)
	return o.next.slots[j]
}

// Set writes the slot at global index i. The caller must have already
// called EnsureSlot(i) so the target location exists.
func (o *Instance) Set(i uint32, s Slot) {
	if i < o.Cap {
		o.slots[i] = s
		return
	}
	debug.Assert(o.next != nil, "object: write of slot %d with no extension (cap=%d)", i, o.Cap)
	j := i - o.Cap
	debug.Assert(j < o.next.Cap, "object: write of slot %d beyond extension capacity %d", i, o.next.Cap)
	o.next.slots[j] = s
}

// EnsureSlot grows o's extension table, doubling its capacity as many
// times as necessary, until global index i is addressable. Existing
// extension slots are preserved; inline slots are never touched, since
// they live in o itself rather than the extension.
//
// The extension's slot-index space starts at
// o.Cap and runs in parallel with the inline vector, so a grown
// extension's slots align with the old one's without any index
// translation — only the old extension's range [o.Cap, o.Cap+old
// extension Cap) of live data needs to be carried forward, never a
// blanket copy of the new extension's (larger) capacity.
func (o *Instance) EnsureSlot(i uint32) {
	if i < o.Cap {
		return
	}
	if o.next == nil {
		o.next = New(o.Kind, 2*o.Cap)
	}
	for i >= o.Cap+o.next.Cap {
		grown := New(o.Kind, 2*o.next.Cap)
		n := copy(grown.slots, o.next.slots)
		debug.Assert(n == len(o.next.slots), "object: extension growth copied %d of %d slots", n, len(o.next.slots))
		o.next = grown
	}
}

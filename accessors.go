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

package shapevm

import (
	"github.com/shapewright/shapevm/internal/debug"
	"github.com/shapewright/shapevm/object"
	"github.com/shapewright/shapevm/vtype"
)

// GetFunPtr reads a closure's reserved function-pointer slot directly, by
// fixed index rather than by name lookup through the shape tree. Callers
// that have already established (e.g. via an inline cache keyed on shape
// identity) that a value is a CLOSURE use this instead of
// GetProp(clos, "__fptr__") to skip the shape walk entirely.
func (c *Context) GetFunPtr(clos vtype.Pair) vtype.FuncIdx {
	debug.Assert(clos.Tag == vtype.CLOSURE, "shapevm: GetFunPtr on non-closure tag %v", clos.Tag)
	slot := c.Resolve(clos.Word).Get(object.FPtrSlotIdx)
	debug.Assert(slot.Tag == vtype.FUNPTR, "shapevm: closure fptr slot holds tag %v", slot.Tag)
	return vtype.FuncIdx(slot.Word)
}

// GetArrTbl reads an array's reserved element-table slot directly, by
// fixed index.
func (c *Context) GetArrTbl(arr vtype.Pair) vtype.Pair {
	debug.Assert(arr.Tag == vtype.ARRAY, "shapevm: GetArrTbl on non-array tag %v", arr.Tag)
	slot := c.Resolve(arr.Word).Get(object.ArrTblSlotIdx)
	return vtype.Pair{Word: slot.Word, Tag: slot.Tag}
}

// SetArrTbl writes an array's reserved element-table slot directly, by
// fixed index.
func (c *Context) SetArrTbl(arr vtype.Pair, tbl vtype.Pair) {
	debug.Assert(arr.Tag == vtype.ARRAY, "shapevm: SetArrTbl on non-array tag %v", arr.Tag)
	c.Resolve(arr.Word).Set(object.ArrTblSlotIdx, object.Slot{Word: tbl.Word, Tag: tbl.Tag})
}

// GetArrLen reads an array's reserved length slot directly, by fixed
// index.
func (c *Context) GetArrLen(arr vtype.Pair) int32 {
	debug.Assert(arr.Tag == vtype.ARRAY, "shapevm: GetArrLen on non-array tag %v", arr.Tag)
	slot := c.Resolve(arr.Word).Get(object.ArrLenSlotIdx)
	debug.Assert(slot.Tag == vtype.INT32, "shapevm: array length slot holds tag %v", slot.Tag)
	return vtype.Pair{Word: slot.Word, Tag: slot.Tag}.Int32()
}

// SetArrLen writes an array's reserved length slot directly, by fixed
// index.
func (c *Context) SetArrLen(arr vtype.Pair, n int32) {
	debug.Assert(arr.Tag == vtype.ARRAY, "shapevm: SetArrLen on non-array tag %v", arr.Tag)
	c.Resolve(arr.Word).Set(object.ArrLenSlotIdx, object.Slot{Word: vtype.Int32(n).Word, Tag: vtype.INT32})
}

// GetSlotPair reads the value pair at a raw global slot index on obj,
// bypassing the shape tree entirely. This is the primitive the compiler's
// inline caches bottom out in once they have resolved a name to a slot
// index for a particular shape: repeated reads against the same shape
// need not repeat the name lookup.
func (c *Context) GetSlotPair(obj vtype.Pair, slotIdx uint32) vtype.Pair {
	debug.Assert(vtype.IsObject(obj.Tag), "shapevm: GetSlotPair on non-object tag %v", obj.Tag)
	slot := c.Resolve(obj.Word).Get(slotIdx)
	return vtype.Pair{Word: slot.Word, Tag: slot.Tag}
}

// SetSlotPair writes the value pair at a raw global slot index on obj,
// bypassing the shape tree. The caller is responsible for having already
// grown obj to accommodate slotIdx (e.g. via a prior Set through the
// property protocol, which calls EnsureSlot); this is strictly a fast
// re-write of a slot a shape has already assigned, not a definition path.
func (c *Context) SetSlotPair(obj vtype.Pair, slotIdx uint32, value vtype.Pair) {
	debug.Assert(vtype.IsObject(obj.Tag), "shapevm: SetSlotPair on non-object tag %v", obj.Tag)
	c.Resolve(obj.Word).Set(slotIdx, object.Slot{Word: value.Word, Tag: value.Tag})
}

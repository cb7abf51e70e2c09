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

package propaccess

import (
	"github.com/shapewright/shapevm/internal/debug"
	"github.com/shapewright/shapevm/internal/stats"
	"github.com/shapewright/shapevm/object"
	"github.com/shapewright/shapevm/shape"
	"github.com/shapewright/shapevm/vtype"
)

const protoName = "__proto__"

// fptrLookup adapts a registry into the closure vtype.PropType needs to
// lift a closure's callee identity from its __fptr__ shape entry.
func fptrLookup(reg *shape.Registry) vtype.FPtrLookup {
	return func(idx vtype.ShapeIdx) (vtype.Type, bool) {
		sh := reg.Lookup(idx)
		if sh == nil {
			return vtype.Type{}, false
		}
		d := sh.GetDefShape("__fptr__")
		if d == nil {
			return vtype.Type{}, false
		}
		return d.Type, true
	}
}

// Get implements the get operation: a slot read through def_shape when
// found, or a recursive walk up the prototype chain (by way of the
// __proto__ slot) otherwise. Returns [vtype.Undefined] if the property is
// not found anywhere in the chain.
func Get(h Heap, reg *shape.Registry, obj vtype.Pair, name string) vtype.Pair {
	debug.Assert(vtype.IsObject(obj.Tag), "propaccess: Get on non-object tag %v", obj.Tag)

	inst := h.Resolve(obj.Word)
	s := reg.Lookup(inst.ShapeIdx)
	if d := s.GetDefShape(name); d != nil {
		slot := inst.Get(d.SlotIdx)
		return vtype.Pair{Word: slot.Word, Tag: slot.Tag}
	}

	if name == protoName {
		// The root of every instance defines __proto__ via def_const; if
		// it is somehow missing, there is nothing further to walk.
		return vtype.Undefined
	}

	proto := Get(h, reg, obj, protoName)
	if proto.Tag == vtype.VOID {
		return vtype.Undefined
	}
	return Get(h, reg, proto, name)
}

// valueType computes value_type(value) for use by Set, resolving shape
// and function identities through h and reg.
func valueType(h Heap, reg *shape.Registry, value vtype.Pair) vtype.Type {
	shapeOf := func(w vtype.Word) vtype.ShapeIdx { return h.Resolve(w).ShapeIdx }
	fptrOf := func(w vtype.Word) vtype.FuncIdx { return vtype.FuncIdx(w) }
	return vtype.FromPair(value, shapeOf, fptrOf)
}

// Set implements the set operation: it chooses (or forks) a shape
// transition from the object's current shape, updates the object's shape
// index, and stores the value at the slot the shape assigns, growing the
// extension table as needed. global indicates whether
// obj is the VM's distinguished global object, for the separate
// num_shape_flips_global accounting; counters may be nil to skip
// statistics.
func Set(
	h Heap,
	reg *shape.Registry,
	cfg vtype.Config,
	counters *stats.Shapes,
	global bool,
	obj vtype.Pair,
	name string,
	value vtype.Pair,
	defAttrs vtype.Attributes,
) bool {
	debug.Assert(vtype.IsObject(obj.Tag), "propaccess: Set on non-object tag %v", obj.Tag)

	inst := h.Resolve(obj.Word)
	vt := vtype.PropType(valueType(h, reg, value), cfg, fptrLookup(reg))

	s := reg.Lookup(inst.ShapeIdx)
	d := s.GetDefShape(name)

	if d == nil {
		if !s.Attrs.Has(vtype.Extensible) {
			return false
		}
		d = reg.DefProp(s, name, vt, defAttrs, nil)
		inst.ShapeIdx = d.ShapeIdx
	} else {
		if !d.Attrs.Has(vtype.Writable) {
			return false
		}
		if !vtype.IsSubtype(vt, d.Type) {
			if counters != nil {
				counters.NumShapeFlips.Inc()
				if global {
					counters.NumShapeFlipsGlobal.Inc()
				}
			}
			debug.Log(nil, "flip", "%q: %v -> %v on shape %v", name, d.Type, vt, s)
			sPrime := reg.DefProp(s, name, vt, defAttrs, d)
			inst.ShapeIdx = sPrime.ShapeIdx
			d = sPrime.GetDefShape(name)
			debug.Assert(d != nil, "propaccess: redefinition lost %q", name)
		}
	}

	i := d.SlotIdx
	inst.EnsureSlot(i)
	inst.Set(i, object.Slot{Word: value.Word, Tag: value.Tag})
	return true
}

// DefConst implements def_const: defines name on obj if not already
// present, with attributes that mark it non-writable and
// non-configurable.
func DefConst(h Heap, reg *shape.Registry, cfg vtype.Config, obj vtype.Pair, name string, value vtype.Pair, enumerable bool) bool {
	inst := h.Resolve(obj.Word)
	s := reg.Lookup(inst.ShapeIdx)
	if s.GetDefShape(name) != nil {
		return false
	}

	attrs := vtype.ConstNotEnum
	if enumerable {
		attrs = vtype.ConstEnum
	}
	return Set(h, reg, cfg, nil, false, obj, name, value, attrs)
}

// SetPropAttrs implements set_prop_attrs: installs a redefinition of
// defShape on obj with new attributes (type and name unchanged), via the
// shape-tree redefinition path, and updates obj's shape index.
func SetPropAttrs(h Heap, reg *shape.Registry, obj vtype.Pair, defShape *shape.Shape, attrs vtype.Attributes) {
	inst := h.Resolve(obj.Word)
	s := reg.Lookup(inst.ShapeIdx)
	result := reg.DefProp(s, defShape.PropName, defShape.Type, attrs, defShape)
	inst.ShapeIdx = result.ShapeIdx
}

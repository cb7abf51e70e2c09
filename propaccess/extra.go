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
	"github.com/shapewright/shapevm/shape"
	"github.com/shapewright/shapevm/vtype"
)

// HasOwn reports whether name is defined directly on obj's own shape
// chain, ignoring the prototype.
func HasOwn(h Heap, reg *shape.Registry, obj vtype.Pair, name string) bool {
	inst := h.Resolve(obj.Word)
	s := reg.Lookup(inst.ShapeIdx)
	return s.GetDefShape(name) != nil
}

// Has reports whether name is defined on obj or anywhere along its
// prototype chain.
func Has(h Heap, reg *shape.Registry, obj vtype.Pair, name string) bool {
	if HasOwn(h, reg, obj, name) {
		return true
	}
	proto := Get(h, reg, obj, protoName)
	if proto.Tag == vtype.VOID {
		return false
	}
	return Has(h, reg, proto, name)
}

// Keys returns the own enumerable, non-deleted property names of obj, in
// slot-index order.
func Keys(h Heap, reg *shape.Registry, obj vtype.Pair) []string {
	inst := h.Resolve(obj.Word)
	s := reg.Lookup(inst.ShapeIdx)
	tbl := s.GenEnumTable()

	var names []string
	for _, e := range tbl {
		if e.Defined() {
			names = append(names, e.Name)
		}
	}
	return names
}

// Entry is one (name, value) pair returned by [Entries].
type Entry struct {
	Name  string
	Value vtype.Pair
}

// Entries returns the own enumerable, non-deleted (name, value) pairs of
// obj, in slot-index order.
func Entries(h Heap, reg *shape.Registry, obj vtype.Pair) []Entry {
	inst := h.Resolve(obj.Word)
	s := reg.Lookup(inst.ShapeIdx)
	tbl := s.GenEnumTable()

	var entries []Entry
	for i, e := range tbl {
		if !e.Defined() {
			continue
		}
		slot := inst.Get(uint32(i))
		entries = append(entries, Entry{
			Name:  e.Name,
			Value: vtype.Pair{Word: slot.Word, Tag: slot.Tag},
		})
	}
	return entries
}

// Delete removes name from obj by forking: the shape tree never mutates a
// node's Deleted bit in place (doing so would invalidate any shape's
// lookup_cache that had already recorded the property as present), so
// Delete installs a redefinition of the defining shape with Deleted set,
// same as any other attribute change. Returns false if name was not
// present on obj's own shape chain, or is not configurable (constants and
// sealed properties cannot be deleted).
func Delete(h Heap, reg *shape.Registry, obj vtype.Pair, name string) bool {
	inst := h.Resolve(obj.Word)
	s := reg.Lookup(inst.ShapeIdx)
	d := s.GetDefShape(name)
	if d == nil || !d.Attrs.Has(vtype.Configurable) {
		return false
	}

	result := reg.DefProp(s, name, d.Type, d.Attrs|vtype.Deleted, d)
	inst.ShapeIdx = result.ShapeIdx
	return true
}

// setAllAttrs rewrites every own, non-deleted property's attributes
// according to f, walking the shape chain oldest-first so each
// redefinition builds on the previous one's fork.
func setAllAttrs(h Heap, reg *shape.Registry, obj vtype.Pair, f func(vtype.Attributes) vtype.Attributes) {
	inst := h.Resolve(obj.Word)
	start := reg.Lookup(inst.ShapeIdx)

	var chain []*shape.Shape
	for p := start; p != nil && !p.IsRoot(); p = p.Parent {
		chain = append(chain, p)
	}

	for i := len(chain) - 1; i >= 0; i-- {
		name := chain[i].PropName

		cur := reg.Lookup(inst.ShapeIdx)
		def := cur.GetDefShape(name)
		if def == nil || def.Attrs.Has(vtype.Deleted) {
			continue
		}

		newAttrs := f(def.Attrs)
		if newAttrs != def.Attrs {
			SetPropAttrs(h, reg, obj, def, newAttrs)
		}
	}
}

// Freeze marks every own property of obj non-writable, non-configurable,
// and non-extensible, matching the bulk attribute operation JavaScript
// calls Object.freeze.
func Freeze(h Heap, reg *shape.Registry, obj vtype.Pair) {
	setAllAttrs(h, reg, obj, func(a vtype.Attributes) vtype.Attributes {
		return a &^ (vtype.Writable | vtype.Configurable | vtype.Extensible)
	})
}

// Seal marks every own property of obj non-configurable and
// non-extensible, but leaves writability untouched, matching
// Object.seal.
func Seal(h Heap, reg *shape.Registry, obj vtype.Pair) {
	setAllAttrs(h, reg, obj, func(a vtype.Attributes) vtype.Attributes {
		return a &^ (vtype.Configurable | vtype.Extensible)
	})
}

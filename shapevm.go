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

// Package shapevm is the object shape and property store at the heart of
// a dynamic-language virtual machine: a hidden-class shape tree plus the
// per-instance slot stores and property access protocol built on top of
// it.
//
// A [Context] owns every shape, every object instance, and every function
// reference the core touches; there is no ambient global state. Callers
// drive a single Context from one goroutine at a time (see the
// single-threaded-cooperative model described in package shape's doc
// comment); the timandy/routine-backed goroutine tripwire in
// internal/debug catches accidental concurrent use in debug builds.
package shapevm

import (
	"github.com/timandy/routine"

	"github.com/shapewright/shapevm/internal/debug"
	"github.com/shapewright/shapevm/internal/stats"
	"github.com/shapewright/shapevm/object"
	"github.com/shapewright/shapevm/propaccess"
	"github.com/shapewright/shapevm/shape"
	"github.com/shapewright/shapevm/vtype"
)

// Re-exported constants forming the core's external surface.
const (
	ObjMinCap     = object.MinCap
	ProtoSlotIdx  = object.ProtoSlotIdx
	FPtrSlotIdx   = object.FPtrSlotIdx
	ArrTblSlotIdx = object.ArrTblSlotIdx
	ArrLenSlotIdx = object.ArrLenSlotIdx

	AttrConfigurable = vtype.Configurable
	AttrWritable     = vtype.Writable
	AttrEnumerable   = vtype.Enumerable
	AttrExtensible   = vtype.Extensible
	AttrDeleted      = vtype.Deleted
	AttrAccessor     = vtype.Accessor

	AttrDefault      = vtype.Default
	AttrConstEnum    = vtype.ConstEnum
	AttrConstNotEnum = vtype.ConstNotEnum
)

// Undefined is the sentinel value read back from a missing property.
var Undefined = vtype.Undefined

// Context is the VM's object and shape store: the shape registry, every
// live instance, the function reference set, configuration, and
// statistics counters. The zero Context is not usable; construct one with
// [NewContext].
type Context struct {
	Shapes *shape.Registry
	Stats  stats.Shapes
	Config vtype.Config

	instances []*object.Instance
	funcs     []FuncValue

	global    vtype.Word // handle of the distinguished global object, if any.
	hasGlobal bool

	owner uint64 // goroutine id that created this Context.
}

// FuncValue is an opaque VM function reference registered into a
// Context's function reference set by [Context.NewClosure]. The host VM
// is free to make it whatever concrete type its callee representation
// needs; shapevm only needs to hold it and hand back an index.
type FuncValue any

// NewContext constructs an empty Context: a shape registry containing
// only the root shape, and no instances.
func NewContext() *Context {
	c := &Context{
		instances: make([]*object.Instance, 0, 64),
		owner:     routine.Goid(),
	}
	c.Shapes = shape.NewRegistry(&c.Stats)
	return c
}

// checkOwner trips a debug.Assert if called from a goroutine other than
// the one that created c, enforcing the single-threaded-cooperative
// model in debug builds.
func (c *Context) checkOwner() {
	debug.Assert(routine.Goid() == c.owner, "shapevm: Context accessed from goroutine %d, created on %d", routine.Goid(), c.owner)
}

// Resolve implements propaccess.Heap.
func (c *Context) Resolve(w vtype.Word) *object.Instance {
	debug.Assert(int(w) < len(c.instances), "shapevm: handle %d out of range (%d instances)", w, len(c.instances))
	return c.instances[w]
}

// HandleOf implements propaccess.Heap.
func (c *Context) HandleOf(inst *object.Instance) vtype.Word {
	c.instances = append(c.instances, inst)
	return vtype.Word(len(c.instances) - 1)
}

// pair wraps an instance and its tag into the value pair addressing it.
func (c *Context) pair(inst *object.Instance) vtype.Pair {
	return vtype.Pair{Word: c.HandleOf(inst), Tag: inst.Kind}
}

// SetGlobal designates obj as the VM's distinguished global object, for
// num_shape_flips_global accounting.
func (c *Context) SetGlobal(obj vtype.Pair) {
	debug.Assert(vtype.IsObject(obj.Tag), "shapevm: SetGlobal on non-object tag %v", obj.Tag)
	c.global = obj.Word
	c.hasGlobal = true
}

func (c *Context) isGlobal(obj vtype.Pair) bool {
	return c.hasGlobal && vtype.IsObject(obj.Tag) && obj.Word == c.global
}

// NewObject implements new_obj: allocates an OBJECT with at least cap
// inline slots, sets its shape to the empty root, and def_consts
// __proto__ to proto (pass [Undefined] for no prototype).
func (c *Context) NewObject(proto vtype.Pair, cap uint32) vtype.Pair {
	c.checkOwner()
	if cap < object.MinCap {
		cap = object.MinCap
	}
	inst := object.New(vtype.OBJECT, cap)
	inst.ShapeIdx = c.Shapes.Root.ShapeIdx
	obj := c.pair(inst)

	ok := propaccess.DefConst(c, c.Shapes, c.Config, obj, "__proto__", proto, false)
	debug.Assert(ok, "shapevm: def_const(__proto__) failed on a fresh object")
	return obj
}

// NewClosure implements new_clos: allocates a CLOSURE with [ObjMinCap]
// inline slots (plus numCells captured cells, tracked by the caller's own
// cell representation — this core only reserves the function pointer
// slot), registers fun in the function reference set, and def_consts
// __proto__ and __fptr__.
func (c *Context) NewClosure(proto vtype.Pair, numCells int, fun FuncValue) vtype.Pair {
	c.checkOwner()
	_ = numCells // cell storage is owned by the embedding VM, not this core.

	inst := object.New(vtype.CLOSURE, object.MinCap)
	inst.ShapeIdx = c.Shapes.Root.ShapeIdx
	clos := c.pair(inst)

	c.funcs = append(c.funcs, fun)
	fptrIdx := vtype.FuncIdx(len(c.funcs) - 1)

	ok := propaccess.DefConst(c, c.Shapes, c.Config, clos, "__proto__", proto, false)
	debug.Assert(ok, "shapevm: def_const(__proto__) failed on a fresh closure")

	ok = propaccess.DefConst(c, c.Shapes, c.Config, clos, "__fptr__", vtype.Pair{Word: vtype.Word(fptrIdx), Tag: vtype.FUNPTR}, false)
	debug.Assert(ok, "shapevm: def_const(__fptr__) failed on a fresh closure")

	return clos
}

// GetFunc returns the function registered at idx.
func (c *Context) GetFunc(idx vtype.FuncIdx) FuncValue {
	return c.funcs[idx]
}

// GetProp implements get(obj, name).
func (c *Context) GetProp(obj vtype.Pair, name string) vtype.Pair {
	c.checkOwner()
	return propaccess.Get(c, c.Shapes, obj, name)
}

// SetProp implements set(obj, name, value, def_attrs).
func (c *Context) SetProp(obj vtype.Pair, name string, value vtype.Pair, defAttrs vtype.Attributes) bool {
	c.checkOwner()
	return propaccess.Set(c, c.Shapes, c.Config, &c.Stats, c.isGlobal(obj), obj, name, value, defAttrs)
}

// DefConst implements def_const(obj, name, value, enumerable).
func (c *Context) DefConst(obj vtype.Pair, name string, value vtype.Pair, enumerable bool) bool {
	c.checkOwner()
	return propaccess.DefConst(c, c.Shapes, c.Config, obj, name, value, enumerable)
}

// SetPropAttrs implements set_prop_attrs(obj, def_shape, attrs).
func (c *Context) SetPropAttrs(obj vtype.Pair, defShape *shape.Shape, attrs vtype.Attributes) {
	c.checkOwner()
	propaccess.SetPropAttrs(c, c.Shapes, obj, defShape, attrs)
}

// HasOwn reports whether name is defined directly on obj.
func (c *Context) HasOwn(obj vtype.Pair, name string) bool {
	return propaccess.HasOwn(c, c.Shapes, obj, name)
}

// Has reports whether name is defined on obj or its prototype chain.
func (c *Context) Has(obj vtype.Pair, name string) bool {
	return propaccess.Has(c, c.Shapes, obj, name)
}

// Keys returns obj's own enumerable property names.
func (c *Context) Keys(obj vtype.Pair) []string {
	return propaccess.Keys(c, c.Shapes, obj)
}

// Entries returns obj's own enumerable (name, value) pairs.
func (c *Context) Entries(obj vtype.Pair) []propaccess.Entry {
	return propaccess.Entries(c, c.Shapes, obj)
}

// Delete removes name from obj, forking its shape rather than mutating
// any shared node in place.
func (c *Context) Delete(obj vtype.Pair, name string) bool {
	c.checkOwner()
	return propaccess.Delete(c, c.Shapes, obj, name)
}

// Freeze marks every own property of obj non-writable, non-configurable,
// and non-extensible.
func (c *Context) Freeze(obj vtype.Pair) {
	c.checkOwner()
	propaccess.Freeze(c, c.Shapes, obj)
}

// Seal marks every own property of obj non-configurable and
// non-extensible.
func (c *Context) Seal(obj vtype.Pair) {
	c.checkOwner()
	propaccess.Seal(c, c.Shapes, obj)
}

// GetShape returns the shape currently assigned to obj.
func (c *Context) GetShape(obj vtype.Pair) *shape.Shape {
	return c.Shapes.Lookup(c.Resolve(obj.Word).ShapeIdx)
}

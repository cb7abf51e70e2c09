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

package shape

import (
	"strings"

	"github.com/shapewright/shapevm/internal/arena"
	"github.com/shapewright/shapevm/internal/debug"
	"github.com/shapewright/shapevm/internal/stats"
	"github.com/shapewright/shapevm/internal/swiss"
	"github.com/shapewright/shapevm/vtype"
)

// Registry is the VM's process-wide, append-only shape forest: a dense
// vector of every shape ever allocated, indexed by ShapeIdx. Index 0 is
// reserved (matching [vtype.NoShape]) and never holds a real shape.
//
// Shape nodes are never freed individually, so they are carved out of an
// [arena.Arena] rather than allocated one at a time with new: allocated
// in bulk, released all at once, with a stable address for the lifetime
// of the registry.
//
// A Registry must be constructed with [NewRegistry]. It is not safe for
// concurrent use; see the single-threaded-cooperative model described in
// the root shapevm package.
type Registry struct {
	shapes []*Shape
	Root   *Shape

	arena arena.Arena[Shape]
	stats *stats.Shapes
}

// NewRegistry allocates a fresh registry containing only the root shape.
// counters may be nil if the caller does not want shape statistics
// tracked.
func NewRegistry(counters *stats.Shapes) *Registry {
	r := &Registry{
		shapes: make([]*Shape, 1, 64),
		stats:  counters,
	}

	root := r.alloc()
	*root = Shape{SlotIdx: RootSlotIdx, Attrs: vtype.Extensible}
	r.register(root)
	r.Root = root
	return r
}

// alloc carves a fresh zero-valued Shape out of the registry's arena.
func (r *Registry) alloc() *Shape {
	return &r.arena.Alloc(1)[0]
}

// register assigns s the next dense index and appends it to the
// registry, incrementing the NumShapes statistic.
func (r *Registry) register(s *Shape) {
	s.ShapeIdx = vtype.ShapeIdx(len(r.shapes))
	r.shapes = append(r.shapes, s)
	if r.stats != nil {
		r.stats.NumShapes.Inc()
	}
}

// Lookup returns the shape at the given dense index, or nil if idx is
// [vtype.NoShape] or out of range.
func (r *Registry) Lookup(idx vtype.ShapeIdx) *Shape {
	if idx == vtype.NoShape || int(idx) >= len(r.shapes) {
		return nil
	}
	return r.shapes[idx]
}

// Len returns the number of shapes in the registry, including the root.
func (r *Registry) Len() int { return len(r.shapes) }

// DefProp looks up, creates, or forks a child of self defining (or
// redefining) name with the given type and attributes, and returns the
// resulting shape.
//
// defShape must be nil for a brand-new definition, or the shape in self's
// ancestry that already defines name, to redefine it in place (preserving
// its slot index) via the fork-and-replay algorithm.
func (r *Registry) DefProp(self *Shape, name string, typ vtype.Type, attrs vtype.Attributes, defShape *Shape) *Shape {
	// Step 1: transition dedup.
	if byName := self.transitions[name]; byName != nil {
		if bucket := lookupBucket(byName, typ); bucket != nil {
			for _, c := range bucket.shapes {
				if c.Attrs == attrs {
					return c
				}
			}
		}
	}

	var result *Shape
	if defShape == nil {
		result = r.newChild(self, name, typ, attrs)
	} else {
		result = r.redefine(self, name, typ, attrs, defShape)
	}

	r.addTransition(self, name, typ, result)
	return result
}

// newChild implements step 2 of def_prop: a brand-new definition.
func (r *Registry) newChild(self *Shape, name string, typ vtype.Type, attrs vtype.Attributes) *Shape {
	c := r.alloc()
	*c = Shape{
		Parent:   self,
		PropName: strings.Clone(name),
		SlotIdx:  self.SlotIdx + 1,
		Type:     typ,
		Attrs:    attrs,
	}
	r.register(c)
	return c
}

// redefine implements step 3 of def_prop: collect the chain of shapes
// between self and defShape (exclusive), fork at defShape's parent with
// the new (type, attrs), then replay the collected chain on top of the
// fork, oldest first, so every slot index is preserved.
func (r *Registry) redefine(self *Shape, name string, typ vtype.Type, attrs vtype.Attributes, defShape *Shape) *Shape {
	var chain []*Shape
	for s := self; s != defShape; s = s.Parent {
		debug.Assert(s != nil, "shape: def_shape %v is not an ancestor of %v", defShape, self)
		chain = append(chain, s)
	}

	fork := r.DefProp(defShape.Parent, name, typ, attrs, nil)
	for i := len(chain) - 1; i >= 0; i-- {
		old := chain[i]
		fork = r.DefProp(fork, old.PropName, old.Type, old.Attrs, nil)
	}

	debug.Assert(fork.SlotIdx == defShape.SlotIdx, "shape: redefinition changed slot index: %d != %d", fork.SlotIdx, defShape.SlotIdx)
	return fork
}

// lookupBucket returns the collision bucket matching typ exactly within
// byName's fingerprint-indexed swiss table, or nil if none has been
// interned yet.
func lookupBucket(byName *swiss.Table[uint64, []typeBucket], typ vtype.Type) *typeBucket {
	buckets := byName.Lookup(typeFingerprint(typ))
	if buckets == nil {
		return nil
	}
	for i := range *buckets {
		if (*buckets)[i].typ == typ {
			return &(*buckets)[i]
		}
	}
	return nil
}

// addTransition interns result under self.transitions[name], keyed by a
// fingerprint of typ in a swiss table and disambiguated against
// fingerprint collisions by comparing the full vtype.Type.
func (r *Registry) addTransition(self *Shape, name string, typ vtype.Type, result *Shape) {
	if self.transitions == nil {
		self.transitions = make(map[string]*swiss.Table[uint64, []typeBucket])
	}
	byName := self.transitions[name]
	if byName == nil {
		byName = new(swiss.Table[uint64, []typeBucket])
		self.transitions[strings.Clone(name)] = byName
	}

	buckets, _ := byName.Insert(typeFingerprint(typ))
	for i := range *buckets {
		if (*buckets)[i].typ == typ {
			for _, c := range (*buckets)[i].shapes {
				if c == result {
					return
				}
			}
			(*buckets)[i].shapes = append((*buckets)[i].shapes, result)
			return
		}
	}
	*buckets = append(*buckets, typeBucket{typ: typ, shapes: []*Shape{result}})
}

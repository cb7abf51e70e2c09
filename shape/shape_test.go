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

package shape_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapewright/shapevm/internal/stats"
	"github.com/shapewright/shapevm/shape"
	"github.com/shapewright/shapevm/vtype"
)

func int32Type() vtype.Type {
	return vtype.Type{TagKnown: true, Tag: vtype.INT32}
}

func stringType() vtype.Type {
	return vtype.Type{TagKnown: true, Tag: vtype.STRING}
}

func TestDefPropNewDefinition(t *testing.T) {
	t.Parallel()

	r := shape.NewRegistry(nil)
	a := r.DefProp(r.Root, "a", int32Type(), vtype.Default, nil)

	require.NotNil(t, a)
	assert.Equal(t, r.Root, a.Parent)
	assert.Equal(t, "a", a.PropName)
	assert.Equal(t, uint32(0), a.SlotIdx)
	assert.Equal(t, vtype.Default, a.Attrs)
}

func TestDefPropInterning(t *testing.T) {
	t.Parallel()

	r := shape.NewRegistry(nil)
	a1 := r.DefProp(r.Root, "a", int32Type(), vtype.Default, nil)
	a2 := r.DefProp(r.Root, "a", int32Type(), vtype.Default, nil)

	assert.Same(t, a1, a2, "identical def_prop calls must return the same shape")
}

func TestDefPropDistinctTypesFork(t *testing.T) {
	t.Parallel()

	r := shape.NewRegistry(nil)
	a := r.DefProp(r.Root, "a", int32Type(), vtype.Default, nil)
	b := r.DefProp(r.Root, "a", stringType(), vtype.Default, nil)

	assert.NotSame(t, a, b)
	assert.Equal(t, a.SlotIdx, b.SlotIdx)
}

func TestRedefinitionPreservesSlots(t *testing.T) {
	t.Parallel()

	r := shape.NewRegistry(nil)
	x := r.DefProp(r.Root, "x", int32Type(), vtype.Default, nil)
	y := r.DefProp(x, "y", int32Type(), vtype.Default, nil)
	z := r.DefProp(y, "z", int32Type(), vtype.Default, nil)

	// Redefine x (on the z shape, it's an ancestor) with a new type.
	forked := r.DefProp(z, "x", stringType(), vtype.Default, x)

	assert.NotSame(t, z, forked)
	assert.Equal(t, z.SlotIdx, forked.SlotIdx)

	// The forked chain must still define y and z at their original slots.
	yDef := forked.GetDefShape("y")
	require.NotNil(t, yDef)
	assert.Equal(t, y.SlotIdx, yDef.SlotIdx)

	zDef := forked.GetDefShape("z")
	require.NotNil(t, zDef)
	assert.Equal(t, z.SlotIdx, zDef.SlotIdx)

	xDef := forked.GetDefShape("x")
	require.NotNil(t, xDef)
	assert.Equal(t, x.SlotIdx, xDef.SlotIdx)
	assert.Equal(t, stringType(), xDef.Type)

	// Original z is unaffected.
	assert.Equal(t, int32Type(), z.GetDefShape("x").Type)
}

func TestGetDefShapeWalksAncestry(t *testing.T) {
	t.Parallel()

	r := shape.NewRegistry(nil)
	p := r.DefProp(r.Root, "k", int32Type(), vtype.Default, nil)
	o := r.DefProp(p, "other", int32Type(), vtype.Default, nil)

	assert.Same(t, p, o.GetDefShape("k"))
	assert.Nil(t, o.GetDefShape("missing"))
	// Cached absent lookup stays nil on a second call.
	assert.Nil(t, o.GetDefShape("missing"))
}

func TestGenEnumTable(t *testing.T) {
	t.Parallel()

	r := shape.NewRegistry(nil)
	a := r.DefProp(r.Root, "a", int32Type(), vtype.Default, nil)
	b := r.DefProp(a, "b", int32Type(), vtype.Default & ^vtype.Enumerable, nil)
	c := r.DefProp(b, "c", int32Type(), vtype.Default, nil)

	tbl := c.GenEnumTable()
	require.Len(t, tbl, int(c.SlotIdx)+1)

	assert.Equal(t, "a", tbl[a.SlotIdx].Name)
	assert.False(t, tbl[b.SlotIdx].Defined(), "b is not enumerable")
	assert.Equal(t, "c", tbl[c.SlotIdx].Name)

	// Memoized: a second call returns the same table without recomputation.
	assert.Equal(t, tbl, c.GenEnumTable())
}

func TestShapeStatsCounted(t *testing.T) {
	t.Parallel()

	var counters stats.Shapes
	r := shape.NewRegistry(&counters)
	before := counters.NumShapes.Get()

	r.DefProp(r.Root, "a", int32Type(), vtype.Default, nil)

	assert.Equal(t, before+1, counters.NumShapes.Get())
}

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

package shapevm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shapevm "github.com/shapewright/shapevm"
	"github.com/shapewright/shapevm/vtype"
)

func TestGetFunPtrMatchesNamedLookup(t *testing.T) {
	t.Parallel()

	ctx := shapevm.NewContext()
	clos := ctx.NewClosure(shapevm.Undefined, 0, "callee")

	named := ctx.GetProp(clos, "__fptr__")
	require.Equal(t, vtype.FUNPTR, named.Tag)

	assert.Equal(t, vtype.FuncIdx(named.Word), ctx.GetFunPtr(clos))
}

func TestArrTblAndLenAccessors(t *testing.T) {
	t.Parallel()

	ctx := shapevm.NewContext()
	arr := ctx.NewObject(shapevm.Undefined, shapevm.ObjMinCap)
	// NewObject always allocates OBJECT; retag for this reserved-slot test
	// since the array-layout reservations are a convention over the same
	// slot store, not a distinct constructor in this core.
	arr.Tag = vtype.ARRAY

	ctx.SetArrLen(arr, 3)
	assert.Equal(t, int32(3), ctx.GetArrLen(arr))

	tbl := vtype.Pair{Word: 123, Tag: vtype.REFPTR}
	ctx.SetArrTbl(arr, tbl)
	assert.Equal(t, tbl, ctx.GetArrTbl(arr))
}

func TestSlotPairRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := shapevm.NewContext()
	o := ctx.NewObject(shapevm.Undefined, shapevm.ObjMinCap)
	require.True(t, ctx.SetProp(o, "x", vtype.Int32(7), shapevm.AttrDefault))

	sh := ctx.GetShape(o)
	d := sh.GetDefShape("x")
	require.NotNil(t, d)

	got := ctx.GetSlotPair(o, d.SlotIdx)
	assert.Equal(t, int32(7), got.Int32())

	ctx.SetSlotPair(o, d.SlotIdx, vtype.Int32(9))
	assert.Equal(t, int32(9), ctx.GetProp(o, "x").Int32())
}

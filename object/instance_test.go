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

package object_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapewright/shapevm/object"
	"github.com/shapewright/shapevm/vtype"
)

func TestNewRaisesToMinCap(t *testing.T) {
	t.Parallel()

	o := object.New(vtype.OBJECT, 2)
	assert.Equal(t, uint32(object.MinCap), o.Cap)
}

func TestInlineReadWrite(t *testing.T) {
	t.Parallel()

	o := object.New(vtype.OBJECT, object.MinCap)
	o.Set(3, object.Slot{Word: 42, Tag: vtype.INT32})
	got := o.Get(3)
	assert.Equal(t, vtype.Word(42), got.Word)
	assert.Equal(t, vtype.INT32, got.Tag)
}

func TestEnsureSlotGrowsExtensionAndPreservesValues(t *testing.T) {
	t.Parallel()

	o := object.New(vtype.OBJECT, object.MinCap)
	for i := range uint32(20) {
		o.EnsureSlot(i)
		o.Set(i, object.Slot{Word: vtype.Word(i), Tag: vtype.INT32})
	}

	require.NotNil(t, o.Next())
	for i := range uint32(20) {
		got := o.Get(i)
		assert.Equal(t, vtype.Word(i), got.Word, "slot %d", i)
	}
}

func TestEnsureSlotGrowthDoubles(t *testing.T) {
	t.Parallel()

	o := object.New(vtype.OBJECT, object.MinCap)
	o.EnsureSlot(object.MinCap) // first slot beyond inline capacity.
	require.NotNil(t, o.Next())
	assert.Equal(t, uint32(2*object.MinCap), o.Next().Cap)

	// Force a second growth by addressing well beyond the first
	// extension's capacity.
	far := object.MinCap + 2*object.MinCap + 1
	o.EnsureSlot(uint32(far))
	assert.GreaterOrEqual(t, o.Next().Cap, uint32(2*object.MinCap))
}

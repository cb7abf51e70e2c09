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

package arena_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapewright/shapevm/internal/arena"
)

func TestAllocZeroed(t *testing.T) {
	t.Parallel()

	var a arena.Arena[int]
	s := a.Alloc(4)
	require.Len(t, s, 4)
	for i, v := range s {
		assert.Zero(t, v, "element %d", i)
	}
}

func TestAllocationsDoNotAlias(t *testing.T) {
	t.Parallel()

	var a arena.Arena[int]
	x := a.Alloc(3)
	y := a.Alloc(3)

	for i := range x {
		x[i] = 1
	}
	for i := range y {
		y[i] = 2
	}

	assert.Equal(t, []int{1, 1, 1}, x)
	assert.Equal(t, []int{2, 2, 2}, y)
}

func TestStableAcrossGrowth(t *testing.T) {
	t.Parallel()

	var a arena.Arena[uint64]

	// Force many block growths and check an early allocation survives
	// with its contents intact.
	first := a.Alloc(1)
	first[0] = 0xdead
	for range 100 {
		a.Alloc(50)
	}
	assert.Equal(t, uint64(0xdead), first[0])
	assert.Equal(t, 1+100*50, a.Len())
}

func TestAllocZeroLength(t *testing.T) {
	t.Parallel()

	var a arena.Arena[int]
	assert.Nil(t, a.Alloc(0))
	assert.Equal(t, 0, a.Len())
}

func TestReset(t *testing.T) {
	t.Parallel()

	var a arena.Arena[int]
	a.Alloc(10)
	a.Alloc(200)
	require.Positive(t, a.Len())

	a.Reset()
	assert.Equal(t, 0, a.Len())

	// The arena is reusable after a reset.
	s := a.Alloc(5)
	assert.Len(t, s, 5)
}

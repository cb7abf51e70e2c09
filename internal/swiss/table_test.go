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

package swiss_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapewright/shapevm/internal/swiss"
)

func TestLookupMissing(t *testing.T) {
	t.Parallel()

	var m swiss.Table[uint64, int]
	assert.Nil(t, m.Lookup(42))
	assert.Equal(t, 0, m.Len())
}

func TestInsertAndLookup(t *testing.T) {
	t.Parallel()

	var m swiss.Table[uint64, int]

	v, existed := m.Insert(1)
	require.NotNil(t, v)
	assert.False(t, existed)
	*v = 100

	v, existed = m.Insert(1)
	require.NotNil(t, v)
	assert.True(t, existed)
	assert.Equal(t, 100, *v)

	got := m.Lookup(1)
	require.NotNil(t, got)
	assert.Equal(t, 100, *got)
	assert.Equal(t, 1, m.Len())
}

func TestGrowthPreservesEntries(t *testing.T) {
	t.Parallel()

	var m swiss.Table[uint64, uint64]
	const n = 1000
	for i := range uint64(n) {
		v, existed := m.Insert(i)
		require.False(t, existed, "key %d", i)
		*v = i * i
	}

	assert.Equal(t, n, m.Len())
	for i := range uint64(n) {
		got := m.Lookup(i)
		require.NotNil(t, got, "key %d", i)
		assert.Equal(t, i*i, *got, "key %d", i)
	}
	assert.Nil(t, m.Lookup(n))
}

func TestAll(t *testing.T) {
	t.Parallel()

	var m swiss.Table[uint32, string]
	*must(m.Insert(1)) = "a"
	*must(m.Insert(2)) = "b"
	*must(m.Insert(3)) = "c"

	seen := map[uint32]string{}
	m.All(func(k uint32, v *string) bool {
		seen[k] = *v
		return true
	})
	assert.Equal(t, map[uint32]string{1: "a", 2: "b", 3: "c"}, seen)
}

func must[V any](v *V, _ bool) *V { return v }

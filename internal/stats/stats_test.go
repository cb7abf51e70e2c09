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

package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shapewright/shapevm/internal/stats"
)

func TestCounter(t *testing.T) {
	t.Parallel()

	var c stats.Counter
	assert.Equal(t, int64(0), c.Get())

	c.Inc()
	c.Inc()
	assert.Equal(t, int64(2), c.Get())

	c.Add(5)
	assert.Equal(t, int64(7), c.Get())

	c.Add(-3)
	assert.Equal(t, int64(4), c.Get())
}

func TestShapes(t *testing.T) {
	t.Parallel()

	var s stats.Shapes
	s.NumShapes.Inc()
	s.NumShapeFlips.Inc()
	s.NumShapeFlipsGlobal.Inc()
	s.NumShapeFlips.Inc()

	assert.Equal(t, int64(1), s.NumShapes.Get())
	assert.Equal(t, int64(2), s.NumShapeFlips.Get())
	assert.Equal(t, int64(1), s.NumShapeFlipsGlobal.Get())
}

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

// Package stats provides instrumentation counter primitives.
package stats

import "sync/atomic"

// Counter tracks a count, such as the number of shapes allocated or the
// number of shape flips observed. Inc only ever increases it; Add also
// accepts a negative delta.
//
// The zero value is ready to use. Concurrent use is safe, though the core
// this package instruments is single-threaded-cooperative by contract; the
// atomics exist so a host embedding multiple contexts never tears a read.
type Counter struct {
	n atomic.Int64
}

// Inc increments the counter by one.
func (c *Counter) Inc() { c.n.Add(1) }

// Add adds delta to the counter, which may be negative.
func (c *Counter) Add(delta int64) { c.n.Add(delta) }

// Get returns the current count.
func (c *Counter) Get() int64 { return c.n.Load() }

// Shapes holds the statistics counters the core is required to maintain.
type Shapes struct {
	// NumShapes counts every shape node ever allocated into the registry.
	NumShapes Counter

	// NumShapeFlips counts redefinitions triggered by a type mismatch on
	// write, across all objects.
	NumShapeFlips Counter

	// NumShapeFlipsGlobal counts the same events, but only for the VM's
	// distinguished global object.
	NumShapeFlipsGlobal Counter
}

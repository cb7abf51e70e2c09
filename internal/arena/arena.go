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

// Package arena provides a bump-pointer allocator for values that are
// allocated in bulk and never individually freed.
//
// # Design
//
// This is a lighter-weight relative of a classic arena: rather than
// carving byte ranges out of raw unsafe memory, it hands out sub-slices
// of a growing []T backing array. Every value it returns is a perfectly
// ordinary, GC-tracked Go value, so T is not required to be pointer-free:
// the backing blocks are plain Go memory the collector scans normally,
// which is what lets shape.Registry use this for *Shape nodes (which
// hold live Parent pointers and map fields) even though an unsafe-memory
// arena could only ever hold pointer-free payloads.
//
// What this keeps from a classic arena is the allocation profile, not
// the memory representation: shape nodes are permanent, append-only,
// process-lifetime values that are never individually freed. Object
// instances do not use this arena (see object.Instance's doc comment):
// they hold a next pointer and are expected to become unreachable and be
// collected individually, which an arena's bulk-or-nothing lifetime does
// not support.
//
// A zero Arena is empty and ready to use.
package arena

// Arena hands out slices of T carved from a set of growing backing
// blocks. Nothing returned by Alloc is ever individually freed; the whole
// arena is released at once by calling Reset.
type Arena[T any] struct {
	blocks [][]T
	cur    []T // Active block; len(cur) is the bump pointer, cap(cur) the limit.
	n      int // Elements handed out so far; retired blocks may have unused tails.
}

// minBlock is the smallest block size a fresh Arena will allocate.
const minBlock = 64

// Alloc returns a fresh slice of n elements, zero-valued, carved out of
// this arena's current block (growing it first if it doesn't have n
// elements of headroom left).
//
// The returned slice aliases the arena's backing storage and remains valid
// until Reset. Its capacity equals its length, so appending to it copies
// into a new array that no longer aliases the arena.
func (a *Arena[T]) Alloc(n int) []T {
	if n == 0 {
		return nil
	}
	if cap(a.cur)-len(a.cur) < n {
		a.grow(n)
	}
	start := len(a.cur)
	a.cur = a.cur[:start+n]
	a.n += n
	return a.cur[start : start+n : start+n]
}

// grow allocates a fresh block of at least n elements, at least double the
// size of the previous block.
func (a *Arena[T]) grow(n int) {
	size := minBlock
	if len(a.blocks) > 0 {
		size = cap(a.blocks[len(a.blocks)-1]) * 2
	}
	size = max(size, n)

	block := make([]T, 0, size)
	a.blocks = append(a.blocks, block)
	a.cur = block
}

// Len returns the total number of elements allocated from this arena so
// far, across all blocks.
func (a *Arena[T]) Len() int { return a.n }

// Reset discards every allocation made from this arena and zeroes its
// backing blocks. Later allocations reuse the most recent block; earlier
// blocks are kept but not allocated from again. Memory returned by a prior
// Alloc call must not be referenced after a call to Reset.
func (a *Arena[T]) Reset() {
	for i, b := range a.blocks {
		clear(b[:cap(b)])
		a.blocks[i] = b[:0]
	}
	if len(a.blocks) > 0 {
		a.cur = a.blocks[len(a.blocks)-1][:0]
	} else {
		a.cur = nil
	}
	a.n = 0
}

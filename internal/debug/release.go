// Copyright 2025 Buf Technologies, Inc.
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

//go:build !debug

package debug

// Enabled is false in release builds; every debug.Assert and debug.Log call
// compiles away to nothing below.
const Enabled = false

// Log is a no-op in release builds.
func Log(context []any, operation string, format string, args ...any) {}

// Assert is a no-op in release builds. Invariant violations are only
// checked when built with the debug tag.
func Assert(cond bool, format string, args ...any) {}

// Value holds nothing in release builds.
type Value[T any] struct{}

// Get panics: debug.Value is only readable in debug builds.
func (v *Value[T]) Get() *T { panic("debug.Value.Get called outside of a debug build") }

// Set is a no-op in release builds.
func (v *Value[T]) Set(T) {}

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

package shapevm

import (
	"fmt"
	"strings"

	"github.com/shapewright/shapevm/internal/debug"
)

// Dump renders a human-readable summary of the context's shape registry
// and instance heap, for use in debug logging.
func (c *Context) Dump() string {
	buf := new(strings.Builder)

	fmt.Fprintf(buf, "shapes: %d\n", c.Shapes.Len())
	fmt.Fprintf(buf, "instances: %d\n", len(c.instances))
	fmt.Fprintf(buf, "funcs: %d\n", len(c.funcs))

	if !debug.Enabled {
		fmt.Fprintln(buf, "objects: ???")
		return buf.String()
	}

	for i, inst := range c.instances {
		sh := c.Shapes.Lookup(inst.ShapeIdx)
		fmt.Fprintf(buf, "  [%d] %v shape=%v cap=%d ext=%v\n", i, inst.Kind, sh, inst.Cap, inst.Next() != nil)
	}

	return buf.String()
}

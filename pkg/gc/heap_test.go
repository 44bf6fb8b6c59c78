// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package gc_test

import (
	"testing"

	"github.com/slake-lang/slake/pkg/gc"
	"github.com/slake-lang/slake/pkg/util/assert"
	"github.com/slake-lang/slake/pkg/value"
)

func TestNewHeapCreatesRootValue(t *testing.T) {
	h := gc.NewHeap(0)
	root := h.Root()

	assert.True(t, root != nil, "heap must construct a root value")
	assert.Equal(t, value.KindRoot, root.Kind())
}

func TestReleaseFreesUnreferencedObject(t *testing.T) {
	h := gc.NewHeap(0)

	class := value.NewClass(h.NextID(), "Widget", nil, value.Public)
	h.Track(class)

	obj := value.NewObject(h.NextID(), class)
	h.Track(obj)
	h.Retain(obj)

	assert.Equal(t, uint32(1), obj.RefCount())

	h.Release(obj)

	assert.Equal(t, uint32(0), obj.RefCount())
	assert.True(t, obj.IsUnreferenced())
}

func TestSweepWithoutRootsLeavesClassUnreferenced(t *testing.T) {
	h := gc.NewHeap(0)

	class := value.NewClass(h.NextID(), "Node", nil, value.Public)
	h.Track(class)
	class.SetScope(value.NewScope(nil))

	method := value.NewFunction(h.NextID(), "touch", class, value.Public, nil, nil, nil, false)
	h.Track(method)
	class.Scope().Define("touch", value.Public, method)

	// class -> scope entry "touch" -> method; nothing in this fixture points
	// back from method to class, so there is no cycle here. Neither value is
	// host-referenced, and after a sweep with no external roots the class is
	// still unreferenced.
	h.RequestSweep()

	assert.True(t, class.IsUnreferenced())
}

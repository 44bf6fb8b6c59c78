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
package loader_test

import (
	"testing"

	"github.com/slake-lang/slake/pkg/gc"
	"github.com/slake-lang/slake/pkg/loader"
	"github.com/slake-lang/slake/pkg/opcode"
	"github.com/slake-lang/slake/pkg/slx"
	"github.com/slake-lang/slake/pkg/util/assert"
	"github.com/slake-lang/slake/pkg/value"
)

func sampleModule(name []string) *slx.Module {
	entries := make([]slx.RefEntryDescriptor, len(name))
	for i, n := range name {
		entries[i] = slx.RefEntryDescriptor{Name: n}
	}

	return &slx.Module{
		Name: &slx.RefDescriptor{Entries: entries},
		Scope: slx.ScopeBlock{
			Functions: []slx.FuncEntry{
				{
					Access: value.Public,
					Name:   "add",
					Return: slx.TypeDescriptor{Tag: value.KindI32},
					Params: []slx.ParamDescriptor{
						{Name: "a", Type: slx.TypeDescriptor{Tag: value.KindI32}},
						{Name: "b", Type: slx.TypeDescriptor{Tag: value.KindI32}},
					},
					Body: []slx.InstructionDescriptor{
						{Op: opcode.LRET, Operands: []slx.ValueDescriptor{{Kind: value.KindI32, Literal: int32(3)}}},
					},
				},
			},
			Classes: []slx.ClassEntry{
				{
					Access: value.Public,
					Name:   "Widget",
					Parent: &slx.RefDescriptor{Entries: []slx.RefEntryDescriptor{{Name: "Base"}}},
				},
			},
		},
	}
}

func TestLoadInstallsModuleAtDeclaredPath(t *testing.T) {
	heap := gc.NewHeap(0)
	l := loader.New(heap, nil)

	data, err := slx.EncodeModule(sampleModule([]string{"a", "b"}))
	assert.True(t, err == nil, "encoding the fixture module must not fail")

	mod, err := l.Load(data, 0)
	assert.True(t, err == nil, "loading the fixture module must not fail")
	assert.Equal(t, "a.b", mod.QualifiedName())

	root := heap.Root()
	aEntry, ok := root.Scope().Lookup("a")
	assert.True(t, ok, "intermediate module a must be installed under the root")

	bEntry, ok := aEntry.Val.Scope().Lookup("b")
	assert.True(t, ok, "terminal module b must be installed under a")
	assert.True(t, bEntry.Val == mod, "b's installed value must be the loaded module")

	fnEntry, ok := mod.Scope().Lookup("add")
	assert.True(t, ok, "function add must be installed in the module scope")

	fn, ok := fnEntry.Val.AsFn()
	assert.True(t, ok, "add must be a loaded function")
	assert.Equal(t, 2, len(fn.Params))

	classEntry, ok := mod.Scope().Lookup("Widget")
	assert.True(t, ok, "class Widget must be installed in the module scope")

	class, ok := classEntry.Val.AsClass()
	assert.True(t, ok, "Widget must be a class")
	assert.True(t, class.Parent.IsDeferred(), "Widget's parent must remain deferred until resolved")
}

func TestLoadNoReloadReturnsExistingModule(t *testing.T) {
	heap := gc.NewHeap(0)
	l := loader.New(heap, nil)

	data, err := slx.EncodeModule(sampleModule([]string{"m"}))
	assert.True(t, err == nil, "encoding the fixture module must not fail")

	first, err := l.Load(data, loader.NoReload)
	assert.True(t, err == nil, "first load must not fail")

	second, err := l.Load(data, loader.NoReload)
	assert.True(t, err == nil, "second load under NoReload must not fail")
	assert.True(t, first == second, "NoReload must return the already-installed module instead of reloading")
}

func TestLoadNoConflictRejectsExistingPath(t *testing.T) {
	heap := gc.NewHeap(0)
	l := loader.New(heap, nil)

	data, err := slx.EncodeModule(sampleModule([]string{"m"}))
	assert.True(t, err == nil, "encoding the fixture module must not fail")

	_, err = l.Load(data, 0)
	assert.True(t, err == nil, "first load must not fail")

	_, err = l.Load(data, loader.NoConflict)
	assert.True(t, err != nil, "loading again under NoConflict must fail")
}

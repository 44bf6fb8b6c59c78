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
package generic_test

import (
	"testing"

	"github.com/slake-lang/slake/pkg/generic"
	"github.com/slake-lang/slake/pkg/util/assert"
	"github.com/slake-lang/slake/pkg/value"
)

// fakeAlloc is a minimal generic.Allocator that hands out sequential ids,
// standing in for pkg/gc.Heap in these unit tests.
type fakeAlloc struct{ next value.Id }

func (a *fakeAlloc) NextID() value.Id {
	a.next++
	return a.next
}

func (a *fakeAlloc) Track(v *value.Value) *value.Value { return v }

// nopResolver treats every type as already resolved; none of these fixtures
// carry deferred types.
type nopResolver struct{}

func (nopResolver) ResolveType(*value.Type) error { return nil }

func boxTemplate(alloc *fakeAlloc) *value.Value {
	class := value.NewClass(alloc.NextID(), "Box", nil, value.Public)

	scope := value.NewScope(nil)
	field := value.NewVariable(alloc.NextID(), &value.Type{Tag: value.KindGenericArg, ParamIndex: 0})
	scope.Define("item", value.Public, field)
	class.SetScope(scope)

	c, _ := class.AsClass()
	c.GenericParams = []value.GenericParam{{Name: "T"}}

	return class
}

func TestInstantiateSubstitutesFieldType(t *testing.T) {
	alloc := &fakeAlloc{}
	template := boxTemplate(alloc)

	inst, err := generic.NewInstantiator().Instantiate(alloc, nopResolver{}, template, []*value.Type{value.Simple(value.KindI32)})
	assert.True(t, err == nil, "instantiate must not fail")

	entry, ok := inst.Scope().Lookup("item")
	assert.True(t, ok, "instantiated field must exist")

	field, ok := entry.Val.AsVar()
	assert.True(t, ok, "item member must be a var")
	assert.Equal(t, value.KindI32, field.Declared.Tag)
}

func TestInstantiateCachesByStructuralEquality(t *testing.T) {
	alloc := &fakeAlloc{}
	template := boxTemplate(alloc)
	g := generic.NewInstantiator()

	a, err := g.Instantiate(alloc, nopResolver{}, template, []*value.Type{value.Simple(value.KindI32)})
	assert.True(t, err == nil, "first instantiation must not fail")

	b, err := g.Instantiate(alloc, nopResolver{}, template, []*value.Type{value.Simple(value.KindI32)})
	assert.True(t, err == nil, "second instantiation must not fail")

	assert.True(t, a == b, "Box<i32> instantiated twice must return the cached value")

	c, err := g.Instantiate(alloc, nopResolver{}, template, []*value.Type{value.Simple(value.KindString)})
	assert.True(t, err == nil, "third instantiation must not fail")
	assert.True(t, a != c, "Box<i32> and Box<string> must be distinct instantiations")
}

func TestInstantiateWrongArgCountFails(t *testing.T) {
	alloc := &fakeAlloc{}
	template := boxTemplate(alloc)

	_, err := generic.NewInstantiator().Instantiate(alloc, nopResolver{}, template, nil)
	assert.True(t, err != nil, "instantiation with missing type arguments must fail")
}

func TestEvictRemovesCacheEntry(t *testing.T) {
	alloc := &fakeAlloc{}
	template := boxTemplate(alloc)
	g := generic.NewInstantiator()

	inst, err := g.Instantiate(alloc, nopResolver{}, template, []*value.Type{value.Simple(value.KindI32)})
	assert.True(t, err == nil, "instantiation must not fail")

	g.Evict(inst)

	_, _, ok := g.TemplateOf(inst)
	assert.True(t, !ok, "evicted instantiation must no longer resolve to a template")

	again, err := g.Instantiate(alloc, nopResolver{}, template, []*value.Type{value.Simple(value.KindI32)})
	assert.True(t, err == nil, "re-instantiation after eviction must not fail")
	assert.True(t, again != inst, "eviction must force a fresh instantiation, not return the stale cached value")
}

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
package resolver_test

import (
	"testing"

	"github.com/slake-lang/slake/pkg/generic"
	"github.com/slake-lang/slake/pkg/resolver"
	"github.com/slake-lang/slake/pkg/util/assert"
	"github.com/slake-lang/slake/pkg/value"
)

type fakeAlloc struct{ next value.Id }

func (a *fakeAlloc) NextID() value.Id              { a.next++; return a.next }
func (a *fakeAlloc) Track(v *value.Value) *value.Value { return v }

type fakeFrame struct {
	scope    *value.Scope
	class    *value.Value
	thisVal  *value.Value
}

func (f *fakeFrame) EnclosingScope() *value.Scope { return f.scope }
func (f *fakeFrame) EnclosingClass() *value.Value { return f.class }
func (f *fakeFrame) This() *value.Value           { return f.thisVal }

func ref(names ...string) *value.RefPayload {
	entries := make([]value.RefEntry, len(names))
	for i, n := range names {
		entries[i] = value.RefEntry{Name: n}
	}

	return &value.RefPayload{Entries: entries}
}

func TestResolveSimpleNameFromStartScope(t *testing.T) {
	alloc := &fakeAlloc{}
	r := resolver.New(alloc, generic.NewInstantiator())

	scope := value.NewScope(nil)
	target := value.NewVariable(alloc.NextID(), value.Simple(value.KindI32))
	scope.Define("x", value.Public, target)

	got, err := r.Resolve(scope, nil, ref("x"))
	assert.True(t, err == nil, "resolution must succeed")
	assert.True(t, got == target, "resolved value must be the scope member")
}

func TestResolveWalksOutwardFromFrame(t *testing.T) {
	alloc := &fakeAlloc{}
	r := resolver.New(alloc, generic.NewInstantiator())

	outer := value.NewScope(nil)
	target := value.NewVariable(alloc.NextID(), value.Simple(value.KindI32))
	outer.Define("x", value.Public, target)

	inner := value.NewScope(outer)
	frame := &fakeFrame{scope: inner}

	got, err := r.Resolve(nil, frame, ref("x"))
	assert.True(t, err == nil, "resolution must succeed")
	assert.True(t, got == target, "resolution must walk outward to the enclosing scope")
}

func TestResolveUnwrapsAliasAndDescendsMemberScope(t *testing.T) {
	alloc := &fakeAlloc{}
	r := resolver.New(alloc, generic.NewInstantiator())

	module := value.NewModule(alloc.NextID(), "m", nil)
	class := value.NewClass(alloc.NextID(), "Widget", module, value.Public)
	class.SetScope(value.NewScope(nil))
	field := value.NewVariable(alloc.NextID(), value.Simple(value.KindI32))
	class.Scope().Define("field", value.Public, field)

	alias := value.NewAlias(alloc.NextID(), class)

	scope := value.NewScope(nil)
	scope.Define("Aliased", value.Public, alias)

	got, err := r.Resolve(scope, nil, ref("Aliased", "field"))
	assert.True(t, err == nil, "resolution must succeed")
	assert.True(t, got == field, "resolution must unwrap the alias and descend into the class scope")
}

func TestResolveThisOutsideFrameFails(t *testing.T) {
	alloc := &fakeAlloc{}
	r := resolver.New(alloc, generic.NewInstantiator())

	_, err := r.Resolve(nil, nil, ref("this"))
	assert.True(t, err == resolver.ErrNoFrame, "`this` outside a frame must fail with ErrNoFrame")
}

func TestResolveBaseReturnsParentClass(t *testing.T) {
	alloc := &fakeAlloc{}
	r := resolver.New(alloc, generic.NewInstantiator())

	module := value.NewModule(alloc.NextID(), "m", nil)
	parent := value.NewClass(alloc.NextID(), "Base", module, value.Public)
	child := value.NewClass(alloc.NextID(), "Child", module, value.Public)

	c, _ := child.AsClass()
	c.Parent = value.Defined(value.KindClass, parent)

	frame := &fakeFrame{class: child}

	got, err := r.Resolve(nil, frame, ref("base"))
	assert.True(t, err == nil, "resolution must succeed")
	assert.True(t, got == parent, "`base` must resolve to the enclosing class's parent")
}

func TestResolveNotFoundNamesDeepestPrefix(t *testing.T) {
	alloc := &fakeAlloc{}
	r := resolver.New(alloc, generic.NewInstantiator())

	module := value.NewModule(alloc.NextID(), "m", nil)
	class := value.NewClass(alloc.NextID(), "Widget", module, value.Public)
	class.SetScope(value.NewScope(nil))

	scope := value.NewScope(nil)
	scope.Define("Widget", value.Public, class)

	_, err := r.Resolve(scope, nil, ref("Widget", "missing"))
	assert.True(t, err != nil, "resolution of a missing member must fail")

	nf, ok := err.(*resolver.NotFoundError)
	assert.True(t, ok, "error must be a *NotFoundError")
	assert.Equal(t, 1, nf.Depth)
	assert.Equal(t, "missing", nf.Missing)
}

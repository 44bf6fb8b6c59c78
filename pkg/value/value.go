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
package value

import "sync/atomic"

// Id is an allocator-assigned identity, unique for the lifetime of a value
// within one runtime (spec §3, "identity (allocator-assigned)").
type Id uint64

// Flags records the two boolean bits every value carries regardless of kind
// (spec §3): whether the tracing sweep has already reached this value in
// the current pass, and whether this value's scope is shared with (i.e. also
// owned transitively by) an alias.
type Flags uint8

const (
	FlagWalked Flags = 1 << iota
	FlagAliasSharedScope
)

// Host is the minimal capability handed to a native function callback (spec
// §6, "Native function: given a runtime pointer and an argument vector").
// It is deliberately tiny so that pkg/value never needs to import the
// runtime package that implements it.
type Host interface {
	Root() *Value
}

// NativeFunc is a host-supplied callback bound as the body of a native fn
// value (spec §6).
type NativeFunc func(host Host, args []*Value) (*Value, error)

// Value is every runtime entity: module, class, interface, trait, object,
// function, literal, variable, alias, reference, fiber context, or the root
// (spec §3). Rather than a virtual-method class hierarchy, Go favours (and
// spec §9 "Polymorphism over value kinds" explicitly recommends) a single
// tagged-union struct whose kind-specific data lives in payload, accessed
// through narrow, well-typed views (AsClass, AsObject, ...).
type Value struct {
	id    Id
	kind  Kind
	typ   *Type
	flags Flags
	// refCount counts edges held by other values in the graph; hostRefCount
	// counts edges held by the host embedder. Both are plain counters here —
	// the release-on-zero policy and the mark-sweep cycle collector live in
	// pkg/gc, which operates purely through this package's exported surface.
	refCount     uint32
	hostRefCount uint32
	scope        *Scope
	payload      any
}

// New constructs a value of the given kind, type and payload. id is supplied
// by the caller (ordinarily gc.Heap.Alloc) so that identity assignment stays
// centralised in the allocator.
func New(id Id, kind Kind, typ *Type, payload any) *Value {
	return &Value{id: id, kind: kind, typ: typ, payload: payload}
}

// Id returns this value's allocator-assigned identity.
func (v *Value) Id() Id { return v.id }

// Kind returns this value's tag.
func (v *Value) Kind() Kind { return v.kind }

// Type returns the declared type of this value (e.g. a var's declared type,
// a literal's own type, a function's signature encoded as a fn type). May be
// nil for auxiliary values (ref, typename) that are not themselves typed.
func (v *Value) Type() *Type { return v.typ }

// SetType replaces this value's declared type.
func (v *Value) SetType(t *Type) { v.typ = t }

// Scope returns this value's member scope, or nil if it has none.
func (v *Value) Scope() *Scope { return v.scope }

// SetScope attaches a member scope to this value (modules, classes,
// interfaces, traits, objects, and the root all carry one).
func (v *Value) SetScope(s *Scope) { v.scope = s }

// Flags returns the raw flag bits.
func (v *Value) Flags() Flags { return v.flags }

// Walked reports whether the current sweep pass has already marked this
// value reachable.
func (v *Value) Walked() bool { return v.flags&FlagWalked != 0 }

// SetWalked sets or clears the walked-during-gc bit.
func (v *Value) SetWalked(b bool) {
	if b {
		v.flags |= FlagWalked
	} else {
		v.flags &^= FlagWalked
	}
}

// AliasSharedScope reports whether this value's scope is also reachable
// through a live alias (spec §9, "Ownership of scopes").
func (v *Value) AliasSharedScope() bool { return v.flags&FlagAliasSharedScope != 0 }

// SetAliasSharedScope sets or clears the alias-shared-scope bit.
func (v *Value) SetAliasSharedScope(b bool) {
	if b {
		v.flags |= FlagAliasSharedScope
	} else {
		v.flags &^= FlagAliasSharedScope
	}
}

// RefCount returns the current runtime reference count.
func (v *Value) RefCount() uint32 { return atomic.LoadUint32(&v.refCount) }

// HostRefCount returns the current host reference count.
func (v *Value) HostRefCount() uint32 { return atomic.LoadUint32(&v.hostRefCount) }

// Retain increments the runtime reference count and returns the new value.
// Called whenever another value (or frame slot) gains an edge to v.
func (v *Value) Retain() uint32 { return atomic.AddUint32(&v.refCount, 1) }

// Release decrements the runtime reference count and returns the new value.
// The caller (pkg/gc) is responsible for freeing v once both counters reach
// zero; Release itself never frees anything.
func (v *Value) Release() uint32 {
	return atomic.AddUint32(&v.refCount, ^uint32(0))
}

// RetainHost increments the host reference count.
func (v *Value) RetainHost() uint32 { return atomic.AddUint32(&v.hostRefCount, 1) }

// ReleaseHost decrements the host reference count.
func (v *Value) ReleaseHost() uint32 {
	return atomic.AddUint32(&v.hostRefCount, ^uint32(0))
}

// IsUnreferenced reports whether both counters are currently zero (spec §3
// invariant: "Reference count + host reference count = 0 ⟹ the value is
// released immediately unless the tracing collector is in progress").
func (v *Value) IsUnreferenced() bool {
	return v.RefCount() == 0 && v.HostRefCount() == 0
}

// QualifiedName renders a best-effort fully-qualified name for this value,
// used in tracebacks (spec §7) and error messages. Modules and classes walk
// their installing scope chain; other kinds fall back to their kind name.
func (v *Value) QualifiedName() string {
	if name, ok := v.payload.(interface{ qualifiedName() string }); ok {
		return name.qualifiedName()
	}

	return "<" + v.kind.String() + ">"
}

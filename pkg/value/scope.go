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

// Access describes the visibility of a scope member (supplemented feature,
// SPEC_FULL.md "Access flags on members", grounded on
// _examples/original_source/slake/value.h). It is consulted by the resolver
// and interpreter to raise Access-violation (spec §7) when a non-public
// member is reached from outside its declaring module/class.
type Access uint8

const (
	// Public members are visible from anywhere a reference can be resolved.
	Public Access = iota
	// Protected members are visible only from within the declaring class (and
	// its subclasses) or module.
	Protected
	// Static members are bound to the defining class/module itself rather
	// than to object instances.
	Static Access = 1 << 2
)

// IsPublic reports whether a carries the Public visibility bit.
func (a Access) IsPublic() bool {
	return a&Protected == 0
}

// IsStatic reports whether a carries the Static bit.
func (a Access) IsStatic() bool {
	return a&Static != 0
}

// Entry is a single named member of a Scope, carrying the access flags it was
// declared with alongside the member Value itself.
type Entry struct {
	Name   string
	Access Access
	Val    *Value
}

// Scope is the name-to-member map owned by a container value (module, class,
// interface, trait, object, or function) — spec §3, "Value ... optional
// member scope (a string → member-value mapping)".
//
// Order is preserved alongside the map so that loading, disassembly and GC
// traversal are deterministic; Go map iteration order is not.
type Scope struct {
	Parent  *Scope
	members map[string]*Entry
	order   []string
	// Shared marks that this scope is also referenced by an alias, meaning
	// destruction of the alias must not free it (spec §9, "Ownership of
	// scopes"). The sweep does not walk through this flag; it only
	// suppresses a double-free on the owning side.
	Shared bool
}

// NewScope constructs an empty scope chained to the given parent (nil for a
// top-level scope, e.g. a module's or the root's).
func NewScope(parent *Scope) *Scope {
	return &Scope{Parent: parent, members: make(map[string]*Entry)}
}

// Define installs a new member in this scope, overwriting any prior entry of
// the same name.
func (s *Scope) Define(name string, access Access, val *Value) {
	if _, exists := s.members[name]; !exists {
		s.order = append(s.order, name)
	}

	s.members[name] = &Entry{Name: name, Access: access, Val: val}
}

// Lookup searches this scope only (no parent chain) for name.
func (s *Scope) Lookup(name string) (*Entry, bool) {
	e, ok := s.members[name]
	return e, ok
}

// LookupChain searches this scope and then each enclosing parent scope in
// turn, implementing the "search outward to the root" rule of spec §4.3(1).
func (s *Scope) LookupChain(name string) (*Entry, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		if e, ok := sc.Lookup(name); ok {
			return e, true
		}
	}

	return nil, false
}

// Names returns the member names of this scope in declaration order.
func (s *Scope) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)

	return out
}

// Entries returns the scope's members in declaration order; used by the
// sweep (to walk every referenced value) and by the disassembler/inspector.
func (s *Scope) Entries() []*Entry {
	out := make([]*Entry, 0, len(s.order))
	for _, n := range s.order {
		out = append(out, s.members[n])
	}

	return out
}

// Len reports the number of members directly defined in this scope.
func (s *Scope) Len() int {
	return len(s.members)
}

// Clone produces a copy of this scope with its own member map; the member
// values themselves and the parent pointer are shared with the original.
func (s *Scope) Clone() *Scope {
	clone := NewScope(s.Parent)

	for _, n := range s.order {
		e := s.members[n]
		clone.Define(e.Name, e.Access, e.Val)
	}

	return clone
}

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

// Package types implements the subtype/assignability/convertibility
// relations of spec §4.5, operating purely over pkg/value's Type and Value
// so that it can sit below both the resolver and the interpreter without
// creating an import cycle. Deferred types are resolved on demand via the
// caller-supplied Resolver.
package types

import "github.com/slake-lang/slake/pkg/value"

// Resolver forces resolution of a deferred type. pkg/resolver.Resolver
// implements this by resolving the type's Deferred reference in its
// DeferredScope and caching the result — see value.Type.Resolve.
type Resolver interface {
	ResolveType(t *value.Type) error
}

func resolve(r Resolver, t *value.Type) *value.Type {
	if t != nil && t.IsDeferred() {
		// Best-effort: a resolution failure degrades to treating the type as
		// still-deferred (callers comparing identity will then simply fail
		// to match, which is the conservative-safe outcome).
		_ = r.ResolveType(t)
	}

	return t
}

// Identical implements spec §4.5 "Identity": tags match and payloads are
// structurally equal; for class/interface/trait/object this compares the
// defining value's pointer identity after forcing deferred resolution.
func Identical(r Resolver, a, b *value.Type) bool {
	a, b = resolve(r, a), resolve(r, b)

	return a.Equal(b)
}

// Implements reports whether class c implements interface iface, directly,
// transitively through an implemented interface's own parents, or via any
// ancestor class (spec §4.5, Implements).
func Implements(r Resolver, c *value.Value, iface *value.Value) bool {
	return implementsVisit(r, c, iface, map[value.Id]bool{})
}

func implementsVisit(r Resolver, c *value.Value, iface *value.Value, seen map[value.Id]bool) bool {
	if c == nil || iface == nil {
		return false
	}

	cls, ok := value.Unwrap(c).AsClass()
	if !ok {
		return false
	}

	for _, it := range cls.Interfaces {
		it = resolve(r, it)
		if it.Def == nil {
			continue
		}

		if it.Def == iface || interfaceExtends(r, it.Def, iface, seen) {
			return true
		}
	}

	if cls.Parent == nil {
		return false
	}

	parent := resolve(r, cls.Parent)
	if parent.Def == nil || seen[parent.Def.Id()] {
		return false
	}

	seen[parent.Def.Id()] = true

	return implementsVisit(r, parent.Def, iface, seen)
}

func interfaceExtends(r Resolver, i *value.Value, target *value.Value, seen map[value.Id]bool) bool {
	if i == target {
		return true
	}

	if seen[i.Id()] {
		return false
	}

	seen[i.Id()] = true

	ip, ok := value.Unwrap(i).AsInterface()
	if !ok {
		return false
	}

	for _, p := range ip.Parents {
		p = resolve(r, p)
		if p.Def == nil {
			continue
		}

		if interfaceExtends(r, p.Def, target, seen) {
			return true
		}
	}

	return false
}

// HasTrait reports whether class c has every member named in trait t's
// scope, matching member kind and signature, and public — and whether every
// trait t itself extends is also satisfied, transitively (spec §4.5,
// HasTrait).
func HasTrait(r Resolver, c *value.Value, t *value.Value) bool {
	return hasTraitVisit(r, c, t, map[value.Id]bool{})
}

func hasTraitVisit(r Resolver, c *value.Value, t *value.Value, seen map[value.Id]bool) bool {
	if t == nil || seen[t.Id()] {
		return true
	}

	seen[t.Id()] = true

	tp, ok := value.Unwrap(t).AsTrait()
	if !ok {
		return false
	}

	if !classSatisfiesTraitScope(c, t) {
		return false
	}

	for _, p := range tp.Parents {
		p = resolve(r, p)
		if p.Def == nil {
			return false
		}

		if !hasTraitVisit(r, c, p.Def, seen) {
			return false
		}
	}

	return true
}

func classSatisfiesTraitScope(c *value.Value, t *value.Value) bool {
	ts := t.Scope()
	if ts == nil {
		return true
	}

	for _, entry := range ts.Entries() {
		if !entry.Access.IsPublic() {
			continue
		}

		cs := c.Scope()
		if cs == nil {
			return false
		}

		have, ok := cs.Lookup(entry.Name)
		if !ok || !have.Access.IsPublic() {
			return false
		}

		if !memberSignatureMatches(have.Val, entry.Val) {
			return false
		}
	}

	return true
}

func memberSignatureMatches(have, want *value.Value) bool {
	if have.Kind() != want.Kind() {
		return false
	}

	switch want.Kind() {
	case value.KindVar:
		hv, _ := have.AsVar()
		wv, _ := want.AsVar()

		return hv.Declared.Equal(wv.Declared)
	case value.KindFn:
		hf, hok := have.AsFn()
		wf, wok := want.AsFn()

		if !hok || !wok {
			return false
		}

		if !hf.Return.Equal(wf.Return) || len(hf.Params) != len(wf.Params) {
			return false
		}

		for i := range hf.Params {
			if !hf.Params[i].Type.Equal(wf.Params[i].Type) {
				return false
			}
		}

		return true
	default:
		return true
	}
}

// Convertible implements spec §4.5: B == A, numeric→numeric, class A
// implements B, class A satisfies trait B, either side is any, or A is none.
// This governs what CAST may legally target; conversions are never implicit.
func Convertible(r Resolver, a, b *value.Type) bool {
	if a == nil || b == nil {
		return true
	}

	a, b = resolve(r, a), resolve(r, b)

	if a.Equal(b) {
		return true
	}

	if a.Tag == value.KindAny || b.Tag == value.KindAny || a.Tag == value.KindNone {
		return true
	}

	if a.Tag.IsNumeric() && b.Tag.IsNumeric() {
		return true
	}

	if a.Tag == value.KindClass && a.Def != nil {
		switch b.Tag {
		case value.KindInterface:
			return Implements(r, a.Def, b.Def)
		case value.KindTrait:
			return HasTrait(r, a.Def, b.Def)
		case value.KindClass:
			return IsSubclass(r, a.Def, b.Def)
		}
	}

	return false
}

// Compatible implements spec §4.5: the slot type accepts a value of the
// given type if the slot is any, the types are equal, the slot is a class
// and the value is a subclass, or the slot is an interface implemented by
// the value's class.
func Compatible(r Resolver, slotType, valType *value.Type) bool {
	if slotType == nil {
		return true
	}

	slotType = resolve(r, slotType)

	if slotType.Tag == value.KindAny {
		return true
	}

	if valType == nil {
		// "none" assigned into any non-any slot is permitted (spec's value
		// model allows a var to hold no value).
		return true
	}

	valType = resolve(r, valType)

	if slotType.Equal(valType) {
		return true
	}

	switch slotType.Tag {
	case value.KindClass:
		return valType.Tag == value.KindClass && valType.Def != nil && slotType.Def != nil &&
			IsSubclass(r, valType.Def, slotType.Def)
	case value.KindInterface:
		return valType.Tag == value.KindClass && valType.Def != nil && slotType.Def != nil &&
			Implements(r, valType.Def, slotType.Def)
	case value.KindTrait:
		return valType.Tag == value.KindClass && valType.Def != nil && slotType.Def != nil &&
			HasTrait(r, valType.Def, slotType.Def)
	case value.KindArray:
		return valType.Tag == value.KindArray && Compatible(r, slotType.Elem, valType.Elem)
	case value.KindMap:
		return valType.Tag == value.KindMap && Compatible(r, slotType.Key, valType.Key) &&
			Compatible(r, slotType.Val, valType.Val)
	default:
		return false
	}
}

// IsSubclass reports whether c is class target or a (transitive) subclass of
// it.
func IsSubclass(r Resolver, c *value.Value, target *value.Value) bool {
	seen := map[value.Id]bool{}

	for cur := c; cur != nil; {
		if cur == target {
			return true
		}

		if seen[cur.Id()] {
			return false
		}

		seen[cur.Id()] = true

		cp, ok := value.Unwrap(cur).AsClass()
		if !ok || cp.Parent == nil {
			return false
		}

		parent := resolve(r, cp.Parent)
		cur = parent.Def
	}

	return false
}

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

// Type is a tagged type descriptor (spec §3, "Type tag"). Composite tags
// carry a payload: array(Elem), map(Key, Val), class/interface/trait/object
// (Def, possibly Deferred), generic_arg(ParamIndex).
//
// Grounded on the teacher's own tagged-descriptor pattern in
// pkg/schema/type.go (a single struct keyed by an enum rather than an
// interface hierarchy per type), adapted to spec §9's "deferred type
// loading" requirement: a class/interface/trait/object type is either
// Resolved (Def != nil) or Deferred (a pending *Value of Kind KindRef,
// resolved lazily on first query).
type Type struct {
	Tag Kind
	// Const marks an assignability restriction on object types (spec §3).
	Const bool
	// Elem is populated when Tag == KindArray.
	Elem *Type
	// Key/Val are populated when Tag == KindMap.
	Key *Type
	Val *Type
	// Def is the defining value for class/interface/trait/object types, once
	// resolved. Nil while Deferred is set.
	Def *Value
	// Deferred holds the unresolved reference naming this type's defining
	// value, until resolution replaces Def and clears this field (spec §9,
	// "Deferred type loading").
	Deferred *Value
	// DeferredScope is the scope resolution of Deferred should start from
	// (ordinarily the enclosing module of the class/interface/trait that
	// declared this type), per spec §4.3(1).
	DeferredScope *Scope
	// ParamIndex is populated when Tag == KindGenericArg.
	ParamIndex uint32
}

// Simple constructs a non-composite type of the given tag (e.g. i32, bool,
// any, none).
func Simple(tag Kind) *Type {
	return &Type{Tag: tag}
}

// ArrayOf constructs an array(elem) type.
func ArrayOf(elem *Type) *Type {
	return &Type{Tag: KindArray, Elem: elem}
}

// MapOf constructs a map(key, val) type.
func MapOf(key, val *Type) *Type {
	return &Type{Tag: KindMap, Key: key, Val: val}
}

// Defined constructs a resolved class/interface/trait/object type around an
// already-loaded defining value.
func Defined(tag Kind, def *Value) *Type {
	return &Type{Tag: tag, Def: def}
}

// DeferredRef constructs an unresolved class/interface/trait/object type
// pending resolution of ref (which must be a Value of Kind KindRef),
// starting resolution from scope.
func DeferredRef(tag Kind, ref *Value, scope *Scope) *Type {
	return &Type{Tag: tag, Deferred: ref, DeferredScope: scope}
}

// GenericArg constructs a generic_arg(index) type, used inside a generic
// template's body prior to instantiation (spec §4.4).
func GenericArg(index uint32) *Type {
	return &Type{Tag: KindGenericArg, ParamIndex: index}
}

// IsDeferred reports whether this type still carries an unresolved
// reference (spec §9, "Deferred type loading").
func (t *Type) IsDeferred() bool {
	return t.Deferred != nil && t.Def == nil
}

// ResolveFn is supplied by the resolver package at runtime wiring time
// (pkg/resolver depends on pkg/value, not vice versa, so the hook is
// injected rather than imported) — see Type.Resolve.
type ResolveFn func(ref *Value, scope *Scope) (*Value, error)

// Resolve forces resolution of a deferred type, caching the result in Def
// and clearing Deferred. It is a no-op if the type is already resolved. The
// resolve callback is supplied by the caller (ordinarily
// resolver.Resolver.ResolveType) so that this leaf package never imports the
// resolver.
func (t *Type) Resolve(resolve ResolveFn) error {
	if !t.IsDeferred() {
		return nil
	}

	def, err := resolve(t.Deferred, t.DeferredScope)
	if err != nil {
		return err
	}

	t.Def = def
	t.Deferred = nil
	t.DeferredScope = nil
	// A resolved class/interface/trait/object type takes its tag from the
	// defining value itself, in case the reference resolved to something
	// whose own kind differs (e.g. an alias to a class resolves through to
	// a class).
	t.Tag = def.Kind()

	return nil
}

// Equal implements the Identity relation of spec §4.5: tags match and
// payloads are structurally equal; for composites this recurses; for
// class/interface/trait/object it compares the defining value's identity
// (assumed already resolved — callers needing deferred-safe comparison
// should call pkg/types.Identical instead, which forces resolution first).
func (t *Type) Equal(o *Type) bool {
	if t == o {
		return true
	}

	if t == nil || o == nil {
		return false
	}

	if t.Tag != o.Tag || t.Const != o.Const {
		return false
	}

	switch t.Tag {
	case KindArray:
		return t.Elem.Equal(o.Elem)
	case KindMap:
		return t.Key.Equal(o.Key) && t.Val.Equal(o.Val)
	case KindClass, KindInterface, KindTrait, KindObject:
		return t.Def == o.Def
	case KindGenericArg:
		return t.ParamIndex == o.ParamIndex
	default:
		return true
	}
}

// String renders a human-readable type name, used in error messages and
// diagnostics.
func (t *Type) String() string {
	if t == nil {
		return "none"
	}

	switch t.Tag {
	case KindArray:
		return t.Elem.String() + "[]"
	case KindMap:
		return "map<" + t.Key.String() + "," + t.Val.String() + ">"
	case KindClass, KindInterface, KindTrait, KindObject:
		if t.Def != nil {
			return t.Def.QualifiedName()
		}

		return "<deferred " + t.Tag.String() + ">"
	case KindGenericArg:
		return "$" + t.Tag.String()
	default:
		return t.Tag.String()
	}
}

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

import "strconv"

// ArrayPayload is the Kind-specific data of a KindArray value: a resizable
// sequence subscripted by AT (spec §4.7).
type ArrayPayload struct {
	Elem  *Type
	Items []*Value
}

// NewArray constructs an array value of the given element type, initially
// holding items.
func NewArray(id Id, elem *Type, items []*Value) *Value {
	return New(id, KindArray, ArrayOf(elem), &ArrayPayload{Elem: elem, Items: items})
}

// AsArray returns this value's ArrayPayload, or (nil, false).
func (v *Value) AsArray() (*ArrayPayload, bool) {
	a, ok := v.payload.(*ArrayPayload)
	return a, ok
}

// MapPayload is the Kind-specific data of a KindMap value: a key/value
// store subscripted by AT (spec §4.7). Keys are compared by the canonical
// string rendering of literal(or reference-identity) keys, since Slake map
// keys are always literal or reference-typed values rather than composites.
type MapPayload struct {
	Key, Val *Type
	entries  map[string]mapEntry
	order    []string
}

type mapEntry struct {
	key *Value
	val *Value
}

// NewMap constructs an empty map value of the given key/value types.
func NewMap(id Id, key, val *Type) *Value {
	return New(id, KindMap, MapOf(key, val), &MapPayload{Key: key, Val: val, entries: map[string]mapEntry{}})
}

// AsMap returns this value's MapPayload, or (nil, false).
func (v *Value) AsMap() (*MapPayload, bool) {
	m, ok := v.payload.(*MapPayload)
	return m, ok
}

// mapKeyString renders key as a canonical lookup string: integer, string,
// char/wchar and bool keys render their underlying value; every other kind
// (objects/classes/etc., and also floats, wstrings and none) renders its
// allocator identity, so such keys compare by identity, not structure.
func mapKeyString(key *Value) string {
	key = Unwrap(key)

	switch {
	case key.Kind().IsSignedInteger():
		return strconv.FormatInt(key.Int64(), 10)
	case key.Kind().IsUnsignedInteger():
		return strconv.FormatUint(key.Uint64(), 10)
	case key.Kind() == KindString:
		return "s:" + key.Str()
	case key.Kind() == KindChar || key.Kind() == KindWChar:
		return "c:" + string(key.Rune())
	case key.Kind() == KindBool:
		return strconv.FormatBool(key.Bool())
	default:
		return "#" + strconv.FormatUint(uint64(key.Id()), 10)
	}
}

// Get looks up key, returning (nil, false) if absent.
func (m *MapPayload) Get(key *Value) (*Value, bool) {
	e, ok := m.entries[mapKeyString(key)]
	if !ok {
		return nil, false
	}

	return e.val, true
}

// Set installs or overwrites the value stored under key.
func (m *MapPayload) Set(key, val *Value) {
	ks := mapKeyString(key)

	if _, exists := m.entries[ks]; !exists {
		m.order = append(m.order, ks)
	}

	m.entries[ks] = mapEntry{key: key, val: val}
}

// MapEntryView is one (key, value) pair of a map's live contents.
type MapEntryView struct {
	Key *Value
	Val *Value
}

// Entries returns the map's (key, value) pairs in insertion order, used by
// the sweep to walk every referenced value.
func (m *MapPayload) Entries() []MapEntryView {
	out := make([]MapEntryView, 0, len(m.order))

	for _, ks := range m.order {
		e := m.entries[ks]
		out = append(out, MapEntryView{Key: e.key, Val: e.val})
	}

	return out
}

// Len reports the number of entries in the map.
func (m *MapPayload) Len() int { return len(m.entries) }

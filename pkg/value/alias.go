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

// AliasPayload is the Kind-specific data of a KindAlias value: a weak
// (non-owning) pointer to the source value (spec §3, §9 "Ownership of
// scopes" — aliasing a container flags its scope as shared rather than
// retaining it, so destruction of the alias never frees the pointee).
type AliasPayload struct {
	Target *Value
}

// NewAlias constructs an alias value pointing at target. If target owns a
// scope, that scope is flagged as alias-shared so the sweep knows not to
// double-account for it.
func NewAlias(id Id, target *Value) *Value {
	if s := Unwrap(target).Scope(); s != nil {
		s.Shared = true
		Unwrap(target).SetAliasSharedScope(true)
	}

	return New(id, KindAlias, target.Type(), &AliasPayload{Target: target})
}

// AsAlias returns this value's AliasPayload, or (nil, false) if it is not an
// alias.
func (v *Value) AsAlias() (*AliasPayload, bool) {
	a, ok := v.payload.(*AliasPayload)
	return a, ok
}

// Unwrap traverses a chain of aliases down to the first non-alias value
// (spec §3 invariant: "An alias never points to another alias after
// unwrap"; spec §8 idempotence property unwrap(alias→alias→…→v) == v).
func Unwrap(v *Value) *Value {
	for {
		a, ok := v.AsAlias()
		if !ok {
			return v
		}

		v = a.Target
	}
}

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

// TypeNamePayload is the Kind-specific data of a KindTypeName value: a type
// descriptor carried as a first-class runtime value, produced by TYPEOF and
// consumed as an instruction operand encoding a type name (spec §3, §4.7).
type TypeNamePayload struct {
	Named *Type
}

// NewTypeName wraps t as a first-class typename value.
func NewTypeName(id Id, t *Type) *Value {
	return New(id, KindTypeName, nil, &TypeNamePayload{Named: t})
}

// AsTypeName returns this value's TypeNamePayload, or (nil, false).
func (v *Value) AsTypeName() (*TypeNamePayload, bool) {
	t, ok := v.payload.(*TypeNamePayload)
	return t, ok
}

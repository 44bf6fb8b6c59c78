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

// VarPayload is the Kind-specific data of a KindVar value: a slot in a
// scope, holding a value compatible with its declared type (spec §3
// invariant: "A var holds only values whose type is compatible with its
// declared type").
type VarPayload struct {
	Declared *Type
	Held     *Value
}

// NewVariable constructs a var slot of the given declared type, initially
// holding nil (spec's "none").
func NewVariable(id Id, declared *Type) *Value {
	return New(id, KindVar, declared, &VarPayload{Declared: declared})
}

// AsVar returns this value's VarPayload, or (nil, false) if it is not a var.
func (v *Value) AsVar() (*VarPayload, bool) {
	p, ok := v.payload.(*VarPayload)
	return p, ok
}

// Held returns the value currently stored in this var slot, or nil.
func (v *Value) Held() *Value {
	p, ok := v.AsVar()
	if !ok {
		return nil
	}

	return p.Held
}

// SetHeld stores val into this var slot without any compatibility check;
// callers (ordinarily the interpreter's STORE handler) are expected to have
// already checked Compatible(v.Declared, val.Type()) per spec §4.5.
func (v *Value) SetHeld(val *Value) {
	p, ok := v.AsVar()
	if !ok {
		return
	}

	p.Held = val
}

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

// SlotRefPayload is the shared shape of the three slot-reference operand
// kinds (lvar_ref/reg_ref/arg_ref): an index (or register id) plus the
// "dereference" bit distinguishing "the slot" from "the slot's current held
// value" (spec §4.1, §4.7).
type SlotRefPayload struct {
	Index uint32
	Reg   Register
	Deref bool
}

// NewLVarRef constructs a local-variable-slot operand.
func NewLVarRef(id Id, index uint32, deref bool) *Value {
	return New(id, KindLVarRef, nil, &SlotRefPayload{Index: index, Deref: deref})
}

// NewArgRef constructs an argument-slot operand.
func NewArgRef(id Id, index uint32, deref bool) *Value {
	return New(id, KindArgRef, nil, &SlotRefPayload{Index: index, Deref: deref})
}

// NewRegRef constructs a register-slot operand.
func NewRegRef(id Id, reg Register, deref bool) *Value {
	return New(id, KindRegRef, nil, &SlotRefPayload{Reg: reg, Deref: deref})
}

// AsSlotRef returns this value's SlotRefPayload, or (nil, false) if this is
// not one of the three slot-reference kinds.
func (v *Value) AsSlotRef() (*SlotRefPayload, bool) {
	s, ok := v.payload.(*SlotRefPayload)
	return s, ok
}

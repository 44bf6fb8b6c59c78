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
package interp

import "github.com/slake-lang/slake/pkg/value"

// evalOperand implements spec §4.7's "Operand semantics": a literal
// evaluates to itself; a register/local/arg reference evaluates to the
// slot (undereferenced) or its currently held value (dereferenced); a
// reference value resolves through the resolver starting at this frame's
// enclosing scope.
func (i *Interp) evalOperand(f *Fiber, cur *MajorFrame, v *value.Value) (*value.Value, error) {
	if v == nil {
		return nil, nil
	}

	switch v.Kind() {
	case value.KindLVarRef, value.KindArgRef, value.KindRegRef:
		sp, _ := v.AsSlotRef()

		slot, err := i.readSlot(f, cur, v)
		if err != nil {
			return nil, err
		}

		if sp.Deref && slot != nil && slot.Kind() == value.KindVar {
			return slot.Held(), nil
		}

		return slot, nil
	case value.KindRef:
		return i.resolveRefOperand(cur, v)
	default:
		return v, nil
	}
}

// readSlot returns the value currently occupying a slot-ref operand,
// ignoring its dereference bit: the var object itself for a local, or the
// raw stored value for a register/argument.
func (i *Interp) readSlot(f *Fiber, cur *MajorFrame, v *value.Value) (*value.Value, error) {
	sp, ok := v.AsSlotRef()
	if !ok {
		return nil, newError(ErrInvalidOperands, "operand is not a slot reference")
	}

	switch v.Kind() {
	case value.KindLVarRef:
		return i.local(cur, sp.Index)
	case value.KindArgRef:
		return i.arg(cur, sp.Index)
	case value.KindRegRef:
		return f.Registers[sp.Reg], nil
	default:
		return nil, newError(ErrInvalidOperands, "unsupported slot reference kind %s", v.Kind())
	}
}

// writeSlot stores val into a slot-ref operand directly: SetHeld on a
// local's var object, or a plain overwrite for a register/argument.
func (i *Interp) writeSlot(f *Fiber, cur *MajorFrame, v *value.Value, val *value.Value) error {
	sp, ok := v.AsSlotRef()
	if !ok {
		return newError(ErrInvalidOperands, "operand is not a slot reference")
	}

	switch v.Kind() {
	case value.KindLVarRef:
		slot, err := i.local(cur, sp.Index)
		if err != nil {
			return err
		}

		slot.SetHeld(val)
		if val != nil {
			i.heap.Retain(val)
		}

		return nil
	case value.KindArgRef:
		return i.setArg(cur, sp.Index, val)
	case value.KindRegRef:
		f.Registers[sp.Reg] = val
		return nil
	default:
		return newError(ErrInvalidOperands, "unsupported slot reference kind %s", v.Kind())
	}
}

// derefSlot reads a slot-ref operand and forces dereference regardless of
// its encoded bit (LVALUE's explicit job, spec §4.7: "LVALUE r, varref
// (dereference)").
func (i *Interp) derefSlot(f *Fiber, cur *MajorFrame, v *value.Value) (*value.Value, error) {
	slot, err := i.readSlot(f, cur, v)
	if err != nil {
		return nil, err
	}

	if slot != nil && slot.Kind() == value.KindVar {
		return slot.Held(), nil
	}

	return slot, nil
}

// storeOperand implements STORE's destination-side rule: dst must name a
// slot (undereferenced); "STORE value-of-reg, x" is invalid (spec §4.7).
func (i *Interp) storeOperand(f *Fiber, cur *MajorFrame, dst *value.Value, val *value.Value) error {
	if dst == nil || !dst.Kind().IsSlotRef() {
		return newError(ErrInvalidOperands, "STORE destination must be a slot reference")
	}

	sp, _ := dst.AsSlotRef()
	if sp.Deref {
		return newError(ErrInvalidOperands, "STORE destination must not be dereferenced")
	}

	return i.writeSlot(f, cur, dst, val)
}

func (i *Interp) local(cur *MajorFrame, index uint32) (*value.Value, error) {
	if int(index) >= len(cur.Locals) {
		return nil, newError(ErrFrameBoundary, "local variable index %d out of range", index)
	}

	return cur.Locals[index], nil
}

func (i *Interp) arg(cur *MajorFrame, index uint32) (*value.Value, error) {
	if int(index) >= len(cur.Args) {
		return nil, newError(ErrFrameBoundary, "argument index %d out of range", index)
	}

	return cur.Args[index], nil
}

func (i *Interp) setArg(cur *MajorFrame, index uint32, val *value.Value) error {
	if int(index) >= len(cur.Args) {
		return newError(ErrFrameBoundary, "argument index %d out of range", index)
	}

	cur.Args[index] = val

	return nil
}

// resolveRefOperand resolves a KindRef operand starting from cur's
// enclosing scope (spec §4.3(1), "otherwise start at the current
// function's enclosing scope").
func (i *Interp) resolveRefOperand(cur *MajorFrame, ref *value.Value) (*value.Value, error) {
	rp, ok := ref.AsRef()
	if !ok {
		return nil, newError(ErrInvalidOperands, "operand is not a reference")
	}

	v, err := i.res.Resolve(nil, cur, rp)
	if err != nil {
		return nil, wrapResolveError(err)
	}

	return v, nil
}

// resolveRefRelative resolves a KindRef operand relative to base's own
// scope (RLOAD's "resolve ref relative to base").
func (i *Interp) resolveRefRelative(cur *MajorFrame, base *value.Value, ref *value.Value) (*value.Value, error) {
	rp, ok := ref.AsRef()
	if !ok {
		return nil, newError(ErrInvalidOperands, "operand is not a reference")
	}

	scope := value.Unwrap(base).Scope()
	if scope == nil {
		return nil, newError(ErrNullReference, "RLOAD base has no member scope")
	}

	v, err := i.res.Resolve(scope, cur, rp)
	if err != nil {
		return nil, wrapResolveError(err)
	}

	return v, nil
}

func wrapResolveError(err error) error {
	return &RuntimeError{Kind: ErrNotFound, Message: err.Error()}
}

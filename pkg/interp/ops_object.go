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

import (
	"github.com/slake-lang/slake/pkg/types"
	"github.com/slake-lang/slake/pkg/value"
)

// execNew implements NEW dst, type: allocates a class instance, copies the
// class's member scope onto it, and invokes its `new` constructor (if any)
// with the pending argument stack (spec §4.7, §3 "object" row).
func (i *Interp) execNew(f *Fiber, cur *MajorFrame, insn value.Instruction) error {
	tn, ok := insn.Operands[1].AsTypeName()
	if !ok {
		return newError(ErrInvalidOperands, "NEW operand must be a type name")
	}

	if err := i.res.ResolveType(tn.Named); err != nil {
		return wrapResolveError(err)
	}

	if tn.Named.Tag != value.KindClass || tn.Named.Def == nil {
		return newError(ErrInvalidOperands, "NEW requires a class type")
	}

	class := tn.Named.Def

	obj := value.NewObject(i.heap.NextID(), class)
	i.heap.Track(obj)

	if cs := class.Scope(); cs != nil {
		for _, e := range cs.Entries() {
			obj.Scope().Define(e.Name, e.Access, e.Val)
		}
	}

	args := i.popArgs(cur)

	if entry, ok := obj.Scope().Lookup("new"); ok {
		ctor := value.Unwrap(entry.Val)
		if ctor.IsCallable() {
			if _, err := i.CallSync(ctor, obj, args); err != nil {
				return err
			}
		}
	}

	return i.storeOperand(f, cur, insn.Operands[0], obj)
}

// execCast implements CAST dst, type, v: a checked conversion (spec §4.7,
// §4.5 Convertible).
func (i *Interp) execCast(f *Fiber, cur *MajorFrame, insn value.Instruction) error {
	tn, ok := insn.Operands[1].AsTypeName()
	if !ok {
		return newError(ErrInvalidOperands, "CAST operand must be a type name")
	}

	v, err := i.evalOperand(f, cur, insn.Operands[2])
	if err != nil {
		return err
	}

	if err := i.res.ResolveType(tn.Named); err != nil {
		return wrapResolveError(err)
	}

	if !types.Convertible(i.res, v.Type(), tn.Named) {
		return newError(ErrIncompatibleType, "cannot convert %s to %s", v.Type(), tn.Named)
	}

	result, err := i.convert(v, tn.Named)
	if err != nil {
		return err
	}

	return i.storeOperand(f, cur, insn.Operands[0], result)
}

// convert performs the representation change Convertible already approved:
// a same-kind conversion is a no-op (CAST(T, CAST(T, x)) == CAST(T, x),
// spec §8), a numeric conversion narrows/widens the stored value, anything
// else (class/interface/trait widening) just re-tags the existing value.
func (i *Interp) convert(v *value.Value, t *value.Type) (*value.Value, error) {
	if v.Kind() == t.Tag {
		return v, nil
	}

	if v.Kind().IsNumeric() && t.Tag.IsNumeric() {
		switch {
		case t.Tag.IsFloat():
			return i.newNumeric(t.Tag, 0, 0, asFloat(v)), nil
		case t.Tag.IsSignedInteger():
			return i.newNumeric(t.Tag, asSigned(v), 0, 0), nil
		default:
			return i.newNumeric(t.Tag, 0, asUnsigned(v), 0), nil
		}
	}

	return v, nil
}

// execTypeof implements TYPEOF dst, v: yields a type-name value (spec
// §4.7).
func (i *Interp) execTypeof(f *Fiber, cur *MajorFrame, insn value.Instruction) error {
	v, err := i.evalOperand(f, cur, insn.Operands[1])
	if err != nil {
		return err
	}

	t := v.Type()
	if t == nil {
		t = value.Simple(v.Kind())
	}

	tn := value.NewTypeName(i.heap.NextID(), t)
	i.heap.Track(tn)

	return i.storeOperand(f, cur, insn.Operands[0], tn)
}

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
	"github.com/slake-lang/slake/pkg/opcode"
	"github.com/slake-lang/slake/pkg/value"
)

// execData implements LOAD/RLOAD/STORE/LVAR/LVALUE/SWAP (spec §4.7, "Data
// movement").
func (i *Interp) execData(f *Fiber, cur *MajorFrame, insn value.Instruction) error {
	switch insn.Op {
	case opcode.LOAD:
		v, err := i.resolveRefOperand(cur, insn.Operands[1])
		if err != nil {
			return err
		}

		return i.storeOperand(f, cur, insn.Operands[0], v)
	case opcode.RLOAD:
		base, err := i.evalOperand(f, cur, insn.Operands[1])
		if err != nil {
			return err
		}

		v, err := i.resolveRefRelative(cur, base, insn.Operands[2])
		if err != nil {
			return err
		}

		return i.storeOperand(f, cur, insn.Operands[0], v)
	case opcode.STORE:
		v, err := i.evalOperand(f, cur, insn.Operands[1])
		if err != nil {
			return err
		}

		return i.storeOperand(f, cur, insn.Operands[0], v)
	case opcode.LVAR:
		tn, ok := insn.Operands[0].AsTypeName()
		if !ok {
			return newError(ErrInvalidOperands, "LVAR operand must be a type name")
		}

		slot := value.NewVariable(i.heap.NextID(), tn.Named)
		i.heap.Track(slot)
		cur.Locals = append(cur.Locals, slot)

		return nil
	case opcode.LVALUE:
		v, err := i.derefSlot(f, cur, insn.Operands[1])
		if err != nil {
			return err
		}

		return i.storeOperand(f, cur, insn.Operands[0], v)
	case opcode.SWAP:
		a, err := i.readSlot(f, cur, insn.Operands[0])
		if err != nil {
			return err
		}

		b, err := i.readSlot(f, cur, insn.Operands[1])
		if err != nil {
			return err
		}

		if err := i.writeSlot(f, cur, insn.Operands[0], b); err != nil {
			return err
		}

		return i.writeSlot(f, cur, insn.Operands[1], a)
	default:
		return newError(ErrInvalidOpcode, "execData: unhandled opcode %s", insn.Op)
	}
}

// execControl implements JMP/JT/JF (spec §4.7, "Control").
func (i *Interp) execControl(f *Fiber, cur *MajorFrame, insn value.Instruction) error {
	target, err := i.evalOperand(f, cur, insn.Operands[0])
	if err != nil {
		return err
	}

	offset := uint32(asUnsigned(target))

	switch insn.Op {
	case opcode.JMP:
		cur.PC = offset
		return nil
	case opcode.JT, opcode.JF:
		cond, err := i.evalOperand(f, cur, insn.Operands[1])
		if err != nil {
			return err
		}

		if cond == nil || cond.Kind() != value.KindBool {
			return newError(ErrInvalidOperands, "%s condition must be a bool", insn.Op)
		}

		if (insn.Op == opcode.JT) == cond.Bool() {
			cur.PC = offset
		}

		return nil
	default:
		return newError(ErrInvalidOpcode, "execControl: unhandled opcode %s", insn.Op)
	}
}

// execFrameOp implements ENTER/LEAVE (spec §4.7, "Frame").
func (i *Interp) execFrameOp(f *Fiber, cur *MajorFrame, insn value.Instruction) error {
	switch insn.Op {
	case opcode.ENTER:
		cur.pushMinor()
		return nil
	case opcode.LEAVE:
		minor := cur.popMinor()
		if minor != nil && minor.UnwindExit != nil && cur.excepting != nil {
			// Popping a handler scope while an exception is still in flight
			// re-raises it in the enclosing scope (spec §4.7, "LEAVE ...
			// re-raise in-flight exception if any").
			return i.raise(f, cur, cur.excepting)
		}

		return nil
	default:
		return newError(ErrInvalidOpcode, "execFrameOp: unhandled opcode %s", insn.Op)
	}
}

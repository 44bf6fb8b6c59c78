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
	"math"

	"github.com/slake-lang/slake/pkg/opcode"
	"github.com/slake-lang/slake/pkg/value"
)

// execArith implements the arithmetic/logic opcode group (spec §4.7).
func (i *Interp) execArith(f *Fiber, cur *MajorFrame, insn value.Instruction) error {
	switch insn.Op {
	case opcode.ADD, opcode.SUB, opcode.MUL, opcode.DIV, opcode.MOD,
		opcode.AND, opcode.OR, opcode.XOR, opcode.LSH, opcode.RSH:
		return i.binaryArith(f, cur, insn)
	case opcode.LAND, opcode.LOR:
		return i.binaryLogic(f, cur, insn)
	case opcode.NEG, opcode.NOT, opcode.REV:
		return i.unaryArith(f, cur, insn)
	case opcode.INCF, opcode.INCB, opcode.DECF, opcode.DECB:
		return i.incDec(f, cur, insn)
	default:
		return newError(ErrInvalidOpcode, "execArith: unhandled opcode %s", insn.Op)
	}
}

func (i *Interp) binaryArith(f *Fiber, cur *MajorFrame, insn value.Instruction) error {
	a, err := i.evalOperand(f, cur, insn.Operands[1])
	if err != nil {
		return err
	}

	b, err := i.evalOperand(f, cur, insn.Operands[2])
	if err != nil {
		return err
	}

	if a.Kind() != b.Kind() || !a.Kind().IsNumeric() {
		return newError(ErrMismatchedType, "%s requires two operands of the same numeric kind", insn.Op)
	}

	var result *value.Value

	switch {
	case a.Kind().IsFloat():
		r, err := floatOp(insn.Op, asFloat(a), asFloat(b))
		if err != nil {
			return err
		}

		result = i.newNumeric(a.Kind(), 0, 0, r)
	case a.Kind().IsSignedInteger():
		r, err := signedOp(insn.Op, asSigned(a), asSigned(b))
		if err != nil {
			return err
		}

		result = i.newNumeric(a.Kind(), r, 0, 0)
	default:
		r, err := unsignedOp(insn.Op, asUnsigned(a), asUnsigned(b))
		if err != nil {
			return err
		}

		result = i.newNumeric(a.Kind(), 0, r, 0)
	}

	return i.storeOperand(f, cur, insn.Operands[0], result)
}

func floatOp(op opcode.Opcode, a, b float64) (float64, error) {
	switch op {
	case opcode.ADD:
		return a + b, nil
	case opcode.SUB:
		return a - b, nil
	case opcode.MUL:
		return a * b, nil
	case opcode.DIV:
		if b == 0 {
			return 0, newError(ErrInvalidOperands, "division by zero")
		}

		return a / b, nil
	case opcode.MOD:
		if b == 0 {
			return 0, newError(ErrInvalidOperands, "division by zero")
		}

		return math.Mod(a, b), nil
	default:
		return 0, newError(ErrInvalidOperands, "%s is not defined over floating-point operands", op)
	}
}

func signedOp(op opcode.Opcode, a, b int64) (int64, error) {
	switch op {
	case opcode.ADD:
		return a + b, nil
	case opcode.SUB:
		return a - b, nil
	case opcode.MUL:
		return a * b, nil
	case opcode.DIV:
		if b == 0 {
			return 0, newError(ErrInvalidOperands, "division by zero")
		}

		return a / b, nil
	case opcode.MOD:
		if b == 0 {
			return 0, newError(ErrInvalidOperands, "division by zero")
		}

		return a % b, nil
	case opcode.AND:
		return a & b, nil
	case opcode.OR:
		return a | b, nil
	case opcode.XOR:
		return a ^ b, nil
	case opcode.LSH:
		return a << uint(b), nil
	case opcode.RSH:
		return a >> uint(b), nil
	default:
		return 0, newError(ErrInvalidOpcode, "signedOp: unhandled opcode %s", op)
	}
}

func unsignedOp(op opcode.Opcode, a, b uint64) (uint64, error) {
	switch op {
	case opcode.ADD:
		return a + b, nil
	case opcode.SUB:
		return a - b, nil
	case opcode.MUL:
		return a * b, nil
	case opcode.DIV:
		if b == 0 {
			return 0, newError(ErrInvalidOperands, "division by zero")
		}

		return a / b, nil
	case opcode.MOD:
		if b == 0 {
			return 0, newError(ErrInvalidOperands, "division by zero")
		}

		return a % b, nil
	case opcode.AND:
		return a & b, nil
	case opcode.OR:
		return a | b, nil
	case opcode.XOR:
		return a ^ b, nil
	case opcode.LSH:
		return a << b, nil
	case opcode.RSH:
		return a >> b, nil
	default:
		return 0, newError(ErrInvalidOpcode, "unsignedOp: unhandled opcode %s", op)
	}
}

func (i *Interp) binaryLogic(f *Fiber, cur *MajorFrame, insn value.Instruction) error {
	a, err := i.evalOperand(f, cur, insn.Operands[1])
	if err != nil {
		return err
	}

	b, err := i.evalOperand(f, cur, insn.Operands[2])
	if err != nil {
		return err
	}

	if a.Kind() != value.KindBool || b.Kind() != value.KindBool {
		return newError(ErrMismatchedType, "%s requires two bool operands", insn.Op)
	}

	var r bool

	if insn.Op == opcode.LAND {
		r = a.Bool() && b.Bool()
	} else {
		r = a.Bool() || b.Bool()
	}

	return i.storeOperand(f, cur, insn.Operands[0], i.newBool(r))
}

func (i *Interp) unaryArith(f *Fiber, cur *MajorFrame, insn value.Instruction) error {
	a, err := i.evalOperand(f, cur, insn.Operands[1])
	if err != nil {
		return err
	}

	var result *value.Value

	switch insn.Op {
	case opcode.NEG:
		switch {
		case a.Kind().IsFloat():
			result = i.newNumeric(a.Kind(), 0, 0, -asFloat(a))
		case a.Kind().IsSignedInteger():
			result = i.newNumeric(a.Kind(), -asSigned(a), 0, 0)
		case a.Kind().IsUnsignedInteger():
			result = i.newNumeric(a.Kind(), 0, -asUnsigned(a), 0)
		default:
			return newError(ErrMismatchedType, "NEG requires a numeric operand")
		}
	case opcode.NOT:
		if a.Kind() != value.KindBool {
			return newError(ErrMismatchedType, "NOT requires a bool operand")
		}

		result = i.newBool(!a.Bool())
	case opcode.REV:
		if !a.Kind().IsInteger() {
			return newError(ErrMismatchedType, "REV requires an integer operand")
		}

		if a.Kind().IsSignedInteger() {
			result = i.newNumeric(a.Kind(), ^asSigned(a), 0, 0)
		} else {
			result = i.newNumeric(a.Kind(), 0, ^asUnsigned(a), 0)
		}
	default:
		return newError(ErrInvalidOpcode, "unaryArith: unhandled opcode %s", insn.Op)
	}

	return i.storeOperand(f, cur, insn.Operands[0], result)
}

// incDec implements INCF/INCB/DECF/DECB: dst, varref. INCF/DECF are
// pre-increment/decrement (the new value is both stored back and
// returned); INCB/DECB are post-increment/decrement (the prior value is
// returned, the new one stored back) — spec §4.7 names only that these
// "take a variable reference"; the forward/backward naming is read here as
// pre/post per the teacher's own INC/DEC opcode pairing convention.
func (i *Interp) incDec(f *Fiber, cur *MajorFrame, insn value.Instruction) error {
	ref := insn.Operands[1]

	old, err := i.derefSlot(f, cur, ref)
	if err != nil {
		return err
	}

	if !old.Kind().IsNumeric() {
		return newError(ErrMismatchedType, "%s requires a numeric variable", insn.Op)
	}

	delta := int64(1)
	if insn.Op == opcode.DECF || insn.Op == opcode.DECB {
		delta = -1
	}

	var updated *value.Value

	switch {
	case old.Kind().IsFloat():
		updated = i.newNumeric(old.Kind(), 0, 0, asFloat(old)+float64(delta))
	case old.Kind().IsSignedInteger():
		updated = i.newNumeric(old.Kind(), asSigned(old)+delta, 0, 0)
	default:
		updated = i.newNumeric(old.Kind(), 0, uint64(int64(asUnsigned(old))+delta), 0)
	}

	if err := i.writeSlot(f, cur, ref, updated); err != nil {
		return err
	}

	result := updated
	if insn.Op == opcode.INCB || insn.Op == opcode.DECB {
		result = old
	}

	return i.storeOperand(f, cur, insn.Operands[0], result)
}

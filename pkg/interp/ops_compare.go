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

// execCompare implements EQ/NEQ/LT/GT/LTEQ/GTEQ (value-level) and SEQ/SNEQ
// (strict, identity-based for reference types) — spec §4.7.
func (i *Interp) execCompare(f *Fiber, cur *MajorFrame, insn value.Instruction) error {
	a, err := i.evalOperand(f, cur, insn.Operands[1])
	if err != nil {
		return err
	}

	b, err := i.evalOperand(f, cur, insn.Operands[2])
	if err != nil {
		return err
	}

	var r bool

	switch insn.Op {
	case opcode.SEQ:
		r = identical(a, b)
	case opcode.SNEQ:
		r = !identical(a, b)
	default:
		r, err = valueCompare(insn.Op, a, b)
		if err != nil {
			return err
		}
	}

	return i.storeOperand(f, cur, insn.Operands[0], i.newBool(r))
}

// identical implements SEQ/SNEQ: for reference kinds, pointer identity
// after alias-unwrap; for literal kinds, value equality.
func identical(a, b *value.Value) bool {
	if a == nil || b == nil {
		return a == b
	}

	if a.Kind().IsReference() || b.Kind().IsReference() {
		return value.Unwrap(a) == value.Unwrap(b)
	}

	eq, err := valueCompare(opcode.EQ, a, b)
	return err == nil && eq
}

func valueCompare(op opcode.Opcode, a, b *value.Value) (bool, error) {
	switch {
	case a.Kind() == value.KindString && b.Kind() == value.KindString:
		return stringCompare(op, a.Str(), b.Str())
	case a.Kind() == value.KindBool && b.Kind() == value.KindBool:
		return boolCompare(op, a.Bool(), b.Bool())
	case a.Kind().IsNumeric() && b.Kind().IsNumeric():
		return numericCompare(op, a, b)
	default:
		switch op {
		case opcode.EQ:
			return value.Unwrap(a) == value.Unwrap(b), nil
		case opcode.NEQ:
			return value.Unwrap(a) != value.Unwrap(b), nil
		default:
			return false, newError(ErrInvalidOperands, "%s is not defined for %s/%s", op, a.Kind(), b.Kind())
		}
	}
}

func numericCompare(op opcode.Opcode, a, b *value.Value) (bool, error) {
	if a.Kind().IsFloat() || b.Kind().IsFloat() {
		return orderedCompare(op, asFloat(a), asFloat(b))
	}

	if a.Kind().IsSignedInteger() || b.Kind().IsSignedInteger() {
		return orderedCompare(op, asSigned(a), asSigned(b))
	}

	return orderedCompare(op, asUnsigned(a), asUnsigned(b))
}

type ordered interface {
	~int64 | ~uint64 | ~float64 | ~string
}

func orderedCompare[T ordered](op opcode.Opcode, a, b T) (bool, error) {
	switch op {
	case opcode.EQ:
		return a == b, nil
	case opcode.NEQ:
		return a != b, nil
	case opcode.LT:
		return a < b, nil
	case opcode.GT:
		return a > b, nil
	case opcode.LTEQ:
		return a <= b, nil
	case opcode.GTEQ:
		return a >= b, nil
	default:
		return false, newError(ErrInvalidOpcode, "orderedCompare: unhandled opcode %s", op)
	}
}

func stringCompare(op opcode.Opcode, a, b string) (bool, error) {
	return orderedCompare(op, a, b)
}

func boolCompare(op opcode.Opcode, a, b bool) (bool, error) {
	switch op {
	case opcode.EQ:
		return a == b, nil
	case opcode.NEQ:
		return a != b, nil
	default:
		return false, newError(ErrInvalidOperands, "%s is not defined over bool operands", op)
	}
}

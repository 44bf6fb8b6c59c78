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

// execYield implements YIELD v: stores v in the fiber's result slot and
// suspends (spec §4.7, §5).
func (i *Interp) execYield(f *Fiber, cur *MajorFrame, insn value.Instruction) (bool, error) {
	v, err := i.evalOperand(f, cur, insn.Operands[0])
	if err != nil {
		return false, err
	}

	f.result = v

	return true, nil
}

// execAwait implements AWAIT ctx: blocks until the named fiber's done flag
// is set, or returns immediately if it already is (spec §4.7, §8 scenario
// "AWAIT on a done fiber returns the stored result immediately").
func (i *Interp) execAwait(f *Fiber, cur *MajorFrame, insn value.Instruction) (bool, error) {
	ctxVal, err := i.evalOperand(f, cur, insn.Operands[0])
	if err != nil {
		return false, err
	}

	cp, ok := value.Unwrap(ctxVal).AsContext()
	if !ok {
		return false, newError(ErrInvalidOperands, "AWAIT operand must be a context value")
	}

	if cp.Fiber.IsDone() {
		f.Registers[value.RR] = cp.Fiber.Result()
		return false, nil
	}

	awaited, ok := cp.Fiber.(*Fiber)
	if !ok {
		return false, newError(ErrInvalidOperands, "AWAIT target is not a native fiber")
	}

	f.awaiting = awaited

	return true, nil
}

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

// execPushxh implements PUSHXH: registers a handler offset in the minor
// frame currently open in cur (spec §4.7).
func (i *Interp) execPushxh(f *Fiber, cur *MajorFrame, insn value.Instruction) error {
	minor := cur.currentMinor()
	if minor == nil {
		return newError(ErrInvalidOperands, "PUSHXH outside an ENTER scope")
	}

	target, err := i.evalOperand(f, cur, insn.Operands[0])
	if err != nil {
		return err
	}

	minor.Handlers = append(minor.Handlers, uint32(asUnsigned(target)))

	return nil
}

// execThrow implements THROW: raises the evaluated operand (spec §4.7,
// "Exception model").
func (i *Interp) execThrow(f *Fiber, cur *MajorFrame, insn value.Instruction) error {
	v, err := i.evalOperand(f, cur, insn.Operands[0])
	if err != nil {
		return err
	}

	return i.raise(f, cur, v)
}

// execLexcept implements LEXCEPT: loads the currently-caught exception
// (RXCPT) into dst.
func (i *Interp) execLexcept(f *Fiber, cur *MajorFrame, insn value.Instruction) error {
	return i.storeOperand(f, cur, insn.Operands[0], f.Registers[value.RXCPT])
}

// raise implements THROW's search-and-unwind: try the current major
// frame's minor-frame stack top-down for a registered handler; failing
// that, run each minor frame's unwind-exit cleanup once before popping it;
// failing that in every frame up the call stack, the fiber fails with
// uncaught-exception (spec §4.7, §7).
func (i *Interp) raise(f *Fiber, cur *MajorFrame, excVal *value.Value) error {
	for {
		minor := cur.currentMinor()
		if minor == nil {
			if len(f.Majors) <= 1 {
				return &RuntimeError{Kind: ErrUncaughtException, Message: "uncaught exception", Thrown: excVal}
			}

			i.releaseFrame(cur)
			f.Majors = f.Majors[:len(f.Majors)-1]
			cur = f.current()

			continue
		}

		if len(minor.Handlers) > 0 {
			h := minor.Handlers[len(minor.Handlers)-1]
			minor.Handlers = minor.Handlers[:len(minor.Handlers)-1]
			f.Registers[value.RXCPT] = excVal
			cur.excepting = nil
			cur.PC = h

			return nil
		}

		if minor.UnwindExit != nil && cur.excepting == nil {
			cur.excepting = excVal
			cur.PC = *minor.UnwindExit

			return nil
		}

		cur.popMinor()
		cur.excepting = nil
	}
}

// execAbort implements ABORT: halts the fiber with a fatal, uncatchable
// error (spec §4.7, §7).
func (i *Interp) execAbort(f *Fiber, cur *MajorFrame, insn value.Instruction) error {
	_ = cur

	f.aborted = true

	return newError(ErrAborted, "ABORT executed")
}

// execConstsw implements CONSTSW: dispatch on a constant key into one of a
// table of offsets, falling through to the instruction after the table
// when no entry matches (spec §4.7 "Misc", modelled after a dense switch
// lowering).
func (i *Interp) execConstsw(f *Fiber, cur *MajorFrame, insn value.Instruction) error {
	key, err := i.evalOperand(f, cur, insn.Operands[0])
	if err != nil {
		return err
	}

	table, err := i.evalOperand(f, cur, insn.Operands[1])
	if err != nil {
		return err
	}

	m, ok := table.AsMap()
	if !ok {
		return newError(ErrInvalidOperands, "CONSTSW table operand must be a map")
	}

	if v, ok := m.Get(key); ok {
		cur.PC = uint32(asUnsigned(v))
	}

	return nil
}

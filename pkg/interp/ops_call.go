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
	"github.com/slake-lang/slake/pkg/types"
	"github.com/slake-lang/slake/pkg/value"
)

// Root implements value.Host, so Interp itself can be passed to a native
// function's closure (spec §6).
func (i *Interp) Root() *value.Value { return i.heap.Root() }

// execPushArg implements PUSHARG v: pushes the evaluated operand onto the
// current frame's next-arg stack (spec §4.7).
func (i *Interp) execPushArg(f *Fiber, cur *MajorFrame, insn value.Instruction) error {
	v, err := i.evalOperand(f, cur, insn.Operands[0])
	if err != nil {
		return err
	}

	cur.ArgStack.Push(v)

	return nil
}

// popArgs drains cur's arg stack into the order PUSHARG pushed them in
// (the stack's natural LIFO pop order is the reverse).
func (i *Interp) popArgs(cur *MajorFrame) []*value.Value {
	var reversed []*value.Value

	for !cur.ArgStack.Empty() {
		v, _ := cur.ArgStack.Pop()
		reversed = append(reversed, v.(*value.Value))
	}

	args := make([]*value.Value, len(reversed))
	for idx, v := range reversed {
		args[len(reversed)-1-idx] = v
	}

	return args
}

// execCall implements CALL target / MCALL target, this: resolves the
// callee and transfers control to it (spec §4.7, "Call protocol").
func (i *Interp) execCall(f *Fiber, cur *MajorFrame, insn value.Instruction) error {
	var (
		this   *value.Value
		target *value.Value
		err    error
	)

	if insn.Op == opcode.MCALL {
		this, err = i.evalOperand(f, cur, insn.Operands[1])
		if err != nil {
			return err
		}

		target, err = i.resolveRefRelative(cur, this, insn.Operands[0])
	} else {
		target, err = i.evalOperand(f, cur, insn.Operands[0])
	}

	if err != nil {
		return err
	}

	args := i.popArgs(cur)

	return i.enterCall(f, target, this, args)
}

// execAsyncCall implements ACALL/AMCALL: starts the callee on a new fiber
// and leaves a context value in the caller's result slot (spec §4.7).
func (i *Interp) execAsyncCall(f *Fiber, cur *MajorFrame, insn value.Instruction) error {
	var (
		this   *value.Value
		target *value.Value
		err    error
	)

	if insn.Op == opcode.AMCALL {
		this, err = i.evalOperand(f, cur, insn.Operands[1])
		if err != nil {
			return err
		}

		target, err = i.resolveRefRelative(cur, this, insn.Operands[0])
	} else {
		target, err = i.evalOperand(f, cur, insn.Operands[0])
	}

	if err != nil {
		return err
	}

	args := i.popArgs(cur)

	ctx, err := i.AsyncCall(target, this, args)
	if err != nil {
		return err
	}

	cur.Return = ctx

	return nil
}

// execRet implements RET: returns the operand if given, else the RR
// register's contents (spec §4.7, §8 scenario 1).
func (i *Interp) execRet(f *Fiber, cur *MajorFrame, insn value.Instruction) error {
	var retVal *value.Value

	if insn.N > 0 {
		v, err := i.evalOperand(f, cur, insn.Operands[0])
		if err != nil {
			return err
		}

		retVal = v
	}

	return i.doReturn(f, retVal)
}

// execLRet implements LRET dst: loads the most recently completed callee's
// return value (spec §4.7).
func (i *Interp) execLRet(f *Fiber, cur *MajorFrame, insn value.Instruction) error {
	return i.storeOperand(f, cur, insn.Operands[0], cur.Return)
}

// enterCall implements call-protocol steps 1-3: verify callable, bind
// arguments (checking per-parameter compatibility), and push a new major
// frame positioned at fn's first instruction — or, for a native function,
// run it to completion immediately and leave its result in the caller's
// Return slot as if it had already returned (spec §4.7, §6).
func (i *Interp) enterCall(f *Fiber, fn *value.Value, this *value.Value, args []*value.Value) error {
	fn = value.Unwrap(fn)
	if !fn.IsCallable() {
		return newError(ErrInvalidOperands, "call target is not callable")
	}

	if native, ok := fn.AsNativeFn(); ok {
		if err := checkArity(native.Params, args); err != nil {
			return err
		}

		result, err := native.Closure(i, args)
		if err != nil {
			return err
		}

		if caller := f.current(); caller != nil {
			caller.Return = result
		} else {
			f.result = result
			f.done = true
		}

		return nil
	}

	fp, _ := fn.AsFn()

	if err := checkArity(fp.Params, args); err != nil {
		return err
	}

	for idx, p := range fp.Params {
		if !types.Compatible(i.res, p.Type, args[idx].Type()) {
			return newError(ErrInvalidArguments, "argument %d: cannot assign %s to %s", idx, args[idx].Type(), p.Type)
		}
	}

	if len(f.Majors) >= MaxMajorFrames {
		return newError(ErrStackOverflow, "call depth exceeds %d major frames", MaxMajorFrames)
	}

	frame := newMajorFrame(fn, this)
	frame.Args = args
	for _, a := range args {
		i.heap.Retain(a)
	}
	f.Majors = append(f.Majors, frame)

	return nil
}

// releaseFrame drops the runtime-refcount edges a frame held onto its
// bound arguments, mirroring the Retain done at bind time in enterCall.
func (i *Interp) releaseFrame(frame *MajorFrame) {
	if frame == nil {
		return
	}

	for _, a := range frame.Args {
		i.heap.Release(a)
	}
}

func checkArity(params []value.ParamInfo, args []*value.Value) error {
	if len(params) != len(args) {
		return newError(ErrInvalidArguments, "expected %d arguments, got %d", len(params), len(args))
	}

	return nil
}

// doReturn implements call-protocol step 4: writes the return slot into
// the caller's result slot and pops the frame, or finalizes the fiber if
// this was its last frame (spec §4.7).
func (i *Interp) doReturn(f *Fiber, retVal *value.Value) error {
	if retVal == nil {
		retVal = f.Registers[value.RR]
	}

	i.releaseFrame(f.current())
	f.Majors = f.Majors[:len(f.Majors)-1]

	if caller := f.current(); caller != nil {
		caller.Return = retVal
		return nil
	}

	f.result = retVal
	f.done = true

	return nil
}

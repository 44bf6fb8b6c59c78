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

// Package interp implements the Slake stack-machine interpreter (spec
// §4.7): per-fiber execution state (major/minor frames, a fixed register
// bank), the CALL/RET protocol, arithmetic/comparison/subscript/object
// opcodes, the exception unwind model, and the cooperative fiber scheduler
// of spec §5 (YIELD/AWAIT as the only suspension points).
//
// Grounded on the teacher's pkg/asm.Interpreter (Enter/Execute/Leave over a
// per-function InterpreterState), generalized from a flat register array
// executing a single function to Slake's nested major/minor frame model
// over a graph of loaded functions.
package interp

import (
	log "github.com/sirupsen/logrus"

	"github.com/slake-lang/slake/pkg/gc"
	"github.com/slake-lang/slake/pkg/generic"
	"github.com/slake-lang/slake/pkg/opcode"
	"github.com/slake-lang/slake/pkg/resolver"
	"github.com/slake-lang/slake/pkg/value"
)

// MaxMajorFrames bounds the call depth of a single fiber (spec §7,
// "Frame-boundary / Stack-overflow").
const MaxMajorFrames = 2048

// Interp ties the interpreter to one runtime's heap, resolver and
// instantiator. Beyond these references it keeps only the set of live async
// fibers (the sweep's fiber roots) — all per-execution state lives on the
// Fiber passed to Run.
type Interp struct {
	heap  *gc.Heap
	res   *resolver.Resolver
	gen   *generic.Instantiator
	fibers map[*Fiber]struct{}
}

// New constructs an interpreter over heap, using res to resolve references
// (LOAD/RLOAD, deferred types) and gen to instantiate generics.
func New(heap *gc.Heap, res *resolver.Resolver, gen *generic.Instantiator) *Interp {
	i := &Interp{heap: heap, res: res, gen: gen, fibers: map[*Fiber]struct{}{}}
	heap.SetFiberProvider(i)
	heap.SetDestructorInvoker(i)

	return i
}

// LiveFiberRoots implements gc.FiberRootProvider.
func (i *Interp) LiveFiberRoots() []*value.Value {
	var out []*value.Value

	for f := range i.fibers {
		out = append(out, f.Roots()...)
	}

	return out
}

// InvokeDestructor implements gc.DestructorInvoker (spec §4.6, "Destructor
// dispatch"): calls obj's `delete` member, if it has one, to completion on
// a short-lived fiber of its own.
func (i *Interp) InvokeDestructor(obj *value.Value) error {
	s := obj.Scope()
	if s == nil {
		return nil
	}

	entry, ok := s.Lookup("delete")
	if !ok {
		return nil
	}

	del := value.Unwrap(entry.Val)
	if !del.IsCallable() {
		return nil
	}

	_, err := i.CallSync(del, obj, nil)

	return err
}

// CallSync runs fn to completion on a fresh, untracked fiber and returns
// its result (spec §6, "call a function value with a vector of argument
// values"). this is the bound instance for a method call, or nil.
func (i *Interp) CallSync(fn *value.Value, this *value.Value, args []*value.Value) (*value.Value, error) {
	f := newFiber()

	if err := i.enterCall(f, fn, this, args); err != nil {
		return nil, err
	}

	if err := i.Run(f); err != nil {
		return nil, err
	}

	return f.Result(), nil
}

// AsyncCall starts fn on a fresh fiber registered with the heap's sweep
// root set and returns a `context` value wrapping it (spec §4.7, "Async
// call"). The fiber does not run until Resume is called.
func (i *Interp) AsyncCall(fn *value.Value, this *value.Value, args []*value.Value) (*value.Value, error) {
	f := newFiber()

	if err := i.enterCall(f, fn, this, args); err != nil {
		return nil, err
	}

	i.fibers[f] = struct{}{}
	ctx := value.NewContext(i.heap.NextID(), f)
	i.heap.Track(ctx)

	return ctx, nil
}

// Resume implements spec §4.8's `resume()`: advances f until its next
// suspension point (YIELD, a satisfied AWAIT, or completion).
func (i *Interp) Resume(f *Fiber) error {
	if f.done {
		return nil
	}

	return i.Run(f)
}

// Run drives f to its next suspension point or to completion.
func (i *Interp) Run(f *Fiber) error {
	for {
		if f.aborted {
			f.done = true
			f.failure = newError(ErrAborted, "fiber aborted")

			return f.failure
		}

		if f.awaiting != nil {
			if !f.awaiting.IsDone() {
				return nil // still blocked; scheduler retries later
			}

			f.Registers[value.RR] = f.awaiting.Result()
			f.awaiting = nil
		}

		cur := f.current()
		if cur == nil {
			f.done = true

			return nil
		}

		suspend, err := i.step(f, cur)
		if err != nil {
			return i.unwindUncaught(f, err)
		}

		i.heap.MaybeSweep()

		if suspend {
			return nil
		}

		if f.done {
			return nil
		}
	}
}

// unwindUncaught finalizes a fiber that failed to handle err anywhere on
// its major-frame stack (spec §7, "Uncaught-exception ... Fiber enters done
// state with failure").
func (i *Interp) unwindUncaught(f *Fiber, err error) error {
	f.done = true
	f.failure = err
	log.Debugf("slake: fiber terminated: %v", err)

	return err
}

// step executes the single instruction at cur.PC, returning (true, nil) if
// it suspended the fiber (YIELD, or AWAIT on a not-yet-done fiber).
func (i *Interp) step(f *Fiber, cur *MajorFrame) (bool, error) {
	fp, ok := cur.Fn.AsFn()
	if !ok {
		return false, newError(ErrInvalidOpcode, "frame function is not a loaded function")
	}

	if int(cur.PC) >= len(fp.Body) {
		// Falling off the end behaves like an implicit RET (spec §4.7,
		// "RET returns ... or execution past end").
		return false, i.doReturn(f, nil)
	}

	insn := fp.Body[cur.PC]
	cur.PC++

	return i.dispatch(f, cur, insn)
}

func (i *Interp) dispatch(f *Fiber, cur *MajorFrame, insn value.Instruction) (bool, error) {
	switch insn.Op {
	case opcode.NOP:
		return false, nil
	case opcode.LOAD, opcode.RLOAD, opcode.STORE, opcode.LVAR, opcode.LVALUE, opcode.SWAP:
		return false, i.execData(f, cur, insn)
	case opcode.JMP, opcode.JT, opcode.JF:
		return false, i.execControl(f, cur, insn)
	case opcode.ENTER, opcode.LEAVE:
		return false, i.execFrameOp(f, cur, insn)
	case opcode.ADD, opcode.SUB, opcode.MUL, opcode.DIV, opcode.MOD, opcode.AND, opcode.OR,
		opcode.XOR, opcode.LAND, opcode.LOR, opcode.LSH, opcode.RSH, opcode.NEG, opcode.NOT,
		opcode.REV, opcode.INCF, opcode.INCB, opcode.DECF, opcode.DECB:
		return false, i.execArith(f, cur, insn)
	case opcode.EQ, opcode.NEQ, opcode.LT, opcode.GT, opcode.LTEQ, opcode.GTEQ, opcode.SEQ, opcode.SNEQ:
		return false, i.execCompare(f, cur, insn)
	case opcode.AT:
		return false, i.execSubscript(f, cur, insn)
	case opcode.PUSHARG:
		return false, i.execPushArg(f, cur, insn)
	case opcode.CALL, opcode.MCALL:
		return false, i.execCall(f, cur, insn)
	case opcode.ACALL, opcode.AMCALL:
		return false, i.execAsyncCall(f, cur, insn)
	case opcode.RET:
		return false, i.execRet(f, cur, insn)
	case opcode.LRET:
		return false, i.execLRet(f, cur, insn)
	case opcode.YIELD:
		return i.execYield(f, cur, insn)
	case opcode.AWAIT:
		return i.execAwait(f, cur, insn)
	case opcode.NEW:
		return false, i.execNew(f, cur, insn)
	case opcode.CAST:
		return false, i.execCast(f, cur, insn)
	case opcode.TYPEOF:
		return false, i.execTypeof(f, cur, insn)
	case opcode.PUSHXH:
		return false, i.execPushxh(f, cur, insn)
	case opcode.THROW:
		return false, i.execThrow(f, cur, insn)
	case opcode.LEXCEPT:
		return false, i.execLexcept(f, cur, insn)
	case opcode.ABORT:
		return false, i.execAbort(f, cur, insn)
	case opcode.CONSTSW:
		return false, i.execConstsw(f, cur, insn)
	default:
		return false, newError(ErrInvalidOpcode, "unrecognised opcode %d", insn.Op)
	}
}

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

// Fiber is a suspended computation (spec §4.8): a non-empty major-frame
// stack, a fixed register bank, and the done/result pair exposed to the
// host as a `context` value. Fiber implements value.FiberHandle directly —
// per DESIGN.md's decision to fold the fiber data structure into
// pkg/interp rather than a separate pkg/fiber, since a fiber's state (major
// frames, registers) is defined entirely in terms of this package's own
// types and gains nothing from a further import boundary.
type Fiber struct {
	Majors    []*MajorFrame
	Registers [value.NumRegisters]*value.Value

	done    bool
	result  *value.Value
	failure error

	// awaiting is set while this fiber is blocked on another fiber's
	// completion (AWAIT); the scheduler resumes it once that fiber is done.
	awaiting *Fiber
	// aborted is checked at each dispatch cycle (spec §5, "Cancellation").
	aborted bool
}

// newFiber returns a fiber with no frames yet; the call protocol
// (enterCall) then pushes its single major frame positioned at the callee.
func newFiber() *Fiber {
	return &Fiber{}
}

// current returns the topmost (currently executing) major frame, or nil if
// the fiber has no frames left (it has finished).
func (f *Fiber) current() *MajorFrame {
	if len(f.Majors) == 0 {
		return nil
	}

	return f.Majors[len(f.Majors)-1]
}

// IsDone implements value.FiberHandle (spec §4.8, "is-done()").
func (f *Fiber) IsDone() bool { return f.done }

// Result implements value.FiberHandle (spec §4.8, "result()"): the current
// result slot — the last YIELD payload while suspended, or the function's
// return value once done.
func (f *Fiber) Result() *value.Value { return f.result }

// Failure returns the error that aborted this fiber (uncaught exception or
// ABORT), or nil if it completed normally or is still running.
func (f *Fiber) Failure() error { return f.failure }

// Abort marks the fiber for cancellation; checked at the next dispatch
// cycle (spec §5, "Cancellation").
func (f *Fiber) Abort() { f.aborted = true }

// Roots implements value.FiberHandle: every value reachable from this
// fiber's stacks, locals, registers, `this` and return slots (spec §4.6).
func (f *Fiber) Roots() []*value.Value {
	var out []*value.Value

	for _, r := range f.Registers {
		if r != nil {
			out = append(out, r)
		}
	}

	if f.result != nil {
		out = append(out, f.result)
	}

	for _, m := range f.Majors {
		out = append(out, majorFrameRoots(m)...)
	}

	return out
}

func majorFrameRoots(m *MajorFrame) []*value.Value {
	var out []*value.Value

	if m.ThisVal != nil {
		out = append(out, m.ThisVal)
	}

	if m.Return != nil {
		out = append(out, m.Return)
	}

	for _, l := range m.Locals {
		if l != nil {
			out = append(out, l)
		}
	}

	for _, v := range m.OperandStack.Values() {
		if vv, ok := v.(*value.Value); ok && vv != nil {
			out = append(out, vv)
		}
	}

	for _, v := range m.ArgStack.Values() {
		if vv, ok := v.(*value.Value); ok && vv != nil {
			out = append(out, vv)
		}
	}

	return out
}

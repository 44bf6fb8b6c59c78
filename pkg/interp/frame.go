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
	"github.com/emirpasic/gods/stacks/arraystack"

	"github.com/slake-lang/slake/pkg/value"
)

// MinorFrame is one try/except scope within a major frame (spec §4.7,
// §4.8 glossary). PUSHXH appends a handler offset to the frame currently
// on top of the owning major frame's minor-frame stack; THROW searches
// these top-down before unwinding the major frame itself.
type MinorFrame struct {
	// Handlers are the instruction offsets registered by PUSHXH within this
	// scope, most-recently-registered last.
	Handlers []uint32
	// UnwindExit, if set, is run when this minor frame is popped while an
	// exception is propagating past it (SPEC_FULL.md supplemented feature
	// 4, "except scope unwind-exit offset").
	UnwindExit *uint32
}

// MajorFrame is one function-call activation (spec §4.7): its own operand,
// local and argument stacks, `this`, a return slot, and the minor-frame
// stack for try/except scopes.
type MajorFrame struct {
	Fn      *value.Value // the KindFn value being executed
	PC      uint32
	ThisVal *value.Value

	// Locals grows by one slot per LVAR; indices are fixed at load/verify
	// time (spec §9, "Register bank": compile-time indices, not dynamic
	// growth — the same discipline applies to local slots).
	Locals []*value.Value

	// Args holds the bound parameter values for this activation, populated
	// by the call protocol's step 2 (spec §4.7, "CALL"). Unlike Locals these
	// are plain values, not KindVar slots: a parameter is bound once at call
	// time and is not redeclared mid-body.
	Args []*value.Value

	// OperandStack and ArgStack are pkg/interp's two general-purpose stacks
	// (SPEC_FULL.md DOMAIN STACK: emirpasic/gods backs "the interpreter's
	// operand/argument/data stacks"). ArgStack accumulates PUSHARG operands
	// for the next CALL/MCALL/ACALL/AMCALL; OperandStack is reserved for
	// instructions that need scratch storage beyond the fixed register bank.
	OperandStack *arraystack.Stack
	ArgStack     *arraystack.Stack

	// Return is written by RET/LRET and read by the caller's call-protocol
	// step 4.
	Return *value.Value

	// Minors is the stack of try/except scopes currently open in this
	// frame; Minors[len(Minors)-1] is current.
	Minors []*MinorFrame

	// excepting holds the exception currently propagating through this
	// frame's minor-frame stack, set by THROW and cleared once a handler
	// catches it or the frame is fully unwound.
	excepting *value.Value
}

func newMajorFrame(fn *value.Value, this *value.Value) *MajorFrame {
	return &MajorFrame{
		Fn:           fn,
		ThisVal:      this,
		OperandStack: arraystack.New(),
		ArgStack:     arraystack.New(),
	}
}

func (f *MajorFrame) currentMinor() *MinorFrame {
	if len(f.Minors) == 0 {
		return nil
	}

	return f.Minors[len(f.Minors)-1]
}

func (f *MajorFrame) pushMinor() {
	f.Minors = append(f.Minors, &MinorFrame{})
}

func (f *MajorFrame) popMinor() *MinorFrame {
	if len(f.Minors) == 0 {
		return nil
	}

	top := f.Minors[len(f.Minors)-1]
	f.Minors = f.Minors[:len(f.Minors)-1]

	return top
}

// EnclosingScope implements resolver.Frame: references resolved while this
// frame is executing start from the defining function's owning scope.
func (f *MajorFrame) EnclosingScope() *value.Scope {
	fp, ok := f.Fn.AsFn()
	if !ok || fp.Module == nil {
		return nil
	}

	return fp.Module.Scope()
}

// EnclosingClass implements resolver.Frame: `base` resolves relative to the
// class owning this frame's function, if any.
func (f *MajorFrame) EnclosingClass() *value.Value {
	fp, ok := f.Fn.AsFn()
	if !ok || fp.Module == nil || fp.Module.Kind() != value.KindClass {
		return nil
	}

	return fp.Module
}

// This implements resolver.Frame: `this` resolves to the frame's bound
// instance, or nil outside a method frame.
func (f *MajorFrame) This() *value.Value { return f.ThisVal }

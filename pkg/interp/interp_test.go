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
package interp_test

import (
	"testing"

	"github.com/slake-lang/slake/pkg/gc"
	"github.com/slake-lang/slake/pkg/generic"
	"github.com/slake-lang/slake/pkg/interp"
	"github.com/slake-lang/slake/pkg/opcode"
	"github.com/slake-lang/slake/pkg/resolver"
	"github.com/slake-lang/slake/pkg/util/assert"
	"github.com/slake-lang/slake/pkg/value"
)

func newTestInterp() *interp.Interp {
	heap := gc.NewHeap(1 << 20)
	gen := generic.NewInstantiator()
	res := resolver.New(heap, gen)

	return interp.New(heap, res, gen)
}

func fn(id value.Id, ret *value.Type, params []value.ParamInfo, body []value.Instruction) *value.Value {
	return value.NewFunction(id, "test", nil, value.Public, ret, params, body, false)
}

// TestArithmeticReturn covers the "arithmetic return" scenario: ADD two
// literals into a register, RET it (spec §8 scenario 1).
func TestArithmeticReturn(t *testing.T) {
	i := newTestInterp()

	dst := value.NewRegRef(1, value.R0, false)
	a := value.NewI64(2, 2)
	b := value.NewI64(3, 3)

	body := []value.Instruction{
		value.NewInstruction(opcode.ADD, dst, a, b),
		value.NewInstruction(opcode.RET, value.NewRegRef(4, value.R0, false)),
	}

	f := fn(5, value.Simple(value.KindI64), nil, body)

	result, err := i.CallSync(f, nil, nil)
	assert.True(t, err == nil, "call must succeed: %v", err)
	assert.Equal(t, int64(5), result.Int64())
}

// TestImplicitReturnFallsOffEnd covers RET's "falling off the end behaves
// like an implicit return" edge case.
func TestImplicitReturnFallsOffEnd(t *testing.T) {
	i := newTestInterp()

	body := []value.Instruction{
		value.NewInstruction(opcode.NOP),
	}

	f := fn(1, value.Simple(value.KindNone), nil, body)

	result, err := i.CallSync(f, nil, nil)
	assert.True(t, err == nil, "call must succeed: %v", err)
	assert.True(t, result == nil, "falling off the end returns RR's zero value")
}

// TestThrowCaughtByPushxh covers the "throw/catch" scenario: THROW inside
// an ENTER/LEAVE scope that registered a handler with PUSHXH jumps to the
// handler instead of propagating (spec §8 scenario 3).
func TestThrowCaughtByPushxh(t *testing.T) {
	i := newTestInterp()

	excVal := value.NewString(1, "boom")

	// 0: ENTER
	// 1: PUSHXH 4      (register handler at offset 4)
	// 2: THROW "boom"
	// 3: (unreached)   RET literal 0 (would be the "uncaught" path)
	// 4: LEXCEPT R0    (handler: load caught exception)
	// 5: LEAVE
	// 6: RET R0
	body := []value.Instruction{
		value.NewInstruction(opcode.ENTER),
		value.NewInstruction(opcode.PUSHXH, value.NewU32(2, 4)),
		value.NewInstruction(opcode.THROW, excVal),
		value.NewInstruction(opcode.RET, value.NewI64(3, 0)),
		value.NewInstruction(opcode.LEXCEPT, value.NewRegRef(4, value.R0, false)),
		value.NewInstruction(opcode.LEAVE),
		value.NewInstruction(opcode.RET, value.NewRegRef(5, value.R0, false)),
	}

	f := fn(6, value.Simple(value.KindString), nil, body)

	result, err := i.CallSync(f, nil, nil)
	assert.True(t, err == nil, "call must succeed: %v", err)
	assert.Equal(t, "boom", result.Str())
}

// TestThrowUncaughtFailsFiber covers the uncaught-exception edge case: a
// THROW with no open handler terminates the fiber with ErrUncaughtException
// (spec §7).
func TestThrowUncaughtFailsFiber(t *testing.T) {
	i := newTestInterp()

	body := []value.Instruction{
		value.NewInstruction(opcode.THROW, value.NewString(1, "boom")),
	}

	f := fn(2, value.Simple(value.KindNone), nil, body)

	_, err := i.CallSync(f, nil, nil)
	assert.True(t, err != nil, "uncaught throw must fail the call")

	rerr, ok := err.(*interp.RuntimeError)
	assert.True(t, ok, "error must be a *interp.RuntimeError")
	assert.True(t, rerr.Kind == interp.ErrUncaughtException, "kind must be ErrUncaughtException")
}

// TestCompareAndBranch covers LT + JF, the building block of a loop or
// conditional.
func TestCompareAndBranch(t *testing.T) {
	i := newTestInterp()

	// 0: LT R0, 2, 3      -> true
	// 1: JF 3, R0         -> not taken (condition is true)
	// 2: RET 111
	// 3: RET 222
	body := []value.Instruction{
		value.NewInstruction(opcode.LT, value.NewRegRef(1, value.R0, false), value.NewI64(2, 2), value.NewI64(3, 3)),
		value.NewInstruction(opcode.JF, value.NewU32(4, 3), value.NewRegRef(5, value.R0, false)),
		value.NewInstruction(opcode.RET, value.NewI64(6, 111)),
		value.NewInstruction(opcode.RET, value.NewI64(7, 222)),
	}

	f := fn(8, value.Simple(value.KindI64), nil, body)

	result, err := i.CallSync(f, nil, nil)
	assert.True(t, err == nil, "call must succeed: %v", err)
	assert.Equal(t, int64(111), result.Int64())
}

// TestAwaitOnDoneFiberReturnsImmediately covers the coroutine scenario:
// AWAIT on an already-completed fiber resumes without suspending (spec §8,
// "AWAIT on a done fiber returns the stored result immediately").
func TestAwaitOnDoneFiberReturnsImmediately(t *testing.T) {
	i := newTestInterp()

	callee := fn(1, value.Simple(value.KindI64), nil, []value.Instruction{
		value.NewInstruction(opcode.RET, value.NewI64(2, 42)),
	})

	ctx, err := i.AsyncCall(callee, nil, nil)
	assert.True(t, err == nil, "async call must succeed: %v", err)

	cp, ok := ctx.AsContext()
	assert.True(t, ok, "AsyncCall must return a context value")

	// Drive the callee fiber to completion.
	err = i.Resume(cp.Fiber.(*interp.Fiber))
	assert.True(t, err == nil, "resume must succeed: %v", err)
	assert.True(t, cp.Fiber.IsDone(), "callee fiber must be done")

	awaiter := fn(3, value.Simple(value.KindI64), nil, []value.Instruction{
		value.NewInstruction(opcode.AWAIT, ctx),
		value.NewInstruction(opcode.RET, value.NewRegRef(4, value.RR, false)),
	})

	result, err := i.CallSync(awaiter, nil, nil)
	assert.True(t, err == nil, "awaiter call must succeed: %v", err)
	assert.Equal(t, int64(42), result.Int64())
}

// TestYieldSuspendsFiber covers YIELD's suspension contract: Run returns
// without marking the fiber done, leaving its result slot populated.
func TestYieldSuspendsFiber(t *testing.T) {
	i := newTestInterp()

	callee := fn(1, value.Simple(value.KindI64), nil, []value.Instruction{
		value.NewInstruction(opcode.YIELD, value.NewI64(2, 7)),
		value.NewInstruction(opcode.RET, value.NewI64(3, 9)),
	})

	ctx, err := i.AsyncCall(callee, nil, nil)
	assert.True(t, err == nil, "async call must succeed: %v", err)

	cp, _ := ctx.AsContext()
	fiber := cp.Fiber.(*interp.Fiber)

	err = i.Resume(fiber)
	assert.True(t, err == nil, "resume must succeed: %v", err)
	assert.True(t, !fiber.IsDone(), "fiber must still be suspended after YIELD")
	assert.Equal(t, int64(7), fiber.Result().Int64())

	err = i.Resume(fiber)
	assert.True(t, err == nil, "second resume must succeed: %v", err)
	assert.True(t, fiber.IsDone(), "fiber must be done after running past YIELD")
	assert.Equal(t, int64(9), fiber.Result().Int64())
}

// TestCastNumericConversion covers CAST's numeric narrowing/widening path.
func TestCastNumericConversion(t *testing.T) {
	i := newTestInterp()

	body := []value.Instruction{
		value.NewInstruction(opcode.CAST,
			value.NewRegRef(1, value.R0, false),
			value.NewTypeName(2, value.Simple(value.KindF64)),
			value.NewI64(3, 5)),
		value.NewInstruction(opcode.RET, value.NewRegRef(4, value.R0, false)),
	}

	f := fn(5, value.Simple(value.KindF64), nil, body)

	result, err := i.CallSync(f, nil, nil)
	assert.True(t, err == nil, "call must succeed: %v", err)
	assert.Equal(t, float64(5), result.Float64())
}

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
package runtime_test

import (
	"testing"

	"github.com/slake-lang/slake/pkg/opcode"
	"github.com/slake-lang/slake/pkg/runtime"
	"github.com/slake-lang/slake/pkg/util/assert"
	"github.com/slake-lang/slake/pkg/value"
)

func TestLookupWalksDottedNamespacePath(t *testing.T) {
	rt := runtime.New(0)

	root := rt.Root()
	a := value.NewModule(1, "a", nil)
	root.Scope().Define("a", value.Public, a)
	a.Scope().Parent = root.Scope()

	b := value.NewModule(2, "b", a)
	a.Scope().Define("b", value.Public, b)
	b.Scope().Parent = a.Scope()

	widget := value.NewI64(3, 7)
	b.Scope().Define("widget", value.Public, widget)

	found, ok := rt.Lookup("a.b.widget")
	assert.True(t, ok, "a.b.widget must resolve")
	assert.Equal(t, int64(7), found.Int64())

	_, ok = rt.Lookup("a.missing")
	assert.True(t, !ok, "a.missing must not resolve")
}

func TestCallRunsAFunctionToCompletion(t *testing.T) {
	rt := runtime.New(0)

	dst := value.NewRegRef(1, value.R0, false)
	body := []value.Instruction{
		value.NewInstruction(opcode.ADD, dst, value.NewI64(2, 40), value.NewI64(3, 2)),
		value.NewInstruction(opcode.RET, value.NewRegRef(4, value.R0, false)),
	}
	fn := value.NewFunction(5, "add", nil, value.Public, value.Simple(value.KindI64), nil, body, false)

	result, err := rt.Call(fn, nil, nil)
	assert.True(t, err == nil, "call must succeed: %v", err)
	assert.Equal(t, int64(42), result.Int64())
}

func TestAsyncCallAndResumeDriveAFiberToCompletion(t *testing.T) {
	rt := runtime.New(0)

	body := []value.Instruction{
		value.NewInstruction(opcode.RET, value.NewI64(1, 9)),
	}
	fn := value.NewFunction(2, "nine", nil, value.Public, value.Simple(value.KindI64), nil, body, false)

	ctx, err := rt.AsyncCall(fn, nil, nil)
	assert.True(t, err == nil, "async call must succeed: %v", err)
	assert.True(t, !rt.Done(ctx), "fiber must not be done before it is resumed")

	err = rt.Resume(ctx)
	assert.True(t, err == nil, "resume must succeed: %v", err)
	assert.True(t, rt.Done(ctx), "fiber must be done after running to completion")
	assert.Equal(t, int64(9), rt.Result(ctx).Int64())
}

func TestRegisterNativeInstallsACallableMember(t *testing.T) {
	rt := runtime.New(0)

	mod, ok := rt.Lookup("")
	assert.True(t, ok, "root must resolve as the empty path")

	called := false
	native := func(host value.Host, args []*value.Value) (*value.Value, error) {
		called = true
		return value.NewI64(0, args[0].Int64()*2), nil
	}

	err := rt.RegisterNative(mod, "double", value.Public, value.Simple(value.KindI64),
		[]value.ParamInfo{{Name: "x", Type: value.Simple(value.KindI64)}}, native)
	assert.True(t, err == nil, "registering a native function must not fail")

	fn, ok := rt.Lookup("double")
	assert.True(t, ok, "double must be resolvable after registration")

	result, err := rt.Call(fn, nil, []*value.Value{value.NewI64(0, 21)})
	assert.True(t, err == nil, "calling the native function must not fail: %v", err)
	assert.True(t, called, "the native closure must actually run")
	assert.Equal(t, int64(42), result.Int64())
}

func TestRequestSweepAndShutdownDoNotPanic(t *testing.T) {
	rt := runtime.New(runtime.Debug | runtime.GCDebug)

	rt.RequestSweep()
	rt.Shutdown()
}

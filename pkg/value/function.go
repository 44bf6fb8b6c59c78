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
package value

// ParamInfo names and types one formal parameter of a function.
type ParamInfo struct {
	Name string
	Type *Type
}

// FnPayload is the Kind-specific data of a KindFn value whose body is loaded
// bytecode (spec §3). Body is exposed read-only: per DESIGN.md's
// resolution of spec §9's open question about FnValue::getBody, nothing in
// this runtime mutates a loaded instruction array in place.
type FnPayload struct {
	containerBase
	Access  Access
	Return  *Type
	Params  []ParamInfo
	IsAsync bool
	Body    []Instruction
	Source  []SourceLoc
}

// InstructionBody returns the function's instruction stream. The returned slice must
// not be mutated by callers.
func (f *FnPayload) InstructionBody() []Instruction { return f.Body }

// NewFunction constructs a loaded (bytecode-bodied) function value.
func NewFunction(id Id, name string, module *Value, access Access, ret *Type, params []ParamInfo, body []Instruction, async bool) *Value {
	fnType := &Type{Tag: KindFn}

	return New(id, KindFn, fnType, &FnPayload{
		containerBase: containerBase{Name: name, Module: module},
		Access:        access,
		Return:        ret,
		Params:        params,
		IsAsync:       async,
		Body:          body,
	})
}

// AsFn returns this value's FnPayload, or (nil, false) if it is not a loaded
// function. Native functions (NativeFnPayload) are a distinct payload — see
// AsNativeFn.
func (v *Value) AsFn() (*FnPayload, bool) {
	f, ok := v.payload.(*FnPayload)
	return f, ok
}

// NativeFnPayload is the Kind-specific data of a native fn value: a host
// callback bound by the embedder (spec §3, §6) rather than loaded bytecode.
type NativeFnPayload struct {
	containerBase
	Return  *Type
	Params  []ParamInfo
	Closure NativeFunc
}

// NewNativeFn wraps a host callback as a KindFn value.
func NewNativeFn(id Id, name string, ret *Type, params []ParamInfo, closure NativeFunc) *Value {
	fnType := &Type{Tag: KindFn}
	return New(id, KindFn, fnType, &NativeFnPayload{
		containerBase: containerBase{Name: name},
		Return:        ret,
		Params:        params,
		Closure:       closure,
	})
}

// AsNativeFn returns this value's NativeFnPayload, or (nil, false).
func (v *Value) AsNativeFn() (*NativeFnPayload, bool) {
	n, ok := v.payload.(*NativeFnPayload)
	return n, ok
}

// IsCallable reports whether v is either a loaded function or a native
// function (spec §4.7, CALL step 1: "verify callable").
func (v *Value) IsCallable() bool {
	if v.kind != KindFn {
		return false
	}

	_, isFn := v.AsFn()
	_, isNative := v.AsNativeFn()

	return isFn || isNative
}

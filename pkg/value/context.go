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

// FiberHandle is the narrow view of a suspended computation that the value
// graph needs (spec §3, "context: Owning fiber state ... done flag; result
// slot"). The concrete implementation (pkg/interp.Fiber) is injected here
// rather than imported, so that this leaf package never depends on the
// interpreter — only the interpreter depends on it.
type FiberHandle interface {
	IsDone() bool
	Result() *Value
	// Roots returns every value currently reachable from this fiber's
	// stacks, locals, registers and `this`/return slots, for the tracing
	// sweep's root set (spec §4.6).
	Roots() []*Value
}

// ContextPayload is the Kind-specific data of a KindContext value.
type ContextPayload struct {
	Fiber FiberHandle
}

// NewContext wraps a fiber handle as a first-class context value, produced
// by an async call (ACALL/AMCALL) and exposed to the host (spec §4.8).
func NewContext(id Id, fiber FiberHandle) *Value {
	return New(id, KindContext, Simple(KindContext), &ContextPayload{Fiber: fiber})
}

// AsContext returns this value's ContextPayload, or (nil, false).
func (v *Value) AsContext() (*ContextPayload, bool) {
	c, ok := v.payload.(*ContextPayload)
	return c, ok
}

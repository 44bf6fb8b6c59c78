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
package gc

import "github.com/slake-lang/slake/pkg/value"

// Children enumerates every value directly reachable from v: its scope
// members, its kind-specific payload references, and its declared type's
// defining value (spec §4.6, "recurse through scope members, type payload,
// instruction operands, and typed slots"). The same traversal backs both
// the cascading release on a refcount reaching zero and the tracing
// sweep's mark phase — refcounting alone cannot break the cycles this
// walk may reveal (a class's methods referring back to the class, an
// object referring to its class), which is exactly why the sweep exists.
func Children(v *value.Value) []*value.Value {
	if v == nil {
		return nil
	}

	var out []*value.Value

	if s := v.Scope(); s != nil && !s.Shared {
		for _, e := range s.Entries() {
			if e.Val != nil {
				out = append(out, e.Val)
			}
		}
	}

	out = append(out, typeChildren(v.Type())...)
	out = append(out, payloadChildren(v)...)

	return out
}

func typeChildren(t *value.Type) []*value.Value {
	if t == nil {
		return nil
	}

	var out []*value.Value

	if t.Def != nil {
		out = append(out, t.Def)
	}

	if t.Deferred != nil {
		out = append(out, t.Deferred)
	}

	out = append(out, typeChildren(t.Elem)...)
	out = append(out, typeChildren(t.Key)...)
	out = append(out, typeChildren(t.Val)...)

	return out
}

func refChildren(r *value.RefPayload) []*value.Value {
	var out []*value.Value

	for _, e := range r.Entries {
		for _, a := range e.GenericArgs {
			out = append(out, typeChildren(a)...)
		}
	}

	return out
}

func payloadChildren(v *value.Value) []*value.Value {
	var out []*value.Value

	switch v.Kind() {
	case value.KindModule:
		m, _ := v.AsModule()
		if m.Parent != nil {
			out = append(out, m.Parent)
		}

		for _, imp := range m.Imports {
			out = append(out, imp)
		}
	case value.KindClass:
		c, _ := v.AsClass()
		out = append(out, typeChildren(c.Parent)...)

		for _, i := range c.Interfaces {
			out = append(out, typeChildren(i)...)
		}
	case value.KindInterface:
		i, _ := v.AsInterface()
		for _, p := range i.Parents {
			out = append(out, typeChildren(p)...)
		}
	case value.KindTrait:
		t, _ := v.AsTrait()
		for _, p := range t.Parents {
			out = append(out, typeChildren(p)...)
		}
	case value.KindObject:
		o, _ := v.AsObject()
		if o.Class != nil {
			out = append(out, o.Class)
		}
	case value.KindFn:
		if fn, ok := v.AsFn(); ok {
			for _, insn := range fn.Body {
				for i := uint8(0); i < insn.N; i++ {
					if insn.Operands[i] != nil {
						out = append(out, insn.Operands[i])
					}
				}
			}
		}
	case value.KindVar:
		vp, _ := v.AsVar()
		if vp.Held != nil {
			out = append(out, vp.Held)
		}
	case value.KindAlias:
		// Aliases are weak (spec §9, "Ownership of scopes"): the target is
		// reachable through the alias for the mark-sweep, but the alias does
		// not cascade-release it — see Heap.Release.
		a, _ := v.AsAlias()
		out = append(out, a.Target)
	case value.KindRef:
		r, _ := v.AsRef()
		out = append(out, refChildren(r)...)
	case value.KindTypeName:
		tn, _ := v.AsTypeName()
		out = append(out, typeChildren(tn.Named)...)
	case value.KindContext:
		ctx, _ := v.AsContext()
		if ctx.Fiber != nil {
			out = append(out, ctx.Fiber.Roots()...)
		}
	case value.KindArray:
		a, _ := v.AsArray()
		out = append(out, a.Items...)
	case value.KindMap:
		m, _ := v.AsMap()
		for _, e := range m.Entries() {
			out = append(out, e.Key, e.Val)
		}
	}

	return out
}

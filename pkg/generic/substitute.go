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
package generic

import (
	"fmt"

	"github.com/slake-lang/slake/pkg/value"
)

// substituteType returns a Type with every generic_arg(i) occurrence
// replaced by args[i] (spec §4.4, "substitute generic_arg(i) types
// throughout the template"). Types that carry no generic_arg anywhere in
// their structure are returned unchanged — only the parts that actually
// depend on the parameter list need a fresh copy.
func substituteType(t *value.Type, args []*value.Type) *value.Type {
	if t == nil {
		return nil
	}

	if t.Tag == value.KindGenericArg {
		if int(t.ParamIndex) < len(args) {
			return args[t.ParamIndex]
		}

		return t
	}

	elem := substituteType(t.Elem, args)
	key := substituteType(t.Key, args)
	val := substituteType(t.Val, args)

	if elem == t.Elem && key == t.Key && val == t.Val {
		return t
	}

	out := *t
	out.Elem, out.Key, out.Val = elem, key, val

	return &out
}

func substituteTypes(ts []*value.Type, args []*value.Type) []*value.Type {
	out := make([]*value.Type, len(ts))
	for i, t := range ts {
		out[i] = substituteType(t, args)
	}

	return out
}

func substituteParams(ps []value.ParamInfo, args []*value.Type) []value.ParamInfo {
	out := make([]value.ParamInfo, len(ps))
	for i, p := range ps {
		out[i] = value.ParamInfo{Name: p.Name, Type: substituteType(p.Type, args)}
	}

	return out
}

// substituteTemplate builds the instantiation of template (spec §4.4): a
// fresh container value of the same kind, its declared Type substituted,
// and — one level down, the level at which a class/interface/trait/
// function's own generic parameters can appear — every field/method/
// parameter/return type in its scope substituted too. Method bodies are
// shared with the template unchanged: type operands inside the
// instruction stream (type names used by LVAR, CAST, NEW, ...) are not
// substituted.
func substituteTemplate(alloc Allocator, template *value.Value, args []*value.Type) (*value.Value, error) {
	out, err := instantiateContainer(alloc, template, args)
	if err != nil {
		return nil, err
	}

	if sc := template.Scope(); sc != nil {
		clone := value.NewScope(sc.Parent)

		for _, e := range sc.Entries() {
			member, err := substituteMember(alloc, e.Val, args)
			if err != nil {
				return nil, err
			}

			clone.Define(e.Name, e.Access, member)
		}

		out.SetScope(clone)
	}

	return out, nil
}

func instantiateContainer(alloc Allocator, template *value.Value, args []*value.Type) (*value.Value, error) {
	switch template.Kind() {
	case value.KindClass:
		c, _ := template.AsClass()
		out := value.NewClass(alloc.NextID(), c.Name, c.Module, c.Access)
		nc, _ := out.AsClass()
		nc.Parent = substituteType(c.Parent, args)
		nc.Interfaces = substituteTypes(c.Interfaces, args)
		alloc.Track(out)

		return out, nil
	case value.KindInterface:
		i, _ := template.AsInterface()
		out := value.NewInterface(alloc.NextID(), i.Name, i.Module)
		ni, _ := out.AsInterface()
		ni.Parents = substituteTypes(i.Parents, args)
		alloc.Track(out)

		return out, nil
	case value.KindTrait:
		t, _ := template.AsTrait()
		out := value.NewTrait(alloc.NextID(), t.Name, t.Module)
		nt, _ := out.AsTrait()
		nt.Parents = substituteTypes(t.Parents, args)
		alloc.Track(out)

		return out, nil
	case value.KindFn:
		f, ok := template.AsFn()
		if !ok {
			return nil, fmt.Errorf("generic: native function %q cannot carry generic parameters", template.QualifiedName())
		}

		out := value.NewFunction(alloc.NextID(), f.Name, f.Module, f.Access,
			substituteType(f.Return, args), substituteParams(f.Params, args), f.Body, f.IsAsync)
		alloc.Track(out)

		return out, nil
	default:
		return nil, fmt.Errorf("generic: %s is not a generic-capable value", template.Kind())
	}
}

// substituteMember rewrites one scope member of a generic container: a
// nested function gets its signature substituted (it may reference the
// enclosing container's generic parameters); a field (var) gets its
// declared type substituted; everything else (nested classes, imports,
// constants) is shared with the template as-is, since spec §4.4 only
// requires substitution of the template's own generic_arg types, not a
// transitive re-instantiation of unrelated nested declarations.
func substituteMember(alloc Allocator, member *value.Value, args []*value.Type) (*value.Value, error) {
	switch member.Kind() {
	case value.KindFn:
		f, ok := member.AsFn()
		if !ok {
			return member, nil
		}

		out := value.NewFunction(alloc.NextID(), f.Name, f.Module, f.Access,
			substituteType(f.Return, args), substituteParams(f.Params, args), f.Body, f.IsAsync)
		alloc.Track(out)

		return out, nil
	case value.KindVar:
		v, ok := member.AsVar()
		if !ok {
			return member, nil
		}

		out := value.NewVariable(alloc.NextID(), substituteType(v.Declared, args))
		alloc.Track(out)

		return out, nil
	default:
		return member, nil
	}
}

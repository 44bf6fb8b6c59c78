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
package loader

import (
	"github.com/slake-lang/slake/pkg/slx"
	"github.com/slake-lang/slake/pkg/value"
)

// loadScope installs every member of a decoded scope block into scope,
// whose Parent is already chained to the enclosing scope (module or
// class) for outward-walking name resolution (spec §4.3(1)). owner is the
// module or class installing these members, used as the Module field of
// nested containers for qualified-name rendering.
func (l *Loader) loadScope(sb slx.ScopeBlock, scope *value.Scope, owner *value.Value) {
	for _, v := range sb.Variables {
		vr := value.NewVariable(l.heap.NextID(), l.buildType(&v.Type, scope))
		l.heap.Track(vr)
		scope.Define(v.Name, v.Access, vr)
	}

	for _, f := range sb.Functions {
		fn := l.buildFunction(f, owner, scope)
		scope.Define(f.Name, f.Access, fn)
	}

	for _, c := range sb.Classes {
		class := l.buildClass(c, owner, scope)
		scope.Define(c.Name, c.Access, class)
	}

	for _, i := range sb.Interfaces {
		iface := l.buildInterface(i, owner, scope)
		scope.Define(i.Name, value.Public, iface)
	}

	for _, t := range sb.Traits {
		trait := l.buildTrait(t, owner, scope)
		scope.Define(t.Name, value.Public, trait)
	}
}

func (l *Loader) buildFunction(f slx.FuncEntry, owner *value.Value, scope *value.Scope) *value.Value {
	params := make([]value.ParamInfo, len(f.Params))
	for i, p := range f.Params {
		params[i] = value.ParamInfo{Name: p.Name, Type: l.buildType(&p.Type, scope)}
	}

	body := make([]value.Instruction, len(f.Body))
	for i, insn := range f.Body {
		body[i] = l.buildInstruction(insn, scope)
	}

	source := make([]value.SourceLoc, len(f.Source))
	for i, s := range f.Source {
		source[i] = value.SourceLoc{Offset: s.Offset, Line: s.Line, Column: s.Column, EndLine: s.EndLine, EndColumn: s.EndColumn}
	}

	fn := value.NewFunction(l.heap.NextID(), f.Name, owner, f.Access, l.buildType(&f.Return, scope), params, body, f.IsAsync)
	l.heap.Track(fn)

	if fp, ok := fn.AsFn(); ok {
		fp.Source = source
	}

	return fn
}

func (l *Loader) buildClass(c slx.ClassEntry, owner *value.Value, enclosing *value.Scope) *value.Value {
	class := value.NewClass(l.heap.NextID(), c.Name, owner, c.Access)
	l.heap.Track(class)

	cp, _ := class.AsClass()
	cp.GenericParams = l.buildGenericParams(c.GenericParams, enclosing)

	if c.Parent != nil {
		cp.Parent = value.DeferredRef(value.KindClass, l.buildRef(c.Parent), enclosing)
	}

	cp.Interfaces = make([]*value.Type, len(c.Interfaces))
	for i := range c.Interfaces {
		cp.Interfaces[i] = value.DeferredRef(value.KindInterface, l.buildRef(&c.Interfaces[i]), enclosing)
	}

	classScope := value.NewScope(enclosing)
	class.SetScope(classScope)
	l.loadScope(c.Scope, classScope, class)

	return class
}

func (l *Loader) buildInterface(i slx.InterfaceEntry, owner *value.Value, enclosing *value.Scope) *value.Value {
	iface := value.NewInterface(l.heap.NextID(), i.Name, owner)
	l.heap.Track(iface)

	ip, _ := iface.AsInterface()
	ip.GenericParams = l.buildGenericParams(i.GenericParams, enclosing)
	ip.Parents = make([]*value.Type, len(i.Parents))

	for j := range i.Parents {
		ip.Parents[j] = value.DeferredRef(value.KindInterface, l.buildRef(&i.Parents[j]), enclosing)
	}

	ifaceScope := value.NewScope(enclosing)
	iface.SetScope(ifaceScope)
	l.loadScope(i.Scope, ifaceScope, iface)

	return iface
}

func (l *Loader) buildTrait(t slx.TraitEntry, owner *value.Value, enclosing *value.Scope) *value.Value {
	trait := value.NewTrait(l.heap.NextID(), t.Name, owner)
	l.heap.Track(trait)

	tp, _ := trait.AsTrait()
	tp.GenericParams = l.buildGenericParams(t.GenericParams, enclosing)
	tp.Parents = make([]*value.Type, len(t.Parents))

	for j := range t.Parents {
		tp.Parents[j] = value.DeferredRef(value.KindTrait, l.buildRef(&t.Parents[j]), enclosing)
	}

	traitScope := value.NewScope(enclosing)
	trait.SetScope(traitScope)
	l.loadScope(t.Scope, traitScope, trait)

	return trait
}

func (l *Loader) buildGenericParams(ds []slx.GenericParamDescriptor, scope *value.Scope) []value.GenericParam {
	out := make([]value.GenericParam, len(ds))

	for i, d := range ds {
		qs := make([]value.Qualifier, len(d.Qualifiers))
		for j, q := range d.Qualifiers {
			qs[j] = value.Qualifier{Kind: q.Kind, Target: l.buildType(&q.Target, scope)}
		}

		out[i] = value.GenericParam{Name: d.Name, Qualifiers: qs}
	}

	return out
}

// buildType converts a decoded type descriptor into a live Type, leaving
// class/interface/trait/object references deferred (spec §4.2, "stored as
// unresolved reference values (deferred types), resolved lazily on first
// use").
func (l *Loader) buildType(td *slx.TypeDescriptor, scope *value.Scope) *value.Type {
	if td == nil {
		return nil
	}

	switch td.Tag {
	case value.KindArray:
		return value.ArrayOf(l.buildType(td.Elem, scope))
	case value.KindMap:
		return value.MapOf(l.buildType(td.Key, scope), l.buildType(td.Val, scope))
	case value.KindClass, value.KindInterface, value.KindTrait, value.KindObject:
		if td.Ref == nil {
			return value.Simple(td.Tag)
		}

		return value.DeferredRef(td.Tag, l.buildRef(td.Ref), scope)
	case value.KindGenericArg:
		return value.GenericArg(td.ParamIndex)
	default:
		return value.Simple(td.Tag)
	}
}

// buildRef allocates a transient KindRef value from a decoded reference
// chain, recursively building any generic-argument types it carries.
func (l *Loader) buildRef(rd *slx.RefDescriptor) *value.Value {
	entries := make([]value.RefEntry, len(rd.Entries))

	for i, e := range rd.Entries {
		args := make([]*value.Type, len(e.GenericArgs))
		for j := range e.GenericArgs {
			args[j] = l.buildType(&e.GenericArgs[j], nil)
		}

		entries[i] = value.RefEntry{Name: e.Name, GenericArgs: args}
	}

	ref := value.NewRef(l.heap.NextID(), entries)
	l.heap.Track(ref)

	return ref
}

func (l *Loader) buildInstruction(id slx.InstructionDescriptor, scope *value.Scope) value.Instruction {
	var insn value.Instruction

	insn.Op = id.Op
	insn.N = uint8(len(id.Operands))

	for i := range id.Operands {
		insn.Operands[i] = l.buildOperand(&id.Operands[i], scope)
	}

	return insn
}

func (l *Loader) buildOperand(vd *slx.ValueDescriptor, scope *value.Scope) *value.Value {
	id := l.heap.NextID()

	switch vd.Kind {
	case value.KindNone:
		return l.heap.Track(value.NewNone(id))
	case value.KindI8:
		return l.heap.Track(value.NewI8(id, vd.Literal.(int8)))
	case value.KindI16:
		return l.heap.Track(value.NewI16(id, vd.Literal.(int16)))
	case value.KindI32:
		return l.heap.Track(value.NewI32(id, vd.Literal.(int32)))
	case value.KindI64:
		return l.heap.Track(value.NewI64(id, vd.Literal.(int64)))
	case value.KindU8:
		return l.heap.Track(value.NewU8(id, vd.Literal.(uint8)))
	case value.KindU16:
		return l.heap.Track(value.NewU16(id, vd.Literal.(uint16)))
	case value.KindU32:
		return l.heap.Track(value.NewU32(id, vd.Literal.(uint32)))
	case value.KindU64:
		return l.heap.Track(value.NewU64(id, vd.Literal.(uint64)))
	case value.KindF32:
		return l.heap.Track(value.NewF32(id, vd.Literal.(float32)))
	case value.KindF64:
		return l.heap.Track(value.NewF64(id, vd.Literal.(float64)))
	case value.KindBool:
		return l.heap.Track(value.NewBool(id, vd.Literal.(bool)))
	case value.KindString:
		return l.heap.Track(value.NewString(id, vd.Literal.(string)))
	case value.KindWString:
		return l.heap.Track(value.NewWString(id, vd.Literal.([]rune)))
	case value.KindChar:
		return l.heap.Track(value.NewChar(id, vd.Literal.(rune)))
	case value.KindWChar:
		return l.heap.Track(value.NewWChar(id, vd.Literal.(rune)))
	case value.KindRef:
		return l.buildRef(vd.Ref)
	case value.KindTypeName:
		return l.heap.Track(value.NewTypeName(id, l.buildType(vd.TypeName, scope)))
	case value.KindLVarRef:
		return l.heap.Track(value.NewLVarRef(id, vd.Index, vd.Deref))
	case value.KindArgRef:
		return l.heap.Track(value.NewArgRef(id, vd.Index, vd.Deref))
	case value.KindRegRef:
		return l.heap.Track(value.NewRegRef(id, vd.Reg, vd.Deref))
	default:
		return nil
	}
}

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

// Package generic implements the generic instantiator of spec §4.4:
// qualifier validation, a structural-equality cache keyed on
// (template, arg list), and substitution of generic_arg(i) types done
// eagerly at instantiation time into a freshly-copied template and its
// direct scope members; members nested deeper are shared with the
// template and not substituted.
package generic

import (
	"fmt"
	"sync"

	"github.com/cnf/structhash"

	"github.com/slake-lang/slake/pkg/types"
	"github.com/slake-lang/slake/pkg/value"
)

// Allocator is the minimal identity/tracking surface the instantiator
// needs from the heap (spec §4.6 owns the concrete implementation,
// pkg/gc.Heap); injected so this package never imports pkg/gc.
type Allocator interface {
	NextID() value.Id
	Track(v *value.Value) *value.Value
}

// Instantiator caches and produces generic instantiations.
type Instantiator struct {
	mu sync.Mutex

	cache   map[string]*value.Value
	reverse map[value.Id]reverseEntry
}

type reverseEntry struct {
	template *value.Value
	args     []*value.Type
}

// NewInstantiator constructs an empty instantiation cache.
func NewInstantiator() *Instantiator {
	return &Instantiator{
		cache:   map[string]*value.Value{},
		reverse: map[value.Id]reverseEntry{},
	}
}

// QualifierError reports that a generic argument failed to satisfy a
// parameter's qualifier (spec §4.4).
type QualifierError struct {
	Param     string
	Qualifier value.QualifierKind
	Arg       *value.Type
}

func (e *QualifierError) Error() string {
	var kind string

	switch e.Qualifier {
	case value.QualExtends:
		kind = "extends"
	case value.QualImplements:
		kind = "implements"
	case value.QualHasTrait:
		kind = "has-trait"
	}

	return fmt.Sprintf("generic argument %s does not satisfy %s qualifier of parameter %q", e.Arg, kind, e.Param)
}

// containerOf returns the GenericParam list and Name for any of the four
// generic-capable value kinds (spec §4.4: "a generic value
// (class/interface/trait/function)").
func containerOf(template *value.Value) ([]value.GenericParam, string, bool) {
	switch template.Kind() {
	case value.KindClass:
		c, ok := template.AsClass()
		if !ok {
			return nil, "", false
		}

		return c.GenericParams, c.Name, true
	case value.KindInterface:
		i, ok := template.AsInterface()
		if !ok {
			return nil, "", false
		}

		return i.GenericParams, i.Name, true
	case value.KindTrait:
		t, ok := template.AsTrait()
		if !ok {
			return nil, "", false
		}

		return t.GenericParams, t.Name, true
	case value.KindFn:
		if f, ok := template.AsFn(); ok {
			return f.GenericParams, f.Name, true
		}

		return nil, "", false
	default:
		return nil, "", false
	}
}

// validate checks every argument against its parameter's qualifiers (spec
// §4.4): extends, implements, has-trait.
func validate(r types.Resolver, params []value.GenericParam, args []*value.Type) error {
	for i, p := range params {
		arg := args[i]

		for _, q := range p.Qualifiers {
			var ok bool

			switch q.Kind {
			case value.QualExtends:
				ok = arg.Tag == value.KindClass && arg.Def != nil && q.Target.Def != nil &&
					types.IsSubclass(r, arg.Def, q.Target.Def)
			case value.QualImplements:
				ok = arg.Tag == value.KindClass && arg.Def != nil && q.Target.Def != nil &&
					types.Implements(r, arg.Def, q.Target.Def)
			case value.QualHasTrait:
				ok = arg.Tag == value.KindClass && arg.Def != nil && q.Target.Def != nil &&
					types.HasTrait(r, arg.Def, q.Target.Def)
			}

			if !ok {
				return &QualifierError{Param: p.Name, Qualifier: q.Kind, Arg: arg}
			}
		}
	}

	return nil
}

// cacheKey renders a structural hash of (template identity, arg list) via
// structhash, giving the cache true structural-equality semantics (two
// argument lists that print identically collide on purpose; two distinct
// *value.Type pointers describing the same type do not collide falsely).
func cacheKey(template *value.Value, args []*value.Type) (string, error) {
	argStrings := make([]string, len(args))
	for i, a := range args {
		argStrings[i] = a.String()
	}

	key := struct {
		Template uint64
		Args     []string
	}{Template: uint64(template.Id()), Args: argStrings}

	hash, err := structhash.Hash(key, 1)
	if err != nil {
		return "", fmt.Errorf("generic: hashing cache key: %w", err)
	}

	return hash, nil
}

// Instantiate produces (or returns the cached) instantiation of template
// with args (spec §4.4). template must be a generic class, interface,
// trait, or function; len(args) must equal the parameter count.
func (g *Instantiator) Instantiate(alloc Allocator, r types.Resolver, template *value.Value, args []*value.Type) (*value.Value, error) {
	params, _, ok := containerOf(template)
	if !ok {
		return nil, fmt.Errorf("generic: %s is not a generic-capable value", template.Kind())
	}

	if len(args) != len(params) {
		return nil, fmt.Errorf("generic: expected %d type argument(s), got %d", len(params), len(args))
	}

	if err := validate(r, params, args); err != nil {
		return nil, err
	}

	key, err := cacheKey(template, args)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	if cached, ok := g.cache[key]; ok {
		g.mu.Unlock()
		return cached, nil
	}
	g.mu.Unlock()

	inst, err := substituteTemplate(alloc, template, args)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	g.cache[key] = inst
	g.reverse[inst.Id()] = reverseEntry{template: template, args: args}
	g.mu.Unlock()

	return inst, nil
}

// Evict drops the cache entry for a now-unreachable instantiation (spec
// §4.4's reverse-lookup eviction); wired as a pkg/gc.Heap free hook by the
// runtime.
func (g *Instantiator) Evict(inst *value.Value) {
	g.mu.Lock()
	defer g.mu.Unlock()

	entry, ok := g.reverse[inst.Id()]
	if !ok {
		return
	}

	delete(g.reverse, inst.Id())

	key, err := cacheKey(entry.template, entry.args)
	if err != nil {
		return
	}

	delete(g.cache, key)
}

// TemplateOf returns the (template, args) an instantiation was produced
// from, or (nil, nil, false) if inst is not a known instantiation.
func (g *Instantiator) TemplateOf(inst *value.Value) (*value.Value, []*value.Type, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	entry, ok := g.reverse[inst.Id()]
	if !ok {
		return nil, nil, false
	}

	return entry.template, entry.args, true
}

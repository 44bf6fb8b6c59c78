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

// Package resolver implements the reference resolver of spec §4.3: walking
// a (name, generic-args) entry list against scope chains, module imports,
// alias unwrapping, generic instantiation, and the `this`/`base`
// pseudo-references, in the seven rules' stated order.
package resolver

import (
	"errors"
	"fmt"

	"github.com/slake-lang/slake/pkg/generic"
	"github.com/slake-lang/slake/pkg/types"
	"github.com/slake-lang/slake/pkg/value"
)

// ErrNoFrame is returned when `this` or `base` is referenced outside a
// method call frame (spec §4.3(6): "an error outside a method frame").
var ErrNoFrame = errors.New("resolver: this/base referenced outside a method frame")

// Frame is the narrow view of an interpreter call frame the resolver needs
// for `this`/`base` resolution (spec §4.3(5)(6)). The concrete
// implementation (pkg/interp's frame type) is injected here rather than
// imported, keeping this package beneath pkg/interp in the dependency
// order.
type Frame interface {
	// EnclosingScope is where an unqualified first entry starts its
	// outward walk when no explicit starting scope is given (spec
	// §4.3(1)).
	EnclosingScope() *value.Scope
	// EnclosingClass is the class the current method was defined in, used
	// by `base` (spec §4.3(5)); nil outside a method frame.
	EnclosingClass() *value.Value
	// This is the current frame's `this` slot (spec §4.3(6)); nil outside
	// a method frame.
	This() *value.Value
}

// NotFoundError reports a reference that could not be fully resolved,
// naming the deepest prefix that did resolve (spec §4.3(7)).
type NotFoundError struct {
	Ref     *value.RefPayload
	Depth   int
	Missing string
}

func (e *NotFoundError) Error() string {
	prefix := &value.RefPayload{Entries: e.Ref.Entries[:e.Depth]}

	if e.Depth == 0 {
		return fmt.Sprintf("resolver: %q not found", e.Missing)
	}

	return fmt.Sprintf("resolver: %q not found in %s", e.Missing, prefix.String())
}

// Resolver resolves symbolic references against the loaded value graph,
// instantiating generics (spec §4.4) as it goes, and also serves as the
// pkg/types.Resolver used to force deferred-type resolution on demand.
type Resolver struct {
	alloc generic.Allocator
	gen   *generic.Instantiator
}

// New constructs a resolver. alloc is ordinarily a pkg/gc.Heap (satisfying
// generic.Allocator); gen is the runtime's single generic-instantiation
// cache, shared across every resolution.
func New(alloc generic.Allocator, gen *generic.Instantiator) *Resolver {
	return &Resolver{alloc: alloc, gen: gen}
}

// ResolveType implements types.Resolver: it resolves t's deferred reference
// starting from t.DeferredScope, with no enclosing frame (deferred types
// are resolved both at load time and from arbitrary later call sites, none
// of which can assume a `this`/`base` context).
func (r *Resolver) ResolveType(t *value.Type) error {
	return t.Resolve(func(ref *value.Value, scope *value.Scope) (*value.Value, error) {
		rp, ok := ref.AsRef()
		if !ok {
			return nil, fmt.Errorf("resolver: deferred type's reference value is not a ref")
		}

		return r.Resolve(scope, nil, rp)
	})
}

// Resolve walks ref's entries in order, implementing spec §4.3's seven
// rules. startScope may be nil, in which case resolution of the first
// entry starts at frame's enclosing scope, walking outward to the root
// (rule 1); frame may also be nil when no method call is in progress (e.g.
// resolving a deferred type at load time), in which case `this`/`base` and
// a nil startScope both fail.
func (r *Resolver) Resolve(startScope *value.Scope, frame Frame, ref *value.RefPayload) (*value.Value, error) {
	if len(ref.Entries) == 0 {
		return nil, fmt.Errorf("resolver: empty reference")
	}

	var current *value.Value

	for i, entry := range ref.Entries {
		next, err := r.resolveEntry(i, entry, startScope, frame, current)
		if err != nil {
			return nil, err
		}

		if next == nil {
			return nil, &NotFoundError{Ref: ref, Depth: i, Missing: entry.Name}
		}

		next = value.Unwrap(next) // rule 3

		if len(entry.GenericArgs) > 0 {
			inst, err := r.instantiate(next, entry.GenericArgs)
			if err != nil {
				return nil, fmt.Errorf("resolver: instantiating %q: %w", entry.Name, err)
			}

			next = inst
		}

		current = next // rule 2 falls out naturally: next iteration looks up inside current's scope
	}

	return current, nil
}

// resolveEntry finds the i-th entry's raw (pre-unwrap, pre-instantiation)
// match: `this`/`base` at position 0 (rules 5, 6), an outward scope-chain
// walk at position 0 when no container is yet established (rule 1), or a
// single-scope lookup inside the previously resolved container otherwise.
func (r *Resolver) resolveEntry(i int, entry value.RefEntry, startScope *value.Scope, frame Frame, current *value.Value) (*value.Value, error) {
	if i == 0 {
		switch entry.Name {
		case "this":
			if frame == nil || frame.This() == nil {
				return nil, ErrNoFrame
			}

			return frame.This(), nil
		case "base":
			if frame == nil || frame.EnclosingClass() == nil {
				return nil, ErrNoFrame
			}

			class, ok := value.Unwrap(frame.EnclosingClass()).AsClass()
			if !ok || class.Parent == nil {
				return nil, fmt.Errorf("resolver: enclosing class has no parent for `base`")
			}

			if err := r.ResolveType(class.Parent); err != nil {
				return nil, err
			}

			return class.Parent.Def, nil
		}

		if startScope != nil {
			if e, ok := startScope.LookupChain(entry.Name); ok {
				return e.Val, nil
			}

			return nil, nil
		}

		if frame != nil {
			if e, ok := frame.EnclosingScope().LookupChain(entry.Name); ok {
				return e.Val, nil
			}
		}

		return nil, nil
	}

	scope := value.Unwrap(current).Scope()
	if scope == nil {
		return nil, nil
	}

	if e, ok := scope.Lookup(entry.Name); ok {
		return e.Val, nil
	}

	return nil, nil
}

// instantiate delegates to the shared instantiator (spec §4.3(4)), which
// checks template's kind-specific generic-parameter count against the
// supplied argument list.
func (r *Resolver) instantiate(template *value.Value, args []*value.Type) (*value.Value, error) {
	return r.gen.Instantiate(r.alloc, r, template, args)
}

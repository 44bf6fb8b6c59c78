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

// Package loader turns a decoded pkg/slx.Module into an installed
// pkg/value graph (spec §4.2): walking/creating the root namespace path,
// resolving imports through a host-supplied locator, and building every
// scope member with deferred types left for pkg/resolver to settle lazily.
package loader

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/slake-lang/slake/pkg/gc"
	"github.com/slake-lang/slake/pkg/slx"
	"github.com/slake-lang/slake/pkg/value"
)

// LoadFlags gates optional loader behavior (spec §4.2's {no-import,
// no-reload, no-conflict}).
type LoadFlags uint8

const (
	// NoImport skips resolving and installing import records entirely.
	NoImport LoadFlags = 1 << iota
	// NoReload forbids re-loading a module already installed at the same
	// path; the existing module is returned instead.
	NoReload
	// NoConflict fails if any value (of any kind) already exists at the
	// target path.
	NoConflict
)

// Locator resolves an import's dotted path to the raw SLX bytes of the
// module that declares it (spec §4.2, "resolve the target through the
// host locator"). Implemented by the host embedder (cmd/slake's
// dirLocator) and installed through runtime.SetLocator.
type Locator interface {
	Locate(path string) ([]byte, error)
}

// Loader installs decoded SLX modules into a heap's root namespace.
type Loader struct {
	heap    *gc.Heap
	locator Locator
}

// New constructs a loader backed by heap for allocation and locator for
// resolving import targets. locator may be nil if the caller never loads
// a module with import records; with a nil locator, loading a module that
// has import records fails unless NoImport is set.
func New(heap *gc.Heap, locator Locator) *Loader {
	return &Loader{heap: heap, locator: locator}
}

// Load decodes data as an SLX module and installs it (spec §4.2's
// algorithm). Returns the installed (or, under NoReload, pre-existing)
// module value.
func (l *Loader) Load(data []byte, flags LoadFlags) (*value.Value, error) {
	mod, err := slx.DecodeModule(data)
	if err != nil {
		return nil, fmt.Errorf("loader: decoding module: %w", err)
	}

	return l.install(mod, flags)
}

func (l *Loader) install(mod *slx.Module, flags LoadFlags) (*value.Value, error) {
	var path []string
	if mod.Name != nil {
		path = refPathNames(mod.Name)
	}

	installScope, parentForNew := l.heap.Root().Scope(), (*value.Value)(nil)

	if len(path) > 0 {
		for _, seg := range path[:len(path)-1] {
			installScope, parentForNew = l.intermediateModule(installScope, parentForNew, seg)
		}
	}

	var name string
	if len(path) > 0 {
		name = path[len(path)-1]
	}

	if existing, ok := installScope.Lookup(name); name != "" && ok {
		if flags&NoConflict != 0 {
			return nil, fmt.Errorf("loader: conflict installing module %q: a value already exists there", strings.Join(path, "."))
		}

		if flags&NoReload != 0 {
			return value.Unwrap(existing.Val), nil
		}
	}

	module := value.NewModule(l.heap.NextID(), name, parentForNew)
	l.heap.Track(module)
	module.Scope().Parent = installScope

	if name != "" {
		installScope.Define(name, value.Public, module)
	}

	mp, _ := module.AsModule()

	if flags&NoImport == 0 {
		for _, imp := range mod.Imports {
			if err := l.installImport(module, mp, imp, flags); err != nil {
				return nil, err
			}
		}
	}

	l.loadScope(mod.Scope, module.Scope(), module)

	return module, nil
}

// intermediateModule finds-or-creates the module named seg directly under
// scope (spec §4.2, "walk the root namespace creating intermediate module
// values for each path segment"), returning the new installation scope and
// parent pointer for the next segment.
func (l *Loader) intermediateModule(scope *value.Scope, parent *value.Value, seg string) (*value.Scope, *value.Value) {
	if e, ok := scope.Lookup(seg); ok {
		if m := value.Unwrap(e.Val); m.Kind() == value.KindModule {
			return m.Scope(), m
		}
	}

	m := value.NewModule(l.heap.NextID(), seg, parent)
	l.heap.Track(m)
	m.Scope().Parent = scope
	scope.Define(seg, value.Public, m)

	return m.Scope(), m
}

// installImport resolves one import record through the locator, loads the
// target with NoReload forced, and installs an alias under the declared
// local name (spec §4.2).
func (l *Loader) installImport(module *value.Value, mp *value.ModulePayload, imp slx.ImportRecord, flags LoadFlags) error {
	if l.locator == nil {
		return fmt.Errorf("loader: module %q imports %q but no locator is configured", module.QualifiedName(), imp.Alias)
	}

	path := strings.Join(refPathNames(&imp.Target), ".")

	data, err := l.locator.Locate(path)
	if err != nil {
		return fmt.Errorf("loader: locating import %q: %w", path, err)
	}

	if data == nil {
		return fmt.Errorf("loader: locator returned nothing for required import %q", path)
	}

	target, err := l.Load(data, flags|NoReload)
	if err != nil {
		return fmt.Errorf("loader: loading import %q: %w", path, err)
	}

	alias := value.NewAlias(l.heap.NextID(), target)
	l.heap.Track(alias)
	module.Scope().Define(imp.Alias, value.Public, alias)
	mp.Imports[imp.Alias] = target

	log.Debugf("slake: module %q imports %q as %q", module.QualifiedName(), path, imp.Alias)

	return nil
}

func refPathNames(rd *slx.RefDescriptor) []string {
	names := make([]string, len(rd.Entries))
	for i, e := range rd.Entries {
		names[i] = e.Name
	}

	return names
}

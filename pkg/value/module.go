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

// ModulePayload is the Kind-specific data of a KindModule value (spec §3):
// a scope (held on the owning Value, not here) plus an imports map from
// local alias name to the imported module/member reference.
type ModulePayload struct {
	// Name is this module's simple (non-qualified) path segment.
	Name string
	// Parent is the enclosing module in the root namespace, or nil if this
	// module is installed directly under the root.
	Parent *Value
	// Imports maps a local alias name to the value it was imported as
	// (spec §4.2: "install an alias under the declared local name").
	Imports map[string]*Value
}

func (m *ModulePayload) qualifiedName() string {
	if m.Parent == nil {
		return m.Name
	}

	return m.Parent.QualifiedName() + "." + m.Name
}

// NewModule constructs a module value with an empty scope and import map.
func NewModule(id Id, name string, parent *Value) *Value {
	v := New(id, KindModule, nil, &ModulePayload{Name: name, Parent: parent, Imports: map[string]*Value{}})
	v.SetScope(NewScope(nil))

	return v
}

// AsModule returns this value's ModulePayload, or (nil, false) if it is not
// a module.
func (v *Value) AsModule() (*ModulePayload, bool) {
	m, ok := v.payload.(*ModulePayload)
	return m, ok
}

// RootPayload is the Kind-specific data of the single KindRoot value that
// anchors every runtime instance (spec §3, "root: Scope of top-level
// modules. One per runtime instance").
type RootPayload struct{}

func (r *RootPayload) qualifiedName() string { return "" }

// NewRoot constructs the root value for a fresh runtime instance.
func NewRoot(id Id) *Value {
	v := New(id, KindRoot, nil, &RootPayload{})
	v.SetScope(NewScope(nil))

	return v
}

// AsRoot returns this value's RootPayload, or (nil, false) if it is not the
// root.
func (v *Value) AsRoot() (*RootPayload, bool) {
	r, ok := v.payload.(*RootPayload)
	return r, ok
}

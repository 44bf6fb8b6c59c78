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

// containerBase is shared by class/interface/trait payloads: a simple name,
// the owning module (for qualified-name rendering and scope-chain walks),
// and zero or more generic parameters.
type containerBase struct {
	Name          string
	Module        *Value
	GenericParams []GenericParam
}

func (c *containerBase) qualifiedName() string {
	if c.Module == nil {
		return c.Name
	}

	return c.Module.QualifiedName() + "." + c.Name
}

// ClassPayload is the Kind-specific data of a KindClass value (spec §3).
// Parent and Interfaces are stored as (possibly still-deferred) Types,
// resolved lazily on first use (spec §4.2, §9 "Deferred type loading").
type ClassPayload struct {
	containerBase
	Access Access
	// Parent is this class's superclass, or nil for a class with no explicit
	// parent. A deferred Type here is resolved via pkg/resolver on first
	// query (Implements/HasTrait/field lookup walking up the parent chain).
	Parent *Type
	// Interfaces lists the interfaces this class declares as implemented
	// (spec §4.5, Implements).
	Interfaces []*Type
}

// NewClass constructs a class value. The caller attaches the member scope
// separately via SetScope once the loader has populated it.
func NewClass(id Id, name string, module *Value, access Access) *Value {
	return New(id, KindClass, nil, &ClassPayload{containerBase: containerBase{Name: name, Module: module}, Access: access})
}

// AsClass returns this value's ClassPayload, or (nil, false) if it is not a
// class.
func (v *Value) AsClass() (*ClassPayload, bool) {
	c, ok := v.payload.(*ClassPayload)
	return c, ok
}

// InterfacePayload is the Kind-specific data of a KindInterface value.
type InterfacePayload struct {
	containerBase
	// Parents lists the interfaces this interface extends.
	Parents []*Type
}

// NewInterface constructs an interface value.
func NewInterface(id Id, name string, module *Value) *Value {
	return New(id, KindInterface, nil, &InterfacePayload{containerBase: containerBase{Name: name, Module: module}})
}

// AsInterface returns this value's InterfacePayload, or (nil, false).
func (v *Value) AsInterface() (*InterfacePayload, bool) {
	i, ok := v.payload.(*InterfacePayload)
	return i, ok
}

// TraitPayload is the Kind-specific data of a KindTrait value (spec §4.5,
// HasTrait).
type TraitPayload struct {
	containerBase
	// Parents lists the traits this trait extends; HasTrait requires all of
	// them to be satisfied transitively too.
	Parents []*Type
}

// NewTrait constructs a trait value.
func NewTrait(id Id, name string, module *Value) *Value {
	return New(id, KindTrait, nil, &TraitPayload{containerBase: containerBase{Name: name, Module: module}})
}

// AsTrait returns this value's TraitPayload, or (nil, false).
func (v *Value) AsTrait() (*TraitPayload, bool) {
	t, ok := v.payload.(*TraitPayload)
	return t, ok
}

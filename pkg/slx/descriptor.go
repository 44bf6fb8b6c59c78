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
package slx

import (
	"github.com/slake-lang/slake/pkg/opcode"
	"github.com/slake-lang/slake/pkg/value"
)

// Module is the fully-decoded, not-yet-installed contents of one SLX file
// (spec §4.1). pkg/loader walks a Module to allocate the corresponding
// pkg/value graph; nothing here is itself a live runtime value.
type Module struct {
	Header  Header
	Name    *RefDescriptor
	Imports []ImportRecord
	Scope   ScopeBlock
}

// ImportRecord is one entry of the header's import-count-prefixed list
// (spec §4.1): a length-prefixed local alias plus a reference naming the
// imported module.
type ImportRecord struct {
	Alias  string
	Target RefDescriptor
}

// RefEntryDescriptor is one (name, generic-args) step of an encoded
// reference chain (spec §4.1, "a chain of entries, each with a
// continuation flag, name length, generic-argument count, and the generic
// arguments themselves").
type RefEntryDescriptor struct {
	Name        string
	GenericArgs []TypeDescriptor
}

// RefDescriptor is a decoded reference value prior to resolution.
type RefDescriptor struct {
	Entries []RefEntryDescriptor
}

// TypeDescriptor is a decoded type encoding (spec §4.1, "Type encoding").
type TypeDescriptor struct {
	Tag value.Kind
	// Elem is set when Tag == KindArray.
	Elem *TypeDescriptor
	// Key/Val are set when Tag == KindMap.
	Key *TypeDescriptor
	Val *TypeDescriptor
	// Ref is set when Tag is class/interface/trait/object: "object carries a
	// reference to the defining type".
	Ref *RefDescriptor
	// ParamIndex is set when Tag == KindGenericArg.
	ParamIndex uint32
}

// ValueDescriptor is a decoded instruction operand (spec §4.1, "a tag byte
// plus a tag-dependent payload").
type ValueDescriptor struct {
	Kind value.Kind
	// Literal holds the raw Go value for a literal kind (bool, string,
	// []rune, rune, or one of the fixed-width int/uint/float types).
	Literal any
	// Ref is set when Kind == KindRef.
	Ref *RefDescriptor
	// TypeName is set when Kind == KindTypeName.
	TypeName *TypeDescriptor
	// Index/Reg/Deref are set for the three slot-reference kinds
	// (lvar_ref/arg_ref use Index; reg_ref uses Reg).
	Index uint32
	Reg   value.Register
	Deref bool
}

// InstructionDescriptor is one decoded instruction: a packed opcode +
// operand-count header followed by that many value descriptors (spec
// §4.1).
type InstructionDescriptor struct {
	Op       opcode.Opcode
	Operands []ValueDescriptor
}

// SourceLocDescriptor is one entry of a function's trailing source-location
// table (spec §4.1).
type SourceLocDescriptor struct {
	Offset    uint32
	Line      uint32
	Column    uint32
	EndLine   uint32
	EndColumn uint32
}

// ParamDescriptor names and types one formal parameter.
type ParamDescriptor struct {
	Name string
	Type TypeDescriptor
}

// QualifierDescriptor is one generic-parameter constraint (SPEC_FULL.md
// supplemented feature 2).
type QualifierDescriptor struct {
	Kind   value.QualifierKind
	Target TypeDescriptor
}

// GenericParamDescriptor is one formal generic parameter.
type GenericParamDescriptor struct {
	Name       string
	Qualifiers []QualifierDescriptor
}

// VarEntry decodes one member of a scope block's variables section.
type VarEntry struct {
	Access value.Access
	Name   string
	Type   TypeDescriptor
}

// FuncEntry decodes one member of a scope block's functions section.
type FuncEntry struct {
	Access  value.Access
	Name    string
	Return  TypeDescriptor
	Params  []ParamDescriptor
	IsAsync bool
	Body    []InstructionDescriptor
	Source  []SourceLocDescriptor
}

// ClassEntry decodes one member of a scope block's classes section.
type ClassEntry struct {
	Access        value.Access
	Name          string
	GenericParams []GenericParamDescriptor
	// Parent is nil for a class with no explicit superclass.
	Parent     *RefDescriptor
	Interfaces []RefDescriptor
	Scope      ScopeBlock
}

// InterfaceEntry decodes one member of a scope block's interfaces section.
type InterfaceEntry struct {
	Access        value.Access
	Name          string
	GenericParams []GenericParamDescriptor
	Parents       []RefDescriptor
	Scope         ScopeBlock
}

// TraitEntry decodes one member of a scope block's traits section.
type TraitEntry struct {
	Access        value.Access
	Name          string
	GenericParams []GenericParamDescriptor
	Parents       []RefDescriptor
	Scope         ScopeBlock
}

// ScopeBlock is the decoded form of spec §4.1's "five contiguous sections,
// each prefixed by a 32-bit count: variables, functions, classes,
// interfaces, traits".
type ScopeBlock struct {
	Variables  []VarEntry
	Functions  []FuncEntry
	Classes    []ClassEntry
	Interfaces []InterfaceEntry
	Traits     []TraitEntry
}

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

// Package value implements the Slake value graph (spec §2.2, §3): the
// in-memory representation of modules, classes, objects, functions and
// every other runtime entity, as a single tagged-union Value type rather
// than a class hierarchy (see spec §9, "Polymorphism over value kinds").
package value

// Kind is the closed set of type tags from spec §3. It doubles as the
// discriminant of a Value (what kind of entity this is) and as the tag of a
// Type descriptor (what kind of value a slot may hold).
type Kind uint8

const (
	// KindNone is the tag of the "no value" / null literal.
	KindNone Kind = iota
	KindI8
	KindI16
	KindI32
	KindI64
	KindU8
	KindU16
	KindU32
	KindU64
	KindF32
	KindF64
	KindBool
	KindString
	KindWString
	KindChar
	KindWChar
	KindFn
	KindModule
	KindVar
	KindArray
	KindMap
	KindClass
	KindInterface
	KindTrait
	KindObject
	KindAny
	KindAlias
	KindRef
	KindGenericArg
	KindRoot
	KindTypeName
	KindContext
	KindLVarRef
	KindRegRef
	KindArgRef

	kindCount
)

var kindNames = [kindCount]string{
	KindNone: "none", KindI8: "i8", KindI16: "i16", KindI32: "i32", KindI64: "i64",
	KindU8: "u8", KindU16: "u16", KindU32: "u32", KindU64: "u64",
	KindF32: "f32", KindF64: "f64", KindBool: "bool", KindString: "string",
	KindWString: "wstring", KindChar: "char", KindWChar: "wchar", KindFn: "fn",
	KindModule: "module", KindVar: "var", KindArray: "array", KindMap: "map",
	KindClass: "class", KindInterface: "interface", KindTrait: "trait",
	KindObject: "object", KindAny: "any", KindAlias: "alias", KindRef: "ref",
	KindGenericArg: "generic_arg", KindRoot: "root", KindTypeName: "typename",
	KindContext: "context", KindLVarRef: "lvar_ref", KindRegRef: "reg_ref",
	KindArgRef: "arg_ref",
}

// String renders the tag's canonical lower-case name, matching the spelling
// used in spec.md (e.g. "generic_arg", not "GenericArg").
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}

	return "invalid"
}

// IsInteger reports whether k is one of the fixed-width signed or unsigned
// integer tags.
func (k Kind) IsInteger() bool {
	return k >= KindI8 && k <= KindU64
}

// IsSignedInteger reports whether k is i8/i16/i32/i64.
func (k Kind) IsSignedInteger() bool {
	return k >= KindI8 && k <= KindI64
}

// IsUnsignedInteger reports whether k is u8/u16/u32/u64.
func (k Kind) IsUnsignedInteger() bool {
	return k >= KindU8 && k <= KindU64
}

// IsFloat reports whether k is f32/f64.
func (k Kind) IsFloat() bool {
	return k == KindF32 || k == KindF64
}

// IsNumeric reports whether k is an integer or floating-point tag.
func (k Kind) IsNumeric() bool {
	return k.IsInteger() || k.IsFloat()
}

// IsReference reports whether values of this kind carry reference-type
// (as opposed to value-type) identity semantics for SEQ/SNEQ (spec §4.7).
func (k Kind) IsReference() bool {
	switch k {
	case KindModule, KindClass, KindInterface, KindTrait, KindObject, KindFn,
		KindArray, KindMap, KindContext, KindRoot, KindAlias, KindVar:
		return true
	default:
		return false
	}
}

// IsSlotRef reports whether k is one of the three slot-reference kinds
// (register/local-variable/argument) used as instruction operands (spec
// §4.1, §4.7).
func (k Kind) IsSlotRef() bool {
	return k == KindLVarRef || k == KindRegRef || k == KindArgRef
}

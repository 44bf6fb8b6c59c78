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

// Literal values (spec §3 table: "Integer/float/bool/string literal") store
// their raw Go value directly as the payload; no wrapper struct is needed
// since these kinds never carry a scope or further substructure.

// NewNone constructs the "none" literal (Slake's null).
func NewNone(id Id) *Value { return New(id, KindNone, Simple(KindNone), nil) }

// NewI64 and friends construct a literal of the matching fixed-width tag,
// storing the narrowed Go value. Construction does not check for overflow —
// callers (the loader decoding literal operands, or CAST) are expected to
// have already range-checked per the declared width.
func NewI8(id Id, x int8) *Value   { return New(id, KindI8, Simple(KindI8), x) }
func NewI16(id Id, x int16) *Value { return New(id, KindI16, Simple(KindI16), x) }
func NewI32(id Id, x int32) *Value { return New(id, KindI32, Simple(KindI32), x) }
func NewI64(id Id, x int64) *Value { return New(id, KindI64, Simple(KindI64), x) }

func NewU8(id Id, x uint8) *Value   { return New(id, KindU8, Simple(KindU8), x) }
func NewU16(id Id, x uint16) *Value { return New(id, KindU16, Simple(KindU16), x) }
func NewU32(id Id, x uint32) *Value { return New(id, KindU32, Simple(KindU32), x) }
func NewU64(id Id, x uint64) *Value { return New(id, KindU64, Simple(KindU64), x) }

func NewF32(id Id, x float32) *Value { return New(id, KindF32, Simple(KindF32), x) }
func NewF64(id Id, x float64) *Value { return New(id, KindF64, Simple(KindF64), x) }

func NewBool(id Id, x bool) *Value { return New(id, KindBool, Simple(KindBool), x) }

// NewString constructs a string literal from owned bytes (spec §3: "string
// is owned bytes").
func NewString(id Id, s string) *Value { return New(id, KindString, Simple(KindString), s) }

// NewWString constructs a wide-string literal (SPEC_FULL.md supplemented
// feature 6), stored as a rune slice so each element is a full code point
// rather than a UTF-8 byte.
func NewWString(id Id, s []rune) *Value { return New(id, KindWString, Simple(KindWString), s) }

func NewChar(id Id, c rune) *Value  { return New(id, KindChar, Simple(KindChar), c) }
func NewWChar(id Id, c rune) *Value { return New(id, KindWChar, Simple(KindWChar), c) }

// Int64 reads any signed-integer-kinded literal as an int64. Panics if v is
// not a signed-integer kind; callers should check v.Kind().IsSignedInteger()
// first (or use interp's numeric coercion helpers).
func (v *Value) Int64() int64 {
	switch v.kind {
	case KindI8:
		return int64(v.payload.(int8))
	case KindI16:
		return int64(v.payload.(int16))
	case KindI32:
		return int64(v.payload.(int32))
	case KindI64:
		return v.payload.(int64)
	default:
		panic("not a signed integer value: " + v.kind.String())
	}
}

// Uint64 reads any unsigned-integer-kinded literal as a uint64.
func (v *Value) Uint64() uint64 {
	switch v.kind {
	case KindU8:
		return uint64(v.payload.(uint8))
	case KindU16:
		return uint64(v.payload.(uint16))
	case KindU32:
		return uint64(v.payload.(uint32))
	case KindU64:
		return v.payload.(uint64)
	default:
		panic("not an unsigned integer value: " + v.kind.String())
	}
}

// Float64 reads an f32 or f64 literal as a float64.
func (v *Value) Float64() float64 {
	switch v.kind {
	case KindF32:
		return float64(v.payload.(float32))
	case KindF64:
		return v.payload.(float64)
	default:
		panic("not a float value: " + v.kind.String())
	}
}

// Bool reads a bool literal.
func (v *Value) Bool() bool { return v.payload.(bool) }

// Str reads a string literal.
func (v *Value) Str() string { return v.payload.(string) }

// WStr reads a wstring literal.
func (v *Value) WStr() []rune { return v.payload.([]rune) }

// Rune reads a char or wchar literal.
func (v *Value) Rune() rune { return v.payload.(rune) }

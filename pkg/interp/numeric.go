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
package interp

import "github.com/slake-lang/slake/pkg/value"

// newNumeric constructs and tracks a literal of kind carrying a signed,
// unsigned or floating value, narrowed to the matching Go width. Used by
// the arithmetic/comparison opcodes to materialise a result value of the
// same kind as its operands.
func (i *Interp) newNumeric(kind value.Kind, signed int64, unsigned uint64, float float64) *value.Value {
	id := i.heap.NextID()

	var v *value.Value

	switch kind {
	case value.KindI8:
		v = value.NewI8(id, int8(signed))
	case value.KindI16:
		v = value.NewI16(id, int16(signed))
	case value.KindI32:
		v = value.NewI32(id, int32(signed))
	case value.KindI64:
		v = value.NewI64(id, signed)
	case value.KindU8:
		v = value.NewU8(id, uint8(unsigned))
	case value.KindU16:
		v = value.NewU16(id, uint16(unsigned))
	case value.KindU32:
		v = value.NewU32(id, uint32(unsigned))
	case value.KindU64:
		v = value.NewU64(id, unsigned)
	case value.KindF32:
		v = value.NewF32(id, float32(float))
	case value.KindF64:
		v = value.NewF64(id, float)
	default:
		v = value.NewNone(id)
	}

	i.heap.Track(v)

	return v
}

func (i *Interp) newBool(b bool) *value.Value {
	v := value.NewBool(i.heap.NextID(), b)
	i.heap.Track(v)

	return v
}

// asSigned/asUnsigned/asFloat read a numeric literal into a common Go
// width regardless of its exact kind, for use by operators whose result
// kind is fixed independently of the operand kind (e.g. comparisons).
func asSigned(v *value.Value) int64 {
	switch {
	case v.Kind().IsSignedInteger():
		return v.Int64()
	case v.Kind().IsUnsignedInteger():
		return int64(v.Uint64())
	case v.Kind().IsFloat():
		return int64(v.Float64())
	default:
		return 0
	}
}

func asUnsigned(v *value.Value) uint64 {
	switch {
	case v.Kind().IsUnsignedInteger():
		return v.Uint64()
	case v.Kind().IsSignedInteger():
		return uint64(v.Int64())
	case v.Kind().IsFloat():
		return uint64(v.Float64())
	default:
		return 0
	}
}

func asFloat(v *value.Value) float64 {
	switch {
	case v.Kind().IsFloat():
		return v.Float64()
	case v.Kind().IsSignedInteger():
		return float64(v.Int64())
	case v.Kind().IsUnsignedInteger():
		return float64(v.Uint64())
	default:
		return 0
	}
}

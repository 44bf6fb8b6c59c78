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

// execSubscript implements AT dst, container, key: array index or map
// lookup (spec §4.7).
func (i *Interp) execSubscript(f *Fiber, cur *MajorFrame, insn value.Instruction) error {
	container, err := i.evalOperand(f, cur, insn.Operands[1])
	if err != nil {
		return err
	}

	key, err := i.evalOperand(f, cur, insn.Operands[2])
	if err != nil {
		return err
	}

	container = value.Unwrap(container)

	var result *value.Value

	switch container.Kind() {
	case value.KindArray:
		a, _ := container.AsArray()

		idx := int(asSigned(key))
		if idx < 0 || idx >= len(a.Items) {
			return newError(ErrInvalidSubscript, "array index %d out of range (len %d)", idx, len(a.Items))
		}

		result = a.Items[idx]
	case value.KindMap:
		m, _ := container.AsMap()

		v, ok := m.Get(key)
		if !ok {
			return newError(ErrInvalidSubscript, "no entry for key in map")
		}

		result = v
	default:
		return newError(ErrInvalidSubscript, "%s is not subscriptable", container.Kind())
	}

	return i.storeOperand(f, cur, insn.Operands[0], result)
}

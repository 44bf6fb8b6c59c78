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

import "github.com/slake-lang/slake/pkg/opcode"

// Instruction is opcode + 0..3 operands, each itself a Value (spec §3,
// §4.1): a literal evaluates to itself; a ref resolves through the
// resolver; a slot-ref (lvar_ref/reg_ref/arg_ref) addresses a frame slot,
// optionally dereferenced (spec §4.7, "Operand semantics").
type Instruction struct {
	Op       opcode.Opcode
	Operands [opcode.MaxOperands]*Value
	N        uint8
}

// NewInstruction constructs an instruction from an opcode and a variable
// number of operands (0..3).
func NewInstruction(op opcode.Opcode, operands ...*Value) Instruction {
	if len(operands) > opcode.MaxOperands {
		panic("too many operands")
	}

	var insn Instruction

	insn.Op = op
	insn.N = uint8(len(operands))
	copy(insn.Operands[:], operands)

	return insn
}

// SourceLoc maps an instruction offset to a (line, column) range in the
// original source, per the trailing source-location descriptors of spec
// §4.1 (supplemented feature, see SPEC_FULL.md item 3).
type SourceLoc struct {
	Offset     uint32
	Line       uint32
	Column     uint32
	EndLine    uint32
	EndColumn  uint32
}

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

// Register names the fixed-size per-fiber register bank (spec §4.7). The
// bank does not grow dynamically — these are compile-time slot indices, not
// runtime-allocated storage (spec §9, "Register bank").
type Register uint8

const (
	TMP0 Register = iota
	TMP1
	R0
	R1
	R2
	R3
	RR
	RTHIS
	RXCPT

	// NumRegisters is the fixed size of the register bank.
	NumRegisters
)

var registerNames = [NumRegisters]string{
	TMP0: "TMP0", TMP1: "TMP1", R0: "R0", R1: "R1", R2: "R2", R3: "R3",
	RR: "RR", RTHIS: "RTHIS", RXCPT: "RXCPT",
}

// String renders the register's mnemonic name.
func (r Register) String() string {
	if r < NumRegisters {
		return registerNames[r]
	}

	return "INVALID_REG"
}

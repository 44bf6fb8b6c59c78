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

import (
	"fmt"

	"github.com/slake-lang/slake/pkg/value"
)

// ErrorKind is the closed taxonomy of runtime errors raised by the
// interpreter (spec §7).
type ErrorKind uint8

const (
	ErrNotFound ErrorKind = iota
	ErrMismatchedType
	ErrIncompatibleType
	ErrInvalidOpcode
	ErrInvalidOperands
	ErrInvalidArguments
	ErrAccessViolation
	ErrNullReference
	ErrFrameBoundary
	ErrStackOverflow
	ErrUncaughtException
	ErrAborted
	ErrInvalidSubscript
	ErrLoader
)

var errorKindNames = map[ErrorKind]string{
	ErrNotFound:           "not-found",
	ErrMismatchedType:     "mismatched-type",
	ErrIncompatibleType:   "incompatible-type",
	ErrInvalidOpcode:      "invalid-opcode",
	ErrInvalidOperands:    "invalid-operands",
	ErrInvalidArguments:   "invalid-arguments",
	ErrAccessViolation:    "access-violation",
	ErrNullReference:      "null-reference",
	ErrFrameBoundary:      "frame-boundary",
	ErrStackOverflow:      "stack-overflow",
	ErrUncaughtException:  "uncaught-exception",
	ErrAborted:            "aborted",
	ErrInvalidSubscript:   "invalid-subscript",
	ErrLoader:             "loader",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}

	return "unknown"
}

// RuntimeError is a structured error surfaced by the interpreter (spec §7):
// a kind, a message, and an optional value payload (e.g. the thrown value,
// or the reference that failed to resolve) for diagnostics.
//
// Only a value raised by an explicit THROW is offered to PUSHXH handlers;
// an error the interpreter raises itself (bad operand, frame boundary,
// stack overflow, ...) is not catchable in bytecode and terminates the
// fiber. Thrown carries the value bound to RXCPT when this error reports an
// explicit THROW that no handler caught, and is nil for errors synthesized
// by the interpreter itself.
type RuntimeError struct {
	Kind    ErrorKind
	Message string
	Thrown  *value.Value
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("slake: %s: %s", e.Kind, e.Message)
}

// newError constructs a RuntimeError with a formatted message.
func newError(kind ErrorKind, format string, args ...any) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

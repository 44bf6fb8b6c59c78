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
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/slake-lang/slake/pkg/opcode"
	"github.com/slake-lang/slake/pkg/value"
)

// Encoder writes a Module back out to the SLX byte encoding. It is the
// mirror of Decoder, used by the test suite to check the round-trip
// property of spec §8 ("For every SLX file the loader accepts, re-emitting
// it ... and re-loading yields an equal value graph") and by any future
// tooling that needs to re-serialize an in-memory module — the assembler
// and disassembler that would normally own this in a full toolchain are
// external collaborators (spec §1, Non-goals).
type Encoder struct {
	buf bytes.Buffer
}

// NewEncoder constructs an empty Encoder.
func NewEncoder() *Encoder { return &Encoder{} }

// EncodeModule renders m as a complete SLX byte stream.
func EncodeModule(m *Module) ([]byte, error) {
	e := NewEncoder()
	if err := e.Encode(m); err != nil {
		return nil, err
	}

	return e.buf.Bytes(), nil
}

// Encode writes m's header, optional name, imports, and top-level scope
// block.
func (e *Encoder) Encode(m *Module) error {
	m.Header.ImportCount = uint32(len(m.Imports))

	if m.Name != nil {
		m.Header.Flags |= FlagModuleNamePresent
	} else {
		m.Header.Flags &^= FlagModuleNamePresent
	}

	headerBytes, err := m.Header.MarshalBinary()
	if err != nil {
		return err
	}

	e.buf.Write(headerBytes)

	if m.Name != nil {
		e.encodeRef(m.Name)
	}

	for _, imp := range m.Imports {
		e.writeString(imp.Alias)
		e.encodeRef(&imp.Target)
	}

	e.encodeScopeBlock(&m.Scope)

	return nil
}

func (e *Encoder) writeByte(b byte) { e.buf.WriteByte(b) }

func (e *Encoder) writeU16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	e.buf.Write(b[:])
}

func (e *Encoder) writeU32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	e.buf.Write(b[:])
}

func (e *Encoder) writeU64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	e.buf.Write(b[:])
}

func (e *Encoder) writeBool(b bool) {
	if b {
		e.writeByte(1)
	} else {
		e.writeByte(0)
	}
}

func (e *Encoder) writeString(s string) {
	e.writeU32(uint32(len(s)))
	e.buf.WriteString(s)
}

func (e *Encoder) encodeRef(r *RefDescriptor) {
	for i, entry := range r.Entries {
		e.writeBool(i < len(r.Entries)-1)
		e.writeString(entry.Name)
		e.writeU32(uint32(len(entry.GenericArgs)))

		for j := range entry.GenericArgs {
			e.encodeType(&entry.GenericArgs[j])
		}
	}
}

func (e *Encoder) encodeType(t *TypeDescriptor) {
	e.writeByte(byte(t.Tag))

	switch t.Tag {
	case value.KindArray:
		e.encodeType(t.Elem)
	case value.KindMap:
		e.encodeType(t.Key)
		e.encodeType(t.Val)
	case value.KindClass, value.KindInterface, value.KindTrait, value.KindObject:
		e.encodeRef(t.Ref)
	case value.KindGenericArg:
		e.writeU32(t.ParamIndex)
	}
}

func (e *Encoder) encodeValueDescriptor(vd *ValueDescriptor) error {
	e.writeByte(byte(vd.Kind))

	switch vd.Kind {
	case value.KindNone:
	case value.KindI8:
		e.writeByte(byte(vd.Literal.(int8)))
	case value.KindI16:
		e.writeU16(uint16(vd.Literal.(int16)))
	case value.KindI32:
		e.writeU32(uint32(vd.Literal.(int32)))
	case value.KindI64:
		e.writeU64(uint64(vd.Literal.(int64)))
	case value.KindU8:
		e.writeByte(vd.Literal.(uint8))
	case value.KindU16:
		e.writeU16(vd.Literal.(uint16))
	case value.KindU32:
		e.writeU32(vd.Literal.(uint32))
	case value.KindU64:
		e.writeU64(vd.Literal.(uint64))
	case value.KindF32:
		e.writeU32(encodeFloat32(vd.Literal.(float32)))
	case value.KindF64:
		e.writeU64(encodeFloat64(vd.Literal.(float64)))
	case value.KindBool:
		e.writeBool(vd.Literal.(bool))
	case value.KindString:
		e.writeString(vd.Literal.(string))
	case value.KindWString:
		runes := vd.Literal.([]rune)
		e.writeU32(uint32(len(runes)))

		for _, r := range runes {
			e.writeU32(uint32(r))
		}
	case value.KindChar, value.KindWChar:
		e.writeU32(uint32(vd.Literal.(rune)))
	case value.KindRef:
		e.encodeRef(vd.Ref)
	case value.KindTypeName:
		e.encodeType(vd.TypeName)
	case value.KindLVarRef, value.KindArgRef:
		e.writeU32(vd.Index)
		e.writeBool(vd.Deref)
	case value.KindRegRef:
		e.writeByte(byte(vd.Reg))
		e.writeBool(vd.Deref)
	default:
		return fmt.Errorf("%w: value tag %d", ErrUnknownTag, byte(vd.Kind))
	}

	return nil
}

func (e *Encoder) encodeInstruction(insn *InstructionDescriptor) error {
	if len(insn.Operands) > opcode.MaxOperands {
		return fmt.Errorf("%w: %d", ErrInvalidOperandCount, len(insn.Operands))
	}

	header := uint16(insn.Op)&opcodeHeaderMask | uint16(len(insn.Operands))<<opcodeHeaderOperandShift
	e.writeU16(header)

	for i := range insn.Operands {
		if err := e.encodeValueDescriptor(&insn.Operands[i]); err != nil {
			return err
		}
	}

	return nil
}

func (e *Encoder) encodeSourceLocs(locs []SourceLocDescriptor) {
	e.writeU32(uint32(len(locs)))

	for _, l := range locs {
		e.writeU32(l.Offset)
		e.writeU32(l.Line)
		e.writeU32(l.Column)
		e.writeU32(l.EndLine)
		e.writeU32(l.EndColumn)
	}
}

func (e *Encoder) encodeGenericParams(params []GenericParamDescriptor) {
	e.writeU32(uint32(len(params)))

	for _, p := range params {
		e.writeString(p.Name)
		e.writeU32(uint32(len(p.Qualifiers)))

		for _, q := range p.Qualifiers {
			e.writeByte(byte(q.Kind))
			e.encodeType(&q.Target)
		}
	}
}

func (e *Encoder) encodeScopeBlock(sb *ScopeBlock) error {
	e.writeU32(uint32(len(sb.Variables)))

	for _, v := range sb.Variables {
		e.writeByte(byte(v.Access))
		e.writeString(v.Name)
		e.encodeType(&v.Type)
	}

	e.writeU32(uint32(len(sb.Functions)))

	for i := range sb.Functions {
		if err := e.encodeFunc(&sb.Functions[i]); err != nil {
			return err
		}
	}

	e.writeU32(uint32(len(sb.Classes)))

	for i := range sb.Classes {
		if err := e.encodeClass(&sb.Classes[i]); err != nil {
			return err
		}
	}

	e.writeU32(uint32(len(sb.Interfaces)))

	for _, iface := range sb.Interfaces {
		e.writeByte(byte(iface.Access))
		e.writeString(iface.Name)
		e.encodeGenericParams(iface.GenericParams)
		e.writeU32(uint32(len(iface.Parents)))

		for j := range iface.Parents {
			e.encodeRef(&iface.Parents[j])
		}

		if err := e.encodeScopeBlock(&iface.Scope); err != nil {
			return err
		}
	}

	e.writeU32(uint32(len(sb.Traits)))

	for _, t := range sb.Traits {
		e.writeByte(byte(t.Access))
		e.writeString(t.Name)
		e.encodeGenericParams(t.GenericParams)
		e.writeU32(uint32(len(t.Parents)))

		for j := range t.Parents {
			e.encodeRef(&t.Parents[j])
		}

		if err := e.encodeScopeBlock(&t.Scope); err != nil {
			return err
		}
	}

	return nil
}

func (e *Encoder) encodeFunc(f *FuncEntry) error {
	e.writeByte(byte(f.Access))
	e.writeString(f.Name)
	e.writeBool(f.IsAsync)
	e.encodeType(&f.Return)
	e.writeU32(uint32(len(f.Params)))

	for _, p := range f.Params {
		e.writeString(p.Name)
		e.encodeType(&p.Type)
	}

	e.writeU32(uint32(len(f.Body)))

	for i := range f.Body {
		if err := e.encodeInstruction(&f.Body[i]); err != nil {
			return err
		}
	}

	e.encodeSourceLocs(f.Source)

	return nil
}

func (e *Encoder) encodeClass(c *ClassEntry) error {
	e.writeByte(byte(c.Access))
	e.writeString(c.Name)
	e.encodeGenericParams(c.GenericParams)
	e.writeBool(c.Parent != nil)

	if c.Parent != nil {
		e.encodeRef(c.Parent)
	}

	e.writeU32(uint32(len(c.Interfaces)))

	for i := range c.Interfaces {
		e.encodeRef(&c.Interfaces[i])
	}

	return e.encodeScopeBlock(&c.Scope)
}

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

// opcodeHeaderOperandShift is the bit position of the 2-bit operand-count
// field within the packed 16-bit instruction header (spec §4.1: "a packed
// header carries a 14-bit opcode and a 2-bit operand count (0..3)").
const opcodeHeaderOperandShift = 14

const opcodeHeaderMask = (1 << opcodeHeaderOperandShift) - 1

// Decoder reads a Module out of an SLX byte stream.
type Decoder struct {
	buf *bytes.Buffer
}

// NewDecoder wraps data for decoding. The decoder reads data in place
// through a bytes.Buffer; the bytes are not copied.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{buf: bytes.NewBuffer(data)}
}

// DecodeModule decodes data as a complete SLX module (spec §4.1).
func DecodeModule(data []byte) (*Module, error) {
	return NewDecoder(data).Decode()
}

// Decode runs the full module decode: header, optional module name,
// imports, then the top-level scope block.
func (d *Decoder) Decode() (*Module, error) {
	var m Module

	if err := m.Header.UnmarshalBinary(d.buf); err != nil {
		return nil, err
	}

	if m.Header.Flags&FlagModuleNamePresent != 0 {
		ref, err := d.decodeRef()
		if err != nil {
			return nil, fmt.Errorf("slx: decoding module name: %w", err)
		}

		m.Name = ref
	}

	m.Imports = make([]ImportRecord, 0, m.Header.ImportCount)

	for i := uint32(0); i < m.Header.ImportCount; i++ {
		alias, err := d.readString()
		if err != nil {
			return nil, fmt.Errorf("slx: decoding import %d alias: %w", i, err)
		}

		target, err := d.decodeRef()
		if err != nil {
			return nil, fmt.Errorf("slx: decoding import %d target: %w", i, err)
		}

		m.Imports = append(m.Imports, ImportRecord{Alias: alias, Target: *target})
	}

	scope, err := d.decodeScopeBlock()
	if err != nil {
		return nil, fmt.Errorf("slx: decoding top-level scope: %w", err)
	}

	m.Scope = *scope

	return &m, nil
}

func (d *Decoder) readByte() (byte, error) {
	b, err := d.buf.ReadByte()
	if err != nil {
		return 0, fmt.Errorf("%w", ErrPrematureEOF)
	}

	return b, nil
}

func (d *Decoder) readN(n int) ([]byte, error) {
	out := make([]byte, n)
	if k, err := d.buf.Read(out); err != nil || k != n {
		return nil, fmt.Errorf("%w", ErrPrematureEOF)
	}

	return out, nil
}

func (d *Decoder) readU32() (uint32, error) {
	b, err := d.readN(4)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint32(b), nil
}

func (d *Decoder) readU16() (uint16, error) {
	b, err := d.readN(2)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint16(b), nil
}

func (d *Decoder) readU64() (uint64, error) {
	b, err := d.readN(8)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint64(b), nil
}

func (d *Decoder) readBool() (bool, error) {
	b, err := d.readByte()
	if err != nil {
		return false, err
	}

	return b != 0, nil
}

// readString decodes a 32-bit-length-prefixed UTF-8 string (spec §4.1:
// "a length-prefixed local alias name").
func (d *Decoder) readString() (string, error) {
	n, err := d.readU32()
	if err != nil {
		return "", err
	}

	b, err := d.readN(int(n))
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// decodeRef decodes a reference value's entry chain (spec §4.1: "a chain
// of entries, each with a continuation flag, name length, generic-argument
// count, and the generic arguments themselves").
func (d *Decoder) decodeRef() (*RefDescriptor, error) {
	var entries []RefEntryDescriptor

	for {
		cont, err := d.readBool()
		if err != nil {
			return nil, err
		}

		name, err := d.readString()
		if err != nil {
			return nil, err
		}

		argCount, err := d.readU32()
		if err != nil {
			return nil, err
		}

		var args []TypeDescriptor

		for i := uint32(0); i < argCount; i++ {
			t, err := d.decodeType()
			if err != nil {
				return nil, err
			}

			args = append(args, *t)
		}

		entries = append(entries, RefEntryDescriptor{Name: name, GenericArgs: args})

		if !cont {
			break
		}
	}

	return &RefDescriptor{Entries: entries}, nil
}

// decodeType decodes a type encoding (spec §4.1, "Type encoding").
func (d *Decoder) decodeType() (*TypeDescriptor, error) {
	tagByte, err := d.readByte()
	if err != nil {
		return nil, err
	}

	tag := value.Kind(tagByte)

	t := &TypeDescriptor{Tag: tag}

	switch tag {
	case value.KindArray:
		elem, err := d.decodeType()
		if err != nil {
			return nil, err
		}

		t.Elem = elem
	case value.KindMap:
		key, err := d.decodeType()
		if err != nil {
			return nil, err
		}

		val, err := d.decodeType()
		if err != nil {
			return nil, err
		}

		t.Key, t.Val = key, val
	case value.KindClass, value.KindInterface, value.KindTrait, value.KindObject:
		ref, err := d.decodeRef()
		if err != nil {
			return nil, err
		}

		t.Ref = ref
	case value.KindGenericArg:
		idx, err := d.readU32()
		if err != nil {
			return nil, err
		}

		t.ParamIndex = idx
	}

	return t, nil
}

// decodeValueDescriptor decodes one instruction operand (spec §4.1, "a
// tag byte plus a tag-dependent payload").
func (d *Decoder) decodeValueDescriptor() (*ValueDescriptor, error) {
	tagByte, err := d.readByte()
	if err != nil {
		return nil, err
	}

	kind := value.Kind(tagByte)
	vd := &ValueDescriptor{Kind: kind}

	switch kind {
	case value.KindNone:
		// no payload
	case value.KindI8:
		b, err := d.readByte()
		if err != nil {
			return nil, err
		}

		vd.Literal = int8(b)
	case value.KindI16:
		u, err := d.readU16()
		if err != nil {
			return nil, err
		}

		vd.Literal = int16(u)
	case value.KindI32:
		u, err := d.readU32()
		if err != nil {
			return nil, err
		}

		vd.Literal = int32(u)
	case value.KindI64:
		u, err := d.readU64()
		if err != nil {
			return nil, err
		}

		vd.Literal = int64(u)
	case value.KindU8:
		b, err := d.readByte()
		if err != nil {
			return nil, err
		}

		vd.Literal = uint8(b)
	case value.KindU16:
		u, err := d.readU16()
		if err != nil {
			return nil, err
		}

		vd.Literal = u
	case value.KindU32:
		u, err := d.readU32()
		if err != nil {
			return nil, err
		}

		vd.Literal = u
	case value.KindU64:
		u, err := d.readU64()
		if err != nil {
			return nil, err
		}

		vd.Literal = u
	case value.KindF32:
		u, err := d.readU32()
		if err != nil {
			return nil, err
		}

		vd.Literal = decodeFloat32(u)
	case value.KindF64:
		u, err := d.readU64()
		if err != nil {
			return nil, err
		}

		vd.Literal = decodeFloat64(u)
	case value.KindBool:
		b, err := d.readBool()
		if err != nil {
			return nil, err
		}

		vd.Literal = b
	case value.KindString:
		s, err := d.readString()
		if err != nil {
			return nil, err
		}

		vd.Literal = s
	case value.KindWString:
		n, err := d.readU32()
		if err != nil {
			return nil, err
		}

		runes := make([]rune, n)

		for i := uint32(0); i < n; i++ {
			u, err := d.readU32()
			if err != nil {
				return nil, err
			}

			runes[i] = rune(u)
		}

		vd.Literal = runes
	case value.KindChar, value.KindWChar:
		u, err := d.readU32()
		if err != nil {
			return nil, err
		}

		vd.Literal = rune(u)
	case value.KindRef:
		ref, err := d.decodeRef()
		if err != nil {
			return nil, err
		}

		vd.Ref = ref
	case value.KindTypeName:
		t, err := d.decodeType()
		if err != nil {
			return nil, err
		}

		vd.TypeName = t
	case value.KindLVarRef, value.KindArgRef:
		idx, err := d.readU32()
		if err != nil {
			return nil, err
		}

		deref, err := d.readBool()
		if err != nil {
			return nil, err
		}

		vd.Index, vd.Deref = idx, deref
	case value.KindRegRef:
		reg, err := d.readByte()
		if err != nil {
			return nil, err
		}

		deref, err := d.readBool()
		if err != nil {
			return nil, err
		}

		vd.Reg, vd.Deref = value.Register(reg), deref
	default:
		return nil, fmt.Errorf("%w: value tag %d", ErrUnknownTag, tagByte)
	}

	return vd, nil
}

// decodeInstruction decodes one packed instruction header followed by its
// operands (spec §4.1).
func (d *Decoder) decodeInstruction() (*InstructionDescriptor, error) {
	header, err := d.readU16()
	if err != nil {
		return nil, err
	}

	op := opcode.Opcode(header & opcodeHeaderMask)
	operandCount := header >> opcodeHeaderOperandShift

	if operandCount > opcode.MaxOperands {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOperandCount, operandCount)
	}

	operands := make([]ValueDescriptor, 0, operandCount)

	for i := uint16(0); i < operandCount; i++ {
		vd, err := d.decodeValueDescriptor()
		if err != nil {
			return nil, err
		}

		operands = append(operands, *vd)
	}

	return &InstructionDescriptor{Op: op, Operands: operands}, nil
}

func (d *Decoder) decodeSourceLocs() ([]SourceLocDescriptor, error) {
	n, err := d.readU32()
	if err != nil {
		return nil, err
	}

	out := make([]SourceLocDescriptor, 0, n)

	for i := uint32(0); i < n; i++ {
		offset, err := d.readU32()
		if err != nil {
			return nil, err
		}

		line, err := d.readU32()
		if err != nil {
			return nil, err
		}

		col, err := d.readU32()
		if err != nil {
			return nil, err
		}

		endLine, err := d.readU32()
		if err != nil {
			return nil, err
		}

		endCol, err := d.readU32()
		if err != nil {
			return nil, err
		}

		out = append(out, SourceLocDescriptor{
			Offset: offset, Line: line, Column: col, EndLine: endLine, EndColumn: endCol,
		})
	}

	return out, nil
}

func (d *Decoder) decodeGenericParams() ([]GenericParamDescriptor, error) {
	n, err := d.readU32()
	if err != nil {
		return nil, err
	}

	var out []GenericParamDescriptor

	for i := uint32(0); i < n; i++ {
		name, err := d.readString()
		if err != nil {
			return nil, err
		}

		qc, err := d.readU32()
		if err != nil {
			return nil, err
		}

		quals := make([]QualifierDescriptor, 0, qc)

		for j := uint32(0); j < qc; j++ {
			kindByte, err := d.readByte()
			if err != nil {
				return nil, err
			}

			target, err := d.decodeType()
			if err != nil {
				return nil, err
			}

			quals = append(quals, QualifierDescriptor{Kind: value.QualifierKind(kindByte), Target: *target})
		}

		out = append(out, GenericParamDescriptor{Name: name, Qualifiers: quals})
	}

	return out, nil
}

func (d *Decoder) decodeAccess() (value.Access, error) {
	b, err := d.readByte()
	if err != nil {
		return 0, err
	}

	return value.Access(b), nil
}

// decodeScopeBlock decodes the five count-prefixed member sections (spec
// §4.1: "variables, functions, classes, interfaces, traits").
func (d *Decoder) decodeScopeBlock() (*ScopeBlock, error) {
	var sb ScopeBlock

	varCount, err := d.readU32()
	if err != nil {
		return nil, err
	}

	for i := uint32(0); i < varCount; i++ {
		access, err := d.decodeAccess()
		if err != nil {
			return nil, err
		}

		name, err := d.readString()
		if err != nil {
			return nil, err
		}

		typ, err := d.decodeType()
		if err != nil {
			return nil, err
		}

		sb.Variables = append(sb.Variables, VarEntry{Access: access, Name: name, Type: *typ})
	}

	fnCount, err := d.readU32()
	if err != nil {
		return nil, err
	}

	for i := uint32(0); i < fnCount; i++ {
		fn, err := d.decodeFunc()
		if err != nil {
			return nil, err
		}

		sb.Functions = append(sb.Functions, *fn)
	}

	classCount, err := d.readU32()
	if err != nil {
		return nil, err
	}

	for i := uint32(0); i < classCount; i++ {
		c, err := d.decodeClass()
		if err != nil {
			return nil, err
		}

		sb.Classes = append(sb.Classes, *c)
	}

	ifaceCount, err := d.readU32()
	if err != nil {
		return nil, err
	}

	for i := uint32(0); i < ifaceCount; i++ {
		iface, err := d.decodeInterface()
		if err != nil {
			return nil, err
		}

		sb.Interfaces = append(sb.Interfaces, *iface)
	}

	traitCount, err := d.readU32()
	if err != nil {
		return nil, err
	}

	for i := uint32(0); i < traitCount; i++ {
		t, err := d.decodeTrait()
		if err != nil {
			return nil, err
		}

		sb.Traits = append(sb.Traits, *t)
	}

	return &sb, nil
}

func (d *Decoder) decodeFunc() (*FuncEntry, error) {
	access, err := d.decodeAccess()
	if err != nil {
		return nil, err
	}

	name, err := d.readString()
	if err != nil {
		return nil, err
	}

	async, err := d.readBool()
	if err != nil {
		return nil, err
	}

	ret, err := d.decodeType()
	if err != nil {
		return nil, err
	}

	paramCount, err := d.readU32()
	if err != nil {
		return nil, err
	}

	params := make([]ParamDescriptor, 0, paramCount)

	for i := uint32(0); i < paramCount; i++ {
		pname, err := d.readString()
		if err != nil {
			return nil, err
		}

		ptyp, err := d.decodeType()
		if err != nil {
			return nil, err
		}

		params = append(params, ParamDescriptor{Name: pname, Type: *ptyp})
	}

	insnCount, err := d.readU32()
	if err != nil {
		return nil, err
	}

	body := make([]InstructionDescriptor, 0, insnCount)

	for i := uint32(0); i < insnCount; i++ {
		insn, err := d.decodeInstruction()
		if err != nil {
			return nil, err
		}

		body = append(body, *insn)
	}

	locs, err := d.decodeSourceLocs()
	if err != nil {
		return nil, err
	}

	return &FuncEntry{
		Access: access, Name: name, Return: *ret, Params: params, IsAsync: async,
		Body: body, Source: locs,
	}, nil
}

func (d *Decoder) decodeClass() (*ClassEntry, error) {
	access, err := d.decodeAccess()
	if err != nil {
		return nil, err
	}

	name, err := d.readString()
	if err != nil {
		return nil, err
	}

	params, err := d.decodeGenericParams()
	if err != nil {
		return nil, err
	}

	hasParent, err := d.readBool()
	if err != nil {
		return nil, err
	}

	var parent *RefDescriptor

	if hasParent {
		parent, err = d.decodeRef()
		if err != nil {
			return nil, err
		}
	}

	ifaceCount, err := d.readU32()
	if err != nil {
		return nil, err
	}

	ifaces := make([]RefDescriptor, 0, ifaceCount)

	for i := uint32(0); i < ifaceCount; i++ {
		ref, err := d.decodeRef()
		if err != nil {
			return nil, err
		}

		ifaces = append(ifaces, *ref)
	}

	scope, err := d.decodeScopeBlock()
	if err != nil {
		return nil, err
	}

	return &ClassEntry{
		Access: access, Name: name, GenericParams: params, Parent: parent,
		Interfaces: ifaces, Scope: *scope,
	}, nil
}

func (d *Decoder) decodeParentRefs() ([]RefDescriptor, error) {
	n, err := d.readU32()
	if err != nil {
		return nil, err
	}

	out := make([]RefDescriptor, 0, n)

	for i := uint32(0); i < n; i++ {
		ref, err := d.decodeRef()
		if err != nil {
			return nil, err
		}

		out = append(out, *ref)
	}

	return out, nil
}

func (d *Decoder) decodeInterface() (*InterfaceEntry, error) {
	access, err := d.decodeAccess()
	if err != nil {
		return nil, err
	}

	name, err := d.readString()
	if err != nil {
		return nil, err
	}

	params, err := d.decodeGenericParams()
	if err != nil {
		return nil, err
	}

	parents, err := d.decodeParentRefs()
	if err != nil {
		return nil, err
	}

	scope, err := d.decodeScopeBlock()
	if err != nil {
		return nil, err
	}

	return &InterfaceEntry{Access: access, Name: name, GenericParams: params, Parents: parents, Scope: *scope}, nil
}

func (d *Decoder) decodeTrait() (*TraitEntry, error) {
	access, err := d.decodeAccess()
	if err != nil {
		return nil, err
	}

	name, err := d.readString()
	if err != nil {
		return nil, err
	}

	params, err := d.decodeGenericParams()
	if err != nil {
		return nil, err
	}

	parents, err := d.decodeParentRefs()
	if err != nil {
		return nil, err
	}

	scope, err := d.decodeScopeBlock()
	if err != nil {
		return nil, err
	}

	return &TraitEntry{Access: access, Name: name, GenericParams: params, Parents: parents, Scope: *scope}, nil
}

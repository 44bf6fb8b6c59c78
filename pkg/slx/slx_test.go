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
package slx_test

import (
	"reflect"
	"testing"

	"github.com/slake-lang/slake/pkg/opcode"
	"github.com/slake-lang/slake/pkg/slx"
	"github.com/slake-lang/slake/pkg/value"
)

func sampleModule() *slx.Module {
	return &slx.Module{
		Name: &slx.RefDescriptor{Entries: []slx.RefEntryDescriptor{{Name: "demo"}}},
		Imports: []slx.ImportRecord{
			{Alias: "io", Target: slx.RefDescriptor{Entries: []slx.RefEntryDescriptor{{Name: "std"}, {Name: "io"}}}},
		},
		Scope: slx.ScopeBlock{
			Variables: []slx.VarEntry{
				{Access: value.Public, Name: "counter", Type: slx.TypeDescriptor{Tag: value.KindI32}},
			},
			Functions: []slx.FuncEntry{
				{
					Access: value.Public,
					Name:   "add",
					Return: slx.TypeDescriptor{Tag: value.KindI32},
					Params: []slx.ParamDescriptor{
						{Name: "a", Type: slx.TypeDescriptor{Tag: value.KindI32}},
						{Name: "b", Type: slx.TypeDescriptor{Tag: value.KindI32}},
					},
					Body: []slx.InstructionDescriptor{
						{
							Op: opcode.ADD,
							Operands: []slx.ValueDescriptor{
								{Kind: value.KindRegRef, Reg: value.RR},
								{Kind: value.KindArgRef, Index: 0, Deref: true},
								{Kind: value.KindArgRef, Index: 1, Deref: true},
							},
						},
						{Op: opcode.LRET, Operands: []slx.ValueDescriptor{{Kind: value.KindRegRef, Reg: value.RR}}},
					},
					Source: []slx.SourceLocDescriptor{
						{Offset: 0, Line: 3, Column: 1, EndLine: 3, EndColumn: 20},
					},
				},
			},
			Classes: []slx.ClassEntry{
				{
					Access: value.Public,
					Name:   "Counter",
					Parent: &slx.RefDescriptor{Entries: []slx.RefEntryDescriptor{{Name: "Object"}}},
					Interfaces: []slx.RefDescriptor{
						{Entries: []slx.RefEntryDescriptor{{Name: "Comparable"}}},
					},
				},
			},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	want := sampleModule()

	data, err := slx.EncodeModule(want)
	if err != nil {
		t.Fatalf("EncodeModule: %v", err)
	}

	if !slx.IsModuleFile(data) {
		t.Fatalf("encoded data does not carry the SLAX magic")
	}

	got, err := slx.DecodeModule(data)
	if err != nil {
		t.Fatalf("DecodeModule: %v", err)
	}

	if !reflect.DeepEqual(want.Name, got.Name) {
		t.Errorf("Name mismatch: want %+v, got %+v", want.Name, got.Name)
	}

	if !reflect.DeepEqual(want.Imports, got.Imports) {
		t.Errorf("Imports mismatch: want %+v, got %+v", want.Imports, got.Imports)
	}

	if !reflect.DeepEqual(want.Scope, got.Scope) {
		t.Errorf("Scope mismatch:\nwant %+v\ngot  %+v", want.Scope, got.Scope)
	}
}

func TestBadMagicRejected(t *testing.T) {
	_, err := slx.DecodeModule([]byte("not-an-slx-file-at-all"))
	if err != slx.ErrBadMagic {
		t.Fatalf("want ErrBadMagic, got %v", err)
	}
}

func TestUnsupportedVersionRejected(t *testing.T) {
	m := sampleModule()

	data, err := slx.EncodeModule(m)
	if err != nil {
		t.Fatalf("EncodeModule: %v", err)
	}

	// The format-version byte sits immediately after the 4-byte magic and
	// the 1-byte flags field.
	data[5] = slx.FormatVersion + 1

	if _, err := slx.DecodeModule(data); err == nil {
		t.Fatalf("expected unsupported-version error, got nil")
	}
}

func TestPrematureEOF(t *testing.T) {
	m := sampleModule()

	data, err := slx.EncodeModule(m)
	if err != nil {
		t.Fatalf("EncodeModule: %v", err)
	}

	if _, err := slx.DecodeModule(data[:len(data)-4]); err == nil {
		t.Fatalf("expected a premature-EOF error from truncated input")
	}
}

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

// Package slx implements the SLX binary module format codec (spec §4.1): a
// fixed header, import records, a scope block tree, packed instruction
// encoding, and trailing source-location descriptors. This package is a
// pure codec — it decodes into the descriptor types of this package, not
// directly into pkg/value's graph; pkg/loader walks the decoded module and
// allocates the corresponding values, which is where cross-module
// reference resolution and generic bookkeeping belong.
//
// Grounded on the teacher's pkg/binfile.Header: a hand-rolled big-endian
// MarshalBinary/UnmarshalBinary pair kept deliberately separate from the
// gob-encoded body, so that the magic identifier and version can be
// sniffed without a full decode (see IsModuleFile).
package slx

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/segmentio/encoding/json"
)

// Magic is the 4-byte identifier every SLX module begins with.
var Magic = [4]byte{'S', 'L', 'A', 'X'}

// FormatVersion is the format version this codec reads and writes. An
// unknown (greater) version on a loaded module is rejected outright (spec
// §4.1, "Backwards compatibility: an unknown format-version must be
// rejected") — there is no minor-version leniency, unlike the teacher's
// binfile format, because SLX has no attribute-extension mechanism to
// stay compatible across.
const FormatVersion byte = 1

// Flag bits of the SLX header.
const (
	// FlagModuleNamePresent marks that a reference value naming the
	// installation path follows the header (spec §4.1).
	FlagModuleNamePresent byte = 1 << iota
)

// Header is the fixed-layout prefix of every SLX module (spec §4.1: "magic
// bytes SLAX, flags byte, format-version byte, import count, reserved").
type Header struct {
	Flags         byte
	FormatVersion byte
	ImportCount   uint32
	Reserved      byte
	// MetaData is an optional JSON blob describing the module (source path,
	// compiler version, build timestamp); not interpreted by the loader.
	MetaData []byte
}

// MarshalBinary encodes the header in the fixed big-endian layout.
func (h *Header) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer

	buf.Write(Magic[:])
	buf.WriteByte(h.Flags)
	buf.WriteByte(h.FormatVersion)

	var importCount [4]byte
	binary.BigEndian.PutUint32(importCount[:], h.ImportCount)
	buf.Write(importCount[:])
	buf.WriteByte(h.Reserved)

	var metaLen [4]byte
	binary.BigEndian.PutUint32(metaLen[:], uint32(len(h.MetaData)))
	buf.Write(metaLen[:])
	buf.Write(h.MetaData)

	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a header from buf, advancing it past the consumed
// bytes so the caller can continue decoding the scope block that follows.
func (h *Header) UnmarshalBinary(buf *bytes.Buffer) error {
	var magic [4]byte
	if n, err := buf.Read(magic[:]); err != nil || n != 4 {
		return fmt.Errorf("slx: %w", ErrPrematureEOF)
	}

	if magic != Magic {
		return ErrBadMagic
	}

	flags, err := buf.ReadByte()
	if err != nil {
		return fmt.Errorf("slx: %w", ErrPrematureEOF)
	}

	version, err := buf.ReadByte()
	if err != nil {
		return fmt.Errorf("slx: %w", ErrPrematureEOF)
	}

	if version > FormatVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	var importCount [4]byte
	if n, err := buf.Read(importCount[:]); err != nil || n != 4 {
		return fmt.Errorf("slx: %w", ErrPrematureEOF)
	}

	reserved, err := buf.ReadByte()
	if err != nil {
		return fmt.Errorf("slx: %w", ErrPrematureEOF)
	}

	var metaLen [4]byte
	if n, err := buf.Read(metaLen[:]); err != nil || n != 4 {
		return fmt.Errorf("slx: %w", ErrPrematureEOF)
	}

	metaLength := binary.BigEndian.Uint32(metaLen[:])
	meta := make([]byte, metaLength)

	if metaLength > 0 {
		if n, err := buf.Read(meta); err != nil || uint32(n) != metaLength {
			return fmt.Errorf("slx: %w", ErrPrematureEOF)
		}
	}

	h.Flags = flags
	h.FormatVersion = version
	h.ImportCount = binary.BigEndian.Uint32(importCount[:])
	h.Reserved = reserved
	h.MetaData = meta

	return nil
}

// IsModuleFile reports whether data begins with the SLX magic identifier,
// without attempting a full decode.
func IsModuleFile(data []byte) bool {
	return len(data) >= 4 && bytes.Equal(data[:4], Magic[:])
}

// MetaData describes the optional key/value metadata carried in a module's
// header, encoded as JSON via the same fast codec the teacher's own
// Header.GetMetaData/SetMetaData helpers use (segmentio/encoding/json in
// place of go-corset's typed.Map, since SPEC_FULL.md has no equivalent
// typed-map helper package in the pack).
type MetaData map[string]any

// DecodeMetaData parses a header's metadata bytes, returning an empty map
// for an empty blob.
func DecodeMetaData(raw []byte) (MetaData, error) {
	if len(raw) == 0 {
		return MetaData{}, nil
	}

	var m MetaData
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("slx: decoding metadata: %w", err)
	}

	return m, nil
}

// EncodeMetaData renders m as the JSON blob stored in a header.
func EncodeMetaData(m MetaData) ([]byte, error) {
	if len(m) == 0 {
		return nil, nil
	}

	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("slx: encoding metadata: %w", err)
	}

	return b, nil
}

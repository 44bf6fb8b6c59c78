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

// RefEntry is one (name, generic-args) step of a symbolic reference (spec
// §3, §4.3: "A reference is a list of (name, generic-args) entries").
type RefEntry struct {
	Name        string
	GenericArgs []*Type
}

// RefPayload is the Kind-specific data of a KindRef value: used transiently
// during resolution, and as the Deferred field of an as-yet-unresolved Type
// (spec §3: "Used transiently during resolution; may be long-lived as
// operand").
type RefPayload struct {
	Entries []RefEntry
}

// NewRef constructs a reference value from its entries.
func NewRef(id Id, entries []RefEntry) *Value {
	return New(id, KindRef, nil, &RefPayload{Entries: entries})
}

// AsRef returns this value's RefPayload, or (nil, false) if it is not a
// reference value.
func (v *Value) AsRef() (*RefPayload, bool) {
	r, ok := v.payload.(*RefPayload)
	return r, ok
}

// String renders a reference in dotted-path form, e.g. "a.b<T>.c", for
// diagnostics (spec §4.3(7): "a structured error naming the deepest
// resolved prefix").
func (r *RefPayload) String() string {
	s := ""

	for i, e := range r.Entries {
		if i > 0 {
			s += "."
		}

		s += e.Name

		if len(e.GenericArgs) > 0 {
			s += "<"

			for j, a := range e.GenericArgs {
				if j > 0 {
					s += ","
				}

				s += a.String()
			}

			s += ">"
		}
	}

	return s
}

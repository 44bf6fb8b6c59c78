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

// ObjectPayload is the Kind-specific data of a KindObject value (spec §3):
// the defining class, with the instance's member map copied from the
// class's scope at construction time (installed on the Value itself via
// SetScope, per the common "optional member scope" field).
type ObjectPayload struct {
	Class *Value
}

func (o *ObjectPayload) qualifiedName() string {
	if o.Class == nil {
		return "<object>"
	}

	return o.Class.QualifiedName() + " instance"
}

// NewObject constructs an object instance of the given class. The caller is
// responsible for populating the instance scope (NEW's semantics: "member
// map copied from class scope", spec §3).
func NewObject(id Id, class *Value) *Value {
	v := New(id, KindObject, Defined(KindClass, class), &ObjectPayload{Class: class})
	v.SetScope(NewScope(nil))

	return v
}

// AsObject returns this value's ObjectPayload, or (nil, false) if it is not
// an object.
func (v *Value) AsObject() (*ObjectPayload, bool) {
	o, ok := v.payload.(*ObjectPayload)
	return o, ok
}

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

// QualifierKind is the closed set of generic-parameter constraints
// recognised by the instantiator (spec §4.4), encoded as a tagged list per
// SPEC_FULL.md supplemented feature 2 (grounded on
// _examples/original_source/slake/type.h) rather than free-form predicates.
type QualifierKind uint8

const (
	// QualExtends requires the argument to be (a subclass of) Target.
	QualExtends QualifierKind = iota
	// QualImplements requires the argument's class to implement Target
	// (transitively).
	QualImplements
	// QualHasTrait requires the argument's class to satisfy trait Target
	// (spec §4.5, HasTrait).
	QualHasTrait
)

// Qualifier is one constraint attached to a generic parameter.
type Qualifier struct {
	Kind   QualifierKind
	Target *Type
}

// GenericParam is one formal parameter of a generic class/interface/trait/
// function, together with the qualifiers it must satisfy.
type GenericParam struct {
	Name       string
	Qualifiers []Qualifier
}

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

import "errors"

// Decode failure modes named in spec §4.1/§4.2's "Failure modes" list that
// originate in this package (the remainder are raised above the decoded
// descriptors this package produces: conflict-with-no-conflict and locator
// returning nothing by pkg/loader, missing deferred-type entries by
// pkg/resolver when a deferred type is first resolved).
var (
	ErrBadMagic            = errors.New("slx: bad magic")
	ErrUnsupportedVersion  = errors.New("slx: unsupported format version")
	ErrUnknownTag          = errors.New("slx: unknown tag")
	ErrPrematureEOF        = errors.New("slx: premature end of file")
	ErrInvalidOperandCount = errors.New("slx: invalid operand count")
)

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
package main

import (
	"github.com/pterm/pterm"

	"github.com/slake-lang/slake/pkg/interp"
)

func init() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " slake",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// reportFailure renders a call failure: a *interp.RuntimeError gets its kind
// and (if thrown) the exception value; anything else is printed verbatim.
func reportFailure(err error) {
	rerr, ok := err.(*interp.RuntimeError)
	if !ok {
		pterm.Error.Println(err.Error())
		return
	}

	pterm.Error.Printf("%s: %s\n", rerr.Kind, rerr.Message)

	if rerr.Thrown != nil {
		_ = pterm.DefaultTree.WithRoot(pterm.TreeNode{
			Text: "thrown value",
			Children: []pterm.TreeNode{
				{Text: describeValue(rerr.Thrown)},
			},
		}).Render()
	}
}

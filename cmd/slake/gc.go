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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/slake-lang/slake/pkg/loader"
)

// gcCmd loads a module (if given) and forces a sweep, reporting before/after
// heap stats (spec §6, "request a garbage sweep").
var gcCmd = &cobra.Command{
	Use:   "gc [module.slx]",
	Short: "Force a mark-sweep collection and report heap stats before and after.",
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime(cmd)

		if len(args) == 1 {
			if _, err := rt.LoadModule(readModuleFile(args[0]), loader.LoadFlags(0)); err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
		}

		fmt.Printf("before: %s\n", rt.Stats())
		rt.RequestSweep()
		fmt.Printf("after:  %s\n", rt.Stats())
	},
}

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

var runCmd = &cobra.Command{
	Use:   "run module.slx [arg...]",
	Short: "Load a module and call its \"main\" entry point to completion.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}

		entry := GetString(cmd, "entry")

		rt := newRuntime(cmd)

		mod, err := rt.LoadModule(readModuleFile(args[0]), loader.LoadFlags(0))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		fn, ok := mod.Scope().Lookup(entry)
		if !ok {
			fmt.Printf("no %q member in %q\n", entry, mod.QualifiedName())
			os.Exit(1)
		}

		vals, err := parseArgs(rt, args[1:])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		result, err := rt.Call(fn.Val, nil, vals)
		if err != nil {
			reportFailure(err)
			os.Exit(1)
		}

		if result != nil {
			fmt.Printf("=> %s\n", describeValue(result))
		}
	},
}

func init() {
	runCmd.Flags().String("entry", "main", "name of the module member to call")
}

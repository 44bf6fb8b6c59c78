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

var loadCmd = &cobra.Command{
	Use:   "load module.slx",
	Short: "Decode and install an SLX module, reporting its installed path.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}

		rt := newRuntime(cmd)

		mod, err := rt.LoadModule(readModuleFile(args[0]), loader.LoadFlags(0))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		fmt.Printf("installed %q\n", mod.QualifiedName())
	},
}

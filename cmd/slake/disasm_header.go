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
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/slake-lang/slake/pkg/slx"
)

// disasmHeaderCmd prints an SLX module's fixed header without decoding the
// rest of the file (spec §4.1's header/body separation is precisely what
// makes this cheap).
var disasmHeaderCmd = &cobra.Command{
	Use:   "disasm-header module.slx",
	Short: "Print an SLX module's header without decoding its body.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}

		data := readModuleFile(args[0])
		if !slx.IsModuleFile(data) {
			fmt.Println("not an SLX module (bad magic)")
			os.Exit(1)
		}

		var hdr slx.Header
		if err := hdr.UnmarshalBinary(bytes.NewBuffer(data)); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		fmt.Printf("format version: %d\n", hdr.FormatVersion)
		fmt.Printf("flags:          0x%02x\n", hdr.Flags)
		fmt.Printf("import count:   %d\n", hdr.ImportCount)

		meta, err := slx.DecodeMetaData(hdr.MetaData)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		if len(meta) > 0 {
			fmt.Println("metadata:")

			for k, v := range meta {
				fmt.Printf("  %s: %v\n", k, v)
			}
		}
	},
}

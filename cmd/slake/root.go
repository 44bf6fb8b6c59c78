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

// Command slake is the embeddable Slake host's reference CLI (SPEC_FULL.md
// DOMAIN STACK): load/run/call a module, dump an SLX header without a full
// decode, force a collection, or drop into an interactive REPL.
package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/slake-lang/slake/pkg/runtime"
)

// Version is filled when building with make, but *not* when installing via
// "go install".
var Version string

var rootCmd = &cobra.Command{
	Use:   "slake",
	Short: "A runtime for the Slake bytecode language.",
	Long:  "An embeddable runtime (loader, memory manager, interpreter) for the Slake bytecode language.",
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "version") {
			fmt.Print("slake ")
			if Version != "" {
				fmt.Printf("%s", Version)
			} else if info, ok := debug.ReadBuildInfo(); ok {
				fmt.Printf("%s", info.Main.Version)
			} else {
				fmt.Printf("(unknown version)")
			}
			fmt.Println()

			return
		}

		fmt.Println(cmd.UsageString())
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Bool("version", false, "report the version of this executable")
	rootCmd.PersistentFlags().Bool("debug", false, "raise the runtime's log level to debug")
	rootCmd.PersistentFlags().Bool("gc-debug", false, "log heap stats around every sweep")
	rootCmd.PersistentFlags().Bool("no-jit", false, "accepted for flag-set symmetry; this runtime has no JIT tier")
	rootCmd.PersistentFlags().StringP("import-dir", "I", "", "directory to search for imported modules, named <path>.slx")

	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(disasmHeaderCmd)
	rootCmd.AddCommand(gcCmd)
	rootCmd.AddCommand(replCmd)
}

// newRuntime builds a runtime.Runtime from the command's persistent flags,
// wiring a directory-backed locator when --import-dir is set.
func newRuntime(cmd *cobra.Command) *runtime.Runtime {
	var flags runtime.Flags

	if GetFlag(cmd, "debug") {
		flags |= runtime.Debug
	}

	if GetFlag(cmd, "gc-debug") {
		flags |= runtime.GCDebug
	}

	if GetFlag(cmd, "no-jit") {
		flags |= runtime.NoJIT
	}

	rt := runtime.New(flags)

	if dir := GetString(cmd, "import-dir"); dir != "" {
		rt.SetLocator(&dirLocator{dir: dir})
	}

	return rt
}

// dirLocator resolves an import's dotted path to "<dir>/<a>/<b>.slx" (spec
// §4.2's "host locator" seam, implemented here for the CLI rather than in
// pkg/runtime since the mapping from dotted path to filesystem layout is a
// host policy choice, not a runtime one).
type dirLocator struct {
	dir string
}

func (d *dirLocator) Locate(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("empty import path")
	}

	segs := strings.Split(path, ".")
	file := d.dir + "/" + strings.Join(segs, "/") + ".slx"

	return os.ReadFile(file)
}

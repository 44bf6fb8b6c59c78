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
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/slake-lang/slake/pkg/loader"
	"github.com/slake-lang/slake/pkg/runtime"
)

// replCmd drops into an interactive prompt over a loaded module: "call
// a.b.fn arg..." calls a function by dotted path, "gc" forces a sweep,
// "quit"/EOF exits (SPEC_FULL.md DOMAIN STACK: chzyer/readline REPL).
var replCmd = &cobra.Command{
	Use:   "repl [module.slx]",
	Short: "Start an interactive prompt to call functions in a loaded module.",
	Run: func(cmd *cobra.Command, args []string) {
		rt := newRuntime(cmd)

		if len(args) == 1 {
			if _, err := rt.LoadModule(readModuleFile(args[0]), loader.LoadFlags(0)); err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
		}

		rl, err := readline.New("slake> ")
		if err != nil {
			pterm.Error.Println(err.Error())
			os.Exit(1)
		}
		defer rl.Close()

		pterm.Info.Println("Welcome to the slake REPL. Quit with <ctrl>D.")

		runREPL(rt, rl)
	},
}

func runREPL(rt *runtime.Runtime, rl *readline.Instance) {
	for {
		line, err := rl.Readline()
		if err != nil {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if !evalREPLLine(rt, line) {
			break
		}
	}
}

// evalREPLLine evaluates one REPL command, returning false to request exit.
func evalREPLLine(rt *runtime.Runtime, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}

	switch fields[0] {
	case "quit", "exit":
		return false
	case "gc":
		pterm.Info.Printf("before: %s\n", rt.Stats())
		rt.RequestSweep()
		pterm.Info.Printf("after:  %s\n", rt.Stats())
	case "call":
		if len(fields) < 2 {
			pterm.Error.Println("usage: call <a.b.fn> [arg...]")
			return true
		}

		fn, ok := rt.Lookup(fields[1])
		if !ok {
			pterm.Error.Printf("no member at %q\n", fields[1])
			return true
		}

		vals, err := parseArgs(rt, fields[2:])
		if err != nil {
			pterm.Error.Println(err.Error())
			return true
		}

		result, err := rt.Call(fn, nil, vals)
		if err != nil {
			reportFailure(err)
			return true
		}

		if result != nil {
			pterm.Info.Printf("=> %s\n", describeValue(result))
		}
	default:
		pterm.Error.Printf("unknown command %q (try \"call\", \"gc\", \"quit\")\n", fields[0])
	}

	return true
}

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

	"github.com/spf13/cobra"

	"github.com/slake-lang/slake/pkg/runtime"
	"github.com/slake-lang/slake/pkg/value"
)

// GetFlag gets an expected bool flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string flag, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetStringArray gets an expected string-array flag, or exits if an error
// arises.
func GetStringArray(cmd *cobra.Command, flag string) []string {
	r, err := cmd.Flags().GetStringArray(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// readModuleFile loads an SLX binary from disk, or exits on failure.
func readModuleFile(path string) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	return data
}

// parseKind maps a literal kind name (as it appears in spec §3 and
// value.Kind.String, e.g. "i64", "bool", "string") to its value.Kind tag.
func parseKind(name string) (value.Kind, error) {
	switch name {
	case "i8":
		return value.KindI8, nil
	case "i16":
		return value.KindI16, nil
	case "i32":
		return value.KindI32, nil
	case "i64":
		return value.KindI64, nil
	case "u8":
		return value.KindU8, nil
	case "u16":
		return value.KindU16, nil
	case "u32":
		return value.KindU32, nil
	case "u64":
		return value.KindU64, nil
	case "f32":
		return value.KindF32, nil
	case "f64":
		return value.KindF64, nil
	case "bool":
		return value.KindBool, nil
	case "string":
		return value.KindString, nil
	default:
		return value.KindNone, fmt.Errorf("unsupported argument kind %q", name)
	}
}

// parseArg parses a "<kind>:<literal>" CLI argument, e.g. "i64:5".
func parseArg(rt *runtime.Runtime, text string) (*value.Value, error) {
	kindName, rest, ok := strings.Cut(text, ":")
	if !ok {
		return nil, fmt.Errorf("argument %q must be of the form <kind>:<literal>", text)
	}

	kind, err := parseKind(kindName)
	if err != nil {
		return nil, err
	}

	return rt.NewArg(kind, rest)
}

// parseArgs parses a vector of "<kind>:<literal>" CLI arguments in order.
func parseArgs(rt *runtime.Runtime, texts []string) ([]*value.Value, error) {
	out := make([]*value.Value, len(texts))

	for i, t := range texts {
		v, err := parseArg(rt, t)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}

		out[i] = v
	}

	return out, nil
}

// describeValue renders a result value for CLI output: literals print their
// Go value, everything else prints its kind and qualified name.
func describeValue(v *value.Value) string {
	switch v.Kind() {
	case value.KindI8, value.KindI16, value.KindI32, value.KindI64:
		return fmt.Sprintf("%s %d", v.Kind(), v.Int64())
	case value.KindU8, value.KindU16, value.KindU32, value.KindU64:
		return fmt.Sprintf("%s %d", v.Kind(), v.Uint64())
	case value.KindF32, value.KindF64:
		return fmt.Sprintf("%s %v", v.Kind(), v.Float64())
	case value.KindBool:
		return fmt.Sprintf("bool %v", v.Bool())
	case value.KindString:
		return fmt.Sprintf("string %q", v.Str())
	default:
		return fmt.Sprintf("%s %s", v.Kind(), v.QualifiedName())
	}
}

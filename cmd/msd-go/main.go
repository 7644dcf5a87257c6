/*
 * Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License").
 * You may not use this file except in compliance with the License.
 * A copy of the License is located at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * or in the "license" file accompanying this file. This file is distributed
 * on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either
 * express or implied. See the License for the specific language governing
 * permissions and limitations under the License.
 */

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/amzn/msd-go/internal"
	"github.com/amzn/msd-go/msd"
)

// main is the main entry point for msd-go.
func main() {
	if len(os.Args) <= 1 {
		printHelp()
		return
	}

	var err error

	switch os.Args[1] {
	case "help", "--help", "-h":
		printHelp()

	case "version", "--version", "-v":
		err = printVersion()

	case "escape":
		err = escape(os.Args[2:], false)

	case "unescape":
		err = escape(os.Args[2:], true)

	case "check":
		err = check(os.Args[2:])

	default:
		err = errors.New("unrecognized command \"" + os.Args[1] + "\"")
	}

	if err != nil {
		fmt.Println(err.Error())
		printHelp()
		os.Exit(1)
	}
}

// printHelp prints the help message for the program.
func printHelp() {
	fmt.Println("Usage:")
	fmt.Println("  msd-go help")
	fmt.Println("  msd-go version")
	fmt.Println("  msd-go escape [-o output] [inputs]")
	fmt.Println("  msd-go unescape [-o output] [inputs]")
	fmt.Println("  msd-go check [-o output] [inputs]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  help       Prints this help message.")
	fmt.Println("  version    Prints version information about this tool.")
	fmt.Println("  escape     Escapes the reserved characters of the input(s).")
	fmt.Println("  unescape   Reverses escape.")
	fmt.Println("  check      Validates the input document(s) and writes out a report.")
	fmt.Println()
	fmt.Println("With no inputs, standard input is read.")
}

// printVersion prints (in msd) the version info for this tool.
func printVersion() error {
	w := msd.NewWriter(os.Stdout)

	if err := w.BeginStruct(); err != nil {
		return err
	}
	{
		if err := w.FieldName("version"); err != nil {
			return err
		}
		if err := w.WriteString(internal.GitCommit); err != nil {
			return err
		}

		if err := w.FieldName("build_time"); err != nil {
			return err
		}
		buildtime, err := time.Parse(time.RFC3339, internal.BuildTime)
		if err == nil {
			err = w.WriteString(buildtime.UTC().Format(time.RFC3339))
		} else {
			err = w.WriteString("unknown-buildtime")
		}
		if err != nil {
			return err
		}
	}
	if err := w.EndStruct(); err != nil {
		return err
	}

	return w.Finish()
}

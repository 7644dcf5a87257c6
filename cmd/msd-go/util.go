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
	"io"
	"os"
	"strings"
)

type stdin struct{}

func (stdin) Read(bs []byte) (int, error) { return os.Stdin.Read(bs) }
func (stdin) Close() error                { return nil }

// OpenInput opens an input stream.
func OpenInput(in string) (io.ReadCloser, error) {
	if in == "" {
		return stdin{}, nil
	}
	return os.Open(in)
}

type uncloseable struct {
	w io.Writer
}

func (u uncloseable) Write(bs []byte) (int, error) {
	return u.w.Write(bs)
}

func (u uncloseable) Close() error {
	return nil
}

// OpenOutput opens the output stream.
func OpenOutput(outf string) (io.WriteCloser, error) {
	if outf == "" {
		return uncloseable{os.Stdout}, nil
	}
	return os.OpenFile(outf, os.O_RDWR|os.O_TRUNC|os.O_CREATE, 0644)
}

// options are the arguments shared by every command that reads inputs.
type options struct {
	infs []string
	outf string
}

func parseOptions(args []string) (*options, error) {
	ret := &options{}

	i := 0
	for ; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			break
		}
		if arg == "-" || arg == "--" {
			i++
			break
		}

		switch arg {
		case "-o", "--output":
			i++
			if i >= len(args) {
				return nil, errors.New("no output file specified")
			}
			ret.outf = args[i]

		default:
			return nil, errors.New("unrecognized option \"" + arg + "\"")
		}
	}

	// Any remaining args are input files.
	ret.infs = append(ret.infs, args[i:]...)
	if len(ret.infs) == 0 {
		ret.infs = []string{""}
	}

	return ret, nil
}

// withOutput opens the output stream, calls fn and closes the stream,
// returning the first error encountered.
func withOutput(outf string, fn func(out io.Writer) error) (deferredErr error) {
	out, err := OpenOutput(outf)
	if err != nil {
		return err
	}
	defer func() {
		closeError := out.Close()
		if deferredErr == nil {
			deferredErr = closeError
		}
	}()

	return fn(out)
}

func inputName(in string) string {
	if in == "" {
		return "<stdin>"
	}
	return in
}

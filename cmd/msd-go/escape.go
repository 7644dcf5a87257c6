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
	"io"
	"io/ioutil"

	"github.com/amzn/msd-go/msd"
	"github.com/pkg/errors"
)

// escape writes the escaped (or, when reverse is set, unescaped) contents
// of the input file(s) to the output.
func escape(args []string, reverse bool) error {
	opts, err := parseOptions(args)
	if err != nil {
		return err
	}

	return withOutput(opts.outf, func(out io.Writer) error {
		for _, in := range opts.infs {
			if err := escapeInput(in, out, reverse); err != nil {
				return err
			}
		}
		return nil
	})
}

func escapeInput(in string, out io.Writer, reverse bool) error {
	r, err := OpenInput(in)
	if err != nil {
		return err
	}
	defer r.Close()

	data, err := ioutil.ReadAll(r)
	if err != nil {
		return errors.Wrapf(err, "reading %v", inputName(in))
	}

	if reverse {
		if data, err = msd.Unescape(data); err != nil {
			return errors.WithMessagef(err, "unescaping %v", inputName(in))
		}
	} else {
		data = msd.Escape(data)
	}

	_, err = out.Write(data)
	return err
}

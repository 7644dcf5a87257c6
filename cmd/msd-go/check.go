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

	"github.com/amzn/msd-go/msd"
	"github.com/pkg/errors"
)

// checkReport is the (serialized) outcome of checking a set of inputs.
type checkReport struct {
	Files  []fileReport `msd:"files"`
	Failed int          `msd:"failed"`
}

type fileReport struct {
	Name    string  `msd:"name"`
	Records int     `msd:"records"`
	Error   *string `msd:"error"`
}

// check validates the specified input file(s) and writes a checkReport.
func check(args []string) error {
	opts, err := parseOptions(args)
	if err != nil {
		return err
	}

	var failed int
	err = withOutput(opts.outf, func(out io.Writer) error {
		failed, err = checkInputs(opts.infs, out)
		return err
	})
	if err != nil {
		return err
	}

	if failed > 0 {
		return errors.Errorf("%v of %v inputs failed to check", failed, len(opts.infs))
	}
	return nil
}

// checkInputs checks each input and writes the report to out, returning the
// number of inputs that failed.
func checkInputs(infs []string, out io.Writer) (int, error) {
	report := checkReport{}

	for _, in := range infs {
		fr := checkInput(in)
		if fr.Error != nil {
			report.Failed++
		}
		report.Files = append(report.Files, fr)
	}

	e := msd.NewEncoder(msd.NewWriter(out))
	if err := e.Encode(report); err != nil {
		return 0, errors.WithMessage(err, "writing report")
	}
	return report.Failed, e.Finish()
}

func checkInput(in string) fileReport {
	fr := fileReport{Name: inputName(in)}

	r, err := OpenInput(in)
	if err == nil {
		defer r.Close()
		fr.Records, err = msd.Check(r)
	}

	if err != nil {
		msg := err.Error()
		fr.Error = &msg
	}
	return fr
}

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

package msd

import "io"

// Check reads a document without knowing its shape and returns the number of
// ';'-terminated records in it. Only the record grammar is checked: escapes,
// UTF-8, comments, terminators, and indentation in whole levels.
func Check(in io.Reader) (int, error) {
	t := tokenize(in)
	n := 0

	for {
		indent, err := t.Indent()
		if err != nil {
			return n, err
		}
		if indent < 0 {
			return n, nil
		}
		if indent%indentSize != 0 {
			return n, &IndentationMismatchError{indent - indent%indentSize, indent, t.Pos()}
		}

		c, err := t.peek()
		if err != nil {
			return n, err
		}
		if c == '#' {
			if _, err := t.read(); err != nil {
				return n, err
			}
		}

		if err := t.SkipRecord(); err != nil {
			return n, err
		}
		n++
	}
}

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

// isReserved returns true for the bytes that always need a backslash in content.
func isReserved(c byte) bool {
	switch c {
	case '#', ':', ';', '\\':
		return true
	}
	return false
}

// Escape returns src with every reserved byte backslash-escaped. A run of two
// or more '/' has each of its slashes escaped so the run cannot start a
// comment; a lone '/' is left as is.
func Escape(src []byte) []byte {
	return AppendEscaped(make([]byte, 0, len(src)), src)
}

// AppendEscaped appends the escaped form of src to dst and returns the
// extended buffer.
func AppendEscaped(dst, src []byte) []byte {
	for i := 0; i < len(src); {
		c := src[i]

		switch {
		case isReserved(c):
			dst = append(dst, '\\', c)
			i++

		case c == '/':
			j := i + 1
			for j < len(src) && src[j] == '/' {
				j++
			}
			if j-i == 1 {
				dst = append(dst, '/')
			} else {
				for ; i < j; i++ {
					dst = append(dst, '\\', '/')
				}
			}
			i = j

		default:
			// Multi-byte characters are copied whole.
			n := charLen(src[i:])
			dst = append(dst, src[i:i+n]...)
			i += n
		}
	}
	return dst
}

// Unescape reverses Escape: a backslash makes the byte after it literal,
// whatever that byte is.
func Unescape(src []byte) ([]byte, error) {
	dst := make([]byte, 0, len(src))
	for i := 0; i < len(src); i++ {
		c := src[i]
		if c == '\\' {
			if i+1 == len(src) {
				return nil, &InvalidEscapeError{uint64(i)}
			}
			i++
			c = src[i]
		}
		dst = append(dst, c)
	}
	return dst, nil
}

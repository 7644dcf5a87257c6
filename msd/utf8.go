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

// continuationBytes returns the number of continuation bytes that complete a
// UTF-8 character starting with lead byte b, or -1 if b may not start one.
// 0xC0 and 0xC1 only ever start overlong encodings; 0xF5 and up would encode
// code points past U+10FFFF.
func continuationBytes(b byte) int {
	switch {
	case b < 0x80:
		return 0
	case b < 0xC2:
		return -1
	case b < 0xE0:
		return 1
	case b < 0xF0:
		return 2
	case b < 0xF5:
		return 3
	default:
		return -1
	}
}

// isContinuation returns true if b has the 10xxxxxx bit pattern.
func isContinuation(b byte) bool {
	return b&0xC0 == 0x80
}

// charLen returns the length of the character at the start of src. Anything
// that is not a complete, well-formed multi-byte sequence counts as a single
// byte.
func charLen(src []byte) int {
	n := continuationBytes(src[0])
	if n <= 0 || n >= len(src) {
		return 1
	}
	for i := 1; i <= n; i++ {
		if !isContinuation(src[i]) {
			return 1
		}
	}
	return n + 1
}

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

import (
	"bytes"
	"math/rand"
	"reflect"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscape(t *testing.T) {
	test := func(in, expected string) {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, expected, string(Escape([]byte(in))))

			actual, err := Unescape([]byte(expected))
			require.NoError(t, err)
			assert.Equal(t, in, string(actual))
		})
	}

	test("", "")
	test("foo", "foo")
	test("#", `\#`)
	test("a:b;c", `a\:b\;c`)
	test(`back\slash`, `back\\slash`)
	test("test:test", `test\:test`)
	test("ba/r", "ba/r")
	test("/a/", "/a/")
	test("ba//r", `ba\/\/r`)
	test("///", `\/\/\/`)
	test("a//b/c", `a\/\/b/c`)
	test("héllo", "héllo")
	test("日本;", "日本\\;")
	test("😀#", "😀\\#")
}

func TestEscapeRoundTrip(t *testing.T) {
	roundTrips := func(in []byte) bool {
		escaped := Escape(in)
		if bytes.Contains(escaped, []byte("//")) {
			return false
		}
		back, err := Unescape(escaped)
		return err == nil && bytes.Equal(in, back)
	}

	// Uniformly random bytes.
	require.NoError(t, quick.Check(roundTrips, &quick.Config{MaxCount: 1000}))

	// Bytes drawn mostly from the reserved set and the edges of each class
	// in the width table, so runs and truncated characters come up often.
	alphabet := []byte{
		'#', ':', ';', '\\', '/', '/', 'a', ' ', '\n',
		0x7F, 0x80, 0xBF, 0xC0, 0xC1, 0xC2, 0xDF, 0xE0, 0xEF, 0xF0, 0xF4, 0xF5, 0xFF,
	}
	config := &quick.Config{
		MaxCount: 5000,
		Values: func(vals []reflect.Value, r *rand.Rand) {
			in := make([]byte, r.Intn(24))
			for i := range in {
				in[i] = alphabet[r.Intn(len(alphabet))]
			}
			vals[0] = reflect.ValueOf(in)
		},
	}
	require.NoError(t, quick.Check(roundTrips, config))
}

func TestEscapeInvalidUTF8(t *testing.T) {
	test := func(in, expected []byte) {
		actual := Escape(in)
		assert.Equal(t, expected, actual)

		back, err := Unescape(actual)
		require.NoError(t, err)
		assert.Equal(t, in, back)
	}

	test([]byte{0xFF, '#'}, []byte{0xFF, '\\', '#'})
	test([]byte{0xE2, 0x82}, []byte{0xE2, 0x82})
	test([]byte{0xE2, ':', 0x82}, []byte{0xE2, '\\', ':', 0x82})
	test([]byte{0xC3, ';'}, []byte{0xC3, '\\', ';'})
}

func TestAppendEscaped(t *testing.T) {
	dst := []byte("#tag:")
	dst = AppendEscaped(dst, []byte("a;b"))
	assert.Equal(t, "#tag:a\\;b", string(dst))
}

func TestUnescapeLiteralByte(t *testing.T) {
	actual, err := Unescape([]byte(`\a\b\c`))
	require.NoError(t, err)
	assert.Equal(t, "abc", string(actual))
}

func TestUnescapeTrailingBackslash(t *testing.T) {
	_, err := Unescape([]byte(`abc\`))
	require.Error(t, err)
	assert.Equal(t, &InvalidEscapeError{3}, err)
}

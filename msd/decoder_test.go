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
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadScalars(t *testing.T) {
	testReader(t, "#true;\n", func(t *testing.T, r Reader) {
		val, err := r.ReadBool()
		require.NoError(t, err)
		assert.True(t, val)
	})
	testReader(t, "#-42;\n", func(t *testing.T, r Reader) {
		val, err := r.ReadInt(64)
		require.NoError(t, err)
		assert.Equal(t, int64(-42), val)
	})
	testReader(t, "#255;", func(t *testing.T, r Reader) {
		val, err := r.ReadUint(8)
		require.NoError(t, err)
		assert.Equal(t, uint64(255), val)
	})
	testReader(t, "#42.0;\n", func(t *testing.T, r Reader) {
		val, err := r.ReadFloat(64)
		require.NoError(t, err)
		assert.Equal(t, 42.0, val)
	})
	testReader(t, "#1.5;\n", func(t *testing.T, r Reader) {
		val, err := r.ReadDecimal()
		require.NoError(t, err)
		assert.True(t, decimal.New(15, -1).Equal(val))
	})
	testReader(t, "#\\#;\n", func(t *testing.T, r Reader) {
		val, err := r.ReadChar()
		require.NoError(t, err)
		assert.Equal(t, '#', val)
	})
	testReader(t, "#日;\r\n", func(t *testing.T, r Reader) {
		val, err := r.ReadChar()
		require.NoError(t, err)
		assert.Equal(t, '日', val)
	})
}

func TestReadStruct(t *testing.T) {
	testReader(t, "", func(t *testing.T, r Reader) {
		require.NoError(t, r.BeginStruct("a"))
		noMoreFields(t, r)
		require.NoError(t, r.EndStruct())
	})

	testReader(t, "#bar:42;\n#qux:test\\:test;\n", func(t *testing.T, r Reader) {
		require.NoError(t, r.BeginStruct("bar", "qux"))

		nextField(t, r, "bar")
		i, err := r.ReadInt(64)
		require.NoError(t, err)
		assert.Equal(t, int64(42), i)

		nextField(t, r, "qux")
		s, err := r.ReadString()
		require.NoError(t, err)
		assert.Equal(t, "test:test", s)

		noMoreFields(t, r)
		require.NoError(t, r.EndStruct())
	})

	testReader(t, "#a\\:b:;\n#c:x\\\\y;\n", func(t *testing.T, r Reader) {
		require.NoError(t, r.BeginStruct())

		nextField(t, r, "a:b")
		s, err := r.ReadString()
		require.NoError(t, err)
		assert.Equal(t, "", s)

		nextField(t, r, "c")
		b, err := r.ReadBytes()
		require.NoError(t, err)
		assert.Equal(t, []byte(`x\y`), b)

		require.NoError(t, r.EndStruct())
	})
}

func TestReadNestedStruct(t *testing.T) {
	testReader(t, "#s:;\n   #a:1;\n   #b:;\n      #c:x;\n#z:false;\n", func(t *testing.T, r Reader) {
		require.NoError(t, r.BeginStruct("s", "z"))

		nextField(t, r, "s")
		require.NoError(t, r.BeginStruct("a", "b"))
		{
			nextField(t, r, "a")
			i, err := r.ReadInt(64)
			require.NoError(t, err)
			assert.Equal(t, int64(1), i)

			nextField(t, r, "b")
			require.NoError(t, r.BeginStruct("c"))
			{
				nextField(t, r, "c")
				s, err := r.ReadString()
				require.NoError(t, err)
				assert.Equal(t, "x", s)
				noMoreFields(t, r)
			}
			require.NoError(t, r.EndStruct())

			noMoreFields(t, r)
		}
		require.NoError(t, r.EndStruct())

		nextField(t, r, "z")
		b, err := r.ReadBool()
		require.NoError(t, err)
		assert.False(t, b)

		noMoreFields(t, r)
		require.NoError(t, r.EndStruct())
	})
}

func TestReadUnitAndTuple(t *testing.T) {
	testReader(t, "#baz;\n#t:1::2;\n", func(t *testing.T, r Reader) {
		require.NoError(t, r.BeginStruct("baz", "t"))

		nextField(t, r, "baz")
		require.NoError(t, r.ReadUnit())

		nextField(t, r, "t")
		require.NoError(t, r.BeginTuple(3))
		{
			i, err := r.ReadInt(64)
			require.NoError(t, err)
			assert.Equal(t, int64(1), i)

			ok, err := r.Optional()
			require.NoError(t, err)
			assert.False(t, ok)

			ok, err = r.Optional()
			require.NoError(t, err)
			assert.True(t, ok)

			i, err = r.ReadInt(64)
			require.NoError(t, err)
			assert.Equal(t, int64(2), i)
		}
		require.NoError(t, r.EndTuple())

		require.NoError(t, r.EndStruct())
	})
}

func TestReadSeq(t *testing.T) {
	testReader(t, "#l:;\n", func(t *testing.T, r Reader) {
		require.NoError(t, r.BeginStruct("l"))
		nextField(t, r, "l")
		require.NoError(t, r.BeginSeq())
		more(t, r, false)
		require.NoError(t, r.EndSeq())
		require.NoError(t, r.EndStruct())
	})

	testReader(t, "#l:;\n   :1;\n   :a\\;b;\n   :;\n   ;\n   :1:2;\n", func(t *testing.T, r Reader) {
		require.NoError(t, r.BeginStruct("l"))
		nextField(t, r, "l")
		require.NoError(t, r.BeginSeq())
		{
			more(t, r, true)
			i, err := r.ReadInt(64)
			require.NoError(t, err)
			assert.Equal(t, int64(1), i)

			more(t, r, true)
			s, err := r.ReadString()
			require.NoError(t, err)
			assert.Equal(t, "a;b", s)

			more(t, r, true)
			ok, err := r.Optional()
			require.NoError(t, err)
			assert.False(t, ok)

			more(t, r, true)
			require.NoError(t, r.ReadUnit())

			more(t, r, true)
			require.NoError(t, r.BeginTuple(2))
			_, err = r.ReadInt(64)
			require.NoError(t, err)
			_, err = r.ReadInt(64)
			require.NoError(t, err)
			require.NoError(t, r.EndTuple())

			more(t, r, false)
		}
		require.NoError(t, r.EndSeq())
		noMoreFields(t, r)
		require.NoError(t, r.EndStruct())
	})

	testReader(t, "#l:;\n   :;\n      #a:1;\n   :\n      x:1;\n", func(t *testing.T, r Reader) {
		require.NoError(t, r.BeginStruct("l"))
		nextField(t, r, "l")
		require.NoError(t, r.BeginSeq())
		{
			more(t, r, true)
			require.NoError(t, r.BeginStruct("a"))
			nextField(t, r, "a")
			_, err := r.ReadInt(64)
			require.NoError(t, err)
			noMoreFields(t, r)
			require.NoError(t, r.EndStruct())

			more(t, r, true)
			require.NoError(t, r.BeginMap())
			more(t, r, true)
			k, err := r.ReadString()
			require.NoError(t, err)
			assert.Equal(t, "x", k)
			_, err = r.ReadInt(64)
			require.NoError(t, err)
			more(t, r, false)
			require.NoError(t, r.EndMap())

			more(t, r, false)
		}
		require.NoError(t, r.EndSeq())
		require.NoError(t, r.EndStruct())
	})
}

func TestReadOptionalStruct(t *testing.T) {
	present := func(t *testing.T, r Reader) {
		ok, err := r.Optional()
		require.NoError(t, err)
		require.True(t, ok)

		require.NoError(t, r.BeginStruct("a"))
		nextField(t, r, "a")
		i, err := r.ReadInt(64)
		require.NoError(t, err)
		assert.Equal(t, int64(1), i)
		require.NoError(t, r.EndStruct())
	}
	absent := func(t *testing.T, r Reader) {
		ok, err := r.Optional()
		require.NoError(t, err)
		require.False(t, ok)
	}

	testReader(t, "#l:;\n   :;\n      #a:1;\n   :;\n   :;\n      #a:1;\n", func(t *testing.T, r Reader) {
		require.NoError(t, r.BeginStruct("l"))
		nextField(t, r, "l")
		require.NoError(t, r.BeginSeq())
		{
			more(t, r, true)
			present(t, r)
			more(t, r, true)
			absent(t, r)
			more(t, r, true)
			present(t, r)
			more(t, r, false)
		}
		require.NoError(t, r.EndSeq())
		require.NoError(t, r.EndStruct())
	})

	testReader(t, "#m:\n   k:;\n      #a:1;\n   n:;\n#x:2;\n", func(t *testing.T, r Reader) {
		require.NoError(t, r.BeginStruct("m", "x"))
		nextField(t, r, "m")
		require.NoError(t, r.BeginMap())
		{
			more(t, r, true)
			k, err := r.ReadString()
			require.NoError(t, err)
			assert.Equal(t, "k", k)
			present(t, r)

			more(t, r, true)
			k, err = r.ReadString()
			require.NoError(t, err)
			assert.Equal(t, "n", k)
			absent(t, r)

			more(t, r, false)
		}
		require.NoError(t, r.EndMap())
		nextField(t, r, "x")
		_, err := r.ReadInt(64)
		require.NoError(t, err)
		require.NoError(t, r.EndStruct())
	})
}

func TestReadMap(t *testing.T) {
	testReader(t, "#m:\n;\n", func(t *testing.T, r Reader) {
		require.NoError(t, r.BeginStruct("m"))
		nextField(t, r, "m")
		require.NoError(t, r.BeginMap())
		more(t, r, false)
		require.NoError(t, r.EndMap())
		noMoreFields(t, r)
		require.NoError(t, r.EndStruct())
	})

	testReader(t, "#m:\n   abc:1;\n   def:2;\n", func(t *testing.T, r Reader) {
		require.NoError(t, r.BeginStruct("m"))
		nextField(t, r, "m")
		require.NoError(t, r.BeginMap())

		actual := map[string]int64{}
		for {
			ok, err := r.More()
			require.NoError(t, err)
			if !ok {
				break
			}
			k, err := r.ReadString()
			require.NoError(t, err)
			v, err := r.ReadInt(64)
			require.NoError(t, err)
			actual[k] = v
		}
		assert.Equal(t, map[string]int64{"abc": 1, "def": 2}, actual)

		require.NoError(t, r.EndMap())
		require.NoError(t, r.EndStruct())
	})

	testReader(t, "#m:\n   k:;\n      #a:1;\n", func(t *testing.T, r Reader) {
		require.NoError(t, r.BeginStruct("m"))
		nextField(t, r, "m")
		require.NoError(t, r.BeginMap())
		{
			more(t, r, true)
			k, err := r.ReadString()
			require.NoError(t, err)
			assert.Equal(t, "k", k)

			require.NoError(t, r.BeginStruct("a"))
			nextField(t, r, "a")
			_, err = r.ReadInt(64)
			require.NoError(t, err)
			noMoreFields(t, r)
			require.NoError(t, r.EndStruct())

			more(t, r, false)
		}
		require.NoError(t, r.EndMap())
		require.NoError(t, r.EndStruct())
	})

	testReader(t, "#m:\n   e:\n   ;\n   x:\n      y:1;\n", func(t *testing.T, r Reader) {
		require.NoError(t, r.BeginStruct("m"))
		nextField(t, r, "m")
		require.NoError(t, r.BeginMap())
		{
			more(t, r, true)
			k, err := r.ReadString()
			require.NoError(t, err)
			assert.Equal(t, "e", k)
			require.NoError(t, r.BeginMap())
			more(t, r, false)
			require.NoError(t, r.EndMap())

			more(t, r, true)
			k, err = r.ReadString()
			require.NoError(t, err)
			assert.Equal(t, "x", k)
			require.NoError(t, r.BeginMap())
			{
				more(t, r, true)
				k, err = r.ReadString()
				require.NoError(t, err)
				assert.Equal(t, "y", k)
				i, err := r.ReadInt(64)
				require.NoError(t, err)
				assert.Equal(t, int64(1), i)
				more(t, r, false)
			}
			require.NoError(t, r.EndMap())

			more(t, r, false)
		}
		require.NoError(t, r.EndMap())
		require.NoError(t, r.EndStruct())
	})
}

func TestReadVariant(t *testing.T) {
	testReader(t, "#Variant;\n#bar:42;\n", func(t *testing.T, r Reader) {
		name, err := r.Variant("Other", "Variant")
		require.NoError(t, err)
		assert.Equal(t, "Variant", name)

		require.NoError(t, r.BeginStruct("bar"))
		nextField(t, r, "bar")
		i, err := r.ReadInt(64)
		require.NoError(t, err)
		assert.Equal(t, int64(42), i)
		require.NoError(t, r.EndStruct())
	})

	testReader(t, "#v:Variant:42;\n#e:A;\n#s:V;\n   #a:1;\n#l:V:;\n   :1;\n", func(t *testing.T, r Reader) {
		require.NoError(t, r.BeginStruct("v", "e", "s", "l"))

		nextField(t, r, "v")
		name, err := r.Variant()
		require.NoError(t, err)
		assert.Equal(t, "Variant", name)
		_, err = r.ReadInt(64)
		require.NoError(t, err)

		nextField(t, r, "e")
		name, err = r.Variant("A", "B")
		require.NoError(t, err)
		assert.Equal(t, "A", name)
		require.NoError(t, r.ReadUnit())

		nextField(t, r, "s")
		name, err = r.Variant("V")
		require.NoError(t, err)
		assert.Equal(t, "V", name)
		require.NoError(t, r.BeginStruct("a"))
		nextField(t, r, "a")
		_, err = r.ReadInt(64)
		require.NoError(t, err)
		require.NoError(t, r.EndStruct())

		nextField(t, r, "l")
		_, err = r.Variant("V")
		require.NoError(t, err)
		require.NoError(t, r.BeginSeq())
		more(t, r, true)
		_, err = r.ReadInt(64)
		require.NoError(t, err)
		more(t, r, false)
		require.NoError(t, r.EndSeq())

		noMoreFields(t, r)
		require.NoError(t, r.EndStruct())
	})
}

func TestReadCommentsAndBlankLines(t *testing.T) {
	in := "// header\n\n#a:1; // trailing\n   \n// between\n#b:x;\r\n// footer\n"
	testReader(t, in, func(t *testing.T, r Reader) {
		require.NoError(t, r.BeginStruct("a", "b"))

		nextField(t, r, "a")
		i, err := r.ReadInt(64)
		require.NoError(t, err)
		assert.Equal(t, int64(1), i)

		nextField(t, r, "b")
		s, err := r.ReadString()
		require.NoError(t, err)
		assert.Equal(t, "x", s)

		noMoreFields(t, r)
		require.NoError(t, r.EndStruct())
	})
}

func TestReadSkipUnknownFields(t *testing.T) {
	in := "#foo:;\n   #x:1;\n   #y:\n      a:b;\n#bar:42;\n#m:\n;\n"
	r := NewReaderOpts(strings.NewReader(in), ReaderSkipUnknownFields)

	require.NoError(t, r.BeginStruct("bar"))
	nextField(t, r, "bar")
	i, err := r.ReadInt(64)
	require.NoError(t, err)
	assert.Equal(t, int64(42), i)
	noMoreFields(t, r)
	require.NoError(t, r.EndStruct())
	require.NoError(t, r.Finish())
}

func TestReadErrors(t *testing.T) {
	test := func(in string, expected error, f func(r Reader) error) {
		t.Run(in, func(t *testing.T) {
			r := NewReaderString(in)
			err := f(r)
			require.Error(t, err)
			assert.Equal(t, expected, err)

			// Errors stick.
			assert.Equal(t, expected, r.Finish())
		})
	}

	readField := func(name string, read func(r Reader) error) func(r Reader) error {
		return func(r Reader) error {
			if err := r.BeginStruct(name); err != nil {
				return err
			}
			if _, _, err := r.NextField(); err != nil {
				return err
			}
			return read(r)
		}
	}
	readInt := func(bitSize int) func(r Reader) error {
		return func(r Reader) error {
			_, err := r.ReadInt(bitSize)
			return err
		}
	}

	test("#foo:1;\n", &UnknownTagError{"foo", []string{"bar"}, 1}, readField("bar", readInt(64)))
	test("#a;\n", &ArityMismatchError{"missing parameter", 2}, readField("a", readInt(64)))
	test("#a:1:2;\n", &ArityMismatchError{"record has more parameters than expected", 4}, readField("a", readInt(64)))
	test("#a:abc;\n", &InvalidNumberError{"abc", 3}, readField("a", readInt(64)))
	test("#a:300;\n", &OverflowError{"300", 8, 3}, readField("a", readInt(8)))
	test("#a:01;\n", &InvalidNumberError{"01", 3}, readField("a", readInt(64)))
	test("#a:1", &UnterminatedRecordError{4}, readField("a", readInt(64)))
	test("#a:1;x\n", &SyntaxError{"expected a newline, found 'x'", 5}, readField("a", readInt(64)))
	test("  #a:1;\n", &IndentationMismatchError{0, 2, 2}, readField("a", readInt(64)))
	test("#300;\n", &OverflowError{"300", 8, 1}, readInt(8))
	test("   #1;\n", &IndentationMismatchError{0, 3, 3}, readInt(64))
	test("", &UnterminatedRecordError{0}, readInt(64))

	test("#a:yes;\n", &SyntaxError{`invalid bool "yes"`, 3}, readField("a", func(r Reader) error {
		_, err := r.ReadBool()
		return err
	}))
	test("#a:ab;\n", &SyntaxError{`expected a single character, found "ab"`, 3}, readField("a", func(r Reader) error {
		_, err := r.ReadChar()
		return err
	}))
	test("#a:x\xFF;\n", &InvalidUTF8Error{0xFF, 4}, readField("a", func(r Reader) error {
		_, err := r.ReadString()
		return err
	}))
	test("#a:x;\n", &SyntaxError{`expected an empty parameter, found "x"`, 3}, readField("a", func(r Reader) error {
		return r.BeginSeq()
	}))
	test("#a:1;\n#a:2;\n", &ArityMismatchError{`duplicate field "a"`, 7}, func(r Reader) error {
		r.BeginStruct("a")
		r.NextField()
		r.ReadInt(64)
		_, _, err := r.NextField()
		return err
	})
	test("#a:1;\n#b:2;\n", &ArityMismatchError{`unread field "b"`, 8}, func(r Reader) error {
		r.BeginStruct("a", "b")
		r.NextField()
		r.ReadInt(64)
		return r.EndStruct()
	})
	test("#s:;\n    #a:1;\n", &IndentationMismatchError{3, 4, 9}, func(r Reader) error {
		r.BeginStruct("s")
		r.NextField()
		r.BeginStruct("a")
		_, _, err := r.NextField()
		return err
	})
	test("#m:\n", &UnterminatedRecordError{4}, readField("m", func(r Reader) error {
		r.BeginMap()
		_, err := r.More()
		return err
	}))
	test("#t:1:2;\n", &ArityMismatchError{"read 2 of 3 tuple elements", 6}, readField("t", func(r Reader) error {
		r.BeginTuple(3)
		r.ReadInt(64)
		r.ReadInt(64)
		return r.EndTuple()
	}))
	test("#v:C;\n", &UnknownTagError{"C", []string{"A", "B"}, 3}, readField("v", func(r Reader) error {
		_, err := r.Variant("A", "B")
		return err
	}))
	test("#l:;\n   :;\n      :1;\n", &SyntaxError{"expected a struct, found a int", 17}, readField("l", func(r Reader) error {
		r.BeginSeq()
		r.More()
		r.Optional()
		return readInt(64)(r)
	}))
	test("#true;\n#false;\n", &SyntaxError{"unexpected data after the end of the document", 7}, func(r Reader) error {
		r.ReadBool()
		return r.Finish()
	})
}

func TestReadUsage(t *testing.T) {
	test := func(name string, expected error, f func(r Reader) error) {
		t.Run(name, func(t *testing.T) {
			r := NewReaderString("#a:1;\n")
			err := f(r)
			require.Error(t, err)
			assert.Equal(t, expected, err)
		})
	}

	test("root string", &UnsupportedTypeError{"Reader.ReadString", StringKind, "root"}, func(r Reader) error {
		_, err := r.ReadString()
		return err
	})
	test("root seq", &UnsupportedTypeError{"Reader.BeginSeq", SeqKind, "root"}, func(r Reader) error {
		return r.BeginSeq()
	})
	test("root optional", &UnsupportedTypeError{"Reader.Optional", NoneKind, "root"}, func(r Reader) error {
		_, err := r.Optional()
		return err
	})
	test("next field", &UsageError{"Reader.NextField", "not in a struct"}, func(r Reader) error {
		_, _, err := r.NextField()
		return err
	})
	test("no next field", &UsageError{"Reader.ReadInt", "NextField not called"}, func(r Reader) error {
		r.BeginStruct()
		_, err := r.ReadInt(64)
		return err
	})
	test("more", &UsageError{"Reader.More", "not in a seq or map"}, func(r Reader) error {
		_, err := r.More()
		return err
	})
	test("unfinished", &UsageError{"Reader.Finish", "not at top level"}, func(r Reader) error {
		r.BeginStruct()
		return r.Finish()
	})
	test("pending field", &UsageError{"Reader.EndStruct", "value of the last field not read"}, func(r Reader) error {
		r.BeginStruct()
		r.NextField()
		return r.EndStruct()
	})
	test("bit size", &UsageError{"Reader.ReadInt", "invalid bit size 12"}, func(r Reader) error {
		_, err := r.ReadInt(12)
		return err
	})
	test("float bit size", &UsageError{"Reader.ReadFloat", "invalid bit size 8"}, func(r Reader) error {
		_, err := r.ReadFloat(8)
		return err
	})
	test("optional variant", &UnsupportedTypeError{"Reader.Optional", NoneKind, "variant at field"}, func(r Reader) error {
		r.BeginStruct()
		r.NextField()
		r.Variant()
		_, err := r.Optional()
		return err
	})
}

func TestReaderPos(t *testing.T) {
	r := NewReaderString("#a:1;\n#b:2;\n")
	require.NoError(t, r.BeginStruct())
	nextField(t, r, "a")
	_, err := r.ReadInt(64)
	require.NoError(t, err)
	assert.Equal(t, uint64(6), r.Pos())
}

func testReader(t *testing.T, in string, f func(t *testing.T, r Reader)) {
	t.Run(in, func(t *testing.T) {
		r := NewReaderString(in)
		f(t, r)
		require.NoError(t, r.Finish())
	})
}

func nextField(t *testing.T, r Reader, expected string) {
	t.Helper()
	name, ok, err := r.NextField()
	require.NoError(t, err)
	require.True(t, ok, "expected field %v", expected)
	assert.Equal(t, expected, name)
}

func noMoreFields(t *testing.T, r Reader) {
	t.Helper()
	name, ok, err := r.NextField()
	require.NoError(t, err)
	require.False(t, ok, "unexpected field %v", name)
}

func more(t *testing.T, r Reader, expected bool) {
	t.Helper()
	ok, err := r.More()
	require.NoError(t, err)
	require.Equal(t, expected, ok)
}

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
	"io"

	"github.com/shopspring/decimal"
)

// ReaderOpts defines a set of bit flag options for a Reader.
type ReaderOpts uint8

const (
	// ReaderSkipUnknownFields causes NextField to skip records whose tag is
	// not one of the declared field names, along with everything indented
	// under them, instead of failing.
	ReaderSkipUnknownFields ReaderOpts = 1 << iota
)

// A Reader reads a single document as a stream of events.
//
// A document does not describe its own shape, so the caller drives the
// Reader with the events it expects, mirroring the calls that wrote the
// document.
//
//	r := NewReader(in)
//	r.BeginStruct("id", "point")
//	for {
//		name, ok, err := r.NextField()
//		if err != nil || !ok {
//			break
//		}
//		switch name {
//		case "id":
//			id, _ = r.ReadInt(64)
//		case "point":
//			r.BeginTuple(2)
//			x, _ = r.ReadFloat(64)
//			y, _ = r.ReadFloat(64)
//			r.EndTuple()
//		}
//	}
//	r.EndStruct()
//	err := r.Finish()
//
// Seqs and maps are read with a loop on More; inside a map each entry is a
// key followed by a value. Like a Writer, a Reader remembers its first error
// and returns it from every subsequent call.
type Reader interface {
	// NextField moves to the next field of the current struct and returns
	// its name. It returns false once the struct has no more fields.
	NextField() (string, bool, error)

	// More returns true if the current seq has another element or the
	// current map has another entry.
	More() (bool, error)

	// Optional returns true if an optional value is present, in which case
	// the value itself is read next. An absent value is consumed.
	Optional() (bool, error)

	// Variant reads the enum variant name of the next value. If names are
	// given, the variant must be one of them.
	Variant(names ...string) (string, error)

	// ReadBool reads a boolean value.
	ReadBool() (bool, error)

	// ReadInt reads a signed integer that fits in bitSize bits.
	ReadInt(bitSize int) (int64, error)

	// ReadUint reads an unsigned integer that fits in bitSize bits.
	ReadUint(bitSize int) (uint64, error)

	// ReadFloat reads a floating-point value of the given bit size.
	ReadFloat(bitSize int) (float64, error)

	// ReadDecimal reads an arbitrary-precision decimal value.
	ReadDecimal() (decimal.Decimal, error)

	// ReadChar reads a single character.
	ReadChar() (rune, error)

	// ReadString reads a string value.
	ReadString() (string, error)

	// ReadBytes reads a byte string.
	ReadBytes() ([]byte, error)

	// ReadUnit reads a value that carries no data.
	ReadUnit() error

	// BeginTuple begins reading a tuple of n elements.
	BeginTuple(n int) error

	// EndTuple finishes reading a tuple.
	EndTuple() error

	// BeginSeq begins reading a seq.
	BeginSeq() error

	// EndSeq finishes reading a seq.
	EndSeq() error

	// BeginMap begins reading a map.
	BeginMap() error

	// EndMap finishes reading a map.
	EndMap() error

	// BeginStruct begins reading a struct. If fields are given, every field
	// read must be one of them.
	BeginStruct(fields ...string) error

	// EndStruct finishes reading a struct.
	EndStruct() error

	// Finish checks that nothing but blank lines and comments follows the
	// document.
	Finish() error

	// Pos returns the current offset into the input.
	Pos() uint64
}

// NewReader creates a new Reader that reads a document from in.
func NewReader(in io.Reader) Reader {
	return NewReaderOpts(in, 0)
}

// NewReaderOpts creates a new Reader with the given options.
func NewReaderOpts(in io.Reader, opts ReaderOpts) Reader {
	return newReader(tokenize(in), opts)
}

// NewReaderBytes creates a new Reader that reads a document from in.
func NewReaderBytes(in []byte) Reader {
	return newReader(tokenizeBytes(in), 0)
}

// NewReaderString creates a new Reader that reads a document from in.
func NewReaderString(in string) Reader {
	return newReader(tokenizeString(in), 0)
}

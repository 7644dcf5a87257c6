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
	"fmt"
	"strings"
)

// A UsageError is returned when you use a Reader or Writer in an inappropriate way.
type UsageError struct {
	API string
	Msg string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("msd: usage error in %v: %v", e.API, e.Msg)
}

// An IOError is returned when there is an error reading from or writing to an
// underlying io.Reader or io.Writer.
type IOError struct {
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("msd: i/o error: %v", e.Err)
}

// Unwrap returns the underlying I/O error.
func (e *IOError) Unwrap() error {
	return e.Err
}

// An UnsupportedTypeError is returned when a value of the given kind cannot be
// represented at the current position, e.g. a sequence at the document root or
// a struct used as a map key.
type UnsupportedTypeError struct {
	API      string
	Kind     Kind
	Position string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("msd: unsupported type in %v: %v not allowed in %v", e.API, e.Kind, e.Position)
}

// A CustomError carries a message produced while mapping a Go value onto the
// event vocabulary, e.g. a failing encoding.TextMarshaler.
type CustomError struct {
	Msg string
}

func (e *CustomError) Error() string {
	return "msd: " + e.Msg
}

// A SyntaxError is returned when a Reader encounters invalid input for which no more
// specific error type is defined.
type SyntaxError struct {
	Msg    string
	Offset uint64
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("msd: syntax error: %v (offset %v)", e.Msg, e.Offset)
}

// An UnterminatedRecordError is returned when the input ends before the
// record being read reaches its ';'.
type UnterminatedRecordError struct {
	Offset uint64
}

func (e *UnterminatedRecordError) Error() string {
	return fmt.Sprintf("msd: unterminated record (offset %v)", e.Offset)
}

// An InvalidEscapeError is returned when a backslash has no byte following it.
type InvalidEscapeError struct {
	Offset uint64
}

func (e *InvalidEscapeError) Error() string {
	return fmt.Sprintf("msd: invalid escape sequence (offset %v)", e.Offset)
}

// An InvalidUTF8Error is returned when a byte cannot start or continue a UTF-8
// encoded character.
type InvalidUTF8Error struct {
	Byte   byte
	Offset uint64
}

func (e *InvalidUTF8Error) Error() string {
	return fmt.Sprintf("msd: invalid utf-8 byte 0x%02X (offset %v)", e.Byte, e.Offset)
}

// An InvalidNumberError is returned when a parameter cannot be parsed as the
// numeric type that was asked for.
type InvalidNumberError struct {
	Text   string
	Offset uint64
}

func (e *InvalidNumberError) Error() string {
	return fmt.Sprintf("msd: invalid number %q (offset %v)", e.Text, e.Offset)
}

// An OverflowError is returned when a number does not fit in the requested width.
type OverflowError struct {
	Text   string
	Bits   int
	Offset uint64
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("msd: %q overflows %v bits (offset %v)", e.Text, e.Bits, e.Offset)
}

// An UnknownTagError is returned when a record's tag matches none of the names
// the caller declared for the current position.
type UnknownTagError struct {
	Tag      string
	Expected []string
	Offset   uint64
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("msd: unknown tag %q, expected one of [%v] (offset %v)",
		e.Tag, strings.Join(e.Expected, ", "), e.Offset)
}

// An ArityMismatchError is returned when a tuple or struct holds fewer or
// more parameters or fields than were declared.
type ArityMismatchError struct {
	Msg    string
	Offset uint64
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("msd: arity mismatch: %v (offset %v)", e.Msg, e.Offset)
}

// An IndentationMismatchError is returned when a record is indented by a
// number of spaces that does not match the depth being read.
type IndentationMismatchError struct {
	Expected int
	Found    int
	Offset   uint64
}

func (e *IndentationMismatchError) Error() string {
	return fmt.Sprintf("msd: expected indentation of %v spaces, found %v (offset %v)", e.Expected, e.Found, e.Offset)
}

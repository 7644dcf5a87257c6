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
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// tokenizer splits a document into tags, parameters and record terminators.
type tokenizer struct {
	in     *bufio.Reader
	buffer []int
	pos    uint64

	// indent is the number of leading spaces of the current line, once they
	// have been consumed, and -1 otherwise.
	indent int
}

func tokenizeString(in string) *tokenizer {
	return tokenizeBytes([]byte(in))
}

func tokenizeBytes(in []byte) *tokenizer {
	return tokenize(bytes.NewReader(in))
}

func tokenize(in io.Reader) *tokenizer {
	return &tokenizer{
		in:     bufio.NewReader(in),
		indent: -1,
	}
}

// Pos returns the current offset into the input.
func (t *tokenizer) Pos() uint64 {
	return t.pos
}

// Indent returns the indentation of the next record, skipping blank and
// comment-only lines first, or -1 at the end of the input. The result is
// cached until the record's line has been consumed.
func (t *tokenizer) Indent() (int, error) {
	if t.indent >= 0 {
		return t.indent, nil
	}

	for {
		n := 0
		c, err := t.read()
		if err != nil {
			return 0, err
		}
		for c == ' ' {
			n++
			if c, err = t.read(); err != nil {
				return 0, err
			}
		}

		switch c {
		case -1:
			t.unread(c)
			return -1, nil

		case '\n':
			continue

		case '\r':
			ok, err := t.skipNewline(c)
			if err != nil {
				return 0, err
			}
			if ok {
				continue
			}

		case '/':
			c2, err := t.peek()
			if err != nil {
				return 0, err
			}
			if c2 == '/' {
				if err := t.skipComment(); err != nil {
					return 0, err
				}
				continue
			}
		}

		t.unread(c)
		t.indent = n
		return n, nil
	}
}

// HasValue returns true if the cursor is on the ':' that starts a parameter
// and false if it is on the ';' that ends the record.
func (t *tokenizer) HasValue() (bool, error) {
	c, err := t.read()
	if err != nil {
		return false, err
	}
	switch c {
	case ':':
		t.unread(c)
		return true, nil
	case ';':
		t.unread(c)
		return false, nil
	default:
		return false, t.invalidChar(c)
	}
}

// EmptyValue returns true if the cursor is on the ':' of an empty parameter.
// Nothing is consumed.
func (t *tokenizer) EmptyValue() (bool, error) {
	c, err := t.read()
	if err != nil {
		return false, err
	}
	if c != ':' {
		t.unread(c)
		return false, nil
	}

	c2, err := t.peek()
	if err != nil {
		return false, err
	}
	t.unread(c)

	return c2 == ':' || c2 == ';', nil
}

// ReadTag reads content up to the next unescaped ':' or ';', which is left
// for the caller, and returns it unescaped.
func (t *tokenizer) ReadTag() ([]byte, error) {
	raw := []byte{}

	for {
		c, err := t.read()
		if err != nil {
			return nil, err
		}

		switch c {
		case -1:
			return nil, &UnterminatedRecordError{t.pos - 1}

		case ':', ';':
			t.unread(c)
			return Unescape(raw)

		case '\\':
			c2, err := t.read()
			if err != nil {
				return nil, err
			}
			if c2 == -1 {
				return nil, &InvalidEscapeError{t.pos - 2}
			}
			raw = append(raw, '\\', byte(c2))

		case '/':
			c2, err := t.peek()
			if err != nil {
				return nil, err
			}
			if c2 == '/' {
				if err := t.skipComment(); err != nil {
					return nil, err
				}
				continue
			}
			raw = append(raw, '/')

		default:
			if raw, err = t.readChar(c, raw); err != nil {
				return nil, err
			}
		}
	}
}

// ReadValue consumes the ':' that starts a parameter and reads the parameter.
func (t *tokenizer) ReadValue() ([]byte, error) {
	if err := t.expect(':'); err != nil {
		return nil, err
	}
	return t.ReadTag()
}

// ReadValues reads parameters until the record's ';', which is left for
// the caller.
func (t *tokenizer) ReadValues() ([][]byte, error) {
	var vals [][]byte
	for {
		ok, err := t.HasValue()
		if err != nil || !ok {
			return vals, err
		}
		val, err := t.ReadValue()
		if err != nil {
			return nil, err
		}
		vals = append(vals, val)
	}
}

// ReadTags reads a tag followed by all of its parameters.
func (t *tokenizer) ReadTags() ([][]byte, error) {
	tag, err := t.ReadTag()
	if err != nil {
		return nil, err
	}
	vals, err := t.ReadValues()
	if err != nil {
		return nil, err
	}
	return append([][]byte{tag}, vals...), nil
}

// EndRecord consumes the ';' that ends a record and the newline after it.
// The last record of a document may end at EOF instead.
func (t *tokenizer) EndRecord() error {
	if err := t.expect(';'); err != nil {
		return err
	}
	return t.EndLine()
}

// EndLine consumes trailing spaces, an optional comment and a newline, or
// nothing at EOF.
func (t *tokenizer) EndLine() error {
	c, err := t.read()
	for err == nil && c == ' ' {
		c, err = t.read()
	}
	if err != nil {
		return err
	}

	if c == '/' {
		c2, err := t.peek()
		if err != nil {
			return err
		}
		if c2 == '/' {
			if err := t.skipComment(); err != nil {
				return err
			}
			if c, err = t.read(); err != nil {
				return err
			}
		}
	}

	switch c {
	case -1:
		t.unread(c)
	case '\n':
	default:
		ok, err := t.skipNewline(c)
		if err != nil {
			return err
		}
		if !ok {
			return &SyntaxError{fmt.Sprintf("expected a newline, found %q", rune(c)), t.pos - 1}
		}
	}

	t.indent = -1
	return nil
}

// SkipRecord skips the rest of the current record, up to and including its
// terminator.
func (t *tokenizer) SkipRecord() error {
	if _, err := t.ReadTag(); err != nil {
		return err
	}
	if _, err := t.ReadValues(); err != nil {
		return err
	}
	return t.EndRecord()
}

// readChar appends the character starting with c to buf, reading its
// continuation bytes.
func (t *tokenizer) readChar(c int, buf []byte) ([]byte, error) {
	n := continuationBytes(byte(c))
	if n < 0 {
		return nil, &InvalidUTF8Error{byte(c), t.pos - 1}
	}
	buf = append(buf, byte(c))
	lead, off := byte(c), t.pos-1

	for i := 0; i < n; i++ {
		c, err := t.read()
		if err != nil {
			return nil, err
		}
		if c == -1 {
			return nil, &InvalidUTF8Error{lead, off}
		}
		if !isContinuation(byte(c)) {
			return nil, &InvalidUTF8Error{byte(c), t.pos - 1}
		}
		buf = append(buf, byte(c))
	}
	return buf, nil
}

// skipComment skips to the end of the line, leaving the newline. The first
// '/' has already been read.
func (t *tokenizer) skipComment() error {
	for {
		c, err := t.read()
		if err != nil {
			return err
		}
		if c == -1 || c == '\n' {
			t.unread(c)
			return nil
		}
	}
}

// skipNewline consumes a "\r\n" pair if c is a '\r' and the next byte is a
// '\n'.
func (t *tokenizer) skipNewline(c int) (bool, error) {
	if c != '\r' {
		return false, nil
	}
	c2, err := t.peek()
	if err != nil {
		return false, err
	}
	if c2 != '\n' {
		return false, nil
	}
	_, err = t.read()
	return err == nil, err
}

// expect reads the next byte and fails if it is not c.
func (t *tokenizer) expect(c int) error {
	c2, err := t.read()
	if err != nil {
		return err
	}
	if c2 != c {
		return t.invalidChar(c2)
	}
	return nil
}

// invalidChar returns an error complaining that the given character was
// unexpected.
func (t *tokenizer) invalidChar(c int) error {
	if c == -1 {
		return &UnterminatedRecordError{t.pos - 1}
	}
	return &SyntaxError{fmt.Sprintf("unexpected %q", rune(c)), t.pos - 1}
}

// peek returns the next byte of input without consuming it.
func (t *tokenizer) peek() (int, error) {
	if len(t.buffer) > 0 {
		return t.buffer[len(t.buffer)-1], nil
	}

	c, err := t.read()
	if err != nil {
		return 0, err
	}

	t.unread(c)
	return c, nil
}

// read reads a byte of input from the underlying reader. EOF is returned as
// (-1, nil) rather than (0, io.EOF).
func (t *tokenizer) read() (int, error) {
	t.pos++
	if len(t.buffer) > 0 {
		c := t.buffer[len(t.buffer)-1]
		t.buffer = t.buffer[:len(t.buffer)-1]
		return c, nil
	}

	c, err := t.in.ReadByte()
	if err == io.EOF {
		return -1, nil
	}
	if err != nil {
		return 0, &IOError{err}
	}
	return int(c), nil
}

// unread pushes a character (or -1) back into the input stream to be read
// again later.
func (t *tokenizer) unread(c int) {
	t.pos--
	t.buffer = append(t.buffer, c)
}

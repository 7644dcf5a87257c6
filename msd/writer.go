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
	"io"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// indentSize is the number of spaces per level of depth.
const indentSize = 3

// A Writer writes a single document as a stream of events.
//
// The various Write methods write atomic values. The Begin methods begin
// writing a tuple, seq, map or struct respectively. Subsequent calls to Write
// will write values inside of the container until a matching End method is
// called.
//
//	var w Writer
//	w.BeginStruct()
//	{
//		w.FieldName("id")
//		w.WriteInt(42)
//		w.FieldName("point")
//		w.BeginTuple()
//		w.WriteFloat(1.5, 64)
//		w.WriteFloat(-2, 64)
//		w.EndTuple()
//	}
//	w.EndStruct()
//
// which writes
//
//	#id:42;
//	#point:1.5:-2.0;
//
// Inside a map, values alternate between an entry's key and its value. The
// Variant method names the enum variant of the next value written.
//
// Records are written to the underlying io.Writer as soon as each method
// returns. While individual methods all return an error on failure, the
// Writer remembers the first error, no-ops subsequent calls, and returns it
// again; checking the result of Finish is enough.
type Writer interface {
	// FieldName sets the field name for the next value written.
	FieldName(name string) error

	// Variant sets the enum variant name of the next value written.
	Variant(name string) error

	// WriteBool writes a boolean value.
	WriteBool(val bool) error

	// WriteInt writes a signed integer value.
	WriteInt(val int64) error

	// WriteUint writes an unsigned integer value.
	WriteUint(val uint64) error

	// WriteFloat writes a floating-point value with the shortest digits that
	// round-trip at bitSize, which must be 32 or 64.
	WriteFloat(val float64, bitSize int) error

	// WriteDecimal writes an arbitrary-precision decimal value.
	WriteDecimal(val decimal.Decimal) error

	// WriteChar writes a single character.
	WriteChar(val rune) error

	// WriteString writes a string value.
	WriteString(val string) error

	// WriteBytes writes a byte string.
	WriteBytes(val []byte) error

	// WriteNone writes an absent optional value.
	WriteNone() error

	// WriteUnit writes a value that carries no data.
	WriteUnit() error

	// BeginTuple begins writing a tuple.
	BeginTuple() error

	// EndTuple finishes writing a tuple.
	EndTuple() error

	// BeginSeq begins writing a seq.
	BeginSeq() error

	// EndSeq finishes writing a seq.
	EndSeq() error

	// BeginMap begins writing a map.
	BeginMap() error

	// EndMap finishes writing a map.
	EndMap() error

	// BeginStruct begins writing a struct.
	BeginStruct() error

	// EndStruct finishes writing a struct.
	EndStruct() error

	// Finish checks that the document is complete.
	Finish() error
}

// writer is the Writer implementation.
type writer struct {
	out io.Writer
	ctx ctxstack
	err error
	buf []byte

	fieldName *string
	variant   *string

	recordOpen  bool
	recordDepth int
	wroteRoot   bool
}

// NewWriter returns a new Writer that writes a document to out.
func NewWriter(out io.Writer) Writer {
	return &writer{
		out: out,
		ctx: newCtxstack(),
	}
}

func (w *writer) FieldName(name string) error {
	if w.err != nil {
		return w.err
	}
	if w.ctx.peek().ctx != ctxInStruct {
		w.err = &UsageError{"Writer.FieldName", "field name set outside a struct"}
		return w.err
	}
	w.fieldName = &name
	return nil
}

func (w *writer) Variant(name string) error {
	if w.err != nil {
		return w.err
	}
	if w.variant != nil {
		w.err = &UsageError{"Writer.Variant", "variant already set"}
		return w.err
	}
	if err := checkKind("Writer.Variant", w.ctx.peek().position(), VariantKind, false); err != nil {
		w.err = err
		return err
	}
	w.variant = &name
	return nil
}

func (w *writer) WriteBool(val bool) error {
	return w.writeScalar("Writer.WriteBool", BoolKind, []byte(formatBool(val)), false)
}

func (w *writer) WriteInt(val int64) error {
	return w.writeScalar("Writer.WriteInt", IntKind, []byte(formatInt(val)), false)
}

func (w *writer) WriteUint(val uint64) error {
	return w.writeScalar("Writer.WriteUint", UintKind, []byte(formatUint(val)), false)
}

func (w *writer) WriteFloat(val float64, bitSize int) error {
	if w.err != nil {
		return w.err
	}
	if bitSize != 32 && bitSize != 64 {
		w.err = &UsageError{"Writer.WriteFloat", fmt.Sprintf("invalid bit size %v", bitSize)}
		return w.err
	}
	return w.writeScalar("Writer.WriteFloat", FloatKind, []byte(formatFloat(val, bitSize)), false)
}

func (w *writer) WriteDecimal(val decimal.Decimal) error {
	return w.writeScalar("Writer.WriteDecimal", DecimalKind, []byte(formatDecimal(val)), false)
}

func (w *writer) WriteChar(val rune) error {
	var b [utf8.UTFMax]byte
	n := utf8.EncodeRune(b[:], val)
	return w.writeScalar("Writer.WriteChar", CharKind, b[:n], true)
}

func (w *writer) WriteString(val string) error {
	return w.writeScalar("Writer.WriteString", StringKind, []byte(val), true)
}

func (w *writer) WriteBytes(val []byte) error {
	return w.writeScalar("Writer.WriteBytes", BytesKind, val, true)
}

// WriteNone writes nothing for a field, which is then simply absent, and an
// empty parameter elsewhere.
func (w *writer) WriteNone() error {
	return w.writeValue("Writer.WriteNone", NoneKind, func(p position) {
		if p == posParam {
			w.buf = append(w.buf, ':')
		}
	})
}

func (w *writer) WriteUnit() error {
	return w.writeValue("Writer.WriteUnit", UnitKind, func(position) {})
}

func (w *writer) BeginTuple() error {
	if w.err != nil {
		return w.err
	}
	if _, _, w.err = w.beginValue("Writer.BeginTuple", TupleKind); w.err != nil {
		return w.err
	}
	w.ctx.push(frame{ctx: ctxInTuple})
	return w.flush()
}

func (w *writer) EndTuple() error {
	return w.end("Writer.EndTuple", ctxInTuple)
}

func (w *writer) BeginSeq() error {
	if w.err != nil {
		return w.err
	}
	if _, _, w.err = w.beginValue("Writer.BeginSeq", SeqKind); w.err != nil {
		return w.err
	}

	w.buf = append(w.buf, ":;\n"...)
	w.recordOpen = false
	w.ctx.push(frame{ctx: ctxInSeq, depth: w.recordDepth + 1})

	return w.flush()
}

func (w *writer) EndSeq() error {
	return w.end("Writer.EndSeq", ctxInSeq)
}

func (w *writer) BeginMap() error {
	if w.err != nil {
		return w.err
	}
	if _, _, w.err = w.beginValue("Writer.BeginMap", MapKind); w.err != nil {
		return w.err
	}

	w.buf = append(w.buf, ":\n"...)
	w.recordOpen = false
	w.ctx.push(frame{ctx: ctxInMap, depth: w.recordDepth + 1, key: true})

	return w.flush()
}

func (w *writer) EndMap() error {
	return w.end("Writer.EndMap", ctxInMap)
}

// BeginStruct begins writing a struct. At the root its fields go at depth
// zero with no record of their own; anywhere else the struct closes the
// current record and its fields go one level deeper.
func (w *writer) BeginStruct() error {
	if w.err != nil {
		return w.err
	}
	p, variant, err := w.beginValue("Writer.BeginStruct", StructKind)
	if err != nil {
		w.err = err
		return err
	}

	depth := 0
	if p != posRoot {
		if !variant {
			w.buf = append(w.buf, ':')
		}
		w.buf = append(w.buf, ";\n"...)
		w.recordOpen = false
		depth = w.recordDepth + 1
	}
	w.ctx.push(frame{ctx: ctxInStruct, depth: depth})

	return w.flush()
}

func (w *writer) EndStruct() error {
	return w.end("Writer.EndStruct", ctxInStruct)
}

func (w *writer) Finish() error {
	if w.err != nil {
		return w.err
	}
	if !w.ctx.atTopLevel() {
		w.err = &UsageError{"Writer.Finish", "not at top level"}
		return w.err
	}
	if w.variant != nil {
		w.err = &UsageError{"Writer.Finish", "variant set without a value"}
		return w.err
	}
	return nil
}

// writeScalar writes a scalar's text, escaping it if needed.
func (w *writer) writeScalar(api string, k Kind, text []byte, escape bool) error {
	return w.writeValue(api, k, func(p position) {
		if p == posField || p == posParam {
			w.buf = append(w.buf, ':')
		}
		if p == posMapKey && escape && len(text) > 0 && isLineSpace(text[0]) {
			// A map key starts its line, so leading whitespace would read as
			// indentation or a blank line.
			w.buf = append(w.buf, '\\', text[0])
			text = text[1:]
		}
		w.appendText(text, escape)
		if p == posRoot {
			w.buf = append(w.buf, ";\n"...)
		}
	})
}

// writeValue writes a non-container value, with body appending whatever the
// value itself looks like at position p.
func (w *writer) writeValue(api string, k Kind, body func(p position)) error {
	if w.err != nil {
		return w.err
	}

	p, _, err := w.beginValue(api, k)
	if err != nil {
		w.err = err
		return err
	}

	body(p)
	w.endValue()

	return w.flush()
}

// beginValue checks that a value of kind k may be written next and starts
// the record it goes in, if it needs one. Nothing is written if the value is
// not allowed.
func (w *writer) beginValue(api string, k Kind) (position, bool, error) {
	f := w.ctx.peek()
	p := f.position()

	switch {
	case p == posRoot && w.wroteRoot:
		return p, false, &UsageError{api, "document already has a root value"}
	case p == posField && w.fieldName == nil:
		return p, false, &UsageError{api, "field name not set"}
	case f.ctx == ctxInTuple && !w.recordOpen:
		return p, false, &UnsupportedTypeError{api, k, "tuple after an element that closed its record"}
	}

	variant := w.variant != nil
	if err := checkKind(api, p, k, variant); err != nil {
		return p, variant, err
	}

	switch p {
	case posRoot:
		w.wroteRoot = true
		if k != StructKind || variant {
			w.buf = append(w.buf, '#')
		}
		if variant {
			w.appendText([]byte(*w.variant), true)
			w.buf = append(w.buf, ";\n"...)
			w.variant = nil
		}
		return p, variant, nil

	case posField:
		name := *w.fieldName
		w.fieldName = nil
		if k == NoneKind {
			return p, false, nil
		}
		w.openRecord(f.depth)
		w.buf = append(w.buf, '#')
		w.appendText([]byte(name), true)

	case posMapKey:
		w.openRecord(f.depth)

	default:
		if f.ctx == ctxInSeq {
			w.openRecord(f.depth)
		}
	}

	if variant {
		w.buf = append(w.buf, ':')
		w.appendText([]byte(*w.variant), true)
		w.variant = nil
	}
	return p, variant, nil
}

// endValue closes the current record if the container owns it.
func (w *writer) endValue() {
	f := w.ctx.peek()
	switch f.ctx {
	case ctxInStruct, ctxInSeq:
		w.closeRecord()
		f.count++
	case ctxInMap:
		if f.key {
			f.key = false
			return
		}
		w.closeRecord()
		f.count++
		f.key = true
	case ctxInTuple:
		f.count++
	}
}

// end finishes writing a container of the given type.
func (w *writer) end(api string, c ctx) error {
	if w.err != nil {
		return w.err
	}

	f := w.ctx.peek()
	switch {
	case f.ctx != c:
		w.err = &UsageError{api, "not in that kind of container"}
	case w.variant != nil:
		w.err = &UsageError{api, "variant set without a value"}
	case c == ctxInStruct && w.fieldName != nil:
		w.err = &UsageError{api, "field name set without a value"}
	case c == ctxInMap && !f.key:
		w.err = &UsageError{api, "map key without a value"}
	}
	if w.err != nil {
		return w.err
	}

	if c == ctxInMap && f.count == 0 {
		// An empty map still has to terminate the record that announced it.
		w.appendIndent(f.depth - 1)
		w.buf = append(w.buf, ";\n"...)
	}

	w.ctx.pop()
	w.endValue()

	return w.flush()
}

func (w *writer) openRecord(depth int) {
	w.appendIndent(depth)
	w.recordOpen = true
	w.recordDepth = depth
}

func (w *writer) closeRecord() {
	if w.recordOpen {
		w.buf = append(w.buf, ";\n"...)
		w.recordOpen = false
	}
}

func isLineSpace(c byte) bool {
	return c == ' ' || c == '\r' || c == '\n'
}

func (w *writer) appendIndent(depth int) {
	for i := 0; i < depth*indentSize; i++ {
		w.buf = append(w.buf, ' ')
	}
}

func (w *writer) appendText(text []byte, escape bool) {
	if escape {
		w.buf = AppendEscaped(w.buf, text)
	} else {
		w.buf = append(w.buf, text...)
	}
}

// flush writes any buffered bytes to the underlying io.Writer.
func (w *writer) flush() error {
	if len(w.buf) == 0 {
		return nil
	}
	_, err := w.out.Write(w.buf)
	w.buf = w.buf[:0]
	if err != nil {
		w.err = &IOError{err}
	}
	return w.err
}

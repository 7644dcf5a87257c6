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
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// reader is the Reader implementation. It mirrors writer: the same frames,
// the same positions, and the inverse of every rule it uses to lay out
// records.
type reader struct {
	t    *tokenizer
	opts ReaderOpts
	ctx  ctxstack
	err  error

	fieldPending bool
	variant      bool

	// announced is set once an empty parameter has been found to start a
	// deeper block, so the record holding it is already closed.
	announced bool

	recordOpen  bool
	recordDepth int
	readRoot    bool
}

func newReader(t *tokenizer, opts ReaderOpts) *reader {
	return &reader{
		t:    t,
		opts: opts,
		ctx:  newCtxstack(),
	}
}

func (r *reader) Pos() uint64 {
	return r.t.Pos()
}

func (r *reader) NextField() (string, bool, error) {
	if r.err != nil {
		return "", false, r.err
	}

	f := r.ctx.peek()
	if f.ctx != ctxInStruct {
		return "", false, r.fail(&UsageError{"Reader.NextField", "not in a struct"})
	}
	if r.fieldPending {
		return "", false, r.fail(&UsageError{"Reader.NextField", "value of the previous field not read"})
	}
	if f.done {
		return "", false, nil
	}

	want := f.depth * indentSize
	for {
		n, err := r.t.Indent()
		if err != nil {
			return "", false, r.fail(err)
		}
		if n < want {
			f.done = true
			return "", false, nil
		}
		if n > want {
			return "", false, r.fail(&IndentationMismatchError{want, n, r.t.Pos()})
		}

		c, err := r.t.peek()
		if err != nil {
			return "", false, r.fail(err)
		}
		if c != '#' {
			f.done = true
			return "", false, nil
		}
		if _, err := r.t.read(); err != nil {
			return "", false, r.fail(err)
		}

		off := r.t.Pos()
		tag, err := r.t.ReadTag()
		if err != nil {
			return "", false, r.fail(err)
		}
		name := string(tag)

		if len(f.fields) > 0 && !contains(f.fields, name) {
			if r.opts&ReaderSkipUnknownFields != 0 {
				if err := r.skipBlock(f.depth); err != nil {
					return "", false, r.fail(err)
				}
				continue
			}
			return "", false, r.fail(&UnknownTagError{name, f.fields, off})
		}
		if f.seen[name] {
			return "", false, r.fail(&ArityMismatchError{fmt.Sprintf("duplicate field %q", name), off})
		}
		f.seen[name] = true

		r.fieldPending = true
		r.recordOpen = true
		r.recordDepth = f.depth
		return name, true, nil
	}
}

func (r *reader) More() (bool, error) {
	if r.err != nil {
		return false, r.err
	}

	f := r.ctx.peek()
	switch {
	case f.ctx != ctxInSeq && f.ctx != ctxInMap:
		return false, r.fail(&UsageError{"Reader.More", "not in a seq or map"})
	case f.ctx == ctxInMap && !f.key:
		return false, r.fail(&UsageError{"Reader.More", "value of the previous entry not read"})
	case r.recordOpen:
		return false, r.fail(&UsageError{"Reader.More", "previous element not read"})
	}
	if f.done {
		return false, nil
	}

	want := f.depth * indentSize
	n, err := r.t.Indent()
	if err != nil {
		return false, r.fail(err)
	}
	if n == want {
		r.recordOpen = true
		r.recordDepth = f.depth
		return true, nil
	}
	if n > want {
		return false, r.fail(&IndentationMismatchError{want, n, r.t.Pos()})
	}

	f.done = true
	if f.ctx == ctxInMap && f.count == 0 {
		// An empty map is terminated on its own line at the depth of the
		// record that announced it.
		if n < 0 {
			return false, r.fail(&UnterminatedRecordError{r.t.Pos()})
		}
		if n != want-indentSize {
			return false, r.fail(&IndentationMismatchError{want - indentSize, n, r.t.Pos()})
		}
		if err := r.t.EndRecord(); err != nil {
			return false, r.fail(err)
		}
	}
	return false, nil
}

// Optional never consumes a present value, except the empty parameter that
// announces a struct: one that ends its record with a deeper line after it.
// An absent value only exists in parameter position, as an empty parameter.
func (r *reader) Optional() (bool, error) {
	if r.err != nil {
		return false, r.err
	}

	p, err := r.check("Reader.Optional", NoneKind)
	if err != nil {
		return false, r.fail(err)
	}
	if p == posField || r.announced {
		return true, nil
	}

	empty, err := r.t.EmptyValue()
	if err != nil {
		return false, r.fail(err)
	}
	if !empty {
		return true, nil
	}

	if err := r.t.expect(':'); err != nil {
		return false, r.fail(err)
	}
	more, err := r.t.HasValue()
	if err != nil {
		return false, r.fail(err)
	}
	if !more {
		if r.announced, err = r.blockFollows(); err != nil {
			return false, r.fail(err)
		}
		if r.announced {
			return true, nil
		}
	}

	r.commit(p)
	return false, r.endValue()
}

func (r *reader) Variant(names ...string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	if r.variant {
		return "", r.fail(&UsageError{"Reader.Variant", "variant already read"})
	}

	p, err := r.check("Reader.Variant", VariantKind)
	if err != nil {
		return "", r.fail(err)
	}

	var name []byte
	var off uint64
	if p == posRoot {
		if err := r.openRoot(); err != nil {
			return "", r.fail(err)
		}
		off = r.t.Pos()
		if name, err = r.t.ReadTag(); err != nil {
			return "", r.fail(err)
		}
		if err := r.closeRecord(); err != nil {
			return "", r.fail(err)
		}
	} else if name, off, err = r.readParam(); err != nil {
		return "", r.fail(err)
	}

	if len(names) > 0 && !contains(names, string(name)) {
		return "", r.fail(&UnknownTagError{string(name), names, off})
	}

	r.variant = true
	return string(name), nil
}

func (r *reader) ReadBool() (bool, error) {
	var val bool
	err := r.readScalar("Reader.ReadBool", BoolKind, func(text []byte, off uint64) (err error) {
		val, err = parseBool(string(text), off)
		return
	})
	return val, err
}

func (r *reader) ReadInt(bitSize int) (int64, error) {
	if err := r.checkBitSize("Reader.ReadInt", bitSize, false); err != nil {
		return 0, err
	}
	var val int64
	err := r.readScalar("Reader.ReadInt", IntKind, func(text []byte, off uint64) (err error) {
		val, err = parseInt(string(text), bitSize, off)
		return
	})
	return val, err
}

func (r *reader) ReadUint(bitSize int) (uint64, error) {
	if err := r.checkBitSize("Reader.ReadUint", bitSize, false); err != nil {
		return 0, err
	}
	var val uint64
	err := r.readScalar("Reader.ReadUint", UintKind, func(text []byte, off uint64) (err error) {
		val, err = parseUint(string(text), bitSize, off)
		return
	})
	return val, err
}

func (r *reader) ReadFloat(bitSize int) (float64, error) {
	if err := r.checkBitSize("Reader.ReadFloat", bitSize, true); err != nil {
		return 0, err
	}
	var val float64
	err := r.readScalar("Reader.ReadFloat", FloatKind, func(text []byte, off uint64) (err error) {
		val, err = parseFloat(string(text), bitSize, off)
		return
	})
	return val, err
}

func (r *reader) ReadDecimal() (decimal.Decimal, error) {
	var val decimal.Decimal
	err := r.readScalar("Reader.ReadDecimal", DecimalKind, func(text []byte, off uint64) (err error) {
		val, err = parseDecimal(string(text), off)
		return
	})
	return val, err
}

func (r *reader) ReadChar() (rune, error) {
	var val rune
	err := r.readScalar("Reader.ReadChar", CharKind, func(text []byte, off uint64) error {
		c, n := utf8.DecodeRune(text)
		if len(text) == 0 || n != len(text) {
			return &SyntaxError{fmt.Sprintf("expected a single character, found %q", text), off}
		}
		val = c
		return nil
	})
	return val, err
}

func (r *reader) ReadString() (string, error) {
	var val string
	err := r.readScalar("Reader.ReadString", StringKind, func(text []byte, _ uint64) error {
		val = string(text)
		return nil
	})
	return val, err
}

func (r *reader) ReadBytes() ([]byte, error) {
	var val []byte
	err := r.readScalar("Reader.ReadBytes", BytesKind, func(text []byte, _ uint64) error {
		val = text
		return nil
	})
	return val, err
}

func (r *reader) ReadUnit() error {
	if r.err != nil {
		return r.err
	}
	if _, _, err := r.beginValue("Reader.ReadUnit", UnitKind); err != nil {
		return r.fail(err)
	}
	return r.endValue()
}

func (r *reader) BeginTuple(n int) error {
	if r.err != nil {
		return r.err
	}
	if _, _, err := r.beginValue("Reader.BeginTuple", TupleKind); err != nil {
		return r.fail(err)
	}
	r.ctx.push(frame{ctx: ctxInTuple, arity: n})
	return nil
}

func (r *reader) EndTuple() error {
	if r.err != nil {
		return r.err
	}
	f := r.ctx.peek()
	if f.ctx != ctxInTuple {
		return r.fail(&UsageError{"Reader.EndTuple", "not in a tuple"})
	}
	if f.count != f.arity {
		return r.fail(&ArityMismatchError{fmt.Sprintf("read %v of %v tuple elements", f.count, f.arity), r.t.Pos()})
	}
	return r.end()
}

func (r *reader) BeginSeq() error {
	if r.err != nil {
		return r.err
	}
	if _, _, err := r.beginValue("Reader.BeginSeq", SeqKind); err != nil {
		return r.fail(err)
	}
	if err := r.readEmptyParam(); err != nil {
		return r.fail(err)
	}
	if err := r.closeRecord(); err != nil {
		return r.fail(err)
	}

	r.ctx.push(frame{ctx: ctxInSeq, depth: r.recordDepth + 1})
	return nil
}

func (r *reader) EndSeq() error {
	return r.endContainer("Reader.EndSeq", ctxInSeq)
}

func (r *reader) BeginMap() error {
	if r.err != nil {
		return r.err
	}
	if _, _, err := r.beginValue("Reader.BeginMap", MapKind); err != nil {
		return r.fail(err)
	}

	ok, err := r.t.HasValue()
	if err != nil {
		return r.fail(err)
	}
	if !ok {
		return r.fail(&ArityMismatchError{"missing parameter", r.t.Pos()})
	}
	if err := r.t.expect(':'); err != nil {
		return r.fail(err)
	}
	if err := r.t.EndLine(); err != nil {
		return r.fail(err)
	}
	r.recordOpen = false

	r.ctx.push(frame{ctx: ctxInMap, depth: r.recordDepth + 1, key: true})
	return nil
}

func (r *reader) EndMap() error {
	return r.endContainer("Reader.EndMap", ctxInMap)
}

func (r *reader) BeginStruct(fields ...string) error {
	if r.err != nil {
		return r.err
	}
	p, variant, err := r.beginValue("Reader.BeginStruct", StructKind)
	if err != nil {
		return r.fail(err)
	}

	depth := 0
	if p != posRoot {
		if r.announced {
			r.announced = false
		} else {
			if !variant {
				if err := r.readEmptyParam(); err != nil {
					return r.fail(err)
				}
			}
			if err := r.closeRecord(); err != nil {
				return r.fail(err)
			}
		}
		depth = r.recordDepth + 1
	}

	r.ctx.push(frame{
		ctx:    ctxInStruct,
		depth:  depth,
		fields: fields,
		seen:   map[string]bool{},
	})
	return nil
}

func (r *reader) EndStruct() error {
	if r.err != nil {
		return r.err
	}
	f := r.ctx.peek()
	if f.ctx != ctxInStruct {
		return r.fail(&UsageError{"Reader.EndStruct", "not in a struct"})
	}
	if r.fieldPending {
		return r.fail(&UsageError{"Reader.EndStruct", "value of the last field not read"})
	}
	if !f.done {
		name, ok, err := r.NextField()
		if err != nil {
			return err
		}
		if ok {
			return r.fail(&ArityMismatchError{fmt.Sprintf("unread field %q", name), r.t.Pos()})
		}
	}
	return r.end()
}

func (r *reader) Finish() error {
	if r.err != nil {
		return r.err
	}
	if !r.ctx.atTopLevel() {
		return r.fail(&UsageError{"Reader.Finish", "not at top level"})
	}
	if r.variant {
		return r.fail(&UsageError{"Reader.Finish", "variant read without a value"})
	}

	n, err := r.t.Indent()
	if err != nil {
		return r.fail(err)
	}
	if n >= 0 {
		return r.fail(&SyntaxError{"unexpected data after the end of the document", r.t.Pos()})
	}
	return nil
}

// readScalar reads the text of a scalar at the current position and hands
// it to parse.
func (r *reader) readScalar(api string, k Kind, parse func(text []byte, off uint64) error) error {
	if r.err != nil {
		return r.err
	}

	p, _, err := r.beginValue(api, k)
	if err != nil {
		return r.fail(err)
	}

	var text []byte
	var off uint64
	switch p {
	case posRoot:
		if err = r.openRoot(); err == nil {
			off = r.t.Pos()
			text, err = r.t.ReadTag()
		}
	case posMapKey:
		off = r.t.Pos()
		text, err = r.t.ReadTag()
	default:
		text, off, err = r.readParam()
	}
	if err != nil {
		return r.fail(err)
	}

	if err := parse(text, off); err != nil {
		return r.fail(err)
	}
	return r.endValue()
}

// readParam reads the next parameter of the open record.
func (r *reader) readParam() ([]byte, uint64, error) {
	ok, err := r.t.HasValue()
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, 0, &ArityMismatchError{"missing parameter", r.t.Pos()}
	}

	off := r.t.Pos() + 1
	val, err := r.t.ReadValue()
	return val, off, err
}

// readEmptyParam reads the empty parameter that announces a struct or seq.
func (r *reader) readEmptyParam() error {
	val, off, err := r.readParam()
	if err != nil {
		return err
	}
	if len(val) > 0 {
		return &SyntaxError{fmt.Sprintf("expected an empty parameter, found %q", val), off}
	}
	return nil
}

// openRoot opens the record holding a root scalar or variant.
func (r *reader) openRoot() error {
	n, err := r.t.Indent()
	if err != nil {
		return err
	}
	if n < 0 {
		return &UnterminatedRecordError{r.t.Pos()}
	}
	if n != 0 {
		return &IndentationMismatchError{0, n, r.t.Pos()}
	}
	if err := r.t.expect('#'); err != nil {
		return err
	}

	r.recordOpen = true
	r.recordDepth = 0
	return nil
}

// blockFollows ends the open record, whose ';' is next, and reports whether
// the next line is indented deeper than the record.
func (r *reader) blockFollows() (bool, error) {
	if err := r.t.EndRecord(); err != nil {
		return false, err
	}
	r.recordOpen = false

	n, err := r.t.Indent()
	if err != nil {
		return false, err
	}
	return n > r.recordDepth*indentSize, nil
}

// closeRecord ends the open record, which must have no parameters left.
func (r *reader) closeRecord() error {
	if !r.recordOpen {
		return nil
	}

	ok, err := r.t.HasValue()
	if err != nil {
		return err
	}
	if ok {
		return &ArityMismatchError{"record has more parameters than expected", r.t.Pos()}
	}
	if err := r.t.EndRecord(); err != nil {
		return err
	}

	r.recordOpen = false
	return nil
}

// check returns the position of the next value, or an error if a value of
// kind k cannot be read there.
func (r *reader) check(api string, k Kind) (position, error) {
	f := r.ctx.peek()
	p := f.position()

	switch {
	case p == posRoot && r.readRoot:
		return p, &UsageError{api, "document already has a root value"}
	case p == posField && !r.fieldPending:
		return p, &UsageError{api, "NextField not called"}
	case (f.ctx == ctxInSeq || p == posMapKey) && !r.recordOpen:
		return p, &UsageError{api, "More not called"}
	case f.ctx == ctxInTuple && !r.recordOpen:
		return p, &UnsupportedTypeError{api, k, "tuple after an element that closed its record"}
	}

	return p, checkKind(api, p, k, r.variant)
}

// commit marks the value at position p as started.
func (r *reader) commit(p position) {
	switch p {
	case posRoot:
		r.readRoot = true
	case posField:
		r.fieldPending = false
	}
	r.variant = false
}

// beginValue checks that a value of kind k can be read next and starts it.
func (r *reader) beginValue(api string, k Kind) (position, bool, error) {
	p, err := r.check(api, k)
	if err != nil {
		return p, false, err
	}
	if r.announced && k != StructKind {
		return p, false, &SyntaxError{fmt.Sprintf("expected a struct, found a %v", k), r.t.Pos()}
	}
	variant := r.variant
	r.commit(p)
	return p, variant, nil
}

// endValue closes the current record if the container owns it.
func (r *reader) endValue() error {
	var err error

	f := r.ctx.peek()
	switch f.ctx {
	case ctxAtTopLevel:
		err = r.closeRecord()
	case ctxInStruct, ctxInSeq:
		f.count++
		err = r.closeRecord()
	case ctxInMap:
		if f.key {
			f.key = false
			return nil
		}
		f.count++
		f.key = true
		err = r.closeRecord()
	case ctxInTuple:
		f.count++
	}

	if err != nil {
		return r.fail(err)
	}
	return nil
}

// endContainer finishes reading a seq or map once More has returned false.
func (r *reader) endContainer(api string, c ctx) error {
	if r.err != nil {
		return r.err
	}
	f := r.ctx.peek()
	if f.ctx != c {
		return r.fail(&UsageError{api, "not in that kind of container"})
	}
	if !f.done {
		return r.fail(&UsageError{api, "More has not returned false"})
	}
	return r.end()
}

// end pops the current container and finishes the value it was part of.
func (r *reader) end() error {
	r.ctx.pop()
	return r.endValue()
}

// skipBlock skips the rest of a record whose tag has been read, along with
// every record indented deeper than depth after it.
func (r *reader) skipBlock(depth int) error {
	if _, err := r.t.ReadValues(); err != nil {
		return err
	}
	if err := r.t.EndRecord(); err != nil {
		return err
	}

	for {
		n, err := r.t.Indent()
		if err != nil {
			return err
		}
		if n <= depth*indentSize {
			return nil
		}
		if err := r.t.SkipRecord(); err != nil {
			return err
		}
	}
}

func (r *reader) checkBitSize(api string, bitSize int, float bool) error {
	if r.err != nil {
		return r.err
	}
	ok := bitSize == 8 || bitSize == 16 || bitSize == 32 || bitSize == 64
	if float {
		ok = bitSize == 32 || bitSize == 64
	}
	if !ok {
		return r.fail(&UsageError{api, fmt.Sprintf("invalid bit size %v", bitSize)})
	}
	return nil
}

func (r *reader) fail(err error) error {
	r.err = err
	return err
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

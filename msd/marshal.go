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
	"encoding"
	"fmt"
	"reflect"
	"sort"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// EncoderOpts holds bit-flag options for an Encoder.
type EncoderOpts uint

const (
	// EncodeSortMaps instructs the encoder to write map entries sorted by key.
	EncodeSortMaps EncoderOpts = 1
)

// Marshaler is the interface implemented by types that can marshal
// themselves. It is the way to produce tuples of mixed types and enum
// variants, which have no direct Go equivalent.
//
//	type Shape struct {
//		Radius float64
//	}
//
//	func (s Shape) MarshalMSD(w msd.Writer) error {
//		w.Variant("Circle")
//		return w.WriteFloat(s.Radius, 64)
//	}
type Marshaler interface {
	MarshalMSD(w Writer) error
}

var (
	marshalerType     = reflect.TypeOf((*Marshaler)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// Marshal marshals a value to a document, with map entries sorted by key.
//
// The root value must be a struct or a scalar other than a string:
//
//	type point struct {
//		X int `msd:"x"`
//		Y int `msd:"y"`
//	}
//
//	val, err := Marshal(point{1, 2})
//	if err != nil {
//		t.Fatal(err)
//	}
//	fmt.Print(string(val)) // prints out: #x:1;\n#y:2;\n
//
// Go types map onto the event vocabulary as follows:
//
//	  Go type                                  Event
//	--------------------------------------   ------------
//	  bool                                     bool
//	  int, int8 ... int64                      int
//	  uint, uint8 ... uint64                   uint
//	  float32, float64                         float
//	  decimal.Decimal                          decimal
//	  Char                                     char
//	  string, encoding.TextMarshaler           string
//	  []byte                                   bytes
//	  nil pointer                              none
//	  Unit                                     unit
//	  array                                    tuple
//	  slice                                    seq
//	  map                                      map
//	  struct                                   struct
func Marshal(v interface{}) ([]byte, error) {
	buf := bytes.Buffer{}
	e := NewEncoderOpts(NewWriter(&buf), EncodeSortMaps)

	if err := e.Encode(v); err != nil {
		return nil, err
	}
	if err := e.Finish(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// MarshalTo marshals the given value to the given writer. It does not call
// Finish, so is suitable for encoding values inside of a partially-written
// document, e.g. from a Marshaler.
func MarshalTo(w Writer, v interface{}) error {
	e := Encoder{
		w: w,
	}
	return e.Encode(v)
}

// An Encoder writes Go values to a Writer.
type Encoder struct {
	w    Writer
	opts EncoderOpts
}

// NewEncoder creates a new encoder.
func NewEncoder(w Writer) *Encoder {
	return NewEncoderOpts(w, 0)
}

// NewEncoderOpts creates a new encoder with the specified options.
func NewEncoderOpts(w Writer, opts EncoderOpts) *Encoder {
	return &Encoder{
		w:    w,
		opts: opts,
	}
}

// Encode marshals the given value, writing it to the underlying writer.
func (m *Encoder) Encode(v interface{}) error {
	return m.encodeValue(reflect.ValueOf(v))
}

// Finish finishes writing the current document.
func (m *Encoder) Finish() error {
	return m.w.Finish()
}

// encodeValue recursively encodes a value.
func (m *Encoder) encodeValue(v reflect.Value) error {
	if !v.IsValid() {
		return m.w.WriteNone()
	}

	t := v.Type()
	if t.Kind() != reflect.Ptr && v.CanAddr() && reflect.PtrTo(t).Implements(marshalerType) {
		return v.Addr().Interface().(Marshaler).MarshalMSD(m.w)
	}
	if t.Kind() != reflect.Interface && t.Implements(marshalerType) {
		if t.Kind() == reflect.Ptr && v.IsNil() {
			return m.w.WriteNone()
		}
		return v.Interface().(Marshaler).MarshalMSD(m.w)
	}

	switch t {
	case decimalType:
		return m.w.WriteDecimal(v.Interface().(decimal.Decimal))
	case charType:
		return m.w.WriteChar(rune(v.Int()))
	case unitType:
		return m.w.WriteUnit()
	}

	if tm := textMarshalerFor(v); tm != nil {
		return m.encodeText(tm, t)
	}

	switch t.Kind() {
	case reflect.Bool:
		return m.w.WriteBool(v.Bool())

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return m.w.WriteInt(v.Int())

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return m.w.WriteUint(v.Uint())

	case reflect.Float32, reflect.Float64:
		return m.w.WriteFloat(v.Float(), t.Bits())

	case reflect.String:
		return m.w.WriteString(v.String())

	case reflect.Interface, reflect.Ptr:
		return m.encodePtr(v)

	case reflect.Struct:
		return m.encodeStruct(v)

	case reflect.Map:
		return m.encodeMap(v)

	case reflect.Slice:
		return m.encodeSlice(v)

	case reflect.Array:
		return m.encodeArray(v)

	default:
		return &CustomError{fmt.Sprintf("unsupported Go type %v", t)}
	}
}

// textMarshalerFor returns v as an encoding.TextMarshaler, or nil. Pointers
// are left alone so they stay optional.
func textMarshalerFor(v reflect.Value) encoding.TextMarshaler {
	t := v.Type()
	if t.Kind() == reflect.Ptr || t.Kind() == reflect.Interface {
		return nil
	}
	if t.Implements(textMarshalerType) {
		return v.Interface().(encoding.TextMarshaler)
	}
	if v.CanAddr() && reflect.PtrTo(t).Implements(textMarshalerType) {
		return v.Addr().Interface().(encoding.TextMarshaler)
	}
	return nil
}

// encodeText encodes a TextMarshaler as a string.
func (m *Encoder) encodeText(tm encoding.TextMarshaler, t reflect.Type) error {
	text, err := tm.MarshalText()
	if err != nil {
		return &CustomError{fmt.Sprintf("cannot marshal %v: %v", t, err)}
	}
	return m.w.WriteString(string(text))
}

// encodePtr writes none if the pointer is nil, and otherwise encodes the
// value that the pointer is pointing to.
func (m *Encoder) encodePtr(v reflect.Value) error {
	if v.IsNil() {
		return m.w.WriteNone()
	}
	return m.encodeValue(v.Elem())
}

// encodeMap encodes a map. A nil map is an empty map.
func (m *Encoder) encodeMap(v reflect.Value) error {
	kt := v.Type().Key()
	if k := kindOf(kt); k != NoKind && !legalKinds[posMapKey].has(k) {
		return &UnsupportedTypeError{"Encoder.Encode", k, posMapKey.String()}
	}

	if err := m.w.BeginMap(); err != nil {
		return err
	}

	keys := keysFor(v)
	if m.opts&EncodeSortMaps != 0 {
		sort.Slice(keys, func(i, j int) bool { return keys[i].s < keys[j].s })
	}

	for _, key := range keys {
		if err := m.encodeValue(key.v); err != nil {
			return errors.WithMessagef(err, "key %v", key.s)
		}
		if err := m.encodeValue(v.MapIndex(key.v)); err != nil {
			return errors.WithMessagef(err, "value of key %v", key.s)
		}
	}

	return m.w.EndMap()
}

// A mapkey holds the reflective map key value as well as its stringified form.
type mapkey struct {
	v reflect.Value
	s string
}

// keysFor returns the stringified keys for the given map.
func keysFor(v reflect.Value) []mapkey {
	keys := v.MapKeys()
	res := make([]mapkey, len(keys))

	for i, key := range keys {
		s := ""
		if key.Kind() == reflect.String {
			s = key.String()
		} else {
			s = fmt.Sprint(key.Interface())
		}
		res[i] = mapkey{
			v: key,
			s: s,
		}
	}

	return res
}

// encodeSlice encodes a []byte as bytes and any other slice as a seq.
func (m *Encoder) encodeSlice(v reflect.Value) error {
	elem := v.Type().Elem()
	if elem.Kind() == reflect.Uint8 && !elem.Implements(marshalerType) {
		return m.w.WriteBytes(v.Bytes())
	}

	if err := m.w.BeginSeq(); err != nil {
		return err
	}
	if err := m.encodeElements(v); err != nil {
		return err
	}
	return m.w.EndSeq()
}

// encodeArray encodes an array as a tuple of its length.
func (m *Encoder) encodeArray(v reflect.Value) error {
	if err := m.w.BeginTuple(); err != nil {
		return err
	}
	if err := m.encodeElements(v); err != nil {
		return err
	}
	return m.w.EndTuple()
}

func (m *Encoder) encodeElements(v reflect.Value) error {
	for i := 0; i < v.Len(); i++ {
		if err := m.encodeValue(v.Index(i)); err != nil {
			return errors.WithMessagef(err, "element %v", i)
		}
	}
	return nil
}

// encodeStruct encodes a struct, leaving out nil pointer fields and, if
// tagged omitempty, empty ones.
func (m *Encoder) encodeStruct(v reflect.Value) error {
	fields := fieldsFor(v.Type())

	if err := m.w.BeginStruct(); err != nil {
		return err
	}

FieldLoop:
	for i := range fields {
		f := &fields[i]

		fv := v
		for _, i := range f.path {
			if fv.Kind() == reflect.Ptr {
				if fv.IsNil() {
					continue FieldLoop
				}
				fv = fv.Elem()
			}
			fv = fv.Field(i)
		}

		if f.omitEmpty && emptyValue(fv) {
			continue
		}

		if err := m.w.FieldName(f.name); err != nil {
			return err
		}
		if err := m.encodeValue(fv); err != nil {
			return errors.WithMessagef(err, "field %v", f.name)
		}
	}

	return m.w.EndStruct()
}

// emptyValue returns true if the given value is the empty value for its type.
func emptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	}
	return false
}

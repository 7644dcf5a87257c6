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
	"encoding"
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Unmarshaler is the interface implemented by types that can unmarshal
// themselves. UnmarshalMSD must read exactly the events MarshalMSD wrote.
type Unmarshaler interface {
	UnmarshalMSD(r Reader) error
}

var (
	unmarshalerType     = reflect.TypeOf((*Unmarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// Unmarshal unmarshals a document into the value pointed to by v, using the
// same mapping between Go types and events as Marshal. The document's shape
// comes entirely from v's type.
//
//	type point struct {
//		X int `msd:"x"`
//		Y int `msd:"y"`
//	}
//
//	var p point
//	err := Unmarshal([]byte("#x:1;\n#y:2;\n"), &p)
//	if err != nil {
//		t.Fatal(err)
//	}
//	fmt.Println(p) // prints out: {1 2}
//
// Struct fields that are neither pointers nor tagged omitempty must be
// present in the document.
func Unmarshal(data []byte, v interface{}) error {
	d := NewDecoder(NewReaderBytes(data))
	if err := d.DecodeTo(v); err != nil {
		return err
	}
	return d.Finish()
}

// UnmarshalString unmarshals a document from a string into the value
// pointed to by v.
func UnmarshalString(data string, v interface{}) error {
	return Unmarshal([]byte(data), v)
}

// UnmarshalFrom unmarshals the next value from a reader into the value
// pointed to by v. It does not call Finish, so is suitable for decoding
// values inside of a partially-read document, e.g. from an Unmarshaler.
func UnmarshalFrom(r Reader, v interface{}) error {
	d := Decoder{
		r: r,
	}
	return d.DecodeTo(v)
}

// A Decoder decodes Go values from a Reader.
type Decoder struct {
	r Reader
}

// NewDecoder creates a new decoder.
func NewDecoder(r Reader) *Decoder {
	return &Decoder{
		r: r,
	}
}

// DecodeTo decodes the next value into the value pointed to by v.
func (d *Decoder) DecodeTo(v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return &UsageError{"Decoder.DecodeTo", "v must be a non-nil pointer"}
	}
	return d.decodeTo(rv.Elem())
}

// Finish checks that the document has been read in full.
func (d *Decoder) Finish() error {
	return d.r.Finish()
}

// decodeTo decodes the next value into v, which must be settable.
func (d *Decoder) decodeTo(v reflect.Value) error {
	t := v.Type()
	if t.Kind() != reflect.Ptr && v.CanAddr() && reflect.PtrTo(t).Implements(unmarshalerType) {
		return v.Addr().Interface().(Unmarshaler).UnmarshalMSD(d.r)
	}

	switch t {
	case decimalType:
		val, err := d.r.ReadDecimal()
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(val))
		return nil

	case charType:
		val, err := d.r.ReadChar()
		if err != nil {
			return err
		}
		v.SetInt(int64(val))
		return nil

	case unitType:
		return d.r.ReadUnit()
	}

	if t.Kind() != reflect.Ptr && v.CanAddr() && reflect.PtrTo(t).Implements(textUnmarshalerType) {
		return d.decodeText(v)
	}

	switch t.Kind() {
	case reflect.Bool:
		val, err := d.r.ReadBool()
		if err != nil {
			return err
		}
		v.SetBool(val)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		val, err := d.r.ReadInt(t.Bits())
		if err != nil {
			return err
		}
		v.SetInt(val)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		val, err := d.r.ReadUint(t.Bits())
		if err != nil {
			return err
		}
		v.SetUint(val)
		return nil

	case reflect.Float32, reflect.Float64:
		val, err := d.r.ReadFloat(t.Bits())
		if err != nil {
			return err
		}
		v.SetFloat(val)
		return nil

	case reflect.String:
		val, err := d.r.ReadString()
		if err != nil {
			return err
		}
		v.SetString(val)
		return nil

	case reflect.Ptr:
		return d.decodePtr(v)

	case reflect.Struct:
		return d.decodeStruct(v)

	case reflect.Map:
		return d.decodeMap(v)

	case reflect.Slice:
		return d.decodeSlice(v)

	case reflect.Array:
		return d.decodeArray(v)

	default:
		return &CustomError{fmt.Sprintf("cannot decode into Go type %v", t)}
	}
}

// decodeText decodes a string into an encoding.TextUnmarshaler.
func (d *Decoder) decodeText(v reflect.Value) error {
	val, err := d.r.ReadString()
	if err != nil {
		return err
	}
	tu := v.Addr().Interface().(encoding.TextUnmarshaler)
	if err := tu.UnmarshalText([]byte(val)); err != nil {
		return &CustomError{fmt.Sprintf("cannot unmarshal %q into %v: %v", val, v.Type(), err)}
	}
	return nil
}

// decodePtr sets v to nil for an absent value, and otherwise decodes into
// the value v points to, allocating it if needed.
func (d *Decoder) decodePtr(v reflect.Value) error {
	present, err := d.r.Optional()
	if err != nil {
		return err
	}
	if !present {
		v.Set(reflect.Zero(v.Type()))
		return nil
	}

	if v.IsNil() {
		v.Set(reflect.New(v.Type().Elem()))
	}
	return d.decodeTo(v.Elem())
}

func (d *Decoder) decodeStruct(v reflect.Value) error {
	fields := fieldsFor(v.Type())
	if err := d.r.BeginStruct(fieldNames(fields)...); err != nil {
		return err
	}

	seen := map[string]bool{}
	for {
		name, ok, err := d.r.NextField()
		if err != nil {
			return err
		}
		if !ok {
			break
		}

		f := findField(fields, name)
		if f == nil {
			// Only possible for a struct with no fields at all.
			return &UnknownTagError{name, nil, d.r.Pos()}
		}
		subv, err := findSubvalue(v, f)
		if err != nil {
			return err
		}
		if err := d.decodeTo(subv); err != nil {
			return errors.WithMessagef(err, "field %v", name)
		}
		seen[name] = true
	}

	if err := d.r.EndStruct(); err != nil {
		return err
	}

	for i := range fields {
		f := &fields[i]
		if seen[f.name] {
			continue
		}
		if !f.optional() {
			return &ArityMismatchError{fmt.Sprintf("missing field %q", f.name), d.r.Pos()}
		}
		if f.typ.Kind() == reflect.Ptr {
			subv, err := findSubvalue(v, f)
			if err != nil {
				return err
			}
			subv.Set(reflect.Zero(f.typ))
		}
	}
	return nil
}

func (d *Decoder) decodeMap(v reflect.Value) error {
	t := v.Type()
	if k := kindOf(t.Key()); k != NoKind && !legalKinds[posMapKey].has(k) {
		return &UnsupportedTypeError{"Decoder.DecodeTo", k, posMapKey.String()}
	}

	if err := d.r.BeginMap(); err != nil {
		return err
	}
	if v.IsNil() {
		v.Set(reflect.MakeMap(t))
	}

	for {
		ok, err := d.r.More()
		if err != nil {
			return err
		}
		if !ok {
			break
		}

		key := reflect.New(t.Key()).Elem()
		if err := d.decodeTo(key); err != nil {
			return errors.WithMessage(err, "map key")
		}
		val := reflect.New(t.Elem()).Elem()
		if err := d.decodeTo(val); err != nil {
			return errors.WithMessagef(err, "value of key %v", key.Interface())
		}
		v.SetMapIndex(key, val)
	}

	return d.r.EndMap()
}

// decodeSlice decodes bytes into a []byte and a seq into any other slice.
func (d *Decoder) decodeSlice(v reflect.Value) error {
	t := v.Type()
	if t.Elem().Kind() == reflect.Uint8 {
		val, err := d.r.ReadBytes()
		if err != nil {
			return err
		}
		v.SetBytes(val)
		return nil
	}

	if err := d.r.BeginSeq(); err != nil {
		return err
	}
	if !v.IsNil() {
		v.SetLen(0)
	}

	for i := 0; ; i++ {
		ok, err := d.r.More()
		if err != nil {
			return err
		}
		if !ok {
			break
		}

		elem := reflect.New(t.Elem()).Elem()
		if err := d.decodeTo(elem); err != nil {
			return errors.WithMessagef(err, "element %v", i)
		}
		v.Set(reflect.Append(v, elem))
	}

	return d.r.EndSeq()
}

// decodeArray decodes a tuple of the array's length.
func (d *Decoder) decodeArray(v reflect.Value) error {
	if err := d.r.BeginTuple(v.Len()); err != nil {
		return err
	}
	for i := 0; i < v.Len(); i++ {
		if err := d.decodeTo(v.Index(i)); err != nil {
			return errors.WithMessagef(err, "element %v", i)
		}
	}
	return d.r.EndTuple()
}

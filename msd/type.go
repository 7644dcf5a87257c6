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
	"reflect"

	"github.com/shopspring/decimal"
)

// A Kind identifies one event of the vocabulary a Writer accepts and a
// Reader produces.
type Kind uint8

const (
	// NoKind is used where the kind of a value cannot be known in advance,
	// e.g. for types that implement Marshaler.
	NoKind Kind = iota

	// BoolKind is a boolean, true or false.
	BoolKind

	// IntKind is a signed integer of 8, 16, 32 or 64 bits.
	IntKind

	// UintKind is an unsigned integer of 8, 16, 32 or 64 bits.
	UintKind

	// FloatKind is a 32 or 64 bit floating-point number.
	FloatKind

	// DecimalKind is an arbitrary-precision decimal number.
	DecimalKind

	// CharKind is a single unicode character.
	CharKind

	// StringKind is a UTF-8 string.
	StringKind

	// BytesKind is a byte string.
	BytesKind

	// NoneKind is an absent optional value.
	NoneKind

	// UnitKind is a value that carries no data.
	UnitKind

	// VariantKind is the name of an enum variant.
	VariantKind

	// TupleKind is a fixed-length run of values.
	TupleKind

	// SeqKind is a variable-length sequence of values of one type.
	SeqKind

	// MapKind is a set of key/value entries.
	MapKind

	// StructKind is a set of named fields.
	StructKind
)

// String implements fmt.Stringer for Kind.
func (k Kind) String() string {
	switch k {
	case NoKind:
		return "<no kind>"
	case BoolKind:
		return "bool"
	case IntKind:
		return "int"
	case UintKind:
		return "uint"
	case FloatKind:
		return "float"
	case DecimalKind:
		return "decimal"
	case CharKind:
		return "char"
	case StringKind:
		return "string"
	case BytesKind:
		return "bytes"
	case NoneKind:
		return "none"
	case UnitKind:
		return "unit"
	case VariantKind:
		return "variant"
	case TupleKind:
		return "tuple"
	case SeqKind:
		return "seq"
	case MapKind:
		return "map"
	case StructKind:
		return "struct"
	default:
		return fmt.Sprintf("<unknown kind %v>", uint8(k))
	}
}

// Char is a rune that is encoded as a single character rather than as an int32.
type Char rune

// Unit is the Go representation of a value that carries no data.
type Unit struct{}

var (
	charType    = reflect.TypeOf(Char(0))
	unitType    = reflect.TypeOf(Unit{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
)

// kindOf returns the Kind a value of Go type t is encoded as.
func kindOf(t reflect.Type) Kind {
	switch t {
	case charType:
		return CharKind
	case unitType:
		return UnitKind
	case decimalType:
		return DecimalKind
	}
	if t.Implements(marshalerType) || reflect.PtrTo(t).Implements(marshalerType) {
		return NoKind
	}
	if t.Implements(textMarshalerType) || reflect.PtrTo(t).Implements(textMarshalerType) {
		return StringKind
	}

	switch t.Kind() {
	case reflect.Bool:
		return BoolKind
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return IntKind
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return UintKind
	case reflect.Float32, reflect.Float64:
		return FloatKind
	case reflect.String:
		return StringKind
	case reflect.Ptr:
		return NoneKind
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return BytesKind
		}
		return SeqKind
	case reflect.Array:
		return TupleKind
	case reflect.Map:
		return MapKind
	case reflect.Struct:
		return StructKind
	default:
		return NoKind
	}
}

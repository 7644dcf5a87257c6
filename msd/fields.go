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
	"strings"
)

// A field is a reflectively-accessed field of a struct type.
type field struct {
	name      string
	typ       reflect.Type
	path      []int
	omitEmpty bool
}

// optional returns true if the field may be left out of a document.
func (f *field) optional() bool {
	return f.omitEmpty || f.typ.Kind() == reflect.Ptr
}

func (f *field) setopts(opts string) {
	for _, o := range strings.Split(opts, ",") {
		if o == "omitempty" {
			f.omitEmpty = true
		}
	}
}

// A fielder maps out the fields of a type.
type fielder struct {
	fields []field
	index  map[string]bool
}

// fieldsFor returns the fields of the given struct type.
func fieldsFor(t reflect.Type) []field {
	fldr := fielder{index: map[string]bool{}}
	fldr.inspect(t, nil)
	return fldr.fields
}

// fieldNames returns the names of the given fields, in order.
func fieldNames(fields []field) []string {
	names := make([]string, len(fields))
	for i := range fields {
		names[i] = fields[i].name
	}
	return names
}

// inspect recursively inspects a type to determine all of its fields.
func (f *fielder) inspect(t reflect.Type, path []int) {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !visible(&sf) {
			continue
		}

		tag := sf.Tag.Get("msd")
		if tag == "-" {
			continue
		}
		name, opts := parseTag(tag)

		newpath := make([]int, len(path)+1)
		copy(newpath, path)
		newpath[len(path)] = i

		et := sf.Type
		if et.Name() == "" && et.Kind() == reflect.Ptr {
			et = et.Elem()
		}

		if name == "" && sf.Anonymous && et.Kind() == reflect.Struct {
			// Fields of an embedded struct are promoted.
			f.inspect(et, newpath)
			continue
		}

		if name == "" {
			name = sf.Name
		}
		if f.index[name] {
			panic(fmt.Sprintf("too many fields named %v", name))
		}
		f.index[name] = true

		field := field{
			name: name,
			typ:  sf.Type,
			path: newpath,
		}
		field.setopts(opts)

		f.fields = append(f.fields, field)
	}
}

// visible returns true if the given StructField should show up in the output.
func visible(sf *reflect.StructField) bool {
	if sf.Anonymous {
		t := sf.Type
		if t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		if t.Kind() == reflect.Struct {
			return true
		}
	}
	return sf.PkgPath == ""
}

// parseTag parses a `msd:"..."` field tag, returning the name and opts.
func parseTag(tag string) (string, string) {
	if idx := strings.Index(tag, ","); idx != -1 {
		return tag[:idx], tag[idx+1:]
	}
	return tag, ""
}

// findField returns the field with the given name, or nil.
func findField(fields []field, name string) *field {
	for i := range fields {
		if fields[i].name == name {
			return &fields[i]
		}
	}
	return nil
}

// findSubvalue walks f's path from v, allocating embedded pointers on the way.
func findSubvalue(v reflect.Value, f *field) (reflect.Value, error) {
	for _, i := range f.path {
		if v.Kind() == reflect.Ptr {
			if v.IsNil() {
				if !v.CanSet() {
					return reflect.Value{}, &CustomError{fmt.Sprintf("cannot set embedded pointer to unexported struct %v", v.Type().Elem())}
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(i)
	}
	return v, nil
}

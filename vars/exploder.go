// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package vars

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Exploder is implemented by host objects that can decompose themselves
// into an ordered sequence of name/value pairs for composite expansion.
//
// Implementing this interface is how a caller-defined type opts in to
// being used with the explode modifier, in the same way that a type
// implementing [fmt.Stringer] opts in to custom formatting.
type Exploder interface {
	// Explode returns the name/value pairs for this object, in the
	// order they should appear in the expanded URI. Returning an error
	// aborts the expansion that requested the pairs.
	Explode() ([]Pair, error)
}

// Explode decomposes a host object into ordered name/value pairs.
//
// If the object implements [Exploder] then that implementation is used.
// Otherwise the object must be a struct (or pointer to one) and its
// exported fields are extracted with [StructExplode].
func Explode(object any) ([]Pair, error) {
	if ex, ok := object.(Exploder); ok {
		return ex.Explode()
	}
	return StructExplode(object)
}

// StructExplode extracts the exported fields of a struct as ordered
// name/value pairs, in field declaration order.
//
// The mapping can be adjusted per field with a "uri" struct tag:
//
//	type Address struct {
//		City    string `uri:"city"`         // expand under the name "city"
//		Secret  string `uri:"-"`            // never expand
//		Country string `uri:",omitempty"`   // drop when empty
//	}
//
// Untagged fields expand under the field name with its first letter
// lower-cased. Nil pointer and nil interface fields are dropped, as are
// unexported fields. Embedded struct fields are flattened into their
// parent. Slice and array fields are rendered as a comma-joined string.
//
// StructExplode fails if the value is not a struct or pointer to
// struct, or if no fields could be extracted at all.
func StructExplode(object any) ([]Pair, error) {
	rv := reflect.ValueOf(object)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("cannot explode nil %s value", rv.Type())
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("cannot explode value of type %T: not a struct", object)
	}
	pairs := explodeStruct(rv)
	if len(pairs) == 0 {
		return nil, fmt.Errorf("value of type %T has no expansible fields", object)
	}
	return pairs, nil
}

func explodeStruct(rv reflect.Value) []Pair {
	st := rv.Type()
	var pairs []Pair
	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		if !field.IsExported() {
			continue
		}
		fv := rv.Field(i)

		if field.Anonymous && field.Tag.Get("uri") == "" {
			emb := fv
			if emb.Kind() == reflect.Pointer {
				if emb.IsNil() {
					continue
				}
				emb = emb.Elem()
			}
			if emb.Kind() == reflect.Struct {
				pairs = append(pairs, explodeStruct(emb)...)
				continue
			}
		}

		name := lowerFirst(field.Name)
		omitEmpty := false
		if tag, ok := field.Tag.Lookup("uri"); ok {
			tagName, opts, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
			omitEmpty = opts == "omitempty"
		}

		value, ok := fieldString(fv)
		if !ok {
			continue
		}
		if omitEmpty && value == "" {
			continue
		}
		pairs = append(pairs, Pair{Name: name, Value: value})
	}
	return pairs
}

// fieldString renders a single struct field value as a scalar string.
// The second result is false when the field should be dropped entirely,
// which happens for nil pointers and interfaces and for kinds that have
// no scalar rendering.
func fieldString(fv reflect.Value) (string, bool) {
	switch fv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if fv.IsNil() {
			return "", false
		}
	}
	if fv.CanInterface() {
		if s, ok := fv.Interface().(fmt.Stringer); ok {
			return s.String(), true
		}
	}
	switch fv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return fieldString(fv.Elem())
	case reflect.Slice, reflect.Array:
		elems := make([]string, 0, fv.Len())
		for i := 0; i < fv.Len(); i++ {
			el, ok := fieldString(fv.Index(i))
			if !ok {
				return "", false
			}
			elems = append(elems, el)
		}
		return strings.Join(elems, ","), true
	case reflect.String:
		return fv.String(), true
	case reflect.Bool:
		return strconv.FormatBool(fv.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(fv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(fv.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(fv.Float(), 'g', -1, fv.Type().Bits()), true
	default:
		return "", false
	}
}

func lowerFirst(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToLower(r)) + name[size:]
}

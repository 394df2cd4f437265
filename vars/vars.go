// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

// Package vars provides the variable bindings consumed by URI template
// expansion.
//
// A [Map] associates variable names with [Value] bindings. A Value is one
// of a small closed set of shapes: a string, an ordered list of strings,
// an ordered list of name/value pairs, or an opaque host object that is
// decomposed into pairs by an [Exploder] at expansion time.
//
// The expansion engine never mutates a Map. A Map must not be modified
// concurrently with an expansion that reads it.
package vars

import (
	"fmt"
	"sort"
	"strconv"
)

// Value is a single variable binding. The concrete type is one of
// [StringValue], [ListValue], [AssocValue] or [HostValue]; a nil Value
// behaves as an undefined variable.
type Value interface {
	isValue()
}

// StringValue is a scalar string binding.
type StringValue string

// ListValue is an ordered list of scalar strings.
type ListValue []string

// AssocValue is an ordered list of name/value pairs.
type AssocValue []Pair

// HostValue wraps an arbitrary host object that could not be coerced to
// one of the other value shapes. It is decomposed into an [AssocValue]
// through the exploder bridge when the variable is expanded.
type HostValue struct {
	Object any
}

// Pair is one element of an [AssocValue].
type Pair struct {
	Name  string
	Value string
}

func (StringValue) isValue() {}
func (ListValue) isValue()   {}
func (AssocValue) isValue()  {}
func (HostValue) isValue()   {}

// IsDefined reports whether v contributes anything to an expansion.
// Nil values are undefined, and so are lists and associative lists with
// zero members.
func IsDefined(v Value) bool {
	switch val := v.(type) {
	case nil:
		return false
	case ListValue:
		return len(val) > 0
	case AssocValue:
		return len(val) > 0
	default:
		return true
	}
}

// Map is a set of variable bindings keyed by variable name.
//
// A Map can be built directly as a map literal using the Value types, or
// incrementally with [Map.Set], which accepts native Go values and
// coerces them.
type Map map[string]Value

// Set binds name to the given value, replacing any existing binding for
// the same name. A nil value removes the binding. The value is coerced
// per [Coerce].
//
// Set returns the map the binding was stored in, so that bindings can
// be chained. A nil receiver gets a fresh map allocated for it, making
// the zero Map usable as long as the result is kept:
//
//	var m vars.Map
//	m = m.Set("host", "example.com").Set("port", 8080)
func (m Map) Set(name string, value any) Map {
	if value == nil {
		delete(m, name)
		return m
	}
	if m == nil {
		m = make(Map)
	}
	m[name] = Coerce(value)
	return m
}

// Coerce converts a native Go value to a [Value]:
//
//   - a Value is returned unchanged;
//   - strings, booleans, integers, floats and [fmt.Stringer]
//     implementations become a [StringValue];
//   - []string and []any become a [ListValue], with elements formatted
//     as strings;
//   - []Pair, map[string]string and map[string]any become an
//     [AssocValue]; map keys are sorted so that the pair order is
//     deterministic;
//   - anything else becomes a [HostValue] to be decomposed by the
//     exploder bridge at expansion time.
func Coerce(value any) Value {
	switch val := value.(type) {
	case Value:
		return val
	case []string:
		return ListValue(val)
	case []any:
		list := make(ListValue, len(val))
		for i, el := range val {
			list[i] = anyString(el)
		}
		return list
	case []Pair:
		return AssocValue(val)
	case map[string]string:
		names := make([]string, 0, len(val))
		for name := range val {
			names = append(names, name)
		}
		sort.Strings(names)
		pairs := make(AssocValue, len(names))
		for i, name := range names {
			pairs[i] = Pair{Name: name, Value: val[name]}
		}
		return pairs
	case map[string]any:
		names := make([]string, 0, len(val))
		for name := range val {
			names = append(names, name)
		}
		sort.Strings(names)
		pairs := make(AssocValue, len(names))
		for i, name := range names {
			pairs[i] = Pair{Name: name, Value: anyString(val[name])}
		}
		return pairs
	}
	if s, ok := formatScalar(value); ok {
		return StringValue(s)
	}
	return HostValue{Object: value}
}

// anyString formats a value for use as a scalar inside a list or
// associative list, falling back to fmt for types that formatScalar
// doesn't cover.
func anyString(value any) string {
	if s, ok := formatScalar(value); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

// formatScalar converts scalar-like Go values to their string form.
func formatScalar(value any) (string, bool) {
	switch val := value.(type) {
	case string:
		return val, true
	case bool:
		return strconv.FormatBool(val), true
	case int:
		return strconv.Itoa(val), true
	case int8:
		return strconv.FormatInt(int64(val), 10), true
	case int16:
		return strconv.FormatInt(int64(val), 10), true
	case int32:
		return strconv.FormatInt(int64(val), 10), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case uint:
		return strconv.FormatUint(uint64(val), 10), true
	case uint8:
		return strconv.FormatUint(uint64(val), 10), true
	case uint16:
		return strconv.FormatUint(uint64(val), 10), true
	case uint32:
		return strconv.FormatUint(uint64(val), 10), true
	case uint64:
		return strconv.FormatUint(val, 10), true
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32), true
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), true
	case fmt.Stringer:
		return val.String(), true
	}
	return "", false
}

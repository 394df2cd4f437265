// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

// Package ctyvars adapts [cty.Value] data to the variable bindings used
// for URI template expansion, for callers that already carry their
// configuration or credentials as cty values.
package ctyvars

import (
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"

	"github.com/opentofu/uritemplates/vars"
)

// FromValue converts a single cty value to a template variable binding.
//
// Strings, numbers and bools become scalar bindings. Lists, sets and
// tuples of primitive values become list bindings. Maps and objects
// become associative-list bindings with their elements in cty's own
// deterministic iteration order (sorted by key or attribute name).
//
// A null value converts to a nil binding, which expands as an undefined
// variable. Unknown values and non-primitive element types are an
// error: there is no sensible URI rendering for them.
func FromValue(v cty.Value) (vars.Value, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsKnown() {
		return nil, fmt.Errorf("cannot expand unknown value")
	}

	ty := v.Type()
	switch {
	case ty.IsPrimitiveType():
		s, err := primitiveString(v)
		if err != nil {
			return nil, err
		}
		return vars.StringValue(s), nil

	case ty.IsListType(), ty.IsSetType(), ty.IsTupleType():
		var list vars.ListValue
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			if ev.IsNull() {
				continue
			}
			s, err := primitiveString(ev)
			if err != nil {
				return nil, err
			}
			list = append(list, s)
		}
		return list, nil

	case ty.IsMapType():
		var pairs vars.AssocValue
		for it := v.ElementIterator(); it.Next(); {
			kv, ev := it.Element()
			if ev.IsNull() {
				continue
			}
			s, err := primitiveString(ev)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, vars.Pair{Name: kv.AsString(), Value: s})
		}
		return pairs, nil

	case ty.IsObjectType():
		atys := ty.AttributeTypes()
		names := make([]string, 0, len(atys))
		for name := range atys {
			names = append(names, name)
		}
		sort.Strings(names)
		var pairs vars.AssocValue
		for _, name := range names {
			av := v.GetAttr(name)
			if av.IsNull() {
				continue
			}
			s, err := primitiveString(av)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, vars.Pair{Name: name, Value: s})
		}
		return pairs, nil
	}

	return nil, fmt.Errorf("cannot expand value of type %s", ty.FriendlyName())
}

// FromObject converts an object or map value to a whole set of template
// bindings, one per attribute or element. Null attributes are omitted,
// so they expand as undefined variables.
func FromObject(v cty.Value) (vars.Map, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, fmt.Errorf("cannot build variables from a null or unknown value")
	}
	ty := v.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("cannot build variables from value of type %s", ty.FriendlyName())
	}

	m := make(vars.Map)
	for it := v.ElementIterator(); it.Next(); {
		kv, ev := it.Element()
		if ev.IsNull() {
			continue
		}
		value, err := FromValue(ev)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %q: %w", kv.AsString(), err)
		}
		if value == nil {
			continue
		}
		m[kv.AsString()] = value
	}
	return m, nil
}

// primitiveString renders a known, non-null primitive value in the form
// it should take inside a URI before percent-encoding.
func primitiveString(v cty.Value) (string, error) {
	if !v.IsKnown() {
		return "", fmt.Errorf("cannot expand unknown value")
	}
	switch v.Type() {
	case cty.String:
		return v.AsString(), nil
	case cty.Number:
		return v.AsBigFloat().Text('f', -1), nil
	case cty.Bool:
		if v.True() {
			return "true", nil
		}
		return "false", nil
	}
	return "", fmt.Errorf("cannot expand value of type %s", v.Type().FriendlyName())
}

// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package uritemplates

import (
	"strings"

	"github.com/opentofu/uritemplates/vars"
)

// unit is one rendered piece of an expression: an optional encoded name
// and an encoded value. Units from all of an expression's varspecs are
// joined with the operator's separator, after the operator's prefix.
type unit struct {
	name    string
	hasName bool
	value   string
}

func (e *expression) expand(buf *strings.Builder, m vars.Map, partial bool) error {
	if partial && !e.allDefined(m) {
		// Progressive binding: leave the expression for a later pass.
		buf.WriteString(e.raw)
		return nil
	}

	var units []unit
	for _, spec := range e.specs {
		more, err := e.renderSpec(spec, m[spec.name])
		if err != nil {
			return err
		}
		units = append(units, more...)
	}
	if len(units) == 0 {
		// Every variable was undefined, so the whole expression
		// vanishes, operator prefix included.
		return nil
	}

	buf.WriteString(e.op.first)
	for i, u := range units {
		if i > 0 {
			buf.WriteString(e.op.sep)
		}
		if u.hasName {
			buf.WriteString(u.name)
			if u.value == "" {
				buf.WriteString(e.op.ifEmpty)
				continue
			}
			buf.WriteByte('=')
		}
		buf.WriteString(u.value)
	}
	return nil
}

// allDefined reports whether every variable the expression references
// has a defined binding in m. Host objects count as defined even though
// their decomposition might still fail later.
func (e *expression) allDefined(m vars.Map) bool {
	for _, spec := range e.specs {
		if !vars.IsDefined(m[spec.name]) {
			return false
		}
	}
	return true
}

// renderSpec renders one varspec's binding to zero or more units. An
// undefined binding contributes no units and no error; a host object
// that cannot be decomposed aborts with a *ResolutionError.
func (e *expression) renderSpec(spec varSpec, v vars.Value) ([]unit, error) {
	op := e.op

	if hv, ok := v.(vars.HostValue); ok {
		pairs, err := vars.Explode(hv.Object)
		if err != nil {
			return nil, &ResolutionError{Name: spec.name, Err: err}
		}
		v = vars.AssocValue(pairs)
	}
	if !vars.IsDefined(v) {
		return nil, nil
	}

	switch val := v.(type) {
	case vars.StringValue:
		s := string(val)
		if spec.mod == modPrefix {
			s = prefix(s, spec.maxLen)
		}
		return []unit{{name: spec.name, hasName: op.named, value: escape(s, op.reserved)}}, nil

	case vars.ListValue:
		if spec.mod == modExplode {
			units := make([]unit, len(val))
			for i, el := range val {
				units[i] = unit{name: spec.name, hasName: op.named, value: escape(el, op.reserved)}
			}
			return units, nil
		}
		// A prefix modifier has no effect on composite values.
		elems := make([]string, len(val))
		for i, el := range val {
			elems[i] = escape(el, op.reserved)
		}
		return []unit{{name: spec.name, hasName: op.named, value: strings.Join(elems, ",")}}, nil

	case vars.AssocValue:
		if spec.mod == modExplode {
			// Exploded pairs always render as key=value, even under
			// operators that don't name their units.
			units := make([]unit, len(val))
			for i, p := range val {
				units[i] = unit{name: escape(p.Name, op.reserved), hasName: true, value: escape(p.Value, op.reserved)}
			}
			return units, nil
		}
		parts := make([]string, 0, len(val)*2)
		for _, p := range val {
			parts = append(parts, escape(p.Name, op.reserved), escape(p.Value, op.reserved))
		}
		return []unit{{name: spec.name, hasName: op.named, value: strings.Join(parts, ",")}}, nil
	}
	return nil, nil
}

// prefix returns the first n code points of s. It counts code points
// rather than bytes so that a multi-byte sequence is never split.
func prefix(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}

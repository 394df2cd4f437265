// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package uritemplates

import (
	"strings"

	"github.com/opentofu/uritemplates/vars"
)

// A component is one segment of a parsed template: either a run of
// literal text or a single {...} expression. Expanding every component
// in order and concatenating the results yields the final URI.
type component interface {
	expand(buf *strings.Builder, m vars.Map, partial bool) error
}

// literal is a run of template text outside any braces, already
// percent-encoded with the reserved-preserving profile at parse time so
// that every expansion can emit it verbatim.
type literal string

func (l literal) expand(buf *strings.Builder, _ vars.Map, _ bool) error {
	buf.WriteString(string(l))
	return nil
}

// scan splits a template into its ordered components. It fails with a
// *ParseError on unbalanced braces and on any expression that violates
// the template grammar, so a successful scan means the whole template
// is well-formed.
func scan(tmpl string) ([]component, error) {
	var comps []component
	start := 0
	for i := 0; i < len(tmpl); i++ {
		switch tmpl[i] {
		case '{':
			// Find the matching close brace. Nested opens are not
			// part of the grammar at any level.
			end := i + 1
			for end < len(tmpl) && tmpl[end] != '}' && tmpl[end] != '{' {
				end++
			}
			if end == len(tmpl) {
				return nil, &ParseError{
					Template: tmpl,
					Offset:   i,
					Reason:   "expression is never closed",
				}
			}
			if tmpl[end] == '{' {
				return nil, &ParseError{
					Template: tmpl,
					Offset:   end,
					Reason:   "nested { inside expression",
				}
			}
			if start < i {
				comps = append(comps, literal(escape(tmpl[start:i], true)))
			}
			expr, err := parseExpression(tmpl, i, tmpl[i+1:end])
			if err != nil {
				return nil, err
			}
			comps = append(comps, expr)
			i = end
			start = end + 1
		case '}':
			return nil, &ParseError{
				Template: tmpl,
				Offset:   i,
				Reason:   "} without matching {",
			}
		}
	}
	if start < len(tmpl) {
		comps = append(comps, literal(escape(tmpl[start:], true)))
	}
	return comps, nil
}

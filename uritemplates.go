// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

// Package uritemplates implements the URI Templates language described
// in [RFC 6570], at level 4: all operators, prefix modifiers, and
// list/map explode modifiers.
//
// A template is parsed once with [Parse] and can then be expanded any
// number of times against different variable bindings:
//
//	tmpl, err := uritemplates.Parse("https://example.com/search{?q,lang}")
//	if err != nil {
//		// the template itself is malformed
//	}
//	uri, err := tmpl.Expand(vars.Map{}.Set("q", "cat pictures").Set("lang", "en"))
//	// uri: https://example.com/search?q=cat%20pictures&lang=en
//
// Variable bindings are built with the [vars] package, which supports
// scalar, list and ordered map values as well as arbitrary host objects
// decomposed through the [vars.Exploder] bridge.
//
// Parsing and expansion are pure computations over immutable inputs: a
// parsed Template is safe for concurrent use, provided each concurrent
// expansion's bindings are not being mutated at the same time.
//
// [RFC 6570]: https://www.rfc-editor.org/rfc/rfc6570
package uritemplates

import (
	"fmt"
	"strings"

	"github.com/opentofu/uritemplates/vars"
)

// Template is a parsed URI template, ready for expansion. A Template is
// immutable after parsing.
type Template struct {
	src   string
	comps []component
	names []string
}

// Parse parses a URI template string. The whole template is validated
// eagerly: every expression's operator, variable names and modifiers
// are checked, and the first violation is returned as a *ParseError.
// No partially-parsed Template is ever returned.
func Parse(template string) (*Template, error) {
	comps, err := scan(template)
	if err != nil {
		return nil, err
	}

	var names []string
	seen := make(map[string]struct{})
	for _, c := range comps {
		expr, ok := c.(*expression)
		if !ok {
			continue
		}
		for _, spec := range expr.specs {
			if _, dup := seen[spec.name]; dup {
				continue
			}
			seen[spec.name] = struct{}{}
			names = append(names, spec.name)
		}
	}

	return &Template{src: template, comps: comps, names: names}, nil
}

// MustParse is like [Parse] but panics if the template is malformed.
// It is intended for package-level template variables whose source is
// a constant.
func MustParse(template string) *Template {
	tmpl, err := Parse(template)
	if err != nil {
		panic(fmt.Sprintf("uritemplates: %s", err))
	}
	return tmpl
}

// String returns the original template source.
func (t *Template) String() string {
	return t.src
}

// Names returns the variable names the template references, in order
// of first appearance.
func (t *Template) Names() []string {
	if len(t.names) == 0 {
		return nil
	}
	names := make([]string, len(t.names))
	copy(names, t.names)
	return names
}

// Expand substitutes the given bindings into the template and returns
// the resulting URI string.
//
// Undefined variables silently contribute nothing: an expression whose
// variables are all undefined expands to the empty string, operator
// prefix included. The only possible error is a *ResolutionError, when
// a bound host object cannot be decomposed into name/value pairs; in
// that case no partial result is returned.
func (t *Template) Expand(m vars.Map) (string, error) {
	return t.expand(m, false)
}

// ExpandPartial is like [Expand] except that an expression referencing
// any undefined variable is emitted verbatim instead of being expanded,
// so the result is itself a valid template that can be parsed and
// expanded again once more bindings are known.
func (t *Template) ExpandPartial(m vars.Map) (string, error) {
	return t.expand(m, true)
}

func (t *Template) expand(m vars.Map, partial bool) (string, error) {
	var buf strings.Builder
	buf.Grow(len(t.src))
	for _, c := range t.comps {
		if err := c.expand(&buf, m, partial); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// Expand is a convenience wrapper that parses the template and expands
// it against the given bindings in one call. Use [Parse] and
// [Template.Expand] separately when the same template is expanded more
// than once.
func Expand(template string, m vars.Map) (string, error) {
	tmpl, err := Parse(template)
	if err != nil {
		return "", err
	}
	return tmpl.Expand(m)
}

// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package uritemplates

import (
	"fmt"
	"strconv"
	"strings"
)

// maxPrefixLength is the largest prefix modifier the template grammar
// permits, per RFC 6570 section 2.4.1.
const maxPrefixLength = 10000

// operator describes how one expression operator renders its resolved
// variables: the prefix emitted once before the first unit, the
// separator between units, whether units carry the variable name, what
// follows a named unit with an empty value, and which encoding profile
// the values use.
type operator struct {
	first    string
	sep      string
	named    bool
	ifEmpty  string
	reserved bool
}

var (
	opSimple    = &operator{sep: ",", ifEmpty: "="}
	opReserved  = &operator{sep: ",", ifEmpty: "=", reserved: true}
	opFragment  = &operator{first: "#", sep: ",", ifEmpty: "=", reserved: true}
	opLabel     = &operator{first: ".", sep: ".", ifEmpty: "="}
	opPath      = &operator{first: "/", sep: "/", ifEmpty: "="}
	opPathParam = &operator{first: ";", sep: ";", named: true}
	opQuery     = &operator{first: "?", sep: "&", named: true, ifEmpty: "="}
	opContinue  = &operator{first: "&", sep: "&", named: true, ifEmpty: "="}
)

// operatorFor maps an expression's leading character to its operator.
// The second result is false when the character is not an operator at
// all and therefore begins a variable name (simple expansion).
func operatorFor(c byte) (*operator, bool) {
	switch c {
	case '+':
		return opReserved, true
	case '#':
		return opFragment, true
	case '.':
		return opLabel, true
	case '/':
		return opPath, true
	case ';':
		return opPathParam, true
	case '?':
		return opQuery, true
	case '&':
		return opContinue, true
	}
	return nil, false
}

// isFutureOperator reports whether c is an operator character that RFC
// 6570 reserves for future extensions. Expressions using one are
// rejected rather than treated as literals.
func isFutureOperator(c byte) bool {
	switch c {
	case '=', ',', '!', '@', '|':
		return true
	}
	return false
}

type modifier int

const (
	modNone modifier = iota
	modPrefix
	modExplode
)

// varSpec is a single variable reference within an expression, with
// its optional prefix-length or explode modifier.
type varSpec struct {
	name   string
	mod    modifier
	maxLen int // prefix length, set only when mod == modPrefix
}

// expression is a parsed {...} component of a template.
type expression struct {
	raw   string // original source text, including braces
	op    *operator
	specs []varSpec
}

// parseExpression parses the text found between braces at the given
// offset of tmpl. It validates the operator, the variable names and
// their modifiers, and fails fast with a *ParseError on the first
// violation.
func parseExpression(tmpl string, offset int, inner string) (*expression, error) {
	fail := func(reason string) (*expression, error) {
		return nil, &ParseError{
			Template:   tmpl,
			Offset:     offset,
			Expression: inner,
			Reason:     reason,
		}
	}

	if inner == "" {
		return fail("empty expression")
	}

	op := opSimple
	rest := inner
	if o, ok := operatorFor(inner[0]); ok {
		op = o
		rest = inner[1:]
	} else if isFutureOperator(inner[0]) {
		return fail(fmt.Sprintf("operator %q is reserved for future use", inner[0]))
	}
	if rest == "" {
		return fail("expression has no variables")
	}

	rawSpecs := strings.Split(rest, ",")
	specs := make([]varSpec, 0, len(rawSpecs))
	for _, raw := range rawSpecs {
		spec, reason := parseVarSpec(raw)
		if reason != "" {
			return fail(reason)
		}
		// The same name may appear more than once, as in {/var:1,var};
		// each specifier expands independently.
		specs = append(specs, spec)
	}

	return &expression{
		raw:   tmpl[offset : offset+len(inner)+2],
		op:    op,
		specs: specs,
	}, nil
}

// parseVarSpec parses one comma-separated variable specifier. The
// second result is a non-empty failure reason when the specifier is
// invalid.
func parseVarSpec(raw string) (varSpec, string) {
	spec := varSpec{name: raw}

	if strings.HasSuffix(raw, "*") {
		spec.mod = modExplode
		spec.name = raw[:len(raw)-1]
	} else if name, lenStr, found := strings.Cut(raw, ":"); found {
		spec.mod = modPrefix
		spec.name = name
		if lenStr == "" {
			return spec, fmt.Sprintf("variable %q has an empty prefix length", name)
		}
		for i := 0; i < len(lenStr); i++ {
			if lenStr[i] < '0' || lenStr[i] > '9' {
				return spec, fmt.Sprintf("invalid prefix length %q for variable %q", lenStr, name)
			}
		}
		n, err := strconv.Atoi(lenStr)
		if err != nil || n < 1 || n > maxPrefixLength {
			return spec, fmt.Sprintf("prefix length for variable %q must be between 1 and %d", name, maxPrefixLength)
		}
		spec.maxLen = n
	}

	if reason := checkVarName(spec.name); reason != "" {
		return spec, reason
	}
	return spec, ""
}

// checkVarName validates a variable name against the varname grammar:
// letters, digits, underscore, and percent-encoded octets, with dots
// permitted only between those characters, never leading, trailing, or
// doubled.
func checkVarName(name string) string {
	if name == "" {
		return "empty variable name"
	}
	prevDot := true // a dot may not be the first character either
	for i := 0; i < len(name); i++ {
		b := name[i]
		switch {
		case b >= 'A' && b <= 'Z', b >= 'a' && b <= 'z', b >= '0' && b <= '9', b == '_':
			prevDot = false
		case b == '.':
			if prevDot {
				return fmt.Sprintf("misplaced . in variable name %q", name)
			}
			prevDot = true
		case b == '%':
			if i+2 >= len(name) || !isHexDigit(name[i+1]) || !isHexDigit(name[i+2]) {
				return fmt.Sprintf("incomplete percent-encoding in variable name %q", name)
			}
			i += 2
			prevDot = false
		default:
			return fmt.Sprintf("invalid character %q in variable name %q", b, name)
		}
	}
	if prevDot {
		return fmt.Sprintf("misplaced . in variable name %q", name)
	}
	return ""
}

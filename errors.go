// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package uritemplates

import "fmt"

// ParseError describes a URI template that could not be parsed, either
// because its braces are unbalanced or because an expression inside the
// braces violates the template grammar.
type ParseError struct {
	// Template is the full template source that failed to parse.
	Template string

	// Offset is the byte offset within Template of the failing
	// character or expression.
	Offset int

	// Expression is the text between the braces of the failing
	// expression, or empty when the braces themselves are the problem.
	Expression string

	// Reason is a human-oriented description of what is wrong.
	Reason string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Expression != "" {
		return fmt.Sprintf("malformed expression {%s} at offset %d: %s", e.Expression, e.Offset, e.Reason)
	}
	return fmt.Sprintf("malformed template at offset %d: %s", e.Offset, e.Reason)
}

// ResolutionError is returned from expansion when the exploder bridge
// cannot decompose the host object bound to a variable. The template
// itself is valid; only the binding for the named variable is at fault.
type ResolutionError struct {
	// Name is the variable whose binding could not be resolved.
	Name string

	// Err is the underlying failure reported by the exploder bridge.
	Err error
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve variable %q: %s", e.Name, e.Err)
}

// Unwrap returns the underlying exploder error, for use with the
// standard library errors package and its "Is", "As", and "Unwrap"
// functions.
func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Interface implementation assertions. Compilation will fail here if
// either type stops being an error.
var _ error = (*ParseError)(nil)
var _ error = (*ResolutionError)(nil)

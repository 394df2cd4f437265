// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package uritemplates

import "strings"

const upperHex = "0123456789ABCDEF"

// isUnreserved reports whether b is in the RFC 3986 unreserved set,
// which is never percent-encoded under any profile.
func isUnreserved(b byte) bool {
	return b >= 'A' && b <= 'Z' || b >= 'a' && b <= 'z' || b >= '0' && b <= '9' ||
		b == '-' || b == '.' || b == '_' || b == '~'
}

// isReserved reports whether b is in the RFC 3986 reserved set
// (gen-delims plus sub-delims), which the reserved-preserving profile
// leaves unescaped.
func isReserved(b byte) bool {
	switch b {
	case ':', '/', '?', '#', '[', ']', '@',
		'!', '$', '&', '\'', '(', ')', '*', '+', ',', ';', '=':
		return true
	}
	return false
}

func isHexDigit(b byte) bool {
	return b >= '0' && b <= '9' || b >= 'A' && b <= 'F' || b >= 'a' && b <= 'f'
}

// escape percent-encodes s for inclusion in a URI.
//
// Unreserved characters always pass through unchanged. When
// preserveReserved is set the RFC 3986 reserved set also passes
// through, and a well-formed percent triplet already present in s is
// copied verbatim rather than having its % re-encoded. Everything else
// is encoded as one %XX triplet per UTF-8 byte, with uppercase hex
// digits.
func escape(s string, preserveReserved bool) string {
	// Fast path for strings that need no encoding at all, which is
	// the common case for template literals.
	clean := true
	for i := 0; i < len(s); i++ {
		b := s[i]
		if !isUnreserved(b) && !(preserveReserved && isReserved(b)) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}

	var buf strings.Builder
	buf.Grow(len(s) + len(s)/2)
	for i := 0; i < len(s); i++ {
		b := s[i]
		switch {
		case isUnreserved(b):
			buf.WriteByte(b)
		case preserveReserved && isReserved(b):
			buf.WriteByte(b)
		case preserveReserved && b == '%' && i+2 < len(s) && isHexDigit(s[i+1]) && isHexDigit(s[i+2]):
			// Already-encoded triplet; pass through as a unit.
			buf.WriteString(s[i : i+3])
			i += 2
		default:
			buf.WriteByte('%')
			buf.WriteByte(upperHex[b>>4])
			buf.WriteByte(upperHex[b&0x0F])
		}
	}
	return buf.String()
}

// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package uritemplates

import (
	"fmt"
	"net/url"

	"golang.org/x/net/idna"

	"github.com/opentofu/uritemplates/vars"
)

// ExpandURL expands the template and parses the result as a URL.
//
// If the hostname of the expanded URL contains non-ASCII characters,
// possibly percent-encoded by the expansion itself, it is converted to
// its IDNA (punycode) form so that the result is usable for actual
// requests. The rest of the URL is returned exactly as expanded.
func (t *Template) ExpandURL(m vars.Map) (*url.URL, error) {
	s, err := t.Expand(m)
	if err != nil {
		return nil, err
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("template expands to an invalid URL: %w", err)
	}

	host := u.Hostname()
	if host == "" {
		return u, nil
	}
	decoded, err := url.PathUnescape(host)
	if err != nil {
		decoded = host
	}
	if isASCII(decoded) {
		return u, nil
	}
	ascii, err := idna.Lookup.ToASCII(decoded)
	if err != nil {
		return nil, fmt.Errorf("template expands to an invalid hostname %q: %w", decoded, err)
	}
	if port := u.Port(); port != "" {
		u.Host = ascii + ":" + port
	} else {
		u.Host = ascii
	}
	return u, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

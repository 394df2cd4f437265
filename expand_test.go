// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package uritemplates

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/opentofu/uritemplates/vars"
)

func TestExpandUndefinedSuppression(t *testing.T) {
	// Binding nothing at all must make every expression vanish,
	// operator prefix included, leaving only the encoded literals.
	tmpl, err := Parse("https://example.com/{area}{/id*}{?q,lang}{#frag}")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	got, err := tmpl.Expand(vars.Map{})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if want := "https://example.com/"; got != want {
		t.Errorf("wrong result\ngot:  %s\nwant: %s", got, want)
	}
}

func TestExpandEmptyTemplate(t *testing.T) {
	got, err := Expand("", vars.Map{}.Set("unused", "x"))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if got != "" {
		t.Errorf("wrong result\ngot:  %q\nwant: %q", got, "")
	}
}

func TestExpandEmptyComposites(t *testing.T) {
	// A list or associative list with zero members behaves exactly
	// like an unbound variable.
	m := vars.Map{
		"list": vars.ListValue{},
		"keys": vars.AssocValue{},
	}
	for _, template := range []string{"{?list*}", "{?keys*}", "{/list}", "{keys}"} {
		t.Run(template, func(t *testing.T) {
			got, err := Expand(template, m)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if got != "" {
				t.Errorf("wrong result\ngot:  %q\nwant: %q", got, "")
			}
		})
	}
}

func TestExpandRepeatedVariable(t *testing.T) {
	// The same variable may appear several times in one expression,
	// with each specifier applying its own modifiers.
	tests := []struct {
		template string
		want     string
	}{
		{"{/var:1,var}", "/v/value"},
		{"{x,x}", "1024,1024"},
		{"{?x,x:2}", "?x=1024&x=10"},
	}
	m := vars.Map{}.Set("var", "value").Set("x", 1024)
	for _, test := range tests {
		t.Run(test.template, func(t *testing.T) {
			got, err := Expand(test.template, m)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if got != test.want {
				t.Errorf("wrong result\ngot:  %s\nwant: %s", got, test.want)
			}
		})
	}
}

func TestExpandPrefixMultibyte(t *testing.T) {
	// Prefix lengths count code points, never bytes, so a multi-byte
	// sequence must not be split.
	tests := []struct {
		value  string
		maxLen int
		want   string
	}{
		{"héllo", 2, "h%C3%A9"},
		{"héllo", 5, "h%C3%A9llo"},
		{"héllo", 30, "h%C3%A9llo"},
		{"日本語", 2, "%E6%97%A5%E6%9C%AC"},
		{"\U0001f600\U0001f601", 1, "%F0%9F%98%80"},
		{"", 3, ""},
	}
	for _, test := range tests {
		t.Run(test.value, func(t *testing.T) {
			got, err := Expand(fmt.Sprintf("{var:%d}", test.maxLen), vars.Map{}.Set("var", test.value))
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if got != test.want {
				t.Errorf("wrong result\ngot:  %s\nwant: %s", got, test.want)
			}
		})
	}
}

func TestExpandExplodeOnScalar(t *testing.T) {
	// Explode has no effect on a scalar value.
	got, err := Expand("{?var*}", vars.Map{}.Set("var", "value"))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if want := "?var=value"; got != want {
		t.Errorf("wrong result\ngot:  %s\nwant: %s", got, want)
	}
}

type address struct {
	City    string `uri:"city"`
	State   string `uri:"state"`
	Zip     string `uri:"-"`
	Country *string
}

func TestExpandHostObject(t *testing.T) {
	// A struct bound to a variable is decomposed through the
	// exploder bridge into ordered name/value pairs.
	m := vars.Map{}.Set("address", address{
		City:  "Newport Beach",
		State: "CA",
		Zip:   "92660",
	})
	got, err := Expand("/mapper{?address*}", m)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if want := "/mapper?city=Newport%20Beach&state=CA"; got != want {
		t.Errorf("wrong result\ngot:  %s\nwant: %s", got, want)
	}
}

type failingExploder struct{}

func (failingExploder) Explode() ([]vars.Pair, error) {
	return nil, errors.New("nothing to extract")
}

func TestExpandResolutionError(t *testing.T) {
	// An exploder failure aborts the whole expansion: no partial
	// result, and the error identifies the failing variable. Working
	// sibling variables must not change that.
	tmpl, err := Parse("{?ok,bad}")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	m := vars.Map{}.Set("ok", "fine").Set("bad", failingExploder{})

	got, err := tmpl.Expand(m)
	if err == nil {
		t.Fatal("unexpected success")
	}
	if got != "" {
		t.Errorf("got partial result %q alongside the error", got)
	}
	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("error is %T, not *ResolutionError", err)
	}
	if resErr.Name != "bad" {
		t.Errorf("ResolutionError.Name is %q, want %q", resErr.Name, "bad")
	}
	if !strings.Contains(err.Error(), "nothing to extract") {
		t.Errorf("error does not mention the underlying cause: %s", err)
	}
}

func TestExpandPartial(t *testing.T) {
	m := vars.Map{}.Set("area", "search").Set("q", "cats")
	tests := []struct {
		template string
		want     string
	}{
		// Fully resolved expressions expand as usual.
		{"/{area}", "/search"},
		// An expression referencing any undefined variable is kept
		// verbatim so the result is still a template.
		{"/{area}{?q,lang}", "/search{?q,lang}"},
		{"/{other}", "/{other}"},
		{"{/area,other}", "{/area,other}"},
	}
	for _, test := range tests {
		t.Run(test.template, func(t *testing.T) {
			tmpl, err := Parse(test.template)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			got, err := tmpl.ExpandPartial(m)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if got != test.want {
				t.Errorf("wrong result\ngot:  %s\nwant: %s", got, test.want)
			}

			// The partial result must itself parse, and expanding it
			// with the full bindings must match a direct expansion.
			rest, err := Parse(got)
			if err != nil {
				t.Fatalf("partial result does not re-parse: %s", err)
			}
			full := vars.Map{}.Set("area", "search").Set("q", "cats").Set("other", "x").Set("lang", "en")
			fromPartial, err := rest.Expand(full)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			direct, err := tmpl.Expand(full)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if fromPartial != direct {
				t.Errorf("two-pass expansion diverged\ntwo-pass: %s\ndirect:   %s", fromPartial, direct)
			}
		})
	}
}

func TestExpandConcurrent(t *testing.T) {
	// One parsed template must be usable from many goroutines at once.
	tmpl := MustParse("/users/{id}{?fields*}")
	done := make(chan error)
	for i := 0; i < 8; i++ {
		go func(i int) {
			m := vars.Map{}.Set("id", i).Set("fields", []string{"name", "email"})
			got, err := tmpl.Expand(m)
			if err != nil {
				done <- err
				return
			}
			want := fmt.Sprintf("/users/%d?fields=name&fields=email", i)
			if got != want {
				done <- fmt.Errorf("wrong result %q, want %q", got, want)
				return
			}
			done <- nil
		}(i)
	}
	for i := 0; i < 8; i++ {
		if err := <-done; err != nil {
			t.Error(err)
		}
	}
}

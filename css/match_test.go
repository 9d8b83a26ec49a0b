package css

import (
	"errors"
	"reflect"
	"testing"
)

func TestSegments(t *testing.T) {
	c, err := Segments(`div.item#x[data-role="btn"]`)
	if err != nil {
		t.Fatal(err)
	}
	expected := Compound{
		Tag:        "div",
		ID:         "x",
		Classes:    []string{"item"},
		Attributes: []AttributeTest{{"data-role", Equals, "btn"}},
	}
	if !reflect.DeepEqual(c, expected) {
		t.Errorf("got %#v expected %#v", c, expected)
	}

	var unsupportedErr *UnsupportedSelectorError
	for _, selector := range []string{"div p", "div > p", "div, span", "div:first-child", "div:not(.x)"} {
		if _, err := Segments(selector); !errors.As(err, &unsupportedErr) {
			t.Errorf("%s: expected UnsupportedSelectorError, got %v", selector, err)
		}
	}
	var syntaxErr *SyntaxError
	if _, err := Segments("div >"); !errors.As(err, &syntaxErr) {
		t.Errorf("expected SyntaxError, got %v", err)
	}
}

func TestMatch(t *testing.T) {
	compound := func(s string) Compound {
		c, err := Segments(s)
		if err != nil {
			t.Fatal(err)
		}
		return c
	}
	for _, tc := range []struct {
		name     string
		selector string
		tag, id  string
		classes  []string
		attrs    map[string]string
		expected bool
	}{
		{
			"exact match",
			`div.item#x[data-role="btn"]`,
			"div", "x", []string{"item"}, map[string]string{"data-role": "btn"},
			true,
		},
		{
			"extra class on node breaks set equality",
			`div.item#x[data-role="btn"]`,
			"div", "x", []string{"item", "extra"}, map[string]string{"data-role": "btn"},
			false,
		},
		{
			"missing class on node",
			"div.item.extra",
			"div", "", []string{"item"}, nil,
			false,
		},
		{
			"class order and duplicates are irrelevant",
			"div.a.b",
			"div", "", []string{"b", "a", "b"}, nil,
			true,
		},
		{
			"wildcard tag",
			".item",
			"span", "", []string{"item"}, nil,
			true,
		},
		{
			"tag mismatch",
			"div",
			"span", "", nil, nil,
			false,
		},
		{
			"tag is case-insensitive",
			"div",
			"DIV", "", nil, nil,
			true,
		},
		{
			"id mismatch",
			"#x",
			"div", "y", nil, nil,
			false,
		},
		{
			"id absent on both counts as equal",
			"div",
			"div", "", nil, nil,
			true,
		},
		{
			"extra attribute on node breaks set equality",
			"div",
			"div", "", nil, map[string]string{"data-role": "btn"},
			false,
		},
		{
			"id and class keys are excluded from attribute comparison",
			"div",
			"div", "", nil, map[string]string{"id": "x", "class": "item"},
			true,
		},
		{
			"presence test accounts for the key without a value constraint",
			"input[disabled]",
			"input", "", nil, map[string]string{"disabled": ""},
			true,
		},
		{
			"presence test on a missing attribute",
			"input[disabled]",
			"input", "", nil, nil,
			false,
		},
		{
			"presence and equals mix",
			`a[href][data-role="btn"]`,
			"a", "", nil, map[string]string{"href": "/x", "data-role": "btn"},
			true,
		},
	} {
		actual, err := Match(compound(tc.selector), tc.tag, tc.id, tc.classes, tc.attrs)
		if err != nil {
			t.Errorf("%s: %s", tc.name, err)
		} else if actual != tc.expected {
			t.Errorf("%s: got %t expected %t", tc.name, actual, tc.expected)
		}
	}
}

func TestMatchUnsupported(t *testing.T) {
	var unsupportedErr *UnsupportedSelectorError
	if _, err := Match(Compound{Pseudos: []Pseudo{{Name: "first-child"}}}, "div", "", nil, nil); !errors.As(err, &unsupportedErr) {
		t.Errorf("expected UnsupportedSelectorError, got %v", err)
	}
	c := Compound{Attributes: []AttributeTest{{"href", StartsWith, "http"}}}
	if _, err := Match(c, "a", "", nil, map[string]string{"href": "http://example.com"}); !errors.As(err, &unsupportedErr) {
		t.Errorf("expected UnsupportedSelectorError, got %v", err)
	}
}

package css

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	for _, tc := range []struct {
		selector string
		expected SelectorList
	}{
		{"div", SelectorList{{{Descendant, Compound{Tag: "div"}}}}},
		{"*", SelectorList{{{Descendant, Compound{}}}}},
		{"DIV", SelectorList{{{Descendant, Compound{Tag: "div"}}}}},
		{".item", SelectorList{{{Descendant, Compound{Classes: []string{"item"}}}}}},
		{".item.item", SelectorList{{{Descendant, Compound{Classes: []string{"item"}}}}}},
		{"#x", SelectorList{{{Descendant, Compound{ID: "x"}}}}},
		{
			"div.item#x",
			SelectorList{{{Descendant, Compound{Tag: "div", ID: "x", Classes: []string{"item"}}}}},
		},
		{
			"[href]",
			SelectorList{{{Descendant, Compound{Attributes: []AttributeTest{{Key: "href", Op: Presence}}}}}},
		},
		{
			`[data-role="btn"]`,
			SelectorList{{{Descendant, Compound{Attributes: []AttributeTest{{"data-role", Equals, "btn"}}}}}},
		},
		{
			`a[href^="http"][href$="html"]`,
			SelectorList{{{Descendant, Compound{Tag: "a", Attributes: []AttributeTest{
				{"href", StartsWith, "http"},
				{"href", EndsWith, "html"},
			}}}}},
		},
		{
			`[class~=extra][lang|=en][title*=foo]`,
			SelectorList{{{Descendant, Compound{Attributes: []AttributeTest{
				{"class", ContainsWord, "extra"},
				{"lang", LangPrefix, "en"},
				{"title", Contains, "foo"},
			}}}}},
		},
		{
			"div p",
			SelectorList{{{Descendant, Compound{Tag: "div"}}, {Descendant, Compound{Tag: "p"}}}},
		},
		{
			"div > p",
			SelectorList{{{Descendant, Compound{Tag: "div"}}, {Child, Compound{Tag: "p"}}}},
		},
		{
			"li + li",
			SelectorList{{{Descendant, Compound{Tag: "li"}}, {AdjacentSibling, Compound{Tag: "li"}}}},
		},
		{
			"li~li",
			SelectorList{{{Descendant, Compound{Tag: "li"}}, {GeneralSibling, Compound{Tag: "li"}}}},
		},
		{
			"div, span",
			SelectorList{
				{{Descendant, Compound{Tag: "div"}}},
				{{Descendant, Compound{Tag: "span"}}},
			},
		},
		{
			"li:first-child",
			SelectorList{{{Descendant, Compound{Tag: "li", Pseudos: []Pseudo{{Name: "first-child"}}}}}},
		},
		{
			"li:nth-child(2n+1)",
			SelectorList{{{Descendant, Compound{Tag: "li", Pseudos: []Pseudo{{Name: "nth-child", A: 2, B: 1}}}}}},
		},
		{
			"li:nth-child(odd)",
			SelectorList{{{Descendant, Compound{Tag: "li", Pseudos: []Pseudo{{Name: "nth-child", A: 2, B: 1}}}}}},
		},
		{
			"li:nth-child(3)",
			SelectorList{{{Descendant, Compound{Tag: "li", Pseudos: []Pseudo{{Name: "nth-child", B: 3}}}}}},
		},
		{
			"li:nth-last-child(-n+2)",
			SelectorList{{{Descendant, Compound{Tag: "li", Pseudos: []Pseudo{{Name: "nth-last-child", A: -1, B: 2}}}}}},
		},
		{
			"p:not(.x)",
			SelectorList{{{Descendant, Compound{Tag: "p", Pseudos: []Pseudo{
				{Name: "not", Not: &Compound{Classes: []string{"x"}}},
			}}}}},
		},
		{
			`p:contains("hello")`,
			SelectorList{{{Descendant, Compound{Tag: "p", Pseudos: []Pseudo{{Name: "contains", Text: "hello"}}}}}},
		},
	} {
		actual, err := Parse(tc.selector)
		if err != nil {
			t.Errorf("%s: %s", tc.selector, err)
		} else if !reflect.DeepEqual(actual, tc.expected) {
			t.Errorf("%s\ngot:\n\t%#v\nexpected:\n\t%#v", tc.selector, actual, tc.expected)
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, tc := range []struct {
		selector string
		msg      string
	}{
		{"[href", "expected ]"},
		{`[a="x]`, "unterminated quoted string"},
		{"div >", "missing compound after combinator"},
		{"> div", "empty compound selector"},
		{"div,", "empty compound selector"},
		{"div, , span", "empty compound selector"},
		{":blink", "invalid pseudo selector"},
		{":nth-child(", "unterminated function arguments"},
		{":nth-child(x)", "bad nth arguments"},
		{":has(div)", "invalid pseudo function"},
		{":not(div p)", "single compound"},
		{":not(:first-child)", "nest pseudo"},
		{"::before", "invalid use of pseudo element"},
	} {
		_, err := Parse(tc.selector)
		if err == nil {
			t.Errorf("%s: expected error", tc.selector)
			continue
		}
		var syntaxErr *SyntaxError
		if !errors.As(err, &syntaxErr) {
			t.Errorf("%s: expected SyntaxError, got %T", tc.selector, err)
		} else if !strings.Contains(err.Error(), tc.msg) {
			t.Errorf("%s: expected %q in %q", tc.selector, tc.msg, err)
		}
	}

	var invalidErr *InvalidArgumentError
	if _, err := Parse(""); !errors.As(err, &invalidErr) {
		t.Errorf("expected InvalidArgumentError for empty selector, got %v", err)
	}
	if _, err := Parse("   "); !errors.As(err, &invalidErr) {
		t.Errorf("expected InvalidArgumentError for blank selector, got %v", err)
	}
}

func TestParseEscapes(t *testing.T) {
	list, err := Parse(`.a\.b`)
	if err != nil {
		t.Fatal(err)
	}
	expected := SelectorList{{{Descendant, Compound{Classes: []string{"a.b"}}}}}
	if !reflect.DeepEqual(list, expected) {
		t.Errorf("got %#v expected %#v", list, expected)
	}
}

func TestUnescape(t *testing.T) {
	for escaped, expected := range map[string]string{
		`a\.b`:         "a.b",
		`\26 x`:        "&x",
		"a\uFFFDb":     "a\u0000b",
		`\0000e9 tude`: "étude",
	} {
		if unescaped := Unescape(escaped); unescaped != expected {
			t.Errorf("Unescape(%q): got %q expected %q", escaped, unescaped, expected)
		}
	}
}

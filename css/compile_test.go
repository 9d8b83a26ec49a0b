package css

import (
	"errors"
	"testing"

	"golang.org/x/sync/errgroup"
)

func TestCompile(t *testing.T) {
	for _, tc := range []struct {
		selector string
		expected string
	}{
		{"div", "//div"},
		{"*", "//*"},
		{"#x", `//*[@id = "x"]`},
		{".item", `//*[contains(concat(" ", normalize-space(@class), " "), " item ")]`},
		{
			"div.item#x",
			`//div[@id = "x"][contains(concat(" ", normalize-space(@class), " "), " item ")]`,
		},
		{"[href]", "//*[@href]"},
		{`[data-role="btn"]`, `//*[@data-role = "btn"]`},
		{`a[href^="http"]`, `//a[starts-with(@href, "http")]`},
		{`a[href$="df"]`, `//a[substring(@href, string-length(@href) - 2 + 1) = "df"]`},
		{`a[href*="example"]`, `//a[contains(@href, "example")]`},
		{
			`[class~="extra"]`,
			`//*[contains(concat(" ", normalize-space(@class), " "), " extra ")]`,
		},
		{`[lang|="en"]`, `//*[@lang = "en" or starts-with(@lang, "en-")]`},
		{"div p", "//div//p"},
		{"div > p", "//div/p"},
		{"li + li", "//li/following-sibling::*[1]/self::li"},
		{"li ~ li", "//li/following-sibling::li"},
		{"li:first-child", "//li[count(preceding-sibling::*) = 0]"},
		{"li:last-child", "//li[count(following-sibling::*) = 0]"},
		{
			"li:only-child",
			"//li[count(preceding-sibling::*) = 0 and count(following-sibling::*) = 0]",
		},
		{"p:empty", "//p[not(node())]"},
		{"li:nth-child(3)", "//li[(count(preceding-sibling::*) + 1) = 3]"},
		{
			"li:nth-child(2n+1)",
			"//li[(count(preceding-sibling::*) + 1) >= 1 and ((count(preceding-sibling::*) + 1) - 1) mod 2 = 0]",
		},
		{
			"li:nth-last-child(2)",
			"//li[(count(following-sibling::*) + 1) = 2]",
		},
		{
			"li:nth-child(-n+2)",
			"//li[(count(preceding-sibling::*) + 1) <= 2 and (2 - (count(preceding-sibling::*) + 1)) mod 1 = 0]",
		},
		{
			"p:not(.x)",
			`//p[not((contains(concat(" ", normalize-space(@class), " "), " x ")))]`,
		},
		{"p:not(span)", "//p[not((self::span))]"},
		{`p:contains("hi")`, `//p[contains(., "hi")]`},
		{"div, span", "//div|//span"},
		{
			"ul > li.item, ol li",
			`//ul/li[contains(concat(" ", normalize-space(@class), " "), " item ")]|//ol//li`,
		},
	} {
		actual, err := Compile(tc.selector, TypeCSS)
		if err != nil {
			t.Errorf("%s: %s", tc.selector, err)
		} else if actual != tc.expected {
			t.Errorf("%s\ngot:\n\t%s\nexpected:\n\t%s", tc.selector, actual, tc.expected)
		}
	}
}

func TestCompileScoped(t *testing.T) {
	if s := MustCompile("div > p", TypeCSS); s != "//div/p" {
		t.Errorf("got %s", s)
	}
	s, err := CompileScoped("div > p", TypeCSS)
	if err != nil {
		t.Fatal(err)
	}
	if s != ".//div/p" {
		t.Errorf("got %s", s)
	}
}

func TestCompileXPathPassthrough(t *testing.T) {
	for _, expr := range []string{"//foo/bar", "count(//a)", "not valid xpath at all"} {
		s, err := Compile(expr, TypeXPath)
		if err != nil {
			t.Fatal(err)
		}
		if s != expr {
			t.Errorf("passthrough modified %q into %q", expr, s)
		}
	}
}

func TestCompileErrors(t *testing.T) {
	var invalidErr *InvalidArgumentError
	if _, err := Compile("div", ExprType("regex")); !errors.As(err, &invalidErr) {
		t.Errorf("expected InvalidArgumentError, got %v", err)
	}
	if _, err := Compile("", TypeXPath); !errors.As(err, &invalidErr) {
		t.Errorf("expected InvalidArgumentError, got %v", err)
	}
	var syntaxErr *SyntaxError
	if _, err := Compile("div >", TypeCSS); !errors.As(err, &syntaxErr) {
		t.Errorf("expected SyntaxError, got %v", err)
	}
}

func TestCompileStrings(t *testing.T) {
	for _, tc := range []struct {
		selector string
		expected string
	}{
		{`[title="it's"]`, `//*[@title = "it's"]`},
		{`[title='say "hi"']`, `//*[@title = 'say "hi"']`},
		{`[title='a "b" c\'s']`, `//*[@title = concat("a ", '"', "b", '"', " c's")]`},
	} {
		actual, err := Compile(tc.selector, TypeCSS)
		if err != nil {
			t.Errorf("%s: %s", tc.selector, err)
		} else if actual != tc.expected {
			t.Errorf("%s\ngot:\n\t%s\nexpected:\n\t%s", tc.selector, actual, tc.expected)
		}
	}
}

func TestCompileDeterminism(t *testing.T) {
	selectors := []string{
		"div", ".item", "#x", "div > p.item", "li:nth-child(2n+1)",
		"ul li, ol li", `a[href^="http"]:not(.external)`,
	}
	expected := make([]string, len(selectors))
	for i, s := range selectors {
		expected[i] = MustCompile(s, TypeCSS)
	}
	g := errgroup.Group{}
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			for i, s := range selectors {
				if actual := MustCompile(s, TypeCSS); actual != expected[i] {
					t.Errorf("%s: got %s expected %s", s, actual, expected[i])
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}

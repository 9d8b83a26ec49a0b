package css

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

type parser struct {
	tokens []token
	index  int
}

func (p *parser) next() token {
	if p.index == len(p.tokens) {
		return token{category: tokenEOF}
	}
	t := p.tokens[p.index]
	p.index++
	return t
}

func (p *parser) peek() token {
	t := p.next()
	p.index--
	return t
}

func (p *parser) backup() {
	if p.index == 0 {
		panic("cannot backup at start")
	}
	p.index--
}

func (p *parser) acceptRun(c tokenCategory) {
	for p.next().category == c {
	}
	p.backup()
}

// pseudoClasses are the bare pseudo classes the compiler can translate.
var pseudoClasses = map[string]bool{
	"first-child": true,
	"last-child":  true,
	"only-child":  true,
	"empty":       true,
}

// pseudoFunctions are the parenthesized pseudo classes the compiler can
// translate.
var pseudoFunctions = map[string]bool{
	"nth-child":      true,
	"nth-last-child": true,
	"not":            true,
	"contains":       true,
}

// Parse turns selector text into a selector list: one group per top-level
// comma, each group an ordered sequence of combinator/compound pairs.
func Parse(selector string) (SelectorList, error) {
	if strings.TrimSpace(selector) == "" {
		return nil, &InvalidArgumentError{Msg: "empty selector"}
	}
	tokens, err := lex(selector)
	if err != nil {
		return nil, &SyntaxError{Selector: selector, Msg: err.Error()}
	}
	p := &parser{tokens: tokens}
	list, err := p.parseList()
	if err != nil {
		return nil, &SyntaxError{Selector: selector, Msg: err.Error()}
	}
	return list, nil
}

func (p *parser) parseList() (SelectorList, error) {
	list := SelectorList{}
	for {
		g, err := p.parseGroup()
		if err != nil {
			return nil, err
		}
		list = append(list, g)
		p.acceptRun(tokenSpace)
		switch t := p.next(); t.category {
		case tokenEOF:
			return list, nil
		case tokenComma:
		default:
			return nil, fmt.Errorf("unexpected %q", t.string)
		}
	}
}

func (p *parser) parseGroup() (Group, error) {
	p.acceptRun(tokenSpace)
	c, err := p.parseCompound()
	if err != nil {
		return nil, err
	}
	g := Group{{Descendant, c}}
	for {
		combinator, ok := p.parseCombinator()
		if !ok {
			return g, nil
		}
		c, err := p.parseCompound()
		if err != nil {
			return nil, fmt.Errorf("missing compound after combinator %q: %s", combinator, err)
		}
		g = append(g, Part{combinator, c})
	}
}

// parseCombinator consumes the combinator between two compounds. It reports
// false when the group ends here (EOF or a top-level comma).
func (p *parser) parseCombinator() (Combinator, bool) {
	space := p.peek().category == tokenSpace
	p.acceptRun(tokenSpace)
	if p.peek().category == tokenCombinator {
		t := p.next()
		p.acceptRun(tokenSpace)
		switch t.string {
		case ">":
			return Child, true
		case "+":
			return AdjacentSibling, true
		default:
			return GeneralSibling, true
		}
	}
	if space && p.peek().category != tokenEOF && p.peek().category != tokenComma {
		return Descendant, true
	}
	return 0, false
}

func (p *parser) parseCompound() (Compound, error) {
	c, any := Compound{}, false
	switch p.peek().category {
	case tokenIdent:
		c.Tag, any = strings.ToLower(p.next().string), true
	case tokenUniversal:
		p.next()
		any = true
	}
loop:
	for {
		switch p.peek().category {
		case tokenClass:
			name := p.next().string
			if !slices.Contains(c.Classes, name) {
				c.Classes = append(c.Classes, name)
			}
		case tokenID:
			c.ID = p.next().string
		case tokenBracketOpen:
			at, err := p.parseAttributeTest()
			if err != nil {
				return c, err
			}
			c.Attributes = append(c.Attributes, at)
		case tokenPseudoClass:
			name := strings.ToLower(p.next().string)
			if !pseudoClasses[name] {
				return c, errors.New("invalid pseudo selector: :" + name)
			}
			c.Pseudos = append(c.Pseudos, Pseudo{Name: name})
		case tokenPseudoFunction:
			ps, err := p.parsePseudoFunction()
			if err != nil {
				return c, err
			}
			c.Pseudos = append(c.Pseudos, ps)
		default:
			break loop
		}
		any = true
	}
	if !any {
		return c, errors.New("empty compound selector")
	}
	return c, nil
}

var attrOps = map[string]AttrOp{
	"=":  Equals,
	"*=": Contains,
	"^=": StartsWith,
	"$=": EndsWith,
	"~=": ContainsWord,
	"|=": LangPrefix,
}

func (p *parser) parseAttributeTest() (AttributeTest, error) {
	if t := p.next(); t.category != tokenBracketOpen {
		return AttributeTest{}, fmt.Errorf("invalid attribute selector: expected [ but got %q", t.string)
	}
	p.acceptRun(tokenSpace)
	if t := p.peek(); t.category != tokenIdent {
		return AttributeTest{}, fmt.Errorf("invalid attribute selector: expected identifier but got %q", t.string)
	}
	key, matcher := strings.ToLower(p.next().string), p.parseMatcher()
	if t := p.next(); matcher == "" && t.category == tokenBracketClose {
		return AttributeTest{Key: key, Op: Presence}, nil
	} else if matcher != "" && (t.category == tokenString || t.category == tokenIdent) {
		value := t.string
		if t.category == tokenString {
			value = value[1 : len(value)-1]
		}
		p.acceptRun(tokenSpace)
		if t := p.next(); t.category != tokenBracketClose {
			return AttributeTest{}, fmt.Errorf("invalid attribute selector: expected ] but got %q", t.string)
		}
		return AttributeTest{Key: key, Op: attrOps[matcher], Value: value}, nil
	} else {
		return AttributeTest{}, fmt.Errorf("invalid attribute selector: expected ] or matcher & value but got %q", t.string)
	}
}

func (p *parser) parseMatcher() string {
	matcher := ""
	p.acceptRun(tokenSpace)
	if p.peek().category == tokenMatcher {
		matcher = p.next().string
	}
	p.acceptRun(tokenSpace)
	return matcher
}

func (p *parser) parsePseudoFunction() (Pseudo, error) {
	name := strings.ToLower(p.next().string)
	if !pseudoFunctions[name] {
		return Pseudo{}, errors.New("invalid pseudo function: :" + name)
	}
	if p.peek().category != tokenFunctionArguments {
		return Pseudo{}, errors.New("expected pseudo function arguments")
	}
	args := p.next().string
	if len(args) != 0 {
		args = args[1 : len(args)-1] // strip ()
	}
	switch name {
	case "nth-child", "nth-last-child":
		a, b, err := parseNthArgs(args)
		if err != nil {
			return Pseudo{}, err
		}
		return Pseudo{Name: name, A: a, B: b}, nil
	case "not":
		inner, err := parseNotArgument(args)
		if err != nil {
			return Pseudo{}, err
		}
		return Pseudo{Name: name, Not: inner}, nil
	default: // contains
		text := strings.TrimSpace(args)
		if len(text) >= 2 && (text[0] == '"' || text[0] == '\'') && text[len(text)-1] == text[0] {
			text = text[1 : len(text)-1]
		}
		return Pseudo{Name: name, Text: text}, nil
	}
}

// parseNotArgument parses the inner selector of :not(...). Selectors 3
// allows a single compound here; combinators, commas and nested pseudo
// classes are rejected.
func parseNotArgument(args string) (*Compound, error) {
	list, err := Parse(args)
	if err != nil {
		return nil, fmt.Errorf("bad not() argument %q: %s", args, err)
	}
	if len(list) != 1 || len(list[0]) != 1 {
		return nil, fmt.Errorf("not() accepts a single compound selector, got %q", args)
	}
	c := list[0][0].Compound
	if len(c.Pseudos) != 0 {
		return nil, fmt.Errorf("not() cannot nest pseudo classes, got %q", args)
	}
	return &c, nil
}

package css

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"
)

// Compile translates expression text into an XPath 1.0 expression string.
// Type xpath is passed through verbatim; type css is parsed and translated,
// with comma groups joined into a union. Absolute paths anchor at the
// document root. Compilation is a pure function of its input; results are
// memoized for the lifetime of the process.
func Compile(text string, typ ExprType) (string, error) {
	return compile(text, typ, "//")
}

// CompileScoped is Compile with location paths anchored at a context node
// instead of the document root.
func CompileScoped(text string, typ ExprType) (string, error) {
	return compile(text, typ, ".//")
}

// MustCompile is Compile that panics on error.
func MustCompile(text string, typ ExprType) string {
	s, err := Compile(text, typ)
	if err != nil {
		panic(err)
	}
	return s
}

type cacheKey struct {
	text   string
	typ    ExprType
	prefix string
}

// cache entries are write-once and never invalidated; a lost race merely
// recomputes the identical string.
var cache = struct {
	sync.RWMutex
	m map[cacheKey]string
}{m: map[cacheKey]string{}}

func compile(text string, typ ExprType, prefix string) (string, error) {
	switch typ {
	case TypeXPath:
		if strings.TrimSpace(text) == "" {
			return "", &InvalidArgumentError{Msg: "empty expression"}
		}
		return text, nil
	case TypeCSS:
	default:
		return "", &InvalidArgumentError{Msg: fmt.Sprintf("unknown expression type %q", string(typ))}
	}
	key := cacheKey{text, typ, prefix}
	cache.RLock()
	expr, ok := cache.m[key]
	cache.RUnlock()
	if ok {
		return expr, nil
	}
	list, err := Parse(text)
	if err != nil {
		return "", err
	}
	paths := make([]string, len(list))
	for i, g := range list {
		paths[i] = compileGroup(g, prefix)
	}
	expr = strings.Join(paths, "|")
	cache.Lock()
	cache.m[key] = expr
	cache.Unlock()
	return expr, nil
}

func compileGroup(g Group, prefix string) string {
	path := prefix + compileCompound(g[0].Compound)
	for _, part := range g[1:] {
		switch part.Combinator {
		case Child:
			path += "/"
		case AdjacentSibling:
			path += "/following-sibling::*[1]/self::"
		case GeneralSibling:
			path += "/following-sibling::"
		default:
			path += "//"
		}
		path += compileCompound(part.Compound)
	}
	return path
}

func compileCompound(c Compound) string {
	name := c.Tag
	if name == "" {
		name = "*"
	}
	for _, p := range compoundConditions(c) {
		name += "[" + p + "]"
	}
	return name
}

// compoundConditions translates everything but the name test, in source
// order: id, classes, attribute tests, pseudo classes.
func compoundConditions(c Compound) []string {
	conds := []string{}
	if c.ID != "" {
		conds = append(conds, "@id = "+xpathString(c.ID))
	}
	for _, class := range c.Classes {
		conds = append(conds, wordCondition("@class", class))
	}
	for _, at := range c.Attributes {
		conds = append(conds, attrCondition(at))
	}
	for _, p := range c.Pseudos {
		conds = append(conds, pseudoCondition(p))
	}
	return conds
}

// wordCondition matches value as a whitespace-delimited word of the
// attribute, so class="item extra" matches both .item and .extra.
func wordCondition(attr, value string) string {
	return fmt.Sprintf(`contains(concat(" ", normalize-space(%s), " "), %s)`,
		attr, xpathString(" "+value+" "))
}

func attrCondition(at AttributeTest) string {
	attr := "@" + at.Key
	switch at.Op {
	case Presence:
		return attr
	case Equals:
		return attr + " = " + xpathString(at.Value)
	case Contains:
		return fmt.Sprintf("contains(%s, %s)", attr, xpathString(at.Value))
	case StartsWith:
		return fmt.Sprintf("starts-with(%s, %s)", attr, xpathString(at.Value))
	case EndsWith:
		// XPath 1.0 has no ends-with.
		n := utf8.RuneCountInString(at.Value)
		return fmt.Sprintf("substring(%s, string-length(%s) - %d + 1) = %s",
			attr, attr, n, xpathString(at.Value))
	case ContainsWord:
		return wordCondition(attr, at.Value)
	case LangPrefix:
		return fmt.Sprintf("%s = %s or starts-with(%s, %s)",
			attr, xpathString(at.Value), attr, xpathString(at.Value+"-"))
	default:
		panic(fmt.Sprintf("bad attribute operator: %d", at.Op))
	}
}

// position() is unreliable under descendant-or-self, so structural pseudo
// classes count siblings instead.
const (
	posFromStart = "(count(preceding-sibling::*) + 1)"
	posFromEnd   = "(count(following-sibling::*) + 1)"
)

func pseudoCondition(p Pseudo) string {
	switch p.Name {
	case "first-child":
		return "count(preceding-sibling::*) = 0"
	case "last-child":
		return "count(following-sibling::*) = 0"
	case "only-child":
		return "count(preceding-sibling::*) = 0 and count(following-sibling::*) = 0"
	case "empty":
		return "not(node())"
	case "contains":
		return fmt.Sprintf("contains(., %s)", xpathString(p.Text))
	case "nth-child":
		return nthCondition(posFromStart, p.A, p.B)
	case "nth-last-child":
		return nthCondition(posFromEnd, p.A, p.B)
	case "not":
		return notCondition(*p.Not)
	default:
		panic("bad pseudo class: :" + p.Name)
	}
}

// nthCondition holds iff pos = a*n + b for some n >= 0.
func nthCondition(pos string, a, b int) string {
	switch {
	case a == 0:
		return fmt.Sprintf("%s = %d", pos, b)
	case a > 0:
		return fmt.Sprintf("%s >= %d and (%s - %d) mod %d = 0", pos, b, pos, b, a)
	default:
		return fmt.Sprintf("%s <= %d and (%d - %s) mod %d = 0", pos, b, b, pos, -a)
	}
}

func notCondition(c Compound) string {
	conds := []string{}
	if c.Tag != "" {
		conds = append(conds, "(self::"+c.Tag+")")
	}
	for _, cond := range compoundConditions(c) {
		conds = append(conds, "("+cond+")")
	}
	if len(conds) == 0 {
		return "not(self::*)"
	}
	return "not(" + strings.Join(conds, " and ") + ")"
}

// xpathString renders s as an XPath 1.0 string literal. The language has no
// escapes inside literals, so a value containing both quote kinds needs
// concat().
func xpathString(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	parts := []string{}
	for i, part := range strings.Split(s, `"`) {
		if i > 0 {
			parts = append(parts, `'"'`)
		}
		if part != "" {
			parts = append(parts, `"`+part+`"`)
		}
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "concat(" + strings.Join(parts, ", ") + ")"
}

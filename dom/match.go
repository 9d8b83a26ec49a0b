package dom

import (
	"github.com/minxomat/DiDOM/css"
	"golang.org/x/exp/slices"
)

// Matches reports whether the element itself satisfies the selector.
//
// Strict mode requires a single compound selector without combinators or
// pseudo classes and compares tag, id, class set and attribute set exactly:
// extra classes or attributes on the element are a mismatch.
//
// Non-strict mode serializes the element without its descendants, rebuilds
// it as the sole child of a synthetic root element in an isolated document,
// evaluates the selector over that document with the tree-search path, and
// reports whether the rebuilt element is among the results. It therefore
// supports full combinator and pseudo class semantics, compares classes and
// attributes by containment, cannot see anything that depended on
// descendants, and never matches the synthetic wrapper itself.
func (e *Element) Matches(selector string, strict bool) (bool, error) {
	if e.node().kind != ElementNode {
		return false, nil
	}
	if strict {
		return e.matchesStrict(selector)
	}
	return e.matchesFragment(selector)
}

func (e *Element) matchesStrict(selector string) (bool, error) {
	compound, err := css.Segments(selector)
	if err != nil {
		return false, err
	}
	attrs := e.Attributes()
	id := attrs["id"]
	return css.Match(compound, e.TagName(), id, e.Classes(), attrs)
}

func (e *Element) matchesFragment(selector string) (bool, error) {
	d, err := ParseFragment("<root>" + e.shallowHTML() + "</root>")
	if err != nil {
		return false, err
	}
	wrapper := d.Root().FirstElementChild()
	if wrapper == nil || wrapper.FirstElementChild() == nil {
		return false, nil
	}
	rebuilt := wrapper.FirstElementChild()
	ids, err := d.FindIDs(selector, css.TypeCSS)
	if err != nil {
		return false, err
	}
	return slices.Contains(ids, rebuilt.id), nil
}

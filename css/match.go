package css

import (
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Segments parses selector text that must reduce to a single compound:
// one comma group, no combinators, no pseudo classes. Anything richer is an
// UnsupportedSelectorError. The returned compound feeds Match.
func Segments(selector string) (Compound, error) {
	list, err := Parse(selector)
	if err != nil {
		return Compound{}, err
	}
	if len(list) != 1 || len(list[0]) != 1 {
		return Compound{}, &UnsupportedSelectorError{Selector: selector, Msg: "not a single compound selector"}
	}
	c := list[0][0].Compound
	if len(c.Pseudos) != 0 {
		return Compound{}, &UnsupportedSelectorError{Selector: selector, Msg: "pseudo classes are not supported here"}
	}
	return c, nil
}

// Match decides whether a single node with the given tag, id, classes and
// attributes satisfies the compound exactly, without any tree access. Class
// and attribute comparison is exact set equality, not containment: a class
// or attribute present on the node but absent from the compound is a
// mismatch. The id and class keys never take part in the attribute
// comparison; attrs may still contain them, they are ignored.
func Match(c Compound, tag, id string, classes []string, attrs map[string]string) (bool, error) {
	if len(c.Pseudos) != 0 {
		return false, &UnsupportedSelectorError{Msg: "pseudo classes are not supported here"}
	}
	want := map[string]string{}
	var present []string
	for _, at := range c.Attributes {
		switch at.Op {
		case Equals:
			want[at.Key] = at.Value
		case Presence:
			present = append(present, at.Key)
		default:
			return false, &UnsupportedSelectorError{Msg: "only [attr] and [attr=value] tests have exact-match semantics"}
		}
	}
	if c.Tag != "" && c.Tag != strings.ToLower(tag) {
		return false, nil
	}
	if c.ID != id {
		return false, nil
	}
	if !equalSets(c.Classes, classes) {
		return false, nil
	}
	got := maps.Clone(attrs)
	if got == nil {
		got = map[string]string{}
	}
	for _, key := range []string{"id", "class"} {
		delete(want, key)
		delete(got, key)
	}
	// A presence test accounts for the key without constraining its value,
	// unless an equals test on the same key does.
	for _, key := range present {
		if key == "id" || key == "class" {
			continue
		}
		if _, ok := got[key]; !ok {
			return false, nil
		}
		if _, ok := want[key]; !ok {
			delete(got, key)
		}
	}
	return maps.Equal(want, got), nil
}

// equalSets compares two class lists as sets: order and duplicates are
// irrelevant, any one-sided element is a mismatch.
func equalSets(a, b []string) bool {
	a, b = slices.Clone(a), slices.Clone(b)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(slices.Compact(a), slices.Compact(b))
}

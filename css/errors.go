package css

import "fmt"

// SyntaxError reports selector text that cannot be tokenized or parsed:
// unterminated brackets or quotes, dangling combinators, unknown pseudo
// classes and the like. The zero tree is never touched when one occurs.
type SyntaxError struct {
	Selector string
	Msg      string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid selector %q: %s", e.Selector, e.Msg)
}

// UnsupportedSelectorError reports a selector that parsed fine but is too
// rich for a simple-compound-only entry point (Segments, Match): it carries
// combinators, multiple comma groups, pseudo classes or attribute operators
// that have no exact-equality meaning.
type UnsupportedSelectorError struct {
	Selector string
	Msg      string
}

func (e *UnsupportedSelectorError) Error() string {
	return fmt.Sprintf("unsupported selector %q: %s", e.Selector, e.Msg)
}

// InvalidArgumentError reports bad input at an API boundary, before any
// parsing begins.
type InvalidArgumentError struct {
	Msg string
}

func (e *InvalidArgumentError) Error() string {
	return "invalid argument: " + e.Msg
}

package css

// ExprType selects how expression text handed to Compile and to the dom
// query methods is interpreted.
type ExprType string

const (
	TypeCSS   ExprType = "css"
	TypeXPath ExprType = "xpath"
)

// Combinator joins two compounds of a selector group and constrains their
// relative tree position.
type Combinator int

const (
	Descendant Combinator = iota
	Child
	AdjacentSibling
	GeneralSibling
)

func (c Combinator) String() string {
	switch c {
	case Descendant:
		return " "
	case Child:
		return ">"
	case AdjacentSibling:
		return "+"
	case GeneralSibling:
		return "~"
	default:
		return "?"
	}
}

// AttrOp is the comparison an attribute test performs.
type AttrOp int

const (
	Presence     AttrOp = iota // [attr]
	Equals                     // [attr=v]
	Contains                   // [attr*=v]
	StartsWith                 // [attr^=v]
	EndsWith                   // [attr$=v]
	ContainsWord               // [attr~=v]
	LangPrefix                 // [attr|=v]
)

// AttributeTest is one bracketed attribute constraint of a compound.
// Tests keep their source order; a repeated key yields multiple tests.
type AttributeTest struct {
	Key   string
	Op    AttrOp
	Value string
}

// Pseudo is one pseudo class of a compound. A and B carry the nth-child
// formula, Not the inner compound of :not(...), Text the argument of
// :contains(...). Only the fields of the named pseudo class are set.
type Pseudo struct {
	Name string
	A, B int
	Not  *Compound
	Text string
}

// Compound is one combinator-free sequence of simple selectors describing
// constraints on a single node. An empty Tag means the universal selector.
type Compound struct {
	Tag        string
	ID         string
	Classes    []string
	Attributes []AttributeTest
	Pseudos    []Pseudo
}

// Part pairs a compound with the combinator relating it to the compound
// before it. The first part of a group carries Descendant by convention;
// it is ignored.
type Part struct {
	Combinator Combinator
	Compound   Compound
}

// Group is one comma-free alternative of a selector list.
type Group []Part

// SelectorList is a full parsed selector: the OR of its groups.
type SelectorList []Group

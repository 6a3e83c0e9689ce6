package compiler

import "strings"

type nodeKind int

const (
	elementKind nodeKind = iota
	textKind             // static text
	exprKind             // text with {{ }} interpolation
)

// binding is a name with a JavaScript value expression. Static values are
// stored as string literals.
type binding struct {
	Name  string
	Value string
}

// handler is one v-on listener with its generated function code. Name
// carries the capture (!), once (~) and passive (&) prefixes.
type handler struct {
	Name   string
	Code   string
	Native bool
}

type directive struct {
	Name      string
	RawName   string
	Value     string
	Arg       string
	Modifiers []string
}

type ifCondition struct {
	Exp   string // empty for v-else
	Block *astNode
}

type componentModel struct {
	Value      string
	Callback   string
	Expression string
}

// astNode is an element or text node of a compiled template.
type astNode struct {
	Kind     nodeKind
	Tag      string
	Parent   *astNode
	Children []*astNode
	Offset   int

	Text       string // textKind: literal text, exprKind: source text
	Expression string // exprKind: generated concatenation code

	Attrs        []binding
	Props        []binding
	Events       []handler
	Directives   []directive
	StaticClass  string
	ClassBinding string
	StaticStyle  string
	StyleBinding string
	Key          string
	Ref          string
	RefInFor     bool
	SlotTarget   string
	SlotName     string
	Component    string
	Model        *componentModel
	HasBindings  bool

	If           string
	IfConditions []ifCondition
	ElseIf       string
	Else         bool

	For       string
	Alias     string
	Iterator1 string
	Iterator2 string

	Once bool
	Pre  bool

	Static      bool
	StaticRoot  bool
	StaticInFor bool

	staticProcessed bool
	forProcessed    bool
	ifProcessed     bool
}

func (n *astNode) name() string {
	return strings.ToLower(n.Tag)
}

func (n *astNode) isElse() bool {
	return n.ElseIf != "" || n.Else
}

// inFor reports whether n or an ancestor carries v-for.
func (n *astNode) inFor() bool {
	for p := n; p != nil; p = p.Parent {
		if p.For != "" {
			return true
		}
	}
	return false
}

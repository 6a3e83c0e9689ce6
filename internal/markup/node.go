// Package markup builds a lossless element tree from template markup.
//
// Unlike html.Parse, the tree is built directly from the x/net/html tokenizer
// without the HTML5 insertion-mode corrections: a <div> inside a <p> stays
// inside the <p>, unknown and custom elements keep their position, and tag
// and attribute names keep the case they were written in. Structural problems (unclosed or
// stray tags) are recorded on the Document instead of being repaired, so
// later stages can report them.
//
// Render is the inverse of Parse: rendering an unmodified tree reproduces
// markup that parses back to the same tree.
package markup

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// NodeType identifies the kind of a Node.
type NodeType int

// Node types.
const (
	ElementNode NodeType = iota
	TextNode
	CommentNode
	DoctypeNode
	StrayEndTagNode // an end tag without a matching open element
)

// String returns a readable name for the node type.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case CommentNode:
		return "comment"
	case DoctypeNode:
		return "doctype"
	case StrayEndTagNode:
		return "stray end tag"
	default:
		return "unknown"
	}
}

// Attr is a single element attribute. Keys keep their source case and
// values are entity-decoded.
type Attr struct {
	Key string
	Val string
}

// Node is an element, text run, comment, doctype, or stray end tag.
type Node struct {
	Type     NodeType
	Tag      string // element or stray end tag name, case preserved
	Attrs    []Attr
	Data     string // decoded text, comment body, or doctype
	Raw      string // source text for non-element nodes; empty when synthesized
	Children []*Node
	Parent   *Node
	Offset   int // byte offset of the node start in the parsed source

	SelfClosing      bool // written as <tag />
	Unclosed         bool // no end tag before EOF or an ancestor's end tag
	ImplicitlyClosed bool // closed by an optional end tag rule (<li>, <p>, ...)
}

// Name returns the lower-cased tag name.
func (n *Node) Name() string {
	return strings.ToLower(n.Tag)
}

// IsElement reports whether n is an element named name (case-insensitive).
func (n *Node) IsElement(name string) bool {
	return n != nil && n.Type == ElementNode && strings.EqualFold(n.Tag, name)
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttr reports whether the attribute is present.
func (n *Node) HasAttr(key string) bool {
	_, ok := n.Attr(key)
	return ok
}

// SetAttr replaces the first attribute with the same key or appends a new one.
func (n *Node) SetAttr(key, val string) {
	for i, a := range n.Attrs {
		if a.Key == key {
			n.Attrs[i].Val = val
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Key: key, Val: val})
}

// RemoveAttr removes every attribute with the given key.
func (n *Node) RemoveAttr(key string) {
	kept := n.Attrs[:0]
	for _, a := range n.Attrs {
		if a.Key != key {
			kept = append(kept, a)
		}
	}
	n.Attrs = kept
}

// AppendChild adds c as the last child of n.
func (n *Node) AppendChild(c *Node) {
	c.Parent = n
	n.Children = append(n.Children, c)
}

// SetChildren replaces the children of n.
func (n *Node) SetChildren(children []*Node) {
	for _, c := range children {
		c.Parent = n
	}
	n.Children = children
}

// SetText replaces the decoded text of a text node and drops its source form.
func (n *Node) SetText(data string) {
	n.Data = data
	n.Raw = ""
}

// TextContent concatenates the decoded text of all descendant text nodes.
func (n *Node) TextContent() string {
	var sb strings.Builder
	var walk func(*Node)
	walk = func(x *Node) {
		if x.Type == TextNode {
			sb.WriteString(x.Data)
		}
		for _, c := range x.Children {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// NewElement creates a detached element node.
func NewElement(tag string, attrs ...Attr) *Node {
	return &Node{Type: ElementNode, Tag: tag, Attrs: attrs}
}

// NewText creates a detached text node holding decoded text.
func NewText(data string) *Node {
	return &Node{Type: TextNode, Data: data}
}

// Position is a 1-based line and column.
type Position struct {
	Line   int
	Column int
}

// Error is a structural problem found while building the tree.
type Error struct {
	Msg    string
	Offset int
}

func (e Error) Error() string { return e.Msg }

// Document is the root of a parsed fragment.
type Document struct {
	Source   string
	Children []*Node
	Errors   []Error

	lineStarts []int
}

// Elements returns the top-level element nodes.
func (d *Document) Elements() []*Node {
	var out []*Node
	for _, c := range d.Children {
		if c.Type == ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// Position converts a byte offset in Source to a line and column.
func (d *Document) Position(offset int) Position {
	if d.lineStarts == nil {
		d.lineStarts = []int{0}
		for i := 0; i < len(d.Source); i++ {
			if d.Source[i] == '\n' {
				d.lineStarts = append(d.lineStarts, i+1)
			}
		}
	}
	if offset > len(d.Source) {
		offset = len(d.Source)
	}
	line := sort.Search(len(d.lineStarts), func(i int) bool { return d.lineStarts[i] > offset }) - 1
	start := d.lineStarts[line]
	return Position{
		Line:   line + 1,
		Column: utf8.RuneCountInString(d.Source[start:offset]) + 1,
	}
}

// Walk visits nodes depth-first in document order. Returning false from fn
// skips the children of the visited node.
func Walk(nodes []*Node, fn func(*Node) bool) {
	for _, n := range nodes {
		if fn(n) {
			Walk(n.Children, fn)
		}
	}
}

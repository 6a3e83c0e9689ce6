package pipeline

import (
	"context"
	"fmt"
	"regexp"

	"github.com/alnah/go-htmlloader/internal/markup"
)

// blockTagPattern matches element names a <block> may expand to.
var blockTagPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*$`)

// NewBlockExpander returns the stage that rewrites <block> elements.
//
// <block name="card" tag="section" class="x"> becomes
// <section class="card x">. The tag defaults to div; the name, when present,
// is prepended to the class list. Both helper attributes are removed.
func NewBlockExpander() Transformer {
	return treeStage{
		name:  "block",
		match: func(s string) bool { return containsFold(s, "<block") },
		rewrite: func(_ context.Context, nodes []*markup.Node) ([]*markup.Node, error) {
			return nodes, expandBlocks(nodes)
		},
	}
}

func expandBlocks(nodes []*markup.Node) error {
	for _, n := range nodes {
		if n.Type != markup.ElementNode {
			continue
		}
		if n.IsElement("block") {
			if err := expandBlock(n); err != nil {
				return err
			}
		}
		if err := expandBlocks(n.Children); err != nil {
			return err
		}
	}
	return nil
}

func expandBlock(n *markup.Node) error {
	tag := "div"
	if t, ok := n.Attr("tag"); ok {
		if !blockTagPattern.MatchString(t) {
			return fmt.Errorf("invalid block tag %q", t)
		}
		tag = t
		n.RemoveAttr("tag")
	}
	if markup.IsVoid(tag) && len(n.Children) > 0 {
		return fmt.Errorf("block with content cannot expand to void element <%s>", tag)
	}

	if name, ok := n.Attr("name"); ok {
		n.RemoveAttr("name")
		class := name
		if existing, ok := n.Attr("class"); ok && existing != "" {
			class = name + " " + existing
		}
		if class != "" {
			n.SetAttr("class", class)
		}
	}
	n.Tag = tag
	return nil
}

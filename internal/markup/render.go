package markup

import "strings"

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", `"`, "&quot;")
)

// Render serializes nodes back to markup.
func Render(nodes []*Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		render(&sb, n, false)
	}
	return sb.String()
}

// RenderChildren serializes the content of n without its own tags.
func RenderChildren(n *Node) string {
	var sb strings.Builder
	raw := n.Type == ElementNode && rawTextElements[n.Name()]
	for _, c := range n.Children {
		render(&sb, c, raw)
	}
	return sb.String()
}

// RenderNode serializes n including its own tags.
func RenderNode(n *Node) string {
	var sb strings.Builder
	render(&sb, n, false)
	return sb.String()
}

func render(sb *strings.Builder, n *Node, rawParent bool) {
	switch n.Type {
	case TextNode:
		switch {
		case n.Raw != "":
			sb.WriteString(n.Raw)
		case rawParent:
			sb.WriteString(n.Data)
		default:
			sb.WriteString(textEscaper.Replace(n.Data))
		}
	case CommentNode:
		if n.Raw != "" {
			sb.WriteString(n.Raw)
			return
		}
		sb.WriteString("<!--" + n.Data + "-->")
	case DoctypeNode:
		if n.Raw != "" {
			sb.WriteString(n.Raw)
			return
		}
		sb.WriteString("<!DOCTYPE " + n.Data + ">")
	case StrayEndTagNode:
		sb.WriteString("</" + n.Tag + ">")
	case ElementNode:
		renderElement(sb, n)
	}
}

func renderElement(sb *strings.Builder, n *Node) {
	sb.WriteByte('<')
	sb.WriteString(n.Tag)
	for _, a := range n.Attrs {
		sb.WriteByte(' ')
		sb.WriteString(a.Key)
		if a.Val != "" {
			sb.WriteString(`="`)
			sb.WriteString(attrEscaper.Replace(a.Val))
			sb.WriteByte('"')
		}
	}

	name := n.Name()
	if n.SelfClosing {
		sb.WriteString(" />")
		return
	}
	sb.WriteByte('>')
	if voidElements[name] {
		return
	}

	raw := rawTextElements[name]
	for _, c := range n.Children {
		render(sb, c, raw)
	}
	if n.Unclosed || n.ImplicitlyClosed {
		return
	}
	sb.WriteString("</")
	sb.WriteString(n.Tag)
	sb.WriteByte('>')
}

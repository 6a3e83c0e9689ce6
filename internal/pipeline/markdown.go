package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/alnah/go-htmlloader/internal/markup"
)

// mdAttr marks an element whose content is Markdown.
const mdAttr = "md"

// mdAttrPattern finds start tags carrying the md attribute.
var mdAttrPattern = regexp.MustCompile(`(?i)<[a-z][^>]*\smd(?:[\s=/>])`)

// MarkdownExpander renders Markdown regions of a template with goldmark.
//
// A <markdown> element is replaced by the rendered HTML of its content. Any
// other element carrying an md attribute keeps its tag and gets its content
// rendered; a lone paragraph is unwrapped when the element only accepts
// phrasing content. Rendered <pre> and <code> elements are marked v-pre so
// mustaches in code samples are not interpolated.
type MarkdownExpander struct {
	md goldmark.Markdown
}

// NewMarkdownExpander creates a MarkdownExpander with GFM extensions. With
// highlight set, fenced code blocks are highlighted with CSS classes.
func NewMarkdownExpander(highlight bool) *MarkdownExpander {
	extensions := []goldmark.Extender{
		extension.GFM,      // Tables, strikethrough, autolinks, task lists
		extension.Footnote, // [^1] footnotes
	}
	if highlight {
		extensions = append(extensions, highlighting.NewHighlighting(
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(true),
			),
		))
	}
	md := goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
			// Templates mix Markdown with components and raw HTML.
			html.WithUnsafe(),
		),
	)
	return &MarkdownExpander{md: md}
}

// Name implements Transformer.
func (m *MarkdownExpander) Name() string { return "markdown" }

// Transform implements Transformer.
func (m *MarkdownExpander) Transform(ctx context.Context, content string) (string, error) {
	if !containsFold(content, "<markdown") && !mdAttrPattern.MatchString(content) {
		return content, nil
	}
	doc := markup.Parse(content)
	nodes, err := m.expand(ctx, doc.Children)
	if err != nil {
		return "", err
	}
	return markup.Render(nodes), nil
}

func (m *MarkdownExpander) expand(ctx context.Context, nodes []*markup.Node) ([]*markup.Node, error) {
	out := make([]*markup.Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Type != markup.ElementNode {
			out = append(out, n)
			continue
		}

		switch {
		case n.IsElement("markdown"):
			rendered, err := m.render(ctx, markup.RenderChildren(n))
			if err != nil {
				return nil, err
			}
			out = append(out, markup.Parse(rendered).Children...)
			continue

		case n.HasAttr(mdAttr):
			n.RemoveAttr(mdAttr)
			rendered, err := m.render(ctx, markup.RenderChildren(n))
			if err != nil {
				return nil, err
			}
			if markup.AcceptsOnlyPhrasing(n.Name()) {
				rendered = unwrapParagraph(rendered)
			}
			n.SetChildren(markup.Parse(rendered).Children)

		default:
			children, err := m.expand(ctx, n.Children)
			if err != nil {
				return nil, err
			}
			n.SetChildren(children)
		}
		out = append(out, n)
	}
	return out, nil
}

// render converts one Markdown region to HTML. Code elements in the output
// are marked v-pre.
func (m *MarkdownExpander) render(ctx context.Context, source string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(dedent(source)), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}

	doc := markup.Parse(strings.TrimSpace(buf.String()))
	markup.Walk(doc.Children, func(n *markup.Node) bool {
		if n.IsElement("pre") || n.IsElement("code") {
			if !n.HasAttr("v-pre") {
				n.SetAttr("v-pre", "")
			}
			return false
		}
		return true
	})
	return markup.Render(doc.Children), nil
}

// unwrapParagraph strips a single enclosing <p> element.
func unwrapParagraph(s string) string {
	if !strings.HasPrefix(s, "<p>") || !strings.HasSuffix(s, "</p>") {
		return s
	}
	inner := s[len("<p>") : len(s)-len("</p>")]
	if strings.Contains(inner, "<p>") {
		return s
	}
	return inner
}

// dedent removes the indentation shared by every non-blank line and drops
// leading and trailing blank lines, so indented template content is not read
// as a code block.
func dedent(s string) string {
	lines := strings.Split(s, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	prefix := ""
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			prefix, first = indent, false
			continue
		}
		prefix = commonPrefix(prefix, indent)
	}

	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.Join(lines, "\n")
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}

// Compile-time interface check.
var _ Transformer = (*MarkdownExpander)(nil)

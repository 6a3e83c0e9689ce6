package pipeline

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alnah/go-htmlloader/internal/assets"
	"github.com/alnah/go-htmlloader/internal/markup"
)

// Sentinel errors for asset inlining.
var (
	// ErrAssetInlining indicates a referenced asset could not be inlined.
	ErrAssetInlining = errors.New("asset inlining failed")

	// ErrNoResourcePath indicates a relative reference in a template whose
	// location is unknown.
	ErrNoResourcePath = errors.New("relative reference without a resource path")
)

// maxImportDepth bounds nested stylesheet @import chains.
const maxImportDepth = 16

// srcAttrs lists the elements whose src attribute is inlined as a data URI.
var srcAttrs = map[string]bool{
	"img": true, "source": true, "audio": true, "video": true,
	"track": true, "embed": true, "input": true,
}

// whitespaceSensitive elements keep their text verbatim when minimizing.
var whitespaceSensitive = map[string]bool{
	"pre": true, "textarea": true, "script": true, "style": true,
}

var (
	schemePattern  = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*:`)
	cssRefPattern  = regexp.MustCompile(`@import\s+(?:url\(\s*)?["']?([^"')\s;]+)["']?\s*\)?([^;]*);|url\(\s*(?:"([^"]*)"|'([^']*)'|([^)'"\s]*))\s*\)`)
	whitespaceRuns = regexp.MustCompile(`[ \t\n\r\f]+`)
)

// InlineOptions configures an AssetInliner.
type InlineOptions struct {
	// SourceDir is the directory of the template. Relative references resolve
	// against it; empty when the template location is unknown.
	SourceDir string

	// Minimize minifies stylesheets and collapses insignificant whitespace.
	Minimize bool
}

// AssetInliner embeds the local files a template references so the compiled
// module is self-contained:
//   - img, source, audio, video, track and embed src become data URIs
//   - <link rel="stylesheet"> becomes a <style> element
//   - <link rel="icon"> href becomes a data URI
//   - <script src> gets the script as its content
//   - url() and @import in stylesheets and style attributes are inlined
//
// Remote URLs, protocol-relative URLs, data URIs, fragments and references
// containing mustaches are left alone. References starting with "/" resolve
// against the asset root, all others against the template directory.
type AssetInliner struct {
	loader assets.AssetLoader
	opts   InlineOptions
}

// NewAssetInliner creates an AssetInliner reading through loader. A nil
// loader makes every local reference an error.
func NewAssetInliner(loader assets.AssetLoader, opts InlineOptions) *AssetInliner {
	return &AssetInliner{loader: loader, opts: opts}
}

// Inline rewrites content with its references embedded. Markup without local
// references is returned unchanged unless minimizing.
func (a *AssetInliner) Inline(ctx context.Context, content string) (string, error) {
	doc := markup.Parse(content)
	run := &inlineRun{AssetInliner: a, ctx: ctx}

	nodes, err := run.nodes(doc.Children)
	if err != nil {
		return "", err
	}
	if a.opts.Minimize {
		if err := run.minifyStyles(nodes); err != nil {
			return "", err
		}
		nodes = collapseWhitespace(nodes)
		run.changed = true
	}
	if !run.changed {
		return content, nil
	}
	return markup.Render(nodes), nil
}

// inlineRun carries the state of one Inline call.
type inlineRun struct {
	*AssetInliner
	ctx     context.Context
	changed bool
}

func (r *inlineRun) nodes(nodes []*markup.Node) ([]*markup.Node, error) {
	out := make([]*markup.Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Type != markup.ElementNode {
			out = append(out, n)
			continue
		}
		replaced, err := r.element(n)
		if err != nil {
			return nil, err
		}
		if !replaced.IsElement("script") && !replaced.IsElement("style") {
			children, err := r.nodes(replaced.Children)
			if err != nil {
				return nil, err
			}
			replaced.SetChildren(children)
		}
		out = append(out, replaced)
	}
	return out, nil
}

func (r *inlineRun) element(n *markup.Node) (*markup.Node, error) {
	if style, ok := n.Attr("style"); ok && strings.Contains(style, "url(") {
		css, err := r.css(style, r.opts.SourceDir, 0)
		if err != nil {
			return nil, err
		}
		r.setAttr(n, "style", css)
	}

	name := n.Name()
	switch {
	case srcAttrs[name]:
		if err := r.dataURIAttr(n, "src"); err != nil {
			return nil, err
		}
	case name == "link":
		return r.link(n)
	case name == "script":
		return n, r.script(n)
	case name == "style":
		return n, r.styleElement(n)
	}
	if name == "video" {
		return n, r.dataURIAttr(n, "poster")
	}
	return n, nil
}

func (r *inlineRun) setAttr(n *markup.Node, key, val string) {
	if cur, _ := n.Attr(key); cur != val {
		n.SetAttr(key, val)
		r.changed = true
	}
}

func (r *inlineRun) dataURIAttr(n *markup.Node, attr string) error {
	ref, ok := n.Attr(attr)
	if !ok || !isInlineRef(ref) {
		return nil
	}
	uri, err := r.dataURI(ref, r.opts.SourceDir)
	if err != nil {
		return err
	}
	r.setAttr(n, attr, uri)
	return nil
}

func (r *inlineRun) link(n *markup.Node) (*markup.Node, error) {
	href, ok := n.Attr("href")
	if !ok || !isInlineRef(href) {
		return n, nil
	}
	rel, _ := n.Attr("rel")
	rels := strings.Fields(strings.ToLower(rel))

	switch {
	case containsToken(rels, "stylesheet"):
		path, err := r.resolve(href, r.opts.SourceDir)
		if err != nil {
			return nil, err
		}
		data, err := r.read(href, path)
		if err != nil {
			return nil, err
		}
		css, err := r.css(string(data), filepath.Dir(path), 0)
		if err != nil {
			return nil, err
		}

		style := markup.NewElement("style")
		if media, ok := n.Attr("media"); ok {
			style.SetAttr("media", media)
		}
		style.AppendChild(markup.NewText(sanitizeRawText(css, "style")))
		style.Offset = n.Offset
		r.changed = true
		return style, nil

	case containsToken(rels, "icon"):
		return n, r.dataURIAttr(n, "href")
	}
	return n, nil
}

func (r *inlineRun) script(n *markup.Node) error {
	src, ok := n.Attr("src")
	if !ok || !isInlineRef(src) {
		return nil
	}
	path, err := r.resolve(src, r.opts.SourceDir)
	if err != nil {
		return err
	}
	data, err := r.read(src, path)
	if err != nil {
		return err
	}
	n.RemoveAttr("src")
	n.SetChildren([]*markup.Node{markup.NewText(sanitizeRawText(string(data), "script"))})
	r.changed = true
	return nil
}

func (r *inlineRun) styleElement(n *markup.Node) error {
	for _, c := range n.Children {
		if c.Type != markup.TextNode || !strings.Contains(c.Data, "url(") && !strings.Contains(c.Data, "@import") {
			continue
		}
		css, err := r.css(c.Data, r.opts.SourceDir, 0)
		if err != nil {
			return err
		}
		if css != c.Data {
			c.SetText(sanitizeRawText(css, "style"))
			r.changed = true
		}
	}
	return nil
}

// css inlines the url() and @import references of a stylesheet whose own
// location is baseDir.
func (r *inlineRun) css(css, baseDir string, depth int) (string, error) {
	if depth > maxImportDepth {
		return "", fmt.Errorf("%w: @import nesting deeper than %d", ErrAssetInlining, maxImportDepth)
	}

	var sb strings.Builder
	last := 0
	for _, m := range cssRefPattern.FindAllStringSubmatchIndex(css, -1) {
		sb.WriteString(css[last:m[0]])
		last = m[1]
		whole := css[m[0]:m[1]]

		if m[2] >= 0 {
			ref, media := css[m[2]:m[3]], strings.TrimSpace(css[m[4]:m[5]])
			if !isInlineRef(ref) {
				sb.WriteString(whole)
				continue
			}
			path, err := r.resolve(ref, baseDir)
			if err != nil {
				return "", err
			}
			data, err := r.read(ref, path)
			if err != nil {
				return "", err
			}
			imported, err := r.css(string(data), filepath.Dir(path), depth+1)
			if err != nil {
				return "", err
			}
			if media != "" {
				imported = "@media " + media + "{" + imported + "}"
			}
			sb.WriteString(imported)
			continue
		}

		var ref string
		for g := 3; g <= 5; g++ {
			if m[2*g] >= 0 {
				ref = css[m[2*g]:m[2*g+1]]
				break
			}
		}
		if !isInlineRef(ref) {
			sb.WriteString(whole)
			continue
		}
		uri, err := r.dataURI(ref, baseDir)
		if err != nil {
			return "", err
		}
		sb.WriteString(`url("` + uri + `")`)
	}
	sb.WriteString(css[last:])
	return sb.String(), nil
}

func (r *inlineRun) minifyStyles(nodes []*markup.Node) error {
	var err error
	markup.Walk(nodes, func(n *markup.Node) bool {
		if err != nil {
			return false
		}
		if !n.IsElement("style") {
			return true
		}
		for _, c := range n.Children {
			if c.Type != markup.TextNode {
				continue
			}
			var css string
			if css, err = MinifyCSS(c.Data); err != nil {
				err = fmt.Errorf("%w: %w", ErrAssetInlining, err)
				return false
			}
			c.SetText(sanitizeRawText(css, "style"))
		}
		return false
	})
	return err
}

func (r *inlineRun) dataURI(ref, baseDir string) (string, error) {
	path, err := r.resolve(ref, baseDir)
	if err != nil {
		return "", err
	}
	data, err := r.read(ref, path)
	if err != nil {
		return "", err
	}
	return "data:" + mimeType(path) + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// resolve maps a reference to the path handed to the loader.
func (r *inlineRun) resolve(ref, baseDir string) (string, error) {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	if unescaped, err := url.PathUnescape(ref); err == nil {
		ref = unescaped
	}

	if strings.HasPrefix(ref, "/") {
		return filepath.FromSlash(strings.TrimLeft(ref, "/")), nil
	}
	if baseDir == "" {
		return "", fmt.Errorf("%w: %w: %s", ErrAssetInlining, ErrNoResourcePath, ref)
	}
	return filepath.Join(baseDir, filepath.FromSlash(ref)), nil
}

func (r *inlineRun) read(ref, path string) ([]byte, error) {
	if err := r.ctx.Err(); err != nil {
		return nil, err
	}
	if r.loader == nil {
		return nil, fmt.Errorf("%w: %w: %s", ErrAssetInlining, ErrNoResourcePath, ref)
	}
	data, err := r.loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrAssetInlining, ref, err)
	}
	return data, nil
}

// isInlineRef reports whether ref names a local file.
func isInlineRef(ref string) bool {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") {
		return false
	}
	if strings.Contains(ref, "{{") {
		return false
	}
	// http:, https:, data:, mailto:, file: ...
	return !schemePattern.MatchString(ref)
}

func mimeType(path string) string {
	t := mime.TypeByExtension(filepath.Ext(path))
	if t == "" {
		return "application/octet-stream"
	}
	return strings.ReplaceAll(t, " ", "")
}

// sanitizeRawText keeps inlined content from closing its raw-text element.
func sanitizeRawText(s, tag string) string {
	closing := "</" + tag
	if !strings.Contains(strings.ToLower(s), closing) {
		return s
	}
	re := regexp.MustCompile(`(?i)</(` + tag + `)`)
	return re.ReplaceAllString(s, `<\/$1`)
}

func containsToken(tokens []string, want string) bool {
	for _, t := range tokens {
		if t == want {
			return true
		}
	}
	return false
}

// collapseWhitespace condenses runs of whitespace in text to one space and
// drops whitespace-only text next to block elements or at the edges of its
// parent. Whitespace-sensitive elements are left untouched.
func collapseWhitespace(nodes []*markup.Node) []*markup.Node {
	out := make([]*markup.Node, 0, len(nodes))
	for i, n := range nodes {
		switch n.Type {
		case markup.TextNode:
			text := whitespaceRuns.ReplaceAllString(n.Data, " ")
			if strings.TrimSpace(text) == "" {
				if i == 0 || i == len(nodes)-1 || isBlock(nodes[i-1]) || isBlock(nodes[i+1]) {
					continue
				}
				text = " "
			}
			if text != n.Data {
				n.SetText(text)
			}
		case markup.ElementNode:
			if !whitespaceSensitive[n.Name()] && !n.HasAttr("v-pre") {
				n.SetChildren(collapseWhitespace(n.Children))
			}
		}
		out = append(out, n)
	}
	return out
}

func isBlock(n *markup.Node) bool {
	return n.Type == markup.ElementNode && !markup.IsPhrasing(n.Name())
}

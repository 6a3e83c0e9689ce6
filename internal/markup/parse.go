package markup

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// voidElements never have content or an end tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// optionalEndTags may be left open; an end tag of an ancestor closes them
// without an error.
var optionalEndTags = map[string]bool{
	"colgroup": true, "dd": true, "dt": true, "li": true, "option": true,
	"p": true, "td": true, "tfoot": true, "th": true, "thead": true,
	"tr": true, "source": true,
}

// siblingCloses maps an optional-end element to the start tags that close it
// when opened as its sibling.
var siblingCloses = map[string][]string{
	"p":      {"p"},
	"li":     {"li"},
	"dt":     {"dt", "dd"},
	"dd":     {"dt", "dd"},
	"option": {"option"},
	"tr":     {"tr"},
	"td":     {"td", "th"},
	"th":     {"td", "th"},
}

// rawTextElements hold unparsed text content.
var rawTextElements = map[string]bool{
	"script": true, "style": true, "textarea": true, "title": true,
	"xmp": true, "iframe": true, "noembed": true, "noframes": true,
}

// IsVoid reports whether the lower-cased tag name is a void element.
func IsVoid(name string) bool { return voidElements[name] }

// IsRawText reports whether the lower-cased tag name holds raw text.
func IsRawText(name string) bool { return rawTextElements[name] }

// Parse builds a Document from markup. It never fails: structural problems
// are collected in Document.Errors.
func Parse(src string) *Document {
	doc := &Document{Source: src}
	b := &builder{doc: doc}

	z := html.NewTokenizer(strings.NewReader(src))
	offset := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); err != nil && !errors.Is(err, io.EOF) {
				b.error(offset, fmt.Sprintf("tokenizer: %v", err))
			}
			break
		}

		raw := string(z.Raw())
		switch tt {
		case html.TextToken:
			b.text(string(z.Text()), raw, offset)
		case html.StartTagToken:
			b.start(z, raw, offset, false)
		case html.SelfClosingTagToken:
			b.start(z, raw, offset, true)
		case html.EndTagToken:
			b.end(rawTagName(raw, true), offset)
		case html.CommentToken:
			b.append(&Node{Type: CommentNode, Data: string(z.Text()), Raw: raw, Offset: offset})
		case html.DoctypeToken:
			b.append(&Node{Type: DoctypeNode, Data: string(z.Text()), Raw: raw, Offset: offset})
		}
		offset += len(raw)
	}

	b.finish()
	return doc
}

// builder assembles nodes into a tree without HTML5 error correction.
type builder struct {
	doc   *Document
	stack []*Node
}

func (b *builder) error(offset int, msg string) {
	b.doc.Errors = append(b.doc.Errors, Error{Msg: msg, Offset: offset})
}

func (b *builder) top() *Node {
	if len(b.stack) == 0 {
		return nil
	}
	return b.stack[len(b.stack)-1]
}

func (b *builder) append(n *Node) {
	if parent := b.top(); parent != nil {
		parent.AppendChild(n)
		return
	}
	b.doc.Children = append(b.doc.Children, n)
}

func (b *builder) text(data, raw string, offset int) {
	siblings := b.doc.Children
	if parent := b.top(); parent != nil {
		siblings = parent.Children
	}
	if len(siblings) > 0 {
		if last := siblings[len(siblings)-1]; last.Type == TextNode {
			last.Data += data
			last.Raw += raw
			return
		}
	}
	b.append(&Node{Type: TextNode, Data: data, Raw: raw, Offset: offset})
}

func (b *builder) start(z *html.Tokenizer, raw string, offset int, selfClosing bool) {
	n := &Node{
		Type:        ElementNode,
		Tag:         rawTagName(raw, false),
		Offset:      offset,
		SelfClosing: selfClosing,
	}
	_, hasAttr := z.TagName()
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		n.Attrs = append(n.Attrs, Attr{Key: string(key), Val: string(val)})
	}
	restoreAttrCase(n.Attrs, raw)

	name := n.Name()
	if top := b.top(); top != nil {
		for _, closer := range siblingCloses[top.Name()] {
			if closer == name {
				top.ImplicitlyClosed = true
				b.stack = b.stack[:len(b.stack)-1]
				break
			}
		}
	}

	b.append(n)
	if selfClosing || voidElements[name] {
		return
	}
	b.stack = append(b.stack, n)
}

func (b *builder) end(tag string, offset int) {
	name := strings.ToLower(tag)
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i].Name() != name {
			continue
		}
		for j := len(b.stack) - 1; j > i; j-- {
			b.closeUnterminated(b.stack[j])
		}
		b.stack = b.stack[:i]
		return
	}

	b.append(&Node{Type: StrayEndTagNode, Tag: tag, Raw: "</" + tag + ">", Offset: offset})
	b.error(offset, fmt.Sprintf("stray end tag </%s> has no matching start tag.", tag))
}

func (b *builder) closeUnterminated(n *Node) {
	if optionalEndTags[n.Name()] {
		n.ImplicitlyClosed = true
		return
	}
	n.Unclosed = true
	b.error(n.Offset, fmt.Sprintf("tag <%s> has no matching end tag.", n.Tag))
}

func (b *builder) finish() {
	for i := len(b.stack) - 1; i >= 0; i-- {
		b.closeUnterminated(b.stack[i])
	}
	b.stack = nil
}

// restoreAttrCase replaces the tokenizer's lower-cased attribute keys with
// the names as written, when the raw tag lines up with the parsed attributes.
func restoreAttrCase(attrs []Attr, raw string) {
	if len(attrs) == 0 {
		return
	}
	names := rawAttrNames(raw)
	if len(names) != len(attrs) {
		return
	}
	for i, name := range names {
		if !strings.EqualFold(name, attrs[i].Key) {
			return
		}
	}
	for i, name := range names {
		attrs[i].Key = name
	}
}

// rawAttrNames scans a raw start tag and returns its attribute names.
func rawAttrNames(raw string) []string {
	s := strings.TrimPrefix(raw, "<")
	i := strings.IndexAny(s, " \t\n\r\f/>")
	if i < 0 {
		return nil
	}
	s = s[i:]

	var names []string
	for {
		s = strings.TrimLeft(s, " \t\n\r\f/")
		if s == "" || s[0] == '>' {
			return names
		}
		end := 1
		for end < len(s) && !strings.ContainsRune(" \t\n\r\f/>=", rune(s[end])) {
			end++
		}
		names = append(names, s[:end])
		s = strings.TrimLeft(s[end:], " \t\n\r\f")
		if !strings.HasPrefix(s, "=") {
			continue
		}
		s = strings.TrimLeft(s[1:], " \t\n\r\f")
		if s == "" {
			return names
		}
		if q := s[0]; q == '"' || q == '\'' {
			closing := strings.IndexByte(s[1:], q)
			if closing < 0 {
				return names
			}
			s = s[closing+2:]
			continue
		}
		end = strings.IndexAny(s, " \t\n\r\f>")
		if end < 0 {
			return names
		}
		s = s[end:]
	}
}

// rawTagName extracts the tag name as written from a raw start or end tag.
func rawTagName(raw string, end bool) string {
	s := strings.TrimPrefix(raw, "<")
	if end {
		s = strings.TrimPrefix(s, "/")
	}
	i := strings.IndexAny(s, " \t\n\r\f/>")
	if i < 0 {
		return s
	}
	return s[:i]
}

package compiler

import (
	"fmt"
	"strings"

	"github.com/alnah/go-htmlloader/internal/markup"
)

var (
	blockElements = tagSet("address article aside blockquote details dialog div dl fieldset " +
		"figcaption figure footer form h1 h2 h3 h4 h5 h6 header hgroup hr main menu nav ol p pre " +
		"section table ul")

	interactiveElements = tagSet("a button details embed iframe label select textarea")

	obsoleteElements = tagSet("acronym applet basefont bgsound big blink center dir font frame " +
		"frameset isindex keygen marquee menuitem nobr noframes plaintext rb rtc spacer strike tt xmp")

	presentationalAttrs = tagSet("align bgcolor background border cellpadding cellspacing " +
		"color face hspace vspace nowrap valign frameborder marginheight marginwidth")

	knownDirectives = tagSet("v-if v-else-if v-else v-for v-show v-html v-text v-model " +
		"v-on v-bind v-pre v-cloak v-once v-slot")

	// allowedParents lists the elements a given element may appear in.
	allowedParents = map[string]map[string]bool{
		"li":       tagSet("ul ol menu"),
		"dt":       tagSet("dl div"),
		"dd":       tagSet("dl div"),
		"tr":       tagSet("table thead tbody tfoot"),
		"td":       tagSet("tr"),
		"th":       tagSet("tr"),
		"thead":    tagSet("table"),
		"tbody":    tagSet("table"),
		"tfoot":    tagSet("table"),
		"caption":  tagSet("table"),
		"colgroup": tagSet("table"),
		"col":      tagSet("colgroup"),
		"option":   tagSet("select datalist optgroup"),
		"optgroup": tagSet("select"),
		"legend":   tagSet("fieldset"),
		"summary":  tagSet("details"),
	}

	// allowedChildren lists the only elements a given element may contain.
	allowedChildren = map[string]map[string]bool{
		"ul":     tagSet("li"),
		"ol":     tagSet("li"),
		"dl":     tagSet("dt dd div"),
		"tr":     tagSet("td th"),
		"select": tagSet("option optgroup hr"),
	}
)

// Validate reports structural problems of a template in document order.
// Warnings never prevent compilation.
func Validate(template string) []string {
	doc := markup.Parse(template)
	v := &validator{doc: doc}
	markup.Walk(doc.Children, v.visit)
	return v.warnings
}

type validator struct {
	doc      *markup.Document
	warnings []string
}

func (v *validator) warn(n *markup.Node, format string, args ...any) {
	pos := v.doc.Position(n.Offset)
	v.warnings = append(v.warnings,
		fmt.Sprintf("%s (line %d, column %d)", fmt.Sprintf(format, args...), pos.Line, pos.Column))
}

func (v *validator) visit(n *markup.Node) bool {
	if n.Type != markup.ElementNode {
		return true
	}
	name := n.Name()

	v.checkAttributes(n)
	if obsoleteElements[name] {
		v.warn(n, "<%s> is obsolete and should not be used.", n.Tag)
	}
	if name == "img" && !hasAnyAttr(n, "alt", ":alt", "v-bind:alt") {
		v.warn(n, "<img> is missing an alt attribute.")
	}
	if exp, ok := n.Attr("v-for"); ok && name != "template" && name != "slot" &&
		!hasAnyAttr(n, "key", ":key", "v-bind:key") {
		v.warn(n, "<%s v-for=%q> should have an explicit :key.", n.Tag, exp)
	}
	v.checkNesting(n)

	// Content under v-pre is emitted verbatim.
	return !n.HasAttr("v-pre")
}

func (v *validator) checkAttributes(n *markup.Node) {
	seen := make(map[string]bool, len(n.Attrs))
	for _, a := range n.Attrs {
		key := normalizeAttr(a.Key)
		if seen[key] {
			v.warn(n, "duplicate attribute %q on <%s>.", a.Key, n.Tag)
		}
		seen[key] = true

		if strings.HasPrefix(a.Key, "v-") {
			dir, _, _ := strings.Cut(a.Key, ":")
			dir, _, _ = strings.Cut(dir, ".")
			if !knownDirectives[dir] {
				v.warn(n, "unknown directive %q on <%s>; make sure it is registered as a custom directive.", dir, n.Tag)
			}
		}
		if presentationalAttrs[strings.ToLower(a.Key)] && markup.IsHTMLTag(n.Name()) {
			v.warn(n, "presentational attribute %q on <%s> is obsolete; use CSS instead.", a.Key, n.Tag)
		}
	}
}

func normalizeAttr(key string) string {
	switch {
	case strings.HasPrefix(key, "v-bind:"):
		return ":" + strings.TrimPrefix(key, "v-bind:")
	case strings.HasPrefix(key, "v-on:"):
		return "@" + strings.TrimPrefix(key, "v-on:")
	}
	return key
}

func (v *validator) checkNesting(n *markup.Node) {
	name := n.Name()
	parent := n.Parent
	if parent == nil || !markup.IsHTMLTag(name) {
		return
	}
	pname := parent.Name()
	// Templates, slots and components decide their own placement at runtime.
	if pname == "template" || pname == "slot" || !markup.IsHTMLTag(pname) {
		return
	}

	if blockElements[name] && markup.AcceptsOnlyPhrasing(pname) {
		v.warn(n, "<%s> cannot be a child of <%s>, according to HTML specifications.", n.Tag, parent.Tag)
	}
	if interactiveElements[name] || (name == "input" && !isHiddenInput(n)) {
		for a := parent; a != nil; a = a.Parent {
			if an := a.Name(); an == "a" || an == "button" {
				v.warn(n, "<%s> cannot be nested inside <%s>: interactive content is not allowed there.", n.Tag, a.Tag)
				break
			}
		}
	}
	if allowed, ok := allowedParents[name]; ok && !allowed[pname] {
		v.warn(n, "<%s> cannot be a child of <%s>, according to HTML specifications.", n.Tag, parent.Tag)
		return
	}
	if allowed, ok := allowedChildren[pname]; ok && !allowed[name] && name != "script" {
		v.warn(n, "<%s> cannot be a child of <%s>, according to HTML specifications.", n.Tag, parent.Tag)
	}
}

func isHiddenInput(n *markup.Node) bool {
	typ, _ := n.Attr("type")
	return strings.EqualFold(typ, "hidden")
}

func hasAnyAttr(n *markup.Node, keys ...string) bool {
	for _, k := range keys {
		if n.HasAttr(k) {
			return true
		}
	}
	return false
}

func tagSet(names string) map[string]bool {
	m := make(map[string]bool)
	for _, n := range strings.Fields(names) {
		m[n] = true
	}
	return m
}

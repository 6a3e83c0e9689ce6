package markup

import "strings"

func set(names string) map[string]bool {
	m := make(map[string]bool)
	for _, n := range strings.Fields(names) {
		m[n] = true
	}
	return m
}

var htmlTags = set(`
	html body base head link meta style title
	address article aside footer header h1 h2 h3 h4 h5 h6 hgroup nav section
	div dd dl dt figcaption figure picture hr img li main ol p pre ul
	a b abbr bdi bdo br cite code data dfn em i kbd mark q rp rt rtc ruby
	s samp small span strong sub sup time u var wbr area audio map track video
	embed object param source canvas script noscript del ins
	caption col colgroup table thead tbody td th tr
	button datalist fieldset form input label legend meter optgroup option
	output progress select textarea
	details dialog menu menuitem summary
	content element shadow template blockquote iframe tfoot`)

var svgTags = set(`
	svg animate circle clippath cursor defs desc ellipse filter font-face
	foreignobject g glyph image line marker mask missing-glyph path pattern
	polygon polyline rect switch symbol text textpath tspan use view`)

// phrasingTags may appear where only phrasing content is allowed.
var phrasingTags = set(`
	a abbr audio b bdi bdo br button canvas cite code data datalist del dfn
	em embed i iframe img input ins kbd label map mark meter noscript object
	output picture progress q ruby rp rt s samp script select slot small span
	strong sub sup svg template textarea time u var video wbr math`)

// IsHTMLTag reports whether the lower-cased name is a standard HTML element.
func IsHTMLTag(name string) bool { return htmlTags[name] }

// IsSVGTag reports whether the lower-cased name is a standard SVG element.
func IsSVGTag(name string) bool { return svgTags[name] }

// IsReservedTag reports whether the name is a platform element rather than
// a component.
func IsReservedTag(name string) bool { return htmlTags[name] || svgTags[name] }

// IsPhrasing reports whether the lower-cased name is phrasing content.
// Unknown elements and components are treated as phrasing.
func IsPhrasing(name string) bool {
	if !IsReservedTag(name) {
		return true
	}
	return phrasingTags[name]
}

// phrasingContainers are flow elements whose content model is phrasing only.
var phrasingContainers = set(`p h1 h2 h3 h4 h5 h6 dt legend summary caption pre`)

// AcceptsOnlyPhrasing reports whether the element may only contain phrasing
// content.
func AcceptsOnlyPhrasing(name string) bool {
	return phrasingContainers[name] || IsPhrasing(name)
}

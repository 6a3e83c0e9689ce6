package compiler

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

var (
	interpolationRE = regexp.MustCompile(`\{\{((?:.|\r?\n)+?)\}\}`)
	whitespaceRE    = regexp.MustCompile(`[ \f\t\r\n]+`)
)

// interpolation is one {{ }} region of a text node.
type interpolation struct {
	Exp    string
	Offset int // byte offset within the text
}

// parseText splits text into literal and interpolated parts and returns the
// concatenation code. ok is false when text has no interpolation.
func parseText(text string) (code string, exps []interpolation, ok bool) {
	matches := interpolationRE.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return "", nil, false
	}

	var parts []string
	last := 0
	for _, m := range matches {
		if m[0] > last {
			parts = append(parts, jsString(text[last:m[0]]))
		}
		exp := strings.TrimSpace(text[m[2]:m[3]])
		exps = append(exps, interpolation{Exp: exp, Offset: m[0]})
		parts = append(parts, "_s("+exp+")")
		last = m[1]
	}
	if last < len(text) {
		parts = append(parts, jsString(text[last:]))
	}
	return strings.Join(parts, "+"), exps, true
}

// jsString encodes s as a JavaScript string literal. U+2028 and U+2029 are
// escaped so the literal stays valid in every engine.
func jsString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

// condense collapses whitespace runs to a single space and trims the ends.
func condense(s string) string {
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(s, " "))
}

// styleObject converts a static style attribute into an object literal with
// declarations in source order.
func styleObject(css string) string {
	var decls []string
	depth := 0
	start := 0
	flush := func(end int) {
		decl := css[start:end]
		name, value, ok := strings.Cut(decl, ":")
		name, value = strings.TrimSpace(name), strings.TrimSpace(value)
		if ok && name != "" {
			decls = append(decls, jsString(name)+":"+jsString(value))
		}
	}
	for i := 0; i < len(css); i++ {
		switch css[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ';':
			if depth == 0 {
				flush(i)
				start = i + 1
			}
		}
	}
	flush(len(css))
	return "{" + strings.Join(decls, ",") + "}"
}

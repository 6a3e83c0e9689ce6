package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/alnah/go-htmlloader/internal/markup"
)

// ScopeNone disables class scoping.
const ScopeNone = "none"

// scopeAttr opens a nested scope on an element.
const scopeAttr = "data-scope"

var (
	scopeNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)
	classSelector    = regexp.MustCompile(`\.(-?[_A-Za-z][_A-Za-z0-9-]*)`)
)

// ValidScopeName reports whether name can suffix a class name.
func ValidScopeName(name string) bool {
	return name == ScopeNone || scopeNamePattern.MatchString(name)
}

// NewScopeRewriter returns the stage that suffixes class names with their
// scope. root is the scope of the whole template; ScopeNone or "" leaves the
// template unscoped until an element opens a scope with data-scope.
//
// Inside a scope, class token c becomes c__scope, both in class attributes
// and in the class selectors of <style> elements.
func NewScopeRewriter(root string) Transformer {
	if root == "" {
		root = ScopeNone
	}
	return treeStage{
		name: "scope",
		match: func(s string) bool {
			return root != ScopeNone || containsFold(s, scopeAttr)
		},
		rewrite: func(_ context.Context, nodes []*markup.Node) ([]*markup.Node, error) {
			if !ValidScopeName(root) {
				return nil, fmt.Errorf("invalid scope name %q", root)
			}
			return nodes, scopeNodes(nodes, root)
		},
	}
}

func scopeNodes(nodes []*markup.Node, scope string) error {
	for _, n := range nodes {
		if n.Type != markup.ElementNode {
			continue
		}
		current := scope
		if v, ok := n.Attr(scopeAttr); ok {
			if !ValidScopeName(v) {
				return fmt.Errorf("invalid scope name %q", v)
			}
			current = v
			n.RemoveAttr(scopeAttr)
		}

		if current != ScopeNone {
			if class, ok := n.Attr("class"); ok {
				n.SetAttr("class", scopeClassList(class, current))
			}
			if n.IsElement("style") {
				for _, c := range n.Children {
					if c.Type == markup.TextNode {
						c.SetText(ScopeCSS(c.Data, current))
					}
				}
			}
		}
		if err := scopeNodes(n.Children, current); err != nil {
			return err
		}
	}
	return nil
}

func scopeClassList(list, scope string) string {
	fields := strings.Fields(list)
	for i, f := range fields {
		fields[i] = scopeClass(f, scope)
	}
	return strings.Join(fields, " ")
}

func scopeClass(name, scope string) string {
	suffix := "__" + scope
	if strings.HasSuffix(name, suffix) {
		return name
	}
	return name + suffix
}

// ScopeCSS suffixes the class selectors of every style rule in css. At-rule
// preludes, declarations, comments and strings are left untouched.
func ScopeCSS(css, scope string) string {
	var sb strings.Builder
	segStart := 0
	for i := 0; i < len(css); i++ {
		switch c := css[i]; c {
		case '/':
			if i+1 < len(css) && css[i+1] == '*' {
				end := strings.Index(css[i+2:], "*/")
				if end < 0 {
					i = len(css) - 1
				} else {
					i += end + 3
				}
			}
		case '"', '\'':
			i = skipCSSString(css, i)
		case '{':
			prelude := css[segStart:i]
			if strings.HasPrefix(strings.TrimSpace(stripCSSComments(prelude)), "@") {
				sb.WriteString(prelude)
			} else {
				sb.WriteString(scopeSelectors(prelude, scope))
			}
			sb.WriteByte('{')
			segStart = i + 1
		case '}', ';':
			sb.WriteString(css[segStart : i+1])
			segStart = i + 1
		}
	}
	sb.WriteString(css[min(segStart, len(css)):])
	return sb.String()
}

func scopeSelectors(prelude, scope string) string {
	rewrite := func(s string) string {
		return classSelector.ReplaceAllStringFunc(s, func(m string) string {
			return "." + scopeClass(m[1:], scope)
		})
	}

	var sb strings.Builder
	for {
		start := strings.Index(prelude, "/*")
		if start < 0 {
			sb.WriteString(rewrite(prelude))
			return sb.String()
		}
		end := strings.Index(prelude[start+2:], "*/")
		if end < 0 {
			sb.WriteString(rewrite(prelude[:start]))
			sb.WriteString(prelude[start:])
			return sb.String()
		}
		end += start + 4
		sb.WriteString(rewrite(prelude[:start]))
		sb.WriteString(prelude[start:end])
		prelude = prelude[end:]
	}
}

// skipCSSString returns the index of the quote closing the string opened at i.
func skipCSSString(css string, i int) int {
	quote := css[i]
	for j := i + 1; j < len(css); j++ {
		switch css[j] {
		case '\\':
			j++
		case quote:
			return j
		}
	}
	return len(css) - 1
}

func stripCSSComments(s string) string {
	for {
		start := strings.Index(s, "/*")
		if start < 0 {
			return s
		}
		end := strings.Index(s[start+2:], "*/")
		if end < 0 {
			return s[:start]
		}
		s = s[:start] + s[start+2+end+2:]
	}
}
